// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"context"
	"image"
	"image/color"
	"time"

	"cogentcore.org/core/math32"
)

// This file defines the collaborator interfaces the scene core consumes.
// Rendering, text rasterization, audio playback, and file IO all live
// outside this package; the core only sequences them.

// TextureHandle is an opaque handle to a GPU texture owned by the
// [RenderContext]. The scene graph never touches pixel data after upload.
type TextureHandle interface {

	// Size returns the texture dimensions in pixels.
	Size() (width, height float32)
}

// RenderContext is the rendering-backend surface the scene core needs:
// target resolution for camera defaults, a key-addressed texture cache,
// and the async-load tracking hook.
type RenderContext interface {

	// TargetSize returns the current render-target resolution, used as
	// the default width/height for cameras that do not declare one.
	TargetSize() (width, height float32)

	// AcquireTexture returns the cached texture for the given key,
	// incrementing its reference count, or false if not cached.
	AcquireTexture(key string) (TextureHandle, bool)

	// CreateTexture uploads the given image under the given cache key
	// and returns its handle with one reference held.
	CreateTexture(key string, img image.Image) TextureHandle

	// ReleaseTexture decrements the reference count for the given key,
	// freeing the texture when it reaches zero.
	ReleaseTexture(key string)

	// TrackLoad registers an in-flight asynchronous load under the given
	// key so the host can await "all assets so far" having settled.
	// The channel receives exactly one value: nil or the load error.
	TrackLoad(key string, done <-chan error)
}

// Renderer is the per-frame draw surface passed to [Scene.Draw].
// It is distinct from [RenderContext]: the context owns resources,
// the renderer consumes one frame of draw calls.
type Renderer interface {

	// DrawTexture draws a textured quad at the given position and size,
	// rotated by rotation degrees and modulated by tint (alpha = opacity).
	DrawTexture(tex TextureHandle, pos, size math32.Vector2, rotation float32, tint color.RGBA)

	// DrawText rasterizes and draws the given text node. Text
	// rasterization is a backend concern (fonts must have been
	// registered through the [FontLibrary]).
	DrawText(t *Text)

	// DrawMesh draws the given 3D mesh node using its bound mesh and
	// material definitions.
	DrawMesh(m *MeshNode)
}

// FontLibrary is the text/font subsystem: asynchronous font-face
// registration by family name plus the text measurement the scene
// needs for layout (e.g., clickable text bounds).
type FontLibrary interface {

	// LoadFace fetches and registers the font face at src under the
	// given family name. Blocks until registered or failed.
	LoadFace(ctx context.Context, family, src string) error

	// Measure returns the rendered size of the given text in the given
	// family at the given size, in pixels.
	Measure(family string, size float32, text string) (width, height float32)
}

// Clip is a decoded, playable audio buffer handle.
type Clip interface {

	// Duration returns the play length of the decoded clip.
	Duration() time.Duration
}

// AudioDecoder decodes an audio source URL into a playable [Clip].
// Decoding happens during parsing; playback is always deferred.
type AudioDecoder interface {
	Decode(ctx context.Context, src string) (Clip, error)
}

// AudioPlayer is the playback half of the audio subsystem, used by
// [Scene.Activate] to trigger deferred autoplay intents and by
// [Scene.Dispose] to stop lifecycle-scoped audio.
type AudioPlayer interface {
	Play(clip Clip, loop bool, volume float32)
	Stop(clip Clip)
}

// Fetcher reads document and resource bytes and resolves relative
// references against a base location. Implementations include the
// sandboxed editor workspace and a plain HTTP fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Resolve resolves ref against the base document location.
	// Absolute refs pass through unchanged.
	Resolve(base, ref string) string
}
