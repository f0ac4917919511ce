// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path"
	"strings"
	"sync"
	"time"

	"cogentcore.org/core/math32"
)

// Test doubles for the external collaborators.

type testTexture struct {
	w, h float32
}

func (t *testTexture) Size() (float32, float32) { return t.w, t.h }

type testRender struct {
	mu       sync.Mutex
	w, h     float32
	textures map[string]*testTexture
	released []string
	loads    map[string]<-chan error
}

func newTestRender() *testRender {
	return &testRender{
		w: 800, h: 600,
		textures: make(map[string]*testTexture),
		loads:    make(map[string]<-chan error),
	}
}

func (r *testRender) TargetSize() (float32, float32) { return r.w, r.h }

func (r *testRender) AcquireTexture(key string) (TextureHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tex, ok := r.textures[key]
	return tex, ok
}

func (r *testRender) CreateTexture(key string, img image.Image) TextureHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := img.Bounds()
	tex := &testTexture{w: float32(b.Dx()), h: float32(b.Dy())}
	r.textures[key] = tex
	return tex
}

func (r *testRender) ReleaseTexture(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, key)
}

func (r *testRender) TrackLoad(key string, done <-chan error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads[key] = done
}

// awaitLoads blocks until every tracked load has settled.
func (r *testRender) awaitLoads() {
	r.mu.Lock()
	loads := make([]<-chan error, 0, len(r.loads))
	for _, ch := range r.loads {
		loads = append(loads, ch)
	}
	r.mu.Unlock()
	for _, ch := range loads {
		<-ch
	}
}

type testFetcher struct {
	files map[string][]byte
}

func (f *testFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, ok := f.files[url]
	if !ok {
		return nil, fmt.Errorf("not found: %s", url)
	}
	return data, nil
}

func (f *testFetcher) Resolve(base, ref string) string {
	if strings.Contains(ref, "://") || path.IsAbs(ref) {
		return ref
	}
	return path.Join(path.Dir(base), ref)
}

type testFonts struct {
	mu     sync.Mutex
	loaded []string
	fail   map[string]bool
}

func (f *testFonts) LoadFace(ctx context.Context, family, src string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[family] {
		return fmt.Errorf("no such font: %s", family)
	}
	f.loaded = append(f.loaded, family)
	return nil
}

func (f *testFonts) Measure(family string, size float32, text string) (float32, float32) {
	return 0.6 * size * float32(len(text)), size
}

type testClip struct {
	d time.Duration
}

func (c *testClip) Duration() time.Duration { return c.d }

type testDecoder struct {
	fail bool
}

func (d *testDecoder) Decode(ctx context.Context, src string) (Clip, error) {
	if d.fail {
		return nil, fmt.Errorf("decode failed: %s", src)
	}
	return &testClip{d: time.Second}, nil
}

type testPlayer struct {
	played  []Clip
	stopped []Clip
}

func (p *testPlayer) Play(clip Clip, loop bool, volume float32) {
	p.played = append(p.played, clip)
}

func (p *testPlayer) Stop(clip Clip) {
	p.stopped = append(p.stopped, clip)
}

// testRenderer records the names of drawn nodes, in draw order.
type testRenderer struct {
	drawn []string
}

func (r *testRenderer) DrawTexture(tex TextureHandle, pos, size math32.Vector2, rotation float32, tint color.RGBA) {
}

func (r *testRenderer) DrawText(t *Text) {
	r.drawn = append(r.drawn, t.Name)
}

func (r *testRenderer) DrawMesh(m *MeshNode) {
	r.drawn = append(r.drawn, m.Name)
}

// testLoader wires the doubles into a Loader over the given files.
func testLoader(files map[string][]byte) (*Loader, *testRender) {
	rc := newTestRender()
	return &Loader{
		Render: rc,
		Fonts:  &testFonts{},
		Audio:  &testDecoder{},
		Files:  &testFetcher{files: files},
	}, rc
}
