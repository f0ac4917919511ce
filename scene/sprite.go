// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"
	"strconv"
	"strings"
)

// placeholderSize is the width/height a sprite gets when the document
// omits them: non-zero so draw geometry is never degenerate.
const placeholderSize = 64

// Sprite is a single-texture 2D node.
type Sprite struct {
	Node2D

	// ImageSrc is the resolved URL of the sprite texture.
	ImageSrc string

	// SrcRef is the image source exactly as authored in the document
	// (typically relative to the document base); preserved so saving
	// does not rewrite references to absolute form.
	SrcRef string
}

// NewSprite returns a new named sprite with placeholder size.
func NewSprite(name string) *Sprite {
	sp := &Sprite{}
	sp.init2d(sp, "Sprite", name)
	sp.Size.Set(placeholderSize, placeholderSize)
	return sp
}

// FrameKind discriminates the two frame-list representations an
// [Animation] can hold. The classification happens once, at parse time,
// and is preserved through serialization: a purely numeric comma list is
// sprite-sheet indices, anything else is individual image paths.
type FrameKind int32

const (
	// FrameIndices means frames index into the sprite sheet.
	FrameIndices FrameKind = iota

	// FramePaths means each frame is a separate image path.
	FramePaths
)

// Animation is one named playback sequence of an [AnimatedSprite].
type Animation struct {

	// Name of the animation within its sprite.
	Name string

	// Kind records whether Frames holds indices or paths.
	Kind FrameKind

	// Indices are the sprite-sheet frame indices (Kind == FrameIndices).
	Indices []int

	// Paths are the per-frame image paths (Kind == FramePaths).
	Paths []string

	// Speed is the playback rate in frames per second.
	Speed float32

	// Loop restarts the animation when it reaches the last frame;
	// otherwise playback holds on the last frame.
	Loop bool

	// Autoplay marks this animation as the one playing when the scene
	// starts. At most one animation per sprite should set it.
	Autoplay bool
}

// NumFrames returns the frame count regardless of kind.
func (an *Animation) NumFrames() int {
	if an.Kind == FramePaths {
		return len(an.Paths)
	}
	return len(an.Indices)
}

// FramesString reconstructs the frames attribute in the same
// numeric-vs-path form it was parsed in.
func (an *Animation) FramesString() string {
	if an.Kind == FramePaths {
		return strings.Join(an.Paths, ",")
	}
	strs := make([]string, len(an.Indices))
	for i, ix := range an.Indices {
		strs[i] = strconv.Itoa(ix)
	}
	return strings.Join(strs, ",")
}

// ParseFrames classifies and parses a frames attribute value.
// A comma-separated list whose every token is an integer is parsed as
// sprite-sheet indices; a list containing any non-numeric token is
// parsed as individual image paths. This ambiguity is part of the
// document grammar and must not be "fixed": reclassifying would
// silently alter accepted scene files.
func ParseFrames(val string) (FrameKind, []int, []string) {
	toks := strings.Split(val, ",")
	idxs := make([]int, 0, len(toks))
	paths := make([]string, 0, len(toks))
	numeric := true
	for _, tok := range toks {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		paths = append(paths, tok)
		if numeric {
			ix, err := strconv.Atoi(tok)
			if err != nil {
				numeric = false
				continue
			}
			idxs = append(idxs, ix)
		}
	}
	if numeric {
		return FrameIndices, idxs, nil
	}
	return FramePaths, nil, paths
}

// AnimatedSprite is a sprite with a table of named animations.
type AnimatedSprite struct {
	Sprite

	// Animations in declaration order.
	Animations []*Animation

	// Current is the playing animation, or nil.
	Current *Animation

	// Frame is the index into the current animation's frame list.
	Frame int

	frameTime float32
}

// NewAnimatedSprite returns a new named animated sprite.
func NewAnimatedSprite(name string) *AnimatedSprite {
	as := &AnimatedSprite{}
	as.init2d(as, "AnimatedSprite", name)
	as.Size.Set(placeholderSize, placeholderSize)
	return as
}

// AnimationByName returns the named animation, or nil.
func (as *AnimatedSprite) AnimationByName(name string) *Animation {
	for _, an := range as.Animations {
		if an.Name == name {
			return an
		}
	}
	return nil
}

// AddAnimation appends an animation. If it is the first one declared, or
// is marked autoplay, it becomes the current animation: a sprite with no
// autoplay animation defaults to its first declared one.
func (as *AnimatedSprite) AddAnimation(an *Animation) {
	as.Animations = append(as.Animations, an)
	if an.Autoplay || as.Current == nil {
		as.Current = an
	}
}

// SetAnimation switches playback to the named animation, restarting at
// frame zero. Unknown names are logged and ignored.
func (as *AnimatedSprite) SetAnimation(name string) {
	an := as.AnimationByName(name)
	if an == nil {
		slog.Warn("scene.AnimatedSprite: no such animation", "sprite", as.Path(), "animation", name)
		return
	}
	as.Current = an
	as.Frame = 0
	as.frameTime = 0
}

// Update advances the current animation by dt seconds.
func (as *AnimatedSprite) Update(dt float32, cam *Camera) {
	if !as.Active {
		return
	}
	if an := as.Current; an != nil && an.Speed > 0 && an.NumFrames() > 0 {
		as.frameTime += dt
		step := 1 / an.Speed
		for as.frameTime >= step {
			as.frameTime -= step
			if as.Frame+1 < an.NumFrames() {
				as.Frame++
			} else if an.Loop {
				as.Frame = 0
			}
		}
	}
	if as.FollowCamera && cam != nil {
		as.Pos = cam.Pos.Add(as.Base)
	}
	as.UpdateChildren(dt, cam)
}
