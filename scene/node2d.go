// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"
	"sync"

	"cogentcore.org/core/math32"
)

// Node2D is the base for all 2D visual nodes: position, size, rotation,
// tint (alpha carries opacity), an optional camera-relative positioning
// mode, and a backing texture managed through the [RenderContext].
type Node2D struct {
	NodeBase

	// Pos is the world position of the node's top-left corner.
	// When FollowCamera is set, Pos is recomputed every update from the
	// camera position plus Base.
	Pos math32.Vector2

	// Size is the drawn size in world units.
	Size math32.Vector2

	// Rotation is in degrees, clockwise.
	Rotation float32

	// Tint modulates the texture; the alpha channel is the node opacity
	// (255 = opaque). Defaults to opaque white.
	Tint color.RGBA

	// FollowCamera reinterprets the authored position as an offset from
	// the active camera. The reinterpretation happens exactly once, at
	// parse time: the authored x,y become Base.
	FollowCamera bool

	// Base is the offset from the camera when FollowCamera is set.
	Base math32.Vector2

	// TextureKey is the render-context cache key of the bound texture.
	TextureKey string

	mu     sync.Mutex
	render RenderContext
	tex    TextureHandle
}

func (n *Node2D) init2d(nd Node, kind, name string) {
	n.init(nd, kind, name)
	n.Tint = color.RGBA{255, 255, 255, 255}
}

// AsNode2D returns this node as a *Node2D.
func (n *Node2D) AsNode2D() *Node2D { return n }

// Opacity returns the node opacity in 0..1, derived from the tint alpha.
func (n *Node2D) Opacity() float32 { return float32(n.Tint.A) / 255 }

// SetOpacity sets the tint alpha from a 0..1 opacity value.
func (n *Node2D) SetOpacity(op float32) {
	n.Tint.A = uint8(math32.Clamp(op, 0, 1)*255 + 0.5)
}

// Texture returns the currently bound texture handle, or nil while the
// asynchronous load is still in flight.
func (n *Node2D) Texture() TextureHandle {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tex
}

// SetTexture binds a loaded texture to this node. If the node was
// disposed while the load was in flight, the texture is released back
// to the context instead of mutating a dead node.
func (n *Node2D) SetTexture(rc RenderContext, key string, tex TextureHandle) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.disposed.Load() {
		if rc != nil {
			rc.ReleaseTexture(key)
		}
		return
	}
	if n.tex != nil && n.render != nil {
		n.render.ReleaseTexture(n.TextureKey)
	}
	n.render = rc
	n.TextureKey = key
	n.tex = tex
}

// Update applies followCamera positioning and updates children.
func (n *Node2D) Update(dt float32, cam *Camera) {
	if !n.Active {
		return
	}
	if n.FollowCamera && cam != nil {
		n.Pos = cam.Pos.Add(n.Base)
	}
	n.UpdateChildren(dt, cam)
}

// Draw draws the backing texture, then children.
func (n *Node2D) Draw(rn Renderer) {
	if !n.Visible {
		return
	}
	if tex := n.Texture(); tex != nil {
		rn.DrawTexture(tex, n.Pos, n.Size, n.Rotation, n.Tint)
	}
	n.DrawChildren(rn)
}

// Dispose disposes children first, then releases the backing texture.
func (n *Node2D) Dispose() {
	if !n.dispose() {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.tex != nil && n.render != nil {
		n.render.ReleaseTexture(n.TextureKey)
	}
	n.tex = nil
	n.render = nil
}
