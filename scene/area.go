// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "cogentcore.org/core/math32"

// ClickableArea is a hit-testable region. Width and height are nullable:
// nil (as opposed to zero) means "inherit the parent node's bounds", and
// that unset state survives parsing, editing, and serialization.
type ClickableArea struct {
	NodeBase

	// Pos is the offset of the region from its parent.
	Pos math32.Vector2

	// W is the region width, or nil to inherit the parent's width.
	W *float32

	// H is the region height, or nil to inherit the parent's height.
	H *float32

	// Synthesized marks a region auto-attached by the Text clickable
	// shortcut; such regions are not written back to the document.
	Synthesized bool
}

// NewClickableArea returns a new named hit region with unset bounds.
func NewClickableArea(name string) *ClickableArea {
	ca := &ClickableArea{}
	ca.init(ca, "ClickableArea", name)
	return ca
}

// Bounds returns the effective position and size of the region,
// inheriting unset dimensions from the parent when it is a 2D node.
func (ca *ClickableArea) Bounds() (pos, size math32.Vector2) {
	pos = ca.Pos
	if p2, ok := ca.Parent.(interface{ AsNode2D() *Node2D }); ok && ca.Parent != nil {
		pb := p2.AsNode2D()
		pos = pb.Pos.Add(ca.Pos)
		size = pb.Size
	}
	if ca.W != nil {
		size.X = *ca.W
	}
	if ca.H != nil {
		size.Y = *ca.H
	}
	return pos, size
}

// Contains reports whether the given point falls inside the region.
func (ca *ClickableArea) Contains(pt math32.Vector2) bool {
	pos, size := ca.Bounds()
	return pt.X >= pos.X && pt.X < pos.X+size.X && pt.Y >= pos.Y && pt.Y < pos.Y+size.Y
}
