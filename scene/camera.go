// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "cogentcore.org/core/math32"

// Camera is the authored 2D view onto a scene. The editor renders with
// its own transient camera; this one is what gets saved.
type Camera struct {
	NodeBase

	// Pos is the camera position in world units.
	Pos math32.Vector2

	// Zoom is the view scale factor (1 = unscaled).
	Zoom float32

	// Rotation is the view rotation in degrees.
	Rotation float32

	// Size is the view size in world units. When the document omits it,
	// the parser fills in the render context's target resolution.
	Size math32.Vector2

	// ExplicitSize records whether the document declared width/height;
	// defaulted sizes are not written back.
	ExplicitSize bool
}

// NewCamera returns a new named 2D camera with default view parameters.
func NewCamera(name string) *Camera {
	cm := &Camera{}
	cm.init(cm, "Camera", name)
	cm.Zoom = 1
	return cm
}

// Camera3D is the authored 3D view: position, look-at target, and
// perspective projection parameters.
type Camera3D struct {
	NodeBase

	// Pos is the camera position in world space.
	Pos math32.Vector3

	// Target is the look-at point.
	Target math32.Vector3

	// FOV is the vertical field of view in degrees.
	FOV float32

	// Near and Far are the clip plane distances.
	Near float32
	Far  float32

	// Size is the projection target size; defaulted from the render
	// context when the document omits it.
	Size math32.Vector2

	// ExplicitSize records whether the document declared width/height.
	ExplicitSize bool
}

// NewCamera3D returns a new named 3D camera with standard perspective
// defaults (60 degree FOV, 0.1..1000 clip range).
func NewCamera3D(name string) *Camera3D {
	cm := &Camera3D{}
	cm.init(cm, "Camera3D", name)
	cm.FOV = 60
	cm.Near = 0.1
	cm.Far = 1000
	return cm
}
