// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "image/color"

// Skybox is the scene background: a flat color, an equirectangular
// panorama, or six cube face images. At most one skybox exists per
// scene.
type Skybox struct {

	// Color is the flat background color, used when no images are set.
	Color color.RGBA

	// ColorRef is the background color exactly as authored.
	ColorRef string

	// AmbientColor tints scene-wide ambient lighting.
	AmbientColor color.RGBA

	// AmbientColorRef is the authored ambient color string.
	AmbientColorRef string

	// Source is the panorama image path, if any.
	Source string

	// Equirectangular marks Source as an equirectangular projection
	// rather than a plain background image.
	Equirectangular bool

	// Faces are the six cube map face paths in +x,-x,+y,-y,+z,-z order.
	// All six are set or none are.
	Faces [6]string
}

// skyboxFaceAttrs are the document attribute names for the cube faces,
// index-aligned with [Skybox.Faces].
var skyboxFaceAttrs = [6]string{"px", "nx", "py", "ny", "pz", "nz"}

// NewSkybox returns a skybox with a black background and a dim gray
// ambient term.
func NewSkybox() *Skybox {
	return &Skybox{
		Color:        color.RGBA{0, 0, 0, 255},
		AmbientColor: color.RGBA{64, 64, 64, 255},
	}
}

// HasFaces reports whether all six cube face paths are set.
func (sb *Skybox) HasFaces() bool {
	for _, f := range sb.Faces {
		if f == "" {
			return false
		}
	}
	return true
}
