// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "image/color"

// MaterialDef is a named surface description shared by name across
// MeshNodes through the scene's material registry.
type MaterialDef struct {

	// Name keys the registry entry.
	Name string

	// Color is the resolved base color.
	Color color.RGBA

	// ColorRef is the color exactly as authored, re-emitted verbatim on
	// save; empty when the color was changed in the editor.
	ColorRef string

	// Emissive is the self-illumination color, default black (none).
	Emissive color.RGBA

	// EmissiveRef is the authored emissive color string.
	EmissiveRef string

	// Metallic is the metalness factor, 0..1.
	Metallic float32

	// Roughness is the surface roughness, 0..1.
	Roughness float32

	// TextureSrc is the albedo texture path, or empty for flat color.
	TextureSrc string
}

// NewMaterialDef returns a named material with an opaque white base
// color and a fully rough, non-metallic surface.
func NewMaterialDef(name string) *MaterialDef {
	return &MaterialDef{
		Name:      name,
		Color:     color.RGBA{255, 255, 255, 255},
		Roughness: 1,
	}
}
