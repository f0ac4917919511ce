// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// Light represents a light illuminating a 3D scene. Lights are stored on
// the [Scene] lights list and are not part of the render tree.
type Light interface {

	// AsLightBase returns the [LightBase] for this light.
	AsLightBase() *LightBase

	// Kind returns the scene-document tag for this light.
	Kind() string
}

// LightBase provides the core implementation of the [Light] interface.
type LightBase struct {

	// Name of the light.
	Name string

	// On is whether the light contributes to the scene.
	On bool

	// Intensity multiplies the color, 1 = authored brightness.
	Intensity float32

	// Color is the resolved light color at full intensity.
	Color color.RGBA

	// ColorRef is the color exactly as authored, re-emitted verbatim on
	// save; empty after an editor color change, in which case saves emit
	// the resolved color as hex.
	ColorRef string
}

func (lb *LightBase) AsLightBase() *LightBase { return lb }

func (lb *LightBase) defaults(name string) {
	lb.Name = name
	lb.On = true
	lb.Intensity = 1
	lb.Color = color.RGBA{255, 255, 255, 255}
}

// DirectionalLight illuminates along a direction with no attenuation,
// like the sun. The default direction is straight down.
type DirectionalLight struct {
	LightBase

	// Dir is the light direction vector.
	Dir math32.Vector3
}

func (dl *DirectionalLight) Kind() string { return "DirectionalLight" }

// NewDirectionalLight returns a directional light pointing down.
func NewDirectionalLight(name string) *DirectionalLight {
	lt := &DirectionalLight{}
	lt.defaults(name)
	lt.Dir.Set(0, -1, 0)
	return lt
}

// PointLight is an omnidirectional light with a position.
type PointLight struct {
	LightBase

	// Pos is the light position in world space.
	Pos math32.Vector3
}

func (pl *PointLight) Kind() string { return "PointLight" }

// NewPointLight returns a point light at the origin.
func NewPointLight(name string) *PointLight {
	lt := &PointLight{}
	lt.defaults(name)
	return lt
}

// SpotLight has a position, a direction, and inner/outer cone angles.
type SpotLight struct {
	LightBase

	// Pos is the light position in world space.
	Pos math32.Vector3

	// Dir is the cone axis direction.
	Dir math32.Vector3

	// InnerAngle is the full-intensity cone half angle in degrees.
	InnerAngle float32

	// OuterAngle is the falloff cone half angle in degrees.
	OuterAngle float32
}

func (sl *SpotLight) Kind() string { return "SpotLight" }

// NewSpotLight returns a spot light at the origin pointing down, with
// 30/45 degree cone angles.
func NewSpotLight(name string) *SpotLight {
	lt := &SpotLight{}
	lt.defaults(name)
	lt.Dir.Set(0, -1, 0)
	lt.InnerAngle = 30
	lt.OuterAngle = 45
	return lt
}
