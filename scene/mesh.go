// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"

	"cogentcore.org/core/math32"
)

// Primitive enumerates the inline mesh shapes a MeshNode or Mesh
// declaration can name instead of an imported file.
type Primitive int32

const (
	PrimitiveNone Primitive = iota
	PrimitiveCube
	PrimitiveSphere
	PrimitivePlane
	PrimitiveCylinder
)

var primitiveNames = map[string]Primitive{
	"cube":     PrimitiveCube,
	"sphere":   PrimitiveSphere,
	"plane":    PrimitivePlane,
	"cylinder": PrimitiveCylinder,
}

// PrimitiveByName returns the primitive for a source keyword, or
// PrimitiveNone when the source names a file or registry entry.
func PrimitiveByName(src string) Primitive {
	return primitiveNames[src]
}

func (p Primitive) String() string {
	for nm, pr := range primitiveNames {
		if pr == p {
			return nm
		}
	}
	return ""
}

// MeshDef is a named mesh descriptor: either an inline primitive with
// its parameters or a reference to an imported file (e.g. GLTF), whose
// geometry is produced by an external importer. Descriptors live in the
// scene's mesh registry and are shared by name across MeshNodes.
type MeshDef struct {

	// Name keys the registry entry.
	Name string

	// Source is the file path for imported meshes, or the primitive
	// keyword for inline shapes.
	Source string

	// Primitive is the parsed shape kind, PrimitiveNone for files.
	Primitive Primitive

	// Size is the extent of box-like primitives.
	Size math32.Vector3

	// Radius applies to sphere and cylinder primitives.
	Radius float32

	// Segments is the tessellation resolution for curved primitives.
	Segments int
}

// NewMeshDef returns a descriptor for the given source with default
// primitive parameters (unit size, 0.5 radius, 32 segments).
func NewMeshDef(name, source string) *MeshDef {
	md := &MeshDef{Name: name, Source: source, Primitive: PrimitiveByName(source)}
	md.Size.Set(1, 1, 1)
	md.Radius = 0.5
	md.Segments = 32
	return md
}

// MeshNode places a mesh in 3D space. Its Source either names a registry
// entry (possibly still loading) or an inline primitive, in which case
// the node owns a private descriptor.
type MeshNode struct {
	NodeBase

	// Pos is the node position in world space.
	Pos math32.Vector3

	// Rot is the euler rotation in degrees.
	Rot math32.Vector3

	// Scale is the per-axis scale factor.
	Scale math32.Vector3

	// Source names a mesh registry entry or an inline primitive.
	Source string

	// MaterialName names a material registry entry, or is empty for the
	// default material.
	MaterialName string

	// Inline holds the private descriptor for inline primitives,
	// carrying size/radius/segments authored on the node itself.
	Inline *MeshDef

	mesh     *MeshDef
	material *MaterialDef
}

// NewMeshNode returns a new named mesh node with identity transform.
func NewMeshNode(name string) *MeshNode {
	mn := &MeshNode{}
	mn.init(mn, "MeshNode", name)
	mn.Scale.Set(1, 1, 1)
	return mn
}

// Mesh returns the bound mesh descriptor, or nil while it is loading.
func (mn *MeshNode) Mesh() *MeshDef { return mn.mesh }

// Material returns the bound material, or nil while loading or unset.
func (mn *MeshNode) Material() *MaterialDef { return mn.material }

// Bind resolves the node's mesh and material references against the
// given scene's registries. Pending entries deliver via fan-out when
// they resolve; resolutions arriving after the node is disposed are
// discarded.
func (mn *MeshNode) Bind(sc *Scene) {
	if PrimitiveByName(mn.Source) != PrimitiveNone {
		if mn.Inline == nil {
			mn.Inline = NewMeshDef(mn.Name, mn.Source)
		}
		mn.mesh = mn.Inline
	} else if mn.Source != "" {
		sc.MeshDef(mn.Source).OnReady(func(md *MeshDef, err error) {
			if mn.IsDisposed() {
				return
			}
			if err != nil {
				slog.Error("scene.MeshNode: mesh load failed", "node", mn.Path(), "source", mn.Source, "err", err)
				return
			}
			mn.mesh = md
		})
	}
	if mn.MaterialName != "" {
		sc.MaterialDef(mn.MaterialName).OnReady(func(mt *MaterialDef, err error) {
			if mn.IsDisposed() {
				return
			}
			if err != nil {
				slog.Error("scene.MeshNode: material load failed", "node", mn.Path(), "material", mn.MaterialName, "err", err)
				return
			}
			mn.material = mt
		})
	}
}

// Draw delegates mesh rendering to the renderer, then draws children.
func (mn *MeshNode) Draw(rn Renderer) {
	if !mn.Visible {
		return
	}
	rn.DrawMesh(mn)
	mn.DrawChildren(rn)
}

// Dispose disposes children first, then drops resource bindings.
func (mn *MeshNode) Dispose() {
	if !mn.dispose() {
		return
	}
	mn.mesh = nil
	mn.material = nil
}
