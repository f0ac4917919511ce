// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"slices"

	"cogentcore.org/core/base/ordmap"
)

// Scene owns everything loaded from one scene document: the root object
// trees, the authored cameras, scene-scoped audio, 3D lights, the skybox,
// and the name-keyed resource registries for meshes, materials, and
// fonts. The scene records declaration order independently of draw
// order, so documents round-trip without reordering.
type Scene struct {

	// Name of the scene, from the document root.
	Name string

	// Objects are the root nodes of the object trees, in declaration order.
	Objects []Node

	// Camera is the authored 2D camera, or nil.
	Camera *Camera

	// Camera3D is the authored 3D camera, or nil.
	Camera3D *Camera3D

	// Audio is the scene-scoped audio list, in declaration order.
	Audio []*AudioClip

	// Lights illuminate 3D content; they are not part of the object trees.
	Lights []Light

	// Sky is the scene background, or nil for none.
	Sky *Skybox

	// Meshes is the name-keyed mesh registry. Entries are created pending
	// when first referenced and resolved when the declaration arrives.
	Meshes ordmap.Map[string, *Resource[*MeshDef]]

	// Materials is the name-keyed material registry.
	Materials ordmap.Map[string, *Resource[*MaterialDef]]

	// Fonts maps family names to their registered faces.
	Fonts ordmap.Map[string, *FontFace]

	// BaseURL is the document location; relative resource paths resolve
	// against it.
	BaseURL string

	// decl records top-level declarations (Node or Light) in document
	// order, which drives serialization.
	decl []any

	// drawList is the layer-sorted root order, rebuilt lazily.
	drawList  []Node
	drawDirty bool

	// player is the audio output the scene was activated with, retained
	// so Dispose can stop scene-scoped playback.
	player AudioPlayer

	disposed bool
}

// NewScene returns a new empty named scene.
func NewScene(name string) *Scene {
	return &Scene{Name: name}
}

// IsDisposed reports whether Dispose has run on this scene.
func (sc *Scene) IsDisposed() bool { return sc.disposed }

// Decl returns the top-level declarations in document order. Each entry
// is a [Node] or a [Light]. The slice is owned by the scene.
func (sc *Scene) Decl() []any { return sc.decl }

// Add appends a root object tree, taking ownership.
func (sc *Scene) Add(n Node) {
	sc.Objects = append(sc.Objects, n)
	sc.decl = append(sc.decl, n)
	n.AsNodeBase().setSceneDown(sc)
	sc.drawDirty = true
}

// Remove detaches the given root object and disposes it.
// Returns false if it is not a root of this scene.
func (sc *Scene) Remove(n Node) bool {
	if !sc.Detach(n) {
		return false
	}
	n.Dispose()
	return true
}

// Detach removes the given root object without disposing it, so it can
// be moved to another scene. Returns false if not found.
func (sc *Scene) Detach(n Node) bool {
	idx := slices.Index(sc.Objects, n)
	if idx < 0 {
		return false
	}
	sc.Objects = slices.Delete(sc.Objects, idx, idx+1)
	sc.removeDecl(n)
	n.AsNodeBase().setSceneDown(nil)
	sc.drawDirty = true
	return true
}

// AddAudio appends a scene-scoped audio clip.
func (sc *Scene) AddAudio(au *AudioClip) {
	sc.Audio = append(sc.Audio, au)
	sc.decl = append(sc.decl, Node(au))
	au.Scene = sc
}

// RemoveAudio detaches and disposes the given clip, stopping it first if
// the scene has an active player. Returns false if not found.
func (sc *Scene) RemoveAudio(au *AudioClip) bool {
	idx := slices.Index(sc.Audio, au)
	if idx < 0 {
		return false
	}
	if sc.player != nil && au.Clip != nil {
		sc.player.Stop(au.Clip)
	}
	sc.Audio = slices.Delete(sc.Audio, idx, idx+1)
	sc.removeDecl(Node(au))
	au.Dispose()
	return true
}

// AddLight appends a light to the scene.
func (sc *Scene) AddLight(lt Light) {
	sc.Lights = append(sc.Lights, lt)
	sc.decl = append(sc.decl, lt)
}

// RemoveLight removes the given light. Returns false if not found.
func (sc *Scene) RemoveLight(lt Light) bool {
	idx := slices.Index(sc.Lights, lt)
	if idx < 0 {
		return false
	}
	sc.Lights = slices.Delete(sc.Lights, idx, idx+1)
	sc.removeDecl(lt)
	return true
}

// SetCamera installs the authored 2D camera. A replacement keeps the
// original declaration position; nil removes the camera.
func (sc *Scene) SetCamera(cm *Camera) {
	switch {
	case sc.Camera != nil && cm != nil:
		sc.replaceDecl(Node(sc.Camera), Node(cm))
	case sc.Camera != nil:
		sc.removeDecl(Node(sc.Camera))
	case cm != nil:
		sc.decl = append(sc.decl, Node(cm))
	}
	sc.Camera = cm
	if cm != nil {
		cm.Scene = sc
	}
}

// SetCamera3D installs the authored 3D camera, with the same declaration
// semantics as [Scene.SetCamera].
func (sc *Scene) SetCamera3D(cm *Camera3D) {
	switch {
	case sc.Camera3D != nil && cm != nil:
		sc.replaceDecl(Node(sc.Camera3D), Node(cm))
	case sc.Camera3D != nil:
		sc.removeDecl(Node(sc.Camera3D))
	case cm != nil:
		sc.decl = append(sc.decl, Node(cm))
	}
	sc.Camera3D = cm
	if cm != nil {
		cm.Scene = sc
	}
}

func (sc *Scene) removeDecl(d any) {
	idx := slices.Index(sc.decl, d)
	if idx >= 0 {
		sc.decl = slices.Delete(sc.decl, idx, idx+1)
	}
}

func (sc *Scene) replaceDecl(old, nw any) {
	idx := slices.Index(sc.decl, old)
	if idx >= 0 {
		sc.decl[idx] = nw
	}
}

// ObjectByName returns the first entity with the given name, searching
// the object trees depth-first in declaration order, then the cameras,
// then the audio list. Names are not unique; with duplicates the first
// match in that order wins. Returns nil if not found.
func (sc *Scene) ObjectByName(name string) Node {
	var found Node
	for _, root := range sc.Objects {
		root.AsNodeBase().WalkDown(func(n Node) bool {
			if found != nil {
				return Break
			}
			if n.AsNodeBase().Name == name {
				found = n
				return Break
			}
			return Continue
		})
		if found != nil {
			return found
		}
	}
	if sc.Camera != nil && sc.Camera.Name == name {
		return sc.Camera
	}
	if sc.Camera3D != nil && sc.Camera3D.Name == name {
		return sc.Camera3D
	}
	for _, au := range sc.Audio {
		if au.Name == name {
			return au
		}
	}
	return nil
}

// Registries:

// MeshDef returns the registry entry for the given mesh name, creating a
// pending entry if the name has not been declared yet. References can
// therefore precede declarations in the document.
func (sc *Scene) MeshDef(name string) *Resource[*MeshDef] {
	if rs, ok := sc.Meshes.ValueByKeyTry(name); ok {
		return rs
	}
	rs := NewPending[*MeshDef]()
	sc.Meshes.Add(name, rs)
	return rs
}

// SetMeshDef registers a mesh descriptor under its name. A pending entry
// for the name is resolved, delivering to all waiters; a resolved entry
// is replaced, affecting future lookups only.
func (sc *Scene) SetMeshDef(md *MeshDef) {
	if rs, ok := sc.Meshes.ValueByKeyTry(md.Name); ok && !rs.Resolved() {
		rs.Resolve(md, nil)
		return
	}
	sc.Meshes.Add(md.Name, NewResolved(md))
}

// MaterialDef returns the registry entry for the given material name,
// creating a pending entry if needed.
func (sc *Scene) MaterialDef(name string) *Resource[*MaterialDef] {
	if rs, ok := sc.Materials.ValueByKeyTry(name); ok {
		return rs
	}
	rs := NewPending[*MaterialDef]()
	sc.Materials.Add(name, rs)
	return rs
}

// SetMaterialDef registers a material under its name, resolving a
// pending entry or replacing a resolved one.
func (sc *Scene) SetMaterialDef(mt *MaterialDef) {
	if rs, ok := sc.Materials.ValueByKeyTry(mt.Name); ok && !rs.Resolved() {
		rs.Resolve(mt, nil)
		return
	}
	sc.Materials.Add(mt.Name, NewResolved(mt))
}

// SetFontFace registers a font face under its family name.
func (sc *Scene) SetFontFace(ff *FontFace) {
	sc.Fonts.Add(ff.Family, ff)
}

// FontFace returns the registered face for a family, or nil.
func (sc *Scene) FontFace(family string) *FontFace {
	ff, _ := sc.Fonts.ValueByKeyTry(family)
	return ff
}

// Lifecycle:

// Update advances all object trees by dt seconds, passing the authored
// camera for camera-relative behaviors.
func (sc *Scene) Update(dt float32) {
	for _, root := range sc.Objects {
		root.Update(dt, sc.Camera)
	}
}

// Draw renders the object trees in layer order: roots sorted by Layer
// ascending, stable with respect to declaration order, children always
// immediately after their parent. The sorted order is cached and only
// rebuilt when layers or membership change.
func (sc *Scene) Draw(rn Renderer) {
	if sc.drawDirty || len(sc.drawList) != len(sc.Objects) {
		sc.drawList = slices.Clone(sc.Objects)
		slices.SortStableFunc(sc.drawList, func(a, b Node) int {
			return a.AsNodeBase().Layer - b.AsNodeBase().Layer
		})
		sc.drawDirty = false
	}
	for _, root := range sc.drawList {
		root.Draw(rn)
	}
}

// Activate marks the scene as the live one, starting playback of every
// audio clip that declared autoplay. Loading a scene never starts audio;
// only activation does.
func (sc *Scene) Activate(player AudioPlayer) {
	sc.player = player
	if player == nil {
		return
	}
	for _, au := range sc.Audio {
		if au.Autoplay && au.Clip != nil {
			player.Play(au.Clip, au.Loop, au.Volume)
		}
	}
}

// Dispose releases everything the scene owns: scene-scoped audio is
// stopped, object trees are disposed bottom-up, and the registries are
// cleared. Idempotent.
func (sc *Scene) Dispose() {
	if sc.disposed {
		return
	}
	sc.disposed = true
	for _, au := range sc.Audio {
		if au.StopOnSceneChange && sc.player != nil && au.Clip != nil {
			sc.player.Stop(au.Clip)
		}
		au.Dispose()
	}
	for _, root := range sc.Objects {
		root.Dispose()
	}
	if sc.Camera != nil {
		sc.Camera.Dispose()
	}
	if sc.Camera3D != nil {
		sc.Camera3D.Dispose()
	}
	sc.Objects = nil
	sc.Audio = nil
	sc.Lights = nil
	sc.decl = nil
	sc.drawList = nil
	sc.Meshes.Reset()
	sc.Materials.Reset()
	sc.Fonts.Reset()
	sc.player = nil
}
