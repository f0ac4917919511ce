// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"log/slog"
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/jinzhu/copier"
)

// Node is the interface for every entity placeable in a [Scene]:
// 2D visuals, cameras, audio clips, and 3D mesh nodes.
type Node interface {

	// AsNodeBase returns the [NodeBase] for this node, giving access
	// to the core tree data and methods without interface dispatch.
	AsNodeBase() *NodeBase

	// Kind returns the scene-document tag for this node (e.g., "Sprite").
	// It is an explicit discriminant set once at construction.
	Kind() string

	// Update advances the node by dt seconds. Implementations must
	// early-return when the node is not Active. The camera enables
	// camera-relative behaviors such as followCamera, and may be nil.
	Update(dt float32, cam *Camera)

	// Draw renders the node and its children through the given renderer.
	// Implementations must early-return when the node is not Visible.
	Draw(rn Renderer)

	// Dispose releases all resources held by this node and its children,
	// children first. It must be idempotent.
	Dispose()
}

// NodeBase provides the core implementation of the [Node] interface.
// All concrete node types embed NodeBase and are initialized through
// their NewX constructor, which sets the underlying-type pointer and
// the kind discriminant.
type NodeBase struct {

	// Name identifies the node. Names are not guaranteed unique;
	// lookups return the first match in depth-first document order.
	Name string `copier:"-"`

	// Active gates Update. Inactive nodes still draw if Visible.
	Active bool

	// Visible gates Draw. Invisible nodes still update if Active.
	Visible bool

	// Layer is the draw-order tiebreak. Roots are drawn sorted by Layer,
	// stable with respect to insertion order. Use [NodeBase.SetLayer]
	// so the scene's cached draw order is invalidated.
	Layer int

	// Parent is a non-owning back-reference, set only by the owning
	// container's add/remove operations. Nil for root nodes.
	Parent Node `copier:"-"`

	// Children are owned exclusively by this node; disposing the node
	// disposes them first.
	Children []Node `copier:"-"`

	// Scene is the scene this node belongs to, set when the node or one
	// of its ancestors is added to a scene. May be nil for free nodes.
	Scene *Scene `copier:"-"`

	// this is the value of this node as its true underlying type.
	this Node

	// kind is the document tag discriminant, set once at construction.
	kind string

	// disposed guards Dispose idempotence and is checked by
	// asynchronous load completions so late results are discarded.
	// Atomic: dispose can run on the owner's goroutine while a load
	// completion reads the flag on another.
	disposed atomic.Bool
}

// init must be called by every constructor with the concrete node,
// its document tag, and its name.
func (nb *NodeBase) init(n Node, kind, name string) {
	nb.this = n
	nb.kind = kind
	nb.Name = name
	nb.Active = true
	nb.Visible = true
}

func (nb *NodeBase) AsNodeBase() *NodeBase { return nb }
func (nb *NodeBase) Kind() string          { return nb.kind }

// IsDisposed reports whether Dispose has run on this node.
func (nb *NodeBase) IsDisposed() bool { return nb.disposed.Load() }

// SetLayer sets the draw-order layer and invalidates the owning
// scene's cached draw order.
func (nb *NodeBase) SetLayer(layer int) {
	nb.Layer = layer
	if nb.Scene != nil {
		nb.Scene.drawDirty = true
	}
}

// Path returns the slash-separated name path from the root, for diagnostics.
func (nb *NodeBase) Path() string {
	if nb.Parent != nil {
		return nb.Parent.AsNodeBase().Path() + "/" + nb.Name
	}
	return "/" + nb.Name
}

// Parents and children:

// HasChildren returns whether this node has any children.
func (nb *NodeBase) HasChildren() bool { return len(nb.Children) > 0 }

// NumChildren returns the number of children this node has.
func (nb *NodeBase) NumChildren() int { return len(nb.Children) }

// Child returns the child at the given index, or nil if out of range.
func (nb *NodeBase) Child(i int) Node {
	if i < 0 || i >= len(nb.Children) {
		return nil
	}
	return nb.Children[i]
}

// ChildByName returns the first direct child with the given name,
// or nil if there is none.
func (nb *NodeBase) ChildByName(name string) Node {
	for _, kid := range nb.Children {
		if kid.AsNodeBase().Name == name {
			return kid
		}
	}
	return nil
}

// AddChild adds the given node at the end of the children list,
// setting its parent back-reference and scene pointer.
func (nb *NodeBase) AddChild(kid Node) {
	nb.Children = append(nb.Children, kid)
	kb := kid.AsNodeBase()
	kb.Parent = nb.this
	kb.setSceneDown(nb.Scene)
}

// InsertChild adds the given node at the given position in the children list.
func (nb *NodeBase) InsertChild(kid Node, index int) {
	index = min(max(index, 0), len(nb.Children))
	nb.Children = slices.Insert(nb.Children, index, kid)
	kb := kid.AsNodeBase()
	kb.Parent = nb.this
	kb.setSceneDown(nb.Scene)
}

// RemoveChild detaches the given child without disposing it,
// so it can be reparented. Returns false if not found.
func (nb *NodeBase) RemoveChild(kid Node) bool {
	idx := slices.Index(nb.Children, kid)
	if idx < 0 {
		return false
	}
	nb.Children = slices.Delete(nb.Children, idx, idx+1)
	kb := kid.AsNodeBase()
	kb.Parent = nil
	kb.setSceneDown(nil)
	return true
}

// DeleteChild detaches the given child and disposes it.
// Returns false if not found.
func (nb *NodeBase) DeleteChild(kid Node) bool {
	if !nb.RemoveChild(kid) {
		return false
	}
	kid.Dispose()
	return true
}

// IndexInParent returns our index within our parent's children,
// or -1 if we have no parent.
func (nb *NodeBase) IndexInParent() int {
	if nb.Parent == nil {
		return -1
	}
	return slices.Index(nb.Parent.AsNodeBase().Children, nb.this)
}

// setSceneDown sets the scene pointer on this node and everything below.
func (nb *NodeBase) setSceneDown(sc *Scene) {
	nb.Scene = sc
	for _, kid := range nb.Children {
		kid.AsNodeBase().setSceneDown(sc)
	}
}

// Tree walking:

const (
	// Continue can be returned from walk functions to keep descending.
	Continue = true

	// Break can be returned from walk functions to stop this branch.
	Break = false
)

// WalkDown calls the given function on this node and all of its children
// in depth-first pre-order. A [Break] return stops that branch.
func (nb *NodeBase) WalkDown(fun func(n Node) bool) {
	if nb.this == nil {
		return
	}
	if !fun(nb.this) {
		return
	}
	for _, kid := range nb.Children {
		kid.AsNodeBase().WalkDown(fun)
	}
}

// Lifecycle:

// Update advances children, gated on Active. Node types with their own
// behavior override this and call UpdateChildren themselves.
func (nb *NodeBase) Update(dt float32, cam *Camera) {
	if !nb.Active {
		return
	}
	nb.UpdateChildren(dt, cam)
}

// UpdateChildren updates all children in order.
func (nb *NodeBase) UpdateChildren(dt float32, cam *Camera) {
	for _, kid := range nb.Children {
		kid.Update(dt, cam)
	}
}

// Draw draws children, gated on Visible.
func (nb *NodeBase) Draw(rn Renderer) {
	if !nb.Visible {
		return
	}
	nb.DrawChildren(rn)
}

// DrawChildren draws all children in order.
func (nb *NodeBase) DrawChildren(rn Renderer) {
	for _, kid := range nb.Children {
		kid.Draw(rn)
	}
}

// Dispose disposes all children (children first) and marks this node
// disposed. Node types holding external resources override this, calling
// [NodeBase.dispose] and releasing their own resources only when it
// reports the winning call. Idempotent.
func (nb *NodeBase) Dispose() {
	nb.dispose()
}

// dispose marks the node disposed, exactly one call winning, and the
// winning call disposes the children. Reports whether this call won,
// so overriding Dispose implementations release their resources once.
func (nb *NodeBase) dispose() bool {
	if !nb.disposed.CompareAndSwap(false, true) {
		return false
	}
	for _, kid := range nb.Children {
		kid.Dispose()
	}
	nb.Children = nil
	return true
}

// Deep copy:

// NewInstance returns a new, uninitialized instance of this node's
// concrete type.
func (nb *NodeBase) NewInstance() Node {
	return reflect.New(reflect.TypeOf(nb.this).Elem()).Interface().(Node)
}

// CopyFieldsFrom copies the exported data fields of the given node into
// this one, excluding tree structure (fields tagged copier:"-").
func (nb *NodeBase) CopyFieldsFrom(from Node) {
	err := copier.CopyWithOption(nb.this, from, copier.Option{CaseSensitive: true, DeepCopy: true})
	if err != nil {
		slog.Error("scene.NodeBase.CopyFieldsFrom", "node", nb.Path(), "err", err)
	}
}

// Clone returns a deep copy of this node and its children. The clone is
// detached: it has no parent and no scene until added to a container.
func (nb *NodeBase) Clone() Node {
	nc := nb.NewInstance()
	ncb := nc.AsNodeBase()
	ncb.init(nc, nb.kind, nb.Name)
	ncb.CopyFieldsFrom(nb.this)
	for _, kid := range nb.Children {
		ncb.AddChild(kid.AsNodeBase().Clone())
	}
	return nc
}
