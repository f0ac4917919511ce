// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"slices"
)

// Editor-facing graph mutations. These keep the scene's declaration
// order and parent/child ownership invariants intact, so a document
// edited through them still serializes coherently.

// Reparent moves a node under a new parent at the given child index
// (clamped). A nil newParent makes the node a scene root. It is an error
// to parent a node under itself or one of its descendants, or to move a
// node that belongs to a different scene.
func (sc *Scene) Reparent(n Node, newParent Node, index int) error {
	nb := n.AsNodeBase()
	if nb.Scene != sc {
		return fmt.Errorf("scene.Reparent: node %q is not in this scene", nb.Name)
	}
	if newParent != nil {
		pb := newParent.AsNodeBase()
		if pb.Scene != sc {
			return fmt.Errorf("scene.Reparent: new parent %q is not in this scene", pb.Name)
		}
		cycle := false
		nb.WalkDown(func(d Node) bool {
			if d == newParent {
				cycle = true
				return Break
			}
			return Continue
		})
		if cycle {
			return fmt.Errorf("scene.Reparent: %q is a descendant of %q", pb.Name, nb.Name)
		}
	}
	// detach from current owner without disposing
	if nb.Parent != nil {
		nb.Parent.AsNodeBase().RemoveChild(n)
	} else {
		sc.Detach(n)
	}
	if newParent == nil {
		index = min(max(index, 0), len(sc.Objects))
		sc.Objects = slices.Insert(sc.Objects, index, n)
		sc.insertRootDecl(n, index)
		nb.setSceneDown(sc)
		sc.drawDirty = true
		return nil
	}
	newParent.AsNodeBase().InsertChild(n, index)
	return nil
}

// Duplicate deep-copies a node, gives the copy a unique sibling name by
// numeric suffix, and inserts it immediately after the original. Returns
// the copy.
func (sc *Scene) Duplicate(n Node) Node {
	nb := n.AsNodeBase()
	cp := nb.Clone()
	cp.AsNodeBase().Name = sc.uniqueSiblingName(nb)
	if nb.Parent != nil {
		nb.Parent.AsNodeBase().InsertChild(cp, nb.IndexInParent()+1)
		return cp
	}
	idx := slices.Index(sc.Objects, n)
	if idx < 0 {
		sc.Add(cp)
		return cp
	}
	sc.Objects = slices.Insert(sc.Objects, idx+1, cp)
	didx := slices.Index(sc.decl, any(n))
	if didx >= 0 {
		sc.decl = slices.Insert(sc.decl, didx+1, any(cp))
	} else {
		sc.decl = append(sc.decl, cp)
	}
	cp.AsNodeBase().setSceneDown(sc)
	sc.drawDirty = true
	return cp
}

func (sc *Scene) uniqueSiblingName(nb *NodeBase) string {
	taken := func(name string) bool {
		if nb.Parent != nil {
			return nb.Parent.AsNodeBase().ChildByName(name) != nil
		}
		for _, root := range sc.Objects {
			if root.AsNodeBase().Name == name {
				return true
			}
		}
		return false
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s %d", nb.Name, i)
		if !taken(name) {
			return name
		}
	}
}

// MoveObject reorders a root object to the given index (clamped) among
// the roots, updating declaration order to match so the change persists
// across a save. Returns false if the node is not a root of this scene.
func (sc *Scene) MoveObject(n Node, index int) bool {
	from := slices.Index(sc.Objects, n)
	if from < 0 {
		return false
	}
	sc.Objects = slices.Delete(sc.Objects, from, from+1)
	index = min(max(index, 0), len(sc.Objects))
	sc.Objects = slices.Insert(sc.Objects, index, n)

	// mirror the move in decl, relative to the other root nodes
	dfrom := slices.Index(sc.decl, any(n))
	if dfrom >= 0 {
		sc.decl = slices.Delete(sc.decl, dfrom, dfrom+1)
		sc.insertRootDecl(n, index)
	}
	sc.drawDirty = true
	return true
}

// insertRootDecl inserts a root node into the declaration order at the
// position matching its index among the roots, so the edit persists
// into the saved document. The node must already be in Objects and must
// not be in decl.
func (sc *Scene) insertRootDecl(n Node, index int) {
	dto := len(sc.decl)
	seen := 0
	for i, d := range sc.decl {
		dn, ok := d.(Node)
		if !ok || dn == n || !slices.Contains(sc.Objects, dn) {
			continue
		}
		if seen == index {
			dto = i
			break
		}
		seen++
	}
	sc.decl = slices.Insert(sc.decl, dto, any(n))
}
