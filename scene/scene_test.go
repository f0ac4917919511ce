// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRemove(t *testing.T) {
	sc := NewScene("s")
	a := NewSprite("a")
	b := NewSprite("b")
	sc.Add(a)
	sc.Add(b)
	require.Len(t, sc.Objects, 2)
	assert.Same(t, sc, a.Scene)

	assert.True(t, sc.Remove(a))
	assert.Len(t, sc.Objects, 1)
	assert.True(t, a.IsDisposed())
	assert.False(t, sc.Remove(a), "already removed")
	assert.False(t, b.IsDisposed())
}

func TestParentBackReferences(t *testing.T) {
	parent := NewSprite("parent")
	kid := NewSprite("kid")
	grandkid := NewSprite("grandkid")
	parent.AddChild(kid)
	kid.AddChild(grandkid)

	assert.Same(t, Node(parent), kid.Parent)
	assert.Same(t, Node(kid), grandkid.Parent)
	assert.Nil(t, parent.Parent)

	sc := NewScene("s")
	sc.Add(parent)
	assert.Same(t, sc, grandkid.Scene, "scene pointer propagates down")

	assert.True(t, kid.RemoveChild(grandkid))
	assert.Nil(t, grandkid.Parent)
	assert.False(t, grandkid.IsDisposed(), "RemoveChild detaches without disposing")

	assert.True(t, parent.DeleteChild(kid))
	assert.True(t, kid.IsDisposed())
}

func TestDisposeIdempotent(t *testing.T) {
	sc := NewScene("s")
	sp := NewSprite("s1")
	kid := NewSprite("k1")
	sp.AddChild(kid)
	sc.Add(sp)
	au := NewAudioClip("a1")
	au.SetClip(&testClip{})
	sc.AddAudio(au)
	player := &testPlayer{}
	sc.Activate(player)

	sc.Dispose()
	assert.True(t, sc.IsDisposed())
	assert.True(t, sp.IsDisposed())
	assert.True(t, kid.IsDisposed())
	assert.True(t, au.IsDisposed())
	assert.Len(t, player.stopped, 1)

	sc.Dispose()
	assert.Len(t, player.stopped, 1, "second dispose is a no-op")
}

func TestConcurrentTextureLoadAndDispose(t *testing.T) {
	// a load completion racing the owner's dispose must end with the
	// texture released exactly once and never bound to the dead node,
	// whichever side wins
	for range 100 {
		rc := newTestRender()
		sp := NewSprite("s")
		landed := make(chan struct{})
		go func() {
			sp.SetTexture(rc, "k", &testTexture{})
			close(landed)
		}()
		sp.Dispose()
		<-landed
		assert.Nil(t, sp.Texture())
		assert.Equal(t, []string{"k"}, rc.released, "released exactly once")
	}
}

func TestNodeDisposeReleasesTexture(t *testing.T) {
	rc := newTestRender()
	sp := NewSprite("s")
	sp.SetTexture(rc, "k", &testTexture{})
	sp.Dispose()
	assert.Contains(t, rc.released, "k")
	sp.Dispose()
	assert.Len(t, rc.released, 1, "dispose releases exactly once")
}

func TestObjectByNameFirstMatch(t *testing.T) {
	sc := NewScene("s")
	a := NewSprite("dup")
	inner := NewSprite("dup")
	a.AddChild(inner)
	b := NewSprite("dup")
	sc.Add(a)
	sc.Add(b)

	// depth-first document order: root a wins over both its child and b
	for range 3 {
		assert.Same(t, Node(a), sc.ObjectByName("dup"), "deterministic first match")
	}

	// children are reached before later roots
	a.Name = "other"
	assert.Same(t, Node(inner), sc.ObjectByName("dup"))

	// cameras and audio are fallbacks after the object trees
	cam := NewCamera("camOnly")
	sc.SetCamera(cam)
	assert.Same(t, Node(cam), sc.ObjectByName("camOnly"))
	au := NewAudioClip("auOnly")
	sc.AddAudio(au)
	assert.Same(t, Node(au), sc.ObjectByName("auOnly"))
	assert.Nil(t, sc.ObjectByName("missing"))
}

func TestReparent(t *testing.T) {
	sc := NewScene("s")
	a := NewSprite("a")
	b := NewSprite("b")
	sc.Add(a)
	sc.Add(b)

	require.NoError(t, sc.Reparent(b, a, 0))
	assert.Len(t, sc.Objects, 1)
	assert.Same(t, Node(a), b.Parent)

	// cycle: a under its own descendant b
	err := sc.Reparent(a, b, 0)
	require.Error(t, err)
	assert.Len(t, sc.Objects, 1, "failed reparent must not mutate")

	// back to root
	require.NoError(t, sc.Reparent(b, nil, 0))
	assert.Nil(t, b.Parent)
	assert.Len(t, sc.Objects, 2)
	assert.Same(t, Node(b), sc.Objects[0])

	free := NewSprite("free")
	assert.Error(t, sc.Reparent(free, a, 0), "node from another scene is rejected")
}

func TestReparentToRootKeepsDeclaredPosition(t *testing.T) {
	sc := NewScene("s")
	a := NewText("A")
	kid := NewText("K")
	a.AddChild(kid)
	b := NewText("B")
	sc.Add(a)
	sc.Add(b)

	require.NoError(t, sc.Reparent(kid, nil, 1))
	names := make([]string, len(sc.Objects))
	for i, n := range sc.Objects {
		names[i] = n.AsNodeBase().Name
	}
	assert.Equal(t, []string{"A", "K", "B"}, names)

	out, err := sc.XMLString()
	require.NoError(t, err)
	ai := indexOf(t, out, `name="A"`)
	ki := indexOf(t, out, `name="K"`)
	bi := indexOf(t, out, `name="B"`)
	assert.Less(t, ai, ki)
	assert.Less(t, ki, bi, "the new root position persists into the saved document")
}

func TestDuplicate(t *testing.T) {
	sc := NewScene("s")
	a := NewSprite("a")
	a.Pos.Set(3, 4)
	a.AddChild(NewSprite("kid"))
	b := NewSprite("b")
	sc.Add(a)
	sc.Add(b)

	cp := sc.Duplicate(a)
	require.Len(t, sc.Objects, 3)
	assert.Same(t, cp, sc.Objects[1], "copy inserted right after the original")
	cb := cp.(*Sprite)
	assert.Equal(t, "a 2", cb.Name)
	assert.Equal(t, a.Pos, cb.Pos)
	require.Equal(t, 1, cb.NumChildren())
	assert.Equal(t, "kid", cb.Child(0).AsNodeBase().Name)
	assert.NotSame(t, a.Child(0), cb.Child(0), "children are deep-copied")

	cp2 := sc.Duplicate(a)
	assert.Equal(t, "a 3", cp2.AsNodeBase().Name, "names stay unique among siblings")
}

func TestMoveObjectReordersDeclaration(t *testing.T) {
	sc := NewScene("s")
	a := NewText("A")
	b := NewText("B")
	c := NewText("C")
	sc.Add(a)
	sc.Add(b)
	sc.Add(c)

	require.True(t, sc.MoveObject(c, 0))
	names := make([]string, len(sc.Objects))
	for i, n := range sc.Objects {
		names[i] = n.AsNodeBase().Name
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)

	out, err := sc.XMLString()
	require.NoError(t, err)
	ci := indexOf(t, out, `name="C"`)
	ai := indexOf(t, out, `name="A"`)
	assert.Less(t, ci, ai, "the move persists into the saved document")

	assert.False(t, sc.MoveObject(NewText("X"), 0))
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	i := strings.Index(s, sub)
	require.GreaterOrEqual(t, i, 0, "expected %q in output", sub)
	return i
}

func TestCloneIsDetached(t *testing.T) {
	sc := NewScene("s")
	a := NewText("a")
	a.Text = "hello"
	a.SetLayer(3)
	sc.Add(a)

	cp := a.Clone().(*Text)
	assert.Equal(t, "hello", cp.Text)
	assert.Equal(t, 3, cp.Layer)
	assert.Nil(t, cp.Parent)
	assert.Nil(t, cp.Scene)
	assert.Equal(t, "Text", cp.Kind())
}

func TestAnimatedSpriteStepping(t *testing.T) {
	as := NewAnimatedSprite("a")
	as.AddAnimation(&Animation{Name: "loop", Kind: FrameIndices, Indices: []int{0, 1, 2}, Speed: 10, Loop: true})
	as.AddAnimation(&Animation{Name: "once", Kind: FrameIndices, Indices: []int{0, 1}, Speed: 10})

	// 10 fps: 0.25s crosses two frame boundaries
	as.Update(0.25, nil)
	assert.Equal(t, 2, as.Frame)
	as.Update(0.1, nil)
	assert.Equal(t, 0, as.Frame, "looping wraps to the start")

	as.SetAnimation("once")
	assert.Equal(t, 0, as.Frame)
	as.Update(1, nil)
	assert.Equal(t, 1, as.Frame, "non-looping holds the last frame")

	as.SetAnimation("nope")
	assert.Equal(t, "once", as.Current.Name, "unknown animation is ignored")

	as.Active = false
	as.Frame = 0
	as.Update(1, nil)
	assert.Equal(t, 0, as.Frame, "inactive nodes do not advance")
}

func TestSceneUpdateGatesOnActive(t *testing.T) {
	sc := NewScene("s")
	cam := NewCamera("cam")
	cam.Pos.Set(50, 0)
	sc.SetCamera(cam)

	follow := NewSprite("f")
	follow.FollowCamera = true
	follow.Base.Set(5, 0)
	sc.Add(follow)

	inactive := NewSprite("i")
	inactive.FollowCamera = true
	inactive.Base.Set(5, 0)
	inactive.Active = false
	sc.Add(inactive)

	sc.Update(0.016)
	assert.Equal(t, float32(55), follow.Pos.X)
	assert.Equal(t, float32(0), inactive.Pos.X, "inactive node skips update")
}
