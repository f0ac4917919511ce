// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceResolvedImmediate(t *testing.T) {
	rs := NewResolved(42)
	assert.True(t, rs.Resolved())
	v, err := rs.Value()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	called := 0
	rs.OnReady(func(v int, err error) {
		called++
		assert.Equal(t, 42, v)
	})
	assert.Equal(t, 1, called, "OnReady on a resolved resource fires immediately")
}

func TestResourceFanOut(t *testing.T) {
	rs := NewPending[string]()
	assert.False(t, rs.Resolved())

	var got []string
	rs.OnReady(func(v string, err error) { got = append(got, "a:"+v) })
	rs.OnReady(func(v string, err error) { got = append(got, "b:"+v) })

	rs.Resolve("mesh", nil)
	assert.Equal(t, []string{"a:mesh", "b:mesh"}, got, "every waiter observes the one resolution")

	rs.OnReady(func(v string, err error) { got = append(got, "late:"+v) })
	assert.Equal(t, []string{"a:mesh", "b:mesh", "late:mesh"}, got)

	// a second resolution is a programmer error and is ignored
	rs.Resolve("other", nil)
	v, err := rs.Value()
	require.NoError(t, err)
	assert.Equal(t, "mesh", v, "first resolution stands")
}

func TestResourceResolveError(t *testing.T) {
	rs := NewPending[int]()
	want := errors.New("fetch failed")
	var got error
	rs.OnReady(func(v int, err error) { got = err })
	rs.Resolve(0, want)
	assert.Equal(t, want, got)
	assert.True(t, rs.Resolved(), "an error still settles the resource")
}

func TestResourceAwait(t *testing.T) {
	rs := NewPending[int]()
	go func() {
		time.Sleep(10 * time.Millisecond)
		rs.Resolve(7, nil)
	}()
	v, err := rs.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	pending := NewPending[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = pending.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMeshRegistryFanOutToNodes(t *testing.T) {
	sc := NewScene("s")
	a := NewMeshNode("a")
	a.Source = "rock"
	b := NewMeshNode("b")
	b.Source = "rock"
	a.Bind(sc)
	b.Bind(sc)
	assert.Nil(t, a.Mesh())
	assert.Equal(t, 1, sc.Meshes.Len(), "both references share one pending entry")

	md := NewMeshDef("rock", "meshes/rock.gltf")
	sc.SetMeshDef(md)
	assert.Same(t, md, a.Mesh(), "first consumer observes the resolution")
	assert.Same(t, md, b.Mesh(), "second consumer observes the same resolution")
}

func TestLateResolutionDiscardedAfterDispose(t *testing.T) {
	sc := NewScene("s")
	mn := NewMeshNode("m")
	mn.Source = "rock"
	mn.MaterialName = "stone"
	mn.Bind(sc)
	mn.Dispose()

	sc.SetMeshDef(NewMeshDef("rock", "meshes/rock.gltf"))
	sc.SetMaterialDef(NewMaterialDef("stone"))
	assert.Nil(t, mn.Mesh(), "a disposed node must not accept a late mesh")
	assert.Nil(t, mn.Material())
}

func TestRegistryReplaceAfterResolve(t *testing.T) {
	sc := NewScene("s")
	first := NewMeshDef("rock", "old.gltf")
	sc.SetMeshDef(first)

	second := NewMeshDef("rock", "new.gltf")
	sc.SetMeshDef(second)

	md, err := sc.MeshDef("rock").Value()
	require.NoError(t, err)
	assert.Same(t, second, md, "re-registration replaces for future lookups")
	assert.Equal(t, 1, sc.Meshes.Len())
}
