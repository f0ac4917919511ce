// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceReadWrite(t *testing.T) {
	ws := &Workspace{Root: t.TempDir()}
	require.NoError(t, ws.WriteFile("scenes/level1.xml", []byte("<Scene/>")))
	data, err := ws.Fetch(context.Background(), "scenes/level1.xml")
	require.NoError(t, err)
	assert.Equal(t, "<Scene/>", string(data))

	_, err = ws.Fetch(context.Background(), "scenes/missing.xml")
	assert.Error(t, err)
}

func TestWorkspaceSandbox(t *testing.T) {
	ws := &Workspace{Root: t.TempDir()}
	for _, name := range []string{
		"../outside.xml",
		"scenes/../../outside.xml",
		"a/b/../../../etc/passwd",
	} {
		err := ws.WriteFile(name, []byte("x"))
		assert.Error(t, err, "write to %q must be rejected", name)
		_, err = ws.Fetch(context.Background(), name)
		assert.Error(t, err, "read of %q must be rejected", name)
	}

	// dot-dot that stays inside the root is fine
	require.NoError(t, ws.WriteFile("scenes/sub/../ok.xml", []byte("x")))
}

func TestWorkspaceResolve(t *testing.T) {
	ws := &Workspace{}
	assert.Equal(t, "scenes/a.png", ws.Resolve("scenes/level1.xml", "a.png"))
	assert.Equal(t, "scenes/img/a.png", ws.Resolve("scenes/level1.xml", "img/a.png"))
	assert.Equal(t, "/abs/a.png", ws.Resolve("scenes/level1.xml", "/abs/a.png"))
	assert.Equal(t, "https://cdn/a.png", ws.Resolve("scenes/level1.xml", "https://cdn/a.png"))
}

func TestHTTPFetcherResolve(t *testing.T) {
	hf := &HTTPFetcher{}
	assert.Equal(t, "https://host/game/a.png", hf.Resolve("https://host/game/scene.xml", "a.png"))
	assert.Equal(t, "https://other/b.png", hf.Resolve("https://host/game/scene.xml", "https://other/b.png"))
}
