// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package editor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisstp2006/fluxion-go/assets"
	"github.com/kisstp2006/fluxion-go/scene"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	ws := &assets.Workspace{Root: t.TempDir()}
	return NewSession(ws, &scene.Loader{Files: ws})
}

func TestSessionOpenSave(t *testing.T) {
	se := newTestSession(t)
	doc := `<Scene name="T"><Sprite name="S" x="5" y="5" width="32" height="32" imageSrc="a.png"/></Scene>`
	require.NoError(t, se.Workspace.WriteFile("level.xml", []byte(doc)))

	sc := se.Open(context.Background(), "level.xml")
	require.NotNil(t, sc)
	assert.Equal(t, "T", sc.Name)
	require.Len(t, sc.Objects, 1)

	// pan the editor viewport; it must not leak into the save
	se.ViewCamera.Pos.Set(999, 999)

	require.NoError(t, se.Save(""))
	data, err := se.Workspace.Fetch(context.Background(), "level.xml")
	require.NoError(t, err)
	assert.Contains(t, string(data), `name="S"`)
	assert.NotContains(t, string(data), "999")
	assert.NotContains(t, string(data), "editorView")
}

func TestSessionSaveSandbox(t *testing.T) {
	se := newTestSession(t)
	require.NoError(t, se.Workspace.WriteFile("level.xml", []byte(`<Scene name="T"/>`)))
	se.Open(context.Background(), "level.xml")

	assert.Error(t, se.Save("../escape.xml"), "saves outside the workspace are rejected at the boundary")
}

func TestSessionSaveWithoutScene(t *testing.T) {
	se := newTestSession(t)
	assert.Error(t, se.Save("x.xml"))
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fluxion.toml")
	cfg := &Config{WorkspaceRoot: dir, TargetWidth: 640, TargetHeight: 360, Autosave: true}
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
