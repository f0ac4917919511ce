// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package editor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/kisstp2006/fluxion-go/assets"
	"github.com/kisstp2006/fluxion-go/scene"
)

// Session is one open scene in the editor. The session's ViewCamera is
// the editor's own viewport camera, deliberately separate from the
// scene's authored camera: panning around in the editor must never
// leak into the saved document.
type Session struct {

	// Workspace confines every read and save to the project root.
	Workspace *assets.Workspace

	// Loader parses scene documents with the session's collaborators.
	Loader *scene.Loader

	// Scene is the open scene, or nil before Open.
	Scene *scene.Scene

	// Path is the workspace-relative path of the open document.
	Path string

	// ViewCamera is the transient editor viewport camera. It is never
	// serialized.
	ViewCamera *scene.Camera
}

// NewSession returns a session over the given workspace, using the
// given loader (whose Files fetcher should be the same workspace).
func NewSession(ws *assets.Workspace, ld *scene.Loader) *Session {
	return &Session{
		Workspace:  ws,
		Loader:     ld,
		ViewCamera: scene.NewCamera("editorView"),
	}
}

// Open loads the scene document at the workspace-relative path,
// disposing any previously open scene.
func (se *Session) Open(ctx context.Context, path string) *scene.Scene {
	if se.Scene != nil {
		se.Scene.Dispose()
	}
	se.Scene = se.Loader.Load(ctx, path)
	se.Path = path
	return se.Scene
}

// Save serializes the authored scene and writes it through the
// sandboxed workspace. An empty path saves to the open document's
// path. The ViewCamera plays no part in what is written.
func (se *Session) Save(path string) error {
	if se.Scene == nil {
		return fmt.Errorf("editor: no open scene")
	}
	if path == "" {
		path = se.Path
	}
	if path == "" {
		return fmt.Errorf("editor: no save path")
	}
	var buf bytes.Buffer
	if err := se.Scene.WriteXML(&buf, true); err != nil {
		return err
	}
	return se.Workspace.WriteFile(path, buf.Bytes())
}
