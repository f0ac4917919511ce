// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assets provides the default implementations of the scene
// package's collaborator interfaces: workspace and HTTP file access,
// image decoding, audio decoding, and an in-memory font library.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Workspace is a [scene.Fetcher] over a sandboxed directory tree: every
// read and write is confined to Root, and paths that escape it after
// normalization are rejected. The editor saves scene documents through
// it, which is where the save-path validation lives.
type Workspace struct {

	// Root is the workspace directory all paths are resolved under.
	Root string
}

// abs validates name against the sandbox and returns its absolute path.
func (ws *Workspace) abs(name string) (string, error) {
	clean := filepath.Clean(filepath.Join(ws.Root, filepath.FromSlash(name)))
	rel, err := filepath.Rel(ws.Root, clean)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("assets: path %q escapes workspace %q", name, ws.Root)
	}
	return clean, nil
}

// Fetch reads the file at the given workspace-relative path.
func (ws *Workspace) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := ws.abs(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Resolve joins a relative reference against the directory of the base
// document. Absolute references pass through unchanged.
func (ws *Workspace) Resolve(base, ref string) string {
	if strings.Contains(ref, "://") || path.IsAbs(ref) {
		return ref
	}
	return path.Join(path.Dir(base), ref)
}

// WriteFile writes data at the given workspace-relative path, creating
// parent directories as needed. Paths outside the workspace are
// rejected here, at the boundary, not by the scene core.
func (ws *Workspace) WriteFile(name string, data []byte) error {
	p, err := ws.abs(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// HTTPFetcher is a [scene.Fetcher] over HTTP(S) for browser-style
// hosting of scene documents and their resources.
type HTTPFetcher struct {

	// Client defaults to http.DefaultClient when nil.
	Client *http.Client
}

func (hf *HTTPFetcher) client() *http.Client {
	if hf.Client != nil {
		return hf.Client
	}
	return http.DefaultClient
}

// Fetch GETs the given URL.
func (hf *HTTPFetcher) Fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := hf.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assets: GET %s: %s", u, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Resolve resolves ref against the base document URL.
func (hf *HTTPFetcher) Resolve(base, ref string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return ref
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return bu.ResolveReference(ru).String()
}
