// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/kisstp2006/fluxion-go/scene"
)

// FontLibrary is an in-memory [scene.FontLibrary]: faces are fetched
// and registered by family name so text nodes can be measured before
// first render. Rasterization stays with the rendering backend; the
// library only holds the face bytes and answers layout queries.
type FontLibrary struct {

	// Files reads the face bytes.
	Files scene.Fetcher

	mu    sync.Mutex
	faces map[string][]byte
}

// NewFontLibrary returns an empty library reading faces through files.
func NewFontLibrary(files scene.Fetcher) *FontLibrary {
	return &FontLibrary{Files: files, faces: make(map[string][]byte)}
}

// LoadFace fetches and registers the face at src under family.
func (fl *FontLibrary) LoadFace(ctx context.Context, family, src string) error {
	data, err := fl.Files.Fetch(ctx, src)
	if err != nil {
		return fmt.Errorf("assets: font %s: %w", family, err)
	}
	fl.mu.Lock()
	fl.faces[family] = data
	fl.mu.Unlock()
	return nil
}

// Has reports whether a face is registered for the family.
func (fl *FontLibrary) Has(family string) bool {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	_, ok := fl.faces[family]
	return ok
}

// Face returns the registered face bytes for the family, or nil.
func (fl *FontLibrary) Face(family string) []byte {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.faces[family]
}

// Measure approximates the rendered text bounds with a fixed advance
// per rune. Exact glyph metrics belong to the rendering backend; scene
// layout only needs stable, size-proportional bounds.
func (fl *FontLibrary) Measure(family string, size float32, text string) (width, height float32) {
	n := utf8.RuneCountInString(text)
	return 0.6 * size * float32(n), size
}
