// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "image/color"

// defaultFontSize is used when a Text element declares no size.
const defaultFontSize = 16

// Text is a 2D node whose backing texture is regenerated from its text,
// font, and color by the rendering backend. The core only tracks the
// parameters and the dirty state; rasterization is a [Renderer] concern.
type Text struct {
	Node2D

	// Text is the string to display.
	Text string

	// Family is the font family name, registered via the [FontLibrary].
	Family string

	// FontSize is the size in pixels. Both the fontSize attribute and
	// the legacy capitalized FontSize spelling resolve here.
	FontSize float32

	// Color is the resolved text color.
	Color color.RGBA

	// ColorRef is the color exactly as authored (hex or CSS string);
	// kept so saving re-emits it verbatim. Cleared by [Text.SetColor],
	// after which saves emit the resolved color as hex.
	ColorRef string

	// Clickable auto-attaches a hit region sized to the text bounds.
	// It is authoring sugar: the synthesized region is not serialized.
	Clickable bool

	// ExplicitSize records whether the document declared width/height.
	// An authored size is kept instead of the measured text bounds and
	// is written back on save; a measured size is derived state and is
	// not serialized.
	ExplicitSize bool

	// dirty is set whenever text/font/color change, telling the backend
	// to regenerate the backing texture.
	dirty bool
}

// NewText returns a new named text node with default font parameters.
func NewText(name string) *Text {
	tx := &Text{}
	tx.init2d(tx, "Text", name)
	tx.FontSize = defaultFontSize
	tx.Color = color.RGBA{0, 0, 0, 255}
	tx.dirty = true
	return tx
}

// SetText updates the displayed string and marks the texture stale.
func (tx *Text) SetText(s string) {
	if tx.Text == s {
		return
	}
	tx.Text = s
	tx.dirty = true
}

// SetColor updates the text color, dropping the authored color string so
// subsequent saves emit the new value as hex.
func (tx *Text) SetColor(c color.RGBA) {
	tx.Color = c
	tx.ColorRef = ""
	tx.dirty = true
}

// NeedsRender reports whether the backing texture is stale. The backend
// calls [Text.Rendered] after regenerating it.
func (tx *Text) NeedsRender() bool { return tx.dirty }

// Rendered marks the backing texture as up to date.
func (tx *Text) Rendered() { tx.dirty = false }

// Measure sizes the node to its text bounds using the given font library
// and returns the measured size. Called at parse time so hit regions that
// inherit the text bounds are correct before first render.
func (tx *Text) Measure(fonts FontLibrary) (width, height float32) {
	if fonts == nil {
		return tx.Size.X, tx.Size.Y
	}
	w, h := fonts.Measure(tx.Family, tx.FontSize, tx.Text)
	tx.Size.Set(w, h)
	return w, h
}

// HasHitRegion reports whether an explicit (authored, non-synthesized)
// hit region child is declared, in which case the clickable shortcut
// must not attach a duplicate.
func (tx *Text) HasHitRegion() bool {
	for _, kid := range tx.Children {
		if ca, ok := kid.(*ClickableArea); ok && !ca.Synthesized {
			return true
		}
	}
	return false
}

// Draw delegates text rasterization to the renderer, then draws children.
func (tx *Text) Draw(rn Renderer) {
	if !tx.Visible {
		return
	}
	rn.DrawText(tx)
	tx.DrawChildren(rn)
}
