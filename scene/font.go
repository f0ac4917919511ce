// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// FontFace is a named font registration mapping a family name, as used
// by [Text] nodes, to its source file. Faces are declared up front in
// the document and loaded in a pre-pass before any text is measured.
type FontFace struct {

	// Family is the name text nodes reference.
	Family string

	// Src is the resolved URL of the font file.
	Src string

	// SrcRef is the source exactly as authored.
	SrcRef string
}
