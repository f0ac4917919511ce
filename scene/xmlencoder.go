// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"bufio"
	"io"
	"strings"
)

// XMLEncoder writes scene-document XML with the formatting the format
// requires: indented start tags, self-closing elements when childless,
// and blank lines between declaration groups (never trailing). Errors
// are sticky; check Flush.
type XMLEncoder struct {
	w      *bufio.Writer
	indent string
	depth  int
	stack  []string

	// open is the element whose start tag is still unterminated, empty
	// when none. Ending it before any child makes it self-closing.
	open string

	// blank is a requested group separator, emitted before the next
	// start tag only, so the document never ends with a blank line.
	blank bool

	err error
}

// NewXMLEncoder returns an encoder writing to w with two-space indent.
func NewXMLEncoder(w io.Writer) *XMLEncoder {
	return &XMLEncoder{w: bufio.NewWriter(w), indent: "  "}
}

// Indent sets the per-level indent string. Empty disables indentation.
func (xe *XMLEncoder) Indent(indent string) {
	xe.indent = indent
}

func (xe *XMLEncoder) write(s string) {
	if xe.err != nil {
		return
	}
	_, xe.err = xe.w.WriteString(s)
}

func (xe *XMLEncoder) pad() {
	for range xe.depth {
		xe.write(xe.indent)
	}
}

// closeOpen terminates a pending start tag so children can follow.
func (xe *XMLEncoder) closeOpen() {
	if xe.open == "" {
		return
	}
	xe.write(">\n")
	xe.open = ""
}

// Start begins an element with the given tag.
func (xe *XMLEncoder) Start(name string) {
	xe.closeOpen()
	if xe.blank {
		xe.write("\n")
		xe.blank = false
	}
	xe.pad()
	xe.write("<" + name)
	xe.stack = append(xe.stack, name)
	xe.depth++
	xe.open = name
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#xA;",
	"\t", "&#x9;",
)

// Attr adds an attribute to the element whose start tag is open.
func (xe *XMLEncoder) Attr(name, value string) {
	xe.write(" " + name + `="` + attrEscaper.Replace(value) + `"`)
}

// End closes the most recently started element, self-closing it if no
// children were written.
func (xe *XMLEncoder) End() {
	n := len(xe.stack)
	if n == 0 {
		return
	}
	name := xe.stack[n-1]
	xe.stack = xe.stack[:n-1]
	xe.depth--
	xe.blank = false
	if xe.open == name {
		xe.write("/>\n")
		xe.open = ""
		return
	}
	xe.pad()
	xe.write("</" + name + ">\n")
}

// BlankLine requests a separator before the next element. Consecutive
// requests collapse to one line, and a request followed by no element
// emits nothing.
func (xe *XMLEncoder) BlankLine() {
	xe.closeOpen()
	xe.blank = true
}

// Flush writes buffered output and returns the first error encountered.
func (xe *XMLEncoder) Flush() error {
	if xe.err != nil {
		return xe.err
	}
	return xe.w.Flush()
}
