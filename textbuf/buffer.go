// Package textbuf implements the mutable text buffer and indentation
// discipline the emitter writes through.
package textbuf

import (
	"fmt"
	"strings"
)

// Style selects what AppendNewLine does to Depth before writing the
// leading spaces of the new line.
type Style int

const (
	Same Style = iota
	Inner
	Outer
)

// Buffer accumulates emitted SQL text at a tracked indentation depth.
type Buffer struct {
	b     strings.Builder
	depth int
}

// New returns an empty Buffer at depth 0.
func New() *Buffer {
	return &Buffer{}
}

// Depth reports the current indentation depth.
func (b *Buffer) Depth() int {
	return b.depth
}

// Indent applies style to the buffer's depth. Same is a no-op. Inner
// increments depth. Outer decrements depth and panics if depth would drop
// below zero — a dropped-below-zero depth is an emitter bug, not a
// recoverable condition (spec.md §7).
func (b *Buffer) Indent(style Style) {
	switch style {
	case Same:
	case Inner:
		b.depth++
	case Outer:
		b.depth--
		if b.depth < 0 {
			panic(fmt.Sprintf("textbuf: depth dropped below zero (%d)", b.depth))
		}
	}
}

// AppendNewLine writes a newline, applies Indent(style), then writes
// depth*2 leading spaces.
func (b *Buffer) AppendNewLine(style Style) {
	b.b.WriteByte('\n')
	b.Indent(style)
	b.b.WriteString(strings.Repeat("  ", b.depth))
}

// WriteString appends s verbatim.
func (b *Buffer) WriteString(s string) {
	b.b.WriteString(s)
}

// String returns the accumulated text.
func (b *Buffer) String() string {
	return b.b.String()
}
