package textbuf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/queryforge/sqlbuild/textbuf"
)

func TestAppendNewLineTracksDepth(t *testing.T) {
	b := textbuf.New()
	b.WriteString("SELECT *")
	b.AppendNewLine(textbuf.Inner)
	b.WriteString("FROM (")
	b.AppendNewLine(textbuf.Inner)
	b.WriteString("SELECT 1")
	b.AppendNewLine(textbuf.Outer)
	b.WriteString(")")
	b.AppendNewLine(textbuf.Outer)

	assert.Equal(t, 0, b.Depth())
	assert.Equal(t, "SELECT *\n  FROM (\n    SELECT 1\n  )\n", b.String())
}

func TestIndentOuterPanicsBelowZero(t *testing.T) {
	b := textbuf.New()
	assert.Panics(t, func() {
		b.Indent(textbuf.Outer)
	})
}

func TestIndentSameIsNoop(t *testing.T) {
	b := textbuf.New()
	b.Indent(textbuf.Inner)
	b.Indent(textbuf.Same)
	assert.Equal(t, 1, b.Depth())
}
