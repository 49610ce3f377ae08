package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queryforge/sqlbuild/ast"
)

func emitExprText(t *testing.T, n ast.Node) string {
	t.Helper()
	e := New(Hooks{})
	err := e.emitNode(n)
	require.NoError(t, err)
	return e.buf.String()
}

func TestBitwiseOrAndBitwiseExclusiveOrShareToken(t *testing.T) {
	or := emitExprText(t, &ast.BinaryOperation{
		Operator: ast.BinaryBitwiseOr,
		Left:     &ast.Column{Name: "a"},
		Right:    &ast.Column{Name: "b"},
	})
	xor := emitExprText(t, &ast.BinaryOperation{
		Operator: ast.BinaryBitwiseExclusiveOr,
		Left:     &ast.Column{Name: "a"},
		Right:    &ast.Column{Name: "b"},
	})

	assert.Equal(t, "([a] | [b])", or)
	assert.Equal(t, "([a] | [b])", xor)
}

func TestExclusiveOrGetsItsOwnToken(t *testing.T) {
	text := emitExprText(t, &ast.BinaryOperation{
		Operator: ast.BinaryExclusiveOr,
		Left:     &ast.Column{Name: "a"},
		Right:    &ast.Column{Name: "b"},
	})

	assert.Equal(t, "([a] ^ [b])", text)
}

func TestStringIndexOfDoesNotClampToZero(t *testing.T) {
	text := emitExprText(t, &ast.StringFunction{
		Kind:     ast.StringIndexOf,
		Needle:   &ast.ConstantPart{Value: "x"},
		Haystack: &ast.Column{Name: "Name"},
	})

	assert.Equal(t, "(CHARINDEX(@0, [Name]) - 1)", text)
}

func TestEmitConstantNullAndBoolAndEmptyStringNeverInternParameters(t *testing.T) {
	e := New(Hooks{})

	require.NoError(t, e.emitNode(&ast.ConstantPart{Value: nil}))
	require.NoError(t, e.emitNode(&ast.ConstantPart{Value: true}))
	require.NoError(t, e.emitNode(&ast.ConstantPart{Value: false}))
	require.NoError(t, e.emitNode(&ast.ConstantPart{Value: ""}))

	assert.Equal(t, "NULL10''", e.buf.String())
	assert.Equal(t, 0, e.sink.Len())
}

func TestEmitConstantIterableExpandsElementsInline(t *testing.T) {
	text := emitExprText(t, &ast.ConstantPart{Value: []int{1, 2, 3}})
	assert.Equal(t, "@0, @1, @2", text)
}
