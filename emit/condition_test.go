package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queryforge/sqlbuild/ast"
)

func TestScalarConditionNotWrapsWholeComparison(t *testing.T) {
	e := New(Hooks{})
	err := e.emitScalarCondition(&ast.Condition{
		Field:    &ast.Column{Name: "Active"},
		Operator: ast.OpEquals,
		Value:    &ast.ConstantPart{Value: true},
		Not:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, "NOT ([Active] = 1)", e.buf.String())
}

func TestContainsEmitsLikePattern(t *testing.T) {
	e := New(Hooks{})
	err := e.emitScalarConditionBody(&ast.Condition{
		Field:    &ast.Column{Name: "Name"},
		Operator: ast.OpContains,
		Value:    &ast.ConstantPart{Value: "abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, "[Name] LIKE '%' + @0 + '%'", e.buf.String())
}

func TestConditionPredicateWrapsInCaseWhen(t *testing.T) {
	e := New(Hooks{})
	err := e.emitConditionPredicate(&ast.ConditionPredicate{
		Predicate: &ast.Condition{
			Field:    &ast.Column{Name: "x"},
			Operator: ast.OpEquals,
			Value:    &ast.ConstantPart{Value: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "(CASE WHEN [x] = @0 THEN 1 ELSE 0 END)", e.buf.String())
}
