package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queryforge/sqlbuild/ast"
)

func TestParamsOnlyCollectsConstantsInEmissionOrder(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "Orders"},
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "Status"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: "open"},
				},
				&ast.Condition{
					Field:        &ast.Column{Name: "Total"},
					Operator:     ast.OpIsGreaterThan,
					Value:        &ast.ConstantPart{Value: 100},
					Relationship: ast.RelationAnd,
				},
			},
		},
	}

	params, err := paramsOnly(stmt)

	require.NoError(t, err)
	assert.Equal(t, []any{"open", 100}, params)
}

func TestParamsOnlySkipsSpecialEncodedValues(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "Orders"},
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "DeletedAt"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: nil},
				},
				&ast.Condition{
					Field:    &ast.Column{Name: "Active"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: true},
				},
			},
		},
	}

	params, err := paramsOnly(stmt)

	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestParamsOnlyDeduplicatesRepeatedValues(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "T"},
		SourceFields: []ast.Node{
			&ast.ConstantPart{Value: 5},
			&ast.ConstantPart{Value: 5},
		},
	}

	params, err := paramsOnly(stmt)

	require.NoError(t, err)
	assert.Equal(t, []any{5}, params)
}

func TestParamsOnlyInternsPagingBoundsFirst(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source:     &ast.Table{Name: "Orders"},
		StartIndex: 20,
		Limit:      10,
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "Status"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: "open"},
				},
			},
		},
		OrderByFields: []ast.OrderByExpression{
			{Field: &ast.Column{Name: "ID"}},
		},
	}

	params, err := paramsOnly(stmt)

	require.NoError(t, err)
	assert.Equal(t, []any{20, 30, "open"}, params)
}

func TestParamsOnlyPagingWithoutLimitInternsOnlyStartIndex(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source:     &ast.Table{Name: "Orders"},
		StartIndex: 20,
	}

	params, err := paramsOnly(stmt)

	require.NoError(t, err)
	assert.Equal(t, []any{20}, params)
}

func TestParamsOnlyInternsContainsItemBeforeInnerSelect(t *testing.T) {
	stmt := &ast.SelectStatement{
		IsContains:   true,
		ContainsItem: &ast.ConstantPart{Value: "needle"},
		Source:       &ast.Table{Name: "Orders"},
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "Status"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: "open"},
				},
			},
		},
	}

	params, err := paramsOnly(stmt)

	require.NoError(t, err)
	assert.Equal(t, []any{"needle", "open"}, params)
}
