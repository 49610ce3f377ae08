package dialect_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/dialect"
)

func build(t *testing.T, stmt *ast.SelectStatement) (string, []any) {
	t.Helper()
	text, params, err := dialect.Build(context.Background(), stmt, nil)
	require.NoError(t, err)
	return text, params
}

// Scenario 1: SELECT * FROM Customer WHERE [Id] = @0
func TestScenarioSimpleEquality(t *testing.T) {
	customer := &ast.Table{Name: "Customer"}
	stmt := &ast.SelectStatement{
		Source: customer,
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Table: customer, Name: "Id"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: 42},
				},
			},
		},
	}

	text, params := build(t, stmt)

	assert.Contains(t, text, "SELECT *")
	assert.Contains(t, text, "FROM [Customer]")
	assert.Contains(t, text, "WHERE [Customer].[Id] = @0")
	assert.Equal(t, []any{42}, params)
}

// Scenario 2: null-comparison elision.
func TestScenarioNullComparisonElision(t *testing.T) {
	stmt := &ast.SelectStatement{
		SourceFields: []ast.Node{&ast.Column{Name: "Name"}},
		Source:       &ast.Table{Name: "Customer"},
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "Name"},
					Operator: ast.OpNotEquals,
					Value:    &ast.ConstantPart{Value: nil},
				},
			},
		},
	}

	text, params := build(t, stmt)

	assert.Contains(t, text, "WHERE [Name] IS NOT NULL")
	assert.NotContains(t, text, "= @")
	assert.Empty(t, params)
}

// Scenario 3: paging envelope.
func TestScenarioPagingEnvelope(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source:     &ast.Table{Name: "Orders"},
		StartIndex: 20,
		Limit:      10,
		OrderByFields: []ast.OrderByExpression{
			{Field: &ast.Column{Name: "Date"}, Ascending: true},
		},
	}

	text, params := build(t, stmt)

	assert.Contains(t, text, "ROW_NUMBER() OVER(ORDER BY [Date])")
	assert.Contains(t, text, "AS RowNumberTable")
	assert.Contains(t, text, "WHERE [RowNumber] > @0 AND [RowNumber] <= @1")
	assert.Contains(t, text, "ORDER BY [RowNumber]")
	assert.Equal(t, []any{20, 30}, params)
}

// Scenario 4: ANY reduction, and the self-healing invariant.
func TestScenarioAnyReductionIsSelfHealing(t *testing.T) {
	stmt := &ast.SelectStatement{
		IsAny:  true,
		Source: &ast.Table{Name: "T"},
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "x"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: 1},
				},
			},
		},
	}

	text, _ := build(t, stmt)

	assert.True(t, len(text) > 0 && text[:len("SELECT CASE WHEN EXISTS (")] == "SELECT CASE WHEN EXISTS (")
	assert.Contains(t, text, ") THEN 1 ELSE 0 END")
	assert.True(t, stmt.IsAny, "input tree must be unchanged after build")
}

// Scenario 5: parameter interning dedupes repeat-valued constants.
func TestScenarioParameterInterning(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "T"},
		SourceFields: []ast.Node{
			&ast.ConstantPart{Value: 5},
			&ast.ConstantPart{Value: 5},
		},
	}

	text, params := build(t, stmt)

	assert.Equal(t, 2, countOccurrences(text, "@0"))
	assert.Equal(t, []any{5}, params)
}

// Scenario 6: empty-IN shortcut.
func TestScenarioEmptyInShortcut(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "T"},
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "Id"},
					Operator: ast.OpIsIn,
					Value:    &ast.ConstantPart{Value: []int{}},
				},
			},
		},
	}

	text, params := build(t, stmt)

	assert.Contains(t, text, " 0 <> 0")
	assert.NotContains(t, text, "IN (")
	assert.Empty(t, params)
}

func TestDepthIsBalancedAfterBuild(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.SelectStatement{Source: &ast.Table{Name: "Inner"}},
	}
	assert.NotPanics(t, func() {
		build(t, stmt)
	})
}

func TestBuildIsIdempotent(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "Customer"},
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "Id"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: 42},
				},
			},
		},
	}

	text1, params1 := build(t, stmt)
	text2, params2 := build(t, stmt)

	assert.Equal(t, text1, text2)
	assert.Equal(t, params1, params2)
}

func TestZeroLimitAndStartIndexEmitNoPagingEnvelope(t *testing.T) {
	stmt := &ast.SelectStatement{Source: &ast.Table{Name: "T"}}

	text, _ := build(t, stmt)

	assert.NotContains(t, text, "ROW_NUMBER")
	assert.NotContains(t, text, "TOP")
}

func TestConditionCollectionSingleNotElement(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "T"},
		Conditions: &ast.ConditionCollection{
			Not: true,
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "Active"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: true},
				},
			},
		},
	}

	text, _ := build(t, stmt)

	assert.Contains(t, text, "WHERE NOT [Active] = 1")
}

func TestGenericStatementRequiresMapper(t *testing.T) {
	_, _, err := dialect.Build(context.Background(), &ast.GenericStatement{Entity: struct{}{}}, nil)
	require.Error(t, err)
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}
	return count
}
