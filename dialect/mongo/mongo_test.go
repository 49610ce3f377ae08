package mongo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/queryforge/sqlbuild/ast"
	mongodialect "github.com/queryforge/sqlbuild/dialect/mongo"
)

func TestBuildMatchStageFromEquality(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "customers"},
		Conditions: &ast.ConditionCollection{
			Conditions: []ast.ConditionExpression{
				&ast.Condition{
					Field:    &ast.Column{Name: "status"},
					Operator: ast.OpEquals,
					Value:    &ast.ConstantPart{Value: "active"},
				},
			},
		},
	}

	pipeline, params, err := mongodialect.Build(context.Background(), stmt, nil)
	require.NoError(t, err)
	require.Len(t, pipeline, 1)

	assert.Equal(t, bson.D{{Key: "$match", Value: bson.M{
		"status": bson.M{"$eq": "active"},
	}}}, pipeline[0])
	assert.Equal(t, []any{"active"}, params)
}

func TestBuildProjectsSelectedFields(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source:       &ast.Table{Name: "customers"},
		SourceFields: []ast.Node{&ast.Column{Name: "name"}, &ast.Column{Name: "email"}},
	}

	pipeline, _, err := mongodialect.Build(context.Background(), stmt, nil)
	require.NoError(t, err)
	require.Len(t, pipeline, 1)

	assert.Equal(t, bson.D{{Key: "$project", Value: bson.M{
		"_id": 0, "name": 1, "email": 1,
	}}}, pipeline[0])
}

func TestBuildSortSkipLimit(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source:     &ast.Table{Name: "orders"},
		StartIndex: 5,
		Limit:      10,
		OrderByFields: []ast.OrderByExpression{
			{Field: &ast.Column{Name: "created_at"}, Ascending: false},
		},
	}

	pipeline, _, err := mongodialect.Build(context.Background(), stmt, nil)
	require.NoError(t, err)

	assert.Contains(t, pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}})
	assert.Contains(t, pipeline, bson.D{{Key: "$skip", Value: 5}})
	assert.Contains(t, pipeline, bson.D{{Key: "$limit", Value: 10}})
}

func TestBuildGroupStageWithCountAggregate(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source:        &ast.Table{Name: "orders"},
		GroupByFields: []ast.Node{&ast.Column{Name: "region"}},
		SourceFields: []ast.Node{
			&ast.Aggregate{AggregateType: ast.AggregateCount},
		},
	}

	pipeline, _, err := mongodialect.Build(context.Background(), stmt, nil)
	require.NoError(t, err)
	require.Len(t, pipeline, 1)

	assert.Equal(t, bson.D{{Key: "$group", Value: bson.M{
		"_id":   bson.M{"region": "$region"},
		"Count": bson.M{"$sum": 1},
	}}}, pipeline[0])
}

func TestBuildRejectsUnsupportedStatementKind(t *testing.T) {
	_, _, err := mongodialect.Build(context.Background(), &ast.Join{}, nil)
	assert.Error(t, err)
}

func TestBuildLookupStageFromInnerJoin(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "orders"},
		SourceJoins: []*ast.Join{
			{
				JoinType: ast.JoinInner,
				Table:    &ast.Table{Name: "customers"},
				Conditions: &ast.ConditionCollection{
					Conditions: []ast.ConditionExpression{
						&ast.Condition{
							Field:    &ast.Column{Name: "customer_id"},
							Operator: ast.OpEquals,
							Value:    &ast.Column{Name: "id"},
						},
					},
				},
			},
		},
	}

	pipeline, _, err := mongodialect.Build(context.Background(), stmt, nil)
	require.NoError(t, err)

	assert.Contains(t, pipeline, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "customers"},
		{Key: "localField", Value: "customer_id"},
		{Key: "foreignField", Value: "id"},
		{Key: "as", Value: "customers"},
	}}})
}

func TestBuildRejectsRightJoinAsUnrepresentableInLookup(t *testing.T) {
	stmt := &ast.SelectStatement{
		Source: &ast.Table{Name: "orders"},
		SourceJoins: []*ast.Join{
			{
				JoinType: ast.JoinRight,
				Table:    &ast.Table{Name: "customers"},
				Conditions: &ast.ConditionCollection{
					Conditions: []ast.ConditionExpression{
						&ast.Condition{
							Field:    &ast.Column{Name: "customer_id"},
							Operator: ast.OpEquals,
							Value:    &ast.Column{Name: "id"},
						},
					},
				},
			},
		},
	}

	_, _, err := mongodialect.Build(context.Background(), stmt, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, mongodialect.ErrUnsupportedJoin)
}
