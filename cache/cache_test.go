package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/dialect"
)

// unreachableRedis returns a client pointed at an address nothing is
// listening on, with a dial timeout short enough to keep the tests fast.
// This exercises genuine Get/Set failures without faking the dependency.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
	})
}

func TestBuildFallsBackToInnerBuilderWhenRedisGetFails(t *testing.T) {
	inner := dialect.BuilderFunc(func(_ context.Context, _ ast.Node, _ dialect.Mapper) (string, []any, error) {
		return "SELECT [Name] FROM [Orders]", nil, nil
	})
	c := New(inner, unreachableRedis(), "sqlbuild", time.Minute)

	text, params, err := c.Build(context.Background(), &ast.SelectStatement{
		Source: &ast.Table{Name: "Orders"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "SELECT [Name] FROM [Orders]", text)
	assert.Empty(t, params)
}

func TestBuildSurvivesRedisSetFailureAfterAMiss(t *testing.T) {
	called := false
	inner := dialect.BuilderFunc(func(_ context.Context, _ ast.Node, _ dialect.Mapper) (string, []any, error) {
		called = true
		return "SELECT * FROM [Orders]", []any{1}, nil
	})
	c := New(inner, unreachableRedis(), "sqlbuild", time.Minute)

	text, params, err := c.Build(context.Background(), &ast.SelectStatement{
		Source: &ast.Table{Name: "Orders"},
		SourceFields: []ast.Node{
			&ast.ConstantPart{Value: 1},
		},
	}, nil)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "SELECT * FROM [Orders]", text)
	assert.Equal(t, []any{1}, params)
}

func TestBuildPropagatesInnerBuilderError(t *testing.T) {
	boom := assert.AnError
	inner := dialect.BuilderFunc(func(_ context.Context, _ ast.Node, _ dialect.Mapper) (string, []any, error) {
		return "", nil, boom
	})
	c := New(inner, unreachableRedis(), "sqlbuild", time.Minute)

	_, _, err := c.Build(context.Background(), &ast.SelectStatement{
		Source: &ast.Table{Name: "Orders"},
	}, nil)

	assert.ErrorIs(t, err, boom)
}
