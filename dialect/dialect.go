// Package dialect exposes the public facade: Build lowers a Statement to
// SQL text and an ordered parameter list for a given dialect's Hooks
// (spec.md §4.6).
package dialect

import (
	"context"
	"errors"
	"fmt"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/emit"
)

// ErrUnsupportedStatementKind fires when the top-level Statement is
// neither a *ast.SelectStatement nor a *ast.GenericStatement (spec.md §7).
var ErrUnsupportedStatementKind = errors.New("unsupported statement kind")

// Mapper resolves a GenericStatement to a concrete SelectStatement. It is
// consumed, never implemented, by this package (spec.md §6); see
// mapper/reflectmapper for a usable default implementation.
type Mapper interface {
	Materialize(ctx context.Context, g *ast.GenericStatement) (*ast.SelectStatement, error)
}

// Builder is implemented by Build and by anything that wraps it (the
// build cache in package cache being the motivating example).
type Builder interface {
	Build(ctx context.Context, statement ast.Node, mapper Mapper) (string, []any, error)
}

// BuilderFunc adapts a plain function to the Builder interface.
type BuilderFunc func(ctx context.Context, statement ast.Node, mapper Mapper) (string, []any, error)

func (f BuilderFunc) Build(ctx context.Context, statement ast.Node, mapper Mapper) (string, []any, error) {
	return f(ctx, statement, mapper)
}

// Dialect bundles the Hooks overrides that make Build emit a particular
// SQL dialect's text. The zero value is T-SQL.
type Dialect struct {
	Hooks emit.Hooks
}

// TSQL is the default dialect: no overrides, the emit package's own
// T-SQL implementation used directly.
var TSQL = Dialect{}

// Build resolves GenericStatement via mapper if needed, then lowers the
// resulting SelectStatement through a fresh Emitter for this dialect.
// Each call constructs its own Emitter; concurrent calls never share
// mutable state (spec.md §5).
func (d Dialect) Build(ctx context.Context, statement ast.Node, mapper Mapper) (string, []any, error) {
	var stmt *ast.SelectStatement
	switch v := statement.(type) {
	case *ast.SelectStatement:
		stmt = v
	case *ast.GenericStatement:
		if mapper == nil {
			return "", nil, fmt.Errorf("dialect: GenericStatement requires a Mapper")
		}
		materialized, err := mapper.Materialize(ctx, v)
		if err != nil {
			return "", nil, fmt.Errorf("dialect: materializing generic statement: %w", err)
		}
		stmt = materialized
	default:
		return "", nil, fmt.Errorf("%w: %T", ErrUnsupportedStatementKind, statement)
	}

	e := emit.New(d.Hooks)
	return e.Build(stmt)
}

// Build is the package-level convenience entry point using the default
// T-SQL dialect.
func Build(ctx context.Context, statement ast.Node, mapper Mapper) (string, []any, error) {
	return TSQL.Build(ctx, statement, mapper)
}
