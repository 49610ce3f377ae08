// Package reflectmapper provides a reference dialect.Mapper implementation
// driven by Go struct types, grounded in the teacher's table-naming logic
// (engine/translator's getPostgreSQLTableName/inflection.Plural pairing).
// It is a usable default, not a requirement: spec.md §6 only specifies
// the Mapper interface; callers remain free to hand-write their own.
package reflectmapper

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/queryforge/sqlbuild/ast"
)

// TableNamer lets a sample struct override the default pluralized-type-
// name derivation, the same override-hook shape the teacher uses for
// per-operation naming rules (mapping.TableNamingRules).
type TableNamer interface {
	TableName() string
}

// Mapper derives a *ast.Table for each registered sample struct type by
// lower-casing and pluralizing the struct's type name, unless the struct
// implements TableNamer.
type Mapper struct {
	names map[reflect.Type]string
}

// New registers each sample's type for later lookup. Samples are typically
// passed as zero values: New(MyEntity{}).
func New(samples ...any) *Mapper {
	m := &Mapper{names: make(map[reflect.Type]string)}
	for _, s := range samples {
		m.register(s)
	}
	return m
}

func (m *Mapper) register(sample any) {
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	m.names[t] = m.TableName(sample)
}

// TableName derives the table name for entity, consulting TableNamer
// first and falling back to inflection.Plural(lower(type name)).
func (m *Mapper) TableName(entity any) string {
	if namer, ok := entity.(TableNamer); ok {
		return namer.TableName()
	}
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return inflection.Plural(strings.ToLower(t.Name()))
}

// Materialize satisfies dialect.Mapper: it resolves g.Entity to a Table
// via TableName and attaches any fields/conditions already present on the
// GenericStatement.
func (m *Mapper) Materialize(_ context.Context, g *ast.GenericStatement) (*ast.SelectStatement, error) {
	if g == nil || g.Entity == nil {
		return nil, fmt.Errorf("reflect mapper: generic statement has no entity")
	}
	table := &ast.Table{Name: m.TableName(g.Entity)}
	return &ast.SelectStatement{
		Source:       table,
		SourceFields: g.Fields,
		Conditions:   g.Conditions,
	}, nil
}
