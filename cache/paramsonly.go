package cache

import (
	"reflect"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/paramsink"
)

// paramsOnly recovers the ordered, de-duplicated parameter values for stmt
// without rendering any text. It walks the tree in the same order the
// emitter would visit it and applies the same interning rule (spec.md
// §4.2: nil, bool, empty string and non-byte-slice iterables never
// consume a slot), so the returned slice lines up with @N placeholders in
// text cached for an identically-shaped statement.
func paramsOnly(stmt *ast.SelectStatement) (params []any, err error) {
	sink := paramsink.New()
	w := &paramWalker{sink: sink}
	w.walkSelect(stmt)
	if w.err != nil {
		return nil, w.err
	}
	return sink.Values(), nil
}

type paramWalker struct {
	sink *paramsink.Sink
	err  error
}

// walkSelect mirrors emitSelectAny's rewrite priority order (spec.md
// §4.4) so the constants it interns line up one-for-one with whichever
// rewrite the real emitter would have applied to this exact shape.
func (w *paramWalker) walkSelect(s *ast.SelectStatement) {
	if w.err != nil || s == nil {
		return
	}
	switch {
	case s.StartIndex > 0:
		w.walkPaging(s)
	case s.IsAny:
		w.walkRewriteToggle(s, func(inner *ast.SelectStatement) { inner.IsAny = false })
	case s.IsAll:
		w.walkRewriteToggle(s, func(inner *ast.SelectStatement) { inner.IsAll = false })
	case s.IsContains:
		w.walkIsContains(s)
	default:
		w.walkPlainSelect(s)
	}
}

// walkPaging mirrors emitPaging: the RowNumber bounds are interned
// before anything else, then fields, ORDER BY, FROM, joins and WHERE in
// the same order the inner SELECT emits them.
func (w *paramWalker) walkPaging(s *ast.SelectStatement) {
	w.sink.Intern(s.StartIndex)
	if s.Limit > 0 {
		w.sink.Intern(s.StartIndex + s.Limit)
	}
	for _, f := range s.SourceFields {
		w.walkNode(f)
	}
	for _, ob := range s.OrderByFields {
		w.walkNode(ob.Field)
	}
	w.walkSource(s.Source)
	for _, j := range s.SourceJoins {
		w.walkSource(j.Table)
		w.walkConditionCollection(j.Conditions)
	}
	w.walkConditionCollection(s.Conditions)
}

// walkRewriteToggle mirrors emitIsAny/emitIsAll: both clone the
// statement, flip their own flag off and recurse with no interning of
// their own, so the params-only walk just needs the same recursion.
func (w *paramWalker) walkRewriteToggle(s *ast.SelectStatement, toggle func(*ast.SelectStatement)) {
	inner := cloneSelect(s)
	toggle(inner)
	w.walkSelect(inner)
}

func cloneSelect(s *ast.SelectStatement) *ast.SelectStatement {
	clone := *s
	return &clone
}

// walkIsContains mirrors emitIsContains: ContainsItem is interned
// before the inner select's own fields/conditions.
func (w *paramWalker) walkIsContains(s *ast.SelectStatement) {
	w.walkNode(s.ContainsItem)
	inner := cloneSelect(s)
	inner.IsContains = false
	w.walkSelect(inner)
}

// walkPlainSelect mirrors emitPlainSelect: fields, FROM, joins, WHERE,
// GROUP BY, ORDER BY (skipped for an aggregate select) and then unions.
func (w *paramWalker) walkPlainSelect(s *ast.SelectStatement) {
	for _, f := range s.SourceFields {
		w.walkNode(f)
	}
	w.walkSource(s.Source)
	for _, j := range s.SourceJoins {
		w.walkSource(j.Table)
		w.walkConditionCollection(j.Conditions)
	}
	w.walkConditionCollection(s.Conditions)
	for _, f := range s.GroupByFields {
		w.walkNode(f)
	}
	if !(hasAggregateField(s.SourceFields) || s.IsAggregate) {
		for _, ob := range s.OrderByFields {
			w.walkNode(ob.Field)
		}
	}
	for _, u := range s.UnionStatements {
		w.walkSelect(u)
	}
}

func hasAggregateField(fields []ast.Node) bool {
	for _, f := range fields {
		if _, ok := f.(*ast.Aggregate); ok {
			return true
		}
	}
	return false
}

func (w *paramWalker) walkSource(src ast.Source) {
	switch v := src.(type) {
	case *ast.SelectStatement:
		w.walkSelect(v)
	case *ast.Join:
		w.walkSource(v.Table)
		w.walkConditionCollection(v.Conditions)
	case *ast.UserDefinedFunction:
		for _, a := range v.Args {
			w.walkNode(a)
		}
	}
}

func (w *paramWalker) walkConditionCollection(cc *ast.ConditionCollection) {
	if cc == nil {
		return
	}
	for _, ce := range cc.Conditions {
		w.walkConditionExpr(ce)
	}
}

func (w *paramWalker) walkConditionExpr(ce ast.ConditionExpression) {
	switch v := ce.(type) {
	case *ast.Condition:
		if v.Operator == ast.OpIsIn {
			// the emitter writes " 0 <> 0" for an empty iterable and skips Field
			if c, ok := v.Value.(*ast.ConstantPart); ok {
				_, isBytes := c.Value.([]byte)
				rv := reflect.ValueOf(c.Value)
				if !isBytes && rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 0 {
					return
				}
			}
		}
		w.walkNode(v.Field)
		w.walkNode(v.Value)
	case *ast.Exists:
		w.walkSelect(v.Select)
	case *ast.ConditionCollection:
		w.walkConditionCollection(v)
	}
}

func (w *paramWalker) walkNode(n ast.Node) {
	if w.err != nil || n == nil {
		return
	}
	switch v := n.(type) {
	case *ast.Column, *ast.LiteralPart:
		// carries no parameter value
	case *ast.ConstantPart:
		w.internConstant(v.Value)
	case *ast.Aggregate:
		w.walkNode(v.Field)
	case *ast.RowNumber:
		for _, ob := range v.OrderBy {
			w.walkNode(ob.Field)
		}
	case *ast.ConditionalCase:
		if test, ok := v.Test.(ast.ConditionExpression); ok {
			w.walkConditionExpr(test)
			w.walkNode(v.IfTrue)
			w.walkNode(v.IfFalse)
		} else {
			// CASE <test> WHEN 0 THEN <IfFalse> ELSE <IfTrue> END
			w.walkNode(v.Test)
			w.walkNode(v.IfFalse)
			w.walkNode(v.IfTrue)
		}
	case *ast.ConditionPredicate:
		w.walkConditionExpr(v.Predicate)
	case *ast.CoalesceFunction:
		for _, a := range v.Args {
			w.walkNode(a)
		}
	case *ast.ConvertFunction:
		w.walkNode(v.Expr)
	case *ast.BinaryOperation:
		w.walkNode(v.Left)
		w.walkNode(v.Right)
	case *ast.UnaryOperation:
		w.walkNode(v.Expression)
	case *ast.SelectExpression:
		w.walkSelect(v.Select)
	case *ast.UserDefinedFunction:
		for _, a := range v.Args {
			w.walkNode(a)
		}
	case *ast.StringFunction:
		fields := []ast.Node{v.Arg, v.Start, v.Length, v.Needle, v.Haystack, v.Left, v.Right}
		if v.Kind == ast.StringIndexOf {
			// CHARINDEX(Needle, Haystack[, Start])
			fields = []ast.Node{v.Needle, v.Haystack, v.Start}
		}
		for _, field := range fields {
			w.walkNode(field)
		}
		for _, a := range v.Args {
			w.walkNode(a)
		}
	case *ast.DateFunction:
		// DATEADD(part, Number, Arg) / DATEDIFF(part, Start, Arg)
		w.walkNode(v.Number)
		w.walkNode(v.Start)
		w.walkNode(v.Arg)
	case *ast.DateConstruct:
		for _, f := range []ast.Node{v.Year, v.Month, v.Day, v.Hour, v.Minute, v.Second} {
			w.walkNode(f)
		}
	case *ast.NumericFunction:
		w.walkNode(v.Arg)
		w.walkNode(v.Precision)
		w.walkNode(v.Exponent)
	}
}

func (w *paramWalker) internConstant(value any) {
	switch v := value.(type) {
	case nil:
		return
	case bool:
		return
	case string:
		if v == "" {
			return
		}
	case *ast.ConstantPart:
		w.internConstant(v.Value)
		return
	}

	if en, ok := value.(ast.Enum); ok {
		w.sink.Intern(en.EnumValue())
		return
	}

	if _, isBytes := value.([]byte); !isBytes {
		rv := reflect.ValueOf(value)
		if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
			for i := 0; i < rv.Len(); i++ {
				w.internConstant(rv.Index(i).Interface())
			}
			return
		}
	}

	w.sink.Intern(value)
}
