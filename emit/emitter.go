// Package emit implements the recursive Statement tree walker described in
// spec.md §4.5: one dispatch per PartType, writing through a text buffer
// and parameter sink. The default dispatch table implements T-SQL; a
// dialect overrides individual entries in Hooks rather than subclassing,
// per the "virtual-method dialect hooks" design note in spec.md §9.
package emit

import (
	"fmt"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/paramsink"
	"github.com/queryforge/sqlbuild/textbuf"
)

// NodeEmitFunc overrides emission for one PartType.
type NodeEmitFunc func(e *Emitter, n ast.Node) error

// SelectEmitFunc overrides emission for one kind of Select rewrite or the
// base select path.
type SelectEmitFunc func(e *Emitter, s *ast.SelectStatement) error

// Hooks is the dialect override table. Every entry is optional; a nil or
// absent entry falls back to the default T-SQL emission. This is the
// "table of per-node emission callbacks" spec.md §9 calls for in place of
// subclass overrides.
type Hooks struct {
	Emit map[ast.PartType]NodeEmitFunc

	// LimitAtStart/LimitAtEnd correspond to the named hooks in spec.md
	// §9: the base T-SQL dialect has no default implementation for
	// either (Limit without StartIndex is silently ignored, per spec),
	// so both are nil by default. A TOP-style dialect overrides
	// LimitAtStart; a FETCH-style dialect overrides LimitAtEnd.
	LimitAtStart SelectEmitFunc
	LimitAtEnd   SelectEmitFunc
}

// Emitter owns one build's text buffer, parameter sink, and nested-select
// flag. Not safe for concurrent use; construct a fresh Emitter per build
// (spec.md §5).
type Emitter struct {
	Hooks  Hooks
	buf    *textbuf.Buffer
	sink   *paramsink.Sink
	nested bool
}

// New returns an Emitter ready to build one Statement tree.
func New(hooks Hooks) *Emitter {
	if hooks.Emit == nil {
		hooks.Emit = map[ast.PartType]NodeEmitFunc{}
	}
	return &Emitter{
		Hooks: hooks,
		buf:   textbuf.New(),
		sink:  paramsink.New(),
	}
}

// Build lowers s to SQL text and an ordered parameter list. The returned
// error, if any, is one of the sentinel errors in this package; a panic
// indicates an emitter-internal invariant violation (spec.md §7).
func (e *Emitter) Build(s *ast.SelectStatement) (string, []any, error) {
	if err := e.emitSelectAny(s); err != nil {
		return "", nil, err
	}
	if d := e.buf.Depth(); d != 0 {
		panic(fmt.Sprintf("emit: indentation depth not balanced after build (depth=%d)", d))
	}
	return e.buf.String(), e.sink.Values(), nil
}

// emitNode dispatches a single expression/field node, consulting Hooks
// before falling back to the default T-SQL emission.
func (e *Emitter) emitNode(n ast.Node) error {
	if n == nil {
		return unsupportedField(nil)
	}
	if hook, ok := e.Hooks.Emit[n.PartType()]; ok && hook != nil {
		return hook(e, n)
	}
	switch v := n.(type) {
	case *ast.Column:
		return e.emitColumn(v)
	case *ast.ConstantPart:
		return e.emitConstant(v)
	case *ast.LiteralPart:
		e.buf.WriteString(v.Text)
		return nil
	case *ast.Aggregate:
		return e.emitAggregate(v)
	case *ast.RowNumber:
		return e.emitRowNumber(v)
	case *ast.ConditionalCase:
		return e.emitConditionalCase(v)
	case *ast.ConditionPredicate:
		return e.emitConditionPredicate(v)
	case *ast.CoalesceFunction:
		return e.emitCoalesce(v)
	case *ast.ConvertFunction:
		return e.emitConvert(v)
	case *ast.BinaryOperation:
		return e.emitBinaryOperation(v)
	case *ast.UnaryOperation:
		return e.emitUnaryOperation(v)
	case *ast.SelectExpression:
		return e.emitSelectExpression(v)
	case *ast.StringFunction:
		return e.emitStringFunction(v)
	case *ast.DateFunction:
		return e.emitDateFunction(v)
	case *ast.DateConstruct:
		return e.emitDateConstruct(v)
	case *ast.NumericFunction:
		return e.emitNumericFunction(v)
	case *ast.UserDefinedFunction:
		return e.emitUDF(v, false)
	case *ast.Table:
		return e.emitTableRef(v, false)
	default:
		return unsupportedField(n.PartType())
	}
}
