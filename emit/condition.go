package emit

import (
	"reflect"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/textbuf"
)

var comparisonTokens = map[ast.Operator]string{
	ast.OpEquals:              "=",
	ast.OpNotEquals:           "<>",
	ast.OpIsLessThan:          "<",
	ast.OpIsLessThanOrEqual:   "<=",
	ast.OpIsGreaterThan:       ">",
	ast.OpIsGreaterThanOrEqual: ">=",
}

func isNullConstant(n ast.Node) bool {
	c, ok := n.(*ast.ConstantPart)
	return ok && c.Value == nil
}

func isEmptyIterableConstant(n ast.Node) bool {
	c, ok := n.(*ast.ConstantPart)
	if !ok {
		return false
	}
	if _, isBytes := c.Value.([]byte); isBytes {
		return false
	}
	if _, isString := c.Value.(string); isString {
		return false
	}
	rv := reflect.ValueOf(c.Value)
	if !rv.IsValid() {
		return false
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	return rv.Len() == 0
}

// emitWhere emits the top-level WHERE clause of a select (spec.md §4.5).
func (e *Emitter) emitWhere(cc *ast.ConditionCollection) error {
	e.buf.WriteString("WHERE ")
	return e.emitConditionListBody(cc)
}

// emitConditionList emits a bare condition list with no WHERE prefix and
// no wrapping parens — used where the caller already supplies the
// surrounding parens literally (Join's " ON ( ... )").
func (e *Emitter) emitConditionList(cc *ast.ConditionCollection) error {
	return e.emitConditionListBody(cc)
}

func (e *Emitter) emitConditionListBody(cc *ast.ConditionCollection) error {
	if cc.Not {
		e.buf.WriteString("NOT ")
	}
	for i, cond := range cc.Conditions {
		if i > 0 {
			e.buf.AppendNewLine(textbuf.Same)
			switch cond.Relate() {
			case ast.RelationAnd:
				e.buf.WriteString("AND ")
			case ast.RelationOr:
				e.buf.WriteString("OR ")
			default:
				return invalidConditionRelation(cond.Relate())
			}
		}
		if err := e.emitConditionExpr(cond); err != nil {
			return err
		}
	}
	return nil
}

// emitConditionExpr dispatches a ConditionExpression (Condition, Exists,
// or a nested ConditionCollection acting as a parenthesized group).
func (e *Emitter) emitConditionExpr(ce ast.ConditionExpression) error {
	switch v := ce.(type) {
	case *ast.Condition:
		return e.emitScalarCondition(v)
	case *ast.Exists:
		return e.emitExists(v)
	case *ast.ConditionCollection:
		e.buf.WriteString("(")
		if err := e.emitConditionListBody(v); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil
	default:
		return unsupportedField(ce.PartType())
	}
}

func (e *Emitter) emitExists(ex *ast.Exists) error {
	if ex.Not {
		e.buf.WriteString("NOT ")
	}
	e.buf.WriteString("EXISTS (")
	e.buf.AppendNewLine(textbuf.Inner)
	err := e.emitSelectAny(ex.Select)
	e.buf.AppendNewLine(textbuf.Outer)
	if err != nil {
		return err
	}
	e.buf.WriteString(")")
	return nil
}

// emitScalarCondition implements the single-Condition emission rules of
// spec.md §4.5, including the per-condition Not flag: since the spec is
// silent on how a scalar Condition's own Not combines with its operator,
// this wraps the comparison in NOT ( ... ), consistent with how the
// collection-level Not is applied (see DESIGN.md).
func (e *Emitter) emitScalarCondition(cond *ast.Condition) error {
	if cond.Not {
		e.buf.WriteString("NOT (")
	}
	if err := e.emitScalarConditionBody(cond); err != nil {
		return err
	}
	if cond.Not {
		e.buf.WriteString(")")
	}
	return nil
}

func (e *Emitter) emitScalarConditionBody(cond *ast.Condition) error {
	if (isNullConstant(cond.Field) || isNullConstant(cond.Value)) &&
		(cond.Operator == ast.OpEquals || cond.Operator == ast.OpNotEquals) {
		other := cond.Field
		if isNullConstant(cond.Field) {
			other = cond.Value
		}
		if err := e.emitNode(other); err != nil {
			return err
		}
		if cond.Operator == ast.OpNotEquals {
			e.buf.WriteString(" IS NOT NULL")
		} else {
			e.buf.WriteString(" IS NULL")
		}
		return nil
	}

	switch cond.Operator {
	case ast.OpEquals, ast.OpNotEquals, ast.OpIsLessThan, ast.OpIsLessThanOrEqual,
		ast.OpIsGreaterThan, ast.OpIsGreaterThanOrEqual:
		tok, ok := comparisonTokens[cond.Operator]
		if !ok {
			return unknownOperator(cond.Operator)
		}
		if err := e.emitNode(cond.Field); err != nil {
			return err
		}
		e.buf.WriteString(" " + tok + " ")
		return e.emitNode(cond.Value)

	case ast.OpIsIn:
		if isEmptyIterableConstant(cond.Value) {
			e.buf.WriteString(" 0 <> 0")
			return nil
		}
		if err := e.emitNode(cond.Field); err != nil {
			return err
		}
		e.buf.WriteString(" IN (")
		e.buf.AppendNewLine(textbuf.Inner)
		err := e.emitNode(cond.Value)
		e.buf.AppendNewLine(textbuf.Outer)
		if err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.OpContains:
		if err := e.emitNode(cond.Field); err != nil {
			return err
		}
		e.buf.WriteString(" LIKE '%' + ")
		if err := e.emitNode(cond.Value); err != nil {
			return err
		}
		e.buf.WriteString(" + '%'")
		return nil

	case ast.OpStartsWith:
		if err := e.emitNode(cond.Field); err != nil {
			return err
		}
		e.buf.WriteString(" LIKE ")
		if err := e.emitNode(cond.Value); err != nil {
			return err
		}
		e.buf.WriteString(" + '%'")
		return nil

	case ast.OpEndsWith:
		if err := e.emitNode(cond.Field); err != nil {
			return err
		}
		e.buf.WriteString(" LIKE '%' + ")
		return e.emitNode(cond.Value)

	default:
		return unknownOperator(cond.Operator)
	}
}

func (e *Emitter) emitConditionPredicate(cp *ast.ConditionPredicate) error {
	e.buf.WriteString("(CASE WHEN ")
	if err := e.emitConditionExpr(cp.Predicate); err != nil {
		return err
	}
	e.buf.WriteString(" THEN 1 ELSE 0 END)")
	return nil
}

func (e *Emitter) emitConditionalCase(c *ast.ConditionalCase) error {
	if _, ok := c.Test.(ast.ConditionExpression); ok {
		e.buf.WriteString("(CASE")
		cur := c
		for {
			e.buf.WriteString(" WHEN ")
			if err := e.emitConditionExpr(cur.Test.(ast.ConditionExpression)); err != nil {
				return err
			}
			e.buf.WriteString(" THEN ")
			if err := e.emitNode(cur.IfTrue); err != nil {
				return err
			}
			next, ok := cur.IfFalse.(*ast.ConditionalCase)
			if !ok {
				break
			}
			cur = next
		}
		if cur.IfFalse != nil {
			e.buf.WriteString(" ELSE ")
			if err := e.emitNode(cur.IfFalse); err != nil {
				return err
			}
		}
		e.buf.WriteString(" END)")
		return nil
	}

	e.buf.WriteString("(CASE ")
	if err := e.emitNode(c.Test); err != nil {
		return err
	}
	e.buf.WriteString(" WHEN 0 THEN ")
	if err := e.emitNode(c.IfFalse); err != nil {
		return err
	}
	e.buf.WriteString(" ELSE ")
	if err := e.emitNode(c.IfTrue); err != nil {
		return err
	}
	e.buf.WriteString(" END)")
	return nil
}
