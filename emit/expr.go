package emit

import (
	"reflect"
	"strconv"

	"github.com/queryforge/sqlbuild/ast"
)

var aggregateNames = map[ast.AggregateType]string{
	ast.AggregateCount:    "COUNT",
	ast.AggregateBigCount: "COUNT_BIG",
	ast.AggregateMin:      "MIN",
	ast.AggregateMax:      "MAX",
	ast.AggregateSum:      "SUM",
	ast.AggregateAverage:  "AVG",
}

func (e *Emitter) emitAggregate(a *ast.Aggregate) error {
	name, ok := aggregateNames[a.AggregateType]
	if !ok {
		return unknownAggregate(a.AggregateType)
	}
	e.buf.WriteString(name)
	e.buf.WriteString("(")
	if a.IsDistinct {
		e.buf.WriteString("DISTINCT ")
	}
	if a.Field == nil {
		if a.AggregateType != ast.AggregateCount && a.AggregateType != ast.AggregateBigCount {
			return unknownAggregate(a.AggregateType)
		}
		e.buf.WriteString("*")
	} else if err := e.emitNode(a.Field); err != nil {
		return err
	}
	e.buf.WriteString(")")
	return nil
}

func (e *Emitter) emitRowNumber(r *ast.RowNumber) error {
	e.buf.WriteString("ROW_NUMBER() OVER(ORDER BY ")
	for i, ob := range r.OrderBy {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		if err := e.emitNode(ob.Field); err != nil {
			return err
		}
		if !ob.Ascending {
			e.buf.WriteString(" DESC")
		}
	}
	e.buf.WriteString(") AS RowNumber")
	return nil
}

func (e *Emitter) emitCoalesce(c *ast.CoalesceFunction) error {
	e.buf.WriteString("COALESCE(")
	for i, a := range c.Args {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		if err := e.emitNode(a); err != nil {
			return err
		}
	}
	e.buf.WriteString(")")
	return nil
}

func (e *Emitter) emitConvert(c *ast.ConvertFunction) error {
	e.buf.WriteString("CONVERT(VARCHAR, ")
	if err := e.emitNode(c.Expr); err != nil {
		return err
	}
	e.buf.WriteString(")")
	return nil
}

// binaryTokens maps BinaryOperator to its T-SQL token. BitwiseOr and
// BitwiseExclusiveOr both map to "|" — preserved verbatim from the source
// system per spec.md §9; flagged as a likely bug there, not invented here.
var binaryTokens = map[ast.BinaryOperator]string{
	ast.BinaryAdd:                "+",
	ast.BinarySubtract:           "-",
	ast.BinaryMultiply:           "*",
	ast.BinaryDivide:             "/",
	ast.BinaryRemainder:          "%",
	ast.BinaryExclusiveOr:        "^",
	ast.BinaryBitwiseAnd:         "&",
	ast.BinaryBitwiseOr:          "|",
	ast.BinaryBitwiseExclusiveOr: "|",
	ast.BinaryBitwiseNot:         "~",
}

func (e *Emitter) emitBinaryOperation(b *ast.BinaryOperation) error {
	switch b.Operator {
	case ast.BinaryLeftShift, ast.BinaryRightShift:
		op := "*"
		if b.Operator == ast.BinaryRightShift {
			op = "/"
		}
		e.buf.WriteString("(")
		if err := e.emitNode(b.Left); err != nil {
			return err
		}
		e.buf.WriteString(" " + op + " POWER(2, ")
		if err := e.emitNode(b.Right); err != nil {
			return err
		}
		e.buf.WriteString("))")
		return nil
	default:
		tok, ok := binaryTokens[b.Operator]
		if !ok {
			return unknownOperator(b.Operator)
		}
		e.buf.WriteString("(")
		if err := e.emitNode(b.Left); err != nil {
			return err
		}
		e.buf.WriteString(" " + tok + " ")
		if err := e.emitNode(b.Right); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil
	}
}

func (e *Emitter) emitUnaryOperation(u *ast.UnaryOperation) error {
	switch u.Operator {
	case ast.UnaryNot:
		e.buf.WriteString("NOT ")
	case ast.UnaryNegate:
		e.buf.WriteString("-")
	default:
		return unknownOperator(u.Operator)
	}
	return e.emitNode(u.Expression)
}

// emitConstant applies the special encoding rules of spec.md §4.2 before
// interning: nil, bool, empty string and non-string/non-byte-slice
// iterables are rendered as inline SQL literals and never consume a
// parameter slot; everything else is interned as @N.
func (e *Emitter) emitConstant(c *ast.ConstantPart) error {
	return e.emitConstantValue(c.Value)
}

func (e *Emitter) emitConstantValue(value any) error {
	switch v := value.(type) {
	case nil:
		e.buf.WriteString("NULL")
		return nil
	case bool:
		if v {
			e.buf.WriteString("1")
		} else {
			e.buf.WriteString("0")
		}
		return nil
	case string:
		if v == "" {
			e.buf.WriteString("''")
			return nil
		}
	case *ast.ConstantPart:
		return e.emitConstantValue(v.Value)
	}

	if en, ok := value.(ast.Enum); ok {
		idx := e.sink.Intern(en.EnumValue())
		e.buf.WriteString("@" + strconv.Itoa(idx))
		return nil
	}

	if _, isBytes := value.([]byte); !isBytes {
		rv := reflect.ValueOf(value)
		if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
			for i := 0; i < rv.Len(); i++ {
				if i > 0 {
					e.buf.WriteString(", ")
				}
				if err := e.emitConstantValue(rv.Index(i).Interface()); err != nil {
					return err
				}
			}
			return nil
		}
	}

	idx := e.sink.Intern(value)
	e.buf.WriteString("@" + strconv.Itoa(idx))
	return nil
}
