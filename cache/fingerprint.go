package cache

import (
	"fmt"
	"strings"

	"github.com/queryforge/sqlbuild/ast"
)

// fingerprint renders stmt's shape as a deterministic string: every
// structural detail (sources, columns, operators, join types, aggregate
// kinds, predicate count and nesting) is written out, but ConstantPart
// values are replaced by their Go type name. Two statements built from
// the same call site with different argument values collapse to the
// same fingerprint; a different predicate, column, or operator does not.
func fingerprint(stmt *ast.SelectStatement) string {
	var b strings.Builder
	writeSelect(&b, stmt)
	return b.String()
}

func writeSelect(b *strings.Builder, s *ast.SelectStatement) {
	b.WriteString("SELECT(")
	if s.IsDistinct {
		b.WriteString("DISTINCT,")
	}
	if s.IsAggregate {
		b.WriteString("AGGREGATE,")
	}
	writeSource(b, s.Source)
	for _, j := range s.SourceJoins {
		b.WriteString(";JOIN:")
		b.WriteString(string(j.JoinType))
		b.WriteString("(")
		writeSource(b, j.Table)
		b.WriteString(")")
		writeConditionCollection(b, j.Conditions)
	}
	if len(s.SourceFieldsFrom) > 0 {
		b.WriteString(";FIELDSFROM[")
		for _, t := range s.SourceFieldsFrom {
			writeSource(b, t)
		}
		b.WriteString("]")
	}
	b.WriteString(";FIELDS[")
	for i, f := range s.SourceFields {
		if i > 0 {
			b.WriteString(",")
		}
		writeNode(b, f)
	}
	b.WriteString("]")
	writeConditionCollection(b, s.Conditions)
	if len(s.GroupByFields) > 0 {
		b.WriteString(";GROUPBY[")
		for i, f := range s.GroupByFields {
			if i > 0 {
				b.WriteString(",")
			}
			writeNode(b, f)
		}
		b.WriteString("]")
	}
	if len(s.OrderByFields) > 0 {
		b.WriteString(";ORDERBY[")
		for i, ob := range s.OrderByFields {
			if i > 0 {
				b.WriteString(",")
			}
			writeNode(b, ob.Field)
			if ob.Ascending {
				b.WriteString(":ASC")
			} else {
				b.WriteString(":DESC")
			}
		}
		b.WriteString("]")
	}
	if s.Limit > 0 || s.StartIndex > 0 {
		fmt.Fprintf(b, ";PAGE(limit=%d,start=%d)", s.Limit, s.StartIndex)
	}
	if s.IsAny {
		b.WriteString(";ANY")
	}
	if s.IsAll {
		b.WriteString(";ALL")
	}
	if s.IsContains {
		b.WriteString(";CONTAINS(")
		writeNode(b, s.ContainsItem)
		b.WriteString(")")
	}
	for _, u := range s.UnionStatements {
		b.WriteString(";UNION(")
		writeSelect(b, u)
		b.WriteString(")")
	}
	if s.Alias != "" {
		fmt.Fprintf(b, ";ALIAS(%s)", s.Alias)
	}
	b.WriteString(")")
}

func writeSource(b *strings.Builder, src ast.Source) {
	switch v := src.(type) {
	case *ast.Table:
		fmt.Fprintf(b, "TABLE(%s.%s AS %s)", v.Schema, v.Name, v.Alias)
	case *ast.SelectStatement:
		writeSelect(b, v)
	case *ast.Join:
		b.WriteString("JOIN:")
		b.WriteString(string(v.JoinType))
		b.WriteString("(")
		writeSource(b, v.Table)
		b.WriteString(")")
		writeConditionCollection(b, v.Conditions)
	case *ast.UserDefinedFunction:
		writeNode(b, v)
	default:
		fmt.Fprintf(b, "SOURCE(%T)", src)
	}
}

func writeConditionCollection(b *strings.Builder, cc *ast.ConditionCollection) {
	if cc == nil || len(cc.Conditions) == 0 {
		return
	}
	b.WriteString(";WHERE[")
	if cc.Not {
		b.WriteString("NOT:")
	}
	for i, ce := range cc.Conditions {
		if i > 0 {
			b.WriteString(",")
		}
		writeConditionExpr(b, ce)
	}
	b.WriteString("]")
}

func writeConditionExpr(b *strings.Builder, ce ast.ConditionExpression) {
	if ce.IsNot() {
		b.WriteString("NOT:")
	}
	b.WriteString(string(ce.Relate()))
	b.WriteString(":")
	switch v := ce.(type) {
	case *ast.Condition:
		b.WriteString("COND(")
		writeNode(b, v.Field)
		b.WriteString(" ")
		b.WriteString(string(v.Operator))
		b.WriteString(" ")
		writeNode(b, v.Value)
		b.WriteString(")")
	case *ast.Exists:
		b.WriteString("EXISTS(")
		writeSelect(b, v.Select)
		b.WriteString(")")
	case *ast.ConditionCollection:
		b.WriteString("(")
		for i, inner := range v.Conditions {
			if i > 0 {
				b.WriteString(",")
			}
			writeConditionExpr(b, inner)
		}
		b.WriteString(")")
	default:
		fmt.Fprintf(b, "UNKNOWN(%T)", ce)
	}
}

func writeNode(b *strings.Builder, n ast.Node) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	switch v := n.(type) {
	case *ast.Column:
		if v.Table != nil {
			fmt.Fprintf(b, "COL(%s.%s AS %s|%s AS %s)", v.Table.Schema, v.Table.Name, v.Table.Alias, v.Name, v.Alias)
		} else {
			fmt.Fprintf(b, "COL(%s AS %s)", v.Name, v.Alias)
		}
	case *ast.ConstantPart:
		fmt.Fprintf(b, "CONST(%T)", v.Value)
	case *ast.LiteralPart:
		fmt.Fprintf(b, "LITERAL(%s)", v.Text)
	case *ast.Aggregate:
		fmt.Fprintf(b, "AGG(%s,distinct=%v,", v.AggregateType, v.IsDistinct)
		writeNode(b, v.Field)
		b.WriteString(")")
	case *ast.RowNumber:
		b.WriteString("ROWNUM(")
		for i, ob := range v.OrderBy {
			if i > 0 {
				b.WriteString(",")
			}
			writeNode(b, ob.Field)
			if !ob.Ascending {
				b.WriteString(":DESC")
			}
		}
		b.WriteString(")")
	case *ast.ConditionalCase:
		b.WriteString("CASE(")
		if test, ok := v.Test.(ast.ConditionExpression); ok {
			writeConditionExpr(b, test)
		} else {
			writeNode(b, v.Test)
		}
		b.WriteString(",")
		writeNode(b, v.IfTrue)
		b.WriteString(",")
		writeNode(b, v.IfFalse)
		b.WriteString(")")
	case *ast.ConditionPredicate:
		b.WriteString("PRED(")
		writeConditionExpr(b, v.Predicate)
		b.WriteString(")")
	case *ast.CoalesceFunction:
		b.WriteString("COALESCE[")
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(",")
			}
			writeNode(b, a)
		}
		b.WriteString("]")
	case *ast.ConvertFunction:
		b.WriteString("CONVERT(")
		writeNode(b, v.Expr)
		b.WriteString(")")
	case *ast.BinaryOperation:
		b.WriteString("BIN(")
		writeNode(b, v.Left)
		b.WriteString(string(v.Operator))
		writeNode(b, v.Right)
		b.WriteString(")")
	case *ast.UnaryOperation:
		b.WriteString("UNARY(")
		b.WriteString(string(v.Operator))
		writeNode(b, v.Expression)
		b.WriteString(")")
	case *ast.SelectExpression:
		b.WriteString("SUBSELECT(")
		writeSelect(b, v.Select)
		fmt.Fprintf(b, " AS %s)", v.Alias)
	case *ast.UserDefinedFunction:
		fmt.Fprintf(b, "UDF(%s.%s AS %s)[", v.Schema, v.Name, v.Alias)
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(",")
			}
			writeNode(b, a)
		}
		b.WriteString("]")
	case *ast.StringFunction:
		fmt.Fprintf(b, "STRFN(%s)", v.Kind)
		for _, a := range append([]ast.Node{v.Arg, v.Start, v.Length, v.Needle, v.Haystack, v.Left, v.Right}, v.Args...) {
			b.WriteString(",")
			writeNode(b, a)
		}
	case *ast.DateFunction:
		fmt.Fprintf(b, "DATEFN(%s,%s)", v.Kind, v.Part)
		for _, a := range []ast.Node{v.Arg, v.Number, v.Start} {
			b.WriteString(",")
			writeNode(b, a)
		}
	case *ast.DateConstruct:
		b.WriteString("DATECONSTRUCT")
		for _, a := range []ast.Node{v.Year, v.Month, v.Day, v.Hour, v.Minute, v.Second} {
			b.WriteString(",")
			writeNode(b, a)
		}
	case *ast.NumericFunction:
		fmt.Fprintf(b, "NUMFN(%s)", v.Kind)
		for _, a := range []ast.Node{v.Arg, v.Precision, v.Exponent} {
			b.WriteString(",")
			writeNode(b, a)
		}
	default:
		fmt.Fprintf(b, "NODE(%T)", n)
	}
}
