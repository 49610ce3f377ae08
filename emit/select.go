package emit

import (
	"strconv"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/textbuf"
)

var joinKeywords = map[ast.JoinType]string{
	ast.JoinInner:      "INNER JOIN",
	ast.JoinLeft:       "LEFT OUTER JOIN",
	ast.JoinRight:      "RIGHT OUTER JOIN",
	ast.JoinCross:      "CROSS JOIN",
	ast.JoinCrossApply: "CROSS APPLY",
}

// emitSelectAny applies the Select Rewriter's priority order (spec.md
// §4.4) and emits whichever rewrite (or the base path) applies. This is
// the single recursive entry point for every SelectStatement emission:
// top-level Build, union arms, Exists targets, nested sources and
// SelectExpression all funnel through here.
func (e *Emitter) emitSelectAny(s *ast.SelectStatement) error {
	switch {
	case s.StartIndex > 0:
		return e.emitPaging(s)
	case s.IsAny:
		return e.emitIsAny(s)
	case s.IsAll:
		return e.emitIsAll(s)
	case s.IsContains:
		return e.emitIsContains(s)
	default:
		return e.emitPlainSelect(s)
	}
}

// cloneSelect returns a shallow copy so rewrites can toggle flags without
// mutating the caller's tree (spec.md §3 "self-healing" requirement,
// implemented per the copy-with approach spec.md §9 recommends over
// toggle-then-revert on a shared node — see DESIGN.md).
func cloneSelect(s *ast.SelectStatement) *ast.SelectStatement {
	clone := *s
	return &clone
}

func (e *Emitter) emitIsAny(s *ast.SelectStatement) error {
	inner := cloneSelect(s)
	inner.IsAny = false

	e.buf.WriteString("SELECT CASE WHEN EXISTS (")
	e.buf.AppendNewLine(textbuf.Inner)
	err := e.emitSelectAny(inner)
	e.buf.AppendNewLine(textbuf.Outer)
	if err != nil {
		return err
	}
	e.buf.WriteString(") THEN 1 ELSE 0 END")
	return nil
}

func (e *Emitter) emitIsAll(s *ast.SelectStatement) error {
	inner := cloneSelect(s)
	inner.IsAll = false
	if inner.Conditions != nil {
		cc := inner.Conditions.Clone()
		cc.Not = !cc.Not
		inner.Conditions = cc
	}

	e.buf.WriteString("SELECT CASE WHEN NOT EXISTS (")
	e.buf.AppendNewLine(textbuf.Inner)
	err := e.emitSelectAny(inner)
	e.buf.AppendNewLine(textbuf.Outer)
	if err != nil {
		return err
	}
	e.buf.WriteString(") THEN 1 ELSE 0 END")
	return nil
}

func (e *Emitter) emitIsContains(s *ast.SelectStatement) error {
	inner := cloneSelect(s)
	inner.IsContains = false

	e.buf.WriteString("SELECT CASE WHEN ")
	if err := e.emitNode(s.ContainsItem); err != nil {
		return err
	}
	e.buf.WriteString(" IN (")
	e.buf.AppendNewLine(textbuf.Inner)
	err := e.emitSelectAny(inner)
	e.buf.AppendNewLine(textbuf.Outer)
	if err != nil {
		return err
	}
	e.buf.WriteString(") THEN 1 ELSE 0 END")
	return nil
}

// emitPaging implements the ROW_NUMBER paging envelope (spec.md §4.4
// rule 1). The outer RowNumber reference is a bare identifier, bracketed
// the same way Column emission would bracket it (spec.md §9 open
// question, resolved in favor of bracketing per the §8 scenario).
func (e *Emitter) emitPaging(s *ast.SelectStatement) error {
	startIdx := e.sink.Intern(s.StartIndex)
	hasLimit := s.Limit > 0
	var endIdx int
	if hasLimit {
		endIdx = e.sink.Intern(s.StartIndex + s.Limit)
	}

	e.buf.WriteString("SELECT ")
	if len(s.SourceFields) == 0 {
		e.buf.WriteString("*")
	} else {
		for i, f := range s.SourceFields {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			name := ""
			if col, ok := f.(*ast.Column); ok {
				name = col.Name
			}
			e.buf.WriteString("[RowNumberTable].[" + name + "]")
		}
	}

	e.buf.AppendNewLine(textbuf.Same)
	e.buf.WriteString("FROM (")
	e.buf.AppendNewLine(textbuf.Inner)
	e.buf.WriteString("SELECT ")
	if len(s.SourceFields) == 0 {
		if t, ok := s.Source.(*ast.Table); ok {
			if err := e.emitTableDotStar(t); err != nil {
				return err
			}
			e.buf.WriteString(", ")
		}
	} else {
		for i, f := range s.SourceFields {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			if err := e.emitNode(f); err != nil {
				return err
			}
		}
		e.buf.WriteString(", ")
	}
	if err := e.emitNode(&ast.RowNumber{OrderBy: s.OrderByFields}); err != nil {
		return err
	}

	e.buf.AppendNewLine(textbuf.Same)
	e.buf.WriteString("FROM ")
	if err := e.emitSource(s.Source, true); err != nil {
		return err
	}
	for _, j := range s.SourceJoins {
		e.buf.AppendNewLine(textbuf.Same)
		if err := e.emitJoin(j); err != nil {
			return err
		}
	}
	if s.Conditions != nil && len(s.Conditions.Conditions) > 0 {
		e.buf.AppendNewLine(textbuf.Same)
		if err := e.emitWhere(s.Conditions); err != nil {
			return err
		}
	}
	e.buf.AppendNewLine(textbuf.Outer)
	e.buf.WriteString(") AS RowNumberTable")

	e.buf.AppendNewLine(textbuf.Same)
	e.buf.WriteString("WHERE [RowNumber] > @" + strconv.Itoa(startIdx))
	if hasLimit {
		e.buf.WriteString(" AND [RowNumber] <= @" + strconv.Itoa(endIdx))
	}
	e.buf.AppendNewLine(textbuf.Same)
	e.buf.WriteString("ORDER BY [RowNumber]")
	return nil
}

func hasAggregateField(fields []ast.Node) bool {
	for _, f := range fields {
		if _, ok := f.(*ast.Aggregate); ok {
			return true
		}
	}
	return false
}

// emitPlainSelect is the base path: no paging/ANY/ALL/CONTAINS rewrite
// applies (spec.md §4.5).
func (e *Emitter) emitPlainSelect(s *ast.SelectStatement) error {
	e.buf.WriteString("SELECT ")
	if s.IsDistinct {
		e.buf.WriteString("DISTINCT ")
	}
	if e.Hooks.LimitAtStart != nil {
		if err := e.Hooks.LimitAtStart(e, s); err != nil {
			return err
		}
	}
	if err := e.emitSelectFields(s); err != nil {
		return err
	}

	e.buf.AppendNewLine(textbuf.Same)
	e.buf.WriteString("FROM ")
	if err := e.emitSource(s.Source, true); err != nil {
		return err
	}
	for _, j := range s.SourceJoins {
		e.buf.AppendNewLine(textbuf.Same)
		if err := e.emitJoin(j); err != nil {
			return err
		}
	}
	if s.Conditions != nil && len(s.Conditions.Conditions) > 0 {
		e.buf.AppendNewLine(textbuf.Same)
		if err := e.emitWhere(s.Conditions); err != nil {
			return err
		}
	}
	if len(s.GroupByFields) > 0 {
		e.buf.AppendNewLine(textbuf.Same)
		e.buf.WriteString("GROUP BY ")
		for i, g := range s.GroupByFields {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			if err := e.emitNode(g); err != nil {
				return err
			}
		}
	}

	orderBy := s.OrderByFields
	if hasAggregateField(s.SourceFields) || s.IsAggregate {
		orderBy = nil
	}
	if len(orderBy) > 0 {
		e.buf.AppendNewLine(textbuf.Same)
		e.buf.WriteString("ORDER BY ")
		for i, ob := range orderBy {
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
	}

	if e.Hooks.LimitAtEnd != nil {
		if err := e.Hooks.LimitAtEnd(e, s); err != nil {
			return err
		}
	}

	for _, u := range s.UnionStatements {
		e.buf.AppendNewLine(textbuf.Same)
		e.buf.WriteString("UNION ALL")
		e.buf.AppendNewLine(textbuf.Same)
		if err := e.emitSelectAny(u); err != nil {
			return err
		}
	}
	return nil
}

// emitSelectFields implements the field-emission rules of spec.md §4.5.
func (e *Emitter) emitSelectFields(s *ast.SelectStatement) error {
	if len(s.SourceFieldsFrom) > 0 {
		for i, t := range s.SourceFieldsFrom {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			if err := e.emitTableDotStar(t); err != nil {
				return err
			}
		}
		if len(s.SourceFields) > 0 {
			e.buf.WriteString(", ")
		}
	}
	if len(s.SourceFields) > 0 {
		for i, f := range s.SourceFields {
			if i > 0 {
				e.buf.WriteString(", ")
			}
			if err := e.emitNode(f); err != nil {
				return err
			}
		}
		return nil
	}
	if len(s.SourceFieldsFrom) == 0 {
		if e.nested {
			e.buf.WriteString("NULL AS tmp")
		} else {
			e.buf.WriteString("*")
		}
	}
	return nil
}

// emitTableDotStar emits "<table>.*" for a table selected wholesale via
// SourceFieldsFrom or the paging rewrite's implicit Table.* field.
func (e *Emitter) emitTableDotStar(t *ast.Table) error {
	if t.Alias != "" {
		e.buf.WriteString("[" + t.Alias + "]")
	} else if err := e.emitTableRef(t, false); err != nil {
		return err
	}
	e.buf.WriteString(".*")
	return nil
}

// emitSource emits a Select source/join target. asFrom controls whether a
// Table's alias is appended (only true when used directly as a FROM
// clause, per spec.md §4.5).
func (e *Emitter) emitSource(src ast.Source, asFrom bool) error {
	switch v := src.(type) {
	case *ast.Table:
		return e.emitTableRef(v, asFrom)
	case *ast.SelectStatement:
		prevNested := e.nested
		e.nested = true
		e.buf.WriteString("(")
		e.buf.AppendNewLine(textbuf.Inner)
		err := e.emitSelectAny(v)
		e.buf.AppendNewLine(textbuf.Outer)
		e.nested = prevNested
		if err != nil {
			return err
		}
		e.buf.WriteString(")")
		if v.Alias != "" {
			e.buf.WriteString(" AS [" + v.Alias + "]")
		}
		return nil
	case *ast.Join:
		return e.emitJoin(v)
	case *ast.UserDefinedFunction:
		return e.emitUDF(v, asFrom)
	default:
		return invalidSourceKind(src)
	}
}

func (e *Emitter) emitJoin(j *ast.Join) error {
	kw, ok := joinKeywords[j.JoinType]
	if !ok {
		return unknownOperator(j.JoinType)
	}
	e.buf.WriteString(kw + " ")
	if err := e.emitSource(j.Table, true); err != nil {
		return err
	}
	if j.Conditions != nil && len(j.Conditions.Conditions) > 0 {
		e.buf.WriteString(" ON (")
		if err := e.emitConditionList(j.Conditions); err != nil {
			return err
		}
		e.buf.WriteString(")")
	}
	return nil
}

func (e *Emitter) emitTableRef(t *ast.Table, asSource bool) error {
	if t.Schema != "" {
		e.buf.WriteString("[" + t.Schema + "].")
	}
	e.buf.WriteString("[" + t.Name + "]")
	if asSource && t.Alias != "" {
		e.buf.WriteString(" AS [" + t.Alias + "]")
	}
	return nil
}

func (e *Emitter) emitUDF(u *ast.UserDefinedFunction, _ bool) error {
	if u.Schema != "" {
		e.buf.WriteString(u.Schema + ".")
	}
	e.buf.WriteString(u.Name)
	e.buf.WriteString("(")
	for i, a := range u.Args {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		if err := e.emitNode(a); err != nil {
			return err
		}
	}
	e.buf.WriteString(")")
	if u.Alias != "" {
		e.buf.WriteString(" AS [" + u.Alias + "]")
	}
	return nil
}

func (e *Emitter) emitColumn(c *ast.Column) error {
	if c.Table != nil && c.Table.Name != "" {
		if c.Table.Alias != "" {
			e.buf.WriteString("[" + c.Table.Alias + "].")
		} else {
			if err := e.emitTableRef(c.Table, false); err != nil {
				return err
			}
			e.buf.WriteString(".")
		}
	}
	switch {
	case c.Name == "*":
		e.buf.WriteString("*")
	case len(c.Name) > 0 && c.Name[0] == '@':
		e.buf.WriteString(c.Name)
	default:
		e.buf.WriteString("[" + c.Name + "]")
		if c.Alias != "" {
			e.buf.WriteString(" AS [" + c.Alias + "]")
		}
	}
	return nil
}

func (e *Emitter) emitSelectExpression(se *ast.SelectExpression) error {
	prevNested := e.nested
	e.nested = true
	e.buf.WriteString("(")
	e.buf.AppendNewLine(textbuf.Inner)
	err := e.emitSelectAny(se.Select)
	e.buf.AppendNewLine(textbuf.Outer)
	e.nested = prevNested
	if err != nil {
		return err
	}
	e.buf.WriteString(")")
	if se.Alias != "" {
		e.buf.WriteString(" AS [" + se.Alias + "]")
	}
	return nil
}
