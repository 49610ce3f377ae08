package emit

import "github.com/queryforge/sqlbuild/ast"

func (e *Emitter) emitPlusOne(n ast.Node) error {
	e.buf.WriteString("(")
	if err := e.emitNode(n); err != nil {
		return err
	}
	e.buf.WriteString(" + 1)")
	return nil
}

func (e *Emitter) emitStringFunction(s *ast.StringFunction) error {
	switch s.Kind {
	case ast.StringLength:
		e.buf.WriteString("LEN(")
		if err := e.emitNode(s.Arg); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.StringSubstring:
		e.buf.WriteString("SUBSTRING(")
		if err := e.emitNode(s.Arg); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitPlusOne(s.Start); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(s.Length); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.StringRemove:
		e.buf.WriteString("STUFF(")
		if err := e.emitNode(s.Arg); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitPlusOne(s.Start); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(s.Length); err != nil {
			return err
		}
		e.buf.WriteString(", '')")
		return nil

	case ast.StringIndexOf:
		// Clamps at zero only by subtraction: CHARINDEX returns 0 when
		// the needle is absent, so this yields -1 rather than a clamped
		// 0. Preserved as-is per spec.md §9.
		e.buf.WriteString("(CHARINDEX(")
		if err := e.emitNode(s.Needle); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(s.Haystack); err != nil {
			return err
		}
		if s.Start != nil {
			e.buf.WriteString(", ")
			if err := e.emitNode(s.Start); err != nil {
				return err
			}
		}
		e.buf.WriteString(") - 1)")
		return nil

	case ast.StringToUpper:
		e.buf.WriteString("UPPER(")
		if err := e.emitNode(s.Arg); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.StringToLower:
		e.buf.WriteString("LOWER(")
		if err := e.emitNode(s.Arg); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.StringReplace:
		e.buf.WriteString("REPLACE(")
		if err := e.emitNode(s.Arg); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(s.Needle); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(s.Haystack); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.StringTrim:
		e.buf.WriteString("RTRIM(LTRIM(")
		if err := e.emitNode(s.Arg); err != nil {
			return err
		}
		e.buf.WriteString("))")
		return nil

	case ast.StringCompare:
		e.buf.WriteString("(CASE WHEN ")
		if err := e.emitNode(s.Left); err != nil {
			return err
		}
		e.buf.WriteString(" = ")
		if err := e.emitNode(s.Right); err != nil {
			return err
		}
		e.buf.WriteString(" THEN 0 WHEN ")
		if err := e.emitNode(s.Left); err != nil {
			return err
		}
		e.buf.WriteString(" < ")
		if err := e.emitNode(s.Right); err != nil {
			return err
		}
		e.buf.WriteString(" THEN -1 ELSE 1 END)")
		return nil

	case ast.StringConcatenate:
		for i, a := range s.Args {
			if i > 0 {
				e.buf.WriteString(" + ")
			}
			if err := e.emitNode(a); err != nil {
				return err
			}
		}
		return nil

	default:
		return unsupportedField(s.Kind)
	}
}

var datePartTokens = map[ast.DateFunctionKind]string{
	ast.DatePartYear:   "year",
	ast.DatePartMonth:  "month",
	ast.DatePartDay:    "day",
	ast.DatePartHour:   "hour",
	ast.DatePartMinute: "minute",
	ast.DatePartSecond: "second",
}

func (e *Emitter) emitDateFunction(d *ast.DateFunction) error {
	switch d.Kind {
	case ast.DatePartYear, ast.DatePartMonth, ast.DatePartDay,
		ast.DatePartHour, ast.DatePartMinute, ast.DatePartSecond:
		tok := datePartTokens[d.Kind]
		e.buf.WriteString("DATEPART(" + tok + ", ")
		if err := e.emitNode(d.Arg); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.DatePartDayOfWeek:
		e.buf.WriteString("(DATEPART(weekday, ")
		if err := e.emitNode(d.Arg); err != nil {
			return err
		}
		e.buf.WriteString(") - 1)")
		return nil

	case ast.DatePartDayOfYear:
		e.buf.WriteString("(DATEPART(dayofyear, ")
		if err := e.emitNode(d.Arg); err != nil {
			return err
		}
		e.buf.WriteString(") - 1)")
		return nil

	case ast.DateOnly:
		e.buf.WriteString("DATEADD(dd, DATEDIFF(dd, 0, ")
		if err := e.emitNode(d.Arg); err != nil {
			return err
		}
		e.buf.WriteString("), 0)")
		return nil

	case ast.DateAdd:
		e.buf.WriteString("DATEADD(" + d.Part + ", ")
		if err := e.emitNode(d.Number); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(d.Arg); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.DateDiff:
		e.buf.WriteString("DATEDIFF(" + d.Part + ", ")
		if err := e.emitNode(d.Start); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(d.Arg); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	default:
		return invalidDatePart(d.Kind)
	}
}

func (e *Emitter) emitDateConstruct(d *ast.DateConstruct) error {
	e.buf.WriteString("CONVERT(DATETIME, ")
	if err := e.emitNode(d.Year); err != nil {
		return err
	}
	e.buf.WriteString(" + '/' + ")
	if err := e.emitNode(d.Month); err != nil {
		return err
	}
	e.buf.WriteString(" + '/' + ")
	if err := e.emitNode(d.Day); err != nil {
		return err
	}
	if d.Hour != nil {
		e.buf.WriteString(" + ' ' + ")
		if err := e.emitNode(d.Hour); err != nil {
			return err
		}
		e.buf.WriteString(" + ':' + ")
		if err := e.emitNode(d.Minute); err != nil {
			return err
		}
		e.buf.WriteString(" + ':' + ")
		if err := e.emitNode(d.Second); err != nil {
			return err
		}
	}
	e.buf.WriteString(")")
	return nil
}

var numericFuncNames = map[ast.NumericFunctionKind]string{
	ast.NumericAbs:     "ABS",
	ast.NumericCeiling: "CEILING",
	ast.NumericFloor:   "FLOOR",
	ast.NumericSign:    "SIGN",
	ast.NumericSqrt:    "SQRT",
	ast.NumericExp:     "EXP",
	ast.NumericLog:     "LOG",
	ast.NumericLog10:   "LOG10",
	ast.NumericSin:     "SIN",
	ast.NumericCos:     "COS",
	ast.NumericTan:     "TAN",
	ast.NumericAsin:    "ASIN",
	ast.NumericAcos:    "ACOS",
	ast.NumericAtan:    "ATAN",
	ast.NumericSinh:    "SINH",
	ast.NumericCosh:    "COSH",
	ast.NumericTanh:    "TANH",
	ast.NumericCot:     "COT",
	ast.NumericDegrees: "DEGREES",
	ast.NumericRadians: "RADIANS",
}

func (e *Emitter) emitNumericFunction(n *ast.NumericFunction) error {
	switch n.Kind {
	case ast.NumericRound:
		e.buf.WriteString("ROUND(")
		if err := e.emitNode(n.Arg); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(n.Precision); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.NumericTruncate:
		e.buf.WriteString("ROUND(")
		if err := e.emitNode(n.Arg); err != nil {
			return err
		}
		e.buf.WriteString(", 0, 1)")
		return nil

	case ast.NumericPower:
		e.buf.WriteString("POWER(")
		if err := e.emitNode(n.Arg); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(n.Exponent); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	case ast.NumericAtan2:
		e.buf.WriteString("ATAN2(")
		if err := e.emitNode(n.Arg); err != nil {
			return err
		}
		e.buf.WriteString(", ")
		if err := e.emitNode(n.Exponent); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil

	default:
		name, ok := numericFuncNames[n.Kind]
		if !ok {
			return unsupportedField(n.Kind)
		}
		e.buf.WriteString(name + "(")
		if err := e.emitNode(n.Arg); err != nil {
			return err
		}
		e.buf.WriteString(")")
		return nil
	}
}
