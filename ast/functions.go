package ast

// StringFunctionKind enumerates the string function family.
type StringFunctionKind string

const (
	StringLength     StringFunctionKind = "Length"
	StringSubstring  StringFunctionKind = "Substring"
	StringRemove     StringFunctionKind = "Remove"
	StringIndexOf    StringFunctionKind = "IndexOf"
	StringToUpper    StringFunctionKind = "ToUpper"
	StringToLower    StringFunctionKind = "ToLower"
	StringReplace    StringFunctionKind = "Replace"
	StringTrim       StringFunctionKind = "Trim"
	StringCompare    StringFunctionKind = "Compare"
	StringConcatenate StringFunctionKind = "Concatenate"
)

// StringFunction is one of the string-family scalar functions. Which
// fields are populated depends on Kind:
//
//	Length       Arg
//	Substring    Arg, Start, Length
//	Remove       Arg, Start, Length           (STUFF(.., '') in T-SQL)
//	IndexOf      Needle, Haystack, Start (optional, nil meaning absent)
//	ToUpper      Arg
//	ToLower      Arg
//	Replace      Arg, Needle, Haystack (Haystack reused as replacement)
//	Trim         Arg
//	Compare      Left, Right
//	Concatenate  Args (variadic)
type StringFunction struct {
	Kind     StringFunctionKind
	Arg      Node
	Start    Node
	Length   Node
	Needle   Node
	Haystack Node
	Left     Node
	Right    Node
	Args     []Node
}

func (s *StringFunction) PartType() PartType { return PartStringFunction }

// DateFunctionKind enumerates the date function family.
type DateFunctionKind string

const (
	DatePartYear      DateFunctionKind = "Year"
	DatePartMonth     DateFunctionKind = "Month"
	DatePartDay       DateFunctionKind = "Day"
	DatePartHour      DateFunctionKind = "Hour"
	DatePartMinute    DateFunctionKind = "Minute"
	DatePartSecond    DateFunctionKind = "Second"
	DatePartDayOfWeek DateFunctionKind = "DayOfWeek"
	DatePartDayOfYear DateFunctionKind = "DayOfYear"
	DateOnly          DateFunctionKind = "DateOnly"
	DateAdd           DateFunctionKind = "DateAdd"
	DateDiff          DateFunctionKind = "DateDiff"
)

// DateFunction is one of the date-family scalar functions.
//
//	DatePart* (Year..DayOfYear), DateOnly   Arg
//	DateAdd                                 Part, Number, Arg
//	DateDiff                                Part, Start, Arg (End)
type DateFunction struct {
	Kind   DateFunctionKind
	Arg    Node
	Part   string
	Number Node
	Start  Node
}

func (d *DateFunction) PartType() PartType { return PartDateFunction }

// DateConstruct builds a DATETIME literal from its component parts via
// string concatenation; Hour/Minute/Second are optional (nil omits the
// time-of-day suffix entirely).
type DateConstruct struct {
	Year, Month, Day       Node
	Hour, Minute, Second   Node
}

func (d *DateConstruct) PartType() PartType { return PartDateConstruct }

// NumericFunctionKind enumerates the numeric/trig function family.
type NumericFunctionKind string

const (
	NumericAbs      NumericFunctionKind = "Abs"
	NumericCeiling  NumericFunctionKind = "Ceiling"
	NumericFloor    NumericFunctionKind = "Floor"
	NumericRound    NumericFunctionKind = "Round"
	NumericTruncate NumericFunctionKind = "Truncate"
	NumericSign     NumericFunctionKind = "Sign"
	NumericPower    NumericFunctionKind = "Power"
	NumericSqrt     NumericFunctionKind = "Sqrt"
	NumericExp      NumericFunctionKind = "Exp"
	NumericLog      NumericFunctionKind = "Log"
	NumericLog10    NumericFunctionKind = "Log10"
	NumericSin      NumericFunctionKind = "Sin"
	NumericCos      NumericFunctionKind = "Cos"
	NumericTan      NumericFunctionKind = "Tan"
	NumericAsin     NumericFunctionKind = "Asin"
	NumericAcos     NumericFunctionKind = "Acos"
	NumericAtan     NumericFunctionKind = "Atan"
	NumericAtan2    NumericFunctionKind = "Atan2"
	NumericSinh     NumericFunctionKind = "Sinh"
	NumericCosh     NumericFunctionKind = "Cosh"
	NumericTanh     NumericFunctionKind = "Tanh"
	NumericCot      NumericFunctionKind = "Cot"
	NumericDegrees  NumericFunctionKind = "Degrees"
	NumericRadians  NumericFunctionKind = "Radians"
)

// NumericFunction is one of the numeric/trig scalar functions.
//
//	Abs,Ceiling,Floor,Sign,Sqrt,Exp,Log,Log10,Sin..Radians   Arg
//	Round                                                     Arg, Precision
//	Truncate                                                  Arg
//	Power                                                     Arg, Exponent
//	Atan2                                                     Arg, Exponent (second operand)
type NumericFunction struct {
	Kind      NumericFunctionKind
	Arg       Node
	Precision Node
	Exponent  Node
}

func (n *NumericFunction) PartType() PartType { return PartNumericFunction }
