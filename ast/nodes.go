// Package ast defines the Statement tree consumed by the emitter: a closed
// set of node kinds describing a relational query independent of any SQL
// dialect. Nodes are plain data; nothing in this package touches text or
// parameters.
package ast

// PartType discriminates Node implementations for emitter dispatch, the
// same role QueryNode.Operation / ExpressionNode.Type play in the teacher
// engine, expressed here as a closed Go interface instead of a string tag
// checked ad hoc.
type PartType string

const (
	PartSelect              PartType = "Select"
	PartTable               PartType = "Table"
	PartColumn              PartType = "Column"
	PartJoin                PartType = "Join"
	PartCondition           PartType = "Condition"
	PartConditionCollection PartType = "ConditionCollection"
	PartExists              PartType = "Exists"
	PartConstant            PartType = "Constant"
	PartAggregate           PartType = "Aggregate"
	PartRowNumber           PartType = "RowNumber"
	PartConditionalCase     PartType = "ConditionalCase"
	PartConditionPredicate  PartType = "ConditionPredicate"
	PartCoalesce            PartType = "Coalesce"
	PartConvert             PartType = "Convert"
	PartUserDefinedFunction PartType = "UserDefinedFunction"
	PartStringFunction      PartType = "StringFunction"
	PartDateFunction        PartType = "DateFunction"
	PartDateConstruct       PartType = "DateConstruct"
	PartNumericFunction     PartType = "NumericFunction"
	PartBinaryOperation     PartType = "BinaryOperation"
	PartUnaryOperation      PartType = "UnaryOperation"
	PartLiteral             PartType = "Literal"
	PartSelectExpression    PartType = "SelectExpression"
	PartGenericStatement    PartType = "GenericStatement"
)

// Node is implemented by every member of the Statement tree.
type Node interface {
	PartType() PartType
}

// Enum is implemented by host-language enumeration values carried inside
// a ConstantPart; such values are interned by their 64-bit signed integer
// representation rather than by Go equality of the enum type itself
// (spec.md §4.2).
type Enum interface {
	EnumValue() int64
}

// Source is implemented by the node kinds a SelectStatement may read from:
// Table, *SelectStatement, Join, UserDefinedFunction.
type Source interface {
	Node
	source()
}

// JoinType enumerates the supported join kinds.
type JoinType string

const (
	JoinInner      JoinType = "Inner"
	JoinLeft       JoinType = "Left"
	JoinRight      JoinType = "Right"
	JoinCross      JoinType = "Cross"
	JoinCrossApply JoinType = "CrossApply"
)

// Operator enumerates Condition comparison/pattern operators.
type Operator string

const (
	OpEquals              Operator = "Equals"
	OpNotEquals           Operator = "NotEquals"
	OpIsLessThan          Operator = "IsLessThan"
	OpIsLessThanOrEqual   Operator = "IsLessThanOrEqualTo"
	OpIsGreaterThan       Operator = "IsGreaterThan"
	OpIsGreaterThanOrEqual Operator = "IsGreaterThanOrEqualTo"
	OpIsIn                Operator = "IsIn"
	OpContains            Operator = "Contains"
	OpStartsWith          Operator = "StartsWith"
	OpEndsWith            Operator = "EndsWith"
)

// Relationship joins ConditionExpression siblings inside a collection.
type Relationship string

const (
	RelationAnd Relationship = "And"
	RelationOr  Relationship = "Or"
)

// AggregateType enumerates Aggregate node kinds.
type AggregateType string

const (
	AggregateCount    AggregateType = "Count"
	AggregateBigCount AggregateType = "BigCount"
	AggregateMin      AggregateType = "Min"
	AggregateMax      AggregateType = "Max"
	AggregateSum      AggregateType = "Sum"
	AggregateAverage  AggregateType = "Average"
)

// BinaryOperator enumerates BinaryOperation kinds.
type BinaryOperator string

const (
	BinaryAdd                BinaryOperator = "Add"
	BinarySubtract           BinaryOperator = "Subtract"
	BinaryMultiply           BinaryOperator = "Multiply"
	BinaryDivide             BinaryOperator = "Divide"
	BinaryRemainder          BinaryOperator = "Remainder"
	BinaryExclusiveOr        BinaryOperator = "ExclusiveOr"
	BinaryLeftShift          BinaryOperator = "LeftShift"
	BinaryRightShift         BinaryOperator = "RightShift"
	BinaryBitwiseAnd         BinaryOperator = "BitwiseAnd"
	BinaryBitwiseOr          BinaryOperator = "BitwiseOr"
	BinaryBitwiseExclusiveOr BinaryOperator = "BitwiseExclusiveOr"
	BinaryBitwiseNot         BinaryOperator = "BitwiseNot"
)

// UnaryOperator enumerates UnaryOperation kinds.
type UnaryOperator string

const (
	UnaryNot    UnaryOperator = "Not"
	UnaryNegate UnaryOperator = "Negate"
)

// ConditionExpression is implemented by Condition, Exists and
// ConditionCollection: anything that can sit inside a ConditionCollection.
type ConditionExpression interface {
	Node
	Relate() Relationship
	IsNot() bool
}

// ---- Statements ----

// SelectStatement is the central node: one SELECT, possibly unioned,
// possibly a paging/ANY/ALL/CONTAINS rewrite target.
type SelectStatement struct {
	Source           Source
	SourceJoins      []*Join
	SourceFields     []Node
	SourceFieldsFrom []*Table
	Conditions       *ConditionCollection
	GroupByFields    []Node
	OrderByFields    []OrderByExpression
	UnionStatements  []*SelectStatement
	Alias            string
	IsDistinct       bool
	Limit            int
	StartIndex       int
	IsAny            bool
	IsAll            bool
	IsContains       bool
	ContainsItem     Node
	IsAggregate      bool
}

func (s *SelectStatement) PartType() PartType { return PartSelect }
func (s *SelectStatement) source()            {}

// OrderByExpression pairs a field with its sort direction.
type OrderByExpression struct {
	Field     Node
	Ascending bool
}

// GenericStatement is an opaque shape resolved to a SelectStatement by a
// Mapper at build time; the core never interprets its contents.
type GenericStatement struct {
	Entity     any
	Fields     []Node
	Conditions *ConditionCollection
}

func (g *GenericStatement) PartType() PartType { return PartGenericStatement }

// ---- Sources ----

// Table identifies a schema-qualified relation, optionally aliased.
type Table struct {
	Schema string
	Name   string
	Alias  string
}

func (t *Table) PartType() PartType { return PartTable }
func (t *Table) source()            {}

// Join attaches a Source to a SelectStatement with a join type and
// conditions.
type Join struct {
	JoinType   JoinType
	Table      Source
	Conditions *ConditionCollection
}

func (j *Join) PartType() PartType { return PartJoin }
func (j *Join) source()            {}

// UserDefinedFunction is a table-valued or scalar call used as a source or
// field.
type UserDefinedFunction struct {
	Schema string
	Name   string
	Args   []Node
	Alias  string
}

func (u *UserDefinedFunction) PartType() PartType { return PartUserDefinedFunction }
func (u *UserDefinedFunction) source()            {}

// ---- Fields & expressions ----

// Column references a field, optionally qualified by a non-owning back
// pointer to the Table it came from.
type Column struct {
	Table *Table
	Name  string
	Alias string
}

func (c *Column) PartType() PartType { return PartColumn }

// ConstantPart carries a host-language literal value through to the
// Parameter Sink.
type ConstantPart struct {
	Value any
	Alias string
}

func (c *ConstantPart) PartType() PartType { return PartConstant }

// LiteralPart is appended to the emitted text verbatim, unquoted.
type LiteralPart struct {
	Text string
}

func (l *LiteralPart) PartType() PartType { return PartLiteral }

// Aggregate is COUNT/COUNT_BIG/MIN/MAX/SUM/AVG over an optional field.
type Aggregate struct {
	AggregateType AggregateType
	Field         Node
	IsDistinct    bool
}

func (a *Aggregate) PartType() PartType { return PartAggregate }

// RowNumber is ROW_NUMBER() OVER (ORDER BY ...).
type RowNumber struct {
	OrderBy []OrderByExpression
}

func (r *RowNumber) PartType() PartType { return PartRowNumber }

// ConditionalCase models CASE WHEN ... or CASE <test> WHEN 0 THEN ... END.
// Test is either a ConditionExpression (producing a boolean CASE WHEN) or
// a value Node (producing a CASE <value> WHEN 0 THEN form). IfFalse may be
// another *ConditionalCase to form an else-if chain.
type ConditionalCase struct {
	Test    Node
	IfTrue  Node
	IfFalse Node
}

func (c *ConditionalCase) PartType() PartType { return PartConditionalCase }

// ConditionPredicate wraps a boolean ConditionExpression for use in a
// scalar position: (CASE WHEN <pred> THEN 1 ELSE 0 END).
type ConditionPredicate struct {
	Predicate ConditionExpression
}

func (c *ConditionPredicate) PartType() PartType { return PartConditionPredicate }

// CoalesceFunction flattens to COALESCE(a, b, c, ...); Args holds the
// operands in emission order.
type CoalesceFunction struct {
	Args []Node
}

func (c *CoalesceFunction) PartType() PartType { return PartCoalesce }

// ConvertFunction renders CONVERT(VARCHAR, <expr>); only VARCHAR is in
// scope per spec.
type ConvertFunction struct {
	Expr Node
}

func (c *ConvertFunction) PartType() PartType { return PartConvert }

// BinaryOperation is a two-operand arithmetic/bitwise expression.
type BinaryOperation struct {
	Operator BinaryOperator
	Left     Node
	Right    Node
}

func (b *BinaryOperation) PartType() PartType { return PartBinaryOperation }

// UnaryOperation is a one-operand logical/arithmetic expression.
type UnaryOperation struct {
	Operator   UnaryOperator
	Expression Node
}

func (u *UnaryOperation) PartType() PartType { return PartUnaryOperation }

// SelectExpression wraps a SelectStatement for use as a scalar field.
type SelectExpression struct {
	Select *SelectStatement
	Alias  string
}

func (s *SelectExpression) PartType() PartType { return PartSelectExpression }

// ---- Conditions ----

// Condition is a single comparison/pattern predicate.
type Condition struct {
	Field        Node
	Operator     Operator
	Value        Node
	Relationship Relationship
	Not          bool
}

func (c *Condition) PartType() PartType    { return PartCondition }
func (c *Condition) Relate() Relationship  { return c.Relationship }
func (c *Condition) IsNot() bool           { return c.Not }

// Exists is EXISTS (SELECT ...) / NOT EXISTS (SELECT ...).
type Exists struct {
	Select       *SelectStatement
	Not          bool
	Relationship Relationship
}

func (e *Exists) PartType() PartType   { return PartExists }
func (e *Exists) Relate() Relationship { return e.Relationship }
func (e *Exists) IsNot() bool          { return e.Not }

// ConditionCollection is an ordered sequence of ConditionExpression joined
// by Relationship, with a collection-level Not flag.
type ConditionCollection struct {
	Conditions []ConditionExpression
	Not        bool
}

func (c *ConditionCollection) PartType() PartType   { return PartConditionCollection }
func (c *ConditionCollection) Relate() Relationship { return RelationAnd }
func (c *ConditionCollection) IsNot() bool          { return c.Not }

// Clone returns a shallow copy of the collection (new slice header and
// struct, same element values) so rewrites can flip Not without mutating
// the caller's tree (package emit's ALL rewrite relies on this).
func (c *ConditionCollection) Clone() *ConditionCollection {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Conditions = append([]ConditionExpression(nil), c.Conditions...)
	return &clone
}
