// Package mongo is an alternate dialect: it lowers the same Statement tree
// consumed by package dialect into a MongoDB aggregation pipeline instead
// of T-SQL text, demonstrating that the Statement Model is not wired to
// any one target (SPEC_FULL.md §6). Operator tokens are grounded on the
// MongoDB row of the teacher's mapping.OperatorMap; stage shape is
// grounded on engine/builders/mongodb.BuildMongoFilter and
// BuildMongoPipelineUpdate.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/queryforge/sqlbuild/ast"
	"github.com/queryforge/sqlbuild/dialect"
)

// ErrUnsupportedJoin fires for a join type $lookup can't represent.
// $lookup always preserves every document on the source side and
// attaches matches as an array, which is INNER/LEFT OUTER JOIN shape;
// RIGHT OUTER JOIN would need the lookup run from the other collection
// and CROSS/CROSS APPLY have no join-key concept for $lookup to use.
var ErrUnsupportedJoin = errors.New("mongo: unsupported join type")

var lookupCompatibleJoins = map[ast.JoinType]bool{
	ast.JoinInner: true,
	ast.JoinLeft:  true,
}

// operatorStages maps ast.Operator to its Mongo comparison operator.
// Contains/StartsWith/EndsWith have no single-token mapping and are
// handled directly in comparison instead.
var operatorStages = map[ast.Operator]string{
	ast.OpEquals:                 "$eq",
	ast.OpNotEquals:              "$ne",
	ast.OpIsLessThan:             "$lt",
	ast.OpIsLessThanOrEqual:      "$lte",
	ast.OpIsGreaterThan:          "$gt",
	ast.OpIsGreaterThanOrEqual:   "$gte",
	ast.OpIsIn:                   "$in",
}

// Build lowers statement into an aggregation pipeline. Unlike dialect.Build,
// parameter values are not interned behind placeholders: the Mongo driver
// takes literal values inline, so Build also returns the flat list of
// constant values encountered, in emission order, purely for callers that
// want the same auditable parameter trail package dialect provides.
func Build(ctx context.Context, statement ast.Node, mapper dialect.Mapper) ([]bson.D, []any, error) {
	var stmt *ast.SelectStatement
	switch v := statement.(type) {
	case *ast.SelectStatement:
		stmt = v
	case *ast.GenericStatement:
		if mapper == nil {
			return nil, nil, fmt.Errorf("mongo: GenericStatement requires a Mapper")
		}
		materialized, err := mapper.Materialize(ctx, v)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo: materializing generic statement: %w", err)
		}
		stmt = materialized
	default:
		return nil, nil, fmt.Errorf("%w: %T", dialect.ErrUnsupportedStatementKind, statement)
	}

	b := &builder{}
	return b.build(stmt)
}

type builder struct {
	values []any
}

func (b *builder) build(stmt *ast.SelectStatement) ([]bson.D, []any, error) {
	var pipeline []bson.D

	if table, ok := stmt.Source.(*ast.Table); ok {
		for _, j := range stmt.SourceJoins {
			stage, err := b.lookupStage(table, j)
			if err != nil {
				return nil, nil, err
			}
			pipeline = append(pipeline, stage)
		}
	}

	if stmt.Conditions != nil && len(stmt.Conditions.Conditions) > 0 {
		match, err := b.matchStage(stmt.Conditions)
		if err != nil {
			return nil, nil, err
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	if len(stmt.GroupByFields) > 0 || stmt.IsAggregate {
		group, err := b.groupStage(stmt)
		if err != nil {
			return nil, nil, err
		}
		pipeline = append(pipeline, bson.D{{Key: "$group", Value: group}})
	} else if len(stmt.SourceFields) > 0 {
		project, err := b.projectStage(stmt.SourceFields)
		if err != nil {
			return nil, nil, err
		}
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: project}})
	}

	if len(stmt.OrderByFields) > 0 {
		sort, err := b.sortStage(stmt.OrderByFields)
		if err != nil {
			return nil, nil, err
		}
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}

	if stmt.StartIndex > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: stmt.StartIndex}})
	}
	if stmt.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: stmt.Limit}})
	}

	return pipeline, b.values, nil
}

func (b *builder) lookupStage(from *ast.Table, j *ast.Join) (bson.D, error) {
	if !lookupCompatibleJoins[j.JoinType] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedJoin, j.JoinType)
	}
	joined, ok := j.Table.(*ast.Table)
	if !ok {
		return nil, fmt.Errorf("mongo: $lookup requires a collection source, got %T", j.Table)
	}
	localField, foreignField, err := b.joinKeys(j.Conditions)
	if err != nil {
		return nil, err
	}
	as := joined.Alias
	if as == "" {
		as = joined.Name
	}
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: joined.Name},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}}, nil
}

// joinKeys extracts the equality predicate's two column names out of a
// join's condition collection; $lookup has no room for anything richer.
func (b *builder) joinKeys(cc *ast.ConditionCollection) (local, foreign string, err error) {
	if cc == nil || len(cc.Conditions) == 0 {
		return "", "", fmt.Errorf("mongo: join has no conditions")
	}
	cond, ok := cc.Conditions[0].(*ast.Condition)
	if !ok || cond.Operator != ast.OpEquals {
		return "", "", fmt.Errorf("mongo: join condition must be a single equality")
	}
	left, ok := cond.Field.(*ast.Column)
	if !ok {
		return "", "", fmt.Errorf("mongo: join condition left side must be a column")
	}
	right, ok := cond.Value.(*ast.Column)
	if !ok {
		return "", "", fmt.Errorf("mongo: join condition right side must be a column")
	}
	return left.Name, right.Name, nil
}

func (b *builder) matchStage(cc *ast.ConditionCollection) (bson.M, error) {
	filter := bson.M{}
	var exprs []bson.M
	for _, ce := range cc.Conditions {
		cond, ok := ce.(*ast.Condition)
		if !ok {
			sub, err := b.matchCondition(ce)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, sub)
			continue
		}
		col, ok := cond.Field.(*ast.Column)
		if !ok {
			sub, err := b.matchCondition(ce)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, sub)
			continue
		}
		value, err := b.literal(cond.Value)
		if err != nil {
			return nil, err
		}
		cmp, err := b.comparison(cond.Operator, value)
		if err != nil {
			return nil, err
		}
		if cond.Not {
			cmp = bson.M{"$not": cmp}
		}
		filter[col.Name] = cmp
	}
	if len(exprs) > 0 {
		filter["$and"] = exprs
	}
	if len(filter) == 0 {
		return bson.M{}, nil
	}
	return filter, nil
}

// matchCondition handles a ConditionExpression that matchStage can't flatten
// into a single field key: a nested ConditionCollection. Exists and any
// other kind are rejected with an error.
func (b *builder) matchCondition(ce ast.ConditionExpression) (bson.M, error) {
	switch v := ce.(type) {
	case *ast.ConditionCollection:
		sub, err := b.matchStage(v)
		if err != nil {
			return nil, err
		}
		if v.Not {
			return bson.M{"$nor": []bson.M{sub}}, nil
		}
		return sub, nil
	default:
		return nil, fmt.Errorf("mongo: unsupported nested condition expression %T", ce)
	}
}

func (b *builder) comparison(op ast.Operator, value any) (any, error) {
	switch op {
	case ast.OpContains:
		return bson.M{"$regex": value}, nil
	case ast.OpStartsWith:
		return bson.M{"$regex": "^" + fmt.Sprint(value)}, nil
	case ast.OpEndsWith:
		return bson.M{"$regex": fmt.Sprint(value) + "$"}, nil
	}
	tok, ok := operatorStages[op]
	if !ok {
		return nil, fmt.Errorf("mongo: unsupported operator %q", op)
	}
	return bson.M{tok: value}, nil
}

func (b *builder) literal(n ast.Node) (any, error) {
	switch v := n.(type) {
	case *ast.ConstantPart:
		b.values = append(b.values, v.Value)
		return v.Value, nil
	case *ast.Column:
		return "$" + v.Name, nil
	default:
		return nil, fmt.Errorf("mongo: unsupported value expression %T", n)
	}
}

func (b *builder) projectStage(fields []ast.Node) (bson.M, error) {
	project := bson.M{"_id": 0}
	for _, f := range fields {
		switch v := f.(type) {
		case *ast.Column:
			name := v.Name
			if v.Alias != "" {
				project[v.Alias] = "$" + name
			} else {
				project[name] = 1
			}
		default:
			return nil, fmt.Errorf("mongo: unsupported projected field %T", f)
		}
	}
	return project, nil
}

var aggregateAccumulators = map[ast.AggregateType]string{
	ast.AggregateCount:    "$sum",
	ast.AggregateBigCount: "$sum",
	ast.AggregateMin:      "$min",
	ast.AggregateMax:      "$max",
	ast.AggregateSum:      "$sum",
	ast.AggregateAverage:  "$avg",
}

func (b *builder) groupStage(stmt *ast.SelectStatement) (bson.M, error) {
	id := bson.M{}
	for _, f := range stmt.GroupByFields {
		col, ok := f.(*ast.Column)
		if !ok {
			return nil, fmt.Errorf("mongo: group by field must be a column, got %T", f)
		}
		id[col.Name] = "$" + col.Name
	}
	group := bson.M{}
	if len(id) > 0 {
		group["_id"] = id
	} else {
		group["_id"] = nil
	}
	for _, f := range stmt.SourceFields {
		agg, ok := f.(*ast.Aggregate)
		if !ok {
			continue
		}
		accName, ok := aggregateAccumulators[agg.AggregateType]
		if !ok {
			return nil, fmt.Errorf("mongo: unsupported aggregate %q", agg.AggregateType)
		}
		key := string(agg.AggregateType)
		if agg.AggregateType == ast.AggregateCount || agg.AggregateType == ast.AggregateBigCount {
			group[key] = bson.M{accName: 1}
			continue
		}
		col, ok := agg.Field.(*ast.Column)
		if !ok {
			return nil, fmt.Errorf("mongo: aggregate field must be a column, got %T", agg.Field)
		}
		group[key] = bson.M{accName: "$" + col.Name}
	}
	return group, nil
}

func (b *builder) sortStage(orderBy []ast.OrderByExpression) (bson.D, error) {
	sort := bson.D{}
	for _, ob := range orderBy {
		col, ok := ob.Field.(*ast.Column)
		if !ok {
			return nil, fmt.Errorf("mongo: order by field must be a column, got %T", ob.Field)
		}
		dir := -1
		if ob.Ascending {
			dir = 1
		}
		sort = append(sort, bson.E{Key: col.Name, Value: dir})
	}
	return sort, nil
}
