package query

import (
	"fmt"

	"github.com/georgefloros/sift-go/internal/value"
)

// fieldOpFactory builds the compiled form of one field-scoped operator from
// its raw parameter.
type fieldOpFactory func(c *compiler, op string, raw any) (FieldMatcher, error)

// topOpFactory builds the compiled form of one top-level operator.
type topOpFactory func(c *compiler, op string, raw any) (Node, error)

// The operator registries. Populated during package init and never mutated
// afterwards; $regex and $options are handled by the compiler itself because
// they merge into a single node.
var (
	fieldOps = map[string]fieldOpFactory{}
	topOps   = map[string]topOpFactory{}
)

func registerFieldOp(tag string, f fieldOpFactory) {
	if _, dup := fieldOps[tag]; dup {
		panic(fmt.Sprintf("duplicate field operator registration: %s", tag))
	}
	fieldOps[tag] = f
}

func registerTopOp(tag string, f topOpFactory) {
	if _, dup := topOps[tag]; dup {
		panic(fmt.Sprintf("duplicate top-level operator registration: %s", tag))
	}
	topOps[tag] = f
}

func init() {
	registerFieldOp("$eq", compileEq)
	registerFieldOp("$ne", compileNe)
	registerFieldOp("$gt", compileOrdering(func(o value.Ordering) bool { return o == value.Greater }))
	registerFieldOp("$gte", compileOrdering(func(o value.Ordering) bool { return o == value.Greater || o == value.Equal }))
	registerFieldOp("$lt", compileOrdering(func(o value.Ordering) bool { return o == value.Less }))
	registerFieldOp("$lte", compileOrdering(func(o value.Ordering) bool { return o == value.Less || o == value.Equal }))
	registerFieldOp("$in", compileIn)
	registerFieldOp("$nin", compileNin)
	registerFieldOp("$all", compileAll)
	registerFieldOp("$exists", compileExists)
	registerFieldOp("$type", compileType)
	registerFieldOp("$mod", compileMod)
	registerFieldOp("$size", compileSize)
	registerFieldOp("$elemMatch", compileElemMatch)
	registerFieldOp("$not", compileNot)

	registerTopOp("$and", compileLogical(logicalAnd))
	registerTopOp("$or", compileLogical(logicalOr))
	registerTopOp("$nor", compileLogical(logicalNor))
	registerTopOp("$where", compileWhere)
}
