package query

import (
	"github.com/georgefloros/sift-go/internal/value"
)

// andNode implements $and: every child matches, evaluated in source order
// with a short-circuit on the first false.
type andNode struct {
	subs []Node
}

func (n andNode) Match(ctx *Context, doc value.Value) (bool, error) {
	for _, sub := range n.subs {
		ok, err := sub.Match(ctx, doc)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// orNode implements $or: some child matches, short-circuiting on the first
// true.
type orNode struct {
	subs []Node
}

func (n orNode) Match(ctx *Context, doc value.Value) (bool, error) {
	for _, sub := range n.subs {
		ok, err := sub.Match(ctx, doc)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// norNode implements $nor: no child matches, short-circuiting to false on
// the first true.
type norNode struct {
	subs []Node
}

func (n norNode) Match(ctx *Context, doc value.Value) (bool, error) {
	for _, sub := range n.subs {
		ok, err := sub.Match(ctx, doc)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}

// notMatcher implements the field-level $not: it inverts the conjunction of
// its compiled child operators, so a missing field satisfies it.
type notMatcher struct {
	ops []FieldMatcher
}

func (m notMatcher) MatchField(ctx *Context, cands []value.Candidate) (bool, error) {
	for _, op := range m.ops {
		ok, err := op.MatchField(ctx, cands)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
	}
	return false, nil
}

func compileNot(c *compiler, op string, raw any) (FieldMatcher, error) {
	ops, err := c.compileFieldValue(raw)
	if err != nil {
		return nil, err
	}
	return notMatcher{ops: ops}, nil
}

type logicalKind int

const (
	logicalAnd logicalKind = iota
	logicalOr
	logicalNor
)

func compileLogical(kind logicalKind) topOpFactory {
	return func(c *compiler, op string, raw any) (Node, error) {
		items, ok := asArray(raw)
		if !ok || len(items) == 0 {
			return nil, NewInvalidQueryError(op, fragment(raw), "%s requires a non-empty array of queries", op)
		}
		subs := make([]Node, len(items))
		for i, item := range items {
			sub, err := c.compileQuery(item)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		switch kind {
		case logicalAnd:
			return andNode{subs: subs}, nil
		case logicalOr:
			return orNode{subs: subs}, nil
		default:
			return norNode{subs: subs}, nil
		}
	}
}
