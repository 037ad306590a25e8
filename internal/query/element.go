package query

import (
	"math"

	"github.com/georgefloros/sift-go/internal/value"
)

// sizeMatcher implements $size: the candidate must be an array of exactly
// the given length. No element-wise expansion applies.
type sizeMatcher struct {
	n int
}

func (m sizeMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	for _, c := range cands {
		if c.Exists && c.Value.Kind() == value.KindArray && len(c.Value.Items()) == m.n {
			return true, nil
		}
	}
	return false, nil
}

func compileSize(c *compiler, op string, raw any) (FieldMatcher, error) {
	lit, err := c.literal(op, raw)
	if err != nil {
		return nil, err
	}
	n, ok := lit.Integral()
	if !ok || n < 0 || n > math.MaxInt32 {
		return nil, NewInvalidQueryError(op, fragment(raw), "$size requires a non-negative integer")
	}
	return sizeMatcher{n: int(n)}, nil
}

// elemMatchMatcher implements $elemMatch. The subquery is compiled once and
// applied to each element of an array candidate with the element as the
// root document, so inner paths are rooted at the element.
type elemMatchMatcher struct {
	sub Node
}

func (m elemMatchMatcher) MatchField(ctx *Context, cands []value.Candidate) (bool, error) {
	for _, c := range cands {
		if !c.Exists || c.Value.Kind() != value.KindArray {
			continue
		}
		for _, elem := range c.Value.Items() {
			sub := &Context{Root: elem, Where: ctx.Where}
			ok, err := m.sub.Match(sub, elem)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// opsNode adapts a list of field operators into a Node that applies them to
// the document itself. It backs the operator form of $elemMatch, where
// conditions like {$gt: 80, $lt: 90} constrain each element directly.
type opsNode struct {
	ops []FieldMatcher
}

func (n opsNode) Match(ctx *Context, doc value.Value) (bool, error) {
	cands := []value.Candidate{{Value: doc, Exists: true}}
	for _, op := range n.ops {
		ok, err := op.MatchField(ctx, cands)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func compileElemMatch(c *compiler, op string, raw any) (FieldMatcher, error) {
	pairs, ok := asDocument(raw)
	if !ok {
		return nil, NewInvalidQueryError(op, fragment(raw), "$elemMatch requires a document parameter")
	}
	if len(pairs) > 0 && allDollarKeys(pairs) {
		ops, err := c.compileOpDoc(pairs)
		if err != nil {
			return nil, err
		}
		return elemMatchMatcher{sub: opsNode{ops: ops}}, nil
	}
	sub, err := c.compileQuery(raw)
	if err != nil {
		return nil, err
	}
	return elemMatchMatcher{sub: sub}, nil
}
