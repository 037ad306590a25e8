package query

import (
	"github.com/georgefloros/sift-go/internal/value"
)

// eqMatcher implements the implicit bare-value equality and $eq. The literal
// matches a candidate by structural equality, an array candidate either as a
// whole or through any element, and a null literal additionally matches
// missing branches.
type eqMatcher struct {
	literal value.Value
}

func newEqMatcher(literal value.Value) eqMatcher {
	return eqMatcher{literal: literal}
}

func (m eqMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	if m.literal.IsNull() {
		for _, c := range cands {
			if !c.Exists {
				return true, nil
			}
		}
	}
	return anyCandidate(cands, func(v value.Value) bool {
		return value.Equals(v, m.literal)
	}), nil
}

// neMatcher implements $ne as the negation of $eq, so a missing field
// satisfies it unless the literal is null.
type neMatcher struct {
	eq eqMatcher
}

func (m neMatcher) MatchField(ctx *Context, cands []value.Candidate) (bool, error) {
	ok, err := m.eq.MatchField(ctx, cands)
	return !ok, err
}

// orderingMatcher implements $gt, $gte, $lt, and $lte over the total order
// of the value model. Incomparable pairs never satisfy it.
type orderingMatcher struct {
	literal value.Value
	accept  func(value.Ordering) bool
}

func (m orderingMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	return anyCandidate(cands, func(v value.Value) bool {
		return m.accept(value.Compare(v, m.literal))
	}), nil
}

func compileEq(c *compiler, op string, raw any) (FieldMatcher, error) {
	lit, err := c.literal(op, raw)
	if err != nil {
		return nil, err
	}
	return newEqMatcher(lit), nil
}

func compileNe(c *compiler, op string, raw any) (FieldMatcher, error) {
	lit, err := c.literal(op, raw)
	if err != nil {
		return nil, err
	}
	return neMatcher{eq: newEqMatcher(lit)}, nil
}

func compileOrdering(accept func(value.Ordering) bool) fieldOpFactory {
	return func(c *compiler, op string, raw any) (FieldMatcher, error) {
		lit, err := c.literal(op, raw)
		if err != nil {
			return nil, err
		}
		return orderingMatcher{literal: lit, accept: accept}, nil
	}
}
