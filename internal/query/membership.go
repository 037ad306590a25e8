package query

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/georgefloros/sift-go/internal/value"
)

// member is one element of an $in, $nin, or $all parameter list: a literal
// compared structurally, or a regex used as a match predicate.
type member struct {
	lit value.Value
	re  *regexMatcher
}

func (m member) matches(v value.Value) bool {
	if m.re != nil {
		return v.Kind() == value.KindString && m.re.matchString(v.StringValue())
	}
	return value.Equals(v, m.lit)
}

// compileMembers validates a parameter list, pre-compiling any literal
// regexes it contains.
func compileMembers(c *compiler, op string, raw any) ([]member, error) {
	items, ok := asArray(raw)
	if !ok {
		return nil, NewInvalidQueryError(op, fragment(raw), "%s requires an array parameter", op)
	}
	members := make([]member, len(items))
	for i, item := range items {
		if rx, ok := item.(primitive.Regex); ok {
			re, err := newRegexMatcher(rx.Pattern, rx.Options)
			if err != nil {
				return nil, err
			}
			members[i] = member{re: re}
			continue
		}
		lit, err := c.literal(op, item)
		if err != nil {
			return nil, err
		}
		members[i] = member{lit: lit}
	}
	return members, nil
}

// inMatcher implements $in: some candidate (or array element) matches some
// list member.
type inMatcher struct {
	members []member
}

func (m inMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	return anyCandidate(cands, func(v value.Value) bool {
		for _, mem := range m.members {
			if mem.matches(v) {
				return true
			}
		}
		return false
	}), nil
}

// ninMatcher implements $nin as the negation of $in, so a missing field
// satisfies it.
type ninMatcher struct {
	in inMatcher
}

func (m ninMatcher) MatchField(ctx *Context, cands []value.Candidate) (bool, error) {
	ok, err := m.in.MatchField(ctx, cands)
	return !ok, err
}

// allMatcher implements $all: the candidate must itself be an array that
// contains a match for every list member. An empty member list matches
// nothing.
type allMatcher struct {
	members []member
}

func (m allMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	if len(m.members) == 0 {
		return false, nil
	}
	for _, c := range cands {
		if !c.Exists || c.Value.Kind() != value.KindArray {
			continue
		}
		if m.containsAll(c.Value.Items()) {
			return true, nil
		}
	}
	return false, nil
}

func (m allMatcher) containsAll(items []value.Value) bool {
	for _, mem := range m.members {
		found := false
		for _, e := range items {
			if mem.matches(e) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func compileIn(c *compiler, op string, raw any) (FieldMatcher, error) {
	members, err := compileMembers(c, op, raw)
	if err != nil {
		return nil, err
	}
	return inMatcher{members: members}, nil
}

func compileNin(c *compiler, op string, raw any) (FieldMatcher, error) {
	members, err := compileMembers(c, op, raw)
	if err != nil {
		return nil, err
	}
	return ninMatcher{in: inMatcher{members: members}}, nil
}

func compileAll(c *compiler, op string, raw any) (FieldMatcher, error) {
	members, err := compileMembers(c, op, raw)
	if err != nil {
		return nil, err
	}
	return allMatcher{members: members}, nil
}
