package query

import (
	"github.com/georgefloros/sift-go/internal/value"
)

// existsMatcher implements $exists: presence of any candidate after path
// resolution, compared against the requested polarity.
type existsMatcher struct {
	want bool
}

func (m existsMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	return value.AnyExists(cands) == m.want, nil
}

func compileExists(c *compiler, op string, raw any) (FieldMatcher, error) {
	want, ok := raw.(bool)
	if !ok {
		return nil, NewInvalidQueryError(op, fragment(raw), "$exists requires a boolean parameter")
	}
	return existsMatcher{want: want}, nil
}

// typeMatcher implements $type over the value model's type tags.
type typeMatcher struct {
	tag string
}

func (m typeMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	return anyCandidate(cands, func(v value.Value) bool {
		return value.MatchesType(v, m.tag)
	}), nil
}

func compileType(c *compiler, op string, raw any) (FieldMatcher, error) {
	tag, ok := raw.(string)
	if !ok || !value.ValidTypeTag(tag) {
		return nil, NewInvalidQueryError(op, fragment(raw), "$type requires one of null, bool, number, string, array, object, int, double")
	}
	return typeMatcher{tag: tag}, nil
}
