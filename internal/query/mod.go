package query

import (
	"math"

	"github.com/georgefloros/sift-go/internal/value"
)

// modMatcher implements $mod with integer semantics: the candidate must be
// an integral number and candidate % divisor must equal the remainder.
// Floats participate only when they carry no fractional part.
type modMatcher struct {
	divisor   int64
	remainder int64
}

func (m modMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	return anyCandidate(cands, func(v value.Value) bool {
		n, ok := v.Integral()
		return ok && n%m.divisor == m.remainder
	}), nil
}

func compileMod(c *compiler, op string, raw any) (FieldMatcher, error) {
	items, ok := asArray(raw)
	if !ok || len(items) != 2 {
		return nil, NewInvalidQueryError(op, fragment(raw), "$mod requires a [divisor, remainder] pair")
	}
	params := make([]int64, 2)
	for i, item := range items {
		lit, err := c.literal(op, item)
		if err != nil {
			return nil, err
		}
		if !lit.IsNumber() {
			return nil, NewInvalidQueryError(op, fragment(raw), "$mod parameters must be numeric")
		}
		f := lit.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, NewInvalidQueryError(op, fragment(raw), "$mod parameters must be finite")
		}
		params[i] = int64(math.Trunc(f))
	}
	if params[0] == 0 {
		return nil, NewInvalidQueryError(op, fragment(raw), "$mod divisor must not be zero")
	}
	return modMatcher{divisor: params[0], remainder: params[1]}, nil
}
