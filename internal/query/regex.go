package query

import (
	"github.com/dlclark/regexp2"

	"github.com/georgefloros/sift-go/internal/value"
)

// regexMatcher implements $regex. The pattern is compiled exactly once, at
// query compile time. Candidates that are not strings never match; array
// candidates match existentially over their string elements.
type regexMatcher struct {
	re      *regexp2.Regexp
	pattern string
	options string
}

// parseRegexOptions maps the MongoDB single-letter option set onto regexp2
// flags. Unknown letters are a compile error.
func parseRegexOptions(options string) (regexp2.RegexOptions, error) {
	opts := regexp2.None
	for _, ch := range options {
		switch ch {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		case 's':
			opts |= regexp2.Singleline
		default:
			return 0, NewInvalidQueryError("$regex", options, "unknown regex option %q", string(ch))
		}
	}
	return opts, nil
}

func newRegexMatcher(pattern, options string) (*regexMatcher, error) {
	opts, err := parseRegexOptions(options)
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, NewInvalidQueryError("$regex", pattern, "invalid pattern: %v", err)
	}
	return &regexMatcher{re: re, pattern: pattern, options: options}, nil
}

// matchString runs an unanchored search over s.
func (m *regexMatcher) matchString(s string) bool {
	ok, err := m.re.MatchString(s)
	return err == nil && ok
}

func (m *regexMatcher) MatchField(_ *Context, cands []value.Candidate) (bool, error) {
	return anyCandidate(cands, func(v value.Value) bool {
		return v.Kind() == value.KindString && m.matchString(v.StringValue())
	}), nil
}
