package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a parsed dot-separated field path.
type Path []string

// ParsePath splits a dot-separated field path into segments. Empty paths and
// empty segments are rejected.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty field path")
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("field path %q contains an empty segment", s)
		}
	}
	return Path(segs), nil
}

// String joins the path back into its dotted form.
func (p Path) String() string { return strings.Join(p, ".") }

// Candidate is one value reached by resolving a path against a document.
// Exists is false for branches where the traversal fell off the document;
// a null value that is actually present has Exists true.
type Candidate struct {
	Value  Value
	Exists bool
}

// Resolve walks the path against doc and returns every candidate reached.
// Objects descend by key. Arrays descend by index when the segment is a
// numeric literal within bounds, and otherwise multiplex the remaining path
// over every element. Branches with no legal traversal yield a missing
// candidate.
func (p Path) Resolve(doc Value) []Candidate {
	return resolve(doc, p, nil)
}

func resolve(v Value, segs []string, out []Candidate) []Candidate {
	if len(segs) == 0 {
		return append(out, Candidate{Value: v, Exists: true})
	}
	seg := segs[0]
	switch v.Kind() {
	case KindObject:
		if child, ok := v.Fields()[seg]; ok {
			return resolve(child, segs[1:], out)
		}
		return append(out, Candidate{})
	case KindArray:
		items := v.Items()
		if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 && idx < len(items) {
			return resolve(items[idx], segs[1:], out)
		}
		if len(items) == 0 {
			return append(out, Candidate{})
		}
		for _, e := range items {
			out = resolve(e, segs, out)
		}
		return out
	default:
		return append(out, Candidate{})
	}
}

// AnyExists reports whether any candidate reached a present value. This is
// the presence test $exists relies on.
func AnyExists(cands []Candidate) bool {
	for _, c := range cands {
		if c.Exists {
			return true
		}
	}
	return false
}
