package query

import (
	"github.com/georgefloros/sift-go/internal/value"
)

// Node is one node of a compiled query tree. A Node matches a whole
// document; the implicit top-level conjunction, the logical operators, and
// per-field condition groups are all Nodes.
type Node interface {
	Match(ctx *Context, doc value.Value) (bool, error)
}

// FieldMatcher is a compiled operator applied to the candidate set produced
// by resolving one field path.
type FieldMatcher interface {
	MatchField(ctx *Context, cands []value.Candidate) (bool, error)
}

// WhereEvaluator runs a $where script against a document and reports its
// truthiness. Implementations must be safe for concurrent use.
type WhereEvaluator interface {
	Evaluate(script string, doc value.Value) (bool, error)
}

// Context carries per-evaluation state down the compiled tree: the root
// document for document-wide operators and the script host for $where.
// Contexts are cheap and created per call; the tree itself is never mutated.
type Context struct {
	Root  value.Value
	Where WhereEvaluator
}

// Root is the implicit top-level conjunction of a compiled query.
type Root struct {
	children []Node
}

// NewRoot builds a Root over the given children.
func NewRoot(children []Node) *Root { return &Root{children: children} }

// Match evaluates children in source order, short-circuiting on the first
// false. An empty Root matches every document.
func (r *Root) Match(ctx *Context, doc value.Value) (bool, error) {
	for _, child := range r.children {
		ok, err := child.Match(ctx, doc)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Children returns the compiled child nodes.
func (r *Root) Children() []Node { return r.children }

// Field applies a conjunction of operators to the candidates reached by one
// field path.
type Field struct {
	path value.Path
	ops  []FieldMatcher
}

// Match resolves the path once and requires every operator to accept the
// candidate set.
func (f *Field) Match(ctx *Context, doc value.Value) (bool, error) {
	cands := f.path.Resolve(doc)
	for _, op := range f.ops {
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

// Path returns the field path this node resolves.
func (f *Field) Path() value.Path { return f.path }

// anyCandidate applies pred existentially across the candidate set: a
// present candidate satisfies it directly, and an array candidate satisfies
// it when any of its elements does. Missing branches never satisfy.
func anyCandidate(cands []value.Candidate, pred func(value.Value) bool) bool {
	for _, c := range cands {
		if !c.Exists {
			continue
		}
		if pred(c.Value) {
			return true
		}
		if c.Value.Kind() == value.KindArray {
			for _, e := range c.Value.Items() {
				if pred(e) {
					return true
				}
			}
		}
	}
	return false
}
