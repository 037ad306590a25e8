package query

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/georgefloros/sift-go/internal/value"
)

// Options configures compilation.
type Options struct {
	// AllowWhere permits $where operators. Disabling it makes the compiler
	// reject scripts outright, for embedders that cannot afford script
	// evaluation.
	AllowWhere bool
}

// DefaultOptions returns the default compiler configuration.
func DefaultOptions() Options {
	return Options{AllowWhere: true}
}

// Compile converts a raw query document into an immutable operator tree.
// Every validation and parameter pre-processing step happens here; the
// returned tree only ever reports booleans (or $where script failures) at
// evaluation time.
func Compile(raw any, opts Options) (*Root, error) {
	c := &compiler{opts: opts}
	return c.compileQuery(raw)
}

type compiler struct {
	opts Options
}

// kv is one key/value pair of a query document, in compilation order.
type kv struct {
	key string
	val any
}

func (c *compiler) compileQuery(raw any) (*Root, error) {
	pairs, ok := asDocument(raw)
	if !ok {
		return nil, NewInvalidQueryError("", fragment(raw), "query must be a document")
	}
	children := make([]Node, 0, len(pairs))
	for _, pair := range pairs {
		if strings.HasPrefix(pair.key, "$") {
			factory, known := topOps[pair.key]
			if !known {
				if _, isFieldOp := fieldOps[pair.key]; isFieldOp {
					return nil, NewInvalidQueryError(pair.key, fragment(raw), "operator %s must be applied to a field", pair.key)
				}
				return nil, NewInvalidQueryError(pair.key, fragment(raw), "unknown operator %s", pair.key)
			}
			node, err := factory(c, pair.key, pair.val)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
			continue
		}
		path, err := value.ParsePath(pair.key)
		if err != nil {
			return nil, NewInvalidQueryError("", pair.key, "%v", err)
		}
		ops, err := c.compileFieldValue(pair.val)
		if err != nil {
			return nil, err
		}
		children = append(children, &Field{path: path, ops: ops})
	}
	return NewRoot(children), nil
}

// compileFieldValue derives the operator list for one field from its raw
// associated value: an all-$ document compiles each key as an operator, a
// literal regex becomes a match predicate, and everything else becomes a
// structural equality test.
func (c *compiler) compileFieldValue(raw any) ([]FieldMatcher, error) {
	if rx, ok := raw.(primitive.Regex); ok {
		m, err := newRegexMatcher(rx.Pattern, rx.Options)
		if err != nil {
			return nil, err
		}
		return []FieldMatcher{m}, nil
	}
	if pairs, isDoc := asDocument(raw); isDoc && len(pairs) > 0 && allDollarKeys(pairs) {
		return c.compileOpDoc(pairs)
	}
	lit, err := c.literal("", raw)
	if err != nil {
		return nil, err
	}
	return []FieldMatcher{newEqMatcher(lit)}, nil
}

// compileOpDoc compiles a document whose keys are all operators. $regex and
// $options merge into a single node here; $options with no adjacent $regex
// is an error.
func (c *compiler) compileOpDoc(pairs []kv) ([]FieldMatcher, error) {
	var options string
	optionsSeen := false
	for _, pair := range pairs {
		if pair.key != "$options" {
			continue
		}
		s, ok := pair.val.(string)
		if !ok {
			return nil, NewInvalidQueryError("$options", fragment(pair.val), "$options requires a string")
		}
		options = s
		optionsSeen = true
	}

	out := make([]FieldMatcher, 0, len(pairs))
	regexSeen := false
	for _, pair := range pairs {
		switch pair.key {
		case "$options":
			continue
		case "$regex":
			regexSeen = true
			m, err := c.compileRegex(pair.val, options, optionsSeen)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		default:
			factory, known := fieldOps[pair.key]
			if !known {
				if _, isTopOp := topOps[pair.key]; isTopOp {
					return nil, NewInvalidQueryError(pair.key, fragment(pair.val), "operator %s is only valid at the top level", pair.key)
				}
				return nil, NewInvalidQueryError(pair.key, fragment(pair.val), "unknown operator %s", pair.key)
			}
			m, err := factory(c, pair.key, pair.val)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
	}
	if optionsSeen && !regexSeen {
		return nil, NewInvalidQueryError("$options", "", "$options is only meaningful next to $regex")
	}
	return out, nil
}

// compileRegex accepts the canonical string form and the literal-object
// form. An explicit $options wins over options carried by the literal.
func (c *compiler) compileRegex(raw any, options string, optionsSeen bool) (FieldMatcher, error) {
	switch x := raw.(type) {
	case string:
		return newRegexMatcher(x, options)
	case primitive.Regex:
		if !optionsSeen {
			options = x.Options
		}
		return newRegexMatcher(x.Pattern, options)
	default:
		return nil, NewInvalidQueryError("$regex", fragment(raw), "$regex requires a pattern string or regex literal")
	}
}

// literal normalizes a raw parameter into the value model.
func (c *compiler) literal(op string, raw any) (value.Value, error) {
	lit, err := value.FromAny(raw)
	if err != nil {
		return value.Value{}, NewInvalidQueryError(op, fragment(raw), "%v", err)
	}
	return lit, nil
}

// asDocument views raw as an ordered list of key/value pairs. bson.D keeps
// its source order; unordered maps are sorted by key so compilation, and
// with it evaluation order, is deterministic.
func asDocument(raw any) ([]kv, bool) {
	switch x := raw.(type) {
	case map[string]any:
		return sortedPairs(x), true
	case bson.M:
		return sortedPairs(x), true
	case bson.D:
		pairs := make([]kv, len(x))
		for i, e := range x {
			pairs[i] = kv{key: e.Key, val: e.Value}
		}
		return pairs, true
	case value.Value:
		if x.Kind() != value.KindObject {
			return nil, false
		}
		fields := x.Fields()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]kv, len(keys))
		for i, k := range keys {
			pairs[i] = kv{key: k, val: fields[k]}
		}
		return pairs, true
	}
	return nil, false
}

func sortedPairs(m map[string]any) []kv {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]kv, len(keys))
	for i, k := range keys {
		pairs[i] = kv{key: k, val: m[k]}
	}
	return pairs
}

// asArray views raw as a parameter list.
func asArray(raw any) ([]any, bool) {
	switch x := raw.(type) {
	case []any:
		return x, true
	case bson.A:
		return x, true
	case value.Value:
		if x.Kind() != value.KindArray {
			return nil, false
		}
		items := make([]any, len(x.Items()))
		for i, e := range x.Items() {
			items[i] = e
		}
		return items, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	}
	return nil, false
}

func allDollarKeys(pairs []kv) bool {
	for _, pair := range pairs {
		if !strings.HasPrefix(pair.key, "$") {
			return false
		}
	}
	return true
}

// fragment renders raw query material for error messages. Truncation to the
// 200-character cap happens in the error constructors.
func fragment(raw any) string {
	if raw == nil {
		return "null"
	}
	return fmt.Sprintf("%v", raw)
}
