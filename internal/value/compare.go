package value

// Ordering is the outcome of comparing two values.
type Ordering int

const (
	Less Ordering = iota
	Equal
	Greater
	// Incomparable marks pairs with no defined order, such as values of
	// different types or any comparison involving arrays and objects.
	Incomparable
)

// String returns a string representation of the Ordering.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return "Incomparable"
	}
}

// Equals reports deep structural equality. Int and Float storages of the
// same real number are equal; object key order is irrelevant.
func Equals(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsFloat() == b.AsFloat()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equals(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok || !Equals(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two values. Numbers compare by real value regardless of
// storage, strings by codepoint, booleans with false before true. Null
// equals null and is incomparable to everything else. Cross-type pairs and
// any pair involving an array or object are Incomparable.
func Compare(a, b Value) Ordering {
	if a.IsNumber() && b.IsNumber() {
		af, bf := a.AsFloat(), b.AsFloat()
		switch {
		case af < bf:
			return Less
		case af > bf:
			return Greater
		default:
			return Equal
		}
	}
	if a.kind != b.kind {
		return Incomparable
	}
	switch a.kind {
	case KindNull:
		return Equal
	case KindBool:
		switch {
		case a.b == b.b:
			return Equal
		case !a.b:
			return Less
		default:
			return Greater
		}
	case KindString:
		switch {
		case a.s < b.s:
			return Less
		case a.s > b.s:
			return Greater
		default:
			return Equal
		}
	}
	return Incomparable
}

// TypeTag returns the coarse type name used by $type: one of null, bool,
// number, string, array, object.
func TypeTag(v Value) string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt, KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	default:
		return "object"
	}
}

// typeTags is the set of tags $type accepts. The coarse tags follow TypeTag;
// int and double discriminate the two numeric storages.
var typeTags = map[string]struct{}{
	"null":   {},
	"bool":   {},
	"number": {},
	"string": {},
	"array":  {},
	"object": {},
	"int":    {},
	"double": {},
}

// ValidTypeTag reports whether tag is accepted by $type.
func ValidTypeTag(tag string) bool {
	_, ok := typeTags[tag]
	return ok
}

// MatchesType reports whether v matches a $type tag.
func MatchesType(v Value, tag string) bool {
	switch tag {
	case "int":
		return v.kind == KindInt
	case "double":
		return v.kind == KindFloat
	default:
		return TypeTag(v) == tag
	}
}
