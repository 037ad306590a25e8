// Package value implements the document value model: a tagged sum type over
// the JSON shapes (null, bool, int, float, string, array, object) together
// with the equality, ordering, and type predicates the query operators need.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind identifies the variant stored in a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Value is an immutable document value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a 64-bit integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a 64-bit float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps an ordered sequence of values.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// Object wraps a field mapping. The map is adopted, not copied; callers must
// not mutate it afterwards.
func Object(fields map[string]Value) Value { return Value{kind: KindObject, obj: fields} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumber reports whether the value is numerically typed.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// BoolValue returns the boolean payload.
func (v Value) BoolValue() bool { return v.b }

// IntValue returns the integer payload.
func (v Value) IntValue() int64 { return v.i }

// FloatValue returns the float payload.
func (v Value) FloatValue() float64 { return v.f }

// StringValue returns the string payload.
func (v Value) StringValue() string { return v.s }

// Items returns the array payload.
func (v Value) Items() []Value { return v.arr }

// Fields returns the object payload.
func (v Value) Fields() map[string]Value { return v.obj }

// AsFloat returns the numeric payload widened to float64. Only meaningful
// when IsNumber reports true.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Integral reports whether the value is a whole number, and returns it as an
// int64 when it is. Floats qualify only when they carry no fractional part.
func (v Value) Integral() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return int64(v.f), true
		}
	}
	return 0, false
}

// FromAny normalizes a Go value into the value model. It accepts Go natives
// (maps, slices, bools, all numeric widths, strings, json.Number, nil) and
// the bson document forms (bson.M, bson.D, bson.A, primitive.Null).
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case primitive.Null:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		n, err := cast.ToInt64E(x)
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x)), nil
		}
		return Int(int64(x)), nil
	case float32, float64:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid numeric literal %q", string(x))
		}
		return Float(f), nil
	case []any:
		return fromSlice(x)
	case bson.A:
		return fromSlice(x)
	case map[string]any:
		return fromMap(x)
	case bson.M:
		return fromMap(x)
	case bson.D:
		fields := make(map[string]Value, len(x))
		for _, e := range x {
			child, err := FromAny(e.Value)
			if err != nil {
				return Value{}, err
			}
			fields[e.Key] = child
		}
		return Object(fields), nil
	}

	// Reflect fallback for typed slices and string-keyed maps so callers can
	// pass things like []string or map[string]int directly.
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			child, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			items[i] = child
		}
		return Array(items...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			fields := make(map[string]Value, rv.Len())
			for _, k := range rv.MapKeys() {
				child, err := FromAny(rv.MapIndex(k).Interface())
				if err != nil {
					return Value{}, err
				}
				fields[k.String()] = child
			}
			return Object(fields), nil
		}
	case reflect.Ptr:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	}

	return Value{}, fmt.Errorf("unsupported value type %T", raw)
}

func fromSlice(raw []any) (Value, error) {
	items := make([]Value, len(raw))
	for i, e := range raw {
		child, err := FromAny(e)
		if err != nil {
			return Value{}, err
		}
		items[i] = child
	}
	return Array(items...), nil
}

func fromMap(raw map[string]any) (Value, error) {
	fields := make(map[string]Value, len(raw))
	for k, e := range raw {
		child, err := FromAny(e)
		if err != nil {
			return Value{}, err
		}
		fields[k] = child
	}
	return Object(fields), nil
}

// ToAny converts the value back into plain Go data: nil, bool, int64,
// float64, string, []any, or map[string]any. The result shares no memory
// with the receiver's tree.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.ToAny()
		}
		return out
	}
	return nil
}

// String renders the value in a compact JSON-like form, used for error
// fragments and debug logging.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.render(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			v.obj[k].render(sb)
		}
		sb.WriteByte('}')
	}
}
