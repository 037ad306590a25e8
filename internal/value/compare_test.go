package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquals_Numbers(t *testing.T) {
	assert.True(t, Equals(Int(1), Float(1.0)))
	assert.True(t, Equals(Float(2), Int(2)))
	assert.False(t, Equals(Int(1), Float(1.5)))
	assert.False(t, Equals(Int(1), String("1")))
}

func TestEquals_Structural(t *testing.T) {
	a := Object(map[string]Value{"x": Int(1), "y": String("b")})
	b := Object(map[string]Value{"y": String("b"), "x": Float(1)})
	assert.True(t, Equals(a, b))

	c := Object(map[string]Value{"x": Int(1)})
	assert.False(t, Equals(a, c))

	assert.True(t, Equals(Array(Int(1), Int(2)), Array(Float(1), Float(2))))
	assert.False(t, Equals(Array(Int(1), Int(2)), Array(Int(2), Int(1))))
	assert.False(t, Equals(Array(Int(1)), Array(Int(1), Int(1))))
}

func TestEquals_Null(t *testing.T) {
	assert.True(t, Equals(Null(), Null()))
	assert.False(t, Equals(Null(), Int(0)))
	assert.False(t, Equals(Null(), Bool(false)))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Ordering
	}{
		{"int less", Int(1), Int(2), Less},
		{"int float equal", Int(2), Float(2.0), Equal},
		{"float greater", Float(2.5), Int(2), Greater},
		{"string order", String("a"), String("b"), Less},
		{"string equal", String("a"), String("a"), Equal},
		{"false before true", Bool(false), Bool(true), Less},
		{"null equals null", Null(), Null(), Equal},
		{"null vs number", Null(), Int(0), Incomparable},
		{"string vs number", String("1"), Int(1), Incomparable},
		{"bool vs number", Bool(true), Int(1), Incomparable},
		{"arrays incomparable", Array(Int(1)), Array(Int(1)), Incomparable},
		{"objects incomparable", Object(nil), Object(nil), Incomparable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestTypeTag(t *testing.T) {
	assert.Equal(t, "null", TypeTag(Null()))
	assert.Equal(t, "bool", TypeTag(Bool(true)))
	assert.Equal(t, "number", TypeTag(Int(1)))
	assert.Equal(t, "number", TypeTag(Float(1)))
	assert.Equal(t, "string", TypeTag(String("")))
	assert.Equal(t, "array", TypeTag(Array()))
	assert.Equal(t, "object", TypeTag(Object(nil)))
}

func TestMatchesType(t *testing.T) {
	assert.True(t, MatchesType(Int(1), "number"))
	assert.True(t, MatchesType(Float(1), "number"))
	assert.True(t, MatchesType(Int(1), "int"))
	assert.False(t, MatchesType(Int(1), "double"))
	assert.True(t, MatchesType(Float(1), "double"))
	assert.False(t, MatchesType(Float(1), "int"))
	assert.True(t, MatchesType(Array(), "array"))
}

func TestValidTypeTag(t *testing.T) {
	for _, tag := range []string{"null", "bool", "number", "string", "array", "object", "int", "double"} {
		assert.True(t, ValidTypeTag(tag), tag)
	}
	assert.False(t, ValidTypeTag("decimal"))
	assert.False(t, ValidTypeTag(""))
}
