package sift

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustTest(t *testing.T, query, doc any) bool {
	t.Helper()
	ok, err := Test(query, doc)
	require.NoError(t, err)
	return ok
}

func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name  string
		query any
		doc   any
		want  bool
	}{
		{
			"range on one field",
			map[string]any{"age": map[string]any{"$gte": 25, "$lt": 40}},
			map[string]any{"age": 32},
			true,
		},
		{
			"nested path",
			map[string]any{"user.profile.age": map[string]any{"$gte": 21}},
			map[string]any{"user": map[string]any{"profile": map[string]any{"age": 25}}},
			true,
		},
		{
			"all",
			map[string]any{"tags": map[string]any{"$all": []any{"rust", "prog"}}},
			map[string]any{"tags": []any{"rust", "prog", "tut"}},
			true,
		},
		{
			"elemMatch hit",
			map[string]any{"scores": map[string]any{"$elemMatch": map[string]any{"$gt": 80, "$lt": 90}}},
			map[string]any{"scores": []any{75, 85, 95}},
			true,
		},
		{
			"elemMatch miss",
			map[string]any{"scores": map[string]any{"$elemMatch": map[string]any{"$gt": 80, "$lt": 90}}},
			map[string]any{"scores": []any{75, 95}},
			false,
		},
		{
			"or",
			map[string]any{"$or": []any{map[string]any{"a": 1}, map[string]any{"b": 2}}},
			map[string]any{"a": 2, "b": 2},
			true,
		},
		{
			"regex with options",
			map[string]any{"email": map[string]any{"$regex": "^A", "$options": "i"}},
			map[string]any{"email": "alice@x"},
			true,
		},
		{
			"ne on missing",
			map[string]any{"missing": map[string]any{"$ne": "anything"}},
			map[string]any{},
			true,
		},
		{
			"exists false on missing",
			map[string]any{"missing": map[string]any{"$exists": false}},
			map[string]any{},
			true,
		},
		{
			"where",
			map[string]any{"$where": "this.a + this.b === this.sum"},
			map[string]any{"a": 10, "b": 5, "sum": 15},
			true,
		},
		{
			"size",
			map[string]any{"items": map[string]any{"$size": 3}},
			map[string]any{"items": []any{1, 2, 3}},
			true,
		},
		{
			"mod",
			map[string]any{"n": map[string]any{"$mod": []any{3, 1}}},
			map[string]any{"n": 10},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustTest(t, tt.query, tt.doc))
		})
	}
}

func TestEmptyQueryMatchesEverything(t *testing.T) {
	docs := []any{
		map[string]any{},
		map[string]any{"a": 1},
		map[string]any{"a": []any{1, 2}},
	}
	for _, doc := range docs {
		assert.True(t, mustTest(t, map[string]any{}, doc))
	}
}

func TestCompileIdempotence(t *testing.T) {
	queries := []any{
		map[string]any{"a": 1},
		map[string]any{"a": map[string]any{"$gt": 0, "$lt": 10}},
		map[string]any{"$or": []any{map[string]any{"a": 1}, map[string]any{"b": map[string]any{"$exists": true}}}},
	}
	docs := []any{
		map[string]any{"a": 1},
		map[string]any{"a": 5, "b": nil},
		map[string]any{"c": "x"},
	}
	for _, q := range queries {
		compiled, err := Compile(q)
		require.NoError(t, err)
		for _, doc := range docs {
			direct := mustTest(t, q, doc)
			viaHandle, err := compiled.Match(doc)
			require.NoError(t, err)
			viaTest, err := Test(compiled, doc)
			require.NoError(t, err)
			assert.Equal(t, direct, viaHandle)
			assert.Equal(t, direct, viaTest)
		}
	}
}

func TestDoubleNegation(t *testing.T) {
	bodies := []map[string]any{
		{"$gt": 3},
		{"$in": []any{1, 2, 3}},
		{"$exists": true},
	}
	docs := []any{
		map[string]any{"a": 5},
		map[string]any{"a": 1},
		map[string]any{},
	}
	for _, body := range bodies {
		plain := map[string]any{"a": body}
		doubled := map[string]any{"a": map[string]any{"$not": map[string]any{"$not": body}}}
		for _, doc := range docs {
			assert.Equal(t, mustTest(t, plain, doc), mustTest(t, doubled, doc))
		}
	}
}

func TestCommutativity(t *testing.T) {
	a := map[string]any{"x": map[string]any{"$gt": 1}}
	b := map[string]any{"y": "k"}
	docs := []any{
		map[string]any{"x": 2, "y": "k"},
		map[string]any{"x": 0, "y": "k"},
		map[string]any{"x": 2},
		map[string]any{},
	}
	for _, doc := range docs {
		assert.Equal(t,
			mustTest(t, map[string]any{"$and": []any{a, b}}, doc),
			mustTest(t, map[string]any{"$and": []any{b, a}}, doc),
		)
		assert.Equal(t,
			mustTest(t, map[string]any{"$or": []any{a, b}}, doc),
			mustTest(t, map[string]any{"$or": []any{b, a}}, doc),
		)
	}
}

func TestDeMorgan(t *testing.T) {
	a := map[string]any{"x": 1}
	b := map[string]any{"y": map[string]any{"$lt": 0}}
	docs := []any{
		map[string]any{"x": 1, "y": -1},
		map[string]any{"x": 2, "y": -1},
		map[string]any{"x": 2, "y": 1},
		map[string]any{},
	}
	for _, doc := range docs {
		nor := mustTest(t, map[string]any{"$nor": []any{a, b}}, doc)
		or := mustTest(t, map[string]any{"$or": []any{a, b}}, doc)
		assert.Equal(t, !or, nor)
	}
}

func TestMissingFieldLaws(t *testing.T) {
	doc := map[string]any{"present": 1}
	path := "absent"

	truthy := []any{
		map[string]any{path: map[string]any{"$ne": 1}},
		map[string]any{path: map[string]any{"$nin": []any{1, 2}}},
		map[string]any{path: map[string]any{"$exists": false}},
		map[string]any{path: map[string]any{"$not": map[string]any{"$eq": 1}}},
	}
	falsy := []any{
		map[string]any{path: 1},
		map[string]any{path: map[string]any{"$eq": 1}},
		map[string]any{path: map[string]any{"$gt": 0}},
		map[string]any{path: map[string]any{"$gte": 0}},
		map[string]any{path: map[string]any{"$lt": 0}},
		map[string]any{path: map[string]any{"$lte": 0}},
		map[string]any{path: map[string]any{"$in": []any{1}}},
		map[string]any{path: map[string]any{"$exists": true}},
		map[string]any{path: map[string]any{"$type": "number"}},
		map[string]any{path: map[string]any{"$regex": "x"}},
		map[string]any{path: map[string]any{"$mod": []any{2, 0}}},
		map[string]any{path: map[string]any{"$size": 0}},
		map[string]any{path: map[string]any{"$all": []any{1}}},
		map[string]any{path: map[string]any{"$elemMatch": map[string]any{"$gt": 0}}},
	}

	for _, q := range truthy {
		assert.True(t, mustTest(t, q, doc), "%v", q)
	}
	for _, q := range falsy {
		assert.False(t, mustTest(t, q, doc), "%v", q)
	}
}

func TestArrayExistentialLaw(t *testing.T) {
	elements := []any{3, 8, 15}
	ops := []map[string]any{
		{"$gt": 10},
		{"$lt": 5},
		{"$eq": 8},
		{"$mod": []any{5, 0}},
	}
	for _, op := range ops {
		q := map[string]any{"a": op}
		whole := mustTest(t, q, map[string]any{"a": elements})
		var anyElem bool
		for _, e := range elements {
			if mustTest(t, q, map[string]any{"a": []any{e}}) {
				anyElem = true
			}
		}
		assert.Equal(t, anyElem, whole, "%v", op)
	}
}

func TestElemMatchScopingLaw(t *testing.T) {
	sub := map[string]any{"v": map[string]any{"$gt": 1}}
	elems := []any{
		map[string]any{"v": 0},
		map[string]any{"v": 2},
	}
	whole := mustTest(t, map[string]any{"a": map[string]any{"$elemMatch": sub}}, map[string]any{"a": elems})
	var anyElem bool
	for _, e := range elems {
		if mustTest(t, sub, e) {
			anyElem = true
		}
	}
	assert.Equal(t, anyElem, whole)
}

func TestFilter(t *testing.T) {
	docs := []any{
		map[string]any{"name": "ada", "age": 36},
		map[string]any{"name": "bob", "age": 17},
		map[string]any{"name": "eve", "age": 29},
	}
	out, err := Filter(map[string]any{"age": map[string]any{"$gte": 18}}, docs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, docs[0], out[0])
	assert.Equal(t, docs[2], out[1])
}

func TestFilter_StopsOnEvaluationError(t *testing.T) {
	docs := []any{
		map[string]any{"a": map[string]any{"b": 1}},
		map[string]any{"a": nil},
		map[string]any{"a": map[string]any{"b": 1}},
	}
	_, err := Filter(map[string]any{"$where": "this.a.b === 1"}, docs)
	require.Error(t, err)
	assert.True(t, IsEvaluationError(err))
}

func TestWhere_ScriptErrors(t *testing.T) {
	_, err := Test(map[string]any{"$where": "this.a ==="}, map[string]any{"a": 1})
	require.Error(t, err)
	assert.True(t, IsEvaluationError(err))
	assert.False(t, IsInvalidQuery(err))
}

func TestWithoutWhere(t *testing.T) {
	_, err := Compile(map[string]any{"$where": "true"}, WithoutWhere())
	require.Error(t, err)
	assert.True(t, IsInvalidQuery(err))

	// Other operators are unaffected.
	c, err := Compile(map[string]any{"a": 1}, WithoutWhere())
	require.NoError(t, err)
	ok, err := c.Match(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInvalidQueryReporting(t *testing.T) {
	_, err := Compile(map[string]any{"a": map[string]any{"$mod": []any{0, 1}}})
	require.Error(t, err)
	assert.True(t, IsInvalidQuery(err))
	assert.Contains(t, err.Error(), "$mod")
}

func TestBsonQueries(t *testing.T) {
	q := bson.M{"tags": bson.M{"$in": bson.A{"go", primitive.Regex{Pattern: "^ru"}}}}
	assert.True(t, mustTest(t, q, bson.M{"tags": bson.A{"rust"}}))
	assert.True(t, mustTest(t, q, map[string]any{"tags": []any{"go"}}))
	assert.False(t, mustTest(t, q, map[string]any{"tags": []any{"python"}}))

	ordered := bson.D{
		{Key: "age", Value: bson.D{{Key: "$gte", Value: 21}}},
		{Key: "name", Value: primitive.Regex{Pattern: "^a", Options: "i"}},
	}
	assert.True(t, mustTest(t, ordered, bson.M{"age": 30, "name": "Ada"}))
	assert.False(t, mustTest(t, ordered, bson.M{"age": 20, "name": "Ada"}))
}

func TestCompiled_ConcurrentUse(t *testing.T) {
	c, err := Compile(map[string]any{"$where": "this.n % 2 === 0", "n": map[string]any{"$gte": 0}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for n := 0; n < 25; n++ {
				ok, err := c.Match(map[string]any{"n": n})
				assert.NoError(t, err)
				assert.Equal(t, n%2 == 0, ok)
			}
		}(g)
	}
	wg.Wait()
}

func TestCompiled_String(t *testing.T) {
	c, err := Compile(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Contains(t, c.String(), "a")
}

func TestInvalidDocument(t *testing.T) {
	c, err := Compile(map[string]any{"a": 1})
	require.NoError(t, err)
	_, err = c.Match(make(chan int))
	require.Error(t, err)
}
