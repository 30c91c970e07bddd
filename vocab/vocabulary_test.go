package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpus() []Bag {
	return []Bag{
		{{"great", 2}, {"battery", 1}, {"", 3}},
		{{"battery", 3}, {"screen", 1}},
		{{"screen", 2}, {"great", 1}, {"cheap", 1}},
	}
}

func TestReduce_OrderAndThreshold(t *testing.T) {
	v := Reduce(corpus(), 0)

	// battery=4, great=3, screen=3 (great seen first), cheap=1.
	require.Equal(t, []string{"battery", "great", "screen", "cheap"}, v.Words())
	assert.Equal(t, []uint64{4, 3, 3, 1}, v.Counts())
	assert.Equal(t, uint64(11), v.Total())

	id, ok := v.ID("screen")
	require.True(t, ok)
	assert.Equal(t, uint32(2), id)
	assert.Equal(t, "screen", v.Word(id))
	assert.Equal(t, uint64(3), v.Count(id))

	_, ok = v.ID("")
	assert.False(t, ok, "empty token must never enter the vocabulary")
}

func TestReduce_StrictThreshold(t *testing.T) {
	v := Reduce(corpus(), 3)
	assert.Equal(t, []string{"battery"}, v.Words())
}

func TestReduce_EmptyVocabulary(t *testing.T) {
	v := Reduce(corpus(), 100)
	assert.True(t, v.IsEmpty())
	assert.Equal(t, 0, v.Len())
	assert.Nil(t, v.Encode(corpus()[0]))
}

func TestReduce_Idempotent(t *testing.T) {
	a := Reduce(corpus(), 1)
	b := Reduce(corpus(), 1)
	assert.Equal(t, a.Words(), b.Words())
	for _, w := range a.Words() {
		ida, _ := a.ID(w)
		idb, _ := b.ID(w)
		assert.Equal(t, ida, idb, w)
	}
}

func TestNew_CopiesInput(t *testing.T) {
	words := []string{"a", "b"}
	v := New(words, []uint64{5, 4})
	words[0] = "z"
	assert.Equal(t, "a", v.Word(0))
	assert.Equal(t, uint64(4), v.Count(1))
}

func TestEncode(t *testing.T) {
	v := Reduce(corpus(), 0)

	row := v.Encode(Bag{{"cheap", 2}, {"unknown", 7}, {"battery", 1}, {"great", 0}, {"cheap", 1}})
	assert.Equal(t, Row{{Word: 0, Count: 1}, {Word: 3, Count: 3}}, row)
	assert.Equal(t, uint64(4), row.Total())

	for _, r := range v.EncodeAll(corpus()) {
		for _, c := range r {
			assert.Less(t, int(c.Word), v.Len())
			assert.NotZero(t, c.Count)
		}
	}
}

func TestBag(t *testing.T) {
	b := Bag{{"x", 2}, {"y", 3}}
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, uint64(5), b.Total())
}
