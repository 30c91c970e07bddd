package tensor

import (
	"testing"

	"github.com/hupe1980/bagtensor/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIndex(t *testing.T) {
	x := NewEntityIndex([]string{"u3", "u1", "u2", "u1"})

	require.Equal(t, 3, x.Len())
	assert.Equal(t, []string{"u1", "u2", "u3"}, x.IDs())

	i, ok := x.Index("u3")
	require.True(t, ok)
	assert.Equal(t, uint32(2), i)
	assert.Equal(t, "u2", x.ID(1))

	_, ok = x.Index("missing")
	assert.False(t, ok)
	assert.Panics(t, func() { x.MustIndex("missing") })
}

func TestAssemble(t *testing.T) {
	reviews := []Review{
		{User: "bob", Item: "p2", Row: vocab.Row{{Word: 0, Count: 2}, {Word: 1, Count: 1}}},
		{User: "alice", Item: "p1", Row: vocab.Row{{Word: 1, Count: 4}}},
		{User: "carol", Item: "p1", Row: nil},
	}

	tn, err := Assemble(reviews, 2)
	require.NoError(t, err)

	users, items, words := tn.Dims()
	assert.Equal(t, 3, users)
	assert.Equal(t, 2, items)
	assert.Equal(t, 2, words)

	// One entry per distinct vocabulary word per document.
	require.Equal(t, 3, tn.Entries.Len())
	assert.Equal(t, EntrySet{
		{User: 1, Item: 1, Word: 0, Count: 2},
		{User: 1, Item: 1, Word: 1, Count: 1},
		{User: 0, Item: 0, Word: 1, Count: 4},
	}, tn.Entries)
}

func TestAssemble_Errors(t *testing.T) {
	_, err := Assemble([]Review{{User: "", Item: "p"}}, 1)
	assert.ErrorIs(t, err, ErrEmptyIdentifier)

	_, err = Assemble([]Review{{User: "u", Item: "p", Row: vocab.Row{{Word: 5, Count: 1}}}}, 2)
	assert.Error(t, err)
}

func TestEntrySet_Reviews(t *testing.T) {
	s := EntrySet{
		{User: 1, Item: 0, Word: 2, Count: 1},
		{User: 0, Item: 1, Word: 0, Count: 1},
		{User: 1, Item: 0, Word: 0, Count: 3},
		{User: 0, Item: 1, Word: 1, Count: 2},
		{User: 0, Item: 0, Word: 1, Count: 2},
	}
	assert.Equal(t, 3, s.CountReviews())

	s.Sort()
	var keys []ReviewKey
	var sizes []int
	for k, run := range s.Reviews() {
		keys = append(keys, k)
		sizes = append(sizes, run.Len())
	}
	assert.Equal(t, []ReviewKey{{0, 0}, {0, 1}, {1, 0}}, keys)
	assert.Equal(t, []int{1, 2, 2}, sizes)

	only := s.Filter(func(e Entry) bool { return e.User == 1 })
	assert.Equal(t, 2, only.Len())
}

func TestMode(t *testing.T) {
	e := Entry{User: 1, Item: 2, Word: 3}
	assert.Equal(t, uint32(1), ModeUser.Key(e))
	assert.Equal(t, uint32(2), ModeItem.Key(e))
	assert.Equal(t, uint32(3), ModeWord.Key(e))
	assert.Equal(t, "prod", ModeItem.String())
	assert.Equal(t, "mode(9)", Mode(9).String())
}
