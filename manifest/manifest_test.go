package manifest

import (
	"context"
	"testing"

	"github.com/hupe1980/bagtensor/blobstore"
	"github.com/hupe1980/bagtensor/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeta_Layout(t *testing.T) {
	m := Meta{
		Summary: Summary{Users: 3, Products: 4, Words: 2, Train: 4, Test: 1},
		Vocab:   []string{"good", "book"},
	}

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(m)
			require.NoError(t, err)
			assert.JSONEq(t,
				`[{"users":3,"products":4,"words":2,"train":4,"test":1},{"vocab":["good","book"]}]`,
				string(data))

			var got Meta
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, m, got)
		})
	}
}

func TestMeta_EmptyVocabulary(t *testing.T) {
	data, err := codec.JSON{}.Marshal(Meta{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"vocab":[]}`)
}

func TestMeta_RejectsWrongShape(t *testing.T) {
	var m Meta
	assert.Error(t, codec.JSON{}.Unmarshal([]byte(`[{"users":1}]`), &m))
	assert.Error(t, codec.JSON{}.Unmarshal([]byte(`{"users":1}`), &m))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	s := NewStore(blobs, nil)

	meta := Meta{Summary: Summary{Users: 1, Products: 1, Words: 1, Train: 1}, Vocab: []string{"x"}}
	require.NoError(t, s.SaveMeta(ctx, meta))

	gotMeta, err := s.LoadMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, meta, *gotMeta)

	m := New(Params{K: 2, Threshold: 10, TestFraction: 0.2, Seed: 7})
	m.Add(ShardInfo{Name: "_user_train0", Mode: "user", Rows: 1, Cols: 1, Words: 1, Reviews: 1, Values: 1, Bytes: 44, CRC32C: 0xdeadbeef})
	m.Add(ShardInfo{Name: "_test", Mode: "test"})
	require.NoError(t, s.Save(ctx, m))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.True(t, m.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, m.Params, got.Params)
	assert.Equal(t, m.Shards, got.Shards)

	info, ok := got.Shard("_user_train0")
	require.True(t, ok)
	assert.Equal(t, uint32(0xdeadbeef), info.CRC32C)

	_, ok = got.Shard("_word_train0")
	assert.False(t, ok)
}

func TestManifest_Validate(t *testing.T) {
	m := New(Params{K: 1})
	m.Add(ShardInfo{Name: "_test"})
	m.Add(ShardInfo{Name: "_test"})
	assert.ErrorContains(t, m.Validate(), "duplicate shard")

	m = New(Params{K: 1})
	m.Version = 99
	assert.ErrorContains(t, m.Validate(), "unsupported manifest version")
}

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(blobstore.NewMemoryStore(), codec.JSON{})
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
