package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	Users int      `json:"users"`
	Vocab []string `json:"vocab"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	v := summary{Users: 3, Vocab: []string{"great", "book"}}

	std := MustMarshal(JSON{}, v)
	fast := MustMarshal(GoJSON{}, v)
	assert.JSONEq(t, string(std), string(fast))
	assert.Equal(t, `{"users":3,"vocab":["great","book"]}`, string(std))

	var out summary
	require.NoError(t, GoJSON{}.Unmarshal(std, &out))
	assert.Equal(t, v, out)
}

func BenchmarkCodec_Marshal(b *testing.B) {
	v := summary{Users: 1 << 20, Vocab: make([]string, 5000)}
	for i := range v.Vocab {
		v.Vocab[i] = "word"
	}

	b.Run("stdlib", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_, _ = JSON{}.Marshal(v)
		}
	})
	b.Run("go-json", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_, _ = GoJSON{}.Marshal(v)
		}
	})
}
