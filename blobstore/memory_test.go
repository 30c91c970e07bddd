package blobstore

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w, err := store.Create(ctx, "_test")
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)

	_, err = store.Open(ctx, "_test")
	assert.ErrorIs(t, err, ErrNotFound, "not visible before Close")
	require.NoError(t, w.Close())

	require.NoError(t, store.Put(ctx, "meta.txt", []byte("[]")))

	data, err := ReadAll(ctx, store, "_test")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"_test", "meta.txt"}, names)

	require.NoError(t, store.Delete(ctx, "_test"))
	names, err = store.List(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore_Abort(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w, err := store.Create(ctx, "_user_train0")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	require.NoError(t, Abort(w))
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("more"))
	assert.ErrorIs(t, err, os.ErrClosed)

	_, err = store.Open(ctx, "_user_train0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBlob_Reads(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "b", []byte("0123456789")))

	b, err := store.Open(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.Size())

	p := make([]byte, 4)
	n, err := b.ReadAt(ctx, p, 8)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	rc, err := b.ReadRange(ctx, 3, 100)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "3456789", string(data))

	rc, err = b.ReadRange(ctx, 20, 5)
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, store.Put(ctx, "b", []byte("x")))
	assert.Equal(t, int64(10), b.Size(), "open blob keeps its snapshot")
}
