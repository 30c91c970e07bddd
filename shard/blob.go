package shard

import (
	"context"
	"fmt"

	"github.com/hupe1980/bagtensor/blobstore"
)

// ReadBlob opens name in store and decodes it.
func ReadBlob(ctx context.Context, store blobstore.BlobStore, name string) (Header, *Columns, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return Header{}, nil, fmt.Errorf("shard %s: open: %w", name, err)
	}
	defer b.Close()

	h, c, err := ReadAt(blobstore.ReaderAt(ctx, b), b.Size())
	if err != nil {
		return h, nil, fmt.Errorf("shard %s: %w", name, err)
	}
	return h, c, nil
}
