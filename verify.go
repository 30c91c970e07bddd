package bagtensor

import (
	"context"
	"fmt"

	"github.com/hupe1980/bagtensor/blobstore"
	"github.com/hupe1980/bagtensor/codec"
	"github.com/hupe1980/bagtensor/internal/hash"
	"github.com/hupe1980/bagtensor/manifest"
	"github.com/hupe1980/bagtensor/shard"
	"github.com/hupe1980/bagtensor/tensor"
)

// Verify loads manifest.json from store and checks every listed shard: the
// CRC32C of the stored bytes, the decoded layout, and the header against the
// manifest entry. It also checks that all 3k+1 shards are present.
func Verify(ctx context.Context, store blobstore.BlobStore, c codec.Codec) (*manifest.Manifest, error) {
	m, err := manifest.NewStore(store, c).Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := verifyManifest(ctx, store, m); err != nil {
		return m, err
	}
	return m, nil
}

func verifyManifest(ctx context.Context, store blobstore.BlobStore, m *manifest.Manifest) error {
	for _, mode := range tensor.Modes {
		for i := range m.Params.K {
			if _, ok := m.Shard(ShardName(mode, i)); !ok {
				return fmt.Errorf("manifest: missing shard %s", ShardName(mode, i))
			}
		}
	}
	if _, ok := m.Shard(TestShardName); !ok {
		return fmt.Errorf("manifest: missing shard %s", TestShardName)
	}

	for _, info := range m.Shards {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := verifyShard(ctx, store, info); err != nil {
			return translateError(err)
		}
	}
	return nil
}

func verifyShard(ctx context.Context, store blobstore.BlobStore, info manifest.ShardInfo) error {
	data, err := blobstore.ReadAll(ctx, store, info.Name)
	if err != nil {
		return fmt.Errorf("shard %s: %w", info.Name, err)
	}
	if int64(len(data)) != info.Bytes {
		return fmt.Errorf("shard %s: %w: size %d, manifest says %d", info.Name, shard.ErrTruncated, len(data), info.Bytes)
	}
	if sum := hash.CRC32C(data); sum != info.CRC32C {
		return &ErrChecksumMismatch{Shard: info.Name, Expected: info.CRC32C, Actual: sum}
	}

	h, _, err := shard.ReadBlob(ctx, store, info.Name)
	if err != nil {
		return err
	}
	want := shard.Header{
		Offset:     info.Offset,
		Rows:       info.Rows,
		Cols:       info.Cols,
		Words:      info.Words,
		EntryCount: info.Reviews,
		ValueCount: info.Values,
	}
	if h != want {
		return fmt.Errorf("shard %s: %w: header %+v, manifest says %+v", info.Name, shard.ErrCorrupt, h, want)
	}
	return nil
}
