package bagtensor

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/bagtensor/blobstore"
	"github.com/hupe1980/bagtensor/internal/conv"
	"github.com/hupe1980/bagtensor/internal/hash"
	"github.com/hupe1980/bagtensor/manifest"
	"github.com/hupe1980/bagtensor/partition"
	"github.com/hupe1980/bagtensor/resource"
	"github.com/hupe1980/bagtensor/shard"
	"github.com/hupe1980/bagtensor/tensor"
)

// TestShardName is the name of the shard holding the test set.
const TestShardName = "_test"

// ShardName returns the file name of the i-th train shard of mode.
func ShardName(mode tensor.Mode, i int) string {
	return fmt.Sprintf("_%s_train%d", mode, i)
}

// Write partitions the train set of ds along every mode and writes the train
// shards, the test shard, meta.txt and manifest.json to store.
func (p *Pipeline) Write(ctx context.Context, ds *Dataset, store blobstore.BlobStore) (*manifest.Manifest, error) {
	m := manifest.New(manifest.Params{
		K:            p.opts.shards,
		Threshold:    p.opts.threshold,
		TestFraction: p.opts.testFraction,
		TestCount:    p.opts.testCount,
		Seed:         p.opts.seed,
	})
	log := p.opts.logger.WithRun(m.RunID)

	users, items, words := ds.Tensor.Dims()
	full, err := fullDims(users, items, words)
	if err != nil {
		return nil, err
	}

	for _, mode := range tensor.Modes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.writeMode(ctx, log, store, ds, mode, full, m); err != nil {
			return nil, err
		}
	}

	test := &shard.Shard{
		Name:    TestShardName,
		Test:    true,
		Dims:    full,
		Entries: ds.Split.Test,
	}
	info, err := p.writeShard(ctx, log, store, test)
	if err != nil {
		return nil, err
	}
	m.Add(info)

	start := time.Now()
	ms := manifest.NewStore(store, p.opts.codec)
	err = ms.SaveMeta(ctx, manifest.Meta{
		Summary: manifest.Summary{
			Users:    users,
			Products: items,
			Words:    words,
			Train:    ds.Split.TrainReviews,
			Test:     ds.Split.TestReviews,
		},
		Vocab: ds.Vocabulary.Words(),
	})
	if err == nil {
		err = ms.Save(ctx, m)
	}
	p.stage(ctx, StageWrite, len(m.Shards), start, err)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "run written",
		"shards", len(m.Shards),
		"users", users,
		"items", items,
		"words", words,
	)
	return m, nil
}

// writeMode partitions the train set along mode and writes its k shards.
// The partitioned copy of the train set is accounted for until it is written.
func (p *Pipeline) writeMode(ctx context.Context, log *Logger, store blobstore.BlobStore, ds *Dataset, mode tensor.Mode, full shard.Dims, m *manifest.Manifest) error {
	size := int64(ds.Split.Train.Len()) * entrySize
	if err := p.opts.resource.Reserve(mode.String()+" partition", size); err != nil {
		p.stage(ctx, StagePartition, 0, time.Now(), err)
		return translateError(err)
	}
	defer p.opts.resource.Release(size)

	start := time.Now()
	parts, err := p.partition(ds, mode)
	p.stage(ctx, StagePartition, len(parts), start, err)
	if err != nil {
		return translateError(err)
	}

	for _, part := range parts {
		s, err := trainShard(mode, part, full)
		if err != nil {
			return err
		}
		info, err := p.writeShard(ctx, log, store, s)
		if err != nil {
			return err
		}
		m.Add(info)
	}
	return nil
}

// partition splits the train set into k parts along mode. Users and items are
// divided into equal index ranges, words into ranges of equal occurrence.
func (p *Pipeline) partition(ds *Dataset, mode tensor.Mode) ([]partition.Part, error) {
	users, items, _ := ds.Tensor.Dims()

	var (
		plan partition.Plan
		err  error
	)
	switch mode {
	case tensor.ModeUser:
		plan, err = partition.Uniform(users, p.opts.shards)
	case tensor.ModeItem:
		plan, err = partition.Uniform(items, p.opts.shards)
	default:
		plan, err = partition.Weighted(ds.Vocabulary.Counts(), p.opts.shards)
	}
	if err != nil {
		return nil, err
	}
	return partition.Apply(ds.Split.Train, plan, mode)
}

func fullDims(users, items, words int) (shard.Dims, error) {
	var (
		d   shard.Dims
		err error
	)
	if d.Rows, err = conv.CountToUint32("users", users); err != nil {
		return d, err
	}
	if d.Cols, err = conv.CountToUint32("items", items); err != nil {
		return d, err
	}
	if d.Words, err = conv.CountToUint32("words", words); err != nil {
		return d, err
	}
	return d, nil
}

// trainShard narrows the full dimensions to the part's block along mode.
func trainShard(mode tensor.Mode, part partition.Part, full shard.Dims) (*shard.Shard, error) {
	offset, err := conv.CountToUint32("offset", part.Offset)
	if err != nil {
		return nil, err
	}
	size, err := conv.CountToUint32("size", part.Size)
	if err != nil {
		return nil, err
	}

	dims := full
	switch mode {
	case tensor.ModeUser:
		dims.Rows = size
	case tensor.ModeItem:
		dims.Cols = size
	default:
		dims.Words = size
	}

	return &shard.Shard{
		Name:    ShardName(mode, part.Index),
		Mode:    mode,
		Index:   part.Index,
		Offset:  offset,
		Dims:    dims,
		Entries: part.Entries,
	}, nil
}

func (p *Pipeline) writeShard(ctx context.Context, log *Logger, store blobstore.BlobStore, s *shard.Shard) (manifest.ShardInfo, error) {
	start := time.Now()
	info, err := p.encodeShard(ctx, store, s)
	if err != nil {
		err = translateError(err)
	}
	log.LogShard(ctx, s.Name, int(info.Reviews), int(info.Values), info.Bytes, err)
	p.opts.metricsCollector.RecordShard(s.Label(), int(info.Reviews), int(info.Values), info.Bytes, time.Since(start), err)
	return info, err
}

func (p *Pipeline) encodeShard(ctx context.Context, store blobstore.BlobStore, s *shard.Shard) (manifest.ShardInfo, error) {
	h, c, err := shard.Build(s)
	if err != nil {
		return manifest.ShardInfo{}, err
	}

	w, err := store.Create(ctx, s.Name)
	if err != nil {
		return manifest.ShardInfo{}, fmt.Errorf("shard %s: create: %w", s.Name, err)
	}

	cw := hash.NewChecksumWriter(resource.NewRateLimitedWriter(ctx, w, p.opts.resource))
	n, err := shard.Write(cw, s.Name, h, c)
	if err != nil {
		_ = blobstore.Abort(w)
		return manifest.ShardInfo{}, err
	}
	if err := w.Close(); err != nil {
		return manifest.ShardInfo{}, fmt.Errorf("shard %s: close: %w", s.Name, err)
	}

	return manifest.ShardInfo{
		Name:    s.Name,
		Mode:    s.Label(),
		Index:   s.Index,
		Offset:  h.Offset,
		Rows:    h.Rows,
		Cols:    h.Cols,
		Words:   h.Words,
		Reviews: h.EntryCount,
		Values:  h.ValueCount,
		Bytes:   n,
		CRC32C:  cw.Sum(),
	}, nil
}
