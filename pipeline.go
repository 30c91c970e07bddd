package bagtensor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/bagtensor/blobstore"
	"github.com/hupe1980/bagtensor/manifest"
	"github.com/hupe1980/bagtensor/resource"
	"github.com/hupe1980/bagtensor/reviews"
	"github.com/hupe1980/bagtensor/split"
	"github.com/hupe1980/bagtensor/tensor"
	"github.com/hupe1980/bagtensor/tokenize"
	"github.com/hupe1980/bagtensor/vocab"
)

// entrySize is the in-memory size of one tensor.Entry.
const entrySize = 16

// Pipeline builds and writes partitioned review tensors.
// A Pipeline is safe for sequential reuse; runs do not share state.
type Pipeline struct {
	opts      options
	tokenizer tokenize.Tokenizer
}

// New creates a Pipeline.
func New(optFns ...Option) (*Pipeline, error) {
	o := applyOptions(optFns)

	if o.shards < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidShardCount, o.shards)
	}
	if o.useTestCount {
		if o.testCount < 0 {
			return nil, translateError(fmt.Errorf("test count %d: %w", o.testCount, split.ErrInvalidCount))
		}
	} else if o.testFraction < 0 || o.testFraction >= 1 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidTestFraction, o.testFraction)
	}
	if !o.seeded {
		o.seed = rand.Uint64()
	}

	tok := o.tokenizer
	if tok == nil {
		var err error
		tok, err = tokenize.New(tokenize.WithThreads(o.threads))
		if err != nil {
			return nil, err
		}
	}

	return &Pipeline{opts: o, tokenizer: tok}, nil
}

// Seed returns the seed used for the train/test split.
func (p *Pipeline) Seed() uint64 { return p.opts.seed }

// Dataset is the in-memory tensor and its split, ready to be written.
type Dataset struct {
	Vocabulary *vocab.Vocabulary
	Tensor     *tensor.Tensor
	Split      *split.Result
	// Warnings holds non-fatal conditions such as ErrEmptyVocabulary.
	Warnings []error

	rc       *resource.Controller
	reserved int64
}

// Release returns the memory reserved for the dataset to the resource
// controller. Run calls it; callers of Build must call it once the dataset
// is written. Calling it more than once is a no-op.
func (ds *Dataset) Release() {
	if ds == nil || ds.reserved == 0 {
		return
	}
	ds.rc.Release(ds.reserved)
	ds.reserved = 0
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Users        int
	Items        int
	Words        int
	Entries      int
	TrainReviews int
	TestReviews  int
	Repairs      split.Repairs
	Seed         uint64
	Manifest     *manifest.Manifest
	Warnings     []error
}

// Run builds the tensor from records and writes all shards, meta.txt and
// manifest.json to store.
func (p *Pipeline) Run(ctx context.Context, records []reviews.Record, store blobstore.BlobStore) (*Result, error) {
	ds, err := p.Build(ctx, records)
	if err != nil {
		return nil, err
	}
	defer ds.Release()

	m, err := p.Write(ctx, ds, store)
	if err != nil {
		return nil, err
	}

	if p.opts.verify {
		start := time.Now()
		err := verifyManifest(ctx, store, m)
		p.stage(ctx, StageVerify, len(m.Shards), start, err)
		if err != nil {
			return nil, err
		}
	}

	users, items, words := ds.Tensor.Dims()
	return &Result{
		RunID:        m.RunID,
		Users:        users,
		Items:        items,
		Words:        words,
		Entries:      ds.Split.Train.Len() + ds.Split.Test.Len(),
		TrainReviews: ds.Split.TrainReviews,
		TestReviews:  ds.Split.TestReviews,
		Repairs:      ds.Split.Repairs,
		Seed:         p.opts.seed,
		Manifest:     m,
		Warnings:     ds.Warnings,
	}, nil
}

// ReadRecords reads every review from the possibly compressed file at path.
// Malformed records are reported as *ErrInputFormat.
func ReadRecords(ctx context.Context, path string) ([]reviews.Record, error) {
	records, err := reviews.ReadFile(ctx, path)
	if err != nil {
		return nil, translateError(err)
	}
	return records, nil
}

// Build tokenizes records, reduces the vocabulary, assembles the tensor and
// splits it into train and test.
func (p *Pipeline) Build(ctx context.Context, records []reviews.Record) (*Dataset, error) {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, translateError(&reviews.FormatError{Record: i, Err: err})
		}
	}

	ds := &Dataset{rc: p.opts.resource}

	start := time.Now()
	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	bags, err := p.tokenizer.Count(ctx, texts)
	if err == nil && len(bags) != len(records) {
		err = fmt.Errorf("tokenizer returned %d bags for %d documents", len(bags), len(records))
	}
	p.stage(ctx, StageTokenize, len(bags), start, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	ds.Vocabulary = vocab.Reduce(bags, p.opts.threshold)
	p.stage(ctx, StageVocab, ds.Vocabulary.Len(), start, nil)
	if ds.Vocabulary.IsEmpty() {
		ds.Warnings = append(ds.Warnings, ErrEmptyVocabulary)
		p.opts.logger.LogWarning(ctx, ErrEmptyVocabulary, "threshold", p.opts.threshold, "documents", len(bags))
	}

	start = time.Now()
	rows := ds.Vocabulary.EncodeAll(bags)
	docs := make([]tensor.Review, len(records))
	for i, r := range records {
		docs[i] = tensor.Review{User: r.User, Item: r.Item, Row: rows[i]}
	}
	ds.Tensor, err = tensor.Assemble(docs, ds.Vocabulary.Len())
	if err == nil {
		size := int64(ds.Tensor.Entries.Len()) * entrySize
		if err = p.opts.resource.Reserve("tensor entries", size); err == nil {
			ds.reserved = size
		}
	}
	if err != nil {
		p.stage(ctx, StageAssemble, 0, start, err)
		return nil, translateError(err)
	}
	p.stage(ctx, StageAssemble, ds.Tensor.Entries.Len(), start, nil)

	if err := ctx.Err(); err != nil {
		ds.Release()
		return nil, err
	}

	start = time.Now()
	ds.Split, err = p.split(ds.Tensor.Entries)
	p.stage(ctx, StageSplit, ds.Split.TrainReviews+ds.Split.TestReviews, start, err)
	if err != nil {
		ds.Release()
		return nil, translateError(err)
	}
	// The split owns the entries and their reservation now.
	ds.Tensor.Entries = nil

	r := ds.Split.Repairs
	p.opts.logger.LogRepair(ctx, r.Users, r.Items, r.Words, r.Skipped)
	p.opts.metricsCollector.RecordRepairs(r.Users, r.Items, r.Words, r.Skipped)

	return ds, nil
}

func (p *Pipeline) split(entries tensor.EntrySet) (*split.Result, error) {
	optFns := []split.Option{
		split.WithSeed(p.opts.seed),
		split.WithLogger(p.opts.logger.Logger),
	}
	if p.opts.useTestCount {
		optFns = append(optFns, split.WithCount(p.opts.testCount))
	} else {
		optFns = append(optFns, split.WithFraction(p.opts.testFraction))
	}

	s, err := split.New(optFns...)
	if err != nil {
		return &split.Result{}, err
	}

	// Train and test are fresh copies; the input is released afterwards.
	size := int64(entries.Len()) * entrySize
	if err := p.opts.resource.Reserve("train/test split", size); err != nil {
		return &split.Result{}, err
	}
	res, err := s.Split(entries)
	p.opts.resource.Release(size)
	if err != nil {
		return &split.Result{}, err
	}
	return res, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, items int, start time.Time, err error) {
	d := time.Since(start)
	if err != nil && errors.Is(err, context.Canceled) {
		p.opts.logger.WarnContext(ctx, "stage canceled", "stage", name)
	} else {
		p.opts.logger.LogStage(ctx, name, items, d, err)
	}
	p.opts.metricsCollector.RecordStage(name, items, d, err)
}
