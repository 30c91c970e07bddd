package split

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/bagtensor/tensor"
)

// ErrRepairExhausted reports that no test review could donate a missing
// entity. It is never returned by Split: coverage for that entity was already
// restored by an earlier repair, so the step is skipped and only counted.
var ErrRepairExhausted = errors.New("no test review left to repair coverage")

// Repairs counts the reviews moved from test to train per reason.
type Repairs struct {
	Users   int
	Items   int
	Words   int
	Skipped int
}

// Moved returns the total number of reviews moved back to training.
func (r Repairs) Moved() int { return r.Users + r.Items + r.Words }

// Result is the outcome of a split.
type Result struct {
	Train        tensor.EntrySet
	Test         tensor.EntrySet
	TrainReviews int
	TestReviews  int
	Repairs      Repairs
}

// Splitter performs coverage-preserving train/test splits.
type Splitter struct {
	opts options
}

// New creates a Splitter.
func New(optFns ...Option) (*Splitter, error) {
	opts := options{
		fraction: DefaultFraction,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Splitter{opts: opts}, nil
}

type review struct {
	key     tensor.ReviewKey
	entries tensor.EntrySet
	test    bool
}

// coverage tracks the ids present in a set of reviews, per mode.
type coverage struct {
	users *roaring.Bitmap
	items *roaring.Bitmap
	words *roaring.Bitmap
}

func newCoverage() coverage {
	return coverage{users: roaring.New(), items: roaring.New(), words: roaring.New()}
}

func (c coverage) add(r *review) {
	c.users.Add(r.key.User)
	c.items.Add(r.key.Item)
	for _, e := range r.entries {
		c.words.Add(e.Word)
	}
}

// Coverage returns the user, item, and word ids occurring in entries.
func Coverage(entries tensor.EntrySet) (users, items, words *roaring.Bitmap) {
	c := newCoverage()
	for _, e := range entries {
		c.users.Add(e.User)
		c.items.Add(e.Item)
		c.words.Add(e.Word)
	}
	return c.users, c.items, c.words
}

// Split takes ownership of entries and divides them into train and test.
//
// Every user, item, and word id occurring in entries occurs in Result.Train.
func (s *Splitter) Split(entries tensor.EntrySet) (*Result, error) {
	entries.Sort()

	var reviews []*review
	for key, run := range entries.Reviews() {
		reviews = append(reviews, &review{key: key, entries: run})
	}

	all := newCoverage()
	for _, r := range reviews {
		all.add(r)
	}

	nTest := s.testSize(len(reviews))
	rng := rand.New(rand.NewPCG(s.opts.seed, s.opts.seed^0x9e3779b97f4a7c15))
	for _, i := range rng.Perm(len(reviews))[:nTest] {
		reviews[i].test = true
	}

	train := newCoverage()
	byUser := make(map[uint32][]*review)
	byItem := make(map[uint32][]*review)
	byWord := make(map[uint32][]*review)
	for _, r := range reviews {
		if !r.test {
			train.add(r)
			continue
		}
		byUser[r.key.User] = append(byUser[r.key.User], r)
		byItem[r.key.Item] = append(byItem[r.key.Item], r)
		for _, e := range r.entries {
			byWord[e.Word] = append(byWord[e.Word], r)
		}
	}

	var repairs Repairs
	moveOne := func(candidates []*review) bool {
		for _, r := range candidates {
			if r.test {
				r.test = false
				train.add(r)
				return true
			}
		}
		return false
	}

	repair := func(kind string, universe, covered *roaring.Bitmap, index map[uint32][]*review, moved *int) {
		missing := roaring.AndNot(universe, covered)
		it := missing.Iterator()
		for it.HasNext() {
			id := it.Next()
			if covered.Contains(id) {
				continue
			}
			if moveOne(index[id]) {
				*moved++
				continue
			}
			repairs.Skipped++
			s.opts.logger.Debug("coverage repair skipped",
				"kind", kind,
				"id", id,
				"error", ErrRepairExhausted,
			)
		}
	}

	for {
		before := repairs.Moved()
		repair("user", all.users, train.users, byUser, &repairs.Users)
		repair("item", all.items, train.items, byItem, &repairs.Items)
		repair("word", all.words, train.words, byWord, &repairs.Words)
		if repairs.Moved() == before {
			break
		}
	}

	res := &Result{Repairs: repairs}
	for _, r := range reviews {
		if r.test {
			res.Test = append(res.Test, r.entries...)
			res.TestReviews++
		} else {
			res.Train = append(res.Train, r.entries...)
			res.TrainReviews++
		}
	}

	s.opts.logger.Debug("split completed",
		"train_reviews", res.TrainReviews,
		"test_reviews", res.TestReviews,
		"repaired", repairs.Moved(),
	)

	return res, nil
}

func (s *Splitter) testSize(reviews int) int {
	n := 0
	if s.opts.useCount {
		n = s.opts.count
	} else {
		n = int(math.Round(s.opts.fraction * float64(reviews)))
	}
	return min(max(n, 0), reviews)
}
