package tokenize

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/hupe1980/bagtensor/vocab"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
)

// DefaultThreads is the default number of tokenizer workers.
const DefaultThreads = 4

// batchSize is the number of documents a worker handles per task.
const batchSize = 256

// ErrInvalidThreads is returned for a worker count below one.
var ErrInvalidThreads = errors.New("tokenize: threads must be at least 1")

// Tokenizer produces one token-frequency bag per document.
type Tokenizer interface {
	Count(ctx context.Context, docs []string) ([]vocab.Bag, error)
}

type options struct {
	threads   int
	stopwords []string
	minLength int
}

// Option configures a Simple tokenizer.
type Option func(*options)

// WithThreads sets the number of concurrent workers.
func WithThreads(n int) Option {
	return func(o *options) {
		o.threads = n
	}
}

// WithStopwords replaces the stop-word list. Words are case folded.
func WithStopwords(words []string) Option {
	return func(o *options) {
		o.stopwords = words
	}
}

// WithMinLength drops tokens shorter than n runes.
func WithMinLength(n int) Option {
	return func(o *options) {
		o.minLength = n
	}
}

// Simple is the default Tokenizer.
type Simple struct {
	threads   int
	minLength int
	stop      map[string]struct{}
}

var _ Tokenizer = (*Simple)(nil)

// New creates a Simple tokenizer.
func New(optFns ...Option) (*Simple, error) {
	opts := options{
		threads:   DefaultThreads,
		stopwords: DefaultStopwords,
		minLength: 1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.threads < 1 {
		return nil, ErrInvalidThreads
	}

	fold := cases.Fold()
	folded := make([]string, len(opts.stopwords))
	for i, w := range opts.stopwords {
		folded[i] = fold.String(w)
	}

	return &Simple{
		threads:   opts.threads,
		minLength: opts.minLength,
		stop:      stopSet(folded),
	}, nil
}

// Threads returns the worker count.
func (s *Simple) Threads() int { return s.threads }

// Count tokenizes docs concurrently. bags[i] belongs to docs[i].
func (s *Simple) Count(ctx context.Context, docs []string) ([]vocab.Bag, error) {
	bags := make([]vocab.Bag, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			// A Caser is stateful and must not be shared across goroutines.
			fold := cases.Fold()
			for i := start; i < end; i++ {
				bags[i] = s.bag(fold, docs[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bags, nil
}

// Bag tokenizes a single document.
func (s *Simple) Bag(text string) vocab.Bag {
	return s.bag(cases.Fold(), text)
}

func (s *Simple) bag(fold cases.Caser, text string) vocab.Bag {
	tokens := strings.FieldsFunc(fold.String(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(tokens) == 0 {
		return nil
	}

	pos := make(map[string]int, len(tokens))
	bag := make(vocab.Bag, 0, len(tokens))
	for _, t := range tokens {
		if _, isStop := s.stop[t]; isStop {
			continue
		}
		if s.minLength > 1 && len([]rune(t)) < s.minLength {
			continue
		}
		if i, ok := pos[t]; ok {
			bag[i].Count++
			continue
		}
		pos[t] = len(bag)
		bag = append(bag, vocab.TokenCount{Token: t, Count: 1})
	}
	return bag
}
