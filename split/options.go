package split

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidFraction is returned for a test fraction outside [0, 1).
var ErrInvalidFraction = errors.New("test fraction must be in [0, 1)")

// ErrInvalidCount is returned for a negative absolute test count.
var ErrInvalidCount = errors.New("test count must not be negative")

// DefaultFraction is the share of reviews sampled into the test set.
const DefaultFraction = 0.2

type options struct {
	fraction float64
	count    int
	useCount bool
	seed     uint64
	logger   *slog.Logger
}

// Option configures a Splitter.
type Option func(*options)

// WithFraction samples round(f * reviews) reviews into the test set.
func WithFraction(f float64) Option {
	return func(o *options) {
		o.fraction = f
		o.useCount = false
	}
}

// WithCount samples exactly n reviews (capped at the number of reviews) into
// the test set. It overrides WithFraction.
func WithCount(n int) Option {
	return func(o *options) {
		o.count = n
		o.useCount = true
	}
}

// WithSeed sets the seed of the sampler. Equal seeds give equal splits.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLogger sets the logger used for repair diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func (o *options) validate() error {
	if o.useCount {
		if o.count < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidCount, o.count)
		}
		return nil
	}
	if o.fraction < 0 || o.fraction >= 1 {
		return fmt.Errorf("%w: %g", ErrInvalidFraction, o.fraction)
	}
	return nil
}
