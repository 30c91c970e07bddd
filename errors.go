package bagtensor

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bagtensor/partition"
	"github.com/hupe1980/bagtensor/reviews"
	"github.com/hupe1980/bagtensor/shard"
	"github.com/hupe1980/bagtensor/split"
)

var (
	// ErrEmptyVocabulary is reported as a warning when the threshold removes
	// every word. The run still writes shards with zero words.
	ErrEmptyVocabulary = errors.New("vocabulary is empty")

	// ErrInvalidShardCount is returned when k is below one.
	ErrInvalidShardCount = errors.New("shard count must be at least 1")

	// ErrInvalidTestFraction is returned for a test fraction outside [0, 1).
	ErrInvalidTestFraction = errors.New("test fraction must be in [0, 1)")
)

// ErrInputFormat reports a malformed or truncated input record.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInputFormat struct {
	Record int
	Line   int
	cause  error
}

func (e *ErrInputFormat) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid input record %d (line %d): %v", e.Record, e.Line, e.cause)
	}
	return fmt.Sprintf("invalid input record %d: %v", e.Record, e.cause)
}

func (e *ErrInputFormat) Unwrap() error { return e.cause }

// ErrDimensionMismatch reports shard arrays of inconsistent lengths.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Shard    string
	Field    string
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("shard %s: dimension mismatch in %s: expected %d, got %d", e.Shard, e.Field, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrChecksumMismatch is returned by verification when a stored shard does
// not match the manifest.
type ErrChecksumMismatch struct {
	Shard    string
	Expected uint32
	Actual   uint32
}

func (e *ErrChecksumMismatch) Error() string {
	return fmt.Sprintf("shard %s: checksum mismatch: expected 0x%08x, got 0x%08x", e.Shard, e.Expected, e.Actual)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var fe *reviews.FormatError
	if errors.As(err, &fe) {
		return &ErrInputFormat{Record: fe.Record, Line: fe.Line, cause: err}
	}

	var dm *shard.DimensionMismatchError
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Shard: dm.Shard, Field: dm.Field, Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	if errors.Is(err, partition.ErrInvalidShardCount) {
		return fmt.Errorf("%w: %w", ErrInvalidShardCount, err)
	}
	if errors.Is(err, split.ErrInvalidFraction) {
		return fmt.Errorf("%w: %w", ErrInvalidTestFraction, err)
	}

	return err
}
