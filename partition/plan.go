package partition

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidShardCount is returned when k < 1.
	ErrInvalidShardCount = errors.New("shard count must be at least 1")
	// ErrInvalidPlan is returned by Validate for gaps, overlaps, or bad sizes.
	ErrInvalidPlan = errors.New("invalid partition plan")
	// ErrKeyOutOfRange is returned when an entry's key lies outside the plan.
	ErrKeyOutOfRange = errors.New("key outside partition plan")
)

// Range is the half-open key interval [Offset, Offset+Size).
type Range struct {
	Offset int
	Size   int
}

// End returns the first key after the range.
func (r Range) End() int { return r.Offset + r.Size }

// Contains reports whether key lies in the range.
func (r Range) Contains(key uint32) bool {
	k := int(key)
	return k >= r.Offset && k < r.End()
}

// Plan is an ordered sequence of contiguous ranges.
type Plan []Range

// Length returns the total number of keys covered.
func (p Plan) Length() int {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].End()
}

// Sizes returns the size of every block in order.
func (p Plan) Sizes() []int {
	sizes := make([]int, len(p))
	for i, r := range p {
		sizes[i] = r.Size
	}
	return sizes
}

// Validate checks that p covers [0, length) exactly once without gaps.
func (p Plan) Validate(length int) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: no blocks", ErrInvalidPlan)
	}
	next := 0
	for i, r := range p {
		if r.Size < 0 {
			return fmt.Errorf("%w: block %d has negative size %d", ErrInvalidPlan, i, r.Size)
		}
		if r.Offset != next {
			return fmt.Errorf("%w: block %d starts at %d, want %d", ErrInvalidPlan, i, r.Offset, next)
		}
		next = r.End()
	}
	if next != length {
		return fmt.Errorf("%w: blocks cover %d keys, want %d", ErrInvalidPlan, next, length)
	}
	return nil
}

// Locate returns the index of the block containing key.
func (p Plan) Locate(key uint32) (int, bool) {
	i := sort.Search(len(p), func(i int) bool { return p[i].End() > int(key) })
	if i == len(p) {
		return 0, false
	}
	return i, true
}
