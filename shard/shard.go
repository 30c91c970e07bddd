package shard

import (
	"fmt"

	"github.com/hupe1980/bagtensor/internal/conv"
	"github.com/hupe1980/bagtensor/tensor"
)

// TestLabel is the label of the shard holding the test set.
const TestLabel = "test"

// Shard is one partition of the tensor along Mode, ready to be encoded.
//
// Offset is the first index of the partitioned mode covered by the shard. User
// and item indices are written as global indices; for word-mode shards word ids
// are written relative to Offset.
//
// A Test shard is not partitioned: it spans the full dimensions at offset 0.
type Shard struct {
	Name    string
	Mode    tensor.Mode
	Test    bool
	Index   int
	Offset  uint32
	Dims    Dims
	Entries tensor.EntrySet
}

// Columns are the five flat arrays of the layout.
type Columns struct {
	Rows   []uint32
	Cols   []uint32
	Bags   []uint32
	Words  []uint32
	Values []float32
}

// Validate checks that the review arrays and the value arrays have matching
// lengths and that the bag boundaries are consistent with them.
func (c *Columns) Validate(name string) error {
	if len(c.Cols) != len(c.Rows) {
		return &DimensionMismatchError{Shard: name, Field: "col_indices", Expected: len(c.Rows), Actual: len(c.Cols)}
	}
	if len(c.Bags) != len(c.Rows) {
		return &DimensionMismatchError{Shard: name, Field: "bags", Expected: len(c.Rows), Actual: len(c.Bags)}
	}
	if len(c.Values) != len(c.Words) {
		return &DimensionMismatchError{Shard: name, Field: "values", Expected: len(c.Words), Actual: len(c.Values)}
	}
	var prev uint32
	for i, b := range c.Bags {
		if b < prev {
			return fmt.Errorf("%w: %s: bag boundary %d decreases (%d < %d)", ErrCorrupt, name, i, b, prev)
		}
		prev = b
	}
	if int(prev) != len(c.Words) {
		return &DimensionMismatchError{Shard: name, Field: "word_ids", Expected: int(prev), Actual: len(c.Words)}
	}
	return nil
}

// Entries converts the columns back into entries. wordBase is added to every
// word id, turning shard-local ids of word-mode shards into global ones.
func (c *Columns) Entries(wordBase uint32) tensor.EntrySet {
	out := make(tensor.EntrySet, 0, len(c.Words))
	var start uint32
	for i, end := range c.Bags {
		for j := start; j < end; j++ {
			out = append(out, tensor.Entry{
				User:  c.Rows[i],
				Item:  c.Cols[i],
				Word:  c.Words[j] + wordBase,
				Count: uint32(c.Values[j]),
			})
		}
		start = end
	}
	return out
}

// Label names the shard's kind in manifests and metrics: the partitioned mode,
// or TestLabel for the test shard.
func (s *Shard) Label() string {
	if s.Test {
		return TestLabel
	}
	return s.Mode.String()
}

// WordBase returns the value subtracted from word ids when s is encoded.
func (s *Shard) WordBase() uint32 {
	if s.Mode == tensor.ModeWord {
		return s.Offset
	}
	return 0
}

// Build sorts the shard's entries and flattens them into columns.
//
// Entries are ordered by (user, item, word). Repeated (user, item, word)
// entries, which arise when a user reviewed the same item twice, are merged by
// summing their counts.
func Build(s *Shard) (Header, *Columns, error) {
	s.Entries.Sort()

	c := &Columns{}
	base := s.WordBase()
	for key, run := range s.Entries.Reviews() {
		if err := s.checkReview(key); err != nil {
			return Header{}, nil, err
		}
		for i, e := range run {
			if e.Word < base || e.Word-base >= s.Dims.Words {
				return Header{}, nil, fmt.Errorf("%w: shard %s: word %d not in [%d, %d)",
					ErrOutOfBounds, s.Name, e.Word, base, uint64(base)+uint64(s.Dims.Words))
			}
			if i > 0 && run[i-1].Word == e.Word {
				c.Values[len(c.Values)-1] += float32(e.Count)
				continue
			}
			c.Words = append(c.Words, e.Word-base)
			c.Values = append(c.Values, float32(e.Count))
		}
		n, err := conv.CountToUint32("bags", len(c.Words))
		if err != nil {
			return Header{}, nil, fmt.Errorf("shard %s: %w", s.Name, err)
		}
		c.Rows = append(c.Rows, key.User)
		c.Cols = append(c.Cols, key.Item)
		c.Bags = append(c.Bags, n)
	}

	if err := c.Validate(s.Name); err != nil {
		return Header{}, nil, err
	}

	entryCount, err := conv.CountToUint32("entry_count", len(c.Rows))
	if err != nil {
		return Header{}, nil, fmt.Errorf("shard %s: %w", s.Name, err)
	}
	valueCount, err := conv.CountToUint32("value_count", len(c.Words))
	if err != nil {
		return Header{}, nil, fmt.Errorf("shard %s: %w", s.Name, err)
	}

	h := Header{
		Offset:     s.Offset,
		Rows:       s.Dims.Rows,
		Cols:       s.Dims.Cols,
		Words:      s.Dims.Words,
		EntryCount: entryCount,
		ValueCount: valueCount,
	}
	return h, c, nil
}

func (s *Shard) checkReview(key tensor.ReviewKey) error {
	userBase, itemBase := uint32(0), uint32(0)
	switch s.Mode {
	case tensor.ModeUser:
		userBase = s.Offset
	case tensor.ModeItem:
		itemBase = s.Offset
	}
	if key.User < userBase || key.User-userBase >= s.Dims.Rows {
		return fmt.Errorf("%w: shard %s: user %d not in [%d, %d)",
			ErrOutOfBounds, s.Name, key.User, userBase, uint64(userBase)+uint64(s.Dims.Rows))
	}
	if key.Item < itemBase || key.Item-itemBase >= s.Dims.Cols {
		return fmt.Errorf("%w: shard %s: item %d not in [%d, %d)",
			ErrOutOfBounds, s.Name, key.Item, itemBase, uint64(itemBase)+uint64(s.Dims.Cols))
	}
	return nil
}
