package shard

import (
	"errors"
	"fmt"
)

// HeaderSize is the encoded size of Header in bytes.
const HeaderSize = 6 * 4

var (
	// ErrOutOfBounds is returned when an entry lies outside the shard's dimensions.
	ErrOutOfBounds = errors.New("entry outside shard dimensions")
	// ErrCorrupt is returned when decoded arrays violate the layout invariants.
	ErrCorrupt = errors.New("corrupt shard")
	// ErrTruncated is returned when the input is shorter than its header claims.
	ErrTruncated = errors.New("truncated shard")
)

// Header is the fixed-size prefix of every shard file.
type Header struct {
	Offset     uint32
	Rows       uint32
	Cols       uint32
	Words      uint32
	EntryCount uint32
	ValueCount uint32
}

// EncodedSize returns the total file size implied by h.
func (h Header) EncodedSize() int64 {
	return HeaderSize + 4*(3*int64(h.EntryCount)+2*int64(h.ValueCount))
}

// Dims are the sizes of a shard's coordinate system along every mode.
type Dims struct {
	Rows  uint32
	Cols  uint32
	Words uint32
}

// DimensionMismatchError reports flat arrays of inconsistent lengths.
type DimensionMismatchError struct {
	Shard    string
	Field    string
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	name := e.Shard
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("shard %s: dimension mismatch in %s: expected %d, got %d", name, e.Field, e.Expected, e.Actual)
}
