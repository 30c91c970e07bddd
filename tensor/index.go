package tensor

import (
	"fmt"
	"slices"
)

// EntityIndex maps raw user or item identifiers to dense indices.
// Indices follow the sorted order of the identifiers.
type EntityIndex struct {
	ids   []string
	index map[string]uint32
}

// NewEntityIndex builds an index over the distinct values of ids.
func NewEntityIndex(ids []string) *EntityIndex {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	index := make(map[string]uint32, len(sorted))
	for i, id := range sorted {
		index[id] = uint32(i)
	}
	return &EntityIndex{ids: sorted, index: index}
}

// Len returns the number of distinct identifiers.
func (x *EntityIndex) Len() int { return len(x.ids) }

// Index returns the dense index of id.
func (x *EntityIndex) Index(id string) (uint32, bool) {
	i, ok := x.index[id]
	return i, ok
}

// MustIndex is like Index but panics on unknown identifiers.
func (x *EntityIndex) MustIndex(id string) uint32 {
	i, ok := x.index[id]
	if !ok {
		panic(fmt.Sprintf("tensor: unknown identifier %q", id))
	}
	return i
}

// ID returns the identifier at dense index i.
func (x *EntityIndex) ID(i uint32) string { return x.ids[i] }

// IDs returns a copy of all identifiers in index order.
func (x *EntityIndex) IDs() []string { return slices.Clone(x.ids) }
