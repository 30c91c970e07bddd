package tensor

import (
	"cmp"
	"iter"
	"slices"
)

// Entry is one non-zero cell of the tensor contributed by one review.
type Entry struct {
	User  uint32
	Item  uint32
	Word  uint32
	Count uint32
}

// ReviewKey identifies a review by its dense (user, item) coordinates.
type ReviewKey struct {
	User uint32
	Item uint32
}

// Key returns the (user, item) coordinates of e.
func (e Entry) Key() ReviewKey { return ReviewKey{User: e.User, Item: e.Item} }

// Compare orders review keys by user, then item.
func (k ReviewKey) Compare(o ReviewKey) int {
	if c := cmp.Compare(k.User, o.User); c != 0 {
		return c
	}
	return cmp.Compare(k.Item, o.Item)
}

// CompareEntries orders entries by (user, item, word).
func CompareEntries(a, b Entry) int {
	if c := a.Key().Compare(b.Key()); c != 0 {
		return c
	}
	return cmp.Compare(a.Word, b.Word)
}

// EntrySet is an unordered collection of entries.
type EntrySet []Entry

// Len returns the number of entries.
func (s EntrySet) Len() int { return len(s) }

// Sort orders the set in place by (user, item, word).
func (s EntrySet) Sort() {
	slices.SortFunc(s, CompareEntries)
}

// Clone returns a copy of the set.
func (s EntrySet) Clone() EntrySet { return slices.Clone(s) }

// Filter returns the entries for which keep reports true, in order.
func (s EntrySet) Filter(keep func(Entry) bool) EntrySet {
	var out EntrySet
	for _, e := range s {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Reviews yields maximal runs of entries sharing a (user, item) key.
// The set must already be sorted; see Sort.
func (s EntrySet) Reviews() iter.Seq2[ReviewKey, EntrySet] {
	return func(yield func(ReviewKey, EntrySet) bool) {
		for start := 0; start < len(s); {
			key := s[start].Key()
			end := start + 1
			for end < len(s) && s[end].Key() == key {
				end++
			}
			if !yield(key, s[start:end:end]) {
				return
			}
			start = end
		}
	}
}

// CountReviews returns the number of distinct (user, item) keys.
func (s EntrySet) CountReviews() int {
	seen := make(map[ReviewKey]struct{})
	for _, e := range s {
		seen[e.Key()] = struct{}{}
	}
	return len(seen)
}
