package vocab

import (
	"cmp"
	"slices"
)

// Vocabulary is the ordered, immutable set of words retained for a run.
//
// Word ids are dense in [0, Len()). Id 0 is the most frequent word; ties in
// total count are ordered by first occurrence in the corpus.
type Vocabulary struct {
	words  []string
	counts []uint64
	ids    map[string]uint32
}

// Reduce aggregates token counts across all documents and keeps every word
// whose total count strictly exceeds threshold.
//
// The empty token is always dropped; tokenizers emit it for empty documents.
// A threshold that removes every word yields an empty, but valid, vocabulary.
func Reduce(bags []Bag, threshold int64) *Vocabulary {
	totals := make(map[string]uint64)
	var order []string

	for _, bag := range bags {
		for _, tc := range bag {
			if tc.Token == "" || tc.Count == 0 {
				continue
			}
			if _, seen := totals[tc.Token]; !seen {
				order = append(order, tc.Token)
			}
			totals[tc.Token] += uint64(tc.Count)
		}
	}

	kept := make([]string, 0, len(order))
	for _, w := range order {
		if threshold < 0 || totals[w] > uint64(threshold) {
			kept = append(kept, w)
		}
	}

	// Stable sort keeps first-seen order among equal counts.
	slices.SortStableFunc(kept, func(a, b string) int {
		return cmp.Compare(totals[b], totals[a])
	})

	counts := make([]uint64, len(kept))
	for i, w := range kept {
		counts[i] = totals[w]
	}

	return newVocabulary(kept, counts)
}

// New builds a vocabulary from words already in id order.
// Duplicate words keep their first id.
func New(words []string, counts []uint64) *Vocabulary {
	w := slices.Clone(words)
	c := make([]uint64, len(w))
	copy(c, counts)
	return newVocabulary(w, c)
}

func newVocabulary(words []string, counts []uint64) *Vocabulary {
	ids := make(map[string]uint32, len(words))
	for i, w := range words {
		if _, ok := ids[w]; !ok {
			ids[w] = uint32(i)
		}
	}
	return &Vocabulary{words: words, counts: counts, ids: ids}
}

// Len returns the number of words.
func (v *Vocabulary) Len() int { return len(v.words) }

// IsEmpty reports whether the threshold eliminated every word.
func (v *Vocabulary) IsEmpty() bool { return len(v.words) == 0 }

// ID returns the id of word.
func (v *Vocabulary) ID(word string) (uint32, bool) {
	id, ok := v.ids[word]
	return id, ok
}

// Word returns the word with the given id.
func (v *Vocabulary) Word(id uint32) string { return v.words[id] }

// Count returns the corpus-wide count of the word with the given id.
func (v *Vocabulary) Count(id uint32) uint64 { return v.counts[id] }

// Words returns a copy of all words in id order.
func (v *Vocabulary) Words() []string { return slices.Clone(v.words) }

// Counts returns a copy of the corpus-wide counts in id order.
// The word partitioner balances shards by these weights.
func (v *Vocabulary) Counts() []uint64 { return slices.Clone(v.counts) }

// Total returns the sum of all word counts.
func (v *Vocabulary) Total() uint64 {
	var n uint64
	for _, c := range v.counts {
		n += c
	}
	return n
}
