package vocab

import (
	"cmp"
	"slices"
)

// Cell is one non-zero component of a bag-of-words row.
type Cell struct {
	Word  uint32
	Count uint32
}

// Row is a sparse bag-of-words vector over a Vocabulary, sorted by word id.
type Row []Cell

// Total returns the sum of all counts in the row.
func (r Row) Total() uint64 {
	var n uint64
	for _, c := range r {
		n += uint64(c.Count)
	}
	return n
}

// Encode projects a document's token counts onto the vocabulary.
//
// Tokens outside the vocabulary and zero counts are dropped, so every cell has
// Word in [0, v.Len()) and Count > 0. Repeated tokens are summed.
func (v *Vocabulary) Encode(bag Bag) Row {
	if len(bag) == 0 || v.IsEmpty() {
		return nil
	}

	row := make(Row, 0, len(bag))
	pos := make(map[uint32]int, len(bag))
	for _, tc := range bag {
		if tc.Count == 0 {
			continue
		}
		id, ok := v.ids[tc.Token]
		if !ok {
			continue
		}
		if i, dup := pos[id]; dup {
			row[i].Count += tc.Count
			continue
		}
		pos[id] = len(row)
		row = append(row, Cell{Word: id, Count: tc.Count})
	}

	slices.SortFunc(row, func(a, b Cell) int { return cmp.Compare(a.Word, b.Word) })
	return row
}

// EncodeAll encodes every bag in order.
func (v *Vocabulary) EncodeAll(bags []Bag) []Row {
	rows := make([]Row, len(bags))
	for i, b := range bags {
		rows[i] = v.Encode(b)
	}
	return rows
}
