package vocab

// TokenCount is the number of occurrences of one token in one document.
type TokenCount struct {
	Token string
	Count uint32
}

// Bag holds the token frequencies of one document in first-occurrence order.
// A token should appear at most once; repeated tokens are summed by consumers.
type Bag []TokenCount

// Len returns the number of distinct tokens in the bag.
func (b Bag) Len() int { return len(b) }

// Total returns the total number of token occurrences in the bag.
func (b Bag) Total() uint64 {
	var n uint64
	for _, tc := range b {
		n += uint64(tc.Count)
	}
	return n
}
