// Package shard encodes tensor partitions into the binary layout read by the
// distributed factorization job, and decodes them back.
//
// # File layout
//
// All fields are little-endian and 4 bytes wide:
//
//	Header      6 × uint32   offset, n_rows, n_cols, n_words, entry_count, value_count
//	row_indices entry_count × uint32   user index per review, sorted by (user, item)
//	col_indices entry_count × uint32   item index per review
//	bags        entry_count × uint32   cumulative value count up to and including the review
//	word_ids    value_count × uint32   word id, local to the shard's word offset
//	values      value_count × float32  occurrence counts
//
// entry_count is the number of distinct (user, item) reviews in the shard and
// value_count the number of (word, value) pairs across them. An empty shard is
// just the header.
//
// Dimensions are always supplied by the caller. They cannot be inferred from an
// empty shard, and inferring them from a non-empty one would silently shrink
// the coordinate system of a sparse block.
package shard
