// Package partition cuts one tensor mode into k contiguous blocks.
//
// User and item modes are cut by position: the first k-1 blocks hold L/k keys
// and the last block absorbs the remainder. The word mode is cut by weight:
// blocks carry roughly equal shares of the corpus-wide word occurrences, and
// each occurrence boundary is mapped back to the first word id whose cumulative
// count reaches it.
//
// A Plan's ranges are contiguous, never overlap, and cover [0, L) exactly.
// Blocks may be empty when k exceeds the number of keys, or when a single heavy
// word spans several occurrence boundaries.
package partition
