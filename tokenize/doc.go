// Package tokenize turns review texts into token-frequency bags.
//
// The default Simple tokenizer folds case, keeps alphabetic runs, and drops
// stop words. Documents are processed by a bounded pool of workers; the
// output order always matches the input order.
package tokenize
