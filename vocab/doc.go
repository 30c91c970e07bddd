// Package vocab builds the global word vocabulary of a corpus and projects
// per-document token frequencies onto it.
//
// The input of both steps is a Bag: the token frequencies of a single
// document in order of first occurrence, as produced by an external tokenizer
// (see package tokenize). Keeping the order explicit, instead of using a Go map,
// is what makes vocabulary ids reproducible: ties in total frequency are broken
// by the position at which a word was first seen in the corpus.
//
//	v := vocab.Reduce(bags, 10)
//	row := v.Encode(bags[0])
package vocab
