// Package tensor holds the sparse user × item × word tensor built from encoded
// reviews.
//
// Users and items are identified by opaque strings in the input. An EntityIndex
// assigns each distinct identifier a dense index in sorted identifier order, and
// the Assembler expands every review's bag-of-words row into one Entry per
// word. An EntrySet is a plain slice; stages hand it on rather than share it.
package tensor
