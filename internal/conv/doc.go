// Package conv provides checked integer conversions for the fixed-width fields
// of the shard wire format.
//
// Every header field and array element of a shard is an unsigned 32-bit
// integer, while in-memory counts are Go ints. Converting through this package
// turns a silent truncation into an error naming the offending field.
package conv
