// Package reviews reads the newline-delimited review records a run is built
// from.
//
// Each line is a JSON object carrying at least the reviewer id, the product
// id, and the review text:
//
//	{"reviewerID": "A2SUAM1J3GNN3B", "asin": "0000013714", "reviewText": "..."}
//
// Input may be plain or compressed with gzip, zstd or lz4; the compression is
// detected from the leading magic bytes. Any malformed or truncated record
// aborts reading with a *FormatError, since every later index depends on
// having seen every record.
package reviews
