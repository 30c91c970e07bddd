// Package manifest writes and reads the two JSON documents that accompany
// the shard files of a run.
//
// meta.txt is consumed by the downstream factorization job. It is a two
// element array: summary counts followed by the vocabulary in word-id order.
//
//	[{"users":3,"products":4,"words":2,"train":4,"test":1},{"vocab":["good","book"]}]
//
// manifest.json is an inventory of every shard written by a run with its
// dimensions, size and CRC32C checksum, used to verify outputs.
package manifest
