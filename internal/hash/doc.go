// Package hash provides the CRC32-Castagnoli checksum recorded for every shard
// in the run manifest.
//
// The shard wire format itself carries no checksum, since the downstream parser
// reads a bare header followed by raw arrays. The manifest records the CRC32C of
// each written file so a later verification pass (or a human) can detect
// truncated uploads and bit rot:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
