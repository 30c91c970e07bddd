// Package mmap maps local shard files read-only so they can be decoded in place.
//
// It backs blobstore.LocalStore.Open. Shards are written once and then only
// read by the verification pass, so a shared read-only mapping is sufficient:
//
//	m, err := mmap.Open("_user_train0")
//	if err != nil { ... }
//	defer m.Close()
//	hdr := m.Bytes()[:24]
//
// Empty files are represented by a File with nil Data rather than a zero-length
// mapping, which mmap(2) rejects.
package mmap
