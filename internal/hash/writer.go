package hash

import (
	"hash"
	"io"
)

// ChecksumWriter wraps an io.Writer and computes a running CRC32C checksum
// of everything written through it.
type ChecksumWriter struct {
	w    io.Writer
	hash hash.Hash32
	n    int64
}

// NewChecksumWriter creates a new checksumming writer.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{
		w:    w,
		hash: NewCRC32C(),
	}
}

// Write implements io.Writer. Only bytes accepted by the underlying writer
// are added to the checksum.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 {
		_, _ = cw.hash.Write(p[:n])
		cw.n += int64(n)
	}
	return n, err
}

// Sum returns the current checksum value.
func (cw *ChecksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

// Count returns the number of bytes written.
func (cw *ChecksumWriter) Count() int64 {
	return cw.n
}
