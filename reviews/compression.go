package reviews

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the container format of an input stream.
type Compression uint8

const (
	// None is uncompressed input.
	None Compression = iota
	// Gzip is RFC 1952 input, the format of the public review dumps.
	Gzip
	// Zstd is a zstandard frame.
	Zstd
	// LZ4 is an lz4 frame.
	LZ4
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the name of the compression.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Detect returns the compression indicated by the leading bytes of a stream.
func Detect(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4
	default:
		return None
	}
}

// decompress wraps r in the decompressor matching its magic bytes.
func decompress(r io.Reader) (io.Reader, Compression, func() error, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, None, nil, err
	}

	noop := func() error { return nil }

	switch c := Detect(head); c {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, nil, err
		}
		return zr, c, zr.Close, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, nil, err
		}
		return zr, c, func() error { zr.Close(); return nil }, nil
	case LZ4:
		return lz4.NewReader(br), c, noop, nil
	default:
		return br, c, noop, nil
	}
}
