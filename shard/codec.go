package shard

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

var byteOrder = binary.LittleEndian

// Encode writes s in the shard layout and returns the number of bytes written.
func Encode(w io.Writer, s *Shard) (int64, error) {
	h, c, err := Build(s)
	if err != nil {
		return 0, err
	}
	return Write(w, s.Name, h, c)
}

// Write writes a header and its columns. The columns are validated against
// each other and against the header counts before anything is written.
func Write(w io.Writer, name string, h Header, c *Columns) (int64, error) {
	if err := c.Validate(name); err != nil {
		return 0, err
	}
	if int(h.EntryCount) != len(c.Rows) {
		return 0, &DimensionMismatchError{Shard: name, Field: "entry_count", Expected: int(h.EntryCount), Actual: len(c.Rows)}
	}
	if int(h.ValueCount) != len(c.Words) {
		return 0, &DimensionMismatchError{Shard: name, Field: "value_count", Expected: int(h.ValueCount), Actual: len(c.Words)}
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, 64*1024)

	if err := binary.Write(bw, byteOrder, &h); err != nil {
		return cw.n, fmt.Errorf("shard %s: write header: %w", name, err)
	}
	for _, arr := range []struct {
		field string
		data  any
		n     int
	}{
		{"row_indices", c.Rows, len(c.Rows)},
		{"col_indices", c.Cols, len(c.Cols)},
		{"bags", c.Bags, len(c.Bags)},
		{"word_ids", c.Words, len(c.Words)},
		{"values", c.Values, len(c.Values)},
	} {
		if arr.n == 0 {
			continue
		}
		if err := binary.Write(bw, byteOrder, arr.data); err != nil {
			return cw.n, fmt.Errorf("shard %s: write %s: %w", name, arr.field, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("shard %s: flush: %w", name, err)
	}
	return cw.n, nil
}

// Decode reads one shard from r. Arrays grow in chunks as data arrives, so
// a corrupt header cannot allocate more than the stream holds.
func Decode(r io.Reader) (Header, *Columns, error) {
	var h Header
	if err := binary.Read(r, byteOrder, &h); err != nil {
		return Header{}, nil, fmt.Errorf("%w: header: %w", ErrTruncated, err)
	}

	c := &Columns{}
	var err error
	if c.Rows, err = readUint32s(r, h.EntryCount, "row_indices"); err != nil {
		return h, nil, err
	}
	if c.Cols, err = readUint32s(r, h.EntryCount, "col_indices"); err != nil {
		return h, nil, err
	}
	if c.Bags, err = readUint32s(r, h.EntryCount, "bags"); err != nil {
		return h, nil, err
	}
	if c.Words, err = readUint32s(r, h.ValueCount, "word_ids"); err != nil {
		return h, nil, err
	}
	if c.Values, err = readChunked[float32](r, h.ValueCount, "values"); err != nil {
		return h, nil, err
	}

	if err := c.Validate(""); err != nil {
		return h, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return h, c, nil
}

// ReadAt decodes a shard of the given size from r. The header counts are
// checked against size before any array is allocated.
func ReadAt(r io.ReaderAt, size int64) (Header, *Columns, error) {
	if size < HeaderSize {
		return Header{}, nil, fmt.Errorf("%w: %d bytes", ErrTruncated, size)
	}
	var h Header
	if err := binary.Read(io.NewSectionReader(r, 0, HeaderSize), byteOrder, &h); err != nil {
		return Header{}, nil, fmt.Errorf("%w: header: %w", ErrTruncated, err)
	}
	if want := h.EncodedSize(); want != size {
		return h, nil, fmt.Errorf("%w: header implies %d bytes, have %d", ErrTruncated, want, size)
	}
	return Decode(bufio.NewReaderSize(io.NewSectionReader(r, 0, size), 64*1024))
}

// readChunk is the number of elements read per call.
const readChunk = 1 << 16

func readUint32s(r io.Reader, n uint32, field string) ([]uint32, error) {
	return readChunked[uint32](r, n, field)
}

func readChunked[T uint32 | float32](r io.Reader, n uint32, field string) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]T, min(n, readChunk))
	out := make([]T, 0, len(buf))
	for remaining := n; remaining > 0; {
		k := min(remaining, readChunk)
		if err := binary.Read(r, byteOrder, buf[:k]); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTruncated, field, err)
		}
		out = append(out, buf[:k]...)
		remaining -= k
	}
	return out, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
