package reviews

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
)

// Record is one review.
type Record struct {
	User string `json:"reviewerID"`
	Item string `json:"asin"`
	Text string `json:"reviewText"`
}

// FormatError reports a malformed or truncated input record.
type FormatError struct {
	// Record is the zero-based index of the offending record.
	Record int
	// Line is the one-based input line.
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("reviews: record %d (line %d): %v", e.Record, e.Line, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

var (
	// ErrMissingUser is returned for a record without a reviewer id.
	ErrMissingUser = errors.New("missing reviewerID")
	// ErrMissingItem is returned for a record without a product id.
	ErrMissingItem = errors.New("missing asin")
)

// Validate checks that the record carries both identifiers.
func (r Record) Validate() error {
	if r.User == "" {
		return ErrMissingUser
	}
	if r.Item == "" {
		return ErrMissingItem
	}
	return nil
}

// Reader decodes records from a possibly compressed stream.
type Reader struct {
	br          *bufio.Reader
	closer      func() error
	compression Compression
	record      int
	line        int
}

// NewReader detects the compression of r and returns a record reader.
func NewReader(r io.Reader) (*Reader, error) {
	dr, c, closer, err := decompress(r)
	if err != nil {
		return nil, &FormatError{Line: 1, Err: fmt.Errorf("open %s stream: %w", c, err)}
	}
	return &Reader{
		br:          bufio.NewReaderSize(dr, 256*1024),
		closer:      closer,
		compression: c,
	}, nil
}

// Compression returns the detected input compression.
func (r *Reader) Compression() Compression {
	return r.compression
}

// Next returns the next record, or io.EOF after the last one.
// Blank lines are skipped.
func (r *Reader) Next() (Record, error) {
	for {
		line, err := r.br.ReadBytes('\n')
		if len(line) == 0 && err == io.EOF {
			return Record{}, io.EOF
		}
		r.line++
		if err != nil && err != io.EOF {
			return Record{}, &FormatError{Record: r.record, Line: r.line, Err: err}
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err == io.EOF {
				return Record{}, io.EOF
			}
			continue
		}

		var rec Record
		if err := gojson.Unmarshal(line, &rec); err != nil {
			return Record{}, &FormatError{Record: r.record, Line: r.line, Err: err}
		}
		if err := rec.Validate(); err != nil {
			return Record{}, &FormatError{Record: r.record, Line: r.line, Err: err}
		}
		r.record++
		return rec, nil
	}
}

// Close releases the decompressor. It does not close the underlying reader.
func (r *Reader) Close() error {
	return r.closer()
}

// ReadAll reads every record from r. ctx is checked between records.
func ReadAll(ctx context.Context, r io.Reader) ([]Record, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	var out []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ReadFile reads every record from the file at path.
func ReadFile(ctx context.Context, path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAll(ctx, f)
}
