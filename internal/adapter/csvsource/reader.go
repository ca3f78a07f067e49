// Package csvsource reads delimited gazetteer text into domain rows.
package csvsource

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/zipcoords-etl/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Reader yields InputRows from delimited text whose first record is the header.
// It implements pipeline.RowReader.
type Reader struct {
	csv    *csv.Reader
	closer io.Closer
	path   string
	header []string
	line   int
}

// Open opens the file at path and reads its header. A missing or unreadable
// file is reported as a *domain.IOError.
func Open(path string, delimiter rune) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.IOError{Op: "open input", Path: path, Err: err}
	}

	r, err := newReader(f, path, delimiter)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header from src. The caller keeps ownership of src.
func NewReader(src io.Reader, delimiter rune) (*Reader, error) {
	return newReader(src, "", delimiter)
}

func newReader(src io.Reader, path string, delimiter rune) (*Reader, error) {
	// A leading byte-order mark selects the decoding and is dropped so it
	// never ends up glued to the first header name. Without one the input is
	// read as UTF-8.
	decoded := transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	r := &Reader{csv: cr, path: path}

	header, err := cr.Read()
	switch {
	case errors.Is(err, io.EOF):
		return r, nil
	case err != nil:
		return nil, &domain.IOError{Op: "read header", Path: path, Err: err}
	}

	r.header = make([]string, len(header))
	for i, name := range header {
		// Census gazetteer headers are padded with trailing spaces.
		r.header[i] = strings.TrimSpace(name)
	}
	r.line, _ = cr.FieldPos(0)
	return r, nil
}

// Header returns the trimmed column names. It is empty for an empty input.
func (r *Reader) Header() []string { return r.header }

// Line returns the input line on which the most recent record started.
func (r *Reader) Line() int { return r.line }

// Next returns the next data row, or io.EOF after the last one. Blank lines
// are skipped. Fields beyond the header are ignored and columns past the end
// of a short row are left out of the map.
func (r *Reader) Next() (domain.InputRow, error) {
	if r.header == nil {
		return nil, io.EOF
	}

	rec, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, &domain.IOError{Op: "read input", Path: r.path, Err: err}
	}
	r.line, _ = r.csv.FieldPos(0)

	row := make(domain.InputRow, len(r.header))
	for i, name := range r.header {
		if i >= len(rec) {
			break
		}
		row[name] = rec[i]
	}
	return row, nil
}

// Close releases the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
