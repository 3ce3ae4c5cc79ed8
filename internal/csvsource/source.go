// Package csvsource reads the CDM activities export one record at a time.
//
// Files are decoded as UTF-8; a leading byte-order mark is dropped so the
// first header name matches exactly.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	xtransform "golang.org/x/text/transform"

	"github.com/vvka-141/cdmload/internal/transform"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// Source yields header-keyed records from a CSV stream.
type Source struct {
	reader *csv.Reader
	closer io.Closer
	header []string
	line   int
}

// Open opens path for reading. Failures wrap cdm.ErrInputFailed.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w: %w", path, cdm.ErrInputFailed, err)
	}
	src, err := newSource(f, f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// New reads from r. The caller keeps ownership of r.
func New(r io.Reader) (*Source, error) {
	return newSource(r, nil)
}

func newSource(r io.Reader, closer io.Closer) (*Source, error) {
	decoded := xtransform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file, no header row: %w", cdm.ErrInputFailed)
		}
		return nil, fmt.Errorf("failed to read header: %w: %w", cdm.ErrInputFailed, err)
	}

	return &Source{
		reader: cr,
		closer: closer,
		header: header,
		line:   1,
	}, nil
}

// Header returns the column names in file order.
func (s *Source) Header() []string {
	return s.header
}

// Line returns the number of the last record line read, counting the header as 1.
func (s *Source) Line() int {
	return s.line
}

// Next returns the next record, or io.EOF after the last one.
// Rows whose field count differs from the header are reported as errors.
func (s *Source) Next() (transform.Record, error) {
	fields, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read record after line %d: %w: %w", s.line, cdm.ErrInputFailed, err)
	}
	s.line, _ = s.reader.FieldPos(0)

	rec := make(transform.Record, len(s.header))
	for i, name := range s.header {
		rec[name] = fields[i]
	}
	return rec, nil
}

// Missing reports which of columns are absent from the header.
func (s *Source) Missing(columns []string) []string {
	present := make(map[string]bool, len(s.header))
	for _, name := range s.header {
		present[name] = true
	}
	var missing []string
	for _, col := range columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// Close closes the underlying file, if Source opened it.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
