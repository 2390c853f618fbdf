// Package csvfile reads the review import file.
//
// The file has a header row naming at least Location, Timestamp and
// ReviewBody; ReviewId is optional. Column order is free and unknown columns
// are ignored. Rows are returned raw; validation happens in the import
// service.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"review_analyzer/internal/domain"
)

const (
	colID        = "ReviewId"
	colLocation  = "Location"
	colTimestamp = "Timestamp"
	colBody      = "ReviewBody"
)

var ErrMissingColumn = errors.New("csvfile: missing required column")

// Open reads every row of the file at path.
func Open(path string) ([]domain.RawReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open review file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a CSV stream. Short rows are returned with empty fields
// rather than failing the whole file.
func Read(r io.Reader) ([]domain.RawReview, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, c := range []string{colLocation, colTimestamp, colBody} {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var out []domain.RawReview
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		out = append(out, domain.RawReview{
			Line:      line,
			ID:        strings.TrimSpace(field(rec, colID)),
			Location:  field(rec, colLocation),
			Timestamp: strings.TrimSpace(field(rec, colTimestamp)),
			Body:      field(rec, colBody),
		})
	}
}
