// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes scraped records to a CSV file and reads them back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pdiddy/quote-scraper/pkg/types"
)

// ErrNoRecords is returned by Save when there is nothing to write. The
// destination is left untouched.
var ErrNoRecords = errors.New("no records to save")

// WriteError reports a filesystem failure while saving.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Save overwrites path with a header row followed by one row per record.
// Rows are written to a temporary file in the same directory and renamed over
// path on success, so a failed save never leaves a partial file behind.
func Save(path string, records []types.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if err := writeRecords(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeRecords(f *os.File, records []types.Record) error {
	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write(types.CSVHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range records {
		if err := w.Write(r.Row()); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	w.Flush()
	return w.Error()
}

// Load reads a file produced by Save. The header row must match
// types.CSVHeader exactly.
func Load(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(types.CSVHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parsing %s: missing header row", path)
	}
	if !slices.Equal(rows[0], types.CSVHeader) {
		return nil, fmt.Errorf("parsing %s: unexpected header %q", path, rows[0])
	}

	records := make([]types.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, types.Record{Quote: row[0], Author: row[1], Tags: row[2]})
	}
	return records, nil
}
