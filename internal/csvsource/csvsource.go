// Package csvsource reads delimited source files into the tabular model.
//
// Two entry points cover the two passes the loader makes: ReadHeader opens
// the file and returns only the first record (table creation needs nothing
// else), and Read materializes the whole file as a dataset.Dataset. Both run
// the raw bytes through the decoder selected by Options.Encoding before any
// CSV parsing happens, so non-UTF-8 sources and BOM-prefixed UTF-8 behave the
// same as they would in a spreadsheet import.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bttex/bq-cli/internal/dataset"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "﻿"

// Options controls how a source file is opened and parsed.
type Options struct {
	// Comma is the field separator. The zero value means ';'.
	Comma rune
	// Encoding names the source text encoding, e.g. "utf-8-sig" or
	// "latin-1". Empty means plain UTF-8.
	Encoding string
}

func (o Options) comma() rune {
	if o.Comma == 0 {
		return ';'
	}
	return o.Comma
}

// ReadHeader returns the ordered column names from the file's first record.
//
// It fails on I/O errors, decoder errors, an empty file, an empty header
// cell, and duplicate header names. The data rows are never touched.
func ReadHeader(path string, opt Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr, err := newReader(f, opt)
	if err != nil {
		return nil, err
	}
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header of %s: file is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	return normalizeHeader(header)
}

// Read materializes the whole file: the first record becomes the column set,
// every following record becomes a Row keyed by column name. Empty cells are
// stored as the null marker. Rows shorter than the header leave the trailing
// columns absent; longer rows fail the read.
func Read(path string, opt Options) (dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr, err := newReader(f, opt)
	if err != nil {
		return dataset.Dataset{}, err
	}
	header, err := cr.Read()
	if err == io.EOF {
		return dataset.Dataset{}, fmt.Errorf("read header of %s: file is empty", path)
	}
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("read header of %s: %w", path, err)
	}
	columns, err := normalizeHeader(header)
	if err != nil {
		return dataset.Dataset{}, err
	}

	ds := dataset.Dataset{Columns: columns}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dataset.Dataset{}, fmt.Errorf("read %s line %d: %w", path, line, err)
		}
		if len(rec) > len(columns) {
			return dataset.Dataset{}, fmt.Errorf("read %s line %d: %d fields, header has %d", path, line, len(rec), len(columns))
		}
		row := make(dataset.Row, len(columns))
		for i, cell := range rec {
			row[columns[i]] = emptyToNil(cell)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// newReader builds a csv.Reader over the decoded byte stream.
func newReader(f io.Reader, opt Options) (*csv.Reader, error) {
	r, err := decodeReader(f, opt.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.Comma = opt.comma()
	// Width is enforced against the header after reading.
	cr.FieldsPerRecord = -1
	return cr, nil
}

// normalizeHeader strips a surviving BOM from the first cell and rejects
// headers the rest of the pipeline cannot represent.
func normalizeHeader(header []string) ([]string, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	seen := make(map[string]struct{}, len(header))
	for i, c := range header {
		if c == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate header column %q", c)
		}
		seen[c] = struct{}{}
	}
	if len(header) == 0 {
		return nil, errors.New("header has no columns")
	}
	return header, nil
}

// emptyToNil converts an empty cell to the null marker; all other values are
// returned as-is.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
