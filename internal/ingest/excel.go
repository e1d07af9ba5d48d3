package ingest

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook, or opts.Sheet when set,
// through the same row rules as ParseCSV.
func ParseXLSX(path string, opts Options) (Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if opts.Filename == "" {
		opts.Filename = filepath.Base(path)
	}
	return readWorkbook(f, opts)
}

func readWorkbook(f *excelize.File, opts Options) (Batch, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Batch{}, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Batch{}, ErrMissingColumns
	}

	// Trailing empty cells are trimmed by excelize, so rows are padded rather
	// than rejected for being short.
	p, err := newRowParser(rows[0], opts, false)
	if err != nil {
		return Batch{}, err
	}
	batch := Batch{Layout: p.layout}
	for i, row := range rows[1:] {
		p.parse(i+2, row, &batch)
	}
	return batch, nil
}
