package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Supported reports whether path has an extension LoadFile understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// LoadFile reads one CSV or XLSX file, dispatching on the extension.
func LoadFile(path string, opts Options) (Batch, error) {
	if opts.Filename == "" {
		opts.Filename = filepath.Base(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return Batch{}, err
		}
		defer func() { _ = f.Close() }()
		return ParseCSV(f, opts)
	case ".xlsx":
		return ParseXLSX(path, opts)
	default:
		return Batch{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadDir reads every CSV and XLSX file in dir in name order. Each file takes
// its metric from its own name, so opts.Metric is ignored. A file that cannot
// be read is reported in Skipped and the rest are still loaded.
func LoadDir(dir string, opts Options) (Batch, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Batch{}, err
	}

	var batch Batch
	loaded := 0
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		fileOpts := opts
		fileOpts.Metric = ""
		fileOpts.Filename = e.Name()

		b, err := LoadFile(filepath.Join(dir, e.Name()), fileOpts)
		if err != nil {
			zap.L().Warn("skipping input file", zap.String("file", e.Name()), zap.Error(err))
			batch.Skipped = append(batch.Skipped, RowIssue{File: e.Name(), Reason: err.Error()})
			continue
		}
		loaded++
		batch.Records = append(batch.Records, b.Records...)
		batch.Skipped = append(batch.Skipped, b.Skipped...)
		if batch.Layout == "" {
			batch.Layout = b.Layout
		}
	}
	if loaded == 0 {
		return batch, fmt.Errorf("no readable .csv or .xlsx files in %s", dir)
	}
	return batch, nil
}

// Load reads a file, a directory, or stdin when path is "" or "-".
func Load(path string, stdin io.Reader, opts Options) (Batch, error) {
	if path == "" || path == "-" {
		return ParseCSV(stdin, opts)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Batch{}, err
	}
	if info.IsDir() {
		return LoadDir(path, opts)
	}
	return LoadFile(path, opts)
}
