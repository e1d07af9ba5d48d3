// Package ingest turns CSV and XLSX measurement exports into records.
//
// Two layouts are understood. The long layout has one row per observation
// with station, measure, date and value columns. The wide layout is the raw
// per-metric export with timestamp, station and metric_value columns, where
// the metric name comes from the options or the file name.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/xmr/schema"
)

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("CSV must contain headers: station, measure, date, value")

// Options controls how a single input is read.
type Options struct {
	Layout     schema.InputLayout // empty means auto-detect
	Metric     string             // metric name for wide inputs
	Filename   string             // source name, used to derive the metric of wide inputs
	Sheet      string             // XLSX sheet, empty means the first
	StationMap map[string]string  // overrides on top of DefaultStations
}

// RowIssue describes a row that was skipped.
type RowIssue struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (i RowIssue) String() string {
	if i.File != "" {
		return fmt.Sprintf("%s:%d: %s", i.File, i.Line, i.Reason)
	}
	return fmt.Sprintf("line %d: %s", i.Line, i.Reason)
}

// Batch is the outcome of reading one or more inputs.
type Batch struct {
	Records []schema.MeasurementRecord
	Skipped []RowIssue
	Layout  schema.InputLayout
}

// Warnings renders the skipped rows as plain strings.
func (b Batch) Warnings() []string {
	out := make([]string, len(b.Skipped))
	for i, issue := range b.Skipped {
		out[i] = issue.String()
	}
	return out
}

// ParseCSV reads CSV data in either layout. Malformed rows are skipped and
// reported in Batch.Skipped; only header problems fail the whole input.
func ParseCSV(r io.Reader, opts Options) (Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Batch{}, ErrMissingColumns
	}
	if err != nil {
		return Batch{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	p, err := newRowParser(header, opts, true)
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{Layout: p.layout}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				batch.Skipped = append(batch.Skipped, RowIssue{File: opts.Filename, Line: perr.Line, Reason: perr.Err.Error()})
				continue
			}
			return batch, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		p.parse(line, row, &batch)
	}
	return batch, nil
}

// columns holds the header positions of the four fields.
type columns struct {
	entity, metric, date, value int
}

type rowParser struct {
	layout   schema.InputLayout
	cols     columns
	width    int
	strict   bool // reject rows whose width differs from the header
	metric   string
	file     string
	stations StationMap
}

func newRowParser(header []string, opts Options, strict bool) (*rowParser, error) {
	names := normalizeHeader(header)
	layout, err := resolveLayout(opts.Layout, names)
	if err != nil {
		return nil, err
	}

	var cols columns
	switch layout {
	case schema.WideLayout:
		cols, err = findColumns(names, []string{"station", "entity"}, nil, []string{"timestamp", "date"}, []string{"metric_value", "value"})
		if err != nil {
			return nil, fmt.Errorf("%w (wide layout needs timestamp, station, metric_value)", err)
		}
	default:
		cols, err = findColumns(names, []string{"station", "entity"}, []string{"measure", "metric"}, []string{"date"}, []string{"value"})
		if err != nil {
			return nil, err
		}
	}

	return &rowParser{
		layout:   layout,
		cols:     cols,
		width:    len(names),
		strict:   strict,
		metric:   resolveMetric(opts),
		file:     opts.Filename,
		stations: NewStationMap(opts.StationMap),
	}, nil
}

func (p *rowParser) parse(line int, row []string, batch *Batch) {
	skip := func(format string, args ...any) {
		batch.Skipped = append(batch.Skipped, RowIssue{File: p.file, Line: line, Reason: fmt.Sprintf(format, args...)})
	}

	if isBlank(row) {
		return
	}
	if p.strict && len(row) != p.width {
		skip("expected %d fields, got %d", p.width, len(row))
		return
	}
	for len(row) < p.width {
		row = append(row, "")
	}

	entity := strings.TrimSpace(row[p.cols.entity])
	date := strings.TrimSpace(row[p.cols.date])
	raw := strings.TrimSpace(row[p.cols.value])
	metric := p.metric
	if p.layout != schema.WideLayout {
		metric = strings.TrimSpace(row[p.cols.metric])
	}
	if entity == "" || metric == "" || date == "" || raw == "" {
		skip("blank field")
		return
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		skip("invalid value %q", raw)
		return
	}

	batch.Records = append(batch.Records, schema.MeasurementRecord{
		Entity: p.stations.Code(entity),
		Metric: metric,
		Date:   date,
		Value:  value,
	})
}

// resolveLayout picks the layout, detecting it from the header when asked to.
func resolveLayout(requested schema.InputLayout, names []string) (schema.InputLayout, error) {
	switch requested {
	case schema.LongLayout, schema.WideLayout:
		return requested, nil
	case "", schema.AutoLayout:
		if has(names, "timestamp") && has(names, "metric_value") && !has(names, "measure") {
			return schema.WideLayout, nil
		}
		return schema.LongLayout, nil
	default:
		return "", fmt.Errorf("unknown layout %q", requested)
	}
}

// findColumns locates each field by the first alias present in the header.
// A nil alias list means the field is not read from the row.
func findColumns(names []string, entity, metric, date, value []string) (columns, error) {
	cols := columns{metric: -1}
	for _, f := range []struct {
		dst     *int
		aliases []string
	}{
		{&cols.entity, entity},
		{&cols.metric, metric},
		{&cols.date, date},
		{&cols.value, value},
	} {
		if f.aliases == nil {
			continue
		}
		idx := -1
		for _, alias := range f.aliases {
			if idx = indexOf(names, alias); idx >= 0 {
				break
			}
		}
		if idx < 0 {
			return columns{}, ErrMissingColumns
		}
		*f.dst = idx
	}
	return cols, nil
}

func normalizeHeader(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		names[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return names
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func has(names []string, name string) bool {
	return indexOf(names, name) >= 0
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
