// Package parquet provides data structures and functions for exporting xmr
// chart points and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/xmr/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single processing run with metadata.
// This struct maps to the xmr_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// RunUUID is the globally unique identifier assigned at BeginAnalysis
	RunUUID string `parquet:"run_uuid,snappy"`

	// Source names the input of the run (file path, directory, demo, api)
	Source string `parquet:"source,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalGroups is the number of (entity, metric) groups seen in this run
	TotalGroups int32 `parquet:"total_groups,snappy"`

	// ConfigParams contains the JSON-encoded engine parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ChartRun is the audit row of one (entity, metric) group within a run.
// This struct maps to the xmr_chart_runs database table.
type ChartRun struct {
	AnalysisID    int64     `parquet:"analysis_id,snappy"`
	Entity        string    `parquet:"entity,snappy,dict"`
	Metric        string    `parquet:"metric,snappy,dict"`
	RecordedAt    time.Time `parquet:"recorded_at,snappy"`
	PointCount    int32     `parquet:"point_count,snappy"`
	PhaseCount    int32     `parquet:"phase_count,snappy"`
	XSignalCount  int32     `parquet:"x_signal_count,snappy"`
	MRSignalCount int32     `parquet:"mr_signal_count,snappy"`
	Status        string    `parquet:"status,snappy,dict"`
	FailureReason *string   `parquet:"failure_reason,optional,snappy"`
}

// PointRow is one annotated point of an X or mR chart.
// Limit columns are null for points that were never annotated.
type PointRow struct {
	Entity        string   `parquet:"entity,snappy,dict"`
	Metric        string   `parquet:"metric,snappy,dict"`
	Chart         string   `parquet:"chart,snappy,dict"`
	Index         int32    `parquet:"index,snappy"`
	Date          string   `parquet:"date,snappy"`
	Value         float64  `parquet:"value,snappy"`
	PhaseNumber   *int32   `parquet:"phase_number,optional,snappy"`
	CL            *float64 `parquet:"cl,optional,snappy"`
	UCL           *float64 `parquet:"ucl,optional,snappy"`
	LCL           *float64 `parquet:"lcl,optional,snappy"`
	Odds          *float64 `parquet:"odds,optional,snappy"`
	XSignal       bool     `parquet:"x_signal,snappy"`
	MRSignal      bool     `parquet:"mr_signal,snappy"`
	BothSignaling bool     `parquet:"both_signaling,snappy"`
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteChartRunsParquet writes a slice of ChartRun structs to a Parquet file.
func WriteChartRunsParquet(data []ChartRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WritePointRows writes point rows to w as a single Parquet file.
func WritePointRows(w io.Writer, data []PointRow) error {
	return writeRows(w, data)
}

// writeFile creates outputPath and writes all rows into it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// writeRows infers the schema from the struct tags of T.
// The writer must be closed before the file so the footer is flushed.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:    record.AnalysisID,
			RunUUID:       record.RunUUID,
			Source:        record.Source,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalGroups:   record.TotalGroups,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertChartRunRecords converts schema.ChartRunRecord to ChartRun for Parquet export.
func ConvertChartRunRecords(records []schema.ChartRunRecord) []ChartRun {
	result := make([]ChartRun, len(records))
	for i, record := range records {
		result[i] = ChartRun{
			AnalysisID:    record.AnalysisID,
			Entity:        record.Entity,
			Metric:        record.Metric,
			RecordedAt:    record.RecordedAt,
			PointCount:    record.PointCount,
			PhaseCount:    record.PhaseCount,
			XSignalCount:  record.XSignalCount,
			MRSignalCount: record.MRSignalCount,
			Status:        record.Status,
			FailureReason: record.FailureReason,
		}
	}
	return result
}

// ConvertProcessingResult flattens every X and mR chart of result into point rows,
// in group order with the X chart first.
func ConvertProcessingResult(result schema.ProcessingResult) []PointRow {
	var rows []PointRow
	for _, grp := range result.Groups {
		for _, chart := range []*schema.ChartResult{grp.X, grp.MR} {
			if chart == nil {
				continue
			}
			for i, pt := range chart.Points {
				rows = append(rows, pointRow(grp.Entity, string(chart.Kind), i, pt))
			}
		}
	}
	return rows
}

func pointRow(entity, chart string, index int, pt schema.AnnotatedPoint) PointRow {
	row := PointRow{
		Entity: entity,
		Metric: pt.Metric,
		Chart:  chart,
		Index:  int32(index),
		Date:   pt.Date,
		Value:  pt.Value,
	}
	if pt.PointLimits != nil {
		phase := int32(pt.PhaseNumber)
		cl, ucl, lcl, odds := pt.CL, pt.UCL, pt.LCL, pt.Odds
		row.PhaseNumber = &phase
		row.CL, row.UCL, row.LCL, row.Odds = &cl, &ucl, &lcl, &odds
	}
	if pt.SignalFlags != nil {
		row.XSignal = pt.XSignal
		row.MRSignal = pt.MRSignal
		row.BothSignaling = pt.BothSignaling
	}
	return row
}
