package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/internal/parquet"
)

// ErrNoHistory is returned by ExecuteAnalysisExport when nothing has been recorded.
var ErrNoHistory = errors.New("no analysis data found to export")

// ExportPaths returns the two Parquet files written for outputFile.
func ExportPaths(outputFile string) (runsFile, chartsFile string) {
	return outputFile + ".analysis_runs.parquet", outputFile + ".chart_runs.parquet"
}

// ExecuteAnalysisExport exports the run history of store to Parquet files and reports progress to w.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis tracking is disabled; set --analysis-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}

	if status.TotalRuns == 0 {
		return ErrNoHistory
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total chart records: %d\n", status.TableSizes[chartRunsTable])

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}

	chartRuns, err := store.GetAllChartRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve chart runs: %w", err)
	}

	parquetAnalysisRuns := parquet.ConvertAnalysisRunRecords(analysisRuns)
	parquetChartRuns := parquet.ConvertChartRunRecords(chartRuns)

	runsFile, chartsFile := ExportPaths(outputFile)
	if err := parquet.WriteAnalysisRunsParquet(parquetAnalysisRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(parquetAnalysisRuns), runsFile)

	if err := parquet.WriteChartRunsParquet(parquetChartRuns, chartsFile); err != nil {
		return fmt.Errorf("failed to write chart runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d chart records to: %s\n", len(parquetChartRuns), chartsFile)

	return nil
}
