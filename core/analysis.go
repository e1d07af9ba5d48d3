package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/internal/ingest"
	"github.com/huangsam/xmr/schema"
)

// Run sources recorded in the run history.
const (
	SourceDemo   = "demo"
	SourceStdin  = "stdin"
	SourceUpload = "upload"
)

// processOptions builds the engine options from a validated config.
func processOptions(cfg *contract.Config) ProcessOptions {
	opts := DefaultProcessOptions()
	if cfg.Params.MinBaseline > 0 {
		opts.Params = cfg.Params
	}
	if cfg.Workers > 0 {
		opts.Workers = cfg.Workers
	}
	opts.Logger = contract.Logger()
	return opts
}

// ingestOptions builds the reader options from a validated config.
func ingestOptions(cfg *contract.Config) ingest.Options {
	return ingest.Options{
		Layout:     cfg.Layout,
		Metric:     cfg.Metric,
		Sheet:      cfg.Sheet,
		StationMap: cfg.StationMap,
	}
}

// ProcessBatch runs Process over an ingested batch and records the run in the
// history store when tracking is enabled. Rows skipped while reading are
// reported ahead of the engine warnings.
func ProcessBatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, source string, batch ingest.Batch) schema.ProcessingResult {
	result := runTracked(ctx, cfg, mgr, source, batch.Records)
	if len(batch.Skipped) > 0 {
		result.Warnings = append(batch.Warnings(), result.Warnings...)
	}
	return result
}

// runTracked wraps Process with Begin/Record/End calls on the analysis store.
// Tracking failures are logged and never change the result.
func runTracked(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, source string, records []schema.MeasurementRecord) schema.ProcessingResult {
	ctx = contextWithStoreManager(ctx, mgr)

	// --- 0. Begin Analysis Tracking (if configured) ---
	var analysisID int64
	var analysisStore contract.AnalysisStore
	if mgr != nil {
		analysisStore = mgr.GetAnalysisStore()
	}
	if analysisStore != nil {
		configParams := map[string]any{
			"min_baseline": cfg.Params.MinBaseline,
			"run_length":   cfg.Params.RunLength,
			"bins":         cfg.Params.Bins,
			"layout":       string(cfg.Layout),
			"workers":      cfg.Workers,
			"records":      len(records),
		}
		var err error
		analysisID, err = analysisStore.BeginAnalysis(time.Now(), source, configParams)
		if err != nil {
			contract.LogWarn("Analysis tracking initialization failed", err)
		} else if analysisID > 0 {
			ctx = withAnalysisID(ctx, analysisID)
		}
	}

	// --- 1. Core Processing ---
	result := Process(ctx, records, processOptions(cfg))

	// --- 2. Record per-group outcomes and end tracking ---
	if analysisStore != nil && analysisID > 0 {
		recordChartRuns(ctx, result)
		total := len(result.Groups) + len(result.Failures)
		if err := analysisStore.EndAnalysis(analysisID, time.Now(), total); err != nil {
			contract.LogWarn("Failed to finalize analysis tracking", err)
		}
	}
	return result
}

// recordChartRuns stores one audit row per group of result.
func recordChartRuns(ctx context.Context, result schema.ProcessingResult) {
	mgr := storeManagerFromContext(ctx)
	analysisID := analysisIDFromContext(ctx)
	if mgr == nil || analysisID == 0 {
		return
	}
	analysisStore := mgr.GetAnalysisStore()
	if analysisStore == nil {
		return
	}

	for _, summary := range ChartRunSummaries(result) {
		if err := analysisStore.RecordChartRun(analysisID, summary); err != nil {
			logTrackingError("RecordChartRun", summary.Entity, summary.Metric, err)
		}
	}
}

// ChartRunSummaries flattens a result into audit rows: successful groups first
// in result order, then failures. Control limits are not part of a summary.
func ChartRunSummaries(result schema.ProcessingResult) []schema.ChartRunSummary {
	out := make([]schema.ChartRunSummary, 0, len(result.Groups)+len(result.Failures))
	for _, grp := range result.Groups {
		summary := schema.ChartRunSummary{
			Entity: grp.Entity,
			Metric: grp.Metric,
			Status: contract.StableValue,
		}
		if grp.X != nil {
			summary.PointCount = len(grp.X.Points)
			summary.PhaseCount = len(grp.X.Phases)
			if s := grp.X.Signals; s != nil {
				summary.XSignalCount = s.XSignalCount
				summary.MRSignalCount = s.MRSignalCount
				summary.Status = s.Status()
			}
		}
		out = append(out, summary)
	}
	for _, f := range result.Failures {
		out = append(out, schema.ChartRunSummary{
			Entity:        f.Entity,
			Metric:        f.Metric,
			Status:        contract.FailedValue,
			FailureReason: f.Reason,
		})
	}
	return out
}

// logTrackingError logs database tracking errors without disrupting processing.
func logTrackingError(operation, entity, metric string, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s on %s/%s", operation, entity, metric), err)
}
