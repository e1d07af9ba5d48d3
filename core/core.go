// Package core has the XmR engine: phase segmentation, moving range
// derivation, signal coordination and the entry points that feed it.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/internal/demo"
	"github.com/huangsam/xmr/internal/ingest"
	"github.com/huangsam/xmr/internal/outwriter"
	"github.com/huangsam/xmr/schema"
)

// ExecutorFunc defines the function signature of every CLI entry point.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// stdin is swapped by tests.
var stdin io.Reader = os.Stdin

// ExecuteChart reads the configured input, builds the charts and writes them.
// It serves as the main entry point for the 'chart' command.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	source := sourceName(cfg.InputPath)
	if !shouldSuppressHeader(ctx) {
		logRunHeader(cfg, source)
	}

	batch, err := ingest.Load(cfg.InputPath, stdin, ingestOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	logSkippedRows(batch)

	result := ProcessBatch(ctx, cfg, mgr, source, batch)
	return writeResult(result, cfg, time.Since(start))
}

// ExecuteDemo generates the demo dataset and charts it, or writes the
// generated CSV when cfg.EmitCSV is set.
func ExecuteDemo(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	opts := demo.Options{Seed: cfg.Seed}
	if cfg.EmitCSV {
		return outwriter.NewOutWriter().WriteRaw(demo.CSV(opts), cfg)
	}
	if !shouldSuppressHeader(ctx) {
		logRunHeader(cfg, SourceDemo)
	}

	result := ProcessDemo(ctx, cfg, mgr, cfg.Seed)
	return writeResult(result, cfg, time.Since(start))
}

// ProcessCSV parses CSV text in the requested layout and processes it.
// Header problems come back as an error; row problems become warnings.
func ProcessCSV(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, csvData, filename string, layout schema.InputLayout) (schema.ProcessingResult, error) {
	opts := ingestOptions(cfg)
	opts.Filename = filename
	if layout != "" {
		opts.Layout = layout
	}

	batch, err := ingest.ParseCSV(strings.NewReader(csvData), opts)
	if err != nil {
		return schema.ProcessingResult{}, err
	}
	logSkippedRows(batch)

	source := SourceUpload
	if filename != "" {
		source = SourceUpload + ":" + filename
	}
	return ProcessBatch(ctx, cfg, mgr, source, batch), nil
}

// ProcessDemo charts the demo dataset generated from seed.
func ProcessDemo(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, seed uint64) schema.ProcessingResult {
	records := demo.Generate(demo.Options{Seed: seed})
	return ProcessBatch(ctx, cfg, mgr, SourceDemo, ingest.Batch{Records: records, Layout: schema.LongLayout})
}

// ProcessDir charts every readable file of dir.
func ProcessDir(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, dir string) (schema.ProcessingResult, error) {
	batch, err := ingest.LoadDir(dir, ingestOptions(cfg))
	if err != nil {
		return schema.ProcessingResult{}, err
	}
	logSkippedRows(batch)
	return ProcessBatch(ctx, cfg, mgr, sourceName(dir), batch), nil
}

// writeResult writes result and turns an unsuccessful result into an error
// so the CLI exits non-zero after the report is printed.
func writeResult(result schema.ProcessingResult, cfg *contract.Config, duration time.Duration) error {
	if err := outwriter.NewOutWriter().WriteResult(result, cfg, duration); err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}

// sourceName labels a run by its input.
func sourceName(path string) string {
	if path == "" || path == "-" {
		return SourceStdin
	}
	return filepath.Clean(path)
}

// logSkippedRows reports every skipped row at debug level.
// The text report carries the count, --verbose shows the rows.
func logSkippedRows(batch ingest.Batch) {
	logger := contract.Logger()
	for _, issue := range batch.Skipped {
		logger.Debug("skipping malformed row", zap.Stringer("row", issue))
	}
}

// logRunHeader prints a concise header before text output.
func logRunHeader(cfg *contract.Config, source string) {
	if cfg.Output != "" && cfg.Output != schema.TextOut {
		return
	}
	layout := cfg.Layout
	if layout == "" {
		layout = schema.AutoLayout
	}
	fmt.Printf("🔎 Source: %s (Layout: %s)\n", source, layout)
	fmt.Printf("📐 Baseline: %d points, run rule: %d points\n", cfg.Params.MinBaseline, cfg.Params.RunLength)
}
