// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/xmr/schema"
)

// StoreManager hands out the persistence stores used by a run.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetAnalysisStore() AnalysisStore
}

// AnalysisStore defines the interface for tracking processing runs.
// It records audit metadata only and never stores control limits.
type AnalysisStore interface {
	// BeginAnalysis creates a new run and returns its unique ID
	BeginAnalysis(startTime time.Time, source string, configParams map[string]any) (int64, error)

	// RecordChartRun stores the outcome of one (entity, metric) group
	RecordChartRun(analysisID int64, summary schema.ChartRunSummary) error

	// EndAnalysis updates the run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalGroups int) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllChartRuns returns every recorded group outcome
	GetAllChartRuns() ([]schema.ChartRunRecord, error)

	// Close closes the underlying connection
	Close() error
}
