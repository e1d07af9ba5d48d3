package schema

import "time"

// ChartRunSummary is the audit row stored per (entity, metric) group of a run.
// It deliberately carries no control limits.
type ChartRunSummary struct {
	Entity        string
	Metric        string
	PointCount    int
	PhaseCount    int
	XSignalCount  int
	MRSignalCount int
	Status        string // Stable, X only, mR only, Both, or Failed
	FailureReason string
}

// AnalysisRunRecord represents a row from the xmr_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID    int64
	RunUUID       string
	Source        string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalGroups   int32
	ConfigParams  *string
}

// ChartRunRecord represents a row from the xmr_chart_runs table.
type ChartRunRecord struct {
	AnalysisID    int64
	Entity        string
	Metric        string
	RecordedAt    time.Time
	PointCount    int32
	PhaseCount    int32
	XSignalCount  int32
	MRSignalCount int32
	Status        string
	FailureReason *string
}
