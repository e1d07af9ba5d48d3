// Package schema has the models and enums shared by every part of xmr.
package schema

// MeasurementRecord is one parsed observation. Date is the raw timestamp
// text and is only used for ordering.
type MeasurementRecord struct {
	Entity string  `json:"entity"`
	Metric string  `json:"metric"`
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
}

// Phase is a contiguous index range of a chart sharing one set of limits.
// EndIndex is inclusive.
type Phase struct {
	StartIndex  int     `json:"startIndex"`
	EndIndex    int     `json:"endIndex"`
	CL          float64 `json:"cl"`
	UCL         float64 `json:"ucl"`
	LCL         float64 `json:"lcl"`
	PhaseNumber int     `json:"phaseNumber"`
}

// Len returns the number of points covered by the phase.
func (p Phase) Len() int {
	return p.EndIndex - p.StartIndex + 1
}

// PointLimits holds the limits of the phase a point falls in, plus its rarity.
type PointLimits struct {
	CL          float64 `json:"cl"`
	UCL         float64 `json:"ucl"`
	LCL         float64 `json:"lcl"`
	Odds        float64 `json:"odds"`
	PhaseNumber int     `json:"phaseNumber"`
}

// SignalFlags classifies a point after X and mR charts are coordinated.
type SignalFlags struct {
	XSignal       bool `json:"x_signal"`
	MRSignal      bool `json:"mr_signal"`
	BothSignaling bool `json:"both_signaling"`
	XOnlySignal   bool `json:"x_only_signal"`
	MROnlySignal  bool `json:"mr_only_signal"`
}

// AnnotatedPoint is a MeasurementRecord extended with phase limits and signal flags.
// A nil PointLimits means the point was not annotated.
type AnnotatedPoint struct {
	MeasurementRecord
	*PointLimits
	*SignalFlags
}

// Annotated reports whether the point carries phase limits.
func (p AnnotatedPoint) Annotated() bool {
	return p.PointLimits != nil
}

// OutsideLimits reports whether the point value falls outside [LCL, UCL].
// Unannotated points are never outside.
func (p AnnotatedPoint) OutsideLimits() bool {
	if p.PointLimits == nil {
		return false
	}
	return p.Value > p.UCL || p.Value < p.LCL
}

// SignalSummary is the chart-level result of XmR coordination.
type SignalSummary struct {
	XSignalCount      int  `json:"xSignalCount"`
	MRSignalCount     int  `json:"mrSignalCount"`
	PhaseSynchronized bool `json:"phaseSynchronized"`
	BothSignaling     bool `json:"bothSignaling"`
	XOnly             bool `json:"xOnly"`
	MROnly            bool `json:"mrOnly"`
	Stable            bool `json:"stable"`
}

// Status returns a short human label for the summary.
func (s SignalSummary) Status() string {
	switch {
	case s.BothSignaling:
		return "Both"
	case s.XOnly:
		return "X only"
	case s.MROnly:
		return "mR only"
	default:
		return "Stable"
	}
}

// ChartResult is an annotated X or mR chart.
type ChartResult struct {
	Kind    ChartKind        `json:"kind"`
	Points  []AnnotatedPoint `json:"points"`
	Phases  []Phase          `json:"phases"`
	Signals *SignalSummary   `json:"signals,omitempty"`
}

// DistributionResult is a binned histogram with a fitted normal overlay.
type DistributionResult struct {
	Bins        []float64 `json:"bins"`
	Frequencies []float64 `json:"frequencies"`
	NormalCurve []float64 `json:"normalCurve"`
	BinWidth    float64   `json:"binWidth"`
	Mean        float64   `json:"mean"`
	StdDev      float64   `json:"stdDev"`
	Count       int       `json:"count"`
}

// ChartPayload carries exactly one of ChartResult or DistributionResult.
// Both embed as pointers so the payload encodes as a flat JSON object.
type ChartPayload struct {
	*ChartResult
	*DistributionResult
}

// GroupResult holds every chart computed for one (entity, metric) pair.
type GroupResult struct {
	Entity       string
	Metric       string
	X            *ChartResult
	MR           *ChartResult
	Distribution *DistributionResult
}

// GroupFailure reports why one (entity, metric) pair produced no charts.
type GroupFailure struct {
	Entity string `json:"entity"`
	Metric string `json:"metric"`
	Reason string `json:"reason"`
}

// ProcessingResult is the full output of one processing call.
type ProcessingResult struct {
	Success   bool                               `json:"success"`
	Error     string                             `json:"error,omitempty"`
	ChartData map[string]map[string]ChartPayload `json:"chartData,omitempty"`
	Entities  []string                           `json:"entities,omitempty"`
	Failures  []GroupFailure                     `json:"failures,omitempty"`
	Warnings  []string                           `json:"warnings,omitempty"`

	// Groups keeps per-group results in first-seen order for writers.
	Groups []GroupResult `json:"-"`
}

// Failed builds an unsuccessful ProcessingResult with a human-readable reason.
func Failed(reason string) ProcessingResult {
	return ProcessingResult{Success: false, Error: reason}
}
