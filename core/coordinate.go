package core

import (
	"slices"

	"github.com/huangsam/xmr/schema"
)

// Coordinate cross-references an individuals chart with its moving range chart.
//
// Point i of the X chart is paired with point i of the mR chart. Both points of
// a pair receive the same SignalFlags. X points without an mR partner only
// report their own limit violation. The returned charts are copies carrying
// the summary; the arguments are left untouched.
func Coordinate(x, mr schema.ChartResult) (schema.ChartResult, schema.ChartResult, schema.SignalSummary) {
	xCount := max(0, len(x.Phases)-1)
	mrCount := max(0, len(mr.Phases)-1)
	summary := schema.SignalSummary{
		XSignalCount:      xCount,
		MRSignalCount:     mrCount,
		PhaseSynchronized: xCount == mrCount,
		BothSignaling:     xCount > 0 && mrCount > 0,
		XOnly:             xCount > 0 && mrCount == 0,
		MROnly:            mrCount > 0 && xCount == 0,
		Stable:            xCount == 0 && mrCount == 0,
	}

	xOut := cloneChart(x)
	mrOut := cloneChart(mr)

	shared := min(len(xOut.Points), len(mrOut.Points))
	for i := range xOut.Points {
		xs := xOut.Points[i].OutsideLimits()
		ms := i < shared && mrOut.Points[i].OutsideLimits()
		flags := signalFlags(xs, ms)
		xOut.Points[i].SignalFlags = &flags
		if i < shared {
			mrFlags := flags
			mrOut.Points[i].SignalFlags = &mrFlags
		}
	}
	for i := shared; i < len(mrOut.Points); i++ {
		flags := signalFlags(false, mrOut.Points[i].OutsideLimits())
		mrOut.Points[i].SignalFlags = &flags
	}

	xSummary, mrSummary := summary, summary
	xOut.Signals = &xSummary
	mrOut.Signals = &mrSummary
	return xOut, mrOut, summary
}

func signalFlags(xs, ms bool) schema.SignalFlags {
	return schema.SignalFlags{
		XSignal:       xs,
		MRSignal:      ms,
		BothSignaling: xs && ms,
		XOnlySignal:   xs && !ms,
		MROnlySignal:  ms && !xs,
	}
}

// cloneChart copies the point and phase slices. PointLimits stay shared since
// they are never written after segmentation.
func cloneChart(c schema.ChartResult) schema.ChartResult {
	out := schema.ChartResult{
		Kind:   c.Kind,
		Points: slices.Clone(c.Points),
		Phases: slices.Clone(c.Phases),
	}
	if out.Points == nil {
		out.Points = []schema.AnnotatedPoint{}
	}
	if out.Phases == nil {
		out.Phases = []schema.Phase{}
	}
	return out
}
