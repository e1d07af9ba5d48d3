package core

import (
	"github.com/huangsam/xmr/core/algo"
	"github.com/huangsam/xmr/schema"
)

// SegmentPhases splits a time-sorted series into phases and annotates every
// point with the limits of the phase it falls in.
//
// Each phase starts with a baseline of up to MinBaseline points. Limits from
// the baseline are used to scan the rest of the series for a signal, and the
// final limits are recomputed over the whole phase once its end is known.
// Series shorter than two points are returned unannotated with no phases.
// The input slice is never modified.
func SegmentPhases(points []schema.AnnotatedPoint, p algo.Params) ([]schema.AnnotatedPoint, []schema.Phase) {
	n := len(points)
	out := make([]schema.AnnotatedPoint, n)
	for i, pt := range points {
		out[i] = schema.AnnotatedPoint{MeasurementRecord: pt.MeasurementRecord}
	}
	if n < 2 {
		return out, []schema.Phase{}
	}

	values := pointValues(points)
	phases := make([]schema.Phase, 0, 1+n/max(p.MinBaseline, 1))

	for start, number := 0, 1; start < n; number++ {
		baselineEnd := min(start+p.MinBaseline, n)
		cl, mrBar := algo.ComputeLimits(values[start:baselineEnd])
		ucl, lcl := algo.NaturalLimits(cl, mrBar, p)

		// An empty remainder yields offset 0, which would point one past the end.
		offset := algo.FindSignalIndex(values[baselineEnd:], cl, ucl, lcl, p.RunLength)
		end := min(baselineEnd+offset, n-1)

		cl, mrBar = algo.ComputeLimits(values[start : end+1])
		ucl, lcl = algo.NaturalLimits(cl, mrBar, p)
		sigma := p.SigmaFromMovingRange(mrBar)

		phase := schema.Phase{
			StartIndex:  start,
			EndIndex:    end,
			CL:          p.Round(cl),
			UCL:         p.Round(ucl),
			LCL:         p.Round(lcl),
			PhaseNumber: number,
		}
		phases = append(phases, phase)

		for i := start; i <= end; i++ {
			out[i].PointLimits = &schema.PointLimits{
				CL:          phase.CL,
				UCL:         phase.UCL,
				LCL:         phase.LCL,
				Odds:        algo.RarityOdds(values[i], cl, sigma, p),
				PhaseNumber: number,
			}
		}
		start = end + 1
	}
	return out, phases
}

func pointValues(points []schema.AnnotatedPoint) []float64 {
	values := make([]float64, len(points))
	for i, pt := range points {
		values[i] = pt.Value
	}
	return values
}
