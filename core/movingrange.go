package core

import (
	"math"

	"github.com/huangsam/xmr/core/algo"
	"github.com/huangsam/xmr/schema"
)

// DeriveMovingRange builds the moving range series of an individuals series.
// Point i holds |x[i+1] - x[i]| and takes its entity and date from the later
// point. The result has len(x)-1 points, or none when x has fewer than two.
func DeriveMovingRange(x []schema.AnnotatedPoint) []schema.AnnotatedPoint {
	if len(x) < 2 {
		return []schema.AnnotatedPoint{}
	}
	mr := make([]schema.AnnotatedPoint, len(x)-1)
	for i := 1; i < len(x); i++ {
		mr[i-1] = schema.AnnotatedPoint{
			MeasurementRecord: schema.MeasurementRecord{
				Entity: x[i].Entity,
				Metric: schema.MovingRangeLabel(x[i].Metric),
				Date:   x[i].Date,
				Value:  math.Abs(x[i].Value - x[i-1].Value),
			},
		}
	}
	return mr
}

// ApplyXPhasesToMR reuses the individuals chart phase boundaries on the moving
// range chart instead of detecting phases on it independently.
//
// X phase [s, e] maps to moving range indices [max(0, s-1), e-1], clamped to
// the chart. Ranges that end up empty are skipped. The moving range phase keeps
// the X phase number, so numbers may skip but never reorder.
func ApplyXPhasesToMR(mr []schema.AnnotatedPoint, xPhases []schema.Phase, p algo.Params) ([]schema.AnnotatedPoint, []schema.Phase) {
	out := make([]schema.AnnotatedPoint, len(mr))
	for i, pt := range mr {
		out[i] = schema.AnnotatedPoint{MeasurementRecord: pt.MeasurementRecord}
	}
	phases := make([]schema.Phase, 0, len(xPhases))
	if len(mr) == 0 {
		return out, phases
	}

	values := pointValues(mr)
	last := len(mr) - 1
	for _, xp := range xPhases {
		start := max(0, xp.StartIndex-1)
		end := min(xp.EndIndex-1, last)
		if start > end {
			continue
		}

		mrBar := algo.Mean(values[start : end+1])
		sigma := p.SigmaFromMovingRange(mrBar)
		phase := schema.Phase{
			StartIndex:  start,
			EndIndex:    end,
			CL:          p.Round(mrBar),
			UCL:         p.Round(p.MRUCLMultiplier * mrBar),
			LCL:         0,
			PhaseNumber: xp.PhaseNumber,
		}
		phases = append(phases, phase)

		for i := start; i <= end; i++ {
			out[i].PointLimits = &schema.PointLimits{
				CL:          phase.CL,
				UCL:         phase.UCL,
				LCL:         phase.LCL,
				Odds:        algo.RarityOdds(values[i], mrBar, sigma, p),
				PhaseNumber: phase.PhaseNumber,
			}
		}
	}
	return out, phases
}

// PhasesSynchronized reports whether the moving range phase numbers form an
// ordered subsequence of the individuals phase numbers.
func PhasesSynchronized(x, mr []schema.Phase) bool {
	j := 0
	for _, xp := range x {
		if j < len(mr) && mr[j].PhaseNumber == xp.PhaseNumber {
			j++
		}
	}
	return j == len(mr)
}
