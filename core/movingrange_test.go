package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/xmr/core/algo"
	"github.com/huangsam/xmr/schema"
)

func TestDeriveMovingRange(t *testing.T) {
	x := makePoints(1, 4, 2)
	mr := DeriveMovingRange(x)

	require.Len(t, mr, 2)
	assert.Equal(t, 3.0, mr[0].Value)
	assert.Equal(t, 2.0, mr[1].Value)
	assert.Equal(t, "Turnaround Time (Moving Range)", mr[0].Metric)
	assert.Equal(t, "JFK", mr[0].Entity)
	assert.Equal(t, x[1].Date, mr[0].Date)
	assert.Equal(t, x[2].Date, mr[1].Date)
	assert.False(t, mr[0].Annotated())
}

func TestDeriveMovingRangeLength(t *testing.T) {
	assert.Empty(t, DeriveMovingRange(nil))
	assert.Empty(t, DeriveMovingRange(makePoints(5)))
	for _, n := range []int{2, 3, 21, 100} {
		assert.Len(t, DeriveMovingRange(makePoints(alternating(n, 1, 2)...)), n-1)
	}
}

func TestApplyXPhasesToMR(t *testing.T) {
	p := algo.DefaultParams()
	values := concat(alternating(20, 10, 12), []float64{10, 10}, repeat(8, 13))
	x, xPhases := SegmentPhases(makePoints(values...), p)
	require.Len(t, xPhases, 2)

	mr, mrPhases := ApplyXPhasesToMR(DeriveMovingRange(x), xPhases, p)
	require.Len(t, mr, len(values)-1)
	require.Len(t, mrPhases, 2)

	assert.Equal(t, [][2]int{{0, 20}, {21, 28}}, boundaries(mrPhases))
	assert.Equal(t, 1, mrPhases[0].PhaseNumber)
	assert.Equal(t, 2, mrPhases[1].PhaseNumber)

	// First phase: twenty moving ranges of 2 then one of 0.
	assert.InDelta(t, 40.0/21.0, mrPhases[0].CL, 0.005)
	assert.Equal(t, p.Round(3.268*40.0/21.0), mrPhases[0].UCL)

	// Second phase: a step of 3 into the run, then flat.
	assert.Equal(t, 0.38, mrPhases[1].CL)
	assert.Equal(t, 1.23, mrPhases[1].UCL)

	for _, ph := range mrPhases {
		assert.Equal(t, 0.0, ph.LCL)
		for i := ph.StartIndex; i <= ph.EndIndex; i++ {
			require.True(t, mr[i].Annotated())
			assert.Equal(t, ph.PhaseNumber, mr[i].PhaseNumber)
			assert.Equal(t, 0.0, mr[i].LCL)
		}
	}
}

func TestApplyXPhasesToMRSkipsEmptyRanges(t *testing.T) {
	p := algo.DefaultParams()
	mr := DeriveMovingRange(makePoints(1, 3, 5, 7))
	xPhases := []schema.Phase{
		{StartIndex: 0, EndIndex: 0, PhaseNumber: 1},
		{StartIndex: 1, EndIndex: 3, PhaseNumber: 2},
	}

	out, phases := ApplyXPhasesToMR(mr, xPhases, p)
	require.Len(t, phases, 1)
	assert.Equal(t, schema.Phase{StartIndex: 0, EndIndex: 2, CL: 2, UCL: 6.54, LCL: 0, PhaseNumber: 2}, phases[0])
	for _, pt := range out {
		assert.Equal(t, 2, pt.PhaseNumber)
	}
	assert.True(t, PhasesSynchronized(xPhases, phases))
}

func TestApplyXPhasesToMREmpty(t *testing.T) {
	p := algo.DefaultParams()
	out, phases := ApplyXPhasesToMR(nil, []schema.Phase{{StartIndex: 0, EndIndex: 0, PhaseNumber: 1}}, p)
	assert.Empty(t, out)
	assert.Empty(t, phases)
}

func TestApplyXPhasesToMRIdenticalValues(t *testing.T) {
	p := algo.DefaultParams()
	x, xPhases := SegmentPhases(makePoints(repeat(30, 5)...), p)
	mr, mrPhases := ApplyXPhasesToMR(DeriveMovingRange(x), xPhases, p)

	require.Len(t, mrPhases, 1)
	assert.Equal(t, 0.0, mrPhases[0].CL)
	assert.Equal(t, 0.0, mrPhases[0].UCL)
	for _, pt := range mr {
		assert.Equal(t, 0.0, pt.Value)
		assert.False(t, pt.OutsideLimits())
	}
}

func TestPhasesSynchronized(t *testing.T) {
	x := []schema.Phase{{PhaseNumber: 1}, {PhaseNumber: 2}, {PhaseNumber: 3}}
	tests := []struct {
		name string
		mr   []schema.Phase
		want bool
	}{
		{"identical", []schema.Phase{{PhaseNumber: 1}, {PhaseNumber: 2}, {PhaseNumber: 3}}, true},
		{"skipped first", []schema.Phase{{PhaseNumber: 2}, {PhaseNumber: 3}}, true},
		{"empty", nil, true},
		{"out of order", []schema.Phase{{PhaseNumber: 3}, {PhaseNumber: 2}}, false},
		{"unknown number", []schema.Phase{{PhaseNumber: 4}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhasesSynchronized(x, tt.mr))
		})
	}
}
