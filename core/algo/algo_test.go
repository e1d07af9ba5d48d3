package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLimits(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		wantCL float64
		wantMR float64
	}{
		{"empty", nil, 0, 0},
		{"single value", []float64{7.5}, 7.5, 0},
		{"two values", []float64{10, 14}, 12, 4},
		{"three values", []float64{1, 2, 4}, 7.0 / 3.0, 1.5},
		{"flat", []float64{3, 3, 3, 3}, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl, mr := ComputeLimits(tt.values)
			assert.InDelta(t, tt.wantCL, cl, 1e-12)
			assert.InDelta(t, tt.wantMR, mr, 1e-12)
		})
	}
}

func TestNaturalLimits(t *testing.T) {
	p := DefaultParams()

	ucl, lcl := NaturalLimits(10, 1, p)
	assert.InDelta(t, 12.66, ucl, 1e-9)
	assert.InDelta(t, 7.34, lcl, 1e-9)

	// The lower limit is floored at zero.
	ucl, lcl = NaturalLimits(1, 1, p)
	assert.InDelta(t, 3.66, ucl, 1e-9)
	assert.Equal(t, 0.0, lcl)
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestRarityOdds(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name   string
		value  float64
		center float64
		stdDev float64
		want   float64
	}{
		{"on center", 5, 5, 1, 1},
		{"one sigma", 6, 5, 1, 3},
		{"two sigma", 7, 5, 1, 22},
		{"three sigma below", 2, 5, 1, 370},
		{"four sigma is capped", 9, 5, 1, 10000},
		{"zero stdDev", 100, 5, 0, 1},
		{"stdDev below epsilon", 100, 5, 1e-12, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RarityOdds(tt.value, tt.center, tt.stdDev, p))
		})
	}
}

func TestRarityOddsMonotonic(t *testing.T) {
	p := DefaultParams()
	prev := 0.0
	for d := 0.0; d <= 6; d += 0.05 {
		odds := RarityOdds(10+d, 10, 1.3, p)
		assert.GreaterOrEqual(t, odds, prev, "odds must not decrease at distance %.2f", d)
		prev = odds
	}
}

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, NormalCDF(0), 1e-12)
	assert.InDelta(t, 0.97725, NormalCDF(2), 1e-5)
	assert.InDelta(t, 0.02275, NormalCDF(-2), 1e-5)
}

func TestFindSignal(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		cl        float64
		ucl       float64
		lcl       float64
		runLength int
		want      Signal
	}{
		{
			name: "empty window", values: nil,
			cl: 5, ucl: 10, lcl: 0, runLength: 8,
			want: Signal{Index: 0, Rule: RuleNone},
		},
		{
			name: "no signal", values: []float64{4, 6, 4, 6},
			cl: 5, ucl: 10, lcl: 0, runLength: 8,
			want: Signal{Index: 3, Rule: RuleNone},
		},
		{
			name: "point above ucl", values: []float64{5, 5, 5, 20, 5},
			cl: 5, ucl: 10, lcl: 0, runLength: 8,
			want: Signal{Index: 2, Rule: RuleLimit},
		},
		{
			name: "first point beyond limits clamps to zero", values: []float64{20, 5},
			cl: 5, ucl: 10, lcl: 0, runLength: 8,
			want: Signal{Index: 0, Rule: RuleLimit},
		},
		{
			name: "point below lcl", values: []float64{5, 1},
			cl: 5, ucl: 10, lcl: 2, runLength: 8,
			want: Signal{Index: 0, Rule: RuleLimit},
		},
		{
			name: "run of eight above", values: []float64{4, 4, 6, 6, 6, 6, 6, 6, 6, 6},
			cl: 5, ucl: 10, lcl: 0, runLength: 8,
			want: Signal{Index: 1, Rule: RuleRun},
		},
		{
			name: "run of seven when configured", values: []float64{4, 6, 6, 6, 6, 6, 6, 6},
			cl: 5, ucl: 10, lcl: 0, runLength: 7,
			want: Signal{Index: 0, Rule: RuleRun},
		},
		{
			name: "point on center line does not reset run", values: []float64{4, 6, 6, 6, 5, 6, 6, 6, 6, 6},
			cl: 5, ucl: 10, lcl: 0, runLength: 8,
			want: Signal{Index: 1, Rule: RuleRun},
		},
		{
			name: "opposite side resets run", values: []float64{6, 6, 6, 6, 6, 6, 6, 4, 6, 6, 6, 6, 6, 6, 6},
			cl: 5, ucl: 10, lcl: 0, runLength: 8,
			want: Signal{Index: 14, Rule: RuleNone},
		},
		{
			name: "limit rule checked before run rule", values: []float64{6, 6, 6, 6, 6, 6, 6, 11},
			cl: 5, ucl: 10, lcl: 0, runLength: 8,
			want: Signal{Index: 6, Rule: RuleLimit},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSignal(tt.values, tt.cl, tt.ucl, tt.lcl, tt.runLength)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Index, FindSignalIndex(tt.values, tt.cl, tt.ucl, tt.lcl, tt.runLength))
		})
	}
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "none", RuleNone.String())
	assert.Equal(t, "limit", RuleLimit.String())
	assert.Equal(t, "run", RuleRun.String())
}

func TestHistogram(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		got := Histogram(nil, 20)
		assert.Equal(t, 0, got.Count)
		assert.Empty(t, got.Bins)
	})

	t.Run("maximum lands in last bin", func(t *testing.T) {
		got := Histogram([]float64{1, 2, 3, 4, 5}, 4)
		assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5}, got.Bins)
		assert.Equal(t, []float64{1, 1, 1, 2}, got.Frequencies)
		assert.InDelta(t, 1.0, got.BinWidth, 1e-12)
		assert.InDelta(t, 3.0, got.Mean, 1e-12)
		assert.InDelta(t, math.Sqrt2, got.StdDev, 1e-12)
		assert.Equal(t, 5, got.Count)
		require.Len(t, got.NormalCurve, 4)

		// Symmetric data gives a symmetric overlay.
		assert.InDelta(t, got.NormalCurve[0], got.NormalCurve[3], 1e-12)
		assert.InDelta(t, got.NormalCurve[1], got.NormalCurve[2], 1e-12)
		assert.Greater(t, got.NormalCurve[1], got.NormalCurve[0])
	})

	t.Run("identical values", func(t *testing.T) {
		got := Histogram([]float64{3, 3, 3}, 20)
		assert.Equal(t, []float64{3}, got.Bins)
		assert.Equal(t, []float64{3}, got.Frequencies)
		assert.Equal(t, 0.0, got.StdDev)
		assert.InDelta(t, 3/math.Sqrt(2*math.Pi), got.NormalCurve[0], 1e-12)
	})

	t.Run("default bins when invalid", func(t *testing.T) {
		got := Histogram([]float64{0, 10}, 0)
		assert.Len(t, got.Bins, DefaultBins)
	})

	t.Run("frequencies sum to count", func(t *testing.T) {
		values := []float64{0.1, 0.7, 2.2, 2.2, 9.9, 4.4, 3.3, 8.1, 7.0, 5.5}
		got := Histogram(values, 7)
		var total float64
		for _, f := range got.Frequencies {
			total += f
		}
		assert.Equal(t, float64(len(values)), total)
	})
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name    string
		mutate  func(*Params)
		errPart string
	}{
		{"baseline too small", func(p *Params) { p.MinBaseline = 1 }, "min baseline"},
		{"run length too small", func(p *Params) { p.RunLength = 1 }, "run length"},
		{"no bins", func(p *Params) { p.Bins = 0 }, "bins"},
		{"zero d2", func(p *Params) { p.D2 = 0 }, "multipliers"},
		{"bad odds floor", func(p *Params) { p.OddsMinProbability = 1 }, "odds"},
		{"zero epsilon", func(p *Params) { p.Epsilon = 0 }, "epsilon"},
		{"too many decimals", func(p *Params) { p.Decimals = 11 }, "decimals"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestParamsRound(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1.23, p.Round(1.23456))
	assert.Equal(t, 12.66, p.Round(12.6600000001))

	p.Decimals = -1
	assert.Equal(t, 1.23456, p.Round(1.23456))
}

func TestSigmaFromMovingRange(t *testing.T) {
	p := DefaultParams()
	assert.InDelta(t, 1.0, p.SigmaFromMovingRange(1.128), 1e-12)
	assert.Equal(t, p.Epsilon, p.SigmaFromMovingRange(0))
}
