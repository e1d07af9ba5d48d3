package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartLabels(t *testing.T) {
	assert.Equal(t, "Turnaround Time (Moving Range)", MovingRangeLabel("Turnaround Time"))
	assert.Equal(t, "Turnaround Time (Distribution)", DistributionLabel("Turnaround Time"))
}

func TestAnnotatedPointJSON(t *testing.T) {
	t.Run("unannotated point has no limit fields", func(t *testing.T) {
		p := AnnotatedPoint{MeasurementRecord: MeasurementRecord{Entity: "JFK", Metric: "m", Date: "2024-01-01", Value: 3}}
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"entity":"JFK","metric":"m","date":"2024-01-01","value":3}`, string(data))
		assert.False(t, p.Annotated())
		assert.False(t, p.OutsideLimits())
	})

	t.Run("annotated point is flat", func(t *testing.T) {
		p := AnnotatedPoint{
			MeasurementRecord: MeasurementRecord{Entity: "JFK", Metric: "m", Date: "2024-01-01", Value: 12},
			PointLimits:       &PointLimits{CL: 5, UCL: 10, LCL: 0, Odds: 1, PhaseNumber: 1},
			SignalFlags:       &SignalFlags{XSignal: true, XOnlySignal: true},
		}
		data, err := json.Marshal(p)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, 5.0, decoded["cl"])
		assert.Equal(t, true, decoded["x_signal"])
		assert.Equal(t, false, decoded["mr_signal"])
		assert.True(t, p.OutsideLimits())
	})
}

func TestChartPayloadJSON(t *testing.T) {
	payload := ChartPayload{DistributionResult: &DistributionResult{Bins: []float64{1}, Frequencies: []float64{2}, NormalCurve: []float64{0.5}, Count: 2}}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "bins")
	assert.NotContains(t, decoded, "points")
	assert.NotContains(t, decoded, "phases")
}

func TestSignalSummaryStatus(t *testing.T) {
	tests := []struct {
		name    string
		summary SignalSummary
		want    string
	}{
		{"stable", SignalSummary{Stable: true}, "Stable"},
		{"both", SignalSummary{BothSignaling: true}, "Both"},
		{"x only", SignalSummary{XOnly: true}, "X only"},
		{"mr only", SignalSummary{MROnly: true}, "mR only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.summary.Status())
		})
	}
}

func TestPhaseLen(t *testing.T) {
	assert.Equal(t, 20, Phase{StartIndex: 0, EndIndex: 19}.Len())
	assert.Equal(t, 1, Phase{StartIndex: 7, EndIndex: 7}.Len())
}

func TestFailed(t *testing.T) {
	r := Failed("no valid data points")
	assert.False(t, r.Success)
	assert.Equal(t, "no valid data points", r.Error)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"no valid data points"}`, string(data))
}
