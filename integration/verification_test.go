//go:build integration

// Package integration contains integration tests for xmr.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/xmr/internal/demo"
	"github.com/huangsam/xmr/schema"
)

// chartDemoThroughCSV writes the demo data with emit-csv, charts the file and
// returns the decoded JSON result.
func chartDemoThroughCSV(t *testing.T, extraArgs ...string) schema.ProcessingResult {
	t.Helper()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "demo.csv")
	jsonPath := filepath.Join(dir, "charts.json")

	_, err := runXMR(t, dir, "demo", "--seed", "7", "--emit-csv", "--output-file", csvPath)
	require.NoError(t, err)

	args := append([]string{"chart", csvPath, "--output", "json", "--output-file", jsonPath}, extraArgs...)
	_, err = runXMR(t, dir, args...)
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var result schema.ProcessingResult
	require.NoError(t, json.Unmarshal(data, &result))
	require.True(t, result.Success, result.Error)
	return result
}

// TestDemoRoundTripVerification charts the emitted demo CSV and verifies the
// planted shift and every point flag against its own limits.
func TestDemoRoundTripVerification(t *testing.T) {
	result := chartDemoThroughCSV(t)
	assert.ElementsMatch(t, demo.Stations, result.Entities)

	shifted := result.ChartData[demo.ShiftedStation][demo.ShiftedMetric]
	require.NotNil(t, shifted.ChartResult)
	assert.GreaterOrEqual(t, len(shifted.Phases), 2, "the planted level shift should start a new phase")

	for entity, metrics := range result.ChartData {
		for metric, payloads := range metrics {
			t.Run(entity+"/"+metric, func(t *testing.T) {
				verifyFlags(t, payloads)
			})
		}
	}
}

// TestChartPhaseLayoutVerification charts with a shorter rule and checks that
// the individuals phases tile every series and that only the last phase may
// be shorter than the baseline.
func TestChartPhaseLayoutVerification(t *testing.T) {
	const minBaseline = 10
	result := chartDemoThroughCSV(t, "--run-length", "5", "--min-baseline", "10")

	for entity, metrics := range result.ChartData {
		for label, payload := range metrics {
			if payload.ChartResult == nil || payload.Kind != schema.IndividualsChart {
				continue
			}
			t.Run(entity+"/"+label, func(t *testing.T) {
				require.NotEmpty(t, payload.Phases)
				next := 0
				for i, ph := range payload.Phases {
					assert.Equal(t, next, ph.StartIndex)
					assert.Equal(t, i+1, ph.PhaseNumber)
					if i < len(payload.Phases)-1 {
						assert.GreaterOrEqual(t, ph.Len(), minBaseline)
					}
					next = ph.EndIndex + 1
				}
				assert.Equal(t, len(payload.Points), next)
			})
		}
	}

	shifted := result.ChartData[demo.ShiftedStation][demo.ShiftedMetric]
	require.NotNil(t, shifted.ChartResult)
	assert.GreaterOrEqual(t, len(shifted.Phases), 2)
}

// verifyFlags checks that the signal flag of every annotated point matches its
// position against the phase limits, and that its phase covers its index.
func verifyFlags(t *testing.T, payload schema.ChartPayload) {
	t.Helper()
	if payload.ChartResult == nil {
		return
	}
	for i, pt := range payload.Points {
		if !pt.Annotated() {
			continue
		}
		require.NotNil(t, pt.SignalFlags, "point %d", i)
		switch payload.Kind {
		case schema.IndividualsChart:
			assert.Equal(t, pt.OutsideLimits(), pt.XSignal, "point %d", i)
		case schema.MovingRangeChart:
			assert.Equal(t, pt.OutsideLimits(), pt.MRSignal, "point %d", i)
		}
		covered := false
		for _, ph := range payload.Phases {
			if ph.PhaseNumber == pt.PhaseNumber {
				covered = i >= ph.StartIndex && i <= ph.EndIndex
			}
		}
		assert.True(t, covered, "point %d outside phase %d", i, pt.PhaseNumber)
	}
}
