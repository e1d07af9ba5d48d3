package demo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/xmr/core/algo"
	"github.com/huangsam/xmr/internal/ingest"
	"github.com/huangsam/xmr/schema"
)

var fixedEnd = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func TestGenerateShape(t *testing.T) {
	records := Generate(Options{Seed: 1, End: fixedEnd})
	require.Len(t, records, DefaultDays*len(Stations)*len(Metrics))

	assert.Equal(t, "2024-04-02", records[0].Date)
	assert.Equal(t, "2024-05-31", records[len(records)-1].Date)
	assert.Equal(t, "JFK", records[0].Entity)
	assert.Equal(t, "Turnaround Time", records[0].Metric)

	for _, r := range records {
		assert.GreaterOrEqual(t, r.Value, 0.0)
		assert.Equal(t, r.Value, algo.DefaultParams().Round(r.Value))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(Options{Seed: 42, End: fixedEnd})
	b := Generate(Options{Seed: 42, End: fixedEnd})
	c := Generate(Options{Seed: 43, End: fixedEnd})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerateShift(t *testing.T) {
	records := Generate(Options{Seed: 7, End: fixedEnd, Days: 40})
	var before, after []float64
	for _, r := range records {
		if r.Entity != ShiftedStation || r.Metric != ShiftedMetric {
			continue
		}
		if len(before) < 20 {
			before = append(before, r.Value)
		} else {
			after = append(after, r.Value)
		}
	}
	require.Len(t, after, 20)
	for _, v := range before {
		assert.InDelta(t, 45, v, 5.01)
	}
	for _, v := range after {
		assert.InDelta(t, 60, v, 6.01)
	}
}

func TestGenerateRanges(t *testing.T) {
	for _, r := range Generate(Options{Seed: 3, End: fixedEnd}) {
		switch {
		case r.Metric == "Baggage Handling Errors":
			assert.InDelta(t, 5, r.Value, 2.01)
		case r.Entity == ShiftedStation && r.Metric == ShiftedMetric:
		default:
			assert.InDelta(t, 15, r.Value, 4.01)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	opts := Options{Seed: 9, End: fixedEnd, Days: 10}
	text := CSV(opts)
	assert.True(t, strings.HasPrefix(text, "station,measure,date,value\n"))

	batch, err := ingest.ParseCSV(strings.NewReader(text), ingest.Options{})
	require.NoError(t, err)
	assert.Equal(t, schema.LongLayout, batch.Layout)
	assert.Empty(t, batch.Skipped)
	assert.Equal(t, Generate(opts), batch.Records)
}
