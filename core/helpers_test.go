package core

import (
	"time"

	"github.com/huangsam/xmr/schema"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// makeRecords returns one record per value on consecutive days.
func makeRecords(entity, metric string, values ...float64) []schema.MeasurementRecord {
	out := make([]schema.MeasurementRecord, len(values))
	for i, v := range values {
		out[i] = schema.MeasurementRecord{
			Entity: entity,
			Metric: metric,
			Date:   testEpoch.AddDate(0, 0, i).Format(time.DateOnly),
			Value:  v,
		}
	}
	return out
}

func makePoints(values ...float64) []schema.AnnotatedPoint {
	records := makeRecords("JFK", "Turnaround Time", values...)
	out := make([]schema.AnnotatedPoint, len(records))
	for i, r := range records {
		out[i] = schema.AnnotatedPoint{MeasurementRecord: r}
	}
	return out
}

// alternating returns n values flipping between a and b, starting with a.
func alternating(n int, a, b float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = a
		} else {
			out[i] = b
		}
	}
	return out
}

func repeat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func concat(parts ...[]float64) []float64 {
	var out []float64
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// shiftedValues is a 44 point series with one level shift at index 23.
func shiftedValues() []float64 {
	return concat(alternating(20, 10, 12), []float64{10, 12, 10, 30}, alternating(20, 32, 30))
}
