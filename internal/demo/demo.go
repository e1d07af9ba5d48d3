// Package demo generates a reproducible sample dataset with one planted shift.
package demo

import (
	"bytes"
	"encoding/csv"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/huangsam/xmr/schema"
)

// Demo dataset shape.
const (
	DefaultDays    = 60
	ShiftedMetric  = "Turnaround Time"
	ShiftedStation = "JFK"
)

// Stations and Metrics generated, in output order.
var (
	Stations = []string{"JFK", "LAX", "ORD"}
	Metrics  = []string{"Turnaround Time", "Baggage Handling Errors", "Gate Availability Delay"}
)

// Options controls the generated dataset.
type Options struct {
	Seed uint64
	End  time.Time // the last generated day is the day before End; zero means today
	Days int       // zero means DefaultDays
}

// Generate returns one record per station, metric and day. JFK turnaround
// time jumps from about 45 to about 60 halfway through, every other series
// is stable. Equal options always produce equal records.
func Generate(opts Options) []schema.MeasurementRecord {
	days := opts.Days
	if days <= 0 {
		days = DefaultDays
	}
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5DEECE66D))

	records := make([]schema.MeasurementRecord, 0, days*len(Stations)*len(Metrics))
	for i := days; i > 0; i-- {
		date := end.AddDate(0, 0, -i).Format(time.DateOnly)
		for _, station := range Stations {
			for _, metric := range Metrics {
				records = append(records, schema.MeasurementRecord{
					Entity: station,
					Metric: metric,
					Date:   date,
					Value:  sample(rng, station, metric, i > days/2),
				})
			}
		}
	}
	return records
}

// sample draws a uniform value around the series level.
func sample(rng *rand.Rand, station, metric string, beforeShift bool) float64 {
	var center, spread float64
	switch {
	case station == ShiftedStation && metric == ShiftedMetric && beforeShift:
		center, spread = 45, 10
	case station == ShiftedStation && metric == ShiftedMetric:
		center, spread = 60, 12
	case metric == "Baggage Handling Errors":
		center, spread = 5, 4
	default:
		center, spread = 15, 8
	}
	v := center + (rng.Float64()-0.5)*spread
	return math.Max(0, math.Round(v*100)/100)
}

// CSV renders Generate(opts) in the long station,measure,date,value layout.
func CSV(opts Options) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"station", "measure", "date", "value"})
	for _, r := range Generate(opts) {
		_ = w.Write([]string{r.Entity, r.Metric, r.Date, strconv.FormatFloat(r.Value, 'f', -1, 64)})
	}
	w.Flush()
	return buf.String()
}
