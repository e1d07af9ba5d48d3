package ingest

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMetricName is used for wide files when nothing else names the metric.
const DefaultMetricName = "Metric"

// MeasureNames maps known export file names to their metric names.
var MeasureNames = map[string]string{
	"maintenance_cancels.csv":            "Maintenance Cancels",
	"maintenance_delays.csv":             "Maintenance Delays",
	"scheduled_maintenance_findings.csv": "Scheduled Maintenance Findings",
	"unscheduled_maintenance.csv":        "Unscheduled Maintenance",
}

// MetricFromFilename derives a metric name from a file name:
// maintenance_cancels.csv becomes "Maintenance Cancels".
func MetricFromFilename(filename string) string {
	base := filepath.Base(filename)
	if name, ok := MeasureNames[strings.ToLower(base)]; ok {
		return name
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" || stem == "." {
		return DefaultMetricName
	}
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(stem)
}

func resolveMetric(opts Options) string {
	switch {
	case opts.Metric != "":
		return opts.Metric
	case opts.Filename != "":
		return MetricFromFilename(opts.Filename)
	default:
		return DefaultMetricName
	}
}
