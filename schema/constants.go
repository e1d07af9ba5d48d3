package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// InputLayout represents the column layout of tabular input.
	InputLayout string

	// ChartKind represents which chart a ChartResult or DistributionResult describes.
	ChartKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All input layouts supported.
const (
	AutoLayout InputLayout = "auto" // default
	LongLayout InputLayout = "long" // station,measure,date,value
	WideLayout InputLayout = "wide" // timestamp,station,metric_value
)

// All chart kinds produced per (entity, metric) group.
const (
	IndividualsChart  ChartKind = "individuals"
	MovingRangeChart  ChartKind = "moving_range"
	DistributionChart ChartKind = "distribution"
)

// Chart label suffixes appended to the metric name.
const (
	MovingRangeSuffix  = " (Moving Range)"
	DistributionSuffix = " (Distribution)"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidInputLayouts lists all valid input layouts.
var ValidInputLayouts = map[InputLayout]struct{}{
	AutoLayout: {},
	LongLayout: {},
	WideLayout: {},
}

// MovingRangeLabel returns the chart label of the mR chart derived from metric.
func MovingRangeLabel(metric string) string {
	return metric + MovingRangeSuffix
}

// DistributionLabel returns the chart label of the histogram for metric.
func DistributionLabel(metric string) string {
	return metric + DistributionSuffix
}
