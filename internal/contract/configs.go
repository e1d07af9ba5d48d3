package contract

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/xmr/core/algo"
	"github.com/huangsam/xmr/schema"
)

// Default values for configuration.
const (
	DefaultPrecision      = 2
	MaxPrecision          = 6
	DefaultServerAddr     = ":8000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultInputDir       = "data"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for processing.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath  string // file, directory, or "-" for stdin
	Layout     schema.InputLayout
	Metric     string // metric name override for wide files
	Sheet      string // XLSX sheet, empty means the first one
	StationMap map[string]string

	Params     algo.Params
	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Verbose    bool

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	ServerAddr     string
	RequestTimeout time.Duration
	InputDir       string // directory served by the load-actual endpoint

	Seed    uint64 // demo data seed
	EmitCSV bool   // demo writes generated CSV instead of charts
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Workers           int    `mapstructure:"workers"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	Verbose           bool   `mapstructure:"verbose"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`

	// --- Engine parameters ---
	MinBaseline int `mapstructure:"min-baseline"`
	RunLength   int `mapstructure:"run-length"`
	Bins        int `mapstructure:"bins"`

	// --- Ingest options ---
	Layout string `mapstructure:"layout"`
	Metric string `mapstructure:"metric"`
	Sheet  string `mapstructure:"sheet"`

	// --- Fields from serveCmd.Flags() ---
	Addr           string `mapstructure:"addr"`
	RequestTimeout string `mapstructure:"request-timeout"`
	InputDir       string `mapstructure:"input-dir"`

	// --- Fields from demoCmd.Flags() ---
	Seed    int64 `mapstructure:"seed"`
	EmitCSV bool  `mapstructure:"emit-csv"`

	// --- Station code overrides from config file ---
	StationMap map[string]string `mapstructure:"station-map"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.StationMap != nil {
		clone.StationMap = make(map[string]string, len(c.StationMap))
		maps.Copy(clone.StationMap, c.StationMap)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processEngineParams(cfg, input); err != nil {
		return err
	}
	if err := processIngestOptions(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processServerOptions(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("analysis-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("analysis-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the analysis backend configuration.
// An empty backend disables run tracking.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	return ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect)
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.EmitCSV = input.EmitCSV
	cfg.Seed = uint64(input.Seed)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	return nil
}

// processEngineParams overlays the engine flags on the canonical constants.
// Zero values keep the defaults.
func processEngineParams(cfg *Config, input *ConfigRawInput) error {
	p := algo.DefaultParams()
	if input.MinBaseline != 0 {
		p.MinBaseline = input.MinBaseline
	}
	if input.RunLength != 0 {
		p.RunLength = input.RunLength
	}
	if input.Bins != 0 {
		p.Bins = input.Bins
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid engine parameters: %w", err)
	}
	cfg.Params = p
	return nil
}

// processIngestOptions validates the layout and the station code overrides.
func processIngestOptions(cfg *Config, input *ConfigRawInput) error {
	layout := strings.ToLower(strings.TrimSpace(input.Layout))
	if layout == "" {
		layout = string(schema.AutoLayout)
	}
	cfg.Layout = schema.InputLayout(layout)
	if _, ok := schema.ValidInputLayouts[cfg.Layout]; !ok {
		return fmt.Errorf("invalid layout '%s'. must be auto, long, wide", input.Layout)
	}
	cfg.Metric = strings.TrimSpace(input.Metric)
	cfg.Sheet = strings.TrimSpace(input.Sheet)

	cfg.StationMap = make(map[string]string, len(input.StationMap))
	for name, code := range input.StationMap {
		name, code = strings.TrimSpace(name), strings.TrimSpace(code)
		if name == "" || code == "" {
			return fmt.Errorf("station-map entries need a name and a code (received %q: %q)", name, code)
		}
		cfg.StationMap[name] = code
	}
	return nil
}

// processServerOptions handles the HTTP server settings.
func processServerOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.ServerAddr = strings.TrimSpace(input.Addr)
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = DefaultServerAddr
	}
	if !strings.Contains(cfg.ServerAddr, ":") {
		return fmt.Errorf("addr must be host:port or :port (received %q)", input.Addr)
	}

	cfg.RequestTimeout = DefaultRequestTimeout
	if input.RequestTimeout != "" {
		d, err := time.ParseDuration(input.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request-timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("request-timeout must be positive (received %s)", d)
		}
		cfg.RequestTimeout = d
	}

	cfg.InputDir = strings.TrimSpace(input.InputDir)
	if cfg.InputDir == "" {
		cfg.InputDir = DefaultInputDir
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
