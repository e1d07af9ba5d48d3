// Package cmd defines the command-line interface for xmr.
package cmd

import (
	"github.com/huangsam/xmr/core/algo"
	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analysisCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns in text output")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details such as skipped rows to stderr")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Run history backend: sqlite or mysql or postgresql or none (empty disables tracking)")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("min-baseline", algo.DefaultMinBaseline, "Points used to establish each phase baseline")
	rootCmd.PersistentFlags().Int("run-length", algo.DefaultRunLength, "Consecutive points on one side of the center line that start a new phase")
	rootCmd.PersistentFlags().Int("bins", algo.DefaultBins, "Histogram bins of the distribution overlay")
	rootCmd.PersistentFlags().String("layout", string(schema.AutoLayout), "Input column layout: auto or long or wide")
	rootCmd.PersistentFlags().String("metric", "", "Metric name for wide files (default: derived from the file name)")
	rootCmd.PersistentFlags().String("sheet", "", "Worksheet to read from .xlsx input (default: first sheet)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServerAddr, "Address the HTTP server listens on")
	serveCmd.Flags().String("request-timeout", contract.DefaultRequestTimeout.String(), "Deadline for each API request")
	serveCmd.Flags().String("input-dir", contract.DefaultInputDir, "Directory charted by POST /api/load-actual")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of demoCmd to Viper
	demoCmd.Flags().Int64("seed", 0, "Random seed for the generated dataset")
	demoCmd.Flags().Bool("emit-csv", false, "Write the generated dataset as CSV instead of charting it")
	if err := viper.BindPFlags(demoCmd.Flags()); err != nil {
		contract.LogFatal("Error binding demo flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
