package cmd

import (
	"github.com/huangsam/xmr/core"
	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/internal/iocache"
	"github.com/spf13/cobra"
)

// chartCmd charts a measurement file, a directory of files, or stdin.
var chartCmd = &cobra.Command{
	Use:   "chart [input]",
	Short: "Build XmR charts with phase detection from measurement files.",
	Long: `Read daily station measurements and build one individuals (X) chart and one
moving range (mR) chart per station and metric.

Each series is split into phases wherever eight consecutive points fall on one
side of the current center line. Every phase gets its own natural process limits,
and every point is flagged when it falls outside them.

Input can be:
- A long CSV with station,measure,date,value columns
- A wide CSV with timestamp,station,metric_value columns (metric from the file name)
- An .xlsx workbook in either layout
- A directory of such files
- Standard input when no path (or "-") is given

Examples:
  # Chart a single file
  xmr chart data/turnaround_time.csv

  # Chart every file of a directory as JSON
  xmr chart data --output json --output-file charts.json

  # Pipe a long CSV through stdin with a shorter phase rule
  cat measurements.csv | xmr chart --run-length 6

  # Keep a history of runs in SQLite
  xmr chart data --analysis-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot build charts", err)
		}
	},
}
