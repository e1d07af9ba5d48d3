package cmd

import (
	"github.com/huangsam/xmr/core"
	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/internal/iocache"
	"github.com/spf13/cobra"
)

// demoCmd charts or emits the synthetic demo dataset.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Chart a generated dataset with a planted process shift.",
	Long: `Generate 60 days of measurements for three stations and three metrics, with
one level shift planted halfway through, and chart them like real input.

Equal seeds always produce equal data, which makes the demo useful for trying
flags and output formats.

Examples:
  # Chart the demo data
  xmr demo --seed 7

  # Write the demo data as CSV to feed it back through chart
  xmr demo --emit-csv --output-file demo.csv
  xmr chart demo.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDemo(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run demo", err)
		}
	},
}
