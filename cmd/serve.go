package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/internal/iocache"
	"github.com/huangsam/xmr/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API used by the dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chart processing API over HTTP.",
	Long: `Start an HTTP server exposing the chart engine to the browser dashboard.

Endpoints:
  GET  /healthz          liveness probe
  GET  /metrics          Prometheus metrics
  POST /api/process      chart CSV text sent in the request body
  POST /api/demo         chart the generated demo dataset
  POST /api/load-actual  chart every file of --input-dir

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  # Serve on the default port
  xmr serve

  # Serve a data directory on a custom address
  xmr serve --addr 127.0.0.1:9000 --input-dir /srv/metrics`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.New(cfg, iocache.Manager, contract.Logger()).Run(ctx)
	},
}
