package cmd

import (
	"github.com/huangsam/xmr/internal/iocache"
	"github.com/huangsam/xmr/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the xmr MCP server",
	Long:    `Launch an MCP server on stdio that allows AI agents to build XmR charts via standard tools.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, iocache.Manager)
	},
}
