// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/xmr/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the xmr MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"XmR Phase Detection Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: process_csv ---
	s.AddTool(mcp.NewTool("process_csv",
		mcp.WithDescription("Build XmR (individuals and moving range) charts with automatic phase detection from CSV measurements."),
		mcp.WithString("csv_data", mcp.Description("CSV text, either station,measure,date,value or timestamp,station,metric_value."), mcp.Required()),
		mcp.WithString("filename", mcp.Description("Original file name. Names the metric of timestamp,station,metric_value files.")),
		mcp.WithString("layout", mcp.Description("Column layout (auto, long, wide). Defaults to 'auto'."), mcp.Enum("auto", "long", "wide")),
		mcp.WithNumber("run_length", mcp.Description("Consecutive points on one side of the center line that start a new phase. Defaults to 8.")),
		mcp.WithNumber("min_baseline", mcp.Description("Points used to establish each phase baseline. Defaults to 20.")),
	), h.handleProcessCSV)

	// --- 2. Tool: demo_charts ---
	s.AddTool(mcp.NewTool("demo_charts",
		mcp.WithDescription("Chart the built-in demo dataset: three stations, three metrics and one planted level shift."),
		mcp.WithNumber("seed", mcp.Description("Random seed. Equal seeds produce equal data.")),
	), h.handleDemoCharts)

	// --- 3. Tool: signal_summary ---
	s.AddTool(mcp.NewTool("signal_summary",
		mcp.WithDescription("Report only the per-chart signal status (Stable, X only, mR only, Both) of CSV measurements."),
		mcp.WithString("csv_data", mcp.Description("CSV text, either station,measure,date,value or timestamp,station,metric_value."), mcp.Required()),
		mcp.WithString("filename", mcp.Description("Original file name.")),
		mcp.WithString("layout", mcp.Description("Column layout (auto, long, wide)."), mcp.Enum("auto", "long", "wide")),
	), h.handleSignalSummary)

	return s
}

// StartMCPServer starts the xmr MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
