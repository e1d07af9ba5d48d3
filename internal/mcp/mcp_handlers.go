package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/xmr/core"
	"github.com/huangsam/xmr/internal/contract"
	"github.com/huangsam/xmr/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// ChartSignal is the per-chart row returned by signal_summary.
type ChartSignal struct {
	Entity        string `json:"entity"`
	Metric        string `json:"metric"`
	Status        string `json:"status"`
	Points        int    `json:"points"`
	Phases        int    `json:"phases"`
	XSignalCount  int    `json:"xSignalCount"`
	MRSignalCount int    `json:"mrSignalCount"`
	Reason        string `json:"reason,omitempty"`
}

func (h *toolHandler) handleProcessCSV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if rl := request.GetInt("run_length", 0); rl != 0 {
		cfg.Params.RunLength = rl
	}
	if mb := request.GetInt("min_baseline", 0); mb != 0 {
		cfg.Params.MinBaseline = mb
	}
	if err := cfg.Params.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid engine parameters: %v", err)), nil
	}

	result, errResult := h.processCSV(ctx, cfg, request)
	if errResult != nil {
		return errResult, nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDemoCharts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	seed := request.GetInt("seed", int(cfg.Seed))
	if seed < 0 {
		return mcp.NewToolResultError("seed must not be negative"), nil
	}

	result := core.ProcessDemo(core.WithSuppressHeader(ctx), cfg, h.mgr, uint64(seed))
	if !result.Success {
		return mcp.NewToolResultError(fmt.Sprintf("processing failed: %s", result.Error)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSignalSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, errResult := h.processCSV(ctx, h.baseCfg.Clone(), request)
	if errResult != nil {
		return errResult, nil
	}

	summaries := core.ChartRunSummaries(result)
	signals := make([]ChartSignal, len(summaries))
	for i, s := range summaries {
		signals[i] = ChartSignal{
			Entity:        s.Entity,
			Metric:        s.Metric,
			Status:        s.Status,
			Points:        s.PointCount,
			Phases:        s.PhaseCount,
			XSignalCount:  s.XSignalCount,
			MRSignalCount: s.MRSignalCount,
			Reason:        s.FailureReason,
		}
	}

	jsonData, _ := json.MarshalIndent(signals, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// processCSV runs the shared csv_data/filename/layout arguments through the
// engine. A non-nil tool result reports the failure to the caller.
func (h *toolHandler) processCSV(ctx context.Context, cfg *contract.Config, request mcp.CallToolRequest) (schema.ProcessingResult, *mcp.CallToolResult) {
	csvData := request.GetString("csv_data", "")
	if strings.TrimSpace(csvData) == "" {
		return schema.ProcessingResult{}, mcp.NewToolResultError("csv_data is required")
	}
	layout := schema.InputLayout(request.GetString("layout", string(schema.AutoLayout)))
	if _, ok := schema.ValidInputLayouts[layout]; !ok {
		return schema.ProcessingResult{}, mcp.NewToolResultError(fmt.Sprintf("invalid layout '%s'. must be auto, long, wide", layout))
	}

	result, err := core.ProcessCSV(core.WithSuppressHeader(ctx), cfg, h.mgr, csvData, request.GetString("filename", ""), layout)
	if err != nil {
		return schema.ProcessingResult{}, mcp.NewToolResultError(fmt.Sprintf("invalid CSV: %v", err))
	}
	if !result.Success {
		return result, mcp.NewToolResultError(fmt.Sprintf("processing failed: %s", result.Error))
	}
	return result, nil
}
