package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/xmr/core/algo"
	"github.com/huangsam/xmr/internal/contract"
	mcp_internal "github.com/huangsam/xmr/internal/mcp"
	"github.com/huangsam/xmr/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Params:  algo.DefaultParams(),
		Workers: 2,
		Layout:  schema.AutoLayout,
		Seed:    42,
	}
}

func stationCSV(station, measure string, n int) string {
	var sb strings.Builder
	sb.WriteString("station,measure,date,value\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		fmt.Fprintf(&sb, "%s,%s,%s,%d\n", station, measure, start.AddDate(0, 0, i).Format(time.DateOnly), 10+i%2*2)
	}
	return sb.String()
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var mgr contract.StoreManager
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"process_csv missing csv_data", "process_csv", map[string]any{"csv_data": ""}, "csv_data is required"},
		{"signal_summary missing csv_data", "signal_summary", map[string]any{}, "csv_data is required"},
		{"process_csv invalid run_length", "process_csv", map[string]any{"csv_data": "a,b\n", "run_length": 1.0}, "run length must be at least 2"},
		{"process_csv invalid layout", "process_csv", map[string]any{"csv_data": "a,b\n", "layout": "diagonal"}, "invalid layout"},
		{"process_csv missing columns", "process_csv", map[string]any{"csv_data": "foo,bar\n1,2\n"}, "invalid CSV"},
		{"process_csv no valid rows", "process_csv", map[string]any{"csv_data": "station,measure,date,value\nAustin,Delay,2024-01-01,oops\n"}, "processing failed"},
		{"demo_charts negative seed", "demo_charts", map[string]any{"seed": -1.0}, "seed must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tt.want)
		})
	}
}

func TestMCPServerHandlers_ProcessCSV(t *testing.T) {
	res := callTool(t, "process_csv", map[string]any{
		"csv_data": stationCSV("Austin", "Turnaround Time", 25),
		"layout":   "long",
	})
	require.False(t, res.IsError, text(res))

	var result schema.ProcessingResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &result))
	assert.True(t, result.Success)
	assert.Equal(t, []string{"AUS"}, result.Entities)
	payload := result.ChartData["AUS"]["Turnaround Time"]
	require.Len(t, payload.Phases, 1)
	assert.Len(t, payload.Points, 25)
}

func TestMCPServerHandlers_ProcessCSVOverrides(t *testing.T) {
	res := callTool(t, "process_csv", map[string]any{
		"csv_data":     stationCSV("Dallas", "Delay", 12),
		"min_baseline": 5.0,
		"run_length":   4.0,
	})
	require.False(t, res.IsError, text(res))
	assert.Contains(t, text(res), `"DAL"`)
}

func TestMCPServerHandlers_DemoCharts(t *testing.T) {
	first := callTool(t, "demo_charts", map[string]any{"seed": 7.0})
	second := callTool(t, "demo_charts", map[string]any{"seed": 7.0})
	require.False(t, first.IsError, text(first))
	assert.JSONEq(t, text(first), text(second), "equal seeds should chart equal data")

	defaultSeed := callTool(t, "demo_charts", map[string]any{})
	require.False(t, defaultSeed.IsError, text(defaultSeed))
	assert.Contains(t, text(defaultSeed), `"success": true`)
}

func TestMCPServerHandlers_SignalSummary(t *testing.T) {
	csvData := stationCSV("Austin", "Turnaround Time", 25) +
		strings.TrimPrefix(stationCSV("Houston", "Turnaround Time", 3), "station,measure,date,value\n")
	res := callTool(t, "signal_summary", map[string]any{"csv_data": csvData})
	require.False(t, res.IsError, text(res))

	var signals []mcp_internal.ChartSignal
	require.NoError(t, json.Unmarshal([]byte(text(res)), &signals))
	require.Len(t, signals, 2)
	for _, s := range signals {
		assert.Equal(t, "Turnaround Time", s.Metric)
		assert.Equal(t, contract.StableValue, s.Status)
		assert.Equal(t, 1, s.Phases)
		assert.Empty(t, s.Reason)
	}
	assert.ElementsMatch(t, []string{"AUS", "HOU"}, []string{signals[0].Entity, signals[1].Entity})
}
