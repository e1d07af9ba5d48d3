// Package main provides a performance benchmarking tool for the xmr CLI.
// It generates demo datasets of increasing length, charts each of them several
// times with and without run tracking, treating the first tracked run as cold
// and averaging the rest as warm, and writes the timings to CSV.
//
// Prerequisites:
// - xmr binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated datasets and the tracking database
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/xmr/internal/demo"
)

// BenchmarkResult holds the result of a benchmark run (untracked average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	Records     int
	NoTrackTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Workers     int
	NoTrackRuns int
	TrackRuns   int
	Days        []int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		Workers:     8,
		NoTrackRuns: 3,
		TrackRuns:   4,
		Days:        []int{60, 365, 1825, 3650},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the xmr binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("xmr"); err != nil {
		return errors.New("xmr binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks generates one dataset per length and benchmarks it
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, untracked: %d runs, tracked: %d runs\n",
		len(config.Days), config.Timeout, config.Workers, config.NoTrackRuns, config.TrackRuns)

	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, days := range config.Days {
		name := fmt.Sprintf("demo_%dd", days)
		path := filepath.Join(config.WorkDir, name+".csv")
		opts := demo.Options{Seed: uint64(days), End: end, Days: days}
		if err := os.WriteFile(path, []byte(demo.CSV(opts)), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write dataset %s: %w", path, err)
		}
		records := days * len(demo.Stations) * len(demo.Metrics)
		fmt.Printf("Benchmarking %s (%d records)\n", name, records)

		results = append(results,
			runBenchmarkSuite(config, name, records, "chart", []string{"chart", path, "--output", "json"}),
			runBenchmarkSuite(config, name, records, "chart-wide-rule", []string{"chart", path, "--output", "json", "--run-length", "6", "--min-baseline", "12"}),
		)
	}
	return results, nil
}

// runBenchmarkSuite runs both untracked and tracked benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset string, records int, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)
	dbPath := filepath.Join(config.WorkDir, "xmr_benchmark.db")
	_ = os.Remove(dbPath)

	runPhase := func(trackArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, append(append([]string{}, args...), trackArgs...), numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noTrackAvg := runPhase(nil, config.NoTrackRuns, "Untracked")
	coldTime, warmAvg := runPhase([]string{"--analysis-backend", "sqlite", "--analysis-db-connect", dbPath}, config.TrackRuns, "Tracked")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  Untracked average: %s, Cold time: %s, Warm average: %s\n", noTrackAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		Records:     records,
		NoTrackTime: noTrackAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes an xmr command multiple times and returns the first
// successful time and the remaining ones
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args = append(args, "--workers", strconv.Itoa(config.Workers), "--output-file", os.DevNull)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "xmr", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err != nil {
			fmt.Printf("    run failed: %v\n%s", err, output)
			continue
		}
		times = append(times, elapsed)
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("xmr_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "records", "untracked_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		row := []string{result.Dataset, result.Command, strconv.Itoa(result.Records), result.NoTrackTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	printCommandSummary(results, "chart", "Chart (default rule):")
	printCommandSummary(results, "chart-wide-rule", "Chart (run length 6, baseline 12):")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s %8d records: Untracked: %s, Cold: %s, Warm: %s\n",
				result.Dataset, result.Records, result.NoTrackTime, result.ColdTime, result.WarmTime)
		}
	}
}
