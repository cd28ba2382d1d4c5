// Package main provides a performance benchmarking tool for the greenarea CLI.
// It measures batch lookup times across input sizes, worker counts and history backends,
// running each case multiple times, treating the first successful run as cold and averaging
// the rest as warm, and writes a CSV for performance analysis and documentation.
//
// Prerequisites:
// - greenarea binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated input files and the SQLite history file
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the cold time and warm average of one benchmark case.
type BenchmarkResult struct {
	Backend  string
	Names    int
	Workers  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Runs        int
	Repeats     []int // How many times the full village list is repeated in one batch
	WorkerSteps []int
	Backends    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		Runs:        4,
		Repeats:     []int{1, 10, 90},
		WorkerSteps: []int{1, 4, 14},
		Backends:    []string{"none", "sqlite"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	villages, err := loadVillages()
	if err != nil {
		fmt.Printf("Failed to list villages: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d villages\n", len(villages))

	results := runBenchmarks(config, villages)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the greenarea binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("greenarea"); err != nil {
		return errors.New("greenarea binary not found in PATH")
	}
	if info, err := os.Stat(config.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("work dir %s is not a directory", config.WorkDir)
	}
	return nil
}

// loadVillages asks the binary for its reference set in CSV form.
func loadVillages() ([]string, error) {
	out, err := exec.Command("greenarea", "villages", "--output", "csv", "--limit", "100000").Output()
	if err != nil {
		return nil, err
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("no villages returned")
	}
	names := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		names = append(names, rec[1])
	}
	return names, nil
}

// writeInput writes the village list repeated n times as a batch input file.
func writeInput(dir string, villages []string, n int) (string, int, error) {
	var sb strings.Builder
	count := 0
	for range n {
		for _, v := range villages {
			sb.WriteString(v)
			sb.WriteByte('\n')
			count++
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("names_%d.txt", count))
	return path, count, os.WriteFile(path, []byte(sb.String()), 0o644)
}

// runBenchmarks executes every backend, input size and worker combination
func runBenchmarks(config BenchmarkConfig, villages []string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %v backends, %v repeats, %v workers, %d runs, %v timeout\n",
		config.Backends, config.Repeats, config.WorkerSteps, config.Runs, config.Timeout)

	historyDB := filepath.Join(config.WorkDir, "benchmark_history.db")
	defer func() { _ = os.Remove(historyDB) }()

	for _, repeat := range config.Repeats {
		input, count, err := writeInput(config.WorkDir, villages, repeat)
		if err != nil {
			fmt.Printf("Warning: failed to write input for %d repeats: %v\n", repeat, err)
			continue
		}
		for _, backend := range config.Backends {
			for _, workers := range config.WorkerSteps {
				fmt.Printf("Running batch of %d names, %d workers, %s history\n", count, workers, backend)
				result := runBenchmarkCase(config, input, backend, historyDB, count, workers)
				fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
				results = append(results, result)
			}
		}
	}
	return results
}

// runBenchmarkCase runs one batch configuration config.Runs times
func runBenchmarkCase(config BenchmarkConfig, input, backend, historyDB string, count, workers int) BenchmarkResult {
	args := []string{
		"batch",
		"--input-file", input,
		"--workers", strconv.Itoa(workers),
		"--output", "csv",
		"--output-file", os.DevNull,
		"--history-backend", backend,
	}
	if backend == "sqlite" {
		args = append(args, "--history-db-connect", historyDB)
	}

	var times []float64
	for range config.Runs {
		if elapsed, ok := runOnce(config.Timeout, args); ok {
			times = append(times, elapsed)
		}
	}

	result := BenchmarkResult{Backend: backend, Names: count, Workers: workers, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if warm := times[min(1, len(times)):]; len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}
	return result
}

// runOnce executes greenarea once and reports the elapsed seconds on success
func runOnce(timeout time.Duration, args []string) (float64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, "greenarea", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		fmt.Printf("  Run failed: %v\n%s", err, output)
		return 0, false
	}
	return time.Since(start).Seconds(), true
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("greenarea_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"backend", "names", "workers", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		record := []string{r.Backend, strconv.Itoa(r.Names), strconv.Itoa(r.Workers), r.ColdTime, r.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by backend
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, backend := range []string{"none", "sqlite"} {
		fmt.Printf("History backend %s:\n", backend)
		for _, r := range results {
			if r.Backend == backend {
				fmt.Printf("  %6d names, %2d workers: Cold: %s, Warm: %s\n", r.Names, r.Workers, r.ColdTime, r.WarmTime)
			}
		}
	}
}
