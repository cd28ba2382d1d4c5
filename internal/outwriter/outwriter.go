// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
)

// PrintSearchResult prints one village sample using the configured output format.
func PrintSearchResult(sample schema.MetricSample, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, sample)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSample(w, sample, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		res := schema.LookupResult{Input: sample.Village, Normalized: sample.Village, Found: true, Sample: &sample}
		return writeLookupsParquet([]schema.LookupResult{res}, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSearchText(w, sample, cfg, fmtFloat, duration)
		}, "Wrote text")
	}
}

// PrintBatchResults prints batch outcomes in input order using the configured output format.
func PrintBatchResults(batch schema.BatchResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, batch)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVBatch(w, batch, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeLookupsParquet(batch.Results, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, batch, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// PrintVillages prints the reference names. total is the number of matches before
// the result limit was applied.
func PrintVillages(names []string, total int, region schema.Region, cfg *contract.Config) error {
	list := villageList{Region: region, Total: total, Villages: names}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, list)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVVillages(w, list)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only supported for search and batch")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeVillagesTable(w, list, cfg)
		}, "Wrote table")
	}
}

// PrintAccuracy prints the accuracy benchmark of each method.
func PrintAccuracy(rows []schema.AccuracyRow, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVAccuracy(w, rows, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only supported for search and batch")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAccuracyTable(w, rows, fmtFloat)
		}, "Wrote table")
	}
}
