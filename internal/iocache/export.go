package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/internal/parquet"
)

// ExecuteHistoryExport exports every recorded run and lookup to two Parquet files
// named after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no lookup history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total lookup runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total lookup records: %d\n", status.TableSizes[lookupSamplesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve lookup runs: %w", err)
	}
	samples, err := store.GetAllSamples()
	if err != nil {
		return fmt.Errorf("failed to retrieve lookup samples: %w", err)
	}

	runsFile := outputFile + ".lookup_runs.parquet"
	parquetRuns := parquet.ConvertLookupRunRecords(runs)
	if err := parquet.WriteLookupRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write lookup runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d lookup runs to: %s\n", len(parquetRuns), runsFile)

	samplesFile := outputFile + ".lookup_samples.parquet"
	parquetSamples := parquet.ConvertLookupSampleRecords(samples)
	if err := parquet.WriteLookupSamplesParquet(parquetSamples, samplesFile); err != nil {
		return fmt.Errorf("failed to write lookup samples: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d lookup records to: %s\n", len(parquetSamples), samplesFile)

	return nil
}
