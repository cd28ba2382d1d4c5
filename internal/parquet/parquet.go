// Package parquet provides data structures and functions for exporting greenarea
// lookup data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/kankavli/greenarea/schema"
	"github.com/parquet-go/parquet-go"
)

// LookupRun represents a single search or batch run with metadata.
// This struct maps to the greenarea_lookup_runs database table.
type LookupRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalLookups int32 `parquet:"total_lookups,snappy"`
	TotalFound   int32 `parquet:"total_found,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// LookupSample represents the outcome of one lookup. Coverage columns are null
// when the name did not match a village.
// This struct maps to the greenarea_lookup_samples database table.
type LookupSample struct {
	RunID      int64     `parquet:"run_id,snappy"`
	SampleID   *string   `parquet:"sample_id,optional,snappy"`
	Input      string    `parquet:"input_name,snappy"`
	Village    string    `parquet:"village,snappy"`
	Found      bool      `parquet:"found,snappy"`
	LookupTime time.Time `parquet:"lookup_time,snappy"`
	CNN        *float64  `parquet:"cnn,optional,snappy"`
	NDVI       *float64  `parquet:"ndvi,optional,snappy"`
	GNDVI      *float64  `parquet:"gndvi,optional,snappy"`
	EVI        *float64  `parquet:"evi,optional,snappy"`
	SAVI       *float64  `parquet:"savi,optional,snappy"`
}

// writeParquet writes rows to a Parquet file whose schema is derived from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteLookupRunsParquet writes a slice of LookupRun structs to a Parquet file.
func WriteLookupRunsParquet(data []LookupRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteLookupSamplesParquet writes a slice of LookupSample structs to a Parquet file.
func WriteLookupSamplesParquet(data []LookupSample, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertLookupRunRecords converts schema.LookupRunRecord to LookupRun for Parquet export.
func ConvertLookupRunRecords(records []schema.LookupRunRecord) []LookupRun {
	result := make([]LookupRun, len(records))
	for i, record := range records {
		result[i] = LookupRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalLookups:  record.TotalLookups,
			TotalFound:    record.TotalFound,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertLookupSampleRecords converts schema.LookupSampleRecord to LookupSample for Parquet export.
func ConvertLookupSampleRecords(records []schema.LookupSampleRecord) []LookupSample {
	result := make([]LookupSample, len(records))
	for i, record := range records {
		var sampleID *string
		if record.SampleID != "" {
			id := record.SampleID
			sampleID = &id
		}
		result[i] = LookupSample{
			RunID:      record.RunID,
			SampleID:   sampleID,
			Input:      record.Input,
			Village:    record.Village,
			Found:      record.Found,
			LookupTime: record.LookupTime,
			CNN:        record.CNN,
			NDVI:       record.NDVI,
			GNDVI:      record.GNDVI,
			EVI:        record.EVI,
			SAVI:       record.SAVI,
		}
	}
	return result
}

// ConvertLookupResults flattens lookup outcomes that were never persisted. Found
// results carry their sample time; misses are stamped with at.
func ConvertLookupResults(results []schema.LookupResult, at time.Time) []LookupSample {
	records := make([]schema.LookupSampleRecord, len(results))
	for i, r := range results {
		stamp := at
		if r.Sample != nil && !r.Sample.SampledAt.IsZero() {
			stamp = r.Sample.SampledAt
		}
		records[i] = schema.NewLookupSampleRecord(0, r, stamp)
	}
	return ConvertLookupSampleRecords(records)
}
