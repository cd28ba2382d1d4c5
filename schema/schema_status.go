package schema

import "time"

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalLookups  int              `json:"total_lookups"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// LookupSampleRecord represents a row from the greenarea_lookup_samples table.
// Coverage columns are nil when the lookup did not match a village.
type LookupSampleRecord struct {
	RunID      int64
	SampleID   string
	Input      string
	Village    string
	Found      bool
	LookupTime time.Time
	CNN        *float64
	NDVI       *float64
	GNDVI      *float64
	EVI        *float64
	SAVI       *float64
}
