package schema

import "time"

// LookupRunRecord represents a row from the greenarea_lookup_runs table.
type LookupRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalLookups  int32
	TotalFound    int32
	ConfigParams  *string
}

// NewLookupSampleRecord flattens a lookup outcome into a history row.
func NewLookupSampleRecord(runID int64, r LookupResult, at time.Time) LookupSampleRecord {
	rec := LookupSampleRecord{
		RunID:      runID,
		Input:      r.Input,
		Village:    r.Normalized,
		Found:      r.Found,
		LookupTime: at,
	}
	if r.Sample == nil {
		return rec
	}
	rec.SampleID = r.Sample.ID
	rec.Village = r.Sample.Village
	for _, v := range r.Sample.Values {
		coverage := v.Coverage
		switch v.Method {
		case CNNMethod:
			rec.CNN = &coverage
		case NDVIMethod:
			rec.NDVI = &coverage
		case GNDVIMethod:
			rec.GNDVI = &coverage
		case EVIMethod:
			rec.EVI = &coverage
		case SAVIMethod:
			rec.SAVI = &coverage
		}
	}
	return rec
}
