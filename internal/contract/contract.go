// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/kankavli/greenarea/schema"
)

// StoreManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking lookup runs and their outcomes.
type HistoryStore interface {
	// BeginRun creates a new lookup run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordLookup stores the outcome of one lookup inside a run
	RecordLookup(runID int64, result schema.LookupResult, at time.Time) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalLookups, totalFound int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.LookupRunRecord, error)

	// GetAllSamples returns every recorded lookup, ordered by run
	GetAllSamples() ([]schema.LookupSampleRecord, error)

	// Close closes the underlying connection
	Close() error
}
