package iocache

import (
	"time"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordLookup implements the HistoryStore interface.
func (m *MockHistoryStore) RecordLookup(runID int64, result schema.LookupResult, at time.Time) error {
	args := m.Called(runID, result, at)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalLookups, totalFound int) error {
	args := m.Called(runID, endTime, totalLookups, totalFound)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.LookupRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.LookupRunRecord)
	return runs, args.Error(1)
}

// GetAllSamples implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSamples() ([]schema.LookupSampleRecord, error) {
	args := m.Called()
	samples, _ := args.Get(0).([]schema.LookupSampleRecord)
	return samples, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
