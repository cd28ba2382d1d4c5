package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kankavli/greenarea/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleRuns() []LookupRun {
	start := time.Date(2025, 3, 1, 9, 0, 0, 123456789, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	return []LookupRun{
		{
			RunID:         1,
			StartTime:     start,
			EndTime:       &end,
			RunDurationMs: ptr(int32(1500)),
			TotalLookups:  3,
			TotalFound:    2,
			ConfigParams:  ptr(`{"workers":4}`),
		},
		{
			RunID:        2,
			StartTime:    start.Add(time.Hour),
			TotalLookups: 0,
		},
	}
}

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestLookupRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(LookupRun))
	require.NotNil(t, s)

	for _, colName := range []string{"run_id", "start_time", "end_time", "run_duration_ms", "total_lookups", "total_found", "config_params"} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestLookupSampleStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(LookupSample))
	require.NotNil(t, s)

	for _, colName := range []string{"run_id", "sample_id", "input_name", "village", "found", "lookup_time", "cnn", "ndvi", "gndvi", "evi", "savi"} {
		_, ok := s.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteLookupRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := sampleRuns()

	require.NoError(t, WriteLookupRunsParquet(data, outputPath))

	got := readAll[LookupRun](t, outputPath)
	require.Len(t, got, len(data))
	for i := range data {
		assert.Equal(t, data[i].RunID, got[i].RunID)
		assert.Equal(t, data[i].TotalLookups, got[i].TotalLookups)
		assert.WithinDuration(t, data[i].StartTime, got[i].StartTime, time.Microsecond)
		if data[i].EndTime == nil {
			assert.Nil(t, got[i].EndTime)
		} else {
			require.NotNil(t, got[i].EndTime)
			assert.WithinDuration(t, *data[i].EndTime, *got[i].EndTime, time.Microsecond)
		}
		assert.Equal(t, data[i].ConfigParams, got[i].ConfigParams)
	}
}

func TestWriteLookupSamplesParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "samples.parquet")
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	data := []LookupSample{
		{RunID: 1, SampleID: ptr("abc"), Input: "berle", Village: "Berle", Found: true, LookupTime: at,
			CNN: ptr(70.0), NDVI: ptr(58.0), GNDVI: ptr(56.0), EVI: ptr(57.0), SAVI: ptr(55.0)},
		{RunID: 1, Input: "atlantis", Village: "Atlantis", Found: false, LookupTime: at},
	}

	require.NoError(t, WriteLookupSamplesParquet(data, outputPath))

	got := readAll[LookupSample](t, outputPath)
	require.Len(t, got, 2)
	assert.True(t, got[0].Found)
	require.NotNil(t, got[0].CNN)
	assert.Equal(t, 70.0, *got[0].CNN)
	assert.Equal(t, "abc", *got[0].SampleID)
	assert.False(t, got[1].Found)
	assert.Nil(t, got[1].CNN)
	assert.Nil(t, got[1].SampleID)
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteLookupRunsParquet(nil, outputPath))
	_, err := os.Stat(outputPath)
	assert.NoError(t, err)
	assert.Empty(t, readAll[LookupRun](t, outputPath))
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteLookupSamplesParquet(nil, filepath.Join(t.TempDir(), "missing", "dir", "out.parquet"))
	assert.Error(t, err)
}

func TestConvertLookupRunRecords(t *testing.T) {
	start := time.Now()
	records := []schema.LookupRunRecord{{RunID: 7, StartTime: start, TotalLookups: 4, TotalFound: 3}}
	got := ConvertLookupRunRecords(records)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].RunID)
	assert.Equal(t, int32(3), got[0].TotalFound)
	assert.Nil(t, got[0].EndTime)
}

func TestConvertLookupResults(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	sampledAt := at.Add(-time.Minute)
	results := []schema.LookupResult{
		{
			Input: " berle", Normalized: "Berle", Found: true,
			Sample: &schema.MetricSample{
				ID: "id-1", Village: "Berle", SampledAt: sampledAt,
				Values: []schema.MethodValue{
					{Method: schema.CNNMethod, Coverage: 66},
					{Method: schema.NDVIMethod, Coverage: 54},
				},
			},
		},
		{Input: "nowhere", Normalized: "Nowhere", Error: "not found"},
	}

	got := ConvertLookupResults(results, at)
	require.Len(t, got, 2)

	assert.Equal(t, "Berle", got[0].Village)
	assert.Equal(t, sampledAt, got[0].LookupTime)
	require.NotNil(t, got[0].SampleID)
	assert.Equal(t, "id-1", *got[0].SampleID)
	assert.Equal(t, 66.0, *got[0].CNN)
	assert.Equal(t, 54.0, *got[0].NDVI)
	assert.Nil(t, got[0].SAVI)

	assert.Equal(t, "Nowhere", got[1].Village)
	assert.Equal(t, at, got[1].LookupTime)
	assert.False(t, got[1].Found)
	assert.Nil(t, got[1].SampleID)
}
