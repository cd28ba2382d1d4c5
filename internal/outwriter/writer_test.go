package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testSample() schema.MetricSample {
	return schema.MetricSample{
		ID:      "0b7c1f7e-6a55-5d1e-9a3c-2f0e4c8d9b11",
		Village: "Harkul Bk.",
		Region:  schema.Region{Tehsil: schema.DefaultTehsil, District: schema.DefaultDistrict},
		Values: []schema.MethodValue{
			{Method: schema.CNNMethod, Coverage: 65},
			{Method: schema.NDVIMethod, Coverage: 53},
			{Method: schema.GNDVIMethod, Coverage: 51},
			{Method: schema.EVIMethod, Coverage: 52},
			{Method: schema.SAVIMethod, Coverage: 50},
		},
		SampledAt: time.Date(2025, 2, 14, 9, 30, 0, 0, time.UTC),
	}
}

func testBatch() schema.BatchResult {
	sample := testSample()
	return schema.BatchResult{
		Results: []schema.LookupResult{
			{Input: "harkul bk.", Normalized: "Harkul Bk.", Found: true, Sample: &sample},
			{Input: "atlantis", Normalized: "Atlantis", Error: `village "Atlantis" not found in Kankavli dataset`},
		},
		Found:   1,
		Missing: 1,
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		Precision:      1,
		Workers:        4,
		Width:          120,
		Output:         schema.TextOut,
		HistoryBackend: schema.NoneBackend,
	}
}

func TestWriteSearchText(t *testing.T) {
	var buf bytes.Buffer
	err := writeSearchText(&buf, testSample(), testConfig(), createFormatter(1), 2*time.Millisecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Harkul Bk.")
	assert.Contains(t, out, "Tehsil: Kankavli | District: Sindhudurg")
	assert.Contains(t, out, "Green cover (CNN): 65.0% Green")
	assert.Contains(t, out, "+12.0% vs NDVI")
	assert.Contains(t, out, "53.0%")
	assert.Contains(t, out, "+15.0") // CNN lead over SAVI
	assert.Contains(t, out, "Sample 0b7c1f7e-6a55-5d1e-9a3c-2f0e4c8d9b11 simulated in")
}

func TestWriteCSVSample(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVSample(&buf, testSample(), createFormatter(2)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)

	assert.Equal(t, []string{"village", "tehsil", "district", "method", "coverage", "label", "sample_id", "sampled_at"}, records[0])
	assert.Equal(t, "CNN", records[1][3])
	assert.Equal(t, "65.00", records[1][4])
	assert.Equal(t, "Green", records[1][5])
	assert.Equal(t, "2025-02-14T09:30:00Z", records[1][7])
	assert.Equal(t, "SAVI", records[5][3])
	assert.Equal(t, "Sparse", records[5][5])
}

func TestWriteBatchTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeBatchTable(&buf, testBatch(), testConfig(), createFormatter(1), time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Harkul Bk.")
	assert.Contains(t, out, "Atlantis")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "65.0")
	assert.Contains(t, out, "Found 1 of 2 villages (1 not found)")
	assert.Contains(t, out, "with 4 workers. History backend: none")
	assert.Less(t, strings.Index(out, "Harkul Bk."), strings.Index(out, "Atlantis"))
}

func TestWriteCSVBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVBatch(&buf, testBatch(), createFormatter(1)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"rank", "input", "village", "found", "CNN", "NDVI", "GNDVI", "EVI", "SAVI", "label", "sample_id", "error"}, records[0])
	assert.Equal(t, []string{"1", "harkul bk.", "Harkul Bk.", "true", "65.0", "53.0", "51.0", "52.0", "50.0", "Green", testSample().ID, ""}, records[1])
	assert.Equal(t, "false", records[2][3])
	assert.Empty(t, records[2][4])
	assert.Contains(t, records[2][11], "not found")
}

func TestWriteVillagesTable(t *testing.T) {
	list := villageList{
		Region:   schema.Region{Tehsil: "Kankavli", District: "Sindhudurg"},
		Total:    3,
		Villages: []string{"Harkul Bk.", "Harkul Kh."},
	}
	var buf bytes.Buffer
	require.NoError(t, writeVillagesTable(&buf, list, testConfig()))

	out := buf.String()
	assert.Contains(t, out, "Harkul Kh.")
	assert.Contains(t, out, "Showing 2 of 3 villages in Kankavli, Sindhudurg")
}

func TestWriteCSVVillages(t *testing.T) {
	list := villageList{Region: schema.Region{Tehsil: "Kankavli", District: "Sindhudurg"}, Total: 1, Villages: []string{"Berle"}}
	var buf bytes.Buffer
	require.NoError(t, writeCSVVillages(&buf, list))
	assert.Equal(t, "rank,village,tehsil,district\n1,Berle,Kankavli,Sindhudurg\n", buf.String())
}

func TestWriteAccuracyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAccuracyTable(&buf, schema.AccuracyBenchmark, createFormatter(1)))

	out := buf.String()
	assert.Contains(t, out, "CNN (U-Net)")
	assert.Contains(t, out, "94.0%")
	assert.Contains(t, out, "76.3%")
	assert.Contains(t, out, strings.Repeat("█", 18))
}

func TestWriteCSVAccuracy(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVAccuracy(&buf, schema.AccuracyBenchmark[:2], createFormatter(1)))
	assert.Equal(t, "method,display_name,accuracy\nCNN,CNN (U-Net),94.0\nNDVI,NDVI,78.9\n", buf.String())
}

func TestPrintBatchResults_JSONFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "batch.json")

	require.NoError(t, PrintBatchResults(testBatch(), cfg, time.Second))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded schema.BatchResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "Harkul Bk.", decoded.Results[0].Sample.Village)
	assert.Nil(t, decoded.Results[1].Sample)
	assert.Equal(t, 1, decoded.Missing)
}

func TestPrintSearchResult_Parquet(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "search.parquet")

	require.NoError(t, PrintSearchResult(testSample(), cfg, time.Second))
	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPrintSearchResult_ParquetRequiresFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.ParquetOut
	assert.Error(t, PrintSearchResult(testSample(), cfg, time.Second))
}

func TestPrintVillagesAndAccuracy_ParquetUnsupported(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.ParquetOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.parquet")

	assert.ErrorContains(t, PrintVillages([]string{"Berle"}, 1, schema.Region{}, cfg), "only supported for search and batch")
	assert.ErrorContains(t, PrintAccuracy(schema.AccuracyBenchmark, cfg), "only supported for search and batch")
}

func TestPrintAccuracy_CSVFile(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "accuracy.csv")

	require.NoError(t, PrintAccuracy(schema.AccuracyBenchmark, cfg))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(data), "\n"))
}

func TestWriteWithFileLogsShortenedPath(t *testing.T) {
	logCore, logs := observer.New(zapcore.InfoLevel)
	contract.SetLogger(zap.New(logCore))
	defer contract.SetLogger(nil)

	dir := filepath.Join(t.TempDir(), strings.Repeat("nested-directory-", 4))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "villages.csv")
	require.Greater(t, len(path), maxLoggedPathWidth)

	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "rank,village\n")
		return err
	}, "Wrote CSV")
	require.NoError(t, err)

	entries := logs.FilterMessage("Wrote CSV").All()
	require.Len(t, entries, 1)
	logged := entries[0].ContextMap()["file"].(string)
	assert.Len(t, []rune(logged), maxLoggedPathWidth)
	assert.True(t, strings.HasPrefix(logged, "..."))
	assert.True(t, strings.HasSuffix(logged, "villages.csv"))
}

func TestLoggedPathKeepsShortPaths(t *testing.T) {
	assert.Equal(t, "out/batch.json", loggedPath("out/batch.json"))
}
