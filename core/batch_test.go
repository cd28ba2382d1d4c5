package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/internal/iocache"
	"github.com/kankavli/greenarea/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRunBatch_OrderAndMisses(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := newTestConfig()
	svc, err := NewService(cfg)
	require.NoError(t, err)

	names := []string{" berle", "Atlantis", "harkul kh.", "gandhinagar", "berle"}
	batch, err := RunBatch(context.Background(), cfg, nil, svc, names)
	require.NoError(t, err)

	require.Len(t, batch.Results, len(names))
	assert.Equal(t, 4, batch.Found)
	assert.Equal(t, 1, batch.Missing)

	expected := []string{"Berle", "Atlantis", "Harkul Kh.", "Gandhinagar", "Berle"}
	for i, res := range batch.Results {
		assert.Equal(t, names[i], res.Input)
		assert.Equal(t, expected[i], res.Normalized)
	}

	miss := batch.Results[1]
	assert.False(t, miss.Found)
	assert.Nil(t, miss.Sample)
	assert.Contains(t, miss.Error, "not found in Kankavli dataset")

	for _, res := range batch.Results {
		if res.Found {
			assertSampleInvariant(t, *res.Sample)
		}
	}
}

func TestRunBatch_SeededIndependentOfWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	names := village100()
	var runs []schema.BatchResult
	for _, workers := range []int{1, 3, 16} {
		cfg := seededConfig(2024)
		cfg.Workers = workers
		svc, err := NewService(cfg)
		require.NoError(t, err)
		batch, err := RunBatch(context.Background(), cfg, nil, svc, names)
		require.NoError(t, err)
		runs = append(runs, batch)
	}

	for _, other := range runs[1:] {
		require.Len(t, other.Results, len(runs[0].Results))
		for i, want := range runs[0].Results {
			got := other.Results[i]
			require.Equal(t, want.Found, got.Found, "item %d", i)
			if !want.Found {
				continue
			}
			assert.Equal(t, want.Sample.Values, got.Sample.Values, "item %d", i)
			assert.Equal(t, want.Sample.ID, got.Sample.ID, "item %d", i)
		}
	}
}

func TestRunBatch_SeedPerItem(t *testing.T) {
	cfg := seededConfig(99)
	svc, err := NewService(cfg)
	require.NoError(t, err)

	batch, err := RunBatch(context.Background(), cfg, nil, svc, []string{"Berle", "Berle"})
	require.NoError(t, err)

	// Same village, different items: different draws
	assert.NotEqual(t, batch.Results[0].Sample.Values, batch.Results[1].Sample.Values)

	// The first item draws from the unshifted seed, like a seeded search
	search, err := NewService(cfg)
	require.NoError(t, err)
	sample, err := RunSearch(context.Background(), cfg, nil, search, "Berle")
	require.NoError(t, err)
	assert.Equal(t, sample.Values, batch.Results[0].Sample.Values)
}

func TestRunBatch_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := newTestConfig()
	svc, err := NewService(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = RunBatch(ctx, cfg, nil, svc, village100())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBatch_Limits(t *testing.T) {
	cfg := newTestConfig()
	svc, err := NewService(cfg)
	require.NoError(t, err)

	_, err = RunBatch(context.Background(), cfg, nil, svc, nil)
	assert.ErrorContains(t, err, "no village names given")

	tooMany := make([]string, contract.MaxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = "Berle"
	}
	_, err = RunBatch(context.Background(), cfg, nil, svc, tooMany)
	assert.ErrorContains(t, err, "exceeds the limit")
}

func TestRunBatch_ZeroWorkers(t *testing.T) {
	cfg := newTestConfig()
	cfg.Workers = 0
	svc, err := NewService(cfg)
	require.NoError(t, err)

	batch, err := RunBatch(context.Background(), cfg, nil, svc, []string{"Berle"})
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Found)
}

func TestRunBatch_RecordsHistoryInOrder(t *testing.T) {
	cfg := newTestConfig()
	svc, err := NewService(cfg)
	require.NoError(t, err)

	store := &iocache.MockHistoryStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetHistoryStore").Return(store)
	store.On("BeginRun", mock.Anything, mock.MatchedBy(func(p map[string]any) bool {
		return p["workers"] == 4
	})).Return(int64(11), nil)

	var recorded []string
	store.On("RecordLookup", int64(11), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			recorded = append(recorded, args.Get(1).(schema.LookupResult).Normalized)
		}).
		Return(nil)
	store.On("EndRun", int64(11), mock.Anything, 3, 2).Return(nil)

	_, err = RunBatch(context.Background(), cfg, mgr, svc, []string{"berle", "nowhere", "ayanal"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Berle", "Nowhere", "Ayanal"}, recorded)
	store.AssertExpectations(t)
}

func TestReadNames(t *testing.T) {
	input := "# villages to check\nBerle\n\n  harkul bk.  \n#Atlantis\nAyanal\n"
	names, err := ReadNames(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Berle", "harkul bk.", "Ayanal"}, names)

	names, err = ReadNames(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCollectNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("Ayanal\n# skip\nBerle\n"), 0o644))

	cfg := newTestConfig()
	names, err := CollectNames(cfg, []string{"gandhinagar", "  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"gandhinagar"}, names)

	cfg.InputFile = path
	names, err = CollectNames(cfg, []string{"gandhinagar"})
	require.NoError(t, err)
	assert.Equal(t, []string{"gandhinagar", "Ayanal", "Berle"}, names)

	cfg.InputFile = filepath.Join(t.TempDir(), "missing.txt")
	_, err = CollectNames(cfg, nil)
	assert.ErrorContains(t, err, "failed to open input file")
}

func TestExecuteBatch_CSV(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := seededConfig(5)
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "batch.csv")

	require.NoError(t, ExecuteBatch(context.Background(), cfg, nil, []string{"berle", "atlantis"}))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,berle,Berle,true,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,atlantis,Atlantis,false,"))
}

func TestExecuteBatch_NoNames(t *testing.T) {
	err := ExecuteBatch(context.Background(), newTestConfig(), nil, nil)
	assert.ErrorContains(t, err, "no village names given")
}

// village100 returns 100 names cycling through the reference set, plus a few misses.
func village100() []string {
	refs := []string{"Berle", "Ayanal", "Gandhinagar", "Harkul Bk.", "Harkul Kh."}
	names := make([]string, 0, 100)
	for i := range 100 {
		if i%17 == 0 {
			names = append(names, fmt.Sprintf("Unknown %d", i))
			continue
		}
		names = append(names, strings.ToLower(refs[i%len(refs)]))
	}
	return names
}
