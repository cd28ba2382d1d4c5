// Package core has core logic for village lookups, batches and history tracking.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kankavli/greenarea/core/sim"
	"github.com/kankavli/greenarea/core/village"
	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/internal/outwriter"
	"github.com/kankavli/greenarea/schema"
)

// ExecutorFunc defines the function signature for executing commands that only need config.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteSearch looks up a single village and prints its card.
// Multiple names are joined with spaces, so unquoted multi-word names still work.
func ExecuteSearch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, names ...string) error {
	start := time.Now()
	svc, err := NewService(cfg)
	if err != nil {
		return err
	}
	sample, err := RunSearch(ctx, cfg, mgr, svc, strings.Join(names, " "))
	if err != nil {
		return err
	}
	return outwriter.PrintSearchResult(sample, cfg, time.Since(start))
}

// ExecuteBatch looks up every name from args and --input-file and prints one row per name.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, names []string) error {
	start := time.Now()
	all, err := CollectNames(cfg, names)
	if err != nil {
		return err
	}
	svc, err := NewService(cfg)
	if err != nil {
		return err
	}
	batch, err := RunBatch(ctx, cfg, mgr, svc, all)
	if err != nil {
		return err
	}
	return outwriter.PrintBatchResults(batch, cfg, time.Since(start))
}

// ExecuteVillages lists the reference names matching --filter.
func ExecuteVillages(ctx context.Context, cfg *contract.Config) error {
	refs, err := LoadReferences(cfg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	names, total := ListVillages(cfg, refs)
	return outwriter.PrintVillages(names, total, refs.Region(), cfg)
}

// ExecuteAccuracy prints the static accuracy benchmark of each method.
func ExecuteAccuracy(ctx context.Context, cfg *contract.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return outwriter.PrintAccuracy(schema.AccuracyBenchmark, cfg)
}

// LoadReferences returns the reference set named by --villages-file, or the built-in one.
func LoadReferences(cfg *contract.Config) (*village.ReferenceSet, error) {
	if cfg.VillagesFile == "" {
		return village.DefaultReferenceSet(), nil
	}
	refs, err := village.LoadReferenceFile(cfg.VillagesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load villages file: %w", err)
	}
	contract.Logger().Sugar().Debugf("Loaded %d villages from %s", refs.Len(), cfg.VillagesFile)
	return refs, nil
}

// NewService builds the lookup service for cfg. With --seed the service draws from a
// seeded source, otherwise from the process-wide generator.
func NewService(cfg *contract.Config, opts ...village.Option) (*village.Service, error) {
	refs, err := LoadReferences(cfg)
	if err != nil {
		return nil, err
	}
	params := cfg.Simulation
	if len(params.Derivations) == 0 {
		params = sim.DefaultParams()
	}
	var src sim.Source
	if cfg.HasSeed {
		src = sim.NewSeededSource(cfg.Seed)
	}
	simulator, err := sim.NewSimulator(params, src)
	if err != nil {
		return nil, err
	}
	return village.NewService(refs, simulator, opts...)
}

// RunSearch performs one tracked lookup. A miss is returned as an error that matches
// village.ErrNotFound.
func RunSearch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, svc *village.Service, name string) (schema.MetricSample, error) {
	if err := ctx.Err(); err != nil {
		return schema.MetricSample{}, err
	}
	if strings.TrimSpace(name) == "" {
		return schema.MetricSample{}, errors.New("village name is required")
	}

	ctx = beginTracking(ctx, cfg, mgr)
	sample, err := svc.Lookup(name)
	res := schema.LookupResult{Input: name, Normalized: village.Normalize(name)}
	if err != nil {
		res.Error = err.Error()
	} else {
		res.Normalized = sample.Village
		res.Found = true
		res.Sample = &sample
	}
	recordLookups(ctx, mgr, res)
	endTracking(ctx, mgr, []schema.LookupResult{res})

	if err != nil {
		return schema.MetricSample{}, err
	}
	contract.Logger().Sugar().Debugf("Resolved %q to %s", name, sample.Village)
	return sample, nil
}

// ListVillages applies the prefix filter and result limit. It also returns how many
// names matched before the limit.
func ListVillages(cfg *contract.Config, refs *village.ReferenceSet) ([]string, int) {
	names := refs.Filter(cfg.Filter)
	total := len(names)
	if cfg.ResultLimit > 0 && len(names) > cfg.ResultLimit {
		names = names[:cfg.ResultLimit]
	}
	return names, total
}
