package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kankavli/greenarea/core/sim"
	"github.com/kankavli/greenarea/core/village"
	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	"golang.org/x/sync/errgroup"
)

// RunBatch resolves every name on a bounded worker pool and returns the outcomes in
// input order. Misses are reported per item and never abort the batch.
// With a seed, item i draws from a source seeded with seed+i, so the output does not
// depend on scheduling.
func RunBatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, svc *village.Service, names []string) (schema.BatchResult, error) {
	if len(names) == 0 {
		return schema.BatchResult{}, errors.New("no village names given")
	}
	if len(names) > contract.MaxBatchSize {
		return schema.BatchResult{}, fmt.Errorf("batch of %d names exceeds the limit of %d", len(names), contract.MaxBatchSize)
	}

	if err := ctx.Err(); err != nil {
		return schema.BatchResult{}, fmt.Errorf("batch interrupted: %w", err)
	}

	ctx = beginTracking(ctx, cfg, mgr)

	results := make([]schema.LookupResult, len(names))
	done := make([]bool, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = svc.Resolve(name, itemSource(cfg, i))
			done[i] = true
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		// The run is closed with whatever finished before the interruption
		partial := completedResults(results, done)
		recordLookups(ctx, mgr, partial...)
		endTracking(ctx, mgr, partial)
		return schema.BatchResult{}, fmt.Errorf("batch interrupted: %w", err)
	}

	batch := schema.BatchResult{Results: results}
	for _, res := range results {
		if res.Found {
			batch.Found++
		} else {
			batch.Missing++
		}
	}

	recordLookups(ctx, mgr, results...)
	endTracking(ctx, mgr, results)

	contract.Logger().Sugar().Debugf("Batch of %d names: %d found, %d missing", len(names), batch.Found, batch.Missing)
	return batch, nil
}

// completedResults returns the finished results in input order.
func completedResults(results []schema.LookupResult, done []bool) []schema.LookupResult {
	out := make([]schema.LookupResult, 0, len(results))
	for i, res := range results {
		if done[i] {
			out = append(out, res)
		}
	}
	return out
}

// itemSource returns the per-item source of a seeded batch, or nil to use the
// simulator's own source.
func itemSource(cfg *contract.Config, i int) sim.Source {
	if !cfg.HasSeed {
		return nil
	}
	return sim.NewSeededSource(cfg.Seed + uint64(i))
}

// CollectNames returns the positional names followed by those read from --input-file.
func CollectNames(cfg *contract.Config, args []string) ([]string, error) {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.TrimSpace(arg) != "" {
			names = append(names, arg)
		}
	}
	if cfg.InputFile == "" {
		return names, nil
	}

	var r io.Reader = os.Stdin
	if cfg.InputFile != "-" {
		file, err := os.Open(cfg.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}
	fromFile, err := ReadNames(r)
	if err != nil {
		return nil, err
	}
	return append(names, fromFile...), nil
}

// ReadNames reads one name per line. Blank lines and lines starting with # are skipped.
func ReadNames(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read names: %w", err)
	}
	return names, nil
}
