package core

import (
	"context"
	"time"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
)

// historyStore returns the configured store, or nil when tracking is off.
func historyStore(mgr contract.StoreManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// beginTracking opens a history run and stores its ID in the returned context.
// Failures are logged and leave the lookup untracked.
func beginTracking(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) context.Context {
	store := historyStore(mgr)
	if store == nil {
		return ctx
	}
	runID, err := store.BeginRun(time.Now(), cfg.ConfigParams())
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return ctx
	}
	if runID <= 0 {
		return ctx
	}
	return withRunID(ctx, runID)
}

// recordLookups stores each outcome under the run in ctx.
func recordLookups(ctx context.Context, mgr contract.StoreManager, results ...schema.LookupResult) {
	runID, ok := getRunID(ctx)
	if !ok {
		return
	}
	store := historyStore(mgr)
	for _, res := range results {
		at := time.Now()
		if res.Sample != nil && !res.Sample.SampledAt.IsZero() {
			at = res.Sample.SampledAt
		}
		if err := store.RecordLookup(runID, res, at); err != nil {
			contract.LogWarn("Failed to record lookup", err)
			return
		}
	}
}

// endTracking closes the run in ctx with its totals.
func endTracking(ctx context.Context, mgr contract.StoreManager, results []schema.LookupResult) {
	runID, ok := getRunID(ctx)
	if !ok {
		return
	}
	found := 0
	for _, res := range results {
		if res.Found {
			found++
		}
	}
	if err := historyStore(mgr).EndRun(runID, time.Now(), len(results), found); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
