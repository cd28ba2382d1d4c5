package core

import "context"

// Context keys for lookup runs
type contextKey string

const (
	runIDKey contextKey = "runID"
)

// withRunID stores the history run ID in the context
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the history run ID from context
func getRunID(ctx context.Context) (int64, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return 0, false // default: no tracking
	}
	runID, ok := val.(int64)
	return runID, ok && runID > 0
}
