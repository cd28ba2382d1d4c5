package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kankavli/greenarea/core"
	"github.com/kankavli/greenarea/core/village"
	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	service func() (*village.Service, error)
}

func newToolHandler(baseCfg *contract.Config, mgr contract.StoreManager) *toolHandler {
	return &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		service: sync.OnceValues(func() (*village.Service, error) {
			return core.NewService(baseCfg)
		}),
	}
}

func (h *toolHandler) handleSearchVillage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	svc, err := h.service()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup unavailable: %v", err)), nil
	}

	sample, err := core.RunSearch(ctx, h.baseCfg, h.mgr, svc, name)
	if errors.Is(err, village.ErrNotFound) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(sample)
}

func (h *toolHandler) handleBatchSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := request.GetStringSlice("names", nil)
	if len(names) == 0 {
		return mcp.NewToolResultError("names must contain at least one village name"), nil
	}
	svc, err := h.service()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup unavailable: %v", err)), nil
	}

	batch, err := core.RunBatch(ctx, h.baseCfg, h.mgr, svc, names)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("batch failed: %v", err)), nil
	}
	return jsonResult(batch)
}

func (h *toolHandler) handleListVillages(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Filter = request.GetString("filter", cfg.Filter)
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}

	svc, err := h.service()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup unavailable: %v", err)), nil
	}
	refs := svc.References()
	names, total := core.ListVillages(cfg, refs)
	return jsonResult(map[string]any{
		"region":   refs.Region(),
		"total":    total,
		"villages": names,
	})
}

func (h *toolHandler) handleGetAccuracy(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(schema.AccuracyBenchmark)
}

// jsonResult wraps v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
