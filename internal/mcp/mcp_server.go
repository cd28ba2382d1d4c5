// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the greenarea MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Greenarea Village Lookup Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := newToolHandler(baseCfg, mgr)

	// --- 1. Tool: search_village ---
	s.AddTool(mcp.NewTool("search_village",
		mcp.WithDescription("Look up a village of Kankavli tehsil and return its simulated green cover for each method."),
		mcp.WithString("name", mcp.Description("Village name. Case and surrounding whitespace are ignored."), mcp.Required()),
	), h.handleSearchVillage)

	// --- 2. Tool: batch_search ---
	s.AddTool(mcp.NewTool("batch_search",
		mcp.WithDescription("Look up several villages at once. Unknown names are reported per item."),
		mcp.WithArray("names", mcp.Description("Village names to look up."), mcp.WithStringItems(), mcp.Required()),
	), h.handleBatchSearch)

	// --- 3. Tool: list_villages ---
	s.AddTool(mcp.NewTool("list_villages",
		mcp.WithDescription("List the villages of the reference dataset."),
		mcp.WithString("filter", mcp.Description("Case-insensitive name prefix.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of names returned.")),
	), h.handleListVillages)

	// --- 4. Tool: get_accuracy ---
	s.AddTool(mcp.NewTool("get_accuracy",
		mcp.WithDescription("Return the reported segmentation accuracy of each measurement method."),
	), h.handleGetAccuracy)

	return s
}

// StartMCPServer serves the MCP tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	contract.Logger().Info("Serving MCP over stdio")
	return server.ServeStdio(s)
}
