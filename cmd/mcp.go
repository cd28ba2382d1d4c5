package cmd

import (
	"github.com/kankavli/greenarea/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the greenarea MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents look up villages via standard tools.`,
	// Logging goes to stderr, which keeps stdout free for the protocol.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
