package cmd

import (
	"github.com/kankavli/greenarea/core"
	"github.com/kankavli/greenarea/internal/contract"
	"github.com/spf13/cobra"
)

// searchCmd looks up one village.
var searchCmd = &cobra.Command{
	Use:   "search <village name>",
	Short: "Show the simulated green cover of one village.",
	Long: `Look up a village of Kankavli tehsil and show its simulated green cover.

The name is trimmed and title-cased before matching, so "  harkul bk. " finds
"Harkul Bk.". Multi-word names do not need quoting.

The primary method (CNN) is always reported above the index-based methods
NDVI, GNDVI, EVI and SAVI, together with its lead over NDVI.

Examples:
  # Look up a village
  greenarea search gandhinagar

  # Repeatable values for demos and tests
  greenarea search "Avaleshwar (N.V.)" --seed 42

  # Machine-readable output
  greenarea search berle --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSearch(rootCtx, cfg, storeManager, args...); err != nil {
			contract.LogFatal("Cannot run search", err)
		}
	},
}
