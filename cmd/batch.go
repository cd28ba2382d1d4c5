package cmd

import (
	"github.com/kankavli/greenarea/core"
	"github.com/kankavli/greenarea/internal/contract"
	"github.com/spf13/cobra"
)

// batchCmd looks up many villages at once.
var batchCmd = &cobra.Command{
	Use:   "batch [village names...]",
	Short: "Look up many villages and show one row per name.",
	Long: `Look up every name given as an argument or listed in --input-file.

Input files hold one name per line. Blank lines and lines starting with #
are skipped. Use "-" to read names from stdin.

Unknown names are reported in their own row and never stop the batch.
Results keep the input order. With --seed the values do not depend on
the number of workers.

Examples:
  # Names as arguments
  greenarea batch berle ayanal "harkul bk."

  # Names from a file, exported for a spreadsheet
  greenarea batch --input-file villages.txt --output csv --output-file cover.csv

  # Columnar export
  greenarea batch -i villages.txt --output parquet --output-file cover.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteBatch(rootCtx, cfg, storeManager, args); err != nil {
			contract.LogFatal("Cannot run batch", err)
		}
	},
}
