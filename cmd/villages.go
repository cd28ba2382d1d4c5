package cmd

import (
	"github.com/kankavli/greenarea/core"
	"github.com/kankavli/greenarea/internal/contract"
	"github.com/spf13/cobra"
)

// villagesCmd lists the reference set.
var villagesCmd = &cobra.Command{
	Use:   "villages",
	Short: "List the villages of the reference set.",
	Long: `List the canonical village names that lookups are matched against.

Examples:
  # All villages
  greenarea villages

  # Villages starting with "har"
  greenarea villages --filter har`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteVillages, "Cannot list villages"),
}

// accuracyCmd prints the method benchmark.
var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Show the reported accuracy of each measurement method.",
	Long: `Show the segmentation accuracy reported for the CNN model and the
vegetation indices it is compared against.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteAccuracy, "Cannot show accuracy"),
}

// runExecutor adapts a config-only executor to a cobra Run function.
func runExecutor(exec core.ExecutorFunc, failMsg string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := exec(rootCtx, cfg); err != nil {
			contract.LogFatal(failMsg, err)
		}
	}
}
