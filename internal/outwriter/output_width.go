package outwriter

import (
	"os"

	"github.com/kankavli/greenarea/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the --width override, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTableNameWidth returns how many runes of a village name fit in the batch table.
func getMaxTableNameWidth(cfg *contract.Config) int {
	// Index, five coverage columns, label, borders and padding
	const fixedWidth = 70

	available := (terminalWidth(cfg) - fixedWidth) / 2 // Input and village columns share the rest
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
