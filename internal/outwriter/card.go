package outwriter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
)

// Card palette, matching the label colors of the tables.
var (
	cardBorderColor = lipgloss.Color("#2E7D32")
	cardTitleColor  = lipgloss.Color("#A5D6A7")
	cardDeltaColor  = lipgloss.Color("#FFD54F")
)

// renderVillageCard draws the boxed summary shown above the method table.
func renderVillageCard(sample schema.MetricSample, cfg *contract.Config, fmtFloat func(float64) string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true)
	deltaStyle := lipgloss.NewStyle()
	if cfg.UseColors {
		boxStyle = boxStyle.BorderForeground(cardBorderColor)
		titleStyle = titleStyle.Foreground(cardTitleColor)
		deltaStyle = deltaStyle.Foreground(cardDeltaColor)
	}

	primary := sample.Primary()
	lines := []string{
		titleStyle.Render(sample.Village),
		regionLine(sample.Region),
		fmt.Sprintf("Green cover (%s): %s%% %s", primary.Method, fmtFloat(primary.Coverage), labelFunc(cfg.UseColors)(primary.Coverage)),
	}
	if _, ok := sample.Value(schema.NDVIMethod); ok {
		lines = append(lines, deltaStyle.Render(fmt.Sprintf("+%s%% vs %s", fmtFloat(sample.DeltaVs(schema.NDVIMethod)), schema.NDVIMethod)))
	}

	width := terminalWidth(cfg)
	return boxStyle.MaxWidth(width).Render(strings.Join(lines, "\n"))
}

// regionLine formats the administrative region of a village.
func regionLine(region schema.Region) string {
	switch {
	case region.Tehsil != "" && region.District != "":
		return fmt.Sprintf("Tehsil: %s | District: %s", region.Tehsil, region.District)
	case region.Tehsil != "":
		return fmt.Sprintf("Tehsil: %s", region.Tehsil)
	default:
		return fmt.Sprintf("District: %s", region.District)
	}
}
