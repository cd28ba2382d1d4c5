package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// villageList is the render model of the villages command.
type villageList struct {
	Region   schema.Region `json:"region"`
	Total    int           `json:"total"`
	Villages []string      `json:"villages"`
}

// writeVillagesTable writes the names as a numbered table.
func writeVillagesTable(w io.Writer, list villageList, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Village"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := max(terminalWidth(cfg)-15, 12)
	var data [][]string
	for i, name := range list.Villages {
		data = append(data, []string{strconv.Itoa(i + 1), contract.TruncateName(name, nameWidth)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	where := list.Region.Tehsil
	if list.Region.District != "" {
		where = strings.TrimPrefix(where+", "+list.Region.District, ", ")
	}
	_, err := fmt.Fprintf(w, "Showing %d of %d villages in %s\n", len(list.Villages), list.Total, where)
	return err
}

// writeCSVVillages writes one row per name.
func writeCSVVillages(w io.Writer, list villageList) error {
	return writeCSVWithHeader(w, []string{"rank", "village", "tehsil", "district"}, func(cw *csv.Writer) error {
		for i, name := range list.Villages {
			if err := cw.Write([]string{strconv.Itoa(i + 1), name, list.Region.Tehsil, list.Region.District}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeAccuracyTable writes the benchmark with a bar per method.
func writeAccuracyTable(w io.Writer, rows []schema.AccuracyRow, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Method", "Accuracy", ""})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range rows {
		data = append(data, []string{r.DisplayName, fmtFloat(r.Accuracy) + "%", accuracyBar(r.Accuracy)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// accuracyBar draws one block per five percentage points.
func accuracyBar(accuracy float64) string {
	n := int(accuracy / 5)
	n = min(max(n, 0), 20)
	return strings.Repeat("█", n)
}

// writeCSVAccuracy writes one row per method.
func writeCSVAccuracy(w io.Writer, rows []schema.AccuracyRow, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"method", "display_name", "accuracy"}, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{string(r.Method), r.DisplayName, fmtFloat(r.Accuracy)}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
