package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeBatchTable writes one row per input name, misses included.
func writeBatchTable(w io.Writer, batch schema.BatchResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"#", "Input", "Village"}
	for _, m := range schema.AllMethods {
		headers = append(headers, string(m))
	}
	headers = append(headers, "Label")
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	label := labelFunc(cfg.UseColors)
	var data [][]string
	for i, res := range batch.Results {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(res.Input, nameWidth),
			contract.TruncateName(res.Normalized, nameWidth),
		}
		if res.Sample == nil {
			for range schema.AllMethods {
				row = append(row, "-")
			}
			row = append(row, "not found")
		} else {
			for _, m := range schema.AllMethods {
				v, ok := res.Sample.Value(m)
				if !ok {
					row = append(row, "-")
					continue
				}
				row = append(row, fmtFloat(v))
			}
			row = append(row, label(res.Sample.Primary().Coverage))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Found %d of %d villages (%d not found)\n", batch.Found, len(batch.Results), batch.Missing); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Batch completed in %v with %d workers. History backend: %s\n", duration, cfg.Workers, cfg.HistoryBackend)
	return err
}

// writeCSVBatch writes one row per input name with empty coverage cells for misses.
func writeCSVBatch(w io.Writer, batch schema.BatchResult, fmtFloat func(float64) string) error {
	header := []string{"rank", "input", "village", "found"}
	for _, m := range schema.AllMethods {
		header = append(header, string(m))
	}
	header = append(header, "label", "sample_id", "error")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, res := range batch.Results {
			row := []string{strconv.Itoa(i + 1), res.Input, res.Normalized, strconv.FormatBool(res.Found)}
			label, sampleID := "", ""
			for _, m := range schema.AllMethods {
				cell := ""
				if res.Sample != nil {
					if v, ok := res.Sample.Value(m); ok {
						cell = fmtFloat(v)
					}
				}
				row = append(row, cell)
			}
			if res.Sample != nil {
				label = string(contract.GetPlainLabel(res.Sample.Primary().Coverage))
				sampleID = res.Sample.ID
			}
			row = append(row, label, sampleID, res.Error)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
