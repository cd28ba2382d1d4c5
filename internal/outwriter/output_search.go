package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeSearchText writes the village card followed by the per-method table.
func writeSearchText(w io.Writer, sample schema.MetricSample, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, renderVillageCard(sample, cfg, fmtFloat)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Method", "Coverage", "Label", "CNN Lead"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	label := labelFunc(cfg.UseColors)
	primary := sample.Primary()
	var data [][]string
	for i, v := range sample.Values {
		lead := "-"
		if i > 0 {
			lead = "+" + fmtFloat(primary.Coverage-v.Coverage)
		}
		data = append(data, []string{
			string(v.Method),
			fmtFloat(v.Coverage) + "%",
			label(v.Coverage),
			lead,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Sample %s simulated in %v\n", sample.ID, duration)
	return err
}

// writeCSVSample writes one row per method.
func writeCSVSample(w io.Writer, sample schema.MetricSample, fmtFloat func(float64) string) error {
	header := []string{"village", "tehsil", "district", "method", "coverage", "label", "sample_id", "sampled_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, v := range sample.Values {
			row := []string{
				sample.Village,
				sample.Region.Tehsil,
				sample.Region.District,
				string(v.Method),
				fmtFloat(v.Coverage),
				string(contract.GetPlainLabel(v.Coverage)),
				sample.ID,
				sample.SampledAt.Format(contract.DateTimeFormat),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
