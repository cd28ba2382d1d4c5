package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/internal/parquet"
	"github.com/kankavli/greenarea/schema"
	"go.uber.org/zap"
)

// maxLoggedPathWidth keeps file paths in log lines on one terminal line.
const maxLoggedPathWidth = 60

// loggedPath shortens a path for log output, keeping its tail.
func loggedPath(path string) string {
	return contract.TruncatePath(path, maxLoggedPathWidth)
}

// writeWithFile opens the output target, hands it to writer and closes it again.
// Stdout is never closed.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		contract.Logger().Info(successMsg, zap.String("file", loggedPath(outputFile)))
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader creates a CSV writer, writes the header and then the rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// writeLookupsParquet writes lookup outcomes to a Parquet file.
func writeLookupsParquet(results []schema.LookupResult, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	rows := parquet.ConvertLookupResults(results, time.Now())
	if err := parquet.WriteLookupSamplesParquet(rows, outputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	contract.Logger().Info("Wrote Parquet", zap.String("file", loggedPath(outputFile)), zap.Int("rows", len(rows)))
	return nil
}

// createFormatter returns a closure that formats percentages with the given precision.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// labelFunc returns the coverage label renderer for the color setting.
func labelFunc(useColors bool) func(float64) string {
	if useColors {
		return contract.GetColorLabel
	}
	return func(v float64) string {
		return string(contract.GetPlainLabel(v))
	}
}
