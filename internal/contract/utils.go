package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/kankavli/greenarea/schema"
)

// Color variables for console output.
var (
	LushColor   = color.New(color.FgGreen, color.Bold) // dense canopy
	GreenColor  = color.New(color.FgGreen)
	SparseColor = color.New(color.FgYellow)
	BarrenColor = color.New(color.FgRed)
)

// GetPlainLabel returns the coverage band of a percentage. This is the core logic
// used for CSV, JSON, and table printing.
func GetPlainLabel(coverage float64) schema.CoverageLabel {
	switch {
	case coverage >= 70:
		return schema.LushLabel
	case coverage >= 55:
		return schema.GreenLabel
	case coverage >= 40:
		return schema.SparseLabel
	default:
		return schema.BarrenLabel
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(coverage float64) string {
	label := GetPlainLabel(coverage)
	text := string(label)

	switch label {
	case schema.LushLabel:
		return LushColor.Sprint(text)
	case schema.GreenLabel:
		return GreenColor.Sprint(text)
	case schema.SparseLabel:
		return SparseColor.Sprint(text)
	default:
		return BarrenColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for lookup history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".greenarea_history.db"
	}
	return filepath.Join(homeDir, ".greenarea_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// TruncateName shortens a village name to maxWidth runes with an ellipsis suffix.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
