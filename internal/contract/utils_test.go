package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kankavli/greenarea/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected schema.CoverageLabel
	}{
		{
			name:     "smallest value possible",
			input:    0.0,
			expected: schema.BarrenLabel,
		},
		{
			name:     "just before sparse",
			input:    39.9,
			expected: schema.BarrenLabel,
		},
		{
			name:     "exactly sparse",
			input:    40.0,
			expected: schema.SparseLabel,
		},
		{
			name:     "just before green",
			input:    54.9,
			expected: schema.SparseLabel,
		},
		{
			name:     "exactly green",
			input:    55.0,
			expected: schema.GreenLabel,
		},
		{
			name:     "just before lush",
			input:    69.9,
			expected: schema.GreenLabel,
		},
		{
			name:     "exactly lush",
			input:    70.0,
			expected: schema.LushLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name     string
		coverage float64
		label    schema.CoverageLabel
	}{
		{"barren", 30, schema.BarrenLabel},
		{"sparse", 45, schema.SparseLabel},
		{"green", 60, schema.GreenLabel},
		{"lush", 75, schema.LushLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorLabel(tt.coverage), string(tt.label))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".greenarea_history.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short", TruncatePath("short", 10))
	assert.Equal(t, "...c/d.db", TruncatePath("/a/b/c/d.db", 9))
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Berle", TruncateName("Berle", 10))
	assert.Equal(t, "Avaleshw...", TruncateName("Avaleshwar (N.V.)", 11))
	assert.Equal(t, "Avaleshwar", TruncateName("Avaleshwar", 2))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
