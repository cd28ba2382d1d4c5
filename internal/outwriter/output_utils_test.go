package outwriter

import (
	"testing"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	"github.com/stretchr/testify/assert"
)

func TestCreateFormatter(t *testing.T) {
	assert.Equal(t, "65.3", createFormatter(1)(65.31))
	assert.Equal(t, "65.31", createFormatter(2)(65.31))
	assert.Equal(t, "50.00", createFormatter(2)(50))
}

func TestLabelFunc(t *testing.T) {
	plain := labelFunc(false)
	assert.Equal(t, "Lush", plain(72))
	assert.Equal(t, "Green", plain(55))
	assert.Equal(t, "Sparse", plain(40))
	assert.Equal(t, "Barren", plain(39.9))

	colored := labelFunc(true)
	assert.Contains(t, colored(72), "Lush")
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{"narrow terminal", 60, 12},
		{"medium terminal", 120, 25},
		{"wide terminal", 300, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxTableNameWidth(cfg))
		})
	}
}

func TestTerminalWidthOverride(t *testing.T) {
	assert.Equal(t, 132, terminalWidth(&contract.Config{Width: 132}))
	assert.Positive(t, terminalWidth(&contract.Config{}))
}

func TestRegionLine(t *testing.T) {
	assert.Equal(t, "Tehsil: Kankavli | District: Sindhudurg", regionLine(schema.Region{Tehsil: "Kankavli", District: "Sindhudurg"}))
	assert.Equal(t, "Tehsil: Kankavli", regionLine(schema.Region{Tehsil: "Kankavli"}))
	assert.Equal(t, "District: Sindhudurg", regionLine(schema.Region{District: "Sindhudurg"}))
}

func TestAccuracyBar(t *testing.T) {
	assert.Equal(t, "", accuracyBar(-3))
	assert.Equal(t, "███", accuracyBar(15.9))
	assert.Len(t, []rune(accuracyBar(250)), 20)
}

func TestRenderVillageCardWithoutNDVI(t *testing.T) {
	sample := schema.MetricSample{
		Village: "Berle",
		Values:  []schema.MethodValue{{Method: schema.CNNMethod, Coverage: 71}},
	}
	card := renderVillageCard(sample, &contract.Config{Width: 100}, createFormatter(1))
	assert.Contains(t, card, "Berle")
	assert.Contains(t, card, "Lush")
	assert.NotContains(t, card, "vs NDVI")
}
