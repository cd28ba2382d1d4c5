// Package schema has models, enums and static tables shared by all parts of greenarea.
package schema

import "time"

// Region is the administrative area a reference set belongs to.
type Region struct {
	Tehsil   string `json:"tehsil" yaml:"tehsil"`
	District string `json:"district" yaml:"district"`
}

// MethodValue is one simulated green coverage percentage.
type MethodValue struct {
	Method   Method  `json:"method"`
	Coverage float64 `json:"coverage"` // Percentage of the village area classified as green
}

// MetricSample is the simulated set of coverage values for one village lookup.
// Values[0] always holds the primary method. Samples are request-scoped.
type MetricSample struct {
	ID        string        `json:"id"`
	Village   string        `json:"village"`
	Region    Region        `json:"region"`
	Values    []MethodValue `json:"values"`
	SampledAt time.Time     `json:"sampled_at"`
}

// Primary returns the value of the primary method.
func (s MetricSample) Primary() MethodValue {
	if len(s.Values) == 0 {
		return MethodValue{}
	}
	return s.Values[0]
}

// Alternatives returns every value except the primary one.
func (s MetricSample) Alternatives() []MethodValue {
	if len(s.Values) < 2 {
		return nil
	}
	return s.Values[1:]
}

// Value returns the coverage for the given method and whether it was present.
func (s MetricSample) Value(m Method) (float64, bool) {
	for _, v := range s.Values {
		if v.Method == m {
			return v.Coverage, true
		}
	}
	return 0, false
}

// DeltaVs returns how far the primary method is above the given method.
func (s MetricSample) DeltaVs(m Method) float64 {
	other, ok := s.Value(m)
	if !ok {
		return 0
	}
	return s.Primary().Coverage - other
}

// LookupResult is the outcome of one lookup inside a batch.
type LookupResult struct {
	Input      string        `json:"input"`
	Normalized string        `json:"normalized"`
	Found      bool          `json:"found"`
	Sample     *MetricSample `json:"sample,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// BatchResult holds all lookup outcomes of a batch in input order.
type BatchResult struct {
	Results []LookupResult `json:"results"`
	Found   int            `json:"found"`
	Missing int            `json:"missing"`
}

// AccuracyRow is one entry of the static method accuracy benchmark.
type AccuracyRow struct {
	Method      Method  `json:"method"`
	DisplayName string  `json:"display_name"`
	Accuracy    float64 `json:"accuracy"`
}

// AccuracyBenchmark is the reported segmentation accuracy of each method on the
// synthetic Kankavli dataset.
var AccuracyBenchmark = []AccuracyRow{
	{Method: CNNMethod, DisplayName: "CNN (U-Net)", Accuracy: 94.0},
	{Method: NDVIMethod, DisplayName: "NDVI", Accuracy: 78.9},
	{Method: GNDVIMethod, DisplayName: "GNDVI", Accuracy: 76.3},
	{Method: EVIMethod, DisplayName: "EVI", Accuracy: 82.1},
	{Method: SAVIMethod, DisplayName: "SAVI", Accuracy: 79.4},
}
