package sim

import (
	"fmt"
	"math"

	"github.com/kankavli/greenarea/schema"
)

// Range is a closed interval of percentages.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Draw returns a value uniformly distributed over the range.
func (r Range) Draw(src Source) float64 {
	return r.Min + (r.Max-r.Min)*src.Float64()
}

// finite reports whether both ends of the range are real numbers.
func (r Range) finite() bool {
	return !math.IsNaN(r.Min) && !math.IsInf(r.Min, 0) && !math.IsNaN(r.Max) && !math.IsInf(r.Max, 0)
}

// magnitude returns the largest absolute value in the range, at least 1.
func (r Range) magnitude() float64 {
	return max(math.Abs(r.Min), math.Abs(r.Max), 1)
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// MinRelativeOffset is the smallest offset allowed, relative to the magnitude of the
// values it is subtracted from. Smaller offsets can vanish in float64 rounding.
const MinRelativeOffset = 1e-9

// Derivation describes how an alternative method is computed: the value of From minus
// an offset drawn from Offset.
type Derivation struct {
	Method schema.Method `json:"method"`
	From   schema.Method `json:"from"`
	Offset Range         `json:"offset"`
}

// Params configures the simulator.
type Params struct {
	PrimaryRange Range        `json:"primary_range"`
	Derivations  []Derivation `json:"derivations"`
}

// DefaultParams reproduces the dashboard's dummy data: CNN in [50, 80], NDVI 10-15 points
// below CNN, and GNDVI, EVI, SAVI fixed distances below NDVI.
func DefaultParams() Params {
	return Params{
		PrimaryRange: Range{Min: 50, Max: 80},
		Derivations: []Derivation{
			{Method: schema.NDVIMethod, From: schema.CNNMethod, Offset: Range{Min: 10, Max: 15}},
			{Method: schema.GNDVIMethod, From: schema.NDVIMethod, Offset: Range{Min: 2, Max: 2}},
			{Method: schema.EVIMethod, From: schema.NDVIMethod, Offset: Range{Min: 1, Max: 1}},
			{Method: schema.SAVIMethod, From: schema.NDVIMethod, Offset: Range{Min: 3, Max: 3}},
		},
	}
}

// Clone returns a deep copy of the params.
func (p Params) Clone() Params {
	clone := p
	clone.Derivations = make([]Derivation, len(p.Derivations))
	copy(clone.Derivations, p.Derivations)
	return clone
}

// WithOffset returns a copy of the params with the offset range of method m replaced.
func (p Params) WithOffset(m schema.Method, r Range) (Params, error) {
	clone := p.Clone()
	for i := range clone.Derivations {
		if clone.Derivations[i].Method == m {
			clone.Derivations[i].Offset = r
			return clone, nil
		}
	}
	return p, fmt.Errorf("method %s has no configurable offset", m)
}

// Validate checks that every sample drawn with these params keeps the primary value
// strictly above each alternative.
func (p Params) Validate() error {
	if !p.PrimaryRange.finite() {
		return fmt.Errorf("primary range must be finite (min %v, max %v)", p.PrimaryRange.Min, p.PrimaryRange.Max)
	}
	if p.PrimaryRange.Min > p.PrimaryRange.Max {
		return fmt.Errorf("primary range min %.2f exceeds max %.2f", p.PrimaryRange.Min, p.PrimaryRange.Max)
	}
	if len(p.Derivations) != len(schema.AllMethods)-1 {
		return fmt.Errorf("expected %d derived methods, got %d", len(schema.AllMethods)-1, len(p.Derivations))
	}

	bounds := map[schema.Method]Range{schema.CNNMethod: p.PrimaryRange}
	for _, d := range p.Derivations {
		if _, ok := schema.ValidMethods[d.Method]; !ok {
			return fmt.Errorf("unknown method %q", d.Method)
		}
		if _, ok := bounds[d.Method]; ok {
			return fmt.Errorf("method %s is defined more than once", d.Method)
		}
		from, ok := bounds[d.From]
		if !ok {
			return fmt.Errorf("method %s derives from %s, which is not defined before it", d.Method, d.From)
		}
		if !d.Offset.finite() {
			return fmt.Errorf("offset for %s must be finite (min %v, max %v)", d.Method, d.Offset.Min, d.Offset.Max)
		}
		if d.Offset.Min > d.Offset.Max {
			return fmt.Errorf("offset for %s: min %.2f exceeds max %.2f", d.Method, d.Offset.Min, d.Offset.Max)
		}
		if d.Offset.Min <= 0 {
			return fmt.Errorf("offset for %s must be strictly positive (min %.2f)", d.Method, d.Offset.Min)
		}
		if d.Offset.Min < MinRelativeOffset*from.magnitude() {
			return fmt.Errorf("offset for %s is too small to lower %s values near %g (min %g)", d.Method, d.From, from.magnitude(), d.Offset.Min)
		}
		derived := Range{Min: from.Min - d.Offset.Max, Max: from.Max - d.Offset.Min}
		if !derived.finite() {
			return fmt.Errorf("values of %s overflow (offset max %g)", d.Method, d.Offset.Max)
		}
		bounds[d.Method] = derived
	}
	return nil
}

// Bounds returns the interval each method's value is guaranteed to fall in.
func (p Params) Bounds() map[schema.Method]Range {
	bounds := map[schema.Method]Range{schema.CNNMethod: p.PrimaryRange}
	for _, d := range p.Derivations {
		from := bounds[d.From]
		bounds[d.Method] = Range{Min: from.Min - d.Offset.Max, Max: from.Max - d.Offset.Min}
	}
	return bounds
}

// Simulator draws metric values. It holds no mutable state of its own and is safe for
// concurrent use when its Source is.
type Simulator struct {
	params Params
	bounds map[schema.Method]Range
	src    Source
}

// NewSimulator validates the params and returns a simulator drawing from src.
// A nil src falls back to the global source.
func NewSimulator(p Params, src Source) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation params: %w", err)
	}
	if src == nil {
		src = NewGlobalSource()
	}
	return &Simulator{params: p.Clone(), bounds: p.Bounds(), src: src}, nil
}

// Params returns a copy of the simulator params.
func (s *Simulator) Params() Params {
	return s.params.Clone()
}

// Bounds returns the value interval for method m.
func (s *Simulator) Bounds(m schema.Method) (Range, bool) {
	r, ok := s.bounds[m]
	return r, ok
}

// Sample draws one set of values from the simulator's own source.
func (s *Simulator) Sample() []schema.MethodValue {
	return s.SampleWith(s.src)
}

// SampleWith draws one set of values from src. Exactly one value is consumed from src per
// method, in the order CNN, then each derivation.
func (s *Simulator) SampleWith(src Source) []schema.MethodValue {
	values := make([]schema.MethodValue, 0, len(s.params.Derivations)+1)
	byMethod := make(map[schema.Method]float64, len(s.params.Derivations)+1)

	primary := s.params.PrimaryRange.Draw(src)
	values = append(values, schema.MethodValue{Method: schema.CNNMethod, Coverage: primary})
	byMethod[schema.CNNMethod] = primary

	for _, d := range s.params.Derivations {
		v := byMethod[d.From] - d.Offset.Draw(src)
		byMethod[d.Method] = v
		values = append(values, schema.MethodValue{Method: d.Method, Coverage: v})
	}
	return values
}
