// Package sim generates simulated green coverage samples from an injectable random source.
package sim

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniformly distributed values in [0, 1).
type Source interface {
	Float64() float64
}

// globalSource draws from the process-wide math/rand/v2 generator, which is safe for concurrent use.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewGlobalSource returns a non-deterministic source backed by the runtime generator.
func NewGlobalSource() Source {
	return globalSource{}
}

// lockedSource serializes access to a seeded generator.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NewSeededSource returns a deterministic source. Two sources built from the same seed
// produce the same sequence.
func NewSeededSource(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// FixedSource replays a fixed sequence of values, wrapping around at the end.
// Values outside [0, 1) are clamped.
type FixedSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewFixedSource returns a source that replays the given values in order.
func NewFixedSource(values ...float64) *FixedSource {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &FixedSource{values: values}
}

// Float64 returns the next value of the sequence.
func (s *FixedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next%len(s.values)]
	s.next++
	switch {
	case v < 0:
		return 0
	case v >= 1:
		return 1 - 1e-12
	default:
		return v
	}
}

// Draws reports how many values have been consumed.
func (s *FixedSource) Draws() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
