package village

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kankavli/greenarea/core/sim"
	"github.com/kankavli/greenarea/schema"
)

// sampleNamespace scopes the name-based sample IDs.
var sampleNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/kankavli/greenarea/samples"))

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used to stamp samples.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service looks up villages and simulates their coverage. It holds only immutable
// state and is safe for concurrent use when its simulator's source is.
type Service struct {
	refs *ReferenceSet
	sim  *sim.Simulator
	now  func() time.Time
}

// NewService wires a reference set to a simulator.
func NewService(refs *ReferenceSet, simulator *sim.Simulator, opts ...Option) (*Service, error) {
	if refs == nil {
		return nil, fmt.Errorf("reference set is required")
	}
	if simulator == nil {
		return nil, fmt.Errorf("simulator is required")
	}
	s := &Service{refs: refs, sim: simulator, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// References returns the reference set the service resolves against.
func (s *Service) References() *ReferenceSet {
	return s.refs
}

// Simulator returns the simulator the service draws from.
func (s *Service) Simulator() *sim.Simulator {
	return s.sim
}

// Lookup resolves name and, on a match, draws a sample from the simulator's source.
// On a miss it returns a *NotFoundError and draws nothing.
func (s *Service) Lookup(name string) (schema.MetricSample, error) {
	return s.lookup(name, nil)
}

// LookupWith is Lookup drawing from src instead of the simulator's own source.
func (s *Service) LookupWith(name string, src sim.Source) (schema.MetricSample, error) {
	return s.lookup(name, src)
}

func (s *Service) lookup(name string, src sim.Source) (schema.MetricSample, error) {
	normalized, canonical, ok := s.refs.Resolve(name)
	if !ok {
		return schema.MetricSample{}, &NotFoundError{Name: normalized, Tehsil: s.refs.Region().Tehsil}
	}
	var values []schema.MethodValue
	if src == nil {
		values = s.sim.Sample()
	} else {
		values = s.sim.SampleWith(src)
	}
	return schema.MetricSample{
		ID:        SampleID(canonical, values),
		Village:   canonical,
		Region:    s.refs.Region(),
		Values:    values,
		SampledAt: s.now().UTC(),
	}, nil
}

// Resolve returns the outcome of a lookup as a result record instead of an error.
func (s *Service) Resolve(name string, src sim.Source) schema.LookupResult {
	res := schema.LookupResult{Input: name}
	sample, err := s.lookup(name, src)
	if err != nil {
		res.Normalized = Normalize(name)
		res.Error = err.Error()
		return res
	}
	res.Normalized = sample.Village
	res.Found = true
	res.Sample = &sample
	return res
}

// SampleID derives a stable identifier from the village and its values, so equal
// samples share an ID.
func SampleID(village string, values []schema.MethodValue) string {
	var b strings.Builder
	b.WriteString(village)
	for _, v := range values {
		b.WriteByte('|')
		b.WriteString(string(v.Method))
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(v.Coverage, 'g', -1, 64))
	}
	return uuid.NewSHA1(sampleNamespace, []byte(b.String())).String()
}
