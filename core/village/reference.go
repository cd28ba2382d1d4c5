// Package village resolves free-text village names against a fixed reference set
// and produces simulated green coverage samples for the villages it finds.
package village

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/kankavli/greenarea/schema"
	"gopkg.in/yaml.v3"
)

//go:embed data/kankavli.yaml
var kankavliYAML []byte

// referenceFile is the on-disk layout of a reference set.
type referenceFile struct {
	Region   schema.Region `yaml:"region"`
	Villages []string      `yaml:"villages"`
}

// ReferenceSet is an immutable set of canonical village names indexed by their
// normalized form. It is safe for concurrent use.
type ReferenceSet struct {
	region schema.Region
	names  []string          // canonical names, sorted
	index  map[string]string // normalized -> canonical, as spelled in the source list
}

// NewReferenceSet builds a reference set. Names are indexed by their normalized form,
// so two names that normalize to the same string are rejected.
func NewReferenceSet(region schema.Region, names []string) (*ReferenceSet, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("reference set for %q is empty", region.Tehsil)
	}
	index := make(map[string]string, len(names))
	canonical := make([]string, 0, len(names))
	for _, name := range names {
		key := Normalize(name)
		if key == "" {
			return nil, fmt.Errorf("reference set contains a blank name")
		}
		if prev, ok := index[key]; ok {
			return nil, fmt.Errorf("duplicate village %q (collides with %q)", name, prev)
		}
		spelled := strings.TrimSpace(name)
		index[key] = spelled
		canonical = append(canonical, spelled)
	}
	sort.Strings(canonical)
	return &ReferenceSet{region: region, names: canonical, index: index}, nil
}

// ParseReferenceYAML decodes a reference set from YAML. A missing region falls back to
// the built-in Kankavli region.
func ParseReferenceYAML(data []byte) (*ReferenceSet, error) {
	var raw referenceFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse reference set: %w", err)
	}
	if raw.Region.Tehsil == "" {
		raw.Region.Tehsil = schema.DefaultTehsil
	}
	if raw.Region.District == "" {
		raw.Region.District = schema.DefaultDistrict
	}
	return NewReferenceSet(raw.Region, raw.Villages)
}

// LoadReferenceFile reads a reference set from a YAML file.
func LoadReferenceFile(path string) (*ReferenceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read villages file %s: %w", path, err)
	}
	refs, err := ParseReferenceYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return refs, nil
}

var defaultReferenceSet = sync.OnceValues(func() (*ReferenceSet, error) {
	return ParseReferenceYAML(kankavliYAML)
})

// DefaultReferenceSet returns the built-in Kankavli reference set.
func DefaultReferenceSet() *ReferenceSet {
	refs, err := defaultReferenceSet()
	if err != nil {
		panic(fmt.Sprintf("embedded reference set is invalid: %v", err))
	}
	return refs
}

// Region returns the administrative region of the set.
func (r *ReferenceSet) Region() schema.Region {
	return r.region
}

// Len returns the number of villages.
func (r *ReferenceSet) Len() int {
	return len(r.names)
}

// Names returns a sorted copy of the canonical names.
func (r *ReferenceSet) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Resolve normalizes name and returns the matching canonical name.
// The normalized input is always returned so callers can report it.
func (r *ReferenceSet) Resolve(name string) (normalized string, canonical string, ok bool) {
	normalized = Normalize(name)
	canonical, ok = r.index[normalized]
	return normalized, canonical, ok
}

// Filter returns the canonical names starting with prefix, compared case-insensitively.
func (r *ReferenceSet) Filter(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return r.Names()
	}
	var out []string
	for _, n := range r.names {
		if strings.HasPrefix(strings.ToLower(n), prefix) {
			out = append(out, n)
		}
	}
	return out
}

// Normalize trims surrounding whitespace and title-cases the rest.
func Normalize(name string) string {
	return TitleCase(strings.TrimSpace(name))
}

// TitleCase upper-cases every cased letter that follows an uncased rune and lower-cases
// every other cased letter. Digits and punctuation break words, so "n.v." becomes "N.V."
// and "3rd" stays "3Rd".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevCased := false
	for _, r := range s {
		cased := isCased(r)
		switch {
		case cased && !prevCased:
			b.WriteRune(unicode.ToTitle(r))
		case cased:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevCased = cased
	}
	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}
