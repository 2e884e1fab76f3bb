package guildboss

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is the read-only set of loaded bosses, indexed by name.
//
// Invariant: names are unique; never mutated after construction.
type Registry struct {
	bosses []Boss
	byName map[string]Boss
}

type bossFile struct {
	Bosses []Boss `yaml:"bosses"`
}

// NewRegistry builds a Registry from the given bosses.
//
// Precondition: boss names must be unique and non-empty.
func NewRegistry(bosses []Boss) (*Registry, error) {
	byName := make(map[string]Boss, len(bosses))
	sorted := make([]Boss, 0, len(bosses))
	for _, b := range bosses {
		if b.Name == "" {
			return nil, fmt.Errorf("boss with empty name")
		}
		if _, ok := byName[b.Name]; ok {
			return nil, fmt.Errorf("duplicate boss name %q", b.Name)
		}
		byName[b.Name] = b
		sorted = append(sorted, b)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Registry{bosses: sorted, byName: byName}, nil
}

// Load reads boss profiles from a single YAML file.
//
// Postcondition: Returns a populated Registry or a non-nil error.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var bf bossFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return NewRegistry(bf.Bosses)
}

// Get returns the boss with the given name.
func (r *Registry) Get(name string) (Boss, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// All returns every boss sorted by name.
func (r *Registry) All() []Boss {
	out := make([]Boss, len(r.bosses))
	copy(out, r.bosses)
	return out
}

// Len returns the number of loaded bosses.
func (r *Registry) Len() int {
	return len(r.bosses)
}
