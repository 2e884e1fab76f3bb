package reference

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// Data bundles all loaded reference tables.
//
// Invariant: read-only after Load, safe for concurrent use.
type Data struct {
	Treasures  []Treasure
	Synergy    *Synergy
	Counters   *CounterTable
	MetaTeams  []MetaTeam
	Strategies map[string]TreasureStrategy

	treasuresByName map[string]Treasure
}

// Treasure returns the treasure with the given name.
func (d *Data) Treasure(name string) (Treasure, bool) {
	t, ok := d.treasuresByName[name]
	return t, ok
}

// Strategy returns the treasure strategy for the given key, falling back to
// the balanced strategy for unknown keys.
func (d *Data) Strategy(key string) TreasureStrategy {
	if s, ok := d.Strategies[key]; ok {
		return s
	}
	return d.Strategies[StrategyBalanced]
}

type treasureFile struct {
	Treasures []Treasure `yaml:"treasures"`
}

type counterFile struct {
	Counters []ThreatEntry `yaml:"counters"`
}

type metaTeamFile struct {
	Teams []MetaTeam `yaml:"teams"`
}

type strategyFile struct {
	Strategies map[string]TreasureStrategy `yaml:"strategies"`
}

// NewData assembles and checks the reference tables.
//
// Precondition: treasure names must be unique with known tiers; threat
// ratings must be 1-10; strategies must include the balanced fallback.
// Postcondition: Returns fully populated Data or a non-nil error.
func NewData(treasures []Treasure, synergy *Synergy, counters []ThreatEntry,
	metaTeams []MetaTeam, strategies map[string]TreasureStrategy) (*Data, error) {

	byName := make(map[string]Treasure, len(treasures))
	for _, t := range treasures {
		if _, ok := byName[t.Name]; ok {
			return nil, fmt.Errorf("duplicate treasure name %q", t.Name)
		}
		if _, ok := tierScores[t.Tier]; !ok {
			return nil, fmt.Errorf("treasure %q has unknown tier %q", t.Name, t.Tier)
		}
		byName[t.Name] = t
	}
	for _, e := range counters {
		if e.Threat < 1 || e.Threat > 10 {
			return nil, fmt.Errorf("counter entry %q threat must be 1-10, got %d", e.Name, e.Threat)
		}
	}
	if _, ok := strategies[StrategyBalanced]; !ok {
		return nil, fmt.Errorf("treasure strategies must include the %q fallback", StrategyBalanced)
	}
	if synergy == nil {
		synergy = &Synergy{}
	}
	return &Data{
		Treasures:       treasures,
		Synergy:         synergy,
		Counters:        NewCounterTable(counters),
		MetaTeams:       metaTeams,
		Strategies:      strategies,
		treasuresByName: byName,
	}, nil
}

// Load reads all reference tables from dir. Expected files: treasures.yaml,
// synergy.yaml, counters.yaml, meta_teams.yaml, treasure_strategies.yaml.
//
// Precondition: dir must be a readable directory containing all five files.
// Postcondition: Returns fully populated Data or a non-nil error.
func Load(dir string) (*Data, error) {
	var tf treasureFile
	if err := readYAML(filepath.Join(dir, "treasures.yaml"), &tf); err != nil {
		return nil, err
	}
	var syn Synergy
	if err := readYAML(filepath.Join(dir, "synergy.yaml"), &syn); err != nil {
		return nil, err
	}
	var cf counterFile
	if err := readYAML(filepath.Join(dir, "counters.yaml"), &cf); err != nil {
		return nil, err
	}
	var mf metaTeamFile
	if err := readYAML(filepath.Join(dir, "meta_teams.yaml"), &mf); err != nil {
		return nil, err
	}
	var sf strategyFile
	if err := readYAML(filepath.Join(dir, "treasure_strategies.yaml"), &sf); err != nil {
		return nil, err
	}
	return NewData(tf.Treasures, &syn, cf.Counters, mf.Teams, sf.Strategies)
}

// Validate cross-checks every cookie name the reference tables mention
// against the catalog. Reference data referring to cookies that do not exist
// is a content bug caught at startup rather than silently at query time.
//
// Postcondition: Returns nil, or an error listing every unknown name.
func (d *Data) Validate(catalog *roster.Catalog) error {
	unknown := make(map[string]bool)
	check := func(names []string) {
		for _, n := range names {
			if _, ok := catalog.Get(n); !ok {
				unknown[n] = true
			}
		}
	}

	for _, members := range d.Synergy.Groups {
		check(members)
	}
	for _, c := range d.Synergy.Combos {
		check(c.Required)
		check(c.Optional)
	}
	for _, e := range d.Counters.All() {
		check([]string{e.Name})
		check(e.Counters)
	}
	for _, m := range d.MetaTeams {
		check(m.Members)
	}
	for _, s := range d.Strategies {
		for _, tn := range s.Treasures {
			if _, ok := d.treasuresByName[tn]; !ok {
				unknown[tn] = true
			}
		}
	}

	if len(unknown) > 0 {
		names := make([]string, 0, len(unknown))
		for n := range unknown {
			names = append(names, n)
		}
		sort.Strings(names)
		return fmt.Errorf("reference data mentions unknown entries: %s", strings.Join(names, ", "))
	}
	return nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
