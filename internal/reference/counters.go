package reference

// DefaultHighThreatCutoff is the threat rating at or above which an enemy
// cookie is treated as a priority target.
const DefaultHighThreatCutoff = 8

// ThreatEntry describes one known high-impact enemy cookie: how dangerous it
// is, which cookies answer it, and how to play against it.
type ThreatEntry struct {
	Name string `yaml:"name"`
	// Threat is the overall danger rating, 1-10.
	Threat int `yaml:"threat"`
	// CC, Burst, and Sustained rate the entry's threat character, 0-10 each.
	CC        int `yaml:"cc"`
	Burst     int `yaml:"burst"`
	Sustained int `yaml:"sustained"`
	// Counters lists cookies that answer this entry, strongest first.
	Counters []string `yaml:"counters"`
	// PrimaryThreats names what the entry does to you.
	PrimaryThreats []string `yaml:"primary_threats"`
	// CounterStrategy is play advice for facing this entry.
	CounterStrategy string `yaml:"counter_strategy"`
}

// CounterTable indexes threat entries by cookie name.
//
// Invariant: read-only after construction, safe for concurrent use.
type CounterTable struct {
	entries []ThreatEntry
	byName  map[string]ThreatEntry
}

// NewCounterTable builds a CounterTable from the given entries.
func NewCounterTable(entries []ThreatEntry) *CounterTable {
	byName := make(map[string]ThreatEntry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	return &CounterTable{entries: entries, byName: byName}
}

// Get returns the threat entry for the named cookie. Cookies without an
// entry are not considered notable threats.
func (t *CounterTable) Get(name string) (ThreatEntry, bool) {
	e, ok := t.byName[name]
	return e, ok
}

// All returns every threat entry in load order.
func (t *CounterTable) All() []ThreatEntry {
	out := make([]ThreatEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
