package reference

import "sort"

// MetaTeam is a known competitive team composition. The counter analyzer
// raises its confidence when an enemy team exactly matches one.
type MetaTeam struct {
	Name        string   `yaml:"name"`
	Members     []string `yaml:"members"`
	Description string   `yaml:"description"`
}

// MatchesMembers reports whether names is exactly this team's membership,
// ignoring order.
func (m MetaTeam) MatchesMembers(names []string) bool {
	if len(names) != len(m.Members) {
		return false
	}
	a := append([]string(nil), m.Members...)
	b := append([]string(nil), names...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TreasureStrategy pairs a named play pattern with the treasures that
// support it.
type TreasureStrategy struct {
	Name        string   `yaml:"name" json:"name"`
	Treasures   []string `yaml:"treasures" json:"treasures,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
}

// Treasure strategy keys. The counter analyzer picks one from the threat
// profile; StrategyBalanced is the fallback.
const (
	StrategyOffensiveBurst  = "offensive_burst"
	StrategyControlLockdown = "control_lockdown"
	StrategySustainTank     = "sustain_tank"
	StrategyAntiCC          = "anti_cc"
	StrategyBalanced        = "balanced"
)
