// Package guildboss models guild battle bosses: per-boss tier lists and
// attribute preferences, loaded from YAML, plus the boss-fit score the
// optimizer folds into guild battle planning.
package guildboss

import (
	"github.com/crumbworks/teamsmith/internal/roster"
)

// Boss-fit weights per team member.
const (
	sTierFit     = 4.0
	aTierFit     = 2.0
	preferredFit = 2.0
	avoidedFit   = -3.0
)

// Boss is one guild battle boss profile.
type Boss struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	// Preferred lists elements the boss is weak to.
	Preferred []string `yaml:"preferred_attributes" json:"preferredAttributes,omitempty"`
	// Avoided lists elements the boss punishes.
	Avoided []string `yaml:"avoid_attributes" json:"avoidAttributes,omitempty"`
	// STier and ATier name cookies proven against this boss.
	STier []string `yaml:"s_tier" json:"sTier,omitempty"`
	ATier []string `yaml:"a_tier" json:"aTier,omitempty"`
}

// Fit scores how well a team suits this boss. Tier-list members and
// preferred elements add, avoided elements subtract; the result is unbounded
// in either direction and is added to the composition total as-is.
func (b Boss) Fit(team roster.Team) float64 {
	sTier := toSet(b.STier)
	aTier := toSet(b.ATier)
	preferred := toSet(b.Preferred)
	avoided := toSet(b.Avoided)

	var fit float64
	for _, m := range team.Members {
		switch {
		case sTier[m.Name]:
			fit += sTierFit
		case aTier[m.Name]:
			fit += aTierFit
		}
		if m.Element != "" {
			if preferred[string(m.Element)] {
				fit += preferredFit
			}
			if avoided[string(m.Element)] {
				fit += avoidedFit
			}
		}
	}
	return fit
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
