package counter

import (
	"sort"

	"github.com/crumbworks/teamsmith/internal/reference"
	"github.com/crumbworks/teamsmith/internal/roster"
)

// MaxRecommendedCounters caps the merged counter-pick list.
const MaxRecommendedCounters = 10

// metaMatchConfidence is the recommendation confidence when the enemy is an
// exactly known meta team.
const metaMatchConfidence = 95

// baselineConfidence is the floor when no rule fires.
const baselineConfidence = 60

// Recommendation is the analyzer's full answer to an enemy composition.
type Recommendation struct {
	// Counters lists recommended picks, most-often-recommended first.
	Counters []string `json:"counters"`
	// PriorityTargets names enemies worth focusing, highest threat first.
	PriorityTargets []string `json:"priorityTargets"`
	// StrategyKey selects the treasure strategy; Strategy is its content.
	StrategyKey string                     `json:"strategyKey"`
	Strategy    reference.TreasureStrategy `json:"strategy"`
	// Weaknesses lists the exploitable gaps found in the enemy composition.
	Weaknesses []Weakness `json:"weaknesses"`
	// MetaTeam names the matched known composition, empty when none.
	MetaTeam string `json:"metaTeam,omitempty"`
	// Confidence is 0-100: how reliable this read of the enemy team is.
	Confidence int `json:"confidence"`
}

// Recommend turns a threat profile into counter picks, priority targets, a
// treasure strategy, and a confidence figure. An empty profile yields a
// generic balanced recommendation at baseline confidence, never an error.
//
// Postcondition: len(Counters) <= MaxRecommendedCounters; Confidence is in
// [baselineConfidence, 100].
func (a *Analyzer) Recommend(p ThreatProfile) Recommendation {
	rec := Recommendation{
		Counters:        a.mergeCounters(p),
		PriorityTargets: priorityTargets(p),
		Weaknesses:      a.analyzeWeaknesses(p),
	}

	rec.StrategyKey = strategyFor(p)
	rec.Strategy = a.data.Strategy(rec.StrategyKey)

	rec.Confidence = baselineConfidence
	for _, w := range rec.Weaknesses {
		if w.Confidence > rec.Confidence {
			rec.Confidence = w.Confidence
		}
	}
	if len(p.Enemies) == roster.TeamSize {
		names := make([]string, len(p.Enemies))
		for i, e := range p.Enemies {
			names[i] = e.Name
		}
		for _, mt := range a.data.MetaTeams {
			if mt.MatchesMembers(names) {
				rec.MetaTeam = mt.Name
				if rec.Confidence < metaMatchConfidence {
					rec.Confidence = metaMatchConfidence
				}
				break
			}
		}
	}
	return rec
}

// mergeCounters folds the per-enemy counter lists into one ranked list:
// cookies recommended against more enemies come first, ties break by name.
func (a *Analyzer) mergeCounters(p ThreatProfile) []string {
	counts := make(map[string]int)
	for _, e := range p.Enemies {
		entry, ok := a.data.Counters.Get(e.Name)
		if !ok {
			continue
		}
		for _, name := range entry.Counters {
			counts[name]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > MaxRecommendedCounters {
		names = names[:MaxRecommendedCounters]
	}
	return names
}

func priorityTargets(p ThreatProfile) []string {
	entries := make([]reference.ThreatEntry, len(p.HighThreats))
	copy(entries, p.HighThreats)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Threat != entries[j].Threat {
			return entries[i].Threat > entries[j].Threat
		}
		return entries[i].Name < entries[j].Name
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

// strategyFor picks the treasure strategy from the threat character:
// lockdown-heavy enemies call for anti-CC, burst enemies for sustain,
// sustain enemies for burst, anything else for the balanced default.
func strategyFor(p ThreatProfile) string {
	switch {
	case p.CC >= 7:
		return reference.StrategyAntiCC
	case p.Burst >= 8:
		return reference.StrategySustainTank
	case p.Sustained >= 7:
		return reference.StrategyOffensiveBurst
	default:
		return reference.StrategyBalanced
	}
}
