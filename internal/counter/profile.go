// Package counter analyzes enemy team compositions: threat profiling,
// weakness detection, counter-pick recommendation, and counter-fit scoring
// for candidate teams.
package counter

import (
	"github.com/crumbworks/teamsmith/internal/reference"
	"github.com/crumbworks/teamsmith/internal/roster"
)

// Analyzer evaluates enemy compositions against the counter reference data.
//
// Invariant: stateless apart from read-only reference data; safe for
// concurrent use.
type Analyzer struct {
	data *reference.Data
	// highThreatCutoff is the threat rating that makes an enemy a priority
	// target.
	highThreatCutoff int
}

// NewAnalyzer creates an Analyzer with the default high-threat cutoff.
//
// Precondition: data must be non-nil and loaded.
func NewAnalyzer(data *reference.Data) *Analyzer {
	return &Analyzer{data: data, highThreatCutoff: reference.DefaultHighThreatCutoff}
}

// ThreatProfile summarizes an enemy composition: role and position tallies,
// ability presence, and the aggregate threat character from the counter
// table.
type ThreatProfile struct {
	Enemies   []*roster.Cookie
	Roles     map[roster.Role]int
	Positions map[roster.Position]int

	Tanks   int
	Healers int
	DPS     int

	// Ability tallies across the enemy team.
	CCCount     int
	BurstCount  int
	HasImmunity bool
	HasCleanse  bool
	HasAntiHeal bool

	// Threat character, the maximum rating of any enemy in the counter
	// table: crowd control, burst damage, and sustained pressure, 0-10.
	CC        int
	Burst     int
	Sustained int

	// HighThreats lists table entries at or above the high-threat cutoff.
	HighThreats []reference.ThreatEntry
	TotalThreat int
	MeanThreat  float64
}

// AnalyzeThreat profiles an enemy composition of one to five cookies. An
// empty composition produces a neutral profile; analysis never fails.
//
// Postcondition: Tallies cover exactly the given enemies; MeanThreat is 0
// for an empty composition.
func (a *Analyzer) AnalyzeThreat(enemies []*roster.Cookie) ThreatProfile {
	p := ThreatProfile{
		Enemies:   enemies,
		Roles:     make(map[roster.Role]int),
		Positions: make(map[roster.Position]int),
	}

	for _, e := range enemies {
		p.Roles[e.Role]++
		p.Positions[e.Position]++
		switch {
		case e.Role.IsTank():
			p.Tanks++
		case e.Role.IsHealer():
			p.Healers++
		case e.Role.IsDPS():
			p.DPS++
		}

		if e.Abilities.CrowdControl {
			p.CCCount++
		}
		if e.Abilities.Burst {
			p.BurstCount++
		}
		if e.Abilities.Immunity {
			p.HasImmunity = true
		}
		if e.Abilities.Cleanse {
			p.HasCleanse = true
		}
		if e.Abilities.AntiHeal {
			p.HasAntiHeal = true
		}

		entry, ok := a.data.Counters.Get(e.Name)
		if !ok {
			continue
		}
		p.TotalThreat += entry.Threat
		if entry.CC > p.CC {
			p.CC = entry.CC
		}
		if entry.Burst > p.Burst {
			p.Burst = entry.Burst
		}
		if entry.Sustained > p.Sustained {
			p.Sustained = entry.Sustained
		}
		if entry.Threat >= a.highThreatCutoff {
			p.HighThreats = append(p.HighThreats, entry)
		}
	}

	if len(enemies) > 0 {
		p.MeanThreat = float64(p.TotalThreat) / float64(len(enemies))
	}
	return p
}
