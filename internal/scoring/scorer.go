// Package scoring computes team composition scores. Scoring is pure and
// deterministic: the same team, options, and reference data always produce
// the same Score.
package scoring

import (
	"math"

	"github.com/crumbworks/teamsmith/internal/reference"
	"github.com/crumbworks/teamsmith/internal/roster"
)

// Sub-score ceilings. The base composition score (roles + positions + power
// + bonus) tops out at 100; treasures raise the ceiling to 115 and synergy
// to 160.
const (
	MaxRoleDiversity    = 30.0
	MaxPositionCoverage = 25.0
	MaxPower            = 35.0
	MaxBonus            = 10.0
	MaxTreasureBonus    = 15.0
	MaxElementSynergy   = 15.0
	MaxGroupSynergy     = 20.0
	MaxComboSynergy     = 25.0

	MaxBaseTotal     = MaxRoleDiversity + MaxPositionCoverage + MaxPower + MaxBonus
	MaxTreasureTotal = MaxBaseTotal + MaxTreasureBonus
	MaxSynergyTotal  = MaxTreasureTotal + MaxElementSynergy + MaxGroupSynergy + MaxComboSynergy
)

// roleDiversityScores maps the count of distinct roles on a team to points.
var roleDiversityScores = map[int]float64{5: 30, 4: 24, 3: 15, 2: 8, 1: 0}

// positionCoverageScores maps the count of distinct positions to points.
var positionCoverageScores = map[int]float64{3: 25, 2: 15, 1: 5}

// Score is the labeled breakdown of one team evaluation. Fields for disabled
// options are zero. Immutable once returned.
type Score struct {
	RoleDiversity    float64 `json:"roleDiversity"`
	PositionCoverage float64 `json:"positionCoverage"`
	Power            float64 `json:"power"`
	Bonus            float64 `json:"bonus"`
	TreasureBonus    float64 `json:"treasureBonus"`
	ElementSynergy   float64 `json:"elementSynergy"`
	GroupSynergy     float64 `json:"groupSynergy"`
	ComboSynergy     float64 `json:"comboSynergy"`
	Total            float64 `json:"total"`
}

// Options selects which score components to compute beyond the base
// composition score.
type Options struct {
	// WithSynergy enables the element, group, and combo components.
	WithSynergy bool
	// Treasures, when non-empty, enables the treasure bonus. At most three.
	Treasures []reference.Treasure
	// Overrides adjusts member power by name. Members without an entry use
	// their base power.
	Overrides map[string]roster.StatOverride
}

// Scorer evaluates teams against the loaded synergy reference data.
//
// Invariant: stateless apart from the read-only reference data; safe for
// concurrent use.
type Scorer struct {
	synergy *reference.Synergy
}

// NewScorer creates a Scorer.
//
// Precondition: synergy must be non-nil.
func NewScorer(synergy *reference.Synergy) *Scorer {
	return &Scorer{synergy: synergy}
}

// Score evaluates a team. Cookies missing from the element or group data
// simply contribute nothing; scoring never fails.
//
// Precondition: team must satisfy the Team invariant (five distinct members).
// Postcondition: Total == sum of all component fields;
// Total <= MaxSynergyTotal.
func (s *Scorer) Score(team roster.Team, opts Options) Score {
	sc := Score{
		RoleDiversity:    roleDiversity(team),
		PositionCoverage: positionCoverage(team),
		Power:            powerScore(team, opts.Overrides),
		Bonus:            compositionBonus(team),
	}
	if len(opts.Treasures) > 0 {
		sc.TreasureBonus = treasureBonus(team, opts.Treasures)
	}
	if opts.WithSynergy {
		sc.ElementSynergy = elementSynergy(team)
		sc.GroupSynergy = s.groupSynergy(team)
		sc.ComboSynergy = s.comboSynergy(team)
	}
	sc.Total = sc.RoleDiversity + sc.PositionCoverage + sc.Power + sc.Bonus +
		sc.TreasureBonus + sc.ElementSynergy + sc.GroupSynergy + sc.ComboSynergy
	return sc
}

func roleDiversity(team roster.Team) float64 {
	roles := make(map[roster.Role]bool, roster.TeamSize)
	for _, m := range team.Members {
		roles[m.Role] = true
	}
	return roleDiversityScores[len(roles)]
}

func positionCoverage(team roster.Team) float64 {
	positions := make(map[roster.Position]bool, 3)
	for _, m := range team.Members {
		positions[m.Position] = true
	}
	return positionCoverageScores[len(positions)]
}

func powerScore(team roster.Team, overrides map[string]roster.StatOverride) float64 {
	var sum float64
	for _, m := range team.Members {
		if o, ok := overrides[m.Name]; ok {
			sum += m.Power(&o)
		} else {
			sum += m.Power(nil)
		}
	}
	return sum
}

// compositionBonus rewards a sound frontline, sustain, and damage presence.
func compositionBonus(team roster.Team) float64 {
	var bonus float64
	tankInFront := false
	hasHealer := false
	hasDPS := false
	for _, m := range team.Members {
		if m.Role.IsTank() && m.Position == roster.PositionFront {
			tankInFront = true
		}
		if m.Role.IsHealer() {
			hasHealer = true
		}
		if m.Role.IsDPS() {
			hasDPS = true
		}
	}
	if tankInFront {
		bonus += 3
	}
	if hasHealer {
		bonus += 3
	}
	if hasDPS {
		bonus += 2
	}
	return math.Min(bonus, MaxBonus)
}

// treasureBonus scores the attached treasures: average quality, stat
// contributions, and special effects, capped at MaxTreasureBonus.
func treasureBonus(team roster.Team, treasures []reference.Treasure) float64 {
	if len(treasures) == 0 {
		return 0
	}

	var quality float64
	for _, t := range treasures {
		q := t.Tier.Score()
		if t.IsUniversal() {
			q += 1.0
		}
		quality += math.Min(q, 10)
	}
	quality /= float64(len(treasures))

	var atk, crit, cdr float64
	var effects float64
	hasSummoner := false
	for _, m := range team.Members {
		if m.Abilities.Summoner {
			hasSummoner = true
		}
	}
	for _, t := range treasures {
		atk += t.ATKPercent
		crit += t.CritPercent
		cdr += t.CooldownPercent

		if t.Effects.Revive {
			effects += 0.5
		}
		if t.Effects.DebuffCleanse {
			effects += 0.3
		}
		if t.Effects.EnemyDebuff {
			effects += 0.4
		}
		if t.ShieldPercent > 0 || t.HealPercent > 0 {
			effects += 0.5
		}
		if t.Effects.SummonBoost {
			if hasSummoner {
				effects += 0.8
			} else {
				effects -= 0.3
			}
		}
	}

	stats := math.Min(atk/100, 1) + math.Min(crit/30, 1) + math.Min(cdr/40, 1)
	total := quality + stats + math.Min(effects, 2.0)
	return math.Min(total, MaxTreasureBonus)
}

// elementSynergy scores the single best-represented element: 15 for three or
// more members, 7 for exactly two. Members without an affinity never count.
func elementSynergy(team roster.Team) float64 {
	counts := make(map[roster.Element]int)
	best := 0
	for _, m := range team.Members {
		if m.Element == "" {
			continue
		}
		counts[m.Element]++
		if counts[m.Element] > best {
			best = counts[m.Element]
		}
	}
	switch {
	case best >= 3:
		return 15
	case best == 2:
		return 7
	default:
		return 0
	}
}

// groupSynergy scores every synergy group with two or more members present,
// capped at MaxGroupSynergy.
func (s *Scorer) groupSynergy(team roster.Team) float64 {
	members := make(map[string]bool, roster.TeamSize)
	for _, m := range team.Members {
		members[m.Name] = true
	}
	var total float64
	for _, groupMembers := range s.synergy.Groups {
		count := 0
		for _, name := range groupMembers {
			if members[name] {
				count++
			}
		}
		switch {
		case count >= 3:
			total += 12
		case count == 2:
			total += 5
		}
	}
	return math.Min(total, MaxGroupSynergy)
}

// comboSynergy returns the points of the strongest active combo. Combos
// never stack.
func (s *Scorer) comboSynergy(team roster.Team) float64 {
	members := make(map[string]bool, roster.TeamSize)
	for _, m := range team.Members {
		members[m.Name] = true
	}
	var best float64
	for _, c := range s.synergy.Combos {
		if c.ActiveFor(members) && c.Points > best {
			best = c.Points
		}
	}
	return math.Min(best, MaxComboSynergy)
}
