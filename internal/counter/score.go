package counter

import (
	"math"
	"sort"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// MaxCounterScore is the counter-fit ceiling.
const MaxCounterScore = 100.0

// CounterScore rates how well a candidate team answers the profiled enemy,
// 0-100. synergyScore is the candidate's synergy subtotal (element + group +
// combo), folded in at a 15-point weight.
//
// Postcondition: Returns a value in [0, MaxCounterScore].
func (a *Analyzer) CounterScore(team roster.Team, p ThreatProfile, rec Recommendation, synergyScore float64) float64 {
	recommended := make(map[string]bool, len(rec.Counters))
	for _, name := range rec.Counters {
		recommended[name] = true
	}

	var score float64

	picked := 0
	hasTank, hasHealer, hasDPS := false, false, false
	hasAntiHeal, hasAmbush, hasShred, hasCC, hasImmunity := false, false, false, false, false
	for _, m := range team.Members {
		if recommended[m.Name] {
			picked++
		}
		if m.Role.IsTank() {
			hasTank = true
		}
		if m.Role.IsHealer() {
			hasHealer = true
		}
		if m.Role.IsDPS() {
			hasDPS = true
		}
		if m.Role == roster.RoleAmbush {
			hasAmbush = true
		}
		if m.Abilities.AntiHeal {
			hasAntiHeal = true
		}
		if m.Abilities.DefenseShred {
			hasShred = true
		}
		if m.Abilities.CrowdControl {
			hasCC = true
		}
		if m.Abilities.Immunity {
			hasImmunity = true
		}
	}

	// Recommended-pick presence carries the largest weight.
	score += float64(picked) / float64(roster.TeamSize) * 40

	// Direct answers to the enemy's plan.
	if p.Healers >= 2 && hasAntiHeal {
		score += 10
	}
	if p.Positions[roster.PositionRear] >= 3 && hasAmbush {
		score += 10
	}
	if p.Tanks >= 2 && hasShred {
		score += 10
	}
	if !p.HasImmunity && hasCC {
		score += 5
	}
	if p.CCCount >= 2 && hasImmunity {
		score += 5
	}

	// Baseline balance.
	if hasTank {
		score += 5
	}
	if hasHealer {
		score += 5
	}
	if hasDPS {
		score += 5
	}

	score += synergyScore / 100 * 15

	return math.Min(score, MaxCounterScore)
}

// Combined blends counter fit with composition quality, weighted toward the
// counter read.
func Combined(counterScore, compositionTotal float64) float64 {
	return counterScore*0.6 + compositionTotal*0.4
}

// TreasurePick is one treasure recommended against a profiled enemy.
type TreasurePick struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// RecommendTreasures scores the treasure catalog against the threat profile
// and returns the n best picks.
//
// Postcondition: Returns at most n picks, best first, deterministic order.
func (a *Analyzer) RecommendTreasures(p ThreatProfile, n int) []TreasurePick {
	picks := make([]TreasurePick, 0, len(a.data.Treasures))
	for _, t := range a.data.Treasures {
		pick := TreasurePick{Name: t.Name, Score: t.Tier.Score(), Rationale: "strong general pick"}
		if t.IsUniversal() {
			pick.Score += 0.5
		}
		switch {
		case p.CC >= 7:
			if t.Effects.DebuffCleanse {
				pick.Score += 3
				pick.Rationale = "cleanses their lockdown"
			}
			pick.Score += t.CooldownPercent / 20
		case p.Burst >= 8:
			survivability := t.DamageResistPercent + t.ShieldPercent + t.HealPercent
			if survivability > 0 {
				pick.Score += survivability / 20
				pick.Rationale = "survives their burst window"
			}
			if t.Effects.Revive {
				pick.Score += 2
				pick.Rationale = "recovers from their burst window"
			}
		case p.Sustained >= 7:
			offense := t.ATKPercent/20 + t.CritPercent/15
			if offense > 0 {
				pick.Score += offense
				pick.Rationale = "races their sustain down"
			}
		}
		picks = append(picks, pick)
	}
	sort.Slice(picks, func(i, j int) bool {
		if picks[i].Score != picks[j].Score {
			return picks[i].Score > picks[j].Score
		}
		return picks[i].Name < picks[j].Name
	})
	if len(picks) > n {
		picks = picks[:n]
	}
	return picks
}
