package counter

import (
	"fmt"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// Weakness severity bands, weakest to strongest.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Weakness is one exploitable gap in an enemy composition, with a confidence
// percentage for how reliably the gap decides games.
type Weakness struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Confidence  int    `json:"confidence"`
}

// analyzeWeaknesses applies the ordered heuristic rules to a threat profile.
// Rules are additive; each fires independently.
func (a *Analyzer) analyzeWeaknesses(p ThreatProfile) []Weakness {
	var out []Weakness
	add := func(severity string, confidence int, format string, args ...any) {
		out = append(out, Weakness{
			Description: fmt.Sprintf(format, args...),
			Severity:    severity,
			Confidence:  confidence,
		})
	}

	if len(p.Enemies) == 0 {
		return nil
	}

	if p.Healers == 0 {
		add(SeverityHigh, 95, "no healing: chip damage and damage over time stick for the whole fight")
	}
	if p.Positions[roster.PositionFront] >= 3 {
		add(SeverityHigh, 90, "tank-heavy front (%d): low damage output, outpace them with defense shred and sustained pressure", p.Positions[roster.PositionFront])
	}
	if p.Positions[roster.PositionRear] >= 3 && p.Positions[roster.PositionFront] <= 1 {
		add(SeverityHigh, 92, "exposed backline: %d rear units behind a thin front, dive with ambush attackers", p.Positions[roster.PositionRear])
	}
	if !p.HasImmunity && p.CCCount == 0 {
		add(SeverityMedium, 75, "no immunity and no crowd control of their own: free lockdown windows")
	}
	if !p.HasCleanse {
		add(SeverityMedium, 70, "no cleanse: debuffs stay applied")
	}
	if p.Healers >= 2 {
		add(SeverityHigh, 88, "heal-reliant (%d healers): anti-heal collapses their sustain plan", p.Healers)
	}
	for _, e := range p.Enemies {
		if e.Name == "Shadow Milk Cookie" {
			add(SeverityCritical, 95, "Shadow Milk Cookie present: without taunt redirection the backline gets deleted")
			break
		}
	}
	if p.Burst >= 8 && p.Healers <= 1 {
		add(SeverityHigh, 85, "burst-reliant with thin sustain: survive the opening window and the fight is won")
	}
	if p.Healers >= 1 && !p.HasAntiHeal {
		add(SeverityLow, 60, "their sustain is uncontested: your anti-heal goes unanswered")
	}

	return out
}
