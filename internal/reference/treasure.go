// Package reference provides the read-only reference tables the optimizer
// consults: treasures, synergy groups and combos, the enemy counter table,
// known meta teams, and treasure strategies. All data is loaded from YAML at
// startup, validated against the cookie catalog, and never mutated afterward.
package reference

// Tier is a treasure quality band.
type Tier string

const (
	TierSPlus Tier = "S+"
	TierS     Tier = "S"
	TierA     Tier = "A"
	TierB     Tier = "B"
	TierC     Tier = "C"
)

var tierScores = map[Tier]float64{
	TierSPlus: 10.0,
	TierS:     8.5,
	TierA:     7.0,
	TierB:     5.5,
	TierC:     4.0,
}

// Score returns the base quality value for the tier.
//
// Postcondition: Returns a value in [4, 10]; unknown tiers return 0.
func (t Tier) Score() float64 {
	return tierScores[t]
}

// ArchetypeUniversal marks treasures useful to any team composition.
const ArchetypeUniversal = "Universal"

// TreasureEffects flags the special effects a treasure can carry.
type TreasureEffects struct {
	// Revive restores a fallen ally once per battle.
	Revive bool `yaml:"revive"`
	// DebuffCleanse removes debuffs from allies.
	DebuffCleanse bool `yaml:"debuff_cleanse"`
	// EnemyDebuff applies a debuff to enemies.
	EnemyDebuff bool `yaml:"enemy_debuff"`
	// SummonBoost strengthens summoned units.
	SummonBoost bool `yaml:"summon_boost"`
}

// Treasure is one equippable treasure. Teams carry at most three.
type Treasure struct {
	Name       string   `yaml:"name"`
	Tier       Tier     `yaml:"tier"`
	Archetypes []string `yaml:"archetypes"`

	// Max-level percentage stats; zero when the treasure lacks the stat.
	ATKPercent          float64 `yaml:"atk_percent"`
	CritPercent         float64 `yaml:"crit_percent"`
	CooldownPercent     float64 `yaml:"cooldown_percent"`
	DamageResistPercent float64 `yaml:"damage_resist_percent"`
	ShieldPercent       float64 `yaml:"shield_percent"`
	HealPercent         float64 `yaml:"heal_percent"`

	Effects TreasureEffects `yaml:"effects"`
}

// IsUniversal reports whether the treasure fits any team archetype.
func (t Treasure) IsUniversal() bool {
	for _, a := range t.Archetypes {
		if a == ArchetypeUniversal {
			return true
		}
	}
	return false
}
