package roster

// Abilities flags the kit properties the counter analyzer and scorer care
// about. All flags default to false when absent from the YAML source.
type Abilities struct {
	// CrowdControl marks stuns, freezes, taunts, and similar lockdown.
	CrowdControl bool `yaml:"crowd_control" json:"crowdControl"`
	// Taunt marks forced-target redirection, a subset of crowd control.
	Taunt bool `yaml:"taunt" json:"taunt"`
	// Immunity marks debuff immunity granted to self or allies.
	Immunity bool `yaml:"immunity" json:"immunity"`
	// Healing marks sustained ally healing.
	Healing bool `yaml:"healing" json:"healing"`
	// Shield marks damage-absorbing barriers.
	Shield bool `yaml:"shield" json:"shield"`
	// AntiHeal marks healing reduction applied to enemies.
	AntiHeal bool `yaml:"anti_heal" json:"antiHeal"`
	// DefenseShred marks defense reduction applied to enemies.
	DefenseShred bool `yaml:"defense_shred" json:"defenseShred"`
	// Cleanse marks debuff removal for allies.
	Cleanse bool `yaml:"cleanse" json:"cleanse"`
	// Burst marks high single-hit damage.
	Burst bool `yaml:"burst" json:"burst"`
	// Summoner marks kits that field additional units.
	Summoner bool `yaml:"summoner" json:"summoner"`
}

// Cookie is a single catalog entry. Cookies are immutable once loaded;
// per-request adjustments travel separately as StatOverride values.
//
// Invariant: Name is unique within a Catalog.
type Cookie struct {
	Name      string    `yaml:"name" json:"name"`
	Rarity    Rarity    `yaml:"rarity" json:"rarity"`
	Role      Role      `yaml:"role" json:"role"`
	Position  Position  `yaml:"position" json:"position"`
	Element   Element   `yaml:"element" json:"element,omitempty"`
	Groups    []string  `yaml:"groups" json:"groups,omitempty"`
	Abilities Abilities `yaml:"abilities" json:"abilities"`
}

// BasePower returns the cookie's power with no stat information, which is
// its rarity weight.
//
// Postcondition: Returns a value in [0.5, 7.0].
func (c *Cookie) BasePower() float64 {
	return c.Rarity.Weight()
}

// Power returns the cookie's power score, blending rarity with the override's
// level, skill level, and topping quality when an override is present.
//
// Precondition: o, when non-nil, must have passed Validate.
// Postcondition: Returns a value in [0, 7].
func (c *Cookie) Power(o *StatOverride) float64 {
	if o == nil {
		return c.BasePower()
	}
	rarityPart := c.Rarity.Weight() * 0.40
	skillPart := float64(o.SkillLevel) / float64(MaxSkillLevel) * 0.35 * 7
	levelPart := float64(o.Level) / float64(MaxLevel) * 0.15 * 7
	toppingPart := o.toppingQuality() / maxToppingQuality * 0.10 * 7
	return rarityPart + skillPart + levelPart + toppingPart
}

// InGroup reports whether the cookie belongs to the named synergy group.
func (c *Cookie) InGroup(group string) bool {
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}
