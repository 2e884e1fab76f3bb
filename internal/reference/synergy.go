package reference

// Combo is a named special-combo rule. A combo activates for a team when
// every required member is present and, when MinMembers is set, at least
// MinMembers of the combined required and optional members are present.
type Combo struct {
	Name       string   `yaml:"name"`
	Required   []string `yaml:"required"`
	Optional   []string `yaml:"optional"`
	MinMembers int      `yaml:"min_members"`
	Points     float64  `yaml:"points"`
}

// ActiveFor reports whether the combo activates for the given membership set.
//
// Precondition: members must be keyed by cookie name.
func (c Combo) ActiveFor(members map[string]bool) bool {
	for _, name := range c.Required {
		if !members[name] {
			return false
		}
	}
	if c.MinMembers > 0 {
		count := 0
		for _, name := range c.Required {
			if members[name] {
				count++
			}
		}
		for _, name := range c.Optional {
			if members[name] {
				count++
			}
		}
		if count < c.MinMembers {
			return false
		}
	}
	return true
}

// Synergy holds the synergy reference data: named groups of cookies and the
// special combo rules. Element affinity lives on the cookies themselves.
type Synergy struct {
	Groups map[string][]string `yaml:"groups"`
	Combos []Combo             `yaml:"combos"`
}
