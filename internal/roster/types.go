// Package roster provides the cookie catalog: the unit model (rarity, role,
// position, element, abilities), per-request stat overrides, power scoring,
// and YAML loading.
package roster

// Rarity is a cookie's rarity band. Rarities are ordered; Rank reflects that
// order and Weight maps each band to its base power contribution.
type Rarity string

const (
	RarityCommon          Rarity = "Common"
	RarityRare            Rarity = "Rare"
	RaritySpecial         Rarity = "Special"
	RarityEpic            Rarity = "Epic"
	RaritySuperEpic       Rarity = "Super Epic"
	RarityDragon          Rarity = "Dragon"
	RarityLegendary       Rarity = "Legendary"
	RarityAncient         Rarity = "Ancient"
	RarityAncientAscended Rarity = "Ancient (Ascended)"
	RarityBeast           Rarity = "Beast"
)

// rarityWeights maps each rarity band to its base power value.
var rarityWeights = map[Rarity]float64{
	RarityBeast:           7.0,
	RarityAncientAscended: 6.5,
	RarityAncient:         6.0,
	RarityLegendary:       5.0,
	RarityDragon:          5.0,
	RaritySuperEpic:       4.0,
	RarityEpic:            3.0,
	RaritySpecial:         2.0,
	RarityRare:            1.0,
	RarityCommon:          0.5,
}

// rarityRanks orders rarity bands for deterministic tie-breaking.
var rarityRanks = map[Rarity]int{
	RarityCommon:          1,
	RarityRare:            2,
	RaritySpecial:         3,
	RarityEpic:            4,
	RaritySuperEpic:       5,
	RarityDragon:          6,
	RarityLegendary:       7,
	RarityAncient:         8,
	RarityAncientAscended: 9,
	RarityBeast:           10,
}

// Weight returns the base power value for the rarity band.
//
// Postcondition: Returns a value in [0.5, 7.0]; unknown bands return 1.0.
func (r Rarity) Weight() float64 {
	if w, ok := rarityWeights[r]; ok {
		return w
	}
	return 1.0
}

// Rank returns the ordinal position of the rarity band, lowest first.
//
// Postcondition: Returns a value in [1, 10]; unknown bands return 0.
func (r Rarity) Rank() int {
	return rarityRanks[r]
}

// Role is a cookie's combat role. Roles group into three classes: tanks
// (Charge, Defense), healers (Healing, Support), and damage dealers
// (Magic, Ranged, Bomber, Ambush).
type Role string

const (
	RoleCharge  Role = "Charge"
	RoleDefense Role = "Defense"
	RoleMagic   Role = "Magic"
	RoleRanged  Role = "Ranged"
	RoleBomber  Role = "Bomber"
	RoleAmbush  Role = "Ambush"
	RoleHealing Role = "Healing"
	RoleSupport Role = "Support"
)

// IsTank reports whether the role belongs to the tank class.
func (r Role) IsTank() bool {
	return r == RoleCharge || r == RoleDefense
}

// IsHealer reports whether the role belongs to the healer class.
func (r Role) IsHealer() bool {
	return r == RoleHealing || r == RoleSupport
}

// IsDPS reports whether the role belongs to the damage-dealer class.
func (r Role) IsDPS() bool {
	return r == RoleMagic || r == RoleRanged || r == RoleBomber || r == RoleAmbush
}

// Position is a cookie's battlefield row.
type Position string

const (
	PositionFront  Position = "Front"
	PositionMiddle Position = "Middle"
	PositionRear   Position = "Rear"
)

// Element is a cookie's elemental affinity. Cookies without an affinity
// carry the empty string and never contribute to element synergy.
type Element string
