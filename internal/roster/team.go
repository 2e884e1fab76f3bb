package roster

import (
	"fmt"
	"sort"
	"strings"
)

// TeamSize is the fixed number of members in a battle team.
const TeamSize = 5

// Team is an ordered set of exactly TeamSize distinct cookies.
//
// Invariant: len(Members) == TeamSize and all member names are distinct.
// Construct teams through NewTeam so the invariant holds.
type Team struct {
	Members []*Cookie
}

// NewTeam builds a Team from the given members.
//
// Precondition: members must contain exactly TeamSize non-nil cookies with
// distinct names.
// Postcondition: Returns a valid Team or a non-nil error.
func NewTeam(members []*Cookie) (Team, error) {
	if len(members) != TeamSize {
		return Team{}, fmt.Errorf("team must have exactly %d members, got %d", TeamSize, len(members))
	}
	seen := make(map[string]bool, TeamSize)
	for _, m := range members {
		if m == nil {
			return Team{}, fmt.Errorf("team member must not be nil")
		}
		if seen[m.Name] {
			return Team{}, fmt.Errorf("duplicate team member %q", m.Name)
		}
		seen[m.Name] = true
	}
	out := make([]*Cookie, TeamSize)
	copy(out, members)
	return Team{Members: out}, nil
}

// Names returns the member names in team order.
func (t Team) Names() []string {
	names := make([]string, len(t.Members))
	for i, m := range t.Members {
		names[i] = m.Name
	}
	return names
}

// Contains reports whether the team includes a member with the given name.
func (t Team) Contains(name string) bool {
	for _, m := range t.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Signature returns a canonical membership key: the sorted member names
// joined by "|". Two teams with the same membership share a signature
// regardless of member order.
//
// Postcondition: Returns the same string for any ordering of the same members.
func (t Team) Signature() string {
	names := t.Names()
	sort.Strings(names)
	return strings.Join(names, "|")
}

// RarityRankSum returns the summed rarity ranks of all members, used as a
// deterministic tie-breaker between equally scored teams.
func (t Team) RarityRankSum() int {
	sum := 0
	for _, m := range t.Members {
		sum += m.Rarity.Rank()
	}
	return sum
}
