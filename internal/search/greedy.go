package search

import (
	"context"
	"sort"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// Greedy generates candidate teams by seeding a strong first pick and filling
// the remaining slots by maximal marginal gain: new role coverage first, new
// position coverage second, raw power last. Randomized seeding and tie
// breaking diversify repeated builds.
type Greedy struct {
	src  Source
	bias BiasConfig
}

// NewGreedy creates a Greedy generator. A configured bias steers the seed
// slot toward preferred members; the marginal-gain fill stays score-driven.
//
// Precondition: src must be non-nil.
func NewGreedy(src Source, bias BiasConfig) *Greedy {
	return &Greedy{src: src, bias: bias}
}

// Generate builds up to count distinct teams. Small or homogeneous pools may
// yield fewer once the attempt budget runs out.
//
// Postcondition: All returned teams are distinct by signature and contain
// every required member.
func (g *Greedy) Generate(ctx context.Context, pool, required []*roster.Cookie, count int) (Result, error) {
	free, need, err := prepare(pool, required)
	if err != nil {
		return Result{}, err
	}
	if need == 0 {
		return Result{Teams: []roster.Team{assemble(required, nil)}}, nil
	}

	var preferredFree []*roster.Cookie
	if g.bias.enabled() {
		preferred := make(map[string]bool, len(g.bias.Preferred))
		for _, name := range g.bias.Preferred {
			preferred[name] = true
		}
		for _, c := range free {
			if preferred[c.Name] {
				preferredFree = append(preferredFree, c)
			}
		}
	}

	byPower := make([]*roster.Cookie, len(free))
	copy(byPower, free)
	sort.Slice(byPower, func(i, j int) bool {
		pi, pj := byPower[i].Power(nil), byPower[j].Power(nil)
		if pi != pj {
			return pi > pj
		}
		return byPower[i].Name < byPower[j].Name
	})

	seen := make(map[string]bool, count)
	teams := make([]roster.Team, 0, count)
	maxAttempts := count * 10
	if maxAttempts < 50 {
		maxAttempts = 50
	}

	for attempt := 0; len(teams) < count && attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return Result{Teams: teams, Incomplete: true}, nil
		default:
		}

		// Widen the seed window as duplicate builds pile up.
		window := len(byPower) / 10
		if window < 1 {
			window = 1
		}
		window += attempt
		if window > len(byPower) {
			window = len(byPower)
		}

		fill := make([]*roster.Cookie, 0, need)
		chosen := make(map[string]bool, roster.TeamSize)
		roles := make(map[roster.Role]bool, roster.TeamSize)
		positions := make(map[roster.Position]bool, 3)
		for _, r := range required {
			chosen[r.Name] = true
			roles[r.Role] = true
			positions[r.Position] = true
		}

		seed := byPower[g.src.Intn(window)]
		if len(preferredFree) > 0 && g.src.Intn(1000) < int(g.bias.Fraction*1000) {
			seed = preferredFree[g.src.Intn(len(preferredFree))]
		}
		fill = append(fill, seed)
		chosen[seed.Name] = true
		roles[seed.Role] = true
		positions[seed.Position] = true

		// Shuffled candidate order randomizes ties between equal gains.
		candidates := make([]*roster.Cookie, len(free))
		copy(candidates, free)
		shuffle(g.src, candidates)

		for len(fill) < need {
			var best *roster.Cookie
			bestGain := -1.0
			for _, c := range candidates {
				if chosen[c.Name] {
					continue
				}
				gain := c.Power(nil)
				if !roles[c.Role] {
					gain += 100
				}
				if !positions[c.Position] {
					gain += 50
				}
				if gain > bestGain {
					bestGain = gain
					best = c
				}
			}
			fill = append(fill, best)
			chosen[best.Name] = true
			roles[best.Role] = true
			positions[best.Position] = true
		}

		team := assemble(required, fill)
		sig := team.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		teams = append(teams, team)
	}
	return Result{Teams: teams}, nil
}
