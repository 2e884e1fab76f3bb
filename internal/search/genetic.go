package search

import (
	"context"
	"sort"
	"time"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// Genetic evolves a population of teams: elitist selection, slot-wise
// crossover with conflict resampling, and single-member mutation. Required
// members are pinned in every individual and never crossed or mutated away.
//
// The generator returns the best distinct teams seen across ALL generations,
// not just the final population, so late drift never loses an earlier
// optimum.
type Genetic struct {
	scorer Scorer
	src    Source
	cfg    GeneticConfig
	bias   BiasConfig
	budget time.Duration
}

// NewGenetic creates a Genetic generator. A configured bias seeds the
// initial population toward preferred members; fitness drives the rest.
//
// Precondition: scorer and src must be non-nil. Zero or negative cfg fields
// fall back to the package defaults (population 50, generations 100, elite
// fraction 0.2, mutation rate 0.1).
func NewGenetic(scorer Scorer, src Source, cfg GeneticConfig, bias BiasConfig, budget time.Duration) *Genetic {
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = 50
	}
	if cfg.Generations <= 0 {
		cfg.Generations = 100
	}
	if cfg.EliteFraction <= 0 || cfg.EliteFraction > 1 {
		cfg.EliteFraction = 0.2
	}
	if cfg.MutationRate <= 0 || cfg.MutationRate > 1 {
		cfg.MutationRate = 0.1
	}
	return &Genetic{scorer: scorer, src: src, cfg: cfg, bias: bias, budget: budget}
}

// individual is one population member: the free-slot fill, scored as a full
// team with the required members prepended.
type individual struct {
	fill  []*roster.Cookie
	team  roster.Team
	score float64
	sig   string
}

// Generate evolves the population and returns up to count best-ever teams.
// The time budget is checked at generation boundaries; exceeding it returns
// the best teams so far with Incomplete set.
//
// Postcondition: All returned teams are distinct by signature and contain
// every required member.
func (g *Genetic) Generate(ctx context.Context, pool, required []*roster.Cookie, count int) (Result, error) {
	free, need, err := prepare(pool, required)
	if err != nil {
		return Result{}, err
	}
	if need == 0 {
		return Result{Teams: []roster.Team{assemble(required, nil)}}, nil
	}

	best := newTopK(count)
	record := func(ind individual) { best.add(candidate{team: ind.team, score: ind.score, sig: ind.sig}) }

	pop := make([]individual, g.cfg.PopulationSize)
	for i := range pop {
		pop[i] = g.evaluate(required, sampleBiased(g.src, free, need, g.bias))
		record(pop[i])
	}

	var deadline time.Time
	if g.budget > 0 {
		deadline = time.Now().Add(g.budget)
	}

	incomplete := false
	for gen := 0; gen < g.cfg.Generations; gen++ {
		select {
		case <-ctx.Done():
			incomplete = true
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			incomplete = true
		}
		if incomplete {
			break
		}

		sort.Slice(pop, func(i, j int) bool {
			if pop[i].score != pop[j].score {
				return pop[i].score > pop[j].score
			}
			return pop[i].sig < pop[j].sig
		})

		eliteN := int(float64(len(pop)) * g.cfg.EliteFraction)
		if eliteN < 2 {
			eliteN = 2
		}
		if eliteN > len(pop) {
			eliteN = len(pop)
		}
		elites := pop[:eliteN]

		next := make([]individual, 0, g.cfg.PopulationSize)
		next = append(next, elites...)
		for len(next) < g.cfg.PopulationSize {
			p1 := elites[g.src.Intn(eliteN)]
			p2 := elites[g.src.Intn(eliteN)]
			child := g.crossover(free, p1.fill, p2.fill)
			if g.src.Intn(1000) < int(g.cfg.MutationRate*1000) {
				g.mutate(free, required, child)
			}
			ind := g.evaluate(required, child)
			record(ind)
			next = append(next, ind)
		}
		pop = next
	}

	return Result{Teams: best.teams(), Incomplete: incomplete}, nil
}

func (g *Genetic) evaluate(required, fill []*roster.Cookie) individual {
	team := assemble(required, fill)
	return individual{
		fill:  fill,
		team:  team,
		score: g.scorer.Score(team),
		sig:   team.Signature(),
	}
}

// crossover picks each open slot from one parent at random. A pick already
// present in the child falls back to the other parent's slot, then to a
// fresh pool sample.
func (g *Genetic) crossover(free, p1, p2 []*roster.Cookie) []*roster.Cookie {
	need := len(p1)
	child := make([]*roster.Cookie, 0, need)
	inChild := make(map[string]bool, roster.TeamSize)

	for i := 0; i < need; i++ {
		pick, other := p1[i], p2[i]
		if g.src.Intn(2) == 1 {
			pick, other = other, pick
		}
		if inChild[pick.Name] {
			pick = other
		}
		if inChild[pick.Name] {
			fresh, ok := g.freshMember(free, inChild)
			if !ok {
				// The child holds fewer members than the pool, so a fresh
				// member always exists here.
				panic("search: no free member available for crossover resampling")
			}
			pick = fresh
		}
		child = append(child, pick)
		inChild[pick.Name] = true
	}
	return child
}

// mutate replaces one open slot with a pool member not already on the team.
// When the pool exactly fills the team there is nothing to swap in, and the
// individual is left unchanged.
func (g *Genetic) mutate(free, required []*roster.Cookie, fill []*roster.Cookie) {
	onTeam := make(map[string]bool, roster.TeamSize)
	for _, r := range required {
		onTeam[r.Name] = true
	}
	for _, c := range fill {
		onTeam[c.Name] = true
	}
	replacement, ok := g.freshMember(free, onTeam)
	if !ok {
		return
	}
	fill[g.src.Intn(len(fill))] = replacement
}

// freshMember samples a pool member absent from taken. Falls back to a linear
// scan when random probing keeps colliding.
//
// Postcondition: Returns (member, true) when free holds a cookie absent from
// taken, (nil, false) otherwise.
func (g *Genetic) freshMember(free []*roster.Cookie, taken map[string]bool) (*roster.Cookie, bool) {
	for attempt := 0; attempt < 10; attempt++ {
		c := free[g.src.Intn(len(free))]
		if !taken[c.Name] {
			return c, true
		}
	}
	offset := g.src.Intn(len(free))
	for i := 0; i < len(free); i++ {
		c := free[(offset+i)%len(free)]
		if !taken[c.Name] {
			return c, true
		}
	}
	return nil, false
}
