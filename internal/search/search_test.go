package search_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/crumbworks/teamsmith/internal/reference"
	"github.com/crumbworks/teamsmith/internal/roster"
	"github.com/crumbworks/teamsmith/internal/scoring"
	"github.com/crumbworks/teamsmith/internal/search"
)

// totalScorer adapts the composition scorer to the generator interface.
type totalScorer struct {
	s *scoring.Scorer
}

func (t totalScorer) Score(team roster.Team) float64 {
	return t.s.Score(team, scoring.Options{}).Total
}

func newScorer() search.Scorer {
	return totalScorer{s: scoring.NewScorer(&reference.Synergy{})}
}

// makePool builds n cookies cycling through roles, positions, rarities, and
// elements so any slice of it exercises all score components.
func makePool(n int) []*roster.Cookie {
	roles := []roster.Role{
		roster.RoleDefense, roster.RoleCharge, roster.RoleMagic, roster.RoleRanged,
		roster.RoleHealing, roster.RoleSupport, roster.RoleBomber, roster.RoleAmbush,
	}
	positions := []roster.Position{roster.PositionFront, roster.PositionMiddle, roster.PositionRear}
	rarities := []roster.Rarity{
		roster.RarityCommon, roster.RarityRare, roster.RarityEpic,
		roster.RaritySuperEpic, roster.RarityLegendary, roster.RarityAncient,
	}
	elements := []roster.Element{"", "Fire", "Water", "Ice", "Light"}

	pool := make([]*roster.Cookie, n)
	for i := 0; i < n; i++ {
		pool[i] = &roster.Cookie{
			Name:     fmt.Sprintf("Cookie-%02d", i),
			Rarity:   rarities[i%len(rarities)],
			Role:     roles[i%len(roles)],
			Position: positions[i%len(positions)],
			Element:  elements[i%len(elements)],
		}
	}
	return pool
}

func assertValidTeams(t *testing.T, teams []roster.Team, required []*roster.Cookie) {
	t.Helper()
	seen := make(map[string]bool)
	for _, team := range teams {
		assert.Len(t, team.Members, roster.TeamSize)
		names := make(map[string]bool)
		for _, m := range team.Members {
			assert.False(t, names[m.Name], "duplicate member %s", m.Name)
			names[m.Name] = true
		}
		for _, r := range required {
			assert.True(t, team.Contains(r.Name), "team must contain required member %s", r.Name)
		}
		sig := team.Signature()
		assert.False(t, seen[sig], "duplicate team %s", sig)
		seen[sig] = true
	}
}

func signatures(teams []roster.Team) []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = t.Signature()
	}
	return out
}

// TestParseStrategy verifies the strategy names and the unknown case.
func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"random", "greedy", "genetic", "exhaustive"} {
		s, err := search.ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, search.Strategy(name), s)
	}
	_, err := search.ParseStrategy("simulated-annealing")
	assert.Error(t, err)
}

// TestSeededSource_Deterministic verifies two sources with the same seed
// produce identical sequences.
func TestSeededSource_Deterministic(t *testing.T) {
	a := search.NewSeededSource(42)
	b := search.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

// TestSources_IntnBounds verifies range and the n <= 0 precondition panic.
func TestSources_IntnBounds(t *testing.T) {
	for _, src := range []search.Source{search.NewCryptoSource(), search.NewSeededSource(7)} {
		for i := 0; i < 200; i++ {
			v := src.Intn(6)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, 6)
		}
		assert.Panics(t, func() { src.Intn(0) })
	}
}

// TestRandom_Generate verifies distinctness, size, and required pinning.
func TestRandom_Generate(t *testing.T) {
	pool := makePool(20)
	required := pool[:2]
	g := search.NewRandom(search.NewSeededSource(1), search.BiasConfig{})

	res, err := g.Generate(context.Background(), pool, required, 10)
	require.NoError(t, err)
	assert.False(t, res.Incomplete)
	assert.Len(t, res.Teams, 10)
	assertValidTeams(t, res.Teams, required)
}

// TestRandom_PoolOfFive verifies a pool of exactly five yields the single
// possible team no matter how many candidates are requested.
func TestRandom_PoolOfFive(t *testing.T) {
	pool := makePool(5)
	g := search.NewRandom(search.NewSeededSource(1), search.BiasConfig{})

	res, err := g.Generate(context.Background(), pool, nil, 50)
	require.NoError(t, err)
	require.Len(t, res.Teams, 1)
	assertValidTeams(t, res.Teams, nil)
}

// TestRandom_PoolTooSmall verifies the sentinel for an unfillable pool.
func TestRandom_PoolTooSmall(t *testing.T) {
	g := search.NewRandom(search.NewSeededSource(1), search.BiasConfig{})
	_, err := g.Generate(context.Background(), makePool(4), nil, 1)
	assert.ErrorIs(t, err, search.ErrPoolTooSmall)
}

// TestRandom_SeedDeterminism verifies identical seeds produce identical team
// sequences.
func TestRandom_SeedDeterminism(t *testing.T) {
	pool := makePool(30)
	a, err := search.NewRandom(search.NewSeededSource(99), search.BiasConfig{}).Generate(context.Background(), pool, nil, 15)
	require.NoError(t, err)
	b, err := search.NewRandom(search.NewSeededSource(99), search.BiasConfig{}).Generate(context.Background(), pool, nil, 15)
	require.NoError(t, err)
	assert.Equal(t, signatures(a.Teams), signatures(b.Teams))
}

// TestGreedy_Generate verifies distinctness and required pinning, including
// the four-required case where only the fifth slot is free.
func TestGreedy_Generate(t *testing.T) {
	pool := makePool(20)
	g := search.NewGreedy(search.NewSeededSource(3), search.BiasConfig{})

	res, err := g.Generate(context.Background(), pool, nil, 8)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Teams)
	assertValidTeams(t, res.Teams, nil)

	required := pool[:4]
	res, err = g.Generate(context.Background(), pool, required, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Teams)
	assertValidTeams(t, res.Teams, required)
	// Only 16 distinct fifth members exist.
	assert.LessOrEqual(t, len(res.Teams), 16)
}

// TestGreedy_CoverageBeforePower verifies the marginal gain ordering: a weak
// cookie covering a new role and position beats a strong duplicate.
func TestGreedy_CoverageBeforePower(t *testing.T) {
	pool := []*roster.Cookie{
		{Name: "Anchor", Rarity: roster.RarityBeast, Role: roster.RoleDefense, Position: roster.PositionFront},
		{Name: "Duplicate Tank", Rarity: roster.RarityLegendary, Role: roster.RoleDefense, Position: roster.PositionFront},
		{Name: "Weak Healer", Rarity: roster.RarityCommon, Role: roster.RoleHealing, Position: roster.PositionRear},
		{Name: "Weak Mage", Rarity: roster.RarityCommon, Role: roster.RoleMagic, Position: roster.PositionMiddle},
		{Name: "Weak Archer", Rarity: roster.RarityCommon, Role: roster.RoleRanged, Position: roster.PositionRear},
		{Name: "Weak Ambusher", Rarity: roster.RarityCommon, Role: roster.RoleAmbush, Position: roster.PositionMiddle},
	}
	g := search.NewGreedy(search.NewSeededSource(5), search.BiasConfig{})

	res, err := g.Generate(context.Background(), pool, nil, 1)
	require.NoError(t, err)
	require.Len(t, res.Teams, 1)
	team := res.Teams[0]
	assert.True(t, team.Contains("Anchor"), "strongest cookie seeds the build")
	assert.False(t, team.Contains("Duplicate Tank"),
		"a duplicate role/position must lose to new coverage regardless of power")
}

// TestGenetic_Generate verifies validity, required pinning, and that the
// result is the best-ever set rather than an empty or overlong one.
func TestGenetic_Generate(t *testing.T) {
	pool := makePool(25)
	required := pool[:1]
	g := search.NewGenetic(newScorer(), search.NewSeededSource(11), search.GeneticConfig{
		PopulationSize: 20,
		Generations:    15,
	}, search.BiasConfig{}, 0)

	res, err := g.Generate(context.Background(), pool, required, 5)
	require.NoError(t, err)
	assert.False(t, res.Incomplete)
	assert.Len(t, res.Teams, 5)
	assertValidTeams(t, res.Teams, required)
}

// TestGenetic_SeedDeterminism verifies identical seeds evolve identical
// results.
func TestGenetic_SeedDeterminism(t *testing.T) {
	pool := makePool(25)
	cfg := search.GeneticConfig{PopulationSize: 20, Generations: 10}

	a, err := search.NewGenetic(newScorer(), search.NewSeededSource(77), cfg, search.BiasConfig{}, 0).
		Generate(context.Background(), pool, nil, 5)
	require.NoError(t, err)
	b, err := search.NewGenetic(newScorer(), search.NewSeededSource(77), cfg, search.BiasConfig{}, 0).
		Generate(context.Background(), pool, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, signatures(a.Teams), signatures(b.Teams))
}

// TestGenetic_BudgetPartial verifies an expired budget yields a best-effort
// result flagged Incomplete rather than an error.
func TestGenetic_BudgetPartial(t *testing.T) {
	pool := makePool(25)
	g := search.NewGenetic(newScorer(), search.NewSeededSource(13), search.GeneticConfig{
		PopulationSize: 20,
		Generations:    1000,
	}, search.BiasConfig{}, time.Nanosecond)

	res, err := g.Generate(context.Background(), pool, nil, 5)
	require.NoError(t, err)
	assert.True(t, res.Incomplete)
	assert.NotEmpty(t, res.Teams, "the initial population is always evaluated")
	assertValidTeams(t, res.Teams, nil)
}

// TestGenetic_PoolOfFive verifies a pool that exactly fills the team evolves
// without panicking: mutation has nothing to swap in and must leave the
// individual alone, with or without pinned members.
func TestGenetic_PoolOfFive(t *testing.T) {
	pool := makePool(5)
	cfg := search.GeneticConfig{PopulationSize: 10, Generations: 5, MutationRate: 1.0}

	g := search.NewGenetic(newScorer(), search.NewSeededSource(17), cfg, search.BiasConfig{}, 0)
	res, err := g.Generate(context.Background(), pool, nil, 10)
	require.NoError(t, err)
	require.Len(t, res.Teams, 1)
	assertValidTeams(t, res.Teams, nil)

	// Four pinned members leave a single free slot and a single free cookie.
	g = search.NewGenetic(newScorer(), search.NewSeededSource(17), cfg, search.BiasConfig{}, 0)
	res, err = g.Generate(context.Background(), pool, pool[:4], 10)
	require.NoError(t, err)
	require.Len(t, res.Teams, 1)
	assertValidTeams(t, res.Teams, pool[:4])
}

// TestRandom_BiasPrefersRecommended verifies a biased generator surfaces the
// preferred members more often than an unbiased one over the same pool.
func TestRandom_BiasPrefersRecommended(t *testing.T) {
	pool := makePool(24)
	preferred := []string{"Cookie-20", "Cookie-21", "Cookie-22", "Cookie-23"}
	count := 40

	occurrences := func(teams []roster.Team) int {
		n := 0
		for _, team := range teams {
			for _, name := range preferred {
				if team.Contains(name) {
					n++
				}
			}
		}
		return n
	}

	plain, err := search.NewRandom(search.NewSeededSource(7), search.BiasConfig{}).
		Generate(context.Background(), pool, nil, count)
	require.NoError(t, err)
	biased, err := search.NewRandom(search.NewSeededSource(7), search.BiasConfig{
		Preferred: preferred,
		Fraction:  0.9,
	}).Generate(context.Background(), pool, nil, count)
	require.NoError(t, err)

	assertValidTeams(t, biased.Teams, nil)
	assert.Greater(t, occurrences(biased.Teams), occurrences(plain.Teams),
		"preferred members must appear more often under bias")
}

// TestGreedy_BiasSeedsPreferred verifies a full-strength bias toward a single
// cookie puts it on every generated team via the seed slot.
func TestGreedy_BiasSeedsPreferred(t *testing.T) {
	pool := makePool(20)
	g := search.NewGreedy(search.NewSeededSource(9), search.BiasConfig{
		Preferred: []string{"Cookie-13"},
		Fraction:  1.0,
	})

	res, err := g.Generate(context.Background(), pool, nil, 6)
	require.NoError(t, err)
	require.NotEmpty(t, res.Teams)
	assertValidTeams(t, res.Teams, nil)
	for _, team := range res.Teams {
		assert.True(t, team.Contains("Cookie-13"), "biased seed must appear in %s", team.Signature())
	}
}

// TestCombinations verifies the saturating binomial helper.
func TestCombinations(t *testing.T) {
	assert.Equal(t, int64(1), search.Combinations(5, 5))
	assert.Equal(t, int64(45), search.Combinations(10, 2))
	assert.Equal(t, int64(21), search.Combinations(7, 5))
	assert.Equal(t, int64(0), search.Combinations(4, 5))
	assert.Equal(t, int64(1367533860), search.Combinations(177, 5))
}

// TestExhaustive_MatchesBruteForce verifies the streamed top-K equals a
// direct enumeration sorted by score.
func TestExhaustive_MatchesBruteForce(t *testing.T) {
	pool := makePool(8)
	scorer := newScorer()
	g := search.NewExhaustive(scorer, search.ExhaustiveConfig{Workers: 4}, 0)

	res, err := g.Generate(context.Background(), pool, nil, 3)
	require.NoError(t, err)
	assert.False(t, res.Incomplete)
	require.Len(t, res.Teams, 3)
	assertValidTeams(t, res.Teams, nil)

	// Brute force all C(8,5) = 56 teams.
	type scored struct {
		sig   string
		score float64
	}
	var all []scored
	n := len(pool)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					for e := d + 1; e < n; e++ {
						team, err := roster.NewTeam([]*roster.Cookie{pool[a], pool[b], pool[c], pool[d], pool[e]})
						require.NoError(t, err)
						all = append(all, scored{sig: team.Signature(), score: scorer.Score(team)})
					}
				}
			}
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].sig < all[j].sig
	})
	want := []string{all[0].sig, all[1].sig, all[2].sig}
	assert.Equal(t, want, signatures(res.Teams))
}

// TestExhaustive_Deterministic verifies identical results across runs despite
// worker parallelism.
func TestExhaustive_Deterministic(t *testing.T) {
	pool := makePool(10)
	g := search.NewExhaustive(newScorer(), search.ExhaustiveConfig{Workers: 8}, 0)

	a, err := g.Generate(context.Background(), pool, nil, 5)
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), pool, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, signatures(a.Teams), signatures(b.Teams))
}

// TestExhaustive_Guard verifies both guard refusals: too few pinned members
// on a large pool, and a combination space above the cap.
func TestExhaustive_Guard(t *testing.T) {
	pool := makePool(30)

	g := search.NewExhaustive(newScorer(), search.ExhaustiveConfig{
		GuardPoolSize:    20,
		GuardMinRequired: 3,
	}, 0)
	_, err := g.Generate(context.Background(), pool, pool[:1], 5)
	assert.ErrorIs(t, err, search.ErrGuardRefused)

	// Three pinned members satisfy the guard.
	res, err := g.Generate(context.Background(), pool, pool[:3], 5)
	require.NoError(t, err)
	assertValidTeams(t, res.Teams, pool[:3])

	capped := search.NewExhaustive(newScorer(), search.ExhaustiveConfig{
		MaxCombinations: 100,
	}, 0)
	_, err = capped.Generate(context.Background(), pool, nil, 5)
	assert.ErrorIs(t, err, search.ErrGuardRefused)
}

// TestExhaustive_BudgetPartial verifies a tiny budget yields flagged partial
// results: at least one scored batch, no error.
func TestExhaustive_BudgetPartial(t *testing.T) {
	pool := makePool(40)
	g := search.NewExhaustive(newScorer(), search.ExhaustiveConfig{Workers: 2}, time.Nanosecond)

	res, err := g.Generate(context.Background(), pool, nil, 5)
	require.NoError(t, err)
	assert.True(t, res.Incomplete)
	assert.NotEmpty(t, res.Teams)
	assertValidTeams(t, res.Teams, nil)
}

// TestExhaustive_AllRequired verifies five pinned members yield exactly the
// one possible team.
func TestExhaustive_AllRequired(t *testing.T) {
	pool := makePool(12)
	g := search.NewExhaustive(newScorer(), search.ExhaustiveConfig{}, 0)

	res, err := g.Generate(context.Background(), pool, pool[:5], 10)
	require.NoError(t, err)
	require.Len(t, res.Teams, 1)
	assertValidTeams(t, res.Teams, pool[:5])
}

// TestNew verifies the factory covers every strategy and rejects unknowns.
func TestNew(t *testing.T) {
	src := search.NewSeededSource(1)
	for _, s := range []search.Strategy{
		search.StrategyRandom, search.StrategyGreedy,
		search.StrategyGenetic, search.StrategyExhaustive,
	} {
		g, err := search.New(s, newScorer(), src, search.Config{})
		require.NoError(t, err)
		assert.NotNil(t, g)
	}
	_, err := search.New("tabu", newScorer(), src, search.Config{})
	assert.Error(t, err)
}

// TestGenerators_Validity_Property verifies the core team invariant for all
// generators across arbitrary seeds, pool sizes, and required counts.
func TestGenerators_Validity_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		poolSize := rapid.IntRange(5, 24).Draw(rt, "poolSize")
		requiredN := rapid.IntRange(0, 5).Draw(rt, "required")
		seed := rapid.Int64().Draw(rt, "seed")
		pool := makePool(poolSize)
		required := pool[:requiredN]

		src := search.NewSeededSource(seed)
		gens := []search.Generator{
			search.NewRandom(src, search.BiasConfig{}),
			search.NewGreedy(src, search.BiasConfig{}),
			search.NewGenetic(newScorer(), src,
				search.GeneticConfig{PopulationSize: 10, Generations: 3, MutationRate: 0.5},
				search.BiasConfig{}, 0),
			search.NewExhaustive(newScorer(), search.ExhaustiveConfig{}, 0),
		}
		for _, g := range gens {
			res, err := g.Generate(context.Background(), pool, required, 4)
			require.NoError(rt, err)
			for _, team := range res.Teams {
				require.Len(rt, team.Members, roster.TeamSize)
				names := make(map[string]bool)
				for _, m := range team.Members {
					require.False(rt, names[m.Name])
					names[m.Name] = true
				}
				for _, r := range required {
					require.True(rt, team.Contains(r.Name))
				}
			}
		}
	})
}

// TestGenerate_ContextCancelled verifies cancellation surfaces as a partial
// result, not an error.
func TestGenerate_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := search.NewRandom(search.NewSeededSource(2), search.BiasConfig{})
	res, err := g.Generate(ctx, makePool(20), nil, 10)
	require.NoError(t, err)
	assert.True(t, res.Incomplete)
}
