package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// Strategy names a candidate generation algorithm.
type Strategy string

const (
	StrategyRandom     Strategy = "random"
	StrategyGreedy     Strategy = "greedy"
	StrategyGenetic    Strategy = "genetic"
	StrategyExhaustive Strategy = "exhaustive"
)

// ParseStrategy maps a string to a Strategy.
//
// Postcondition: Returns a known Strategy or a non-nil error.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRandom, StrategyGreedy, StrategyGenetic, StrategyExhaustive:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Sentinel errors returned by the generators.
var (
	// ErrPoolTooSmall indicates the pool cannot fill the open team slots.
	ErrPoolTooSmall = errors.New("search: pool too small to fill a team")
	// ErrGuardRefused indicates the exhaustive generator declined to
	// enumerate an impractically large combination space.
	ErrGuardRefused = errors.New("search: exhaustive search refused by practicality guard")
)

// Scorer evaluates a complete team. The generators treat higher as better.
type Scorer interface {
	Score(team roster.Team) float64
}

// Result is a generator's output. Incomplete marks a best-effort result cut
// short by a time budget or context cancellation; it is not an error.
type Result struct {
	Teams      []roster.Team
	Incomplete bool
}

// Generator produces candidate teams from a pool. Required members appear in
// every produced team; the remaining slots come from the pool.
//
// Implementations MUST honor ctx cancellation and return distinct teams
// (by membership signature) in a deterministic order for a given Source.
type Generator interface {
	Generate(ctx context.Context, pool, required []*roster.Cookie, count int) (Result, error)
}

// GeneticConfig tunes the genetic generator.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	EliteFraction  float64
	MutationRate   float64
}

// ExhaustiveConfig tunes the exhaustive generator's practicality guard and
// worker fan-out.
type ExhaustiveConfig struct {
	// GuardPoolSize is the free-pool size at which the guard activates.
	GuardPoolSize int
	// GuardMinRequired is the minimum pinned members once the guard is active.
	GuardMinRequired int
	// MaxCombinations caps the enumerable space; 0 disables the cap.
	MaxCombinations int64
	// Workers is the scoring fan-out width; 0 means GOMAXPROCS.
	Workers int
}

// BiasConfig softly steers generation toward preferred pool members: a
// biased draw fills a slot from the preferred partition with probability
// Fraction. The bias shapes sampling only; scoring still decides the final
// ranking. The exhaustive generator ignores it, since full enumeration
// already visits every preferred combination.
type BiasConfig struct {
	// Preferred names the favored pool members.
	Preferred []string
	// Fraction is the per-draw probability of favoring preferred, 0-1.
	Fraction float64
}

func (b BiasConfig) enabled() bool {
	return b.Fraction > 0 && len(b.Preferred) > 0
}

// Config carries the knobs for all generators.
type Config struct {
	Genetic    GeneticConfig
	Exhaustive ExhaustiveConfig
	Bias       BiasConfig
	// Budget bounds genetic and exhaustive runs; 0 means unbounded.
	Budget time.Duration
}

// New builds the Generator for the given strategy.
//
// Precondition: scorer and src must be non-nil.
// Postcondition: Returns a Generator or a non-nil error for unknown strategies.
func New(strategy Strategy, scorer Scorer, src Source, cfg Config) (Generator, error) {
	switch strategy {
	case StrategyRandom:
		return NewRandom(src, cfg.Bias), nil
	case StrategyGreedy:
		return NewGreedy(src, cfg.Bias), nil
	case StrategyGenetic:
		return NewGenetic(scorer, src, cfg.Genetic, cfg.Bias, cfg.Budget), nil
	case StrategyExhaustive:
		return NewExhaustive(scorer, cfg.Exhaustive, cfg.Budget), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", strategy)
}

// prepare validates the pool against the required members and returns the
// free pool (pool minus required) and the number of open slots.
func prepare(pool, required []*roster.Cookie) (free []*roster.Cookie, need int, err error) {
	if len(required) > roster.TeamSize {
		return nil, 0, fmt.Errorf("at most %d required members, got %d", roster.TeamSize, len(required))
	}
	pinned := make(map[string]bool, len(required))
	for _, r := range required {
		if pinned[r.Name] {
			return nil, 0, fmt.Errorf("duplicate required member %q", r.Name)
		}
		pinned[r.Name] = true
	}
	need = roster.TeamSize - len(required)
	free = make([]*roster.Cookie, 0, len(pool))
	for _, c := range pool {
		if !pinned[c.Name] {
			free = append(free, c)
		}
	}
	if len(free) < need {
		return nil, 0, fmt.Errorf("%w: %d open slots but only %d available cookies",
			ErrPoolTooSmall, need, len(free))
	}
	return free, need, nil
}

// assemble builds a Team from the required members plus the given fill.
//
// Precondition: len(required)+len(fill) == roster.TeamSize with no overlap.
func assemble(required, fill []*roster.Cookie) roster.Team {
	members := make([]*roster.Cookie, 0, roster.TeamSize)
	members = append(members, required...)
	members = append(members, fill...)
	team, err := roster.NewTeam(members)
	if err != nil {
		panic("search: assembled invalid team: " + err.Error())
	}
	return team
}
