package search

import (
	"context"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// Random generates candidate teams by uniform sampling without replacement,
// softly favoring biased picks when a bias is configured. Quality comes from
// scoring and ranking downstream.
type Random struct {
	src  Source
	bias BiasConfig
}

// NewRandom creates a Random generator. A zero bias samples uniformly.
//
// Precondition: src must be non-nil.
func NewRandom(src Source, bias BiasConfig) *Random {
	return &Random{src: src, bias: bias}
}

// Generate draws up to count distinct teams. Repeated membership draws are
// tolerated and skipped; small pools may yield fewer than count teams once
// the attempt budget runs out.
//
// Postcondition: All returned teams are distinct by signature and contain
// every required member.
func (g *Random) Generate(ctx context.Context, pool, required []*roster.Cookie, count int) (Result, error) {
	free, need, err := prepare(pool, required)
	if err != nil {
		return Result{}, err
	}

	seen := make(map[string]bool, count)
	teams := make([]roster.Team, 0, count)
	maxAttempts := count * 20
	if maxAttempts < 100 {
		maxAttempts = 100
	}

	for attempts := 0; len(teams) < count && attempts < maxAttempts; attempts++ {
		select {
		case <-ctx.Done():
			return Result{Teams: teams, Incomplete: true}, nil
		default:
		}

		team := assemble(required, sampleBiased(g.src, free, need, g.bias))
		sig := team.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		teams = append(teams, team)
	}
	return Result{Teams: teams}, nil
}
