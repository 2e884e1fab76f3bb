package search

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// combinationBatchSize is the number of index combinations handed to a
// scoring worker at a time.
const combinationBatchSize = 256

// Exhaustive enumerates every combination of open slots, streaming each team
// through bounded top-K selection so the full candidate set is never
// materialized. Enumeration order is fixed and scoring is pure, so results
// are deterministic regardless of worker scheduling.
type Exhaustive struct {
	scorer Scorer
	cfg    ExhaustiveConfig
	budget time.Duration
}

// NewExhaustive creates an Exhaustive generator.
//
// Precondition: scorer must be non-nil.
func NewExhaustive(scorer Scorer, cfg ExhaustiveConfig, budget time.Duration) *Exhaustive {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Exhaustive{scorer: scorer, cfg: cfg, budget: budget}
}

// Combinations returns C(n, k), saturating at math.MaxInt64.
//
// Precondition: n >= 0 and k >= 0.
func Combinations(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 0; i < k; i++ {
		result = result * float64(n-i) / float64(i+1)
	}
	if result >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(result + 0.5)
}

// Generate enumerates all fills of the open slots and returns the count best
// teams. The practicality guard refuses impractical spaces: once the free
// pool reaches GuardPoolSize, at least GuardMinRequired members must be
// pinned, and the total combination count must not exceed MaxCombinations.
// A time budget or ctx cancellation stops enumeration early and returns the
// best teams found so far with Incomplete set.
//
// Postcondition: Returns teams in deterministic best-first order, or an
// error wrapping ErrGuardRefused when the guard declines the space.
func (g *Exhaustive) Generate(ctx context.Context, pool, required []*roster.Cookie, count int) (Result, error) {
	free, need, err := prepare(pool, required)
	if err != nil {
		return Result{}, err
	}
	if need == 0 {
		return Result{Teams: []roster.Team{assemble(required, nil)}}, nil
	}

	if g.cfg.GuardPoolSize > 0 && len(free) >= g.cfg.GuardPoolSize && len(required) < g.cfg.GuardMinRequired {
		return Result{}, fmt.Errorf(
			"%w: pool of %d needs at least %d required members, got %d",
			ErrGuardRefused, len(free), g.cfg.GuardMinRequired, len(required))
	}
	total := Combinations(len(free), need)
	if g.cfg.MaxCombinations > 0 && total > g.cfg.MaxCombinations {
		return Result{}, fmt.Errorf(
			"%w: %d combinations exceed the cap of %d",
			ErrGuardRefused, total, g.cfg.MaxCombinations)
	}

	if g.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.budget)
		defer cancel()
	}

	var incomplete atomic.Bool
	jobs := make(chan [][]int, g.cfg.Workers*2)

	// Producer: stream index combinations in lexicographic order.
	go func() {
		defer close(jobs)
		indices := make([]int, need)
		for i := range indices {
			indices[i] = i
		}
		batch := make([][]int, 0, combinationBatchSize)
		// Workers drain jobs until close, so the send never deadlocks; the
		// deadline is checked after the send so a partial run still scores
		// at least one batch.
		flush := func() bool {
			if len(batch) > 0 {
				jobs <- batch
				batch = make([][]int, 0, combinationBatchSize)
			}
			if ctx.Err() != nil {
				incomplete.Store(true)
				return false
			}
			return true
		}
		for {
			combo := make([]int, need)
			copy(combo, indices)
			batch = append(batch, combo)
			if len(batch) == combinationBatchSize {
				if !flush() {
					return
				}
			}
			if !nextCombination(indices, len(free)) {
				break
			}
		}
		flush()
	}()

	// Workers: score each combination into a private top-K.
	locals := make([]*topK, g.cfg.Workers)
	var wg sync.WaitGroup
	for w := 0; w < g.cfg.Workers; w++ {
		local := newTopK(count)
		locals[w] = local
		wg.Add(1)
		go func() {
			defer wg.Done()
			fill := make([]*roster.Cookie, need)
			for batch := range jobs {
				for _, combo := range batch {
					for i, idx := range combo {
						fill[i] = free[idx]
					}
					team := assemble(required, fill)
					local.add(candidate{
						team:  team,
						score: g.scorer.Score(team),
						sig:   team.Signature(),
					})
				}
			}
		}()
	}
	wg.Wait()

	merged := newTopK(count)
	for _, local := range locals {
		merged.merge(local)
	}
	return Result{Teams: merged.teams(), Incomplete: incomplete.Load()}, nil
}

// nextCombination advances indices to the next k-combination of [0, n) in
// lexicographic order, returning false after the last one.
func nextCombination(indices []int, n int) bool {
	k := len(indices)
	for i := k - 1; i >= 0; i-- {
		if indices[i] < n-k+i {
			indices[i]++
			for j := i + 1; j < k; j++ {
				indices[j] = indices[j-1] + 1
			}
			return true
		}
	}
	return false
}
