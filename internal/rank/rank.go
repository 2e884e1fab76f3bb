// Package rank orders scored candidate teams deterministically: descending
// by key, stable tie-breaking, signature deduplication, and truncation.
// Ranking the output of a previous ranking yields the same list.
package rank

import (
	"sort"

	"github.com/crumbworks/teamsmith/internal/roster"
	"github.com/crumbworks/teamsmith/internal/scoring"
)

// Entry is one scored candidate awaiting ranking. Key is the ordering value;
// callers set it to the composition total, or to the combined score in
// counter mode.
type Entry struct {
	Team  roster.Team
	Score scoring.Score
	Key   float64
}

// Ranked is an Entry with its final 1-based position.
type Ranked struct {
	Rank  int
	Team  roster.Team
	Score scoring.Score
	Key   float64
}

// Rank sorts entries by Key descending, breaks ties by summed rarity rank
// descending then by team signature ascending, drops duplicate memberships,
// and truncates to topN.
//
// Precondition: topN >= 0. A topN larger than the candidate set returns
// everything.
// Postcondition: Ranks are 1..len(result) with no gaps; signatures are
// unique; the ordering is deterministic for a given input multiset.
func Rank(entries []Entry, topN int) []Ranked {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Key != b.Key {
			return a.Key > b.Key
		}
		ra, rb := a.Team.RarityRankSum(), b.Team.RarityRankSum()
		if ra != rb {
			return ra > rb
		}
		return a.Team.Signature() < b.Team.Signature()
	})

	out := make([]Ranked, 0, min(topN, len(sorted)))
	seen := make(map[string]bool, len(sorted))
	for _, e := range sorted {
		if len(out) == topN {
			break
		}
		sig := e.Team.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, Ranked{
			Rank:  len(out) + 1,
			Team:  e.Team,
			Score: e.Score,
			Key:   e.Key,
		})
	}
	return out
}
