package search

import (
	"container/heap"
	"sort"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// candidate is one scored team inside a topK selection.
type candidate struct {
	team  roster.Team
	score float64
	sig   string
}

// worse defines the total order used for eviction and final sorting: lower
// score loses; equal scores break ties on signature so results are
// deterministic regardless of insertion or goroutine scheduling order.
func worse(a, b candidate) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.sig > b.sig
}

// candidateHeap is a min-heap by the worse ordering: the weakest candidate
// sits at the root and is evicted first.
type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)        { *h = append(*h, x.(candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// topK keeps the k best distinct candidates seen so far in bounded memory.
//
// Invariant: at most k candidates are held; membership signatures are unique.
// Not safe for concurrent use; exhaustive search keeps one per worker and
// merges.
type topK struct {
	k    int
	h    candidateHeap
	seen map[string]bool
}

// newTopK creates a selection of capacity k.
//
// Precondition: k > 0.
func newTopK(k int) *topK {
	return &topK{k: k, seen: make(map[string]bool)}
}

// add offers a candidate. Duplicates (by signature) and candidates worse than
// the current k-th best are discarded.
func (t *topK) add(c candidate) {
	if t.seen[c.sig] {
		return
	}
	if len(t.h) < t.k {
		t.seen[c.sig] = true
		heap.Push(&t.h, c)
		return
	}
	if worse(c, t.h[0]) {
		return
	}
	evicted := heap.Pop(&t.h).(candidate)
	delete(t.seen, evicted.sig)
	t.seen[c.sig] = true
	heap.Push(&t.h, c)
}

// merge folds every candidate of other into t.
func (t *topK) merge(other *topK) {
	for _, c := range other.h {
		t.add(c)
	}
}

// sorted returns the held candidates best-first.
func (t *topK) sorted() []candidate {
	out := make([]candidate, len(t.h))
	copy(out, t.h)
	sort.Slice(out, func(i, j int) bool { return worse(out[j], out[i]) })
	return out
}

// teams returns the held teams best-first.
func (t *topK) teams() []roster.Team {
	cands := t.sorted()
	out := make([]roster.Team, len(cands))
	for i, c := range cands {
		out[i] = c.team
	}
	return out
}
