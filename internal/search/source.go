// Package search provides the candidate team generators: random sampling,
// greedy construction, a genetic algorithm, and exhaustive enumeration. All
// randomness flows through the Source abstraction so runs are reproducible
// when seeded.
package search

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
	"sync"

	"github.com/crumbworks/teamsmith/internal/roster"
)

// Source is the randomness provider for the generators.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any
// n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. This is the default
// when no seed is supplied; runs are intentionally non-reproducible.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "search: Intn called with n <= 0" if n <= 0.
// Panics with "search: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("search: Intn called with n <= 0")
	}
	val, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("search: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource implements Source using a seeded PRNG guarded by a mutex.
//
// Invariant: Two seededSources with the same seed produce identical value
// sequences when called from a single goroutine.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source for reproducible runs.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "search: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("search: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// sample draws k distinct cookies from pool using a partial Fisher-Yates
// shuffle. The input slice is not modified.
//
// Precondition: 0 <= k <= len(pool); src must be non-nil.
func sample(src Source, pool []*roster.Cookie, k int) []*roster.Cookie {
	working := make([]*roster.Cookie, len(pool))
	copy(working, pool)
	for i := 0; i < k; i++ {
		j := i + src.Intn(len(working)-i)
		working[i], working[j] = working[j], working[i]
	}
	return working[:k]
}

// sampleBiased draws k distinct cookies like sample, except that while
// unconsumed preferred members remain at the front of the working slice,
// each slot favors them with the bias fraction. An unbiased draw may scatter
// a preferred member past the window; the bias is soft, not a quota.
//
// Precondition: 0 <= k <= len(pool); src must be non-nil.
func sampleBiased(src Source, pool []*roster.Cookie, k int, bias BiasConfig) []*roster.Cookie {
	if !bias.enabled() {
		return sample(src, pool, k)
	}
	preferred := make(map[string]bool, len(bias.Preferred))
	for _, name := range bias.Preferred {
		preferred[name] = true
	}

	working := make([]*roster.Cookie, len(pool))
	copy(working, pool)
	// Move preferred members to the front; [0, p) is the preferred window.
	p := 0
	for i, c := range working {
		if preferred[c.Name] {
			working[p], working[i] = working[i], working[p]
			p++
		}
	}

	threshold := int(bias.Fraction * 1000)
	for i := 0; i < k; i++ {
		var j int
		if i < p && src.Intn(1000) < threshold {
			j = i + src.Intn(p-i)
		} else {
			j = i + src.Intn(len(working)-i)
		}
		working[i], working[j] = working[j], working[i]
	}
	return working[:k]
}

// shuffle permutes s in place.
func shuffle(src Source, s []*roster.Cookie) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
