package research

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness the generators draw from.
type Source interface {
	// Float64 returns a uniform value in [0,1)
	Float64() float64
	// IntN returns a uniform value in [0,n)
	IntN(n int) int
}

// lockedSource serializes access to a seeded PRNG so one instance can be
// shared by concurrent requests.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a Source safe for concurrent use. A zero seed draws a
// random seed; any other value gives a reproducible sequence.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}
