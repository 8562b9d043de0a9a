package bot

import (
	"math/rand/v2"
	"sync"
)

//go:generate mockgen -source=random.go -destination=mocks/mock_rand_source.go -package=mocks

// RandSource is the entropy the difficulty gate consumes.
// Implementations must be safe for concurrent use.
type RandSource interface {
	// Float64 returns a uniform sample in [0, 1).
	Float64() float64
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// GlobalSource returns a source backed by the runtime's global generator.
func GlobalSource() RandSource {
	return globalSource{}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a deterministic PCG source for the given seed.
func NewSeededSource(seed uint64) RandSource {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
