package roll

import (
	"math/rand"
	"sync"
	"time"
)

// Source supplies the randomness for dice rolls. Intn must return a
// uniformly distributed int in [0, n) for n > 0. *math/rand.Rand
// satisfies the interface; tests substitute scripted sequences.
type Source interface {
	Intn(n int) int
}

// lockedSource serializes access to a rand.Rand so a single Source can
// back concurrent callers.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Intn(n)
}

// NewSource returns a seeded Source that is safe for concurrent use.
func NewSource(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

// DefaultSource returns a time-seeded Source that is safe for concurrent
// use.
func DefaultSource() Source {
	return NewSource(time.Now().UnixNano())
}
