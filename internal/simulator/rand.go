package simulator

import (
	"math/rand"
	"sync"
)

// Rand is the randomness the simulator draws from. Values are in [0, 1).
type Rand interface {
	Float64() float64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a goroutine-safe source seeded with seed.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
