package normalize

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time (synthesized numbers use its year).
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// Sequence yields the numeric suffix of synthesized document numbers.
type Sequence interface {
	Next() int
}

// RandomSequence returns values in [100, 999].
type RandomSequence struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSequence() *RandomSequence {
	return &RandomSequence{rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))}
}

func (s *RandomSequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 100 + s.rng.IntN(900)
}

// CounterSequence returns start, start+1, ... and is safe for concurrent use.
type CounterSequence struct {
	mu   sync.Mutex
	next int
}

func NewCounterSequence(start int) *CounterSequence {
	return &CounterSequence{next: start}
}

func (s *CounterSequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.next
	s.next++
	return v
}

// IDGenerator produces opaque document ids.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }
