package testutil

import (
	"fmt"
	"sync"
	"time"
)

// FixedIDGenerator hands out run IDs in order, for deterministic recordings.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator returns a generator yielding ids in order. With no ids
// it yields 00000000-0000-7000-8000-000000000001, ...002 and so on.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next ID.
//
// Panics if a non-empty list of IDs is exhausted, to catch tests that start
// more runs than they expect.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if len(g.ids) == 0 {
		return fmt.Sprintf("00000000-0000-7000-8000-%012d", g.idx)
	}
	if g.idx > len(g.ids) {
		panic("FixedIDGenerator: all IDs exhausted")
	}
	return g.ids[g.idx-1]
}

// DeterministicClock returns Base, Base+1s, Base+2s, ... from Now.
//
// Thread-safety: safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu   sync.Mutex
	Base time.Time
	seq  int64
}

// NewDeterministicClock starts at 2024-01-01T00:00:00Z.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{Base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the next instant.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.Base.Add(time.Duration(c.seq) * time.Second)
	c.seq++
	return t
}

// Reset makes the next Now return Base again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
