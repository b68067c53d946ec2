package testutil

import (
	"fmt"
	"sync"
)

// DeterministicClock is a thread-safe monotonic counter for tests.
//
// The first call to Next returns 1. Reset starts the sequence again so a
// test can replay the same steps and get the same values.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock starting at 0.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset resets the clock to 0.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// SequentialIDGenerator hands out predictable catalog build IDs:
// "<prefix>-0001", "<prefix>-0002", ... It satisfies store.IDGenerator.
type SequentialIDGenerator struct {
	Prefix string
	clock  DeterministicClock
}

// NewSequentialIDGenerator creates a generator. An empty prefix means "build".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "build"
	}
	return &SequentialIDGenerator{Prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%04d", g.Prefix, g.clock.Next())
}

// Reset restarts the sequence.
func (g *SequentialIDGenerator) Reset() {
	g.clock.Reset()
}
