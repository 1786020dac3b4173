package research

import (
	"sync"
	"time"
)

// tickingClock returns an instant that advances by step on every call
type tickingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newTickingClock(step time.Duration) *tickingClock {
	return &tickingClock{
		now:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

// panicSource blows up on first use
type panicSource struct{}

func (panicSource) Float64() float64 { panic("random source exhausted") }
func (panicSource) IntN(int) int     { panic("random source exhausted") }
