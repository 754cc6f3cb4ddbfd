// Package clock abstracts time so task timings and run summaries can be
// tested deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// StepClock returns Start on the first call and advances by Step on every
// following call. It is safe for concurrent use.
type StepClock struct {
	mu    sync.Mutex
	next  time.Time
	step  time.Duration
	begun bool
}

// NewStepClock creates a StepClock.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the next tick.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.begun {
		c.next = c.next.Add(c.step)
	}
	c.begun = true
	return c.next
}

var (
	_ Clock = RealClock{}
	_ Clock = (*StepClock)(nil)
)
