package sim

import (
	"context"
	"sync"
	"time"
)

// manualClock advances only when the loop sleeps, oversleeping each call by
// overshoot. It cancels the run once the configured deadline is reached.
type manualClock struct {
	mu        sync.Mutex
	now       time.Time
	overshoot time.Duration
	deadline  time.Time
	cancel    context.CancelFunc
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.now = c.now.Add(d + c.overshoot)
	now := c.now
	c.mu.Unlock()

	if !c.deadline.IsZero() && !now.Before(c.deadline) && c.cancel != nil {
		c.cancel()
	}
	return ctx.Err()
}
