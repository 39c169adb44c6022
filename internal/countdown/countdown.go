// Package countdown tracks per-attempt deadlines and drives the 1 Hz
// tick loop that forces submission when time runs out.
package countdown

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Deadline is the fixed expiry of one attempt. It is derived once from the
// attempt's start time and never moves afterwards.
type Deadline struct {
	AttemptID uuid.UUID
	ExpiresAt time.Time
}

// NewDeadline binds an expiry to an attempt from its start time and limit.
func NewDeadline(attemptID uuid.UUID, startedAt time.Time, limit time.Duration) Deadline {
	return Deadline{AttemptID: attemptID, ExpiresAt: startedAt.Add(limit)}
}

// Remaining returns the whole seconds left at the given instant, clamped at
// zero. Remaining is always recomputed from the wall clock, so a stalled
// ticker catches up instead of drifting.
func (d Deadline) Remaining(now time.Time) int {
	left := d.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left.Round(time.Second) / time.Second)
}

// Expired reports whether the deadline has passed at the given instant.
func (d Deadline) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

// Controller runs the countdown for a single attempt. Each tick it reports
// the remaining seconds through onTick; when the deadline expires it calls
// onExpire exactly once and stops.
type Controller struct {
	deadline Deadline
	interval time.Duration
	now      func() time.Time
	onTick   func(remaining int)
	onExpire func()
}

// NewController creates a countdown controller ticking once per second.
func NewController(deadline Deadline, onTick func(remaining int), onExpire func()) *Controller {
	return &Controller{
		deadline: deadline,
		interval: time.Second,
		now:      time.Now,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Run drives the countdown until the deadline expires or ctx is cancelled.
// It reports the initial remaining value immediately, then once per tick.
func (c *Controller) Run(ctx context.Context) {
	if c.step() {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.step() {
				return
			}
		}
	}
}

// step emits one tick and reports whether the countdown has finished.
func (c *Controller) step() bool {
	now := c.now()
	remaining := c.deadline.Remaining(now)
	c.onTick(remaining)
	if remaining == 0 {
		c.onExpire()
		return true
	}
	return false
}
