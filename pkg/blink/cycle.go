package blink

import "time"

// cycle is one indicator period: it starts at a toggle and
// ends when the next toggle is due.
type cycle struct {
	start    time.Time
	deadline time.Time
}

func newCycle(now time.Time, active time.Duration) cycle {
	return cycle{start: now, deadline: now.Add(active)}
}

func (c *cycle) active() time.Duration {
	return c.deadline.Sub(c.start)
}

func (c *cycle) elapsed(now time.Time) time.Duration {
	return now.Sub(c.start)
}

func (c *cycle) due(now time.Time) bool {
	return c.elapsed(now) >= c.active()
}

// rebase applies a period received mid cycle. The remaining wait becomes
// received-elapsed from now, so the toggle lands received after start.
// A cycle already due is left untouched and rebase reports false.
func (c *cycle) rebase(now time.Time, received time.Duration) bool {
	elapsed := c.elapsed(now)
	if elapsed >= c.active() {
		return false
	}
	c.deadline = now.Add(received - elapsed)
	return true
}
