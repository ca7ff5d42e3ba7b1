// Package transfer hands newly selected blink periods from the command
// handler to the indicator loop.
package transfer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Capacity is the maximum number of pending periods.
const Capacity = 2

// Channel is a bounded FIFO of periods. Puts never block; when the
// queue is full the period is dropped and counted.
type Channel struct {
	ch    chan time.Duration
	drops atomic.Uint64
}

// NewChannel creates an empty Channel.
func NewChannel() *Channel {
	return &Channel{ch: make(chan time.Duration, Capacity)}
}

// TryPut enqueues d if there is room. It reports whether d was queued.
func (c *Channel) TryPut(d time.Duration) bool {
	select {
	case c.ch <- d:
		return true
	default:
		c.drops.Add(1)
		return false
	}
}

// Len returns the number of pending periods.
func (c *Channel) Len() int {
	return len(c.ch)
}

// Drops returns how many periods were dropped by TryPut so far.
func (c *Channel) Drops() uint64 {
	return c.drops.Load()
}

// ReceiveUntil waits for either a period or the deadline on clk.
//
// A deadline already in the past still takes a pending period without
// blocking. ok is false when the deadline passed first; err is only set
// when ctx is done.
func (c *Channel) ReceiveUntil(ctx context.Context, clk clock.Clock, deadline time.Time) (d time.Duration, ok bool, err error) {
	wait := deadline.Sub(clk.Now())
	if wait <= 0 {
		select {
		case d = <-c.ch:
			return d, true, nil
		case <-ctx.Done():
			return 0, false, ctx.Err()
		default:
			return 0, false, nil
		}
	}
	timer := clk.Timer(wait)
	defer timer.Stop()
	select {
	case d = <-c.ch:
		return d, true, nil
	case <-timer.C:
		return 0, false, nil
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
}
