// Package blink alternates the indicator channels at the selected period
// and applies period changes as soon as they arrive.
package blink

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"

	"github.com/robotalks/blink.go/pkg/hal"
	"github.com/robotalks/blink.go/pkg/period"
	"github.com/robotalks/blink.go/pkg/transfer"
)

// Controller is the indicator loop.
type Controller struct {
	Pair     *Pair
	Selector *period.Selector
	Channel  *transfer.Channel
	Clock    clock.Clock
}

// NewController creates a Controller using the wall clock.
func NewController(ind hal.Indicator, sel *period.Selector, ch *transfer.Channel) *Controller {
	return &Controller{
		Pair:     NewPair(ind),
		Selector: sel,
		Channel:  ch,
		Clock:    clock.New(),
	}
}

// Name implements Named.
func (c *Controller) Name() string {
	return "blink"
}

// Run implements Runnable. It only returns when ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Pair.Reset(); err != nil {
		glog.Errorf("indicator reset error: %v", err)
	}
	cyc := newCycle(c.Clock.Now(), c.Selector.Period())
	glog.V(1).Infof("blinking every %v", cyc.active())
	for {
		received, ok, err := c.Channel.ReceiveUntil(ctx, c.Clock, cyc.deadline)
		if err != nil {
			return err
		}
		now := c.Clock.Now()
		if ok {
			if cyc.rebase(now, received) {
				glog.V(1).Infof("period %v applied after %v", received, cyc.elapsed(now))
				continue
			}
			glog.V(2).Infof("period %v arrived after the toggle was due", received)
		}
		if !cyc.due(now) {
			continue
		}
		ch, err := c.Pair.Flip()
		if err != nil {
			glog.Errorf("indicator %s error: %v", ch, err)
		}
		cyc = newCycle(now, c.Selector.Period())
		glog.V(3).Infof("channel %s on, next toggle in %v", ch, cyc.active())
	}
}
