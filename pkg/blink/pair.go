package blink

import (
	"sync"

	"github.com/robotalks/blink.go/pkg/hal"
)

// Pair keeps exactly one indicator channel lit.
type Pair struct {
	Indicator hal.Indicator

	lock   sync.RWMutex
	active hal.Channel
}

// NewPair creates a Pair over an indicator.
func NewPair(ind hal.Indicator) *Pair {
	return &Pair{Indicator: ind, active: hal.ChannelB}
}

// Active returns the lit channel.
func (p *Pair) Active() hal.Channel {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.active
}

// Reset lights ChannelB and turns ChannelA off.
func (p *Pair) Reset() error {
	return p.show(hal.ChannelB)
}

// Flip lights the other channel and returns it.
func (p *Pair) Flip() (hal.Channel, error) {
	next := p.Active().Other()
	return next, p.show(next)
}

func (p *Pair) show(ch hal.Channel) error {
	p.lock.Lock()
	p.active = ch
	p.lock.Unlock()
	if err := p.Indicator.Set(ch.Other(), false); err != nil {
		return err
	}
	return p.Indicator.Set(ch, true)
}
