package blink

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/blink.go/pkg/hal"
)

type indicatorEvent struct {
	ch hal.Channel
	on bool
	at time.Time
}

type recordingIndicator struct {
	lock   sync.Mutex
	events []indicatorEvent
	lit    map[hal.Channel]bool
	err    error
	// clock stamps events, wall clock when nil.
	clock clock.Clock
}

func newRecordingIndicator() *recordingIndicator {
	return &recordingIndicator{lit: make(map[hal.Channel]bool)}
}

func (r *recordingIndicator) Set(ch hal.Channel, on bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	at := time.Now()
	if r.clock != nil {
		at = r.clock.Now()
	}
	r.events = append(r.events, indicatorEvent{ch: ch, on: on, at: at})
	r.lit[ch] = on
	return r.err
}

// litAt returns the times a channel was switched on.
func (r *recordingIndicator) litAt() []indicatorEvent {
	r.lock.Lock()
	defer r.lock.Unlock()
	var res []indicatorEvent
	for _, ev := range r.events {
		if ev.on {
			res = append(res, ev)
		}
	}
	return res
}

func (r *recordingIndicator) isLit(ch hal.Channel) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.lit[ch]
}

func TestPairReset(t *testing.T) {
	ind := newRecordingIndicator()
	p := NewPair(ind)
	require.NoError(t, p.Reset())
	assert.Equal(t, hal.ChannelB, p.Active())
	assert.True(t, ind.isLit(hal.ChannelB))
	assert.False(t, ind.isLit(hal.ChannelA))
}

func TestPairFlipExclusive(t *testing.T) {
	ind := newRecordingIndicator()
	p := NewPair(ind)
	require.NoError(t, p.Reset())
	for i := 0; i < 4; i++ {
		ch, err := p.Flip()
		require.NoError(t, err)
		assert.Equal(t, ch, p.Active())
		assert.True(t, ind.isLit(ch))
		assert.False(t, ind.isLit(ch.Other()))
	}
	assert.Equal(t, hal.ChannelB, p.Active())
}

func TestPairFlipError(t *testing.T) {
	ind := newRecordingIndicator()
	ind.err = errors.New("pin stuck")
	p := NewPair(ind)
	ch, err := p.Flip()
	require.EqualError(t, err, "pin stuck")
	assert.Equal(t, hal.ChannelA, ch)
	assert.Equal(t, hal.ChannelA, p.Active())
}
