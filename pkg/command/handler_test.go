package command

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/blink.go/pkg/hal"
	"github.com/robotalks/blink.go/pkg/period"
	"github.com/robotalks/blink.go/pkg/transfer"
)

// testLink replays scripted reads and records sent lines.
type testLink struct {
	reads []testRead
	lock  sync.Mutex
	sent  []string
	// sendErr fails every SendLine when set.
	sendErr error
}

type testRead struct {
	line string
	err  error
}

func (l *testLink) ReadLine(ctx context.Context) (string, error) {
	if len(l.reads) == 0 {
		return "", io.EOF
	}
	r := l.reads[0]
	l.reads = l.reads[1:]
	return r.line, r.err
}

func (l *testLink) SendLine(text string) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.sendErr != nil {
		return l.sendErr
	}
	l.sent = append(l.sent, text)
	return nil
}

func (l *testLink) lines() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]string(nil), l.sent...)
}

func lines(items ...string) []testRead {
	reads := make([]testRead, len(items))
	for n, item := range items {
		reads[n].line = item
	}
	return reads
}

func newTestHandler(reads ...testRead) (*Handler, *testLink) {
	link := &testLink{reads: reads}
	return NewHandler(link, period.NewSelector(&period.Default), transfer.NewChannel()), link
}

func drain(ch *transfer.Channel) []time.Duration {
	var res []time.Duration
	clk := clock.NewMock()
	for ch.Len() > 0 {
		d, _, _ := ch.ReceiveUntil(context.Background(), clk, clk.Now())
		res = append(res, d)
	}
	return res
}

func TestHandleScenario(t *testing.T) {
	h, link := newTestHandler()
	for _, line := range []string{Slower, Slower} {
		h.Handle(line)
	}
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 1500 * time.Millisecond}, drain(h.Channel))
	h.Handle(Slower)
	assert.Equal(t, 3, h.Selector.Index())
	h.Handle(Faster)
	assert.Equal(t, 2, h.Selector.Index())
	assert.Equal(t, []time.Duration{2000 * time.Millisecond, 1500 * time.Millisecond}, drain(h.Channel))
	assert.Empty(t, link.lines())
}

func TestHandleUnknown(t *testing.T) {
	for _, line := range []string{"sloww", "", "FASTER", "Slower", " slower", "slower ", "faste"} {
		h, link := newTestHandler()
		h.Handle(line)
		assert.Equal(t, []string{UnknownCommandMsg}, link.lines(), "input %q", line)
		assert.Equal(t, 0, h.Selector.Index(), "input %q", line)
		assert.Equal(t, 0, h.Channel.Len(), "input %q", line)
	}
}

func TestHandleDropsWhenFull(t *testing.T) {
	h, link := newTestHandler()
	h.Handle(Slower)
	h.Handle(Slower)
	h.Handle(Slower)
	assert.Equal(t, 3, h.Selector.Index())
	assert.Equal(t, transfer.Capacity, h.Channel.Len())
	assert.Equal(t, uint64(1), h.Channel.Drops())
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 1500 * time.Millisecond}, drain(h.Channel))
	assert.Empty(t, link.lines())
}

func TestHandleWrap(t *testing.T) {
	h, _ := newTestHandler()
	h.Handle(Faster)
	assert.Equal(t, period.Size-1, h.Selector.Index())
	assert.Equal(t, []time.Duration{4000 * time.Millisecond}, drain(h.Channel))
	h.Handle(Slower)
	assert.Equal(t, 0, h.Selector.Index())
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, drain(h.Channel))
}

func TestRunUntilEOF(t *testing.T) {
	defer leaktest.Check(t)()

	reads := append(lines(Slower, "bogus"), testRead{err: hal.ErrReadTimeout})
	reads = append(reads, lines(Faster)...)
	h, link := newTestHandler(reads...)
	h.Banner = "ready"
	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, []string{"ready", UnknownCommandMsg}, link.lines())
	assert.Equal(t, 0, h.Selector.Index())
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 500 * time.Millisecond}, drain(h.Channel))
}

func TestRunReturnsReadError(t *testing.T) {
	broken := errors.New("uart overrun")
	h, _ := newTestHandler(lines(Slower)[0], testRead{err: broken})
	require.Equal(t, broken, h.Run(context.Background()))
	assert.Equal(t, 1, h.Selector.Index())
}

func TestRunKeepsReadingWhenSendFails(t *testing.T) {
	defer leaktest.Check(t)()

	h, link := newTestHandler(lines("bogus", "", Slower, "FASTER")...)
	link.sendErr = errors.New("broken pipe")
	h.Banner = "ready"
	require.NoError(t, h.Run(context.Background()))
	assert.Empty(t, link.reads)
	assert.Empty(t, link.lines())
	assert.Equal(t, 1, h.Selector.Index())
	assert.Equal(t, []time.Duration{1000 * time.Millisecond}, drain(h.Channel))
}

func TestHandleUnknownSendFails(t *testing.T) {
	h, link := newTestHandler()
	link.sendErr = errors.New("broken pipe")
	h.Handle("sloww")
	assert.Equal(t, 0, h.Selector.Index())
	assert.Equal(t, 0, h.Channel.Len())
}
