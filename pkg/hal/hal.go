// Package hal defines the hardware collaborators the blink core talks to:
// the two-channel indicator and the line-oriented serial link.
//
// Backends live in sub packages; the core only depends on these interfaces.
package hal

import (
	"context"
	"errors"
)

// Channel identifies one of the two indicator channels.
type Channel int

// Indicator channels.
const (
	// ChannelA is the "running" channel (green on the lab board).
	ChannelA Channel = iota
	// ChannelB is the "alert" channel (red on the lab board), lit at startup.
	ChannelB
)

// String implements fmt.Stringer.
func (c Channel) String() string {
	switch c {
	case ChannelA:
		return "A"
	case ChannelB:
		return "B"
	}
	return "?"
}

// Other returns the opposite channel.
func (c Channel) Other() Channel {
	if c == ChannelA {
		return ChannelB
	}
	return ChannelA
}

// Indicator drives the indicator channels.
type Indicator interface {
	Set(ch Channel, on bool) error
}

// IndicatorFunc is the func form of Indicator.
type IndicatorFunc func(Channel, bool) error

// Set implements Indicator.
func (f IndicatorFunc) Set(ch Channel, on bool) error {
	return f(ch, on)
}

// LineReader reads operator input one line at a time.
type LineReader interface {
	// ReadLine blocks until a line is available, ctx is done, or
	// the backend read timeout elapses (ErrReadTimeout).
	// io.EOF is returned when the source is exhausted.
	ReadLine(ctx context.Context) (string, error)
}

// LineWriter sends text lines to the operator.
type LineWriter interface {
	// SendLine writes text followed by LineTerminator.
	SendLine(text string) error
}

// LineReadWriter is a full duplex line link.
type LineReadWriter interface {
	LineReader
	LineWriter
}

const (
	// LineTerminator terminates every output line.
	LineTerminator = "\r\n"
	// MaxLineLen is the maximum payload of an input line, longer
	// lines are truncated.
	MaxLineLen = 9
)

// ErrReadTimeout indicates no complete line arrived in time.
var ErrReadTimeout = errors.New("read timeout")

// Truncate bounds a line to MaxLineLen bytes.
func Truncate(line string) (string, bool) {
	if len(line) > MaxLineLen {
		return line[:MaxLineLen], true
	}
	return line, false
}
