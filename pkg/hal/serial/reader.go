// Package serial provides line links over byte streams: stdin/stdout or a
// UART opened with go.bug.st/serial.
package serial

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"

	"github.com/robotalks/blink.go/pkg/hal"
)

const (
	keyBS  byte = 0x08
	keyDEL byte = 0x7f
)

// LineReader assembles bounded lines from a byte stream.
//
// At most hal.MaxLineLen bytes of a line are kept; the rest of the line
// is discarded up to the terminator. CR, LF and CRLF all end a line.
// Backspace and DEL remove the last pending byte.
type LineReader struct {
	Reader io.Reader
	// Echo, if set, receives typed bytes back, as a terminal expects
	// from a raw serial line.
	Echo io.Writer
	// Timeout bounds a single ReadLine, 0 waits forever.
	Timeout time.Duration
	Clock   clock.Clock

	startOnce sync.Once
	closeOnce sync.Once
	byteCh    chan byte
	errCh     chan error
	doneCh    chan struct{}

	line     []byte
	overflow int
	lastCR   bool
}

// NewLineReader creates a LineReader reading from r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		Reader: r,
		Clock:  clock.New(),
		byteCh: make(chan byte),
		errCh:  make(chan error, 1),
		doneCh: make(chan struct{}),
		line:   make([]byte, 0, hal.MaxLineLen),
	}
}

// ReadLine implements hal.LineReader.
// A partially received line is kept across timeouts.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	r.startOnce.Do(func() { go r.readLoop() })

	var timeout <-chan time.Time
	if r.Timeout > 0 {
		timer := r.Clock.Timer(r.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timeout:
			return "", hal.ErrReadTimeout
		case err := <-r.errCh:
			// keep reporting the error to later calls.
			r.errCh <- err
			return "", err
		case b := <-r.byteCh:
			if line, ok := r.parse(b); ok {
				return line, nil
			}
		}
	}
}

// Close stops the background read loop. The underlying reader is
// closed when it implements io.Closer.
func (r *LineReader) Close() (err error) {
	r.closeOnce.Do(func() {
		close(r.doneCh)
		if closer, ok := r.Reader.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return
}

func (r *LineReader) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := r.Reader.Read(buf)
		for _, b := range buf[:n] {
			select {
			case r.byteCh <- b:
			case <-r.doneCh:
				return
			}
		}
		if err != nil {
			r.errCh <- err
			return
		}
		// n == 0 with no error is a read timeout of the port.
		select {
		case <-r.doneCh:
			return
		default:
		}
	}
}

func (r *LineReader) parse(b byte) (string, bool) {
	if b == '\n' && r.lastCR {
		r.lastCR = false
		return "", false
	}
	r.lastCR = b == '\r'
	switch b {
	case '\r', '\n':
		line := string(r.line)
		if r.overflow > 0 {
			glog.V(1).Infof("line truncated to %q, %d bytes discarded", line, r.overflow)
		}
		r.line, r.overflow = r.line[:0], 0
		r.echo(hal.LineTerminator)
		return line, true
	case keyBS, keyDEL:
		if r.overflow > 0 {
			r.overflow--
		} else if len(r.line) > 0 {
			r.line = r.line[:len(r.line)-1]
		} else {
			return "", false
		}
		r.echo("\b \b")
	default:
		if len(r.line) < hal.MaxLineLen {
			r.line = append(r.line, b)
		} else {
			r.overflow++
		}
		r.echo(string(b))
	}
	return "", false
}

func (r *LineReader) echo(s string) {
	if r.Echo == nil {
		return
	}
	if _, err := io.WriteString(r.Echo, s); err != nil {
		glog.V(1).Infof("echo error: %v", err)
	}
}
