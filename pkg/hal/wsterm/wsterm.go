// Package wsterm serves a websocket "serial terminal": every text
// message received is a command line, and output lines are sent to
// all connected sessions.
package wsterm

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/robotalks/blink.go/pkg/framework"
	"github.com/robotalks/blink.go/pkg/hal"
)

// DefaultPath is the websocket endpoint.
const DefaultPath = "/term"

// Terminal is a hal.LineReadWriter over websocket sessions.
type Terminal struct {
	Addr string
	Path string

	lineCh chan string
	lock   sync.RWMutex
	conns  map[string]*websocket.Conn
}

// New creates a Terminal listening on addr.
func New(addr string) *Terminal {
	return &Terminal{
		Addr:   addr,
		Path:   DefaultPath,
		lineCh: make(chan string),
		conns:  make(map[string]*websocket.Conn),
	}
}

// Name implements Named.
func (t *Terminal) Name() string {
	return "wsterm"
}

// Run implements Runnable.
func (t *Terminal) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", t.Addr)
	if err != nil {
		return err
	}
	return t.Serve(ctx, ln)
}

// Serve accepts sessions on ln until ctx is done.
func (t *Terminal) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(t.Path, websocket.Handler(func(conn *websocket.Conn) {
		t.serveConn(ctx, conn)
	}))
	server := &http.Server{Handler: mux}
	glog.Infof("websocket terminal on ws://%s%s", ln.Addr(), t.Path)
	// hijacked session connections are not closed by the server.
	defer t.closeAll()
	return framework.RunWithContextCloser(ctx, server, func() error {
		return server.Serve(ln)
	})
}

// ReadLine implements hal.LineReader.
func (t *Terminal) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-t.lineCh:
		return line, nil
	}
}

// SendLine implements hal.LineWriter. Sessions failing to
// receive are dropped.
func (t *Terminal) SendLine(text string) error {
	msg := text + hal.LineTerminator
	t.lock.RLock()
	defer t.lock.RUnlock()
	for id, conn := range t.conns {
		if err := websocket.Message.Send(conn, msg); err != nil {
			glog.Warningf("session %s send error: %v", id, err)
			conn.Close()
		}
	}
	return nil
}

// Sessions returns the number of connected sessions.
func (t *Terminal) Sessions() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.conns)
}

func (t *Terminal) serveConn(ctx context.Context, conn *websocket.Conn) {
	id := uuid.NewString()
	t.lock.Lock()
	t.conns[id] = conn
	t.lock.Unlock()
	glog.Infof("session %s connected from %s", id, conn.Request().RemoteAddr)
	defer func() {
		t.lock.Lock()
		delete(t.conns, id)
		t.lock.Unlock()
		conn.Close()
		glog.Infof("session %s closed", id)
	}()
	for {
		var msg string
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			glog.V(1).Infof("session %s receive: %v", id, err)
			return
		}
		for _, line := range SplitLines(msg) {
			if bounded, truncated := hal.Truncate(line); truncated {
				glog.V(1).Infof("session %s line truncated to %q", id, bounded)
				line = bounded
			}
			select {
			case t.lineCh <- line:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (t *Terminal) closeAll() {
	t.lock.RLock()
	defer t.lock.RUnlock()
	for _, conn := range t.conns {
		conn.Close()
	}
}

// SplitLines splits a message into lines. One trailing terminator is
// ignored so "slower\n" is a single line; CRLF counts once.
func SplitLines(msg string) []string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.TrimSuffix(msg, "\n")
	return strings.Split(msg, "\n")
}
