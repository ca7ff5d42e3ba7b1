// Package console provides an interactive operator console backed by
// ishell, usable as the command line link on a development host.
package console

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/blink.go/pkg/hal"
)

const prompt = "blink > "

// Console is a hal.LineReadWriter fed by an ishell.Shell.
//
// Every line typed is handed to ReadLine, including lines which do
// not name a known command. Blank lines are swallowed by ishell.
type Console struct {
	Shell *ishell.Shell

	lineCh    chan string
	doneCh    chan struct{}
	closeOnce sync.Once
}

// New creates a Console recognizing the given command names for
// completion and help.
func New(commands ...string) *Console {
	c := &Console{
		Shell:  ishell.New(),
		lineCh: make(chan string),
		doneCh: make(chan struct{}),
	}
	c.Shell.SetPrompt(prompt)
	for _, name := range commands {
		name := name
		c.Shell.AddCmd(&ishell.Cmd{
			Name: name,
			Help: "send " + name,
			Func: func(ctx *ishell.Context) {
				c.deliver(strings.Join(append([]string{name}, ctx.Args...), " "))
			},
		})
	}
	c.Shell.NotFound(func(ctx *ishell.Context) {
		c.deliver(strings.Join(ctx.Args, " "))
	})
	c.Shell.EOF(func(ctx *ishell.Context) {
		ctx.Stop()
		c.close()
	})
	return c
}

// Name implements Named.
func (c *Console) Name() string {
	return "console"
}

// Run implements Runnable, running the interactive shell.
// The shell cannot be interrupted while waiting for input, so on
// cancellation Run returns without waiting for it.
func (c *Console) Run(ctx context.Context) error {
	go func() {
		c.Shell.Run()
		c.close()
	}()
	select {
	case <-ctx.Done():
		c.Shell.Close()
		return ctx.Err()
	case <-c.doneCh:
		return nil
	}
}

// ReadLine implements hal.LineReader.
func (c *Console) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.doneCh:
		return "", io.EOF
	case line := <-c.lineCh:
		if bounded, truncated := hal.Truncate(line); truncated {
			glog.V(1).Infof("line truncated to %q", bounded)
			line = bounded
		}
		return line, nil
	}
}

// SendLine implements hal.LineWriter.
func (c *Console) SendLine(text string) error {
	c.Shell.Println(text)
	return nil
}

func (c *Console) deliver(line string) {
	select {
	case c.lineCh <- line:
	case <-c.doneCh:
	}
}

func (c *Console) close() {
	c.closeOnce.Do(func() { close(c.doneCh) })
}
