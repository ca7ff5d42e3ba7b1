// Package command turns operator lines into blink period changes.
package command

import (
	"context"
	"errors"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/blink.go/pkg/hal"
	"github.com/robotalks/blink.go/pkg/period"
	"github.com/robotalks/blink.go/pkg/transfer"
)

// Recognized commands.
const (
	Slower = "slower"
	Faster = "faster"
)

// UnknownCommandMsg is sent back for any other input.
const UnknownCommandMsg = "Unknown command received"

// Handler reads commands and moves the period selector.
type Handler struct {
	Link     hal.LineReadWriter
	Selector *period.Selector
	Channel  *transfer.Channel
	// Banner is sent once when Run starts, unless empty.
	Banner string
}

// NewHandler creates a Handler.
func NewHandler(link hal.LineReadWriter, sel *period.Selector, ch *transfer.Channel) *Handler {
	return &Handler{Link: link, Selector: sel, Channel: ch}
}

// Name implements Named.
func (h *Handler) Name() string {
	return "command"
}

// Run implements Runnable. It returns nil when the line source ends.
func (h *Handler) Run(ctx context.Context) error {
	if h.Banner != "" {
		h.send(h.Banner)
	}
	for {
		line, err := h.Link.ReadLine(ctx)
		switch {
		case err == nil:
			h.Handle(line)
		case errors.Is(err, hal.ErrReadTimeout):
		case errors.Is(err, io.EOF):
			glog.Info("command input closed")
			return nil
		default:
			return err
		}
	}
}

// Handle processes a single line.
func (h *Handler) Handle(line string) {
	var index int
	switch line {
	case Slower:
		index = h.Selector.Slower()
	case Faster:
		index = h.Selector.Faster()
	default:
		glog.V(1).Infof("unknown command %q", line)
		h.send(UnknownCommandMsg)
		return
	}
	d := h.Selector.Table().At(index)
	if !h.Channel.TryPut(d) {
		glog.V(1).Infof("period %v dropped, %d drops so far", d, h.Channel.Drops())
		return
	}
	glog.V(1).Infof("%s: period %v (index %d)", line, d, index)
}

// send writes a reply line, a failed write only loses that line.
func (h *Handler) send(text string) {
	if err := h.Link.SendLine(text); err != nil {
		glog.Warningf("send %q error: %v", text, err)
	}
}
