package led

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/robotalks/blink.go/pkg/hal"
)

// GPIO drives one BCM pin per channel, active high.
type GPIO struct {
	pins [2]rpio.Pin
}

// OpenGPIO maps /dev/gpiomem and configures both pins as outputs.
func OpenGPIO(pinA, pinB int) (*GPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio error: %v", err)
	}
	g := &GPIO{pins: [2]rpio.Pin{rpio.Pin(pinA), rpio.Pin(pinB)}}
	for _, pin := range g.pins {
		pin.Output()
		pin.Low()
	}
	return g, nil
}

// Set implements hal.Indicator.
func (g *GPIO) Set(ch hal.Channel, on bool) error {
	if ch != hal.ChannelA && ch != hal.ChannelB {
		return fmt.Errorf("invalid channel %d", ch)
	}
	if on {
		g.pins[ch].High()
	} else {
		g.pins[ch].Low()
	}
	return nil
}

// Close turns both pins off and releases the GPIO memory.
func (g *GPIO) Close() error {
	for _, pin := range g.pins {
		pin.Low()
	}
	return rpio.Close()
}
