package config

import (
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/robotalks/blink.go/pkg/framework"
	"github.com/robotalks/blink.go/pkg/hal"
	"github.com/robotalks/blink.go/pkg/hal/console"
	"github.com/robotalks/blink.go/pkg/hal/led"
	"github.com/robotalks/blink.go/pkg/hal/serial"
	"github.com/robotalks/blink.go/pkg/hal/wsterm"
	"github.com/robotalks/blink.go/pkg/mqtt"
)

// Env holds the hardware collaborators built from a Config.
type Env struct {
	Config    *Config
	Indicator hal.Indicator
	Link      hal.LineReadWriter
	// Runnables serve the link, e.g. the console or websocket server.
	Runnables []framework.Runnable

	closers []io.Closer
}

// NewEnv creates Env from config.
func (c *Config) NewEnv(commands ...string) (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.DeviceID == "" {
		c.DeviceID = MachineID()
	}
	e := &Env{Config: c}
	if err := e.setupIndicator(); err != nil {
		e.Close()
		return nil, err
	}
	if err := e.setupLink(commands); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(commands ...string) *Env {
	e, err := c.NewEnv(commands...)
	if err != nil {
		glog.Exit(err)
	}
	return e
}

func (e *Env) setupIndicator() error {
	var inds led.Multi
	for _, name := range e.Config.IndicatorNames() {
		switch name {
		case IndicatorLog:
			inds = append(inds, led.Log{})
		case IndicatorGPIO:
			g, err := led.OpenGPIO(e.Config.GPIOPinA, e.Config.GPIOPinB)
			if err != nil {
				return err
			}
			e.closers = append(e.closers, g)
			inds = append(inds, g)
		case IndicatorMQTT:
			q, err := mqtt.NewQueueFromURL(e.Config.MQTTBrokerURL, "blink-"+e.Config.DeviceID)
			if err != nil {
				return fmt.Errorf("invalid MQTT broker URL: %v", err)
			}
			if err = q.Connect(); err != nil {
				return fmt.Errorf("connect MQTT broker error: %v", err)
			}
			e.closers = append(e.closers, q)
			inds = append(inds, led.NewMQTT(q, e.Config.DeviceID))
		}
	}
	if len(inds) == 1 {
		e.Indicator = inds[0]
	} else {
		e.Indicator = inds
	}
	return nil
}

func (e *Env) setupLink(commands []string) error {
	switch e.Config.Link {
	case LinkStdio:
		link := serial.NewStdioLink()
		link.Timeout = e.Config.ReadTimeout
		e.Link = link
	case LinkSerial:
		link, err := serial.OpenPort(serial.PortConfig{
			Name:        e.Config.SerialPort,
			BaudRate:    e.Config.BaudRate,
			ReadTimeout: e.Config.ReadTimeout,
		})
		if err != nil {
			return err
		}
		link.Timeout = e.Config.ReadTimeout
		e.closers = append(e.closers, link)
		e.Link = link
	case LinkConsole:
		con := console.New(commands...)
		e.Link = con
		e.Runnables = append(e.Runnables, con)
	case LinkWS:
		term := wsterm.New(e.Config.WSAddr)
		e.Link = term
		e.Runnables = append(e.Runnables, term)
	}
	return nil
}

// Close releases the hardware.
func (e *Env) Close() error {
	var errs framework.AggregatedError
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs.Add(e.closers[i].Close())
	}
	e.closers = nil
	return errs.Aggregate()
}
