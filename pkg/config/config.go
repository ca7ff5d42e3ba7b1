// Package config collects the runtime options of blinkd: which
// indicator drivers and which command link to use.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
)

// Indicator driver names.
const (
	IndicatorLog  = "log"
	IndicatorGPIO = "gpio"
	IndicatorMQTT = "mqtt"
)

// Link names.
const (
	LinkStdio   = "stdio"
	LinkConsole = "console"
	LinkSerial  = "serial"
	LinkWS      = "ws"
)

// Config provides the options of blinkd.
type Config struct {
	// Indicators is a comma separated list of indicator drivers.
	Indicators string `env:"BLINK_INDICATORS" envDefault:"log"`
	GPIOPinA   int    `env:"BLINK_GPIO_A" envDefault:"17"`
	GPIOPinB   int    `env:"BLINK_GPIO_B" envDefault:"27"`

	// MQTTBrokerURL specifies the MQTT broker for the mqtt indicator.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string `env:"BLINK_MQTT_URL" envDefault:"mqtt://localhost:1883/blink/"`
	DeviceID      string `env:"BLINK_DEVICE_ID"`

	Link        string        `env:"BLINK_LINK" envDefault:"stdio"`
	SerialPort  string        `env:"BLINK_SERIAL_PORT" envDefault:"/dev/ttyUSB0"`
	BaudRate    int           `env:"BLINK_BAUD_RATE" envDefault:"115200"`
	ReadTimeout time.Duration `env:"BLINK_READ_TIMEOUT"`
	WSAddr      string        `env:"BLINK_WS_ADDR" envDefault:":8080"`

	// Banner sends a usage line on the link at startup.
	Banner bool `env:"BLINK_BANNER"`
}

var (
	defaultConfig Config
	envErr        error
)

func init() {
	envErr = env.Parse(&defaultConfig)
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Indicators, "indicators", defaultConfig.Indicators, "Indicator drivers, comma separated: log, gpio, mqtt.")
	flag.IntVar(&defaultConfig.GPIOPinA, "gpio-a", defaultConfig.GPIOPinA, "BCM pin of indicator channel A.")
	flag.IntVar(&defaultConfig.GPIOPinB, "gpio-b", defaultConfig.GPIOPinB, "BCM pin of indicator channel B.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID, defaults to the machine ID.")
	flag.StringVar(&defaultConfig.Link, "link", defaultConfig.Link, "Command link: stdio, console, serial, ws.")
	flag.StringVar(&defaultConfig.SerialPort, "port", defaultConfig.SerialPort, "Serial port of the serial link.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate of the serial link.")
	flag.DurationVar(&defaultConfig.ReadTimeout, "read-timeout", defaultConfig.ReadTimeout, "Line read timeout, 0 waits forever.")
	flag.StringVar(&defaultConfig.WSAddr, "ws-addr", defaultConfig.WSAddr, "Listen address of the ws link.")
	flag.BoolVar(&defaultConfig.Banner, "banner", defaultConfig.Banner, "Send a usage line on the link at startup.")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// IndicatorNames returns the selected indicator drivers.
func (c *Config) IndicatorNames() []string {
	var names []string
	for _, name := range strings.Split(c.Indicators, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if envErr != nil {
		return fmt.Errorf("environment error: %v", envErr)
	}
	names := c.IndicatorNames()
	if len(names) == 0 {
		return fmt.Errorf("at least one indicator is required")
	}
	for _, name := range names {
		switch name {
		case IndicatorLog, IndicatorMQTT:
		case IndicatorGPIO:
			if c.GPIOPinA == c.GPIOPinB {
				return fmt.Errorf("gpio pins of both channels are %d", c.GPIOPinA)
			}
		default:
			return fmt.Errorf("unknown indicator %q", name)
		}
	}
	switch c.Link {
	case LinkStdio, LinkConsole, LinkWS:
	case LinkSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("serial port must be specified")
		}
	default:
		return fmt.Errorf("unknown link %q", c.Link)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("negative read timeout %v", c.ReadTimeout)
	}
	return nil
}
