// Package led provides indicator drivers: glog lines, Raspberry Pi GPIO
// pins and an MQTT mirror.
package led

import (
	"github.com/golang/glog"

	"github.com/robotalks/blink.go/pkg/framework"
	"github.com/robotalks/blink.go/pkg/hal"
)

// Log is an indicator which only logs changes.
type Log struct{}

// Set implements hal.Indicator.
func (Log) Set(ch hal.Channel, on bool) error {
	if on {
		glog.Infof("indicator %s on", ch)
	} else {
		glog.V(1).Infof("indicator %s off", ch)
	}
	return nil
}

// Multi drives several indicators with the same state.
type Multi []hal.Indicator

// Set implements hal.Indicator. All indicators are driven even if
// some of them fail.
func (m Multi) Set(ch hal.Channel, on bool) error {
	var errs framework.AggregatedError
	for _, ind := range m {
		errs.Add(ind.Set(ch, on))
	}
	return errs.Aggregate()
}
