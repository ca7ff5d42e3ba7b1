package config

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves an ID identifying the machine, derived for this
// application so the raw machine ID is never published. The host name is
// used when no machine ID is available.
func MachineID() string {
	id, err := machineid.ProtectedID("blink")
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "blink"
}
