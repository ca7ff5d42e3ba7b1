package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/blink.go/pkg/blink"
	"github.com/robotalks/blink.go/pkg/command"
	"github.com/robotalks/blink.go/pkg/config"
	fx "github.com/robotalks/blink.go/pkg/framework"
	"github.com/robotalks/blink.go/pkg/period"
	"github.com/robotalks/blink.go/pkg/transfer"
)

const banner = "Type 'slower' or 'faster' to change the blink period"

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	env := config.NewConfig().MustNewEnv(command.Slower, command.Faster)
	defer env.Close()

	sel := period.NewSelector(&period.Default)
	ch := transfer.NewChannel()
	ctl := blink.NewController(env.Indicator, sel, ch)
	handler := command.NewHandler(env.Link, sel, ch)
	if env.Config.Banner {
		handler.Banner = banner
	}

	glog.Infof("device %s: indicators %v, link %s", env.Config.DeviceID, env.Config.IndicatorNames(), env.Config.Link)
	runner := fx.NewRunner().HandleSignals()
	runner.Go(env.Runnables...).Go(ctl, handler)
	if err := runner.Wait(); err != nil {
		glog.Error(err)
	}
}
