package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/urfave/cli"

	"github.com/mikehamer/crazycontrol/cache"
	"github.com/mikehamer/crazycontrol/cbf"
	"github.com/mikehamer/crazycontrol/cbflink"
	"github.com/mikehamer/crazycontrol/controller"
	"github.com/mikehamer/crazycontrol/ctrlserver"
)

// passthroughAttitude stands in for the inner attitude/rate controller
// when the core runs on the bench without the real inner loop: attitude
// error maps straight onto the rate command and the rate loop outputs
// nothing.
type passthroughAttitude struct{}

func (passthroughAttitude) CorrectAttitude(rollActual, pitchActual, yawActual, rollDesired, pitchDesired, yawDesired float64) (float64, float64, float64) {
	return rollDesired - rollActual, pitchDesired - pitchActual, yawDesired - yawActual
}

func (passthroughAttitude) CorrectRate(rollActual, pitchActual, yawActual, rollDesired, pitchDesired, yawDesired float64) {
}

func (passthroughAttitude) ActuatorOutput() (int16, int16, int16) { return 0, 0, 0 }

func (passthroughAttitude) ResetAll() {}

// logSink prints the published actuator command at 1 Hz.
type logSink struct {
	n int
}

func (s *logSink) Apply(c controller.Control) {
	if s.n%controller.RateMainLoop == 0 {
		log.Printf("control: thrust=%.0f roll=%d pitch=%d yaw=%d", c.Thrust, c.Roll, c.Pitch, c.Yaw)
	}
	s.n++
}

func runCommand(ctx *cli.Context) error {
	mode, err := cbf.ParseMode(ctx.String("cbf"))
	if err != nil {
		return err
	}
	law, err := controller.ParseLawMode(ctx.String("law"))
	if err != nil {
		return err
	}

	if err := cache.Init(); err != nil {
		return err
	}

	cfg := controller.DefaultConfig()
	cfg.Filter = mode
	cfg.Law = law
	cfg.AltitudeTrim = ctx.Bool("alt-trim")

	gains := controller.NewGains(mode)
	if profile := ctx.String("gains"); profile != "" {
		var snap controller.Snapshot
		if err := cache.LoadGains(profile, &snap); err != nil {
			return err
		}
		gains.Restore(snap)
		log.Printf("Loaded gain profile %q", profile)
	}

	clk := clock.New()

	var filter *controller.FilterClient
	if mode.Enabled() {
		var link cbflink.Link
		if path := ctx.String("port"); path != "" {
			link = cbflink.NewSerialLink(mode, cbflink.OpenSerialPort(path), nil)
		} else {
			link = cbflink.NewMockLink()
		}
		if err := link.Start(int(ctx.Uint("baud"))); err != nil {
			return err
		}
		defer link.Close()

		filter = controller.NewFilterClient(mode, link, clk)
	}

	ctrl, err := controller.New(cfg, gains, filter, passthroughAttitude{})
	if err != nil {
		return err
	}

	states := &controller.StateStore{}
	setpoints := &controller.SetpointStore{}
	loop := controller.NewLoop(clk, ctrl, states, states, setpoints, &logSink{})

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if filter != nil {
		go filter.Run(runCtx)
	}
	go func() {
		if err := ctrlserver.New(ctrl, setpoints).Serve(ctx.String("http")); err != nil {
			log.Fatalln(err)
		}
	}()
	go loop.Run(runCtx)

	fmt.Printf("Control loop running (law=%s, cbf=%s). Ctrl-C to stop.\n", law, mode)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	return nil
}
