package controller

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// StateProvider supplies the latest state estimate. External
// collaborator (the onboard estimator).
type StateProvider interface {
	State() State
}

// SensorProvider supplies the latest gyro sample for the inner loop.
type SensorProvider interface {
	Sensors() SensorData
}

// SetpointProvider supplies the commanded reference. External
// collaborator (planner or commander).
type SetpointProvider interface {
	Setpoint() Setpoint
}

// ActuatorSink consumes the final actuator command every cycle.
type ActuatorSink interface {
	Apply(Control)
}

// Loop is the periodic control task. It drives every rate-gated
// computation off a shared monotonic tick counter at RateMainLoop and
// never blocks on the link.
type Loop struct {
	clock clock.Clock
	ctrl  *Controller

	states    StateProvider
	sensors   SensorProvider
	setpoints SetpointProvider
	out       ActuatorSink

	tick uint32
}

func NewLoop(c clock.Clock, ctrl *Controller, states StateProvider, sensors SensorProvider, setpoints SetpointProvider, out ActuatorSink) *Loop {
	return &Loop{
		clock:     c,
		ctrl:      ctrl,
		states:    states,
		sensors:   sensors,
		setpoints: setpoints,
		out:       out,
	}
}

// Run executes the control task until the context is done. There is no
// mid-cycle abort: each tick runs to completion and publishes a
// command.
func (l *Loop) Run(ctx context.Context) error {
	ticker := l.clock.Ticker(time.Second / RateMainLoop)
	defer ticker.Stop()

	var control Control
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Step(&control)
		}
	}
}

// Step runs exactly one control cycle. Split out of Run so a host
// scheduler (or a test) can drive the ticks itself.
func (l *Loop) Step(control *Control) {
	state := l.states.State()
	sensors := l.sensors.Sensors()
	setpoint := l.setpoints.Setpoint()

	l.ctrl.Update(control, &setpoint, &sensors, &state, l.tick)
	l.out.Apply(*control)
	l.tick++
}
