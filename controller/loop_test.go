package controller

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	applied []Control
}

func (s *recordingSink) Apply(c Control) {
	s.applied = append(s.applied, c)
}

func TestLoopStepPublishesEveryCycle(t *testing.T) {
	ctrl, _ := newTestController(t, DefaultConfig(), nil)

	setpoints := &SetpointStore{}
	states := &StateStore{}
	sink := &recordingSink{}
	loop := NewLoop(clock.NewMock(), ctrl, states, states, setpoints, sink)

	sp, st, _ := hoverInputs()
	setpoints.Set(sp)
	states.SetState(st)

	var control Control
	for i := 0; i < 20; i++ {
		loop.Step(&control)
	}

	require.Len(t, sink.applied, 20)
	for _, c := range sink.applied {
		assert.Greater(t, c.Thrust, 0.0)
	}
}

func TestLoopTickAdvancesRateGates(t *testing.T) {
	ctrl, _ := newTestController(t, DefaultConfig(), nil)

	setpoints := &SetpointStore{}
	states := &StateStore{}
	sink := &recordingSink{}
	loop := NewLoop(clock.NewMock(), ctrl, states, states, setpoints, sink)

	sp, st, _ := hoverInputs()
	setpoints.Set(sp)
	states.SetState(st)

	var control Control
	loop.Step(&control) // tick 0, law runs
	u0 := ctrl.Telemetry().U

	// change the state mid-decade; the law must not see it before the
	// next divisor tick
	st.Position.X = 1
	states.SetState(st)
	for i := 1; i < 10; i++ {
		loop.Step(&control)
	}
	assert.Equal(t, u0, ctrl.Telemetry().U)

	loop.Step(&control) // tick 10
	assert.NotEqual(t, u0, ctrl.Telemetry().U)
}

func TestLoopRunStopsOnContext(t *testing.T) {
	ctrl, _ := newTestController(t, DefaultConfig(), nil)

	mock := clock.NewMock()
	setpoints := &SetpointStore{}
	states := &StateStore{}
	sink := &recordingSink{}
	loop := NewLoop(mock, ctrl, states, states, setpoints, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// let the goroutine park on the ticker before advancing
	time.Sleep(10 * time.Millisecond)
	mock.Add(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestSetpointStoreRoundTrip(t *testing.T) {
	var store SetpointStore
	assert.Zero(t, store.Setpoint())

	sp := Setpoint{Position: Vector3{Z: 1.5}, Thrust: 9.81}
	store.Set(sp)
	assert.Equal(t, sp, store.Setpoint())
}

func TestStateStoreRoundTrip(t *testing.T) {
	var store StateStore
	st := State{Position: Vector3{X: 0.1}, Attitude: Attitude{Pitch: -2}}
	sd := SensorData{Gyro: Attitude{Yaw: 30}}

	store.SetState(st)
	store.SetSensors(sd)
	assert.Equal(t, st, store.State())
	assert.Equal(t, sd, store.Sensors())
}

func TestRateCounterAverages(t *testing.T) {
	mock := clock.NewMock()
	counter := NewRateCounter(mock, time.Second)

	assert.Equal(t, 0.0, counter.Rate())

	// 100 events over one second
	for i := 0; i < 100; i++ {
		mock.Add(10 * time.Millisecond)
		counter.Event()
	}
	assert.InDelta(t, 100.0, counter.Rate(), 1.0)

	// a slower second window replaces the figure
	for i := 0; i < 10; i++ {
		mock.Add(100 * time.Millisecond)
		counter.Event()
	}
	assert.InDelta(t, 10.0, counter.Rate(), 0.5)
}

func TestAltPIDIntegratesAndClamps(t *testing.T) {
	pid := newAltPID(1.0, 100)
	pid.setDesired(1.0)

	// constant 0.5m error integrates at 0.5/100 per update
	out := pid.update(0.5)
	assert.InDelta(t, 0.005, out, 1e-12)

	// drive it into the clamp
	for i := 0; i < 1000; i++ {
		out = pid.update(0.5)
	}
	assert.Equal(t, 0.5, out)
	assert.Equal(t, 0.5, pid.integ)

	pid.reset()
	assert.Zero(t, pid.integ)
	assert.Zero(t, pid.update(1.0))
}
