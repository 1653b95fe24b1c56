package controller

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/mikehamer/crazycontrol/cbf"
)

// LawMode selects which LQR law runs. Runtime-settable through the
// tuning channel.
type LawMode uint32

const (
	D9LQR LawMode = iota // feedback over position, attitude, velocity
	D6LQR                // feedback over position, velocity
)

func (m LawMode) String() string {
	if m == D6LQR {
		return "d6"
	}
	return "d9"
}

func ParseLawMode(s string) (LawMode, error) {
	switch s {
	case "d9":
		return D9LQR, nil
	case "d6":
		return D6LQR, nil
	}
	return D9LQR, ErrorUnknownLawMode
}

// Config fixes the rates and options of the control core.
type Config struct {
	Filter cbf.Mode
	Law    LawMode

	D9Rate       int // Hz
	D6Rate       int // Hz
	AttitudeRate int // Hz

	// AltitudeTrim enables the integral altitude trim on the thrust
	// channel at AltTrimRate.
	AltitudeTrim bool
	AltTrimRate  int // Hz

	Mass float64 // kg
}

func DefaultConfig() Config {
	return Config{
		Filter:       cbf.ModeDisabled,
		Law:          D9LQR,
		D9Rate:       100,
		D6Rate:       100,
		AttitudeRate: 500,
		AltTrimRate:  100,
		Mass:         0.032,
	}
}

// Telemetry is a read-only snapshot of the published control output.
type Telemetry struct {
	U      [4]float64 // saturated [T p q r]
	Flying bool
}

// Controller computes the safety-filtered LQR control law. One instance
// owns the error vector, both control vectors and the flying/grounded
// state; Update is driven by the control loop at RateMainLoop.
type Controller struct {
	cfg      Config
	law      atomic.Uint32
	gains    *Gains
	filter   *FilterClient // nil when the safety filter is disabled
	attitude AttitudeController
	altTrim  *altPID

	err    State // setpoint error, refreshed at the law's rate
	u      [4]float64
	uD6    [4]float64
	flying bool

	actuatorThrust float64
	rateDesired    Attitude // deg/s

	teleMu sync.RWMutex
	tele   Telemetry
}

// New builds the controller. filter may be nil; when present its form
// must match the law that consumes it (attitude forms pair with D9LQR,
// the position form with D6LQR).
func New(cfg Config, gains *Gains, filter *FilterClient, attitude AttitudeController) (*Controller, error) {
	if filter != nil {
		switch filter.Mode() {
		case cbf.ModeAttitude, cbf.ModeAttitudeIters:
			if cfg.Law != D9LQR {
				return nil, ErrorModeFilterMismatch
			}
		case cbf.ModePosition:
			if cfg.Law != D6LQR {
				return nil, ErrorModeFilterMismatch
			}
		case cbf.ModeDisabled:
			filter = nil
		}
	}

	c := &Controller{
		cfg:      cfg,
		gains:    gains,
		filter:   filter,
		attitude: attitude,
	}
	c.law.Store(uint32(cfg.Law))
	if cfg.AltitudeTrim {
		c.altTrim = newAltPID(1.0, cfg.AltTrimRate)
	}
	return c, nil
}

// Law returns the active control-law mode.
func (c *Controller) Law() LawMode {
	return LawMode(c.law.Load())
}

// SetLaw switches the control-law mode at runtime. The inactive mode's
// gains and control vector are untouched, so switching back reproduces
// the previous behavior.
func (c *Controller) SetLaw(m LawMode) error {
	if m != D9LQR && m != D6LQR {
		return ErrorUnknownLawMode
	}
	c.law.Store(uint32(m))
	return nil
}

func (c *Controller) Gains() *Gains {
	return c.gains
}

func (c *Controller) Filter() *FilterClient {
	return c.filter
}

// Telemetry returns the latest published control output.
func (c *Controller) Telemetry() Telemetry {
	c.teleMu.RLock()
	defer c.teleMu.RUnlock()
	return c.tele
}

// Update advances the control law by one tick of the main loop and
// fills in the actuator command. Sub-computations run only on their
// own rate divisors.
func (c *Controller) Update(control *Control, setpoint *Setpoint, sensors *SensorData, state *State, tick uint32) {
	// flying latches while the commanded altitude is above the floor
	// and clears only once the vehicle has settled back on target
	if setpoint.Position.Z > 0 {
		c.flying = true
	}

	law := c.Law()
	switch law {
	case D9LQR:
		c.lqrD9(setpoint, state, tick) // updates u
	case D6LQR:
		c.lqrD6(setpoint, state, tick) // updates uD6
	}

	// D6 only: fuse the attitude output into rate commands through the
	// inner attitude loop
	if law == D6LQR && rateDoExecute(c.cfg.AttitudeRate, tick) {
		c.u[0] = c.uD6[0] // T is the same
		rr, pr, yr := c.attitude.CorrectAttitude(
			state.Attitude.Roll, -state.Attitude.Pitch, state.Attitude.Yaw,
			c.uD6[1]*rad2deg, c.uD6[2]*rad2deg, c.uD6[3]*rad2deg)
		c.u[1] = rr * deg2rad
		c.u[2] = pr * deg2rad
		c.u[3] = yr * deg2rad
	}

	if c.altTrim != nil && rateDoExecute(c.cfg.AltTrimRate, tick) {
		c.altTrim.setDesired(setpoint.Position.Z)
		c.u[0] += c.altTrim.update(state.Position.Z)
	}

	// saturation and conversion to actuator terms
	if rateDoExecute(c.cfg.AttitudeRate, tick) {
		c.u[0] = clamp(c.u[0], 0, maxThrust)
		c.u[1] = clamp(c.u[1], -maxBodyRate, maxBodyRate)
		c.u[2] = clamp(c.u[2], -maxBodyRate, maxBodyRate)
		c.u[3] = clamp(c.u[3], -maxBodyRate, maxBodyRate)

		c.actuatorThrust = thrustToDrive(c.u[0], c.cfg.Mass)
		c.rateDesired.Roll = c.u[1] * rad2deg
		c.rateDesired.Pitch = c.u[2] * rad2deg
		c.rateDesired.Yaw = c.u[3] * rad2deg

		c.teleMu.Lock()
		c.tele = Telemetry{U: c.u, Flying: c.flying}
		c.teleMu.Unlock()
	}

	// grounded once the setpoint is on the floor and the residual
	// position error has died out, regardless of which side of the
	// setpoint the vehicle ended up on
	residual := math.Abs(c.err.Position.X) + math.Abs(c.err.Position.Y) + math.Abs(c.err.Position.Z)
	if residual < 0.075 && setpoint.Position.Z == 0 {
		c.flying = false
	}
	if !c.flying {
		c.actuatorThrust = 0
	}

	// inner rate loop
	if rateDoExecute(c.cfg.AttitudeRate, tick) {
		c.attitude.CorrectRate(
			sensors.Gyro.Roll, sensors.Gyro.Pitch, sensors.Gyro.Yaw,
			c.rateDesired.Roll, c.rateDesired.Pitch, c.rateDesired.Yaw)
	}

	control.Thrust = c.actuatorThrust

	// disarmed: zero everything and dump the integrators
	if control.Thrust == 0 {
		control.Roll = 0
		control.Pitch = 0
		control.Yaw = 0
		c.attitude.ResetAll()
		if c.altTrim != nil {
			c.altTrim.reset()
		}
	} else {
		control.Roll, control.Pitch, control.Yaw = c.attitude.ActuatorOutput()
	}
}

// lqrD9 runs the 9-state law: u = -K9*err + feedforward.
func (c *Controller) lqrD9(setpoint *Setpoint, state *State, tick uint32) {
	if !rateDoExecute(c.cfg.D9Rate, tick) {
		return
	}

	c.err.Position.X = state.Position.X - setpoint.Position.X
	c.err.Position.Y = state.Position.Y - setpoint.Position.Y
	c.err.Position.Z = state.Position.Z - setpoint.Position.Z
	c.err.Attitude.Roll = state.Attitude.Roll*deg2rad - setpoint.Attitude.Roll
	// the estimator's pitch sign is inverted relative to the control
	// convention; this negation must match the setpoint side exactly
	c.err.Attitude.Pitch = -state.Attitude.Pitch*deg2rad - setpoint.Attitude.Pitch
	c.err.Attitude.Yaw = state.Attitude.Yaw*deg2rad - setpoint.Attitude.Yaw
	c.err.Velocity.X = state.Velocity.X - setpoint.Velocity.X
	c.err.Velocity.Y = state.Velocity.Y - setpoint.Velocity.Y
	c.err.Velocity.Z = state.Velocity.Z - setpoint.Velocity.Z

	c.u = c.gains.Feedback(MatrixD9, []float64{
		c.err.Position.X, c.err.Position.Y, c.err.Position.Z,
		c.err.Attitude.Roll, c.err.Attitude.Pitch, c.err.Attitude.Yaw,
		c.err.Velocity.X, c.err.Velocity.Y, c.err.Velocity.Z,
	})

	// add the nominal input: u = u_r + delta_u
	c.u[0] += setpoint.Thrust
	c.u[1] += setpoint.AttitudeRate.Roll
	c.u[2] += setpoint.AttitudeRate.Pitch
	c.u[3] += setpoint.AttitudeRate.Yaw

	// the filter form is fixed at startup; it only applies to the law
	// it was built for, so a runtime law switch bypasses it
	if c.filter != nil && c.filter.Mode() != cbf.ModePosition {
		c.applyFilterAttitude(state)
	}
}

// lqrD6 runs the 6-state law: uD6 = -K6*err + feedforward.
func (c *Controller) lqrD6(setpoint *Setpoint, state *State, tick uint32) {
	if !rateDoExecute(c.cfg.D6Rate, tick) {
		return
	}

	c.err.Position.X = state.Position.X - setpoint.Position.X
	c.err.Position.Y = state.Position.Y - setpoint.Position.Y
	c.err.Position.Z = state.Position.Z - setpoint.Position.Z
	c.err.Velocity.X = state.Velocity.X - setpoint.Velocity.X
	c.err.Velocity.Y = state.Velocity.Y - setpoint.Velocity.Y
	c.err.Velocity.Z = state.Velocity.Z - setpoint.Velocity.Z

	c.uD6 = c.gains.Feedback(MatrixD6, []float64{
		c.err.Position.X, c.err.Position.Y, c.err.Position.Z,
		c.err.Velocity.X, c.err.Velocity.Y, c.err.Velocity.Z,
	})

	// add the nominal input: u = u_r + delta_u
	c.uD6[0] += setpoint.Thrust
	c.uD6[1] += setpoint.Attitude.Roll
	c.uD6[2] += setpoint.Attitude.Pitch
	c.uD6[3] += setpoint.Attitude.Yaw

	if c.filter != nil && c.filter.Mode() == cbf.ModePosition {
		c.applyFilterPosition(state)
	}
}

// applyFilterAttitude hands the 9-state candidate to the co-processor
// and takes back the most recent safe input.
func (c *Controller) applyFilterAttitude(state *State) {
	c.filter.Submit(&cbf.AttitudeRequest{
		Phi:   state.Attitude.Roll * deg2rad,
		Theta: -state.Attitude.Pitch * deg2rad,
		T:     c.u[0],
		P:     c.u[1],
		Q:     c.u[2],
		R:     c.u[3],
	})
	c.filter.SafeControl(&c.u)
}

// applyFilterPosition is the 6-state counterpart.
func (c *Controller) applyFilterPosition(state *State) {
	c.filter.Submit(&cbf.PositionRequest{
		X:     state.Position.X,
		Y:     state.Position.Y,
		Z:     state.Position.Z,
		Xd:    state.Velocity.X,
		Yd:    state.Velocity.Y,
		Zd:    state.Velocity.Z,
		T:     c.uD6[0],
		Phi:   c.uD6[1],
		Theta: c.uD6[2],
		Psi:   c.uD6[3],
	})
	c.filter.SafeControl(&c.uD6)
}
