package controller

import "math"

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
)

// RateMainLoop is the frequency of the periodic control task. Every
// rate-gated sub-computation divides it.
const RateMainLoop = 1000 // Hz

func rateDoExecute(rateHz int, tick uint32) bool {
	return tick%uint32(RateMainLoop/rateHz) == 0
}

type Vector3 struct {
	X, Y, Z float64
}

type Attitude struct {
	Roll, Pitch, Yaw float64
}

// State is the estimator output for one cycle. Position in m, velocity
// in m/s, attitude in degrees using the sensor convention (pitch is
// negated before it enters the control law).
type State struct {
	Position Vector3
	Velocity Vector3
	Attitude Attitude
}

// Setpoint is the commanded reference. Attitude in rad, attitude rate
// in rad/s, thrust normalized to m/s^2.
type Setpoint struct {
	Position     Vector3
	Velocity     Vector3
	Attitude     Attitude
	AttitudeRate Attitude
	Thrust       float64
}

// SensorData carries the gyro rates in deg/s for the inner rate loop.
type SensorData struct {
	Gyro Attitude
}

// Control is the actuator command published every cycle. Thrust is in
// drive units after the thrust-to-drive mapping; the axis commands come
// from the inner rate loop.
type Control struct {
	Thrust           float64
	Roll, Pitch, Yaw int16
}

// AttitudeController is the inner-loop attitude/rate controller. It is
// an external collaborator: the control core feeds it desired angles or
// rates and consumes its actuator output. All angles in degrees, rates
// in deg/s.
type AttitudeController interface {
	// CorrectAttitude turns an attitude error into desired body rates.
	CorrectAttitude(rollActual, pitchActual, yawActual, rollDesired, pitchDesired, yawDesired float64) (rollRate, pitchRate, yawRate float64)

	// CorrectRate runs the inner rate loop against the gyro.
	CorrectRate(rollActual, pitchActual, yawActual, rollDesired, pitchDesired, yawDesired float64)

	// ActuatorOutput returns the rate loop's current axis commands.
	ActuatorOutput() (roll, pitch, yaw int16)

	// ResetAll clears every inner-loop integrator.
	ResetAll()
}
