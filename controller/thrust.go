package controller

import "math"

const (
	maxThrust   = 18.0 // m/s^2
	maxBodyRate = 3.5  // rad/s, ~200 deg/s
)

// thrustToDrive converts normalized thrust (m/s^2) to motor drive
// counts: invert the quadratic rotor-speed model for the commanded
// thrust in grams, map rotor speed linearly to drive counts, then apply
// the empirical calibration offset. Monotonically non-decreasing over
// the supported [0, 18] range.
func thrustToDrive(t, mass float64) float64 {
	// grams = a*rpm^2 - b*rpm + c
	const (
		a = 109e-9
		b = 210.6e-6
		c = 0.154
	)
	// rpm = d*drive + e
	const (
		d = 0.2685
		e = 4070.3
	)
	const offset = 9000

	if t <= 0 {
		return 0
	}

	grams := (mass * 1000.0 * t) / 9.81

	disc := b*b - 4*a*(c-grams)
	if disc < 0 {
		disc = 0 // below the model's minimum producible thrust
	}

	rpm := (b + math.Sqrt(disc)) / (2 * a)
	drive := math.Trunc((rpm-e)/d) - offset
	if drive < 0 {
		return 0
	}
	return drive
}
