package controller

// altPID is the optional altitude trim: a pure-integral controller that
// bleeds steady-state altitude error into the thrust channel at its own
// rate, on top of the LQR output.
type altPID struct {
	ki          float64
	dt          float64
	integLimit  float64 // m
	outputLimit float64 // m/s^2

	desired float64
	integ   float64
}

func newAltPID(ki float64, rateHz int) *altPID {
	return &altPID{
		ki:          ki,
		dt:          1.0 / float64(rateHz),
		integLimit:  0.5,
		outputLimit: 0.5,
	}
}

func (p *altPID) setDesired(z float64) {
	p.desired = z
}

func (p *altPID) update(z float64) float64 {
	p.integ += (p.desired - z) * p.dt
	p.integ = clamp(p.integ, -p.integLimit, p.integLimit)
	return clamp(p.ki*p.integ, -p.outputLimit, p.outputLimit)
}

func (p *altPID) reset() {
	p.integ = 0
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
