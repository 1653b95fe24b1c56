package controller

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/mikehamer/crazycontrol/cbf"
)

// GainMatrix names one of the two LQR feedback matrices.
type GainMatrix uint8

const (
	MatrixD9 GainMatrix = iota // 4x9, position+attitude+velocity feedback
	MatrixD6                   // 4x6, position+velocity feedback
)

func ParseGainMatrix(s string) (GainMatrix, error) {
	switch s {
	case "d9", "kd9":
		return MatrixD9, nil
	case "d6", "kd6":
		return MatrixD6, nil
	}
	return MatrixD9, ErrorUnknownGainMatrix
}

// Gains holds both feedback matrices behind a single-writer/
// multi-reader lock. The tuning channel writes one entry at a time
// while the control task reads a full matrix-vector product every
// cycle, so both paths go through the lock.
type Gains struct {
	mu sync.RWMutex
	k9 *mat.Dense // 4x9
	k6 *mat.Dense // 4x6
}

// NewGains returns the design-time gain tables. The 6-state table
// depends on whether the position-form safety filter is active, since
// the two designs were tuned against different cost weights.
func NewGains(filter cbf.Mode) *Gains {
	g := &Gains{
		k9: mat.NewDense(4, 9, nil),
		k6: mat.NewDense(4, 6, nil),
	}

	// K9, rho=1
	g.k9.Set(0, 2, 4.0)
	g.k9.Set(0, 8, 3.4641)
	g.k9.Set(1, 1, -3.4907)
	g.k9.Set(1, 3, 7.8518)
	g.k9.Set(1, 7, -2.9384)
	g.k9.Set(2, 0, 3.4907)
	g.k9.Set(2, 4, 7.8518)
	g.k9.Set(2, 6, 2.9384)
	g.k9.Set(3, 5, 2.0)

	if filter == cbf.ModePosition {
		// K6, Q = [20 20 100 1 1 1], R = [0.1 20 20 40]
		g.k6.Set(0, 2, 31.6228)
		g.k6.Set(0, 5, 8.5584)
		g.k6.Set(1, 1, -1.0)
		g.k6.Set(1, 4, -0.5039)
		g.k6.Set(2, 0, 1.0)
		g.k6.Set(2, 3, 0.5039)
	} else {
		// K6, rho=0.5
		g.k6.Set(0, 2, 5.6569)
		g.k6.Set(0, 5, 4.3947)
		g.k6.Set(1, 1, -2.4683)
		g.k6.Set(1, 4, -1.4235)
		g.k6.Set(2, 0, 2.4683)
		g.k6.Set(2, 3, 1.4235)
	}

	return g
}

func (g *Gains) matrix(m GainMatrix) *mat.Dense {
	if m == MatrixD6 {
		return g.k6
	}
	return g.k9
}

// SetEntry overwrites a single gain entry. This is the only mutation
// path; the external tuning channel drives it asynchronously to the
// control loop.
func (g *Gains) SetEntry(m GainMatrix, i, j int, value float64) error {
	if m != MatrixD9 && m != MatrixD6 {
		return ErrorUnknownGainMatrix
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	rows, cols := g.matrix(m).Dims()
	if i < 0 || i >= rows || j < 0 || j >= cols {
		return ErrorGainIndexOutOfRange
	}
	g.matrix(m).Set(i, j, value)
	return nil
}

// Entry reads a single gain entry.
func (g *Gains) Entry(m GainMatrix, i, j int) (float64, error) {
	if m != MatrixD9 && m != MatrixD6 {
		return 0, ErrorUnknownGainMatrix
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	rows, cols := g.matrix(m).Dims()
	if i < 0 || i >= rows || j < 0 || j >= cols {
		return 0, ErrorGainIndexOutOfRange
	}
	return g.matrix(m).At(i, j), nil
}

// Feedback computes the negative state feedback u = -K*err for the
// given matrix.
func (g *Gains) Feedback(m GainMatrix, err []float64) [4]float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out mat.VecDense
	out.MulVec(g.matrix(m), mat.NewVecDense(len(err), err))

	var u [4]float64
	for i := range u {
		u[i] = -out.AtVec(i)
	}
	return u
}

// Snapshot is a plain copy of both gain tables, used by the profile
// cache and the tuning API.
type Snapshot struct {
	K9 [4][9]float64
	K6 [4][6]float64
}

func (g *Gains) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var s Snapshot
	for i := 0; i < 4; i++ {
		for j := 0; j < 9; j++ {
			s.K9[i][j] = g.k9.At(i, j)
		}
		for j := 0; j < 6; j++ {
			s.K6[i][j] = g.k6.At(i, j)
		}
	}
	return s
}

// Restore replaces both gain tables from a snapshot.
func (g *Gains) Restore(s Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < 4; i++ {
		for j := 0; j < 9; j++ {
			g.k9.Set(i, j, s.K9[i][j])
		}
		for j := 0; j < 6; j++ {
			g.k6.Set(i, j, s.K6[i][j])
		}
	}
}
