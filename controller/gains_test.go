package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikehamer/crazycontrol/cbf"
)

func TestDefaultGainTables(t *testing.T) {
	g := NewGains(cbf.ModeDisabled)

	v, err := g.Entry(MatrixD9, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	v, err = g.Entry(MatrixD9, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 7.8518, v)

	v, err = g.Entry(MatrixD6, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.6569, v)
}

func TestPositionFilterGainTable(t *testing.T) {
	g := NewGains(cbf.ModePosition)

	v, err := g.Entry(MatrixD6, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 31.6228, v)

	v, err = g.Entry(MatrixD6, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)

	// the 9-state table does not depend on the filter form
	v, err = g.Entry(MatrixD9, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestSetEntry(t *testing.T) {
	g := NewGains(cbf.ModeDisabled)

	require.NoError(t, g.SetEntry(MatrixD9, 2, 6, 1.25))
	v, err := g.Entry(MatrixD9, 2, 6)
	require.NoError(t, err)
	assert.Equal(t, 1.25, v)

	assert.ErrorIs(t, g.SetEntry(MatrixD9, 4, 0, 1), ErrorGainIndexOutOfRange)
	assert.ErrorIs(t, g.SetEntry(MatrixD9, 0, 9, 1), ErrorGainIndexOutOfRange)
	assert.ErrorIs(t, g.SetEntry(MatrixD6, 0, 6, 1), ErrorGainIndexOutOfRange)
	assert.ErrorIs(t, g.SetEntry(MatrixD6, -1, 0, 1), ErrorGainIndexOutOfRange)
	assert.ErrorIs(t, g.SetEntry(GainMatrix(9), 0, 0, 1), ErrorUnknownGainMatrix)
}

func TestFeedbackIsNegativeStateFeedback(t *testing.T) {
	g := NewGains(cbf.ModeDisabled)

	// only the altitude error excited: u[0] = -(K9[0][2] * ez)
	err9 := make([]float64, 9)
	err9[2] = 0.5
	u := g.Feedback(MatrixD9, err9)
	assert.InDelta(t, -4.0*0.5, u[0], 1e-12)
	assert.Equal(t, 0.0, u[3])

	err6 := make([]float64, 6)
	err6[1] = 1.0
	u = g.Feedback(MatrixD6, err6)
	assert.InDelta(t, 2.4683, u[1], 1e-12)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	g := NewGains(cbf.ModeDisabled)
	require.NoError(t, g.SetEntry(MatrixD9, 3, 5, 42))

	snap := g.Snapshot()

	other := NewGains(cbf.ModeDisabled)
	other.Restore(snap)
	v, err := other.Entry(MatrixD9, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
	assert.Equal(t, snap, other.Snapshot())
}
