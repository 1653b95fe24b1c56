package controller

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikehamer/crazycontrol/cbf"
	"github.com/mikehamer/crazycontrol/cbflink"
)

func safeControlRaw(mode cbf.Mode, u [4]float64, iters uint16) []byte {
	raw := make([]byte, mode.PacketSize())
	raw[0] = cbf.HeaderHealthy
	for i, v := range u {
		binary.LittleEndian.PutUint32(raw[1+4*i:], math.Float32bits(float32(v)))
	}
	if mode == cbf.ModeAttitudeIters {
		binary.LittleEndian.PutUint16(raw[17:], iters)
	}
	return raw
}

func newTestClient(mode cbf.Mode) (*FilterClient, *cbflink.MockLink) {
	link := cbflink.NewMockLink()
	return NewFilterClient(mode, link, clock.NewMock()), link
}

// deliverAndReceive pushes a wire image through the link and feeds the
// resulting packet to the client, as Run would.
func deliverAndReceive(t *testing.T, f *FilterClient, link *cbflink.MockLink, raw []byte) {
	t.Helper()
	require.NoError(t, link.Deliver(raw))
	select {
	case pk := <-link.Packets():
		f.receive(&pk)
	case <-time.After(time.Second):
		t.Fatal("no packet delivered")
	}
}

func TestSubmitSendsWhenReady(t *testing.T) {
	f, link := newTestClient(cbf.ModeAttitude)

	f.Submit(&cbf.AttitudeRequest{T: 9.81})

	sent := link.Sent()
	require.Len(t, sent, 1)
	assert.Len(t, sent[0], cbf.ModeAttitude.PacketSize())
	assert.Equal(t, cbf.HeaderHealthy, sent[0][0])
	assert.Equal(t, 0, f.MissedCycles())

	// one request outstanding: the next submit is a missed cycle
	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	assert.Len(t, link.Sent(), 1)
	assert.Equal(t, 1, f.MissedCycles())
}

func TestResponseRearmsAndResetsMissed(t *testing.T) {
	f, link := newTestClient(cbf.ModeAttitude)

	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	assert.Equal(t, 2, f.MissedCycles())

	deliverAndReceive(t, f, link, safeControlRaw(cbf.ModeAttitude, [4]float64{9.5, 0.1, 0.2, 0.3}, 0))

	var u [4]float64
	f.SafeControl(&u)
	assert.InDelta(t, 9.5, u[0], 1e-6)
	assert.InDelta(t, 0.3, u[3], 1e-6)

	// re-armed: this submit sends and clears the miss count
	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	assert.Len(t, link.Sent(), 2)
	assert.Equal(t, 0, f.MissedCycles())
}

func TestMissedCycleWatchdogForcesStop(t *testing.T) {
	f, link := newTestClient(cbf.ModeAttitude)

	// charge the client with a real solution first
	deliverAndReceive(t, f, link, safeControlRaw(cbf.ModeAttitude, [4]float64{9.5, 1, 1, 1}, 0))

	f.Submit(&cbf.AttitudeRequest{T: 9.81}) // sends, ready goes false

	var u [4]float64
	for i := 0; i < missedCycleLimit; i++ {
		f.Submit(&cbf.AttitudeRequest{T: 9.81})
	}
	assert.Equal(t, missedCycleLimit, f.MissedCycles())
	f.SafeControl(&u)
	assert.Equal(t, 9.5, math.Round(u[0]*10)/10, "no stop before the limit is exceeded")

	// miss 201 fires the forced stop and re-arms the link
	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	f.SafeControl(&u)
	assert.Equal(t, [4]float64{}, u, "forced stop is the zero-thrust zero-rate command")

	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	assert.Len(t, link.Sent(), 2, "watchdog re-arms the link for the next send")
}

func TestInvalidHeaderTriggersResync(t *testing.T) {
	f, link := newTestClient(cbf.ModeAttitude)

	deliverAndReceive(t, f, link, safeControlRaw(cbf.ModeAttitude, [4]float64{9.5, 0, 0, 0}, 0))

	f.Submit(&cbf.AttitudeRequest{T: 9.81})

	bad := safeControlRaw(cbf.ModeAttitude, [4]float64{1, 2, 3, 4}, 0)
	bad[0] = 'X'
	deliverAndReceive(t, f, link, bad)

	assert.Equal(t, 1, link.Resyncs())

	// the stored solution is untouched and the link is ready again
	var u [4]float64
	f.SafeControl(&u)
	assert.InDelta(t, 9.5, u[0], 1e-6)
	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	assert.Len(t, link.Sent(), 2)
}

func TestItersResponse(t *testing.T) {
	f, link := newTestClient(cbf.ModeAttitudeIters)

	deliverAndReceive(t, f, link, safeControlRaw(cbf.ModeAttitudeIters, [4]float64{9.5, 0, 0, 0}, 23))

	assert.Equal(t, uint16(23), f.Iters())
	var u [4]float64
	f.SafeControl(&u)
	assert.InDelta(t, 9.5, u[0], 1e-6)
}

func TestOversizeRequestAbortsSendOnly(t *testing.T) {
	f, link := newTestClient(cbf.ModeAttitude)

	f.Submit(&oversizeRequest{})
	assert.Empty(t, link.Sent())

	// the client stays ready: the next well-formed request goes out
	f.Submit(&cbf.AttitudeRequest{T: 9.81})
	assert.Len(t, link.Sent(), 1)
	assert.Equal(t, 0, f.MissedCycles())
}

type oversizeRequest struct{}

func (*oversizeRequest) Bytes() []byte { return make([]byte, cbf.MaxPayloadSize+1) }
