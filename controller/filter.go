package controller

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/mikehamer/crazycontrol/cbf"
	"github.com/mikehamer/crazycontrol/cbflink"
)

// missedCycleLimit is how many consecutive control cycles may pass
// without a co-processor response before the client gives up and forces
// the stop command.
const missedCycleLimit = 200

// FilterClient runs the request/response cycle with the CBF-QP
// co-processor. It never blocks the control loop: Submit reads the
// readiness flag and either sends or accounts a missed cycle, and the
// receive path runs on its own goroutine driven by link notifications.
type FilterClient struct {
	mode cbf.Mode
	link cbflink.Link

	// ready is true when the co-processor has consumed the previous
	// request and the next one may be sent. Set false on send, true by
	// the receive path, and forced true by the watchdog.
	ready  atomic.Bool
	missed atomic.Int32

	mu    sync.RWMutex
	safeU [4]float64
	iters uint16

	rate *RateCounter
	tx   cbf.Packet
}

func NewFilterClient(mode cbf.Mode, link cbflink.Link, c clock.Clock) *FilterClient {
	f := &FilterClient{
		mode: mode,
		link: link,
		rate: NewRateCounter(c, time.Second),
	}
	f.ready.Store(true)
	return f
}

// Run drains received packets until the context is done. If the
// co-processor outpaces this loop only the most recent reception is
// observed.
func (f *FilterClient) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case pk := <-f.link.Packets():
			f.receive(&pk)
		}
	}
}

func (f *FilterClient) receive(pk *cbf.Packet) {
	var resp cbf.ResponsePacket
	var iters *cbf.SafeControlItersResponse
	var plain *cbf.SafeControlResponse

	if f.mode == cbf.ModeAttitudeIters {
		iters = &cbf.SafeControlItersResponse{}
		resp = iters
	} else {
		plain = &cbf.SafeControlResponse{}
		resp = plain
	}

	if err := cbf.Unpack(pk, resp); err != nil {
		// framing is off; realign the receive window and keep going.
		// The packet is left as received so it can be inspected.
		log.Printf("cbf: bad packet, resynchronizing: %v", err)
		f.link.Resync()
		f.ready.Store(true)
		return
	}

	f.rate.Event()

	f.mu.Lock()
	if iters != nil {
		f.safeU = iters.U
		f.iters = iters.Iters
	} else {
		f.safeU = plain.U
	}
	f.mu.Unlock()

	f.ready.Store(true)
}

// Submit sends one compressed request when the co-processor is ready.
// When it is not, the missed-cycle counter advances; past the limit the
// stored safe control becomes the zero stop command and the link is
// declared ready again so a stall cannot lock the client out forever.
func (f *FilterClient) Submit(req cbf.RequestPacketPtr) {
	if !f.ready.Load() {
		if f.missed.Add(1) > missedCycleLimit {
			log.Println("cbf: too many missed cycles, forcing stop command")
			f.mu.Lock()
			f.safeU = [4]float64{}
			f.mu.Unlock()
			f.ready.Store(true)
		}
		return
	}

	if err := cbf.Pack(f.mode, &f.tx, req.Bytes()); err != nil {
		// skip this cycle's send; the previous solution stays in effect
		log.Printf("cbf: dropping request: %v", err)
		return
	}

	if err := f.link.Send(f.tx.Raw(f.mode)); err != nil {
		log.Printf("cbf: send failed: %v", err)
		return
	}
	f.tx.Clear()
	f.ready.Store(false)
	f.missed.Store(0)
}

// SafeControl copies the most recent projected-safe input into u.
func (f *FilterClient) SafeControl(u *[4]float64) {
	f.mu.RLock()
	*u = f.safeU
	f.mu.RUnlock()
}

// MissedCycles is the current consecutive-miss count.
func (f *FilterClient) MissedCycles() int {
	return int(f.missed.Load())
}

// PacketRate is the accepted-response rate in packets per second.
func (f *FilterClient) PacketRate() float64 {
	return f.rate.Rate()
}

// Iters is the solver iteration count from the latest response, when
// the mode carries one.
func (f *FilterClient) Iters() uint16 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.iters
}

func (f *FilterClient) Mode() cbf.Mode {
	return f.mode
}
