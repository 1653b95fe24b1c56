package cbflink

import "github.com/mikehamer/crazycontrol/cbf"

// Link is the byte transport between the flight controller and the
// safety-filter co-processor. Completed receptions are delivered by
// value through an edge-triggered channel: it holds at most one
// pending packet and a newer completion replaces an unobserved one, so
// a slow consumer only ever sees the most recent reception and never
// shares a buffer with the receive side.
type Link interface {
	// Start opens the channel at the given baud rate and begins
	// accumulating inbound packets.
	Start(baud int) error

	// Send queues one wire image for transmission. It never blocks on
	// the physical channel.
	Send(data []byte) error

	// Resync discards the partial inbound accumulation so the next
	// received byte starts a fresh packet window. Used after a framing
	// error.
	Resync()

	// Packets reports completed receptions.
	Packets() <-chan cbf.Packet

	Close() error
}
