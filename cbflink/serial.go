package cbflink

import (
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Workiva/go-datastructures/queue"
	"go.bug.st/serial"

	"github.com/mikehamer/crazycontrol/cbf"
)

// Porter is the minimal surface needed from a serial port, so the link
// can be exercised in tests without hardware.
type Porter interface {
	io.ReadWriter
	io.Closer
}

// PortOpener opens the physical channel at a baud rate.
type PortOpener func(baud int) (Porter, error)

// OpenSerialPort returns a PortOpener for a real UART at path, 8N1.
func OpenSerialPort(path string) PortOpener {
	return func(baud int) (Porter, error) {
		mode := &serial.Mode{
			BaudRate: baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
		return serial.Open(path, mode)
	}
}

// SerialLink runs the co-processor UART: a reader goroutine
// accumulates exactly one packet's worth of bytes, then hands the
// completed packet off by value, and a worker goroutine drains the
// outbound queue onto the port. A link is single use: once closed it
// cannot be restarted.
type SerialLink struct {
	mode  cbf.Mode
	open  PortOpener
	reset func() error // one-time link reset sequence, board-specific

	port    Porter
	closed  bool
	packets chan cbf.Packet
	drop    atomic.Bool

	sendQueue        *queue.Queue
	threadShouldStop chan bool
	waitGroup        *sync.WaitGroup
}

// NewSerialLink builds a link for the given mode. reset may be nil when
// the board needs no reset pulse before the UART is armed.
func NewSerialLink(mode cbf.Mode, open PortOpener, reset func() error) *SerialLink {
	return &SerialLink{
		mode:  mode,
		open:  open,
		reset: reset,

		packets: make(chan cbf.Packet, 1),

		sendQueue:        queue.New(10),
		threadShouldStop: make(chan bool),
		waitGroup:        &sync.WaitGroup{},
	}
}

func (l *SerialLink) Start(baud int) error {
	if l.closed {
		return ErrorLinkClosed
	}
	if l.port != nil {
		return ErrorAlreadyStarted
	}

	// pulse the co-processor reset line before arming the UART, so the
	// first packet boundary is known
	if l.reset != nil {
		if err := l.reset(); err != nil {
			return err
		}
	}

	port, err := l.open(baud)
	if err != nil {
		return err
	}
	l.port = port

	l.waitGroup.Add(2)
	go l.readerThread()
	go l.workerThread()

	return nil
}

func (l *SerialLink) Send(data []byte) error {
	if l.port == nil {
		return ErrorNotStarted
	}
	if err := l.sendQueue.Put(data); err != nil {
		return ErrorLinkClosed
	}
	return nil
}

func (l *SerialLink) Resync() {
	l.drop.Store(true)
}

func (l *SerialLink) Packets() <-chan cbf.Packet {
	return l.packets
}

func (l *SerialLink) Close() error {
	if l.port == nil {
		return ErrorNotStarted
	}
	l.closed = true
	close(l.threadShouldStop)
	l.sendQueue.Dispose()
	err := l.port.Close() // unblocks the reader
	l.waitGroup.Wait()
	l.port = nil
	return err
}

// readerThread accumulates one full packet at a time and posts it by
// value, so the consumer never shares a buffer with this goroutine. A
// pending Resync discards the partial accumulation so the next byte
// starts a fresh packet window.
func (l *SerialLink) readerThread() {
	defer l.waitGroup.Done()

	raw := make([]byte, l.mode.PacketSize())
	fill := 0

	for {
		select {
		case <-l.threadShouldStop:
			return
		default:
		}

		if l.drop.Swap(false) {
			fill = 0
		}

		n, err := l.port.Read(raw[fill:])
		if err != nil {
			select {
			case <-l.threadShouldStop:
			default:
				log.Printf("cbflink: read error: %v", err)
			}
			return
		}
		fill += n

		if fill == len(raw) {
			fill = 0
			if l.drop.Swap(false) {
				continue // resync arrived mid-packet, discard it
			}
			var pk cbf.Packet
			pk.LoadRaw(raw)
			select {
			case l.packets <- pk:
			default:
				// consumer is behind: replace the unobserved packet
				select {
				case <-l.packets:
				default:
				}
				select {
				case l.packets <- pk:
				default:
				}
			}
		}
	}
}

// workerThread drains the outbound queue onto the port.
func (l *SerialLink) workerThread() {
	defer l.waitGroup.Done()

	for {
		items, err := l.sendQueue.Get(1)
		if err != nil {
			return // queue disposed on Close
		}

		data := items[0].([]byte)
		if _, err := l.port.Write(data); err != nil {
			select {
			case <-l.threadShouldStop:
				return
			default:
				log.Printf("cbflink: write error: %v", err)
			}
		}
	}
}
