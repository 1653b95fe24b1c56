package cbflink

import (
	"sync"

	"github.com/mikehamer/crazycontrol/cbf"
)

// MockLink is an in-memory Link for tests and for running the control
// core without a co-processor attached.
type MockLink struct {
	mu      sync.Mutex
	sent    [][]byte
	resyncs int
	started bool

	packets chan cbf.Packet
}

func NewMockLink() *MockLink {
	return &MockLink{packets: make(chan cbf.Packet, 1)}
}

func (m *MockLink) Start(baud int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return ErrorAlreadyStarted
	}
	m.started = true
	return nil
}

func (m *MockLink) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.sent = append(m.sent, buf)
	return nil
}

func (m *MockLink) Resync() {
	m.mu.Lock()
	m.resyncs++
	m.mu.Unlock()
}

func (m *MockLink) Packets() <-chan cbf.Packet {
	return m.packets
}

func (m *MockLink) Close() error {
	return nil
}

// Deliver posts a wire image as a completed reception, as the reader
// thread would. An unobserved earlier packet is replaced.
func (m *MockLink) Deliver(raw []byte) error {
	var pk cbf.Packet
	if err := pk.LoadRaw(raw); err != nil {
		return err
	}

	select {
	case m.packets <- pk:
	default:
		select {
		case <-m.packets:
		default:
		}
		select {
		case m.packets <- pk:
		default:
		}
	}
	return nil
}

// Sent returns copies of every wire image queued so far.
func (m *MockLink) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	copy(out, m.sent)
	return out
}

// Resyncs reports how many framing recoveries were requested.
func (m *MockLink) Resyncs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resyncs
}
