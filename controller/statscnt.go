package controller

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// RateCounter measures the frequency of an event stream over a fixed
// averaging window. Observability only; nothing in the control path
// depends on it.
type RateCounter struct {
	clock    clock.Clock
	interval time.Duration

	mu          sync.Mutex
	count       int
	windowStart time.Time
	rate        float64
}

func NewRateCounter(c clock.Clock, interval time.Duration) *RateCounter {
	return &RateCounter{
		clock:       c,
		interval:    interval,
		windowStart: c.Now(),
	}
}

// Event records one occurrence and folds the window into the published
// rate once the averaging interval has elapsed.
func (r *RateCounter) Event() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count++
	elapsed := r.clock.Now().Sub(r.windowStart)
	if elapsed >= r.interval {
		r.rate = float64(r.count) / elapsed.Seconds()
		r.count = 0
		r.windowStart = r.clock.Now()
	}
}

// Rate returns the most recently published events-per-second figure.
func (r *RateCounter) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rate
}
