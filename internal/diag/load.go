package diag

import (
	"sync"
	"time"
)

// LoadSmoothing is the weight of each new load sample.
const LoadSmoothing = 0.2

// Clock returns a free-running microsecond counter that wraps at 2^32.
type Clock func() uint32

// Micros is a Clock backed by the monotonic wall clock.
func Micros() Clock {
	start := time.Now()
	return func() uint32 {
		return uint32(time.Since(start).Microseconds())
	}
}

// LoadMeter estimates the share of each audio period spent producing samples.
type LoadMeter struct {
	mu       sync.Mutex
	clock    Clock
	entered  uint32
	active   uint64
	calls    uint32
	smoothed float64
}

func NewLoadMeter(clock Clock) *LoadMeter {
	if clock == nil {
		clock = Micros()
	}
	return &LoadMeter{clock: clock}
}

// Enter marks the start of one audio callback.
func (m *LoadMeter) Enter() {
	now := m.clock()
	m.mu.Lock()
	m.entered = now
	m.mu.Unlock()
}

// Exit marks the end of the callback started by Enter. Unsigned subtraction
// keeps the delta correct across one counter wrap.
func (m *LoadMeter) Exit() {
	now := m.clock()
	m.mu.Lock()
	m.active += uint64(now - m.entered)
	m.calls++
	m.mu.Unlock()
}

// SampleAndReset folds the time accumulated since the previous call into the
// smoothed percentage and returns it. Each Enter/Exit pair counts as one
// audio frame at audioRate. With no calls or a zero rate the previous value is
// returned unchanged.
func (m *LoadMeter) SampleAndReset(audioRate int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	active, calls := m.active, m.calls
	m.active, m.calls = 0, 0
	if audioRate <= 0 || calls == 0 {
		return m.smoothed
	}
	period := float64(calls) * (1e6 / float64(audioRate))
	pct := float64(active) / period * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	m.smoothed += LoadSmoothing * (pct - m.smoothed)
	return m.smoothed
}

// Percent returns the last smoothed value.
func (m *LoadMeter) Percent() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.smoothed
}
