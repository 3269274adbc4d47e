package clock

import (
	"sync"
	"time"
)

// ManualTime is a TimeProvider that only moves when told to. Tests and
// replays step it instead of waiting on the wall clock.
type ManualTime struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualTime(at time.Time) *ManualTime {
	return &ManualTime{now: at}
}

func (m *ManualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set jumps to t, earlier times included
func (m *ManualTime) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Step moves time forward by d and returns the new reading
func (m *ManualTime) Step(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
