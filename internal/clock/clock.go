package clock

import "time"

// Clock measures session time: wall time since Start minus time spent paused
type Clock interface {
	Start()
	Pause()
	Resume()
	Reset()
	Elapsed() time.Duration
	// ElapsedAt is the reading the clock had at wall time t, no later than now
	ElapsedAt(t time.Time) time.Duration

	Started() bool
	Paused() bool

	// Discount removes d from elapsed time, as if the clock had been paused for it
	Discount(d time.Duration)
}

// TimeProvider is the wall clock source
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads time.Now, which carries a monotonic reading
type SystemTime struct{}

func (SystemTime) Now() time.Time {
	return time.Now()
}
