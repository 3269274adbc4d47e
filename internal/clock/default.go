package clock

import (
	"sync"
	"time"
)

type DefaultClock struct {
	mu     sync.Mutex
	source TimeProvider

	started bool
	start   time.Time // Wall time of Start

	paused      bool
	pauseStart  time.Time     // Wall time the current pause began
	totalPaused time.Duration // Cumulative pause and discounted time
}

func New(tp TimeProvider) *DefaultClock {
	if nil == tp {
		tp = SystemTime{}
	}
	return &DefaultClock{source: tp}
}

// Start begins counting from zero, a running clock is left alone
func (c *DefaultClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true
	c.start = c.source.Now()
	c.paused = false
	c.totalPaused = 0
}

func (c *DefaultClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started || c.paused {
		return
	}
	c.paused = true
	c.pauseStart = c.source.Now()
}

func (c *DefaultClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.totalPaused += c.source.Now().Sub(c.pauseStart)
	c.pauseStart = time.Time{}
	c.paused = false
}

func (c *DefaultClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	c.paused = false
	c.start = time.Time{}
	c.pauseStart = time.Time{}
	c.totalPaused = 0
}

func (c *DefaultClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed(c.source.Now())
}

// ElapsedAt backdates the reading by how long ago t was. Pauses taken since
// t are not given back, and a t in the future reads as now.
func (c *DefaultClock) ElapsedAt(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.source.Now()
	elapsed := c.elapsed(now)
	if ago := now.Sub(t); ago > 0 {
		elapsed -= ago
	}
	return max(elapsed, 0)
}

func (c *DefaultClock) elapsed(now time.Time) time.Duration {
	if !c.started {
		return 0
	}
	if c.paused {
		now = c.pauseStart
	}
	return max(now.Sub(c.start)-c.totalPaused, 0)
}

func (c *DefaultClock) Discount(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalPaused += d
}

func (c *DefaultClock) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

func (c *DefaultClock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
