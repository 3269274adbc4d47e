package ticker

import (
	"sync"
	"sync/atomic"
	"time"
)

// Loop calls Tick on a fixed interval from a single goroutine until Tick
// returns false or Stop is called. While paused the timer is stopped.
type Loop struct {
	interval time.Duration
	tick     func() bool

	mu     sync.Mutex // held for the duration of every tick
	paused bool

	running  atomic.Bool
	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func New(interval time.Duration, tick func() bool) *Loop {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Loop{
		interval: interval,
		tick:     tick,
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		go l.run()
	}
}

func (l *Loop) run() {
	defer close(l.done)

	t := time.NewTicker(l.interval)
	defer t.Stop()
	if l.Paused() {
		t.Stop()
	}

	for {
		select {
		case <-l.stop:
			return

		case <-l.wake:
			if l.Paused() {
				t.Stop()
			} else {
				t.Reset(l.interval)
			}

		case <-t.C:
			l.mu.Lock()
			cont := true
			if !l.paused {
				cont = l.tick()
			}
			l.mu.Unlock()
			if !cont {
				return
			}
		}
	}
}

// Pause returns once no tick is running; no tick starts until Resume
func (l *Loop) Pause() {
	l.mu.Lock()
	changed := !l.paused
	l.paused = true
	l.mu.Unlock()
	if changed {
		l.signal()
	}
}

func (l *Loop) Resume() {
	l.mu.Lock()
	changed := l.paused
	l.paused = false
	l.mu.Unlock()
	if changed {
		l.signal()
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.paused
}

// Stop halts the loop and waits for it to exit. It must not be called from Tick.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	if l.running.Load() {
		<-l.done
	}
}

// Done is closed when the loop goroutine exits
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
