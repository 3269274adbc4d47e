package session

import (
	"sync"
	"time"

	"git.lost.host/meutraa/tapline/internal/ticker"
)

// Runner drives a Session from a fixed interval ticker. Pausing the runner
// suspends the ticker as well as the session clock.
type Runner struct {
	*Session

	interval time.Duration

	mu    sync.Mutex
	loop  *ticker.Loop
	done  chan struct{}
	armed bool // done belongs to a started attempt
}

func NewRunner(s *Session, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = s.frame
	}
	return &Runner{Session: s, interval: interval}
}

func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Session.Start(); nil != err {
		return err
	}
	if nil == r.done || r.armed {
		r.done = make(chan struct{})
	}
	r.armed = true
	if r.Session.State().Terminal() {
		close(r.done)
		r.loop = nil
		return nil
	}
	loop := ticker.New(r.interval, func() bool {
		return !r.Session.Tick().Terminal()
	})
	r.loop = loop
	go func(done chan struct{}) {
		<-loop.Done()
		close(done)
	}(r.done)
	loop.Start()
	return nil
}

func (r *Runner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// No tick is in flight once the loop is paused
	if nil != r.loop {
		r.loop.Pause()
	}
	return r.Session.Pause()
}

func (r *Runner) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Session.Resume(); nil != err {
		return err
	}
	if nil != r.loop {
		r.loop.Resume()
	}
	return nil
}

func (r *Runner) stop() {
	if nil != r.loop {
		r.loop.Stop()
		r.loop = nil
	}
}

func (r *Runner) Quit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stop()
	r.Session.Quit()
}

// Retry stops the ticker and resets the session; call Start to play again
func (r *Runner) Retry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stop()
	r.Session.Retry()
	r.done = nil
	r.armed = false
}

// Done is closed when the current attempt stops ticking
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if nil == r.done {
		r.done = make(chan struct{})
	}
	return r.done
}
