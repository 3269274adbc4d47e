package session

import (
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

type State uint8

const (
	Ready State = iota
	Playing
	Paused
	Finished
	Failed
	Discarded
)

var stateNames = [...]string{"ready", "playing", "paused", "finished", "failed", "discarded"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether the session can no longer change without Retry
func (s State) Terminal() bool {
	return s == Finished || s == Failed || s == Discarded
}

// Snapshot is a consistent copy of the session for presentation
type Snapshot struct {
	State   State
	Elapsed time.Duration
	Play    *game.Play
}

// Recorder persists the result of a finished or failed session
type Recorder interface {
	Record(r game.Result) error
}
