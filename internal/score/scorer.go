package score

import (
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

type Scorer interface {
	// Evaluate applies one input to the play and reports what it resolved
	Evaluate(play *game.Play, input game.Input, at time.Duration) game.Judgement

	// Sweep misses notes that scrolled past the window and completes finished
	// holds, in deadline order. A non nil stop is called after each judgement
	// and ends the sweep early when it returns true.
	Sweep(play *game.Play, at time.Duration, stop func(game.Judgement) bool) []game.Judgement

	Judge(absDistance time.Duration) game.Tier

	// Distance is how early (positive) or late (negative) at is for the note
	Distance(n *game.Note, at time.Duration) time.Duration
}

// Windows are the exclusive upper bounds of each tier. Anything at or past
// Miss is not a candidate at all.
type Windows struct {
	Perfect time.Duration
	Great   time.Duration
	Good    time.Duration
	Miss    time.Duration
}

var DefaultWindows = Windows{
	Perfect: 75 * time.Millisecond,
	Great:   115 * time.Millisecond,
	Good:    165 * time.Millisecond,
	Miss:    220 * time.Millisecond,
}
