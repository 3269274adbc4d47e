package input

import (
	"math"
	"sync"

	"git.lost.host/meutraa/tapline/internal/game"
)

// SwipeThreshold is the distance in pixels a pointer must travel for its
// release to count as a swipe
const SwipeThreshold = 35

type pointer struct {
	lane   uint8
	origin game.Point
}

// Tracker turns pointer down and up events into lane inputs
type Tracker struct {
	Threshold float64 // Zero means SwipeThreshold

	mu       sync.Mutex
	pointers map[int]pointer
}

func (t *Tracker) threshold() float64 {
	if t.Threshold <= 0 {
		return SwipeThreshold
	}
	return t.Threshold
}

// Start registers pointer id on lane and returns the tap that starts it
func (t *Tracker) Start(id int, lane uint8, at game.Point) game.Input {
	t.mu.Lock()
	defer t.mu.Unlock()
	if nil == t.pointers {
		t.pointers = map[int]pointer{}
	}
	t.pointers[id] = pointer{lane: lane, origin: at}
	return game.Input{Lane: lane, Phase: game.Start, Kind: game.Tap, Origin: at}
}

// End releases pointer id. A pointer that travelled past the threshold
// becomes a swipe. Pointers that were never started or that are released
// over a different lane produce nothing.
func (t *Tracker) End(id int, lane uint8, at game.Point) (game.Input, bool) {
	t.mu.Lock()
	p, ok := t.pointers[id]
	delete(t.pointers, id)
	t.mu.Unlock()
	if !ok || p.lane != lane {
		return game.Input{}, false
	}

	delta := game.Point{X: at.X - p.origin.X, Y: at.Y - p.origin.Y}
	in := game.Input{Lane: lane, Phase: game.End, Kind: game.Tap, Origin: p.origin, Delta: delta}
	if math.Hypot(delta.X, delta.Y) > t.threshold() {
		in.Kind = Classify(delta)
	}
	return in, true
}

// Active returns the number of pointers currently down
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pointers)
}

// Classify maps a movement in screen coordinates, where y grows downwards,
// to a swipe direction. Angles in [-45, 45) are right, [45, 135) down,
// [-135, -45) up and the rest left. The buckets are compared on the
// components so the diagonals are exact.
func Classify(delta game.Point) game.Kind {
	x, y := delta.X, delta.Y
	switch {
	case x > 0 && y >= -x && y < x:
		return game.SwipeRight
	case y > 0 && x <= y && x > -y:
		return game.SwipeDown
	case y < 0 && x >= y && x < -y:
		return game.SwipeUp
	}
	return game.SwipeLeft
}
