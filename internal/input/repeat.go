package input

import (
	"sync"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

const (
	DefaultRepeatGap    = 60 * time.Millisecond
	DefaultRepeatWindow = 700 * time.Millisecond
)

// Repeat turns the presses a terminal reports into lane inputs. Terminals
// never report releases: a held key repeats instead. Presses closer than Gap
// are autorepeat, presses on a lane holding a note keep it held, and a held
// lane is released once its key has been quiet for Window.
type Repeat struct {
	Gap    time.Duration
	Window time.Duration

	mu   sync.Mutex
	seen map[uint8]time.Time
	last uint8
	any  bool
}

func (r *Repeat) gap() time.Duration {
	if r.Gap <= 0 {
		return DefaultRepeatGap
	}
	return r.Gap
}

func (r *Repeat) window() time.Duration {
	if r.Window <= 0 {
		return DefaultRepeatWindow
	}
	return r.Window
}

// Press registers a key press on lane. held reports whether the lane is
// holding a note.
func (r *Repeat) Press(lane uint8, now time.Time, held bool) (game.Input, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if nil == r.seen {
		r.seen = map[uint8]time.Time{}
	}
	prev, ok := r.seen[lane]
	r.seen[lane] = now
	r.last, r.any = lane, true
	if held || (ok && now.Sub(prev) < r.gap()) {
		return game.Input{}, false
	}
	return game.Input{Lane: lane, Phase: game.Start, Kind: game.Tap}, true
}

// Expire releases every held lane whose key went quiet
func (r *Repeat) Expire(now time.Time, held func(lane uint8) bool) []game.Input {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ins []game.Input
	for lane, at := range r.seen {
		if now.Sub(at) < r.window() || !held(lane) {
			continue
		}
		ins = append(ins, game.Input{Lane: lane, Phase: game.End, Kind: game.Tap})
	}
	return ins
}

// Swipe applies a direction to the most recently pressed lane
func (r *Repeat) Swipe(kind game.Kind) (game.Input, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.any || !kind.IsSwipe() {
		return game.Input{}, false
	}
	return game.Input{Lane: r.last, Phase: game.End, Kind: kind}, true
}
