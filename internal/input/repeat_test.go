package input

import (
	"testing"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestRepeatPress(t *testing.T) {
	r := &Repeat{}
	t0 := time.Unix(100, 0)

	in, ok := r.Press(1, t0, false)
	assert.True(t, ok)
	assert.Equal(t, game.Input{Lane: 1, Phase: game.Start, Kind: game.Tap}, in)

	// Autorepeat
	_, ok = r.Press(1, t0.Add(30*time.Millisecond), false)
	assert.False(t, ok)
	_, ok = r.Press(1, t0.Add(60*time.Millisecond), false)
	assert.False(t, ok)

	// A deliberate second tap
	_, ok = r.Press(1, t0.Add(200*time.Millisecond), false)
	assert.True(t, ok)

	// Other lanes are independent
	_, ok = r.Press(2, t0.Add(210*time.Millisecond), false)
	assert.True(t, ok)

	// Presses keep a held lane held
	_, ok = r.Press(3, t0.Add(500*time.Millisecond), true)
	assert.False(t, ok)
}

func TestRepeatExpire(t *testing.T) {
	r := &Repeat{Window: 100 * time.Millisecond}
	t0 := time.Unix(100, 0)
	held := map[uint8]bool{0: true, 1: false, 2: true}
	isHeld := func(lane uint8) bool { return held[lane] }

	r.Press(0, t0, false)
	r.Press(1, t0, false)
	r.Press(2, t0.Add(80*time.Millisecond), false)

	assert.Empty(t, r.Expire(t0.Add(50*time.Millisecond), isHeld))
	assert.Equal(t, []game.Input{{Lane: 0, Phase: game.End, Kind: game.Tap}},
		r.Expire(t0.Add(150*time.Millisecond), isHeld))
	assert.ElementsMatch(t, []game.Input{
		{Lane: 0, Phase: game.End, Kind: game.Tap},
		{Lane: 2, Phase: game.End, Kind: game.Tap},
	}, r.Expire(t0.Add(200*time.Millisecond), isHeld))
}

func TestRepeatSwipe(t *testing.T) {
	r := &Repeat{}
	_, ok := r.Swipe(game.SwipeUp)
	assert.False(t, ok)

	r.Press(2, time.Unix(100, 0), false)
	in, ok := r.Swipe(game.SwipeUp)
	assert.True(t, ok)
	assert.Equal(t, game.Input{Lane: 2, Phase: game.End, Kind: game.SwipeUp}, in)

	_, ok = r.Swipe(game.Tap)
	assert.False(t, ok)
}
