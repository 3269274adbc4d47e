package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
	"git.lost.host/meutraa/tapline/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func tap(lane uint8) game.Input {
	return game.Input{Lane: lane, Phase: game.Start, Kind: game.Tap}
}

func release(lane uint8) game.Input {
	return game.Input{Lane: lane, Phase: game.End, Kind: game.Tap}
}

func swipe(lane uint8, kind game.Kind) game.Input {
	return game.Input{Lane: lane, Phase: game.End, Kind: kind}
}

type hitTest struct {
	Input  game.Input
	At     time.Duration
	NoteID int
}

// Each input is applied to a fresh play
var hitTests = []hitTest{
	{tap(0), ms(3010), 1},
	{tap(2), ms(2900), 2},
	// hold heads take taps
	{tap(1), ms(3450), 3},
	// swipe notes ignore taps
	{tap(3), ms(4000), 0},
	{swipe(3, game.SwipeUp), ms(4100), 4},
	{swipe(3, game.SwipeDown), ms(4000), 0},
	{swipe(0, game.SwipeRight), ms(4400), 5},
	{tap(0), ms(5400), 7},
	// exactly on the miss window
	{tap(0), ms(3220), 0},
	{tap(0), ms(3219), 1},
	// releases never hit taps
	{release(0), ms(3000), 0},
	{tap(1), ms(6100), 8},
	{tap(3), ms(6000), 0},
	{tap(2), ms(7000), 10},
	{tap(0), ms(20000), 0},
}

func TestEvaluateCandidate(t *testing.T) {
	scorer := DefaultScorer{}
	for _, test := range hitTests {
		play := game.NewPlay(testdata.GetBeatmap())
		j := scorer.Evaluate(play, test.Input, test.At)
		if j.NoteID != test.NoteID {
			t.Log("Input   ", test.Input, test.At)
			t.Log("Matched ", j)
			t.Log("Expected", test.NoteID)
			t.Fail()
		}
		if test.NoteID == 0 && j.Tier != game.None {
			t.Log("unmatched input judged", j)
			t.Fail()
		}
	}
}

func TestJudgeBoundaries(t *testing.T) {
	scorer := DefaultScorer{}
	expected := map[int]game.Tier{
		0:   game.Perfect,
		74:  game.Perfect,
		75:  game.Great,
		114: game.Great,
		115: game.Good,
		164: game.Good,
		165: game.Miss,
		219: game.Miss,
	}
	for d, tier := range expected {
		assert.Equal(t, tier, scorer.Judge(ms(d)), "%vms", d)
	}
}

func TestEvaluateBoundaries(t *testing.T) {
	expected := map[int]game.Tier{
		74:  game.Perfect,
		75:  game.Great,
		114: game.Great,
		115: game.Good,
		164: game.Good,
		165: game.Miss,
		219: game.Miss,
		220: game.None,
		400: game.None,
	}
	scorer := DefaultScorer{}
	for d, tier := range expected {
		for _, sign := range []int{1, -1} {
			play := game.NewPlay(testdata.Tiny())
			j := scorer.Evaluate(play, tap(0), ms(5000+sign*d))
			assert.Equal(t, tier, j.Tier, "delta %vms", sign*d)
			if tier == game.None {
				assert.Zero(t, j.NoteID)
				assert.Equal(t, game.Pending, play.Notes[0].State)
				assert.Equal(t, game.Tally{}, play.Tally)
			} else {
				assert.Equal(t, 1, j.NoteID)
			}
		}
	}
}

func TestMissTierMarksNote(t *testing.T) {
	scorer := DefaultScorer{}
	play := game.NewPlay(testdata.GetBeatmap())
	play.Combo = 7

	j := scorer.Evaluate(play, tap(0), ms(3180))
	assert.Equal(t, game.Miss, j.Tier)
	assert.Equal(t, 1, j.NoteID)
	assert.Zero(t, j.Points)
	assert.Equal(t, game.Missed, play.Notes[0].State)
	assert.Zero(t, play.Combo)
	assert.Equal(t, 1, play.Tally.Miss)

	// The note is gone, a second tap finds nothing
	again := scorer.Evaluate(play, tap(0), ms(3000))
	assert.Equal(t, game.None, again.Tier)
}

func TestComboMultiplier(t *testing.T) {
	scorer := DefaultScorer{}
	for _, combo := range []int{0, 1, 2, 10} {
		for _, tc := range []struct {
			delta int
			tier  game.Tier
		}{{0, game.Perfect}, {80, game.Great}, {120, game.Good}} {
			play := game.NewPlay(testdata.Tiny())
			play.Combo = combo
			play.MaxCombo = combo
			j := scorer.Evaluate(play, tap(0), ms(5000+tc.delta))
			require.Equal(t, tc.tier, j.Tier)
			assert.Equal(t, tc.tier.Points()*max(1, combo), j.Points)
			assert.Equal(t, j.Points, play.Score)
			assert.Equal(t, combo+1, play.Combo)
			assert.Equal(t, combo+1, play.MaxCombo)
		}
	}
}

func TestConsecutivePerfectsIncrease(t *testing.T) {
	notes := make([]game.Note, 20)
	for i := range notes {
		notes[i] = game.Note{ID: i + 1, Lane: uint8(i % 4), Time: ms(3000 + i*250)}
	}
	play := game.NewPlay(&game.Beatmap{Tempo: 240, Duration: ms(20000), Notes: notes})

	scorer := DefaultScorer{}
	last := 0
	for i, n := range notes {
		j := scorer.Evaluate(play, tap(n.Lane), n.Time)
		require.Equal(t, game.Perfect, j.Tier)
		// Combos of 0 and 1 share the x1 multiplier
		if i > 1 {
			assert.Greater(t, j.Points, last)
		} else {
			assert.Equal(t, 100, j.Points)
		}
		last = j.Points
	}
	assert.Equal(t, 20, play.MaxCombo)
	assert.Equal(t, 20, play.Tally.Perfect)
}

func TestHoldLifecycle(t *testing.T) {
	scorer := DefaultScorer{}
	play := game.NewPlay(testdata.GetBeatmap())
	hold := &play.Notes[2]

	j := scorer.Evaluate(play, tap(1), ms(3540))
	assert.Equal(t, game.Perfect, j.Tier)
	assert.True(t, j.Engaged)
	assert.Zero(t, j.Points)
	assert.Zero(t, play.Score)
	assert.Equal(t, game.Engaged, hold.State)
	assert.Equal(t, game.Tally{}, play.Tally)
	assert.Equal(t, 1, play.Holds())

	// An engaged hold is no longer a candidate for starts
	again := scorer.Evaluate(play, tap(1), ms(3550))
	assert.Equal(t, game.None, again.Tier)

	done := scorer.Evaluate(play, release(1), hold.End())
	assert.Equal(t, game.Perfect, done.Tier)
	assert.Equal(t, 100, done.Points)
	assert.Equal(t, game.Resolved, hold.State)
	assert.Equal(t, 1, play.Tally.Perfect)
	assert.Equal(t, 1, play.Combo)
	assert.Zero(t, play.Holds())
}

func TestHoldGreatStartStillFullCredit(t *testing.T) {
	scorer := DefaultScorer{}
	play := game.NewPlay(testdata.GetBeatmap())

	j := scorer.Evaluate(play, tap(1), ms(3600))
	assert.Equal(t, game.Great, j.Tier)
	assert.True(t, j.Engaged)

	done := scorer.Evaluate(play, release(1), ms(5000))
	assert.Equal(t, game.Perfect, done.Tier)
	assert.Equal(t, 1, play.Tally.Perfect)
	assert.Zero(t, play.Tally.Great)
}

func TestHoldEarlyRelease(t *testing.T) {
	scorer := DefaultScorer{}
	play := game.NewPlay(testdata.GetBeatmap())
	play.Combo = 3

	scorer.Evaluate(play, tap(1), ms(3500))
	j := scorer.Evaluate(play, release(1), ms(4000))
	assert.Equal(t, game.Miss, j.Tier)
	assert.True(t, j.EarlyRelease)
	assert.Equal(t, 3, j.NoteID)
	assert.Equal(t, game.Missed, play.Notes[2].State)
	assert.Zero(t, play.Combo)
	assert.Equal(t, 1, play.Tally.Miss)
	assert.Zero(t, play.Holds())
}

func TestHoldMissedStart(t *testing.T) {
	scorer := DefaultScorer{}
	play := game.NewPlay(testdata.GetBeatmap())

	j := scorer.Evaluate(play, tap(1), ms(3700))
	assert.Equal(t, game.Miss, j.Tier)
	assert.False(t, j.Engaged)
	assert.Zero(t, play.Holds())
	assert.Equal(t, game.Missed, play.Notes[2].State)
}

func TestSwipeWhileHoldingReleases(t *testing.T) {
	scorer := DefaultScorer{}
	play := game.NewPlay(testdata.GetBeatmap())

	scorer.Evaluate(play, tap(1), ms(3500))
	j := scorer.Evaluate(play, swipe(1, game.SwipeDown), ms(4800))
	assert.Equal(t, game.Perfect, j.Tier)
	assert.Equal(t, 3, j.NoteID)
	assert.Equal(t, game.Pending, play.Notes[10].State)
}

func TestSweep(t *testing.T) {
	scorer := DefaultScorer{}
	play := game.NewPlay(testdata.GetBeatmap())

	assert.Empty(t, scorer.Sweep(play, ms(3220), nil))

	missed := scorer.Sweep(play, ms(3221), nil)
	require.Len(t, missed, 2)
	assert.Equal(t, 1, missed[0].NoteID)
	assert.Equal(t, 2, missed[1].NoteID)
	assert.Equal(t, 2, play.Tally.Miss)

	// Engage the hold, then let the sweep complete it
	scorer.Evaluate(play, tap(1), ms(3500))
	assert.Empty(t, scorer.Sweep(play, ms(4220), nil))

	swipes := scorer.Sweep(play, ms(4749), nil)
	require.Len(t, swipes, 2)
	assert.Equal(t, 4, swipes[0].NoteID)
	assert.Equal(t, 5, swipes[1].NoteID)
	assert.Equal(t, game.Engaged, play.Notes[2].State)

	done := scorer.Sweep(play, ms(4750), nil)
	require.Len(t, done, 1)
	assert.Equal(t, game.Perfect, done[0].Tier)
	assert.Equal(t, 3, done[0].NoteID)
	assert.Equal(t, 100, done[0].Points)
	assert.Zero(t, play.Holds())

	// Sweeping far past the end misses everything left exactly once
	scorer.Sweep(play, ms(60000), nil)
	scorer.Sweep(play, ms(60000), nil)
	assert.Equal(t, len(play.Notes)-1, play.Tally.Miss)
	assert.Equal(t, 1, play.Tally.Perfect)
}

func TestCustomWindows(t *testing.T) {
	scorer := DefaultScorer{Windows: Windows{Perfect: ms(20), Great: ms(40), Good: ms(60), Miss: ms(100)}}
	assert.Equal(t, game.Great, scorer.Judge(ms(20)))
	play := game.NewPlay(testdata.Tiny())
	assert.Equal(t, game.None, scorer.Evaluate(play, tap(0), ms(5100)).Tier)
	assert.Equal(t, game.Miss, scorer.Evaluate(play, tap(0), ms(5099)).Tier)
}

var result time.Duration

func BenchmarkDistance(b *testing.B) {
	s := DefaultScorer{}
	total := time.Millisecond * 0
	n := &game.Note{Time: time.Millisecond * 12456}
	q := time.Millisecond * 13456
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		total += s.Distance(n, q)
	}

	result = total
}

func BenchmarkEvaluate(b *testing.B) {
	s := DefaultScorer{}
	bm := testdata.GetBeatmap()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		play := game.NewPlay(bm)
		s.Evaluate(play, tap(0), ms(5500))
	}
}
