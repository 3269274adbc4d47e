package chart

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type generateTest struct {
	Tempo      float64
	Duration   time.Duration
	Difficulty game.Difficulty
}

var generateTests = []generateTest{
	{120, 60 * time.Second, game.Easy},
	{120, 60 * time.Second, game.Normal},
	{120, 60 * time.Second, game.Hard},
	{87.5, 95 * time.Second, game.Hard},
	{174, 140 * time.Second, game.Hard},
	{200, 30 * time.Second, game.Normal},
	{60, 10 * time.Second, game.Easy},
	{133.33, 7 * time.Second, game.Hard},
}

func TestGenerateBounds(t *testing.T) {
	for _, test := range generateTests {
		for seed := int64(1); seed <= 25; seed++ {
			gen := DefaultGenerator{Seed: seed, Logger: quiet}
			b := gen.Generate(test.Tempo, test.Duration, test.Difficulty)
			limit := test.Duration - game.TrailOut
			for _, n := range b.Notes {
				if n.Time < game.LeadIn || n.Time > limit || n.End() > limit {
					t.Log("test", test, "seed", seed)
					t.Log("note", n)
					t.Fail()
				}
				if n.Kind != game.Hold && n.Hold != 0 {
					t.Log("non hold with length", n)
					t.Fail()
				}
				if int(n.Lane) >= b.Lanes {
					t.Log("lane out of range", n)
					t.Fail()
				}
			}
		}
	}
}

func TestGenerateNoLaneOverlap(t *testing.T) {
	for _, test := range generateTests {
		for seed := int64(1); seed <= 25; seed++ {
			gen := DefaultGenerator{Seed: seed, Logger: quiet}
			b := gen.Generate(test.Tempo, test.Duration, test.Difficulty)
			last := map[uint8]game.Note{}
			for _, n := range b.Notes {
				if prev, ok := last[n.Lane]; ok && n.Time <= prev.End() {
					t.Log("test", test, "seed", seed)
					t.Log("prev", prev)
					t.Log("next", n)
					t.Fail()
				}
				last[n.Lane] = n
			}
		}
	}
}

func TestGenerateOrderedOnGrid(t *testing.T) {
	gen := DefaultGenerator{Seed: 7, Logger: quiet}
	b := gen.Generate(120, 90*time.Second, game.Hard)
	require.NotEmpty(t, b.Notes)

	ids := map[int]bool{}
	for i, n := range b.Notes {
		assert.Zero(t, n.Time%(500*time.Millisecond), "note %v off the 120bpm grid", n)
		assert.False(t, ids[n.ID], "duplicate id %v", n.ID)
		ids[n.ID] = true
		if i > 0 {
			prev := b.Notes[i-1]
			assert.True(t, prev.Time < n.Time || (prev.Time == n.Time && prev.Lane < n.Lane), "notes out of order at %v", i)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := (&DefaultGenerator{Seed: 42, Logger: quiet}).Generate(150, 120*time.Second, game.Hard)
	b := (&DefaultGenerator{Seed: 42, Logger: quiet}).Generate(150, 120*time.Second, game.Hard)
	assert.Equal(t, a, b)

	c := (&DefaultGenerator{Seed: 43, Logger: quiet}).Generate(150, 120*time.Second, game.Hard)
	assert.NotEqual(t, a.Notes, c.Notes)
}

func TestGenerateRandomSeedRecorded(t *testing.T) {
	gen := DefaultGenerator{Logger: quiet}
	b := gen.Generate(120, 60*time.Second, game.Normal)
	require.NotZero(t, b.Seed)

	again := (&DefaultGenerator{Seed: b.Seed, Logger: quiet}).Generate(120, 60*time.Second, game.Normal)
	assert.Equal(t, b.Notes, again.Notes)
}

func TestGenerateFallbacks(t *testing.T) {
	gen := DefaultGenerator{Seed: 3, Logger: quiet}

	unknown := gen.Generate(120, 60*time.Second, game.Difficulty("nightmare"))
	normal := gen.Generate(120, 60*time.Second, game.Normal)
	assert.Equal(t, game.Normal, unknown.Difficulty)
	assert.Equal(t, normal.Notes, unknown.Notes)

	tempo := gen.Generate(-10, 60*time.Second, game.Easy)
	assert.Equal(t, DefaultTempo, tempo.Tempo)
	assert.NotEmpty(t, tempo.Notes)

	// A beat shorter than a nanosecond would never advance
	for _, bpm := range []float64{1e12, MaxTempo + 1, math.Inf(1), math.NaN()} {
		b := gen.Generate(bpm, 60*time.Second, game.Easy)
		assert.Equal(t, DefaultTempo, b.Tempo, "tempo %v", bpm)
		assert.Equal(t, tempo.Notes, b.Notes, "tempo %v", bpm)
	}
	fast := gen.Generate(MaxTempo, 60*time.Second, game.Easy)
	assert.Equal(t, MaxTempo, fast.Tempo)

	for _, d := range []time.Duration{0, -time.Second, 5 * time.Second} {
		b := gen.Generate(120, d, game.Hard)
		assert.Empty(t, b.Notes, "duration %v", d)
	}
}

func TestGenerateEasyScenario(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		gen := DefaultGenerator{Seed: seed, Logger: quiet}
		b := gen.Generate(120, 60*time.Second, game.Easy)
		require.NotEmpty(t, b.Notes)
		assert.GreaterOrEqual(t, b.Notes[0].Time, 2000*time.Millisecond)
		assert.LessOrEqual(t, b.Notes[len(b.Notes)-1].Time, 58000*time.Millisecond)
	}
}

func TestSurveyDensityOrdering(t *testing.T) {
	stats := Survey(120, 90*time.Second, 40, 4, 1000, quiet)
	require.Len(t, stats, 3)
	for _, s := range stats {
		t.Logf("%-6v notes %6.1f [%v-%v] holds %5.1f swipes %5.1f chords %5.1f",
			s.Difficulty, s.Notes, s.MinNotes, s.MaxNotes, s.Holds, s.Swipes, s.Chords)
	}
	easy, normal, hard := stats[0], stats[1], stats[2]
	assert.Equal(t, game.Easy, easy.Difficulty)
	assert.GreaterOrEqual(t, hard.Notes, normal.Notes)
	assert.GreaterOrEqual(t, normal.Notes, easy.Notes)
	assert.GreaterOrEqual(t, hard.Chords, easy.Chords)
}

func TestCountChords(t *testing.T) {
	notes := []game.Note{
		{Time: 1}, {Time: 2}, {Time: 2}, {Time: 2}, {Time: 3}, {Time: 4}, {Time: 4},
	}
	if c := countChords(notes); c != 2 {
		t.Log("expected 2 chords, got", c)
		t.Fail()
	}
}

func BenchmarkGenerate(b *testing.B) {
	gen := DefaultGenerator{Seed: 1, Logger: quiet}
	for n := 0; n < b.N; n++ {
		gen.Generate(140, 180*time.Second, game.Hard)
	}
}
