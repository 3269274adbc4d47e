package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/tapline/internal/chart"
	"git.lost.host/meutraa/tapline/internal/game"
	"git.lost.host/meutraa/tapline/internal/record"
	"github.com/stretchr/testify/assert"
)

func TestLength(t *testing.T) {
	lengths := map[time.Duration]string{
		0:                                     "unknown length",
		time.Minute:                           "1 minute",
		90 * time.Second:                      "1 minute 30 seconds",
		3*time.Minute + 4400*time.Millisecond: "3 minutes 4 seconds",
	}
	for d, expected := range lengths {
		if l := Length(d); l != expected {
			t.Log(d, "expected", expected, "got", l)
			t.Fail()
		}
	}
}

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "★★★★★", Stars(5))
}

func TestStats(t *testing.T) {
	var out bytes.Buffer
	song := &game.Song{Title: "Song", Artist: "Band", Tempo: 120, Duration: 90 * time.Second}
	Stats(&out, song, []chart.Stats{
		{Difficulty: game.Easy, Runs: 1200, Notes: 40.5, Holds: 3, Swipes: 5.25, Chords: 2, MinNotes: 38, MaxNotes: 43},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "Song - Band  (120 bpm, 1 minute 30 seconds)", lines[0])
	assert.Contains(t, lines[2], "easy")
	assert.Contains(t, lines[2], "40.5")
	assert.Contains(t, lines[2], "38-43")
	assert.Equal(t, "1,200 beatmaps per difficulty", lines[3])
}

func TestBests(t *testing.T) {
	var out bytes.Buffer
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entry := record.Entry{Result: game.Result{
		Difficulty: game.Hard,
		Score:      1234567,
		Accuracy:   97.5,
		Stars:      4,
		PlayedAt:   now.Add(-3 * time.Hour),
	}}
	Bests(&out, []Best{{Song: &game.Song{Title: "Song"}, Entry: entry}},
		record.Totals{Plays: 1500, Currency: 80, Stars: 4}, now)

	s := out.String()
	assert.Contains(t, s, "1,234,567")
	assert.Contains(t, s, "97.50%")
	assert.Contains(t, s, "★★★★☆")
	assert.Contains(t, s, "3 hours ago")
	assert.Contains(t, s, "1,500 plays, 4 stars, 80 coins")
}

func TestResult(t *testing.T) {
	var out bytes.Buffer
	Result(&out, game.Result{Score: 4200, Stars: 2, Failed: true, Tally: game.Tally{Miss: 7}}, 0)
	s := out.String()
	assert.True(t, strings.HasPrefix(s, "Failed ★★☆☆☆\n"))
	assert.Contains(t, s, "     Score:      4,200\n")
	assert.Contains(t, s, "      Miss:          7\n")
}
