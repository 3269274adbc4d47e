package session

import (
	"testing"
	"time"

	"git.lost.host/meutraa/tapline/internal/clock"
	"git.lost.host/meutraa/tapline/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(b *game.Beatmap) *Runner {
	song := game.Song{ID: "runner", Tempo: b.Tempo, Duration: b.Duration}
	s := New(song, b.Difficulty, Options{
		Generator: Fixed{Beatmap: b},
		Clock:     clock.New(nil),
		Logger:    quiet,
	})
	return NewRunner(s, 2*time.Millisecond)
}

func short() *game.Beatmap {
	return &game.Beatmap{
		Tempo:      120,
		Duration:   ms(300),
		Difficulty: game.Easy,
		Lanes:      game.Lanes,
		Notes:      []game.Note{{ID: 1, Lane: 0, Time: ms(50)}},
	}
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerPlaysToTheEnd(t *testing.T) {
	r := newRunner(short())
	done := r.Done()
	require.NoError(t, r.Start())
	wait(t, done)

	assert.Equal(t, Finished, r.State())
	res, ok := r.Result()
	require.True(t, ok)
	assert.Equal(t, 1, res.Tally.Miss)
}

func TestRunnerEmptyBeatmap(t *testing.T) {
	r := newRunner(&game.Beatmap{Tempo: 120, Duration: ms(300)})
	require.NoError(t, r.Start())
	wait(t, r.Done())
	assert.Equal(t, Finished, r.State())
}

func TestRunnerPauseHoldsTime(t *testing.T) {
	r := newRunner(short())
	require.NoError(t, r.Start())
	require.NoError(t, r.Pause())
	before := r.Snapshot().Elapsed

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, Paused, r.State())
	assert.Equal(t, before, r.Snapshot().Elapsed)

	require.NoError(t, r.Resume())
	wait(t, r.Done())
	assert.Equal(t, Finished, r.State())
}

func TestRunnerQuitAndRetry(t *testing.T) {
	r := newRunner(short())
	require.NoError(t, r.Start())
	done := r.Done()
	r.Quit()
	wait(t, done)
	assert.Equal(t, Discarded, r.State())

	r.Retry()
	assert.Equal(t, Ready, r.State())
	require.NoError(t, r.Start())
	wait(t, r.Done())
	assert.Equal(t, Finished, r.State())
}
