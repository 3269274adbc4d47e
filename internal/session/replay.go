package session

import (
	"time"

	"git.lost.host/meutraa/tapline/internal/clock"
	"git.lost.host/meutraa/tapline/internal/game"
)

// Fixed always hands out the same beatmap
type Fixed struct {
	Beatmap *game.Beatmap
}

func (f Fixed) Generate(float64, time.Duration, game.Difficulty) *game.Beatmap {
	return f.Beatmap
}

// Replay plays recorded inputs back against a beatmap on a simulated clock
// and returns the result they produce. Nothing is recorded.
func Replay(song game.Song, b *game.Beatmap, inputs []game.Input, o Options) (game.Result, error) {
	epoch := time.Unix(0, 0)
	mock := clock.NewManualTime(epoch)

	o.Generator = Fixed{Beatmap: b}
	o.Clock = clock.New(mock)
	o.Recorder = nil
	o.MaxGap = -1
	if o.Frame <= 0 {
		o.Frame = DefaultFrame
	}
	song.Tempo = b.Tempo
	song.Duration = b.Duration

	s := New(song, b.Difficulty, o)
	if err := s.Start(); nil != err {
		return game.Result{}, err
	}

	at := time.Duration(0)
	for _, in := range inputs {
		for at+o.Frame < in.At && !s.State().Terminal() {
			at += o.Frame
			mock.Step(o.Frame)
			s.Tick()
		}
		if in.At > at {
			at = in.At
			mock.Set(epoch.Add(at))
		}
		s.InputAt(in, in.At)
	}
	for !s.State().Terminal() {
		mock.Step(o.Frame)
		s.Tick()
	}

	r, _ := s.Result()
	return r, nil
}
