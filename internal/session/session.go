package session

import (
	"log/slog"
	"sync"
	"time"

	"git.lost.host/meutraa/tapline/internal/chart"
	"git.lost.host/meutraa/tapline/internal/clock"
	"git.lost.host/meutraa/tapline/internal/game"
	"git.lost.host/meutraa/tapline/internal/score"
	"github.com/google/uuid"
)

const (
	DefaultFrame  = 16 * time.Millisecond
	DefaultMaxGap = 250 * time.Millisecond
)

// Options are the collaborators of a Session. Zero fields get defaults.
type Options struct {
	Generator chart.Generator
	Scorer    score.Scorer
	Clock     clock.Clock
	Policy    FailPolicy
	Recorder  Recorder
	Logger    *slog.Logger

	Frame  time.Duration // Expected tick period
	MaxGap time.Duration // Larger jumps in elapsed time are treated as a suspension
	Buffer int           // Feedback channel capacity
}

// Session owns one attempt at a song. Every method is safe to call from the
// tick goroutine and input goroutines at once.
type Session struct {
	mu sync.Mutex

	song       game.Song
	difficulty game.Difficulty

	generator chart.Generator
	scorer    score.Scorer
	clock     clock.Clock
	policy    FailPolicy
	recorder  Recorder
	log       *slog.Logger
	frame     time.Duration
	maxGap    time.Duration

	state    State
	play     *game.Play
	inputs   []game.Input
	result   *game.Result
	feedback chan game.Feedback
}

func New(song game.Song, difficulty game.Difficulty, o Options) *Session {
	if nil == o.Logger {
		o.Logger = slog.Default()
	}
	if nil == o.Generator {
		o.Generator = &chart.DefaultGenerator{Logger: o.Logger}
	}
	if nil == o.Scorer {
		o.Scorer = &score.DefaultScorer{}
	}
	if nil == o.Clock {
		o.Clock = clock.New(nil)
	}
	if nil == o.Policy {
		o.Policy = NoFail{}
	}
	if o.Frame <= 0 {
		o.Frame = DefaultFrame
	}
	if o.MaxGap == 0 {
		o.MaxGap = DefaultMaxGap
	}
	if o.Buffer <= 0 {
		o.Buffer = 64
	}

	s := &Session{
		song:       song,
		difficulty: difficulty,
		generator:  o.Generator,
		scorer:     o.Scorer,
		clock:      o.Clock,
		policy:     o.Policy,
		recorder:   o.Recorder,
		log:        o.Logger.With("song", song.ID),
		frame:      o.Frame,
		maxGap:     o.MaxGap,
		feedback:   make(chan game.Feedback, o.Buffer),
	}
	s.reset()
	return s
}

// reset generates a fresh beatmap and returns to Ready
func (s *Session) reset() {
	b := s.generator.Generate(s.song.Tempo, s.song.Duration, s.difficulty)
	s.play = game.NewPlay(b)
	s.clock.Reset()
	s.state = Ready
	s.inputs = nil
	s.result = nil
	s.log.Debug("beatmap ready", "difficulty", b.Difficulty, "seed", b.Seed, "notes", len(b.Notes))
}

func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return game.ErrNotReady
	}
	s.clock.Start()
	s.state = Playing
	s.log.Info("session started", "difficulty", s.play.Beatmap.Difficulty, "notes", len(s.play.Notes))
	if len(s.play.Notes) == 0 {
		s.terminate(Finished)
	}
	return nil
}

// Pause freezes the clock. Pausing a paused session does nothing.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Paused:
		return nil
	case Playing:
		s.clock.Pause()
		s.state = Paused
		return nil
	}
	return game.ErrNotPlaying
}

// Resume continues a paused session. Resuming a running session does nothing.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Playing:
		return nil
	case Paused:
		s.clock.Resume()
		s.state = Playing
		return nil
	}
	return game.ErrNotPlaying
}

// Tick advances the session to the current clock reading
func (s *Session) Tick() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Playing {
		return s.state
	}
	s.advance(s.observe(s.clock.Elapsed()))
	return s.state
}

// Input judges an input at the current clock reading
func (s *Session) Input(in game.Input) game.Judgement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input(in, s.clock.Elapsed())
}

// InputAt judges an input that happened at elapsed time at. Times before
// the last observed instant are clamped to it.
func (s *Session) InputAt(in game.Input, at time.Duration) game.Judgement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input(in, at)
}

// InputStamped judges an input that happened at wall time t, as stamped by
// whatever read it. Delivery latency between t and now is not held against
// the player.
func (s *Session) InputStamped(in game.Input, t time.Time) game.Judgement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input(in, s.clock.ElapsedAt(t))
}

func (s *Session) input(in game.Input, at time.Duration) game.Judgement {
	if s.state != Playing {
		return game.Judgement{Lane: in.Lane}
	}
	// Bring the notes up to this instant before judging against them
	at = s.observe(at)
	s.advance(at)
	if s.state != Playing {
		return game.Judgement{Lane: in.Lane}
	}

	j := s.scorer.Evaluate(s.play, in, at)
	if j.Tier == game.None {
		return j
	}
	in.At = at
	s.inputs = append(s.inputs, in)
	s.emit(j, at)
	if j.Tier == game.Miss && s.policy.Failed(s.play.Tally) {
		s.terminate(Failed)
	}
	return j
}

// observe sanitises a clock reading against the last one
func (s *Session) observe(now time.Duration) time.Duration {
	last := s.play.Elapsed
	if now < last {
		s.log.Debug("clock went backwards", "last", last, "now", now, "err", game.ErrClockAnomaly)
		return last
	}
	if s.maxGap > 0 && now-last > s.maxGap {
		// Treat the jump as one frame and hide the rest from the clock
		s.clock.Discount(now - last - s.frame)
		s.log.Debug("clock jumped", "last", last, "now", now, "err", game.ErrClockAnomaly)
		return last + s.frame
	}
	return now
}

// advance sweeps the notes up to at and finishes the session when the song is over
func (s *Session) advance(at time.Duration) {
	s.play.Elapsed = at

	failed := false
	s.scorer.Sweep(s.play, at, func(j game.Judgement) bool {
		s.emit(j, at)
		failed = j.Tier == game.Miss && s.policy.Failed(s.play.Tally)
		return failed
	})

	switch {
	case failed:
		s.terminate(Failed)
	case at > s.play.Beatmap.Duration:
		s.terminate(Finished)
	}
}

func (s *Session) emit(j game.Judgement, at time.Duration) {
	f := game.Feedback{
		Lane:    j.Lane,
		Tier:    j.Tier,
		Engaged: j.Engaged,
		Combo:   s.play.Combo,
		Score:   s.play.Score,
		At:      at,
	}
	select {
	case s.feedback <- f:
	default:
	}
}

func (s *Session) terminate(state State) {
	s.clock.Pause()
	s.state = state

	r := score.Summarize(s.play, state == Failed)
	r.ID = uuid.NewString()
	r.Song = s.song.ID
	r.Policy = s.policy.String()
	r.Inputs = make([]game.Input, len(s.inputs))
	copy(r.Inputs, s.inputs)
	r.PlayedAt = time.Now()
	s.result = &r

	s.log.Info("session "+state.String(), "score", r.Score, "accuracy", r.Accuracy, "stars", r.Stars)
	if nil == s.recorder {
		return
	}
	if err := s.recorder.Record(r); nil != err {
		s.log.Error("unable to record result", "err", err)
	}
}

// Retry regenerates the beatmap and returns the session to Ready
func (s *Session) Retry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Quit abandons the attempt without producing a result
func (s *Session) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.clock.Pause()
	s.state = Discarded
	s.log.Info("session discarded")
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := s.play.Elapsed
	if s.state == Playing {
		elapsed = max(elapsed, s.clock.Elapsed())
	}
	return Snapshot{State: s.state, Elapsed: elapsed, Play: s.play.Clone()}
}

// Holding reports whether lane is holding a note down
func (s *Session) Holding(lane uint8) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.play.Hold(lane)
	return ok
}

// Result returns the summary of a finished or failed session
func (s *Session) Result() (game.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nil == s.result {
		return game.Result{}, false
	}
	return *s.result, true
}

// Feedback delivers judgements as they happen. Events are dropped when the
// reader falls behind.
func (s *Session) Feedback() <-chan game.Feedback {
	return s.feedback
}

func (s *Session) Song() game.Song {
	return s.song
}

func (s *Session) Beatmap() *game.Beatmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.play.Beatmap
}
