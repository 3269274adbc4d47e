package audio

import (
	"fmt"
	"sync"
	"time"

	"git.lost.host/meutraa/tapline/internal/parser"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

type Player interface {
	Pause()
	Resume()
	Position() time.Duration
	Seek(d time.Duration) error
	Close() error
}

// DefaultPlayer streams one song through the speaker
type DefaultPlayer struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
}

// Open decodes file and initialises the speaker for its sample rate
func Open(file string) (*DefaultPlayer, error) {
	streamer, format, err := parser.Decode(file)
	if nil != err {
		return nil, fmt.Errorf("unable to open audio: %w", err)
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/60)); nil != err {
		streamer.Close()
		return nil, fmt.Errorf("unable to initialise speaker: %w", err)
	}
	p := New(streamer, format)
	speaker.Play(p.Streamer())
	return p, nil
}

// New wraps a decoded stream. The stream starts paused and is never drained:
// the song is followed by silence, so the mixer holds on to it for the life
// of the player.
func New(streamer beep.StreamSeekCloser, format beep.Format) *DefaultPlayer {
	p := &DefaultPlayer{
		streamer: streamer,
		format:   format,
	}
	p.ctrl = &beep.Ctrl{Streamer: p.sequence(), Paused: true}
	return p
}

func (p *DefaultPlayer) sequence() beep.Streamer {
	return beep.Seq(p.streamer, beep.Silence(-1))
}

// Streamer is what the speaker plays
func (p *DefaultPlayer) Streamer() beep.Streamer {
	return p.ctrl
}

func (p *DefaultPlayer) Pause() {
	p.setPaused(true)
}

func (p *DefaultPlayer) Resume() {
	p.setPaused(false)
}

func (p *DefaultPlayer) setPaused(paused bool) {
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

func (p *DefaultPlayer) Paused() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return p.ctrl.Paused
}

func (p *DefaultPlayer) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

// Seek moves playback to d from the start of the song
func (p *DefaultPlayer) Seek(d time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	if d < 0 {
		d = 0
	}
	if err := p.streamer.Seek(p.format.SampleRate.N(d)); nil != err {
		return fmt.Errorf("unable to seek to %v: %w", d, err)
	}
	// A sequence that already moved on to the trailing silence never returns
	p.ctrl.Streamer = p.sequence()
	return nil
}

func (p *DefaultPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	speaker.Clear()
	return p.streamer.Close()
}
