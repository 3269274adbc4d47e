package main

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"git.lost.host/meutraa/tapline/internal/audio"
	"git.lost.host/meutraa/tapline/internal/chart"
	"git.lost.host/meutraa/tapline/internal/config"
	"git.lost.host/meutraa/tapline/internal/game"
	"git.lost.host/meutraa/tapline/internal/input"
	"git.lost.host/meutraa/tapline/internal/parser"
	"git.lost.host/meutraa/tapline/internal/record"
	"git.lost.host/meutraa/tapline/internal/render"
	"git.lost.host/meutraa/tapline/internal/session"
	"git.lost.host/meutraa/tapline/internal/theme"
	"github.com/eiannone/keyboard"
)

const feedbackFrames = 40

// Program plays one song in the terminal
type Program struct {
	Config *config.Config
	Logger *slog.Logger

	Parser   parser.Parser
	Store    record.Store
	Renderer render.Renderer
	Theme    theme.Theme

	song   *game.Song
	keymap *input.Keymap
	repeat *input.Repeat
	runner *session.Runner
	field  *render.Playfield
	player audio.Player

	mu       sync.Mutex
	timers   []*time.Timer // Pending starts of the current attempt
	lastLane uint8         // For arrow keys read from a device
	quit     atomic.Bool
}

func (p *Program) Init() error {
	c := p.Config
	song, err := p.Parser.Parse(c.Song)
	if nil != err {
		return err
	}
	p.song = song
	if !offers(song, c.Difficulty) {
		p.Logger.Warn("song does not list difficulty, generating anyway", "difficulty", c.Difficulty)
	}

	if p.keymap, err = input.ParseKeys(c.Keys, game.Lanes); nil != err {
		return err
	}
	p.repeat = &input.Repeat{Window: c.RepeatWindow}

	s := session.New(*song, c.Difficulty, session.Options{
		Generator: &chart.DefaultGenerator{Seed: c.Seed, Logger: p.Logger},
		Policy:    c.Policy,
		Recorder:  p.Store,
		Logger:    p.Logger,
		Frame:     c.Frame,
		MaxGap:    c.MaxGap,
	})
	p.runner = session.NewRunner(s, c.Tick)

	columns, rows, err := p.Renderer.Size()
	if nil != err {
		return err
	}
	p.field = &render.Playfield{
		Renderer: p.Renderer,
		Theme:    p.Theme,
		Columns:  columns,
		Rows:     rows,
		BarRow:   c.BarRow,
		Spacing:  c.Spacing,
		Scroll:   c.Scroll,
		Lanes:    game.Lanes,
	}

	if song.Audio != "" {
		player, err := audio.Open(song.Audio)
		if nil != err {
			p.Logger.Warn("playing without audio", "err", err)
		} else {
			p.player = player
		}
	}
	return nil
}

func offers(song *game.Song, d game.Difficulty) bool {
	for _, o := range song.Difficulties {
		if o == d {
			return true
		}
	}
	return false
}

func (p *Program) Deinit() {
	if nil != p.player {
		if err := p.player.Close(); nil != err {
			p.Logger.Warn("unable to close audio", "err", err)
		}
	}
}

// start begins the attempt after the configured delay, lining the first
// beat of the audio up with the start of the session clock. Starts still
// pending from an earlier attempt are cancelled.
func (p *Program) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.timers {
		t.Stop()
	}
	p.timers = p.timers[:0]

	offset := p.song.Offset
	if nil != p.player {
		if err := p.player.Seek(max(offset, 0)); nil != err {
			p.Logger.Warn("unable to seek audio", "err", err)
		}
		p.timers = append(p.timers, time.AfterFunc(p.Config.Delay, p.player.Resume))
	}
	p.timers = append(p.timers, time.AfterFunc(p.Config.Delay+max(-offset, 0), func() {
		if err := p.runner.Start(); nil != err {
			p.Logger.Error("unable to start session", "err", err)
		}
	}))
}

// drift logs how far the audio has wandered from the session clock
func (p *Program) drift() {
	if nil == p.player {
		return
	}
	offset := p.song.Offset
	want := p.runner.Snapshot().Elapsed + max(offset, 0) + max(-offset, 0)
	position := p.player.Position()
	p.Logger.Debug("audio drift", "position", position, "drift", position-want)
}

func (p *Program) pause() {
	switch p.runner.State() {
	case session.Playing:
		if err := p.runner.Pause(); nil != err {
			p.Logger.Warn("unable to pause", "err", err)
			return
		}
		if nil != p.player {
			p.player.Pause()
			p.drift()
		}
	case session.Paused:
		if nil != p.player {
			p.player.Resume()
		}
		if err := p.runner.Resume(); nil != err {
			p.Logger.Warn("unable to resume", "err", err)
		}
	}
}

func (p *Program) retry() {
	if nil != p.player {
		p.player.Pause()
	}
	p.runner.Retry()
	p.start()
}

// apply judges in as of wall time at
func (p *Program) apply(in game.Input, at time.Time) {
	j := p.runner.InputStamped(in, at)
	if j.Tier != game.None {
		p.Logger.Debug("judged", "lane", j.Lane, "tier", j.Tier, "note", j.NoteID)
	}
}

func (p *Program) key(ev keyboard.KeyEvent, now time.Time) {
	if nil != ev.Err {
		p.Logger.Warn("keyboard error", "err", ev.Err)
		return
	}
	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		p.runner.Quit()
		p.quit.Store(true)
		return
	case keyboard.KeyCtrlR:
		p.retry()
		return
	case keyboard.KeyArrowUp, keyboard.KeyArrowDown, keyboard.KeyArrowLeft, keyboard.KeyArrowRight:
		if p.fromDevice() {
			return
		}
		if in, ok := p.repeat.Swipe(arrows[ev.Key]); ok {
			p.apply(in, now)
		}
		return
	}

	r := ev.Rune
	if ev.Key == keyboard.KeySpace {
		r = ' '
	}
	lane, ok := p.keymap.Lane(r)
	if !ok {
		if r == ' ' {
			p.pause()
		}
		return
	}
	if p.fromDevice() {
		return
	}
	if in, ok := p.repeat.Press(lane, now, p.runner.Holding(lane)); ok {
		p.apply(in, now)
	}
}

var arrows = map[keyboard.Key]game.Kind{
	keyboard.KeyArrowUp:    game.SwipeUp,
	keyboard.KeyArrowDown:  game.SwipeDown,
	keyboard.KeyArrowLeft:  game.SwipeLeft,
	keyboard.KeyArrowRight: game.SwipeRight,
}

// fromDevice is true when lanes are read from an evdev device, the terminal
// then only controls the program
func (p *Program) fromDevice() bool {
	return p.Config.Device != ""
}

func (p *Program) device(ev *input.Event) {
	if kind, ok := input.Swipe(ev.Code); ok {
		if ev.Pressed {
			p.mu.Lock()
			lane := p.lastLane
			p.mu.Unlock()
			p.apply(game.Input{Lane: lane, Phase: game.End, Kind: kind}, ev.Time)
		}
		return
	}
	lane, ok := p.keymap.CodeLane(ev.Code)
	if !ok {
		return
	}
	phase := game.End
	if ev.Pressed {
		phase = game.Start
		p.mu.Lock()
		p.lastLane = lane
		p.mu.Unlock()
	}
	p.apply(game.Input{Lane: lane, Phase: phase, Kind: game.Tap}, ev.Time)
}

// listen judges input as soon as it arrives instead of once per frame.
// Terminal keys are stamped when read, device keys carry the kernel stamp.
func (p *Program) listen(keys <-chan keyboard.KeyEvent, events <-chan *input.Event, deviceDone <-chan error, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			p.key(ev, time.Now())
		case ev := <-events:
			p.device(ev)
		case err := <-deviceDone:
			deviceDone = nil
			if nil != err {
				p.Logger.Error("input device stopped", "err", err)
			}
		}
	}
}

// Run plays until the session ends or the player quits. The result is
// returned when the session finished or failed.
func (p *Program) Run() (game.Result, bool, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return game.Result{}, false, fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			p.Logger.Warn("unable to close keyboard", "err", err)
		}
	}()

	var events chan *input.Event
	var deviceDone <-chan error
	if p.fromDevice() {
		events = make(chan *input.Event, 128)
		if deviceDone, err = input.OpenDevice(p.Config.Device, events); nil != err {
			return game.Result{}, false, err
		}
	}

	if err := p.Renderer.Init(); nil != err {
		return game.Result{}, false, err
	}
	defer func() {
		if err := p.Renderer.Deinit(); nil != err {
			p.Logger.Warn("unable to restore terminal", "err", err)
		}
	}()

	stop := make(chan struct{})
	defer close(stop)
	go p.listen(keys, events, deviceDone, stop)

	p.start()

	p.Renderer.RenderLoop(p.Config.FramePeriod, func(now time.Time) bool {
		if p.quit.Load() {
			return false
		}
		if !p.fromDevice() {
			for _, in := range p.repeat.Expire(now, p.runner.Holding) {
				p.apply(in, now)
			}
		}

		for drained := false; !drained; {
			select {
			case fb := <-p.runner.Feedback():
				p.field.Feedback(fb, feedbackFrames)
			default:
				drained = true
			}
		}

		snap := p.runner.Snapshot()
		p.field.Draw(snap)
		return !snap.State.Terminal()
	})

	p.drift()
	if nil != p.player {
		p.player.Pause()
	}
	r, ok := p.runner.Result()
	return r, ok, nil
}
