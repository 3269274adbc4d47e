package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"git.lost.host/meutraa/tapline/internal/chart"
	"git.lost.host/meutraa/tapline/internal/config"
	"git.lost.host/meutraa/tapline/internal/game"
	"git.lost.host/meutraa/tapline/internal/parser"
	"git.lost.host/meutraa/tapline/internal/record"
	"git.lost.host/meutraa/tapline/internal/render"
	"git.lost.host/meutraa/tapline/internal/report"
	"git.lost.host/meutraa/tapline/internal/session"
	"git.lost.host/meutraa/tapline/internal/theme"
)

var errNoPlays = errors.New("no recorded plays")

func main() {
	c, err := config.Parse(os.Args[1:])
	if nil != err {
		log.Fatalln(err)
	}
	if err := run(c); nil != err {
		log.Fatalln(err)
	}
}

func openLog(c *config.Config) (*slog.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if nil != err {
			return nil, nil, fmt.Errorf("unable to open log file: %w", err)
		}
		out, closer = f, f
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: c.LogLevel})), closer, nil
}

func run(c *config.Config) error {
	logger, closer, err := openLog(c)
	if nil != err {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	// Ensure our Default implementations are used as interfaces
	dp := &parser.DefaultParser{Logger: logger}
	var psr parser.Parser = dp

	if c.Command == config.Stats {
		return stats(c, psr, logger)
	}

	store := &record.DefaultStore{Logger: logger}
	if err := store.Init(c.Database); nil != err {
		return err
	}
	defer store.Deinit()

	switch c.Command {
	case config.Best:
		return best(c, dp, store)
	case config.Replay:
		return replay(c, psr, store, logger)
	}

	p := &Program{
		Config:   c,
		Logger:   logger,
		Parser:   psr,
		Store:    store,
		Renderer: &render.DefaultRenderer{},
		Theme:    &theme.DefaultTheme{},
	}
	if err := p.Init(); nil != err {
		return err
	}
	defer p.Deinit()

	r, ok, err := p.Run()
	if nil != err {
		return err
	}
	if ok {
		report.Result(os.Stdout, r, record.Reward(r.Stars, r.Difficulty, r.Failed))
	}
	return nil
}

func stats(c *config.Config, psr parser.Parser, logger *slog.Logger) error {
	song, err := psr.Parse(c.Song)
	if nil != err {
		return err
	}
	// The survey generates thousands of beatmaps
	quiet := logger.With("song", song.ID)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	start := time.Now()
	s := chart.Survey(song.Tempo, song.Duration, c.Runs, c.Workers, c.Seed, quiet)
	report.Stats(os.Stdout, song, s)
	logger.Info("survey done", "runs", c.Runs, "took", time.Since(start))
	return nil
}

func best(c *config.Config, dp *parser.DefaultParser, store record.Store) error {
	songs, err := dp.Walk(c.Directory)
	if nil != err {
		return err
	}
	bests := []report.Best{}
	for _, song := range songs {
		for _, d := range game.Difficulties {
			e, ok, err := store.Best(song.ID, d)
			if nil != err {
				return err
			}
			if ok {
				bests = append(bests, report.Best{Song: song, Entry: e})
			}
		}
	}
	totals, err := store.Totals()
	if nil != err {
		return err
	}
	report.Bests(os.Stdout, bests, totals, time.Now())
	return nil
}

func replay(c *config.Config, psr parser.Parser, store record.Store, logger *slog.Logger) error {
	song, err := psr.Parse(c.Song)
	if nil != err {
		return err
	}
	entries, err := store.Load(song.ID, c.Difficulty)
	if nil != err {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w for %v at %v", errNoPlays, song.ID, c.Difficulty)
	}
	e := entries[len(entries)-1]
	if c.ReplayID != "" {
		found := false
		for _, candidate := range entries {
			if candidate.ID == c.ReplayID {
				e, found = candidate, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w with id %v", errNoPlays, c.ReplayID)
		}
	}

	policy, err := replayPolicy(e, c.Policy)
	if nil != err {
		return err
	}
	b := (&chart.DefaultGenerator{Seed: e.Seed, Logger: logger}).Generate(song.Tempo, song.Duration, e.Difficulty)
	r, err := session.Replay(*song, b, e.Inputs, session.Options{Logger: logger, Frame: c.Frame, Policy: policy})
	if nil != err {
		return err
	}
	if r.Score != e.Score {
		logger.Warn("replay diverged", "id", e.ID, "recorded", e.Score, "replayed", r.Score)
	}
	report.Result(os.Stdout, r, record.Reward(r.Stars, r.Difficulty, r.Failed))
	return nil
}

// replayPolicy is the fail policy a play was recorded with. Plays stored
// before policies were recorded fall back to the one given on the command line.
func replayPolicy(e record.Entry, fallback session.FailPolicy) (session.FailPolicy, error) {
	if e.Policy == "" {
		return fallback, nil
	}
	policy, err := session.PolicyFromString(e.Policy)
	if nil != err {
		return nil, fmt.Errorf("unable to replay %v: %w", e.ID, err)
	}
	return policy, nil
}
