package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
	"git.lost.host/meutraa/tapline/internal/input"
	"git.lost.host/meutraa/tapline/internal/session"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

const (
	Play   = "play"
	Stats  = "stats"
	Best   = "best"
	Replay = "replay"
)

type Config struct {
	Command string

	Song       string // Path to a .sm or .json song
	Directory  string // Song directory, for best
	Difficulty game.Difficulty
	Seed       int64 // Zero picks a seed from the clock
	ReplayID   string

	Keys   string
	Device string // evdev device for real key releases

	Delay        time.Duration
	Frame        time.Duration // Session frame, the step used when the clock jumps
	Tick         time.Duration
	FramePeriod  time.Duration // Render period
	MaxGap       time.Duration
	Scroll       time.Duration // Song time per terminal row
	Spacing      int
	BarRow       int
	RepeatWindow time.Duration // A held terminal key is released after this long without repeats

	Policy session.FailPolicy

	Database string
	LogFile  string
	LogLevel slog.Level

	Runs    int
	Workers int
}

func levels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Parse reads the command line. Errors are returned rather than exiting so
// callers decide how to report them.
func Parse(args []string) (*Config, error) {
	c := &Config{}
	app := kingpin.New("tapline", "Procedural rhythm game for the terminal")
	app.Version(Version)

	var difficulty, policy, level string
	var minJudged int
	var ratio float64

	app.Flag("db", "Play history database").Default("tapline.db").StringVar(&c.Database)
	app.Flag("log", "Log file, empty for stderr").Default("tapline.log").StringVar(&c.LogFile)
	app.Flag("log-level", "Log level").Default("info").EnumVar(&level, levels()...)

	play := app.Command(Play, "Play a song").Default()
	play.Arg("song", "Song file (.sm or .json)").Required().ExistingFileVar(&c.Song)
	play.Flag("difficulty", "easy, normal or hard").Default("normal").Short('D').StringVar(&difficulty)
	play.Flag("seed", "Beatmap seed, 0 for a random one").Default("0").Int64Var(&c.Seed)
	play.Flag("keys", "One key per lane").Default(input.DefaultKeys).Short('k').StringVar(&c.Keys)
	play.Flag("device", "evdev keyboard device, gives real key releases").Short('i').StringVar(&c.Device)
	play.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&c.Delay)
	play.Flag("frame", "Session frame").Default(session.DefaultFrame.String()).DurationVar(&c.Frame)
	play.Flag("tick", "Tick interval").Default("4ms").DurationVar(&c.Tick)
	play.Flag("frame-period", "Render frame period").Default("8ms").Short('p').DurationVar(&c.FramePeriod)
	play.Flag("max-gap", "Clock jumps larger than this count as one frame, negative disables").Default(session.DefaultMaxGap.String()).DurationVar(&c.MaxGap)
	play.Flag("scroll", "Song time per row, lower is slower").Default("40ms").Short('s').DurationVar(&c.Scroll)
	play.Flag("spacing", "Columns between lanes").Default("6").Short('S').IntVar(&c.Spacing)
	play.Flag("bar-row", "Rows between the hit bar and the bottom").Default("8").IntVar(&c.BarRow)
	play.Flag("repeat-window", "Quiet time after which a held terminal key counts as released").Default(input.DefaultRepeatWindow.String()).DurationVar(&c.RepeatWindow)
	play.Flag("fail", "Fail policy: none, instant or threshold").Default("threshold").EnumVar(&policy, "none", "nofail", "instant", "threshold")
	play.Flag("fail-ratio", "Hit ratio below which threshold fails").Default(fmt.Sprint(session.DefaultFailRatio)).Float64Var(&ratio)
	play.Flag("fail-after", "Judged notes before threshold may fail").Default("10").IntVar(&minJudged)

	stats := app.Command(Stats, "Survey generated beatmaps of a song")
	stats.Arg("song", "Song file (.sm or .json)").Required().ExistingFileVar(&c.Song)
	stats.Flag("runs", "Beatmaps per difficulty").Default("32").Short('n').IntVar(&c.Runs)
	stats.Flag("workers", "Parallel generators, 0 for one per cpu").Default("0").Short('w').IntVar(&c.Workers)
	stats.Flag("seed", "First seed").Default("0").Int64Var(&c.Seed)

	best := app.Command(Best, "Show best plays and totals")
	best.Arg("directory", "Song directory").Default(".").ExistingDirVar(&c.Directory)

	replay := app.Command(Replay, "Replay a recorded play")
	replay.Arg("song", "Song file (.sm or .json)").Required().ExistingFileVar(&c.Song)
	replay.Arg("id", "Play id, empty for the latest").StringVar(&c.ReplayID)
	replay.Flag("difficulty", "easy, normal or hard").Default("normal").Short('D').StringVar(&difficulty)
	replay.Flag("frame", "Session frame").Default(session.DefaultFrame.String()).DurationVar(&c.Frame)
	replay.Flag("fail", "Fail policy for plays recorded without one").Default("threshold").EnumVar(&policy, "none", "nofail", "instant", "threshold")
	replay.Flag("fail-ratio", "Hit ratio below which threshold fails").Default(fmt.Sprint(session.DefaultFailRatio)).Float64Var(&ratio)
	replay.Flag("fail-after", "Judged notes before threshold may fail").Default("10").IntVar(&minJudged)

	command, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Command = command

	if c.LogLevel, err = parseLevel(level); nil != err {
		return nil, err
	}

	switch command {
	case Play, Replay:
		if c.Difficulty, err = game.ParseDifficulty(difficulty); nil != err {
			return nil, err
		}
		if c.Policy, err = session.ParsePolicy(policy, minJudged, ratio); nil != err {
			return nil, err
		}
	}
	if command != Play {
		return c, nil
	}

	if _, err := input.ParseKeys(c.Keys, game.Lanes); nil != err {
		return nil, fmt.Errorf("invalid keys: %w", err)
	}
	if c.Scroll <= 0 {
		return nil, fmt.Errorf("scroll must be positive, got %v", c.Scroll)
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); nil != err {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}
