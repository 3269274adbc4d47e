package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

var ErrNoTempo = errors.New("song has no tempo")

type DefaultParser struct {
	Logger *slog.Logger
}

func (p *DefaultParser) log() *slog.Logger {
	if nil == p.Logger {
		return slog.Default()
	}
	return p.Logger
}

// Parse reads a .sm chart or a .json descriptor. When the descriptor has no
// duration it is measured from the audio file.
func (p *DefaultParser) Parse(file string) (*game.Song, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}

	var song *game.Song
	switch strings.ToLower(filepath.Ext(file)) {
	case ".sm":
		song, err = p.parseSM(string(data))
	case ".json":
		song, err = p.parseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported song file %v", file)
	}
	if nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", file, err)
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if song.ID == "" {
		song.ID = base
	}
	if song.Title == "" {
		song.Title = song.ID
	}
	if song.Audio == "" {
		song.Audio = findAudio(filepath.Dir(file), base)
	} else if !filepath.IsAbs(song.Audio) {
		song.Audio = filepath.Join(filepath.Dir(file), song.Audio)
	}
	if len(song.Difficulties) == 0 {
		song.Difficulties = append(song.Difficulties, game.Difficulties...)
	}

	if song.Duration <= 0 && song.Audio != "" {
		d, err := Probe(song.Audio)
		if nil != err {
			return nil, fmt.Errorf("unable to measure %v: %w", song.Audio, err)
		}
		song.Duration = d
	}
	if song.Duration <= 0 {
		return nil, fmt.Errorf("%v: %w", file, game.ErrInvalidDuration)
	}
	return song, nil
}

func findAudio(dir, base string) string {
	for _, ext := range []string{".mp3", ".wav"} {
		candidate := filepath.Join(dir, base+ext)
		if _, err := os.Stat(candidate); nil == err {
			return candidate
		}
	}
	return ""
}

// Names used by .sm charts for each difficulty
var smDifficulties = map[string]game.Difficulty{
	"beginner":  game.Easy,
	"easy":      game.Easy,
	"medium":    game.Normal,
	"hard":      game.Hard,
	"challenge": game.Hard,
	"expert":    game.Hard,
}

func (p *DefaultParser) parseSM(data string) (*game.Song, error) {
	str := strings.ReplaceAll(data, "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]

	song := &game.Song{}
	seen := map[game.Difficulty]bool{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 4 {
			continue
		}
		name := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"))
		if d, ok := smDifficulties[name]; ok && !seen[d] {
			seen[d] = true
			song.Difficulties = append(song.Difficulties, d)
		}
	}
	sort.Slice(song.Difficulties, func(i, j int) bool {
		return rank(song.Difficulties[i]) < rank(song.Difficulties[j])
	})

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		key, value, ok := strings.Cut(mdl, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), ";"))
		switch strings.ToUpper(key) {
		case "TITLE":
			song.Title = value
		case "MUSIC":
			song.Audio = value
		case "OFFSET":
			offs, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return nil, fmt.Errorf("bad offset: %w", err)
			}
			song.Offset = -seconds(offs)
		case "BPMS":
			tempo, changes, err := firstTempo(value)
			if nil != err {
				return nil, err
			}
			if changes > 1 {
				p.log().Warn("only the first tempo is used", "changes", changes)
			}
			song.Tempo = tempo
		}
	}

	if song.Tempo <= 0 {
		return nil, ErrNoTempo
	}
	return song, nil
}

// firstTempo returns the tempo at beat zero of a BPMS value and the number of tempo changes
func firstTempo(value string) (float64, int, error) {
	value = strings.ReplaceAll(value, "\n", "")
	bbs := strings.Split(value, ",")
	tempo := 0.0
	for i, bpm := range bbs {
		as := strings.Split(bpm, "=")
		if len(as) != 2 {
			return 0, 0, fmt.Errorf("bad tempo %q", bpm)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return 0, 0, fmt.Errorf("bad tempo %q: %w", bpm, err)
		}
		if i == 0 {
			tempo = v
		}
	}
	return tempo, len(bbs), nil
}

type descriptor struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Artist       string         `json:"artist"`
	BPM          float64        `json:"bpm"`
	Duration     float64        `json:"duration"` // Seconds
	Offset       float64        `json:"offset"`   // Seconds
	Audio        string         `json:"audio"`
	Difficulties []string       `json:"difficulties"`
	Levels       map[string]int `json:"difficulty"`
}

func (p *DefaultParser) parseJSON(data []byte) (*game.Song, error) {
	var d descriptor
	if err := json.Unmarshal(data, &d); nil != err {
		return nil, err
	}
	if d.BPM <= 0 {
		return nil, ErrNoTempo
	}

	song := &game.Song{
		ID:       d.ID,
		Title:    d.Title,
		Artist:   d.Artist,
		Tempo:    d.BPM,
		Duration: seconds(d.Duration),
		Offset:   seconds(d.Offset),
		Audio:    d.Audio,
	}

	names := d.Difficulties
	for name := range d.Levels {
		names = append(names, name)
	}
	seen := map[game.Difficulty]bool{}
	for _, name := range names {
		difficulty, err := game.ParseDifficulty(name)
		if nil != err {
			p.log().Debug("skipping difficulty", "name", name, "err", err)
			continue
		}
		if !seen[difficulty] {
			seen[difficulty] = true
			song.Difficulties = append(song.Difficulties, difficulty)
		}
	}
	sort.Slice(song.Difficulties, func(i, j int) bool {
		return rank(song.Difficulties[i]) < rank(song.Difficulties[j])
	})
	return song, nil
}

func rank(d game.Difficulty) int {
	for i, difficulty := range game.Difficulties {
		if d == difficulty {
			return i
		}
	}
	return len(game.Difficulties)
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Walk parses every song below dir. Files that fail to parse are logged and skipped.
func (p *DefaultParser) Walk(dir string) ([]*game.Song, error) {
	songs := []*game.Song{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(info.Name())) {
		case ".sm", ".json":
		default:
			return nil
		}
		song, err := p.Parse(path)
		if nil != err {
			p.log().Warn("skipping song", "path", path, "err", err)
			return nil
		}
		songs = append(songs, song)
		return nil
	})
	if nil != err {
		return nil, fmt.Errorf("unable to walk song directory: %w", err)
	}
	sort.Slice(songs, func(i, j int) bool {
		return songs[i].ID < songs[j].ID
	})
	return songs, nil
}
