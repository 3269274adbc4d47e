package chart

import (
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

const (
	DefaultTempo = 120.0
	MaxTempo     = 1000.0
	holdBeats    = 2.5
)

type DefaultGenerator struct {
	Seed   int64 // 0 draws a fresh seed for every beatmap
	Lanes  int   // 0 means game.Lanes
	Logger *slog.Logger
}

func (g *DefaultGenerator) logger() *slog.Logger {
	if nil != g.Logger {
		return g.Logger
	}
	return slog.Default()
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (g *DefaultGenerator) Generate(tempo float64, duration time.Duration, difficulty game.Difficulty) *game.Beatmap {
	log := g.logger()

	lanes := g.Lanes
	if lanes <= 0 {
		lanes = game.Lanes
	}
	seed := g.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	profile, err := difficulty.Profile()
	if nil != err {
		log.Warn("using normal profile", "err", err)
		difficulty = game.Normal
	}
	if profile.Density <= 0 {
		profile.Density = game.Profiles[game.Normal].Density
	}
	if tempo <= 0 || tempo > MaxTempo || math.IsNaN(tempo) {
		log.Warn("using default tempo", "err", game.ErrInvalidTempo, "tempo", tempo, "default", DefaultTempo)
		tempo = DefaultTempo
	}

	b := &game.Beatmap{
		Tempo:      tempo,
		Duration:   duration,
		Difficulty: difficulty,
		Seed:       seed,
		Lanes:      lanes,
		Notes:      []game.Note{},
	}
	if duration <= 0 {
		log.Warn("empty beatmap", "err", game.ErrInvalidDuration, "duration", duration)
		return b
	}

	rng := rand.New(rand.NewSource(seed))
	beat := 60000.0 / tempo
	holdLength := time.Duration(math.Round(beat*holdBeats)) * time.Millisecond
	limit := duration - game.TrailOut
	leadIn, end := ms(game.LeadIn), ms(limit)

	// A lane is free at t when t > busy[lane]
	busy := make([]time.Duration, lanes)
	for i := range busy {
		busy[i] = -1
	}

	var last []int
	prev := math.Inf(-1)
	for t := leadIn; t < end; t += beat / profile.Density {
		step := math.Round(t/beat) * beat
		if step < leadIn {
			step += beat
		}
		if step <= prev {
			step = prev + beat
		}
		at := time.Duration(math.Round(step)) * time.Millisecond
		if at > limit {
			break
		}
		t, prev = step, step

		free := make([]int, 0, lanes)
		for lane := 0; lane < lanes; lane++ {
			if at > busy[lane] {
				free = append(free, lane)
			}
		}

		count := roll(rng, profile, lanes)
		if count > len(free) {
			count = len(free)
		}
		selected := pick(rng, free, last, count)

		for i, lane := range selected {
			note := game.Note{Lane: uint8(lane), Time: at, Kind: game.Tap}
			// Only the first note of a chord may be something other than a tap
			if i == 0 {
				r := rng.Float64()
				if r < profile.Holds {
					if at+holdLength <= limit {
						note.Kind = game.Hold
						note.Hold = holdLength
						b.HoldCount++
					}
				} else if r < profile.Holds+profile.Swipes {
					note.Kind = game.Swipes[rng.Intn(len(game.Swipes))]
					b.SwipeCount++
				}
			}
			busy[lane] = note.End()
			b.Notes = append(b.Notes, note)
		}
		if len(selected) > 0 {
			last = selected
		}
	}

	sort.SliceStable(b.Notes, func(i, j int) bool {
		if b.Notes[i].Time == b.Notes[j].Time {
			return b.Notes[i].Lane < b.Notes[j].Lane
		}
		return b.Notes[i].Time < b.Notes[j].Time
	})
	for i := range b.Notes {
		b.Notes[i].ID = i + 1
	}

	log.Debug("generated beatmap",
		"difficulty", difficulty,
		"tempo", tempo,
		"seed", seed,
		"notes", len(b.Notes),
		"holds", b.HoldCount,
		"swipes", b.SwipeCount,
	)
	return b
}

// roll decides how many lanes the step uses
func roll(rng *rand.Rand, p game.Profile, lanes int) int {
	r := rng.Float64()
	switch {
	case r < p.Quads && lanes >= 4:
		return 4
	case r < p.Quads+p.Triples && lanes >= 3:
		return 3
	case r < p.Quads+p.Triples+p.Doubles && lanes >= 2:
		return 2
	}
	return 1
}

// pick chooses count lanes out of free, avoiding the lanes of the previous
// step while more than two candidates remain
func pick(rng *rand.Rand, free, last []int, count int) []int {
	available := append([]int(nil), free...)
	selected := make([]int, 0, count)
	for i := 0; i < count && len(available) > 0; i++ {
		pool := make([]int, 0, len(available))
		for _, l := range available {
			if len(available) <= 2 || !contains(last, l) {
				pool = append(pool, l)
			}
		}
		if len(pool) == 0 {
			pool = available
		}
		lane := pool[rng.Intn(len(pool))]
		selected = append(selected, lane)
		for j, l := range available {
			if l == lane {
				available = append(available[:j], available[j+1:]...)
				break
			}
		}
	}
	return selected
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
