package chart

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
	"github.com/remeh/sizedwaitgroup"
)

// Stats summarises many generated beatmaps of one difficulty
type Stats struct {
	Difficulty game.Difficulty
	Runs       int
	Notes      float64 // Mean notes per beatmap
	Holds      float64
	Swipes     float64
	Chords     float64 // Mean steps with more than one note
	MinNotes   int
	MaxNotes   int
}

// Survey generates runs beatmaps per difficulty with seeds seed+1..seed+runs
// and averages their contents. Difficulties are returned easiest first.
func Survey(tempo float64, duration time.Duration, runs, workers int, seed int64, logger *slog.Logger) []Stats {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if runs <= 0 {
		runs = 1
	}

	stats := make([]Stats, len(game.Difficulties))
	var mu sync.Mutex
	wg := sizedwaitgroup.New(workers)

	for di, difficulty := range game.Difficulties {
		stats[di] = Stats{Difficulty: difficulty, Runs: runs, MinNotes: -1}
		for r := 0; r < runs; r++ {
			wg.Add()
			go func(di int, difficulty game.Difficulty, r int) {
				defer wg.Done()
				gen := DefaultGenerator{Seed: seed + int64(r) + 1, Logger: logger}
				b := gen.Generate(tempo, duration, difficulty)
				chords := countChords(b.Notes)

				mu.Lock()
				defer mu.Unlock()
				s := &stats[di]
				n := len(b.Notes)
				s.Notes += float64(n)
				s.Holds += float64(b.HoldCount)
				s.Swipes += float64(b.SwipeCount)
				s.Chords += float64(chords)
				if s.MinNotes < 0 || n < s.MinNotes {
					s.MinNotes = n
				}
				if n > s.MaxNotes {
					s.MaxNotes = n
				}
			}(di, difficulty, r)
		}
	}
	wg.Wait()

	for i := range stats {
		s := &stats[i]
		s.Notes /= float64(runs)
		s.Holds /= float64(runs)
		s.Swipes /= float64(runs)
		s.Chords /= float64(runs)
	}
	return stats
}

func countChords(notes []game.Note) int {
	chords := 0
	for i := 1; i < len(notes); i++ {
		if notes[i].Time == notes[i-1].Time && (i == 1 || notes[i-2].Time != notes[i].Time) {
			chords++
		}
	}
	return chords
}
