package game

import (
	"sort"
	"time"
)

const (
	Lanes    = 4
	LeadIn   = 3000 * time.Millisecond
	TrailOut = 3000 * time.Millisecond
)

// Beatmap is the generated note sequence for one song and difficulty.
// Notes are ordered by time, then lane, and never change after generation.
type Beatmap struct {
	Tempo      float64 // BPM the beat grid was derived from
	Duration   time.Duration
	Difficulty Difficulty
	Seed       int64
	Lanes      int
	Notes      []Note

	HoldCount  int64
	SwipeCount int64
}

// Beat is the grid spacing
func (b *Beatmap) Beat() time.Duration {
	if b.Tempo <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / b.Tempo)
}

// Measures returns the beat lines between from and to, every fourth one
// marked as a bar
func (b *Beatmap) Measures(from, to time.Duration) []Measure {
	beat := b.Beat()
	if beat <= 0 || to < from {
		return nil
	}
	if from < 0 {
		from = 0
	}
	measures := []Measure{}
	for i := int64(from / beat); ; i++ {
		t := time.Duration(i) * beat
		if t > to {
			break
		}
		if t < from {
			continue
		}
		denom := 4
		if i%4 == 0 {
			denom = 1
		}
		measures = append(measures, Measure{Denom: denom, Time: t})
	}
	return measures
}

// window returns the index range [start, end) of notes whose time lies in [from, to]
func window(notes []Note, from, to time.Duration) (int, int) {
	start := sort.Search(len(notes), func(i int) bool { return notes[i].Time >= from })
	end := sort.Search(len(notes), func(i int) bool { return notes[i].Time > to })
	if end < start {
		end = start
	}
	return start, end
}
