package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

// Accuracy is the percentage of all beatmap notes that were hit
func Accuracy(t game.Tally, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(t.Hits()) * 100 / float64(total)
}

func Stars(accuracy float64) int {
	switch {
	case accuracy >= 98:
		return 5
	case accuracy >= 95:
		return 4
	case accuracy >= 90:
		return 3
	case accuracy >= 80:
		return 2
	case accuracy >= 60:
		return 1
	}
	return 0
}

// Summarize converts the terminal state of a play into a Result
func Summarize(p *game.Play, failed bool) game.Result {
	total := len(p.Notes)
	accuracy := Accuracy(p.Tally, total)
	r := game.Result{
		Score:    p.Score,
		Accuracy: accuracy,
		Stars:    Stars(accuracy),
		Tally:    p.Tally,
		MaxCombo: p.MaxCombo,
		Notes:    total,
		Failed:   failed,
	}
	if nil != p.Beatmap {
		r.Difficulty = p.Beatmap.Difficulty
		r.Seed = p.Beatmap.Seed
	}
	return r
}

// Timing is the mean and sample deviation of when resolved notes were hit
// relative to their time, late being positive. n is the number of hits;
// the deviation stays zero until there are two.
func Timing(p *game.Play) (mean, stdev time.Duration, n int) {
	sum := 0.0
	for i := range p.Notes {
		if p.Notes[i].State == game.Resolved {
			sum += float64(p.Notes[i].HitTime - p.Notes[i].Time)
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	m := sum / float64(n)
	if n > 1 {
		variance := 0.0
		for i := range p.Notes {
			if p.Notes[i].State == game.Resolved {
				xi := float64(p.Notes[i].HitTime-p.Notes[i].Time) - m
				variance += xi * xi
			}
		}
		stdev = time.Duration(math.Sqrt(variance / float64(n-1)))
	}
	return time.Duration(m), stdev, n
}
