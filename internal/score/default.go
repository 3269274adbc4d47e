package score

import (
	"sort"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

type DefaultScorer struct {
	Windows Windows // Zero value means DefaultWindows
}

func (s *DefaultScorer) windows() Windows {
	if s.Windows == (Windows{}) {
		return DefaultWindows
	}
	return s.Windows
}

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

func (s *DefaultScorer) Distance(n *game.Note, at time.Duration) time.Duration {
	return n.Time - at
}

func (s *DefaultScorer) Judge(d time.Duration) game.Tier {
	w := s.windows()
	switch {
	case d < w.Perfect:
		return game.Perfect
	case d < w.Great:
		return game.Great
	case d < w.Good:
		return game.Good
	}
	return game.Miss
}

// closest finds the pending note in lane nearest to at that the input kind may resolve
func (s *DefaultScorer) closest(p *game.Play, lane uint8, kind game.Kind, at time.Duration) (int, time.Duration, bool) {
	w := s.windows()
	start, end := p.Active(at-w.Miss, at+w.Miss)

	closest := -1
	absDistance := time.Duration(0)
	for i := start; i < end; i++ {
		note := &p.Notes[i]
		if note.Lane != lane || note.State != game.Pending || !note.Accepts(kind) {
			continue
		}
		d := abs(s.Distance(note, at))
		if d >= w.Miss {
			continue
		}
		if closest < 0 || d < absDistance {
			closest = i
			absDistance = d
		}
	}
	return closest, absDistance, closest >= 0
}

func (s *DefaultScorer) Evaluate(p *game.Play, in game.Input, at time.Duration) game.Judgement {
	if in.Phase == game.End {
		if j, ok := s.release(p, in.Lane, at); ok {
			return j
		}
		// A plain release only matters to holds
		if !in.Kind.IsSwipe() {
			return game.Judgement{Lane: in.Lane}
		}
	}

	index, distance, ok := s.closest(p, in.Lane, in.Kind, at)
	if !ok {
		return game.Judgement{Lane: in.Lane}
	}
	note := &p.Notes[index]

	tier := s.Judge(distance)
	if !tier.Hit() {
		s.miss(p, index)
		return game.Judgement{Tier: game.Miss, NoteID: note.ID, Lane: note.Lane}
	}

	if note.Kind == game.Hold {
		note.State = game.Engaged
		note.HitTime = at
		p.Engage(note.Lane, index)
		return game.Judgement{Tier: tier, NoteID: note.ID, Lane: note.Lane, Engaged: true}
	}

	note.HitTime = at
	return s.resolve(p, index, tier)
}

type due struct {
	index    int
	deadline time.Duration
}

func (s *DefaultScorer) Sweep(p *game.Play, at time.Duration, stop func(game.Judgement) bool) []game.Judgement {
	w := s.windows()

	var pending []due
	start, end := p.Live()
	for i := start; i < end; i++ {
		note := &p.Notes[i]
		// Neither a miss nor a hold completion can be due for a note in the future
		if note.Time > at {
			break
		}
		switch note.State {
		case game.Pending:
			if note.Time+w.Miss < at {
				pending = append(pending, due{i, note.Time + w.Miss})
			}
		case game.Engaged:
			if at >= note.End() {
				pending = append(pending, due{i, note.End()})
			}
		}
	}
	// Deadline order keeps the outcome independent of how often sweeps run
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].deadline < pending[j].deadline
	})

	judgements := make([]game.Judgement, 0, len(pending))
	for _, d := range pending {
		note := &p.Notes[d.index]
		var j game.Judgement
		if note.State == game.Engaged {
			p.Release(note.Lane)
			j = s.resolve(p, d.index, game.Perfect)
		} else {
			s.miss(p, d.index)
			j = game.Judgement{Tier: game.Miss, NoteID: note.ID, Lane: note.Lane}
		}
		judgements = append(judgements, j)
		if nil != stop && stop(j) {
			break
		}
	}
	return judgements
}

// release ends the hold engaged on lane, if any
func (s *DefaultScorer) release(p *game.Play, lane uint8, at time.Duration) (game.Judgement, bool) {
	index, ok := p.Hold(lane)
	if !ok {
		return game.Judgement{}, false
	}
	p.Release(lane)

	note := &p.Notes[index]
	if note.State != game.Engaged {
		return game.Judgement{Lane: lane}, true
	}
	if at < note.End() {
		s.miss(p, index)
		return game.Judgement{Tier: game.Miss, NoteID: note.ID, Lane: lane, EarlyRelease: true}, true
	}
	return s.resolve(p, index, game.Perfect), true
}

// resolve scores a hit, the combo multiplier applies before the combo grows
func (s *DefaultScorer) resolve(p *game.Play, index int, tier game.Tier) game.Judgement {
	note := &p.Notes[index]
	note.State = game.Resolved

	points := tier.Points() * max(1, p.Combo)
	p.Score += points
	p.Combo++
	if p.Combo > p.MaxCombo {
		p.MaxCombo = p.Combo
	}
	p.Tally.Add(tier)

	return game.Judgement{Tier: tier, NoteID: note.ID, Lane: note.Lane, Points: points}
}

func (s *DefaultScorer) miss(p *game.Play, index int) {
	note := &p.Notes[index]
	if note.State == game.Engaged {
		if engaged, ok := p.Hold(note.Lane); ok && engaged == index {
			p.Release(note.Lane)
		}
	}
	note.State = game.Missed
	p.Combo = 0
	p.Tally.Add(game.Miss)
}
