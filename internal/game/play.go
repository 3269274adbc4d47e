package game

import (
	"time"
)

// Play is the mutable state of one attempt at a beatmap
type Play struct {
	Beatmap *Beatmap
	Notes   []Note // Live copy of the beatmap notes

	Elapsed  time.Duration
	Score    int
	Combo    int
	MaxCombo int
	Tally    Tally

	holds map[uint8]int // lane -> index of the engaged hold
	first int           // every note before this index is terminal
}

func NewPlay(b *Beatmap) *Play {
	notes := make([]Note, len(b.Notes))
	copy(notes, b.Notes)
	for i := range notes {
		notes[i].State = Pending
		notes[i].HitTime = 0
	}
	return &Play{
		Beatmap: b,
		Notes:   notes,
		holds:   map[uint8]int{},
	}
}

// Active returns the index range [start, end) of notes timed within [from, to]
func (p *Play) Active(from, to time.Duration) (int, int) {
	return window(p.Notes, from, to)
}

// Live returns the index range still worth sweeping; it starts at the first
// note that is not terminal
func (p *Play) Live() (int, int) {
	for p.first < len(p.Notes) && p.Notes[p.first].State.Terminal() {
		p.first++
	}
	return p.first, len(p.Notes)
}

// Hold returns the index of the hold engaged on lane
func (p *Play) Hold(lane uint8) (int, bool) {
	i, ok := p.holds[lane]
	return i, ok
}

func (p *Play) Engage(lane uint8, index int) {
	p.holds[lane] = index
}

func (p *Play) Release(lane uint8) {
	delete(p.holds, lane)
}

// Holds returns the number of engaged holds
func (p *Play) Holds() int {
	return len(p.holds)
}

// Clone copies the play for readers outside the session lock
func (p *Play) Clone() *Play {
	c := *p
	c.Notes = make([]Note, len(p.Notes))
	copy(c.Notes, p.Notes)
	c.holds = make(map[uint8]int, len(p.holds))
	for k, v := range p.holds {
		c.holds[k] = v
	}
	return &c
}
