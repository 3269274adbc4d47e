package render

import (
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
	"git.lost.host/meutraa/tapline/internal/score"
	"git.lost.host/meutraa/tapline/internal/session"
	"git.lost.host/meutraa/tapline/internal/theme"
	"github.com/dustin/go-humanize"
)

// Playfield lays the lanes of a session out on a terminal
type Playfield struct {
	Renderer Renderer
	Theme    theme.Theme

	Columns, Rows int
	BarRow        int           // Rows between the hit bar and the bottom edge
	Spacing       int           // Columns between lanes
	Scroll        time.Duration // Song time covered by one row
	Lanes         int
}

func (f *Playfield) hitRow() int {
	return f.Rows - f.BarRow
}

// Column is the terminal column of a lane, lanes are centred
func (f *Playfield) Column(lane uint8) int {
	width := (f.Lanes - 1) * f.Spacing
	return f.Columns/2 - width/2 + int(lane)*f.Spacing
}

// Row is the terminal row of something at song time t, rows grow downwards
// towards the hit bar
func (f *Playfield) Row(t, elapsed time.Duration) int {
	return f.hitRow() - int(math.Round(float64(t-elapsed)/float64(f.Scroll)))
}

func (f *Playfield) inField(row int) bool {
	return row > 0 && row <= f.Rows
}

func (f *Playfield) fill(row, col int, s string) {
	if f.inField(row) && col > 0 {
		f.Renderer.Fill(uint16(row), uint16(col), s)
	}
}

// Draw renders one frame of a snapshot
func (f *Playfield) Draw(s session.Snapshot) {
	p := s.Play
	elapsed := s.Elapsed
	for lane := 0; lane < f.Lanes; lane++ {
		col := f.Column(uint8(lane))
		for row := 1; row <= f.Rows; row++ {
			f.fill(row, col, " ")
		}
		f.fill(f.hitRow(), col-1, " ")
		f.fill(f.hitRow(), col+1, " ")
	}

	// Visible song time, above and below the hit bar
	ahead := time.Duration(f.hitRow()) * f.Scroll
	behind := time.Duration(f.BarRow) * f.Scroll
	from, to := elapsed-behind, elapsed+ahead

	left := f.Column(0) - 2
	right := f.Column(uint8(f.Lanes-1)) + 2
	for row := 1; row <= f.Rows; row++ {
		f.fill(row, left, " ")
		f.fill(row, right, " ")
	}
	for _, m := range p.Beatmap.Measures(from, to) {
		row := f.Row(m.Time, elapsed)
		f.fill(row, left, f.Theme.RenderMeasure(m.Denom))
		f.fill(row, right, f.Theme.RenderMeasure(m.Denom))
	}

	for lane := 0; lane < f.Lanes; lane++ {
		_, held := p.Hold(uint8(lane))
		f.fill(f.hitRow(), f.Column(uint8(lane)), f.Theme.RenderHitField(uint8(lane), held))
	}

	bar := 4 * p.Beatmap.Beat()
	// Holds that started before the window may still be on screen
	start, end := p.Active(from-4*bar, to)
	for i := start; i < end; i++ {
		n := &p.Notes[i]
		if n.State.Terminal() {
			continue
		}
		col := f.Column(n.Lane)
		head := f.Row(n.Time, elapsed)
		if n.State == game.Engaged {
			head = f.hitRow()
		}
		if n.Kind == game.Hold {
			tail := f.Row(n.End(), elapsed)
			for row := max(tail, 1); row < head && row <= f.Rows; row++ {
				f.fill(row, col, f.Theme.RenderTrail())
			}
		}
		downbeat := bar > 0 && n.Time%bar == 0
		f.fill(head, col, f.Theme.RenderNote(n.Kind, downbeat))
	}

	f.status(s)
}

func (f *Playfield) status(s session.Snapshot) {
	col := f.Column(0) - 30
	if col < 2 {
		col = 2
	}
	p := s.Play
	mean, stdev, _ := score.Timing(p)
	lines := []string{
		fmt.Sprintf("     Score:  %9v", humanize.Comma(int64(p.Score))),
		fmt.Sprintf("     Combo:  %9v", p.Combo),
		fmt.Sprintf(" Max combo:  %9v", p.MaxCombo),
		"",
		fmt.Sprintf("   Perfect:  %9v", p.Tally.Perfect),
		fmt.Sprintf("     Great:  %9v", p.Tally.Great),
		fmt.Sprintf("      Good:  %9v", p.Tally.Good),
		fmt.Sprintf("      Miss:  %9v", p.Tally.Miss),
		fmt.Sprintf("      Mean:  %9v", mean.Round(100*time.Microsecond)),
		fmt.Sprintf("     Stdev:  %9v", stdev.Round(100*time.Microsecond)),
		"",
		fmt.Sprintf("     Notes:  %9v", len(p.Notes)),
		fmt.Sprintf("      Time:  %9v", clock(s.Elapsed)+"/"+clock(p.Beatmap.Duration)),
		fmt.Sprintf("     State:  %9v", s.State),
	}
	for i, line := range lines {
		f.fill(4+i, col, line)
	}
}

// Feedback shows a judgement above the lane it happened in
func (f *Playfield) Feedback(fb game.Feedback, frames int) {
	if fb.Tier == game.None {
		return
	}
	row := f.hitRow() - 2
	col := f.Column(fb.Lane) - 3
	if !f.inField(row) || col < 1 {
		return
	}
	f.Renderer.AddDecoration(uint16(col), uint16(row), f.Theme.RenderTier(fb.Tier), frames)
}

func clock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
