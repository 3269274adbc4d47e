package report

import (
	"fmt"
	"io"
	"time"

	"git.lost.host/meutraa/tapline/internal/chart"
	"git.lost.host/meutraa/tapline/internal/game"
	"git.lost.host/meutraa/tapline/internal/record"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

// Length formats a song length the way a person would say it
func Length(d time.Duration) string {
	if d <= 0 {
		return "unknown length"
	}
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

func Header(w io.Writer, s *game.Song) {
	title := s.Title
	if s.Artist != "" {
		title += " - " + s.Artist
	}
	fmt.Fprintf(w, "%v  (%v bpm, %v)\n", title, humanize.Ftoa(s.Tempo), Length(s.Duration))
}

// Stats prints a survey of generated beatmaps, one line per difficulty
func Stats(w io.Writer, s *game.Song, stats []chart.Stats) {
	Header(w, s)
	fmt.Fprintf(w, "%-8v %8v %8v %8v %8v %11v\n", "", "notes", "holds", "swipes", "chords", "range")
	for _, st := range stats {
		fmt.Fprintf(w, "%-8v %8.1f %8.1f %8.1f %8.1f %5v-%-5v\n",
			st.Difficulty, st.Notes, st.Holds, st.Swipes, st.Chords, st.MinNotes, st.MaxNotes)
	}
	if len(stats) > 0 {
		fmt.Fprintf(w, "%v beatmaps per difficulty\n", humanize.Comma(int64(stats[0].Runs)))
	}
}

// Best is the best play of one song at one difficulty
type Best struct {
	Song  *game.Song
	Entry record.Entry
}

// Bests prints best plays followed by the player totals
func Bests(w io.Writer, bests []Best, totals record.Totals, now time.Time) {
	for _, b := range bests {
		e := b.Entry
		fmt.Fprintf(w, "%-24.24v %-6v %11v %6.2f%% %v %v\n",
			b.Song.Title, e.Difficulty, humanize.Comma(int64(e.Score)), e.Accuracy,
			Stars(e.Stars), humanize.RelTime(e.PlayedAt, now, "ago", "from now"))
	}
	fmt.Fprintf(w, "%v plays, %v stars, %v coins\n",
		humanize.Comma(int64(totals.Plays)), humanize.Comma(int64(totals.Stars)), humanize.Comma(int64(totals.Currency)))
}

// Result prints the summary of a finished session
func Result(w io.Writer, r game.Result, reward int) {
	state := "Cleared"
	if r.Failed {
		state = "Failed"
	}
	t := r.Tally
	fmt.Fprintf(w, "%v %v\n", state, Stars(r.Stars))
	fmt.Fprintf(w, "     Score:  %9v\n", humanize.Comma(int64(r.Score)))
	fmt.Fprintf(w, "  Accuracy:  %8.2f%%\n", r.Accuracy)
	fmt.Fprintf(w, " Max combo:  %9v\n", r.MaxCombo)
	fmt.Fprintf(w, "   Perfect:  %9v\n", t.Perfect)
	fmt.Fprintf(w, "     Great:  %9v\n", t.Great)
	fmt.Fprintf(w, "      Good:  %9v\n", t.Good)
	fmt.Fprintf(w, "      Miss:  %9v\n", t.Miss)
	fmt.Fprintf(w, "    Reward:  %9v\n", humanize.Comma(int64(reward)))
}

func Stars(n int) string {
	s := ""
	for i := 0; i < 5; i++ {
		if i < n {
			s += "★"
		} else {
			s += "☆"
		}
	}
	return s
}
