package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	Out io.Writer // Defaults to stdout

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	X, Y    uint16
	Content string
	Frames  int // remaining frames until removed
}

func (r *DefaultRenderer) out() io.Writer {
	if nil == r.Out {
		return os.Stdout
	}
	return r.Out
}

func (r *DefaultRenderer) Init() error {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		state, err := term.MakeRaw(int(os.Stdout.Fd()))
		if nil != err {
			return fmt.Errorf("unable to enter raw mode: %w", err)
		}
		r.restoreState = state
	}

	fmt.Fprintf(r.out(), "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.out(), "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int, error) {
	columns, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		return 0, 0, fmt.Errorf("unable to get terminal size: %w", err)
	}
	return columns, rows, nil
}

func (r *DefaultRenderer) AddDecoration(col, row uint16, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, strings.Repeat(" ", visibleWidth(d.Content)))
			continue
		}
		r.Fill(d.Y, d.X, d.Content)
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

// RenderLoop draws a frame every period until render returns false
func (r *DefaultRenderer) RenderLoop(period time.Duration, render func(now time.Time) bool) {
	cont := true
	for cont {
		now := time.Now()
		deadline := now.Add(period)

		cont = render(now)

		r.tickDecorations()
		r.Flush()

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Fill(row, column uint16, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column uint16, c color.RGBA, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.FormatInt(int64(c.R), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.G), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.B), 10))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) Flush() {
	r.out().Write([]byte(r.buffer.String()))
	r.buffer.Reset()
}

// visibleWidth counts the runes of s outside of escape sequences
func visibleWidth(s string) int {
	n := 0
	escape := false
	for _, c := range s {
		switch {
		case c == '\033':
			escape = true
		case escape:
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
				escape = false
			}
		default:
			n++
		}
	}
	return n
}
