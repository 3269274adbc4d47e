package theme

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/tapline/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(kind game.Kind, downbeat bool) string {
	c := getNoteColor(kind)
	if downbeat {
		c = brighten(c)
	}
	return paint(c, syms[kind])
}

func (t *DefaultTheme) RenderTrail() string {
	return paint(getNoteColor(game.Hold), trailSym)
}

func (t *DefaultTheme) RenderHitField(lane uint8, held bool) string {
	if held {
		return paint(heldColor, barSyms[int(lane)%len(barSyms)])
	}
	return barSyms[int(lane)%len(barSyms)]
}

func (t *DefaultTheme) RenderTier(tier game.Tier) string {
	return tierNames[tier]
}

func (t *DefaultTheme) RenderMeasure(denom int) string {
	if denom == 1 {
		return "\033[38;5;240m─\033[0m"
	}
	return "\033[38;5;236m╌\033[0m"
}

const trailSym = "┃"

var barSyms = [...]string{"-", "-", "-", "-"}

var heldColor = color.RGBA{255, 255, 255, 255}

var syms = map[game.Kind]string{
	game.Tap:        "⬤",
	game.Hold:       "◆",
	game.SwipeUp:    "▲",
	game.SwipeDown:  "▼",
	game.SwipeLeft:  "◀",
	game.SwipeRight: "▶",
}

var noteColors = map[game.Kind]color.RGBA{
	game.Tap:        {236, 30, 0, 255},  // red
	game.Hold:       {0, 118, 236, 255}, // blue
	game.SwipeUp:    {236, 195, 0, 255}, // yellow
	game.SwipeDown:  {106, 0, 236, 255}, // purple
	game.SwipeLeft:  {236, 0, 106, 255}, // pink
	game.SwipeRight: {0, 236, 128, 255}, // green
}

var tierNames = map[game.Tier]string{
	game.None:    "",
	game.Perfect: "\033[1;36mPerfect\033[0m",
	game.Great:   "  \033[1;32mGreat\033[0m",
	game.Good:    "   \033[1;33mGood\033[0m",
	game.Miss:    "   \033[1;31mMiss\033[0m",
}

func getNoteColor(k game.Kind) color.RGBA {
	col, ok := noteColors[k]
	if !ok {
		return color.RGBA{255, 255, 255, 255}
	}
	return col
}

func brighten(c color.RGBA) color.RGBA {
	lift := func(v uint8) uint8 {
		return v + (255-v)/3
	}
	return color.RGBA{lift(c.R), lift(c.G), lift(c.B), c.A}
}

func paint(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}
