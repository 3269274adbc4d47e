package chart

import (
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

type Generator interface {
	Generate(tempo float64, duration time.Duration, difficulty game.Difficulty) *game.Beatmap
}
