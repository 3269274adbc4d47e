package theme

import "git.lost.host/meutraa/tapline/internal/game"

type Theme interface {
	RenderNote(kind game.Kind, downbeat bool) string
	RenderTrail() string
	RenderHitField(lane uint8, held bool) string
	RenderTier(tier game.Tier) string
	RenderMeasure(denom int) string
}
