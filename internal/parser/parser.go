package parser

import "git.lost.host/meutraa/tapline/internal/game"

type Parser interface {
	Parse(file string) (*game.Song, error)
}
