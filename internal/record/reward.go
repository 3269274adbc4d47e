package record

import "git.lost.host/meutraa/tapline/internal/game"

var rewards = map[game.Difficulty]int{
	game.Easy:   5,
	game.Normal: 10,
	game.Hard:   20,
}

// Reward is the currency a play earns. Failed plays earn nothing.
func Reward(stars int, difficulty game.Difficulty, failed bool) int {
	if failed || stars <= 0 {
		return 0
	}
	base, ok := rewards[difficulty]
	if !ok {
		base = rewards[game.Normal]
	}
	return base * stars
}
