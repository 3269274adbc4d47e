package testdata

import (
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// GetBeatmap returns a hand written 120bpm beatmap covering every note kind
func GetBeatmap() *game.Beatmap {
	notes := []game.Note{
		{ID: 1, Lane: 0, Time: ms(3000), Kind: game.Tap},
		{ID: 2, Lane: 2, Time: ms(3000), Kind: game.Tap},
		{ID: 3, Lane: 1, Time: ms(3500), Kind: game.Hold, Hold: ms(1250)},
		{ID: 4, Lane: 3, Time: ms(4000), Kind: game.SwipeUp},
		{ID: 5, Lane: 0, Time: ms(4500), Kind: game.SwipeRight},
		{ID: 6, Lane: 2, Time: ms(5000), Kind: game.Tap},
		{ID: 7, Lane: 0, Time: ms(5500), Kind: game.Tap},
		{ID: 8, Lane: 1, Time: ms(6000), Kind: game.Tap},
		{ID: 9, Lane: 3, Time: ms(6000), Kind: game.SwipeLeft},
		{ID: 10, Lane: 2, Time: ms(7000), Kind: game.Hold, Hold: ms(1250)},
		{ID: 11, Lane: 1, Time: ms(8500), Kind: game.SwipeDown},
		{ID: 12, Lane: 0, Time: ms(9000), Kind: game.Tap},
	}
	return &game.Beatmap{
		Tempo:      120,
		Duration:   ms(15000),
		Difficulty: game.Normal,
		Seed:       1,
		Lanes:      game.Lanes,
		Notes:      notes,
		HoldCount:  2,
		SwipeCount: 4,
	}
}

// Tiny is a single tap, for tests that only care about one note
func Tiny() *game.Beatmap {
	return &game.Beatmap{
		Tempo:      120,
		Duration:   ms(10000),
		Difficulty: game.Easy,
		Seed:       1,
		Lanes:      game.Lanes,
		Notes:      []game.Note{{ID: 1, Lane: 0, Time: ms(5000), Kind: game.Tap}},
	}
}
