package game

import "time"

// Song is the descriptor handed over by the catalog
type Song struct {
	ID           string
	Title        string
	Artist       string
	Tempo        float64
	Duration     time.Duration
	Offset       time.Duration // Audio position of the first beat
	Difficulties []Difficulty
	Audio        string // Path to the audio file, if any
}
