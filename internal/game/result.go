package game

import "time"

// Result is the terminal snapshot handed to the progression collaborator
type Result struct {
	ID         string
	Song       string
	Difficulty Difficulty
	Seed       int64
	Score      int
	Accuracy   float64 // Percent of beatmap notes hit
	Stars      int
	Tally      Tally
	MaxCombo   int
	Notes      int
	Failed     bool
	Policy     string // Fail policy the attempt ran under
	Inputs     []Input
	PlayedAt   time.Time
}

// Feedback is an advisory event for the presentation layer
type Feedback struct {
	Lane    uint8
	Tier    Tier
	Engaged bool
	Combo   int
	Score   int
	At      time.Duration
}
