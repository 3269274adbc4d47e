package game

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Profile controls how busy a generated beatmap is.
// Probabilities of multi-lane steps are cumulative from the largest chord down.
type Profile struct {
	Density float64 // Steps per beat
	Holds   float64
	Swipes  float64
	Doubles float64
	Triples float64
	Quads   float64
}

var Profiles = map[Difficulty]Profile{
	Easy:   {Density: 0.40, Holds: 0.08, Swipes: 0.12, Doubles: 0.05},
	Normal: {Density: 0.60, Holds: 0.15, Swipes: 0.25, Doubles: 0.15, Triples: 0.05},
	Hard:   {Density: 0.85, Holds: 0.20, Swipes: 0.30, Doubles: 0.25, Triples: 0.15, Quads: 0.05},
}

var Difficulties = []Difficulty{Easy, Normal, Hard}

// ParseDifficulty is case insensitive, unknown names are reported with ErrUnknownDifficulty
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Profiles[d]; !ok {
		return Normal, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// Profile falls back to the normal profile for unknown difficulties
func (d Difficulty) Profile() (Profile, error) {
	p, ok := Profiles[d]
	if !ok {
		return Profiles[Normal], fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
	return p, nil
}
