package game

import "time"

type Phase uint8

const (
	Start Phase = iota
	End
)

func (p Phase) String() string {
	if p == End {
		return "end"
	}
	return "start"
}

// Point is a screen-space position
type Point struct {
	X, Y float64
}

// Input is one player action on a lane. Kind is Tap for a plain press or
// release and a swipe kind once a gesture has been classified.
type Input struct {
	Lane   uint8         `json:"lane"`
	Phase  Phase         `json:"phase"`
	Kind   Kind          `json:"kind"`
	Origin Point         `json:"-"`
	Delta  Point         `json:"-"`
	At     time.Duration `json:"at"` // Session elapsed time when the input was applied
}
