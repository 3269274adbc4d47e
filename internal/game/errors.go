package game

import "errors"

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrInvalidTempo      = errors.New("tempo must be positive and at most 1000 bpm")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrClockAnomaly      = errors.New("clock anomaly")
	ErrNotPlaying        = errors.New("session is not playing")
	ErrNotReady          = errors.New("session is not ready")
)
