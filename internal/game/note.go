package game

import (
	"time"
)

// Kind is what a note asks the player to do
type Kind uint8

const (
	Tap Kind = iota
	Hold
	SwipeUp
	SwipeDown
	SwipeLeft
	SwipeRight
)

var kindNames = [...]string{"tap", "hold", "up", "down", "left", "right"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) IsSwipe() bool {
	return k >= SwipeUp && k <= SwipeRight
}

// Swipes in the order the generator draws from
var Swipes = [...]Kind{SwipeUp, SwipeDown, SwipeLeft, SwipeRight}

// NoteState is the lifecycle of a note inside a session
type NoteState uint8

const (
	Pending NoteState = iota
	Engaged           // hold in progress
	Resolved
	Missed
)

func (s NoteState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Engaged:
		return "engaged"
	case Resolved:
		return "resolved"
	case Missed:
		return "missed"
	}
	return "unknown"
}

func (s NoteState) Terminal() bool {
	return s == Resolved || s == Missed
}

type Note struct {
	ID   int           // Unique within a beatmap, starts at 1
	Lane uint8         // The lane column
	Time time.Duration // The time the note should be resolved
	Kind Kind
	Hold time.Duration // Length of a hold, 0 for every other kind

	// This is state
	State   NoteState
	HitTime time.Duration // When the note was engaged or hit
}

// End is the instant a note stops occupying its lane
func (n *Note) End() time.Duration {
	return n.Time + n.Hold
}

// Accepts reports whether an input of kind k may resolve this note
func (n *Note) Accepts(k Kind) bool {
	if k.IsSwipe() {
		return n.Kind == k
	}
	return n.Kind == Tap || n.Kind == Hold
}
