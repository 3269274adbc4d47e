package input

import (
	"fmt"
	"unicode/utf8"

	"git.lost.host/meutraa/tapline/internal/game"
)

const DefaultKeys = "dfjk"

// evdev codes of the keys a keymap may use
var codes = map[rune]uint16{
	'1': 2, '2': 3, '3': 4, '4': 5, '5': 6, '6': 7, '7': 8, '8': 9, '9': 10, '0': 11,
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
	' ': 57,
}

// evdev arrow key codes
var arrows = map[uint16]game.Kind{
	103: game.SwipeUp,
	105: game.SwipeLeft,
	106: game.SwipeRight,
	108: game.SwipeDown,
}

// Keymap assigns one key to each lane
type Keymap struct {
	runes map[rune]uint8
	codes map[uint16]uint8
}

// ParseKeys builds a keymap from one character per lane, left to right
func ParseKeys(keys string, lanes int) (*Keymap, error) {
	if n := utf8.RuneCountInString(keys); n != lanes {
		return nil, fmt.Errorf("%d keys for %d lanes", n, lanes)
	}
	k := &Keymap{runes: map[rune]uint8{}, codes: map[uint16]uint8{}}
	lane := uint8(0)
	for _, r := range keys {
		if _, ok := k.runes[r]; ok {
			return nil, fmt.Errorf("key %q bound twice", r)
		}
		k.runes[r] = lane
		if code, ok := codes[r]; ok {
			k.codes[code] = lane
		}
		lane++
	}
	return k, nil
}

func (k *Keymap) Lane(r rune) (uint8, bool) {
	lane, ok := k.runes[r]
	return lane, ok
}

// CodeLane maps an evdev key code to a lane
func (k *Keymap) CodeLane(code uint16) (uint8, bool) {
	lane, ok := k.codes[code]
	return lane, ok
}

// Swipe maps an evdev arrow key code to a swipe direction
func Swipe(code uint16) (game.Kind, bool) {
	kind, ok := arrows[code]
	return kind, ok
}
