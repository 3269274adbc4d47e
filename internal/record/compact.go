package record

import (
	"sort"
	"time"

	"git.lost.host/meutraa/tapline/internal/game"
)

// InputsCompact holds every input of one lane
type InputsCompact struct {
	Lane     uint8           `json:"l"`
	Times    []time.Duration `json:"t"`
	Gestures []uint8         `json:"g"` // kind<<1 | phase
	Order    []int           `json:"o,omitempty"` // Position of each input in the whole play
}

func gesture(in game.Input) uint8 {
	return uint8(in.Kind)<<1 | uint8(in.Phase)
}

func compactInputs(inputs []game.Input) []InputsCompact {
	lanes := 0
	for _, in := range inputs {
		if int(in.Lane) >= lanes {
			lanes = int(in.Lane) + 1
		}
	}
	ins := make([]InputsCompact, lanes)
	for i := range ins {
		ins[i] = InputsCompact{Lane: uint8(i), Times: []time.Duration{}, Gestures: []uint8{}, Order: []int{}}
	}
	for i, in := range inputs {
		c := &ins[in.Lane]
		c.Times = append(c.Times, in.At)
		c.Gestures = append(c.Gestures, gesture(in))
		c.Order = append(c.Order, i)
	}
	return ins
}

// uncompactInputs restores the order the inputs were judged in. Plays stored
// without an order are sorted by time, inputs sharing a time in lane order.
func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	order := []int{}
	ordered := true
	for _, c := range inputs {
		if len(c.Order) != len(c.Times) {
			ordered = false
		}
		for i, t := range c.Times {
			in := game.Input{Lane: c.Lane, At: t}
			if i < len(c.Gestures) {
				in.Kind = game.Kind(c.Gestures[i] >> 1)
				in.Phase = game.Phase(c.Gestures[i] & 1)
			}
			ins = append(ins, in)
			if i < len(c.Order) {
				order = append(order, c.Order[i])
			}
		}
	}

	if !ordered {
		sort.SliceStable(ins, func(i, j int) bool {
			return ins[i].At < ins[j].At
		})
		return ins
	}
	sort.Sort(byOrder{ins, order})
	return ins
}

type byOrder struct {
	ins   []game.Input
	order []int
}

func (b byOrder) Len() int           { return len(b.ins) }
func (b byOrder) Less(i, j int) bool { return b.order[i] < b.order[j] }
func (b byOrder) Swap(i, j int) {
	b.ins[i], b.ins[j] = b.ins[j], b.ins[i]
	b.order[i], b.order[j] = b.order[j], b.order[i]
}
