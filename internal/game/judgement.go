package game

// Tier is the accuracy class of a judged input
type Tier uint8

const (
	None Tier = iota // The input matched no note
	Perfect
	Great
	Good
	Miss
)

var tierNames = [...]string{"none", "perfect", "great", "good", "miss"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// Hit reports whether the tier resolves a note
func (t Tier) Hit() bool {
	return t == Perfect || t == Great || t == Good
}

// Points before the combo multiplier
func (t Tier) Points() int {
	switch t {
	case Perfect:
		return 100
	case Great:
		return 75
	case Good:
		return 50
	}
	return 0
}

type Judgement struct {
	Tier         Tier
	NoteID       int // 0 when nothing matched
	Lane         uint8
	Points       int
	Engaged      bool // A hold was started, not yet scored
	EarlyRelease bool // A hold was let go before its end
}

// Tally counts judgements by tier
type Tally struct {
	Perfect int `json:"perfect"`
	Great   int `json:"great"`
	Good    int `json:"good"`
	Miss    int `json:"miss"`
}

func (t *Tally) Add(tier Tier) {
	switch tier {
	case Perfect:
		t.Perfect++
	case Great:
		t.Great++
	case Good:
		t.Good++
	case Miss:
		t.Miss++
	}
}

func (t Tally) Hits() int {
	return t.Perfect + t.Great + t.Good
}

func (t Tally) Judged() int {
	return t.Hits() + t.Miss
}
