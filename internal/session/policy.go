package session

import (
	"fmt"
	"strconv"
	"strings"

	"git.lost.host/meutraa/tapline/internal/game"
)

// FailPolicy decides, after a miss, whether the attempt is over
type FailPolicy interface {
	Failed(t game.Tally) bool
	// String is the form PolicyFromString reads back, it is stored with each play
	String() string
}

// NoFail never fails a session
type NoFail struct{}

func (NoFail) Failed(game.Tally) bool {
	return false
}

func (NoFail) String() string {
	return "none"
}

// InstantFail fails on the first miss
type InstantFail struct{}

func (InstantFail) Failed(t game.Tally) bool {
	return t.Miss > 0
}

func (InstantFail) String() string {
	return "instant"
}

// Threshold fails once more than MinJudged notes were judged and the share
// of hits among them dropped below MinRatio
type Threshold struct {
	MinJudged int
	MinRatio  float64
}

const DefaultFailRatio = 0.5

func (p Threshold) Failed(t game.Tally) bool {
	judged := t.Judged()
	if judged <= p.MinJudged || judged == 0 {
		return false
	}
	return float64(t.Hits())/float64(judged) < p.MinRatio
}

func (p Threshold) String() string {
	return fmt.Sprintf("threshold:%d:%s", p.MinJudged, strconv.FormatFloat(p.MinRatio, 'g', -1, 64))
}

// ParsePolicy maps a policy name to a FailPolicy. An unknown name falls back
// to NoFail alongside the error.
func ParsePolicy(name string, minJudged int, ratio float64) (FailPolicy, error) {
	switch strings.ToLower(name) {
	case "", "none", "nofail":
		return NoFail{}, nil
	case "instant":
		return InstantFail{}, nil
	case "threshold":
		if ratio <= 0 {
			ratio = DefaultFailRatio
		}
		return Threshold{MinJudged: minJudged, MinRatio: ratio}, nil
	}
	return NoFail{}, fmt.Errorf("unknown fail policy %q", name)
}

// PolicyFromString reads the form written by a policy's String method
func PolicyFromString(s string) (FailPolicy, error) {
	name, params, _ := strings.Cut(s, ":")
	if name != "threshold" {
		if params != "" {
			return NoFail{}, fmt.Errorf("unexpected parameters in fail policy %q", s)
		}
		return ParsePolicy(name, 0, 0)
	}

	judged, ratio, ok := strings.Cut(params, ":")
	if !ok {
		return NoFail{}, fmt.Errorf("incomplete fail policy %q", s)
	}
	minJudged, err := strconv.Atoi(judged)
	if nil != err {
		return NoFail{}, fmt.Errorf("invalid judged count in fail policy %q: %w", s, err)
	}
	minRatio, err := strconv.ParseFloat(ratio, 64)
	if nil != err {
		return NoFail{}, fmt.Errorf("invalid ratio in fail policy %q: %w", s, err)
	}
	return Threshold{MinJudged: minJudged, MinRatio: minRatio}, nil
}
