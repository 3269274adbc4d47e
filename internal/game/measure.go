package game

import (
	"time"
)

type Measure struct {
	Denom int           // 1 on a bar line, 4 on every other beat
	Time  time.Duration // The time the line crosses the hit bar
}
