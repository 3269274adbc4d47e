package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int, err error)
	AddDecoration(col, row uint16, content string, frames int)
	RenderLoop(period time.Duration, render func(now time.Time) bool)
	Fill(row, column uint16, message string)
	FillColor(row, column uint16, color color.RGBA, message string)
	Flush()
}
