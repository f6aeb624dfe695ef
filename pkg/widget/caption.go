package widget

import (
	"strings"

	"github.com/samber/lo"

	"bluedisplay/pkg/render"
)

// PlacedLine is one caption line with its resolved upper left position.
type PlacedLine struct {
	Text string
	X, Y int
}

// layoutCaption splits a caption on newlines, trims each line and centers
// the block in the button rectangle. Positions are clamped at the button
// edge when a line is wider than the button, overflow reports that clamp.
func layoutCaption(caption string, x, y, width, height, size int) (placed []PlacedLine, overflow bool) {
	lines := lo.Map(strings.Split(caption, "\n"), func(l string, _ int) string {
		return strings.TrimSpace(l)
	})

	pitch := render.LinePitch(size)
	blockHeight := pitch * len(lines)
	top := y + (height-blockHeight)/2
	if top < y {
		top = y
		overflow = true
	}

	placed = make([]PlacedLine, 0, len(lines))
	for i, line := range lines {
		lineWidth := render.CharWidth(size) * len(line)
		lx := x + (width-lineWidth)/2
		if lx < x {
			lx = x
			overflow = true
		}
		placed = append(placed, PlacedLine{
			Text: line,
			X:    lx,
			Y:    top + i*pitch,
		})
	}
	return placed, overflow
}
