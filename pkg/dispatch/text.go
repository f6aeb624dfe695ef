package dispatch

import (
	"strings"

	"bluedisplay/pkg/render"
)

// decodeString turns a data block into text, applying the client installed
// character mapping to the upper half of the byte range.
func (d *Dispatcher) decodeString(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if b == 0 {
			break
		}
		if r, ok := d.charMap[b]; ok {
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func newTextWriter(rend render.Renderer) *textWriter {
	return &textWriter{
		rend:  rend,
		size:  12,
		color: 0xFF000000,
		bg:    0xFFFFFFFF,
	}
}

// textWriter emulates a printf terminal on the canvas: fixed pitch glyphs,
// wrap at the right edge, scroll by clearing and restarting at the top.
type textWriter struct {
	rend render.Renderer

	size  int
	color uint32
	bg    uint32

	column int
	line   int
}

func (w *textWriter) setStyle(size int, color, bg uint32) {
	w.size = size
	w.color = color
	w.bg = bg
}

func (w *textWriter) setPosition(x, y int) {
	w.column = x / render.CharWidth(w.size)
	w.line = y / render.LinePitch(w.size)
}

func (w *textWriter) setLineColumn(line, column int) {
	w.line = line
	w.column = column
}

func (w *textWriter) columns() int {
	width, _ := w.rend.Size()
	return width / render.CharWidth(w.size)
}

func (w *textWriter) lines() int {
	_, height := w.rend.Size()
	return height / render.LinePitch(w.size)
}

func (w *textWriter) Write(text string) {
	for _, r := range text {
		switch r {
		case '\n':
			w.newline()
		case '\r':
			w.column = 0
		case 0x08: // backspace
			if w.column > 0 {
				w.column--
				w.putRune(' ')
				w.column--
			}
		case 0x0C: // form feed
			w.clear()
		default:
			if w.column >= w.columns() {
				w.newline()
			}
			w.putRune(r)
		}
	}
}

func (w *textWriter) putRune(r rune) {
	x := w.column * render.CharWidth(w.size)
	y := w.line * render.LinePitch(w.size)
	w.rend.DrawText(x, y, string(r), w.size, w.color, w.bg)
	w.column++
}

func (w *textWriter) newline() {
	w.column = 0
	w.line++
	if w.line >= w.lines() {
		w.clear()
	}
}

func (w *textWriter) clear() {
	w.rend.Clear(w.bg)
	w.column = 0
	w.line = 0
}
