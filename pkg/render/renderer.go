package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Renderer is everything the command interpreter needs from a drawing target.
type Renderer interface {
	Size() (int, int)
	Resize(width, height int)

	Clear(argb uint32)
	DrawPixel(x, y int, argb uint32)
	DrawLine(x0, y0, x1, y1 int, argb uint32)
	DrawRect(x0, y0, x1, y1 int, argb uint32)
	FillRect(x0, y0, x1, y1 int, argb uint32)
	DrawCircle(cx, cy, r int, argb uint32)
	FillCircle(cx, cy, r int, argb uint32)
	DrawVector(x, y int, length, radian float64, argb uint32)
	DrawPath(points []image.Point, argb uint32)
	FillPath(points []image.Point, argb uint32)

	// DrawText draws at the upper left corner and returns the x position
	// after the last glyph. bg NoBackground leaves the background alone.
	DrawText(x, y int, text string, size int, argb, bg uint32) int

	Snapshot() image.Image
}

func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: NewRGB565(image.Rect(0, 0, width, height))}
}

// Canvas renders into an RGB565 backing store.
type Canvas struct {
	img *RGB565
}

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) Resize(width, height int) {
	c.img = NewRGB565(image.Rect(0, 0, width, height))
}

func (c *Canvas) Clear(argb uint32) {
	w, h := c.Size()
	c.FillRect(0, 0, w-1, h-1, argb)
}

func (c *Canvas) DrawPixel(x, y int, argb uint32) {
	c.img.Set(x, y, RGBA(argb))
}

func (c *Canvas) DrawLine(x0, y0, x1, y1 int, argb uint32) {
	col := RGBA(argb)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.img.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) DrawRect(x0, y0, x1, y1 int, argb uint32) {
	c.DrawLine(x0, y0, x1, y0, argb)
	c.DrawLine(x1, y0, x1, y1, argb)
	c.DrawLine(x1, y1, x0, y1, argb)
	c.DrawLine(x0, y1, x0, y0, argb)
}

func (c *Canvas) FillRect(x0, y0, x1, y1 int, argb uint32) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	col := RGBA(argb)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.img.Set(x, y, col)
		}
	}
}

func (c *Canvas) DrawCircle(cx, cy, r int, argb uint32) {
	col := RGBA(argb)
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.octants(cx, cy, x, y, col)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) octants(cx, cy, x, y int, col color.RGBA) {
	c.img.Set(cx+x, cy+y, col)
	c.img.Set(cx-x, cy+y, col)
	c.img.Set(cx+x, cy-y, col)
	c.img.Set(cx-x, cy-y, col)
	c.img.Set(cx+y, cy+x, col)
	c.img.Set(cx-y, cy+x, col)
	c.img.Set(cx+y, cy-x, col)
	c.img.Set(cx-y, cy-x, col)
}

func (c *Canvas) FillCircle(cx, cy, r int, argb uint32) {
	col := RGBA(argb)
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.img.Set(cx+x, cy+y, col)
			}
		}
	}
}

func (c *Canvas) DrawVector(x, y int, length, radian float64, argb uint32) {
	x1 := x + int(length*math.Cos(radian)+0.5)
	y1 := y + int(length*math.Sin(radian)+0.5)
	c.DrawLine(x, y, x1, y1, argb)
}

func (c *Canvas) DrawPath(points []image.Point, argb uint32) {
	for i := 1; i < len(points); i++ {
		c.DrawLine(points[i-1].X, points[i-1].Y, points[i].X, points[i].Y, argb)
	}
}

// FillPath closes the polygon and fills it with even-odd scanlines.
func (c *Canvas) FillPath(points []image.Point, argb uint32) {
	if len(points) < 3 {
		c.DrawPath(points, argb)
		return
	}

	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	for y := minY; y <= maxY; y++ {
		var xs []int
		j := len(points) - 1
		for i := range points {
			a, b := points[i], points[j]
			if (a.Y <= y && b.Y > y) || (b.Y <= y && a.Y > y) {
				t := float64(y-a.Y) / float64(b.Y-a.Y)
				xs = append(xs, a.X+int(t*float64(b.X-a.X)+0.5))
			}
			j = i
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			c.DrawLine(xs[i], y, xs[i+1], y, argb)
		}
	}
}

func (c *Canvas) DrawText(x, y int, text string, size int, argb, bg uint32) int {
	if text == "" {
		return x
	}

	width := CharWidth(size) * len(text)
	if bg != NoBackground {
		c.FillRect(x, y, x+width-1, y+LinePitch(size)-1, bg)
	}

	c.drawGlyphs(x, y, text, size, argb)
	return x + width
}

// drawGlyphs renders with the fixed 7x13 face and scales the strip to the
// requested size.
func (c *Canvas) drawGlyphs(x, y int, text string, size int, argb uint32) {
	face := basicfont.Face7x13
	baseW := face.Advance * len(text)
	baseH := face.Height

	strip := image.NewRGBA(image.Rect(0, 0, baseW, baseH))
	d := font.Drawer{
		Dst:  strip,
		Src:  image.NewUniform(RGBA(argb)),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	targetW := CharWidth(size) * len(text)
	targetH := size
	scaled := imaging.Resize(strip, targetW, targetH, imaging.NearestNeighbor)

	draw.Draw(c.img, image.Rect(x, y, x+targetW, y+targetH), scaled, image.Point{}, draw.Over)
}

func (c *Canvas) Snapshot() image.Image {
	b := c.img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, c.img, b.Min, draw.Src)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
