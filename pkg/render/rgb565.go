package render

import (
	"image"
	"image/color"
)

// Pixel layout after https://github.com/gonutz/framebuffer/blob/master/fb.go

func NewRGB565(r image.Rectangle) *RGB565 {
	return &RGB565{
		pixels: make([]byte, 2*r.Dx()*r.Dy()),
		stride: 2 * r.Dx(),
		bounds: r,
	}
}

// RGB565 is the canvas backing store. It implements draw.Image with two
// bytes per pixel, little endian, RRRRRGGG GGGBBBBB.
type RGB565 struct {
	pixels []byte
	stride int
	bounds image.Rectangle
}

func (d *RGB565) Bounds() image.Rectangle {
	return d.bounds
}

func (d *RGB565) ColorModel() color.Model {
	return rgb565Model{}
}

func (d *RGB565) At(x, y int) color.Color {
	if x < d.bounds.Min.X || x >= d.bounds.Max.X ||
		y < d.bounds.Min.Y || y >= d.bounds.Max.Y {
		return Pixel(0)
	}
	i := y*d.stride + 2*x
	return Pixel(d.pixels[i+1])<<8 | Pixel(d.pixels[i])
}

func (d *RGB565) Set(x, y int, c color.Color) {
	if x >= 0 && x < d.bounds.Max.X &&
		y >= 0 && y < d.bounds.Max.Y {
		r, g, b, a := c.RGBA()
		if a > 0 {
			px := ToPixel(r, g, b)
			i := y*d.stride + 2*x
			d.pixels[i+1] = byte(px >> 8)
			d.pixels[i] = byte(px & 0xFF)
		}
	}
}

// Raw exposes the pixel buffer, for snapshots and transfer.
func (d *RGB565) Raw() []byte {
	return d.pixels
}

type rgb565Model struct{}

func (rgb565Model) Convert(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return ToPixel(r, g, b)
}

// ToPixel keeps the top 5 or 6 bits of each 16 bit channel.
func ToPixel(r, g, b uint32) Pixel {
	return Pixel((r & 0xF800) +
		((g & 0xFC00) >> 5) +
		((b & 0xF800) >> 11))
}

// Pixel is one RGB565 value. It implements color.Color.
type Pixel uint16

// RGBA widens each short channel by duplicating its bit pattern down to the
// low bits, so all-zeros and all-ones map to channel min and max exactly.
func (c Pixel) RGBA() (r, g, b, a uint32) {
	rBits := uint32(c & 0xF800)
	gBits := uint32(c & 0x7E0)
	bBits := uint32(c & 0x1F)
	r = rBits | rBits>>5 | rBits>>10 | rBits>>15
	g = gBits<<5 | gBits>>1 | gBits>>7
	b = bBits<<11 | bBits<<6 | bBits<<1 | bBits>>4
	a = 0xFFFF
	return
}
