package render

import "image/color"

// NoBackground is the 32 bit expansion of the wire sentinel 0xFFFE meaning
// "draw text without clearing the background".
const NoBackground = 0xFFFFFFFE

// Expand widens a wire RGB565 value to 32 bit ARGB. A short channel with its
// top bit set gets its low bits filled in, so the canonical colors (black,
// white, pure red, green and blue) survive a round trip exactly.
func Expand(short uint16) uint32 {
	blue := uint32(short&0x1F) << 3
	if blue > 0x80 {
		blue += 0x07
	}
	green := uint32(short&0x07E0) << 5
	if green > 0x8000 {
		green += 0x0300
	}
	red := uint32(short & 0xF800)
	if red > 0x8000 {
		red += 0x0700
	}
	return 0xFF000000 | red<<8 | green&0xFF00 | blue
}

// Compress is the reverse direction, truncating each channel.
func Compress(argb uint32) uint16 {
	r := (argb >> 16) & 0xFF
	g := (argb >> 8) & 0xFF
	b := argb & 0xFF
	return uint16((r&0xF8)<<8 | (g&0xFC)<<3 | b>>3)
}

// RGBA unpacks an expanded ARGB value for the image packages.
func RGBA(argb uint32) color.RGBA {
	return color.RGBA{
		A: uint8(argb >> 24),
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}
}
