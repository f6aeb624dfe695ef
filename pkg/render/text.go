package render

// Text geometry is derived from the nominal size with fixed factors, the
// same ones the client firmware uses for its layout math.
const (
	AscendFactor  = 0.76
	DescendFactor = 0.24
	WidthFactor   = 0.6
)

// Ascend is the distance from baseline to the top of a glyph.
func Ascend(size int) int {
	return int(AscendFactor*float64(size) + 0.5)
}

// Descend is the distance from baseline to the bottom of a glyph.
func Descend(size int) int {
	return int(DescendFactor*float64(size) + 0.5)
}

// CharWidth is the fixed advance of one glyph.
func CharWidth(size int) int {
	return int(WidthFactor*float64(size) + 0.5)
}

// LinePitch is the vertical distance between two text lines.
func LinePitch(size int) int {
	return size + 1
}
