package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func filled(c *Canvas, x, y int) bool {
	r, _, _, _ := c.Snapshot().At(x, y).RGBA()
	return r != 0
}

// A concave polygon produces four crossings on one scanline, the notch
// between the legs must stay empty.
func TestFillPathConcave(t *testing.T) {
	c := NewCanvas(12, 12)

	// an upside down U, the notch between the legs starts below y 3
	c.FillPath([]image.Point{
		{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 3}, {3, 3}, {3, 10}, {0, 10},
	}, 0xFFFFFFFF)

	require.True(t, filled(c, 1, 5), "left leg")
	require.True(t, filled(c, 8, 5), "right leg")
	require.False(t, filled(c, 5, 5), "notch must stay empty")
}

func TestFillPathConvex(t *testing.T) {
	c := NewCanvas(12, 12)

	c.FillPath([]image.Point{{2, 2}, {9, 2}, {9, 9}, {2, 9}}, 0xFFFFFFFF)

	require.True(t, filled(c, 5, 5))
	require.False(t, filled(c, 1, 5))
	require.False(t, filled(c, 10, 5))
}
