package widget

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Each caption line is trimmed and centered independently.
func TestCaptionMultiLineLayout(t *testing.T) {
	// size 10: char width 6, line pitch 11
	placed, overflow := layoutCaption("up\n down ", 0, 0, 100, 50, 10)
	require.Len(t, placed, 2)
	require.False(t, overflow)

	require.Equal(t, "up", placed[0].Text)
	require.Equal(t, "down", placed[1].Text)

	// block of 2*11 centered in 50: top = 14
	require.Equal(t, 14, placed[0].Y)
	require.Equal(t, 25, placed[1].Y)

	// "up" is 12 wide, "down" 24, both centered in 100
	require.Equal(t, 44, placed[0].X)
	require.Equal(t, 38, placed[1].X)
}

func TestCaptionSingleLineCentered(t *testing.T) {
	placed, overflow := layoutCaption("ok", 10, 20, 60, 30, 10)
	require.Len(t, placed, 1)
	require.False(t, overflow)
	require.Equal(t, 10+(60-12)/2, placed[0].X)
	require.Equal(t, 20+(30-11)/2, placed[0].Y)
}

// A line wider than the button clamps at the button edge instead of
// starting left of it, and the clamp is reported.
func TestCaptionOverflowClamped(t *testing.T) {
	placed, overflow := layoutCaption("very long caption", 10, 0, 20, 30, 10)
	require.True(t, overflow)
	require.Equal(t, 10, placed[0].X)
}

// A caption block taller than the button anchors at the top edge and
// reports overflow.
func TestCaptionVerticalOverflowClamped(t *testing.T) {
	placed, overflow := layoutCaption("a\nb\nc\nd", 0, 5, 100, 20, 10)
	require.True(t, overflow)
	require.Equal(t, 5, placed[0].Y)
}
