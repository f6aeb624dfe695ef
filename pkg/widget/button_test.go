package widget

import (
	"bytes"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bluedisplay/pkg/event"
	"bluedisplay/pkg/proto"
)

// stubRenderer records fill calls, everything else is a no-op.
type stubRenderer struct {
	width, height int
	fills         []image.Rectangle
	texts         []string
}

func newStubRenderer() *stubRenderer {
	return &stubRenderer{width: 320, height: 240}
}

func (r *stubRenderer) Size() (int, int)                    { return r.width, r.height }
func (r *stubRenderer) Resize(w, h int)                     { r.width, r.height = w, h }
func (r *stubRenderer) Clear(uint32)                        {}
func (r *stubRenderer) DrawPixel(int, int, uint32)          {}
func (r *stubRenderer) DrawLine(int, int, int, int, uint32) {}
func (r *stubRenderer) DrawRect(int, int, int, int, uint32) {}
func (r *stubRenderer) FillRect(x0, y0, x1, y1 int, _ uint32) {
	r.fills = append(r.fills, image.Rect(x0, y0, x1, y1))
}
func (r *stubRenderer) DrawCircle(int, int, int, uint32)              {}
func (r *stubRenderer) FillCircle(int, int, int, uint32)              {}
func (r *stubRenderer) DrawVector(int, int, float64, float64, uint32) {}
func (r *stubRenderer) DrawPath([]image.Point, uint32)                {}
func (r *stubRenderer) FillPath([]image.Point, uint32)                {}
func (r *stubRenderer) DrawText(x, y int, text string, _ int, _, _ uint32) int {
	r.texts = append(r.texts, text)
	return x
}
func (r *stubRenderer) Snapshot() image.Image { return nil }

// manualClock collects scheduled callbacks for explicit firing.
type manualClock struct {
	seq     int
	order   []int
	pending map[int]func()
}

func (m *manualClock) schedule(_ time.Duration, fn func()) func() {
	if m.pending == nil {
		m.pending = map[int]func(){}
	}
	id := m.seq
	m.seq++
	m.pending[id] = fn
	m.order = append(m.order, id)
	return func() { delete(m.pending, id) }
}

func (m *manualClock) fire() {
	for len(m.order) > 0 {
		id := m.order[0]
		m.order = m.order[1:]
		if fn, ok := m.pending[id]; ok {
			delete(m.pending, id)
			fn()
			return
		}
	}
}

func drainCallbacks(t *testing.T, buf *bytes.Buffer) []event.GuiCallback {
	t.Helper()
	var r proto.Receiver
	var out []event.GuiCallback
	for _, b := range buf.Bytes() {
		r.Feed(b)
		if ev, ok := r.Poll(); ok {
			if cb, ok := event.AsGuiCallback(ev); ok {
				out = append(out, cb)
			}
		}
	}
	buf.Reset()
	return out
}

func newTestButtons(t *testing.T) (*Buttons, *stubRenderer, *bytes.Buffer, *manualClock) {
	t.Helper()
	rend := newStubRenderer()
	buf := &bytes.Buffer{}
	clock := &manualClock{}
	s := NewButtons(rend, event.NewSender(buf, zap.NewNop()), clock.schedule, zap.NewNop())
	s.TouchActive = func() bool { return true }
	return s, rend, buf, clock
}

func TestButtonInitAppendAndReplace(t *testing.T) {
	s, _, _, _ := newTestButtons(t)

	require.True(t, s.Init(0, &Button{Width: 10, Height: 10, Caption: "a"}))
	require.True(t, s.Init(1, &Button{Width: 10, Height: 10, Caption: "b"}))
	require.Equal(t, 2, s.Len())

	require.True(t, s.Init(0, &Button{Width: 10, Height: 10, Caption: "c"}))
	require.Equal(t, 2, s.Len())
	require.Equal(t, "c", s.Get(0).Caption)

	// a gap in the index sequence is refused
	require.False(t, s.Init(5, &Button{Width: 10, Height: 10}))
	require.Equal(t, 2, s.Len())
}

func TestButtonCommandOnMissingIndexIgnored(t *testing.T) {
	s, rend, _, _ := newTestButtons(t)

	s.Draw(3)
	s.SetValue(3, 1, true)
	require.Empty(t, rend.fills)
}

func TestRedGreenToggleBeforeCallback(t *testing.T) {
	s, _, buf, _ := newTestButtons(t)
	require.True(t, s.Init(0, &Button{
		Width: 40, Height: 20,
		Flags:    ButtonFlagRedGreen,
		Callback: 0x1234,
	}))

	s.Touched(0)
	cbs := drainCallbacks(t, buf)
	require.Len(t, cbs, 1)
	require.Equal(t, uint32(1), cbs[0].Value)

	s.Touched(0)
	cbs = drainCallbacks(t, buf)
	require.Len(t, cbs, 1)
	require.Equal(t, uint32(0), cbs[0].Value)
}

func TestRedGreenCaptionFallback(t *testing.T) {
	_, _, _, _ = newTestButtons(t)
	b := &Button{Flags: ButtonFlagRedGreen, Caption: "off", CaptionTrue: "on"}

	require.Equal(t, "off", b.EffectiveCaption())
	require.Equal(t, uint32(ColorRed), b.EffectiveColor())

	b.Value = 1
	require.Equal(t, "on", b.EffectiveCaption())
	require.Equal(t, uint32(ColorGreen), b.EffectiveColor())

	b.CaptionTrue = ""
	require.Equal(t, "off", b.EffectiveCaption())
}

func TestActivateDeactivateAll(t *testing.T) {
	s, _, _, _ := newTestButtons(t)
	require.True(t, s.Init(0, &Button{Width: 10, Height: 10}))
	require.True(t, s.Init(1, &Button{Width: 10, Height: 10}))

	s.DeactivateAll()
	require.Equal(t, -1, s.FindTouched(5, 5))

	s.ActivateAll()
	require.Equal(t, 0, s.FindTouched(5, 5))
}

func TestAutorepeatSequence(t *testing.T) {
	s, _, buf, clock := newTestButtons(t)
	require.True(t, s.Init(0, &Button{
		Width: 40, Height: 20,
		Flags:      ButtonFlagAutorepeat,
		FirstDelay: 500, FirstRate: 100, FirstCount: 2, SecondRate: 50,
		Callback: 0x42,
	}))

	s.Touched(0) // press fires once and arms the delay
	require.Len(t, drainCallbacks(t, buf), 1)

	clock.fire() // first period tick 1
	clock.fire() // first period tick 2, switches to second period
	clock.fire() // second period tick
	require.Len(t, drainCallbacks(t, buf), 3)
}

func TestAutorepeatStopsOnTouchUp(t *testing.T) {
	s, _, buf, clock := newTestButtons(t)
	touchDown := true
	s.TouchActive = func() bool { return touchDown }

	require.True(t, s.Init(0, &Button{
		Width: 40, Height: 20,
		Flags:      ButtonFlagAutorepeat,
		FirstDelay: 500, FirstRate: 100, FirstCount: 1, SecondRate: 50,
		Callback: 0x42,
	}))

	s.Touched(0)
	drainCallbacks(t, buf)

	touchDown = false
	clock.fire()
	require.Empty(t, drainCallbacks(t, buf))
}

func TestAutorepeatTimingRefusedWithoutFlag(t *testing.T) {
	s, _, _, _ := newTestButtons(t)
	require.True(t, s.Init(0, &Button{Width: 10, Height: 10}))

	s.SetAutorepeatTiming(0, 500, 100, 5, 50)
	require.Equal(t, 0, s.Get(0).FirstDelay)
}

func TestGeometryClamped(t *testing.T) {
	s, _, _, _ := newTestButtons(t)
	require.True(t, s.Init(0, &Button{X: 310, Y: 230, Width: 40, Height: 20}))

	b := s.Get(0)
	require.Equal(t, 280, b.X)
	require.Equal(t, 220, b.Y)
}

func TestButtonReset(t *testing.T) {
	s, _, _, _ := newTestButtons(t)
	require.True(t, s.Init(0, &Button{Width: 10, Height: 10}))
	s.UseUpEvents = true
	s.BeepTone = 12

	s.Reset()
	require.Equal(t, 0, s.Len())
	require.False(t, s.UseUpEvents)
	require.Equal(t, DefaultBeepTone, s.BeepTone)
}
