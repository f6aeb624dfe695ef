package touch

import (
	"bytes"
	"testing"
	"time"

	"go.uber.org/zap"

	"bluedisplay/pkg/event"
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/render"
	"bluedisplay/pkg/widget"
)

type fixture struct {
	router  *Router
	buttons *widget.Buttons
	sliders *widget.Sliders
	buf     *bytes.Buffer
	clock   *manualClock
	menus   int
}

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

func newFixture() *fixture {
	f := &fixture{
		buf:   &bytes.Buffer{},
		clock: &manualClock{},
	}
	logger := zap.NewNop()
	rend := render.NewCanvas(400, 300)
	sender := event.NewSender(f.buf, logger)
	f.buttons = widget.NewButtons(rend, sender, f.clock.schedule, logger)
	f.sliders = widget.NewSliders(rend, sender, logger)
	f.router = NewRouter(f.buttons, f.sliders, sender, f.clock.schedule, logger)
	f.router.Width, f.router.Height = 400, 300
	f.router.OpenMenu = func() { f.menus++ }
	f.buttons.TouchActive = f.router.Active
	return f
}

// events decodes everything sent so far and clears the buffer.
func (f *fixture) events() []proto.Event {
	var r proto.Receiver
	var out []proto.Event
	for _, b := range f.buf.Bytes() {
		r.Feed(b)
		if ev, ok := r.Poll(); ok {
			out = append(out, ev)
		}
	}
	f.buf.Reset()
	return out
}

func tags(events []proto.Event) []byte {
	out := make([]byte, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Tag)
	}
	return out
}

// TestBasicTouchSequence verifies an unclaimed gesture emits down, move and
// up events.
func TestBasicTouchSequence(t *testing.T) {
	f := newFixture()

	f.router.Handle(ActionDown, 0, 100, 100)
	f.router.Handle(ActionMove, 0, 102, 101)
	f.router.Handle(ActionUp, 0, 102, 101)

	got := tags(f.events())
	want := []byte{proto.EventTouchDown, proto.EventTouchMove, proto.EventTouchUp}
	if len(got) != len(want) {
		t.Fatalf("got tags %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got tag %#x, want %#x", i, got[i], want[i])
		}
	}
}

// TestMoveEventsRequireChange verifies repeated coordinates are not resent.
func TestMoveEventsRequireChange(t *testing.T) {
	f := newFixture()

	f.router.Handle(ActionDown, 0, 100, 100)
	f.router.Handle(ActionMove, 0, 150, 120)
	f.router.Handle(ActionMove, 0, 150, 120)

	if n := len(f.events()); n != 2 {
		t.Fatalf("got %d events, want down + one move", n)
	}
}

// TestMoveDedupResetsPerGesture verifies a new gesture resends a move even
// when it lands on the previous gesture's last sent coordinates.
func TestMoveDedupResetsPerGesture(t *testing.T) {
	f := newFixture()

	f.router.Handle(ActionDown, 0, 10, 10)
	f.router.Handle(ActionMove, 0, 50, 50)
	f.router.Handle(ActionUp, 0, 50, 50)
	f.events()

	f.router.Handle(ActionDown, 0, 100, 100)
	f.router.Handle(ActionMove, 0, 50, 50)

	got := tags(f.events())
	want := []byte{proto.EventTouchDown, proto.EventTouchMove}
	if len(got) != len(want) || got[1] != proto.EventTouchMove {
		t.Fatalf("got tags %#v, want down + move", got)
	}
}

// TestMoveDedupPerPointer verifies each pointer tracks its own last sent
// move, so one finger cannot swallow another finger's move.
func TestMoveDedupPerPointer(t *testing.T) {
	f := newFixture()

	f.router.Handle(ActionDown, 0, 100, 100)
	f.router.Handle(ActionDown, 1, 200, 200)
	f.events()

	f.router.Handle(ActionMove, 1, 150, 150)
	f.router.Handle(ActionMove, 0, 150, 150)

	moves := 0
	for _, ev := range f.events() {
		if ev.Tag == proto.EventTouchMove {
			moves++
		}
	}
	if moves != 2 {
		t.Fatalf("got %d move events, want one per pointer", moves)
	}
}

// TestButtonDownClaimsGesture verifies a button hit on down fires the
// callback and swallows the rest of the gesture.
func TestButtonDownClaimsGesture(t *testing.T) {
	f := newFixture()
	f.buttons.Init(0, &widget.Button{X: 0, Y: 0, Width: 50, Height: 50, Callback: 0x10})

	f.router.Handle(ActionDown, 0, 10, 10)
	f.router.Handle(ActionMove, 0, 20, 20)
	f.router.Handle(ActionUp, 0, 20, 20)

	evs := f.events()
	if len(evs) != 1 {
		t.Fatalf("got %d events, want only the button callback", len(evs))
	}
	if evs[0].Tag != proto.EventButtonCallback {
		t.Fatalf("got tag %#x, want button callback", evs[0].Tag)
	}
}

// TestButtonUpEventMode verifies the callback fires on up at the release
// position when up events are enabled.
func TestButtonUpEventMode(t *testing.T) {
	f := newFixture()
	f.buttons.UseUpEvents = true
	f.buttons.Init(0, &widget.Button{X: 0, Y: 0, Width: 50, Height: 50, Callback: 0x10})

	f.router.Handle(ActionDown, 0, 10, 10)
	if len(f.events()) != 0 {
		t.Fatal("down must not fire in up event mode")
	}

	f.router.Handle(ActionUp, 0, 20, 20)
	evs := f.events()
	if len(evs) != 1 || evs[0].Tag != proto.EventButtonCallback {
		t.Fatalf("got %#v, want one button callback", tags(evs))
	}
}

// TestSliderClaimsMoves verifies a gesture starting on a slider drives the
// slider for every move.
func TestSliderClaimsMoves(t *testing.T) {
	f := newFixture()
	f.sliders.Init(0, &widget.Slider{
		X: 0, Y: 0, BarWidth: 20, BarLength: 100,
		Flags: widget.SliderFlagHorizontal, Callback: 0x20,
	})

	f.router.Handle(ActionDown, 0, 10, 10)
	f.router.Handle(ActionMove, 0, 50, 10)
	f.router.Handle(ActionUp, 0, 50, 10)

	evs := f.events()
	for _, ev := range evs {
		if ev.Tag != proto.EventSliderCallback {
			t.Fatalf("got tag %#x, want only slider callbacks", ev.Tag)
		}
	}
	if len(evs) != 2 {
		t.Fatalf("got %d slider callbacks, want 2", len(evs))
	}
}

// TestSwipeDetection verifies travel beyond one percent of the width turns
// into a swipe instead of basic events.
func TestSwipeDetection(t *testing.T) {
	f := newFixture()

	f.router.Handle(ActionDown, 0, 100, 100)
	f.router.Handle(ActionUp, 0, 200, 110)

	evs := f.events()
	var swipe *event.SwipeInfo
	for _, ev := range evs {
		if sw, ok := event.AsSwipe(ev); ok {
			swipe = &sw
		}
		if ev.Tag == proto.EventTouchUp {
			t.Fatal("swipe must suppress the basic up event")
		}
	}
	if swipe == nil {
		t.Fatal("no swipe event")
	}
	if !swipe.Horizontal {
		t.Fatal("swipe should be horizontal")
	}
	if swipe.DeltaX != 100 || swipe.DeltaY != 10 {
		t.Fatalf("got delta %d/%d, want 100/10", swipe.DeltaX, swipe.DeltaY)
	}
}

// TestSwipeFromButtonNeedsMoreTravel verifies the threshold grows when the
// gesture started on a button.
func TestSwipeFromButtonNeedsMoreTravel(t *testing.T) {
	f := newFixture()
	f.buttons.UseUpEvents = true
	f.buttons.Init(0, &widget.Button{X: 0, Y: 0, Width: 50, Height: 50, Callback: 0x10})

	// release just off the button: travel over width/100 but under width/25
	f.router.Handle(ActionDown, 0, 45, 10)
	f.router.Handle(ActionUp, 0, 51, 20)

	for _, ev := range f.events() {
		if ev.Tag == proto.EventSwipeCallback {
			t.Fatal("short travel from a button must not swipe")
		}
	}

	f.router.Handle(ActionDown, 0, 45, 10)
	f.router.Handle(ActionUp, 0, 120, 10)

	found := false
	for _, ev := range f.events() {
		if ev.Tag == proto.EventSwipeCallback {
			found = true
		}
	}
	if !found {
		t.Fatal("long travel from a button must swipe")
	}
}

// TestLeftEdgeSwipeOpensMenu verifies the edge strip gesture opens the local
// menu and sends nothing.
func TestLeftEdgeSwipeOpensMenu(t *testing.T) {
	f := newFixture()

	f.router.Handle(ActionDown, 0, 1, 100)
	f.router.Handle(ActionUp, 0, 120, 102)

	if f.menus != 1 {
		t.Fatalf("got %d menu opens, want 1", f.menus)
	}
	for _, ev := range f.events() {
		if ev.Tag == proto.EventSwipeCallback {
			t.Fatal("edge gesture must not send a swipe")
		}
	}
}

// TestUpOutsideCanvasOpensMenu verifies releasing outside the canvas is the
// menu gesture.
func TestUpOutsideCanvasOpensMenu(t *testing.T) {
	f := newFixture()

	f.router.Handle(ActionDown, 0, 100, 100)
	f.router.Handle(ActionUp, 0, 500, 100)

	if f.menus != 1 {
		t.Fatalf("got %d menu opens, want 1", f.menus)
	}
}

// TestLongTouchFires verifies the armed timer reports the down coordinates
// and suppresses the following button up.
func TestLongTouchFires(t *testing.T) {
	f := newFixture()
	f.router.LongTouchEnable = true
	f.buttons.UseUpEvents = true

	f.router.Handle(ActionDown, 0, 100, 100)
	f.events()

	f.clock.fire()

	evs := f.events()
	if len(evs) != 1 || evs[0].Tag != proto.EventLongTouchDownCallback {
		t.Fatalf("got %#v, want long touch callback", tags(evs))
	}
}

// TestLongTouchCanceledByMove verifies a real move disarms the timer while
// finger jitter does not.
func TestLongTouchCanceledByMove(t *testing.T) {
	f := newFixture()
	f.router.LongTouchEnable = true

	f.router.Handle(ActionDown, 0, 100, 100)
	f.router.Handle(ActionMove, 0, 101, 101) // jitter below width/100
	f.router.Handle(ActionMove, 0, 150, 100)
	f.events()

	f.clock.fire()
	for _, ev := range f.events() {
		if ev.Tag == proto.EventLongTouchDownCallback {
			t.Fatal("moved gesture must not long touch")
		}
	}
}

// TestLongTouchSurvivesOtherPointerMove verifies only the arming finger can
// disarm the timer, a second finger moving does not.
func TestLongTouchSurvivesOtherPointerMove(t *testing.T) {
	f := newFixture()
	f.router.LongTouchEnable = true

	f.router.Handle(ActionDown, 0, 100, 100)
	f.router.Handle(ActionDown, 1, 200, 200)
	f.router.Handle(ActionMove, 1, 300, 200)
	f.events()

	f.clock.fire()

	found := false
	for _, ev := range f.events() {
		if ev.Tag == proto.EventLongTouchDownCallback {
			found = true
		}
	}
	if !found {
		t.Fatal("second finger move must not cancel the long touch")
	}
}

// TestScaleFactorApplied verifies raw coordinates divide by the scale
// factor before hit testing.
func TestScaleFactorApplied(t *testing.T) {
	f := newFixture()
	f.router.ScaleFactor = 2
	f.buttons.Init(0, &widget.Button{X: 0, Y: 0, Width: 50, Height: 50, Callback: 0x10})

	// raw 80/80 maps to 40/40, inside the button
	f.router.Handle(ActionDown, 0, 80, 80)

	evs := f.events()
	if len(evs) != 1 || evs[0].Tag != proto.EventButtonCallback {
		t.Fatalf("got %#v, want button callback", tags(evs))
	}
}

// TestRouterReset verifies reset restores the power on flags.
func TestRouterReset(t *testing.T) {
	f := newFixture()
	f.router.TouchBasicEnable = false
	f.router.LongTouchEnable = true

	f.router.Reset()
	if !f.router.TouchBasicEnable || f.router.LongTouchEnable {
		t.Fatal("reset did not restore defaults")
	}
}
