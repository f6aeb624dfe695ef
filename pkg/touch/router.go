package touch

import (
	"time"

	"go.uber.org/zap"

	"bluedisplay/pkg/event"
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/widget"
)

// MaxPointer bounds how many simultaneous fingers are tracked.
const MaxPointer = 5

// DefaultLongTouchTimeout is used until the client configures its own.
const DefaultLongTouchTimeout = 800 * time.Millisecond

type Action int

const (
	ActionDown Action = iota
	ActionMove
	ActionUp
	ActionCancel
)

type pointer struct {
	active bool

	downX, downY int
	lastX, lastY int

	// last move coordinates sent for this pointer, dedups repeated moves
	sentX, sentY int

	// claims made on the down event
	sliderIndex     int
	startedOnButton bool
	skipUntilUp     bool

	// set after a recognized swipe, everything further from this pointer
	// is ignored until it lifts
	suppressed bool
}

func NewRouter(buttons *widget.Buttons, sliders *widget.Sliders, sender *event.Sender,
	schedule widget.Schedule, logger *zap.Logger) *Router {
	r := &Router{
		buttons:          buttons,
		sliders:          sliders,
		sender:           sender,
		schedule:         schedule,
		logger:           logger,
		ScaleFactor:      1,
		TouchBasicEnable: true,
		TouchMoveEnable:  true,
		LongTouchTimeout: DefaultLongTouchTimeout,
	}
	for i := range r.pointers {
		r.pointers[i] = pointer{sliderIndex: -1, sentX: -1, sentY: -1}
	}
	return r
}

// Router turns raw pointer input into widget hits, swipes, long touches and
// basic touch events.
type Router struct {
	buttons  *widget.Buttons
	sliders  *widget.Sliders
	sender   *event.Sender
	schedule widget.Schedule
	logger   *zap.Logger

	// canvas size in scaled units
	Width, Height int
	// raw input divides by this before hit testing
	ScaleFactor float64

	TouchBasicEnable bool
	TouchMoveEnable  bool
	LongTouchEnable  bool
	LongTouchTimeout time.Duration

	// OpenMenu is called for the local gestures: up outside the canvas and
	// the left edge swipe.
	OpenMenu func()

	pointers [MaxPointer]pointer

	longTouchCancel func()
	longTouchIndex  int
	longTouchSent   bool
	disableButtonUp bool
}

// Active reports whether the first pointer is down, the autorepeat sequence
// polls it.
func (r *Router) Active() bool {
	return r.pointers[0].active
}

// Handle feeds one raw pointer event.
func (r *Router) Handle(action Action, index int, rawX, rawY float64) {
	if index < 0 || index >= MaxPointer {
		return
	}
	x := int(rawX/r.ScaleFactor + 0.5)
	y := int(rawY/r.ScaleFactor + 0.5)

	switch action {
	case ActionDown:
		r.down(index, x, y)
	case ActionMove:
		r.move(index, x, y)
	case ActionUp:
		r.up(index, x, y)
	case ActionCancel:
		r.resetTouchFlags(0)
	}
}

func (r *Router) down(index, x, y int) {
	p := &r.pointers[index]
	p.active = true
	p.downX, p.downY = x, y
	p.lastX, p.lastY = x, y
	p.sentX, p.sentY = -1, -1
	p.suppressed = false
	p.skipUntilUp = false
	p.startedOnButton = false
	p.sliderIndex = -1

	if si := r.sliders.FindTouched(x, y); si >= 0 {
		p.sliderIndex = si
		r.sliders.Touched(si, x, y)
		return
	}

	if bi := r.buttons.FindTouched(x, y); bi >= 0 {
		p.startedOnButton = true
		if !r.buttons.UseUpEvents {
			r.buttons.Touched(bi)
			p.skipUntilUp = true
		}
		return
	}

	// empty canvas under the finger
	if index == 0 && r.LongTouchEnable && r.longTouchCancel == nil && !r.longTouchSent {
		r.armLongTouch(index, x, y)
	}

	if r.TouchBasicEnable {
		r.send(proto.EventTouchDown, x, y)
	}
}

func (r *Router) move(index, x, y int) {
	p := &r.pointers[index]
	if !p.active || p.suppressed {
		return
	}

	// a real move of the arming finger cancels a pending long touch,
	// jitter and other fingers do not
	if r.longTouchCancel != nil && index == r.longTouchIndex && !r.microMove(p, x, y) {
		r.cancelLongTouch()
	}

	if p.skipUntilUp {
		p.lastX, p.lastY = x, y
		return
	}

	if p.sliderIndex >= 0 {
		r.sliders.Touched(p.sliderIndex, x, y)
		p.lastX, p.lastY = x, y
		return
	}

	if r.TouchBasicEnable && r.TouchMoveEnable && (x != p.sentX || y != p.sentY) {
		if r.send(proto.EventTouchMove, x, y) {
			p.sentX, p.sentY = x, y
		}
	}
	p.lastX, p.lastY = x, y
}

func (r *Router) up(index, x, y int) {
	p := &r.pointers[index]
	if !p.active {
		return
	}

	if index == 0 {
		r.cancelLongTouch()
	}

	if p.suppressed {
		r.resetTouchFlags(index)
		return
	}

	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		r.menu()
		r.resetTouchFlags(index)
		return
	}

	if p.skipUntilUp {
		r.resetTouchFlags(index)
		return
	}

	if p.sliderIndex < 0 && r.buttons.UseUpEvents && p.startedOnButton {
		if r.disableButtonUp {
			// a long touch already fired for this gesture
		} else if bi := r.buttons.FindTouched(x, y); bi >= 0 {
			r.buttons.Touched(bi)
			r.resetTouchFlags(index)
			return
		}
	}

	if p.sliderIndex < 0 && r.detectSwipe(p, index, x, y) {
		r.resetTouchFlags(index)
		return
	}

	if p.sliderIndex < 0 && !p.startedOnButton && r.TouchBasicEnable {
		r.send(proto.EventTouchUp, x, y)
	}
	r.resetTouchFlags(index)
}

// detectSwipe checks the travel against the thresholds and reports the
// swipe. A start in the left edge strip opens the local menu instead.
func (r *Router) detectSwipe(p *pointer, index, x, y int) bool {
	dx := x - p.downX
	dy := y - p.downY

	threshold := r.Width / 100
	if p.startedOnButton {
		threshold = r.Width / 25
	}
	if threshold < 1 {
		threshold = 1
	}

	if abs(dx) < threshold && abs(dy) < threshold {
		return false
	}

	if p.downX < r.Width/100 && dx > r.Width/50 && dx > 5*abs(dy) {
		r.menu()
		p.suppressed = true
		return true
	}

	horizontal := abs(dx) >= abs(dy)
	if err := r.sender.Swipe(horizontal, p.downX, p.downY, dx, dy); err != nil {
		r.logger.Error("swipe send failed", zap.Error(err))
	}
	p.suppressed = true
	return true
}

func (r *Router) armLongTouch(index, x, y int) {
	if r.schedule == nil {
		return
	}
	r.longTouchIndex = index
	r.longTouchCancel = r.schedule(r.LongTouchTimeout, func() {
		r.longTouchCancel = nil
		r.longTouchSent = true
		r.disableButtonUp = true
		if err := r.sender.LongTouchDown(x, y, 0); err != nil {
			r.logger.Error("long touch send failed", zap.Error(err))
		}
	})
}

func (r *Router) cancelLongTouch() {
	if r.longTouchCancel != nil {
		r.longTouchCancel()
		r.longTouchCancel = nil
	}
}

// microMove is finger jitter below one percent of the canvas width.
func (r *Router) microMove(p *pointer, x, y int) bool {
	limit := r.Width / 100
	if limit < 1 {
		limit = 1
	}
	return abs(x-p.downX) < limit && abs(y-p.downY) < limit
}

// resetTouchFlags clears one slot. The first pointer going up ends the whole
// gesture, so index 0 clears every slot and the long touch latches.
func (r *Router) resetTouchFlags(index int) {
	if index == 0 {
		for i := range r.pointers {
			r.pointers[i] = pointer{sliderIndex: -1, sentX: -1, sentY: -1}
		}
		r.cancelLongTouch()
		r.longTouchSent = false
		r.disableButtonUp = false
		return
	}
	r.pointers[index] = pointer{sliderIndex: -1, sentX: -1, sentY: -1}
}

// Reset restores the power on defaults of the router.
func (r *Router) Reset() {
	r.resetTouchFlags(0)
	r.TouchBasicEnable = true
	r.TouchMoveEnable = true
	r.LongTouchEnable = false
	r.LongTouchTimeout = DefaultLongTouchTimeout
}

func (r *Router) send(tag byte, x, y int) bool {
	if err := r.sender.Touch(tag, x, y); err != nil {
		r.logger.Error("touch send failed", zap.Error(err))
		return false
	}
	return true
}

func (r *Router) menu() {
	if r.OpenMenu != nil {
		r.OpenMenu()
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
