package widget

import (
	"go.uber.org/zap"

	"bluedisplay/pkg/event"
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/render"
)

// Button flag bits.
const (
	ButtonFlagBeep          = 0x01
	ButtonFlagRedGreen      = 0x02
	ButtonFlagAutorepeat    = 0x04
	ButtonFlagManualRefresh = 0x08
)

const DefaultBeepTone = 89 // keypad volume key lite

type Button struct {
	X, Y          int
	Width, Height int
	Color         uint32
	CaptionColor  uint32
	CaptionSize   int
	Flags         byte
	Value         uint32
	Callback      uint32
	Caption       string
	CaptionTrue   string
	Active        bool

	// autorepeat timing, milliseconds and counts
	FirstDelay int
	FirstRate  int
	FirstCount int
	SecondRate int
}

// EffectiveColor resolves the fixed red/green pair for two state buttons.
func (b *Button) EffectiveColor() uint32 {
	if b.Flags&ButtonFlagRedGreen != 0 {
		if b.Value != 0 {
			return ColorGreen
		}
		return ColorRed
	}
	return b.Color
}

// EffectiveCaption falls back to the base caption when no separate caption
// for the true state is set.
func (b *Button) EffectiveCaption() string {
	if b.Flags&ButtonFlagRedGreen != 0 && b.Value != 0 && b.CaptionTrue != "" {
		return b.CaptionTrue
	}
	return b.Caption
}

func (b *Button) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

func NewButtons(rend render.Renderer, sender *event.Sender, schedule Schedule, logger *zap.Logger) *Buttons {
	return &Buttons{
		rend:     rend,
		sender:   sender,
		schedule: schedule,
		logger:   logger,
		BeepTone: DefaultBeepTone,
	}
}

// Buttons is the index addressed button store plus the global button state:
// up event routing, beep tone and the single autorepeat sequence.
type Buttons struct {
	rend     render.Renderer
	sender   *event.Sender
	schedule Schedule
	logger   *zap.Logger

	list []*Button

	UseUpEvents bool
	BeepTone    int

	// Beep plays a feedback tone on the host, nil disables it.
	Beep func(tone int)
	// TouchActive reports whether the first pointer is still down, the
	// autorepeat sequence stops without it.
	TouchActive func() bool

	repeat autorepeat
}

func (s *Buttons) Len() int {
	return len(s.list)
}

// Get returns nil for an index that was never initialized.
func (s *Buttons) Get(index int) *Button {
	if index < 0 || index >= len(s.list) {
		return nil
	}
	return s.list[index]
}

// Init places a button at index: replace in place when the slot exists,
// append when index equals the current length. Anything else is refused.
func (s *Buttons) Init(index int, b *Button) bool {
	s.clampGeometry(b)
	b.Active = true
	switch {
	case index >= 0 && index < len(s.list):
		s.list[index] = b
	case index == len(s.list):
		s.list = append(s.list, b)
	default:
		s.logger.Error("button init out of sequence",
			zap.Int("index", index), zap.Int("have", len(s.list)))
		return false
	}
	return true
}

// lookup logs and refuses for missing slots, the shared guard of every
// addressed subcommand.
func (s *Buttons) lookup(index int, op string) *Button {
	b := s.Get(index)
	if b == nil {
		s.logger.Error("button not initialized",
			zap.Int("index", index), zap.String("op", op))
	}
	return b
}

func (s *Buttons) Draw(index int) {
	if b := s.lookup(index, "draw"); b != nil {
		s.draw(b)
	}
}

func (s *Buttons) draw(b *Button) {
	s.rend.FillRect(b.X, b.Y, b.X+b.Width-1, b.Y+b.Height-1, b.EffectiveColor())
	s.drawCaption(b)
}

func (s *Buttons) DrawCaption(index int) {
	if b := s.lookup(index, "draw caption"); b != nil {
		s.drawCaption(b)
	}
}

func (s *Buttons) drawCaption(b *Button) {
	caption := b.EffectiveCaption()
	if caption == "" || b.CaptionSize == 0 {
		return
	}
	placed, overflow := layoutCaption(caption, b.X, b.Y, b.Width, b.Height, b.CaptionSize)
	if overflow {
		s.logger.Warn("caption does not fit the button",
			zap.String("caption", caption),
			zap.Int("width", b.Width), zap.Int("height", b.Height))
	}
	for _, pl := range placed {
		s.rend.DrawText(pl.X, pl.Y, pl.Text, b.CaptionSize, b.CaptionColor, render.NoBackground)
	}
}

// Remove paints over the button area and deactivates the slot.
func (s *Buttons) Remove(index int, argb uint32) {
	b := s.lookup(index, "remove")
	if b == nil {
		return
	}
	s.rend.FillRect(b.X, b.Y, b.X+b.Width-1, b.Y+b.Height-1, argb)
	b.Active = false
}

func (s *Buttons) SetPosition(index, x, y int, redraw bool) {
	b := s.lookup(index, "set position")
	if b == nil {
		return
	}
	b.X, b.Y = x, y
	s.clampGeometry(b)
	if redraw {
		s.draw(b)
	}
}

func (s *Buttons) SetValue(index int, value uint32, redraw bool) {
	b := s.lookup(index, "set value")
	if b == nil {
		return
	}
	b.Value = value
	if redraw {
		s.draw(b)
	}
}

func (s *Buttons) SetColor(index int, argb uint32, redraw bool) {
	b := s.lookup(index, "set color")
	if b == nil {
		return
	}
	b.Color = argb
	if redraw {
		s.draw(b)
	}
}

func (s *Buttons) SetCaptionColor(index int, argb uint32, redraw bool) {
	b := s.lookup(index, "set caption color")
	if b == nil {
		return
	}
	b.CaptionColor = argb
	if redraw {
		s.draw(b)
	}
}

func (s *Buttons) SetCallback(index int, callback uint32) {
	if b := s.lookup(index, "set callback"); b != nil {
		b.Callback = callback
	}
}

func (s *Buttons) SetCaption(index int, caption string, forTrue bool, redraw bool) {
	b := s.lookup(index, "set caption")
	if b == nil {
		return
	}
	if forTrue {
		b.CaptionTrue = caption
	} else {
		b.Caption = caption
	}
	if redraw {
		s.draw(b)
	}
}

func (s *Buttons) SetActive(index int, active bool) {
	if b := s.lookup(index, "set active"); b != nil {
		b.Active = active
	}
}

func (s *Buttons) ActivateAll() {
	for _, b := range s.list {
		b.Active = true
	}
}

func (s *Buttons) DeactivateAll() {
	for _, b := range s.list {
		b.Active = false
	}
}

// SetAutorepeatTiming refuses buttons without the autorepeat flag.
func (s *Buttons) SetAutorepeatTiming(index, firstDelay, firstRate, firstCount, secondRate int) {
	b := s.lookup(index, "set autorepeat timing")
	if b == nil {
		return
	}
	if b.Flags&ButtonFlagAutorepeat == 0 {
		s.logger.Warn("autorepeat timing on non autorepeat button",
			zap.Int("index", index))
		return
	}
	b.FirstDelay = firstDelay
	b.FirstRate = firstRate
	b.FirstCount = firstCount
	b.SecondRate = secondRate
}

// FindTouched returns the index of the active button under the point, -1
// without a hit.
func (s *Buttons) FindTouched(x, y int) int {
	for i, b := range s.list {
		if b.Active && b.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Touched runs the full press behavior of a hit: beep, red/green toggle,
// redraw, callback event, autorepeat start.
func (s *Buttons) Touched(index int) {
	b := s.Get(index)
	if b == nil || !b.Active {
		return
	}

	if b.Flags&ButtonFlagBeep != 0 && s.Beep != nil {
		s.Beep(s.BeepTone)
	}

	if b.Flags&ButtonFlagRedGreen != 0 {
		if b.Value != 0 {
			b.Value = 0
		} else {
			b.Value = 1
		}
		if b.Flags&ButtonFlagManualRefresh == 0 {
			s.draw(b)
		}
	}

	s.fireCallback(index, b)

	if b.Flags&ButtonFlagAutorepeat != 0 {
		s.startAutorepeat(index, b)
	}
}

func (s *Buttons) fireCallback(index int, b *Button) {
	if err := s.sender.GuiCallback(proto.EventButtonCallback, index, b.Callback, b.Value); err != nil {
		s.logger.Error("button callback send failed", zap.Error(err))
	}
}

// Reset restores the power on state of the store.
func (s *Buttons) Reset() {
	s.stopAutorepeat()
	s.list = nil
	s.UseUpEvents = false
	s.BeepTone = DefaultBeepTone
}

// clampGeometry keeps the button on the canvas, warning once per fix.
func (s *Buttons) clampGeometry(b *Button) {
	w, h := s.rend.Size()
	fixed := false
	if b.X < 0 {
		b.X, fixed = 0, true
	}
	if b.Y < 0 {
		b.Y, fixed = 0, true
	}
	if b.X+b.Width > w {
		b.X, fixed = w-b.Width, true
		if b.X < 0 {
			b.X, b.Width = 0, w
		}
	}
	if b.Y+b.Height > h {
		b.Y, fixed = h-b.Height, true
		if b.Y < 0 {
			b.Y, b.Height = 0, h
		}
	}
	if fixed {
		s.logger.Warn("button outside canvas, clamped",
			zap.Int("x", b.X), zap.Int("y", b.Y),
			zap.Int("width", b.Width), zap.Int("height", b.Height))
	}
}
