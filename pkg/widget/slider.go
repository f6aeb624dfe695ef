package widget

import (
	"fmt"

	"go.uber.org/zap"

	"bluedisplay/pkg/event"
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/render"
)

// Slider flag bits.
const (
	SliderFlagShowBorder      = 0x01
	SliderFlagShowValue       = 0x02
	SliderFlagHorizontal      = 0x04
	SliderFlagInverse         = 0x08
	SliderFlagValueByCallback = 0x10
	SliderFlagOnlyOutput      = 0x20
)

// TextProps style a text attached to a slider, the caption or the printed
// value.
type TextProps struct {
	Size    int
	Margin  int
	Align   int
	Color   uint32
	BgColor uint32
}

type Slider struct {
	X, Y      int
	BarWidth  int // thickness across the slide direction
	BarLength int
	Threshold int
	Value     int

	ColorBorder        uint32
	ColorBar           uint32
	ColorBarBackground uint32
	ColorThreshold     uint32

	Flags       byte
	Callback    uint32
	ScaleFactor float64
	Caption     string
	ValueFormat string
	Active      bool

	CaptionProps TextProps
	ValueProps   TextProps
}

func (s *Slider) horizontal() bool {
	return s.Flags&SliderFlagHorizontal != 0
}

// borderSize is the border thickness on each side when the border is shown.
func (s *Slider) borderSize() int {
	if s.Flags&SliderFlagShowBorder == 0 {
		return 0
	}
	return s.BarWidth / 4
}

// barOrigin is the upper left corner of the bar itself, inside the border.
func (s *Slider) barOrigin() (int, int) {
	b := s.borderSize()
	return s.X + b, s.Y + b
}

// Contains tests the whole slider area including the border.
func (s *Slider) Contains(x, y int) bool {
	b := s.borderSize()
	w, h := s.BarWidth, s.BarLength
	if s.horizontal() {
		w, h = s.BarLength, s.BarWidth
	}
	return x >= s.X && x < s.X+w+2*b && y >= s.Y && y < s.Y+h+2*b
}

// valueFromTouch maps a touch position to bar pixels, honoring direction
// and the inverse flag.
func (s *Slider) valueFromTouch(x, y int) int {
	bx, by := s.barOrigin()
	var rel int
	if s.horizontal() {
		rel = x - bx
	} else {
		// vertical sliders grow from the bottom up
		rel = by + s.BarLength - y
	}
	if s.Flags&SliderFlagInverse != 0 {
		rel = s.BarLength - rel
	}
	if rel < 0 {
		rel = 0
	}
	if rel > s.BarLength {
		rel = s.BarLength
	}
	return rel
}

func NewSliders(rend render.Renderer, sender *event.Sender, logger *zap.Logger) *Sliders {
	return &Sliders{rend: rend, sender: sender, logger: logger}
}

// Sliders is the index addressed slider store, the structural sibling of
// Buttons.
type Sliders struct {
	rend   render.Renderer
	sender *event.Sender
	logger *zap.Logger

	list []*Slider
}

func (s *Sliders) Len() int {
	return len(s.list)
}

func (s *Sliders) Get(index int) *Slider {
	if index < 0 || index >= len(s.list) {
		return nil
	}
	return s.list[index]
}

func (s *Sliders) Init(index int, sl *Slider) bool {
	if sl.ScaleFactor == 0 {
		sl.ScaleFactor = 1
	}
	sl.Active = true
	switch {
	case index >= 0 && index < len(s.list):
		s.list[index] = sl
	case index == len(s.list):
		s.list = append(s.list, sl)
	default:
		s.logger.Error("slider init out of sequence",
			zap.Int("index", index), zap.Int("have", len(s.list)))
		return false
	}
	return true
}

func (s *Sliders) lookup(index int, op string) *Slider {
	sl := s.Get(index)
	if sl == nil {
		s.logger.Error("slider not initialized",
			zap.Int("index", index), zap.String("op", op))
	}
	return sl
}

func (s *Sliders) Draw(index int) {
	if sl := s.lookup(index, "draw"); sl != nil {
		s.draw(sl)
	}
}

func (s *Sliders) draw(sl *Slider) {
	if sl.Flags&SliderFlagShowBorder != 0 {
		s.drawBorder(sl)
	}
	s.drawBar(sl)
	if sl.Caption != "" && sl.CaptionProps.Size > 0 {
		s.drawCaption(sl)
	}
	if sl.Flags&SliderFlagShowValue != 0 && sl.ValueProps.Size > 0 {
		s.printValue(sl, s.formatValue(sl))
	}
}

func (s *Sliders) DrawBorder(index int) {
	if sl := s.lookup(index, "draw border"); sl != nil {
		s.drawBorder(sl)
	}
}

func (s *Sliders) drawBorder(sl *Slider) {
	b := sl.borderSize()
	w, h := sl.BarWidth, sl.BarLength
	if sl.horizontal() {
		w, h = sl.BarLength, sl.BarWidth
	}
	s.rend.FillRect(sl.X, sl.Y, sl.X+w+2*b-1, sl.Y+h+2*b-1, sl.ColorBorder)
}

// drawBar paints background and filled part. The fill color switches when
// the value crosses the threshold.
func (s *Sliders) drawBar(sl *Slider) {
	bx, by := sl.barOrigin()

	fill := sl.ColorBar
	if sl.Threshold > 0 && sl.Value >= sl.Threshold {
		fill = sl.ColorThreshold
	}

	v := sl.Value
	if v < 0 {
		v = 0
	}
	if v > sl.BarLength {
		v = sl.BarLength
	}

	if sl.horizontal() {
		s.rend.FillRect(bx, by, bx+sl.BarLength-1, by+sl.BarWidth-1, sl.ColorBarBackground)
		if v > 0 {
			if sl.Flags&SliderFlagInverse != 0 {
				s.rend.FillRect(bx+sl.BarLength-v, by, bx+sl.BarLength-1, by+sl.BarWidth-1, fill)
			} else {
				s.rend.FillRect(bx, by, bx+v-1, by+sl.BarWidth-1, fill)
			}
		}
		return
	}

	s.rend.FillRect(bx, by, bx+sl.BarWidth-1, by+sl.BarLength-1, sl.ColorBarBackground)
	if v > 0 {
		if sl.Flags&SliderFlagInverse != 0 {
			s.rend.FillRect(bx, by, bx+sl.BarWidth-1, by+v-1, fill)
		} else {
			s.rend.FillRect(bx, by+sl.BarLength-v, bx+sl.BarWidth-1, by+sl.BarLength-1, fill)
		}
	}
}

func (s *Sliders) drawCaption(sl *Slider) {
	p := sl.CaptionProps
	x, y := s.textAnchor(sl, p)
	s.rend.DrawText(x, y, sl.Caption, p.Size, p.Color, p.BgColor)
}

func (s *Sliders) formatValue(sl *Slider) string {
	format := sl.ValueFormat
	if format == "" {
		format = "%d"
	}
	return fmt.Sprintf(format, int(float64(sl.Value)*sl.ScaleFactor))
}

// PrintValue draws an explicit value string sent by the client.
func (s *Sliders) PrintValue(index int, text string) {
	if sl := s.lookup(index, "print value"); sl != nil {
		s.printValue(sl, text)
	}
}

func (s *Sliders) printValue(sl *Slider, text string) {
	p := sl.ValueProps
	x, y := s.textAnchor(sl, p)
	s.rend.DrawText(x, y, text, p.Size, p.Color, p.BgColor)
}

// textAnchor places caption or value text under the slider, aligned left,
// middle or right of the bar.
func (s *Sliders) textAnchor(sl *Slider, p TextProps) (int, int) {
	b := sl.borderSize()
	w, h := sl.BarWidth, sl.BarLength
	if sl.horizontal() {
		w, h = sl.BarLength, sl.BarWidth
	}
	w += 2 * b
	h += 2 * b

	x := sl.X
	switch p.Align {
	case 1: // middle
		x = sl.X + w/2
	case 2: // right
		x = sl.X + w
	}
	return x, sl.Y + h + p.Margin
}

func (s *Sliders) Remove(index int, argb uint32) {
	sl := s.lookup(index, "remove")
	if sl == nil {
		return
	}
	b := sl.borderSize()
	w, h := sl.BarWidth, sl.BarLength
	if sl.horizontal() {
		w, h = sl.BarLength, sl.BarWidth
	}
	s.rend.FillRect(sl.X, sl.Y, sl.X+w+2*b-1, sl.Y+h+2*b-1, argb)
	sl.Active = false
}

func (s *Sliders) SetPosition(index, x, y int) {
	if sl := s.lookup(index, "set position"); sl != nil {
		sl.X, sl.Y = x, y
	}
}

func (s *Sliders) SetValueAndDraw(index, value int) {
	sl := s.lookup(index, "set value")
	if sl == nil {
		return
	}
	sl.Value = value
	s.drawBar(sl)
	if sl.Flags&SliderFlagShowValue != 0 && sl.ValueProps.Size > 0 {
		s.printValue(sl, s.formatValue(sl))
	}
}

func (s *Sliders) SetColor(index int, sub byte, argb uint32) {
	sl := s.lookup(index, "set color")
	if sl == nil {
		return
	}
	switch sub {
	case proto.SliderSetColorThreshold:
		sl.ColorThreshold = argb
	case proto.SliderSetColorBarBackground:
		sl.ColorBarBackground = argb
	case proto.SliderSetColorBar:
		sl.ColorBar = argb
	}
}

func (s *Sliders) SetCallback(index int, callback uint32) {
	if sl := s.lookup(index, "set callback"); sl != nil {
		sl.Callback = callback
	}
}

func (s *Sliders) SetFlags(index int, flags byte) {
	if sl := s.lookup(index, "set flags"); sl != nil {
		sl.Flags = flags
	}
}

func (s *Sliders) SetScaleFactor(index int, factor float64) {
	sl := s.lookup(index, "set scale factor")
	if sl == nil {
		return
	}
	if factor == 0 {
		factor = 1
	}
	sl.ScaleFactor = factor
}

func (s *Sliders) SetCaption(index int, caption string) {
	if sl := s.lookup(index, "set caption"); sl != nil {
		sl.Caption = caption
	}
}

func (s *Sliders) SetValueFormat(index int, format string) {
	if sl := s.lookup(index, "set value format"); sl != nil {
		sl.ValueFormat = format
	}
}

func (s *Sliders) SetCaptionProperties(index int, p TextProps) {
	if sl := s.lookup(index, "set caption properties"); sl != nil {
		sl.CaptionProps = p
	}
}

func (s *Sliders) SetPrintValueProperties(index int, p TextProps) {
	if sl := s.lookup(index, "set print value properties"); sl != nil {
		sl.ValueProps = p
	}
}

func (s *Sliders) SetActive(index int, active bool) {
	if sl := s.lookup(index, "set active"); sl != nil {
		sl.Active = active
	}
}

func (s *Sliders) ActivateAll() {
	for _, sl := range s.list {
		sl.Active = true
	}
}

func (s *Sliders) DeactivateAll() {
	for _, sl := range s.list {
		sl.Active = false
	}
}

// FindTouched returns the index of the active touchable slider under the
// point, -1 without a hit.
func (s *Sliders) FindTouched(x, y int) int {
	for i, sl := range s.list {
		if sl.Active && sl.Flags&SliderFlagOnlyOutput == 0 && sl.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Touched maps the touch position to a value, updates the bar unless the
// client drives it by callback, and fires the slider callback.
func (s *Sliders) Touched(index, x, y int) {
	sl := s.Get(index)
	if sl == nil || !sl.Active {
		return
	}

	value := sl.valueFromTouch(x, y)

	if sl.Flags&SliderFlagValueByCallback == 0 {
		if value != sl.Value {
			sl.Value = value
			s.drawBar(sl)
			if sl.Flags&SliderFlagShowValue != 0 && sl.ValueProps.Size > 0 {
				s.printValue(sl, s.formatValue(sl))
			}
		}
	}

	wire := uint32(float64(value) * sl.ScaleFactor)
	if err := s.sender.GuiCallback(proto.EventSliderCallback, index, sl.Callback, wire); err != nil {
		s.logger.Error("slider callback send failed", zap.Error(err))
	}
}

// Reset restores the power on state of the store.
func (s *Sliders) Reset() {
	s.list = nil
}
