package dispatch

import (
	"go.uber.org/zap"

	"bluedisplay/pkg/event"
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/render"
	"bluedisplay/pkg/touch"
	"bluedisplay/pkg/widget"
)

func New(rend render.Renderer, buttons *widget.Buttons, sliders *widget.Sliders,
	router *touch.Router, sender *event.Sender, logger *zap.Logger) *Dispatcher {
	w, h := rend.Size()
	return &Dispatcher{
		rend:      rend,
		buttons:   buttons,
		sliders:   sliders,
		router:    router,
		sender:    sender,
		logger:    logger,
		maxWidth:  w,
		maxHeight: h,
		charMap:   map[byte]rune{},
		writer:    newTextWriter(rend),
	}
}

// Dispatcher routes decoded commands by opcode range and owns the
// interpreter state that is not widget bound: draw defaults, the write
// terminal, the character mapping.
type Dispatcher struct {
	rend    render.Renderer
	buttons *widget.Buttons
	sliders *widget.Sliders
	router  *touch.Router
	sender  *event.Sender
	logger  *zap.Logger

	maxWidth, maxHeight int

	// defaults reused by short form draw text commands
	lastTextSize  int
	lastTextColor uint32
	lastTextBg    uint32

	charMap map[byte]rune
	writer  *textWriter

	// Beep plays a feedback tone, nil disables it.
	Beep func(tone int)
	// PromptNumber and PromptText open host side input dialogs. The result
	// goes back through the event sender.
	PromptNumber func(callback uint32, prompt string, initial *float32)
	PromptText   func(callback uint32, prompt string)
	// LockOrientation is the host hook for the orientation lock command.
	LockOrientation func(mode int)
	// OnFlush is called when the client requests the canvas to be shown.
	OnFlush func()

	sensors map[int]bool
}

// Dispatch interprets one decoded command. A panic in a handler is logged
// with the frame header instead of taking down the decode loop.
func (d *Dispatcher) Dispatch(cmd *proto.Command) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("command interpreter panic",
				zap.Uint8("opcode", cmd.Opcode),
				zap.Int("params", cmd.NArgs()),
				zap.Int("data", len(cmd.Data)),
				zap.Any("panic", rec))
		}
	}()

	op := cmd.Opcode
	switch {
	case op == proto.OpcodeNop:
		// resynchronization filler
	case op <= proto.LastDataField:
		d.logger.Error("data tag dispatched as command", zap.Uint8("opcode", op))
	case op <= proto.OpcodeLastInternal:
		d.internal(cmd)
	case op >= proto.CmdButtonCreate && op <= proto.OpcodeLastButtonWithData:
		d.button(cmd)
	case op >= proto.CmdSliderCreate && op <= proto.OpcodeLastSliderWithData:
		d.slider(cmd)
	case op >= proto.OpcodeFirstButton && op <= proto.OpcodeLastButton:
		d.button(cmd)
	case op >= proto.OpcodeFirstSlider && op <= proto.OpcodeLastSlider:
		d.slider(cmd)
	default:
		d.display(cmd)
	}
}

// ResetAll restores the power on state of every store and the interpreter
// itself.
func (d *Dispatcher) ResetAll() {
	d.buttons.Reset()
	d.sliders.Reset()
	d.router.Reset()
	d.charMap = map[byte]rune{}
	d.sensors = nil
	d.lastTextSize = 0
	d.lastTextColor = 0
	d.lastTextBg = 0
	d.writer = newTextWriter(d.rend)
	d.logger.Info("reset all")
}

func (d *Dispatcher) unknown(what string, cmd *proto.Command) {
	d.logger.Error("unknown "+what,
		zap.Uint8("opcode", cmd.Opcode), zap.Int("params", cmd.NArgs()))
}

// short widens a wire RGB565 parameter.
func short(p uint16) uint32 {
	if p == 0xFFFE {
		return render.NoBackground
	}
	return render.Expand(p)
}

// i16 reads a parameter as signed.
func i16(p uint16) int {
	return int(int16(p))
}
