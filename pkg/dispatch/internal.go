package dispatch

import (
	"math"
	"time"

	"go.uber.org/zap"

	"bluedisplay/pkg/proto"
)

func (d *Dispatcher) internal(cmd *proto.Command) {
	switch cmd.Opcode {
	case proto.CmdGlobalSettings:
		d.globalSettings(cmd)
	case proto.CmdRequestMaxCanvas:
		if err := d.sender.CanvasSize(d.maxWidth, d.maxHeight, time.Now()); err != nil {
			d.logger.Error("canvas size send failed", zap.Error(err))
		}
	case proto.CmdSensorSettings:
		d.sensorSettings(cmd)
	case proto.CmdGetNumber:
		d.getNumber(cmd, "")
	case proto.CmdGetText:
		d.getText(cmd, "")
	case proto.CmdGetInfo:
		d.getInfo(cmd)
	case proto.CmdPlayTone:
		tone := -1
		if cmd.NArgs() > 0 {
			tone = int(cmd.Params[0])
		}
		if d.Beep != nil {
			d.Beep(tone)
		}
	default:
		d.unknown("internal command", cmd)
	}
}

func (d *Dispatcher) globalSettings(cmd *proto.Command) {
	if cmd.NArgs() < 1 {
		d.unknown("global settings", cmd)
		return
	}
	switch cmd.Params[0] {
	case proto.SubFlagsAndSize:
		d.flagsAndSize(cmd)
	case proto.SubSetCodepage:
		d.setCodepage(cmd)
	case proto.SubSetCharacterMapping:
		if cmd.NArgs() >= 3 {
			d.charMap[byte(cmd.Params[1])] = rune(cmd.Params[2])
		}
	case proto.SubSetLongTouchTimeout:
		if cmd.NArgs() >= 2 {
			d.router.LongTouchEnable = true
			d.router.LongTouchTimeout = time.Duration(cmd.Params[1]) * time.Millisecond
		}
	case proto.SubSetOrientationLock:
		if cmd.NArgs() >= 2 && d.LockOrientation != nil {
			d.LockOrientation(int(cmd.Params[1]))
		}
	default:
		d.unknown("global settings subcommand", cmd)
	}
}

func (d *Dispatcher) flagsAndSize(cmd *proto.Command) {
	if cmd.NArgs() < 4 {
		d.unknown("flags and size", cmd)
		return
	}
	flags := cmd.Params[1]

	if flags&proto.FlagResetAll != 0 {
		d.ResetAll()
	}
	d.router.TouchBasicEnable = flags&proto.FlagTouchBasicDisable == 0
	d.router.TouchMoveEnable = flags&proto.FlagTouchMoveDisable == 0
	d.router.LongTouchEnable = flags&proto.FlagLongTouchEnable != 0

	width, height := int(cmd.Params[2]), int(cmd.Params[3])
	if flags&proto.FlagUseMaxSize != 0 {
		width, height = d.maxWidth, d.maxHeight
	}
	if width > d.maxWidth {
		width = d.maxWidth
	}
	if height > d.maxHeight {
		height = d.maxHeight
	}
	d.rend.Resize(width, height)
	d.router.Width, d.router.Height = width, height

	d.logger.Info("canvas configured",
		zap.Int("width", width), zap.Int("height", height),
		zap.Uint16("flags", flags))
}

// setCodepage maps the upper byte range onto a unicode page.
func (d *Dispatcher) setCodepage(cmd *proto.Command) {
	if cmd.NArgs() < 2 {
		return
	}
	base := rune(cmd.Params[1])
	for i := 0x80; i <= 0xFF; i++ {
		d.charMap[byte(i)] = base + rune(i-0x80)
	}
}

func (d *Dispatcher) sensorSettings(cmd *proto.Command) {
	if cmd.NArgs() < 2 {
		d.unknown("sensor settings", cmd)
		return
	}
	if d.sensors == nil {
		d.sensors = map[int]bool{}
	}
	sensorType := int(cmd.Params[0])
	enable := cmd.Params[1] != 0
	d.sensors[sensorType] = enable
	d.logger.Info("sensor settings",
		zap.Int("type", sensorType), zap.Bool("enable", enable))
}

// SensorEnabled tells the host glue whether to forward samples of a type.
func (d *Dispatcher) SensorEnabled(sensorType int) bool {
	return d.sensors[sensorType]
}

// getNumber opens a number dialog. The callback address width depends on
// the parameter count, an optional float initial value trails it.
func (d *Dispatcher) getNumber(cmd *proto.Command, prompt string) {
	if cmd.NArgs() < 1 {
		d.unknown("get number", cmd)
		return
	}
	// an even parameter count means a 32 bit callback address, an odd one
	// the 16 bit legacy form
	callback := uint32(cmd.Params[0])
	rest := cmd.Params[1:]
	if cmd.NArgs()%2 == 0 {
		callback |= uint32(cmd.Params[1]) << 16
		rest = cmd.Params[2:]
	}

	var initial *float32
	if len(rest) >= 2 {
		bits := uint32(rest[0]) | uint32(rest[1])<<16
		v := math.Float32frombits(bits)
		initial = &v
	}

	if d.PromptNumber == nil {
		d.logger.Warn("number dialog requested without prompt handler")
		return
	}
	d.PromptNumber(callback, prompt, initial)
}

func (d *Dispatcher) getText(cmd *proto.Command, prompt string) {
	if cmd.NArgs() < 1 {
		d.unknown("get text", cmd)
		return
	}
	callback := callbackAddress(cmd.Params)

	if d.PromptText == nil {
		d.logger.Warn("text dialog requested without prompt handler")
		return
	}
	d.PromptText(callback, prompt)
}

func (d *Dispatcher) getInfo(cmd *proto.Command) {
	if cmd.NArgs() < 1 {
		d.unknown("get info", cmd)
		return
	}
	sub := byte(cmd.Params[0])

	var t time.Time
	switch sub {
	case proto.InfoLocalTime:
		t = time.Now()
	case proto.InfoUtcTime:
		t = time.Now().UTC()
	default:
		d.unknown("get info subcommand", cmd)
		return
	}

	if err := d.sender.Info(sub, byte(t.Weekday()), uint16(t.Year()), packTime(t)); err != nil {
		d.logger.Error("info send failed", zap.Error(err))
	}
}

// packTime squeezes a timestamp into 32 bits: 6 bits each for second,
// minute and year offset from 1970, 5 for hour and day, 4 for month.
func packTime(t time.Time) uint32 {
	return uint32(t.Second()) |
		uint32(t.Minute())<<6 |
		uint32(t.Hour())<<12 |
		uint32(t.Day())<<17 |
		uint32(t.Month())<<22 |
		uint32(t.Year()-1970)<<26
}

// callbackAddress sniffs the handler address width: one parameter is a
// 16 bit address, two extend it to 32 bits.
func callbackAddress(params []uint16) uint32 {
	cb := uint32(params[0])
	if len(params) >= 2 {
		cb |= uint32(params[1]) << 16
	}
	return cb
}
