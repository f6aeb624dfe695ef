package dispatch

import (
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/widget"
)

func (d *Dispatcher) button(cmd *proto.Command) {
	p := cmd.Params
	n := cmd.NArgs()

	switch cmd.Opcode {
	case proto.CmdButtonDraw:
		if n >= 1 {
			d.buttons.Draw(int(p[0]))
		}
	case proto.CmdButtonDrawCaption:
		if n >= 1 {
			d.buttons.DrawCaption(int(p[0]))
		}
	case proto.CmdButtonSettings:
		d.buttonSettings(cmd)
	case proto.CmdButtonRemove:
		if n >= 2 {
			d.buttons.Remove(int(p[0]), short(p[1]))
		}
	case proto.CmdButtonActivateAll:
		d.buttons.ActivateAll()
	case proto.CmdButtonDeactivateAll:
		d.buttons.DeactivateAll()
	case proto.CmdButtonGlobalSettings:
		d.buttonGlobalSettings(cmd)
	case proto.CmdButtonCreate:
		d.buttonInit(cmd)
	case proto.CmdButtonSetCaptionForTrue:
		if n >= 1 {
			d.buttons.SetCaption(int(p[0]), d.decodeString(cmd.Data), true, false)
		}
	case proto.CmdButtonSetCaption:
		if n >= 1 {
			d.buttons.SetCaption(int(p[0]), d.decodeString(cmd.Data), false, false)
		}
	case proto.CmdButtonSetCaptionAndDraw:
		if n >= 1 {
			d.buttons.SetCaption(int(p[0]), d.decodeString(cmd.Data), false, true)
		}
	default:
		d.unknown("button command", cmd)
	}
}

// buttonInit sniffs the protocol generation from the parameter count:
// nine parameters pack caption size and flags in one word with a 16 bit
// callback, ten split them, eleven widen the callback to 32 bits.
func (d *Dispatcher) buttonInit(cmd *proto.Command) {
	p := cmd.Params
	b := &widget.Button{
		CaptionColor: 0xFF000000,
		Caption:      d.decodeString(cmd.Data),
	}

	switch cmd.NArgs() {
	case 9:
		b.CaptionSize = int(p[6] & 0xFF)
		b.Flags = byte(p[6] >> 8)
		b.Value = uint32(p[7])
		b.Callback = uint32(p[8])
	case 10:
		b.CaptionSize = int(p[6])
		b.Flags = byte(p[7])
		b.Value = uint32(p[8])
		b.Callback = uint32(p[9])
	case 11:
		b.CaptionSize = int(p[6])
		b.Flags = byte(p[7])
		b.Value = uint32(p[8])
		b.Callback = uint32(p[9]) | uint32(p[10])<<16
	default:
		d.unknown("button init arity", cmd)
		return
	}

	b.X, b.Y = i16(p[1]), i16(p[2])
	b.Width, b.Height = int(p[3]), int(p[4])
	b.Color = short(p[5])

	d.buttons.Init(int(p[0]), b)
}

func (d *Dispatcher) buttonSettings(cmd *proto.Command) {
	p := cmd.Params
	n := cmd.NArgs()
	if n < 2 {
		d.unknown("button settings", cmd)
		return
	}
	index := int(p[0])
	sub := p[1]

	switch sub {
	case proto.ButtonSetColor, proto.ButtonSetColorAndDraw:
		if n >= 3 {
			d.buttons.SetColor(index, short(p[2]), sub == proto.ButtonSetColorAndDraw)
		}
	case proto.ButtonSetCaptionColor, proto.ButtonSetCaptionColorAndDraw:
		if n >= 3 {
			d.buttons.SetCaptionColor(index, short(p[2]), sub == proto.ButtonSetCaptionColorAndDraw)
		}
	case proto.ButtonSetValue, proto.ButtonSetValueAndDraw:
		if n >= 3 {
			d.buttons.SetValue(index, wideValue(p[2:]), sub == proto.ButtonSetValueAndDraw)
		}
	case proto.ButtonSetColorAndValue, proto.ButtonSetColorAndValueAndDraw:
		if n >= 4 {
			d.buttons.SetColor(index, short(p[2]), false)
			d.buttons.SetValue(index, wideValue(p[3:]), sub == proto.ButtonSetColorAndValueAndDraw)
		}
	case proto.ButtonSetPosition, proto.ButtonSetPositionAndDraw:
		if n >= 4 {
			d.buttons.SetPosition(index, i16(p[2]), i16(p[3]), sub == proto.ButtonSetPositionAndDraw)
		}
	case proto.ButtonSetActive:
		d.buttons.SetActive(index, true)
	case proto.ButtonResetActive:
		d.buttons.SetActive(index, false)
	case proto.ButtonSetAutorepeatTiming:
		if n >= 6 {
			d.buttons.SetAutorepeatTiming(index, int(p[2]), int(p[3]), int(p[4]), int(p[5]))
		}
	case proto.ButtonSetCallback:
		if n >= 3 {
			d.buttons.SetCallback(index, callbackAddress(p[2:]))
		}
	default:
		d.unknown("button settings subcommand", cmd)
	}
}

func (d *Dispatcher) buttonGlobalSettings(cmd *proto.Command) {
	p := cmd.Params
	if cmd.NArgs() < 1 {
		d.unknown("button global settings", cmd)
		return
	}
	flags := p[0]
	d.buttons.UseUpEvents = flags&proto.ButtonsGlobalUseUpEvents != 0
	if flags&proto.ButtonsGlobalSetBeepTone != 0 && cmd.NArgs() >= 2 {
		d.buttons.BeepTone = int(p[1])
	}
}

// wideValue reads a value that grows from 16 to 32 bits with an extra
// trailing parameter.
func wideValue(params []uint16) uint32 {
	v := uint32(params[0])
	if len(params) >= 2 {
		v |= uint32(params[1]) << 16
	}
	return v
}
