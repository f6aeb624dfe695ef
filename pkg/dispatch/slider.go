package dispatch

import (
	"math"

	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/widget"
)

func (d *Dispatcher) slider(cmd *proto.Command) {
	p := cmd.Params
	n := cmd.NArgs()

	switch cmd.Opcode {
	case proto.CmdSliderDraw:
		if n >= 1 {
			d.sliders.Draw(int(p[0]))
		}
	case proto.CmdSliderSettings:
		d.sliderSettings(cmd)
	case proto.CmdSliderDrawBorder:
		if n >= 1 {
			d.sliders.DrawBorder(int(p[0]))
		}
	case proto.CmdSliderGlobalSettings:
		// reserved on the wire, nothing configurable yet
		d.logger.Debug("slider global settings ignored")
	case proto.CmdSliderRemove:
		if n >= 2 {
			d.sliders.Remove(int(p[0]), short(p[1]))
		}
	case proto.CmdSliderActivateAll:
		d.sliders.ActivateAll()
	case proto.CmdSliderDeactivateAll:
		d.sliders.DeactivateAll()
	case proto.CmdSliderCreate:
		d.sliderInit(cmd)
	case proto.CmdSliderSetCaption:
		if n >= 1 {
			d.sliders.SetCaption(int(p[0]), d.decodeString(cmd.Data))
		}
	case proto.CmdSliderPrintValue:
		if n >= 1 {
			d.sliders.PrintValue(int(p[0]), d.decodeString(cmd.Data))
		}
	case proto.CmdSliderSetValueString:
		if n >= 1 {
			d.sliders.SetValueFormat(int(p[0]), d.decodeString(cmd.Data))
		}
	default:
		d.unknown("slider command", cmd)
	}
}

// sliderInit mirrors the button init arity rule: eleven parameters carry a
// 16 bit callback, twelve widen it to 32 bits.
func (d *Dispatcher) sliderInit(cmd *proto.Command) {
	p := cmd.Params
	if cmd.NArgs() < 11 {
		d.unknown("slider init arity", cmd)
		return
	}

	sl := &widget.Slider{
		X:                  i16(p[1]),
		Y:                  i16(p[2]),
		BarWidth:           int(p[3]),
		BarLength:          int(p[4]),
		Threshold:          int(p[5]),
		Value:              int(p[6]),
		ColorBar:           short(p[7]),
		ColorBarBackground: short(p[8]),
		ColorBorder:        short(p[8]),
		ColorThreshold:     widget.ColorRed,
		Flags:              byte(p[9]),
		Callback:           callbackAddress(p[10:]),
	}
	if caption := d.decodeString(cmd.Data); caption != "" {
		sl.Caption = caption
	}

	d.sliders.Init(int(p[0]), sl)
}

func (d *Dispatcher) sliderSettings(cmd *proto.Command) {
	p := cmd.Params
	n := cmd.NArgs()
	if n < 2 {
		d.unknown("slider settings", cmd)
		return
	}
	index := int(p[0])
	sub := byte(p[1])

	switch sub {
	case proto.SliderSetColorThreshold, proto.SliderSetColorBarBackground, proto.SliderSetColorBar:
		if n >= 3 {
			d.sliders.SetColor(index, sub, short(p[2]))
		}
	case proto.SliderSetValueAndDrawBar:
		if n >= 3 {
			d.sliders.SetValueAndDraw(index, i16(p[2]))
		}
	case proto.SliderSetPosition:
		if n >= 4 {
			d.sliders.SetPosition(index, i16(p[2]), i16(p[3]))
		}
	case proto.SliderSetActive:
		d.sliders.SetActive(index, true)
	case proto.SliderResetActive:
		d.sliders.SetActive(index, false)
	case proto.SliderSetScaleFactor:
		if n >= 4 {
			// float packed into two words
			bits := uint32(p[2]) | uint32(p[3])<<16
			d.sliders.SetScaleFactor(index, float64(math.Float32frombits(bits)))
		}
	case proto.SliderSetValueFormat:
		// format string arrives via the data block opcode instead
		d.unknown("slider value format via settings", cmd)
	case proto.SliderSetCallback:
		if n >= 3 {
			d.sliders.SetCallback(index, callbackAddress(p[2:]))
		}
	case proto.SliderSetFlags:
		if n >= 3 {
			d.sliders.SetFlags(index, byte(p[2]))
		}
	case proto.SliderSetCaptionProperties:
		if n >= 7 {
			d.sliders.SetCaptionProperties(index, textProps(p[2:]))
		}
	case proto.SliderSetPrintValueProperties:
		if n >= 7 {
			d.sliders.SetPrintValueProperties(index, textProps(p[2:]))
		}
	default:
		d.unknown("slider settings subcommand", cmd)
	}
}

// textProps unpacks size, margin, alignment and colors.
func textProps(p []uint16) widget.TextProps {
	return widget.TextProps{
		Size:    int(p[0]),
		Margin:  int(p[1]),
		Align:   int(p[2]),
		Color:   short(p[3]),
		BgColor: short(p[4]),
	}
}
