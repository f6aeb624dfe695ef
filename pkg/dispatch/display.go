package dispatch

import (
	"encoding/binary"
	"image"
	"math"

	"go.uber.org/zap"

	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/render"
)

func (d *Dispatcher) display(cmd *proto.Command) {
	p := cmd.Params
	n := cmd.NArgs()

	switch cmd.Opcode {
	case proto.CmdClearDisplay, proto.CmdClearDisplayOptional:
		if n >= 1 {
			d.rend.Clear(short(p[0]))
		}
	case proto.CmdDrawDisplay:
		if d.OnFlush != nil {
			d.OnFlush()
		}
	case proto.CmdDrawPixel:
		if n >= 3 {
			d.rend.DrawPixel(i16(p[0]), i16(p[1]), short(p[2]))
		}
	case proto.CmdDrawChar:
		d.drawChar(cmd)
	case proto.CmdDrawLine:
		if n >= 5 {
			d.rend.DrawLine(i16(p[0]), i16(p[1]), i16(p[2]), i16(p[3]), short(p[4]))
		}
	case proto.CmdDrawLineRel:
		if n >= 5 {
			x, y := i16(p[0]), i16(p[1])
			d.rend.DrawLine(x, y, x+i16(p[2]), y+i16(p[3]), short(p[4]))
		}
	case proto.CmdDrawRect:
		if n >= 5 {
			d.rend.DrawRect(i16(p[0]), i16(p[1]), i16(p[2]), i16(p[3]), short(p[4]))
		}
	case proto.CmdFillRect:
		if n >= 5 {
			d.rend.FillRect(i16(p[0]), i16(p[1]), i16(p[2]), i16(p[3]), short(p[4]))
		}
	case proto.CmdDrawRectRel:
		if n >= 5 {
			x, y := i16(p[0]), i16(p[1])
			d.rend.DrawRect(x, y, x+i16(p[2])-1, y+i16(p[3])-1, short(p[4]))
		}
	case proto.CmdFillRectRel:
		if n >= 5 {
			x, y := i16(p[0]), i16(p[1])
			d.rend.FillRect(x, y, x+i16(p[2])-1, y+i16(p[3])-1, short(p[4]))
		}
	case proto.CmdDrawCircle:
		if n >= 4 {
			d.rend.DrawCircle(i16(p[0]), i16(p[1]), i16(p[2]), short(p[3]))
		}
	case proto.CmdFillCircle:
		if n >= 4 {
			d.rend.FillCircle(i16(p[0]), i16(p[1]), i16(p[2]), short(p[3]))
		}
	case proto.CmdDrawVectorDegree:
		if n >= 5 {
			radian := float64(i16(p[3])) * math.Pi / 180
			d.rend.DrawVector(i16(p[0]), i16(p[1]), float64(i16(p[2])), radian, short(p[4]))
		}
	case proto.CmdDrawVectorRadian:
		if n >= 6 {
			radian := float64(math.Float32frombits(uint32(p[2]) | uint32(p[3])<<16))
			d.rend.DrawVector(i16(p[0]), i16(p[1]), float64(i16(p[4])), radian, short(p[5]))
		}
	case proto.CmdWriteSettings:
		d.writeSettings(cmd)
	case proto.CmdDrawString:
		d.drawString(cmd)
	case proto.CmdDebugString:
		d.logger.Info("client debug", zap.String("text", d.decodeString(cmd.Data)))
	case proto.CmdWriteString:
		d.writer.Write(d.decodeString(cmd.Data))
	case proto.CmdGetNumberWithShortPrompt:
		d.getNumber(cmd, d.decodeString(cmd.Data))
	case proto.CmdGetTextWithShortPrompt:
		d.getText(cmd, d.decodeString(cmd.Data))
	case proto.CmdDrawPath:
		if n >= 1 {
			d.rend.DrawPath(decodePath(cmd.Data), short(p[0]))
		}
	case proto.CmdFillPath:
		if n >= 1 {
			d.rend.FillPath(decodePath(cmd.Data), short(p[0]))
		}
	case proto.CmdDrawChart, proto.CmdDrawChartNoRender:
		// decoded for stream integrity, not rendered
		d.logger.Debug("chart data ignored", zap.Int("bytes", len(cmd.Data)))
	default:
		d.unknown("display command", cmd)
	}
}

func (d *Dispatcher) drawChar(cmd *proto.Command) {
	p := cmd.Params
	if cmd.NArgs() < 3 {
		d.unknown("draw char", cmd)
		return
	}
	x, y := i16(p[0]), i16(p[1])
	text := string(rune(p[2]))

	size, color, bg := d.lastTextSize, d.lastTextColor, d.lastTextBg
	if cmd.NArgs() >= 6 {
		size, color, bg = int(p[3]), short(p[4]), short(p[5])
		d.lastTextSize, d.lastTextColor, d.lastTextBg = size, color, bg
	}
	if size == 0 {
		d.logger.Error("draw char without a previous text style")
		return
	}
	d.rend.DrawText(x, y, text, size, color, bg)
}

func (d *Dispatcher) drawString(cmd *proto.Command) {
	p := cmd.Params
	if cmd.NArgs() < 2 {
		d.unknown("draw string", cmd)
		return
	}
	x, y := i16(p[0]), i16(p[1])

	size, color, bg := d.lastTextSize, d.lastTextColor, d.lastTextBg
	if cmd.NArgs() >= 5 {
		size, color, bg = int(p[2]), short(p[3]), short(p[4])
		d.lastTextSize, d.lastTextColor, d.lastTextBg = size, color, bg
	}
	if size == 0 {
		d.logger.Error("draw string without a previous text style")
		return
	}

	text := d.decodeString(cmd.Data)
	for _, line := range splitLines(text) {
		d.rend.DrawText(x, y, line, size, color, bg)
		y += render.LinePitch(size)
	}
}

func (d *Dispatcher) writeSettings(cmd *proto.Command) {
	p := cmd.Params
	if cmd.NArgs() < 1 {
		d.unknown("write settings", cmd)
		return
	}
	switch p[0] {
	case proto.WriteFlagsAndSize:
		if cmd.NArgs() >= 4 {
			d.writer.setStyle(int(p[1]), short(p[2]), short(p[3]))
		}
	case proto.WritePosition:
		if cmd.NArgs() >= 3 {
			d.writer.setPosition(i16(p[1]), i16(p[2]))
		}
	case proto.WriteLineColumn:
		if cmd.NArgs() >= 3 {
			d.writer.setLineColumn(i16(p[1]), i16(p[2]))
		}
	default:
		d.unknown("write settings subcommand", cmd)
	}
}

// decodePath reads little endian xy pairs from a data block.
func decodePath(data []byte) []image.Point {
	points := make([]image.Point, 0, len(data)/4)
	for i := 0; i+3 < len(data); i += 4 {
		points = append(points, image.Point{
			X: int(int16(binary.LittleEndian.Uint16(data[i:]))),
			Y: int(int16(binary.LittleEndian.Uint16(data[i+2:]))),
		})
	}
	return points
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
