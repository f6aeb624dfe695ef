package event

import (
	"encoding/binary"
	"math"

	"bluedisplay/pkg/proto"
)

// Typed views over a raw received event, for the client side of the stream.

type Touch struct {
	Tag  byte
	X, Y int
}

type GuiCallback struct {
	Tag      byte
	Index    int
	Callback uint32
	Value    uint32
}

type SwipeInfo struct {
	Horizontal     bool
	StartX, StartY int
	DeltaX, DeltaY int
}

// AsTouch decodes a short touch class event.
func AsTouch(ev proto.Event) (Touch, bool) {
	if ev.Tag >= proto.EventFirstCallback || ev.Len != proto.TouchEventSize {
		return Touch{}, false
	}
	return Touch{
		Tag: ev.Tag,
		X:   int(binary.LittleEndian.Uint16(ev.Payload[0:])),
		Y:   int(binary.LittleEndian.Uint16(ev.Payload[2:])),
	}, true
}

// AsGuiCallback decodes a button or slider callback event.
func AsGuiCallback(ev proto.Event) (GuiCallback, bool) {
	if ev.Tag != proto.EventButtonCallback && ev.Tag != proto.EventSliderCallback {
		return GuiCallback{}, false
	}
	return GuiCallback{
		Tag:      ev.Tag,
		Index:    int(binary.LittleEndian.Uint16(ev.Payload[0:])),
		Callback: binary.LittleEndian.Uint32(ev.Payload[4:]),
		Value:    binary.LittleEndian.Uint32(ev.Payload[8:]),
	}, true
}

// AsSwipe decodes a swipe callback event.
func AsSwipe(ev proto.Event) (SwipeInfo, bool) {
	if ev.Tag != proto.EventSwipeCallback {
		return SwipeInfo{}, false
	}
	return SwipeInfo{
		Horizontal: ev.Payload[0] == 1,
		StartX:     int(binary.LittleEndian.Uint16(ev.Payload[2:])),
		StartY:     int(binary.LittleEndian.Uint16(ev.Payload[4:])),
		DeltaX:     int(int16(binary.LittleEndian.Uint16(ev.Payload[6:]))),
		DeltaY:     int(int16(binary.LittleEndian.Uint16(ev.Payload[8:]))),
	}, true
}

// AsText decodes a text dialog result, the inlined prefix only.
func AsText(ev proto.Event) (callback uint32, text string, ok bool) {
	if ev.Tag != proto.EventTextCallback {
		return 0, "", false
	}
	n := int(ev.Payload[1])
	if n > 4 {
		n = 4
	}
	return binary.LittleEndian.Uint32(ev.Payload[4:]),
		string(ev.Payload[8 : 8+n]),
		true
}

// AsNumber decodes a number dialog result.
func AsNumber(ev proto.Event) (callback uint32, value float32, ok bool) {
	if ev.Tag != proto.EventNumberCallback {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint32(ev.Payload[4:]),
		math.Float32frombits(binary.LittleEndian.Uint32(ev.Payload[8:])),
		true
}
