package event

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/inhies/go-bytesize"
	"go.uber.org/zap"

	"bluedisplay/pkg/proto"
)

func NewSender(w io.Writer, logger *zap.Logger) *Sender {
	return &Sender{w: w, logger: logger}
}

// Sender owns the host to client direction of the stream. Every event writer
// funnels through send, so frames from the touch router, the widget stores
// and the dispatcher never interleave.
type Sender struct {
	mu     sync.Mutex
	w      io.Writer
	logger *zap.Logger

	sent bytesize.ByteSize
}

// Sent returns the total bytes written so far.
func (s *Sender) Sent() bytesize.ByteSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// Touch sends a short touch event: pointer coordinates only.
func (s *Sender) Touch(tag byte, x, y int) error {
	var p [proto.TouchEventSize]byte
	binary.LittleEndian.PutUint16(p[0:], uint16(x))
	binary.LittleEndian.PutUint16(p[2:], uint16(y))
	return s.send(tag, p[:])
}

// TwoInts sends a short event carrying two u16 values, used for redraw,
// reorientation, connection build up and disconnect.
func (s *Sender) TwoInts(tag byte, a, b int) error {
	return s.Touch(tag, a, b)
}

// GuiCallback sends a button or slider callback event.
func (s *Sender) GuiCallback(tag byte, index int, callback uint32, value uint32) error {
	var p [proto.CallbackEventSize]byte
	binary.LittleEndian.PutUint16(p[0:], uint16(index))
	binary.LittleEndian.PutUint32(p[4:], callback)
	binary.LittleEndian.PutUint32(p[8:], value)
	return s.send(tag, p[:])
}

// LongTouchDown reports a long touch at the original down coordinates.
func (s *Sender) LongTouchDown(x, y int, callback uint32) error {
	var p [proto.CallbackEventSize]byte
	binary.LittleEndian.PutUint16(p[0:], uint16(x))
	binary.LittleEndian.PutUint16(p[2:], uint16(y))
	binary.LittleEndian.PutUint32(p[4:], callback)
	return s.send(proto.EventLongTouchDownCallback, p[:])
}

// Swipe reports a recognized swipe. The client resolves its own handler, the
// frame carries geometry only.
func (s *Sender) Swipe(horizontal bool, startX, startY, deltaX, deltaY int) error {
	var p [proto.CallbackEventSize]byte
	if horizontal {
		p[0] = 1
	}
	binary.LittleEndian.PutUint16(p[2:], uint16(startX))
	binary.LittleEndian.PutUint16(p[4:], uint16(startY))
	binary.LittleEndian.PutUint16(p[6:], uint16(int16(deltaX)))
	binary.LittleEndian.PutUint16(p[8:], uint16(int16(deltaY)))
	return s.send(proto.EventSwipeCallback, p[:])
}

// Number answers a number dialog.
func (s *Sender) Number(callback uint32, value float32) error {
	var p [proto.CallbackEventSize]byte
	binary.LittleEndian.PutUint32(p[4:], callback)
	binary.LittleEndian.PutUint32(p[8:], math.Float32bits(value))
	return s.send(proto.EventNumberCallback, p[:])
}

// Text answers a text dialog. The fixed frame carries at most 4 bytes of
// text after the full callback address, byte 1 holds the effective length.
func (s *Sender) Text(callback uint32, text string) error {
	var p [proto.CallbackEventSize]byte
	n := copy(p[8:], text)
	p[1] = byte(n)
	binary.LittleEndian.PutUint32(p[4:], callback)
	return s.send(proto.EventTextCallback, p[:])
}

// Info answers a GetInfo request, e.g. packed local or UTC time.
func (s *Sender) Info(sub, byteInfo byte, shortInfo uint16, longInfo uint32) error {
	var p [proto.CallbackEventSize]byte
	p[0] = sub
	p[1] = byteInfo
	binary.LittleEndian.PutUint16(p[2:], shortInfo)
	binary.LittleEndian.PutUint32(p[8:], longInfo)
	return s.send(proto.EventInfoCallback, p[:])
}

// CanvasSize answers a max canvas size request with dimensions and a unix
// timestamp.
func (s *Sender) CanvasSize(width, height int, ts time.Time) error {
	var p [proto.CallbackEventSize]byte
	binary.LittleEndian.PutUint16(p[4:], uint16(width))
	binary.LittleEndian.PutUint16(p[6:], uint16(height))
	binary.LittleEndian.PutUint32(p[8:], uint32(ts.Unix()))
	return s.send(proto.EventRequestedCanvasSize, p[:])
}

// Sensor forwards one sensor sample as three float32 axes.
func (s *Sender) Sensor(sensorType int, x, y, z float32) error {
	var p [proto.CallbackEventSize]byte
	binary.LittleEndian.PutUint32(p[0:], math.Float32bits(x))
	binary.LittleEndian.PutUint32(p[4:], math.Float32bits(y))
	binary.LittleEndian.PutUint32(p[8:], math.Float32bits(z))
	return s.send(byte(proto.EventFirstSensorAction+sensorType), p[:])
}

// Nop keeps the stream alive for resynchronization.
func (s *Sender) Nop() error {
	var p [proto.CallbackEventSize]byte
	return s.send(proto.EventNop, p[:])
}

func (s *Sender) send(tag byte, payload []byte) error {
	frame := make([]byte, 0, 2+len(payload))
	frame = append(frame, proto.SyncToken, tag)
	frame = append(frame, payload...)

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	n, err := s.w.Write(frame)
	if err != nil {
		return err
	}
	s.sent += bytesize.ByteSize(n)

	s.logger.With(
		zap.Uint8("tag", tag),
		zap.Int("sent", n),
		zap.String("cost", time.Since(start).String()),
		zap.String("data", fmt.Sprintf("%x", frame)),
		zap.String("total", s.sent.String()),
	).Debug("event")

	return nil
}
