package event

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bluedisplay/pkg/proto"
)

// receive runs everything the sender wrote through the client side state
// machine and collects the events.
func receive(t *testing.T, buf *bytes.Buffer) []proto.Event {
	t.Helper()
	var r proto.Receiver
	var events []proto.Event
	for _, b := range buf.Bytes() {
		r.Feed(b)
		if ev, ok := r.Poll(); ok {
			events = append(events, ev)
		}
	}
	require.False(t, r.OutOfSync())
	return events
}

func TestTouchEventLayout(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, zap.NewNop())

	require.NoError(t, s.Touch(proto.EventTouchDown, 0x1234, 0x0056))
	require.Equal(t, []byte{proto.SyncToken, proto.EventTouchDown, 0x34, 0x12, 0x56, 0x00}, buf.Bytes())
}

func TestGuiCallbackRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, zap.NewNop())

	require.NoError(t, s.GuiCallback(proto.EventButtonCallback, 3, 0xDEADBEEF, 42))

	events := receive(t, &buf)
	require.Len(t, events, 1)

	cb, ok := AsGuiCallback(events[0])
	require.True(t, ok)
	require.Equal(t, 3, cb.Index)
	require.Equal(t, uint32(0xDEADBEEF), cb.Callback)
	require.Equal(t, uint32(42), cb.Value)
}

func TestSwipeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, zap.NewNop())

	require.NoError(t, s.Swipe(true, 10, 20, -50, 5))

	events := receive(t, &buf)
	require.Len(t, events, 1)

	sw, ok := AsSwipe(events[0])
	require.True(t, ok)
	require.True(t, sw.Horizontal)
	require.Equal(t, 10, sw.StartX)
	require.Equal(t, 20, sw.StartY)
	require.Equal(t, -50, sw.DeltaX)
	require.Equal(t, 5, sw.DeltaY)
}

func TestNumberRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, zap.NewNop())

	require.NoError(t, s.Number(0x1000, 3.5))

	events := receive(t, &buf)
	require.Len(t, events, 1)

	cb, value, ok := AsNumber(events[0])
	require.True(t, ok)
	require.Equal(t, uint32(0x1000), cb)
	require.Equal(t, float32(3.5), value)
}

func TestTextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, zap.NewNop())

	require.NoError(t, s.Text(0xDEADBEEF, "hi"))

	events := receive(t, &buf)
	require.Len(t, events, 1)

	cb, text, ok := AsText(events[0])
	require.True(t, ok)
	require.Equal(t, uint32(0xDEADBEEF), cb)
	require.Equal(t, "hi", text)
}

func TestTextInlinePrefixTruncated(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, zap.NewNop())

	require.NoError(t, s.Text(0x4000, "overlong"))

	events := receive(t, &buf)
	require.Len(t, events, 1)

	cb, text, ok := AsText(events[0])
	require.True(t, ok)
	require.Equal(t, uint32(0x4000), cb)
	require.Equal(t, "over", text)
}

func TestMixedStreamStaysInSync(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, zap.NewNop())

	require.NoError(t, s.Touch(proto.EventTouchDown, 1, 1))
	require.NoError(t, s.GuiCallback(proto.EventSliderCallback, 0, 0x2000, 100))
	require.NoError(t, s.Touch(proto.EventTouchUp, 2, 2))
	require.NoError(t, s.Nop())

	events := receive(t, &buf)
	require.Len(t, events, 4)
	require.Equal(t, byte(proto.EventTouchDown), events[0].Tag)
	require.Equal(t, byte(proto.EventSliderCallback), events[1].Tag)
	require.Equal(t, byte(proto.EventTouchUp), events[2].Tag)
	require.Equal(t, byte(proto.EventNop), events[3].Tag)
}

func TestSentCounter(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(&buf, zap.NewNop())

	require.NoError(t, s.Touch(proto.EventTouchDown, 0, 0))
	require.EqualValues(t, 2+proto.TouchEventSize, s.Sent())
}
