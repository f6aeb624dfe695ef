package proto

// Event is one decoded host frame as seen by the client. Payload length
// depends on the tag class.
type Event struct {
	Tag     byte
	Payload [CallbackEventSize]byte
	Len     int
}

// Receiver decodes host events byte by byte. It is built for an interrupt
// handler: fixed buffers, no allocation, no logging. Anything that does not
// parse drops bytes until the next sync token.
//
// A touch-down event is latched in a separate slot so a slow main loop that
// polls between a down and the following move never loses the down.
type Receiver struct {
	state   rxState
	tag     byte
	need    int
	got     int
	payload [CallbackEventSize]byte

	event     Event
	hasEvent  bool
	downEvent Event
	hasDown   bool

	outOfSync bool
	dropped   uint32
}

type rxState int

const (
	rxSync rxState = iota
	rxTag
	rxPayload
)

// Feed consumes one byte. Safe to call from an interrupt context.
func (r *Receiver) Feed(b byte) {
	switch r.state {
	case rxSync:
		if b == SyncToken {
			r.state = rxTag
			r.outOfSync = false
		} else {
			r.dropped++
			r.outOfSync = true
		}
	case rxTag:
		if !validEventTag(b) {
			r.dropped++
			r.outOfSync = true
			r.state = rxSync
			return
		}
		r.tag = b
		r.got = 0
		if b < EventFirstCallback {
			r.need = TouchEventSize
		} else {
			r.need = CallbackEventSize
		}
		r.state = rxPayload
	case rxPayload:
		r.payload[r.got] = b
		r.got++
		if r.got == r.need {
			r.latch()
			r.state = rxSync
		}
	}
}

func (r *Receiver) latch() {
	ev := Event{Tag: r.tag, Payload: r.payload, Len: r.need}
	if r.tag == EventTouchDown {
		r.downEvent = ev
		r.hasDown = true
		return
	}
	r.event = ev
	r.hasEvent = true
}

// Poll returns the next pending event, down events first. The second return
// is false when nothing is pending.
func (r *Receiver) Poll() (Event, bool) {
	if r.hasDown {
		r.hasDown = false
		return r.downEvent, true
	}
	if r.hasEvent {
		r.hasEvent = false
		return r.event, true
	}
	return Event{}, false
}

// OutOfSync reports whether the last byte fell outside a valid frame.
func (r *Receiver) OutOfSync() bool {
	return r.outOfSync
}

// Dropped counts bytes discarded while hunting for a sync token.
func (r *Receiver) Dropped() uint32 {
	return r.dropped
}

func validEventTag(b byte) bool {
	switch {
	case b <= EventTouchError:
		return true
	case b == EventConnectionBuildUp, b == EventRedraw, b == EventReorientation, b == EventDisconnect:
		return true
	case b >= EventFirstCallback && b <= EventNop:
		return true
	case b >= EventFirstSensorAction && b <= EventLastSensorAction:
		return true
	case b == EventRequestedCanvasSize:
		return true
	}
	return false
}
