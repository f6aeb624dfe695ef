package session

import (
	"context"
	"io"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"bluedisplay/pkg/dispatch"
	"bluedisplay/pkg/event"
	"bluedisplay/pkg/proto"
	"bluedisplay/pkg/render"
	"bluedisplay/pkg/touch"
	"bluedisplay/pkg/widget"
)

// PollInterval is the pause between decode passes when a frame is still
// incomplete.
const PollInterval = 20 * time.Millisecond

// DrainBatch caps the commands one decode pass executes, so a buffered burst
// cannot starve touch input and timer callbacks queued on the loop.
const DrainBatch = 32

func New(conn io.ReadWriter, width, height int, logger *zap.Logger) *Session {
	id := xid.New().String()
	logger = logger.With(zap.String("session", id))

	s := &Session{
		id:     id,
		conn:   conn,
		logger: logger,
		tasks:  make(chan func(), 64),
	}

	s.Canvas = render.NewCanvas(width, height)
	s.Sender = event.NewSender(conn, logger)
	s.Framer = proto.NewFramer(logger)
	s.Buttons = widget.NewButtons(s.Canvas, s.Sender, s.schedule, logger)
	s.Sliders = widget.NewSliders(s.Canvas, s.Sender, logger)
	s.Router = touch.NewRouter(s.Buttons, s.Sliders, s.Sender, s.schedule, logger)
	s.Router.Width, s.Router.Height = width, height
	s.Buttons.TouchActive = s.Router.Active
	s.Dispatcher = dispatch.New(s.Canvas, s.Buttons, s.Sliders, s.Router, s.Sender, logger)

	return s
}

// Session owns one client connection: the decode loop, the widget stores,
// the touch router and all timers. Everything runs on the loop goroutine,
// timers and external input post into it.
type Session struct {
	id     string
	conn   io.ReadWriter
	logger *zap.Logger

	Canvas     *render.Canvas
	Sender     *event.Sender
	Framer     *proto.Framer
	Buttons    *widget.Buttons
	Sliders    *widget.Sliders
	Router     *touch.Router
	Dispatcher *dispatch.Dispatcher

	tasks chan func()

	received bytesize.ByteSize
	commands uint64
}

func (s *Session) ID() string {
	return s.id
}

// Post runs fn on the loop goroutine.
func (s *Session) Post(fn func()) {
	select {
	case s.tasks <- fn:
	default:
		// the loop is wedged, dropping beats deadlocking a timer goroutine
		s.logger.Warn("task queue full, dropped")
	}
}

// Touch feeds one raw pointer event through the loop goroutine.
func (s *Session) Touch(action touch.Action, index int, x, y float64) {
	s.Post(func() {
		s.Router.Handle(action, index, x, y)
	})
}

// schedule arms a timer whose callback runs on the loop goroutine.
func (s *Session) schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() {
		s.Post(fn)
	})
	return func() { t.Stop() }
}

// Run reads the connection and decodes until the context ends or the reader
// fails. It announces the session to the client first.
func (s *Session) Run(ctx context.Context) error {
	w, h := s.Canvas.Size()
	if err := s.Sender.TwoInts(proto.EventConnectionBuildUp, w, h); err != nil {
		return err
	}

	bytesCh := make(chan []byte, 16)
	readErr := make(chan error, 1)
	go func() {
		for {
			buf := make([]byte, 4096)
			n, err := s.conn.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			if n > 0 {
				bytesCh <- buf[:n]
			}
		}
	}()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logStats()
			return ctx.Err()
		case err := <-readErr:
			s.flush(bytesCh)
			s.logStats()
			if err == io.EOF {
				return nil
			}
			return err
		case fn := <-s.tasks:
			fn()
		case p := <-bytesCh:
			s.feed(p)
		case <-ticker.C:
			s.drain()
		}
	}
}

func (s *Session) feed(p []byte) {
	s.received += bytesize.ByteSize(len(p))
	s.Framer.Feed(p)
	s.drain()
}

// flush empties chunks still queued when the reader ends, the read error
// must not outrun buffered data.
func (s *Session) flush(bytesCh chan []byte) {
	for {
		select {
		case p := <-bytesCh:
			s.feed(p)
		default:
			for s.drain() {
			}
			return
		}
	}
}

// drain decodes up to one batch of buffered commands and reports whether it
// hit the cap, the ticker picks up the remainder.
func (s *Session) drain() bool {
	for i := 0; i < DrainBatch; i++ {
		cmd, res := s.Framer.Next()
		if res != proto.Decoded {
			return false
		}
		s.commands++
		s.Dispatcher.Dispatch(cmd)
	}
	return true
}

func (s *Session) logStats() {
	s.logger.Info("session stats",
		zap.String("received", s.received.String()),
		zap.String("sent", s.Sender.Sent().String()),
		zap.Uint64("commands", s.commands))
}
