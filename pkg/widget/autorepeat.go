package widget

import (
	"time"

	"go.uber.org/zap"
)

// One autorepeat sequence runs at a time, whichever autorepeat button was
// pressed last owns it. The sequence has two periods: the first fires
// FirstCount times at FirstRate after FirstDelay, then the second fires at
// SecondRate until the touch ends.
const (
	repeatIdle = iota
	repeatFirstPeriod
	repeatSecondPeriod
)

type autorepeat struct {
	state  int
	count  int
	index  int
	cancel func()
}

func (s *Buttons) startAutorepeat(index int, b *Button) {
	s.stopAutorepeat()
	if b.FirstDelay == 0 {
		return
	}
	s.repeat.state = repeatFirstPeriod
	s.repeat.count = b.FirstCount
	s.repeat.index = index
	s.arm(time.Duration(b.FirstDelay) * time.Millisecond)
}

func (s *Buttons) stopAutorepeat() {
	if s.repeat.cancel != nil {
		s.repeat.cancel()
		s.repeat.cancel = nil
	}
	s.repeat.state = repeatIdle
}

func (s *Buttons) arm(d time.Duration) {
	if s.schedule == nil {
		return
	}
	s.repeat.cancel = s.schedule(d, s.repeatFire)
}

// repeatFire is one timer tick of the sequence.
func (s *Buttons) repeatFire() {
	if s.repeat.state == repeatIdle {
		return
	}
	if s.TouchActive != nil && !s.TouchActive() {
		s.stopAutorepeat()
		return
	}

	b := s.Get(s.repeat.index)
	if b == nil || !b.Active {
		s.stopAutorepeat()
		return
	}

	s.fireCallback(s.repeat.index, b)
	s.logger.Debug("autorepeat fire",
		zap.Int("index", s.repeat.index), zap.Int("state", s.repeat.state))

	rate := b.SecondRate
	if s.repeat.state == repeatFirstPeriod {
		rate = b.FirstRate
		s.repeat.count--
		if s.repeat.count <= 0 {
			s.repeat.state = repeatSecondPeriod
		}
	}
	if rate <= 0 {
		s.stopAutorepeat()
		return
	}
	s.arm(time.Duration(rate) * time.Millisecond)
}
