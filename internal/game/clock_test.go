package game

import (
	"sync"
	"time"
)

// fakeClock returns a fixed instant until advanced.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// manualScheduler hands tick and delay control to the test. Tick fires the
// registered interval callback once; Fire runs the pending one-shot.
type manualScheduler struct {
	tick  *func()
	delay *func()
}

func newManualScheduler() *manualScheduler { return &manualScheduler{} }

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	p := &fn
	s.tick = p
	return func() {
		if s.tick == p {
			s.tick = nil
		}
	}
}

func (s *manualScheduler) After(_ time.Duration, fn func()) func() {
	p := &fn
	s.delay = p
	return func() {
		if s.delay == p {
			s.delay = nil
		}
	}
}

func (s *manualScheduler) Tick() {
	if s.tick != nil {
		(*s.tick)()
	}
}

func (s *manualScheduler) TickN(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

func (s *manualScheduler) Fire() {
	if s.delay == nil {
		return
	}
	fn := *s.delay
	s.delay = nil
	fn()
}

func (s *manualScheduler) HasPendingDelay() bool { return s.delay != nil }
