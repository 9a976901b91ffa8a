package game

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock reads so tests can control elapsed time.
type Clock interface {
	Now() time.Time
}

// Scheduler abstracts interval ticks and one-shot delays. The production
// implementation uses real timers; tests drive callbacks manually so they
// never sleep.
type Scheduler interface {
	// Every invokes fn once per interval until the returned stop function
	// is called. Stop is idempotent.
	Every(interval time.Duration, fn func()) (stop func())

	// After invokes fn once after delay unless the returned cancel function
	// is called first. Cancel is idempotent.
	After(delay time.Duration, fn func()) (cancel func())
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewClock returns a Clock backed by time.Now.
func NewClock() Clock { return realClock{} }

type realScheduler struct{}

// NewScheduler returns a Scheduler backed by time.Ticker and time.AfterFunc.
func NewScheduler() Scheduler { return realScheduler{} }

func (realScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (realScheduler) After(delay time.Duration, fn func()) func() {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}
