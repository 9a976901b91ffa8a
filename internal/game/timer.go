package game

import (
	"sync"
	"time"
)

// TimerState is the per-question countdown state.
type TimerState int

const (
	TimerStopped TimerState = iota
	TimerRunning
)

// WarningThreshold is the remaining-seconds mark at which ticks are flagged
// as urgent. Purely presentational; it never affects the countdown.
const WarningThreshold = 10

// QuestionTimer is the per-question countdown. It ticks once per wall-clock
// second, flags the warning window, and fires a single timeout when the
// counter reaches zero. Only one countdown runs at a time: Start always
// cancels any prior tick first.
type QuestionTimer struct {
	mu        sync.Mutex
	sched     Scheduler
	state     TimerState
	limit     int
	remaining int
	paused    int
	stop      func()

	onTick    func(remaining int, warning bool)
	onTimeout func()
}

// NewQuestionTimer creates a timer delivering ticks and the timeout to the
// given callbacks. Callbacks are invoked outside the timer's lock and may
// call back into the timer.
func NewQuestionTimer(sched Scheduler, onTick func(remaining int, warning bool), onTimeout func()) *QuestionTimer {
	return &QuestionTimer{
		sched:     sched,
		onTick:    onTick,
		onTimeout: onTimeout,
	}
}

// Start begins a countdown from limitSeconds, cancelling any running one.
func (t *QuestionTimer) Start(limitSeconds int) {
	t.mu.Lock()
	t.stopLocked()
	t.state = TimerRunning
	t.limit = limitSeconds
	t.remaining = limitSeconds
	t.paused = 0
	t.stop = t.sched.Every(time.Second, t.tick)
	remaining := t.remaining
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(remaining, remaining <= WarningThreshold)
	}
}

// Stop cancels the countdown. Calling Stop on a stopped timer is a no-op.
func (t *QuestionTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.state = TimerStopped
}

// Pause halts the tick, preserving the remaining value for Resume.
func (t *QuestionTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.stopLocked()
	t.state = TimerStopped
	t.paused = t.remaining
}

// Resume restarts the tick from the value preserved by Pause, or from the
// full limit when nothing was preserved. The paused duration itself is not
// subtracted; this mirrors the display-driven behavior learners expect.
func (t *QuestionTimer) Resume() {
	t.mu.Lock()
	if t.state == TimerRunning || t.limit == 0 {
		t.mu.Unlock()
		return
	}
	if t.paused > 0 {
		t.remaining = t.paused
	} else {
		t.remaining = t.limit
	}
	t.state = TimerRunning
	t.stop = t.sched.Every(time.Second, t.tick)
	remaining := t.remaining
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(remaining, remaining <= WarningThreshold)
	}
}

// Remaining returns the seconds left on the countdown.
func (t *QuestionTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// State returns the current timer state.
func (t *QuestionTimer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *QuestionTimer) stopLocked() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

func (t *QuestionTimer) tick() {
	t.mu.Lock()
	if t.state != TimerRunning {
		t.mu.Unlock()
		return
	}
	t.remaining--
	remaining := t.remaining
	timedOut := remaining <= 0
	if timedOut {
		t.stopLocked()
		t.state = TimerStopped
	}
	t.mu.Unlock()

	if t.onTick != nil {
		t.onTick(remaining, remaining <= WarningThreshold)
	}
	if timedOut && t.onTimeout != nil {
		t.onTimeout()
	}
}
