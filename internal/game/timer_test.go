package game

import "testing"

type timerRecorder struct {
	ticks    []int
	warnings []bool
	timeouts int
}

func (r *timerRecorder) onTick(remaining int, warning bool) {
	r.ticks = append(r.ticks, remaining)
	r.warnings = append(r.warnings, warning)
}

func (r *timerRecorder) onTimeout() { r.timeouts++ }

func newTestTimer() (*QuestionTimer, *manualScheduler, *timerRecorder) {
	sched := newManualScheduler()
	rec := &timerRecorder{}
	return NewQuestionTimer(sched, rec.onTick, rec.onTimeout), sched, rec
}

func TestTimerCountsDown(t *testing.T) {
	timer, sched, rec := newTestTimer()

	timer.Start(3)
	if len(rec.ticks) != 1 || rec.ticks[0] != 3 {
		t.Fatalf("expected initial tick at 3, got %v", rec.ticks)
	}

	sched.Tick()
	sched.Tick()
	if timer.Remaining() != 1 {
		t.Errorf("expected 1 remaining, got %d", timer.Remaining())
	}
	if rec.timeouts != 0 {
		t.Errorf("timeout fired early")
	}

	sched.Tick()
	if rec.timeouts != 1 {
		t.Errorf("expected 1 timeout, got %d", rec.timeouts)
	}
	if timer.State() != TimerStopped {
		t.Errorf("expected stopped state after timeout")
	}
}

func TestTimerWarningThreshold(t *testing.T) {
	timer, sched, rec := newTestTimer()

	timer.Start(12)
	sched.Tick()
	if rec.warnings[len(rec.warnings)-1] {
		t.Errorf("warning flagged at 11 remaining")
	}

	sched.Tick()
	if !rec.warnings[len(rec.warnings)-1] {
		t.Errorf("warning not flagged at 10 remaining")
	}
}

func TestTimerTimeoutFiresOnce(t *testing.T) {
	timer, sched, rec := newTestTimer()

	timer.Start(1)
	sched.Tick()
	sched.Tick()
	sched.Tick()
	if rec.timeouts != 1 {
		t.Errorf("expected exactly 1 timeout, got %d", rec.timeouts)
	}
	_ = timer
}

func TestTimerStopIsIdempotent(t *testing.T) {
	timer, sched, rec := newTestTimer()

	timer.Start(5)
	timer.Stop()
	timer.Stop()

	sched.Tick()
	if rec.timeouts != 0 {
		t.Errorf("timeout fired after stop")
	}
	if len(rec.ticks) != 1 {
		t.Errorf("tick delivered after stop: %v", rec.ticks)
	}
}

func TestTimerStartCancelsPrevious(t *testing.T) {
	timer, sched, rec := newTestTimer()

	timer.Start(5)
	sched.Tick()
	timer.Start(8)
	if timer.Remaining() != 8 {
		t.Fatalf("expected restart at 8, got %d", timer.Remaining())
	}

	sched.Tick()
	if timer.Remaining() != 7 {
		t.Errorf("expected 7 remaining after one tick, got %d", timer.Remaining())
	}
	if rec.timeouts != 0 {
		t.Errorf("unexpected timeout")
	}
}

func TestTimerPauseResumePreservesRemaining(t *testing.T) {
	timer, sched, _ := newTestTimer()

	timer.Start(10)
	sched.TickN(4)
	timer.Pause()
	if timer.State() != TimerStopped {
		t.Fatalf("expected stopped while paused")
	}

	sched.Tick()
	if timer.Remaining() != 6 {
		t.Errorf("paused timer advanced: %d", timer.Remaining())
	}

	timer.Resume()
	if timer.Remaining() != 6 {
		t.Errorf("resume lost remaining value: %d", timer.Remaining())
	}
	sched.Tick()
	if timer.Remaining() != 5 {
		t.Errorf("expected 5 after resume tick, got %d", timer.Remaining())
	}
}

func TestTimerResumeWithoutPauseRestartsFull(t *testing.T) {
	timer, sched, _ := newTestTimer()

	timer.Start(10)
	sched.TickN(3)
	timer.Stop()

	timer.Resume()
	if timer.Remaining() != 10 {
		t.Errorf("expected full restart at 10, got %d", timer.Remaining())
	}
}
