package conversation

import (
	"sync"
	"time"
)

// Timer is a scheduled call that can be stopped before it runs.
type Timer interface {
	// Stop prevents the call from running and reports whether it did so.
	Stop() bool
}

// Scheduler runs a function after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc runs f on its own goroutine once d has elapsed.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler holds scheduled calls until Advance runs them. It lets
// callers step through reply timing deterministically.
type ManualScheduler struct {
	tasks []*manualTask
	now   time.Duration
	mu    sync.Mutex
}

type manualTask struct {
	f       func()
	at      time.Duration
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc records f to run once the scheduler has advanced by d.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &manualTask{f: f, at: s.now + d}
	s.tasks = append(s.tasks, task)
	return &manualTimer{s: s, task: task}
}

// Advance moves the clock forward by d and runs, in schedule order, every
// call that became due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTask
	for _, task := range s.tasks {
		if !task.fired && !task.stopped && task.at <= s.now {
			task.fired = true
			due = append(due, task)
		}
	}
	s.mu.Unlock()

	for _, task := range due {
		task.f()
	}
}

// Pending returns how many scheduled calls have neither run nor stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, task := range s.tasks {
		if !task.fired && !task.stopped {
			n++
		}
	}
	return n
}

type manualTimer struct {
	s    *ManualScheduler
	task *manualTask
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.task.Stop()
}
