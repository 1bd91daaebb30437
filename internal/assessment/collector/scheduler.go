package collector

import (
	"sync"
	"time"
)

// Scheduler schedules a callback after a delay and returns a cancel function.
// Canceling after the callback has fired is a no-op.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

// NewTimerScheduler returns a Scheduler backed by time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}

// AutoAdvancer arms a single pending auto-advance per attempt. Single-choice
// answers streamline the UX by advancing after a short delay; any newer event
// for the same attempt releases the pending one first. Correctness never
// depends on the timer firing.
type AutoAdvancer struct {
	scheduler Scheduler
	delay     time.Duration

	mu      sync.Mutex
	pending map[string]func()
}

func NewAutoAdvancer(scheduler Scheduler, delay time.Duration) *AutoAdvancer {
	return &AutoAdvancer{
		scheduler: scheduler,
		delay:     delay,
		pending:   make(map[string]func()),
	}
}

// Arm schedules fn for the attempt, replacing any pending callback.
func (aa *AutoAdvancer) Arm(attemptID string, fn func()) {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	if cancel, ok := aa.pending[attemptID]; ok {
		cancel()
	}
	aa.pending[attemptID] = aa.scheduler.Schedule(aa.delay, func() {
		aa.mu.Lock()
		delete(aa.pending, attemptID)
		aa.mu.Unlock()
		fn()
	})
}

// Release cancels the attempt's pending callback, if any.
func (aa *AutoAdvancer) Release(attemptID string) {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	if cancel, ok := aa.pending[attemptID]; ok {
		cancel()
		delete(aa.pending, attemptID)
	}
}

// ReleaseAll cancels every pending callback; used on shutdown.
func (aa *AutoAdvancer) ReleaseAll() {
	aa.mu.Lock()
	defer aa.mu.Unlock()

	for id, cancel := range aa.pending {
		cancel()
		delete(aa.pending, id)
	}
}
