package collector

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler captures scheduled callbacks so tests can fire them manually.
type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []*fakeTimer
}

type fakeTimer struct {
	fn       func()
	canceled bool
}

func (fs *fakeScheduler) Schedule(_ time.Duration, fn func()) func() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	timer := &fakeTimer{fn: fn}
	fs.scheduled = append(fs.scheduled, timer)
	return func() {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		timer.canceled = true
	}
}

func (fs *fakeScheduler) fire(i int) {
	fs.mu.Lock()
	timer := fs.scheduled[i]
	fs.mu.Unlock()

	if !timer.canceled {
		timer.fn()
	}
}

func TestAutoAdvancer_ArmFires(t *testing.T) {
	fs := &fakeScheduler{}
	aa := NewAutoAdvancer(fs, 400*time.Millisecond)

	fired := false
	aa.Arm("attempt-1", func() { fired = true })

	require.Len(t, fs.scheduled, 1)
	fs.fire(0)
	assert.True(t, fired)
}

func TestAutoAdvancer_RearmCancelsPrevious(t *testing.T) {
	fs := &fakeScheduler{}
	aa := NewAutoAdvancer(fs, time.Millisecond)

	var fired []int
	aa.Arm("attempt-1", func() { fired = append(fired, 1) })
	aa.Arm("attempt-1", func() { fired = append(fired, 2) })

	require.Len(t, fs.scheduled, 2)
	fs.fire(0)
	fs.fire(1)

	assert.Equal(t, []int{2}, fired, "only the latest armed callback may fire")
}

func TestAutoAdvancer_Release(t *testing.T) {
	fs := &fakeScheduler{}
	aa := NewAutoAdvancer(fs, time.Millisecond)

	fired := false
	aa.Arm("attempt-1", func() { fired = true })
	aa.Release("attempt-1")

	fs.fire(0)
	assert.False(t, fired)

	// Releasing an unknown attempt is a no-op.
	aa.Release("never-armed")
}

func TestAutoAdvancer_IndependentAttempts(t *testing.T) {
	fs := &fakeScheduler{}
	aa := NewAutoAdvancer(fs, time.Millisecond)

	var fired []string
	aa.Arm("a", func() { fired = append(fired, "a") })
	aa.Arm("b", func() { fired = append(fired, "b") })
	aa.Release("a")

	fs.fire(0)
	fs.fire(1)

	assert.Equal(t, []string{"b"}, fired)
}

func TestAutoAdvancer_ReleaseAll(t *testing.T) {
	fs := &fakeScheduler{}
	aa := NewAutoAdvancer(fs, time.Millisecond)

	fired := false
	aa.Arm("a", func() { fired = true })
	aa.Arm("b", func() { fired = true })
	aa.ReleaseAll()

	fs.fire(0)
	fs.fire(1)
	assert.False(t, fired)
}

func TestTimerScheduler_FiresAndCancels(t *testing.T) {
	s := NewTimerScheduler()

	done := make(chan struct{})
	s.Schedule(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback never fired")
	}

	canceled := make(chan struct{})
	cancel := s.Schedule(time.Hour, func() { close(canceled) })
	cancel()

	select {
	case <-canceled:
		t.Fatal("canceled callback fired")
	case <-time.After(20 * time.Millisecond):
	}
}
