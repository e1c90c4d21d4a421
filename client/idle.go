package client

import (
	"sync"
	"time"
)

// IdleTimer owns the single cancelable inactivity timer for a session.
// Touch on any user activity pushes the expiry out; when the window
// elapses without activity, onExpire runs once.
type IdleTimer struct {
	mu       sync.Mutex
	window   time.Duration
	timer    *time.Timer
	onExpire func()
	stopped  bool
}

// NewIdleTimer starts the inactivity window immediately
func NewIdleTimer(window time.Duration, onExpire func()) *IdleTimer {
	t := &IdleTimer{
		window:   window,
		onExpire: onExpire,
	}
	t.timer = time.AfterFunc(window, t.expire)
	return t
}

// Touch resets the inactivity window. Safe to call from any activity
// source; a no-op after Stop or expiry.
func (t *IdleTimer) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.timer.Reset(t.window)
}

// Stop cancels the timer without invoking the expiry callback
func (t *IdleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	t.timer.Stop()
}

func (t *IdleTimer) expire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()

	if t.onExpire != nil {
		t.onExpire()
	}
}

// Watch consumes an activity event stream, touching the timer for each
// event until the channel closes
func (t *IdleTimer) Watch(activity <-chan struct{}) {
	go func() {
		for range activity {
			t.Touch()
		}
	}()
}

// Session is the persisted login record used to restore a session
// across restarts while still inside the inactivity window
type Session struct {
	User    User      `json:"user"`
	Token   string    `json:"token,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// Valid reports whether the saved session is still inside the window
func (s Session) Valid(window time.Duration, now time.Time) bool {
	return !s.SavedAt.IsZero() && now.Sub(s.SavedAt) < window
}
