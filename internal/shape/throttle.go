package shape

import (
	"sync"
	"time"

	"github.com/termflux/termflux/internal/events"
)

// ThrottleOptions configures a Throttler.
type ThrottleOptions struct {
	// Interval is the minimum spacing between fires.
	Interval time.Duration

	// Leading fires immediately on the first call of a window.
	Leading bool

	// Trailing coalesces calls made inside a window into at most one
	// fire at window end, carrying the most recent event. Defaults to
	// true when neither edge is requested.
	Trailing bool
}

// Throttler guarantees its callback fires at most once per interval
// window. Unlike a debouncer, a sustained stream keeps firing at the
// interval rate instead of being postponed indefinitely.
type Throttler struct {
	mu       sync.Mutex
	interval time.Duration
	leading  bool
	trailing bool
	fn       Func

	lastFire  time.Time
	timer     *time.Timer
	pending   bool
	pendingEv events.Event
	seq       uint64 // invalidates stale timer callbacks
}

// NewThrottler creates a throttler around fn.
func NewThrottler(fn Func, opts ThrottleOptions) *Throttler {
	if !opts.Leading && !opts.Trailing {
		opts.Trailing = true
	}
	return &Throttler{
		interval: opts.Interval,
		leading:  opts.Leading,
		trailing: opts.Trailing,
		fn:       fn,
	}
}

// Call feeds one event into the throttler.
func (t *Throttler) Call(ev events.Event) {
	t.mu.Lock()

	now := time.Now()
	elapsed := now.Sub(t.lastFire)

	if elapsed >= t.interval && t.timer == nil {
		if t.leading {
			t.lastFire = now
			t.mu.Unlock()
			t.fn(ev)
			return
		}
		// Leading edge disabled: coalesce into a window-end fire.
		t.pending = true
		t.pendingEv = ev
		t.scheduleLocked(t.interval)
		t.mu.Unlock()
		return
	}

	// Inside an open window: remember the newest event for the
	// trailing edge.
	if t.trailing {
		t.pending = true
		t.pendingEv = ev
		if t.timer == nil {
			remaining := t.interval - elapsed
			if remaining < 0 {
				remaining = 0
			}
			t.scheduleLocked(remaining)
		}
	}
	t.mu.Unlock()
}

// scheduleLocked arms the window-end timer. Caller must hold the lock.
func (t *Throttler) scheduleLocked(after time.Duration) {
	t.seq++
	seq := t.seq
	t.timer = time.AfterFunc(after, func() {
		t.mu.Lock()
		if t.seq != seq {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		if t.pending {
			fire := t.pendingEv
			t.pending = false
			t.pendingEv = nil
			t.lastFire = time.Now()
			t.mu.Unlock()
			t.fn(fire)
			return
		}
		t.mu.Unlock()
	})
}

// Cancel discards a pending trailing fire without invoking the
// callback.
func (t *Throttler) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
	t.pending = false
	t.pendingEv = nil
}

// Flush forces an immediate trailing fire if one is pending.
func (t *Throttler) Flush() {
	t.mu.Lock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++

	if t.pending {
		fire := t.pendingEv
		t.pending = false
		t.pendingEv = nil
		t.lastFire = time.Now()
		t.mu.Unlock()
		t.fn(fire)
		return
	}
	t.mu.Unlock()
}

// Pending reports whether a trailing fire is scheduled.
func (t *Throttler) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}
