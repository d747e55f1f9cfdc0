// Package shape provides the per-key rate-shaping policies that sit
// between raw event production and the queue: debouncing (coalesce a
// burst into one fire after a quiet period) and throttling (at most one
// fire per fixed window).
//
// Shaping bounds the event rate presented to the queue without losing
// the most recent state: a trailing fire always carries the latest
// event of the burst or window. Shapers may delay when an event becomes
// visible to the queue but never reorder two already-enqueued events.
//
// Thread-safety: all methods are safe for concurrent use; a shaped
// callback is never invoked concurrently with itself by its own timer.
package shape

import (
	"sync"
	"time"

	"github.com/termflux/termflux/internal/events"
)

// Func is a shaped callback: it receives the event that survived
// shaping (for trailing fires, the most recent of the burst).
type Func func(ev events.Event)

// DebounceOptions configures a Debouncer.
type DebounceOptions struct {
	// Delay is the quiet period that closes a burst.
	Delay time.Duration

	// Leading fires the callback immediately on the first call of a
	// burst.
	Leading bool

	// Trailing fires the callback once, Delay after the last call of a
	// burst, with the most recent event. When Leading is also set, the
	// trailing fire only happens if further calls arrived during the
	// burst. Defaults to true when neither edge is requested.
	Trailing bool
}

// Debouncer coalesces rapid successive calls into edge fires. At most
// one timer is pending per Debouncer at any instant.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	leading  bool
	trailing bool
	fn       Func

	timer     *time.Timer
	pending   bool
	pendingEv events.Event
	seq       uint64 // invalidates stale timer callbacks
}

// NewDebouncer creates a debouncer around fn.
func NewDebouncer(fn Func, opts DebounceOptions) *Debouncer {
	if !opts.Leading && !opts.Trailing {
		opts.Trailing = true
	}
	return &Debouncer{
		delay:    opts.Delay,
		leading:  opts.Leading,
		trailing: opts.Trailing,
		fn:       fn,
	}
}

// Call feeds one event into the debouncer, resetting the quiet-period
// timer.
func (d *Debouncer) Call(ev events.Event) {
	d.mu.Lock()

	burstStart := d.timer == nil
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}

	fireLeading := d.leading && burstStart
	if !fireLeading && d.trailing {
		d.pending = true
		d.pendingEv = ev
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		if d.pending {
			fire := d.pendingEv
			d.pending = false
			d.pendingEv = nil
			d.mu.Unlock()
			d.fn(fire)
			return
		}
		d.mu.Unlock()
	})

	d.mu.Unlock()

	if fireLeading {
		d.fn(ev)
	}
}

// Cancel discards a pending trailing fire without invoking the
// callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
	d.pendingEv = nil
}

// Flush forces an immediate trailing fire if one is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++

	if d.pending {
		fire := d.pendingEv
		d.pending = false
		d.pendingEv = nil
		d.mu.Unlock()
		d.fn(fire)
		return
	}
	d.mu.Unlock()
}

// Pending reports whether a trailing fire is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
