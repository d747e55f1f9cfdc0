package shape

import (
	"testing"
	"time"

	"github.com/termflux/termflux/internal/events"
)

func moveEv(x int) *events.PointerEvent {
	return events.NewPointerEvent(events.PointerMove, events.ButtonNone, x, 0, events.ModNone)
}

func TestThrottle_LeadingThenCoalescedTrailing(t *testing.T) {
	var rec recorder
	th := NewThrottler(rec.fn, ThrottleOptions{Interval: 40 * time.Millisecond, Leading: true, Trailing: true})

	// Burst of five calls inside one window: the first fires
	// immediately, the rest coalesce into one trailing fire with the
	// newest event.
	for x := 0; x < 5; x++ {
		th.Call(moveEv(x))
	}

	if rec.count() != 1 {
		t.Fatalf("leading edge fired %d times, want 1", rec.count())
	}
	if got := rec.last().(*events.PointerEvent).X; got != 0 {
		t.Errorf("leading fire carried X=%d, want 0", got)
	}

	time.Sleep(100 * time.Millisecond)

	if got := rec.count(); got != 2 {
		t.Fatalf("fired %d times total, want leading + one trailing = 2", got)
	}
	if got := rec.last().(*events.PointerEvent).X; got != 4 {
		t.Errorf("trailing fire carried X=%d, want the newest 4", got)
	}
}

func TestThrottle_AtMostOncePerWindow(t *testing.T) {
	var rec recorder
	th := NewThrottler(rec.fn, ThrottleOptions{Interval: 60 * time.Millisecond, Leading: true})

	th.Call(moveEv(1))
	th.Call(moveEv(2))
	th.Call(moveEv(3))

	if rec.count() != 1 {
		t.Errorf("fired %d times within one window, want 1", rec.count())
	}

	time.Sleep(80 * time.Millisecond)

	// Window expired: the next call fires its leading edge again.
	th.Call(moveEv(4))
	if rec.count() != 2 {
		t.Errorf("fired %d times after window expiry, want 2", rec.count())
	}
}

func TestThrottle_TrailingOnly(t *testing.T) {
	var rec recorder
	th := NewThrottler(rec.fn, ThrottleOptions{Interval: 30 * time.Millisecond, Trailing: true})

	th.Call(moveEv(1))
	th.Call(moveEv(2))

	if rec.count() != 0 {
		t.Fatal("trailing-only throttle fired before window end")
	}
	if !th.Pending() {
		t.Fatal("expected a pending window-end fire")
	}

	time.Sleep(80 * time.Millisecond)

	if rec.count() != 1 {
		t.Fatalf("fired %d times, want 1", rec.count())
	}
	if got := rec.last().(*events.PointerEvent).X; got != 2 {
		t.Errorf("fire carried X=%d, want the newest 2", got)
	}
}

func TestThrottle_CancelDiscardsPending(t *testing.T) {
	var rec recorder
	th := NewThrottler(rec.fn, ThrottleOptions{Interval: 30 * time.Millisecond, Trailing: true})

	th.Call(moveEv(1))
	th.Cancel()

	time.Sleep(80 * time.Millisecond)

	if rec.count() != 0 {
		t.Errorf("cancelled throttle fired %d times, want 0", rec.count())
	}
}

func TestThrottle_FlushFiresPendingNow(t *testing.T) {
	var rec recorder
	th := NewThrottler(rec.fn, ThrottleOptions{Interval: time.Hour, Trailing: true})

	th.Call(moveEv(7))
	th.Flush()

	if rec.count() != 1 {
		t.Fatal("Flush() did not resolve the pending fire")
	}
	if got := rec.last().(*events.PointerEvent).X; got != 7 {
		t.Errorf("flushed fire carried X=%d, want 7", got)
	}
}

func TestThrottlerRegistry_GetOrCreate(t *testing.T) {
	r := NewThrottlers()
	var rec recorder
	opts := ThrottleOptions{Interval: 40 * time.Millisecond, Leading: true}

	f1 := r.Throttle("pointer", rec.fn, opts)
	f2 := r.Throttle("pointer", rec.fn, opts)

	f1(moveEv(1))
	f2(moveEv(2)) // same window, same throttler: coalesced

	if rec.count() != 1 {
		t.Errorf("shared key fired %d times in one window, want 1", rec.count())
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}
