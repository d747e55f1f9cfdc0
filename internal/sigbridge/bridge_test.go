package sigbridge

import (
	"errors"
	"sync"
	"syscall"
	"testing"

	"github.com/termflux/termflux/internal/events"
)

// collector captures notified events for assertions.
type collector struct {
	mu  sync.Mutex
	evs []events.Event
}

func (c *collector) notify(ev events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evs = append(c.evs, ev)
}

func (c *collector) all() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.Event, len(c.evs))
	copy(out, c.evs)
	return out
}

func TestTranslateTerminationSignals(t *testing.T) {
	b := New(Config{})

	tests := []struct {
		sig  syscall.Signal
		want events.Signal
	}{
		{syscall.SIGINT, events.SignalInterrupt},
		{syscall.SIGTERM, events.SignalTerminate},
	}
	for _, tt := range tests {
		ev := b.translate(tt.sig)
		se, ok := ev.(*events.SignalEvent)
		if !ok {
			t.Fatalf("translate(%v) = %T, want *SignalEvent", tt.sig, ev)
		}
		if se.Signal != tt.want {
			t.Errorf("translate(%v) signal = %v, want %v", tt.sig, se.Signal, tt.want)
		}
		if se.Priority() != events.PriorityHigh {
			t.Errorf("translate(%v) priority = %v, want high", tt.sig, se.Priority())
		}
	}
}

func TestResizeEventCarriesOldAndNewSize(t *testing.T) {
	b := New(Config{})
	b.sizeFn = func() (int, int, error) { return 80, 24, nil }
	b.lastCols, b.lastRows = 120, 40

	ev := b.resizeEvent()
	re, ok := ev.(*events.ResizeEvent)
	if !ok {
		t.Fatalf("resizeEvent() = %T, want *ResizeEvent", ev)
	}
	if re.OldCols != 120 || re.OldRows != 40 {
		t.Errorf("old size = %dx%d, want 120x40", re.OldCols, re.OldRows)
	}
	if re.Cols != 80 || re.Rows != 24 {
		t.Errorf("new size = %dx%d, want 80x24", re.Cols, re.Rows)
	}

	// The next resize sees the updated previous dimensions.
	b.sizeFn = func() (int, int, error) { return 100, 30, nil }
	re2 := b.resizeEvent().(*events.ResizeEvent)
	if re2.OldCols != 80 || re2.OldRows != 24 {
		t.Errorf("second old size = %dx%d, want 80x24", re2.OldCols, re2.OldRows)
	}
}

func TestResizeFallsBackToSignalEventWhenSizeUnreadable(t *testing.T) {
	b := New(Config{})
	b.sizeFn = func() (int, int, error) { return 0, 0, errors.New("not a tty") }

	ev := b.resizeEvent()
	se, ok := ev.(*events.SignalEvent)
	if !ok {
		t.Fatalf("resizeEvent() = %T, want *SignalEvent fallback", ev)
	}
	if se.Signal != events.SignalWindowChange {
		t.Errorf("fallback signal = %v, want window-change", se.Signal)
	}
}

func TestStartStopIdempotent(t *testing.T) {
	var c collector
	b := New(Config{Notify: c.notify})
	b.sizeFn = func() (int, int, error) { return 80, 24, nil }

	if b.Running() {
		t.Fatal("bridge running before Start")
	}
	b.Start()
	b.Start()
	if !b.Running() {
		t.Fatal("bridge not running after Start")
	}

	b.Stop()
	b.Stop()
	if b.Running() {
		t.Fatal("bridge still running after Stop")
	}

	// A second cycle works.
	b.Start()
	if !b.Running() {
		t.Fatal("restart failed")
	}
	b.Stop()
}
