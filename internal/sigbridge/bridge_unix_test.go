//go:build unix

package sigbridge

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/termflux/termflux/internal/events"
)

func TestTranslateHangup(t *testing.T) {
	b := New(Config{})
	ev := b.translate(unix.SIGHUP)
	se, ok := ev.(*events.SignalEvent)
	if !ok {
		t.Fatalf("translate(SIGHUP) = %T, want *SignalEvent", ev)
	}
	if se.Signal != events.SignalHangup {
		t.Errorf("signal = %v, want hangup", se.Signal)
	}
}

func TestDeliveredSignalReachesNotify(t *testing.T) {
	var c collector
	b := New(Config{Notify: c.notify})
	b.sizeFn = func() (int, int, error) { return 80, 24, nil }

	b.Start()
	defer b.Stop()

	if err := unix.Kill(unix.Getpid(), unix.SIGWINCH); err != nil {
		t.Fatalf("kill: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		for _, ev := range c.all() {
			if ev.Kind() == events.KindResize {
				re := ev.(*events.ResizeEvent)
				if re.Cols != 80 || re.Rows != 24 {
					t.Errorf("size = %dx%d, want 80x24", re.Cols, re.Rows)
				}
				return
			}
		}
		select {
		case <-deadline:
			t.Fatal("no resize event observed after SIGWINCH")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
