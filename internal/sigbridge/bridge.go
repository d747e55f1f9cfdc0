// Package sigbridge translates host process signals into typed events.
//
// The bridge subscribes to SIGWINCH, SIGINT, SIGTERM, and SIGHUP
// exactly once per Start/Stop cycle. A window change is surfaced as a
// ResizeEvent carrying the previous and current terminal dimensions;
// the other signals become SignalEvents. All synthesized events are
// high priority and bypass shaping entirely — they are handed to the
// registered notify callback, which the owning reactor wires straight
// into its queue.
package sigbridge

import (
	"os"
	"os/signal"
	"sync"

	"github.com/termflux/termflux/internal/events"
	"github.com/termflux/termflux/internal/log"
)

// NotifyFunc receives every synthesized event.
type NotifyFunc func(ev events.Event)

// Config configures a Bridge.
type Config struct {
	// Notify receives synthesized events. Required.
	Notify NotifyFunc

	// TTY is the terminal queried for dimensions on window changes.
	// Defaults to os.Stdout.
	TTY *os.File

	// Logger receives diagnostics. Nil disables them.
	Logger *log.Logger
}

// Bridge owns the OS-level signal subscription for one reactor.
type Bridge struct {
	mu      sync.Mutex
	running bool
	ch      chan os.Signal
	done    chan struct{}
	wg      sync.WaitGroup

	notify NotifyFunc
	logger *log.Logger

	// sizeFn is swapped in tests to avoid a real tty.
	sizeFn func() (cols, rows int, err error)

	lastCols, lastRows int
}

// New creates a bridge. Start must be called before any signal is
// observed.
func New(cfg Config) *Bridge {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Nop()
	}
	tty := cfg.TTY
	if tty == nil {
		tty = os.Stdout
	}
	return &Bridge{
		notify: cfg.Notify,
		logger: logger.WithComponent("sigbridge"),
		sizeFn: func() (int, int, error) { return windowSize(tty) },
	}
}

// Start attaches the OS-level handlers. Idempotent: a repeated Start
// without an intervening Stop is a no-op.
func (b *Bridge) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return
	}
	b.running = true

	// Seed the previous dimensions so the first resize event carries a
	// meaningful old size when the tty is readable.
	if cols, rows, err := b.sizeFn(); err == nil {
		b.lastCols, b.lastRows = cols, rows
	}

	b.ch = make(chan os.Signal, 8)
	b.done = make(chan struct{})
	signal.Notify(b.ch, watchedSignals()...)

	b.wg.Add(1)
	go b.loop(b.ch, b.done)
}

// Stop detaches the OS-level handlers. Idempotent.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	signal.Stop(b.ch)
	close(b.done)
	b.mu.Unlock()

	b.wg.Wait()
}

// Running reports whether the bridge is attached.
func (b *Bridge) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

func (b *Bridge) loop(ch chan os.Signal, done chan struct{}) {
	defer b.wg.Done()
	for {
		select {
		case sig := <-ch:
			b.handle(sig)
		case <-done:
			return
		}
	}
}

// handle translates one OS signal into an event and delivers it.
func (b *Bridge) handle(sig os.Signal) {
	ev := b.translate(sig)
	if ev == nil {
		return
	}
	b.logger.Debug("signal %v -> %s event", sig, ev.Kind())
	if b.notify != nil {
		b.notify(ev)
	}
}

// translate maps an OS signal to its event. Returns nil for signals
// outside the watched set.
func (b *Bridge) translate(sig os.Signal) events.Event {
	if kind, ok := signalKind(sig); ok {
		if kind == events.SignalWindowChange {
			return b.resizeEvent()
		}
		return events.NewSignalEvent(kind)
	}
	return events.NewSignalEvent(events.SignalInterrupt)
}

// resizeEvent queries the terminal size and synthesizes a ResizeEvent.
// When the size cannot be read, a window-change SignalEvent is
// delivered instead so subscribers still learn something happened.
func (b *Bridge) resizeEvent() events.Event {
	cols, rows, err := b.sizeFn()
	if err != nil {
		b.logger.Warn("window size query failed: %v", err)
		return events.NewSignalEvent(events.SignalWindowChange)
	}

	b.mu.Lock()
	oldCols, oldRows := b.lastCols, b.lastRows
	b.lastCols, b.lastRows = cols, rows
	b.mu.Unlock()

	return events.NewResizeEvent(oldCols, oldRows, cols, rows)
}
