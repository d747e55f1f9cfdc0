//go:build unix

package sigbridge

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/termflux/termflux/internal/events"
)

// watchedSignals is the set the bridge subscribes to on unix hosts.
func watchedSignals() []os.Signal {
	return []os.Signal{unix.SIGWINCH, unix.SIGINT, unix.SIGTERM, unix.SIGHUP}
}

// signalKind maps an OS signal to its event-level identity.
func signalKind(sig os.Signal) (events.Signal, bool) {
	switch sig {
	case unix.SIGWINCH:
		return events.SignalWindowChange, true
	case unix.SIGINT:
		return events.SignalInterrupt, true
	case unix.SIGTERM:
		return events.SignalTerminate, true
	case unix.SIGHUP:
		return events.SignalHangup, true
	}
	return 0, false
}

// windowSize reads the terminal dimensions for f.
func windowSize(f *os.File) (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
