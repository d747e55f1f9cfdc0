//go:build !unix

package sigbridge

import (
	"errors"
	"os"
	"syscall"

	"github.com/termflux/termflux/internal/events"
)

// Hosts without SIGWINCH only get termination signals; window changes
// must come from the terminal backend instead.

func watchedSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}

func signalKind(sig os.Signal) (events.Signal, bool) {
	switch sig {
	case syscall.SIGINT:
		return events.SignalInterrupt, true
	case syscall.SIGTERM:
		return events.SignalTerminate, true
	}
	return 0, false
}

func windowSize(*os.File) (int, int, error) {
	return 0, 0, errors.New("window size unavailable on this platform")
}
