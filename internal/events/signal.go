package events

// Signal identifies a translated operating-system signal.
type Signal int

const (
	// SignalInterrupt is SIGINT.
	SignalInterrupt Signal = iota
	// SignalTerminate is SIGTERM.
	SignalTerminate
	// SignalHangup is SIGHUP.
	SignalHangup
	// SignalWindowChange is SIGWINCH. Usually surfaced as a ResizeEvent
	// instead; a SignalEvent is synthesized only when the window size
	// cannot be read.
	SignalWindowChange
)

// String returns the signal name.
func (s Signal) String() string {
	switch s {
	case SignalInterrupt:
		return "interrupt"
	case SignalTerminate:
		return "terminate"
	case SignalHangup:
		return "hangup"
	case SignalWindowChange:
		return "window-change"
	default:
		return "unknown"
	}
}

// SignalEvent is a process signal delivered as an event. Signals bypass
// shaping and enter the queue at high priority.
type SignalEvent struct {
	Base

	Signal Signal
}

// NewSignalEvent creates a signal event at high priority.
func NewSignalEvent(sig Signal) *SignalEvent {
	return &SignalEvent{
		Base:   newBase(KindSignal, PriorityHigh),
		Signal: sig,
	}
}
