package reactor

import "errors"

var (
	// ErrAlreadyRunning is returned by Start when the reactor is not
	// stopped.
	ErrAlreadyRunning = errors.New("reactor already running")

	// ErrNotRunning is returned by Pause when the reactor is not
	// running, and by Inject once the reactor has begun stopping.
	ErrNotRunning = errors.New("reactor not running")

	// ErrNotPaused is returned by Resume when the reactor is not
	// paused.
	ErrNotPaused = errors.New("reactor not paused")
)
