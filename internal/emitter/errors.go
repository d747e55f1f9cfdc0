package emitter

import "errors"

// Sentinel errors for the emitter.
var (
	// ErrEmitterDestroyed is returned by every registration or dispatch
	// call made after Destroy.
	ErrEmitterDestroyed = errors.New("emitter is destroyed")

	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidKind is returned when a subscription names neither a
	// concrete event kind nor the wildcard.
	ErrInvalidKind = errors.New("invalid event kind")

	// ErrStopPropagation is a control sentinel, not a failure: a handler
	// returns it to stop dispatch of the current event to later
	// listeners. It is never logged or counted as a handler error.
	ErrStopPropagation = errors.New("stop event propagation")
)
