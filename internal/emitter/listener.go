package emitter

import (
	"context"
	"reflect"
	"sync/atomic"

	"github.com/termflux/termflux/internal/events"
)

// Handler is the interface for event listeners.
type Handler interface {
	// Handle processes one event. Returning ErrStopPropagation halts
	// dispatch of this occurrence to later listeners; any other non-nil
	// error is logged and isolated.
	Handle(ctx context.Context, ev events.Event) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, ev events.Event) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, ev events.Event) error {
	return f(ctx, ev)
}

// Unsubscribe removes the registration it was returned for. It is
// idempotent: every call after the first is a no-op, including calls
// made after the emitter is destroyed.
type Unsubscribe func()

// entry is one listener registration.
type entry struct {
	id       uint64
	kind     events.Kind
	handler  Handler
	priority int
	once     bool

	// removed marks the entry dead for dispatch before it is unlinked
	// from the table. consumed guards exactly-once firing for once
	// entries across overlapping dispatches.
	removed  atomic.Bool
	consumed atomic.Bool
}

// handlerEqual reports whether two handlers are the same registration
// target. Function handlers compare by code pointer; comparable types
// compare by value.
func handlerEqual(a, b Handler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	if va.Type() != vb.Type() || !va.Type().Comparable() {
		return false
	}
	return a == b
}
