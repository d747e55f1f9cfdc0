package events

import (
	"sync/atomic"
	"time"
)

// timeNow is a variable to allow testing with fixed timestamps.
var timeNow = time.Now

// Event is the interface satisfied by every event variant.
type Event interface {
	// Kind returns the variant tag, fixed at construction.
	Kind() Kind

	// Time returns the monotonic creation timestamp.
	Time() time.Time

	// Priority returns the dispatch priority tier.
	Priority() Priority

	// StopPropagation halts further listener dispatch for this occurrence.
	StopPropagation()

	// PropagationStopped reports whether a listener stopped propagation.
	PropagationStopped() bool

	// PreventDefault sets the advisory default-prevented flag.
	PreventDefault()

	// DefaultPrevented reports the advisory flag.
	DefaultPrevented() bool

	// ShapeKey returns the debounce/throttle registry key for this event.
	ShapeKey() string
}

// Base is the shared envelope embedded by every variant. The flag
// methods use atomics so a listener running under EmitAsync may set
// them while another goroutine observes.
type Base struct {
	kind     Kind
	time     time.Time
	priority Priority

	propagationStopped atomic.Bool
	defaultPrevented   atomic.Bool
}

func newBase(kind Kind, priority Priority) Base {
	return Base{
		kind:     kind,
		time:     timeNow(),
		priority: priority,
	}
}

// Kind returns the variant tag.
func (b *Base) Kind() Kind { return b.kind }

// Time returns the creation timestamp.
func (b *Base) Time() time.Time { return b.time }

// Priority returns the dispatch priority.
func (b *Base) Priority() Priority { return b.priority }

// StopPropagation halts further dispatch of this occurrence.
func (b *Base) StopPropagation() { b.propagationStopped.Store(true) }

// PropagationStopped reports whether propagation was stopped.
func (b *Base) PropagationStopped() bool { return b.propagationStopped.Load() }

// PreventDefault sets the advisory default-prevented flag.
func (b *Base) PreventDefault() { b.defaultPrevented.Store(true) }

// DefaultPrevented reports the advisory flag.
func (b *Base) DefaultPrevented() bool { return b.defaultPrevented.Load() }

// ShapeKey defaults to the kind name. Variants with finer-grained
// shaping (keys) override it.
func (b *Base) ShapeKey() string { return b.kind.String() }
