package emitter

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/termflux/termflux/internal/events"
	"github.com/termflux/termflux/internal/log"
)

// Option configures an Emitter subscription.
type Option func(*subOptions)

type subOptions struct {
	priority int
}

// WithPriority sets the listener priority. Higher values dispatch
// first; the default is 0. Ties break by registration order.
func WithPriority(p int) Option {
	return func(o *subOptions) {
		o.priority = p
	}
}

// Emitter is a kind-indexed pub/sub registry with snapshot dispatch.
// One Emitter is owned by exactly one reactor; methods are safe for
// concurrent use because shaping timers and the signal bridge deliver
// from their own goroutines.
type Emitter struct {
	mu        sync.Mutex
	listeners map[events.Kind][]*entry
	nextID    uint64
	destroyed bool

	exec   *executor
	logger *log.Logger

	emitted       atomic.Uint64
	delivered     atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// Stats is a point-in-time snapshot of emitter counters.
type Stats struct {
	// Emitted is the number of Emit/EmitAsync calls accepted.
	Emitted uint64

	// Delivered is the number of successful handler invocations.
	Delivered uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// ActiveListeners is the current number of registrations,
	// wildcard included.
	ActiveListeners int
}

// New creates an Emitter. A nil logger disables diagnostics.
func New(logger *log.Logger) *Emitter {
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent("emitter")
	return &Emitter{
		listeners: make(map[events.Kind][]*entry),
		exec:      newExecutor(logger),
		logger:    logger,
	}
}

// On registers a persistent listener for kind (or the wildcard).
// The returned Unsubscribe removes exactly this registration and is
// idempotent.
func (e *Emitter) On(kind events.Kind, h Handler, opts ...Option) (Unsubscribe, error) {
	return e.register(kind, h, false, opts...)
}

// Once registers a listener that is removed immediately after its
// first invocation. Removal never skips or double-fires neighbors in
// the same dispatch.
func (e *Emitter) Once(kind events.Kind, h Handler, opts ...Option) (Unsubscribe, error) {
	return e.register(kind, h, true, opts...)
}

func (e *Emitter) register(kind events.Kind, h Handler, once bool, opts ...Option) (Unsubscribe, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if !kind.Valid() && kind != events.KindWildcard {
		return nil, ErrInvalidKind
	}

	var o subOptions
	for _, opt := range opts {
		opt(&o)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return nil, ErrEmitterDestroyed
	}

	e.nextID++
	ent := &entry{
		id:       e.nextID,
		kind:     kind,
		handler:  h,
		priority: o.priority,
		once:     once,
	}
	e.listeners[kind] = append(e.listeners[kind], ent)

	return func() { e.remove(ent) }, nil
}

// Off removes the first registration for kind whose handler matches h.
// Returns whether anything was removed, and an error only if the
// emitter is destroyed.
func (e *Emitter) Off(kind events.Kind, h Handler) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return false, ErrEmitterDestroyed
	}

	bucket := e.listeners[kind]
	for i, ent := range bucket {
		if handlerEqual(ent.handler, h) {
			ent.removed.Store(true)
			e.listeners[kind] = append(bucket[:i], bucket[i+1:]...)
			if len(e.listeners[kind]) == 0 {
				delete(e.listeners, kind)
			}
			return true, nil
		}
	}
	return false, nil
}

// remove unlinks one entry. Safe to call repeatedly and after Destroy.
func (e *Emitter) remove(ent *entry) {
	if !ent.removed.CompareAndSwap(false, true) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	bucket := e.listeners[ent.kind]
	for i, cand := range bucket {
		if cand == ent {
			e.listeners[ent.kind] = append(bucket[:i], bucket[i+1:]...)
			if len(e.listeners[ent.kind]) == 0 {
				delete(e.listeners, ent.kind)
			}
			return
		}
	}
}

// snapshot builds the effective listener list for one dispatch: the
// kind's listeners plus the wildcard channel, sorted by priority
// descending, ties by registration order.
func (e *Emitter) snapshot(kind events.Kind) ([]*entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return nil, ErrEmitterDestroyed
	}

	direct := e.listeners[kind]
	wild := e.listeners[events.KindWildcard]
	if len(direct) == 0 && len(wild) == 0 {
		return nil, nil
	}

	all := make([]*entry, 0, len(direct)+len(wild))
	all = append(all, direct...)
	all = append(all, wild...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].priority != all[j].priority {
			return all[i].priority > all[j].priority
		}
		return all[i].id < all[j].id
	})
	return all, nil
}

// Emit dispatches ev synchronously to every matching listener, in
// order, until one stops propagation. Returns !PropagationStopped.
func (e *Emitter) Emit(ev events.Event) (bool, error) {
	return e.dispatch(context.Background(), ev)
}

// EmitAsync dispatches ev with the same ordering and stop semantics as
// Emit, but listeners may block; each is awaited to completion before
// the next is invoked, and no two listeners of one call ever run
// concurrently. A cancelled context skips the remaining listeners.
func (e *Emitter) EmitAsync(ctx context.Context, ev events.Event) (bool, error) {
	return e.dispatch(ctx, ev)
}

func (e *Emitter) dispatch(ctx context.Context, ev events.Event) (bool, error) {
	snap, err := e.snapshot(ev.Kind())
	if err != nil {
		return false, err
	}
	e.emitted.Add(1)

	for _, ent := range snap {
		if ev.PropagationStopped() {
			break
		}
		if ent.removed.Load() {
			continue
		}
		if ent.once && !ent.consumed.CompareAndSwap(false, true) {
			continue
		}

		res := e.exec.invoke(ctx, ev, ent.handler)

		if ent.once {
			e.remove(ent)
		}

		switch {
		case res.skipped:
			return !ev.PropagationStopped(), res.err
		case res.panicked:
			e.handlerPanics.Add(1)
		case res.err != nil:
			e.handlerErrors.Add(1)
		default:
			e.delivered.Add(1)
		}

		if res.stopped {
			ev.StopPropagation()
		}
	}

	return !ev.PropagationStopped(), nil
}

// ListenerCount returns the number of registrations for kind.
func (e *Emitter) ListenerCount(kind events.Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[kind])
}

// HasListeners reports whether kind has at least one registration.
func (e *Emitter) HasListeners(kind events.Kind) bool {
	return e.ListenerCount(kind) > 0
}

// EventKinds returns every concrete kind with at least one non-wildcard
// listener, in ascending kind order.
func (e *Emitter) EventKinds() []events.Kind {
	e.mu.Lock()
	defer e.mu.Unlock()

	kinds := make([]events.Kind, 0, len(e.listeners))
	for k, bucket := range e.listeners {
		if k != events.KindWildcard && len(bucket) > 0 {
			kinds = append(kinds, k)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// RemoveAllListeners removes every registration for the given kinds,
// or every registration (wildcard included) when called with none.
func (e *Emitter) RemoveAllListeners(kinds ...events.Kind) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrEmitterDestroyed
	}

	if len(kinds) == 0 {
		for _, bucket := range e.listeners {
			for _, ent := range bucket {
				ent.removed.Store(true)
			}
		}
		e.listeners = make(map[events.Kind][]*entry)
		return nil
	}

	for _, k := range kinds {
		for _, ent := range e.listeners[k] {
			ent.removed.Store(true)
		}
		delete(e.listeners, k)
	}
	return nil
}

// Destroy clears all listeners and permanently disables the emitter.
// Idempotent; every later registration or dispatch call fails with
// ErrEmitterDestroyed, while outstanding Unsubscribe handles become
// safe no-ops.
func (e *Emitter) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	for _, bucket := range e.listeners {
		for _, ent := range bucket {
			ent.removed.Store(true)
		}
	}
	e.listeners = make(map[events.Kind][]*entry)
	e.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (e *Emitter) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Stats returns a snapshot of emitter counters.
func (e *Emitter) Stats() Stats {
	e.mu.Lock()
	active := 0
	for _, bucket := range e.listeners {
		active += len(bucket)
	}
	e.mu.Unlock()

	return Stats{
		Emitted:         e.emitted.Load(),
		Delivered:       e.delivered.Load(),
		HandlerErrors:   e.handlerErrors.Load(),
		HandlerPanics:   e.handlerPanics.Load(),
		ActiveListeners: active,
	}
}
