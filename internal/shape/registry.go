package shape

import (
	"sort"
	"sync"

	"github.com/termflux/termflux/internal/events"
)

// shaper is the behavior shared by Debouncer and Throttler that the
// generic registry core needs.
type shaper interface {
	Call(ev events.Event)
	Cancel()
	Flush()
	Pending() bool
}

// registry is the shared per-key table. The same key always resolves to
// the same shaper instance for the registry's lifetime.
type registry[S shaper] struct {
	mu    sync.Mutex
	items map[string]S
}

func newRegistry[S shaper]() registry[S] {
	return registry[S]{items: make(map[string]S)}
}

// getOrCreate returns the shaper for key, creating it with build on
// first use. Options passed on later calls for an existing key are
// ignored; the first registration wins.
func (r *registry[S]) getOrCreate(key string, build func() S) S {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[key]; ok {
		return s
	}
	s := build()
	r.items[key] = s
	return s
}

// Has reports whether key has shaping state.
func (r *registry[S]) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[key]
	return ok
}

// Remove cancels and deletes the shaper for key. Returns whether the
// key existed.
func (r *registry[S]) Remove(key string) bool {
	r.mu.Lock()
	s, ok := r.items[key]
	if ok {
		delete(r.items, key)
	}
	r.mu.Unlock()

	if ok {
		s.Cancel()
	}
	return ok
}

// Cancel discards a pending fire for key without removing the entry.
func (r *registry[S]) Cancel(key string) {
	if s, ok := r.get(key); ok {
		s.Cancel()
	}
}

// Flush forces a pending fire for key to resolve immediately.
func (r *registry[S]) Flush(key string) {
	if s, ok := r.get(key); ok {
		s.Flush()
	}
}

// Pending reports whether key has a fire scheduled.
func (r *registry[S]) Pending(key string) bool {
	s, ok := r.get(key)
	return ok && s.Pending()
}

func (r *registry[S]) get(key string) (S, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[key]
	return s, ok
}

// Keys returns every registered key in sorted order.
func (r *registry[S]) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered keys.
func (r *registry[S]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// CancelAll discards every pending fire. Used on reactor stop when
// pending work should be dropped.
func (r *registry[S]) CancelAll() {
	for _, s := range r.all() {
		s.Cancel()
	}
}

// FlushAll forces every pending fire to resolve immediately. Used on
// reactor stop so trailing events reach the queue before the drain.
func (r *registry[S]) FlushAll() {
	for _, s := range r.all() {
		s.Flush()
	}
}

func (r *registry[S]) all() []S {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]S, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	return out
}

// DebouncerRegistry manages one Debouncer per key.
type DebouncerRegistry struct {
	registry[*Debouncer]
}

// NewDebouncers creates an empty debouncer registry.
func NewDebouncers() *DebouncerRegistry {
	return &DebouncerRegistry{registry: newRegistry[*Debouncer]()}
}

// Debounce returns the shaped callback for key, creating the backing
// Debouncer on first use. The same key always yields a callback backed
// by the same shaping state.
func (r *DebouncerRegistry) Debounce(key string, fn Func, opts DebounceOptions) Func {
	d := r.getOrCreate(key, func() *Debouncer { return NewDebouncer(fn, opts) })
	return d.Call
}

// ThrottlerRegistry manages one Throttler per key.
type ThrottlerRegistry struct {
	registry[*Throttler]
}

// NewThrottlers creates an empty throttler registry.
func NewThrottlers() *ThrottlerRegistry {
	return &ThrottlerRegistry{registry: newRegistry[*Throttler]()}
}

// Throttle returns the shaped callback for key, creating the backing
// Throttler on first use.
func (r *ThrottlerRegistry) Throttle(key string, fn Func, opts ThrottleOptions) Func {
	t := r.getOrCreate(key, func() *Throttler { return NewThrottler(fn, opts) })
	return t.Call
}
