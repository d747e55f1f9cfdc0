// Package reactor drives the event pipeline: it reads chunks from an
// input source, parses them into events, applies shaping, queues, and
// dispatches through the emitter, with idle detection and an OS signal
// bridge. One reactor exclusively owns its emitter, queue, and shaping
// registries.
package reactor

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/termflux/termflux/internal/emitter"
	"github.com/termflux/termflux/internal/events"
	"github.com/termflux/termflux/internal/log"
	"github.com/termflux/termflux/internal/queue"
	"github.com/termflux/termflux/internal/shape"
	"github.com/termflux/termflux/internal/sigbridge"
)

// State is the reactor lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateRunning
	StatePaused
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

// Stats is a point-in-time snapshot of reactor counters.
type Stats struct {
	Processed      uint64
	Injected       uint64
	ParserFailures uint64
	IdleFires      uint64
}

// Reactor is the event loop core.
type Reactor struct {
	opts   options
	logger *log.Logger

	state atomic.Int32

	emit       *emitter.Emitter
	queue      *queue.Queue
	debouncers *shape.DebouncerRegistry
	throttlers *shape.ThrottlerRegistry
	bridge     *sigbridge.Bridge

	mu     sync.Mutex // guards source, parser, group, cancel
	source InputSource
	parser Parser
	group  *errgroup.Group
	cancel context.CancelFunc

	idleMu sync.Mutex
	idleCb IdleFunc

	// runtime tunables, adjustable while running
	idleEvery  atomic.Int64 // nanoseconds
	maxPerTick atomic.Int64

	processing atomic.Bool
	lastEvent  atomic.Int64 // unix nanoseconds

	processed      atomic.Uint64
	injected       atomic.Uint64
	parserFailures atomic.Uint64
	idleFires      atomic.Uint64
}

// New creates a stopped reactor.
func New(opts ...Option) *Reactor {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent("reactor")

	r := &Reactor{
		opts:       o,
		logger:     logger,
		emit:       emitter.New(logger),
		queue:      queue.New(queue.WithMaxSize(o.queueMaxSize), queue.WithOverflowPolicy(o.queuePolicy)),
		debouncers: shape.NewDebouncers(),
		throttlers: shape.NewThrottlers(),
	}
	r.idleEvery.Store(int64(o.idleInterval))
	r.maxPerTick.Store(int64(o.maxEventsPerTick))
	return r
}

// Emitter returns the reactor-owned emitter for listener registration.
func (r *Reactor) Emitter() *emitter.Emitter { return r.emit }

// Queue returns the reactor-owned queue. Callers observe it; only the
// reactor feeds it.
func (r *Reactor) Queue() *queue.Queue { return r.queue }

// State returns the current lifecycle state.
func (r *Reactor) State() State {
	return State(r.state.Load())
}

// Stats returns a snapshot of reactor counters.
func (r *Reactor) Stats() Stats {
	return Stats{
		Processed:      r.processed.Load(),
		Injected:       r.injected.Load(),
		ParserFailures: r.parserFailures.Load(),
		IdleFires:      r.idleFires.Load(),
	}
}

// SetSource attaches the raw input source. Takes effect on the next
// Start.
func (r *Reactor) SetSource(src InputSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.source = src
}

// SetParser attaches the chunk parser.
func (r *Reactor) SetParser(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parser = p
}

// SetIdleCallback registers the idle notification target. Nil disables
// idle detection.
func (r *Reactor) SetIdleCallback(fn IdleFunc) {
	r.idleMu.Lock()
	defer r.idleMu.Unlock()
	r.idleCb = fn
}

// SetIdleInterval adjusts the idle detection period at runtime.
// Non-positive values are ignored.
func (r *Reactor) SetIdleInterval(d time.Duration) {
	if d > 0 {
		r.idleEvery.Store(int64(d))
	}
}

// SetMaxEventsPerTick adjusts the per-pass dispatch bound at runtime.
// Non-positive values are ignored.
func (r *Reactor) SetMaxEventsPerTick(n int) {
	if n > 0 {
		r.maxPerTick.Store(int64(n))
	}
}

// Start transitions Stopped -> Running: attaches the input source,
// starts the signal bridge and the idle ticker, and performs one
// processing pass. Starting a reactor that is not stopped fails with
// ErrAlreadyRunning.
func (r *Reactor) Start() error {
	if !r.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return ErrAlreadyRunning
	}
	r.lastEvent.Store(time.Now().UnixNano())

	r.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	r.group = group
	r.cancel = cancel
	src := r.source
	var bridge *sigbridge.Bridge
	if r.opts.handleSignals {
		bridge = sigbridge.New(sigbridge.Config{
			Notify: r.ingestEvent,
			Logger: r.logger,
		})
		r.bridge = bridge
	}
	r.mu.Unlock()

	if bridge != nil {
		bridge.Start()
	}

	if src != nil {
		if err := src.Start(r.onData, r.onError); err != nil {
			if bridge != nil {
				bridge.Stop()
			}
			cancel()
			r.mu.Lock()
			r.bridge = nil
			r.mu.Unlock()
			r.state.Store(int32(StateStopped))
			return err
		}
	}

	group.Go(func() error {
		r.idleLoop(gctx)
		return nil
	})

	r.logger.Info("started")
	r.process()
	return nil
}

// Pause transitions Running -> Paused: input reading stops, already
// queued events stay queued, signals and injections still accumulate.
func (r *Reactor) Pause() error {
	if !r.state.CompareAndSwap(int32(StateRunning), int32(StatePaused)) {
		return ErrNotRunning
	}
	r.mu.Lock()
	src := r.source
	r.mu.Unlock()
	if src != nil {
		src.Pause()
	}
	r.logger.Debug("paused")
	return nil
}

// Resume transitions Paused -> Running and triggers a processing pass
// to work off anything that accumulated while paused.
func (r *Reactor) Resume() error {
	if !r.state.CompareAndSwap(int32(StatePaused), int32(StateRunning)) {
		return ErrNotPaused
	}
	r.mu.Lock()
	src := r.source
	r.mu.Unlock()
	if src != nil {
		src.Resume()
	}
	r.logger.Debug("resumed")
	r.process()
	return nil
}

// Stop gracefully shuts the reactor down: detaches input, stops the
// idle ticker and the signal bridge, flushes pending shaped fires, and
// drains the queue through EmitAsync before settling in Stopped. A
// no-op from Stopped or Stopping. The context bounds the drain; on
// expiry the remaining events are discarded and the context error is
// returned, with the reactor still ending Stopped.
func (r *Reactor) Stop(ctx context.Context) error {
	if !r.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) &&
		!r.state.CompareAndSwap(int32(StatePaused), int32(StateStopping)) {
		return nil
	}
	defer r.state.Store(int32(StateStopped))

	r.mu.Lock()
	src := r.source
	cancel := r.cancel
	group := r.group
	bridge := r.bridge
	r.bridge = nil
	r.mu.Unlock()

	if src != nil {
		src.Stop()
	}
	if cancel != nil {
		cancel()
	}
	if group != nil {
		_ = group.Wait()
	}
	if bridge != nil {
		bridge.Stop()
	}

	// Pending trailing fires enqueue into the drain below.
	r.debouncers.FlushAll()
	r.throttlers.FlushAll()

	var drainErr error
	drained := 0
	for {
		if err := ctx.Err(); err != nil {
			drainErr = err
			r.queue.Clear()
			break
		}
		ev, ok := r.queue.Dequeue()
		if !ok {
			break
		}
		if _, err := r.emit.EmitAsync(ctx, ev); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			r.logger.Error("drain dispatch failed: %v", err)
		}
		r.processed.Add(1)
		drained++
	}

	r.logger.Info("stopped (drained=%d)", drained)
	return drainErr
}

// Inject feeds a typed event directly into the pipeline, bypassing the
// byte parser but not shaping or backpressure. Valid while Running or
// Paused.
func (r *Reactor) Inject(ev events.Event) error {
	switch r.State() {
	case StateRunning, StatePaused:
	default:
		return ErrNotRunning
	}
	r.injected.Add(1)
	r.route(ev)
	return nil
}

// onData is the input source's chunk callback.
func (r *Reactor) onData(chunk []byte) {
	if r.State() != StateRunning {
		return
	}
	r.mu.Lock()
	p := r.parser
	r.mu.Unlock()
	if p == nil {
		r.logger.Warn("chunk dropped: no parser attached")
		return
	}
	evs, err := p.Parse(chunk)
	if err != nil {
		r.parserFailures.Add(1)
		r.logger.Warn("chunk dropped: parse failed: %v", err)
		return
	}
	for _, ev := range evs {
		r.route(ev)
	}
}

// onError is the input source's failure callback.
func (r *Reactor) onError(err error) {
	r.logger.Error("input source error: %v", err)
}

// ingestEvent receives bridge-synthesized events. They skip shaping.
func (r *Reactor) ingestEvent(ev events.Event) {
	switch r.State() {
	case StateRunning, StatePaused:
		r.enqueue(ev)
	}
}

// route sends one event through the applicable shaping policy, or
// straight to the queue.
func (r *Reactor) route(ev events.Event) {
	switch ev.Kind() {
	case events.KindKey:
		if r.opts.debounceKeys {
			fn := r.debouncers.Debounce(ev.ShapeKey(), r.enqueue, shape.DebounceOptions{
				Delay:    r.opts.debounceDelay,
				Trailing: true,
			})
			fn(ev)
			return
		}
	case events.KindPointer:
		if r.opts.throttleMouse {
			fn := r.throttlers.Throttle(ev.ShapeKey(), r.enqueue, shape.ThrottleOptions{
				Interval: r.opts.throttleInterval,
				Leading:  true,
				Trailing: true,
			})
			fn(ev)
			return
		}
	}
	r.enqueue(ev)
}

// enqueue adds one event to the queue and triggers a processing pass.
func (r *Reactor) enqueue(ev events.Event) {
	if err := r.queue.Enqueue(ev); err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			r.logger.Warn("event dropped: queue full (kind=%s)", ev.Kind())
			return
		}
		r.logger.Error("enqueue failed: %v", err)
		return
	}
	r.process()
}

// process runs one bounded dispatch pass. The re-entrancy guard means
// a listener whose handling enqueues more events does not recurse; the
// new events wait for the current pass or the next trigger.
func (r *Reactor) process() {
	if !r.processing.CompareAndSwap(false, true) {
		return
	}
	defer r.processing.Store(false)

	limit := int(r.maxPerTick.Load())
	for n := 0; n < limit; n++ {
		if r.State() != StateRunning {
			return
		}
		ev, ok := r.queue.Dequeue()
		if !ok {
			return
		}
		r.lastEvent.Store(time.Now().UnixNano())
		if _, err := r.emit.Emit(ev); err != nil {
			r.logger.Error("dispatch failed: %v", err)
		}
		r.processed.Add(1)
	}
}

// idleLoop ticks every idle interval. A non-empty queue gets a
// processing pass instead of an idle notification, which also picks up
// events that raced a finishing pass.
func (r *Reactor) idleLoop(ctx context.Context) {
	for {
		timer := time.NewTimer(time.Duration(r.idleEvery.Load()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		r.idleTick()
	}
}

func (r *Reactor) idleTick() {
	if r.State() != StateRunning {
		return
	}
	if !r.queue.Empty() {
		r.process()
		return
	}
	if r.processing.Load() {
		return
	}
	r.idleMu.Lock()
	cb := r.idleCb
	r.idleMu.Unlock()
	if cb == nil {
		return
	}
	delta := time.Since(time.Unix(0, r.lastEvent.Load()))
	r.idleFires.Add(1)
	r.safeIdle(cb, events.NewIdleEvent(delta))
}

// safeIdle isolates idle callback failures the same way the emitter
// isolates listener failures.
func (r *Reactor) safeIdle(cb IdleFunc, ev *events.IdleEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("idle callback panic: %v\n%s", rec, debug.Stack())
		}
	}()
	if err := cb(ev); err != nil {
		r.logger.Warn("idle callback error: %v", err)
	}
}
