package emitter

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/termflux/termflux/internal/events"
	"github.com/termflux/termflux/internal/log"
)

// result captures the outcome of one handler invocation.
type result struct {
	err        error
	stopped    bool
	panicked   bool
	panicValue any
	duration   time.Duration
	skipped    bool
}

// executor invokes handlers with panic recovery and timing. Failures
// are reported through the logger, never propagated.
type executor struct {
	logger *log.Logger
}

func newExecutor(logger *log.Logger) *executor {
	return &executor{logger: logger}
}

// invoke runs one handler against one event. A skipped result means the
// context was already cancelled before the handler ran.
func (x *executor) invoke(ctx context.Context, ev events.Event, h Handler) (res result) {
	select {
	case <-ctx.Done():
		return result{err: ctx.Err(), skipped: true}
	default:
	}

	start := time.Now()

	defer func() {
		res.duration = time.Since(start)

		if r := recover(); r != nil {
			res.panicked = true
			res.panicValue = r
			res.err = nil
			x.logger.Error("listener panic on %s event: %v\n%s", ev.Kind(), r, debug.Stack())
		}
	}()

	err := h.Handle(ctx, ev)
	switch {
	case err == nil:
	case errors.Is(err, ErrStopPropagation):
		res.stopped = true
	default:
		res.err = err
		x.logger.Error("listener error on %s event: %v", ev.Kind(), err)
	}

	return res
}
