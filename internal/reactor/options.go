package reactor

import (
	"time"

	"github.com/termflux/termflux/internal/log"
	"github.com/termflux/termflux/internal/queue"
)

// Tunable defaults. The idle and throttle intervals track a 60 fps
// frame budget.
const (
	DefaultIdleInterval     = 16 * time.Millisecond
	DefaultMaxEventsPerTick = 100
	DefaultQueueMaxSize     = 10000
	DefaultDebounceDelay    = 10 * time.Millisecond
	DefaultThrottleInterval = 16 * time.Millisecond
)

type options struct {
	logger           *log.Logger
	idleInterval     time.Duration
	maxEventsPerTick int
	queueMaxSize     int
	queuePolicy      queue.OverflowPolicy
	debounceKeys     bool
	debounceDelay    time.Duration
	throttleMouse    bool
	throttleInterval time.Duration
	handleSignals    bool
}

func defaultOptions() options {
	return options{
		idleInterval:     DefaultIdleInterval,
		maxEventsPerTick: DefaultMaxEventsPerTick,
		queueMaxSize:     DefaultQueueMaxSize,
		queuePolicy:      queue.OverflowReject,
		debounceKeys:     false,
		debounceDelay:    DefaultDebounceDelay,
		throttleMouse:    true,
		throttleInterval: DefaultThrottleInterval,
		handleSignals:    true,
	}
}

// Option configures a Reactor at construction time.
type Option func(*options)

// WithLogger sets the reactor's logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithIdleInterval sets the idle detection period. Non-positive values
// keep the default.
func WithIdleInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.idleInterval = d
		}
	}
}

// WithMaxEventsPerTick bounds how many events a single processing pass
// may dispatch before yielding. Non-positive values keep the default.
func WithMaxEventsPerTick(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEventsPerTick = n
		}
	}
}

// WithQueueMaxSize bounds the event queue. Non-positive values keep
// the default.
func WithQueueMaxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueMaxSize = n
		}
	}
}

// WithOverflowPolicy selects the queue's behavior when full.
func WithOverflowPolicy(p queue.OverflowPolicy) Option {
	return func(o *options) {
		o.queuePolicy = p
	}
}

// WithDebounceKeys enables per-key debouncing of key events. A
// non-positive delay keeps the default.
func WithDebounceKeys(delay time.Duration) Option {
	return func(o *options) {
		o.debounceKeys = true
		if delay > 0 {
			o.debounceDelay = delay
		}
	}
}

// WithMouseThrottle overrides the pointer throttle window. A
// non-positive interval keeps the default.
func WithMouseThrottle(interval time.Duration) Option {
	return func(o *options) {
		o.throttleMouse = true
		if interval > 0 {
			o.throttleInterval = interval
		}
	}
}

// WithoutMouseThrottle disables pointer throttling; every pointer
// event reaches the queue.
func WithoutMouseThrottle() Option {
	return func(o *options) {
		o.throttleMouse = false
	}
}

// WithoutSignals disables the OS signal bridge. The host process keeps
// default signal handling.
func WithoutSignals() Option {
	return func(o *options) {
		o.handleSignals = false
	}
}
