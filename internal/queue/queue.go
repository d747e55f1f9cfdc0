// Package queue provides the bounded, priority-partitioned buffer that
// holds events awaiting dispatch.
//
// Events live in one FIFO bucket per priority tier. Dequeue always
// returns the lowest-priority-number, then earliest-enqueued entry, so
// ordering is priority-then-FIFO and stable within a tier. The total
// entry count is bounded; what happens on overflow is an explicit,
// documented configuration choice (OverflowReject or
// OverflowEvictOldest) and never a silent drop.
package queue

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/termflux/termflux/internal/events"
)

// ErrQueueFull is returned by Enqueue under OverflowReject when the
// queue is at capacity.
var ErrQueueFull = errors.New("event queue is full")

// OverflowPolicy selects the behavior when Enqueue hits capacity.
type OverflowPolicy int

const (
	// OverflowReject fails the newest insertion with ErrQueueFull.
	// The caller decides whether to log and drop or retry later.
	OverflowReject OverflowPolicy = iota

	// OverflowEvictOldest drops the oldest entry of the lowest-priority
	// non-empty bucket to make room, so high-priority work is never
	// sacrificed for low.
	OverflowEvictOldest
)

// String returns the policy name.
func (p OverflowPolicy) String() string {
	switch p {
	case OverflowReject:
		return "reject"
	case OverflowEvictOldest:
		return "evict-oldest"
	default:
		return "unknown"
	}
}

// DefaultMaxSize is the default total capacity.
const DefaultMaxSize = 10000

// Option configures a Queue.
type Option func(*Queue)

// WithMaxSize sets the total entry bound.
func WithMaxSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxSize = n
		}
	}
}

// WithOverflowPolicy sets the overflow behavior.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(q *Queue) {
		q.policy = p
	}
}

// Stats is a point-in-time snapshot of queue counters.
type Stats struct {
	// Enqueued is the total number of accepted insertions.
	Enqueued uint64

	// Dequeued is the total number of removals via Dequeue.
	Dequeued uint64

	// Dropped counts rejected insertions and evicted entries.
	Dropped uint64

	// HighWater is the largest size the queue has reached.
	HighWater int

	// Depth is the current size.
	Depth int
}

// Queue is a bounded three-tier FIFO. Safe for concurrent use: shaping
// timers and the signal bridge enqueue from their own goroutines while
// the reactor dequeues.
type Queue struct {
	mu      sync.Mutex
	buckets [events.PriorityCount][]events.Event
	size    int
	maxSize int
	policy  OverflowPolicy

	enqueued  atomic.Uint64
	dequeued  atomic.Uint64
	dropped   atomic.Uint64
	highWater int
}

// New creates a queue with the given options.
func New(opts ...Option) *Queue {
	q := &Queue{
		maxSize: DefaultMaxSize,
		policy:  OverflowReject,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue inserts ev into the bucket for its priority, preserving FIFO
// order within the bucket. At capacity, behavior follows the
// configured overflow policy.
func (q *Queue) Enqueue(ev events.Event) error {
	p := ev.Priority()
	if !p.Valid() {
		p = events.PriorityNormal
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size >= q.maxSize {
		switch q.policy {
		case OverflowEvictOldest:
			q.evictOldestLocked()
		default:
			q.dropped.Add(1)
			return ErrQueueFull
		}
	}

	q.buckets[p] = append(q.buckets[p], ev)
	q.size++
	if q.size > q.highWater {
		q.highWater = q.size
	}
	q.enqueued.Add(1)
	return nil
}

// evictOldestLocked frees one slot by dropping the head of the
// lowest-priority non-empty bucket.
func (q *Queue) evictOldestLocked() {
	for p := events.PriorityCount - 1; p >= 0; p-- {
		if len(q.buckets[p]) > 0 {
			q.buckets[p] = q.buckets[p][1:]
			q.size--
			q.dropped.Add(1)
			return
		}
	}
}

// Dequeue removes and returns the highest-priority, oldest-within-tier
// entry. The second return is false when the queue is empty.
func (q *Queue) Dequeue() (events.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for p := 0; p < events.PriorityCount; p++ {
		if len(q.buckets[p]) > 0 {
			ev := q.buckets[p][0]
			q.buckets[p][0] = nil // release for GC
			q.buckets[p] = q.buckets[p][1:]
			q.size--
			q.dequeued.Add(1)
			return ev, true
		}
	}
	return nil, false
}

// Len returns the current number of queued entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Empty reports whether the queue holds no entries.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}

// Clear discards every queued entry.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for p := range q.buckets {
		q.buckets[p] = nil
	}
	q.size = 0
}

// MaxSize returns the configured capacity.
func (q *Queue) MaxSize() int {
	return q.maxSize
}

// Policy returns the configured overflow policy.
func (q *Queue) Policy() OverflowPolicy {
	return q.policy
}

// Stats returns a snapshot of queue counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	depth := q.size
	high := q.highWater
	q.mu.Unlock()

	return Stats{
		Enqueued:  q.enqueued.Load(),
		Dequeued:  q.dequeued.Load(),
		Dropped:   q.dropped.Load(),
		HighWater: high,
		Depth:     depth,
	}
}
