// Package events defines the closed set of event kinds flowing through
// the engine and the envelope they share.
//
// Every event embeds a Base envelope carrying the kind tag, a monotonic
// creation timestamp, a dispatch priority, and two listener-settable
// flags: propagation-stopped (halts further dispatch of the occurrence)
// and default-prevented (advisory, no engine semantics attached).
//
// Events are immutable by convention: the kind is fixed at construction
// and payload fields must not be modified after the event is enqueued.
// Listeners may only touch the two flags. Events are always handled by
// pointer so flag changes made by one listener are visible to the next.
//
// Downstream code switches exhaustively on Kind (or type-switches on the
// concrete variant) rather than probing for field presence.
package events
