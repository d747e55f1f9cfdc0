// Package emitter implements the priority-ordered, kind-indexed
// publish/subscribe registry at the center of the event engine.
//
// Listeners register against a concrete event kind or the wildcard
// channel (events.KindWildcard) and are invoked in descending listener
// priority, ties broken by registration order. The effective listener
// list for one Emit call is snapshotted and sorted when the call
// starts, so listeners that register or unregister other listeners
// mid-dispatch never corrupt the iteration in progress; a listener
// unsubscribed during the same dispatch is skipped rather than fired.
//
// Listener failures are isolated: a panic or returned error is caught,
// counted, and logged with the offending event kind, and never aborts
// dispatch to the remaining listeners. Returning ErrStopPropagation is
// the one special case: it stops the current dispatch the same way
// calling StopPropagation on the event does.
//
// A destroyed emitter fails every subsequent registration and dispatch
// with ErrEmitterDestroyed; silent no-ops there would mask
// use-after-destroy bugs.
package emitter
