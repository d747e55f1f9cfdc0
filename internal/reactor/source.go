package reactor

import "github.com/termflux/termflux/internal/events"

// InputSource is a raw byte stream the reactor reads from. The source
// owns its own read loop and reports chunks and failures through the
// callbacks handed to Start. Pause must make the source stop invoking
// onData until Resume; Stop must make it stop permanently. All four
// methods may be called from the reactor's goroutine.
type InputSource interface {
	Start(onData func(chunk []byte), onError func(err error)) error
	Pause()
	Resume()
	Stop()
}

// Parser turns raw input chunks into typed events. A Parser must be
// pure with respect to reactor state: it sees only the chunk. A non-nil
// error marks the whole chunk as unparseable; the reactor logs it and
// drops the chunk.
type Parser interface {
	Parse(chunk []byte) ([]events.Event, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(chunk []byte) ([]events.Event, error)

// Parse calls f.
func (f ParserFunc) Parse(chunk []byte) ([]events.Event, error) {
	return f(chunk)
}

// IdleFunc receives idle notifications. Errors are logged and
// swallowed at the call site.
type IdleFunc func(ev *events.IdleEvent) error
