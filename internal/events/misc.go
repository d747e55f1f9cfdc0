package events

import "time"

// FocusEvent reports the terminal gaining or losing focus.
type FocusEvent struct {
	Base

	// Gained is true when focus was acquired, false when lost.
	Gained bool
}

// NewFocusEvent creates a focus event at normal priority.
func NewFocusEvent(gained bool) *FocusEvent {
	return &FocusEvent{
		Base:   newBase(KindFocus, PriorityNormal),
		Gained: gained,
	}
}

// PasteEvent carries one bracketed-paste text block.
type PasteEvent struct {
	Base

	Text string
}

// NewPasteEvent creates a paste event at normal priority.
func NewPasteEvent(text string) *PasteEvent {
	return &PasteEvent{
		Base: newBase(KindPaste, PriorityNormal),
		Text: text,
	}
}

// IdleEvent is delivered to the registered idle callback when the
// reactor has been quiescent for at least one idle interval. It never
// travels through the queue or the emitter.
type IdleEvent struct {
	Base

	// Delta is the time elapsed since the last dispatched event.
	Delta time.Duration
}

// NewIdleEvent creates an idle event at low priority.
func NewIdleEvent(delta time.Duration) *IdleEvent {
	return &IdleEvent{
		Base:  newBase(KindIdle, PriorityLow),
		Delta: delta,
	}
}

// CustomEvent is an application-defined event with an opaque payload.
type CustomEvent struct {
	Base

	// Name distinguishes custom event flavors for subscribers.
	Name string

	// Data is an opaque payload the engine never inspects.
	Data any
}

// NewCustomEvent creates a custom event at the given priority.
func NewCustomEvent(name string, data any, priority Priority) *CustomEvent {
	if !priority.Valid() {
		priority = PriorityNormal
	}
	return &CustomEvent{
		Base: newBase(KindCustom, priority),
		Name: name,
		Data: data,
	}
}
