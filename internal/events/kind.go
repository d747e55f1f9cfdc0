package events

// Kind discriminates event variants. The set is closed; the engine never
// synthesizes kinds outside it.
type Kind int

const (
	// KindKey is a keyboard event.
	KindKey Kind = iota
	// KindPointer is a mouse or other pointing-device event.
	KindPointer
	// KindResize is a terminal dimension change.
	KindResize
	// KindFocus is a terminal focus gain or loss.
	KindFocus
	// KindPaste is a bracketed-paste text block.
	KindPaste
	// KindSignal is a translated operating-system signal.
	KindSignal
	// KindIdle reports a quiescent period to the idle callback.
	KindIdle
	// KindCustom is an application-defined event.
	KindCustom
)

// KindWildcard is a subscription-only pseudo-kind matching every event.
// No event ever carries it.
const KindWildcard Kind = -1

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindPointer:
		return "pointer"
	case KindResize:
		return "resize"
	case KindFocus:
		return "focus"
	case KindPaste:
		return "paste"
	case KindSignal:
		return "signal"
	case KindIdle:
		return "idle"
	case KindCustom:
		return "custom"
	case KindWildcard:
		return "*"
	default:
		return "unknown"
	}
}

// Valid reports whether k names a concrete event kind (not the wildcard).
func (k Kind) Valid() bool {
	return k >= KindKey && k <= KindCustom
}

// Priority orders events for dequeue. Lower values dispatch first.
type Priority int

const (
	// PriorityHigh is for resize, signal, and other must-not-lag events.
	PriorityHigh Priority = 0
	// PriorityNormal is the default for input events.
	PriorityNormal Priority = 1
	// PriorityLow is for background and idle-class events.
	PriorityLow Priority = 2
)

// PriorityCount is the number of priority tiers.
const PriorityCount = 3

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the three tiers.
func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}
