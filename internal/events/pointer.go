package events

// PointerAction classifies what the pointing device did.
type PointerAction int

const (
	// PointerMove is motion without a button change.
	PointerMove PointerAction = iota
	// PointerPress is a button going down.
	PointerPress
	// PointerRelease is a button coming up.
	PointerRelease
	// PointerScroll is wheel motion.
	PointerScroll
)

// String returns the action name.
func (a PointerAction) String() string {
	switch a {
	case PointerMove:
		return "move"
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	case PointerScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// PointerButton identifies a mouse button.
type PointerButton int

const (
	// ButtonNone means no button involved (pure motion).
	ButtonNone PointerButton = iota
	// ButtonPrimary is the left button.
	ButtonPrimary
	// ButtonSecondary is the right button.
	ButtonSecondary
	// ButtonMiddle is the wheel button.
	ButtonMiddle
	// ButtonWheelUp is upward wheel motion.
	ButtonWheelUp
	// ButtonWheelDown is downward wheel motion.
	ButtonWheelDown
)

// PointerEvent is a mouse action at a cell coordinate.
type PointerEvent struct {
	Base

	Action PointerAction
	Button PointerButton

	// X and Y are zero-based cell coordinates.
	X, Y int

	Mod Modifier
}

// NewPointerEvent creates a pointer event at normal priority.
func NewPointerEvent(action PointerAction, button PointerButton, x, y int, mod Modifier) *PointerEvent {
	return &PointerEvent{
		Base:   newBase(KindPointer, PriorityNormal),
		Action: action,
		Button: button,
		X:      x,
		Y:      y,
		Mod:    mod,
	}
}

// ShapeKey groups all pointer events under one throttling key: motion
// bursts are coalesced as a single stream regardless of button state.
func (e *PointerEvent) ShapeKey() string {
	return "pointer"
}
