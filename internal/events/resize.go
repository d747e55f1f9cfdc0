package events

// ResizeEvent reports a terminal dimension change. It dispatches at
// high priority so layout reacts before queued input.
type ResizeEvent struct {
	Base

	// OldCols and OldRows are the dimensions before the change.
	// Zero when the previous size is unknown (first resize).
	OldCols, OldRows int

	// Cols and Rows are the new dimensions.
	Cols, Rows int
}

// NewResizeEvent creates a resize event at high priority.
func NewResizeEvent(oldCols, oldRows, cols, rows int) *ResizeEvent {
	return &ResizeEvent{
		Base:    newBase(KindResize, PriorityHigh),
		OldCols: oldCols,
		OldRows: oldRows,
		Cols:    cols,
		Rows:    rows,
	}
}
