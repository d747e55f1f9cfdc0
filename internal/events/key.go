package events

import "unicode"

// KeyEvent is a single key press.
type KeyEvent struct {
	Base

	// Name is the canonical key name: a literal character ("a", "$"),
	// or a special-key name ("enter", "escape", "f5", "up").
	Name string

	// Rune is the character for printable keys, zero otherwise.
	Rune rune

	// Mod contains the active modifier keys. For printable keys Shift
	// is folded into the rune and not reported separately.
	Mod Modifier

	// Repeat is true when the key arrived through terminal auto-repeat.
	Repeat bool
}

// NewKeyEvent creates a key event at normal priority.
func NewKeyEvent(name string, r rune, mod Modifier) *KeyEvent {
	return &KeyEvent{
		Base: newBase(KindKey, PriorityNormal),
		Name: name,
		Rune: r,
		Mod:  mod,
	}
}

// NewRuneEvent creates a key event for a printable character.
func NewRuneEvent(r rune, mod Modifier) *KeyEvent {
	return &KeyEvent{
		Base: newBase(KindKey, PriorityNormal),
		Name: string(r),
		Rune: r,
		Mod:  mod,
	}
}

// IsRune returns true if this is a character key event.
func (e *KeyEvent) IsRune() bool {
	return e.Rune != 0
}

// IsChar returns true if this is a printable character.
func (e *KeyEvent) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// String returns the canonical form, e.g. "a", "enter", "ctrl+s".
func (e *KeyEvent) String() string {
	mods := e.Mod
	if e.IsRune() {
		// Shift is part of the character itself.
		mods = mods.Without(ModShift)
	}
	if mods.IsEmpty() {
		return e.Name
	}
	return mods.String() + "+" + e.Name
}

// ShapeKey returns the per-key debounce key, e.g. "key:ctrl+s".
func (e *KeyEvent) ShapeKey() string {
	return "key:" + e.String()
}
