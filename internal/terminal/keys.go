package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/termflux/termflux/internal/events"
)

// keyNames maps tcell special keys to canonical key names.
var keyNames = map[tcell.Key]string{
	tcell.KeyEscape:     "escape",
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "backtab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pageup",
	tcell.KeyPgDn:       "pagedown",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyF1:         "f1",
	tcell.KeyF2:         "f2",
	tcell.KeyF3:         "f3",
	tcell.KeyF4:         "f4",
	tcell.KeyF5:         "f5",
	tcell.KeyF6:         "f6",
	tcell.KeyF7:         "f7",
	tcell.KeyF8:         "f8",
	tcell.KeyF9:         "f9",
	tcell.KeyF10:        "f10",
	tcell.KeyF11:        "f11",
	tcell.KeyF12:        "f12",
}

// translateKey converts a tcell key event into a KeyEvent.
func translateKey(e *tcell.EventKey) events.Event {
	mod := translateMod(e.Modifiers())

	if name, ok := keyNames[e.Key()]; ok {
		return events.NewKeyEvent(name, 0, mod)
	}

	// tcell reports ctrl-letter chords as dedicated key codes.
	if k := e.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + (k - tcell.KeyCtrlA))
		return events.NewRuneEvent(r, mod.With(events.ModCtrl))
	}

	if e.Key() == tcell.KeyRune {
		return events.NewRuneEvent(e.Rune(), mod)
	}

	// Unnamed key; keep the raw rune if tcell decoded one.
	if e.Rune() != 0 {
		return events.NewRuneEvent(e.Rune(), mod)
	}
	return nil
}

func translateMod(m tcell.ModMask) events.Modifier {
	var mod events.Modifier
	if m&tcell.ModShift != 0 {
		mod = mod.With(events.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mod = mod.With(events.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mod = mod.With(events.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mod = mod.With(events.ModMeta)
	}
	return mod
}
