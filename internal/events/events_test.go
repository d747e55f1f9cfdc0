package events

import (
	"testing"
	"time"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindKey, "key"},
		{KindPointer, "pointer"},
		{KindResize, "resize"},
		{KindFocus, "focus"},
		{KindPaste, "paste"},
		{KindSignal, "signal"},
		{KindIdle, "idle"},
		{KindCustom, "custom"},
		{KindWildcard, "*"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindValid(t *testing.T) {
	if !KindKey.Valid() || !KindCustom.Valid() {
		t.Error("expected concrete kinds to be valid")
	}
	if KindWildcard.Valid() {
		t.Error("wildcard must not be a valid concrete kind")
	}
	if Kind(99).Valid() {
		t.Error("out-of-range kind must not be valid")
	}
}

func TestPriorityOrderingValues(t *testing.T) {
	if !(PriorityHigh < PriorityNormal && PriorityNormal < PriorityLow) {
		t.Error("priority tiers must order high < normal < low")
	}
}

func TestBaseEnvelope(t *testing.T) {
	before := time.Now()
	ev := NewKeyEvent("a", 'a', ModNone)

	if ev.Kind() != KindKey {
		t.Errorf("Kind() = %v, want key", ev.Kind())
	}
	if ev.Priority() != PriorityNormal {
		t.Errorf("Priority() = %v, want normal", ev.Priority())
	}
	if ev.Time().Before(before) {
		t.Error("timestamp precedes construction")
	}
	if ev.PropagationStopped() {
		t.Error("new event must not have propagation stopped")
	}
	if ev.DefaultPrevented() {
		t.Error("new event must not have default prevented")
	}

	ev.StopPropagation()
	ev.PreventDefault()
	if !ev.PropagationStopped() || !ev.DefaultPrevented() {
		t.Error("flags did not stick")
	}
}

func TestKeyEventString(t *testing.T) {
	tests := []struct {
		name string
		ev   *KeyEvent
		want string
	}{
		{"plain rune", NewRuneEvent('a', ModNone), "a"},
		{"shifted rune folds shift", NewRuneEvent('A', ModShift), "A"},
		{"ctrl special", NewKeyEvent("s", 's', ModCtrl), "ctrl+s"},
		{"special key", NewKeyEvent("enter", 0, ModNone), "enter"},
		{"modified special", NewKeyEvent("up", 0, ModAlt|ModShift), "alt+shift+up"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShapeKeys(t *testing.T) {
	key := NewKeyEvent("s", 's', ModCtrl)
	if got := key.ShapeKey(); got != "key:ctrl+s" {
		t.Errorf("key ShapeKey() = %q, want %q", got, "key:ctrl+s")
	}

	ptr := NewPointerEvent(PointerMove, ButtonNone, 3, 4, ModNone)
	if got := ptr.ShapeKey(); got != "pointer" {
		t.Errorf("pointer ShapeKey() = %q, want %q", got, "pointer")
	}

	rz := NewResizeEvent(80, 24, 120, 40)
	if got := rz.ShapeKey(); got != "resize" {
		t.Errorf("resize ShapeKey() = %q, want %q", got, "resize")
	}
}

func TestDefaultPriorities(t *testing.T) {
	if NewResizeEvent(0, 0, 80, 24).Priority() != PriorityHigh {
		t.Error("resize must default to high priority")
	}
	if NewSignalEvent(SignalInterrupt).Priority() != PriorityHigh {
		t.Error("signal must default to high priority")
	}
	if NewPasteEvent("x").Priority() != PriorityNormal {
		t.Error("paste must default to normal priority")
	}
	if NewIdleEvent(time.Second).Priority() != PriorityLow {
		t.Error("idle must default to low priority")
	}
}

func TestNewCustomEventPriorityClamped(t *testing.T) {
	ev := NewCustomEvent("tick", nil, Priority(42))
	if ev.Priority() != PriorityNormal {
		t.Errorf("invalid priority should clamp to normal, got %v", ev.Priority())
	}
	ev = NewCustomEvent("tick", nil, PriorityHigh)
	if ev.Priority() != PriorityHigh {
		t.Errorf("explicit priority not honored, got %v", ev.Priority())
	}
}

func TestModifierString(t *testing.T) {
	m := ModCtrl.With(ModShift)
	if got := m.String(); got != "ctrl+shift" {
		t.Errorf("String() = %q, want %q", got, "ctrl+shift")
	}
	if got := m.Without(ModShift).String(); got != "ctrl" {
		t.Errorf("Without(shift) = %q, want %q", got, "ctrl")
	}
	if !m.Has(ModCtrl) || m.Has(ModAlt) {
		t.Error("Has() misreports membership")
	}
}
