package terminal

import (
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/termflux/termflux/internal/events"
)

// injector records everything a source hands over.
type injector struct {
	mu  sync.Mutex
	evs []events.Event
}

func (i *injector) Inject(ev events.Event) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.evs = append(i.evs, ev)
	return nil
}

func (i *injector) count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.evs)
}

func (i *injector) all() []events.Event {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]events.Event, len(i.evs))
	copy(out, i.evs)
	return out
}

func newTestSource(inj *injector) *Source {
	return NewWithScreen(tcell.NewSimulationScreen("UTF-8"), inj, Config{})
}

func TestTranslateKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), "alt+x"},
		{"ctrl chord", tcell.NewEventKey(tcell.KeyCtrlS, 's', tcell.ModCtrl), "ctrl+s"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{"shift function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModShift), "shift+f5"},
		{"arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "up"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := translateKey(tt.ev)
			ke, ok := ev.(*events.KeyEvent)
			if !ok {
				t.Fatalf("translateKey = %T, want *KeyEvent", ev)
			}
			if got := ke.String(); got != tt.want {
				t.Errorf("key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslateMouseDerivesActions(t *testing.T) {
	inj := &injector{}
	s := newTestSource(inj)

	steps := []struct {
		buttons tcell.ButtonMask
		action  events.PointerAction
		button  events.PointerButton
	}{
		{tcell.ButtonNone, events.PointerMove, events.ButtonNone},
		{tcell.Button1, events.PointerPress, events.ButtonPrimary},
		{tcell.Button1, events.PointerMove, events.ButtonNone},
		{tcell.ButtonNone, events.PointerRelease, events.ButtonPrimary},
		{tcell.WheelUp, events.PointerScroll, events.ButtonWheelUp},
	}
	for i, step := range steps {
		ev := s.translateMouse(tcell.NewEventMouse(3, 4, step.buttons, tcell.ModNone))
		pe, ok := ev.(*events.PointerEvent)
		if !ok {
			t.Fatalf("step %d: %T, want *PointerEvent", i, ev)
		}
		if pe.Action != step.action || pe.Button != step.button {
			t.Errorf("step %d: action=%v button=%v, want %v/%v", i, pe.Action, pe.Button, step.action, step.button)
		}
		if pe.X != 3 || pe.Y != 4 {
			t.Errorf("step %d: position = %d,%d want 3,4", i, pe.X, pe.Y)
		}
	}
}

func TestResizeCarriesPreviousSize(t *testing.T) {
	inj := &injector{}
	s := newTestSource(inj)
	s.prevCols, s.prevRows = 80, 24

	s.handleEvent(tcell.NewEventResize(120, 40))
	s.handleEvent(tcell.NewEventResize(60, 20))

	got := inj.all()
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	first := got[0].(*events.ResizeEvent)
	if first.OldCols != 80 || first.OldRows != 24 || first.Cols != 120 || first.Rows != 40 {
		t.Errorf("first resize = %+v, want 80x24 -> 120x40", first)
	}
	second := got[1].(*events.ResizeEvent)
	if second.OldCols != 120 || second.Cols != 60 {
		t.Errorf("second resize old=%d new=%d, want 120 -> 60", second.OldCols, second.Cols)
	}
}

func TestPasteAccumulatesBetweenMarkers(t *testing.T) {
	inj := &injector{}
	s := newTestSource(inj)

	s.handleEvent(tcell.NewEventPaste(true))
	for _, r := range "hi" {
		s.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	s.handleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	s.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	s.handleEvent(tcell.NewEventPaste(false))

	got := inj.all()
	if len(got) != 1 {
		t.Fatalf("events = %d, want 1 paste event only", len(got))
	}
	pe := got[0].(*events.PasteEvent)
	if pe.Text != "hi\nx" {
		t.Errorf("paste text = %q, want %q", pe.Text, "hi\nx")
	}
}

func TestFocusTranslation(t *testing.T) {
	inj := &injector{}
	s := newTestSource(inj)

	s.handleEvent(tcell.NewEventFocus(true))
	s.handleEvent(tcell.NewEventFocus(false))

	got := inj.all()
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if !got[0].(*events.FocusEvent).Gained || got[1].(*events.FocusEvent).Gained {
		t.Error("focus gained/lost order wrong")
	}
}

func TestPollLoopDeliversInjectedInput(t *testing.T) {
	inj := &injector{}
	sim := tcell.NewSimulationScreen("UTF-8")
	s := NewWithScreen(sim, inj, Config{Mouse: true, BracketedPaste: true})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	deadline := time.Now().Add(2 * time.Second)
	for inj.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()
	s.Stop() // idempotent

	found := false
	for _, ev := range inj.all() {
		if ke, ok := ev.(*events.KeyEvent); ok && ke.Rune == 'q' {
			found = true
		}
	}
	if !found {
		t.Fatal("injected key never reached the injector")
	}
}
