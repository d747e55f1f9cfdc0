package script

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/termflux/termflux/internal/events"
	"github.com/termflux/termflux/internal/reactor"
)

// sink records dispatched events.
type sink struct {
	mu  sync.Mutex
	evs []events.Event
}

func (s *sink) Handle(_ context.Context, ev events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evs = append(s.evs, ev)
	return nil
}

func (s *sink) all() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Event, len(s.evs))
	copy(out, s.evs)
	return out
}

func newEngine(t *testing.T) (*Engine, *reactor.Reactor) {
	t.Helper()
	r := reactor.New(
		reactor.WithoutSignals(),
		reactor.WithoutMouseThrottle(),
		reactor.WithIdleInterval(time.Hour),
	)
	if err := r.Start(); err != nil {
		t.Fatalf("reactor start: %v", err)
	}
	e := New(r, nil)
	t.Cleanup(func() {
		e.Close()
		r.Stop(context.Background())
	})
	return e, r
}

// waitLua polls until the Lua assertion stops failing.
func waitLua(t *testing.T, e *Engine, assertion string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var err error
	for time.Now().Before(deadline) {
		if err = e.DoString(assertion); err == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("lua assertion never passed: %v", err)
}

func TestLuaListenerReceivesKeyEvent(t *testing.T) {
	e, r := newEngine(t)

	err := e.DoString(`
		termflux.on("key", function(ev)
			got_kind = ev.kind
			got_key = ev.key
		end)
	`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}

	if err := r.Inject(events.NewRuneEvent('s', events.ModCtrl)); err != nil {
		t.Fatalf("Inject: %v", err)
	}

	waitLua(t, e, `
		if got_kind ~= "key" then error("kind: "..tostring(got_kind)) end
		if got_key ~= "ctrl+s" then error("key: "..tostring(got_key)) end
	`)
}

func TestLuaUnsubscribeStopsDelivery(t *testing.T) {
	e, r := newEngine(t)

	err := e.DoString(`
		count = 0
		local unsub = termflux.on("key", function(ev) count = count + 1 end)
		unsub()
	`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}

	if err := r.Inject(events.NewRuneEvent('a', events.ModNone)); err != nil {
		t.Fatalf("Inject: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := e.DoString(`if count ~= 0 then error("listener fired after unsubscribe") end`); err != nil {
		t.Fatal(err)
	}
}

func TestLuaEmitReachesGoListeners(t *testing.T) {
	e, r := newEngine(t)
	s := &sink{}
	if _, err := r.Emitter().On(events.KindCustom, s); err != nil {
		t.Fatalf("On: %v", err)
	}

	err := e.DoString(`ok = termflux.emit("tick", {n = 3, tags = {"a", "b"}}, "high")`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if err := e.DoString(`if not ok then error("emit reported failure") end`); err != nil {
		t.Fatal(err)
	}

	got := s.all()
	if len(got) != 1 {
		t.Fatalf("custom events = %d, want 1", len(got))
	}
	ce := got[0].(*events.CustomEvent)
	if ce.Name != "tick" {
		t.Errorf("name = %q, want tick", ce.Name)
	}
	if ce.Priority() != events.PriorityHigh {
		t.Errorf("priority = %v, want high", ce.Priority())
	}
	data, ok := ce.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want map", ce.Data)
	}
	if data["n"] != int64(3) {
		t.Errorf("n = %v, want 3", data["n"])
	}
	tags, ok := data["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", data["tags"])
	}
}

func TestLuaEmitWhileStoppedReportsError(t *testing.T) {
	r := reactor.New(reactor.WithoutSignals())
	e := New(r, nil)
	defer e.Close()

	err := e.DoString(`ok, emit_err = termflux.emit("x")`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}
	if err := e.DoString(`
		if ok then error("emit succeeded on stopped reactor") end
		if emit_err == nil then error("no error message") end
	`); err != nil {
		t.Fatal(err)
	}
}

func TestLuaListenerErrorIsIsolated(t *testing.T) {
	e, r := newEngine(t)
	s := &sink{}
	if _, err := r.Emitter().On(events.KindKey, s); err != nil {
		t.Fatalf("On: %v", err)
	}

	err := e.DoString(`
		termflux.on("key", function(ev) error("script boom") end)
		termflux.on("key", function(ev) survived = true end)
	`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}

	if err := r.Inject(events.NewRuneEvent('k', events.ModNone)); err != nil {
		t.Fatalf("Inject: %v", err)
	}

	waitLua(t, e, `if not survived then error("second listener missed") end`)
	if len(s.all()) != 1 {
		t.Errorf("go listener dispatches = %d, want 1", len(s.all()))
	}
	if r.State() != reactor.StateRunning {
		t.Errorf("state = %v, want running after lua error", r.State())
	}
}

func TestUnknownKindRaises(t *testing.T) {
	e, _ := newEngine(t)
	if err := e.DoString(`termflux.on("bogus", function() end)`); err == nil {
		t.Fatal("unknown kind accepted")
	}
}

func TestWildcardSeesEverything(t *testing.T) {
	e, r := newEngine(t)

	err := e.DoString(`
		kinds = {}
		termflux.on("*", function(ev) kinds[#kinds + 1] = ev.kind end)
	`)
	if err != nil {
		t.Fatalf("DoString: %v", err)
	}

	r.Inject(events.NewRuneEvent('a', events.ModNone))
	r.Inject(events.NewFocusEvent(true))

	waitLua(t, e, `
		if #kinds ~= 2 then error("saw "..#kinds) end
		if kinds[1] ~= "key" or kinds[2] ~= "focus" then error("order wrong") end
	`)
}

func TestCloseIdempotent(t *testing.T) {
	r := reactor.New(reactor.WithoutSignals())
	e := New(r, nil)
	e.Close()
	e.Close()
	if err := e.DoString(`x = 1`); err == nil {
		t.Fatal("DoString succeeded after Close")
	}
}
