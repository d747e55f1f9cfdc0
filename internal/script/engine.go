// Package script embeds a Lua interpreter that can subscribe to and
// emit engine events.
//
// The Lua state is single-threaded, so the engine confines it to one
// goroutine and funnels every interaction through a request channel.
// Event listeners registered from Lua are therefore asynchronous:
// dispatch hands the event to the script goroutine and moves on, and
// script errors are logged rather than returned to the emitter.
package script

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/termflux/termflux/internal/emitter"
	"github.com/termflux/termflux/internal/events"
	"github.com/termflux/termflux/internal/log"
	"github.com/termflux/termflux/internal/reactor"
)

// ModuleName is the global table scripts use.
const ModuleName = "termflux"

// defaultQueueLen bounds how many pending listener calls the script
// goroutine may fall behind by before events are dropped.
const defaultQueueLen = 256

// Engine runs Lua scripts against a reactor.
type Engine struct {
	r      *reactor.Reactor
	logger *log.Logger
	reqs   chan func(L *lua.LState)
	quit   chan struct{}
	closed chan struct{}
}

// New creates an engine bound to the reactor and starts the script
// goroutine.
func New(r *reactor.Reactor, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	e := &Engine{
		r:      r,
		logger: logger.WithComponent("script"),
		reqs:   make(chan func(L *lua.LState), defaultQueueLen),
		quit:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *Engine) loop() {
	defer close(e.closed)
	L := lua.NewState()
	defer L.Close()
	e.register(L)
	for {
		select {
		case fn := <-e.reqs:
			fn(L)
		case <-e.quit:
			return
		}
	}
}

// do runs fn on the script goroutine and waits for it.
func (e *Engine) do(fn func(L *lua.LState) error) error {
	errc := make(chan error, 1)
	select {
	case e.reqs <- func(L *lua.LState) { errc <- fn(L) }:
	case <-e.quit:
		return fmt.Errorf("script engine closed")
	}
	select {
	case err := <-errc:
		return err
	case <-e.closed:
		select {
		case err := <-errc:
			return err
		default:
			return fmt.Errorf("script engine closed")
		}
	}
}

// DoFile executes a Lua file.
func (e *Engine) DoFile(path string) error {
	return e.do(func(L *lua.LState) error {
		if err := L.DoFile(path); err != nil {
			return fmt.Errorf("script %s: %w", path, err)
		}
		return nil
	})
}

// DoString executes Lua source.
func (e *Engine) DoString(src string) error {
	return e.do(func(L *lua.LState) error {
		return L.DoString(src)
	})
}

// Close stops the script goroutine and releases the Lua state.
// Idempotent.
func (e *Engine) Close() {
	select {
	case <-e.quit:
		return
	default:
	}
	close(e.quit)
	<-e.closed
}

// register installs the termflux module table.
func (e *Engine) register(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "on", L.NewFunction(e.luaOn))
	L.SetField(mod, "emit", L.NewFunction(e.luaEmit))
	L.SetField(mod, "log", L.NewFunction(e.luaLog))
	L.SetGlobal(ModuleName, mod)
}

// luaOn implements termflux.on(kind, fn) -> unsubscribe.
func (e *Engine) luaOn(L *lua.LState) int {
	kindName := L.CheckString(1)
	fn := L.CheckFunction(2)

	kind, ok := parseKind(kindName)
	if !ok {
		L.RaiseError("unknown event kind %q", kindName)
		return 0
	}

	unsub, err := e.r.Emitter().On(kind, e.listener(fn))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}

	L.Push(L.NewFunction(func(L *lua.LState) int {
		unsub()
		return 0
	}))
	return 1
}

// listener wraps a Lua function as an emitter handler. The call is
// handed to the script goroutine; a full request queue drops the event
// for this listener rather than stalling dispatch.
func (e *Engine) listener(fn *lua.LFunction) emitter.Handler {
	return emitter.HandlerFunc(func(ctx context.Context, ev events.Event) error {
		call := func(L *lua.LState) {
			err := L.CallByParam(lua.P{
				Fn:      fn,
				NRet:    0,
				Protect: true,
			}, eventToTable(L, ev))
			if err != nil {
				e.logger.Warn("lua listener error for %s: %v", ev.Kind(), err)
			}
		}
		select {
		case e.reqs <- call:
		case <-e.quit:
		case <-ctx.Done():
			return ctx.Err()
		default:
			e.logger.Warn("lua listener queue full, %s event dropped", ev.Kind())
		}
		return nil
	})
}

// luaEmit implements termflux.emit(name, data?, priority?) -> ok, err.
func (e *Engine) luaEmit(L *lua.LState) int {
	name := L.CheckString(1)
	var data any
	if L.GetTop() >= 2 {
		data = toGoValue(L.Get(2), make(map[*lua.LTable]bool))
	}
	priority := events.PriorityNormal
	if L.GetTop() >= 3 {
		switch s := L.CheckString(3); s {
		case "high":
			priority = events.PriorityHigh
		case "normal":
			priority = events.PriorityNormal
		case "low":
			priority = events.PriorityLow
		default:
			L.RaiseError("unknown priority %q", s)
			return 0
		}
	}

	if err := e.r.Inject(events.NewCustomEvent(name, data, priority)); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// luaLog implements termflux.log(msg).
func (e *Engine) luaLog(L *lua.LState) int {
	e.logger.Info("%s", L.CheckString(1))
	return 0
}

func parseKind(name string) (events.Kind, bool) {
	switch name {
	case "key":
		return events.KindKey, true
	case "pointer", "mouse":
		return events.KindPointer, true
	case "resize":
		return events.KindResize, true
	case "focus":
		return events.KindFocus, true
	case "paste":
		return events.KindPaste, true
	case "signal":
		return events.KindSignal, true
	case "custom":
		return events.KindCustom, true
	case "*":
		return events.KindWildcard, true
	}
	return 0, false
}
