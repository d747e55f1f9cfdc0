package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/termflux/termflux/internal/events"
)

// eventToTable renders an event as the table Lua listeners receive.
// Tables are copies; mutating them never touches the Go event.
func eventToTable(L *lua.LState, ev events.Event) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "kind", lua.LString(ev.Kind().String()))
	L.SetField(t, "priority", lua.LString(ev.Priority().String()))

	switch e := ev.(type) {
	case *events.KeyEvent:
		L.SetField(t, "key", lua.LString(e.String()))
		L.SetField(t, "name", lua.LString(e.Name))
		if e.Rune != 0 {
			L.SetField(t, "rune", lua.LString(string(e.Rune)))
		}
		L.SetField(t, "mod", lua.LString(e.Mod.String()))
	case *events.PointerEvent:
		L.SetField(t, "action", lua.LNumber(e.Action))
		L.SetField(t, "button", lua.LNumber(e.Button))
		L.SetField(t, "x", lua.LNumber(e.X))
		L.SetField(t, "y", lua.LNumber(e.Y))
	case *events.ResizeEvent:
		L.SetField(t, "cols", lua.LNumber(e.Cols))
		L.SetField(t, "rows", lua.LNumber(e.Rows))
		L.SetField(t, "old_cols", lua.LNumber(e.OldCols))
		L.SetField(t, "old_rows", lua.LNumber(e.OldRows))
	case *events.FocusEvent:
		L.SetField(t, "gained", lua.LBool(e.Gained))
	case *events.PasteEvent:
		L.SetField(t, "text", lua.LString(e.Text))
	case *events.SignalEvent:
		L.SetField(t, "signal", lua.LString(e.Signal.String()))
	case *events.CustomEvent:
		L.SetField(t, "name", lua.LString(e.Name))
		L.SetField(t, "data", toLuaValue(L, e.Data))
	}
	return t
}

// toGoValue converts a Lua value to its Go shape. Visited tables break
// reference cycles.
func toGoValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

// tableToGo converts a contiguous 1-based integer-keyed table to a
// slice, anything else to a string-keyed map.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	maxN := 0
	count := 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok || float64(kn) != float64(int(kn)) || int(kn) <= 0 {
			isArray = false
			return
		}
		if int(kn) > maxN {
			maxN = int(kn)
		}
	})

	if isArray && maxN > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = toGoValue(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = toGoValue(v, visited)
	})
	return m
}

// toLuaValue converts a Go value into a Lua value.
func toLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, toLuaValue(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLuaValue(L, item))
		}
		return t
	case lua.LValue:
		return val
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}
