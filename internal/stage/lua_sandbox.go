package stage

import (
	"context"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// luaTimeout bounds a single predicate evaluation. Filter expressions are
// one-liners; anything that runs this long is stuck.
const luaTimeout = 250 * time.Millisecond

// newSandboxState builds a restricted interpreter: only the base, string,
// table and math libraries are opened, so a filter expression cannot touch
// the filesystem, network or process.
func newSandboxState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  4096,
		RegistryGrowStep: 0,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib("base", lua.OpenBase)
	openLib("string", lua.OpenString)
	openLib("table", lua.OpenTable)
	openLib("math", lua.OpenMath)
	return L
}

// runLuaPredicate evaluates code with the given globals and returns its
// boolean result. Expressions without an explicit return are wrapped.
func runLuaPredicate(code string, globals map[string]any) (bool, error) {
	if !strings.Contains(code, "return") {
		code = "return (" + code + ")"
	}

	L := newSandboxState()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), luaTimeout)
	defer cancel()
	L.SetContext(ctx)

	for k, v := range globals {
		L.SetGlobal(k, toLValue(L, v))
	}

	fn, err := L.LoadString(code)
	if err != nil {
		return false, err
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return false, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret), nil
}

// toLValue converts a Go value to a Lua value.
func toLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		if x {
			return lua.LTrue
		}
		return lua.LFalse
	case int:
		return lua.LNumber(float64(x))
	case int64:
		return lua.LNumber(float64(x))
	case float64:
		return lua.LNumber(x)
	default:
		return lua.LNil
	}
}
