package lottie

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ExpressionEngine evaluates a small expression subset through an embedded
// Lua sandbox standing in for the reference tool's JS expression engine
// (spec §4.7 "Expressions" — optional feature). Helpers add/sub/mul/div
// take and return numbers only (no vector operands), and loopOut returns a
// pre-computed cycled value.
type ExpressionEngine struct {
	state *lua.LState
}

func NewExpressionEngine() *ExpressionEngine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	e := &ExpressionEngine{state: L}
	e.registerHelpers()
	return e
}

func (e *ExpressionEngine) Close() {
	e.state.Close()
}

func (e *ExpressionEngine) registerHelpers() {
	L := e.state
	L.SetGlobal("add", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		sum := 0.0
		for i := 1; i <= n; i++ {
			sum += float64(L.CheckNumber(i))
		}
		L.Push(lua.LNumber(sum))
		return 1
	}))
	L.SetGlobal("sub", L.NewFunction(func(L *lua.LState) int {
		a, b := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
		L.Push(lua.LNumber(a - b))
		return 1
	}))
	L.SetGlobal("mul", L.NewFunction(func(L *lua.LState) int {
		a, b := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
		L.Push(lua.LNumber(a * b))
		return 1
	}))
	L.SetGlobal("div", L.NewFunction(func(L *lua.LState) int {
		a, b := float64(L.CheckNumber(1)), float64(L.CheckNumber(2))
		if b == 0 {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(a / b))
		return 1
	}))
	L.SetGlobal("loopOut", L.NewFunction(func(L *lua.LState) int {
		value := float64(L.CheckNumber(1))
		period := float64(L.OptNumber(2, 1))
		t := float64(L.OptNumber(3, 0))
		if period <= 0 {
			L.Push(lua.LNumber(value))
			return 1
		}
		cycled := t - period*float64(int(t/period))
		if cycled < 0 {
			cycled += period
		}
		L.Push(lua.LNumber(cycled))
		return 1
	}))
}

// Eval compiles and runs a short Lua expression snippet, binding t (the
// current frame time) and value (the property's pre-expression value) as
// globals, and returns the single numeric result the snippet assigns to
// the global "result".
func (e *ExpressionEngine) Eval(src string, t, value float64) (float64, error) {
	L := e.state
	L.SetGlobal("t", lua.LNumber(t))
	L.SetGlobal("value", lua.LNumber(value))
	L.SetGlobal("result", lua.LNumber(value))
	if err := L.DoString(src); err != nil {
		return value, fmt.Errorf("lottie: expression evaluation failed: %w", err)
	}
	res := L.GetGlobal("result")
	if n, ok := res.(lua.LNumber); ok {
		return float64(n), nil
	}
	return value, nil
}
