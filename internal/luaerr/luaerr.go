// Package luaerr carries typed Go errors through a Lua state. Errors raised
// with Raise reach script code as userdata whose tostring is the error
// message, and come back out of a protected call as the original Go error.
package luaerr

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
)

const metatableName = "scriptui.error"

// Register installs the error metatable. It must run once per state before
// Raise is used.
func Register(L *lua.LState) {
	mt := L.NewTypeMetatable(metatableName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if err, ok := ud.Value.(error); ok {
			L.Push(lua.LString(err.Error()))
			return 1
		}
		L.Push(lua.LString("error"))
		return 1
	}))
	L.SetField(mt, "__metatable", lua.LString("error"))
}

// Value wraps err as a Lua value without raising it.
func Value(L *lua.LState, err error) lua.LValue {
	ud := L.NewUserData()
	ud.Value = err
	ud.Metatable = L.GetTypeMetatable(metatableName)
	return ud
}

// Raise aborts the running Go function with err as the Lua error object.
// It does not return.
func Raise(L *lua.LState, err error) int {
	L.Error(Value(L, err), 0)
	return 0
}

// Reraise propagates an error returned by a protected call made from Go
// code that is itself running inside Lua. The original error object is kept,
// so a plain Lua error string stays a string.
func Reraise(L *lua.LState, err error) int {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil && apiErr.Object != lua.LNil {
		L.Error(apiErr.Object, 0)
		return 0
	}
	return Raise(L, err)
}

// Unwrap returns the Go error carried by a Lua error, or err unchanged.
func Unwrap(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	if ud, ok := apiErr.Object.(*lua.LUserData); ok {
		if inner, ok := ud.Value.(error); ok {
			return inner
		}
	}
	return err
}

// FromValue extracts the Go error from a caught Lua error value (what pcall
// hands to script code), if it carries one.
func FromValue(lv lua.LValue) (error, bool) {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	err, ok := ud.Value.(error)
	return err, ok
}
