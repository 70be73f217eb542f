// Package engine is the script host. It owns one sandboxed Lua state with
// the binding namespace installed, loads and reloads script source, and
// runs one frame at a time by calling the script's entry point with the
// root gui context as a scoped handle.
//
// # Frame contract
//
// After every frame the host checks that no handle is still live and that
// the result relay is back at its baseline. A leak is reported as an error
// and the relay is drained, so one bad frame does not poison the next.
//
// # Fatal errors
//
// A handle teardown failure poisons the arena. RunFrame returns the
// *handle.TeardownError and every later frame fails with it.
package engine
