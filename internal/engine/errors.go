package engine

import "fmt"

// EntryPointError is returned when the entry point global is not a
// function.
type EntryPointError struct {
	Name  string
	Found string
}

func (e *EntryPointError) Error() string {
	return fmt.Sprintf("entry point %q is not defined as a function (found %s)", e.Name, e.Found)
}

// ScriptError is a script failure during a load or a frame. Err is the typed
// Go error when the script raised one through a host operation.
type ScriptError struct {
	Chunk string
	// Phase is "load" or "frame N".
	Phase string
	Err   error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s (%s): %v", e.Chunk, e.Phase, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// HandleLeakError means handles were still live after a frame returned.
type HandleLeakError struct {
	Live int
}

func (e *HandleLeakError) Error() string {
	return fmt.Sprintf("%d handles still live after the frame", e.Live)
}
