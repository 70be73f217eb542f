package codec

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ConversionError reports a script value that could not be converted to the
// Go type an operation expects.
type ConversionError struct {
	From      string
	To        string
	Operation string
	// Position is the 1-based argument position, 0 when not an argument.
	Position int
	Detail   string
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	switch {
	case e.Operation != "" && e.Position > 0:
		return fmt.Sprintf("%s: argument #%d: %s", e.Operation, e.Position, msg)
	case e.Operation != "":
		return fmt.Sprintf("%s: %s", e.Operation, msg)
	}
	return msg
}

// At returns a copy of e annotated with the operation and argument position.
func (e *ConversionError) At(operation string, position int) *ConversionError {
	out := *e
	out.Operation = operation
	out.Position = position
	return &out
}

// Mismatch builds the error for lv not being convertible to the named type.
func Mismatch(lv lua.LValue, to string) *ConversionError {
	return &ConversionError{From: TypeName(lv), To: to}
}

// retarget reports a failed inner integer decode as a failure to convert lv
// to the named type, keeping the inner detail.
func retarget(lv lua.LValue, to string, err error) *ConversionError {
	out := Mismatch(lv, to)
	if ce, ok := err.(*ConversionError); ok {
		out.Detail = ce.Detail
	}
	return out
}

// TypeName is the script-visible type name of lv. Host userdata report the
// name stored in their metatable.
func TypeName(lv lua.LValue) string {
	if ud, ok := lv.(*lua.LUserData); ok {
		if mt, ok := ud.Metatable.(*lua.LTable); ok {
			if name, ok := mt.RawGetString("__name").(lua.LString); ok {
				return string(name)
			}
		}
	}
	if lv == nil {
		return lua.LTNil.String()
	}
	return lv.Type().String()
}
