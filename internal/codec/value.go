package codec

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"
)

// MetatableName is the registry key of the metatable shared by all userdata
// of the named host type.
func MetatableName(typeName string) string { return "scriptui." + typeName }

// Metatable returns (creating on first use) the metatable for a host type.
// The table records the type name under __name for error messages.
func Metatable(L *lua.LState, typeName string) *lua.LTable {
	mt := L.NewTypeMetatable(MetatableName(typeName))
	if mt.RawGetString("__name") == lua.LNil {
		mt.RawSetString("__name", lua.LString(typeName))
	}
	return mt
}

type spent struct{}

// ValueCodec stores host values of type T in userdata. Each userdata owns its
// own copy of the value; scripts cannot alias it except through RefCodec.
type ValueCodec[T any] struct {
	name string
}

func NewValue[T any](name string) *ValueCodec[T] { return &ValueCodec[T]{name: name} }

func (c *ValueCodec[T]) Name() string { return c.name }

func (c *ValueCodec[T]) GoType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (c *ValueCodec[T]) ptr(lv lua.LValue) (*T, error) {
	ud, ok := lv.(*lua.LUserData)
	if !ok {
		return nil, Mismatch(lv, c.name)
	}
	switch v := ud.Value.(type) {
	case *T:
		return v, nil
	case spent:
		return nil, &ConversionError{From: TypeName(lv), To: c.name, Detail: "value was moved"}
	}
	return nil, Mismatch(lv, c.name)
}

func (c *ValueCodec[T]) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	p, err := c.ptr(lv)
	if err != nil {
		return nil, err
	}
	return *p, nil
}

func (c *ValueCodec[T]) DecodeRef(_ *lua.LState, lv lua.LValue) (any, error) {
	p, err := c.ptr(lv)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Take moves the value out; later uses of the userdata fail.
func (c *ValueCodec[T]) Take(_ *lua.LState, lv lua.LValue) (any, error) {
	p, err := c.ptr(lv)
	if err != nil {
		return nil, err
	}
	lv.(*lua.LUserData).Value = spent{}
	return *p, nil
}

func (c *ValueCodec[T]) Encode(L *lua.LState, v any) (lua.LValue, error) {
	var val T
	switch x := v.(type) {
	case T:
		val = x
	case *T:
		if x == nil {
			return lua.LNil, nil
		}
		val = *x
	default:
		return nil, &ConversionError{From: goTypeName(v), To: c.name}
	}
	ud := L.NewUserData()
	ud.Value = &val
	ud.Metatable = Metatable(L, c.name)
	return ud, nil
}

// IntEnum maps a Go integer enum to a script number. Valid rejects values
// outside the enum.
type IntEnum[T ~int] struct {
	name  string
	valid func(T) bool
}

func NewIntEnum[T ~int](name string, valid func(T) bool) *IntEnum[T] {
	return &IntEnum[T]{name: name, valid: valid}
}

func (c *IntEnum[T]) Name() string         { return c.name }
func (c *IntEnum[T]) GoType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (c *IntEnum[T]) Decode(L *lua.LState, lv lua.LValue) (any, error) {
	n, err := integerCodec{}.Decode(L, lv)
	if err != nil {
		return nil, retarget(lv, c.name, err)
	}
	v := T(n.(int))
	if c.valid != nil && !c.valid(v) {
		return nil, &ConversionError{From: "number", To: c.name, Detail: fmt.Sprintf("%d is not a valid %s", n, c.name)}
	}
	return v, nil
}

func (c *IntEnum[T]) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	x, ok := v.(T)
	if !ok {
		return nil, &ConversionError{From: goTypeName(v), To: c.name}
	}
	return lua.LNumber(x), nil
}

// StringEnum maps an open Go string enum to a script string.
type StringEnum[T ~string] struct {
	name string
}

func NewStringEnum[T ~string](name string) *StringEnum[T] { return &StringEnum[T]{name: name} }

func (c *StringEnum[T]) Name() string         { return c.name }
func (c *StringEnum[T]) GoType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (c *StringEnum[T]) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	s, ok := lv.(lua.LString)
	if !ok {
		return nil, Mismatch(lv, c.name)
	}
	return T(s), nil
}

func (c *StringEnum[T]) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	x, ok := v.(T)
	if !ok {
		return nil, &ConversionError{From: goTypeName(v), To: c.name}
	}
	return lua.LString(x), nil
}
