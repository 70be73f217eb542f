package codec

import (
	"fmt"
	"math"
	"reflect"

	lua "github.com/yuin/gopher-lua"
)

var luaValueType = reflect.TypeOf((*lua.LValue)(nil)).Elem()

// RegisterBuiltins adds the primitive codecs: any, bool, integer, number,
// string, table and function.
func RegisterBuiltins(r *Registry) {
	r.Register(anyCodec{})
	r.Register(boolCodec{})
	r.Register(integerCodec{})
	r.Register(numberCodec{})
	r.Register(stringCodec{})
	r.Register(tableCodec{})
	r.Register(functionCodec{})
}

// anyCodec passes script values through untouched.
type anyCodec struct{}

func (anyCodec) Name() string         { return "any" }
func (anyCodec) GoType() reflect.Type { return luaValueType }

func (anyCodec) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	if lv == nil {
		return lua.LNil, nil
	}
	return lv, nil
}

func (anyCodec) Encode(L *lua.LState, v any) (lua.LValue, error) { return ToLua(L, v) }

type boolCodec struct{}

func (boolCodec) Name() string         { return "bool" }
func (boolCodec) GoType() reflect.Type { return reflect.TypeOf(false) }

func (boolCodec) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	b, ok := lv.(lua.LBool)
	if !ok {
		return nil, Mismatch(lv, "bool")
	}
	return bool(b), nil
}

func (boolCodec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, &ConversionError{From: goTypeName(v), To: "bool"}
	}
	return lua.LBool(b), nil
}

// integerCodec accepts only numbers with no fractional part.
type integerCodec struct{}

func (integerCodec) Name() string         { return "integer" }
func (integerCodec) GoType() reflect.Type { return reflect.TypeOf(0) }

func (integerCodec) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	n, ok := lv.(lua.LNumber)
	if !ok {
		return nil, Mismatch(lv, "integer")
	}
	f := float64(n)
	if math.Trunc(f) != f && !math.IsInf(f, 0) {
		return nil, &ConversionError{From: "number", To: "integer", Detail: fmt.Sprintf("%v has a fractional part", f)}
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int cannot hold.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, &ConversionError{From: "number", To: "integer", Detail: fmt.Sprintf("%v is out of integer range", f)}
	}
	return int(f), nil
}

func (integerCodec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint()), nil
	}
	return nil, &ConversionError{From: goTypeName(v), To: "integer"}
}

type numberCodec struct{}

func (numberCodec) Name() string         { return "number" }
func (numberCodec) GoType() reflect.Type { return reflect.TypeOf(float64(0)) }

func (numberCodec) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	n, ok := lv.(lua.LNumber)
	if !ok {
		return nil, Mismatch(lv, "number")
	}
	return float64(n), nil
}

func (numberCodec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint()), nil
	}
	return nil, &ConversionError{From: goTypeName(v), To: "number"}
}

// stringCodec accepts only strings. Numbers are not coerced.
type stringCodec struct{}

func (stringCodec) Name() string         { return "string" }
func (stringCodec) GoType() reflect.Type { return reflect.TypeOf("") }

func (stringCodec) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	s, ok := lv.(lua.LString)
	if !ok {
		return nil, Mismatch(lv, "string")
	}
	return string(s), nil
}

func (stringCodec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return nil, &ConversionError{From: goTypeName(v), To: "string"}
	}
	return lua.LString(rv.String()), nil
}

type tableCodec struct{}

func (tableCodec) Name() string         { return "table" }
func (tableCodec) GoType() reflect.Type { return reflect.TypeOf((*lua.LTable)(nil)) }

func (tableCodec) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	tb, ok := lv.(*lua.LTable)
	if !ok {
		return nil, Mismatch(lv, "table")
	}
	return tb, nil
}

func (tableCodec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	tb, ok := v.(*lua.LTable)
	if !ok {
		return nil, &ConversionError{From: goTypeName(v), To: "table"}
	}
	if tb == nil {
		return lua.LNil, nil
	}
	return tb, nil
}

type functionCodec struct{}

func (functionCodec) Name() string         { return "function" }
func (functionCodec) GoType() reflect.Type { return reflect.TypeOf((*lua.LFunction)(nil)) }

func (functionCodec) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	fn, ok := lv.(*lua.LFunction)
	if !ok {
		return nil, Mismatch(lv, "function")
	}
	return fn, nil
}

func (functionCodec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	fn, ok := v.(*lua.LFunction)
	if !ok {
		return nil, &ConversionError{From: goTypeName(v), To: "function"}
	}
	if fn == nil {
		return lua.LNil, nil
	}
	return fn, nil
}

// ToLua converts plain Go values (nil, bools, numbers, strings, string-keyed
// maps and slices) into script values. Script values pass through.
func ToLua(L *lua.LState, v any) (lua.LValue, error) {
	if v == nil {
		return lua.LNil, nil
	}
	if lv, ok := v.(lua.LValue); ok {
		return lv, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return lua.LBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float()), nil
	case reflect.String:
		return lua.LString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		tb := L.NewTable()
		for i := 0; i < rv.Len(); i++ {
			item, err := ToLua(L, rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i+1, err)
			}
			tb.Append(item)
		}
		return tb, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		tb := L.NewTable()
		iter := rv.MapRange()
		for iter.Next() {
			item, err := ToLua(L, iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			tb.RawSetString(iter.Key().String(), item)
		}
		return tb, nil
	}
	return nil, &ConversionError{From: goTypeName(v), To: "any"}
}
