package codec

import (
	"errors"
	"reflect"

	lua "github.com/yuin/gopher-lua"
)

// optionalCodec maps nil to a nil pointer and anything else through the
// inner codec. Inner types that are already nillable are passed as is.
type optionalCodec struct {
	inner  Codec
	goType reflect.Type
	boxed  bool
}

func newOptional(inner Codec) *optionalCodec {
	t := inner.GoType()
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return &optionalCodec{inner: inner, goType: t}
	}
	return &optionalCodec{inner: inner, goType: reflect.PointerTo(t), boxed: true}
}

func (c *optionalCodec) Name() string         { return "optional(" + c.inner.Name() + ")" }
func (c *optionalCodec) GoType() reflect.Type { return c.goType }

func (c *optionalCodec) Decode(L *lua.LState, lv lua.LValue) (any, error) {
	if lv == nil || lv == lua.LNil {
		return reflect.Zero(c.goType).Interface(), nil
	}
	v, err := c.inner.Decode(L, lv)
	if err != nil {
		if ce, ok := err.(*ConversionError); ok {
			out := *ce
			out.To = c.Name()
			return nil, &out
		}
		return nil, err
	}
	if !c.boxed {
		return v, nil
	}
	ptr := reflect.New(c.goType.Elem())
	ptr.Elem().Set(reflect.ValueOf(v))
	return ptr.Interface(), nil
}

func (c *optionalCodec) Encode(L *lua.LState, v any) (lua.LValue, error) {
	if v == nil {
		return lua.LNil, nil
	}
	rv := reflect.ValueOf(v)
	if c.boxed && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return lua.LNil, nil
		}
		return c.inner.Encode(L, rv.Elem().Interface())
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		if rv.IsNil() {
			return lua.LNil, nil
		}
	}
	return c.inner.Encode(L, v)
}

// unionCodec tries its members in declaration order; the first member that
// accepts the value wins. Decoded values are converted to the union's target
// type when the winning member produces a different one.
type unionCodec struct {
	name    string
	members []Codec
	target  reflect.Type
	convert []Conversion
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

func (r *Registry) newUnion(name string, members []Codec) *unionCodec {
	u := &unionCodec{name: name, members: members, target: anyType}
	for _, candidate := range members {
		t := candidate.GoType()
		convert := make([]Conversion, len(members))
		ok := true
		for i, m := range members {
			if m.GoType() == t {
				continue
			}
			fn, found := r.conversions[conversionKey{m.GoType(), t}]
			if !found {
				ok = false
				break
			}
			convert[i] = fn
		}
		if ok {
			u.target = t
			u.convert = convert
			break
		}
	}
	return u
}

func (c *unionCodec) Name() string         { return c.name }
func (c *unionCodec) GoType() reflect.Type { return c.target }

// Members returns the member codecs in trial order.
func (c *unionCodec) Members() []Codec { return c.members }

// Decode tries each member in order. When none accepts lv, the reason given
// by the last member that recognized the value (a moved value, a revoked
// handle) is kept as the detail.
func (c *unionCodec) Decode(L *lua.LState, lv lua.LValue) (any, error) {
	var reason string
	for i, m := range c.members {
		v, err := m.Decode(L, lv)
		if err != nil {
			var ce *ConversionError
			switch {
			case !errors.As(err, &ce):
				reason = err.Error()
			case ce.Detail != "":
				reason = ce.Detail
			}
			continue
		}
		if c.convert != nil && c.convert[i] != nil {
			v = c.convert[i](v)
		}
		return v, nil
	}
	out := Mismatch(lv, c.name)
	out.Detail = reason
	return nil, out
}

func (c *unionCodec) Encode(L *lua.LState, v any) (lua.LValue, error) {
	t := reflect.TypeOf(v)
	for _, m := range c.members {
		if m.GoType() == t {
			return m.Encode(L, v)
		}
	}
	for _, m := range c.members {
		if lv, err := m.Encode(L, v); err == nil {
			return lv, nil
		}
	}
	return nil, &ConversionError{From: goTypeName(v), To: c.name}
}

func goTypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
