package wrapgen

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/vk/scriptui/internal/codec"
	"github.com/vk/scriptui/internal/luaerr"
	lua "github.com/yuin/gopher-lua"
)

// Hook decodes a custom argument.
type Hook struct {
	// GoType is the type Decode produces.
	GoType reflect.Type
	Decode func(L *lua.LState, lv lua.LValue) (any, error)
}

// Generator builds Lua functions from descriptors.
type Generator struct {
	codecs    *codec.Registry
	hooks     map[string]Hook
	overrides map[string]lua.LGFunction
}

func NewGenerator(codecs *codec.Registry, hooks map[string]Hook, overrides map[string]lua.LGFunction) *Generator {
	return &Generator{codecs: codecs, hooks: hooks, overrides: overrides}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// decoder turns one script value into one handler argument.
type decoder struct {
	param  reflect.Type
	decode func(L *lua.LState, lv lua.LValue) (any, error)
	clone  bool
}

// Generate returns the Lua function for d calling fn. fn may be nil when d
// names an override.
func (g *Generator) Generate(d Descriptor, fn any) (lua.LGFunction, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Override != "" {
		override, ok := g.overrides[d.Override]
		if !ok {
			return nil, d.errorf("override %q is not registered", d.Override)
		}
		return override, nil
	}
	if fn == nil {
		return nil, d.errorf("no handler bound")
	}

	rfn := reflect.ValueOf(fn)
	ft := rfn.Type()
	if ft.Kind() != reflect.Func {
		return nil, d.errorf("handler is %s, not a function", ft)
	}
	if ft.IsVariadic() {
		return nil, d.errorf("handler must not be variadic")
	}

	var decoders []decoder
	if d.Kind.HasReceiver() {
		dec, err := g.receiverDecoder(d)
		if err != nil {
			return nil, err
		}
		decoders = append(decoders, dec)
	}
	for i, a := range d.Args {
		dec, err := g.argDecoder(d, i, a)
		if err != nil {
			return nil, err
		}
		decoders = append(decoders, dec)
	}

	if ft.NumIn() != len(decoders) {
		return nil, d.errorf("handler takes %d parameters, descriptor declares %d", ft.NumIn(), len(decoders))
	}
	for i, dec := range decoders {
		if !dec.param.AssignableTo(ft.In(i)) {
			return nil, d.errorf("parameter %d: handler takes %s, descriptor provides %s", i+1, ft.In(i), dec.param)
		}
		dec.param = ft.In(i)
		decoders[i] = dec
	}

	encoders := make([]codec.Codec, len(d.Returns))
	for i, r := range d.Returns {
		c, err := g.codecs.Resolve(r)
		if err != nil {
			return nil, d.errorf("return %d: %v", i+1, err)
		}
		encoders[i] = c
	}
	hasErr := ft.NumOut() == len(encoders)+1 && ft.Out(ft.NumOut()-1) == errorType
	if ft.NumOut() != len(encoders) && !hasErr {
		return nil, d.errorf("handler returns %d values, descriptor declares %d", ft.NumOut(), len(encoders))
	}
	for i, c := range encoders {
		if !ft.Out(i).AssignableTo(c.GoType()) {
			return nil, d.errorf("return %d: handler returns %s, %s expects %s", i+1, ft.Out(i), c.Name(), c.GoType())
		}
	}

	op := d.Operation()
	return func(L *lua.LState) int {
		in := make([]reflect.Value, len(decoders))
		for i, dec := range decoders {
			pos := i + 1
			v, err := dec.decode(L, L.Get(pos))
			if err != nil {
				return luaerr.Raise(L, argError(op, pos, err))
			}
			if v == nil {
				in[i] = reflect.Zero(dec.param)
				continue
			}
			rv := reflect.ValueOf(v)
			if dec.clone {
				rv = cloneValue(rv)
			}
			in[i] = rv
		}

		out := rfn.Call(in)
		if hasErr {
			if errV := out[len(out)-1]; !errV.IsNil() {
				return luaerr.Raise(L, fmt.Errorf("%s: %w", op, errV.Interface().(error)))
			}
		}
		for i, c := range encoders {
			lv, err := c.Encode(L, out[i].Interface())
			if err != nil {
				return luaerr.Raise(L, fmt.Errorf("%s: return %d: %w", op, i+1, err))
			}
			L.Push(lv)
		}
		return len(encoders)
	}, nil
}

func (g *Generator) receiverDecoder(d Descriptor) (decoder, error) {
	c, err := g.codecs.Resolve(codec.Named(d.Receiver))
	if err != nil {
		return decoder{}, d.errorf("receiver: %v", err)
	}
	switch d.Kind {
	case KindMutMethod:
		if mc, ok := c.(codec.MutableCodec); ok {
			return decoder{param: c.GoType(), decode: mc.DecodeMut}, nil
		}
		if rc, ok := c.(codec.RefCodec); ok {
			return decoder{param: reflect.PointerTo(c.GoType()), decode: rc.DecodeRef}, nil
		}
		return decoder{}, d.errorf("receiver type %s cannot be borrowed mutably", d.Receiver)
	case KindConsume:
		if _, ok := c.(codec.MutableCodec); ok {
			return decoder{}, d.errorf("receiver type %s is a borrowed handle and cannot be consumed", d.Receiver)
		}
		tc, ok := c.(codec.Taker)
		if !ok {
			return decoder{}, d.errorf("receiver type %s cannot be consumed", d.Receiver)
		}
		return decoder{param: c.GoType(), decode: tc.Take}, nil
	}
	return decoder{param: c.GoType(), decode: c.Decode}, nil
}

func (g *Generator) argDecoder(d Descriptor, i int, a Arg) (decoder, error) {
	if a.Directive == DirCustom {
		h, ok := g.hooks[a.Hook]
		if !ok {
			return decoder{}, d.errorf("argument %d: hook %q is not registered", i+1, a.Hook)
		}
		return decoder{param: h.GoType, decode: h.Decode}, nil
	}
	c, err := g.codecs.Resolve(a.Type)
	if err != nil {
		return decoder{}, d.errorf("argument %d: %v", i+1, err)
	}
	switch a.Directive {
	case DirRef:
		if _, ok := c.(codec.MutableCodec); ok {
			return decoder{param: c.GoType(), decode: c.Decode}, nil
		}
		if rc, ok := c.(codec.RefCodec); ok {
			return decoder{param: reflect.PointerTo(c.GoType()), decode: rc.DecodeRef}, nil
		}
		if c.GoType().Kind() == reflect.Pointer {
			return decoder{param: c.GoType(), decode: c.Decode}, nil
		}
		return decoder{}, d.errorf("argument %d: type %s cannot be passed by reference", i+1, c.Name())
	case DirClone:
		return decoder{param: c.GoType(), decode: c.Decode, clone: true}, nil
	}
	return decoder{param: c.GoType(), decode: c.Decode}, nil
}

// cloneValue calls a Clone method returning the same type, if there is one.
func cloneValue(rv reflect.Value) reflect.Value {
	m := rv.MethodByName("Clone")
	if !m.IsValid() || m.Type().NumIn() != 0 || m.Type().NumOut() != 1 || m.Type().Out(0) != rv.Type() {
		return rv
	}
	return m.Call(nil)[0]
}

func argError(op string, pos int, err error) error {
	var ce *codec.ConversionError
	if errors.As(err, &ce) {
		return ce.At(op, pos)
	}
	return fmt.Errorf("%s: argument #%d: %w", op, pos, err)
}
