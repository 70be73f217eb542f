package codec

import (
	"fmt"
	"log/slog"
	"reflect"

	lua "github.com/yuin/gopher-lua"
)

// Codec converts one host type to and from script values.
type Codec interface {
	// Name is the type name used in descriptors and manifests.
	Name() string
	// GoType is the type Decode produces and Encode accepts.
	GoType() reflect.Type
	Decode(L *lua.LState, lv lua.LValue) (any, error)
	Encode(L *lua.LState, v any) (lua.LValue, error)
}

// RefCodec is implemented by codecs whose script values hold addressable host
// storage. DecodeRef returns a pointer into that storage, so mutations through
// it are visible to every holder of the script value.
type RefCodec interface {
	Codec
	DecodeRef(L *lua.LState, lv lua.LValue) (any, error)
}

// MutableCodec is implemented by codecs of borrowed host objects, which
// distinguish shared from exclusive access.
type MutableCodec interface {
	Codec
	DecodeMut(L *lua.LState, lv lua.LValue) (any, error)
}

// Taker is implemented by codecs that can move a value out of its script
// storage, leaving the script value spent.
type Taker interface {
	Codec
	Take(L *lua.LState, lv lua.LValue) (any, error)
}

// Conversion turns a value of one Go type into another, lossless.
type Conversion func(v any) any

type conversionKey struct {
	from, to reflect.Type
}

// Registry maps type names to codecs.
type Registry struct {
	codecs      map[string]Codec
	conversions map[conversionKey]Conversion
}

func NewRegistry() *Registry {
	return &Registry{
		codecs:      make(map[string]Codec),
		conversions: make(map[conversionKey]Conversion),
	}
}

// Register adds c under its name. Registering a name twice panics.
func (r *Registry) Register(c Codec) {
	if _, exists := r.codecs[c.Name()]; exists {
		panic(fmt.Sprintf("codec with name '%s' already registered", c.Name()))
	}
	slog.Debug("Registering codec.", "name", c.Name(), "go_type", c.GoType().String())
	r.codecs[c.Name()] = c
}

// RegisterConversion declares that values of from can be used where to is
// expected. Unions use conversions to settle on one Go type.
func (r *Registry) RegisterConversion(from, to reflect.Type, fn Conversion) {
	r.conversions[conversionKey{from, to}] = fn
}

func (r *Registry) Lookup(name string) (Codec, bool) {
	c, ok := r.codecs[name]
	return c, ok
}

// Names lists the registered codec names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.codecs))
	for n := range r.codecs {
		names = append(names, n)
	}
	return names
}

// Resolve returns the codec for a type reference, building composite codecs
// for optional() and union().
func (r *Registry) Resolve(t TypeRef) (Codec, error) {
	switch t.Name {
	case "optional":
		if len(t.Params) != 1 {
			return nil, fmt.Errorf("optional() requires exactly one argument, got %d", len(t.Params))
		}
		inner, err := r.Resolve(t.Params[0])
		if err != nil {
			return nil, err
		}
		return newOptional(inner), nil
	case "union":
		if len(t.Params) < 2 {
			return nil, fmt.Errorf("union() requires at least two arguments, got %d", len(t.Params))
		}
		members := make([]Codec, len(t.Params))
		for i, p := range t.Params {
			c, err := r.Resolve(p)
			if err != nil {
				return nil, err
			}
			members[i] = c
		}
		return r.newUnion(t.String(), members), nil
	}
	if len(t.Params) > 0 {
		return nil, fmt.Errorf("type %q does not take parameters", t.Name)
	}
	c, ok := r.codecs[t.Name]
	if !ok {
		return nil, fmt.Errorf("unknown type %q", t.Name)
	}
	return c, nil
}

// ResolveString parses and resolves a type expression.
func (r *Registry) ResolveString(src string) (Codec, error) {
	t, err := ParseType(src)
	if err != nil {
		return nil, err
	}
	return r.Resolve(t)
}
