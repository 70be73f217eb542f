package handle

import (
	"reflect"

	"github.com/vk/scriptui/internal/codec"
	lua "github.com/yuin/gopher-lua"
)

// Codec resolves arguments of a handle type through the arena. Encoding
// works only for objects that currently have a live handle.
type Codec struct {
	arena  *Arena
	name   string
	goType reflect.Type
}

var _ codec.MutableCodec = (*Codec)(nil)

// NewCodec returns the codec for handles of typeName wrapping objects of
// goType.
func NewCodec(a *Arena, typeName string, goType reflect.Type) *Codec {
	return &Codec{arena: a, name: typeName, goType: goType}
}

func (c *Codec) Name() string         { return c.name }
func (c *Codec) GoType() reflect.Type { return c.goType }

func (c *Codec) Decode(_ *lua.LState, lv lua.LValue) (any, error) {
	return c.arena.Resolve(lv, c.name, false)
}

func (c *Codec) DecodeMut(_ *lua.LState, lv lua.LValue) (any, error) {
	return c.arena.Resolve(lv, c.name, true)
}

func (c *Codec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	if ud, ok := c.arena.Lookup(v); ok {
		return ud, nil
	}
	return nil, &codec.ConversionError{From: c.goType.String(), To: c.name, Detail: "object has no live handle"}
}
