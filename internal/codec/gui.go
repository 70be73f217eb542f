package codec

import (
	"fmt"
	"reflect"

	"github.com/vk/scriptui/internal/gui"
	lua "github.com/yuin/gopher-lua"
)

// RegisterGUI adds codecs for the gui value types, plus the conversions that
// let text parameters accept plain strings and rich text.
func RegisterGUI(r *Registry) {
	r.Register(NewValue[gui.Vec2]("vec2"))
	r.Register(NewValue[gui.Pos2]("pos2"))
	r.Register(NewValue[gui.Rect]("rect"))
	r.Register(NewValue[gui.RichText]("rich_text"))
	r.Register(NewValue[gui.WidgetText]("widget_text"))
	r.Register(NewValue[gui.Galley]("galley"))
	r.Register(NewValue[gui.Response]("response"))
	r.Register(color32Codec{})
	r.Register(senseCodec{})
	r.Register(NewIntEnum[gui.Align]("align", gui.Align.Valid))
	r.Register(NewIntEnum[gui.Order]("order", func(o gui.Order) bool {
		return o >= gui.OrderBackground && o <= gui.OrderTooltip
	}))
	r.Register(NewStringEnum[gui.CursorIcon]("cursor_icon"))

	str := reflect.TypeOf("")
	rich := reflect.TypeOf(gui.RichText{})
	wt := reflect.TypeOf(gui.WidgetText{})
	galley := reflect.TypeOf(gui.Galley{})
	r.RegisterConversion(str, rich, func(v any) any { return gui.NewRichText(v.(string)) })
	r.RegisterConversion(str, wt, func(v any) any { return gui.TextFromString(v.(string)) })
	r.RegisterConversion(rich, wt, func(v any) any { return gui.TextFromRich(v.(gui.RichText)) })
	r.RegisterConversion(galley, wt, func(v any) any {
		g := v.(gui.Galley)
		return gui.TextFromGalley(&g)
	})
}

// color32Codec packs the four channels into one integer, r in the high byte.
type color32Codec struct{}

func (color32Codec) Name() string         { return "color32" }
func (color32Codec) GoType() reflect.Type { return reflect.TypeOf(gui.Color32{}) }

func (color32Codec) Decode(L *lua.LState, lv lua.LValue) (any, error) {
	n, err := integerCodec{}.Decode(L, lv)
	if err != nil {
		return nil, retarget(lv, "color32", err)
	}
	v := n.(int)
	if v < 0 || int64(v) > 0xFFFFFFFF {
		return nil, &ConversionError{From: "number", To: "color32", Detail: fmt.Sprintf("%d is out of range", v)}
	}
	return gui.UnpackColor32(uint32(v)), nil
}

func (color32Codec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	c, ok := v.(gui.Color32)
	if !ok {
		return nil, &ConversionError{From: goTypeName(v), To: "color32"}
	}
	return lua.LNumber(c.Packed()), nil
}

type senseCodec struct{}

func (senseCodec) Name() string         { return "sense" }
func (senseCodec) GoType() reflect.Type { return reflect.TypeOf(gui.Sense(0)) }

func (senseCodec) Decode(L *lua.LState, lv lua.LValue) (any, error) {
	n, err := integerCodec{}.Decode(L, lv)
	if err != nil {
		return nil, retarget(lv, "sense", err)
	}
	v := n.(int)
	all := int(gui.SenseClick | gui.SenseDrag | gui.SenseFocusable)
	if v < 0 || v&^all != 0 {
		return nil, &ConversionError{From: "number", To: "sense", Detail: fmt.Sprintf("unknown flags in %d", v)}
	}
	return gui.Sense(v), nil
}

func (senseCodec) Encode(_ *lua.LState, v any) (lua.LValue, error) {
	s, ok := v.(gui.Sense)
	if !ok {
		return nil, &ConversionError{From: goTypeName(v), To: "sense"}
	}
	return lua.LNumber(s), nil
}
