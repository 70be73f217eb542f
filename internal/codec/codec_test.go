package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/gui"
	lua "github.com/yuin/gopher-lua"
	"github.com/zclconf/go-cty/cty"
)

func newRegistry(t *testing.T) (*Registry, *lua.LState) {
	t.Helper()
	r := NewRegistry()
	RegisterBuiltins(r)
	RegisterGUI(r)
	L := lua.NewState()
	t.Cleanup(L.Close)
	return r, L
}

func resolve(t *testing.T, r *Registry, src string) Codec {
	t.Helper()
	c, err := r.ResolveString(src)
	require.NoError(t, err)
	return c
}

func TestParseType(t *testing.T) {
	testCases := []struct {
		src  string
		want TypeRef
	}{
		{"vec2", Named("vec2")},
		{"optional(align)", TypeRef{Name: "optional", Params: []TypeRef{Named("align")}}},
		{"union(string, rich_text)", TypeRef{Name: "union", Params: []TypeRef{Named("string"), Named("rich_text")}}},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			got, err := ParseType(tc.src)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseType mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tc.src, got.String())
		})
	}

	for _, bad := range []string{"list(string)", "optional(a, b)", "union(string)", "a.b", `"string"`} {
		_, err := ParseType(bad)
		assert.Error(t, err, bad)
	}
}

func TestRoundTrip(t *testing.T) {
	r, L := newRegistry(t)
	testCases := []struct {
		typ string
		val any
	}{
		{"bool", true},
		{"integer", 42},
		{"number", 2.5},
		{"string", "hi"},
		{"vec2", gui.NewVec2(3, 4)},
		{"pos2", gui.NewPos2(1, 2)},
		{"color32", gui.FromRGBA(1, 2, 3, 4)},
		{"align", gui.AlignCenter},
		{"sense", gui.SenseClick | gui.SenseDrag},
		{"order", gui.OrderTooltip},
		{"cursor_icon", gui.CursorIcon("text")},
		{"rich_text", gui.NewRichText("x").Strong()},
	}
	for _, tc := range testCases {
		t.Run(tc.typ, func(t *testing.T) {
			c := resolve(t, r, tc.typ)
			lv, err := c.Encode(L, tc.val)
			require.NoError(t, err)
			got, err := c.Decode(L, lv)
			require.NoError(t, err)
			assert.Equal(t, tc.val, got)
		})
	}
}

func TestDecodeMismatch(t *testing.T) {
	r, L := newRegistry(t)
	testCases := []struct {
		typ  string
		in   lua.LValue
		from string
	}{
		{"string", lua.LNumber(5), "number"},
		{"integer", lua.LNumber(1.5), "number"},
		{"integer", lua.LNumber(1e19), "number"},
		{"integer", lua.LNumber(-1e19), "number"},
		{"integer", lua.LNumber(math.Inf(1)), "number"},
		{"align", lua.LNumber(9.3e18), "number"},
		{"bool", lua.LNil, "nil"},
		{"vec2", lua.LString("x"), "string"},
		{"color32", lua.LNumber(-1), "number"},
		{"align", lua.LNumber(7), "number"},
		{"sense", lua.LNumber(64), "number"},
	}
	for _, tc := range testCases {
		t.Run(tc.typ, func(t *testing.T) {
			_, err := resolve(t, r, tc.typ).Decode(L, tc.in)
			var ce *ConversionError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tc.from, ce.From)
			assert.Equal(t, tc.typ, ce.To)
		})
	}
}

func TestDecode_IntegerOutOfRange(t *testing.T) {
	r, L := newRegistry(t)

	_, err := resolve(t, r, "integer").Decode(L, lua.LNumber(1e19))
	require.Error(t, err)
	assert.Equal(t, "cannot convert number to integer: 1e+19 is out of integer range", err.Error())

	_, err = resolve(t, r, "align").Decode(L, lua.LNumber(-1e19))
	require.Error(t, err)
	assert.Equal(t, "cannot convert number to align: -1e+19 is out of integer range", err.Error())

	v, err := resolve(t, r, "integer").Decode(L, lua.LNumber(-9.223372036854775808e18))
	require.NoError(t, err)
	assert.Equal(t, math.MinInt64, v)
}

func TestConversionError_Message(t *testing.T) {
	err := (&ConversionError{From: "number", To: "string"}).At("ui.label", 2)
	assert.Equal(t, "ui.label: argument #2: cannot convert number to string", err.Error())
}

func TestTypeName_UsesMetatableName(t *testing.T) {
	r, L := newRegistry(t)
	lv, err := resolve(t, r, "vec2").Encode(L, gui.Vec2{})
	require.NoError(t, err)

	_, err = resolve(t, r, "pos2").Decode(L, lv)
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "vec2", ce.From)
}

func TestOptional(t *testing.T) {
	r, L := newRegistry(t)
	c := resolve(t, r, "optional(align)")

	v, err := c.Decode(L, lua.LNil)
	require.NoError(t, err)
	assert.Nil(t, v.(*gui.Align))

	v, err = c.Decode(L, lua.LNumber(2))
	require.NoError(t, err)
	assert.Equal(t, gui.AlignMax, *v.(*gui.Align))

	lv, err := c.Encode(L, (*gui.Align)(nil))
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, lv)

	_, err = c.Decode(L, lua.LString("x"))
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "optional(align)", ce.To)
}

func TestUnion_WidgetTextAcceptsAllMembers(t *testing.T) {
	r, L := newRegistry(t)
	c := resolve(t, r, "union(string, rich_text, widget_text, galley)")
	assert.Equal(t, "gui.WidgetText", c.GoType().String())

	richLV, err := resolve(t, r, "rich_text").Encode(L, gui.NewRichText("rich"))
	require.NoError(t, err)
	galleyLV, err := resolve(t, r, "galley").Encode(L, *gui.LayoutText("laid out", 0))
	require.NoError(t, err)

	for in, want := range map[lua.LValue]string{
		lua.LString("plain"): "plain",
		richLV:               "rich",
		galleyLV:             "laid out",
	} {
		v, err := c.Decode(L, in)
		require.NoError(t, err)
		assert.Equal(t, want, v.(gui.WidgetText).Text())
	}

	_, err = c.Decode(L, lua.LNumber(1))
	assert.Error(t, err)
}

func TestUnion_KeepsMemberReason(t *testing.T) {
	r, L := newRegistry(t)
	rich := resolve(t, r, "rich_text").(*ValueCodec[gui.RichText])
	lv, err := rich.Encode(L, gui.NewRichText("gone"))
	require.NoError(t, err)
	_, err = rich.Take(L, lv)
	require.NoError(t, err)

	_, err = resolve(t, r, "union(string, rich_text, widget_text, galley)").Decode(L, lv)

	var ce *ConversionError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, "rich_text", ce.From)
	assert.Equal(t, "value was moved", ce.Detail)

	_, err = resolve(t, r, "union(string, rich_text)").Decode(L, lua.LNumber(1))
	require.True(t, errors.As(err, &ce))
	assert.Empty(t, ce.Detail)
}

func TestUnion_DeclarationOrderWins(t *testing.T) {
	r, L := newRegistry(t)

	v, err := resolve(t, r, "union(integer, number)").Decode(L, lua.LNumber(3))
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = resolve(t, r, "union(number, integer)").Decode(L, lua.LNumber(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = resolve(t, r, "union(integer, number)").Decode(L, lua.LNumber(3.5))
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)
}

func TestValueCodec_RefAndTake(t *testing.T) {
	r, L := newRegistry(t)
	c := resolve(t, r, "response").(*ValueCodec[gui.Response])

	lv, err := c.Encode(L, gui.Response{ID: "a"})
	require.NoError(t, err)

	p, err := c.DecodeRef(L, lv)
	require.NoError(t, err)
	p.(*gui.Response).MarkChanged()

	v, err := c.Decode(L, lv)
	require.NoError(t, err)
	assert.True(t, v.(gui.Response).Changed())

	_, err = c.Take(L, lv)
	require.NoError(t, err)
	_, err = c.Decode(L, lv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moved")
}

func TestResolve_Unknown(t *testing.T) {
	r, _ := newRegistry(t)
	_, err := r.ResolveString("widget")
	assert.EqualError(t, err, `unknown type "widget"`)
	_, err = r.Resolve(TypeRef{Name: "vec2", Params: []TypeRef{Named("number")}})
	assert.Error(t, err)
	assert.Panics(t, func() { r.Register(NewValue[gui.Vec2]("vec2")) })
}

func TestFromCty(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	v := cty.ObjectVal(map[string]cty.Value{
		"MIN":   cty.NumberIntVal(0),
		"name":  cty.StringVal("x"),
		"flags": cty.ListVal([]cty.Value{cty.True, cty.False}),
		"none":  cty.NullVal(cty.String),
	})
	lv, err := FromCty(L, v)
	require.NoError(t, err)

	tb := lv.(*lua.LTable)
	assert.Equal(t, lua.LNumber(0), tb.RawGetString("MIN"))
	assert.Equal(t, lua.LString("x"), tb.RawGetString("name"))
	assert.Equal(t, lua.LNil, tb.RawGetString("none"))
	flags := tb.RawGetString("flags").(*lua.LTable)
	assert.Equal(t, 2, flags.Len())
	assert.Equal(t, lua.LTrue, flags.RawGetInt(1))

	set, err := FromCty(L, cty.SetVal([]cty.Value{cty.StringVal("b"), cty.StringVal("a")}))
	require.NoError(t, err)
	assert.Equal(t, lua.LString("a"), set.(*lua.LTable).RawGetInt(1))

	_, err = FromCty(L, cty.UnknownVal(cty.String))
	assert.Error(t, err)
}

func TestToLua(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	lv, err := ToLua(L, map[string]any{"a": []int{1, 2}, "b": nil})
	require.NoError(t, err)
	tb := lv.(*lua.LTable)
	assert.Equal(t, 2, tb.RawGetString("a").(*lua.LTable).Len())

	_, err = ToLua(L, struct{}{})
	assert.Error(t, err)
}
