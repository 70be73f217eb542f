package wrapgen

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/codec"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/luaerr"
	lua "github.com/yuin/gopher-lua"
)

type fixture struct {
	L      *lua.LState
	codecs *codec.Registry
	gen    *Generator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)
	luaerr.Register(L)

	reg := codec.NewRegistry()
	codec.RegisterBuiltins(reg)
	codec.RegisterGUI(reg)

	hooks := map[string]Hook{
		"upper": {
			GoType: reflect.TypeOf(""),
			Decode: func(L *lua.LState, lv lua.LValue) (any, error) {
				s, ok := lv.(lua.LString)
				if !ok {
					return nil, codec.Mismatch(lv, "string")
				}
				return fmt.Sprintf("<%s>", s), nil
			},
		},
	}
	overrides := map[string]lua.LGFunction{
		"answer": func(L *lua.LState) int {
			L.Push(lua.LNumber(42))
			return 1
		},
	}
	return &fixture{L: L, codecs: reg, gen: NewGenerator(reg, hooks, overrides)}
}

// bind generates d and installs it as global <name>, or as a method on the
// receiver's metatable.
func (f *fixture) bind(t *testing.T, receiver, line string, fn any) {
	t.Helper()
	d, err := ParseLine(receiver, line)
	require.NoError(t, err)
	lfn, err := f.gen.Generate(d, fn)
	require.NoError(t, err)

	if d.Kind == KindFree {
		f.L.SetGlobal(d.Name, f.L.NewFunction(lfn))
		return
	}
	mt := codec.Metatable(f.L, receiver)
	index, ok := mt.RawGetString("__index").(*lua.LTable)
	if !ok {
		index = f.L.NewTable()
		mt.RawSetString("__index", index)
	}
	index.RawSetString(d.Name, f.L.NewFunction(lfn))
}

func TestParseLine(t *testing.T) {
	testCases := []struct {
		line string
		want Descriptor
	}{
		{
			line: "m ; label ; union(string, rich_text, widget_text, galley) ; response",
			want: Descriptor{Kind: KindMethod, Receiver: "ui", Name: "label",
				Args: []Arg{{Type: codec.TypeRef{Name: "union", Params: []codec.TypeRef{
					codec.Named("string"), codec.Named("rich_text"), codec.Named("widget_text"), codec.Named("galley"),
				}}}},
				Returns: []codec.TypeRef{codec.Named("response")},
			},
		},
		{
			line: "mm ; mark_changed",
			want: Descriptor{Kind: KindMutMethod, Receiver: "ui", Name: "mark_changed"},
		},
		{
			line: "m ; text_edit_singleline ; table custom=text_buffer, vec2 ref, galley clone ; response, bool",
			want: Descriptor{Kind: KindMethod, Receiver: "ui", Name: "text_edit_singleline",
				Args: []Arg{
					{Type: codec.Named("table"), Directive: DirCustom, Hook: "text_buffer"},
					{Type: codec.Named("vec2"), Directive: DirRef},
					{Type: codec.Named("galley"), Directive: DirClone},
				},
				Returns: []codec.TypeRef{codec.Named("response"), codec.Named("bool")},
			},
		},
		{
			line: "f ; new ; - ; - ; override=window_new",
			want: Descriptor{Kind: KindFree, Receiver: "ui", Name: "new", Override: "window_new"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseLine("ui", tc.line)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseLine mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLine_Errors(t *testing.T) {
	testCases := map[string]string{
		"five args":      "f ; many ; number, number, number, number, number",
		"five returns":   "f ; many ; - ; number, number, number, number, number",
		"bad kind":       "x ; name",
		"bad directive":  "m ; name ; number borrow",
		"missing hook":   "m ; name ; table custom",
		"too few parts":  "m",
		"bad type":       "m ; name ; list(number)",
		"too many parts": "m ; a ; b ; c ; d",
	}
	for name, line := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLine("ui", line)
			var de *DescriptorError
			require.True(t, errors.As(err, &de), "got %v", err)
		})
	}
}

func TestParseLines_SkipsCommentsAndRoundTrips(t *testing.T) {
	ds, err := ParseLines("vec2", []string{
		"# constructors",
		"",
		"f ; new ; number, number ; vec2",
		"m ; length ; - ; number",
	})
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "f ; new ; number, number ; vec2", ds[0].String())
	assert.Equal(t, "vec2.length", ds[1].HandlerName())
}

func TestGenerate_FreeAndMethod(t *testing.T) {
	// --- Arrange ---
	f := newFixture(t)
	f.bind(t, "vec2", "f ; new ; number, number ; vec2", gui.NewVec2)
	f.bind(t, "vec2", "m ; length ; - ; number", gui.Vec2.Length)

	// --- Act ---
	err := f.L.DoString(`len = new(3, 4):length()`)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(5), f.L.GetGlobal("len"))
}

func TestGenerate_ConversionErrorNamesOperationAndPosition(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "vec2", "f ; new ; number, number ; vec2", gui.NewVec2)

	err := f.L.DoString(`new(1, "x")`)
	require.Error(t, err)

	var ce *codec.ConversionError
	require.True(t, errors.As(luaerr.Unwrap(err), &ce))
	assert.Equal(t, "vec2.new", ce.Operation)
	assert.Equal(t, 2, ce.Position)
	assert.Equal(t, "string", ce.From)

	require.NoError(t, f.L.DoString(`ok, msg = pcall(new, "x", 1); msg = tostring(msg)`))
	assert.Equal(t, "vec2.new: argument #1: cannot convert string to number", f.L.GetGlobal("msg").String())
}

func TestGenerate_MultipleReturnsAndHandlerError(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "math2", "f ; divmod ; integer, integer ; integer, integer", func(a, b int) (int, int, error) {
		if b == 0 {
			return 0, 0, errors.New("division by zero")
		}
		return a / b, a % b, nil
	})

	require.NoError(t, f.L.DoString(`q, r = divmod(7, 2)`))
	assert.Equal(t, lua.LNumber(3), f.L.GetGlobal("q"))
	assert.Equal(t, lua.LNumber(1), f.L.GetGlobal("r"))

	err := f.L.DoString(`divmod(1, 0)`)
	require.Error(t, err)
	assert.EqualError(t, luaerr.Unwrap(err), "math2.divmod: division by zero")
}

func TestGenerate_MutableBorrowAndConsume(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "response", "mm ; mark_changed", (*gui.Response).MarkChanged)
	f.bind(t, "response", "m ; changed ; - ; bool", gui.Response.Changed)
	f.bind(t, "rich_text", "ms ; strong ; - ; rich_text", gui.RichText.Strong)

	resp, err := f.codecs.ResolveString("response")
	require.NoError(t, err)
	lv, err := resp.Encode(f.L, gui.Response{ID: "r"})
	require.NoError(t, err)
	f.L.SetGlobal("r", lv)
	rich, err := f.codecs.ResolveString("rich_text")
	require.NoError(t, err)
	rlv, err := rich.Encode(f.L, gui.NewRichText("t"))
	require.NoError(t, err)
	f.L.SetGlobal("t", rlv)

	require.NoError(t, f.L.DoString(`r:mark_changed(); changed = r:changed(); s = t:strong()`))
	assert.Equal(t, lua.LTrue, f.L.GetGlobal("changed"))

	err = f.L.DoString(`t:strong()`)
	require.Error(t, err)
	assert.Contains(t, luaerr.Unwrap(err).Error(), "moved")
}

func TestGenerate_CustomHookAndOverride(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "text", "f ; wrap ; string custom=upper ; string", func(s string) string { return s })
	f.bind(t, "text", "f ; answer ; - ; - ; override=answer", nil)

	require.NoError(t, f.L.DoString(`w = wrap("a"); n = answer()`))
	assert.Equal(t, lua.LString("<a>"), f.L.GetGlobal("w"))
	assert.Equal(t, lua.LNumber(42), f.L.GetGlobal("n"))
}

func TestGenerate_RejectsMismatchedHandlers(t *testing.T) {
	f := newFixture(t)
	testCases := []struct {
		name string
		line string
		fn   any
	}{
		{"arity", "f ; new ; number, number ; vec2", func(x float64) gui.Vec2 { return gui.Vec2{} }},
		{"param type", "f ; new ; number, number ; vec2", func(x, y string) gui.Vec2 { return gui.Vec2{} }},
		{"return type", "f ; new ; number, number ; vec2", func(x, y float64) gui.Pos2 { return gui.Pos2{} }},
		{"return count", "f ; new ; number, number ; vec2", func(x, y float64) {}},
		{"not a func", "f ; new", 5},
		{"nil handler", "f ; new", nil},
		{"unknown type", "f ; new ; widget", func(any) {}},
		{"unknown hook", "f ; new ; table custom=nope", func(any) {}},
		{"unknown override", "f ; new ; - ; - ; override=nope", nil},
		{"ref of plain value", "f ; new ; number ref", func(*float64) {}},
		{"mutable number receiver", "mm ; inc", func(*float64) {}},
		{"consumed number receiver", "ms ; eat", func(float64) {}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			receiver := "vec2"
			if tc.name == "mutable number receiver" || tc.name == "consumed number receiver" {
				receiver = "number"
			}
			d, err := ParseLine(receiver, tc.line)
			require.NoError(t, err)
			_, err = f.gen.Generate(d, tc.fn)
			var de *DescriptorError
			require.True(t, errors.As(err, &de), "got %v", err)
		})
	}
}

func TestGenerate_OptionalArgument(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "layout", "f ; pick ; optional(align) ; string", func(a *gui.Align) string {
		if a == nil {
			return "default"
		}
		return a.String()
	})

	require.NoError(t, f.L.DoString(`a = pick(); b = pick(1)`))
	assert.Equal(t, lua.LString("default"), f.L.GetGlobal("a"))
	assert.Equal(t, lua.LString("center"), f.L.GetGlobal("b"))
}

func TestCloneValue(t *testing.T) {
	g := gui.Galley{Rows: []string{"a"}}
	cloned := cloneValue(reflect.ValueOf(g)).Interface().(gui.Galley)
	cloned.Rows[0] = "b"
	assert.Equal(t, "a", g.Rows[0])

	// Types without Clone pass through.
	v := cloneValue(reflect.ValueOf(3))
	assert.Equal(t, 3, v.Interface())
}
