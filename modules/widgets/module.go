// Package widgets binds the ui handle: basic widgets plus the layout
// helpers that run a nested body.
package widgets

import (
	_ "embed"
	"reflect"

	"github.com/vk/scriptui/internal/codec"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/registry"
	"github.com/vk/scriptui/internal/wrapgen"
	lua "github.com/yuin/gopher-lua"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers, hooks and the manifest with the
// registry. The nested-body helpers are bridge overrides.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterManifest("widgets/manifest.hcl", manifest)

	r.RegisterHook("text_buffer", wrapgen.Hook{
		GoType: reflect.TypeOf((*gui.TextBuffer)(nil)).Elem(),
		Decode: decodeTable(func(L *lua.LState, tb *lua.LTable) any { return &TableText{L: L, Table: tb} }),
	})
	r.RegisterHook("bool_buffer", wrapgen.Hook{
		GoType: reflect.TypeOf((*gui.BoolBuffer)(nil)).Elem(),
		Decode: decodeTable(func(L *lua.LState, tb *lua.LTable) any { return &TableBool{L: L, Table: tb} }),
	})

	r.RegisterHandler("ui.label", (*gui.Ui).Label)
	r.RegisterHandler("ui.heading", (*gui.Ui).Heading)
	r.RegisterHandler("ui.button", (*gui.Ui).Button)
	r.RegisterHandler("ui.small_button", (*gui.Ui).SmallButton)
	r.RegisterHandler("ui.colored_label", (*gui.Ui).ColoredLabel)
	r.RegisterHandler("ui.separator", (*gui.Ui).Separator)
	r.RegisterHandler("ui.add_space", (*gui.Ui).AddSpace)
	r.RegisterHandler("ui.text_edit_singleline", (*gui.Ui).TextEditSingleline)
	r.RegisterHandler("ui.checkbox", (*gui.Ui).Checkbox)
	r.RegisterHandler("ui.available_width", (*gui.Ui).AvailableWidth)
	r.RegisterHandler("ui.ctx", (*gui.Ui).Context)
}

func decodeTable(wrap func(*lua.LState, *lua.LTable) any) func(*lua.LState, lua.LValue) (any, error) {
	return func(L *lua.LState, lv lua.LValue) (any, error) {
		tb, ok := lv.(*lua.LTable)
		if !ok {
			return nil, codec.Mismatch(lv, "table")
		}
		return wrap(L, tb), nil
	}
}

// TableText edits the "text" field of a script table, so the script keeps
// ownership of the buffer between frames.
type TableText struct {
	L     *lua.LState
	Table *lua.LTable
}

func (t *TableText) Text() string {
	return lua.LVAsString(t.L.GetField(t.Table, "text"))
}

func (t *TableText) SetText(s string) { t.L.SetField(t.Table, "text", lua.LString(s)) }

// TableBool stores a checkbox state in the "checked" field of a script
// table.
type TableBool struct {
	L     *lua.LState
	Table *lua.LTable
}

func (b *TableBool) Get() bool  { return lua.LVAsBool(b.L.GetField(b.Table, "checked")) }
func (b *TableBool) Set(v bool) { b.L.SetField(b.Table, "checked", lua.LBool(v)) }
