package bridge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/scriptui/internal/codec"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/handle"
	"github.com/vk/scriptui/internal/luaerr"
	"github.com/vk/scriptui/internal/relay"
	lua "github.com/yuin/gopher-lua"
)

// Handle type names of the borrowed gui objects.
const (
	UiType      = "ui"
	ContextType = "context"
)

// Codec names of the builders.
const (
	WindowBuilderType = "window_builder"
	PanelBuilderType  = "panel_builder"
)

// RegisterCodecs adds the builder codecs to r.
func RegisterCodecs(r *codec.Registry) {
	r.Register(codec.NewValue[*Builder](WindowBuilderType))
	r.Register(codec.NewValue[*Builder](PanelBuilderType))
}

// Bridge runs script callbacks inside scoped ui handles.
type Bridge struct {
	arena    *handle.Arena
	relay    *relay.Store
	logger   *slog.Logger
	builder  codec.Codec
	text     codec.Codec
	response codec.Codec
}

// New returns a Bridge. codecs must hold the gui and builder codecs.
func New(arena *handle.Arena, store *relay.Store, codecs *codec.Registry, logger *slog.Logger) (*Bridge, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{arena: arena, relay: store, logger: logger}
	var err error
	if b.builder, err = codecs.ResolveString("union(" + WindowBuilderType + ", " + PanelBuilderType + ")"); err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	if b.text, err = codecs.ResolveString("union(string, rich_text, widget_text, galley)"); err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	if b.response, err = codecs.ResolveString("response"); err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	return b, nil
}

// Scoped calls fn with a fresh handle for ui. The handle is revoked when fn
// returns; fn's results come back through the relay.
func (b *Bridge) Scoped(L *lua.LState, ui *gui.Ui, fn *lua.LFunction) ([]lua.LValue, error) {
	var key relay.Key
	err := b.arena.Enter(L, UiType, ui, true, func(ud *lua.LUserData) error {
		base := L.GetTop()
		if err := L.CallByParam(lua.P{Fn: fn, NRet: lua.MultRet, Protect: true}, ud); err != nil {
			return err
		}
		n := L.GetTop() - base
		values := make([]lua.LValue, n)
		for i := range values {
			values[i] = L.Get(base + 1 + i)
		}
		L.Pop(n)
		key = b.relay.Put(values)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b.relay.Take(key)
}

// Show spends builder and shows its container on ctx. fn runs only when the
// container is open and expanded.
func (b *Bridge) Show(L *lua.LState, builder *Builder, ctx *gui.Context, fn *lua.LFunction) (Outcome, []lua.LValue, error) {
	config, err := builder.take()
	if err != nil {
		return Outcome{}, nil, err
	}
	var values []lua.LValue
	var cbErr error
	out := config.Show(ctx, func(ui *gui.Ui) {
		values, cbErr = b.Scoped(L, ui, fn)
	})
	b.logger.Debug("Container shown.", "kind", config.Kind(), "open", out.Open, "body_shown", out.BodyShown)
	if cbErr != nil {
		return out, nil, cbErr
	}
	return out, values, nil
}

// ShowFunc is builder:show(ctx, fn).
func (b *Bridge) ShowFunc(L *lua.LState) int {
	const op = "builder.show"
	bv, err := b.builder.Decode(L, L.Get(1))
	if err != nil {
		return raiseArg(L, op, 1, err)
	}
	ctx, err := b.contextArg(L, 2)
	if err != nil {
		return raiseArg(L, op, 2, err)
	}
	fn, err := functionArg(L, 3)
	if err != nil {
		return raiseArg(L, op, 3, err)
	}

	out, values, err := b.Show(L, bv.(*Builder), ctx, fn)
	if err != nil {
		return raise(L, op, err)
	}
	L.Push(lua.LBool(out.BodyShown))
	if err := b.pushResponse(L, out.Response); err != nil {
		return raise(L, op, err)
	}
	return 2 + pushAll(L, values)
}

// NewWindowFunc is the table-driven ctx:new_window(options, fn). options.title
// is required; options.open is read and written back after the frame.
func (b *Bridge) NewWindowFunc(L *lua.LState) int {
	const op = "context.new_window"
	ctx, err := b.contextArg(L, 1)
	if err != nil {
		return raiseArg(L, op, 1, err)
	}
	opts, ok := L.Get(2).(*lua.LTable)
	if !ok {
		return raiseArg(L, op, 2, codec.Mismatch(L.Get(2), "table"))
	}
	fn, err := functionArg(L, 3)
	if err != nil {
		return raiseArg(L, op, 3, err)
	}
	title, ok := opts.RawGetString("title").(lua.LString)
	if !ok {
		ce := codec.Mismatch(opts.RawGetString("title"), "string")
		ce.Detail = "options.title is required"
		return raiseArg(L, op, 2, ce)
	}
	open := true
	if v, ok := opts.RawGetString("open").(lua.LBool); ok {
		open = bool(v)
	}

	var cbErr error
	res := gui.NewWindow(string(title)).Open(open).Show(ctx, func(ui *gui.Ui) {
		_, cbErr = b.Scoped(L, ui, fn)
	})
	opts.RawSetString("open", lua.LBool(res.Open))
	if cbErr != nil {
		return raise(L, op, cbErr)
	}
	return 0
}

// HorizontalFunc is ui:horizontal(fn).
func (b *Bridge) HorizontalFunc(L *lua.LState) int {
	return b.group(L, "ui.horizontal", (*gui.Ui).Horizontal)
}

// VerticalFunc is ui:vertical(fn).
func (b *Bridge) VerticalFunc(L *lua.LState) int {
	return b.group(L, "ui.vertical", (*gui.Ui).Vertical)
}

func (b *Bridge) group(L *lua.LState, op string, layout func(*gui.Ui, func(*gui.Ui)) gui.Response) int {
	ui, err := b.uiArg(L, 1)
	if err != nil {
		return raiseArg(L, op, 1, err)
	}
	fn, err := functionArg(L, 2)
	if err != nil {
		return raiseArg(L, op, 2, err)
	}
	var values []lua.LValue
	var cbErr error
	resp := layout(ui, func(child *gui.Ui) {
		values, cbErr = b.Scoped(L, child, fn)
	})
	if cbErr != nil {
		return raise(L, op, cbErr)
	}
	if err := b.pushResponse(L, &resp); err != nil {
		return raise(L, op, err)
	}
	return 1 + pushAll(L, values)
}

// CollapsingFunc is ui:collapsing(heading, fn).
func (b *Bridge) CollapsingFunc(L *lua.LState) int {
	return b.toggled(L, "ui.collapsing", (*gui.Ui).Collapsing)
}

// MenuButtonFunc is ui:menu_button(text, fn).
func (b *Bridge) MenuButtonFunc(L *lua.LState) int {
	return b.toggled(L, "ui.menu_button", (*gui.Ui).MenuButton)
}

func (b *Bridge) toggled(L *lua.LState, op string, show func(*gui.Ui, gui.WidgetText, func(*gui.Ui)) (gui.Response, bool)) int {
	ui, err := b.uiArg(L, 1)
	if err != nil {
		return raiseArg(L, op, 1, err)
	}
	text, err := b.text.Decode(L, L.Get(2))
	if err != nil {
		return raiseArg(L, op, 2, err)
	}
	fn, err := functionArg(L, 3)
	if err != nil {
		return raiseArg(L, op, 3, err)
	}
	var values []lua.LValue
	var cbErr error
	resp, opened := show(ui, text.(gui.WidgetText), func(child *gui.Ui) {
		values, cbErr = b.Scoped(L, child, fn)
	})
	if cbErr != nil {
		return raise(L, op, cbErr)
	}
	if err := b.pushResponse(L, &resp); err != nil {
		return raise(L, op, err)
	}
	L.Push(lua.LBool(opened))
	return 2 + pushAll(L, values)
}

// OnHoverUiFunc is response:on_hover_ui(fn). fn runs in a tooltip only while
// the widget is hovered.
func (b *Bridge) OnHoverUiFunc(L *lua.LState) int {
	const op = "response.on_hover_ui"
	rv, err := b.response.Decode(L, L.Get(1))
	if err != nil {
		return raiseArg(L, op, 1, err)
	}
	fn, err := functionArg(L, 2)
	if err != nil {
		return raiseArg(L, op, 2, err)
	}
	var values []lua.LValue
	var cbErr error
	resp, _ := rv.(gui.Response).OnHoverUi(func(tip *gui.Ui) {
		values, cbErr = b.Scoped(L, tip, fn)
	})
	if cbErr != nil {
		return raise(L, op, cbErr)
	}
	if err := b.pushResponse(L, &resp); err != nil {
		return raise(L, op, err)
	}
	return 1 + pushAll(L, values)
}

// Overrides returns the hand-written wrappers by their registry names.
func (b *Bridge) Overrides() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"container.show":       b.ShowFunc,
		"context.new_window":   b.NewWindowFunc,
		"ui.horizontal":        b.HorizontalFunc,
		"ui.vertical":          b.VerticalFunc,
		"ui.collapsing":        b.CollapsingFunc,
		"ui.menu_button":       b.MenuButtonFunc,
		"response.on_hover_ui": b.OnHoverUiFunc,
	}
}

func (b *Bridge) contextArg(L *lua.LState, pos int) (*gui.Context, error) {
	v, err := b.arena.Resolve(L.Get(pos), ContextType, false)
	if err != nil {
		return nil, err
	}
	return v.(*gui.Context), nil
}

func (b *Bridge) uiArg(L *lua.LState, pos int) (*gui.Ui, error) {
	v, err := b.arena.Resolve(L.Get(pos), UiType, true)
	if err != nil {
		return nil, err
	}
	return v.(*gui.Ui), nil
}

func (b *Bridge) pushResponse(L *lua.LState, resp *gui.Response) error {
	if resp == nil {
		L.Push(lua.LNil)
		return nil
	}
	lv, err := b.response.Encode(L, *resp)
	if err != nil {
		return err
	}
	L.Push(lv)
	return nil
}

func functionArg(L *lua.LState, pos int) (*lua.LFunction, error) {
	fn, ok := L.Get(pos).(*lua.LFunction)
	if !ok {
		return nil, codec.Mismatch(L.Get(pos), "function")
	}
	return fn, nil
}

func pushAll(L *lua.LState, values []lua.LValue) int {
	for _, v := range values {
		L.Push(v)
	}
	return len(values)
}

func raiseArg(L *lua.LState, op string, pos int, err error) int {
	var ce *codec.ConversionError
	if errors.As(err, &ce) {
		return luaerr.Raise(L, ce.At(op, pos))
	}
	return luaerr.Raise(L, fmt.Errorf("%s: argument #%d: %w", op, pos, err))
}

// raise propagates a script error unchanged and wraps host errors with the
// operation name.
func raise(L *lua.LState, op string, err error) int {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		return luaerr.Reraise(L, err)
	}
	return luaerr.Raise(L, fmt.Errorf("%s: %w", op, err))
}
