package response_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/testutil"
	"github.com/vk/scriptui/modules/containers"
	"github.com/vk/scriptui/modules/geometry"
	"github.com/vk/scriptui/modules/response"
	"github.com/vk/scriptui/modules/text"
	"github.com/vk/scriptui/modules/widgets"
	lua "github.com/yuin/gopher-lua"
)

func newHarness(t *testing.T) *testutil.Harness {
	return testutil.NewHarness(t,
		&response.Module{}, &widgets.Module{}, &containers.Module{}, &geometry.Module{}, &text.Module{})
}

func TestResponseFields(t *testing.T) {
	h := newHarness(t)
	h.Load(t, `
function gui_run(ctx)
  egui.window.new("Win"):show(ctx, function(ui)
    local r = ui:button("OK")
    id, sense, width = r.id, r.sense, r.rect:width()
    hovered, clicked = r:hovered(), r:clicked()
  end)
end
`)

	_, err := h.Frame(t)

	require.NoError(t, err)
	L := h.Host.L
	assert.Equal(t, lua.LString("Win/ok"), L.GetGlobal("id"))
	assert.Equal(t, lua.LNumber(1), L.GetGlobal("sense"))
	assert.Equal(t, lua.LNumber(40), L.GetGlobal("width"))
	assert.Equal(t, lua.LFalse, L.GetGlobal("hovered"))
	assert.Equal(t, lua.LFalse, L.GetGlobal("clicked"))
}

func TestMarkChanged_MutatesInPlace(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)
	h.Load(t, `
function gui_run(ctx)
  egui.window.new("Win"):show(ctx, function(ui)
    local r = ui:label("x")
    before = r:changed()
    r:mark_changed()
    after = r:changed()
  end)
end
`)

	// --- Act ---
	_, err := h.Frame(t)

	// --- Assert ---
	require.NoError(t, err)
	L := h.Host.L
	assert.Equal(t, lua.LFalse, L.GetGlobal("before"))
	assert.Equal(t, lua.LTrue, L.GetGlobal("after"))
}

func TestOnHoverUi(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)
	h.Load(t, `
function gui_run(ctx)
  egui.window.new("Win"):show(ctx, function(ui)
    _, hovered_value = ui:button("OK"):on_hover_ui(function(tip)
      tip:label("tip")
      return "shown"
    end)
    other_calls = 0
    _, other_value = ui:button("Other"):on_hover_ui(function(tip)
      other_calls = other_calls + 1
      return "never"
    end)
  end)
end
`)
	h.GUI.QueueHover("OK")

	// --- Act ---
	frame, err := h.Frame(t)

	// --- Assert ---
	require.NoError(t, err)
	L := h.Host.L
	assert.Equal(t, lua.LString("shown"), L.GetGlobal("hovered_value"))
	assert.Equal(t, lua.LNil, L.GetGlobal("other_value"))
	assert.Equal(t, lua.LNumber(0), L.GetGlobal("other_calls"))
	require.Len(t, frame.Areas, 2)
	assert.Equal(t, gui.AreaTooltip, frame.Areas[1].Kind)
	assert.Equal(t, 0, h.Host.LiveHandles())
}

func TestHoverTextAndCursor(t *testing.T) {
	h := newHarness(t)
	h.Load(t, `
function gui_run(ctx)
  egui.window.new("Win"):show(ctx, function(ui)
    local r = ui:button("OK")
      :on_hover_text(egui.rich_text.new("help"):italics())
      :on_hover_cursor(egui.cursor_icon.POINTING_HAND)
    hover_text = r:hover_text()
  end)
end
`)
	h.GUI.QueueHover("OK")

	frame, err := h.Frame(t)

	require.NoError(t, err)
	assert.Equal(t, lua.LString("help"), h.Host.L.GetGlobal("hover_text"))
	assert.Equal(t, gui.CursorPointingHand, h.GUI.Cursor())
	assert.Contains(t, frame.Texts(), "help")
}

func TestUnionAndInteract(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)
	h.Load(t, `
function gui_run(ctx)
  egui.window.new("Win"):show(ctx, function(ui)
    local a = ui:button("A")
    local b = ui:button("B")
    any_clicked = a:union(b):clicked()
    union_height = a:union(b).rect:height()

    local plain = ui:label("note")
    plain_clicked = plain:clicked()
    interact_clicked = plain:interact(egui.sense.CLICK + egui.sense.DRAG):clicked()
  end)
end
`)
	h.GUI.QueueClick("B")
	h.GUI.QueueClick("note")

	// --- Act ---
	_, err := h.Frame(t)

	// --- Assert ---
	require.NoError(t, err)
	L := h.Host.L
	assert.Equal(t, lua.LTrue, L.GetGlobal("any_clicked"))
	assert.Equal(t, lua.LNumber(2), L.GetGlobal("union_height"))
	assert.Equal(t, lua.LFalse, L.GetGlobal("plain_clicked"))
	assert.Equal(t, lua.LTrue, L.GetGlobal("interact_clicked"))
}

func TestInteract_RejectsUnknownFlags(t *testing.T) {
	h := newHarness(t)
	h.Load(t, `
function gui_run(ctx)
  egui.window.new("Win"):show(ctx, function(ui)
    ui:label("x"):interact(64)
  end)
end
`)

	_, err := h.Frame(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "response.interact: argument #2: cannot convert number to sense")
}

func TestResponsesOutliveTheirBody(t *testing.T) {
	h := newHarness(t)
	h.Load(t, `
function gui_run(ctx)
  local _, window = egui.window.new("Win"):show(ctx, function(ui) ui:label("x") end)
  window_id = window.id
end
`)

	_, err := h.Frame(t)

	require.NoError(t, err)
	assert.Equal(t, lua.LString("Win"), h.Host.L.GetGlobal("window_id"))
}

func TestKeptResponse_OutsideFrameDoesNotConsumeInput(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)
	h.Load(t, `
function gui_run(ctx)
  egui.window.new("Win"):show(ctx, function(ui)
    saved = ui:button("OK")
    clicked = saved:clicked()
  end)
end
`)
	h.GUI.QueueHover("OK")
	_, err := h.Frame(t)
	require.NoError(t, err)
	h.GUI.QueueClick("OK")

	// --- Act ---
	h.Load(t, `
saved:on_hover_text("tip")
saved:on_hover_cursor(egui.cursor_icon.POINTING_HAND)
tip_ran = false
_, tip_value = saved:on_hover_ui(function(tip)
  tip_ran = true
  return "tip"
end)
`)
	frame, err := h.Frame(t)

	// --- Assert ---
	require.NoError(t, err)
	L := h.Host.L
	assert.Equal(t, lua.LFalse, L.GetGlobal("tip_ran"))
	assert.Equal(t, lua.LNil, L.GetGlobal("tip_value"))
	assert.Equal(t, uint64(2), frame.Number)
	assert.Equal(t, lua.LTrue, L.GetGlobal("clicked"), "queued click must reach the next frame")
	for _, a := range frame.Areas {
		assert.NotEqual(t, gui.AreaTooltip, a.Kind)
	}
}
