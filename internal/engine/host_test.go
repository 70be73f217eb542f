package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/engine"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/hcl"
	"github.com/vk/scriptui/internal/registry"
	"github.com/vk/scriptui/modules/containers"
	"github.com/vk/scriptui/modules/widgets"
	lua "github.com/yuin/gopher-lua"
)

func newHost(t *testing.T, opts engine.Options) *engine.Host {
	t.Helper()
	ctx := context.Background()
	reg := registry.New()
	(&containers.Module{}).Register(reg)
	(&widgets.Module{}).Register(reg)
	model, err := hcl.NewLoader().LoadSources(ctx, reg.ManifestRegistry...)
	require.NoError(t, err)
	require.NoError(t, reg.PopulateDefinitionsFromModel(model))
	host, err := engine.New(ctx, reg, opts)
	require.NoError(t, err)
	t.Cleanup(host.Close)
	return host
}

func TestNew_AppliesDefaults(t *testing.T) {
	host := newHost(t, engine.Options{})

	assert.Equal(t, engine.Options{Global: "egui", Entry: "gui_run"}, host.Options())
	assert.Equal(t, lua.LTTable, host.L.GetGlobal("egui").Type())
}

func TestSandbox_RemovesUnsafeGlobals(t *testing.T) {
	// --- Arrange ---
	host := newHost(t, engine.Options{})

	// --- Act ---
	err := host.Load(context.Background(), "probe.lua", `
has_io = io ~= nil
has_os = os ~= nil
has_require = require ~= nil
has_dofile = dofile ~= nil
has_loadfile = loadfile ~= nil
upper = string.upper("ok")
floor = math.floor(2.5)
n = #table.concat({"a", "b"})
`)

	// --- Assert ---
	require.NoError(t, err)
	L := host.L
	for _, name := range []string{"has_io", "has_os", "has_require", "has_dofile", "has_loadfile"} {
		assert.Equal(t, lua.LFalse, L.GetGlobal(name), name)
	}
	assert.Equal(t, lua.LString("OK"), L.GetGlobal("upper"))
	assert.Equal(t, lua.LNumber(2), L.GetGlobal("floor"))
	assert.Equal(t, lua.LNumber(2), L.GetGlobal("n"))
}

func TestLoad_SyntaxErrorIsLoadPhase(t *testing.T) {
	host := newHost(t, engine.Options{})

	err := host.Load(context.Background(), "bad.lua", `function (`)

	var se *engine.ScriptError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "load", se.Phase)
	assert.Equal(t, "bad.lua", se.Chunk)
}

func TestRunFrame_MissingEntryPoint(t *testing.T) {
	host := newHost(t, engine.Options{})
	require.NoError(t, host.Load(context.Background(), "empty.lua", `gui_run = 5`))

	_, err := host.RunFrame(context.Background(), gui.NewContext())

	var ep *engine.EntryPointError
	require.True(t, errors.As(err, &ep))
	assert.Equal(t, "gui_run", ep.Name)
	assert.Equal(t, "number", ep.Found)
}

func TestRunFrame_ScriptErrorKeepsPartialFrame(t *testing.T) {
	// --- Arrange ---
	host := newHost(t, engine.Options{})
	require.NoError(t, host.Load(context.Background(), "fail.lua", `
function gui_run(ctx)
  egui.window.new("Drawn"):show(ctx, function(ui) ui:label("before") end)
  egui.window.new("Broken"):show(ctx, function(ui) error("boom") end)
end
`))
	gctx := gui.NewContext()

	// --- Act ---
	frame, err := host.RunFrame(context.Background(), gctx)

	// --- Assert ---
	var se *engine.ScriptError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "frame 1", se.Phase)
	assert.Contains(t, err.Error(), "boom")
	require.NotNil(t, frame)
	assert.Contains(t, frame.Texts(), "before")
	assert.Equal(t, 0, host.LiveHandles())
	assert.Equal(t, 0, host.PendingResults())
}

func TestRunFrame_RecoversAfterScriptError(t *testing.T) {
	host := newHost(t, engine.Options{})
	require.NoError(t, host.Load(context.Background(), "flaky.lua", `
calls = 0
function gui_run(ctx)
  calls = calls + 1
  if calls == 1 then error("first frame fails") end
  egui.window.new("W"):show(ctx, function(ui) ui:label("fine") end)
end
`))
	gctx := gui.NewContext()

	_, err := host.RunFrame(context.Background(), gctx)
	require.Error(t, err)
	frame, err := host.RunFrame(context.Background(), gctx)

	require.NoError(t, err)
	assert.Equal(t, uint64(2), frame.Number)
	assert.Equal(t, []string{"fine"}, frame.Texts())
}

func TestCustomGlobalAndEntry(t *testing.T) {
	host := newHost(t, engine.Options{Global: "ui_api", Entry: "draw"})
	require.NoError(t, host.Load(context.Background(), "custom.lua", `
function draw(ctx)
  ui_api.window.new("W"):show(ctx, function(ui) ui:label(tostring(egui)) end)
end
`))

	frame, err := host.RunFrame(context.Background(), gui.NewContext())

	require.NoError(t, err)
	assert.Equal(t, []string{"nil"}, frame.Texts())
}

func TestReload_RereadsFile(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	host := newHost(t, engine.Options{})
	path := filepath.Join(t.TempDir(), "main.lua")
	write := func(text string) {
		require.NoError(t, os.WriteFile(path, []byte(`
function gui_run(ctx)
  egui.window.new("W"):show(ctx, function(ui) ui:label("`+text+`") end)
end
`), 0o600))
	}
	write("v1")
	require.NoError(t, host.LoadFile(ctx, path))
	gctx := gui.NewContext()
	frame, err := host.RunFrame(ctx, gctx)
	require.NoError(t, err)
	require.Equal(t, []string{"v1"}, frame.Texts())

	// --- Act ---
	write("v2")
	require.NoError(t, host.Reload(ctx))
	frame, err = host.RunFrame(ctx, gctx)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, frame.Texts())
}

func TestReload_WithoutScriptFails(t *testing.T) {
	host := newHost(t, engine.Options{})

	err := host.Reload(context.Background())

	require.EqualError(t, err, "reload: no script loaded")
}

func TestLoadFile_MissingFile(t *testing.T) {
	host := newHost(t, engine.Options{})

	err := host.LoadFile(context.Background(), filepath.Join(t.TempDir(), "absent.lua"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading script")
}
