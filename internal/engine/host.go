package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/vk/scriptui/internal/bridge"
	"github.com/vk/scriptui/internal/codec"
	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/handle"
	"github.com/vk/scriptui/internal/luaerr"
	"github.com/vk/scriptui/internal/registry"
	"github.com/vk/scriptui/internal/relay"
	lua "github.com/yuin/gopher-lua"
)

const (
	DefaultGlobal = "egui"
	DefaultEntry  = "gui_run"
)

// Options configures a Host.
type Options struct {
	// Global is the name of the binding namespace table.
	Global string
	// Entry is the global function called once per frame.
	Entry string
}

// Host runs scripts against the gui. It is not safe for concurrent use.
type Host struct {
	L        *lua.LState
	opts     Options
	logger   *slog.Logger
	arena    *handle.Arena
	relay    *relay.Store
	baseline int

	chunk  string
	source string
	path   string
}

// New builds a sandboxed state, registers the handle codecs and container
// overrides into reg, validates reg and installs it.
func New(ctx context.Context, reg *registry.Registry, opts Options) (*Host, error) {
	logger := ctxlog.FromContext(ctx)
	if opts.Global == "" {
		opts.Global = DefaultGlobal
	}
	if opts.Entry == "" {
		opts.Entry = DefaultEntry
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	if err := openSandbox(L); err != nil {
		L.Close()
		return nil, err
	}
	luaerr.Register(L)

	arena := handle.NewArena(logger)
	reg.RegisterCodec(handle.NewCodec(arena, bridge.UiType, reflect.TypeOf((*gui.Ui)(nil))))
	reg.RegisterCodec(handle.NewCodec(arena, bridge.ContextType, reflect.TypeOf((*gui.Context)(nil))))
	bridge.RegisterCodecs(reg.Codecs)

	store := relay.New(L, logger)
	b, err := bridge.New(arena, store, reg.Codecs, logger)
	if err != nil {
		L.Close()
		return nil, err
	}
	for name, fn := range b.Overrides() {
		reg.RegisterOverride(name, fn)
	}

	if err := reg.ValidateRegistry(ctx); err != nil {
		L.Close()
		return nil, err
	}
	if err := reg.Install(ctx, L, opts.Global); err != nil {
		L.Close()
		return nil, err
	}

	h := &Host{L: L, opts: opts, logger: logger, arena: arena, relay: store, baseline: store.Len()}
	logger.Debug("Script host ready.", "global", opts.Global, "entry", opts.Entry)
	return h, nil
}

// unsafeGlobals reach the file system or the module loader.
var unsafeGlobals = []string{"dofile", "loadfile", "require", "module"}

func openSandbox(L *lua.LState) error {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("opening %s library: %w", lib.name, err)
		}
	}
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return nil
}

// Options returns the effective options.
func (h *Host) Options() Options { return h.opts }

// Load runs src as a chunk named name. Top-level code usually just defines
// the entry point.
func (h *Host) Load(ctx context.Context, name, src string) error {
	h.chunk, h.source, h.path = name, src, ""
	return h.run(ctx)
}

// LoadFile loads the script at path. Reload reads the file again.
func (h *Host) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	h.chunk, h.source, h.path = path, string(data), path
	return h.run(ctx)
}

// Reload runs the last loaded script again, re-reading it from disk when
// it came from a file. Globals from the previous run are overwritten, not
// cleared.
func (h *Host) Reload(ctx context.Context) error {
	if h.chunk == "" {
		return errors.New("reload: no script loaded")
	}
	if h.path != "" {
		data, err := os.ReadFile(h.path)
		if err != nil {
			return fmt.Errorf("reload: reading script: %w", err)
		}
		h.source = string(data)
	}
	ctxlog.FromContext(ctx).Info("Reloading script.", "chunk", h.chunk)
	return h.run(ctx)
}

func (h *Host) run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	fn, err := h.L.Load(strings.NewReader(h.source), h.chunk)
	if err != nil {
		return &ScriptError{Chunk: h.chunk, Phase: "load", Err: err}
	}
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		return &ScriptError{Chunk: h.chunk, Phase: "load", Err: luaerr.Unwrap(err)}
	}
	logger.Debug("Script loaded.", "chunk", h.chunk, "bytes", len(h.source))
	return nil
}

// RunFrame runs one frame of gctx: it begins the frame, calls the entry
// point with the context handle and ends the frame. The frame is returned
// even when the script failed, so whatever was drawn can still be shown.
func (h *Host) RunFrame(ctx context.Context, gctx *gui.Context) (frame *gui.Frame, err error) {
	logger := ctxlog.FromContext(ctx)
	if fatal := h.arena.Err(); fatal != nil {
		return nil, fatal
	}
	entry := h.L.GetGlobal(h.opts.Entry)
	fn, ok := entry.(*lua.LFunction)
	if !ok {
		return nil, &EntryPointError{Name: h.opts.Entry, Found: codec.TypeName(entry)}
	}

	start := time.Now()
	gctx.BeginFrame()
	logger = ctxlog.FromContext(ctxlog.With(ctx, "frame", gctx.FrameNr()))
	defer func() {
		if rec := recover(); rec != nil {
			te, ok := rec.(*handle.TeardownError)
			if !ok {
				panic(rec)
			}
			frame, err = gctx.EndFrame(), te
		}
	}()

	top := h.L.GetTop()
	callErr := h.arena.Enter(h.L, bridge.ContextType, gctx, false, func(ud *lua.LUserData) error {
		return h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, ud)
	})
	h.L.SetTop(top)
	frame = gctx.EndFrame()

	if fatal := h.arena.Err(); fatal != nil {
		return frame, fatal
	}
	var errs []error
	if callErr != nil {
		errs = append(errs, &ScriptError{Chunk: h.chunk, Phase: fmt.Sprintf("frame %d", frame.Number), Err: luaerr.Unwrap(callErr)})
	}
	if live := h.arena.Live(); live != 0 {
		errs = append(errs, &HandleLeakError{Live: live})
	}
	if leak := h.relay.Balance(h.baseline); leak != nil {
		drained := h.relay.Drain()
		logger.Error("Relay store leaked entries.", "error", leak, "drained", drained)
		errs = append(errs, leak)
	}

	logger.Debug("Frame finished.", "duration", time.Since(start), "areas", len(frame.Areas))
	return frame, errors.Join(errs...)
}

// LiveHandles is the number of handles currently in scope.
func (h *Host) LiveHandles() int { return h.arena.Live() }

// PendingResults is the number of relay entries not yet taken.
func (h *Host) PendingResults() int { return h.relay.Len() }

func (h *Host) Close() {
	h.L.Close()
}
