package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/ctxlog"
	"github.com/vk/scriptui/internal/engine"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/hcl"
	"github.com/vk/scriptui/internal/registry"
	lua "github.com/yuin/gopher-lua"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness is a script host with a set of binding modules installed under
// the default global.
type Harness struct {
	Host *engine.Host
	GUI  *gui.Context
	Logs *SafeBuffer
	Ctx  context.Context
}

// NewHarness registers modules, loads their embedded manifests and builds
// a host. Startup errors fail the test.
func NewHarness(t *testing.T, modules ...registry.Module) *Harness {
	t.Helper()

	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	reg := registry.New()
	for _, m := range modules {
		m.Register(reg)
	}
	model, err := hcl.NewLoader().LoadSources(ctx, reg.ManifestRegistry...)
	require.NoError(t, err, "loading embedded manifests")
	require.NoError(t, reg.PopulateDefinitionsFromModel(model))

	host, err := engine.New(ctx, reg, engine.Options{})
	require.NoError(t, err, "creating script host")

	t.Cleanup(func() {
		host.Close()
		if os.Getenv("SCRIPTUI_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return &Harness{Host: host, GUI: gui.NewContext(), Logs: logs, Ctx: ctx}
}

// Load runs src as the script chunk "test.lua".
func (h *Harness) Load(t *testing.T, src string) {
	t.Helper()
	require.NoError(t, h.Host.Load(h.Ctx, "test.lua", src))
}

// Frame runs one frame of the loaded script.
func (h *Harness) Frame(t *testing.T) (*gui.Frame, error) {
	t.Helper()
	return h.Host.RunFrame(h.Ctx, h.GUI)
}

// Eval evaluates a Lua expression list outside of any frame and returns
// its values.
func (h *Harness) Eval(t *testing.T, expr string) []lua.LValue {
	t.Helper()
	values, err := h.TryEval(expr)
	require.NoError(t, err, "evaluating %q", expr)
	return values
}

// TryEval is Eval returning the script error instead of failing the test.
func (h *Harness) TryEval(expr string) ([]lua.LValue, error) {
	L := h.Host.L
	fn, err := L.Load(strings.NewReader("return "+expr), "eval")
	if err != nil {
		return nil, err
	}
	top := L.GetTop()
	if err := L.CallByParam(lua.P{Fn: fn, NRet: lua.MultRet, Protect: true}); err != nil {
		return nil, err
	}
	n := L.GetTop() - top
	values := make([]lua.LValue, n)
	for i := range values {
		values[i] = L.Get(top + 1 + i)
	}
	L.SetTop(top)
	return values, nil
}
