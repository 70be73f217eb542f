package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/app"
	"github.com/vk/scriptui/internal/registry"
)

const idleScript = `function gui_run(ctx) end`

type strayHandlerModule struct{}

func (m *strayHandlerModule) Register(r *registry.Registry) {
	r.RegisterHandler("stopwatch.lap", func() float64 { return 0 })
}

// capturePanic runs fn and returns what it panicked with as an error.
func capturePanic(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			require.True(t, ok, "panic value is %T, not an error", r)
			err = e
		}
	}()
	fn()
	return nil
}

// TestStartupValidation_ManifestImplementationMismatch_Fails checks that the
// app refuses to start when manifests and Go handlers disagree in either
// direction.
func TestStartupValidation_ManifestImplementationMismatch_Fails(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	dir := t.TempDir()
	manifest := `
type "stopwatch" {
  wrap = ["f ; start ; - ; number"]
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stopwatch.hcl"), []byte(manifest), 0o600))
	cfg := &app.Config{ManifestsPath: dir}
	modules := append(app.CoreModules(), &strayHandlerModule{})

	// --- Act ---
	err := capturePanic(t, func() { app.SetupAppTest(t, cfg, idleScript, modules...) })

	// --- Assert ---
	require.Error(t, err, "app.NewApp() should have panicked, but it did not")
	assert.Contains(t, err.Error(), "registry validation failed")
	assert.Contains(t, err.Error(), "manifest binds 'stopwatch.start' to handler 'stopwatch.start' which is not registered")
	assert.Contains(t, err.Error(), "handler 'stopwatch.lap' is registered in Go but no manifest binds it")
}

func TestStartupValidation_ManifestRedefinesCoreType_Fails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vec2.hcl"), []byte(`type "vec2" {}`), 0o600))

	err := capturePanic(t, func() { app.SetupAppTest(t, &app.Config{ManifestsPath: dir}, idleScript) })

	require.Error(t, err)
	assert.Contains(t, err.Error(), `type "vec2" is defined in both geometry/manifest.hcl and`)
}
