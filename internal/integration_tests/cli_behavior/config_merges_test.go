package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptui/internal/app"
)

// TestCLI_MergesManifests_FromDirectoryPath checks that manifests found
// under the configured path are merged with the embedded ones.
func TestCLI_MergesManifests_FromDirectoryPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "themes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels.hcl"), []byte(`
namespace "labels" {
  constants = {
    GREETING = "hello from a manifest"
  }
}
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "themes", "sizes.hcl"), []byte(`
namespace "sizes" {
  constants = {
    WIDE = 30
  }
}
`), 0o600))
	script := `
function gui_run(ctx)
  egui.window.new("Merged"):default_size(egui.vec2.new(egui.sizes.WIDE, 4)):show(ctx, function(ui)
    ui:label(egui.labels.GREETING)
  end)
end
`
	testApp, logs := app.SetupAppTest(t, &app.Config{ManifestsPath: dir}, script)

	// --- Act ---
	err := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "hello from a manifest")
	assert.Contains(t, logs.String(), "--- frame 1 ---")
}

func TestCLI_CustomNamespaceAndEntry(t *testing.T) {
	t.Parallel()
	script := `
function draw(ctx)
  gui.window.new("Custom"):show(ctx, function(ui) ui:label("custom entry") end)
end
`
	testApp, logs := app.SetupAppTest(t, &app.Config{Namespace: "gui", Entry: "draw"}, script)

	err := testApp.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "custom entry")
}
