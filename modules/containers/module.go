// Package containers binds the window and panel builders and the gui
// context. Showing a container is a bridge override, since the body runs
// inside a scoped ui handle.
package containers

import (
	_ "embed"

	"github.com/vk/scriptui/internal/bridge"
	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers and the manifest with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterManifest("containers/manifest.hcl", manifest)

	r.RegisterHandler("window.new", bridge.NewWindow)
	r.RegisterHandler("window_builder.open", bridge.WindowOpen)
	r.RegisterHandler("window_builder.collapsed", bridge.WindowCollapsed)
	r.RegisterHandler("window_builder.default_size", bridge.WindowDefaultSize)
	r.RegisterHandler("window_builder.resizable", bridge.WindowResizable)
	r.RegisterHandler("window_builder.title_bar", bridge.WindowTitleBar)
	r.RegisterHandler("window_builder.id", bridge.WindowID)
	r.RegisterHandler("window_builder.order", bridge.WindowOrder)
	r.RegisterHandler("window_builder.title_align", bridge.WindowTitleAlign)

	r.RegisterHandler("top_bottom_panel.top", bridge.TopPanel)
	r.RegisterHandler("top_bottom_panel.bottom", bridge.BottomPanel)
	r.RegisterHandler("panel_builder.resizable", bridge.PanelResizable)
	r.RegisterHandler("panel_builder.exact_height", bridge.PanelExactHeight)

	r.RegisterHandler("context.frame_nr", func(c *gui.Context) int { return int(c.FrameNr()) })
	r.RegisterHandler("context.request_repaint", (*gui.Context).RequestRepaint)
}
