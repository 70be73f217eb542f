// Package response binds widget responses.
package response

import (
	_ "embed"

	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers and the manifest with the registry.
// on_hover_ui is served by the bridge override of the same name.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterManifest("response/manifest.hcl", manifest)

	r.RegisterHandler("response.rect", func(resp gui.Response) gui.Rect { return resp.Rect })
	r.RegisterHandler("response.id", func(resp gui.Response) string { return resp.ID })
	r.RegisterHandler("response.sense", func(resp gui.Response) gui.Sense { return resp.Sense })
	r.RegisterHandler("response.mark_changed", (*gui.Response).MarkChanged)

	r.RegisterHandler("response.clicked", gui.Response.Clicked)
	r.RegisterHandler("response.hovered", gui.Response.Hovered)
	r.RegisterHandler("response.secondary_clicked", gui.Response.SecondaryClicked)
	r.RegisterHandler("response.double_clicked", gui.Response.DoubleClicked)
	r.RegisterHandler("response.changed", gui.Response.Changed)
	r.RegisterHandler("response.drag_delta", gui.Response.DragDelta)
	r.RegisterHandler("response.hover_text", gui.Response.HoverText)
	r.RegisterHandler("response.union", gui.Response.Union)
	r.RegisterHandler("response.on_hover_text", gui.Response.OnHoverText)
	r.RegisterHandler("response.on_hover_cursor", gui.Response.OnHoverCursor)
	r.RegisterHandler("response.interact", gui.Response.Interact)
}
