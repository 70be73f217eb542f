// Package text binds rich text, widget text and galleys.
package text

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
func (m *Module) Register(r *registry.Registry) {
	r.RegisterManifest("text/manifest.hcl", manifest)

	r.RegisterHandler("rich_text.new", gui.NewRichText)
	r.RegisterHandler("rich_text.strong", gui.RichText.Strong)
	r.RegisterHandler("rich_text.italics", gui.RichText.Italics)
	r.RegisterHandler("rich_text.color", gui.RichText.Color)
	r.RegisterHandler("rich_text.size", gui.RichText.Size)
	r.RegisterHandler("rich_text.text", gui.RichText.Text)
	r.RegisterHandler("rich_text.__tostring", gui.RichText.Text)

	// The union argument already converts every member to widget text.
	r.RegisterHandler("widget_text.new", func(t gui.WidgetText) gui.WidgetText { return t })
	r.RegisterHandler("widget_text.text", gui.WidgetText.Text)
	r.RegisterHandler("widget_text.is_empty", gui.WidgetText.IsEmpty)
	r.RegisterHandler("widget_text.__tostring", gui.WidgetText.Text)

	r.RegisterHandler("galley.layout", Layout)
	r.RegisterHandler("galley.copy", func(g gui.Galley) gui.Galley { return g })
	r.RegisterHandler("galley.rows", func(g gui.Galley) int { return len(g.Rows) })
	r.RegisterHandler("galley.text", gui.Galley.Text)
}

// Layout wraps text at width columns. A width of zero or less only splits
// on newlines.
func Layout(text string, width int) gui.Galley { return *gui.LayoutText(text, width) }
