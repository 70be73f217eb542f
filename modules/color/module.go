// Package color binds color32 and the named colors.
package color

import (
	_ "embed"
	"fmt"

	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers, the named colors and the manifest with
// the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterManifest("color/manifest.hcl", manifest)
	r.RegisterHandler("color32.from_rgba", FromRGBA)
	r.RegisterHandler("color32.from_rgb", FromRGB)
	r.RegisterHandler("color32.from_gray", FromGray)
	r.RegisterHandler("color32.r", func(c gui.Color32) int { return int(c.R) })
	r.RegisterHandler("color32.g", func(c gui.Color32) int { return int(c.G) })
	r.RegisterHandler("color32.b", func(c gui.Color32) int { return int(c.B) })
	r.RegisterHandler("color32.a", func(c gui.Color32) int { return int(c.A) })
	r.RegisterHandler("color32.hex", gui.Color32.Hex)
	for name, c := range gui.NamedColors {
		r.RegisterConstant("color32", name, c.Packed())
	}
}

// ChannelError reports a channel value outside 0..255.
type ChannelError struct {
	Channel string
	Value   int
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel %s: %d is outside 0..255", e.Channel, e.Value)
}

func channel(name string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, &ChannelError{Channel: name, Value: v}
	}
	return uint8(v), nil
}

func FromRGBA(r, g, b, a int) (gui.Color32, error) {
	var c [4]uint8
	for i, ch := range []struct {
		name string
		v    int
	}{{"r", r}, {"g", g}, {"b", b}, {"a", a}} {
		v, err := channel(ch.name, ch.v)
		if err != nil {
			return gui.Color32{}, err
		}
		c[i] = v
	}
	return gui.FromRGBA(c[0], c[1], c[2], c[3]), nil
}

func FromRGB(r, g, b int) (gui.Color32, error) { return FromRGBA(r, g, b, 255) }

func FromGray(l int) (gui.Color32, error) { return FromRGBA(l, l, l, 255) }
