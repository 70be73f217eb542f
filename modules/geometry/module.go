// Package geometry binds the vector, position and rectangle value types.
package geometry

import (
	_ "embed"

	"github.com/vk/scriptui/internal/gui"
	"github.com/vk/scriptui/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

var handlers = map[string]any{
	"vec2.new":        gui.NewVec2,
	"vec2.splat":      gui.Splat,
	"vec2.x":          func(v gui.Vec2) float64 { return v.X },
	"vec2.y":          func(v gui.Vec2) float64 { return v.Y },
	"vec2.length":     gui.Vec2.Length,
	"vec2.length_sq":  gui.Vec2.LengthSq,
	"vec2.normalized": gui.Vec2.Normalized,
	"vec2.rot90":      gui.Vec2.Rot90,
	"vec2.dot":        gui.Vec2.Dot,
	"vec2.min":        gui.Vec2.Min,
	"vec2.max":        gui.Vec2.Max,
	"vec2.abs":        gui.Vec2.Abs,
	"vec2.floor":      gui.Vec2.Floor,
	"vec2.round":      gui.Vec2.Round,
	"vec2.ceil":       gui.Vec2.Ceil,
	"vec2.__add":      gui.Vec2.Add,
	"vec2.__sub":      gui.Vec2.Sub,
	"vec2.__eq":       func(a, b gui.Vec2) bool { return a == b },
	"vec2.__tostring": gui.Vec2.String,

	"pos2.new":        gui.NewPos2,
	"pos2.x":          func(p gui.Pos2) float64 { return p.X },
	"pos2.y":          func(p gui.Pos2) float64 { return p.Y },
	"pos2.distance":   gui.Pos2.Distance,
	"pos2.to_vec2":    gui.Pos2.ToVec2,
	"pos2.min":        gui.Pos2.Min,
	"pos2.max":        gui.Pos2.Max,
	"pos2.__add":      gui.Pos2.Add,
	"pos2.__eq":       func(a, b gui.Pos2) bool { return a == b },
	"pos2.__tostring": gui.Pos2.String,

	"rect.from_min_size": gui.RectFromMinSize,
	"rect.min":           func(r gui.Rect) gui.Pos2 { return r.Min },
	"rect.max":           func(r gui.Rect) gui.Pos2 { return r.Max },
	"rect.width":         gui.Rect.Width,
	"rect.height":        gui.Rect.Height,
	"rect.size":          gui.Rect.Size,
	"rect.union":         gui.Rect.Union,
}

// Register registers the handlers and the manifest with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterManifest("geometry/manifest.hcl", manifest)
	for name, fn := range handlers {
		r.RegisterHandler(name, fn)
	}
}
