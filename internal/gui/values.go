package gui

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector (direction or size).
type Vec2 struct {
	X float64
	Y float64
}

// NewVec2 returns the vector (x, y).
func NewVec2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Splat returns a vector with both components set to v.
func Splat(v float64) Vec2 { return Vec2{X: v, Y: v} }

func (v Vec2) Length() float64   { return math.Hypot(v.X, v.Y) }
func (v Vec2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Rot90() Vec2       { return Vec2{X: v.Y, Y: -v.X} }
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Min(o Vec2) Vec2 { return Vec2{X: math.Min(v.X, o.X), Y: math.Min(v.Y, o.Y)} }
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{X: math.Max(v.X, o.X), Y: math.Max(v.Y, o.Y)} }
func (v Vec2) Abs() Vec2       { return Vec2{X: math.Abs(v.X), Y: math.Abs(v.Y)} }
func (v Vec2) Floor() Vec2     { return Vec2{X: math.Floor(v.X), Y: math.Floor(v.Y)} }
func (v Vec2) Round() Vec2     { return Vec2{X: math.Round(v.X), Y: math.Round(v.Y)} }
func (v Vec2) Ceil() Vec2      { return Vec2{X: math.Ceil(v.X), Y: math.Ceil(v.Y)} }

// Normalized returns the unit vector in the direction of v. The zero vector
// stays zero.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Translate moves v in place.
func (v *Vec2) Translate(d Vec2) {
	v.X += d.X
	v.Y += d.Y
}

func (v Vec2) String() string { return fmt.Sprintf("[%g %g]", v.X, v.Y) }

// Pos2 is a position on screen.
type Pos2 struct {
	X float64
	Y float64
}

func NewPos2(x, y float64) Pos2 { return Pos2{X: x, Y: y} }

func (p Pos2) ToVec2() Vec2 { return Vec2{X: p.X, Y: p.Y} }
func (p Pos2) Distance(o Pos2) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}
func (p Pos2) Min(o Pos2) Pos2 { return Pos2{X: math.Min(p.X, o.X), Y: math.Min(p.Y, o.Y)} }
func (p Pos2) Max(o Pos2) Pos2 { return Pos2{X: math.Max(p.X, o.X), Y: math.Max(p.Y, o.Y)} }
func (p Pos2) Add(v Vec2) Pos2 { return Pos2{X: p.X + v.X, Y: p.Y + v.Y} }
func (p Pos2) String() string  { return fmt.Sprintf("[%g %g]", p.X, p.Y) }

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min Pos2
	Max Pos2
}

func RectFromMinSize(min Pos2, size Vec2) Rect {
	return Rect{Min: min, Max: min.Add(size)}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Size() Vec2      { return Vec2{X: r.Width(), Y: r.Height()} }

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{Min: r.Min.Min(o.Min), Max: r.Max.Max(o.Max)}
}

// Color32 is an sRGBA color with one byte per channel.
type Color32 struct {
	R, G, B, A uint8
}

func FromRGBA(r, g, b, a uint8) Color32 { return Color32{R: r, G: g, B: b, A: a} }
func FromRGB(r, g, b uint8) Color32     { return Color32{R: r, G: g, B: b, A: 255} }

// Packed returns the color as 0xRRGGBBAA.
func (c Color32) Packed() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// UnpackColor32 is the inverse of Color32.Packed.
func UnpackColor32(v uint32) Color32 {
	return Color32{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// Hex returns the color as "#rrggbb", ignoring alpha.
func (c Color32) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

var (
	Transparent = Color32{}
	Black       = FromRGB(0, 0, 0)
	White       = FromRGB(255, 255, 255)
	Gray        = FromRGB(160, 160, 160)
	Red         = FromRGB(255, 0, 0)
	Green       = FromRGB(0, 255, 0)
	Blue        = FromRGB(0, 0, 255)
	Yellow      = FromRGB(255, 255, 0)
	Gold        = FromRGB(255, 215, 0)
)

// NamedColors lists the predefined colors by their script-facing names.
var NamedColors = map[string]Color32{
	"TRANSPARENT": Transparent,
	"BLACK":       Black,
	"WHITE":       White,
	"GRAY":        Gray,
	"RED":         Red,
	"GREEN":       Green,
	"BLUE":        Blue,
	"YELLOW":      Yellow,
	"GOLD":        Gold,
}

// Align is a one-dimensional alignment.
type Align int

const (
	AlignMin Align = iota
	AlignCenter
	AlignMax
)

func (a Align) String() string {
	switch a {
	case AlignMin:
		return "min"
	case AlignCenter:
		return "center"
	case AlignMax:
		return "max"
	}
	return fmt.Sprintf("align(%d)", int(a))
}

// Valid reports whether a is one of the defined alignments.
func (a Align) Valid() bool { return a >= AlignMin && a <= AlignMax }

// Sense describes what kind of interaction a widget listens for.
type Sense uint8

const (
	SenseHover Sense = 0
	SenseClick Sense = 1 << (iota - 1)
	SenseDrag
	SenseFocusable
)

func (s Sense) Interactive() bool   { return s&(SenseClick|SenseDrag) != 0 }
func (s Sense) Union(o Sense) Sense { return s | o }

// Order is the paint layer of an area.
type Order int

const (
	OrderBackground Order = iota
	OrderMiddle
	OrderForeground
	OrderTooltip
)

// CursorIcon is an open set of cursor names ("default", "pointing_hand", ...).
type CursorIcon string

const (
	CursorDefault      CursorIcon = "default"
	CursorPointingHand CursorIcon = "pointing_hand"
	CursorText         CursorIcon = "text"
)

// PointerButton identifies a mouse button.
type PointerButton int

const (
	PointerPrimary PointerButton = iota
	PointerSecondary
	PointerMiddle
)
