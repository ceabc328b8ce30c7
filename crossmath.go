package crossmath

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default text and outline color.
var ColorWhite = Color{1, 1, 1, 1}

// ParseColor parses a "#RRGGBB" or "#RRGGBBAA" hex string. Colors without
// an alpha byte are opaque.
func ParseColor(hex string) (Color, error) {
	alpha := 1.0
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", hex, err)
		}
		alpha = float64(a) / 255
		hex = hex[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// MustParseColor is like ParseColor but panics on malformed input.
// Only used for the literal palettes compiled into the game.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as a "#rrggbb" string, ignoring alpha.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Over composites c onto an opaque background bg.
func (c Color) Over(bg Color) Color {
	m := colorful.Color{R: bg.R, G: bg.G, B: bg.B}.BlendRgb(colorful.Color{R: c.R, G: c.G, B: c.B}, c.A)
	return Color{R: m.R, G: m.G, B: m.B, A: 1}
}

// RGBA8 returns the color as 8-bit non-premultiplied components.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Vec2 is a 2D vector used for positions, offsets and deltas.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Overlaps reports whether r and other share interior area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// RectAround returns a size×size rectangle centred on c.
func RectAround(c Vec2, size float64) Rect {
	return Rect{X: c.X - size/2, Y: c.Y - size/2, Width: size, Height: size}
}

// Cell addresses one grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// less orders cells row-major.
func (c Cell) less(o Cell) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// TileID identifies a tile for the whole session.
type TileID int

// TileState is the per-tile interaction state.
type TileState uint8

const (
	TileIdle      TileState = iota // resting in the tray or in a cell
	TileDragging                   // held by a pointer
	TileAnimating                  // moving toward a resolved target
)

func (s TileState) String() string {
	switch s {
	case TileIdle:
		return "idle"
	case TileDragging:
		return "dragging"
	case TileAnimating:
		return "animating"
	default:
		return fmt.Sprintf("TileState(%d)", uint8(s))
	}
}

// EventType identifies a discrete input to the per-tile state machine.
type EventType uint8

const (
	EventDragStart         EventType = iota // pointer moved past the dead zone over a tile
	EventDragMove                           // pointer moved while dragging
	EventDragEnd                            // pointer released after dragging
	EventAnimationComplete                  // a tile's motion reached its target
	EventReset                              // every tile sent back to the tray
)

func (e EventType) String() string {
	switch e {
	case EventDragStart:
		return "drag-start"
	case EventDragMove:
		return "drag-move"
	case EventDragEnd:
		return "drag-end"
	case EventAnimationComplete:
		return "animation-complete"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(e))
	}
}
