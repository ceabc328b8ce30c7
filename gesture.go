package crossmath

import "math"

// --- Constants ---

const (
	// MaxPointers is the number of tracked pointers: 0 is the mouse, 1-9 touch.
	MaxPointers         = 10
	defaultDragDeadZone = 4.0 // pixels
)

// PointerSample is one frame's reading of a pointer, in layout coordinates.
type PointerSample struct {
	ID      int
	X, Y    float64
	Pressed bool
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	tile     TileID
	onTile   bool
	dragging bool
	moved    bool // left the dead zone at some point
	grab     Vec2 // pointer minus tile centre when the drag started
}

// Gestures turns raw pointer samples into session drags and clicks. A press
// over a tile becomes a drag once the pointer leaves the dead zone; a release
// without such motion is a click and never resolves a drop.
type Gestures struct {
	session      *Session
	pointers     [MaxPointers]pointerState
	dragDeadZone float64
	dragOwner    int // pointer holding the drag, -1 if none
	handlers     handlerRegistry
	injectQueue  []syntheticPointerEvent
}

// NewGestures creates a gesture tracker that drives s.
func NewGestures(s *Session) *Gestures {
	return &Gestures{session: s, dragDeadZone: defaultDragDeadZone, dragOwner: -1}
}

// Session returns the driven session.
func (g *Gestures) Session() *Session { return g.session }

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (g *Gestures) SetDragDeadZone(pixels float64) {
	if pixels < 0 {
		pixels = 0
	}
	g.dragDeadZone = pixels
}

// OnClick registers a callback for press-and-release without drag.
func (g *Gestures) OnClick(fn func(ClickContext)) CallbackHandle {
	return g.handlers.addClick(fn)
}

// Process runs the pointer state machine for each sample.
func (g *Gestures) Process(samples ...PointerSample) {
	for _, smp := range samples {
		if smp.ID < 0 || smp.ID >= MaxPointers {
			continue
		}
		g.processPointer(smp.ID, smp.X, smp.Y, smp.Pressed)
	}
}

// Release lifts every pointer that is still down at its last position.
// Shells call it when the input source goes away (window blur, touch lost).
func (g *Gestures) Release() {
	for i := range g.pointers {
		ps := &g.pointers[i]
		if ps.down {
			g.processPointer(i, ps.lastX, ps.lastY, false)
		}
	}
}

// Down reports whether pointer id is currently pressed.
func (g *Gestures) Down(id int) bool {
	if id < 0 || id >= MaxPointers {
		return false
	}
	return g.pointers[id].down
}

// processPointer runs the pointer state machine for a single pointer.
func (g *Gestures) processPointer(pointerID int, x, y float64, pressed bool) {
	ps := &g.pointers[pointerID]
	s := g.session

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.dragging = false
		ps.moved = false
		ps.tile, ps.onTile = s.TileAt(x, y)
		s.SetHover(0, false)

	case !pressed && ps.down:
		if math.Hypot(x-ps.startX, y-ps.startY) > g.dragDeadZone {
			ps.moved = true
			if !ps.dragging && ps.onTile {
				// Released far from the press with no sample in between.
				g.startDrag(pointerID, ps)
			}
		}
		if ps.dragging {
			if x != ps.lastX || y != ps.lastY {
				_ = s.MoveDrag(ps.tile, Vec2{x - ps.lastX, y - ps.lastY})
			}
			s.EndDrag(ps.tile, Vec2{x - ps.grab.X, y - ps.grab.Y})
			g.dragOwner = -1
		} else if !ps.moved {
			g.fireClick(pointerID, x, y, ps.tile, ps.onTile)
		}
		ps.down = false
		ps.dragging = false
		ps.onTile = false
		ps.lastX, ps.lastY = x, y

	case pressed && ps.down:
		if x != ps.lastX || y != ps.lastY {
			dx := x - ps.startX
			dy := y - ps.startY
			outside := math.Sqrt(dx*dx+dy*dy) > g.dragDeadZone
			if outside {
				ps.moved = true
			}
			if !ps.dragging && ps.onTile {
				if outside {
					if g.startDrag(pointerID, ps) {
						_ = s.MoveDrag(ps.tile, Vec2{dx, dy})
					}
				}
			} else if ps.dragging {
				_ = s.MoveDrag(ps.tile, Vec2{x - ps.lastX, y - ps.lastY})
			}
		}
		ps.lastX, ps.lastY = x, y

	default:
		// Hover move. Only the mouse hovers.
		if pointerID == 0 && (x != ps.lastX || y != ps.lastY) {
			id, ok := s.TileAt(x, y)
			s.SetHover(id, ok)
			ps.lastX, ps.lastY = x, y
		}
	}
}

// startDrag grabs the pressed tile for pointerID. If another pointer owns the
// drag the press becomes inert.
func (g *Gestures) startDrag(pointerID int, ps *pointerState) bool {
	s := g.session
	if g.dragOwner >= 0 || s.BeginDrag(ps.tile) != nil {
		ps.onTile = false
		return false
	}
	// The tile may have moved since the press if it was animating, so
	// measure the grab offset now.
	c, _ := s.Position(ps.tile)
	ps.grab = Vec2{ps.startX - c.X, ps.startY - c.Y}
	ps.dragging = true
	ps.moved = true
	ps.lastX, ps.lastY = ps.startX, ps.startY
	g.dragOwner = pointerID
	return true
}

func (g *Gestures) fireClick(pointerID int, x, y float64, tile TileID, onTile bool) {
	ctx := ClickContext{X: x, Y: y, Tile: tile, OnTile: onTile, PointerID: pointerID}
	for _, h := range g.handlers.click {
		h.fn(ctx)
	}
}
