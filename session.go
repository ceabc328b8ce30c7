package crossmath

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tanema/gween/ease"
)

// Session errors.
var (
	ErrUnknownTile    = errors.New("unknown tile")
	ErrDuplicateTile  = errors.New("duplicate tile id")
	ErrDragActive     = errors.New("another tile is being dragged")
	ErrNotDragging    = errors.New("tile is not being dragged")
	ErrNotDroppable   = errors.New("cell is not droppable")
	ErrCellOccupied   = errors.New("cell already occupied")
	ErrStagingMissing = errors.New("staging positions do not match roster")
)

// Effects tunes purely visual feedback.
type Effects struct {
	// HoverScale is applied to an idle tile under the pointer. 0 means 1.
	HoverScale float64
	// DragScale is applied to the dragged tile. 0 means 1.
	DragScale float64
	// Highlight enables the drag-time nearest-cell highlight.
	Highlight bool
	// TileAlpha is the opacity of a resting tile, DragAlpha of the dragged
	// one. 0 means 1.
	TileAlpha float64
	DragAlpha float64
	// Bursts, when non-nil, plays a particle burst on every placement.
	Bursts *BurstConfig
	// Ambient, when non-nil, runs the background field and idle pulses.
	Ambient *AmbientConfig
}

// SessionOptions configures NewSession. Zero values pick sensible defaults.
type SessionOptions struct {
	// Threshold is the snap distance. Defaults to the layout cell size.
	Threshold float64
	// Motion builds tile animations. Defaults to a spring.
	Motion MotionFactory
	Effects Effects
	// Logger receives debug records for every decision. Defaults to a
	// discarding logger.
	Logger *log.Logger
}

// Session owns the placement map and the per-tile interaction state. All
// methods must be called from the single update goroutine.
type Session struct {
	id        string
	layout    Layout
	roster    []Tile
	index     map[TileID]int
	staging   []Vec2
	threshold float64

	placed PlacementMap
	pos    []Vec2
	state  []TileState
	order  []TileID // paint order, last is topmost
	intro  []entrance

	dragging     TileID
	hasDrag      bool
	highlight    Cell
	hasHighlight bool
	hover        TileID
	hasHover     bool

	anim     *Animator
	bursts   *Bursts
	ambient  *Ambient
	effects  Effects
	handlers handlerRegistry
	logger   *log.Logger
}

// NewSession creates a session with every tile idle at its staging position.
func NewSession(layout Layout, roster []Tile, staging []Vec2, opts SessionOptions) (*Session, error) {
	if len(staging) != len(roster) {
		return nil, fmt.Errorf("%w: %d positions for %d tiles", ErrStagingMissing, len(staging), len(roster))
	}
	s := &Session{
		id:        uuid.NewString(),
		layout:    layout,
		roster:    append([]Tile(nil), roster...),
		index:     make(map[TileID]int, len(roster)),
		staging:   append([]Vec2(nil), staging...),
		threshold: opts.Threshold,
		placed:    make(PlacementMap),
		pos:       append([]Vec2(nil), staging...),
		state:     make([]TileState, len(roster)),
		order:     make([]TileID, len(roster)),
		intro:     make([]entrance, len(roster)),
		effects:   opts.Effects,
		logger:    opts.Logger,
	}
	for i, t := range roster {
		if _, dup := s.index[t.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTile, t.ID)
		}
		s.index[t.ID] = i
		s.order[i] = t.ID
	}
	if !(s.threshold > 0) {
		s.threshold = layout.CellSize
	}
	motion := opts.Motion
	if motion == nil {
		motion = func(from, to Vec2, _ MotionPurpose) Motion {
			return NewSpringMotion(from, to, DefaultSpring)
		}
	}
	s.anim = NewAnimator(motion)
	if opts.Effects.Bursts != nil {
		s.bursts = NewBursts(*opts.Effects.Bursts)
	}
	if opts.Effects.Ambient != nil {
		s.ambient = NewAmbient(*opts.Effects.Ambient, len(roster), len(layout.Cells), len(layout.Labels))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.logger = s.logger.With("session", s.id[:8])
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Layout returns the grid geometry.
func (s *Session) Layout() Layout { return s.layout }

// Roster returns the tiles in roster order. The returned slice MUST NOT be mutated.
func (s *Session) Roster() []Tile { return s.roster }

// Threshold returns the snap distance.
func (s *Session) Threshold() float64 { return s.threshold }

// Placements returns a copy of the placement map.
func (s *Session) Placements() PlacementMap { return s.placed.Clone() }

// Placement returns the cell tile id occupies, if placed.
func (s *Session) Placement(id TileID) (Cell, bool) {
	c, ok := s.placed[id]
	return c, ok
}

// Position returns the current visual centre of a tile.
func (s *Session) Position(id TileID) (Vec2, bool) {
	i, ok := s.index[id]
	if !ok {
		return Vec2{}, false
	}
	return s.pos[i], true
}

// Staging returns a tile's tray centre.
func (s *Session) Staging(id TileID) (Vec2, bool) {
	i, ok := s.index[id]
	if !ok {
		return Vec2{}, false
	}
	return s.staging[i], true
}

// State returns the interaction state of a tile. Unknown tiles report idle.
func (s *Session) State(id TileID) TileState {
	i, ok := s.index[id]
	if !ok {
		return TileIdle
	}
	return s.state[i]
}

// Dragging returns the tile currently held, if any.
func (s *Session) Dragging() (TileID, bool) { return s.dragging, s.hasDrag }

// Highlight returns the cell the dragged tile would land in, if any.
func (s *Session) Highlight() (Cell, bool) { return s.highlight, s.hasHighlight }

// Animating reports whether any tile is still moving.
func (s *Session) Animating() bool { return s.anim.Len() > 0 }

// Entering reports whether any tile is still running its entrance.
func (s *Session) Entering() bool {
	for _, e := range s.intro {
		if e.active {
			return true
		}
	}
	return false
}

// OnDrop registers a callback fired after every completed drag.
func (s *Session) OnDrop(fn func(DropContext)) CallbackHandle {
	return s.handlers.addDrop(fn)
}

// OnReset registers a callback fired after Reset.
func (s *Session) OnReset(fn func()) CallbackHandle {
	return s.handlers.addReset(fn)
}

// TileAt returns the topmost tile whose square contains (x, y).
func (s *Session) TileAt(x, y float64) (TileID, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		size := s.layout.CellSize * s.scale(id)
		if size > 0 && RectAround(s.pos[s.index[id]], size).Contains(x, y) {
			return id, true
		}
	}
	return 0, false
}

// SetHover marks the tile under an idle pointer. ok=false clears it.
func (s *Session) SetHover(id TileID, ok bool) {
	if _, known := s.index[id]; !known {
		ok = false
	}
	s.hover, s.hasHover = id, ok
}

// scale returns the visual scale factor for a tile.
func (s *Session) scale(id TileID) float64 {
	if s.hasDrag && s.dragging == id {
		return orOne(s.effects.DragScale)
	}
	k := s.intro[s.index[id]].progress()
	if s.hasHover && s.hover == id && s.State(id) == TileIdle {
		return k * orOne(s.effects.HoverScale)
	}
	return k
}

// rotation returns a tile's spin in radians.
func (s *Session) rotation(i int) float64 {
	return (1 - s.intro[i].progress()) * 2 * math.Pi
}

func (s *Session) alpha(id TileID) float64 {
	if s.hasDrag && s.dragging == id {
		return orOne(s.effects.DragAlpha)
	}
	return orOne(s.effects.TileAlpha)
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// raise moves id to the top of the paint order.
func (s *Session) raise(id TileID) {
	for i, o := range s.order {
		if o == id {
			copy(s.order[i:], s.order[i+1:])
			s.order[len(s.order)-1] = id
			return
		}
	}
}

// BeginDrag grabs a tile. Only one tile may be dragged at a time. A tile that
// is still animating is grabbed where it currently is.
func (s *Session) BeginDrag(id TileID) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("begin drag %d: %w", id, ErrUnknownTile)
	}
	if s.hasDrag {
		if s.dragging == id {
			return nil
		}
		return fmt.Errorf("begin drag %d: %w", id, ErrDragActive)
	}
	s.anim.Cancel(id)
	s.intro[i] = entrance{}
	s.state[i] = TileDragging
	s.dragging, s.hasDrag = id, true
	s.hasHighlight = false
	s.raise(id)
	s.logger.Debug("drag start", "tile", id, "x", s.pos[i].X, "y", s.pos[i].Y)
	return nil
}

// MoveDrag moves the dragged tile by delta. Placement is not re-evaluated;
// only the highlight candidate is refreshed.
func (s *Session) MoveDrag(id TileID, delta Vec2) error {
	if !s.hasDrag || s.dragging != id {
		return fmt.Errorf("move drag %d: %w", id, ErrNotDragging)
	}
	i := s.index[id]
	s.pos[i] = s.pos[i].Add(delta)
	if s.effects.Highlight {
		s.highlight, s.hasHighlight = NearestCandidate(id, s.pos[i], s.placed, s.layout.Cells, s.threshold)
	}
	return nil
}

// EndDrag releases the dragged tile at pos, resolves the drop, updates the
// placement map and starts the tile's animation. Releasing a tile that is not
// being dragged is a no-op that reports ReturnToOrigin.
func (s *Session) EndDrag(id TileID, pos Vec2) Decision {
	if !s.hasDrag || s.dragging != id {
		s.logger.Debug("drag end ignored", "tile", id)
		return Decision{Kind: ReturnToOrigin}
	}
	i := s.index[id]
	s.pos[i] = pos
	s.hasDrag = false
	s.hasHighlight = false

	d := ResolveDrop(id, pos, s.placed, s.layout.Cells, s.threshold)
	s.placed.Apply(id, d)

	target := s.staging[i]
	purpose := MotionReturn
	if d.Placed() {
		cell, _ := s.layout.Droppable(d.Cell)
		target = cell.Center()
		purpose = MotionPlace
		if s.bursts != nil {
			s.bursts.Emit(target.X, target.Y)
		}
	}
	s.animateTo(i, target, purpose)

	if d.Placed() {
		s.logger.Debug("drop", "tile", id, "decision", d.Kind, "row", d.Cell.Row, "col", d.Cell.Col)
	} else {
		s.logger.Debug("drop", "tile", id, "decision", d.Kind)
	}
	ctx := DropContext{Tile: id, Decision: d, Released: pos, Target: target}
	for _, h := range s.handlers.drop {
		h.fn(ctx)
	}
	return d
}

// animateTo starts tile index i toward target, or settles it immediately if
// it is already there.
func (s *Session) animateTo(i int, target Vec2, purpose MotionPurpose) {
	id := s.roster[i].ID
	if s.pos[i] == target {
		s.anim.Cancel(id)
		s.state[i] = TileIdle
		return
	}
	s.anim.Start(id, s.pos[i], target, purpose)
	s.state[i] = TileAnimating
}

// Tick advances animations and effects by dt seconds. Tiles whose motion
// completed this frame are returned; they are idle again.
func (s *Session) Tick(dt float64) []TileID {
	done := s.anim.Update(dt, func(id TileID, p Vec2) {
		s.pos[s.index[id]] = p
	})
	for _, id := range done {
		s.state[s.index[id]] = TileIdle
	}
	for i := range s.intro {
		s.intro[i].advance(dt)
	}
	if s.bursts != nil {
		s.bursts.update(dt)
	}
	if s.ambient != nil {
		s.ambient.update(dt)
	}
	return done
}

// Reset clears the placement map, cancels any drag and sends every tile back
// to its staging position. Calling it twice is the same as calling it once.
func (s *Session) Reset() {
	s.placed = make(PlacementMap)
	s.hasDrag = false
	s.hasHighlight = false
	if s.bursts != nil {
		s.bursts.Clear()
	}
	for i := range s.roster {
		s.animateTo(i, s.staging[i], MotionReset)
	}
	s.logger.Debug("reset")
	for _, h := range s.handlers.reset {
		h.fn()
	}
}

// Enter shrinks every tile that is not being dragged to nothing and grows it
// back over duration seconds while it spins one full turn, each tile starting
// stagger seconds after the previous one. Positions and placements are not
// touched, and a tile grabbed mid-entrance finishes it at once.
func (s *Session) Enter(stagger, duration float64) {
	if !(duration > 0) {
		return
	}
	k := 0
	for i, t := range s.roster {
		if s.hasDrag && s.dragging == t.ID {
			continue
		}
		s.intro[i] = entrance{elapsed: -float64(k) * stagger, duration: duration, active: true}
		k++
	}
	s.logger.Debug("entrance", "tiles", k)
}

// entrance is one tile's scale-and-spin intro. A negative elapsed time is
// the wait before it starts.
type entrance struct {
	elapsed  float64
	duration float64
	active   bool
}

func (e *entrance) advance(dt float64) {
	if !e.active {
		return
	}
	e.elapsed += dt
	if e.elapsed >= e.duration {
		*e = entrance{}
	}
}

// progress is the eased completion in [0, 1].
func (e entrance) progress() float64 {
	switch {
	case !e.active:
		return 1
	case e.elapsed <= 0:
		return 0
	}
	return float64(ease.OutCubic(float32(e.elapsed), 0, 1, float32(e.duration)))
}

// Restore replaces the placement map with m and animates tiles to match. It
// fails without changing anything if m names an unknown tile, a cell that is
// not droppable, or the same cell twice.
func (s *Session) Restore(m PlacementMap) error {
	seen := make(map[Cell]TileID, len(m))
	for id, c := range m {
		if _, ok := s.index[id]; !ok {
			return fmt.Errorf("restore tile %d: %w", id, ErrUnknownTile)
		}
		if _, ok := s.layout.Droppable(c); !ok {
			return fmt.Errorf("restore tile %d at %v: %w", id, c, ErrNotDroppable)
		}
		if other, dup := seen[c]; dup {
			return fmt.Errorf("restore tiles %d and %d at %v: %w", other, id, c, ErrCellOccupied)
		}
		seen[c] = id
	}
	s.placed = m.Clone()
	s.hasDrag = false
	s.hasHighlight = false
	for i, t := range s.roster {
		target := s.staging[i]
		purpose := MotionReset
		if c, ok := s.placed[t.ID]; ok {
			cell, _ := s.layout.Droppable(c)
			target = cell.Center()
			purpose = MotionPlace
		}
		s.animateTo(i, target, purpose)
	}
	return nil
}

// Event is a discrete input for Dispatch.
type Event struct {
	Type  EventType
	Tile  TileID
	Delta Vec2 // EventDragMove
	Pos   Vec2 // EventDragEnd
}

// Dispatch feeds one event through the state machine. Only EventDragEnd
// produces a meaningful Decision.
func (s *Session) Dispatch(ev Event) (Decision, error) {
	switch ev.Type {
	case EventDragStart:
		return Decision{}, s.BeginDrag(ev.Tile)
	case EventDragMove:
		return Decision{}, s.MoveDrag(ev.Tile, ev.Delta)
	case EventDragEnd:
		return s.EndDrag(ev.Tile, ev.Pos), nil
	case EventAnimationComplete:
		if i, ok := s.index[ev.Tile]; ok && s.state[i] == TileAnimating {
			// Jump to the end of the motion.
			if s.anim.Active(ev.Tile) {
				s.pos[i] = s.anim.tracks[ev.Tile].Target()
				s.anim.Cancel(ev.Tile)
			}
			s.state[i] = TileIdle
		}
		return Decision{}, nil
	case EventReset:
		s.Reset()
		return Decision{}, nil
	default:
		return Decision{}, fmt.Errorf("dispatch: unknown event %v", ev.Type)
	}
}
