// Package crossmath is the renderer-agnostic core of a cross-math tile
// puzzle: a fixed grid of numbers and operators with blank cells that the
// player fills by dragging numbered tiles out of a tray.
//
// Nothing in this package draws. The shells in crossmath/gfx (Ebitengine,
// desktop and browser) and crossmath/term (terminal) read a [RenderState]
// each frame and feed pointer samples back through [Gestures].
//
// # Quick start
//
//	cfg := crossmath.DefaultConfig(crossmath.ProfileWeb)
//	s, geo, err := cfg.NewSession(crossmath.DefaultPuzzle, crossmath.DefaultRoster, nil)
//	if err != nil {
//		return err
//	}
//	g := cfg.NewGestures(s)
//
//	// once per frame:
//	g.Process(crossmath.PointerSample{ID: 0, X: mx, Y: my, Pressed: down})
//	s.Tick(1.0 / 60)
//	rs := crossmath.Project(s)
//
// # Placement
//
// [ResolveDrop] is a pure function. A released tile lands in the nearest
// droppable cell when that cell is within the snap threshold (inclusive) and
// not held by another tile; ties go to the lower row, then the lower column.
// Everything else returns the tile to its tray slot. The [Session] applies
// the decision to its [PlacementMap], so a tile is in at most one cell and a
// cell holds at most one tile.
//
// # Tile states
//
// Every tile is Idle, Dragging or Animating. Only one tile is dragged at a
// time; grabbing an animating tile cancels its motion and picks it up where
// it is. [Session.Reset] is idempotent.
//
// # Animation
//
// [TweenMotion] eases along a fixed duration using [gween]. [SpringMotion]
// integrates a damped spring. The [Animator] keeps one motion per tile; a
// new request replaces the running one.
//
// # Scripts
//
// [LoadScript] parses a JSON list of drag, click, wait, reset, expect and
// snapshot steps. [Headless] replays a script against a session at a fixed
// tick rate, which is how the integration tests and `crossmath script` run.
//
// [gween]: https://github.com/tanema/gween
package crossmath
