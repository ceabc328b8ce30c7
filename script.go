package crossmath

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	// Drag endpoints may name a tile (its current centre) or a cell
	// (its centre) instead of raw coordinates.
	Tile     *TileID `json:"tile,omitempty"`
	Row      *int    `json:"row,omitempty"`
	Col      *int    `json:"col,omitempty"`
	FromTile *TileID `json:"fromTile,omitempty"`
	ToRow    *int    `json:"toRow,omitempty"`
	ToCol    *int    `json:"toCol,omitempty"`
	Free     bool    `json:"free,omitempty"`
}

// scriptFile is the top-level JSON structure of a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

var knownActions = map[string]bool{
	"click": true, "drag": true, "wait": true,
	"reset": true, "expect": true, "snapshot": true,
}

// Runner sequences injected input, resets and expectations across frames.
type Runner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  []error
}

// LoadScript parses a JSON script and returns a Runner ready to step.
func LoadScript(jsonData []byte) (*Runner, error) {
	var script scriptFile
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "expect" && st.Tile == nil {
			return nil, fmt.Errorf("parse script: step %d: expect needs a tile", i)
		}
		if st.Action == "expect" && !st.Free && (st.Row == nil || st.Col == nil) {
			return nil, fmt.Errorf("parse script: step %d: expect needs row and col or free", i)
		}
	}
	return &Runner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *Runner) Done() bool {
	return r.done
}

// Err returns every failed expectation joined, or nil.
func (r *Runner) Err() error {
	return errors.Join(r.failures...)
}

// Step advances the runner by one frame. Call it before Gestures.Poll.
func (r *Runner) Step(g *Gestures) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if g.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	s := g.Session()

	switch st.Action {
	case "click":
		g.InjectClick(st.X, st.Y)
	case "drag":
		from, to, err := r.dragEndpoints(s, st)
		if err != nil {
			r.fail(err)
			break
		}
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		g.InjectDrag(from.X, from.Y, to.X, to.Y, frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "reset":
		s.Reset()
	case "expect":
		r.expect(s, st)
	case "snapshot":
		s.logger.Info("snapshot", "label", st.Label, "placed", FormatPlacements(s.Placements()))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && g.Pending() == 0 {
		r.done = true
	}
}

func (r *Runner) fail(err error) {
	r.failures = append(r.failures, fmt.Errorf("step %d: %w", r.cursor-1, err))
}

func (r *Runner) dragEndpoints(s *Session, st scriptStep) (Vec2, Vec2, error) {
	from := Vec2{st.FromX, st.FromY}
	if st.FromTile != nil {
		p, ok := s.Position(*st.FromTile)
		if !ok {
			return Vec2{}, Vec2{}, fmt.Errorf("drag from tile %d: %w", *st.FromTile, ErrUnknownTile)
		}
		from = p
	}
	to := Vec2{st.ToX, st.ToY}
	if st.ToRow != nil && st.ToCol != nil {
		c := Cell{Row: *st.ToRow, Col: *st.ToCol}
		d, ok := s.layout.Droppable(c)
		if !ok {
			return Vec2{}, Vec2{}, fmt.Errorf("drag to %v: %w", c, ErrNotDroppable)
		}
		// Keep the grab offset so the tile centre lands on the cell centre.
		to = d.Center()
		if st.FromTile == nil {
			if id, ok := s.TileAt(from.X, from.Y); ok {
				centre, _ := s.Position(id)
				to = to.Add(from.Sub(centre))
			}
		}
	}
	return from, to, nil
}

func (r *Runner) expect(s *Session, st scriptStep) {
	got, placed := s.Placement(*st.Tile)
	if st.Free {
		if placed {
			r.fail(fmt.Errorf("tile %d: placed at %v, want free", *st.Tile, got))
		}
		return
	}
	want := Cell{Row: *st.Row, Col: *st.Col}
	if !placed {
		r.fail(fmt.Errorf("tile %d: free, want %v", *st.Tile, want))
		return
	}
	if got != want {
		r.fail(fmt.Errorf("tile %d: placed at %v, want %v", *st.Tile, got, want))
	}
}

// FormatPlacements renders a placement map as "0→(0,2) 1→(2,0)" in tile order.
func FormatPlacements(m PlacementMap) string {
	if len(m) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(m))
	for _, id := range m.TileIDs() {
		parts = append(parts, fmt.Sprintf("%d→%v", id, m[id]))
	}
	return strings.Join(parts, " ")
}

// Headless drives a session, its gestures and a script runner with a fixed
// timestep until the script is done and every animation has settled.
type Headless struct {
	Gestures *Gestures
	Runner   *Runner
	// TPS is the simulated tick rate. Defaults to 60.
	TPS int
	// MaxFrames bounds the run. Defaults to one minute of ticks.
	MaxFrames int
}

// ErrFrameBudget is returned when a headless run does not finish in time.
var ErrFrameBudget = errors.New("frame budget exhausted")

// Run steps until completion, cancellation or the frame budget. It returns the
// number of frames simulated and the runner's expectation failures.
func (h Headless) Run(ctx context.Context) (int, error) {
	tps := h.TPS
	if tps <= 0 {
		tps = 60
	}
	max := h.MaxFrames
	if max <= 0 {
		max = 60 * tps
	}
	dt := 1.0 / float64(tps)
	s := h.Gestures.Session()
	for frame := 1; frame <= max; frame++ {
		if err := ctx.Err(); err != nil {
			return frame - 1, err
		}
		h.Runner.Step(h.Gestures)
		h.Gestures.Poll()
		s.Tick(dt)
		if h.Runner.Done() && h.Gestures.Pending() == 0 && !s.Animating() {
			return frame, h.Runner.Err()
		}
	}
	return max, fmt.Errorf("headless run: %w after %d frames", ErrFrameBudget, max)
}
