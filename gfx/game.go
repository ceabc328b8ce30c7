// Package gfx is the Ebitengine shell for crossmath. The same code runs as a
// desktop window and, built for js/wasm, in the browser.
package gfx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/crossmath"
)

const entranceStagger = 0.1 // seconds between tiles growing in

// Sounder plays feedback for a finished drop.
type Sounder interface {
	Drop(placed bool)
}

// Options configures a Game.
type Options struct {
	Config crossmath.Config
	Logger *log.Logger
	// Puzzle and Roster default to the built-in game.
	Puzzle crossmath.PuzzleLayout
	Roster []crossmath.Tile
	// Script, if set, replays synthetic input on top of the live window.
	Script *crossmath.Runner
	Sound  Sounder
}

// Game implements ebiten.Game around a crossmath session.
type Game struct {
	ctx      context.Context
	cfg      crossmath.Config
	logger   *log.Logger
	session  *crossmath.Session
	gestures *crossmath.Gestures
	geo      crossmath.Geometry
	script   *crossmath.Runner
	input    pointerInput
	samples  []crossmath.PointerSample
	rs       crossmath.RenderState
	scene    scene
	stats    frameStats
	fps      *fpsOverlay
	reported bool
}

// New builds a game. ctx cancellation ends the run loop on the next frame.
func New(ctx context.Context, opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Puzzle == nil {
		opts.Puzzle = crossmath.DefaultPuzzle
	}
	if opts.Roster == nil {
		opts.Roster = crossmath.DefaultRoster
	}
	palette, err := opts.Config.Theme.Palette()
	if err != nil {
		return nil, err
	}
	s, geo, err := opts.Config.NewSession(opts.Puzzle, opts.Roster, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	g := &Game{
		ctx:      ctx,
		cfg:      opts.Config,
		logger:   opts.Logger,
		session:  s,
		gestures: opts.Config.NewGestures(s),
		geo:      geo,
		script:   opts.Script,
		scene:    scene{palette: palette, button: geo.Button, fonts: loadFonts(opts.Logger)},
	}
	g.gestures.OnClick(func(c crossmath.ClickContext) {
		if !c.OnTile && geo.Button.Contains(c.X, c.Y) {
			g.logger.Info("reset", "source", "button")
			s.Reset()
		}
	})
	if opts.Sound != nil {
		s.OnDrop(func(d crossmath.DropContext) { opts.Sound.Drop(d.Decision.Placed()) })
	}
	if opts.Config.Effects.Entrance {
		s.Enter(entranceStagger, opts.Config.Motion.Enter)
	}
	if opts.Config.Window.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g, nil
}

// Session returns the game's session.
func (g *Game) Session() *crossmath.Session { return g.session }

// Update advances input, scripts and animation by one tick.
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	start := time.Now()
	dt := 1.0 / float64(ebiten.TPS())

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.logger.Info("reset", "source", "key")
		g.session.Reset()
	}

	if g.script != nil {
		g.script.Step(g.gestures)
		if g.script.Done() && !g.reported {
			g.reported = true
			if err := g.script.Err(); err != nil {
				g.logger.Error("script failed", "err", err)
			} else {
				g.logger.Info("script passed")
			}
		}
	}

	// Injected events own the frame; real input waits.
	if !g.gestures.Poll() {
		if ebiten.IsFocused() {
			g.samples = g.input.poll(g.samples[:0])
			g.gestures.Process(g.samples...)
		} else {
			g.gestures.Release()
		}
	}

	g.session.Tick(dt)
	if g.fps != nil {
		g.fps.update(dt)
	}
	g.stats.addUpdate(time.Since(start))
	g.stats.tick(dt, g.logger, len(g.rs.Tiles), animatingCount(g.rs), len(g.rs.Particles))
	return nil
}

// Draw renders the current projection.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	g.rs = crossmath.ProjectInto(g.session, g.rs)
	g.scene.draw(screen, g.rs)
	if g.fps != nil {
		g.fps.draw(screen)
	}
	g.stats.addDraw(time.Since(start))
}

// Layout keeps the configured logical size; Ebitengine scales it to the
// window and maps cursor positions back.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}

func animatingCount(rs crossmath.RenderState) int {
	n := 0
	for _, t := range rs.Tiles {
		if t.State == crossmath.TileAnimating {
			n++
		}
	}
	return n
}

// Run opens the window (or canvas) and blocks until it closes or ctx ends.
func Run(ctx context.Context, opts Options) error {
	g, err := New(ctx, opts)
	if err != nil {
		return err
	}
	w := opts.Config.Window
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.TPS)

	g.logger.Info("starting", "profile", opts.Config.Profile, "session", g.session.ID(),
		"cell", fmt.Sprintf("%.1f", g.geo.Layout.CellSize), "threshold", fmt.Sprintf("%.1f", g.geo.Threshold))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
