package crossmath

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Profile selects a set of defaults matching one of the two original builds.
type Profile string

const (
	// ProfileNative is the touch build: width-fitted grid, spring motion,
	// no hover feedback.
	ProfileNative Profile = "native"
	// ProfileWeb is the browser build: fixed 80px cells, eased tweens,
	// hover and drag scaling, nearest-cell highlight and success bursts.
	ProfileWeb Profile = "web"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full runtime configuration, loadable from TOML.
type Config struct {
	Profile Profile       `toml:"profile"`
	Window  WindowConfig  `toml:"window"`
	Grid    GridConfig    `toml:"grid"`
	Tray    TrayUnits     `toml:"tray"`
	Snap    SnapConfig    `toml:"snap"`
	Motion  MotionConfig  `toml:"motion"`
	Input   InputConfig   `toml:"input"`
	Effects EffectsConfig `toml:"effects"`
	Theme   ThemeConfig   `toml:"theme"`
	Sound   SoundConfig   `toml:"sound"`
	Serve   ServeConfig   `toml:"serve"`
	Log     LogConfig     `toml:"log"`
}

// WindowConfig sets the logical screen. Shells scale it to the real window.
type WindowConfig struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	TPS     int    `toml:"tps"`
	ShowFPS bool   `toml:"show_fps"`
}

// GridConfig chooses how cells are sized. With Fit the cell edge is derived
// from the window width, Padding and GapRatio; otherwise CellSize and Gap are
// used and the grid is centred horizontally.
type GridConfig struct {
	Fit      bool    `toml:"fit"`
	CellSize float64 `toml:"cell_size"`
	Gap      float64 `toml:"gap"`
	GapRatio float64 `toml:"gap_ratio"`
	Padding  float64 `toml:"padding"`
	OriginY  float64 `toml:"origin_y"`
}

// TrayUnits places the staging tray below the grid. Pitches and Offset are
// in cell sizes so the tray scales with the grid.
type TrayUnits struct {
	Columns int     `toml:"columns"`
	PitchX  float64 `toml:"pitch_x"`
	PitchY  float64 `toml:"pitch_y"`
	Offset  float64 `toml:"offset"`
}

// SnapConfig sets the snap distance as a multiple of the cell size.
type SnapConfig struct {
	Threshold float64 `toml:"threshold"`
}

// MotionConfig picks the animation model.
type MotionConfig struct {
	// Kind is "spring" or "tween".
	Kind   string       `toml:"kind"`
	Ease   string       `toml:"ease"`
	Place  float64      `toml:"place"`
	Return float64      `toml:"return"`
	Reset  float64      `toml:"reset"`
	Enter  float64      `toml:"enter"`
	Spring SpringParams `toml:"spring"`
}

type InputConfig struct {
	DeadZone float64 `toml:"dead_zone"`
}

type EffectsConfig struct {
	HoverScale float64 `toml:"hover_scale"`
	DragScale  float64 `toml:"drag_scale"`
	TileAlpha  float64 `toml:"tile_alpha"`
	DragAlpha  float64 `toml:"drag_alpha"`
	Highlight  bool    `toml:"highlight"`
	Burst      bool    `toml:"burst"`
	// Entrance grows and spins the tiles in one after another at startup,
	// each over motion.enter seconds.
	Entrance bool `toml:"entrance"`
	// Ambient turns on the star field, the cell and digit pulses and the
	// floating labels.
	Ambient bool `toml:"ambient"`
}

// ThemeConfig holds "#RRGGBB" or "#RRGGBBAA" colours.
type ThemeConfig struct {
	Background string `toml:"background"`
	Cell       string `toml:"cell"`
	Highlight  string `toml:"highlight"`
	Label      string `toml:"label"`
	Button     string `toml:"button"`
}

type SoundConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type ServeConfig struct {
	Addr string `toml:"addr"`
	// Dist is the directory holding crossmath.wasm and wasm_exec.js.
	Dist string `toml:"dist"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the defaults for a profile. Unknown profiles get the
// native defaults with the profile name kept, so Validate reports them.
func DefaultConfig(p Profile) Config {
	c := Config{
		Profile: p,
		Window:  WindowConfig{Title: "Cross Math", Width: 420, Height: 720, TPS: 60},
		Grid:    GridConfig{Fit: true, GapRatio: 0.05, Padding: 20, OriginY: 30},
		Tray:    TrayUnits{Columns: 6, PitchX: 1.15, PitchY: 1.5, Offset: 1},
		Snap:    SnapConfig{Threshold: 1},
		Motion:  MotionConfig{Kind: "spring", Ease: "out-cubic", Place: 0.3, Return: 0.5, Reset: 0.4, Enter: 0.8, Spring: DefaultSpring},
		Input:   InputConfig{DeadZone: defaultDragDeadZone},
		Effects: EffectsConfig{HoverScale: 1, DragScale: 1, TileAlpha: 1, DragAlpha: 1},
		Theme: ThemeConfig{
			Background: "#6A0DAD",
			Cell:       "#FFFFFF33",
			Highlight:  "#FFFFFF80",
			Label:      "#FFFFFF",
			Button:     "#FFCA3A",
		},
		Sound: SoundConfig{Enabled: true, Volume: 0.5},
		Serve: ServeConfig{Addr: ":8080", Dist: "dist"},
		Log:   LogConfig{Level: "info"},
	}
	if p == ProfileWeb {
		c.Window.Width, c.Window.Height = 1280, 1000
		c.Grid = GridConfig{CellSize: 80, Gap: 8, OriginY: 40}
		c.Tray = TrayUnits{Columns: 6, PitchX: 1.1875, PitchY: 1.25, Offset: 1}
		c.Snap.Threshold = 0.8
		c.Motion.Kind = "tween"
		c.Effects = EffectsConfig{
			HoverScale: 1.1, DragScale: 1.2,
			TileAlpha: 0.9, DragAlpha: 0.8,
			Highlight: true, Burst: true, Entrance: true, Ambient: true,
		}
		c.Theme.Background = "#1A0A2E"
		c.Theme.Cell = "#4A90FF33"
	}
	return c
}

// ParseConfig decodes TOML over the defaults of the profile it names, or of
// fallback when it names none. Unknown keys are an error.
func ParseConfig(data []byte, fallback Profile) (Config, error) {
	var head struct {
		Profile Profile `toml:"profile"`
	}
	if _, err := toml.Decode(string(data), &head); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	p := fallback
	if head.Profile != "" {
		p = head.Profile
	}
	c := DefaultConfig(p)
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads a TOML file. An empty path returns the fallback defaults.
func LoadConfig(path string, fallback Profile) (Config, error) {
	if path == "" {
		c := DefaultConfig(fallback)
		return c, c.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data, fallback)
}

// Validate checks every field that would otherwise fail later.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}
	if c.Profile != ProfileNative && c.Profile != ProfileWeb {
		bad("unknown profile %q", c.Profile)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		bad("window.tps %d", c.Window.TPS)
	}
	for _, f := range c.floats() {
		if !finite(f.v) {
			bad("%s %v", f.key, f.v)
		}
	}
	if c.Grid.Fit {
		if c.Grid.GapRatio < 0 || c.Grid.Padding < 0 {
			bad("grid gap_ratio %v padding %v", c.Grid.GapRatio, c.Grid.Padding)
		}
	} else if c.Grid.CellSize <= 0 || c.Grid.Gap < 0 {
		bad("grid cell_size %v gap %v", c.Grid.CellSize, c.Grid.Gap)
	}
	if c.Tray.Columns <= 0 || c.Tray.PitchX <= 0 || c.Tray.PitchY <= 0 {
		bad("tray columns %d pitch %vx%v", c.Tray.Columns, c.Tray.PitchX, c.Tray.PitchY)
	}
	if c.Snap.Threshold <= 0 {
		bad("snap.threshold %v", c.Snap.Threshold)
	}
	if _, err := c.Motion.Factory(); err != nil {
		errs = append(errs, err)
	}
	if c.Input.DeadZone < 0 {
		bad("input.dead_zone %v", c.Input.DeadZone)
	}
	if c.Effects.Entrance && c.Motion.Enter <= 0 {
		bad("motion.enter %v with effects.entrance", c.Motion.Enter)
	}
	if c.Effects.TileAlpha < 0 || c.Effects.TileAlpha > 1 || c.Effects.DragAlpha < 0 || c.Effects.DragAlpha > 1 {
		bad("effects alpha %v drag %v", c.Effects.TileAlpha, c.Effects.DragAlpha)
	}
	if _, err := c.Theme.Palette(); err != nil {
		errs = append(errs, err)
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		bad("sound.volume %v", c.Sound.Volume)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		bad("log.level %q", c.Log.Level)
	}
	return errors.Join(errs...)
}

type floatField struct {
	key string
	v   float64
}

// floats lists every float setting by its TOML key. TOML accepts nan and
// inf; the range checks in Validate assume neither.
func (c Config) floats() []floatField {
	return []floatField{
		{"grid.cell_size", c.Grid.CellSize},
		{"grid.gap", c.Grid.Gap},
		{"grid.gap_ratio", c.Grid.GapRatio},
		{"grid.padding", c.Grid.Padding},
		{"grid.origin_y", c.Grid.OriginY},
		{"tray.pitch_x", c.Tray.PitchX},
		{"tray.pitch_y", c.Tray.PitchY},
		{"tray.offset", c.Tray.Offset},
		{"snap.threshold", c.Snap.Threshold},
		{"motion.place", c.Motion.Place},
		{"motion.return", c.Motion.Return},
		{"motion.reset", c.Motion.Reset},
		{"motion.enter", c.Motion.Enter},
		{"motion.spring.stiffness", c.Motion.Spring.Stiffness},
		{"motion.spring.damping", c.Motion.Spring.Damping},
		{"motion.spring.mass", c.Motion.Spring.Mass},
		{"motion.spring.epsilon", c.Motion.Spring.Epsilon},
		{"input.dead_zone", c.Input.DeadZone},
		{"effects.hover_scale", c.Effects.HoverScale},
		{"effects.drag_scale", c.Effects.DragScale},
		{"effects.tile_alpha", c.Effects.TileAlpha},
		{"effects.drag_alpha", c.Effects.DragAlpha},
		{"sound.volume", c.Sound.Volume},
	}
}

// Factory returns the MotionFactory described by c.
func (c MotionConfig) Factory() (MotionFactory, error) {
	switch strings.ToLower(c.Kind) {
	case "spring":
		params := c.Spring
		return func(from, to Vec2, _ MotionPurpose) Motion {
			return NewSpringMotion(from, to, params)
		}, nil
	case "tween":
		fn, ok := EaseByName(c.Ease)
		if !ok {
			return nil, fmt.Errorf("%w: unknown ease %q", ErrInvalidConfig, c.Ease)
		}
		durations := [...]float64{MotionPlace: c.Place, MotionReturn: c.Return, MotionReset: c.Reset}
		return func(from, to Vec2, purpose MotionPurpose) Motion {
			return NewTweenMotion(from, to, durations[purpose], fn)
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown motion kind %q", ErrInvalidConfig, c.Kind)
	}
}

// Effects converts the configured effects into session options.
func (c EffectsConfig) Effects() Effects {
	e := Effects{
		HoverScale: c.HoverScale,
		DragScale:  c.DragScale,
		TileAlpha:  c.TileAlpha,
		DragAlpha:  c.DragAlpha,
		Highlight:  c.Highlight,
	}
	if c.Burst {
		b := DefaultBurst
		e.Bursts = &b
	}
	if c.Ambient {
		a := DefaultAmbient
		e.Ambient = &a
	}
	return e
}

// Palette is the parsed theme.
type Palette struct {
	Background Color
	Cell       Color
	Highlight  Color
	Label      Color
	Button     Color
}

// Palette parses every theme colour.
func (t ThemeConfig) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		name string
		hex  string
		dst  *Color
	}{
		{"background", t.Background, &p.Background},
		{"cell", t.Cell, &p.Cell},
		{"highlight", t.Highlight, &p.Highlight},
		{"label", t.Label, &p.Label},
		{"button", t.Button, &p.Button},
	}
	for _, f := range fields {
		c, err := ParseColor(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("%w: theme.%s: %w", ErrInvalidConfig, f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// Geometry is the screen arrangement derived from a Config.
type Geometry struct {
	Layout    Layout
	Staging   []Vec2
	Threshold float64
	// Button is the Reset button.
	Button Rect
}

// Geometry lays out puzzle and a tray of n tiles in the configured window.
func (c Config) Geometry(puzzle PuzzleLayout, n int) (Geometry, error) {
	if len(puzzle) == 0 || len(puzzle[0]) == 0 {
		return Geometry{}, ErrEmptyLayout
	}
	w := float64(c.Window.Width)
	cols := len(puzzle[0])

	var cell, gap, originX float64
	if c.Grid.Fit {
		cell = FitCellSize(w, c.Grid.Padding, cols, c.Grid.GapRatio)
		gap = cell * c.Grid.GapRatio
		originX = c.Grid.Padding
	} else {
		cell, gap = c.Grid.CellSize, c.Grid.Gap
		originX = (w - (float64(cols)*(cell+gap) - gap)) / 2
	}
	l, err := ComputeLayout(puzzle, cell, gap, Vec2{originX, c.Grid.OriginY})
	if err != nil {
		return Geometry{}, fmt.Errorf("geometry: %w", err)
	}

	trayCols := min(c.Tray.Columns, max(n, 1))
	pitchX, pitchY := c.Tray.PitchX*cell, c.Tray.PitchY*cell
	bounds := l.Bounds()
	tray := TrayConfig{
		Origin:  Vec2{w/2 - float64(trayCols-1)*pitchX/2, bounds.Y + bounds.Height + c.Tray.Offset*cell},
		Columns: trayCols,
		PitchX:  pitchX,
		PitchY:  pitchY,
	}
	staging := StagingPositions(n, tray)

	rows := (n + trayCols - 1) / trayCols
	lastY := tray.Origin.Y + float64(max(rows-1, 0))*pitchY
	btnW, btnH := 3*cell, 0.8*cell
	button := Rect{X: w/2 - btnW/2, Y: lastY + cell, Width: btnW, Height: btnH}

	return Geometry{Layout: l, Staging: staging, Threshold: c.Snap.Threshold * cell, Button: button}, nil
}

// NewSession builds a session for puzzle and roster from c.
func (c Config) NewSession(puzzle PuzzleLayout, roster []Tile, logger *log.Logger) (*Session, Geometry, error) {
	geo, err := c.Geometry(puzzle, len(roster))
	if err != nil {
		return nil, Geometry{}, err
	}
	motion, err := c.Motion.Factory()
	if err != nil {
		return nil, Geometry{}, err
	}
	effects := c.Effects.Effects()
	if effects.Ambient != nil {
		// Twice the window in each direction, as the field sweeps sideways.
		w, h := float64(c.Window.Width), float64(c.Window.Height)
		effects.Ambient.Field = Rect{X: -w / 2, Y: -h / 2, Width: 2 * w, Height: 2 * h}
	}
	s, err := NewSession(geo.Layout, roster, geo.Staging, SessionOptions{
		Threshold: geo.Threshold,
		Motion:    motion,
		Effects:   effects,
		Logger:    logger,
	})
	if err != nil {
		return nil, Geometry{}, err
	}
	return s, geo, nil
}

// NewGestures wraps s with the configured dead zone.
func (c Config) NewGestures(s *Session) *Gestures {
	g := NewGestures(s)
	g.SetDragDeadZone(c.Input.DeadZone)
	return g
}
