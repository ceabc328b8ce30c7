// Package term plays crossmath in a terminal. Mouse reports are mapped onto
// the same session and gesture tracker the graphical shells use; one
// character column is one layout unit and one row is two, which keeps grid
// cells roughly square.
package term

import (
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/phanxgames/crossmath"
)

const (
	aspect   = 2.0 // layout units per terminal row
	frame    = time.Second / 30
	fillRune = ' '
)

var (
	styleHelp   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// Config derives the terminal geometry from base, keeping its motion, snap
// and effect settings.
func Config(base crossmath.Config) crossmath.Config {
	c := base
	c.Window.Width, c.Window.Height = 48, 62
	c.Grid = crossmath.GridConfig{CellSize: 4, Gap: 2, OriginY: 2}
	c.Tray = crossmath.TrayUnits{Columns: 6, PitchX: 1.5, PitchY: 1.5, Offset: 1}
	c.Input.DeadZone = 1
	return c
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model for a terminal game.
type Model struct {
	session  *crossmath.Session
	gestures *crossmath.Gestures
	geo      crossmath.Geometry
	palette  crossmath.Palette
	cols     int
	rows     int
	logger   *log.Logger
	rs       *crossmath.RenderState
}

// New builds a terminal model for cfg, which should come from Config.
func New(cfg crossmath.Config, puzzle crossmath.PuzzleLayout, roster []crossmath.Tile, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	palette, err := cfg.Theme.Palette()
	if err != nil {
		return Model{}, err
	}
	s, geo, err := cfg.NewSession(puzzle, roster, logger)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		session:  s,
		gestures: cfg.NewGestures(s),
		geo:      geo,
		palette:  palette,
		cols:     cfg.Window.Width,
		rows:     int(math.Ceil(float64(cfg.Window.Height) / aspect)),
		logger:   logger,
		rs:       &crossmath.RenderState{},
	}
	m.gestures.OnClick(func(c crossmath.ClickContext) {
		if !c.OnTile && geo.Button.Contains(c.X, c.Y) {
			logger.Info("reset", "source", "button")
			s.Reset()
		}
	})
	return m, nil
}

// Session returns the model's session.
func (m Model) Session() *crossmath.Session { return m.session }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.logger.Info("reset", "source", "key")
			m.session.Reset()
		}
	case tea.MouseMsg:
		m.mouse(tea.MouseEvent(msg))
	case tickMsg:
		m.session.Tick(frame.Seconds())
		return m, tick()
	}
	return m, nil
}

// toLayout maps the centre of a terminal cell to layout coordinates.
func toLayout(col, row int) (float64, float64) {
	return float64(col) + 0.5, (float64(row) + 0.5) * aspect
}

func (m *Model) mouse(ev tea.MouseEvent) {
	x, y := toLayout(ev.X, ev.Y)
	pressed := m.gestures.Down(0)
	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button != tea.MouseButtonLeft {
			return
		}
		pressed = true
	case tea.MouseActionRelease:
		// Many terminals do not say which button was released.
		pressed = false
	case tea.MouseActionMotion:
	default:
		return
	}
	m.gestures.Process(crossmath.PointerSample{ID: 0, X: x, Y: y, Pressed: pressed})
}

func (m Model) View() string {
	*m.rs = crossmath.ProjectInto(m.session, *m.rs)
	c := newCanvas(m.cols, m.rows)
	c.paint(*m.rs, m.palette, m.geo.Button)

	var b strings.Builder
	b.WriteString(c.render())
	b.WriteString("\n")
	b.WriteString(styleStatus.Render(statusLine(m.session)))
	b.WriteString("\n")
	b.WriteString(styleHelp.Render("drag tiles with the mouse  r reset  q quit"))
	return b.String()
}

func statusLine(s *crossmath.Session) string {
	return "placed " + crossmath.FormatPlacements(s.Placements())
}

// Run starts the terminal program and blocks until the player quits.
func Run(m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
