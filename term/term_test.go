package term

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phanxgames/crossmath"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := New(Config(crossmath.DefaultConfig(crossmath.ProfileNative)), crossmath.DefaultPuzzle, crossmath.DefaultRoster, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

// Grid origin (4,2), cell 4, gap 2: cell (0,2) is centred on (18,4), i.e.
// terminal column 17, row 1. Tile 0 rests at (9,46): column 8, row 22.
func dragTileZeroToTopBlank(t *testing.T, m Model) Model {
	m, _ = send(t, m, mouse(8, 22, tea.MouseActionPress, tea.MouseButtonLeft))
	m, _ = send(t, m, mouse(12, 12, tea.MouseActionMotion, tea.MouseButtonLeft))
	m, _ = send(t, m, mouse(17, 1, tea.MouseActionMotion, tea.MouseButtonLeft))
	m, _ = send(t, m, mouse(17, 1, tea.MouseActionRelease, tea.MouseButtonNone))
	return m
}

func settle(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 300 && m.Session().Animating(); i++ {
		m, _ = send(t, m, tickMsg(time.Now()))
	}
	if m.Session().Animating() {
		t.Fatal("animation did not settle")
	}
	return m
}

func TestMouseDragPlacesTile(t *testing.T) {
	m := dragTileZeroToTopBlank(t, newTestModel(t))
	got, ok := m.Session().Placement(0)
	if !ok || got != (crossmath.Cell{Row: 0, Col: 2}) {
		t.Fatalf("placement = %v, %v; want (0,2)", got, ok)
	}
	if !strings.Contains(m.View(), "placed 0→(0,2)") {
		t.Errorf("status line missing placement:\n%s", m.View())
	}
}

func TestRightButtonDoesNotDrag(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, mouse(8, 22, tea.MouseActionPress, tea.MouseButtonRight))
	m, _ = send(t, m, mouse(17, 1, tea.MouseActionMotion, tea.MouseButtonRight))
	m, _ = send(t, m, mouse(17, 1, tea.MouseActionRelease, tea.MouseButtonNone))
	if n := len(m.Session().Placements()); n != 0 {
		t.Errorf("placements = %d, want 0", n)
	}
	if _, dragging := m.Session().Dragging(); dragging {
		t.Error("no drag should be active")
	}
}

func TestResetKeyAndButton(t *testing.T) {
	m := dragTileZeroToTopBlank(t, newTestModel(t))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if n := len(m.Session().Placements()); n != 0 {
		t.Fatalf("placements after r = %d, want 0", n)
	}

	m = dragTileZeroToTopBlank(t, settle(t, m))
	if n := len(m.Session().Placements()); n != 1 {
		t.Fatalf("placements after second drag = %d, want 1", n)
	}
	// Reset button: centre (24, 57.6) is column 23, row 28.
	m, _ = send(t, m, mouse(23, 28, tea.MouseActionPress, tea.MouseButtonLeft))
	m, _ = send(t, m, mouse(23, 28, tea.MouseActionRelease, tea.MouseButtonNone))
	if n := len(m.Session().Placements()); n != 0 {
		t.Errorf("placements after button = %d, want 0", n)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestTickAnimatesReturn(t *testing.T) {
	m := newTestModel(t)
	// Drop in empty space below the grid so the tile springs back.
	m, _ = send(t, m, mouse(8, 22, tea.MouseActionPress, tea.MouseButtonLeft))
	m, _ = send(t, m, mouse(40, 28, tea.MouseActionMotion, tea.MouseButtonLeft))
	m, _ = send(t, m, mouse(40, 28, tea.MouseActionRelease, tea.MouseButtonNone))
	if m.Session().State(0) != crossmath.TileAnimating {
		t.Fatalf("state = %v, want animating", m.Session().State(0))
	}
	m, cmd := send(t, m, tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	m = settle(t, m)
	pos, _ := m.Session().Position(0)
	home, _ := m.Session().Staging(0)
	if pos.Dist(home) > 0.5 {
		t.Errorf("tile at %v, want back at %v", pos, home)
	}
}

func TestViewDrawsGridAndTray(t *testing.T) {
	m := newTestModel(t)
	c := newCanvas(m.cols, m.rows)
	*m.rs = crossmath.Project(m.session)
	c.paint(*m.rs, m.palette, m.geo.Button)
	plain := c.String()
	for _, want := range []string{"Reset", "15", "24", "12"} {
		if !strings.Contains(plain, want) {
			t.Errorf("canvas missing %q:\n%s", want, plain)
		}
	}
	lines := strings.Split(plain, "\n")
	if len(lines) != m.rows {
		t.Errorf("rows = %d, want %d", len(lines), m.rows)
	}
}

func TestToLayoutAndSpan(t *testing.T) {
	x, y := toLayout(17, 1)
	if x != 17.5 || y != 3 {
		t.Errorf("toLayout = (%v,%v), want (17.5,3)", x, y)
	}
	c0, c1, r0, r1 := span(crossmath.Rect{X: 16, Y: 2, Width: 4, Height: 4})
	if c0 != 16 || c1 != 20 || r0 != 1 || r1 != 3 {
		t.Errorf("span = %d..%d x %d..%d, want 16..20 x 1..3", c0, c1, r0, r1)
	}
}

func TestCanvasTileAlpha(t *testing.T) {
	c := newCanvas(10, 5)
	rs := crossmath.RenderState{Tiles: []crossmath.TileSprite{
		{X: 5, Y: 5, Size: 4, Scale: 1, Color: crossmath.MustParseColor("#FF0000"), Alpha: 0.5},
	}}
	c.paint(rs, crossmath.Palette{Background: crossmath.MustParseColor("#000000")}, crossmath.Rect{})
	if g := c.at(5, 2); g == nil || g.bg != "#800000" {
		t.Errorf("half-transparent tile = %+v, want bg #800000", g)
	}
}
