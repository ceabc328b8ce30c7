package gfx

import (
	"context"
	"image/color"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/crossmath"
)

type fakeSound struct{ placed, returned int }

func (f *fakeSound) Drop(placed bool) {
	if placed {
		f.placed++
	} else {
		f.returned++
	}
}

func newTestGame(t *testing.T, snd Sounder) *Game {
	t.Helper()
	g, err := New(context.Background(), Options{Config: crossmath.DefaultConfig(crossmath.ProfileWeb), Sound: snd})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestGame_Layout(t *testing.T) {
	g := newTestGame(t, nil)
	w, h := g.Layout(3000, 2000)
	if w != 1280 || h != 1000 {
		t.Errorf("Layout = %dx%d, want 1280x1000", w, h)
	}
}

func TestGame_ResetButton(t *testing.T) {
	snd := &fakeSound{}
	g := newTestGame(t, snd)
	s := g.Session()
	if !s.Entering() {
		t.Fatal("web profile should start with the entrance")
	}
	if _, ok := s.TileAt(g.geo.Staging[0].X+5, g.geo.Staging[0].Y+5); ok {
		t.Error("tiles should start shrunk to nothing")
	}
	for i := 0; i < 600 && s.Entering(); i++ {
		s.Tick(1.0 / 60)
	}

	from := g.geo.Staging[0]
	cell, _ := g.geo.Layout.Droppable(crossmath.Cell{Row: 0, Col: 2})
	g.gestures.Process(
		crossmath.PointerSample{X: from.X, Y: from.Y, Pressed: true},
		crossmath.PointerSample{X: cell.X, Y: cell.Y},
	)
	if len(s.Placements()) != 1 {
		t.Fatalf("placements = %v, want one", s.Placements())
	}
	if snd.placed != 1 {
		t.Errorf("placed sounds = %d, want 1", snd.placed)
	}

	c := g.geo.Button.Center()
	g.gestures.Process(
		crossmath.PointerSample{X: c.X, Y: c.Y, Pressed: true},
		crossmath.PointerSample{X: c.X, Y: c.Y},
	)
	if len(s.Placements()) != 0 {
		t.Errorf("placements = %v after reset button, want none", s.Placements())
	}
}

func TestGame_BadTheme(t *testing.T) {
	cfg := crossmath.DefaultConfig(crossmath.ProfileNative)
	cfg.Theme.Label = "white"
	if _, err := New(context.Background(), Options{Config: cfg}); err == nil {
		t.Error("expected palette error")
	}
}

func TestGame_CancelledContextTerminates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g, err := New(ctx, Options{Config: crossmath.DefaultConfig(crossmath.ProfileNative)})
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := g.Update(); err != ebiten.Termination {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
}

func TestPointerInput_Slots(t *testing.T) {
	var in pointerInput
	a := in.slot(ebiten.TouchID(7))
	b := in.slot(ebiten.TouchID(3))
	if a != 1 || b != 2 {
		t.Fatalf("slots = %d, %d; want 1, 2", a, b)
	}
	if in.slot(ebiten.TouchID(7)) != 1 {
		t.Error("existing touch should keep its slot")
	}
	for i := 0; i < 7; i++ {
		in.slot(ebiten.TouchID(100 + i))
	}
	if got := in.slot(ebiten.TouchID(999)); got != -1 {
		t.Errorf("slot when full = %d, want -1", got)
	}
}

func TestPointerInput_ReleaseStale(t *testing.T) {
	var in pointerInput
	s := in.slot(ebiten.TouchID(4))
	in.lastX[s], in.lastY[s] = 10, 20

	var active [crossmath.MaxPointers]bool
	out := in.releaseStale(active, nil)
	if len(out) != 1 {
		t.Fatalf("released = %v, want one sample", out)
	}
	if got := out[0]; got.ID != s || got.Pressed || got.X != 10 || got.Y != 20 {
		t.Errorf("release sample = %+v", got)
	}
	if in.touchUsed[s] {
		t.Error("slot should be free again")
	}
	if out = in.releaseStale(active, out[:0]); len(out) != 0 {
		t.Errorf("second release = %v, want none", out)
	}
}

func TestNRGBA(t *testing.T) {
	got := nrgba(crossmath.MustParseColor("#4A90FF33"))
	want := color.NRGBA{R: 0x4A, G: 0x90, B: 0xFF, A: 0x33}
	if got != want {
		t.Errorf("nrgba = %v, want %v", got, want)
	}
}

func TestFonts_FaceCache(t *testing.T) {
	f := loadFonts(log.New(io.Discard))
	if f.source == nil {
		t.Skip("embedded font failed to parse")
	}
	a := f.face(20.1)
	b := f.face(19.9)
	if a != b {
		t.Error("nearby sizes should share a face")
	}
	if (&fonts{}).face(12) != nil {
		t.Error("no source should mean no face")
	}
}

func TestAnimatingCount(t *testing.T) {
	rs := crossmath.RenderState{Tiles: []crossmath.TileSprite{
		{State: crossmath.TileAnimating}, {State: crossmath.TileIdle}, {State: crossmath.TileAnimating},
	}}
	if n := animatingCount(rs); n != 2 {
		t.Errorf("animatingCount = %d, want 2", n)
	}
}

func TestCorners(t *testing.T) {
	c := crossmath.Vec2{X: 100, Y: 50}
	q := corners(c, 20, 0)
	if q[0] != (crossmath.Vec2{X: 90, Y: 40}) || q[2] != (crossmath.Vec2{X: 110, Y: 60}) {
		t.Errorf("upright corners = %v", q)
	}

	// A quarter turn clockwise moves the top-left corner to the top-right.
	q = corners(c, 20, math.Pi/2)
	if math.Abs(q[0].X-110) > 1e-9 || math.Abs(q[0].Y-40) > 1e-9 {
		t.Errorf("turned top-left = %v, want (110, 40)", q[0])
	}
	for i, p := range q {
		if d := p.Dist(c); math.Abs(d-10*math.Sqrt2) > 1e-9 {
			t.Errorf("corner %d at distance %f", i, d)
		}
	}
}
