package crossmath

import "testing"

func press(id int, x, y float64) PointerSample {
	return PointerSample{ID: id, X: x, Y: y, Pressed: true}
}

func release(id int, x, y float64) PointerSample {
	return PointerSample{ID: id, X: x, Y: y}
}

func TestGestures_TapIsNotADrop(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	g := NewGestures(s)
	drops := 0
	s.OnDrop(func(DropContext) { drops++ })
	var clicks []ClickContext
	g.OnClick(func(ctx ClickContext) { clicks = append(clicks, ctx) })

	g.Process(press(0, 25, 500))
	g.Process(press(0, 27, 501)) // jitter inside the dead zone
	g.Process(release(0, 27, 501))

	if drops != 0 {
		t.Errorf("drops = %d, want 0", drops)
	}
	if _, ok := s.Dragging(); ok {
		t.Error("tap should not start a drag")
	}
	if len(clicks) != 1 || !clicks[0].OnTile || clicks[0].Tile != 0 {
		t.Errorf("clicks = %+v, want one on tile 0", clicks)
	}
	if p, _ := s.Position(0); p != (Vec2{25, 500}) {
		t.Errorf("tile moved to %v", p)
	}
}

func TestGestures_DragPlacesTile(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	g := NewGestures(s)

	// Grab 5px off centre; the offset is kept through the drag.
	g.Process(press(0, 30, 505))
	g.Process(press(0, 90, 300))
	if s.State(0) != TileDragging {
		t.Fatalf("state = %v, want dragging", s.State(0))
	}
	if p, _ := s.Position(0); p != (Vec2{85, 295}) {
		t.Errorf("tile at %v, want (85, 295)", p)
	}
	g.Process(press(0, 150, 30))
	g.Process(release(0, 150, 30))

	if c, ok := s.Placement(0); !ok || c != (Cell{0, 2}) {
		t.Errorf("placement = %v, %v; want (0,2)", c, ok)
	}
	if _, ok := s.Dragging(); ok {
		t.Error("drag should be over")
	}
}

func TestGestures_ReleaseFarWithoutMoves(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	g := NewGestures(s)
	clicks := 0
	g.OnClick(func(ClickContext) { clicks++ })

	g.Process(press(0, 25, 500), release(0, 145, 25))
	if c, ok := s.Placement(0); !ok || c != (Cell{0, 2}) {
		t.Errorf("placement = %v, %v; want (0,2)", c, ok)
	}
	if clicks != 0 {
		t.Errorf("clicks = %d, want 0", clicks)
	}
}

func TestGestures_EmptySpaceDragIsNotAClick(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	g := NewGestures(s)
	clicks := 0
	g.OnClick(func(ClickContext) { clicks++ })

	g.Process(press(0, 700, 700), press(0, 750, 700), release(0, 700, 700))
	if clicks != 0 {
		t.Errorf("clicks = %d, want 0", clicks)
	}

	g.Process(press(0, 700, 700), release(0, 700, 700))
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestGestures_OneDragAcrossPointers(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	g := NewGestures(s)
	staging := testStaging()

	g.Process(press(0, 25, 500), press(0, 25, 450))
	g.Process(press(1, staging[1].X, staging[1].Y), press(1, staging[1].X, 300))

	if id, ok := s.Dragging(); !ok || id != 0 {
		t.Fatalf("dragging = %d, %v; want 0", id, ok)
	}
	if p, _ := s.Position(1); p != staging[1] {
		t.Errorf("tile 1 moved to %v", p)
	}

	// The first pointer lets go; the second stays inert until it is lifted.
	g.Process(release(0, 25, 450))
	g.Process(press(1, staging[1].X, 250))
	if _, ok := s.Dragging(); ok {
		t.Error("second pointer should not pick up a drag mid-gesture")
	}
	g.Process(release(1, staging[1].X, 250))
	if p, _ := s.Position(1); p != staging[1] {
		t.Errorf("tile 1 moved to %v", p)
	}
}

func TestGestures_ReleaseAll(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	g := NewGestures(s)
	g.Process(press(2, 25, 500), press(2, 140, 20))
	if !g.Down(2) {
		t.Fatal("pointer 2 should be down")
	}
	g.Release()
	if g.Down(2) {
		t.Error("pointer 2 should be up")
	}
	if c, ok := s.Placement(0); !ok || c != (Cell{0, 2}) {
		t.Errorf("placement = %v, %v; want (0,2)", c, ok)
	}
}

func TestGestures_IgnoresOutOfRangePointers(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	g := NewGestures(s)
	g.Process(press(-1, 25, 500), press(MaxPointers, 25, 500))
	if g.Down(-1) || g.Down(MaxPointers) {
		t.Error("out-of-range pointers should be ignored")
	}
}

func TestGestures_Hover(t *testing.T) {
	s := newTestSession(t, SessionOptions{Effects: Effects{HoverScale: 1.1, DragScale: 1.2}})
	g := NewGestures(s)

	g.Process(release(0, 85, 500))
	if got := spriteFor(Project(s), 1).Scale; got != 1.1 {
		t.Errorf("hover scale = %f, want 1.1", got)
	}
	g.Process(release(0, 700, 700))
	if got := spriteFor(Project(s), 1).Scale; got != 1 {
		t.Errorf("scale after leave = %f, want 1", got)
	}

	// Touch pointers never hover.
	g.Process(release(3, 85, 500))
	if got := spriteFor(Project(s), 1).Scale; got != 1 {
		t.Errorf("touch hover scale = %f, want 1", got)
	}
}

func TestGestures_DeadZone(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	g := NewGestures(s)
	g.SetDragDeadZone(20)
	g.Process(press(0, 25, 500), press(0, 40, 500))
	if _, ok := s.Dragging(); ok {
		t.Error("15px should stay inside a 20px dead zone")
	}
	g.Process(press(0, 50, 500))
	if _, ok := s.Dragging(); !ok {
		t.Error("25px should start a drag")
	}
	// The first move past the dead zone carries the whole offset.
	if p, _ := s.Position(0); p != (Vec2{50, 500}) {
		t.Errorf("tile at %v, want (50, 500)", p)
	}
}

func spriteFor(rs RenderState, id TileID) TileSprite {
	for _, sp := range rs.Tiles {
		if sp.ID == id {
			return sp
		}
	}
	return TileSprite{}
}
