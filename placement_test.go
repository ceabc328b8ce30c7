package crossmath

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

// testLayout has 50px cells with a 10px gap at the origin, so cell (r, c)
// is centred on (60c+25, 60r+25).
func testLayout() Layout {
	return MustComputeLayout(DefaultPuzzle, 50, 10, Vec2{})
}

func TestResolveDrop_ExactCenter(t *testing.T) {
	l := testLayout()
	placed := PlacementMap{}

	d := ResolveDrop(0, Vec2{145, 25}, placed, l.Cells, 50)
	if d.Kind != Place || d.Cell != (Cell{0, 2}) {
		t.Fatalf("decision = %+v, want place (0,2)", d)
	}
	placed.Apply(0, d)
	if placed[0] != (Cell{0, 2}) {
		t.Errorf("placed[0] = %v, want (0,2)", placed[0])
	}
}

func TestResolveDrop_OccupiedByOther(t *testing.T) {
	l := testLayout()
	placed := PlacementMap{0: {0, 2}}

	d := ResolveDrop(1, Vec2{145, 25}, placed, l.Cells, 50)
	if d.Kind != ReturnToOrigin {
		t.Fatalf("decision = %+v, want return", d)
	}
	placed.Apply(1, d)
	if _, ok := placed[1]; ok {
		t.Error("tile 1 should not be placed")
	}
	if placed[0] != (Cell{0, 2}) {
		t.Errorf("tile 0 moved to %v", placed[0])
	}
}

func TestResolveDrop_FarAwayClearsPlacement(t *testing.T) {
	l := testLayout()
	placed := PlacementMap{0: {0, 2}}

	d := ResolveDrop(0, Vec2{2000, 2000}, placed, l.Cells, 50)
	if d.Kind != ReturnToOrigin {
		t.Fatalf("decision = %+v, want return", d)
	}
	placed.Apply(0, d)
	if len(placed) != 0 {
		t.Errorf("placed = %v, want empty", placed)
	}
}

func TestResolveDrop_SameTileSameCell(t *testing.T) {
	l := testLayout()
	placed := PlacementMap{0: {0, 2}}

	d := ResolveDrop(0, Vec2{150, 30}, placed, l.Cells, 50)
	if d.Kind != Place || d.Cell != (Cell{0, 2}) {
		t.Errorf("decision = %+v, want place (0,2)", d)
	}
}

func TestResolveDrop_ThresholdBoundary(t *testing.T) {
	l := testLayout()
	const threshold = 50.0

	// Exactly at the threshold is inside.
	d := ResolveDrop(0, Vec2{145 + threshold, 25}, PlacementMap{}, l.Cells, threshold)
	if d.Kind != Place || d.Cell != (Cell{0, 2}) {
		t.Errorf("at threshold: decision = %+v, want place (0,2)", d)
	}

	// Just past it is outside.
	d = ResolveDrop(0, Vec2{145 + threshold + 1e-9, 25}, PlacementMap{}, l.Cells, threshold)
	if d.Kind != ReturnToOrigin {
		t.Errorf("past threshold: decision = %+v, want return", d)
	}

	// Diagonal 30-40-50 triangle.
	d = ResolveDrop(0, Vec2{145 + 30, 25 + 40}, PlacementMap{}, l.Cells, threshold)
	if d.Kind != Place {
		t.Errorf("diagonal at threshold: decision = %+v, want place", d)
	}
}

func TestResolveDrop_TieBreakRowMajor(t *testing.T) {
	l := testLayout()
	reversed := slices.Clone(l.Cells)
	slices.Reverse(reversed)

	tests := []struct {
		name string
		pos  Vec2
		want Cell
	}{
		// Midway between (0,2) and (0,4).
		{"same row", Vec2{205, 25}, Cell{0, 2}},
		// Midway between (0,2) and (2,2).
		{"same col", Vec2{145, 85}, Cell{0, 2}},
		// Equidistant from (2,0), (2,2), (4,0) and (4,2).
		{"four way", Vec2{85, 205}, Cell{2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, cells := range [][]DroppableCell{l.Cells, reversed} {
				d := ResolveDrop(0, tt.pos, PlacementMap{}, cells, 100)
				if d.Kind != Place || d.Cell != tt.want {
					t.Errorf("decision = %+v, want place %v", d, tt.want)
				}
			}
		})
	}
}

func TestResolveDrop_TieLoserIsNotConsidered(t *testing.T) {
	l := testLayout()
	// The tie goes to (0,2) even though it is taken; the drop returns
	// rather than falling through to (0,4).
	placed := PlacementMap{5: {0, 2}}
	d := ResolveDrop(0, Vec2{205, 25}, placed, l.Cells, 100)
	if d.Kind != ReturnToOrigin {
		t.Errorf("decision = %+v, want return", d)
	}
}

func TestResolveDrop_Pure(t *testing.T) {
	l := testLayout()
	placed := PlacementMap{1: {2, 0}}
	before := placed.Clone()

	a := ResolveDrop(0, Vec2{140, 30}, placed, l.Cells, 50)
	b := ResolveDrop(0, Vec2{140, 30}, placed, l.Cells, 50)
	if a != b {
		t.Errorf("decisions differ: %+v vs %+v", a, b)
	}
	if len(placed) != len(before) || placed[1] != before[1] {
		t.Errorf("placed mutated: %v", placed)
	}
}

func TestResolveDrop_NoCells(t *testing.T) {
	d := ResolveDrop(0, Vec2{}, PlacementMap{}, nil, 1000)
	if d.Kind != ReturnToOrigin {
		t.Errorf("decision = %+v, want return", d)
	}
}

func TestResolveDrop_NonFinite(t *testing.T) {
	l := testLayout()
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name      string
		pos       Vec2
		threshold float64
	}{
		{"nan threshold", Vec2{5000, 5000}, nan},
		{"nan threshold on a centre", Vec2{145, 25}, nan},
		{"nan position", Vec2{nan, nan}, 50},
		{"inf position", Vec2{inf, 25}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := ResolveDrop(0, tt.pos, PlacementMap{}, l.Cells, tt.threshold); d.Kind != ReturnToOrigin {
				t.Errorf("decision = %+v, want return", d)
			}
		})
	}
}

func TestPlacementMap_SingleOccupancy(t *testing.T) {
	l := testLayout()
	rng := rand.New(rand.NewPCG(1, 2))
	placed := PlacementMap{}
	b := l.Bounds()

	for i := 0; i < 5000; i++ {
		tile := TileID(rng.IntN(len(DefaultRoster)))
		var pos Vec2
		if rng.IntN(2) == 0 {
			// Aim near a cell centre.
			c := l.Cells[rng.IntN(len(l.Cells))]
			pos = Vec2{c.X + rng.Float64()*40 - 20, c.Y + rng.Float64()*40 - 20}
		} else {
			pos = Vec2{b.X + rng.Float64()*b.Width*1.5, b.Y + rng.Float64()*b.Height*1.5}
		}
		placed.Apply(tile, ResolveDrop(tile, pos, placed, l.Cells, 50))

		seen := make(map[Cell]TileID)
		for id, c := range placed {
			if other, dup := seen[c]; dup {
				t.Fatalf("step %d: tiles %d and %d share %v", i, other, id, c)
			}
			seen[c] = id
		}
	}
}

func TestPlacementMap_Occupant(t *testing.T) {
	m := PlacementMap{3: {2, 4}}
	if id, ok := m.Occupant(Cell{2, 4}); !ok || id != 3 {
		t.Errorf("Occupant = %d, %v; want 3, true", id, ok)
	}
	if _, ok := m.Occupant(Cell{0, 2}); ok {
		t.Error("(0,2) should be empty")
	}
}

func TestPlacementMap_TileIDsSorted(t *testing.T) {
	m := PlacementMap{7: {0, 2}, 2: {2, 0}, 4: {4, 4}}
	got := m.TileIDs()
	want := []TileID{2, 4, 7}
	if !slices.Equal(got, want) {
		t.Errorf("TileIDs = %v, want %v", got, want)
	}
}

func TestNearestCandidate(t *testing.T) {
	l := testLayout()
	if c, ok := NearestCandidate(0, Vec2{30, 150}, PlacementMap{}, l.Cells, 50); !ok || c != (Cell{2, 0}) {
		t.Errorf("candidate = %v, %v; want (2,0), true", c, ok)
	}
	if _, ok := NearestCandidate(0, Vec2{30, 150}, PlacementMap{1: {2, 0}}, l.Cells, 50); ok {
		t.Error("occupied cell should not be a candidate")
	}
}
