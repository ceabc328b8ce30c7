package crossmath

import (
	"math"
	"sort"
)

// DecisionKind is the outcome of resolving a drop.
type DecisionKind uint8

const (
	ReturnToOrigin DecisionKind = iota // tile goes back to the tray
	Place                              // tile snaps into Decision.Cell
)

func (k DecisionKind) String() string {
	if k == Place {
		return "place"
	}
	return "return"
}

// Decision is the result of ResolveDrop. Cell is only meaningful for Place.
type Decision struct {
	Kind DecisionKind
	Cell Cell
}

// Placed reports whether the decision snaps the tile into a cell.
func (d Decision) Placed() bool { return d.Kind == Place }

// PlacementMap records which cell each placed tile occupies. A tile without
// an entry is free in the staging tray.
type PlacementMap map[TileID]Cell

// Occupant returns the tile sitting in c, if any.
func (m PlacementMap) Occupant(c Cell) (TileID, bool) {
	for id, at := range m {
		if at == c {
			return id, true
		}
	}
	return 0, false
}

// occupiedByOther reports whether a tile other than id sits in c.
func (m PlacementMap) occupiedByOther(c Cell, id TileID) bool {
	for other, at := range m {
		if at == c && other != id {
			return true
		}
	}
	return false
}

// Apply records the decision for tile: Place inserts or overwrites its entry,
// ReturnToOrigin deletes it.
func (m PlacementMap) Apply(tile TileID, d Decision) {
	if d.Kind == Place {
		m[tile] = d.Cell
		return
	}
	delete(m, tile)
}

// Clone returns an independent copy.
func (m PlacementMap) Clone() PlacementMap {
	out := make(PlacementMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TileIDs returns the placed tiles in ascending order.
func (m PlacementMap) TileIDs() []TileID {
	ids := make([]TileID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// nearestCell returns the droppable cell closest to pos and its distance.
// Equal distances are broken by row-major order so the result does not
// depend on the order of cells.
func nearestCell(pos Vec2, cells []DroppableCell) (DroppableCell, float64, bool) {
	var best DroppableCell
	bestDist := math.Inf(1)
	found := false
	for _, c := range cells {
		d := pos.Dist(c.Center())
		if !found || d < bestDist || (d == bestDist && c.Cell().less(best.Cell())) {
			best, bestDist, found = c, d, true
		}
	}
	return best, bestDist, found
}

// ResolveDrop decides where a released tile goes. The nearest droppable cell
// is accepted when its centre lies within threshold of pos (inclusive) and no
// other tile occupies it; otherwise the tile returns to its origin. The
// function is pure.
func ResolveDrop(tile TileID, pos Vec2, placed PlacementMap, cells []DroppableCell, threshold float64) Decision {
	c, dist, ok := nearestCell(pos, cells)
	// A NaN distance or threshold rejects.
	if !ok || !(dist <= threshold) {
		return Decision{Kind: ReturnToOrigin}
	}
	if placed.occupiedByOther(c.Cell(), tile) {
		return Decision{Kind: ReturnToOrigin}
	}
	return Decision{Kind: Place, Cell: c.Cell()}
}

// NearestCandidate returns the cell a drop at pos would land in, for drag-time
// highlighting. It never mutates placed.
func NearestCandidate(tile TileID, pos Vec2, placed PlacementMap, cells []DroppableCell, threshold float64) (Cell, bool) {
	d := ResolveDrop(tile, pos, placed, cells, threshold)
	return d.Cell, d.Placed()
}
