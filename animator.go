package crossmath

import "sort"

// MotionFactory builds the motion for one animation request.
type MotionFactory func(from, to Vec2, purpose MotionPurpose) Motion

// MotionPurpose tells a MotionFactory why a tile is moving, so profiles can
// pick different durations for snapping, returning and resetting.
type MotionPurpose uint8

const (
	MotionPlace  MotionPurpose = iota // snap into a cell
	MotionReturn                      // rejected drop, back to the tray
	MotionReset                       // reset command
)

// Animator owns at most one running Motion per tile. There is no global
// animation manager; the session calls Update once per frame.
type Animator struct {
	tracks  map[TileID]Motion
	factory MotionFactory
	done    []TileID
}

// NewAnimator creates an animator that builds motions with factory.
func NewAnimator(factory MotionFactory) *Animator {
	return &Animator{tracks: make(map[TileID]Motion), factory: factory}
}

// Start animates id from -> to, replacing any motion already running for
// that tile.
func (a *Animator) Start(id TileID, from, to Vec2, purpose MotionPurpose) {
	a.tracks[id] = a.factory(from, to, purpose)
}

// Cancel drops the running motion for id. It reports whether one existed.
func (a *Animator) Cancel(id TileID) bool {
	_, ok := a.tracks[id]
	delete(a.tracks, id)
	return ok
}

// Active reports whether id has a running motion.
func (a *Animator) Active(id TileID) bool {
	_, ok := a.tracks[id]
	return ok
}

// Len returns the number of running motions.
func (a *Animator) Len() int { return len(a.tracks) }

// Update advances every motion by dt seconds and calls apply with each new
// position. Tiles whose motion finished are returned in ascending order; the
// returned slice is reused by the next call.
func (a *Animator) Update(dt float64, apply func(TileID, Vec2)) []TileID {
	a.done = a.done[:0]
	for id, m := range a.tracks {
		pos, finished := m.Step(dt)
		apply(id, pos)
		if finished {
			a.done = append(a.done, id)
		}
	}
	for _, id := range a.done {
		delete(a.tracks, id)
	}
	sort.Slice(a.done, func(i, j int) bool { return a.done[i] < a.done[j] })
	return a.done
}
