package crossmath

// TileSprite is the render view of one tile. X and Y are the centre.
type TileSprite struct {
	ID        TileID
	Face      string
	Color     Color
	X, Y      float64
	Size      float64
	Scale     float64
	Rotation  float64 // clockwise radians about the centre
	FaceScale float64 // applied to the digit on top of Scale
	Alpha     float64
	State     TileState
	Placed    bool
}

// Rect returns the scaled square the tile covers.
func (t TileSprite) Rect() Rect {
	return RectAround(Vec2{t.X, t.Y}, t.Size*t.Scale)
}

// RenderState is everything a shell needs to draw one frame. Shells consume
// it each frame instead of mutating scene objects from input handlers.
type RenderState struct {
	Layout Layout
	// Tiles are in paint order; the last one is topmost.
	Tiles        []TileSprite
	Highlight    Cell
	HasHighlight bool
	Particles    []Particle
	// Stars are drawn behind everything else.
	Stars []Star
	// CellScales and LabelOffsets follow Layout.Cells and Layout.Labels.
	// Both are nil when ambient motion is off.
	CellScales   []float64
	LabelOffsets []float64
}

// CellScale returns the pulse factor of Layout.Cells[i].
func (rs RenderState) CellScale(i int) float64 {
	if i < 0 || i >= len(rs.CellScales) {
		return 1
	}
	return rs.CellScales[i]
}

// LabelOffset returns the vertical bob of Layout.Labels[i].
func (rs RenderState) LabelOffset(i int) float64 {
	if i < 0 || i >= len(rs.LabelOffsets) {
		return 0
	}
	return rs.LabelOffsets[i]
}

// Project builds the render state of s.
func Project(s *Session) RenderState {
	return ProjectInto(s, RenderState{})
}

// ProjectInto is like Project but reuses the slices in buf.
func ProjectInto(s *Session, buf RenderState) RenderState {
	rs := RenderState{
		Layout:    s.layout,
		Tiles:     buf.Tiles[:0],
		Particles: buf.Particles[:0],
	}
	face := func(int) float64 { return 1 }
	if a := s.ambient; a != nil {
		face = a.FaceScale
		rs.Stars = a.appendStars(buf.Stars[:0])
		rs.CellScales = buf.CellScales[:0]
		for i := range s.layout.Cells {
			rs.CellScales = append(rs.CellScales, a.CellScale(i))
		}
		rs.LabelOffsets = buf.LabelOffsets[:0]
		for i := range s.layout.Labels {
			rs.LabelOffsets = append(rs.LabelOffsets, a.LabelOffset(i))
		}
	}
	for _, id := range s.order {
		i := s.index[id]
		t := s.roster[i]
		_, placed := s.placed[id]
		rs.Tiles = append(rs.Tiles, TileSprite{
			ID:        id,
			Face:      t.Face,
			Color:     t.Color,
			X:         s.pos[i].X,
			Y:         s.pos[i].Y,
			Size:      s.layout.CellSize,
			Scale:     s.scale(id),
			Rotation:  s.rotation(i),
			FaceScale: face(i),
			Alpha:     s.alpha(id),
			State:     s.state[i],
			Placed:    placed,
		})
	}
	rs.Highlight, rs.HasHighlight = s.highlight, s.hasHighlight
	if s.bursts != nil {
		rs.Particles = s.bursts.appendParticles(rs.Particles)
	}
	return rs
}
