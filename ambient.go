package crossmath

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Pulse is a sine wave with a random phase per target.
type Pulse struct {
	// Intensity is the peak deviation: a fraction for scales, pixels for
	// offsets.
	Intensity float64
	// Speed is in radians per second.
	Speed float64
}

func (p Pulse) wave(clock, phase float64) float64 {
	return math.Sin(phase+clock*p.Speed) * p.Intensity
}

// AmbientConfig drives the idle motion of the browser build. None of it
// affects placement.
type AmbientConfig struct {
	// Stars is the number of background points.
	Stars int
	// Field is the area the stars are scattered over.
	Field     Rect
	StarAlpha float64
	// Spin turns the star field about its vertical axis, radians per second.
	Spin float64
	// Drift is the peak vertical star speed in pixels per second.
	Drift float64
	// FacePulse scales the digit on each tile.
	FacePulse Pulse
	// CellPulse scales the empty drop cells.
	CellPulse Pulse
	// LabelFloat bobs the grid labels up and down.
	LabelFloat Pulse
}

// DefaultAmbient matches the browser build. Field is left for the caller.
var DefaultAmbient = AmbientConfig{
	Stars:      100,
	StarAlpha:  0.6,
	Spin:       0.1,
	Drift:      6,
	FacePulse:  Pulse{Intensity: 0.08, Speed: 1.2},
	CellPulse:  Pulse{Intensity: 0.05, Speed: 1.5},
	LabelFloat: Pulse{Intensity: 2, Speed: 0.8},
}

type star struct {
	x, y, z float64 // relative to the field centre
	size    float64
	color   Color
}

// Star is the render view of one background point.
type Star struct {
	X, Y  float64
	Size  float64
	Color Color
}

// Ambient simulates the background field and the per-object pulses.
type Ambient struct {
	config AmbientConfig
	stars  []star
	angle  float64
	clock  float64

	faces  []float64
	cells  []float64
	labels []float64
}

// NewAmbient scatters cfg.Stars points over cfg.Field and gives every tile
// face, cell and label its own pulse phase.
func NewAmbient(cfg AmbientConfig, tiles, cells, labels int) *Ambient {
	a := &Ambient{
		config: cfg,
		stars:  make([]star, max(cfg.Stars, 0)),
		faces:  phases(tiles),
		cells:  phases(cells),
		labels: phases(labels),
	}
	for i := range a.stars {
		c := colorful.Hsl((rand.Float64()*0.2+0.7)*360, 0.7, 0.5)
		a.stars[i] = star{
			x:     (rand.Float64() - 0.5) * cfg.Field.Width,
			y:     (rand.Float64() - 0.5) * cfg.Field.Height,
			z:     rand.Float64()*20 - 10,
			size:  rand.Float64()*3 + 1,
			color: Color{R: c.R, G: c.G, B: c.B, A: cfg.StarAlpha},
		}
	}
	return a
}

func phases(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = rand.Float64() * 2 * math.Pi
	}
	return p
}

func (a *Ambient) update(dt float64) {
	a.clock += dt
	a.angle += a.config.Spin * dt
	for i := range a.stars {
		a.stars[i].y += math.Sin(a.clock+float64(i)) * a.config.Drift * dt
	}
}

// FaceScale returns the pulse factor of the tile at roster index i.
func (a *Ambient) FaceScale(i int) float64 {
	if i < 0 || i >= len(a.faces) {
		return 1
	}
	return 1 + a.config.FacePulse.wave(a.clock, a.faces[i])
}

// CellScale returns the pulse factor of Layout.Cells[i].
func (a *Ambient) CellScale(i int) float64 {
	if i < 0 || i >= len(a.cells) {
		return 1
	}
	return 1 + a.config.CellPulse.wave(a.clock, a.cells[i])
}

// LabelOffset returns the vertical offset of Layout.Labels[i].
func (a *Ambient) LabelOffset(i int) float64 {
	if i < 0 || i >= len(a.labels) {
		return 0
	}
	return a.config.LabelFloat.wave(a.clock, a.labels[i])
}

// appendStars projects the field onto the screen. The spin is an
// orthographic rotation, so stars sweep sideways and back.
func (a *Ambient) appendStars(dst []Star) []Star {
	c := a.config.Field.Center()
	sin, cos := math.Sincos(a.angle)
	for _, s := range a.stars {
		dst = append(dst, Star{
			X:     c.X + s.x*cos + s.z*sin,
			Y:     c.Y + s.y,
			Size:  s.size,
			Color: s.color,
		})
	}
	return dst
}
