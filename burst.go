package crossmath

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// BurstConfig controls the one-shot particle burst played on a successful
// placement.
type BurstConfig struct {
	// Count is the number of particles per burst.
	Count int
	// MaxParticles is the pool size shared by all bursts. Extra particles
	// are silently dropped.
	MaxParticles int
	// Lifetime is the range of particle lifetimes in seconds.
	Lifetime Range
	// Speed is the range of initial speeds in pixels per second.
	Speed Range
	// Gravity is the constant acceleration in pixels per second squared.
	Gravity Vec2
	// Size is the particle edge length at birth; it shrinks to zero.
	Size float64
}

// DefaultBurst mirrors the browser build's success effect.
var DefaultBurst = BurstConfig{
	Count:        20,
	MaxParticles: 256,
	Lifetime:     Range{Min: 0.8, Max: 1.0},
	Speed:        Range{Min: 20, Max: 70},
	Gravity:      Vec2{Y: 120},
	Size:         4,
}

// particle holds per-particle simulation state.
type particle struct {
	x, y    float64
	vx, vy  float64
	life    float64
	maxLife float64
	color   Color
}

// Particle is the render view of one live particle.
type Particle struct {
	X, Y  float64
	Size  float64
	Color Color
}

// Bursts manages a pool of particles with CPU-based simulation.
type Bursts struct {
	config    BurstConfig
	particles []particle
	alive     int
}

// NewBursts creates a particle pool sized by cfg.MaxParticles.
func NewBursts(cfg BurstConfig) *Bursts {
	max := cfg.MaxParticles
	if max <= 0 {
		max = 128
	}
	return &Bursts{config: cfg, particles: make([]particle, max)}
}

// Emit spawns one burst of Count particles at (x, y).
func (b *Bursts) Emit(x, y float64) {
	for i := 0; i < b.config.Count && b.alive < len(b.particles); i++ {
		b.spawn(x, y)
	}
}

// AliveCount returns the number of live particles.
func (b *Bursts) AliveCount() int { return b.alive }

// Clear kills every live particle.
func (b *Bursts) Clear() { b.alive = 0 }

func (b *Bursts) spawn(x, y float64) {
	p := &b.particles[b.alive]
	angle := rand.Float64() * 2 * math.Pi
	speed := b.config.Speed.Random()
	p.x, p.y = x, y
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.life = b.config.Lifetime.Random()
	if p.life <= 0 {
		p.life = 1.0
	}
	p.maxLife = p.life
	c := colorful.Hsl(rand.Float64()*360, 0.8, 0.6)
	p.color = Color{R: c.R, G: c.G, B: c.B, A: 1}
	b.alive++
}

// update advances the simulation by dt seconds, swap-removing dead particles.
func (b *Bursts) update(dt float64) {
	gx := b.config.Gravity.X * dt
	gy := b.config.Gravity.Y * dt
	i := 0
	for i < b.alive {
		p := &b.particles[i]
		p.life -= dt
		if p.life <= 0 {
			b.alive--
			b.particles[i] = b.particles[b.alive]
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt
		i++
	}
}

// appendParticles appends the render view of live particles to dst.
func (b *Bursts) appendParticles(dst []Particle) []Particle {
	for i := 0; i < b.alive; i++ {
		p := &b.particles[i]
		t := p.life / p.maxLife
		c := p.color
		c.A = t
		dst = append(dst, Particle{X: p.x, Y: p.y, Size: b.config.Size * t, Color: c})
	}
	return dst
}
