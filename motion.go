package crossmath

import (
	"math"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Motion produces positions converging on a target. Step advances by dt
// seconds and reports the new position and whether the target was reached.
// Once done, a Motion keeps returning its target.
type Motion interface {
	Step(dt float64) (Vec2, bool)
	Target() Vec2
}

// TweenMotion eases X and Y from a start to a target over a fixed duration.
type TweenMotion struct {
	x, y   *gween.Tween
	target Vec2
	pos    Vec2
	done   bool
}

// NewTweenMotion creates a tween from -> to lasting duration seconds.
// A non-positive duration completes on the first Step.
func NewTweenMotion(from, to Vec2, duration float64, fn ease.TweenFunc) *TweenMotion {
	if fn == nil {
		fn = ease.OutCubic
	}
	d := float32(duration)
	if d <= 0 {
		d = 0
	}
	return &TweenMotion{
		x:      gween.New(float32(from.X), float32(to.X), d, fn),
		y:      gween.New(float32(from.Y), float32(to.Y), d, fn),
		target: to,
		pos:    from,
	}
}

// Step advances both tweens by dt seconds.
func (m *TweenMotion) Step(dt float64) (Vec2, bool) {
	if m.done {
		return m.target, true
	}
	x, xDone := m.x.Update(float32(dt))
	y, yDone := m.y.Update(float32(dt))
	m.pos = Vec2{float64(x), float64(y)}
	if xDone && yDone {
		// Tweens work in float32; land exactly on the target.
		m.pos = m.target
		m.done = true
	}
	return m.pos, m.done
}

// Target returns the end position.
func (m *TweenMotion) Target() Vec2 { return m.target }

// SpringParams configures a damped spring. Zero values fall back to
// DefaultSpring.
type SpringParams struct {
	Stiffness float64 `toml:"stiffness"`
	Damping   float64 `toml:"damping"`
	Mass      float64 `toml:"mass"`
	// Epsilon is the distance and speed under which the spring settles.
	Epsilon float64 `toml:"epsilon"`
}

// DefaultSpring matches the feel of the touch build.
var DefaultSpring = SpringParams{Stiffness: 100, Damping: 10, Mass: 1, Epsilon: 0.01}

func (p SpringParams) withDefaults() SpringParams {
	if p.Stiffness <= 0 {
		p.Stiffness = DefaultSpring.Stiffness
	}
	if p.Damping <= 0 {
		p.Damping = DefaultSpring.Damping
	}
	if p.Mass <= 0 {
		p.Mass = DefaultSpring.Mass
	}
	if p.Epsilon <= 0 {
		p.Epsilon = DefaultSpring.Epsilon
	}
	return p
}

// maxSpringStep bounds the integration step so long frames stay stable.
const maxSpringStep = 1.0 / 240

// SpringMotion pulls a point toward its target with a damped spring.
type SpringMotion struct {
	params SpringParams
	pos    Vec2
	vel    Vec2
	target Vec2
	done   bool
}

// NewSpringMotion creates a spring at rest at from, released toward to.
func NewSpringMotion(from, to Vec2, params SpringParams) *SpringMotion {
	return &SpringMotion{params: params.withDefaults(), pos: from, target: to}
}

// Step integrates the spring for dt seconds with semi-implicit Euler.
func (m *SpringMotion) Step(dt float64) (Vec2, bool) {
	if m.done {
		return m.target, true
	}
	p := m.params
	for dt > 0 {
		h := math.Min(dt, maxSpringStep)
		dt -= h
		ax := (-p.Stiffness*(m.pos.X-m.target.X) - p.Damping*m.vel.X) / p.Mass
		ay := (-p.Stiffness*(m.pos.Y-m.target.Y) - p.Damping*m.vel.Y) / p.Mass
		m.vel.X += ax * h
		m.vel.Y += ay * h
		m.pos.X += m.vel.X * h
		m.pos.Y += m.vel.Y * h
	}
	if m.pos.Dist(m.target) < p.Epsilon && math.Hypot(m.vel.X, m.vel.Y) < p.Epsilon {
		m.pos = m.target
		m.vel = Vec2{}
		m.done = true
	}
	return m.pos, m.done
}

// Target returns the rest position.
func (m *SpringMotion) Target() Vec2 { return m.target }

// eases lists the easing names accepted in configuration.
var eases = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"outquart":   ease.OutQuart,
	"outquint":   ease.OutQuint,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
	"outexpo":    ease.OutExpo,
	"outcirc":    ease.OutCirc,
	"outback":    ease.OutBack,
	"outelastic": ease.OutElastic,
	"outbounce":  ease.OutBounce,
}

// EaseByName looks up an easing function by case-insensitive name,
// ignoring dashes and underscores ("out-cubic", "OutCubic").
func EaseByName(name string) (ease.TweenFunc, bool) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(name))
	fn, ok := eases[key]
	return fn, ok
}
