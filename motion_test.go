package crossmath

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenMotion_ReachesTarget(t *testing.T) {
	from, to := Vec2{0, 0}, Vec2{100, -50}
	m := NewTweenMotion(from, to, 0.3, nil)

	pos, done := m.Step(0.1)
	if done {
		t.Fatal("tween should not be done after 0.1s of 0.3s")
	}
	if pos.X <= 0 || pos.X >= 100 {
		t.Errorf("X = %f, want between 0 and 100", pos.X)
	}

	for i := 0; i < 10 && !done; i++ {
		pos, done = m.Step(0.1)
	}
	if !done {
		t.Fatal("tween should be done")
	}
	if pos != to {
		t.Errorf("pos = %v, want exactly %v", pos, to)
	}

	// Stays put once done.
	if pos, done = m.Step(1); !done || pos != to {
		t.Errorf("after done: pos = %v done = %v", pos, done)
	}
}

func TestTweenMotion_OutCubicLeadsLinear(t *testing.T) {
	cubic := NewTweenMotion(Vec2{}, Vec2{100, 0}, 1, ease.OutCubic)
	linear := NewTweenMotion(Vec2{}, Vec2{100, 0}, 1, ease.Linear)
	c, _ := cubic.Step(0.5)
	l, _ := linear.Step(0.5)
	if math.Abs(l.X-50) > 0.01 {
		t.Errorf("linear X = %f, want ~50", l.X)
	}
	if c.X <= l.X {
		t.Errorf("out-cubic X = %f should lead linear %f", c.X, l.X)
	}
}

func TestTweenMotion_ZeroDuration(t *testing.T) {
	m := NewTweenMotion(Vec2{1, 1}, Vec2{9, 9}, 0, nil)
	pos, done := m.Step(1.0 / 60)
	if !done || pos != (Vec2{9, 9}) {
		t.Errorf("pos = %v done = %v, want target and done", pos, done)
	}
}

func TestSpringMotion_Converges(t *testing.T) {
	to := Vec2{200, 300}
	m := NewSpringMotion(Vec2{0, 0}, to, DefaultSpring)

	var pos Vec2
	done := false
	frames := 0
	for ; frames < 600 && !done; frames++ {
		pos, done = m.Step(1.0 / 60)
	}
	if !done {
		t.Fatalf("spring did not settle in %d frames, pos = %v", frames, pos)
	}
	if pos != to {
		t.Errorf("pos = %v, want exactly %v", pos, to)
	}
	if m.Target() != to {
		t.Errorf("Target = %v, want %v", m.Target(), to)
	}
}

func TestSpringMotion_LongFrameStable(t *testing.T) {
	m := NewSpringMotion(Vec2{0, 0}, Vec2{100, 0}, SpringParams{Stiffness: 400, Damping: 5})
	pos, _ := m.Step(0.5)
	if math.IsNaN(pos.X) || math.Abs(pos.X) > 1000 {
		t.Errorf("pos = %v after a long frame, integration blew up", pos)
	}
}

func TestSpringParams_Defaults(t *testing.T) {
	p := SpringParams{}.withDefaults()
	if p != DefaultSpring {
		t.Errorf("withDefaults = %+v, want %+v", p, DefaultSpring)
	}
}

func TestEaseByName(t *testing.T) {
	for _, name := range []string{"out-cubic", "OutCubic", "out_cubic", "OUTCUBIC"} {
		if _, ok := EaseByName(name); !ok {
			t.Errorf("EaseByName(%q) not found", name)
		}
	}
	if _, ok := EaseByName("wobble"); ok {
		t.Error("unknown ease should not resolve")
	}
}

func TestAnimator_Supersede(t *testing.T) {
	a := NewAnimator(func(from, to Vec2, _ MotionPurpose) Motion {
		return NewTweenMotion(from, to, 0.2, ease.Linear)
	})
	a.Start(1, Vec2{}, Vec2{100, 0}, MotionPlace)
	a.Start(1, Vec2{}, Vec2{0, 100}, MotionReturn)
	if a.Len() != 1 {
		t.Fatalf("Len = %d, want 1", a.Len())
	}
	if got := a.tracks[1].Target(); got != (Vec2{0, 100}) {
		t.Errorf("target = %v, want the last request", got)
	}

	var last Vec2
	var done []TileID
	for i := 0; i < 20 && len(done) == 0; i++ {
		done = a.Update(1.0/60, func(_ TileID, p Vec2) { last = p })
	}
	if len(done) != 1 || done[0] != 1 {
		t.Fatalf("done = %v, want [1]", done)
	}
	if last != (Vec2{0, 100}) {
		t.Errorf("final position = %v, want (0, 100)", last)
	}
	if a.Active(1) {
		t.Error("finished track should be removed")
	}
}

func TestAnimator_DoneSorted(t *testing.T) {
	a := NewAnimator(func(from, to Vec2, _ MotionPurpose) Motion {
		return NewTweenMotion(from, to, 0, nil)
	})
	for _, id := range []TileID{9, 3, 7, 1} {
		a.Start(id, Vec2{}, Vec2{1, 1}, MotionReset)
	}
	done := a.Update(1.0/60, func(TileID, Vec2) {})
	want := []TileID{1, 3, 7, 9}
	if len(done) != len(want) {
		t.Fatalf("done = %v, want %v", done, want)
	}
	for i := range want {
		if done[i] != want[i] {
			t.Errorf("done = %v, want %v", done, want)
			break
		}
	}
}

func TestAnimator_Cancel(t *testing.T) {
	a := NewAnimator(func(from, to Vec2, _ MotionPurpose) Motion {
		return NewSpringMotion(from, to, DefaultSpring)
	})
	a.Start(4, Vec2{}, Vec2{10, 10}, MotionPlace)
	if !a.Cancel(4) {
		t.Error("Cancel should report an existing track")
	}
	if a.Cancel(4) {
		t.Error("second Cancel should report nothing")
	}
}
