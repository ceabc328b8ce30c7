package crossmath

import (
	"math"
	"testing"
)

func TestBursts_EmitAndExpire(t *testing.T) {
	b := NewBursts(DefaultBurst)
	b.Emit(10, 20)
	if b.AliveCount() != 20 {
		t.Fatalf("alive = %d, want 20", b.AliveCount())
	}

	// Gravity pulls particles down over time.
	before := b.appendParticles(nil)
	b.update(0.5)
	after := b.appendParticles(nil)
	var dyBefore, dyAfter float64
	for _, p := range before {
		dyBefore += p.Y
	}
	for _, p := range after {
		dyAfter += p.Y
	}
	if dyAfter <= dyBefore {
		t.Errorf("mean Y did not increase: %f -> %f", dyBefore/20, dyAfter/20)
	}
	for _, p := range after {
		if p.Color.A >= 1 || p.Size >= DefaultBurst.Size {
			t.Errorf("particle %+v should have faded", p)
			break
		}
	}

	b.update(1.0)
	if b.AliveCount() != 0 {
		t.Errorf("alive = %d after lifetime, want 0", b.AliveCount())
	}
}

func TestBursts_PoolCap(t *testing.T) {
	cfg := DefaultBurst
	cfg.MaxParticles = 30
	b := NewBursts(cfg)
	b.Emit(0, 0)
	b.Emit(0, 0)
	if b.AliveCount() != 30 {
		t.Errorf("alive = %d, want pool cap 30", b.AliveCount())
	}
	b.Clear()
	if b.AliveCount() != 0 {
		t.Error("Clear should kill every particle")
	}
}

func TestRange_Random(t *testing.T) {
	r := Range{Min: 2, Max: 5}
	for i := 0; i < 100; i++ {
		v := r.Random()
		if v < 2 || v > 5 || math.IsNaN(v) {
			t.Fatalf("Random = %f outside [2, 5]", v)
		}
	}
	if (Range{Min: 3, Max: 3}).Random() != 3 {
		t.Error("degenerate range should return Min")
	}
}
