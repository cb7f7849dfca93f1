package random

import "testing"

func TestPredictableIsDeterministic(t *testing.T) {
	a := NewPredictable(42)
	b := NewPredictable(42)

	for i := 0; i < 20; i++ {
		av, bv := a.Next(100), b.Next(100)
		if av != bv {
			t.Fatalf("draw %d diverged: %d != %d", i, av, bv)
		}
	}
}

func TestNextStaysInRange(t *testing.T) {
	g := NewPredictable(7)
	for i := 0; i < 1000; i++ {
		v := g.Next(6)
		if v < 1 || v > 6 {
			t.Fatalf("Next(6) = %d, out of [1,6]", v)
		}
	}
}

func TestNextZeroReturnsZero(t *testing.T) {
	g := NewPredictable(1)
	if got := g.Next(0); got != 0 {
		t.Errorf("Next(0) = %d, want 0", got)
	}
}

func TestSequentialCycles(t *testing.T) {
	g := NewSequential(3)
	want := []uint16{1, 2, 0, 1, 2, 0}
	for i, w := range want {
		if got := g.Next(0); got != w {
			t.Errorf("draw %d = %d, want %d", i, got, w)
		}
	}
}

func TestRandomOpZeroReseedsUnpredictable(t *testing.T) {
	g := NewPredictable(1)
	if got := g.RandomOp(0); got != 0 {
		t.Errorf("RandomOp(0) = %d, want 0", got)
	}
	if g.Mode != Unpredictable {
		t.Errorf("Mode = %v, want Unpredictable", g.Mode)
	}
}

func TestRandomOpSmallNegativeReseedsSequential(t *testing.T) {
	g := NewPredictable(1)
	if got := g.RandomOp(-5); got != 0 {
		t.Errorf("RandomOp(-5) = %d, want 0", got)
	}
	if g.Mode != Sequential || g.Limit != 5 {
		t.Errorf("Mode=%v Limit=%d, want Sequential/5", g.Mode, g.Limit)
	}
}

func TestRandomOpLargeNegativeReseedsPredictable(t *testing.T) {
	g := NewSequential(3)
	if got := g.RandomOp(-1000); got != 0 {
		t.Errorf("RandomOp(-1000) = %d, want 0", got)
	}
	if g.Mode != Predictable || g.State != 1000 {
		t.Errorf("Mode=%v State=%d, want Predictable/1000", g.Mode, g.State)
	}
}

func TestRandomOpPositiveDraws(t *testing.T) {
	g := NewPredictable(9)
	v := g.RandomOp(10)
	if v < 1 || v > 10 {
		t.Errorf("RandomOp(10) = %d, out of [1,10]", v)
	}
}

func TestReseedZeroSeedFallsBackToOne(t *testing.T) {
	g := NewSequential(1)
	g.Reseed(0)
	if g.State != 1 {
		t.Errorf("State = %d, want 1 after Reseed(0)", g.State)
	}
}
