package loop_test

import (
	"testing"

	"lingocast/internal/loop"
)

func TestMarkCycle(t *testing.T) {
	c := loop.NewController()

	if r := c.Mark(5); r.State != loop.AMarked || r.A != 5 {
		t.Fatalf("expected A marked at 5, got %+v", r)
	}
	if r := c.Mark(8); r.State != loop.Active || r.A != 5 || r.B != 8 {
		t.Fatalf("expected active [5,8), got %+v", r)
	}
	if r := c.Mark(9); r.State != loop.Unset {
		t.Fatalf("expected third mark to clear, got %+v", r)
	}
}

func TestMarkBeforeASwapsPoints(t *testing.T) {
	c := loop.NewController()
	c.Mark(8)
	r := c.Mark(5)
	if r.State != loop.Active || r.A != 5 || r.B != 8 {
		t.Fatalf("expected swapped region [5,8), got %+v", r)
	}
}

func TestMarkAtAIsIgnored(t *testing.T) {
	c := loop.NewController()
	c.Mark(5)
	r := c.Mark(5)
	if r.State != loop.AMarked || r.A != 5 {
		t.Fatalf("expected controller to stay A marked, got %+v", r)
	}
}

func TestWrap(t *testing.T) {
	c := loop.NewController()
	if _, ok := c.Wrap(100); ok {
		t.Fatal("expected no wrap while unset")
	}
	c.Mark(5)
	if _, ok := c.Wrap(100); ok {
		t.Fatal("expected no wrap while only A is marked")
	}
	c.Mark(8)
	if _, ok := c.Wrap(7.99); ok {
		t.Fatal("expected no wrap inside region")
	}
	for _, pos := range []float64{8, 8.01, 30} {
		target, ok := c.Wrap(pos)
		if !ok || target != 5 {
			t.Fatalf("Wrap(%v) = %v, %v; want 5, true", pos, target, ok)
		}
	}
}

func TestSetAndClear(t *testing.T) {
	c := loop.NewController()
	r := c.Set(12, 4)
	if !r.Active() || r.A != 4 || r.B != 12 || r.Length() != 8 {
		t.Fatalf("unexpected region: %+v", r)
	}
	if !r.Contains(4) || r.Contains(12) {
		t.Fatal("expected half-open region")
	}
	if r := c.Set(3, 3); r.State != loop.Unset {
		t.Fatalf("expected empty region to clear, got %+v", r)
	}
	c.Set(1, 2)
	c.Clear()
	if c.Region().State != loop.Unset {
		t.Fatal("expected clear to unset")
	}
}

func TestStateString(t *testing.T) {
	if loop.Active.String() != "active" || loop.State(9).String() != "state(9)" {
		t.Fatal("unexpected state labels")
	}
}
