package fuzzy

import (
	"math"
	"testing"
)

func TestMembershipPointCounts(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		pts := make([]float64, n)
		for i := range pts {
			pts[i] = float64(i)
		}
		if _, err := NewMembershipFunction(pts); err != ErrMalformedMembership {
			t.Errorf("%d points: expected ErrMalformedMembership, got %v", n, err)
		}
	}

	if _, err := NewMembershipFunction([]float64{-2, 0, 2}); err != nil {
		t.Errorf("3 points: unexpected error %v", err)
	}
	if _, err := NewMembershipFunction([]float64{-2, 0, 2, 4}); err != nil {
		t.Errorf("4 points: unexpected error %v", err)
	}
}

func TestMembershipUnorderedPoints(t *testing.T) {
	if _, err := NewMembershipFunction([]float64{0, -1, 2}); err != ErrUnorderedBreakpoints {
		t.Errorf("expected ErrUnorderedBreakpoints, got %v", err)
	}
}

func TestTriangularDegrees(t *testing.T) {
	f, err := NewMembershipFunction([]float64{-2, 0, 2})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	if d := f.Degree(0); d != 1 {
		t.Errorf("expected degree 1 at peak, got %f", d)
	}
	if d := f.Degree(-2); d != 0 {
		t.Errorf("expected degree 0 at left foot, got %f", d)
	}
	if d := f.Degree(2); d != 0 {
		t.Errorf("expected degree 0 at right foot, got %f", d)
	}
	if d := f.Degree(-10); d != 0 {
		t.Errorf("expected degree 0 beyond left foot, got %f", d)
	}
	if d := f.Degree(1); math.Abs(d-0.5) > 1e-12 {
		t.Errorf("expected degree 0.5 halfway down, got %f", d)
	}
}

func TestTrapezoidalDegrees(t *testing.T) {
	f, err := NewMembershipFunction([]float64{0, 2, 4, 6})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	for _, x := range []float64{2, 3, 4} {
		if d := f.Degree(x); d != 1 {
			t.Errorf("expected degree 1 on plateau at %f, got %f", x, d)
		}
	}
	for _, x := range []float64{-1, 0, 6, 7} {
		if d := f.Degree(x); d != 0 {
			t.Errorf("expected degree 0 at %f, got %f", x, d)
		}
	}
	if d := f.Degree(1); math.Abs(d-0.5) > 1e-12 {
		t.Errorf("expected degree 0.5 on rising ramp, got %f", d)
	}
}

func TestDegreeRange(t *testing.T) {
	shapes := []MembershipFunction{}
	for _, pts := range [][]float64{
		{-1000, -999, -2, 0},
		{-2, 0, 2},
		{0, 2, 999, 1000},
		{-50, 0, 5},
	} {
		f, err := NewMembershipFunction(pts)
		if err != nil {
			t.Fatalf("construction failed: %v", err)
		}
		shapes = append(shapes, f)
	}

	for x := -1200.0; x <= 1200; x += 7.3 {
		for i, f := range shapes {
			d := f.Degree(x)
			if d < 0 || d > 1 || math.IsNaN(d) {
				t.Fatalf("shape %d: degree %f out of [0,1] at x=%f", i, d, x)
			}
		}
	}
}

func TestZeroWidthRamps(t *testing.T) {
	// Vertical left edge: step up at 0.
	f, err := NewMembershipFunction([]float64{0, 0, 2, 4})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if d := f.Degree(-1); d != 0 {
		t.Errorf("expected 0 below vertical edge, got %f", d)
	}
	if d := f.Degree(0); d != 1 {
		t.Errorf("expected 1 at vertical edge, got %f", d)
	}

	// Vertical right edge on a triangle.
	g, err := NewMembershipFunction([]float64{-2, 0, 0})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if d := g.Degree(0); d != 1 {
		t.Errorf("expected 1 at vertical peak, got %f", d)
	}
	if d := g.Degree(1); d != 0 {
		t.Errorf("expected 0 past vertical edge, got %f", d)
	}
	for x := -5.0; x <= 5; x += 0.1 {
		if d := g.Degree(x); math.IsNaN(d) || math.IsInf(d, 0) {
			t.Fatalf("NaN/Inf degree at x=%f", x)
		}
	}
}

func TestPointsRoundTrip(t *testing.T) {
	tri, _ := NewMembershipFunction([]float64{-2, 0, 2})
	if got := tri.Points(); len(got) != 3 {
		t.Errorf("expected 3 points, got %d", len(got))
	}
	if tri.Shape() != Triangular {
		t.Error("expected triangular shape")
	}

	trap, _ := NewMembershipFunction([]float64{0, 2, 4, 6})
	if got := trap.Points(); len(got) != 4 {
		t.Errorf("expected 4 points, got %d", len(got))
	}
	if trap.Shape() != Trapezoidal {
		t.Error("expected trapezoidal shape")
	}
}
