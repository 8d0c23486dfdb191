package fuzzy

import "math"

// Shape discriminates the two supported membership function forms.
type Shape uint8

const (
	Triangular Shape = iota
	Trapezoidal
)

// MembershipFunction is a triangular (a, b, c) or trapezoidal
// (a, b, c, d) fuzzy set over a shared numeric domain.
type MembershipFunction struct {
	shape Shape
	pts   [4]float64
}

// NewMembershipFunction builds a fuzzy set from its breakpoints.
// Exactly 3 points define a triangle, exactly 4 a trapezoid; anything
// else is ErrMalformedMembership. Points must be non-decreasing.
func NewMembershipFunction(points []float64) (MembershipFunction, error) {
	var f MembershipFunction

	switch len(points) {
	case 3:
		f.shape = Triangular
	case 4:
		f.shape = Trapezoidal
	default:
		return f, ErrMalformedMembership
	}

	for i := 1; i < len(points); i++ {
		if points[i] < points[i-1] {
			return f, ErrUnorderedBreakpoints
		}
	}

	copy(f.pts[:], points)
	return f, nil
}

// Shape reports whether the set is triangular or trapezoidal.
func (f MembershipFunction) Shape() Shape {
	return f.shape
}

// Points returns the breakpoints, 3 for triangles and 4 for trapezoids.
func (f MembershipFunction) Points() []float64 {
	if f.shape == Triangular {
		return []float64{f.pts[0], f.pts[1], f.pts[2]}
	}
	return []float64{f.pts[0], f.pts[1], f.pts[2], f.pts[3]}
}

// Degree evaluates the membership degree at x, always in [0, 1].
func (f MembershipFunction) Degree(x float64) float64 {
	var d float64
	if f.shape == Trapezoidal {
		d = math.Min(rising(x, f.pts[0], f.pts[1]), math.Min(1, falling(x, f.pts[2], f.pts[3])))
	} else {
		d = math.Min(rising(x, f.pts[0], f.pts[1]), falling(x, f.pts[1], f.pts[2]))
	}
	return clamp01(d)
}

// rising evaluates the left ramp. A zero-width ramp is a vertical step:
// 0 below the edge, saturated at and past it.
func rising(x, a, b float64) float64 {
	if a == b {
		if x < a {
			return 0
		}
		return 1
	}
	return (x - a) / (b - a)
}

// falling evaluates the right ramp, with the same zero-width guard.
func falling(x, c, d float64) float64 {
	if c == d {
		if x > d {
			return 0
		}
		return 1
	}
	return (d - x) / (d - c)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
