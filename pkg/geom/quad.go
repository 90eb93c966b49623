package geom

// QuadBez represents a quadratic Bézier curve with control points P0, P1, P2.
// P0 is the start point, P1 is the control point, P2 is the end point.
type QuadBez struct {
	P0, P1, P2 Point
}

// NewQuadBez creates a new quadratic Bézier curve.
func NewQuadBez(p0, p1, p2 Point) QuadBez {
	return QuadBez{P0: p0, P1: p1, P2: p2}
}

// Eval evaluates the curve at parameter t (0 to 1).
func (q QuadBez) Eval(t float64) Point {
	mt := 1.0 - t
	// (1-t)^2 * P0 + 2(1-t)t * P1 + t^2 * P2
	return Point{
		X: mt*mt*q.P0.X + 2*mt*t*q.P1.X + t*t*q.P2.X,
		Y: mt*mt*q.P0.Y + 2*mt*t*q.P1.Y + t*t*q.P2.Y,
	}
}

// Deriv evaluates the first derivative B'(t) = 2[(P1-P0) + t(P2-2P1+P0)].
func (q QuadBez) Deriv(t float64) Point {
	d0 := q.P1.Sub(q.P0)
	d1 := q.P2.Sub(q.P1)
	return d0.Add(d1.Sub(d0).Mul(t)).Mul(2)
}

// Start returns the starting point of the curve.
func (q QuadBez) Start() Point {
	return q.P0
}

// End returns the ending point of the curve.
func (q QuadBez) End() Point {
	return q.P2
}

// IsDegenerate reports whether all three control points coincide.
func (q QuadBez) IsDegenerate() bool {
	return q.P0 == q.P1 && q.P1 == q.P2
}

// Sample returns n+1 points evenly spaced in parameter space, endpoints included.
func (q QuadBez) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = q.Eval(float64(i) / float64(n))
	}
	return pts
}
