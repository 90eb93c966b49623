package project

import (
	"math"

	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/solve"
)

// Result is the closest point found on an element.
type Result struct {
	// Coord is the closest point.
	Coord geom.Point `json:"coord"`
	// Param locates Coord on the element: t for lines and curves, x for functions.
	Param float64 `json:"param"`
	// Distance is the Euclidean distance from the query point to Coord.
	Distance float64 `json:"distance"`
}

// Refinement bounds.
const (
	MinCurveSamples    = 20
	MaxCurveIterations = 5
	MinFunctionSamples = 50

	DefaultFunctionIterations = 15
)

// gradTol stops the curve descent once the gradient is negligible.
const gradTol = 1e-12

// Options bound the sampling and refinement work per query.
type Options struct {
	CurveSamples       int `json:"curveSamples" toml:"curve_samples"`
	CurveIterations    int `json:"curveIterations" toml:"curve_iterations"`
	FunctionSamples    int `json:"functionSamples" toml:"function_samples"`
	FunctionIterations int `json:"functionIterations" toml:"function_iterations"`
}

// DefaultOptions returns the standard sampling budget.
func DefaultOptions() Options {
	return Options{
		CurveSamples:       MinCurveSamples,
		CurveIterations:    MaxCurveIterations,
		FunctionSamples:    MinFunctionSamples,
		FunctionIterations: DefaultFunctionIterations,
	}
}

// Normalize raises sample counts to their minimums and keeps the curve
// iteration count within (0, MaxCurveIterations].
func (o Options) Normalize() Options {
	if o.CurveSamples < MinCurveSamples {
		o.CurveSamples = MinCurveSamples
	}
	if o.CurveIterations <= 0 || o.CurveIterations > MaxCurveIterations {
		o.CurveIterations = MaxCurveIterations
	}
	if o.FunctionSamples < MinFunctionSamples {
		o.FunctionSamples = MinFunctionSamples
	}
	if o.FunctionIterations <= 0 {
		o.FunctionIterations = DefaultFunctionIterations
	}
	return o
}

// OnLine projects p onto the line through start and end, restricted to the
// extent of kind. A degenerate line (start == end) projects to start with t = 0.
func OnLine(p geom.Point, kind element.LineKind, start, end geom.Point) Result {
	d := end.Sub(start)
	lenSq := d.LengthSquared()
	if lenSq == 0 {
		return Result{Coord: start, Param: 0, Distance: p.Distance(start)}
	}
	t := kind.Clamp(p.Sub(start).Dot(d) / lenSq)
	c := start.Lerp(end, t)
	return Result{Coord: c, Param: t, Distance: p.Distance(c)}
}

// OnQuad projects p onto a quadratic Bézier. The best of CurveSamples+1
// evenly spaced parameters seeds at most CurveIterations Gauss-Newton
// steps on the squared distance.
func OnQuad(p geom.Point, bez geom.QuadBez, opts Options) Result {
	opts = opts.Normalize()
	if bez.IsDegenerate() {
		return Result{Coord: bez.P0, Distance: p.Distance(bez.P0)}
	}

	bestT, bestD := 0.0, math.Inf(1)
	for i, q := range bez.Sample(opts.CurveSamples) {
		if d := p.DistanceSquared(q); d < bestD {
			bestT, bestD = float64(i)/float64(opts.CurveSamples), d
		}
	}

	grad := func(t float64) (float64, float64) {
		b := bez.Eval(t)
		db := bez.Deriv(t)
		return 2 * b.Sub(p).Dot(db), 2 * db.LengthSquared()
	}
	t := solve.GradientDescent(grad, bestT, 0, 1, opts.CurveIterations, gradTol)
	if c := bez.Eval(t); p.DistanceSquared(c) <= bestD {
		bestT = t
	}

	c := bez.Eval(bestT)
	return Result{Coord: c, Param: bestT, Distance: p.Distance(c)}
}

// OnFunction projects p onto the graph of f over [lo, hi]. Samples where f
// has no value are skipped; it reports false when no sample has a value.
// The best sample is refined by golden-section search between its
// neighbouring samples.
func OnFunction(p geom.Point, f func(x float64) (float64, bool), lo, hi float64, opts Options) (Result, bool) {
	opts = opts.Normalize()
	if !(hi > lo) || !geom.IsFinite(lo) || !geom.IsFinite(hi) {
		return Result{}, false
	}

	distSq := func(x float64) float64 {
		y, ok := f(x)
		if !ok {
			return math.Inf(1)
		}
		return p.DistanceSquared(geom.Pt(x, y))
	}

	xs := solve.Linspace(lo, hi, opts.FunctionSamples)
	best, bestD := -1, math.Inf(1)
	for i, x := range xs {
		if d := distSq(x); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return Result{}, false
	}

	a := xs[max(best-1, 0)]
	b := xs[min(best+1, len(xs)-1)]
	x := xs[best]
	if rx, rd := solve.GoldenSection(distSq, a, b, opts.FunctionIterations); rd < bestD {
		x = rx
	}

	y, _ := f(x)
	c := geom.Pt(x, y)
	return Result{Coord: c, Param: x, Distance: p.Distance(c)}, true
}
