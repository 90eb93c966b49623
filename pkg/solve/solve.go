package solve

import (
	"math"
	"sort"
)

// invPhi is 1/φ, the golden-section shrink factor.
var invPhi = (math.Sqrt(5) - 1) / 2

// isFinite returns true if x is neither infinite nor NaN.
func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

// Linspace returns n+1 evenly spaced values from lo to hi inclusive.
// Values are computed as lo + (hi-lo)*i/n so that exact grid points
// (such as zero on a symmetric interval) are hit exactly.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return []float64{lo}
	}
	xs := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n)
	}
	xs[n] = hi
	return xs
}

// GoldenSection minimises f on [lo, hi] with exactly iterations shrink steps
// and returns the best point seen. Non-finite values of f count as +Inf.
func GoldenSection(f func(float64) float64, lo, hi float64, iterations int) (x, fx float64) {
	if hi < lo {
		lo, hi = hi, lo
	}
	eval := func(v float64) float64 {
		y := f(v)
		if !isFinite(y) {
			return math.Inf(1)
		}
		return y
	}

	c := hi - invPhi*(hi-lo)
	d := lo + invPhi*(hi-lo)
	fc, fd := eval(c), eval(d)

	for i := 0; i < iterations; i++ {
		if fc < fd {
			hi, d, fd = d, c, fc
			c = hi - invPhi*(hi-lo)
			fc = eval(c)
		} else {
			lo, c, fc = c, d, fd
			d = lo + invPhi*(hi-lo)
			fd = eval(d)
		}
	}

	if fc < fd {
		return c, fc
	}
	return d, fd
}

// GradientDescent walks t downhill from t0 for at most iterations steps,
// clamping to [lo, hi] after every step. grad returns the derivative at t and
// a positive scale; each step moves by -g/scale. The walk stops early when
// |g| < tol or the scale is not positive.
func GradientDescent(grad func(t float64) (g, scale float64), t0, lo, hi float64, iterations int, tol float64) float64 {
	t := math.Max(lo, math.Min(hi, t0))
	for i := 0; i < iterations; i++ {
		g, scale := grad(t)
		if !isFinite(g) || math.Abs(g) < tol || !(scale > 0) {
			break
		}
		next := math.Max(lo, math.Min(hi, t-g/scale))
		if next == t {
			break
		}
		t = next
	}
	return t
}

// Roots finds the zeros of f on [lo, hi]. The interval is scanned with
// samples sub-intervals; every sign change between two valid samples is
// refined with bisectIterations bisection steps, and exact zeros at sample
// points are reported directly. Samples where f has no value break the scan
// so no bracket spans a gap. Roots are returned ascending with near-duplicates
// (within a thousandth of the sample spacing) merged.
func Roots(f func(x float64) (float64, bool), lo, hi float64, samples, bisectIterations int) []float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	if samples < 1 {
		samples = 1
	}

	var roots []float64
	xs := Linspace(lo, hi, samples)

	prevX, prevY, prevOK := 0.0, 0.0, false
	for _, x := range xs {
		y, ok := f(x)
		if ok && !isFinite(y) {
			ok = false
		}
		switch {
		case !ok:
		case y == 0:
			roots = append(roots, x)
		case prevOK && prevY != 0 && (prevY < 0) != (y < 0):
			roots = append(roots, bisect(f, prevX, x, prevY, bisectIterations))
		}
		prevX, prevY, prevOK = x, y, ok
	}

	sort.Float64s(roots)
	return dedupe(roots, (hi-lo)/float64(samples)*1e-3)
}

// bisect narrows a sign-change bracket [a, b] where f(a) = fa.
func bisect(f func(float64) (float64, bool), a, b, fa float64, iterations int) float64 {
	for i := 0; i < iterations; i++ {
		m := 0.5 * (a + b)
		fm, ok := f(m)
		if !ok || !isFinite(fm) {
			break
		}
		if fm == 0 {
			return m
		}
		if (fm < 0) == (fa < 0) {
			a, fa = m, fm
		} else {
			b = m
		}
	}
	return 0.5 * (a + b)
}

func dedupe(sorted []float64, eps float64) []float64 {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, r := range sorted[1:] {
		if r-out[len(out)-1] > eps {
			out = append(out, r)
		}
	}
	return out
}

// Bracket returns the tightest pair of roots around x, a root equal to x
// counting as the left bound. When no root lies on a side, the corresponding
// domain bound is used instead.
func Bracket(roots []float64, x, lo, hi float64) (left, right float64) {
	left, right = lo, hi
	for _, r := range roots {
		if r <= x && r > left {
			left = r
		}
		if r > x && r < right {
			right = r
		}
	}
	return left, right
}
