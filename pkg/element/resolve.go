package element

import (
	"slices"

	"github.com/matzehuels/graphplane/pkg/errors"
	"github.com/matzehuels/graphplane/pkg/expr"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/plane"
)

// maxDepth bounds chains of references such as a point anchored to a line
// whose endpoints are anchored to other points. Deeper chains are treated
// as cycles.
const maxDepth = 16

// Resolver turns anchors into positions by looking up their targets in
// Elements on every call. Nothing is cached: a position computed before a
// mutation is never reused after it.
type Resolver struct {
	Elements *Collection
	Compiler expr.Compiler
	Axes     plane.Axes
}

// NewResolver returns a resolver over c. A nil compiler gets the default
// expression compiler.
func NewResolver(c *Collection, compiler expr.Compiler, axes plane.Axes) *Resolver {
	if compiler == nil {
		compiler = expr.NewCompiler()
	}
	return &Resolver{Elements: c, Compiler: compiler, Axes: axes}
}

// Resolve returns the position of a, or the origin when a cannot be resolved.
func (r *Resolver) Resolve(a Anchor) geom.Point {
	p, _ := r.ResolveOK(a)
	return p
}

// ResolveOK returns the position of a and whether it resolved. Missing
// targets, functions with no value at the anchor's x, and reference cycles
// all yield (origin, false).
func (r *Resolver) ResolveOK(a Anchor) (geom.Point, bool) {
	return r.resolve(a, 0)
}

func (r *Resolver) resolve(a Anchor, depth int) (geom.Point, bool) {
	if a == nil || depth > maxDepth {
		return geom.Origin, false
	}
	res := VisitAnchor[resolution](a, anchorResolver{r: r, depth: depth})
	if !res.ok || !res.p.IsFinite() {
		return geom.Origin, false
	}
	return res.p, true
}

type resolution struct {
	p  geom.Point
	ok bool
}

type anchorResolver struct {
	r     *Resolver
	depth int
}

func (v anchorResolver) Coord(c Coord) resolution {
	return resolution{c.Point(), true}
}

func (v anchorResolver) PointRef(a PointRef) resolution {
	p := v.r.Elements.Point(a.PointID)
	if p == nil {
		return resolution{}
	}
	pos, ok := v.r.pointPosition(p, v.depth+1)
	return resolution{pos, ok}
}

func (v anchorResolver) LineParam(a LineParam) resolution {
	l := v.r.Elements.Line(a.LineID)
	if l == nil {
		return resolution{}
	}
	start, end, ok := v.r.lineEnds(l, v.depth+1)
	return resolution{start.Lerp(end, a.T), ok}
}

func (v anchorResolver) CurveParam(a CurveParam) resolution {
	c := v.r.Elements.Curve(a.CurveID)
	if c == nil {
		return resolution{}
	}
	bez, ok := v.r.curveBezier(c, v.depth+1)
	return resolution{bez.Eval(geom.Clamp(a.T, 0, 1)), ok}
}

func (v anchorResolver) FunctionParam(a FunctionParam) resolution {
	f := v.r.Elements.Function(a.FunctionID)
	if f == nil {
		return resolution{}
	}
	bound, err := v.r.BindFunction(f)
	if err != nil {
		return resolution{}
	}
	y, ok := bound.At(a.X)
	return resolution{geom.Pt(a.X, y), ok}
}

// PointPosition returns where p currently sits: its anchor's position when
// anchored to an element, else (X, Y). A dangling anchor yields the origin.
func (r *Resolver) PointPosition(p *Point) geom.Point {
	pos, _ := r.pointPosition(p, 0)
	return pos
}

func (r *Resolver) pointPosition(p *Point, depth int) (geom.Point, bool) {
	if IsFree(p.Anchor) {
		return geom.Pt(p.X, p.Y), true
	}
	return r.resolve(p.Anchor, depth)
}

// LineEnds returns the resolved defining points of l.
func (r *Resolver) LineEnds(l *Line) (start, end geom.Point) {
	start, end, _ = r.lineEnds(l, 0)
	return start, end
}

func (r *Resolver) lineEnds(l *Line, depth int) (geom.Point, geom.Point, bool) {
	start, ok1 := r.resolve(l.Start, depth)
	end, ok2 := r.resolve(l.End, depth)
	return start, end, ok1 && ok2
}

// LineAt returns the point at parameter t along l, clamped to its extent.
func (r *Resolver) LineAt(l *Line, t float64) geom.Point {
	start, end := r.LineEnds(l)
	return start.Lerp(end, l.Kind.Clamp(t))
}

// CurveBezier returns the quadratic Bézier for c at its current anchors.
func (r *Resolver) CurveBezier(c *Curve) geom.QuadBez {
	bez, _ := r.curveBezier(c, 0)
	return bez
}

func (r *Resolver) curveBezier(c *Curve, depth int) (geom.QuadBez, bool) {
	start, ok1 := r.resolve(c.Start, depth)
	end, ok2 := r.resolve(c.End, depth)
	return CurveBezier(start, end, c.Curvature), ok1 && ok2
}

// BindFunction compiles f's expression and applies its transform.
func (r *Resolver) BindFunction(f *Function) (BoundFunction, error) {
	fn, err := r.Compiler.Compile(f.Expression)
	if err != nil {
		return BoundFunction{}, errors.Wrap(errors.ErrCodeInvalidExpression, err, "function %q", f.ID)
	}
	return BoundFunction{Function: f, fn: fn}, nil
}

// AreaPoints resolves an area's polygon anchors, dropping those that no
// longer resolve.
func (r *Resolver) AreaPoints(a *Area) []geom.Point {
	out := make([]geom.Point, 0, len(a.Points))
	for _, p := range a.Points {
		if pos, ok := r.ResolveOK(p); ok {
			out = append(out, pos)
		}
	}
	return out
}

// BoundFunction is a compiled Function ready for evaluation.
type BoundFunction struct {
	Function *Function
	fn       expr.Func
}

// ID returns the id of the underlying function.
func (b BoundFunction) ID() string { return b.Function.ID }

// At evaluates ScaleY·f(x − OffsetX) + OffsetY. It reports false where the
// function has no finite value, including outside an explicit domain.
func (b BoundFunction) At(x float64) (float64, bool) {
	if b.fn == nil {
		return 0, false
	}
	if d := b.Function.Domain; d != nil && d.Valid() && !d.Contains(x) {
		return 0, false
	}
	y, ok := expr.Eval(b.fn, x-b.Function.OffsetX)
	if !ok {
		return 0, false
	}
	y = b.Function.ScaleY*y + b.Function.OffsetY
	return y, geom.IsFinite(y)
}

// Domain returns the x interval the function is drawn on: its explicit
// domain if valid, else the visible x range of a.
func (b BoundFunction) Domain(a plane.Axes) (lo, hi float64) {
	if d := b.Function.Domain; d != nil && d.Valid() {
		return d.Min, d.Max
	}
	a, _ = a.Repair()
	return a.XMin, a.XMax
}

// =============================================================================
// Cascading delete
// =============================================================================

// Delete removes the element with the given id and freezes every anchor
// that referenced it to a Coord at the position it resolved to just before
// removal. Anchored points become free points. Areas forget the id as a
// boundary, as an ignored boundary and as their function or line.
func (r *Resolver) Delete(id string) error {
	if !r.Elements.Has(id) {
		return errors.New(errors.ErrCodeElementNotFound, "element %q not found", id)
	}

	// Resolve everything first so frozen positions reflect the pre-delete state.
	f := freezer{r: r, id: id}
	var edits []func()
	for _, e := range r.Elements.All() {
		if e.ElementID() == id {
			continue
		}
		if edit := Visit[func()](e, f); edit != nil {
			edits = append(edits, edit)
		}
	}
	r.Elements.Remove(id)
	for _, edit := range edits {
		edit()
	}
	return nil
}

// freezer returns, per element, a deferred edit that detaches it from id.
type freezer struct {
	r  *Resolver
	id string
}

func (f freezer) freeze(a Anchor) Anchor {
	if a == nil || !a.Refers(f.id) {
		return a
	}
	return CoordOf(f.r.Resolve(a))
}

func (f freezer) Point(p *Point) func() {
	if p.Anchor == nil || !p.Anchor.Refers(f.id) {
		return nil
	}
	pos := f.r.PointPosition(p)
	return func() {
		p.X, p.Y = pos.X, pos.Y
		p.Anchor = nil
	}
}

func (f freezer) Line(l *Line) func() {
	start, end := f.freeze(l.Start), f.freeze(l.End)
	return func() { l.Start, l.End = start, end }
}

func (f freezer) Curve(c *Curve) func() {
	start, end := f.freeze(c.Start), f.freeze(c.End)
	return func() { c.Start, c.End = start, end }
}

func (freezer) Function(*Function) func() { return nil }

func (f freezer) Area(a *Area) func() {
	points := make([]Anchor, len(a.Points))
	for i, p := range a.Points {
		points[i] = f.freeze(p)
	}
	drop := func(s string) bool { return s == f.id }
	return func() {
		a.Points = points
		a.BoundaryIDs = slices.DeleteFunc(a.BoundaryIDs, drop)
		a.IgnoredIDs = slices.DeleteFunc(a.IgnoredIDs, drop)
		if a.FunctionID == f.id {
			a.FunctionID = ""
		}
		if a.FunctionID2 == f.id {
			a.FunctionID2 = ""
		}
		if a.LineID == f.id {
			a.LineID = ""
		}
	}
}

func (freezer) Text(*Text) func() { return nil }
