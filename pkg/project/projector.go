package project

import (
	"time"

	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/observability"
)

// Projector projects onto elements, resolving their anchors on every call.
type Projector struct {
	Resolver *element.Resolver
	Options  Options
}

// New returns a Projector over r with normalized options.
func New(r *element.Resolver, opts Options) *Projector {
	return &Projector{Resolver: r, Options: opts.Normalize()}
}

// Project returns the closest point on e to p. Points and texts project to
// their own position. Areas, and functions without a value anywhere in
// their domain, report false.
func (pr *Projector) Project(p geom.Point, e element.Element) (Result, bool) {
	start := time.Now()
	out := element.Visit[projection](e, elementProjector{pr: pr, p: p})
	observability.Engine().OnProject(string(e.ElementKind()), out.ok, time.Since(start))
	return out.Result, out.ok
}

// Line projects p onto l.
func (pr *Projector) Line(p geom.Point, l *element.Line) Result {
	start, end := pr.Resolver.LineEnds(l)
	return OnLine(p, l.Kind, start, end)
}

// Curve projects p onto c.
func (pr *Projector) Curve(p geom.Point, c *element.Curve) Result {
	return OnQuad(p, pr.Resolver.CurveBezier(c), pr.Options)
}

// Function projects p onto the graph of f over its domain. It reports false
// when the expression does not compile or has no value in the domain.
func (pr *Projector) Function(p geom.Point, f *element.Function) (Result, bool) {
	bound, err := pr.Resolver.BindFunction(f)
	if err != nil {
		return Result{}, false
	}
	lo, hi := bound.Domain(pr.Resolver.Axes)
	return OnFunction(p, bound.At, lo, hi, pr.Options)
}

type projection struct {
	Result
	ok bool
}

type elementProjector struct {
	pr *Projector
	p  geom.Point
}

func (v elementProjector) at(c geom.Point) projection {
	return projection{Result{Coord: c, Distance: v.p.Distance(c)}, true}
}

func (v elementProjector) Point(pt *element.Point) projection {
	return v.at(v.pr.Resolver.PointPosition(pt))
}

func (v elementProjector) Line(l *element.Line) projection {
	return projection{v.pr.Line(v.p, l), true}
}

func (v elementProjector) Curve(c *element.Curve) projection {
	return projection{v.pr.Curve(v.p, c), true}
}

func (v elementProjector) Function(f *element.Function) projection {
	r, ok := v.pr.Function(v.p, f)
	return projection{r, ok}
}

func (elementProjector) Area(*element.Area) projection { return projection{} }

func (v elementProjector) Text(t *element.Text) projection {
	return v.at(geom.Pt(t.X, t.Y))
}
