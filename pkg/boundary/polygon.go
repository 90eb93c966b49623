package boundary

import (
	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/solve"
)

// edge is one side of an area polygon, expressed as anchors on the element
// that forms it.
type edge interface {
	anchor(x float64) (element.Anchor, bool)
	// straight edges only need their endpoints.
	straight() bool
}

type functionEdge element.BoundFunction

func (f functionEdge) anchor(x float64) (element.Anchor, bool) {
	b := element.BoundFunction(f)
	if _, ok := b.At(x); !ok {
		return nil, false
	}
	return element.FunctionParam{FunctionID: b.ID(), X: x}, true
}

func (functionEdge) straight() bool { return false }

type lineEdge struct {
	id   string
	s, e geom.Point
}

func (l lineEdge) t(x float64) float64 { return (x - l.s.X) / (l.e.X - l.s.X) }

func (l lineEdge) y(x float64) float64 { return l.s.Lerp(l.e, l.t(x)).Y }

func (l lineEdge) anchor(x float64) (element.Anchor, bool) {
	return element.LineParam{LineID: l.id, T: l.t(x)}, true
}

func (lineEdge) straight() bool { return true }

type axisEdge struct{}

func (axisEdge) anchor(x float64) (element.Anchor, bool) { return element.Coord{X: x}, true }
func (axisEdge) straight() bool                          { return true }

// polygon walks upper from a to b, then lower from b back to a. It fails
// when the interval is empty or fewer than three vertices have values.
func (r *Resolver) polygon(a, b float64, upper, lower edge) ([]element.Anchor, bool) {
	if !(b > a) {
		return nil, false
	}
	var out []element.Anchor
	walk := func(e edge, xs []float64) {
		for _, x := range xs {
			if p, ok := e.anchor(x); ok {
				out = append(out, p)
			}
		}
	}

	walk(upper, r.xs(a, b, upper))
	back := r.xs(a, b, lower)
	for i, j := 0, len(back)-1; i < j; i, j = i+1, j-1 {
		back[i], back[j] = back[j], back[i]
	}
	walk(lower, back)

	return out, len(out) >= 3
}

func (r *Resolver) xs(a, b float64, e edge) []float64 {
	if e.straight() {
		return []float64{a, b}
	}
	return solve.Linspace(a, b, r.Options.Samples)
}

// Polygon returns renderable vertices for any area. Areas derived from a
// function are re-sampled from their definition (function, partner
// function or line, and domain) when it is still intact; otherwise, and for
// plain polygons, the stored anchors are resolved, dropping any that no
// longer resolve.
func (r *Resolver) Polygon(area *element.Area) []geom.Point {
	if anchors, ok := r.regenerate(area); ok {
		shaped := *area
		shaped.Points = anchors
		area = &shaped
	}
	return r.elements().AreaPoints(area)
}

func (r *Resolver) regenerate(area *element.Area) ([]element.Anchor, bool) {
	if area.Mode == element.ModePolygon || area.Domain == nil || area.FunctionID == "" {
		return nil, false
	}
	c := r.elements().Elements
	bind := func(id string) (element.BoundFunction, bool) {
		f := c.Function(id)
		if f == nil {
			return element.BoundFunction{}, false
		}
		b, err := r.elements().BindFunction(f)
		return b, err == nil
	}

	f1, ok := bind(area.FunctionID)
	if !ok {
		return nil, false
	}
	var lower edge
	switch area.Mode {
	case element.ModeBetweenFunctions:
		f2, ok := bind(area.FunctionID2)
		if !ok {
			return nil, false
		}
		lower = functionEdge(f2)
	case element.ModeBetweenLineAndFunction:
		l := c.Line(area.LineID)
		if l == nil {
			return nil, false
		}
		s, e := r.elements().LineEnds(l)
		if isVertical(s, e) {
			return nil, false
		}
		lower = lineEdge{id: l.ID, s: s, e: e}
	default:
		lower = axisEdge{}
	}
	return r.polygon(area.Domain.Min, area.Domain.Max, functionEdge(f1), lower)
}
