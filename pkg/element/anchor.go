package element

import (
	"fmt"
	"slices"

	"github.com/matzehuels/graphplane/pkg/geom"
)

// Anchor specifies a position either literally or by reference.
type Anchor interface {
	// Refers reports whether the anchor depends on the element with the given id.
	Refers(id string) bool
	fmt.Stringer

	isAnchor()
}

// Coord is an explicit position. It is the only free anchor.
type Coord struct {
	X, Y float64
}

// CoordOf returns the Coord anchor for p.
func CoordOf(p geom.Point) Coord { return Coord{X: p.X, Y: p.Y} }

// Point returns the coordinate as a geom.Point.
func (c Coord) Point() geom.Point { return geom.Pt(c.X, c.Y) }

func (Coord) Refers(string) bool { return false }
func (c Coord) String() string   { return fmt.Sprintf("coord(%g, %g)", c.X, c.Y) }
func (Coord) isAnchor()          {}

// PointRef ties a position to a Point element.
type PointRef struct {
	PointID string
}

func (a PointRef) Refers(id string) bool { return a.PointID == id }
func (a PointRef) String() string        { return "point(" + a.PointID + ")" }
func (PointRef) isAnchor()               {}

// LineParam is the point at parameter T along a Line (start + T·(end−start)).
type LineParam struct {
	LineID string
	T      float64
}

func (a LineParam) Refers(id string) bool { return a.LineID == id }
func (a LineParam) String() string        { return fmt.Sprintf("line(%s, t=%g)", a.LineID, a.T) }
func (LineParam) isAnchor()               {}

// CurveParam is the point at parameter T along a Curve.
type CurveParam struct {
	CurveID string
	T       float64
}

func (a CurveParam) Refers(id string) bool { return a.CurveID == id }
func (a CurveParam) String() string        { return fmt.Sprintf("curve(%s, t=%g)", a.CurveID, a.T) }
func (CurveParam) isAnchor()               {}

// FunctionParam is the point (X, f(X)) on a Function.
type FunctionParam struct {
	FunctionID string
	X          float64
}

func (a FunctionParam) Refers(id string) bool { return a.FunctionID == id }
func (a FunctionParam) String() string        { return fmt.Sprintf("function(%s, x=%g)", a.FunctionID, a.X) }
func (FunctionParam) isAnchor()               {}

// AnchorVisitor handles every anchor variant.
type AnchorVisitor[T any] interface {
	Coord(Coord) T
	PointRef(PointRef) T
	LineParam(LineParam) T
	CurveParam(CurveParam) T
	FunctionParam(FunctionParam) T
}

// VisitAnchor dispatches a to the matching method of v.
// It panics on a nil anchor; callers check for absence first.
func VisitAnchor[T any](a Anchor, v AnchorVisitor[T]) T {
	switch a := a.(type) {
	case Coord:
		return v.Coord(a)
	case PointRef:
		return v.PointRef(a)
	case LineParam:
		return v.LineParam(a)
	case CurveParam:
		return v.CurveParam(a)
	case FunctionParam:
		return v.FunctionParam(a)
	}
	panic(fmt.Sprintf("element: unknown anchor type %T", a))
}

// IsFree reports whether a is a Coord (or absent).
func IsFree(a Anchor) bool {
	if a == nil {
		return true
	}
	_, ok := a.(Coord)
	return ok
}

// Anchors returns the anchors that position e, skipping absent ones.
func Anchors(e Element) []Anchor {
	all := Visit[[]Anchor](e, anchorLister{})
	out := all[:0]
	for _, a := range all {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// RefersTo reports whether any anchor of e refers to the element id.
func RefersTo(e Element, id string) bool {
	for _, a := range Anchors(e) {
		if a.Refers(id) {
			return true
		}
	}
	return false
}

type anchorLister struct{}

func (anchorLister) Point(p *Point) []Anchor     { return []Anchor{p.Anchor} }
func (anchorLister) Line(l *Line) []Anchor       { return []Anchor{l.Start, l.End} }
func (anchorLister) Curve(c *Curve) []Anchor     { return []Anchor{c.Start, c.End} }
func (anchorLister) Function(*Function) []Anchor { return nil }
func (anchorLister) Area(a *Area) []Anchor       { return slices.Clone(a.Points) }
func (anchorLister) Text(*Text) []Anchor         { return nil }
