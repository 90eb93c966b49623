package element

import (
	"fmt"
	"slices"

	"github.com/matzehuels/graphplane/pkg/geom"
)

// Kind names an element variant.
type Kind string

// Element kinds.
const (
	KindPoint    Kind = "point"
	KindLine     Kind = "line"
	KindCurve    Kind = "curve"
	KindFunction Kind = "function"
	KindArea     Kind = "area"
	KindText     Kind = "text"
)

// Element is one drawable object on the plane.
type Element interface {
	ElementID() string
	ElementKind() Kind

	isElement()
}

// Style holds stroke attributes shared by lines, curves and functions.
// The engine carries them through untouched.
type Style struct {
	Color  string
	Width  float64
	Dashed bool
}

// Fill holds the paint of an Area.
type Fill struct {
	Color   string
	Opacity float64
}

// Domain is a closed x interval.
type Domain struct {
	Min, Max float64
}

// Valid reports whether the interval is finite and non-empty.
func (d Domain) Valid() bool {
	return geom.IsFinite(d.Min) && geom.IsFinite(d.Max) && d.Max > d.Min
}

// Contains reports whether x lies in the interval.
func (d Domain) Contains(x float64) bool { return x >= d.Min && x <= d.Max }

// =============================================================================
// Point
// =============================================================================

// Point is a labelled dot. When Anchor is nil or a Coord, the point is free
// and sits at (X, Y); otherwise its position follows the anchor.
type Point struct {
	ID          string
	X, Y        float64
	Label       string
	LabelIsMath bool
	Color       string
	Size        float64
	Filled      bool
	Anchor      Anchor
}

func (p *Point) ElementID() string { return p.ID }
func (*Point) ElementKind() Kind   { return KindPoint }
func (*Point) isElement()          {}

// =============================================================================
// Line
// =============================================================================

// LineKind selects how far a line extends past its defining anchors.
type LineKind string

// Line kinds.
const (
	// Segment is bounded at both anchors.
	Segment LineKind = "segment"
	// Ray is bounded at Start and unbounded toward End.
	Ray LineKind = "ray"
	// FullLine is unbounded both ways.
	FullLine LineKind = "line"
)

// Valid reports whether k is a known line kind.
func (k LineKind) Valid() bool {
	return k == Segment || k == Ray || k == FullLine
}

// Clamp restricts a projection parameter to the extent of the kind:
// [0,1] for segments, [0,∞) for rays, unrestricted for lines.
func (k LineKind) Clamp(t float64) float64 {
	switch k {
	case Segment:
		return geom.Clamp(t, 0, 1)
	case Ray:
		if t < 0 {
			return 0
		}
	}
	return t
}

// Line is a segment, ray or full line through two anchors.
type Line struct {
	ID    string
	Kind  LineKind
	Start Anchor
	End   Anchor
	Style Style
}

func (l *Line) ElementID() string { return l.ID }
func (*Line) ElementKind() Kind   { return KindLine }
func (*Line) isElement()          {}

// =============================================================================
// Curve
// =============================================================================

// Curve is a quadratic Bézier from Start to End whose control point is the
// chord midpoint pushed Curvature units along the chord's left normal.
// Curvature 0 is a straight segment.
type Curve struct {
	ID        string
	Start     Anchor
	End       Anchor
	Curvature float64
	Style     Style
}

func (c *Curve) ElementID() string { return c.ID }
func (*Curve) ElementKind() Kind   { return KindCurve }
func (*Curve) isElement()          {}

// CurveBezier builds the quadratic Bézier for a chord and curvature.
// A zero-length chord has no normal, so the control point is the midpoint.
func CurveBezier(start, end geom.Point, curvature float64) geom.QuadBez {
	mid := start.Midpoint(end)
	ctrl := mid.Add(end.Sub(start).Normal().Mul(curvature))
	return geom.NewQuadBez(start, ctrl, end)
}

// =============================================================================
// Function
// =============================================================================

// Function is the graph of y = ScaleY·f(x − OffsetX) + OffsetY.
// A nil Domain means the visible x range.
type Function struct {
	ID         string
	Expression string
	Domain     *Domain
	OffsetX    float64
	OffsetY    float64
	ScaleY     float64
	Style      Style
}

// NewFunction returns an untransformed function (ScaleY 1, no offsets).
func NewFunction(id, expression string) *Function {
	return &Function{ID: id, Expression: expression, ScaleY: 1}
}

func (f *Function) ElementID() string { return f.ID }
func (*Function) ElementKind() Kind   { return KindFunction }
func (*Function) isElement()          {}

// =============================================================================
// Area
// =============================================================================

// AreaMode records how an area's polygon was produced.
type AreaMode string

// Area modes.
const (
	ModePolygon                AreaMode = "polygon"
	ModeUnderFunction          AreaMode = "under-function"
	ModeBetweenFunctions       AreaMode = "between-functions"
	ModeBetweenLineAndFunction AreaMode = "between-line-and-function"
)

// Valid reports whether m is a known area mode.
func (m AreaMode) Valid() bool {
	switch m {
	case ModePolygon, ModeUnderFunction, ModeBetweenFunctions, ModeBetweenLineAndFunction:
		return true
	}
	return false
}

// Area is a filled region. It is bounded once it has at least three polygon
// points; until then only its label/control point exists.
type Area struct {
	ID          string
	Mode        AreaMode
	Points      []Anchor
	FunctionID  string
	FunctionID2 string
	LineID      string
	Domain      *Domain
	// BoundaryIDs lists the elements (and axis ids) that shaped the polygon.
	BoundaryIDs []string
	// IgnoredIDs are boundaries excluded from the next boundary resolution.
	IgnoredIDs []string
	LabelPos   *geom.Point
	Fill       Fill
}

func (a *Area) ElementID() string { return a.ID }
func (*Area) ElementKind() Kind   { return KindArea }
func (*Area) isElement()          {}

// Bounded reports whether the area has a drawable polygon.
func (a *Area) Bounded() bool { return len(a.Points) >= 3 }

// Ignores reports whether id is on the area's ignore list.
func (a *Area) Ignores(id string) bool { return slices.Contains(a.IgnoredIDs, id) }

// Clone returns a deep copy of the area.
func (a *Area) Clone() *Area {
	out := *a
	out.Points = slices.Clone(a.Points)
	out.BoundaryIDs = slices.Clone(a.BoundaryIDs)
	out.IgnoredIDs = slices.Clone(a.IgnoredIDs)
	if a.Domain != nil {
		d := *a.Domain
		out.Domain = &d
	}
	if a.LabelPos != nil {
		p := *a.LabelPos
		out.LabelPos = &p
	}
	return &out
}

// WithLabel returns a copy of the area with its label moved to p.
func (a *Area) WithLabel(p geom.Point) *Area {
	out := a.Clone()
	out.LabelPos = &p
	return out
}

// =============================================================================
// Text
// =============================================================================

// Text is a free-standing label.
type Text struct {
	ID     string
	X, Y   float64
	Text   string
	IsMath bool
}

func (t *Text) ElementID() string { return t.ID }
func (*Text) ElementKind() Kind   { return KindText }
func (*Text) isElement()          {}

// =============================================================================
// Visitor
// =============================================================================

// Visitor handles every element variant.
type Visitor[T any] interface {
	Point(*Point) T
	Line(*Line) T
	Curve(*Curve) T
	Function(*Function) T
	Area(*Area) T
	Text(*Text) T
}

// Visit dispatches e to the matching method of v.
func Visit[T any](e Element, v Visitor[T]) T {
	switch e := e.(type) {
	case *Point:
		return v.Point(e)
	case *Line:
		return v.Line(e)
	case *Curve:
		return v.Curve(e)
	case *Function:
		return v.Function(e)
	case *Area:
		return v.Area(e)
	case *Text:
		return v.Text(e)
	}
	panic(fmt.Sprintf("element: unknown element type %T", e))
}
