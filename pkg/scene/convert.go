package scene

import (
	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/errors"
	"github.com/matzehuels/graphplane/pkg/plane"
)

// Document is a decoded scene.
type Document struct {
	Axes     plane.Axes
	Viewport plane.Viewport
	Elements *element.Collection
	// Repaired is set when the decoded axes were invalid and had to be reset.
	Repaired bool
}

// New returns an empty document on the default plane.
func New() *Document {
	c, _ := element.NewCollection()
	return &Document{
		Axes:     plane.DefaultAxes(),
		Viewport: plane.DefaultViewport(),
		Elements: c,
	}
}

// FromDocument converts a document to its serialization format.
// Elements keep their insertion order.
func FromDocument(doc *Document) Scene {
	axes, vp := doc.Axes, doc.Viewport
	out := Scene{Axes: &axes, Viewport: &vp, Elements: []Element{}}
	if doc.Elements == nil {
		return out
	}
	for _, e := range doc.Elements.All() {
		out.Elements = append(out.Elements, element.Visit[Element](e, encoder{}))
	}
	return out
}

// ToDocument converts a Scene into a Document, validating every element.
// Invalid axes are repaired rather than rejected.
func ToDocument(s Scene) (*Document, error) {
	doc := New()
	if s.Axes != nil {
		doc.Axes, doc.Repaired = s.Axes.Repair()
	}
	if s.Viewport != nil {
		doc.Viewport = *s.Viewport
	}
	for i, ej := range s.Elements {
		e, err := decodeElement(ej)
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidElement), err, "element %d", i)
		}
		if _, err := doc.Elements.Add(e); err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidElement), err, "element %d", i)
		}
	}
	return doc, nil
}

// =============================================================================
// Encoding
// =============================================================================

type encoder struct{}

func ptr[T any](v T) *T { return &v }

func (encoder) Point(p *element.Point) Element {
	return Element{
		Type:        TypePoint,
		ID:          p.ID,
		X:           ptr(p.X),
		Y:           ptr(p.Y),
		Label:       p.Label,
		LabelIsMath: p.LabelIsMath,
		Color:       p.Color,
		Size:        p.Size,
		Filled:      p.Filled,
		Anchor:      EncodeAnchor(p.Anchor),
	}
}

func (encoder) Line(l *element.Line) Element {
	return Element{
		Type:  TypeLine,
		ID:    l.ID,
		Kind:  string(l.Kind),
		Start: EncodeAnchor(l.Start),
		End:   EncodeAnchor(l.End),
		Style: encodeStyle(l.Style),
	}
}

func (encoder) Curve(c *element.Curve) Element {
	return Element{
		Type:      TypeCurve,
		ID:        c.ID,
		Start:     EncodeAnchor(c.Start),
		End:       EncodeAnchor(c.End),
		Curvature: c.Curvature,
		Style:     encodeStyle(c.Style),
	}
}

func (encoder) Function(f *element.Function) Element {
	out := Element{
		Type:       TypeFunction,
		ID:         f.ID,
		Expression: f.Expression,
		OffsetX:    f.OffsetX,
		OffsetY:    f.OffsetY,
		Domain:     encodeDomain(f.Domain),
		Style:      encodeStyle(f.Style),
	}
	if f.ScaleY != 1 {
		out.ScaleY = ptr(f.ScaleY)
	}
	return out
}

func (encoder) Area(a *element.Area) Element {
	out := Element{
		Type:        TypeArea,
		ID:          a.ID,
		Mode:        string(a.Mode),
		FunctionID:  a.FunctionID,
		FunctionID2: a.FunctionID2,
		LineID:      a.LineID,
		Domain:      encodeDomain(a.Domain),
		BoundaryIDs: a.BoundaryIDs,
		IgnoredIDs:  a.IgnoredIDs,
		LabelPos:    a.LabelPos,
	}
	for _, p := range a.Points {
		out.Points = append(out.Points, *EncodeAnchor(p))
	}
	if a.Fill != (element.Fill{}) {
		out.Fill = &Fill{Color: a.Fill.Color, Opacity: a.Fill.Opacity}
	}
	return out
}

func (encoder) Text(t *element.Text) Element {
	return Element{
		Type:   TypeText,
		ID:     t.ID,
		X:      ptr(t.X),
		Y:      ptr(t.Y),
		Text:   t.Text,
		IsMath: t.IsMath,
	}
}

func encodeStyle(s element.Style) *Style {
	if s == (element.Style{}) {
		return nil
	}
	return &Style{Color: s.Color, Width: s.Width, Dashed: s.Dashed}
}

func encodeDomain(d *element.Domain) *Domain {
	if d == nil {
		return nil
	}
	return &Domain{Min: d.Min, Max: d.Max}
}

// EncodeAnchor converts an anchor to its wire form. A nil anchor yields nil.
func EncodeAnchor(a element.Anchor) *Anchor {
	if a == nil {
		return nil
	}
	out := element.VisitAnchor[Anchor](a, anchorEncoder{})
	return &out
}

type anchorEncoder struct{}

func (anchorEncoder) Coord(c element.Coord) Anchor {
	return Anchor{Type: AnchorCoord, X: ptr(c.X), Y: ptr(c.Y)}
}

func (anchorEncoder) PointRef(a element.PointRef) Anchor {
	return Anchor{Type: AnchorPoint, PointID: a.PointID}
}

func (anchorEncoder) LineParam(a element.LineParam) Anchor {
	return Anchor{Type: AnchorLine, LineID: a.LineID, T: ptr(a.T)}
}

func (anchorEncoder) CurveParam(a element.CurveParam) Anchor {
	return Anchor{Type: AnchorCurve, CurveID: a.CurveID, T: ptr(a.T)}
}

func (anchorEncoder) FunctionParam(a element.FunctionParam) Anchor {
	return Anchor{Type: AnchorFunction, FunctionID: a.FunctionID, X: ptr(a.X)}
}

// =============================================================================
// Decoding
// =============================================================================

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func decodeElement(ej Element) (element.Element, error) {
	switch ej.Type {
	case TypePoint:
		anchor, err := decodeOptionalAnchor(ej.Anchor)
		if err != nil {
			return nil, err
		}
		return &element.Point{
			ID:          ej.ID,
			X:           val(ej.X),
			Y:           val(ej.Y),
			Label:       ej.Label,
			LabelIsMath: ej.LabelIsMath,
			Color:       ej.Color,
			Size:        ej.Size,
			Filled:      ej.Filled,
			Anchor:      anchor,
		}, nil

	case TypeLine:
		start, end, err := decodeEnds(ej)
		if err != nil {
			return nil, err
		}
		kind := element.LineKind(ej.Kind)
		if kind == "" {
			kind = element.Segment
		}
		return &element.Line{ID: ej.ID, Kind: kind, Start: start, End: end, Style: decodeStyle(ej.Style)}, nil

	case TypeCurve:
		start, end, err := decodeEnds(ej)
		if err != nil {
			return nil, err
		}
		return &element.Curve{ID: ej.ID, Start: start, End: end, Curvature: ej.Curvature, Style: decodeStyle(ej.Style)}, nil

	case TypeFunction:
		f := element.NewFunction(ej.ID, ej.Expression)
		f.OffsetX, f.OffsetY = ej.OffsetX, ej.OffsetY
		if ej.ScaleY != nil {
			f.ScaleY = *ej.ScaleY
		}
		f.Domain = decodeDomain(ej.Domain)
		f.Style = decodeStyle(ej.Style)
		return f, nil

	case TypeArea:
		a := &element.Area{
			ID:          ej.ID,
			Mode:        element.AreaMode(ej.Mode),
			FunctionID:  ej.FunctionID,
			FunctionID2: ej.FunctionID2,
			LineID:      ej.LineID,
			Domain:      decodeDomain(ej.Domain),
			BoundaryIDs: ej.BoundaryIDs,
			IgnoredIDs:  ej.IgnoredIDs,
			LabelPos:    ej.LabelPos,
		}
		if a.Mode == "" {
			a.Mode = element.ModePolygon
		}
		for _, pj := range ej.Points {
			p, err := decodeAnchor(pj)
			if err != nil {
				return nil, err
			}
			a.Points = append(a.Points, p)
		}
		if ej.Fill != nil {
			a.Fill = element.Fill{Color: ej.Fill.Color, Opacity: ej.Fill.Opacity}
		}
		return a, nil

	case TypeText:
		return &element.Text{ID: ej.ID, X: val(ej.X), Y: val(ej.Y), Text: ej.Text, IsMath: ej.IsMath}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidElement, "unknown element type %q", ej.Type)
}

func decodeEnds(ej Element) (element.Anchor, element.Anchor, error) {
	if ej.Start == nil || ej.End == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidAnchor, "%s %q needs start and end", ej.Type, ej.ID)
	}
	start, err := decodeAnchor(*ej.Start)
	if err != nil {
		return nil, nil, err
	}
	end, err := decodeAnchor(*ej.End)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func decodeOptionalAnchor(a *Anchor) (element.Anchor, error) {
	if a == nil {
		return nil, nil
	}
	return decodeAnchor(*a)
}

func decodeAnchor(a Anchor) (element.Anchor, error) {
	switch a.Type {
	case AnchorCoord:
		return element.Coord{X: val(a.X), Y: val(a.Y)}, nil
	case AnchorPoint:
		return element.PointRef{PointID: a.PointID}, nil
	case AnchorLine:
		return element.LineParam{LineID: a.LineID, T: val(a.T)}, nil
	case AnchorCurve:
		return element.CurveParam{CurveID: a.CurveID, T: val(a.T)}, nil
	case AnchorFunction:
		return element.FunctionParam{FunctionID: a.FunctionID, X: val(a.X)}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidAnchor, "unknown anchor type %q", a.Type)
}

func decodeStyle(s *Style) element.Style {
	if s == nil {
		return element.Style{}
	}
	return element.Style{Color: s.Color, Width: s.Width, Dashed: s.Dashed}
}

func decodeDomain(d *Domain) *element.Domain {
	if d == nil {
		return nil
	}
	return &element.Domain{Min: d.Min, Max: d.Max}
}
