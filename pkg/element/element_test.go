package element

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphplane/pkg/errors"
	"github.com/matzehuels/graphplane/pkg/expr"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/plane"
)

func newTestResolver(t *testing.T, elems ...Element) *Resolver {
	t.Helper()
	c, err := NewCollection(elems...)
	require.NoError(t, err)
	return NewResolver(c, expr.Static{
		"x^2": func(x float64) float64 { return x * x },
		"x":   func(x float64) float64 { return x },
		"1/x": func(x float64) float64 { return 1 / x },
	}, plane.DefaultAxes())
}

func TestCollectionAdd(t *testing.T) {
	c, err := NewCollection()
	require.NoError(t, err)

	id, err := c.Add(&Point{ID: "A", X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, "A", id)

	_, err = c.Add(&Point{ID: "A"})
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateID))

	gen, err := c.Add(&Text{Text: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, gen)
	assert.Equal(t, gen, c.Text(gen).ID)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"A", gen}, c.IDs())
}

func TestCollectionAddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		elem Element
		code errors.Code
	}{
		{"nil", nil, errors.ErrCodeInvalidElement},
		{"bad id", &Point{ID: " spaced"}, errors.ErrCodeInvalidElement},
		{"nan point", &Point{ID: "p", X: math.NaN()}, errors.ErrCodeInvalidInput},
		{"line kind", &Line{ID: "l", Kind: "arc", Start: Coord{}, End: Coord{X: 1}}, errors.ErrCodeInvalidElement},
		{"line missing end", &Line{ID: "l", Kind: Segment, Start: Coord{}}, errors.ErrCodeInvalidAnchor},
		{"empty ref", &Line{ID: "l", Kind: Ray, Start: PointRef{}, End: Coord{}}, errors.ErrCodeInvalidAnchor},
		{"blank expression", NewFunction("f", "  "), errors.ErrCodeInvalidExpression},
		{"empty domain", &Function{ID: "f", Expression: "x", ScaleY: 1, Domain: &Domain{Min: 1, Max: 1}}, errors.ErrCodeInvalidElement},
		{"area mode", &Area{ID: "a", Mode: "blob"}, errors.ErrCodeInvalidElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := NewCollection()
			_, err := c.Add(tt.elem)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestCollectionTypedAccess(t *testing.T) {
	c, err := NewCollection(
		&Point{ID: "A"},
		&Line{ID: "l", Kind: Segment, Start: Coord{}, End: Coord{X: 1}},
		&Curve{ID: "c", Start: Coord{}, End: Coord{X: 1}},
		NewFunction("f", "x"),
		&Area{ID: "a", Mode: ModePolygon},
		&Point{ID: "B"},
	)
	require.NoError(t, err)

	assert.Nil(t, c.Line("A"))
	assert.NotNil(t, c.Point("A"))
	assert.Len(t, c.Points(), 2)
	assert.Len(t, c.Lines(), 1)
	assert.Len(t, c.Curves(), 1)
	assert.Len(t, c.Functions(), 1)
	assert.Len(t, c.Areas(), 1)
	assert.Empty(t, c.Texts())

	assert.Equal(t, "B", c.Points()[1].ID)
}

func TestCollectionReplace(t *testing.T) {
	c, err := NewCollection(&Area{ID: "a", Mode: ModePolygon})
	require.NoError(t, err)

	next := &Area{ID: "a", Mode: ModeUnderFunction, FunctionID: "f"}
	require.NoError(t, c.Replace(next))
	assert.Same(t, next, c.Area("a"))

	err = c.Replace(&Point{ID: "a"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidElement))

	err = c.Replace(&Area{ID: "missing", Mode: ModePolygon})
	assert.True(t, errors.IsNotFound(err))
}

func TestLineKindClamp(t *testing.T) {
	assert.Equal(t, 0.0, Segment.Clamp(-0.5))
	assert.Equal(t, 1.0, Segment.Clamp(1.5))
	assert.Equal(t, 0.0, Ray.Clamp(-0.5))
	assert.Equal(t, 7.0, Ray.Clamp(7))
	assert.Equal(t, -3.0, FullLine.Clamp(-3))
}

func TestCurveBezierControlPoint(t *testing.T) {
	bez := CurveBezier(geom.Pt(0, 0), geom.Pt(2, 0), 1)
	// left normal of +x is +y
	assert.InDelta(t, 1.0, bez.P1.X, 1e-12)
	assert.InDelta(t, 1.0, bez.P1.Y, 1e-12)

	flat := CurveBezier(geom.Pt(0, 0), geom.Pt(2, 0), 0)
	assert.InDelta(t, 0.0, flat.Eval(0.5).Y, 1e-12)

	degenerate := CurveBezier(geom.Pt(1, 1), geom.Pt(1, 1), 5)
	assert.Equal(t, geom.Pt(1, 1), degenerate.P1)
}

func TestAreaClone(t *testing.T) {
	label := geom.Pt(1, 1)
	a := &Area{ID: "a", Mode: ModePolygon, BoundaryIDs: []string{"f"}, LabelPos: &label, Domain: &Domain{Min: 0, Max: 1}}

	b := a.WithLabel(geom.Pt(2, 2))
	b.BoundaryIDs[0] = "g"
	b.Domain.Max = 5

	assert.Equal(t, "f", a.BoundaryIDs[0])
	assert.Equal(t, 1.0, a.Domain.Max)
	assert.Equal(t, geom.Pt(1, 1), *a.LabelPos)
	assert.Equal(t, geom.Pt(2, 2), *b.LabelPos)
	assert.False(t, b.Bounded())
}

type kindNamer struct{}

func (kindNamer) Point(*Point) string       { return "P" }
func (kindNamer) Line(*Line) string         { return "L" }
func (kindNamer) Curve(*Curve) string       { return "C" }
func (kindNamer) Function(*Function) string { return "F" }
func (kindNamer) Area(*Area) string         { return "A" }
func (kindNamer) Text(*Text) string         { return "T" }

func TestVisit(t *testing.T) {
	elems := []Element{&Point{}, &Line{}, &Curve{}, &Function{}, &Area{}, &Text{}}
	var got string
	for _, e := range elems {
		got += Visit[string](e, kindNamer{})
	}
	assert.Equal(t, "PLCFAT", got)
}

func TestAnchorRefers(t *testing.T) {
	assert.False(t, Coord{}.Refers("A"))
	assert.True(t, PointRef{PointID: "A"}.Refers("A"))
	assert.True(t, LineParam{LineID: "l"}.Refers("l"))
	assert.True(t, CurveParam{CurveID: "c"}.Refers("c"))
	assert.True(t, FunctionParam{FunctionID: "f"}.Refers("f"))
	assert.False(t, FunctionParam{FunctionID: "f"}.Refers("g"))

	assert.True(t, IsFree(nil))
	assert.True(t, IsFree(Coord{X: 1}))
	assert.False(t, IsFree(PointRef{PointID: "A"}))
}

func TestAnchors(t *testing.T) {
	line := &Line{ID: "l", Start: PointRef{PointID: "A"}, End: Coord{X: 1}}
	assert.Equal(t, []Anchor{PointRef{PointID: "A"}, Coord{X: 1}}, Anchors(line))
	assert.Empty(t, Anchors(&Point{ID: "free"}))
	assert.Empty(t, Anchors(NewFunction("f", "x")))

	assert.True(t, RefersTo(line, "A"))
	assert.False(t, RefersTo(line, "B"))
	assert.True(t, RefersTo(&Area{Points: []Anchor{Coord{}, FunctionParam{FunctionID: "f"}}}, "f"))
}
