package boundary

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/expr"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/observability"
	"github.com/matzehuels/graphplane/pkg/plane"
	"github.com/matzehuels/graphplane/pkg/project"
)

var compiler = expr.Static{
	"x":     func(x float64) float64 { return x },
	"-x":    func(x float64) float64 { return -x },
	"x^2":   func(x float64) float64 { return x * x },
	"1":     func(float64) float64 { return 1 },
	"5":     func(float64) float64 { return 5 },
	"4-x^2": func(x float64) float64 { return 4 - x*x },
}

func newResolver(t *testing.T, axes plane.Axes, elems ...element.Element) (*Resolver, *element.Collection) {
	t.Helper()
	c, err := element.NewCollection(elems...)
	require.NoError(t, err)
	pr := project.New(element.NewResolver(c, compiler, axes), project.DefaultOptions())
	return New(pr, DefaultOptions()), c
}

func axes(xmin, xmax, ymin, ymax float64) plane.Axes {
	a := plane.DefaultAxes()
	a.XMin, a.XMax, a.YMin, a.YMax = xmin, xmax, ymin, ymax
	return a
}

func newArea() *element.Area {
	return &element.Area{ID: "a", Mode: element.ModePolygon}
}

func TestBetweenFunctions(t *testing.T) {
	r, c := newResolver(t, axes(-2, 2, -2, 2),
		element.NewFunction("f1", "x"),
		element.NewFunction("f2", "-x"),
		newArea(),
	)
	area := c.Area("a")

	out := r.Resolve(area, geom.Pt(1, 0), InputFrom(c))

	require.True(t, out.Changed)
	assert.Equal(t, RuleBetweenFunctions, out.Rule)
	a := out.Area
	assert.Equal(t, element.ModeBetweenFunctions, a.Mode)
	assert.GreaterOrEqual(t, len(a.Points), 3)
	assert.Contains(t, a.BoundaryIDs, "f1")
	assert.Contains(t, a.BoundaryIDs, "f2")
	require.NotNil(t, a.Domain)
	assert.InDelta(t, 0.0, a.Domain.Min, 1e-9)
	assert.InDelta(t, 2.0, a.Domain.Max, 1e-9)
	assert.Equal(t, "f1", a.FunctionID)
	assert.Equal(t, "f2", a.FunctionID2)
	assert.Equal(t, geom.Pt(1, 0), *a.LabelPos)

	// The input area is untouched.
	assert.Equal(t, element.ModePolygon, area.Mode)
	assert.Nil(t, area.LabelPos)

	// Vertices lie on the two functions.
	for _, p := range r.Polygon(a) {
		assert.InDelta(t, math.Abs(p.X), math.Abs(p.Y), 1e-9)
	}
}

func TestNoBoundaryLeavesAreaUnchanged(t *testing.T) {
	pts := []element.Anchor{element.Coord{X: 20, Y: 20}, element.Coord{X: 21, Y: 20}, element.Coord{X: 21, Y: 21}}
	r, c := newResolver(t, axes(10, 30, 10, 30),
		element.NewFunction("f", "x^2"),
		&element.Line{ID: "l", Kind: element.Segment, Start: element.Coord{X: 10, Y: 10}, End: element.Coord{X: 11, Y: 10}},
		&element.Area{ID: "a", Mode: element.ModePolygon, Points: pts},
	)
	area := c.Area("a")

	out := r.Resolve(area, geom.Pt(25, 25), InputFrom(c))

	assert.False(t, out.Changed)
	assert.Equal(t, RuleNone, out.Rule)
	assert.Empty(t, out.Candidates)
	assert.Equal(t, element.ModePolygon, out.Area.Mode)
	assert.Equal(t, pts, out.Area.Points)
	assert.Equal(t, geom.Pt(25, 25), *out.Area.LabelPos)
}

func TestIgnoreListSkipsBoundary(t *testing.T) {
	r, c := newResolver(t, axes(-2, 2, -2, 2),
		element.NewFunction("f1", "x"),
		element.NewFunction("f2", "-x"),
		newArea(),
	)
	area := Ignore(c.Area("a"), "f2")
	assert.Equal(t, []string{"f2"}, area.IgnoredIDs)
	assert.Equal(t, area.IgnoredIDs, Ignore(area, "f2").IgnoredIDs)

	out := r.Resolve(area, geom.Pt(1, 0), InputFrom(c))

	// f1 remains and the x-axis is nearest: the area under f1 down to the axis.
	assert.Equal(t, RuleUnderFunctionAxis, out.Rule)
	assert.NotContains(t, out.Area.BoundaryIDs, "f2")
	assert.Equal(t, []string{"f2"}, out.Area.IgnoredIDs)
	for _, c := range out.Candidates {
		assert.NotEqual(t, "f2", c.ID)
	}
}

func TestFallbackUnderFunction(t *testing.T) {
	// Neither axis is within reach of the drop point.
	r, c := newResolver(t, axes(-5, 5, 2, 12),
		element.NewFunction("f", "5"),
		newArea(),
	)

	out := r.Resolve(c.Area("a"), geom.Pt(4, 6), InputFrom(c))

	require.Equal(t, RuleUnderFunction, out.Rule)
	a := out.Area
	assert.Equal(t, element.ModeUnderFunction, a.Mode)
	assert.Equal(t, []string{"f"}, a.BoundaryIDs)
	assert.InDelta(t, 1.5, a.Domain.Min, 1e-12)
	assert.InDelta(t, 5.0, a.Domain.Max, 1e-12)
	assert.Len(t, a.Points, DefaultSamples+1+2)
}

func TestLineAndFunction(t *testing.T) {
	line := &element.Line{ID: "l", Kind: element.FullLine, Start: element.Coord{X: -1, Y: 4}, End: element.Coord{X: 1, Y: 4}}

	t.Run("clamped by y-axis", func(t *testing.T) {
		r, c := newResolver(t, plane.DefaultAxes(), element.NewFunction("f", "x^2"), line, newArea())
		out := r.Resolve(c.Area("a"), geom.Pt(1, 3.5), InputFrom(c))

		require.Equal(t, RuleBetweenLineAndFunction, out.Rule)
		a := out.Area
		assert.Equal(t, element.ModeBetweenLineAndFunction, a.Mode)
		assert.Equal(t, "f", a.FunctionID)
		assert.Equal(t, "l", a.LineID)
		assert.Equal(t, []string{"f", "l", AxisY}, a.BoundaryIDs)
		assert.InDelta(t, 0.0, a.Domain.Min, 1e-9)
		assert.InDelta(t, 2.0, a.Domain.Max, 1e-9)
		// forward along f, then the two line endpoints
		assert.Len(t, a.Points, DefaultSamples+1+2)
	})

	t.Run("intersection bracket", func(t *testing.T) {
		r, c := newResolver(t, plane.DefaultAxes(), element.NewFunction("f", "x^2"), line, newArea())
		area := Ignore(c.Area("a"), AxisY)
		out := r.Resolve(area, geom.Pt(1, 3.5), InputFrom(c))

		require.Equal(t, RuleBetweenLineAndFunction, out.Rule)
		assert.InDelta(t, -2.0, out.Area.Domain.Min, 1e-9)
		assert.InDelta(t, 2.0, out.Area.Domain.Max, 1e-9)
		assert.Equal(t, []string{"f", "l"}, out.Area.BoundaryIDs)

		poly := r.Polygon(out.Area)
		last := poly[len(poly)-1]
		assert.InDelta(t, -2.0, last.X, 1e-9)
		assert.InDelta(t, 4.0, last.Y, 1e-9)
	})
}

func TestUnderFunctionFromVerticalLine(t *testing.T) {
	wall := &element.Line{ID: "v", Kind: element.FullLine, Start: element.Coord{X: -1, Y: 0}, End: element.Coord{X: -1, Y: 1}}
	r, c := newResolver(t, axes(-5, 5, 1, 10), element.NewFunction("f", "4-x^2"), wall, newArea())

	// Right of the wall: from x = -1 to the root at x = 2.
	out := r.Resolve(c.Area("a"), geom.Pt(-0.8, 2.5), InputFrom(c))
	require.Equal(t, RuleUnderFunctionVertical, out.Rule)
	a := out.Area
	assert.Equal(t, element.ModeUnderFunction, a.Mode)
	assert.Equal(t, "v", a.LineID)
	assert.Equal(t, []string{"f", "v", AxisX}, a.BoundaryIDs)
	assert.InDelta(t, -1.0, a.Domain.Min, 1e-12)
	assert.InDelta(t, 2.0, a.Domain.Max, 1e-9)

	// Left of the wall: from the root at x = -2 to the wall.
	out = r.Resolve(c.Area("a"), geom.Pt(-1.5, 1.5), InputFrom(c))
	require.Equal(t, RuleUnderFunctionVertical, out.Rule)
	assert.InDelta(t, -2.0, out.Area.Domain.Min, 1e-9)
	assert.InDelta(t, -1.0, out.Area.Domain.Max, 1e-12)
}

func TestBoundaryFallsThroughToFartherCandidate(t *testing.T) {
	f := element.NewFunction("f", "1")
	f.Domain = &element.Domain{Min: -2, Max: 2}
	// The segment is the nearest boundary but lies outside f's domain.
	seg := &element.Line{ID: "l", Kind: element.Segment, Start: element.Coord{X: 2.5, Y: 1}, End: element.Coord{X: 3, Y: 1.1}}
	r, c := newResolver(t, plane.DefaultAxes(), f, seg, newArea())

	out := r.Resolve(c.Area("a"), geom.Pt(2.2, 1.2), InputFrom(c))

	var ids []string
	for _, cand := range out.Candidates {
		ids = append(ids, cand.ID)
	}
	require.Equal(t, []string{"f", "l", AxisX, AxisY}, ids)
	require.Equal(t, RuleUnderFunctionAxis, out.Rule)
	a := out.Area
	assert.Equal(t, []string{"f", AxisX, AxisY}, a.BoundaryIDs)
	assert.InDelta(t, 0.0, a.Domain.Min, 1e-12)
	assert.InDelta(t, 2.0, a.Domain.Max, 1e-12)
}

func TestBetweenFunctionsClampedByVerticalLine(t *testing.T) {
	wall := &element.Line{ID: "v", Kind: element.FullLine, Start: element.Coord{X: 1.5, Y: 0}, End: element.Coord{X: 1.5, Y: 1}}
	r, c := newResolver(t, axes(-2, 2, -2, 2),
		element.NewFunction("f1", "x"),
		element.NewFunction("f2", "-x"),
		wall,
		newArea(),
	)

	out := r.Resolve(c.Area("a"), geom.Pt(1, 0), InputFrom(c))

	require.Equal(t, RuleBetweenFunctions, out.Rule)
	a := out.Area
	assert.Equal(t, []string{"f1", "f2"}, a.BoundaryIDs[:2])
	assert.Contains(t, a.BoundaryIDs, "v")
	assert.InDelta(t, 0.0, a.Domain.Min, 1e-9)
	assert.InDelta(t, 1.5, a.Domain.Max, 1e-12)
	for _, p := range r.Polygon(a) {
		assert.LessOrEqual(t, p.X, 1.5+1e-12)
	}
}

func TestCandidatesSkipHiddenAxes(t *testing.T) {
	// y = 0 lies below the visible range even though it is 1 unit away.
	r, c := newResolver(t, axes(-5, 5, 0.5, 10))
	got := r.Candidates(geom.Pt(1, 1), InputFrom(c), nil)
	require.Len(t, got, 1)
	assert.Equal(t, AxisY, got[0].ID)

	r, c = newResolver(t, axes(0.5, 10, 0.5, 10))
	assert.Empty(t, r.Candidates(geom.Pt(1, 1), InputFrom(c), nil))
}

func TestCandidatesOrder(t *testing.T) {
	r, c := newResolver(t, plane.DefaultAxes(),
		element.NewFunction("f", "5"),
		&element.Line{ID: "l", Kind: element.Segment, Start: element.Coord{X: -5, Y: 1}, End: element.Coord{X: 5, Y: 1}},
	)
	got := r.Candidates(geom.Pt(2, 2), InputFrom(c), nil)

	var ids []string
	for _, cand := range got {
		ids = append(ids, cand.ID)
	}
	// l at 1, x-axis at 2, y-axis at 2 (tie broken by id), f at 3 is excluded.
	assert.Equal(t, []string{"l", AxisX, AxisY}, ids)
	assert.Equal(t, CandidateLine, got[0].Kind)
}

func TestPolygonRegeneratesFromDefinition(t *testing.T) {
	r, c := newResolver(t, axes(-2, 2, -2, 2),
		element.NewFunction("f1", "x"),
		element.NewFunction("f2", "-x"),
		&element.Area{
			ID:          "a",
			Mode:        element.ModeBetweenFunctions,
			FunctionID:  "f1",
			FunctionID2: "f2",
			Domain:      &element.Domain{Min: 0, Max: 1},
		},
	)
	poly := r.Polygon(c.Area("a"))
	require.Len(t, poly, 2*(DefaultSamples+1))
	assert.Equal(t, geom.Pt(0, 0), poly[0])
	assert.InDelta(t, 1.0, poly[DefaultSamples].Y, 1e-12)
	assert.InDelta(t, -1.0, poly[DefaultSamples+1].Y, 1e-12)

	// Plain polygons resolve their anchors and skip dangling ones.
	plain := &element.Area{ID: "p", Mode: element.ModePolygon, Points: []element.Anchor{
		element.Coord{X: 1}, element.PointRef{PointID: "gone"}, element.FunctionParam{FunctionID: "f1", X: 1},
	}}
	assert.Equal(t, []geom.Point{{X: 1, Y: 0}, {X: 1, Y: 1}}, r.Polygon(plain))
}

type boundaryRecorder struct {
	observability.NoopEngineHooks
	rules []string
}

func (r *boundaryRecorder) OnBoundary(rule string, _ int, _ time.Duration) {
	r.rules = append(r.rules, rule)
}

func TestResolveEmitsHook(t *testing.T) {
	rec := &boundaryRecorder{}
	observability.SetEngineHooks(rec)
	t.Cleanup(observability.Reset)

	r, c := newResolver(t, axes(10, 30, 10, 30), newArea())
	r.Resolve(c.Area("a"), geom.Pt(20, 20), InputFrom(c))
	assert.Equal(t, []string{string(RuleNone)}, rec.rules)
}

func TestOptionsNormalize(t *testing.T) {
	assert.Equal(t, DefaultOptions(), Options{Threshold: math.NaN(), Samples: 1}.Normalize())
	o := Options{Threshold: 1, Samples: 10, FallbackHalfWidth: 1, RootSamples: 50, BisectIterations: 5}
	assert.Equal(t, o, o.Normalize())
}
