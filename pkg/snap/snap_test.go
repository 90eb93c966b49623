package snap

import (
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

func newResolver(t *testing.T, elems ...element.Element) (*Resolver, *element.Collection) {
	t.Helper()
	c, err := element.NewCollection(elems...)
	require.NoError(t, err)
	compiler := expr.Static{
		"x^2": func(x float64) float64 { return x * x },
		"0.1": func(float64) float64 { return 0.1 },
	}
	pr := project.New(element.NewResolver(c, compiler, plane.DefaultAxes()), project.DefaultOptions())
	return New(pr), c
}

func TestResolveGlobalBest(t *testing.T) {
	// The line is 0.20 away and the curve 0.24: both qualify, the line is nearer.
	r, c := newResolver(t,
		&element.Curve{ID: "c", Start: element.Coord{X: -5, Y: 0.44}, End: element.Coord{X: 5, Y: 0.44}},
		&element.Line{ID: "l", Kind: element.Segment, Start: element.Coord{X: -5}, End: element.Coord{X: 5}},
	)
	p := geom.Pt(0, 0.2)

	target := r.Resolve(p, CandidatesFrom(c), DefaultThresholds())
	require.NotNil(t, target)
	assert.Equal(t, element.KindLine, target.Kind)
	assert.Equal(t, "l", target.ElementID)
	assert.InDelta(t, 0.2, target.Result.Distance, 1e-12)
	assert.Equal(t, element.LineParam{LineID: "l", T: 0.5}, target.Anchor)

	// Without the line the curve qualifies on its own.
	target = r.Resolve(p, CandidatesFrom(c), DefaultThresholds(), Exclude("l"))
	require.NotNil(t, target)
	assert.Equal(t, element.KindCurve, target.Kind)
	assert.InDelta(t, 0.24, target.Result.Distance, 1e-9)
	assert.IsType(t, element.CurveParam{}, target.Anchor)
}

func TestResolveNearerKindWinsRegardlessOfOrder(t *testing.T) {
	// The function is nearer than the line even though lines are examined first.
	r, c := newResolver(t,
		&element.Line{ID: "l", Kind: element.FullLine, Start: element.Coord{X: 0, Y: 0.3}, End: element.Coord{X: 1, Y: 0.3}},
		element.NewFunction("f", "0.1"),
	)
	target := r.Resolve(geom.Pt(2, 0.15), CandidatesFrom(c), DefaultThresholds())
	require.NotNil(t, target)
	assert.Equal(t, "f", target.ElementID)
	anchor, ok := target.Anchor.(element.FunctionParam)
	require.True(t, ok)
	assert.InDelta(t, 2.0, anchor.X, 1e-6)
}

func TestResolveThresholds(t *testing.T) {
	r, c := newResolver(t,
		&element.Line{ID: "l", Kind: element.Segment, Start: element.Coord{X: -5}, End: element.Coord{X: 5}},
		element.NewFunction("f", "x^2"),
	)
	cands := CandidatesFrom(c)

	// 0.25 away from the line: not strictly under the threshold.
	assert.Nil(t, r.Resolve(geom.Pt(3, -0.25), cands, DefaultThresholds()))
	assert.NotNil(t, r.Resolve(geom.Pt(3, -0.24), cands, DefaultThresholds()))

	// Beyond the end of the segment the line is too far.
	assert.Nil(t, r.Resolve(geom.Pt(6, -0.1), cands, DefaultThresholds()))

	// Zero thresholds disable snapping entirely.
	assert.Nil(t, r.Resolve(geom.Pt(0, 0), cands, Thresholds{}))

	assert.Nil(t, r.Resolve(geom.Pt(0, 0), Candidates{}, DefaultThresholds()))
}

type snapRecorder struct {
	observability.NoopEngineHooks
	kinds []string
}

func (r *snapRecorder) OnSnap(kind string, _ bool, _ time.Duration) {
	r.kinds = append(r.kinds, kind)
}

func TestResolveEmitsHook(t *testing.T) {
	rec := &snapRecorder{}
	observability.SetEngineHooks(rec)
	t.Cleanup(observability.Reset)

	r, c := newResolver(t, element.NewFunction("f", "x^2"))
	r.Resolve(geom.Pt(1, 1.1), CandidatesFrom(c), DefaultThresholds())
	r.Resolve(geom.Pt(4, -4), CandidatesFrom(c), DefaultThresholds())

	assert.Equal(t, []string{"function", ""}, rec.kinds)
}

func TestThresholdsFor(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, 0.25, th.For(element.KindLine))
	assert.Equal(t, 0.30, th.For(element.KindCurve))
	assert.Equal(t, 0.30, th.For(element.KindFunction))
	assert.Equal(t, 0.0, th.For(element.KindPoint))
}
