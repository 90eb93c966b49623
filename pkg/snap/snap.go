// Package snap decides which element, if any, a dragged point locks onto.
//
// Every candidate line, curve and function is projected and the single
// nearest one wins, provided it is also within the distance threshold for
// its kind. Kinds are not tried in priority order: a curve at 0.24 never
// beats a line at 0.20 just because curves are considered first.
package snap

import (
	"slices"
	"time"

	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/observability"
	"github.com/matzehuels/graphplane/pkg/project"
)

// Default snap distances in graph units.
const (
	DefaultLineThreshold     = 0.25
	DefaultCurveThreshold    = 0.30
	DefaultFunctionThreshold = 0.30
)

// Thresholds are the maximum snap distances per element kind.
type Thresholds struct {
	Line     float64 `json:"line" toml:"line"`
	Curve    float64 `json:"curve" toml:"curve"`
	Function float64 `json:"function" toml:"function"`
}

// DefaultThresholds returns the standard snap distances.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Line:     DefaultLineThreshold,
		Curve:    DefaultCurveThreshold,
		Function: DefaultFunctionThreshold,
	}
}

// For returns the threshold for an element kind; kinds that cannot be
// snapped to get zero.
func (t Thresholds) For(kind element.Kind) float64 {
	switch kind {
	case element.KindLine:
		return t.Line
	case element.KindCurve:
		return t.Curve
	case element.KindFunction:
		return t.Function
	}
	return 0
}

// Candidates are the elements a point may snap onto.
type Candidates struct {
	Lines     []*element.Line
	Curves    []*element.Curve
	Functions []*element.Function
}

// CandidatesFrom collects every line, curve and function of c.
func CandidatesFrom(c *element.Collection) Candidates {
	return Candidates{
		Lines:     c.Lines(),
		Curves:    c.Curves(),
		Functions: c.Functions(),
	}
}

// Len returns the number of candidates.
func (c Candidates) Len() int { return len(c.Lines) + len(c.Curves) + len(c.Functions) }

// Target is the element a point snaps onto and where.
type Target struct {
	Kind      element.Kind
	ElementID string
	// Anchor ties the snapped point to the element parametrically.
	Anchor element.Anchor
	Result project.Result
}

// Option adjusts a single Resolve call.
type Option func(*settings)

type settings struct {
	exclude []string
}

// Exclude skips the given element ids, e.g. the lines anchored to the
// point being dragged.
func Exclude(ids ...string) Option {
	return func(s *settings) { s.exclude = append(s.exclude, ids...) }
}

// Resolver finds snap targets.
type Resolver struct {
	Projector *project.Projector
}

// New returns a Resolver projecting through pr.
func New(pr *project.Projector) *Resolver {
	return &Resolver{Projector: pr}
}

// Resolve returns the nearest candidate within its kind's threshold, or nil.
// Ties keep the earlier candidate (lines, then curves, then functions, each
// in slice order).
func (r *Resolver) Resolve(p geom.Point, cands Candidates, th Thresholds, opts ...Option) *Target {
	start := time.Now()
	var s settings
	for _, o := range opts {
		o(&s)
	}
	skip := func(id string) bool { return slices.Contains(s.exclude, id) }

	var best *Target
	consider := func(kind element.Kind, id string, res project.Result, anchor element.Anchor) {
		if res.Distance >= th.For(kind) {
			return
		}
		if best != nil && res.Distance >= best.Result.Distance {
			return
		}
		best = &Target{Kind: kind, ElementID: id, Anchor: anchor, Result: res}
	}

	for _, l := range cands.Lines {
		if skip(l.ID) {
			continue
		}
		res := r.Projector.Line(p, l)
		consider(element.KindLine, l.ID, res, element.LineParam{LineID: l.ID, T: res.Param})
	}
	for _, c := range cands.Curves {
		if skip(c.ID) {
			continue
		}
		res := r.Projector.Curve(p, c)
		consider(element.KindCurve, c.ID, res, element.CurveParam{CurveID: c.ID, T: res.Param})
	}
	for _, f := range cands.Functions {
		if skip(f.ID) {
			continue
		}
		res, ok := r.Projector.Function(p, f)
		if !ok {
			continue
		}
		consider(element.KindFunction, f.ID, res, element.FunctionParam{FunctionID: f.ID, X: res.Param})
	}

	kind := ""
	if best != nil {
		kind = string(best.Kind)
	}
	observability.Engine().OnSnap(kind, best != nil, time.Since(start))
	return best
}
