package boundary

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/observability"
	"github.com/matzehuels/graphplane/pkg/project"
	"github.com/matzehuels/graphplane/pkg/solve"
)

// Axis ids used in candidate lists, BoundaryIDs and IgnoredIDs.
const (
	AxisX = "axis:x"
	AxisY = "axis:y"
)

// Defaults for [Options].
const (
	DefaultThreshold         = 3.0
	DefaultSamples           = 60
	DefaultFallbackHalfWidth = 2.5
	DefaultRootSamples       = 200
	DefaultBisectIterations  = 60
)

// Options control candidate selection and polygon resolution.
type Options struct {
	// Threshold is the maximum distance from the drop point to a boundary.
	Threshold float64 `json:"threshold" toml:"threshold"`
	// Samples is the number of intervals each curved edge is sampled with.
	Samples int `json:"samples" toml:"samples"`
	// FallbackHalfWidth is the half width of the area under a lone function.
	FallbackHalfWidth float64 `json:"fallbackHalfWidth" toml:"fallback_half_width"`
	// RootSamples is the scan resolution for intersections.
	RootSamples int `json:"rootSamples" toml:"root_samples"`
	// BisectIterations refines each intersection.
	BisectIterations int `json:"bisectIterations" toml:"bisect_iterations"`
}

// DefaultOptions returns the standard options.
func DefaultOptions() Options {
	return Options{
		Threshold:         DefaultThreshold,
		Samples:           DefaultSamples,
		FallbackHalfWidth: DefaultFallbackHalfWidth,
		RootSamples:       DefaultRootSamples,
		BisectIterations:  DefaultBisectIterations,
	}
}

// Normalize replaces non-positive (or non-finite) values with defaults.
func (o Options) Normalize() Options {
	d := DefaultOptions()
	if !(o.Threshold > 0) || math.IsInf(o.Threshold, 0) {
		o.Threshold = d.Threshold
	}
	if o.Samples < 2 {
		o.Samples = d.Samples
	}
	if !(o.FallbackHalfWidth > 0) || math.IsInf(o.FallbackHalfWidth, 0) {
		o.FallbackHalfWidth = d.FallbackHalfWidth
	}
	if o.RootSamples < 2 {
		o.RootSamples = d.RootSamples
	}
	if o.BisectIterations <= 0 {
		o.BisectIterations = d.BisectIterations
	}
	return o
}

// CandidateKind classifies a boundary candidate.
type CandidateKind string

// Candidate kinds.
const (
	CandidateFunction CandidateKind = "function"
	CandidateLine     CandidateKind = "line"
	CandidateXAxis    CandidateKind = "x-axis"
	CandidateYAxis    CandidateKind = "y-axis"
)

// Candidate is a potential area boundary near the drop point.
type Candidate struct {
	ID       string        `json:"id"`
	Kind     CandidateKind `json:"kind"`
	Distance float64       `json:"distance"`
}

// Rule names the rule that produced an [Outcome].
type Rule string

// Rules in priority order.
const (
	RuleBetweenFunctions       Rule = "between-functions"
	RuleBetweenLineAndFunction Rule = "between-line-and-function"
	RuleUnderFunctionAxis      Rule = "under-function-axis"
	RuleUnderFunctionVertical  Rule = "under-function-vertical"
	RuleUnderFunction          Rule = "under-function"
	RuleNone                   Rule = "none"
)

// Input lists the elements that may bound an area.
type Input struct {
	Functions []*element.Function
	Lines     []*element.Line
}

// InputFrom collects every function and line of c.
func InputFrom(c *element.Collection) Input {
	return Input{Functions: c.Functions(), Lines: c.Lines()}
}

// Outcome is the result of dropping an area's control point.
type Outcome struct {
	// Area is a new area value; the input area is never modified.
	Area *element.Area
	Rule Rule
	// Changed is false when only the label moved.
	Changed    bool
	Candidates []Candidate
}

// Resolver builds area polygons.
type Resolver struct {
	Projector *project.Projector
	Options   Options
}

// New returns a Resolver projecting through pr.
func New(pr *project.Projector, opts Options) *Resolver {
	return &Resolver{Projector: pr, Options: opts.Normalize()}
}

func (r *Resolver) elements() *element.Resolver { return r.Projector.Resolver }

// Candidates returns the boundaries within the threshold of drop, nearest
// first with ties broken by id. Ids in ignore are skipped; the axes are
// only candidates while visible.
func (r *Resolver) Candidates(drop geom.Point, in Input, ignore []string) []Candidate {
	th := r.Options.Threshold
	skip := func(id string) bool { return slices.Contains(ignore, id) }

	var out []Candidate
	add := func(id string, kind CandidateKind, d float64) {
		if d < th && !skip(id) {
			out = append(out, Candidate{ID: id, Kind: kind, Distance: d})
		}
	}

	for _, f := range in.Functions {
		if skip(f.ID) {
			continue
		}
		if res, ok := r.Projector.Function(drop, f); ok {
			add(f.ID, CandidateFunction, res.Distance)
		}
	}
	for _, l := range in.Lines {
		if skip(l.ID) {
			continue
		}
		add(l.ID, CandidateLine, r.Projector.Line(drop, l).Distance)
	}

	axes, _ := r.elements().Axes.Repair()
	if axes.XAxisVisible() {
		add(AxisX, CandidateXAxis, math.Abs(drop.Y))
	}
	if axes.YAxisVisible() {
		add(AxisY, CandidateYAxis, math.Abs(drop.X))
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Resolve applies the boundary rules to area dropped at drop, honouring the
// area's IgnoredIDs. The returned area always has its label at drop.
func (r *Resolver) Resolve(area *element.Area, drop geom.Point, in Input) Outcome {
	start := time.Now()
	cands := r.Candidates(drop, in, area.IgnoredIDs)
	out := r.apply(area, drop, in, cands)
	out.Candidates = cands
	observability.Engine().OnBoundary(string(out.Rule), len(cands), time.Since(start))
	return out
}

// Ignore returns a copy of area with id added to its ignore list.
func Ignore(area *element.Area, id string) *element.Area {
	out := area.Clone()
	if !out.Ignores(id) {
		out.IgnoredIDs = append(out.IgnoredIDs, id)
	}
	return out
}

func (r *Resolver) apply(area *element.Area, drop geom.Point, in Input, cands []Candidate) Outcome {
	functions := make(map[string]*element.Function, len(in.Functions))
	for _, f := range in.Functions {
		functions[f.ID] = f
	}
	lines := make(map[string]*element.Line, len(in.Lines))
	for _, l := range in.Lines {
		lines[l.ID] = l
	}

	var funcs []element.BoundFunction
	var others []Candidate
	for _, c := range cands {
		if c.Kind != CandidateFunction {
			others = append(others, c)
			continue
		}
		if b, err := r.elements().BindFunction(functions[c.ID]); err == nil {
			funcs = append(funcs, b)
		}
	}
	walls := r.verticals(others, lines)

	if len(funcs) >= 2 {
		if a, ok := r.betweenFunctions(area, drop, funcs[0], funcs[1], walls); ok {
			return Outcome{Area: a, Rule: RuleBetweenFunctions, Changed: true}
		}
	}
	if len(funcs) >= 1 {
		// Nearest first; a boundary that cannot close a polygon yields to the next.
		for _, c := range others {
			if a, rule, ok := r.withBoundary(area, drop, funcs[0], c, lines, walls); ok {
				return Outcome{Area: a, Rule: rule, Changed: true}
			}
		}
	}
	if len(funcs) >= 1 {
		if a, ok := r.underFunction(area, drop, funcs[0]); ok {
			return Outcome{Area: a, Rule: RuleUnderFunction, Changed: true}
		}
	}
	return Outcome{Area: area.WithLabel(drop), Rule: RuleNone}
}

// wall is a vertical boundary at X.
type wall struct {
	id string
	x  float64
}

func (r *Resolver) verticals(others []Candidate, lines map[string]*element.Line) []wall {
	var out []wall
	for _, c := range others {
		switch c.Kind {
		case CandidateYAxis:
			out = append(out, wall{id: c.ID, x: 0})
		case CandidateLine:
			s, e := r.elements().LineEnds(lines[c.ID])
			if isVertical(s, e) {
				out = append(out, wall{id: c.ID, x: s.X})
			}
		}
	}
	return out
}

func isVertical(s, e geom.Point) bool {
	return math.Abs(e.X-s.X) <= 1e-12*math.Max(1, math.Abs(e.Y-s.Y))
}

// clamp narrows [a, b] with walls on either side of x.
func clamp(a, b, x float64, walls []wall) (float64, float64, []string) {
	var ids []string
	for _, w := range walls {
		switch {
		case w.x <= x && w.x > a:
			a = w.x
			ids = append(ids, w.id)
		case w.x > x && w.x < b:
			b = w.x
			ids = append(ids, w.id)
		}
	}
	return a, b, ids
}

// span is the visible x range intersected with the domains of fs.
func (r *Resolver) span(fs ...element.BoundFunction) (lo, hi float64, ok bool) {
	axes, _ := r.elements().Axes.Repair()
	lo, hi = axes.XMin, axes.XMax
	for _, f := range fs {
		flo, fhi := f.Domain(axes)
		lo, hi = math.Max(lo, flo), math.Min(hi, fhi)
	}
	return lo, hi, hi > lo
}

func (r *Resolver) roots(f func(float64) (float64, bool), lo, hi float64) []float64 {
	return solve.Roots(f, lo, hi, r.Options.RootSamples, r.Options.BisectIterations)
}

func (r *Resolver) betweenFunctions(area *element.Area, drop geom.Point, f1, f2 element.BoundFunction, walls []wall) (*element.Area, bool) {
	lo, hi, ok := r.span(f1, f2)
	if !ok {
		return nil, false
	}
	x := geom.Clamp(drop.X, lo, hi)
	diff := func(x float64) (float64, bool) {
		y1, ok1 := f1.At(x)
		y2, ok2 := f2.At(x)
		return y1 - y2, ok1 && ok2
	}
	a, b := solve.Bracket(r.roots(diff, lo, hi), x, lo, hi)
	a, b, wallIDs := clamp(a, b, x, walls)

	points, ok := r.polygon(a, b, functionEdge(f1), functionEdge(f2))
	if !ok {
		return nil, false
	}
	out := derive(area, drop, element.ModeBetweenFunctions, points, a, b,
		append([]string{f1.ID(), f2.ID()}, wallIDs...))
	out.FunctionID, out.FunctionID2 = f1.ID(), f2.ID()
	return out, true
}

func (r *Resolver) withBoundary(area *element.Area, drop geom.Point, f element.BoundFunction, nearest Candidate,
	lines map[string]*element.Line, walls []wall) (*element.Area, Rule, bool) {
	switch nearest.Kind {
	case CandidateXAxis:
		a, ok := r.underAxis(area, drop, f, walls)
		return a, RuleUnderFunctionAxis, ok
	case CandidateYAxis:
		a, ok := r.underFromWall(area, drop, f, wall{id: AxisY, x: 0})
		return a, RuleUnderFunctionVertical, ok
	case CandidateLine:
		l := lines[nearest.ID]
		s, e := r.elements().LineEnds(l)
		if isVertical(s, e) {
			a, ok := r.underFromWall(area, drop, f, wall{id: l.ID, x: s.X})
			if ok {
				a.LineID = l.ID
			}
			return a, RuleUnderFunctionVertical, ok
		}
		a, ok := r.betweenLine(area, drop, f, l, s, e, walls)
		return a, RuleBetweenLineAndFunction, ok
	}
	return nil, RuleNone, false
}

func (r *Resolver) underAxis(area *element.Area, drop geom.Point, f element.BoundFunction, walls []wall) (*element.Area, bool) {
	lo, hi, ok := r.span(f)
	if !ok {
		return nil, false
	}
	x := geom.Clamp(drop.X, lo, hi)
	a, b := solve.Bracket(r.roots(f.At, lo, hi), x, lo, hi)
	a, b, wallIDs := clamp(a, b, x, walls)

	points, ok := r.polygon(a, b, functionEdge(f), axisEdge{})
	if !ok {
		return nil, false
	}
	out := derive(area, drop, element.ModeUnderFunction, points, a, b,
		append([]string{f.ID(), AxisX}, wallIDs...))
	out.FunctionID = f.ID()
	return out, true
}

// underFromWall spans from the wall to the nearest root of f on the drop side.
func (r *Resolver) underFromWall(area *element.Area, drop geom.Point, f element.BoundFunction, w wall) (*element.Area, bool) {
	lo, hi, ok := r.span(f)
	if !ok || w.x <= lo || w.x >= hi {
		return nil, false
	}
	tiny := (hi - lo) * 1e-9
	roots := r.roots(f.At, lo, hi)

	a, b := w.x, hi
	if drop.X >= w.x {
		for _, root := range roots {
			if root > w.x+tiny {
				b = root
				break
			}
		}
	} else {
		a, b = lo, w.x
		for i := len(roots) - 1; i >= 0; i-- {
			if roots[i] < w.x-tiny {
				a = roots[i]
				break
			}
		}
	}

	points, ok := r.polygon(a, b, functionEdge(f), axisEdge{})
	if !ok {
		return nil, false
	}
	out := derive(area, drop, element.ModeUnderFunction, points, a, b, []string{f.ID(), w.id, AxisX})
	out.FunctionID = f.ID()
	return out, true
}

func (r *Resolver) betweenLine(area *element.Area, drop geom.Point, f element.BoundFunction, l *element.Line,
	s, e geom.Point, walls []wall) (*element.Area, bool) {
	lo, hi, ok := r.span(f)
	if !ok {
		return nil, false
	}
	llo, lhi := lineExtent(l.Kind, s, e)
	lo, hi = math.Max(lo, llo), math.Min(hi, lhi)
	if !(hi > lo) {
		return nil, false
	}
	x := geom.Clamp(drop.X, lo, hi)
	edge := lineEdge{id: l.ID, s: s, e: e}
	diff := func(x float64) (float64, bool) {
		y, ok := f.At(x)
		return y - edge.y(x), ok
	}
	a, b := solve.Bracket(r.roots(diff, lo, hi), x, lo, hi)
	a, b, wallIDs := clamp(a, b, x, walls)

	points, ok := r.polygon(a, b, functionEdge(f), edge)
	if !ok {
		return nil, false
	}
	out := derive(area, drop, element.ModeBetweenLineAndFunction, points, a, b,
		append([]string{f.ID(), l.ID}, wallIDs...))
	out.FunctionID, out.LineID = f.ID(), l.ID
	return out, true
}

func (r *Resolver) underFunction(area *element.Area, drop geom.Point, f element.BoundFunction) (*element.Area, bool) {
	lo, hi, ok := r.span(f)
	if !ok {
		return nil, false
	}
	hw := r.Options.FallbackHalfWidth
	a, b := math.Max(lo, drop.X-hw), math.Min(hi, drop.X+hw)

	points, ok := r.polygon(a, b, functionEdge(f), axisEdge{})
	if !ok {
		return nil, false
	}
	out := derive(area, drop, element.ModeUnderFunction, points, a, b, []string{f.ID()})
	out.FunctionID = f.ID()
	return out, true
}

func lineExtent(kind element.LineKind, s, e geom.Point) (lo, hi float64) {
	switch kind {
	case element.Segment:
		return math.Min(s.X, e.X), math.Max(s.X, e.X)
	case element.Ray:
		if e.X > s.X {
			return s.X, math.Inf(1)
		}
		return math.Inf(-1), s.X
	}
	return math.Inf(-1), math.Inf(1)
}

// derive returns a copy of area reshaped by a rule.
func derive(area *element.Area, drop geom.Point, mode element.AreaMode, points []element.Anchor, a, b float64, ids []string) *element.Area {
	out := area.WithLabel(drop)
	out.Mode = mode
	out.Points = points
	out.Domain = &element.Domain{Min: a, Max: b}
	out.BoundaryIDs = ids
	out.FunctionID, out.FunctionID2, out.LineID = "", "", ""
	return out
}
