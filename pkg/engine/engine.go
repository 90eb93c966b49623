// Package engine applies pointer gestures to a scene.
//
// A [Runner] owns one scene document and the resolvers built over it. It
// implements the interactive control flow:
//
//   - pointer move: [Runner.Snap] previews the snap target, mutating nothing
//   - pointer up on a point: [Runner.DragPoint] stores the snap anchor, or
//     the grid-snapped position when nothing qualifies
//   - pointer up on an area control point: [Runner.DropArea] replaces the
//     area with the boundary resolution
//
// A Runner is not safe for concurrent mutation. Gestures are applied one at
// a time; a drag completes before the next begins.
package engine

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphplane/pkg/boundary"
	"github.com/matzehuels/graphplane/pkg/config"
	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/errors"
	"github.com/matzehuels/graphplane/pkg/expr"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/plane"
	"github.com/matzehuels/graphplane/pkg/project"
	"github.com/matzehuels/graphplane/pkg/scene"
	"github.com/matzehuels/graphplane/pkg/snap"
)

// Runner applies gestures to a scene document.
type Runner struct {
	Doc    *scene.Document
	Config config.Config
	Logger *log.Logger

	resolver  *element.Resolver
	projector *project.Projector
	snapper   *snap.Resolver
	bounds    *boundary.Resolver
}

// NewRunner creates a runner over doc.
// If doc is nil, an empty scene is used.
// If compiler is nil, a memoised expr-lang compiler is used.
// If logger is nil, log.Default() is used.
func NewRunner(doc *scene.Document, compiler expr.Compiler, cfg config.Config, logger *log.Logger) *Runner {
	if doc == nil {
		doc = scene.New()
	}
	if compiler == nil {
		compiler = expr.Memo(expr.NewCompiler())
	}
	if logger == nil {
		logger = log.Default()
	}
	res := element.NewResolver(doc.Elements, compiler, doc.Axes)
	pr := project.New(res, cfg.Projection)
	return &Runner{
		Doc:       doc,
		Config:    cfg,
		Logger:    logger,
		resolver:  res,
		projector: pr,
		snapper:   snap.New(pr),
		bounds:    boundary.New(pr, cfg.Boundary),
	}
}

// Elements returns the scene's element collection.
func (r *Runner) Elements() *element.Collection { return r.Doc.Elements }

// Resolver returns the anchor resolver bound to the scene.
func (r *Runner) Resolver() *element.Resolver { return r.resolver }

// SetAxes replaces the scene's axes, repairing invalid ranges.
func (r *Runner) SetAxes(a plane.Axes) (repaired bool) {
	a, repaired = a.Repair()
	r.Doc.Axes = a
	r.resolver.Axes = a
	return repaired
}

// ToPixel maps a graph point into the scene's viewport.
func (r *Runner) ToPixel(p geom.Point) geom.Point { return r.Doc.Viewport.ToPixel(p, r.Doc.Axes) }

// ToGraph maps a viewport pixel into graph space.
func (r *Runner) ToGraph(px geom.Point) geom.Point { return r.Doc.Viewport.ToGraph(px, r.Doc.Axes) }

// Add inserts an element and returns its id.
func (r *Runner) Add(e element.Element) (string, error) {
	id, err := r.Doc.Elements.Add(e)
	if err != nil {
		return "", err
	}
	r.Logger.Debug("added element", "id", id, "kind", e.ElementKind())
	return id, nil
}

// Position returns the current position of a point.
func (r *Runner) Position(id string) (geom.Point, error) {
	p := r.Doc.Elements.Point(id)
	if p == nil {
		return geom.Point{}, notFound(id, element.KindPoint)
	}
	return r.resolver.PointPosition(p), nil
}

// Project returns the closest point on element id to p. The boolean is
// false when the element has no closest point (areas, functions without
// values).
func (r *Runner) Project(p geom.Point, id string) (project.Result, bool, error) {
	e, ok := r.Doc.Elements.Get(id)
	if !ok {
		return project.Result{}, false, notFound(id, "")
	}
	res, found := r.projector.Project(p, e)
	r.Logger.Debug("projected", "id", id, "point", p, "found", found, "distance", res.Distance)
	return res, found, nil
}

// Snap returns the snap target for a pointer at p, or nil. Elements listed
// in exclude are never targets.
func (r *Runner) Snap(p geom.Point, exclude ...string) *snap.Target {
	start := time.Now()
	t := r.snapper.Resolve(p, snap.CandidatesFrom(r.Doc.Elements), r.Config.Snap, snap.Exclude(exclude...))
	if t != nil {
		r.Logger.Debug("snap target", "point", p, "kind", t.Kind, "id", t.ElementID,
			"distance", t.Result.Distance, "duration", time.Since(start))
	}
	return t
}

// DragPoint finishes a drag of point id released at p. The point snaps onto
// the nearest qualifying line, curve or function and follows it from then
// on; otherwise it becomes a free point, on the grid when the grid is shown.
// Elements anchored to the point itself are not snap candidates.
func (r *Runner) DragPoint(id string, p geom.Point) (*element.Point, *snap.Target, error) {
	pt := r.Doc.Elements.Point(id)
	if pt == nil {
		return nil, nil, notFound(id, element.KindPoint)
	}
	if err := errors.ValidateFinite("pointer position", p.X, p.Y); err != nil {
		return nil, nil, err
	}

	target := r.Snap(p, r.Dependents(id)...)
	if target != nil {
		pt.Anchor = target.Anchor
		pt.X, pt.Y = target.Result.Coord.X, target.Result.Coord.Y
		r.Logger.Debug("point snapped", "id", id, "anchor", target.Anchor)
		return pt, target, nil
	}

	pos := p
	if r.Doc.Axes.ShowGrid {
		pos = r.Doc.Axes.SnapPoint(p)
	}
	pt.Anchor = nil
	pt.X, pt.Y = pos.X, pos.Y
	r.Logger.Debug("point moved", "id", id, "position", pos)
	return pt, nil, nil
}

// Dependents lists id and every element whose anchors refer to it,
// transitively.
func (r *Runner) Dependents(id string) []string {
	out := []string{id}
	seen := map[string]bool{id: true}
	for i := 0; i < len(out); i++ {
		for _, e := range r.Doc.Elements.All() {
			eid := e.ElementID()
			if seen[eid] || !element.RefersTo(e, out[i]) {
				continue
			}
			seen[eid] = true
			out = append(out, eid)
		}
	}
	return out
}

// Candidates previews the boundaries an area dropped at p would consider.
func (r *Runner) Candidates(p geom.Point, areaID string) ([]boundary.Candidate, error) {
	a := r.Doc.Elements.Area(areaID)
	if a == nil {
		return nil, notFound(areaID, element.KindArea)
	}
	return r.bounds.Candidates(p, boundary.InputFrom(r.Doc.Elements), a.IgnoredIDs), nil
}

// DropArea finishes a drag of area id's control point released at p and
// replaces the area with the result.
func (r *Runner) DropArea(id string, p geom.Point) (boundary.Outcome, error) {
	a := r.Doc.Elements.Area(id)
	if a == nil {
		return boundary.Outcome{}, notFound(id, element.KindArea)
	}
	if err := errors.ValidateFinite("pointer position", p.X, p.Y); err != nil {
		return boundary.Outcome{}, err
	}
	return r.resolveArea(a, p)
}

// IgnoreBoundary excludes boundaryID from area id and re-resolves the area
// at its current label position.
func (r *Runner) IgnoreBoundary(id, boundaryID string) (boundary.Outcome, error) {
	a := r.Doc.Elements.Area(id)
	if a == nil {
		return boundary.Outcome{}, notFound(id, element.KindArea)
	}
	drop := geom.Origin
	if a.LabelPos != nil {
		drop = *a.LabelPos
	}
	return r.resolveArea(boundary.Ignore(a, boundaryID), drop)
}

func (r *Runner) resolveArea(a *element.Area, p geom.Point) (boundary.Outcome, error) {
	start := time.Now()
	out := r.bounds.Resolve(a, p, boundary.InputFrom(r.Doc.Elements))
	if err := r.Doc.Elements.Replace(out.Area); err != nil {
		return boundary.Outcome{}, err
	}
	r.Logger.Debug("area resolved", "id", a.ID, "rule", out.Rule, "changed", out.Changed,
		"candidates", len(out.Candidates), "duration", time.Since(start))
	return out, nil
}

// AreaPolygon returns the renderable vertices of area id.
func (r *Runner) AreaPolygon(id string) ([]geom.Point, error) {
	a := r.Doc.Elements.Area(id)
	if a == nil {
		return nil, notFound(id, element.KindArea)
	}
	return r.bounds.Polygon(a), nil
}

// Delete removes element id. Everything anchored to it is frozen in place.
func (r *Runner) Delete(id string) error {
	if err := r.resolver.Delete(id); err != nil {
		return err
	}
	r.Logger.Debug("deleted element", "id", id)
	return nil
}

func notFound(id string, kind element.Kind) error {
	if kind == "" {
		return errors.New(errors.ErrCodeElementNotFound, "element %q not found", id)
	}
	return errors.New(errors.ErrCodeElementNotFound, "%s %q not found", kind, id)
}
