// Package element models the drawable objects on a graph plane.
//
// # Elements
//
// [Element] is a closed sum type with six variants: [Point], [Line], [Curve],
// [Function], [Area] and [Text]. The interface is sealed (it carries an
// unexported method), so no other package can add a variant. Consumers that
// must handle every variant implement [Visitor] and dispatch through [Visit];
// adding a variant adds a method to Visitor and breaks every implementation
// at compile time until it is handled.
//
// # Anchors
//
// A position is specified by an [Anchor], another closed sum type:
//
//   - [Coord]: an explicit, free position
//   - [PointRef]: the current position of a Point
//   - [LineParam]: the point at parameter t along a Line
//   - [CurveParam]: the point at parameter t along a Curve
//   - [FunctionParam]: the point (x, f(x)) on a Function
//
// Every anchor except Coord is a weak reference by id. References are
// resolved against the live [Collection] on every use and never cached, so
// moving a referenced element moves everything anchored to it. A reference
// whose target is gone (or that loops back on itself) resolves to the origin.
//
// # Collections
//
// [Collection] stores elements in insertion order. It is not safe for
// concurrent mutation; callers serialise gestures so that one drag completes
// before the next begins.
//
//	c := element.NewCollection()
//	_, _ = c.Add(&element.Point{ID: "A", X: 1, Y: 2})
//	_, _ = c.Add(&element.Line{ID: "l", Kind: element.Segment,
//	    Start: element.PointRef{PointID: "A"}, End: element.Coord{X: 4, Y: 2}})
//
//	r := element.NewResolver(c, expr.NewCompiler(), plane.DefaultAxes())
//	start, end := r.LineEnds(c.Line("l"))
package element
