// Package project computes the closest point on a geometric element to a
// query point.
//
// Lines are solved in closed form. Curves and functions are solved by a
// coarse sampling pass followed by a bounded refinement pass; the iteration
// counts live in [Options] and bound the work per query regardless of input.
// The curve refinement is a few gradient steps from the best sample and is
// an approximation: it may settle a little off the true minimum on tight
// curves, which is acceptable for snapping.
//
// Free functions ([OnLine], [OnQuad], [OnFunction]) work on raw geometry.
// [Projector] binds them to elements through an [element.Resolver].
package project
