// Package plane maps between graph space and pixel space.
//
// Graph space is the author-facing coordinate system bounded by an [Axes]
// value. Pixel space is a fixed-size device rectangle with its origin in the
// top-left corner, so the Y axis is inverted: larger graph y means smaller
// pixel y.
//
// # Transforms
//
//	px := plane.ToPixel(geom.Pt(1, 2), axes, 800, 600)
//	p := plane.ToGraph(px, axes, 800, 600) // ≈ (1, 2)
//
// The transform pair is pure and keeps no state between calls; renderers call
// it for every element on every frame.
//
// # Axis Repair
//
// Every transform divides by the axis range. Callers must never hand a
// non-positive range to the engine; [Axes.Validate] reports the problem and
// [Axes.Repair] resets the broken axis to the default ±5 range. The transform
// functions repair defensively before dividing.
package plane
