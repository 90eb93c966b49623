// Package geom provides the small vector toolkit shared by the engine packages.
//
// Coordinates are graph-space values: x increases to the right and y increases
// up the page. Pixel space lives in package plane.
//
// # Core Types
//
//   - [Point]: a 2D point or vector with the usual arithmetic
//   - [QuadBez]: a quadratic Bézier curve with its first derivative
//
// All types are plain values and safe to copy.
package geom
