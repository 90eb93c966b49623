// Package boundary builds the polygon of a filled area from the functions,
// lines and axes near the point where the area's control point is dropped.
//
// # Rules
//
// Candidates are the non-ignored functions, lines and visible axes within
// [Options.Threshold] of the drop point, nearest first. The first rule that
// yields a polygon wins:
//
//  1. Two or more functions: the region between the nearest two, bounded by
//     the pair of intersections around the drop x.
//  2. A function and a line or axis: the region between the function and
//     the nearest of them. The x-axis gives the area under the function;
//     a vertical line or the y-axis walls the area under the function off
//     on one side, up to the next root on the drop side.
//  3. A function alone: the area under it within FallbackHalfWidth of the
//     drop x.
//  4. Otherwise the area keeps its shape and only its label moves.
//
// Nearby vertical lines and the y-axis also narrow the domain in rules 1
// and 2 from the side they lie on.
//
// Polygon vertices are stored as anchors on the bounding elements, so the
// area follows later edits of its functions and lines. Deleting one of them
// freezes the affected vertices in place.
package boundary
