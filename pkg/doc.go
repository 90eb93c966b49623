// Package pkg provides the core libraries for Graphplane, a geometry engine
// for interactive coordinate-plane editors.
//
// # Overview
//
// A scene is a set of elements (points, lines, curves, function graphs,
// shaded areas and text labels) placed on a 2D plane. Points may be anchored
// to other elements, so moving a line drags every point glued to it along.
// The pkg directory is organized bottom-up:
//
//  1. [geom] - Points, vectors and Bézier curves
//  2. [plane] - Axis ranges and the graph ↔ pixel transform
//  3. [expr] - Compiling f(x) expressions into evaluable functions
//  4. [element] - The element model, anchors and reference resolution
//  5. [project] - Closest-point projection onto any element
//  6. [snap] - Choosing the snap target for a pointer
//  7. [boundary] - Inferring the boundaries of a shaded area
//  8. [scene] - The JSON scene document
//  9. [engine] - One scene plus the operations an editor performs on it
//
// # Architecture
//
// The typical flow of a pointer drag:
//
//	pointer (pixels)
//	      ↓
//	 [plane] ToGraph
//	      ↓
//	 [snap] Best (projects onto every candidate via [project])
//	      ↓
//	 [element] anchor stored on the dragged point
//	      ↓
//	 [element] Resolver re-resolves positions on every read
//
// # Quick Start
//
//	doc, _ := scene.ReadFile("scene.json")
//	run := engine.NewRunner(doc, expr.NewCompiler(), config.Default(), nil)
//
//	// Finish dragging point P at (1, 0.1).
//	p, target, err := run.DragPoint("P", geom.Pt(1, 0.1))
//
//	// Drop area a's control point between two function graphs.
//	out, err := run.DropArea("a", geom.Pt(1, 0))
//	poly, err := run.AreaPolygon("a")
//
// # Supporting Packages
//
// [solve] - Scalar root finding and minimization used by projections and
// boundary intersections.
//
// [config] - TOML configuration for thresholds, defaults and the server.
//
// [errors] - Coded, wrapped errors shared by every layer.
//
// [observability] - Hooks for engine operations and served HTTP requests.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/geom
// [plane]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/plane
// [expr]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/expr
// [element]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/element
// [project]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/project
// [snap]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/snap
// [boundary]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/boundary
// [scene]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/scene
// [engine]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/engine
// [solve]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/solve
// [config]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphplane/pkg/observability
package pkg
