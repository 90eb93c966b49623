// Package scene provides the JSON wire format for scene documents.
//
// A scene is the unit exchanged with the CLI and the HTTP facade: the axes,
// the viewport they are drawn into, and the elements on the plane.
//
// # Wire Format
//
// Elements and anchors are discriminated by a "type" field:
//
//	{
//	  "axes": {"xMin": -5, "xMax": 5, "yMin": -5, "yMax": 5, "showGrid": true, "gridStep": 1},
//	  "viewport": {"width": 800, "height": 600},
//	  "elements": [
//	    {"type": "point", "id": "A", "x": 1, "y": 2},
//	    {"type": "line", "id": "l", "kind": "segment",
//	     "start": {"type": "point", "pointId": "A"},
//	     "end": {"type": "coord", "x": 4, "y": 2}},
//	    {"type": "function", "id": "f", "expression": "x^2"}
//	  ]
//	}
//
// Element types are point, line, curve, function, area and text. Anchor
// types are coord, point, line, curve and function. A function without
// "scaleY" is unscaled. Missing axes and viewport take their defaults.
//
// Common operations:
//
//	doc, _ := scene.ReadFile("scene.json")   // File → Document
//	scene.WriteFile(doc, "out.json")         // Document → File
//	data, _ := scene.Marshal(doc)            // Document → []byte
//
// Invalid axes in an input file are repaired to the default range on the
// offending axis; [Document.Repaired] reports that it happened.
package scene
