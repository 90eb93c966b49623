package plane

import "github.com/matzehuels/graphplane/pkg/geom"

// ToPixel maps a graph-space point into a w×h pixel rectangle.
func ToPixel(p geom.Point, a Axes, w, h float64) geom.Point {
	a, _ = a.Repair()
	return geom.Point{
		X: (p.X - a.XMin) / (a.XMax - a.XMin) * w,
		Y: h - (p.Y-a.YMin)/(a.YMax-a.YMin)*h,
	}
}

// ToGraph is the exact inverse of ToPixel.
// A zero-sized pixel rectangle maps every pixel to the plane's lower-left corner.
func ToGraph(px geom.Point, a Axes, w, h float64) geom.Point {
	a, _ = a.Repair()
	p := geom.Point{X: a.XMin, Y: a.YMin}
	if w != 0 {
		p.X = a.XMin + px.X/w*(a.XMax-a.XMin)
	}
	if h != 0 {
		p.Y = a.YMin + (h-px.Y)/h*(a.YMax-a.YMin)
	}
	return p
}

// Viewport is the pixel rectangle a plane is drawn into.
type Viewport struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// DefaultViewport matches the default frame used by the CLI.
func DefaultViewport() Viewport {
	return Viewport{Width: 800, Height: 600}
}

// ToPixel maps p into this viewport.
func (v Viewport) ToPixel(p geom.Point, a Axes) geom.Point {
	return ToPixel(p, a, v.Width, v.Height)
}

// ToGraph maps a pixel of this viewport back into graph space.
func (v Viewport) ToGraph(px geom.Point, a Axes) geom.Point {
	return ToGraph(px, a, v.Width, v.Height)
}

// GraphPerPixel returns the graph-space size of one pixel on each axis.
// Interactive callers use it to express pixel tolerances in graph units.
func (v Viewport) GraphPerPixel(a Axes) (dx, dy float64) {
	a, _ = a.Repair()
	if v.Width > 0 {
		dx = a.Width() / v.Width
	}
	if v.Height > 0 {
		dy = a.Height() / v.Height
	}
	return dx, dy
}
