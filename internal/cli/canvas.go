package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/engine"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/plane"
)

// Canvas styles
var (
	canvasAxisStyle     = lipgloss.NewStyle().Foreground(colorDim)
	canvasAreaStyle     = lipgloss.NewStyle().Foreground(colorDim)
	canvasLineStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	canvasCurveStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	canvasFunctionStyle = lipgloss.NewStyle().Foreground(colorBlue)
	canvasPointStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	canvasTextStyle     = lipgloss.NewStyle().Foreground(colorGray)
	canvasTargetStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	canvasPointerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// cellSamples is the number of samples per cell used when tracing lines,
// curves and function graphs.
const cellSamples = 3

type cell struct {
	r     rune
	style lipgloss.Style
}

// canvas rasterizes graph space into a grid of terminal cells. Each cell
// stands for the graph region it covers in a cols×rows viewport.
type canvas struct {
	cols, rows int
	axes       plane.Axes
	vp         plane.Viewport
	cells      []cell
}

func newCanvas(cols, rows int, axes plane.Axes) *canvas {
	axes, _ = axes.Repair()
	c := &canvas{cols: max(cols, 1), rows: max(rows, 1), axes: axes}
	c.vp = plane.Viewport{Width: float64(c.cols), Height: float64(c.rows)}
	c.cells = make([]cell, c.cols*c.rows)
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

// cellOf returns the cell covering p.
func (c *canvas) cellOf(p geom.Point) (col, row int, ok bool) {
	if !p.IsFinite() {
		return 0, 0, false
	}
	px := c.vp.ToPixel(p, c.axes)
	col, row = int(math.Floor(px.X)), int(math.Floor(px.Y))
	return col, row, col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

// center returns the graph point at the middle of a cell.
func (c *canvas) center(col, row int) geom.Point {
	return c.vp.ToGraph(geom.Pt(float64(col)+0.5, float64(row)+0.5), c.axes)
}

// step returns the graph size of one cell.
func (c *canvas) step() (dx, dy float64) {
	return c.vp.GraphPerPixel(c.axes)
}

func (c *canvas) set(p geom.Point, r rune, style lipgloss.Style) {
	if col, row, ok := c.cellOf(p); ok {
		c.cells[row*c.cols+col] = cell{r: r, style: style}
	}
}

func (c *canvas) text(p geom.Point, s string, style lipgloss.Style) {
	col, row, ok := c.cellOf(p)
	if !ok {
		return
	}
	for _, r := range s {
		if col >= c.cols {
			return
		}
		c.cells[row*c.cols+col] = cell{r: r, style: style}
		col++
	}
}

// String renders the grid, one line per row.
func (c *canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			if cl.r == ' ' {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(cl.style.Render(string(cl.r)))
		}
	}
	return b.String()
}

// =============================================================================
// Scene drawing
// =============================================================================

// drawScene paints every element of the runner's scene. Areas go first so
// that boundaries stay visible on top of their fill.
func drawScene(c *canvas, run *engine.Runner) {
	res := run.Resolver()
	elems := run.Elements()

	for _, a := range elems.Areas() {
		if poly, err := run.AreaPolygon(a.ID); err == nil {
			c.fill(poly)
		}
	}
	c.drawAxes()
	for _, l := range elems.Lines() {
		c.drawLine(res, l)
	}
	for _, cv := range elems.Curves() {
		c.trace(res.CurveBezier(cv).Sample(cellSamples*(c.cols+c.rows)), '·', canvasCurveStyle)
	}
	for _, f := range elems.Functions() {
		if b, err := res.BindFunction(f); err == nil {
			c.drawFunction(b)
		}
	}
	for _, t := range elems.Texts() {
		c.text(geom.Pt(t.X, t.Y), t.Text, canvasTextStyle)
	}
	for _, p := range elems.Points() {
		pos := res.PointPosition(p)
		c.set(pos, '●', canvasPointStyle)
		label := p.Label
		if label == "" {
			label = p.ID
		}
		dx, _ := c.step()
		c.text(pos.Add(geom.Pt(dx, 0)), label, canvasPointStyle)
	}
}

func (c *canvas) drawAxes() {
	dx, dy := c.step()
	if c.axes.XAxisVisible() {
		for x := c.axes.XMin + dx/2; x < c.axes.XMax; x += dx {
			c.set(geom.Pt(x, 0), '─', canvasAxisStyle)
		}
	}
	if c.axes.YAxisVisible() {
		for y := c.axes.YMin + dy/2; y < c.axes.YMax; y += dy {
			c.set(geom.Pt(0, y), '│', canvasAxisStyle)
		}
	}
	if c.axes.XAxisVisible() && c.axes.YAxisVisible() {
		c.set(geom.Origin, '┼', canvasAxisStyle)
	}
}

// drawLine traces a segment, ray or full line across the visible plane.
func (c *canvas) drawLine(res *element.Resolver, l *element.Line) {
	start, end := res.LineEnds(l)
	length := start.Distance(end)
	if length == 0 {
		c.set(start, '•', canvasLineStyle)
		return
	}
	mid := geom.Pt((c.axes.XMin+c.axes.XMax)/2, (c.axes.YMin+c.axes.YMax)/2)
	reach := (math.Hypot(c.axes.Width(), c.axes.Height()) + start.Distance(mid)) / length

	lo, hi := 0.0, 1.0
	switch l.Kind {
	case element.Ray:
		hi = reach
	case element.FullLine:
		lo, hi = -reach, reach
	}
	n := int(math.Ceil((hi - lo) * length / c.minStep() * cellSamples))
	n = min(max(n, 1), 100000)
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, res.LineAt(l, lo+(hi-lo)*float64(i)/float64(n)))
	}
	c.trace(pts, '•', canvasLineStyle)
}

func (c *canvas) drawFunction(f element.BoundFunction) {
	lo, hi := f.Domain(c.axes)
	lo, hi = math.Max(lo, c.axes.XMin), math.Min(hi, c.axes.XMax)
	dx, _ := c.step()
	h := dx / cellSamples
	for x := lo; x <= hi; x += h {
		if y, ok := f.At(x); ok {
			c.set(geom.Pt(x, y), '•', canvasFunctionStyle)
		}
	}
}

func (c *canvas) trace(pts []geom.Point, r rune, style lipgloss.Style) {
	for _, p := range pts {
		c.set(p, r, style)
	}
}

// fill shades every cell whose center lies inside poly.
func (c *canvas) fill(poly []geom.Point) {
	if len(poly) < 3 {
		return
	}
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			if p := c.center(col, row); inPolygon(p, poly) {
				c.cells[row*c.cols+col] = cell{r: '░', style: canvasAreaStyle}
			}
		}
	}
}

func (c *canvas) minStep() float64 {
	dx, dy := c.step()
	return math.Min(dx, dy)
}

// inPolygon reports whether p lies inside poly by the even-odd rule.
func inPolygon(p geom.Point, poly []geom.Point) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
