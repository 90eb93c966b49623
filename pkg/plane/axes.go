package plane

import (
	"math"

	"github.com/matzehuels/graphplane/pkg/errors"
	"github.com/matzehuels/graphplane/pkg/geom"
)

// DefaultExtent is the half-width of the default axis range (±5).
const DefaultExtent = 5.0

// Axes bounds graph space.
type Axes struct {
	XMin     float64  `json:"xMin" toml:"x_min"`
	XMax     float64  `json:"xMax" toml:"x_max"`
	YMin     float64  `json:"yMin" toml:"y_min"`
	YMax     float64  `json:"yMax" toml:"y_max"`
	ShowGrid bool     `json:"showGrid" toml:"show_grid"`
	XStep    *float64 `json:"xStep,omitempty" toml:"x_step,omitempty"`
	YStep    *float64 `json:"yStep,omitempty" toml:"y_step,omitempty"`
	GridStep float64  `json:"gridStep" toml:"grid_step"`
}

// DefaultAxes returns the ±5 plane with a unit grid.
func DefaultAxes() Axes {
	return Axes{
		XMin:     -DefaultExtent,
		XMax:     DefaultExtent,
		YMin:     -DefaultExtent,
		YMax:     DefaultExtent,
		ShowGrid: true,
		GridStep: 1,
	}
}

// Validate reports an INVALID_AXES error when either range is empty,
// inverted or non-finite.
func (a Axes) Validate() error {
	if err := errors.ValidateFinite("axis bounds", a.XMin, a.XMax, a.YMin, a.YMax); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAxes, err, "axis bounds must be finite")
	}
	if a.XMax <= a.XMin {
		return errors.New(errors.ErrCodeInvalidAxes, "x range is empty: [%g, %g]", a.XMin, a.XMax)
	}
	if a.YMax <= a.YMin {
		return errors.New(errors.ErrCodeInvalidAxes, "y range is empty: [%g, %g]", a.YMin, a.YMax)
	}
	return nil
}

// Repair resets each broken axis to the default ±5 range and reports whether
// anything changed. A valid axis is left untouched.
func (a Axes) Repair() (Axes, bool) {
	changed := false
	if !validRange(a.XMin, a.XMax) {
		a.XMin, a.XMax = -DefaultExtent, DefaultExtent
		changed = true
	}
	if !validRange(a.YMin, a.YMax) {
		a.YMin, a.YMax = -DefaultExtent, DefaultExtent
		changed = true
	}
	return a, changed
}

func validRange(lo, hi float64) bool {
	return geom.IsFinite(lo) && geom.IsFinite(hi) && hi > lo
}

// Width returns the x range.
func (a Axes) Width() float64 { return a.XMax - a.XMin }

// Height returns the y range.
func (a Axes) Height() float64 { return a.YMax - a.YMin }

// XAxisVisible reports whether the line y=0 lies inside the plane.
func (a Axes) XAxisVisible() bool { return a.YMin <= 0 && 0 <= a.YMax }

// YAxisVisible reports whether the line x=0 lies inside the plane.
func (a Axes) YAxisVisible() bool { return a.XMin <= 0 && 0 <= a.XMax }

// Contains reports whether p lies inside the plane, borders included.
func (a Axes) Contains(p geom.Point) bool {
	return p.X >= a.XMin && p.X <= a.XMax && p.Y >= a.YMin && p.Y <= a.YMax
}

// XStepOr returns the x grid step, falling back to GridStep and then def.
func (a Axes) XStepOr(def float64) float64 {
	return stepOr(a.XStep, a.GridStep, def)
}

// YStepOr returns the y grid step, falling back to GridStep and then def.
func (a Axes) YStepOr(def float64) float64 {
	return stepOr(a.YStep, a.GridStep, def)
}

func stepOr(step *float64, grid, def float64) float64 {
	if step != nil && *step > 0 {
		return *step
	}
	if grid > 0 {
		return grid
	}
	return def
}

// SnapPoint snaps p to the axis grid when the grid is shown.
func (a Axes) SnapPoint(p geom.Point) geom.Point {
	if !a.ShowGrid {
		return p
	}
	return geom.Pt(SnapToGrid(p.X, a.XStepOr(0)), SnapToGrid(p.Y, a.YStepOr(0)))
}

// SnapToGrid rounds value to the nearest multiple of step.
// A non-positive or non-finite step leaves value unchanged.
func SnapToGrid(value, step float64) float64 {
	if step <= 0 || !geom.IsFinite(step) {
		return value
	}
	return math.Round(value/step) * step
}
