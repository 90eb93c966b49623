package scene

import (
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/plane"
)

// Element type discriminators.
const (
	TypePoint    = "point"
	TypeLine     = "line"
	TypeCurve    = "curve"
	TypeFunction = "function"
	TypeArea     = "area"
	TypeText     = "text"
)

// Anchor type discriminators. The reference types reuse the element names.
const (
	AnchorCoord    = "coord"
	AnchorPoint    = "point"
	AnchorLine     = "line"
	AnchorCurve    = "curve"
	AnchorFunction = "function"
)

// Scene is the serialization format of a scene document.
type Scene struct {
	Axes     *plane.Axes     `json:"axes,omitempty"`
	Viewport *plane.Viewport `json:"viewport,omitempty"`
	Elements []Element       `json:"elements"`
}

// Element is the unified wire type for every element variant. Fields that
// do not apply to Type are left empty.
type Element struct {
	Type string `json:"type"`
	ID   string `json:"id"`

	// point, text
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`

	// point
	Label       string  `json:"label,omitempty"`
	LabelIsMath bool    `json:"labelIsMath,omitempty"`
	Color       string  `json:"color,omitempty"`
	Size        float64 `json:"size,omitempty"`
	Filled      bool    `json:"filled,omitempty"`
	Anchor      *Anchor `json:"anchor,omitempty"`

	// line, curve
	Kind      string  `json:"kind,omitempty"`
	Start     *Anchor `json:"start,omitempty"`
	End       *Anchor `json:"end,omitempty"`
	Curvature float64 `json:"curvature,omitempty"`
	Style     *Style  `json:"style,omitempty"`

	// function
	Expression string   `json:"expression,omitempty"`
	OffsetX    float64  `json:"offsetX,omitempty"`
	OffsetY    float64  `json:"offsetY,omitempty"`
	ScaleY     *float64 `json:"scaleY,omitempty"`

	// function, area
	Domain *Domain `json:"domain,omitempty"`

	// area
	Mode        string      `json:"mode,omitempty"`
	Points      []Anchor    `json:"points,omitempty"`
	FunctionID  string      `json:"functionId,omitempty"`
	FunctionID2 string      `json:"functionId2,omitempty"`
	LineID      string      `json:"lineId,omitempty"`
	BoundaryIDs []string    `json:"boundaryIds,omitempty"`
	IgnoredIDs  []string    `json:"ignoredIds,omitempty"`
	LabelPos    *geom.Point `json:"labelPos,omitempty"`
	Fill        *Fill       `json:"fill,omitempty"`

	// text
	Text   string `json:"text,omitempty"`
	IsMath bool   `json:"isMath,omitempty"`
}

// Anchor is the wire type for every anchor variant.
type Anchor struct {
	Type       string   `json:"type"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	T          *float64 `json:"t,omitempty"`
	PointID    string   `json:"pointId,omitempty"`
	LineID     string   `json:"lineId,omitempty"`
	CurveID    string   `json:"curveId,omitempty"`
	FunctionID string   `json:"functionId,omitempty"`
}

// Style is the stroke of a line, curve or function.
type Style struct {
	Color  string  `json:"color,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Dashed bool    `json:"dashed,omitempty"`
}

// Fill is the paint of an area.
type Fill struct {
	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Domain is a closed x interval.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
