package server

import (
	"github.com/matzehuels/graphplane/pkg/boundary"
	"github.com/matzehuels/graphplane/pkg/buildinfo"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/plane"
	"github.com/matzehuels/graphplane/pkg/project"
	"github.com/matzehuels/graphplane/pkg/scene"
	"github.com/matzehuels/graphplane/pkg/snap"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// Transform directions.
const (
	ToPixel = "toPixel"
	ToGraph = "toGraph"
)

// TransformRequest converts points between graph space and pixels.
type TransformRequest struct {
	Axes      *plane.Axes     `json:"axes,omitempty"`
	Viewport  *plane.Viewport `json:"viewport,omitempty"`
	Direction string          `json:"direction"`
	Points    []geom.Point    `json:"points"`
}

// TransformResponse holds the converted points in request order.
type TransformResponse struct {
	Points []geom.Point `json:"points"`
	// Repaired is set when the request axes were invalid and had to be reset.
	Repaired bool `json:"repaired"`
}

// ProjectRequest asks for the closest point on one element.
type ProjectRequest struct {
	Scene     scene.Scene `json:"scene"`
	Point     geom.Point  `json:"point"`
	ElementID string      `json:"elementId"`
}

// ProjectResponse carries the projection, if the element has one.
type ProjectResponse struct {
	Found  bool            `json:"found"`
	Result *project.Result `json:"result,omitempty"`
}

// SnapRequest previews the snap target for a pointer position.
type SnapRequest struct {
	Scene   scene.Scene `json:"scene"`
	Point   geom.Point  `json:"point"`
	Exclude []string    `json:"exclude,omitempty"`
	// Thresholds overrides the configured snap thresholds.
	Thresholds *snap.Thresholds `json:"thresholds,omitempty"`
}

// SnapResponse carries the target, or null when nothing qualified.
type SnapResponse struct {
	Target *Target `json:"target"`
}

// Target is the wire form of a snap target.
type Target struct {
	Kind      string         `json:"kind"`
	ElementID string         `json:"elementId"`
	Anchor    *scene.Anchor  `json:"anchor"`
	Result    project.Result `json:"result"`
}

// DragRequest finishes the drag of a point.
type DragRequest struct {
	Scene   scene.Scene `json:"scene"`
	PointID string      `json:"pointId"`
	Point   geom.Point  `json:"point"`
}

// DragResponse returns the updated scene and the target the point snapped to.
type DragResponse struct {
	Scene  scene.Scene `json:"scene"`
	Target *Target     `json:"target"`
}

// BoundaryRequest drops an area's control point. Boundaries to skip are
// listed in the area's ignoredIds.
type BoundaryRequest struct {
	Scene  scene.Scene `json:"scene"`
	AreaID string      `json:"areaId"`
	Drop   geom.Point  `json:"drop"`
}

// BoundaryResponse returns the updated scene together with the resolution.
type BoundaryResponse struct {
	Scene      scene.Scene          `json:"scene"`
	Rule       boundary.Rule        `json:"rule"`
	Changed    bool                 `json:"changed"`
	Candidates []boundary.Candidate `json:"candidates"`
	Polygon    []geom.Point         `json:"polygon"`
}

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func encodeTarget(t *snap.Target) *Target {
	if t == nil {
		return nil
	}
	return &Target{
		Kind:      string(t.Kind),
		ElementID: t.ElementID,
		Anchor:    scene.EncodeAnchor(t.Anchor),
		Result:    t.Result,
	}
}
