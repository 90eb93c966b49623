package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/graphplane/pkg/buildinfo"
	"github.com/matzehuels/graphplane/pkg/engine"
	"github.com/matzehuels/graphplane/pkg/errors"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/scene"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	axes, vp := s.cfg.Axes, s.cfg.Viewport
	if req.Axes != nil {
		axes = *req.Axes
	}
	if req.Viewport != nil {
		vp = *req.Viewport
	}
	axes, repaired := axes.Repair()

	var convert func(geom.Point) geom.Point
	switch req.Direction {
	case ToPixel:
		convert = func(p geom.Point) geom.Point { return vp.ToPixel(p, axes) }
	case ToGraph:
		convert = func(p geom.Point) geom.Point { return vp.ToGraph(p, axes) }
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"direction must be %q or %q, got %q", ToPixel, ToGraph, req.Direction))
		return
	}

	out := TransformResponse{Points: make([]geom.Point, 0, len(req.Points)), Repaired: repaired}
	for i, p := range req.Points {
		if !p.IsFinite() {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "point %d is not finite", i))
			return
		}
		out.Points = append(out.Points, convert(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.runner(req.Scene)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, found, err := run.Project(req.Point, req.ElementID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := ProjectResponse{Found: found}
	if found {
		out.Result = &res
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSnap(w http.ResponseWriter, r *http.Request) {
	var req SnapRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.runner(req.Scene)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Thresholds != nil {
		run.Config.Snap = *req.Thresholds
	}
	if err := errors.ValidateFinite("pointer position", req.Point.X, req.Point.Y); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SnapResponse{Target: encodeTarget(run.Snap(req.Point, req.Exclude...))})
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req DragRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.runner(req.Scene)
	if err != nil {
		s.writeError(w, err)
		return
	}

	_, target, err := run.DragPoint(req.PointID, req.Point)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DragResponse{
		Scene:  scene.FromDocument(run.Doc),
		Target: encodeTarget(target),
	})
}

func (s *Server) handleBoundary(w http.ResponseWriter, r *http.Request) {
	var req BoundaryRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.runner(req.Scene)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out, err := run.DropArea(req.AreaID, req.Drop)
	if err != nil {
		s.writeError(w, err)
		return
	}
	poly, err := run.AreaPolygon(req.AreaID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BoundaryResponse{
		Scene:      scene.FromDocument(run.Doc),
		Rule:       out.Rule,
		Changed:    out.Changed,
		Candidates: out.Candidates,
		Polygon:    poly,
	})
}

// runner decodes sc into a fresh engine. Axes and viewport missing from the
// scene come from the configuration.
func (s *Server) runner(sc scene.Scene) (*engine.Runner, error) {
	if sc.Axes == nil {
		axes := s.cfg.Axes
		sc.Axes = &axes
	}
	if sc.Viewport == nil {
		vp := s.cfg.Viewport
		sc.Viewport = &vp
	}
	doc, err := scene.ToDocument(sc)
	if err != nil {
		return nil, err
	}
	return engine.NewRunner(doc, s.compiler, s.cfg, s.logger), nil
}

// =============================================================================
// Encoding
// =============================================================================

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, ErrorBody{Error: ErrorDetail{
		Code:    string(errors.GetCodeOr(err, errors.ErrCodeInternal)),
		Message: errors.UserMessage(err),
	}})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
