package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yegors/flightplanner/internal/briefing"
	"github.com/yegors/flightplanner/internal/config"
	"github.com/yegors/flightplanner/internal/geo"
	"github.com/yegors/flightplanner/internal/metrics"
	"github.com/yegors/flightplanner/internal/planner"
	"github.com/yegors/flightplanner/internal/route"
	"github.com/yegors/flightplanner/pkg/logger"
)

// maxImportBytes bounds the size of an imported route file
const maxImportBytes = 1 << 20

// Handler contains the API handlers
type Handler struct {
	planner *planner.Service
	briefs  *briefing.Generator
	metrics *metrics.Registry
	config  *config.Config
	logger  *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(plannerService *planner.Service, briefs *briefing.Generator, reg *metrics.Registry, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		planner: plannerService,
		briefs:  briefs,
		metrics: reg,
		config:  cfg,
		logger:  log.Named("api-handler"),
	}
}

type createRouteRequest struct {
	Name     string `json:"name"`
	Aircraft string `json:"aircraft"`
}

type pointRequest struct {
	Lon     *float64 `json:"lon"`
	Lat     *float64 `json:"lat"`
	Alt     *float64 `json:"alt,omitempty"`
	LegType string   `json:"leg_type,omitempty"`
}

func (p pointRequest) point() (geo.Point, error) {
	if p.Lon == nil || p.Lat == nil {
		return geo.Point{}, fmt.Errorf("lon and lat are required")
	}
	if *p.Lat < -90 || *p.Lat > 90 {
		return geo.Point{}, fmt.Errorf("invalid latitude: must be between -90 and 90")
	}
	if *p.Lon < -180 || *p.Lon > 180 {
		return geo.Point{}, fmt.Errorf("invalid longitude: must be between -180 and 180")
	}
	return geo.Point{Lon: *p.Lon, Lat: *p.Lat}, nil
}

type indexRequest struct {
	Index *int `json:"index"`
}

type altitudeRequest struct {
	Alt *float64 `json:"alt"`
}

type aircraftRequest struct {
	Aircraft string `json:"aircraft"`
}

type nameRequest struct {
	Name string `json:"name"`
}

// GetHealth returns the health status of the API
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"open_routes": len(h.planner.List()),
		"can_draft":   h.briefs.CanDraft(),
	})
}

// GetConfig returns the public configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	policy := h.planner.Policy()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"airports": h.planner.Airports(),
		"aircraft": h.planner.Aircraft(),
		"planner": map[string]interface{}{
			"default_route_name":   h.planner.DefaultRouteName(),
			"lock_tolerance_km":    policy.LockToleranceKm,
			"snap_tolerance_km":    policy.SnapToleranceKm,
			"relabel_tolerance_km": policy.RelabelToleranceKm,
			"first_point_alt_ft":   policy.FirstPointAltFt,
			"first_point_leg_type": policy.FirstPointLegType,
			"altitude_step_ft":     policy.AltitudeStepFt,
		},
		"isochrones": h.config.Isochrones,
		"briefing": map[string]interface{}{
			"enabled":   h.config.Briefing.Enabled,
			"can_draft": h.briefs.CanDraft(),
		},
	})
}

// GetIsochrones returns transit-time rings around the isochrone airports
func (h *Handler) GetIsochrones(w http.ResponseWriter, r *http.Request) {
	fc, err := h.planner.Isochrones(r.URL.Query().Get("aircraft"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, fc)
}

// ListRoutes returns every open route
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.planner.List())
}

// CreateRoute opens a new empty route
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req createRouteRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	view, err := h.planner.Create(req.Name, req.Aircraft)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, view)
}

// ImportRoute opens a route from its canonical text in the request body
func (h *Handler) ImportRoute(w http.ResponseWriter, r *http.Request) {
	body, ok := readRouteText(w, r)
	if !ok {
		return
	}

	view, err := h.planner.Import(body, r.URL.Query().Get("aircraft"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, view)
}

// GetRoute returns one open route
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	view, err := h.planner.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// CloseRoute discards an open route
func (h *Handler) CloseRoute(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Close(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AppendWaypoint adds a waypoint to the end of the route
func (h *Handler) AppendWaypoint(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := req.point()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	h.respondEdit(w, r, http.StatusCreated)(h.planner.Append(chi.URLParam(r, "id"), p, route.Hint{Alt: req.Alt, LegType: req.LegType}))
}

// InsertWaypoint adds a waypoint after the waypoint at {index}
func (h *Handler) InsertWaypoint(w http.ResponseWriter, r *http.Request) {
	after, ok := indexParam(w, r)
	if !ok {
		return
	}
	var req pointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := req.point()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	h.respondEdit(w, r, http.StatusCreated)(h.planner.Insert(chi.URLParam(r, "id"), after, p))
}

// DeleteWaypoint removes the waypoint at {index}
func (h *Handler) DeleteWaypoint(w http.ResponseWriter, r *http.Request) {
	i, ok := indexParam(w, r)
	if !ok {
		return
	}
	h.respondEdit(w, r, http.StatusOK)(h.planner.DeleteWaypoint(chi.URLParam(r, "id"), i))
}

// StartDrag begins dragging a waypoint
func (h *Handler) StartDrag(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Index == nil {
		badRequest(w, "index is required")
		return
	}
	h.respondEdit(w, r, http.StatusOK)(h.planner.StartDrag(chi.URLParam(r, "id"), *req.Index))
}

// MoveDrag moves the dragged waypoint
func (h *Handler) MoveDrag(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := req.point()
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	h.respondEdit(w, r, http.StatusOK)(h.planner.MoveDrag(chi.URLParam(r, "id"), p))
}

// DragAltitude sets the altitude of the dragged waypoint
func (h *Handler) DragAltitude(w http.ResponseWriter, r *http.Request) {
	var req altitudeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Alt == nil {
		badRequest(w, "alt is required")
		return
	}
	h.respondEdit(w, r, http.StatusOK)(h.planner.DragAltitude(chi.URLParam(r, "id"), *req.Alt))
}

// EndDrag finishes a drag
func (h *Handler) EndDrag(w http.ResponseWriter, r *http.Request) {
	h.respondEdit(w, r, http.StatusOK)(h.planner.EndDrag(chi.URLParam(r, "id")))
}

// Relabel renames every waypoint of the route
func (h *Handler) Relabel(w http.ResponseWriter, r *http.Request) {
	h.respondEdit(w, r, http.StatusOK)(h.planner.Relabel(chi.URLParam(r, "id")))
}

// ClearRoute removes every waypoint
func (h *Handler) ClearRoute(w http.ResponseWriter, r *http.Request) {
	h.respondEdit(w, r, http.StatusOK)(h.planner.Clear(chi.URLParam(r, "id")))
}

// SetAircraft switches the aircraft used for leg times
func (h *Handler) SetAircraft(w http.ResponseWriter, r *http.Request) {
	var req aircraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respondEdit(w, r, http.StatusOK)(h.planner.SetAircraft(chi.URLParam(r, "id"), req.Aircraft))
}

// RenameRoute changes the route name
func (h *Handler) RenameRoute(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respondEdit(w, r, http.StatusOK)(h.planner.Rename(chi.URLParam(r, "id"), req.Name))
}

// ReplaceContent loads canonical text from the request body into the route
func (h *Handler) ReplaceContent(w http.ResponseWriter, r *http.Request) {
	body, ok := readRouteText(w, r)
	if !ok {
		return
	}
	h.respondEdit(w, r, http.StatusOK)(h.planner.Replace(chi.URLParam(r, "id"), body))
}

// ExportRoute returns the canonical text of the route as a file download
func (h *Handler) ExportRoute(w http.ResponseWriter, r *http.Request) {
	filename, text, err := h.planner.Export(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(text)
}

// GetSummary returns leg and total metrics
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.planner.Summary(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, sum)
}

// GetGeoJSON returns the route as a GeoJSON feature collection
func (h *Handler) GetGeoJSON(w http.ResponseWriter, r *http.Request) {
	fc, err := h.planner.GeoJSON(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, fc)
}

// GenerateBrief builds the sortie brief, drafting a narrative when ?draft=true
func (h *Handler) GenerateBrief(w http.ResponseWriter, r *http.Request) {
	draft := false
	if v := r.URL.Query().Get("draft"); v != "" {
		var err error
		if draft, err = strconv.ParseBool(v); err != nil {
			badRequest(w, "Invalid draft parameter")
			return
		}
	}

	rt, err := h.planner.Snapshot(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	brief, err := h.briefs.Generate(r.Context(), rt, draft)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.ObserveBrief(brief.Drafted)
	WriteJSON(w, http.StatusOK, brief)
}

// SaveRoute stores the route
func (h *Handler) SaveRoute(w http.ResponseWriter, r *http.Request) {
	record, err := h.planner.Save(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

// ListSaved lists stored routes
func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "Invalid limit parameter")
			return
		}
		limit = n
	}

	records, err := h.planner.ListSaved(limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, records)
}

// OpenSaved opens a stored route for editing
func (h *Handler) OpenSaved(w http.ResponseWriter, r *http.Request) {
	view, err := h.planner.OpenSaved(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, view)
}

// DeleteSaved removes a stored route
func (h *Handler) DeleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.DeleteSaved(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondEdit writes the result of a planner edit
func (h *Handler) respondEdit(w http.ResponseWriter, r *http.Request, status int) func(planner.EditResult, error) {
	return func(res planner.EditResult, err error) {
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		WriteJSON(w, status, res)
	}
}

// readRouteText reads a canonical route file from the body, bounded by
// maxImportBytes
func readRouteText(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
	if err != nil {
		badRequest(w, "Failed to read body")
		return nil, false
	}
	if len(body) > maxImportBytes {
		WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Route file too large"})
		return nil, false
	}
	return body, true
}

func badRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "Invalid JSON")
		return false
	}
	return true
}

// decodeOptionalJSON accepts an empty body as the zero request
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		badRequest(w, "Invalid JSON")
		return false
	}
	return true
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		badRequest(w, "Invalid waypoint index")
		return 0, false
	}
	return i, true
}
