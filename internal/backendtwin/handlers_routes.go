package backendtwin

import (
	"encoding/json"
	"net/http"
	"strings"

	"roadtrip/internal/model"
)

type routeRequest struct {
	Name      string           `json:"name"`
	Waypoints []model.Waypoint `json:"waypoints"`
}

func routeJSON(rec routeRecord) map[string]any {
	points := make([]map[string]any, 0, len(rec.Waypoints))
	for _, wp := range rec.Waypoints {
		p := map[string]any{"lat": wp.Latitude, "lng": wp.Longitude}
		if wp.Label != "" {
			p["label"] = wp.Label
		}
		points = append(points, p)
	}
	return map[string]any{"routeId": rec.ID, "name": rec.Name, "waypoints": points}
}

// ListRoutes handles GET /roadtrips/{roadtripID}/routes.
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "roadtripID")
	if !ok {
		notFound(w)
		return
	}
	b := h.currentBehavior()
	recs := h.store.listRoutes(tripID)
	items := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		items = append(items, routeJSON(rec))
	}

	switch b.RouteEnvelope {
	case "array":
		writeJSON(w, http.StatusOK, items)
	case "items":
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	default:
		var list any = items
		if len(items) == 0 && b.NullWhenEmpty {
			list = nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"roadtripId": tripID, "routes": list})
	}
}

// CreateRoute handles POST /roadtrips/{roadtripID}/routes.
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "roadtripID")
	if !ok {
		notFound(w)
		return
	}
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		detail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		fieldErrors(w, "name", "field required")
		return
	}
	rec := h.store.addRoute(tripID, routeRecord{Name: req.Name, Waypoints: req.Waypoints})

	switch h.currentBehavior().Create {
	case CreateEmpty:
		w.WriteHeader(http.StatusNoContent)
	case CreateID:
		writeJSON(w, http.StatusCreated, rec.ID)
	default:
		writeJSON(w, http.StatusCreated, routeJSON(rec))
	}
}

// ClearRoutes handles DELETE /roadtrips/{roadtripID}/routes.
func (h *Handler) ClearRoutes(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "roadtripID")
	if !ok {
		notFound(w)
		return
	}
	h.store.clearRoutes(tripID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteRoute handles DELETE /roadtrips/{roadtripID}/routes/{routeID}.
func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "roadtripID")
	if !ok {
		notFound(w)
		return
	}
	routeID, ok := pathID(r, "routeID")
	if !ok || !h.store.deleteRoute(tripID, routeID) {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
