package backendtwin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"roadtrip/internal/model"
)

// checklistRequest is the JSON body for create and update. Only current enum members
// are accepted; the retired TODO category is rejected like any other unknown value.
type checklistRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Priority     string `json:"priority"`
	Completed    bool   `json:"completed"`
	AssignedUser string `json:"assignedUser"`
}

// enumError renders a rejected enum the way the backend's validator does.
func enumError[T ~string](members []T) string {
	quoted := make([]string, len(members))
	for i, m := range members {
		quoted[i] = fmt.Sprintf("'%s'", m)
	}
	return "value is not a valid enumeration member; permitted: " + strings.Join(quoted, ", ")
}

func decodeChecklist(w http.ResponseWriter, r *http.Request) (checklistRecord, bool) {
	var req checklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		detail(w, http.StatusBadRequest, "Invalid request body")
		return checklistRecord{}, false
	}
	if strings.TrimSpace(req.Name) == "" {
		fieldErrors(w, "name", "field required")
		return checklistRecord{}, false
	}
	if !model.Category(req.Category).Valid() {
		fieldErrors(w, "category", enumError(model.Categories))
		return checklistRecord{}, false
	}
	if !model.Priority(req.Priority).Valid() {
		fieldErrors(w, "priority", enumError(model.Priorities))
		return checklistRecord{}, false
	}
	return checklistRecord{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Priority:     req.Priority,
		Completed:    req.Completed,
		AssignedUser: req.AssignedUser,
	}, true
}

func checklistJSON(rec checklistRecord, idField string) map[string]any {
	out := map[string]any{
		idField:       rec.ID,
		"name":        rec.Name,
		"description": rec.Description,
		"category":    rec.Category,
		"priority":    rec.Priority,
		"completed":   rec.Completed,
	}
	if rec.AssignedUser != "" {
		out["assignedUser"] = map[string]any{"username": rec.AssignedUser}
	}
	return out
}

// ListChecklist handles GET /roadtrips/{roadtripID}/checklist.
func (h *Handler) ListChecklist(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "roadtripID")
	if !ok {
		notFound(w)
		return
	}
	b := h.currentBehavior()
	idField := b.ChecklistIDField
	if idField == "" {
		idField = "checklistElementId"
	}

	recs := h.store.listChecklist(tripID)
	items := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		items = append(items, checklistJSON(rec, idField))
	}

	switch b.ChecklistEnvelope {
	case "array":
		writeJSON(w, http.StatusOK, items)
	case "elements", "items":
		writeJSON(w, http.StatusOK, map[string]any{b.ChecklistEnvelope: items})
	default:
		var list any = items
		if len(items) == 0 && b.NullWhenEmpty {
			list = nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"roadtripId": tripID, "checklistElements": list})
	}
}

// CreateChecklistElement handles POST /roadtrips/{roadtripID}/checklist.
func (h *Handler) CreateChecklistElement(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "roadtripID")
	if !ok {
		notFound(w)
		return
	}
	rec, ok := decodeChecklist(w, r)
	if !ok {
		return
	}
	rec = h.store.addChecklist(tripID, rec)

	switch h.currentBehavior().Create {
	case CreateEmpty:
		w.WriteHeader(http.StatusNoContent)
	case CreateID:
		writeJSON(w, http.StatusCreated, rec.ID)
	default:
		// Create answers with the generic "id" key, unlike the listing.
		writeJSON(w, http.StatusCreated, checklistJSON(rec, "id"))
	}
}

// UpdateChecklistElement handles PUT /roadtrips/{roadtripID}/checklist/{elementID}.
func (h *Handler) UpdateChecklistElement(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "roadtripID")
	if !ok {
		notFound(w)
		return
	}
	elementID, ok := pathID(r, "elementID")
	if !ok {
		notFound(w)
		return
	}
	rec, ok := decodeChecklist(w, r)
	if !ok {
		return
	}
	rec.ID = elementID
	if !h.store.updateChecklist(tripID, rec) {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteChecklistElement handles DELETE /roadtrips/{roadtripID}/checklist/{elementID}.
func (h *Handler) DeleteChecklistElement(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(r, "roadtripID")
	if !ok {
		notFound(w)
		return
	}
	elementID, ok := pathID(r, "elementID")
	if !ok || !h.store.deleteChecklist(tripID, elementID) {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
