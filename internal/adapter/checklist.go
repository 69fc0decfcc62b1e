package adapter

import (
	"strings"

	"roadtrip/internal/logging"
	"roadtrip/internal/model"
	"roadtrip/internal/transport"
)

// checklistIDKeys is the identifier lookup order for checklist elements.
var checklistIDKeys = []string{"checklistElementId", "id", "elementId", "itemId"}

// Checklist adapts checklist element payloads.
type Checklist struct {
	Clock Clock
}

// NewChecklist returns a checklist adapter using clock for synthesized identifiers.
func NewChecklist(clock Clock) *Checklist {
	return &Checklist{Clock: clock}
}

// ChecklistPayload is the outbound body for create and update.
type ChecklistPayload struct {
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Category     model.Category `json:"category"`
	Priority     model.Priority `json:"priority"`
	Completed    bool           `json:"completed"`
	AssignedUser string         `json:"assignedUser,omitempty"`
}

// Element returns the payload's fields as a normalized element under id.
func (p ChecklistPayload) Element(id int64) model.ChecklistElement {
	return model.ChecklistElement{
		ID:           id,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Priority:     p.Priority,
		Completed:    p.Completed,
		AssignedUser: p.AssignedUser,
	}
}

// Element normalizes one raw checklist object. The identifier is taken from the first
// alias present, then desiredID when positive, then synthesized.
func (a *Checklist) Element(raw map[string]any, desiredID int64) model.ChecklistElement {
	id, key, ok := firstID(raw, checklistIDKeys...)
	switch {
	case ok:
		if key != checklistIDKeys[0] {
			logging.AdapterDebug("checklist element id read from %q", key)
		}
	case desiredID > 0:
		id = desiredID
	default:
		id = a.Clock.Synthesize()
		logging.AdapterWarn("checklist element without id, synthesized %d", id)
	}

	return model.ChecklistElement{
		ID:           id,
		Name:         firstString(raw, "name"),
		Description:  firstString(raw, "description"),
		Category:     model.ParseCategory(firstString(raw, "category")),
		Priority:     model.ParsePriority(firstString(raw, "priority")),
		Completed:    firstBool(raw, "completed", "isCompleted", "done"),
		AssignedUser: assignedUser(raw["assignedUser"]),
	}
}

// assignedUser accepts either a username string or a user object.
func assignedUser(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any:
		return strings.TrimSpace(firstString(x, "username", "name"))
	}
	return ""
}

// ElementJSON decodes payload as a single checklist object. It reports false when the
// payload is not a JSON object.
func (a *Checklist) ElementJSON(payload []byte, desiredID int64) (model.ChecklistElement, bool) {
	v, ok := Decode(payload)
	if !ok {
		return model.ChecklistElement{}, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return model.ChecklistElement{}, false
	}
	return a.Element(obj, desiredID), true
}

// Outbound validates and normalizes caller input for the wire.
func (a *Checklist) Outbound(in model.ChecklistInput) (ChecklistPayload, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ChecklistPayload{}, &transport.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return ChecklistPayload{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Category:     model.ParseCategory(in.Category),
		Priority:     model.ParsePriority(in.Priority),
		Completed:    in.Completed,
		AssignedUser: strings.TrimSpace(in.AssignedUser),
	}, nil
}

// Collection extracts and normalizes a checklist list from any known envelope. A payload
// that matches no strategy yields an empty list.
func (a *Checklist) Collection(payload []byte) []model.ChecklistElement {
	v, ok := Decode(payload)
	if !ok {
		logging.AdapterWarn("checklist collection: undecodable payload")
		return []model.ChecklistElement{}
	}
	return a.CollectionOf(v)
}

// CollectionOf is Collection over an already decoded value.
func (a *Checklist) CollectionOf(v any) []model.ChecklistElement {
	s, list, ok := Match(ChecklistStrategies, v)
	if !ok {
		logging.AdapterWarn("checklist collection: no known envelope in %T payload", v)
		return []model.ChecklistElement{}
	}
	logging.AdapterDebug("checklist collection via %s strategy (%d entries)", s.Name, len(list))

	out := make([]model.ChecklistElement, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			logging.AdapterWarn("checklist collection: entry %d is %T, skipped", i, item)
			continue
		}
		out = append(out, a.Element(obj, 0))
	}
	return out
}
