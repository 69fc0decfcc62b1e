package roadtrip

import (
	"context"

	"roadtrip/internal/logging"
	"roadtrip/internal/model"
	"roadtrip/internal/transport"
)

// Checklist fetches the checklist of a roadtrip. Missing or null collections come back
// as an empty, non-nil slice.
func (c *Client) Checklist(ctx context.Context, roadtripID int64) ([]model.ChecklistElement, error) {
	if err := validID("roadtripId", roadtripID); err != nil {
		return nil, err
	}
	timer := logging.StartTimer(logging.CategoryChecklist, "Checklist")
	defer timer.Stop()

	out, err := c.api.Call(ctx, transport.Request{Method: transport.MethodGet, Path: checklistPath(roadtripID)})
	if err != nil {
		logging.ChecklistError("list roadtrip %d: %v", roadtripID, err)
		return nil, err
	}
	if out.Kind != transport.JSONSuccess {
		logging.ChecklistDebug("list roadtrip %d: %s response, no elements", roadtripID, out.Kind)
		return []model.ChecklistElement{}, nil
	}
	elems := c.checklist.Collection(out.Payload)
	logging.ChecklistDebug("list roadtrip %d: %d elements", roadtripID, len(elems))
	return elems, nil
}

// AddChecklistElement creates an element. The backend may answer with the entity, with
// just its identifier, or with nothing; the last case yields the submitted fields under
// a synthesized identifier.
func (c *Client) AddChecklistElement(ctx context.Context, roadtripID int64, in model.ChecklistInput) (model.ChecklistElement, error) {
	if err := validID("roadtripId", roadtripID); err != nil {
		return model.ChecklistElement{}, err
	}
	payload, err := c.checklist.Outbound(in)
	if err != nil {
		return model.ChecklistElement{}, err
	}

	out, err := c.api.Call(ctx, transport.Request{
		Method: transport.MethodPost,
		Path:   checklistPath(roadtripID),
		Body:   payload,
	})
	if err != nil {
		logging.ChecklistError("add to roadtrip %d: %v", roadtripID, err)
		return model.ChecklistElement{}, err
	}

	var el model.ChecklistElement
	if obj, ok := responseObject(out); ok {
		el = c.checklist.Element(obj, 0)
		if el.Name == "" {
			el = payload.Element(el.ID)
		}
	} else if id, ok := createdID(out); ok {
		el = payload.Element(id)
	} else {
		el = payload.Element(c.clock.Synthesize())
		logging.ChecklistDebug("add to roadtrip %d: %s response, synthesized id %d", roadtripID, out.Kind, el.ID)
	}
	logging.Checklist("added element %d to roadtrip %d", el.ID, roadtripID)
	return el, nil
}

// UpdateChecklistElement replaces an element. A 204 is the normal answer and yields the
// submitted fields under elementID.
func (c *Client) UpdateChecklistElement(ctx context.Context, roadtripID, elementID int64, in model.ChecklistInput) (model.ChecklistElement, error) {
	if err := validID("roadtripId", roadtripID); err != nil {
		return model.ChecklistElement{}, err
	}
	if err := validID("elementId", elementID); err != nil {
		return model.ChecklistElement{}, err
	}
	payload, err := c.checklist.Outbound(in)
	if err != nil {
		return model.ChecklistElement{}, err
	}

	out, err := c.api.Call(ctx, transport.Request{
		Method: transport.MethodPut,
		Path:   checklistElementPath(roadtripID, elementID),
		Body:   payload,
	})
	if err != nil {
		logging.ChecklistError("update %d in roadtrip %d: %v", elementID, roadtripID, err)
		return model.ChecklistElement{}, err
	}

	el := payload.Element(elementID)
	if obj, ok := responseObject(out); ok {
		if got := c.checklist.Element(obj, elementID); got.Name != "" {
			el = got
		}
	}
	logging.Checklist("updated element %d in roadtrip %d", elementID, roadtripID)
	return el, nil
}

// DeleteChecklistElement removes an element.
func (c *Client) DeleteChecklistElement(ctx context.Context, roadtripID, elementID int64) error {
	if err := validID("roadtripId", roadtripID); err != nil {
		return err
	}
	if err := validID("elementId", elementID); err != nil {
		return err
	}
	if _, err := c.api.Call(ctx, transport.Request{
		Method: transport.MethodDelete,
		Path:   checklistElementPath(roadtripID, elementID),
	}); err != nil {
		logging.ChecklistError("delete %d in roadtrip %d: %v", elementID, roadtripID, err)
		return err
	}
	logging.Checklist("deleted element %d in roadtrip %d", elementID, roadtripID)
	return nil
}
