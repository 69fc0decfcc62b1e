package adapter

import (
	"strings"

	"roadtrip/internal/logging"
	"roadtrip/internal/model"
	"roadtrip/internal/transport"
)

var routeIDKeys = []string{"routeId", "id"}

// Routes adapts route payloads.
type Routes struct {
	Clock Clock
}

// NewRoutes returns a route adapter using clock for synthesized identifiers.
func NewRoutes(clock Clock) *Routes {
	return &Routes{Clock: clock}
}

// RoutePayload is the outbound body for route creation.
type RoutePayload struct {
	Name      string           `json:"name"`
	Waypoints []model.Waypoint `json:"waypoints"`
}

// Route returns the payload as a normalized route under id.
func (p RoutePayload) Route(id int64) model.Route {
	wps := make([]model.Waypoint, len(p.Waypoints))
	copy(wps, p.Waypoints)
	return model.Route{ID: id, Name: p.Name, Waypoints: wps}
}

// Route normalizes one raw route object.
func (a *Routes) Route(raw map[string]any, desiredID int64) model.Route {
	id, key, ok := firstID(raw, routeIDKeys...)
	switch {
	case ok:
		if key != routeIDKeys[0] {
			logging.AdapterDebug("route id read from %q", key)
		}
	case desiredID > 0:
		id = desiredID
	default:
		id = a.Clock.Synthesize()
		logging.AdapterWarn("route without id, synthesized %d", id)
	}

	return model.Route{
		ID:        id,
		Name:      firstString(raw, "name", "title"),
		Waypoints: waypoints(raw),
	}
}

func waypoints(raw map[string]any) []model.Waypoint {
	var list []any
	for _, k := range []string{"waypoints", "points"} {
		if l, ok := raw[k].([]any); ok {
			list = l
			break
		}
	}
	out := make([]model.Waypoint, 0, len(list))
	for i, item := range list {
		wp, ok := waypoint(item)
		if !ok {
			logging.AdapterWarn("route waypoint %d unusable (%T), skipped", i, item)
			continue
		}
		out = append(out, wp)
	}
	return out
}

// waypoint accepts {lat, lng} style objects under several spellings, or a [lat, lng] pair.
func waypoint(v any) (model.Waypoint, bool) {
	switch x := v.(type) {
	case map[string]any:
		lat, okLat := firstFloat(x, "latitude", "lat")
		lng, okLng := firstFloat(x, "longitude", "lng", "lon")
		if !okLat || !okLng {
			return model.Waypoint{}, false
		}
		return model.Waypoint{Latitude: lat, Longitude: lng, Label: firstString(x, "label", "name")}, true
	case []any:
		if len(x) < 2 {
			return model.Waypoint{}, false
		}
		lat, okLat := floatOf(x[0])
		lng, okLng := floatOf(x[1])
		if !okLat || !okLng {
			return model.Waypoint{}, false
		}
		return model.Waypoint{Latitude: lat, Longitude: lng}, true
	}
	return model.Waypoint{}, false
}

// Outbound validates caller input for the wire. Waypoints are never sent as null.
func (a *Routes) Outbound(in model.RouteInput) (RoutePayload, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return RoutePayload{}, &transport.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	wps := make([]model.Waypoint, 0, len(in.Waypoints))
	for _, wp := range in.Waypoints {
		wp.Label = strings.TrimSpace(wp.Label)
		wps = append(wps, wp)
	}
	return RoutePayload{Name: name, Waypoints: wps}, nil
}

// Collection extracts and normalizes a route list from any known envelope.
func (a *Routes) Collection(payload []byte) []model.Route {
	v, ok := Decode(payload)
	if !ok {
		logging.AdapterWarn("route collection: undecodable payload")
		return []model.Route{}
	}
	return a.CollectionOf(v)
}

// CollectionOf is Collection over an already decoded value.
func (a *Routes) CollectionOf(v any) []model.Route {
	s, list, ok := Match(RouteStrategies, v)
	if !ok {
		logging.AdapterWarn("route collection: no known envelope in %T payload", v)
		return []model.Route{}
	}
	logging.AdapterDebug("route collection via %s strategy (%d entries)", s.Name, len(list))

	out := make([]model.Route, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			logging.AdapterWarn("route collection: entry %d is %T, skipped", i, item)
			continue
		}
		out = append(out, a.Route(obj, 0))
	}
	return out
}
