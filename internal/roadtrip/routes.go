package roadtrip

import (
	"context"

	"roadtrip/internal/logging"
	"roadtrip/internal/model"
	"roadtrip/internal/transport"
)

// Routes fetches the routes of a roadtrip.
func (c *Client) Routes(ctx context.Context, roadtripID int64) ([]model.Route, error) {
	if err := validID("roadtripId", roadtripID); err != nil {
		return nil, err
	}
	timer := logging.StartTimer(logging.CategoryRoutes, "Routes")
	defer timer.Stop()

	out, err := c.api.Call(ctx, transport.Request{Method: transport.MethodGet, Path: routesPath(roadtripID)})
	if err != nil {
		logging.RoutesError("list roadtrip %d: %v", roadtripID, err)
		return nil, err
	}
	if out.Kind != transport.JSONSuccess {
		return []model.Route{}, nil
	}
	routes := c.routes.Collection(out.Payload)
	logging.RoutesDebug("list roadtrip %d: %d routes", roadtripID, len(routes))
	return routes, nil
}

// AddRoute creates a route, with the same response policy as AddChecklistElement.
func (c *Client) AddRoute(ctx context.Context, roadtripID int64, in model.RouteInput) (model.Route, error) {
	if err := validID("roadtripId", roadtripID); err != nil {
		return model.Route{}, err
	}
	payload, err := c.routes.Outbound(in)
	if err != nil {
		return model.Route{}, err
	}

	out, err := c.api.Call(ctx, transport.Request{
		Method: transport.MethodPost,
		Path:   routesPath(roadtripID),
		Body:   payload,
	})
	if err != nil {
		logging.RoutesError("add to roadtrip %d: %v", roadtripID, err)
		return model.Route{}, err
	}

	var r model.Route
	if obj, ok := responseObject(out); ok {
		r = c.routes.Route(obj, 0)
		if r.Name == "" {
			r = payload.Route(r.ID)
		}
	} else if id, ok := createdID(out); ok {
		r = payload.Route(id)
	} else {
		r = payload.Route(c.clock.Synthesize())
	}
	logging.Routes("added route %d to roadtrip %d", r.ID, roadtripID)
	return r, nil
}

// ClearRoutes removes every route of a roadtrip.
func (c *Client) ClearRoutes(ctx context.Context, roadtripID int64) error {
	if err := validID("roadtripId", roadtripID); err != nil {
		return err
	}
	if _, err := c.api.Call(ctx, transport.Request{Method: transport.MethodDelete, Path: routesPath(roadtripID)}); err != nil {
		logging.RoutesError("clear roadtrip %d: %v", roadtripID, err)
		return err
	}
	logging.Routes("cleared routes of roadtrip %d", roadtripID)
	return nil
}

// DeleteRoute removes one route.
func (c *Client) DeleteRoute(ctx context.Context, roadtripID, routeID int64) error {
	if err := validID("roadtripId", roadtripID); err != nil {
		return err
	}
	if err := validID("routeId", routeID); err != nil {
		return err
	}
	if _, err := c.api.Call(ctx, transport.Request{Method: transport.MethodDelete, Path: routePath(roadtripID, routeID)}); err != nil {
		logging.RoutesError("delete route %d in roadtrip %d: %v", routeID, roadtripID, err)
		return err
	}
	logging.Routes("deleted route %d in roadtrip %d", routeID, roadtripID)
	return nil
}
