package roadtrip

import (
	"context"

	"golang.org/x/sync/errgroup"

	"roadtrip/internal/model"
)

// Overview fetches the checklist and routes of a roadtrip concurrently. The first
// failure cancels the other request and is returned.
func (c *Client) Overview(ctx context.Context, roadtripID int64) (model.Overview, error) {
	if err := validID("roadtripId", roadtripID); err != nil {
		return model.Overview{}, err
	}

	var (
		checklist []model.ChecklistElement
		routes    []model.Route
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		checklist, err = c.Checklist(gctx, roadtripID)
		return err
	})
	g.Go(func() error {
		var err error
		routes, err = c.Routes(gctx, roadtripID)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Overview{}, err
	}
	return model.Overview{RoadtripID: roadtripID, Checklist: checklist, Routes: routes}, nil
}
