package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"roadtrip/internal/model"
)

var (
	routeName      string
	routeWaypoints []string
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List and edit roadtrip routes",
}

var routesListCmd = &cobra.Command{
	Use:   "list <roadtripID>",
	Short: "Print the routes of a roadtrip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		routes, err := client.Routes(ctx, tripID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), routes)
	},
}

var routesAddCmd = &cobra.Command{
	Use:   "add <roadtripID>",
	Short: "Add a route",
	Example: `  tripctl routes add 42 --name Coast \
    --waypoint "-33.86,151.21,Sydney" --waypoint "-34.42,150.89"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		wps, err := parseWaypoints(routeWaypoints)
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		r, err := client.AddRoute(ctx, tripID, model.RouteInput{Name: routeName, Waypoints: wps})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), r)
	},
}

var routesDeleteCmd = &cobra.Command{
	Use:   "delete <roadtripID> <routeID>",
	Short: "Remove one route",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		routeID, err := parseID("routeID", args[1])
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		if err := client.DeleteRoute(ctx, tripID, routeID); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"deleted": routeID})
	},
}

var routesClearCmd = &cobra.Command{
	Use:   "clear <roadtripID>",
	Short: "Remove every route of a roadtrip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		if err := client.ClearRoutes(ctx, tripID); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"cleared": tripID})
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview <roadtripID>",
	Short: "Print checklist and routes together",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tripID, err := parseID("roadtripID", args[0])
		if err != nil {
			return err
		}
		ctx, cancel := opContext(cmd)
		defer cancel()
		ov, err := client.Overview(ctx, tripID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), ov)
	},
}

// parseWaypoints reads "lat,lng" or "lat,lng,label" values.
func parseWaypoints(values []string) ([]model.Waypoint, error) {
	wps := make([]model.Waypoint, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, ",", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("waypoint %q: want lat,lng[,label]", v)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("waypoint %q: bad latitude: %w", v, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("waypoint %q: bad longitude: %w", v, err)
		}
		wp := model.Waypoint{Latitude: lat, Longitude: lng}
		if len(parts) == 3 {
			wp.Label = strings.TrimSpace(parts[2])
		}
		wps = append(wps, wp)
	}
	return wps, nil
}

func init() {
	routesAddCmd.Flags().StringVar(&routeName, "name", "", "Route name (required)")
	routesAddCmd.Flags().StringArrayVar(&routeWaypoints, "waypoint", nil, "Waypoint as lat,lng[,label]; repeatable")
	routesAddCmd.MarkFlagRequired("name")

	routesCmd.AddCommand(routesListCmd, routesAddCmd, routesDeleteCmd, routesClearCmd)
}
