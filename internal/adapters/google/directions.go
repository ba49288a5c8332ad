package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"net/http"
	"strings"
)

var _ ports.RoutingProvider = (*Client)(nil)

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
		WaypointOrder []int `json:"waypoint_order"`
	} `json:"routes"`
}

// Route asks the Directions API for a route through the waypoints.
func (c *Client) Route(ctx context.Context, req ports.RouteRequest) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "google.Route")(&err)

	mode := req.Mode
	if mode == "" {
		mode = domain.ModeDriving
	}

	endpoint := c.mapsBaseURL + "/maps/api/directions/json"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		r, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, "")
		if err != nil {
			return nil, err
		}
		q := r.URL.Query()
		q.Set("origin", req.Origin.String())
		q.Set("destination", req.Destination.String())
		q.Set("mode", string(mode))
		q.Set("key", c.apiKey)
		if wp := waypointsParam(req.Waypoints, req.OptimizeWaypoints); wp != "" {
			q.Set("waypoints", wp)
		}
		r.URL.RawQuery = q.Encode()
		return r, nil
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("route mode=%s: %w", mode, err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	switch decoded.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return ports.RouteResult{}, fmt.Errorf("route mode=%s: status %s: %w", mode, decoded.Status, ports.ErrNotFound)
	default:
		return ports.RouteResult{}, fmt.Errorf("route mode=%s: status %s: %s", mode, decoded.Status, decoded.ErrorMessage)
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteResult{}, errors.New("directions returned no routes")
	}

	route := decoded.Routes[0]
	out := ports.RouteResult{
		Polyline:      route.OverviewPolyline.Points,
		Legs:          make([]ports.RouteLeg, 0, len(route.Legs)),
		WaypointOrder: route.WaypointOrder,
	}
	for _, leg := range route.Legs {
		out.Legs = append(out.Legs, ports.RouteLeg{
			DistanceMeters:  leg.Distance.Value,
			DurationSeconds: leg.Duration.Value,
		})
	}

	return out, nil
}

func waypointsParam(points []domain.Coordinates, optimize bool) string {
	if len(points) == 0 {
		return ""
	}

	parts := make([]string, 0, len(points)+1)
	if optimize {
		parts = append(parts, "optimize:true")
	}
	for _, p := range points {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "|")
}
