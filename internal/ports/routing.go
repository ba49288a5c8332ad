package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

type RouteRequest struct {
	Origin            domain.Coordinates
	Destination       domain.Coordinates
	Waypoints         []domain.Coordinates
	Mode              domain.TransportMode
	OptimizeWaypoints bool
}

// Distance and travel duration of one leg.
type RouteLeg struct {
	DistanceMeters  int
	DurationSeconds int
}

type RouteResult struct {
	Polyline      string
	Legs          []RouteLeg
	WaypointOrder []int
}

// Contract for turn-by-turn routing through ordered waypoints.
// Provider timeouts must wrap ErrProviderTimeout.
type RoutingProvider interface {
	Route(ctx context.Context, req RouteRequest) (RouteResult, error)
}
