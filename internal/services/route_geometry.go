package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"log"

	"github.com/twpayne/go-polyline"
)

// BuildRouteGeometry requests a circular route (origin == destination == start)
// through stops with waypoint optimization.
//
// The first attempt at a non-driving mode in a session runs alone; concurrent
// variants wait for its verdict. A mode recorded as failed is replaced by
// driving without calling the provider. A timeout on a non-driving mode is
// recorded in the session and retried once in driving mode; a timeout in
// driving mode is returned as *RoutingTimeoutError.
//
// The returned mode is the one the geometry was actually built with.
func BuildRouteGeometry(
	ctx context.Context,
	router ports.RoutingProvider,
	session *domain.GenerationSession,
	start domain.Coordinates,
	stops []domain.Coordinates,
	mode domain.TransportMode,
) (_ domain.RouteGeometry, _ domain.TransportMode, err error) {
	defer obs.Time(ctx, "geometry.Build")(&err)

	if len(stops) == 0 {
		return domain.RouteGeometry{}, mode, errors.New("build route geometry: stops must not be empty")
	}
	if session == nil {
		return domain.RouteGeometry{}, mode, errors.New("build route geometry: session must be non-nil")
	}

	effective := mode
	claimed := false
	if effective != domain.ModeDriving && !session.ModeFailed(effective) {
		claimed, err = session.ClaimMode(ctx, effective)
		if err != nil {
			return domain.RouteGeometry{}, mode, fmt.Errorf("build route geometry: %w", err)
		}
		if claimed {
			// Releases waiters even if routing panics; a no-op once settled.
			defer session.SettleMode(mode, false)
		}
	}
	if effective != domain.ModeDriving && session.ModeFailed(effective) {
		log.Printf("geometry mode=%s previously timed out in this session; using %s", effective, domain.ModeDriving)
		effective = domain.ModeDriving
	}

	res, err := callRouting(ctx, router, start, stops, effective)
	timedOut := err != nil && errors.Is(err, ports.ErrProviderTimeout) && effective != domain.ModeDriving
	if claimed {
		session.SettleMode(mode, timedOut)
	}
	if timedOut {
		log.Printf("geometry mode=%s timed out; falling back to %s", effective, domain.ModeDriving)
		session.MarkModeFailed(effective)
		effective = domain.ModeDriving
		res, err = callRouting(ctx, router, start, stops, effective)
	}
	if err != nil {
		return domain.RouteGeometry{}, effective, fmt.Errorf("build route geometry: %w", err)
	}

	geom := domain.RouteGeometry{
		EncodedPolyline: res.Polyline,
		OptimizedOrder:  normalizeOrder(res.WaypointOrder, len(stops)),
	}
	for _, leg := range res.Legs {
		geom.TotalDistanceMeters += leg.DistanceMeters
		geom.TotalDurationSeconds += leg.DurationSeconds
	}

	points, decodeErr := DecodePolyline(res.Polyline)
	if decodeErr != nil {
		log.Printf("geometry polyline decode failed: %v", decodeErr)
	}
	geom.Points = points

	return geom, effective, nil
}

func callRouting(
	ctx context.Context,
	router ports.RoutingProvider,
	start domain.Coordinates,
	stops []domain.Coordinates,
	mode domain.TransportMode,
) (ports.RouteResult, error) {
	res, err := router.Route(ctx, ports.RouteRequest{
		Origin:            start,
		Destination:       start,
		Waypoints:         stops,
		Mode:              mode,
		OptimizeWaypoints: true,
	})
	if err == nil {
		return res, nil
	}

	// Caller cancellation is not a provider timeout.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ports.RouteResult{}, ctxErr
	}
	if errors.Is(err, ports.ErrProviderTimeout) {
		return ports.RouteResult{}, &RoutingTimeoutError{Mode: mode, Err: err}
	}
	return ports.RouteResult{}, fmt.Errorf("route mode=%s: %w", mode, err)
}

// DecodePolyline decodes an encoded polyline into points.
func DecodePolyline(encoded string) ([]domain.Coordinates, error) {
	if encoded == "" {
		return []domain.Coordinates{}, nil
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return []domain.Coordinates{}, fmt.Errorf("decode polyline: %w", err)
	}

	out := make([]domain.Coordinates, 0, len(coords))
	for _, c := range coords {
		if len(c) != 2 {
			continue
		}
		out = append(out, domain.Coordinates{Lat: c[0], Lng: c[1]})
	}
	return out, nil
}

// normalizeOrder returns order when it is a permutation of [0, n), and the
// identity order otherwise.
func normalizeOrder(order []int, n int) []int {
	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}

	if len(order) != n {
		return identity
	}

	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return identity
		}
		seen[idx] = true
	}

	out := make([]int, n)
	copy(out, order)
	return out
}

// ReorderStops returns items arranged by order, which must be a permutation
// of item indices.
func ReorderStops[T any](items []T, order []int) []T {
	order = normalizeOrder(order, len(items))
	out := make([]T, 0, len(items))
	for _, idx := range order {
		out = append(out, items[idx])
	}
	return out
}
