package mock

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"sync"
	"time"

	"github.com/twpayne/go-polyline"
)

// Routing builds a circular route with fixed per-leg cost. Modes listed in
// TimeoutModes fail with ports.ErrProviderTimeout. Delays holds how long a
// call in each mode takes before answering.
type Routing struct {
	LegMeters    int
	LegSeconds   int
	TimeoutModes map[domain.TransportMode]bool
	Delays       map[domain.TransportMode]time.Duration
	// Order, when set, returns the waypoint order for n waypoints.
	Order func(n int) []int

	mu    sync.Mutex
	calls []domain.TransportMode
}

func NewRouting(legMeters, legSeconds int) *Routing {
	return &Routing{
		LegMeters:    legMeters,
		LegSeconds:   legSeconds,
		TimeoutModes: map[domain.TransportMode]bool{},
		Delays:       map[domain.TransportMode]time.Duration{},
	}
}

func (r *Routing) Route(ctx context.Context, req ports.RouteRequest) (ports.RouteResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, req.Mode)
	timeout := r.TimeoutModes[req.Mode]
	delay := r.Delays[req.Mode]
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}
	if err := ctx.Err(); err != nil {
		return ports.RouteResult{}, err
	}
	if timeout {
		return ports.RouteResult{}, fmt.Errorf("route mode=%s: %w", req.Mode, ports.ErrProviderTimeout)
	}

	n := len(req.Waypoints)
	legs := make([]ports.RouteLeg, n+1)
	for i := range legs {
		legs[i] = ports.RouteLeg{DistanceMeters: r.LegMeters, DurationSeconds: r.LegSeconds}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if r.Order != nil {
		order = r.Order(n)
	}

	coords := make([][]float64, 0, n+2)
	coords = append(coords, req.Origin.CoordsToList())
	for _, idx := range order {
		if idx >= 0 && idx < n {
			coords = append(coords, req.Waypoints[idx].CoordsToList())
		}
	}
	coords = append(coords, req.Destination.CoordsToList())

	return ports.RouteResult{
		Polyline:      string(polyline.EncodeCoords(coords)),
		Legs:          legs,
		WaypointOrder: order,
	}, nil
}

// Calls returns the modes requested so far, in call order.
func (r *Routing) Calls() []domain.TransportMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TransportMode(nil), r.calls...)
}
