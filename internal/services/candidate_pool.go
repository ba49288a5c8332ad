package services

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/spatial"
	"log"
)

const (
	DefaultSearchRadiusMeters = 10000
	maxSearchResults          = 60
	minPoolSize               = 3
	minQualityRating          = 3.5
)

type CandidatePoolRequest struct {
	Start        domain.Coordinates
	Theme        domain.Theme
	NumPlaces    int
	RadiusMeters int
}

// BuildCandidatePool fetches a superset of theme-matching places, keeps those
// rated at least 3.5 (or all of them when fewer than 3 pass) and annotates
// each survivor with its distance from the start point.
func BuildCandidatePool(
	ctx context.Context,
	req CandidatePoolRequest,
	searcher ports.PlaceSearcher,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "pool.Build")(&err)

	if req.NumPlaces < 1 {
		return nil, fmt.Errorf("build candidate pool: num places must be positive, got %d", req.NumPlaces)
	}

	radius := req.RadiusMeters
	if radius <= 0 {
		radius = DefaultSearchRadiusMeters
	}

	maxResults := min(req.NumPlaces*3, maxSearchResults)

	found, err := searcher.SearchNearby(ctx, req.Start, req.Theme.PlaceTypes(), radius, maxResults)
	if err != nil {
		return nil, fmt.Errorf("build candidate pool: search theme %q: %w", req.Theme, err)
	}

	if len(found) < minPoolSize {
		return nil, fmt.Errorf(
			"build candidate pool: theme %q found %d places: %w",
			req.Theme, len(found), ErrInsufficientCandidates,
		)
	}

	pool := make([]domain.Candidate, 0, len(found))
	for _, c := range found {
		if c.RatingOrZero() >= minQualityRating {
			pool = append(pool, c)
		}
	}
	if len(pool) < minPoolSize {
		log.Printf("pool quality filter left %d of %d places; using unfiltered pool", len(pool), len(found))
		pool = append(pool[:0], found...)
	}

	for i := range pool {
		pool[i].DistanceFromStart = spatial.HaversineMeters(req.Start, pool[i].Location)
	}

	log.Printf("pool theme=%s found=%d quality=%d", req.Theme, len(found), len(pool))

	return pool, nil
}
