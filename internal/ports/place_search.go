package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// Contract for discovering places of given sub-types around a point.
// Implementations de-duplicate by place id across the requested types.
type PlaceSearcher interface {
	SearchNearby(
		ctx context.Context,
		center domain.Coordinates,
		types []string,
		radiusMeters int,
		maxResults int,
	) ([]domain.Candidate, error)
}

// Contract for expanding a place id into its full record.
type PlaceDetailProvider interface {
	PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetail, error)
}
