package ports

import (
	"context"
	"itinerary-route-service/internal/domain"
)

// Parameters for a user photo lookup. PlaceID is tried first; Lat/Lng, when
// both are set, drive a small bounding-box match.
type PhotoQuery struct {
	PlaceID   string
	Lat       *float64
	Lng       *float64
	MaxPhotos int
}

// User-submitted photos stored by the system itself.
type UserPhotoProvider interface {
	UserPhotos(ctx context.Context, q PhotoQuery) ([]string, error)
}

// Photos owned by the place provider. known, when non-nil, is a detail record
// already fetched for placeID and is used instead of a fresh lookup.
type ProviderPhotoProvider interface {
	PlacePhotos(ctx context.Context, placeID string, known *domain.PlaceDetail, maxPhotos int) ([]string, error)
}
