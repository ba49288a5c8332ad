package services

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"log"
	"strings"
)

// StartPoint is either coordinates or a free-text address.
type StartPoint struct {
	Lat     *float64
	Lng     *float64
	Address string
}

// ResolveStartPoint returns the coordinates to start routes from.
//
// Explicit coordinates win. An address without a comma is treated as lacking
// an area qualifier and gets ", <location>" appended before geocoding. If the
// address cannot be geocoded, the area location itself is geocoded instead.
func ResolveStartPoint(
	ctx context.Context,
	geocoder ports.Geocoder,
	location string,
	start StartPoint,
) (domain.Coordinates, error) {
	if start.Lat != nil && start.Lng != nil {
		return domain.Coordinates{Lat: *start.Lat, Lng: *start.Lng}, nil
	}

	address := strings.TrimSpace(start.Address)
	if address == "" {
		return domain.Coordinates{}, ErrInvalidStartPoint
	}
	if geocoder == nil {
		return domain.Coordinates{}, fmt.Errorf("resolve start point: no geocoder: %w", ErrGeocodeFailure)
	}

	location = strings.TrimSpace(location)
	if !strings.Contains(address, ",") && location != "" {
		address = address + ", " + location
	}

	coords, err := geocoder.Geocode(ctx, address)
	if err == nil {
		return coords, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Coordinates{}, ctxErr
	}

	log.Printf("start point geocode failed address=%q err=%v; using area %q", address, err, location)

	if location == "" {
		return domain.Coordinates{}, fmt.Errorf("resolve start point: %q: %w: %v", address, ErrGeocodeFailure, err)
	}

	coords, areaErr := geocoder.Geocode(ctx, location)
	if areaErr != nil {
		return domain.Coordinates{}, fmt.Errorf(
			"resolve start point: %q and area %q: %w: %v",
			address, location, ErrGeocodeFailure, areaErr,
		)
	}

	return coords, nil
}
