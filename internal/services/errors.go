package services

import (
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
)

var (
	ErrInsufficientCandidates = errors.New("insufficient candidates")
	ErrGeocodeFailure         = errors.New("geocode failure")
	ErrInvalidStartPoint      = errors.New("start point must have coordinates or an address")
	ErrAllVariantsFailed      = errors.New("all route variants failed")
	ErrInvalidRequest         = errors.New("invalid route generation request")
)

// RoutingTimeoutError reports that the routing collaborator timed out for Mode.
type RoutingTimeoutError struct {
	Mode domain.TransportMode
	Err  error
}

func (e *RoutingTimeoutError) Error() string {
	return fmt.Sprintf("routing timeout mode=%s: %v", e.Mode, e.Err)
}

func (e *RoutingTimeoutError) Unwrap() []error { return []error{ports.ErrProviderTimeout, e.Err} }
