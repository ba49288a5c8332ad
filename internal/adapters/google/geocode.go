package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"log"
	"net/http"
)

var _ ports.Geocoder = (*Client)(nil)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address. "lat,lng" strings are parsed locally, other
// addresses go through the geocode cache before calling the provider.
func (c *Client) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	if coords, err := domain.ParseCoordinates(norm); err == nil {
		return coords, nil
	}

	// Resolve coordinates via cache before calling the geocoding API.
	if c.geocodeCache != nil {
		hit, ok, err := c.geocodeCache.Get(ctx, norm)
		if err != nil {
			log.Printf("geocode cache read failed: %v", err)
		} else if ok {
			return hit, nil
		}
	}

	endpoint := c.mapsBaseURL + "/maps/api/geocode/json"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, "")
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("address", norm)
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	switch decoded.Status {
	case "OK":
	case "ZERO_RESULTS":
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrNotFound)
	default:
		return domain.Coordinates{}, fmt.Errorf("geocode %q: status %s: %s", norm, decoded.Status, decoded.ErrorMessage)
	}

	if len(decoded.Results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrNotFound)
	}

	loc := decoded.Results[0].Geometry.Location
	coords := domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}

	if c.geocodeCache != nil {
		if err := c.geocodeCache.Put(ctx, norm, coords); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return coords, nil
}
