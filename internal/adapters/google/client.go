package google

import (
	"context"
	"errors"
	"itinerary-route-service/internal/domain"
	"net/http"
	"strings"
	"time"
)

const (
	defaultPlacesBaseURL = "https://places.googleapis.com"
	defaultMapsBaseURL   = "https://maps.googleapis.com"
	defaultTimeout       = 10 * time.Second
)

// DetailCache stores place detail records keyed by place id.
// Get returns (nil, nil) on a miss.
type DetailCache interface {
	Get(ctx context.Context, placeID string) (*domain.PlaceDetail, error)
	Put(ctx context.Context, d *domain.PlaceDetail) error
}

// GeocodeCache maps normalized addresses to coordinates.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, address string, c domain.Coordinates) error
}

type Config struct {
	APIKey            string
	Timeout           time.Duration
	PlacesBaseURL     string
	MapsBaseURL       string
	PhotoProxyBaseURL string
}

// Client implements the place search, place detail, provider photo, routing
// and geocoding ports on top of Google Maps Platform.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Place detail caching
//   - External API calls with retry/backoff
//
// The client is safe for concurrent use.
type Client struct {
	session        *http.Client
	apiKey         string
	placesBaseURL  string
	mapsBaseURL    string
	photoProxyURL  string
	initialBackoff time.Duration
	detailCache    DetailCache
	geocodeCache   GeocodeCache
}

// NewClient builds a Client. Either cache may be nil.
func NewClient(cfg Config, detailCache DetailCache, geocodeCache GeocodeCache) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		session:        &http.Client{Timeout: timeout},
		apiKey:         cfg.APIKey,
		placesBaseURL:  orDefault(cfg.PlacesBaseURL, defaultPlacesBaseURL),
		mapsBaseURL:    orDefault(cfg.MapsBaseURL, defaultMapsBaseURL),
		photoProxyURL:  strings.TrimRight(cfg.PhotoProxyBaseURL, "/"),
		initialBackoff: 200 * time.Millisecond,
		detailCache:    detailCache,
		geocodeCache:   geocodeCache,
	}

	return c, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDefault(v, def string) string {
	v = strings.TrimRight(strings.TrimSpace(v), "/")
	if v == "" {
		return def
	}
	return v
}
