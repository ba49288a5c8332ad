package google

import (
	"context"
	"encoding/json"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, timeout time.Duration) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:            "test-key",
		Timeout:           timeout,
		PlacesBaseURL:     srv.URL,
		MapsBaseURL:       srv.URL,
		PhotoProxyBaseURL: "https://api.example.com/",
	}, nil, nil)
	require.NoError(t, err)
	c.initialBackoff = time.Millisecond

	return c, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func fixturePlace(id string, rating float64, lat, lng float64) map[string]any {
	return map[string]any{
		"id":          id,
		"displayName": map[string]any{"text": "Place " + id},
		"types":       []string{"museum", "point_of_interest"},
		"location":    map[string]any{"latitude": lat, "longitude": lng},
		"rating":      rating,
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{}, nil, nil)
	require.Error(t, err)
}

func TestSearchNearbyDedupSortAndPerTypeFailure(t *testing.T) {
	var mu sync.Mutex
	requested := map[string]int{}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/places:searchNearby", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Goog-FieldMask"))

		var body nearbyRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		typ := body.IncludedTypes[0]
		mu.Lock()
		requested[typ] = body.MaxResultCount
		mu.Unlock()

		switch typ {
		case "museum":
			writeJSON(w, map[string]any{"places": []any{
				fixturePlace("p1", 4.5, 48.87, 2.35),
				fixturePlace("p2", 4.8, 48.861, 2.341),
			}})
		case "art_gallery":
			noLocation := fixturePlace("p4", 5, 0, 0)
			delete(noLocation, "location")
			writeJSON(w, map[string]any{"places": []any{
				fixturePlace("p2", 4.8, 48.861, 2.341),
				fixturePlace("p3", 4.8, 48.9, 2.4),
				noLocation,
			}})
		default:
			http.Error(w, "bad type", http.StatusBadRequest)
		}
	})

	c, _ := newTestClient(t, h, time.Second)

	center := domain.Coordinates{Lat: 48.86, Lng: 2.34}
	got, err := c.SearchNearby(context.Background(), center, []string{"museum", "art_gallery", "church"}, 10000, 10)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, cand := range got {
		ids = append(ids, cand.ID)
	}
	require.Equal(t, []string{"p2", "p3", "p1"}, ids)
	require.True(t, got[0].Types.Has("museum"))

	require.Equal(t, map[string]int{"museum": 10, "art_gallery": 8, "church": 7}, requested)
}

func TestSearchNearbyTruncates(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"places": []any{
			fixturePlace("a", 3.0, 1, 1),
			fixturePlace("b", 4.0, 1, 1),
			fixturePlace("c", 5.0, 1, 1),
		}})
	})
	c, _ := newTestClient(t, h, time.Second)

	got, err := c.SearchNearby(context.Background(), domain.Coordinates{Lat: 1, Lng: 1}, []string{"park"}, 1000, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "c", got[0].ID)
	require.Equal(t, "b", got[1].ID)
}

func TestSearchNearbyAllTypesFail(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})
	c, _ := newTestClient(t, h, time.Second)

	_, err := c.SearchNearby(context.Background(), domain.Coordinates{}, []string{"park", "cafe"}, 1000, 5)
	require.Error(t, err)
}

type memDetailCache struct {
	mu sync.Mutex
	m  map[string]*domain.PlaceDetail
}

func (c *memDetailCache) Get(_ context.Context, id string) (*domain.PlaceDetail, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[id], nil
}

func (c *memDetailCache) Put(_ context.Context, d *domain.PlaceDetail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[d.ID] = d
	return nil
}

func TestPlaceDetailsMapsFieldsAndCaches(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/places/p1", r.URL.Path)
		writeJSON(w, map[string]any{
			"id":                    "p1",
			"displayName":           map[string]any{"text": "Louvre"},
			"types":                 []string{"museum"},
			"location":              map[string]any{"latitude": 48.8606, "longitude": 2.3376},
			"rating":                4.7,
			"userRatingCount":       1200,
			"formattedAddress":      "Rue de Rivoli, Paris",
			"shortFormattedAddress": "Rue de Rivoli",
			"priceLevel":            "PRICE_LEVEL_MODERATE",
			"regularOpeningHours":   map[string]any{"openNow": true, "weekdayDescriptions": []string{"Monday: 9-18"}},
			"photos":                []any{map[string]any{"name": "places/p1/photos/a"}, map[string]any{"name": "places/p1/photos/b"}},
		})
	})
	c, _ := newTestClient(t, h, time.Second)
	c.detailCache = &memDetailCache{m: map[string]*domain.PlaceDetail{}}

	d, err := c.PlaceDetails(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "Louvre", d.Name)
	require.Equal(t, "Rue de Rivoli", d.Vicinity)
	require.NotNil(t, d.PriceLevel)
	require.Equal(t, 2, *d.PriceLevel)
	require.NotNil(t, d.OpeningHours)
	require.True(t, *d.OpeningHours.OpenNow)
	require.Equal(t, []string{"places/p1/photos/a", "places/p1/photos/b"}, d.PhotoRefs)

	_, err = c.PlaceDetails(context.Background(), "p1")
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	urls, err := c.PlacePhotos(context.Background(), "p1", nil, 1)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://api.example.com/places/photo-proxy?max_width=800&photo_name=places%2Fp1%2Fphotos%2Fa",
	}, urls)
	require.EqualValues(t, 1, calls.Load())
}

func TestPlacePhotosUsesKnownDetail(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unexpected", http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, h, time.Second)

	known := &domain.PlaceDetail{ID: "p1", PhotoRefs: []string{"places/p1/photos/a", "places/p1/photos/b"}}
	urls, err := c.PlacePhotos(context.Background(), "p1", known, 5)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://api.example.com/places/photo-proxy?max_width=800&photo_name=places%2Fp1%2Fphotos%2Fa",
		"https://api.example.com/places/photo-proxy?max_width=800&photo_name=places%2Fp1%2Fphotos%2Fb",
	}, urls)
	require.EqualValues(t, 0, calls.Load())

	empty, err := c.PlacePhotos(context.Background(), "p1", &domain.PlaceDetail{ID: "p1"}, 5)
	require.NoError(t, err)
	require.Empty(t, empty)
	require.EqualValues(t, 0, calls.Load())
}

func TestPlaceDetailsNotFound(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})
	c, _ := newTestClient(t, h, time.Second)

	_, err := c.PlaceDetails(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPriceLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"FREE", intPtr(0)},
		{"PRICE_LEVEL_INEXPENSIVE", intPtr(1)},
		{"MODERATE", intPtr(2)},
		{"PRICE_LEVEL_EXPENSIVE", intPtr(3)},
		{"VERY_EXPENSIVE", intPtr(4)},
		{"", nil},
		{"PRICE_LEVEL_UNSPECIFIED", nil},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, priceLevel(tt.in), tt.in)
	}
}

func intPtr(i int) *int { return &i }

func TestRouteBuildsWaypointsAndParsesLegs(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		assert.Equal(t, "48.85,2.35", q.Get("origin"))
		assert.Equal(t, "48.85,2.35", q.Get("destination"))
		assert.Equal(t, "walking", q.Get("mode"))
		assert.Equal(t, "optimize:true|48.86,2.34|48.87,2.33", q.Get("waypoints"))
		assert.Equal(t, "test-key", q.Get("key"))

		writeJSON(w, map[string]any{
			"status": "OK",
			"routes": []any{map[string]any{
				"overview_polyline": map[string]any{"points": "_p~iF~ps|U_ulLnnqC"},
				"legs": []any{
					map[string]any{"distance": map[string]any{"value": 1000}, "duration": map[string]any{"value": 600}},
					map[string]any{"distance": map[string]any{"value": 1500}, "duration": map[string]any{"value": 900}},
					map[string]any{"distance": map[string]any{"value": 2000}, "duration": map[string]any{"value": 1200}},
				},
				"waypoint_order": []int{1, 0},
			}},
		})
	})
	c, _ := newTestClient(t, h, time.Second)

	start := domain.Coordinates{Lat: 48.85, Lng: 2.35}
	res, err := c.Route(context.Background(), ports.RouteRequest{
		Origin:            start,
		Destination:       start,
		Waypoints:         []domain.Coordinates{{Lat: 48.86, Lng: 2.34}, {Lat: 48.87, Lng: 2.33}},
		Mode:              domain.ModeWalking,
		OptimizeWaypoints: true,
	})
	require.NoError(t, err)
	require.Equal(t, "_p~iF~ps|U_ulLnnqC", res.Polyline)
	require.Len(t, res.Legs, 3)
	require.Equal(t, 1500, res.Legs[1].DistanceMeters)
	require.Equal(t, []int{1, 0}, res.WaypointOrder)
}

func TestRouteZeroResults(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "ZERO_RESULTS"})
	})
	c, _ := newTestClient(t, h, time.Second)

	_, err := c.Route(context.Background(), ports.RouteRequest{Mode: domain.ModeTransit})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{"status": "OK", "routes": []any{map[string]any{}}})
	})
	c, _ := newTestClient(t, h, time.Second)

	_, err := c.Route(context.Background(), ports.RouteRequest{Mode: domain.ModeDriving})
	require.NoError(t, err)
	require.EqualValues(t, 3, calls.Load())
}

func TestDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad", http.StatusBadRequest)
	})
	c, _ := newTestClient(t, h, time.Second)

	_, err := c.Route(context.Background(), ports.RouteRequest{Mode: domain.ModeDriving})
	require.Error(t, err)
	require.EqualValues(t, 1, calls.Load())
}

func TestTimeoutSurfacesAsProviderTimeout(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c, _ := newTestClient(t, h, 50*time.Millisecond)

	_, err := c.Route(context.Background(), ports.RouteRequest{Mode: domain.ModeTransit})
	require.ErrorIs(t, err, ports.ErrProviderTimeout)
	require.EqualValues(t, 1, calls.Load())
}

func TestCallerCancellationIsNotProviderTimeout(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c, _ := newTestClient(t, h, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Route(ctx, ports.RouteRequest{Mode: domain.ModeDriving})
	require.Error(t, err)
	require.NotErrorIs(t, err, ports.ErrProviderTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type memGeocodeCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *memGeocodeCache) Get(_ context.Context, addr string) (domain.Coordinates, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[addr]
	return v, ok, nil
}

func (c *memGeocodeCache) Put(_ context.Context, addr string, coords domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[addr] = coords
	return nil
}

func TestGeocode(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("address") {
		case "Louvre, Paris":
			writeJSON(w, map[string]any{
				"status": "OK",
				"results": []any{map[string]any{
					"geometry": map[string]any{"location": map[string]any{"lat": 48.8606, "lng": 2.3376}},
				}},
			})
		default:
			writeJSON(w, map[string]any{"status": "ZERO_RESULTS"})
		}
	})
	c, _ := newTestClient(t, h, time.Second)
	c.geocodeCache = &memGeocodeCache{m: map[string]domain.Coordinates{}}

	ctx := context.Background()

	got, err := c.Geocode(ctx, "48.85, 2.35")
	require.NoError(t, err)
	require.Equal(t, domain.Coordinates{Lat: 48.85, Lng: 2.35}, got)
	require.EqualValues(t, 0, calls.Load())

	got, err = c.Geocode(ctx, "  Louvre,   Paris ")
	require.NoError(t, err)
	require.Equal(t, domain.Coordinates{Lat: 48.8606, Lng: 2.3376}, got)

	_, err = c.Geocode(ctx, "Louvre, Paris")
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	_, err = c.Geocode(ctx, "Nowhere")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
