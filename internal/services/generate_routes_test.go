package services

import (
	"context"
	"errors"
	"itinerary-route-service/internal/adapters/mock"
	"itinerary-route-service/internal/domain"
	"slices"
	"testing"
	"time"
)

func testCollaborators(pool []domain.Candidate, routing *mock.Routing) Collaborators {
	return Collaborators{
		Places:         mock.NewPlaces(pool...),
		Details:        mock.NewDetails(),
		UserPhotos:     mock.NewPhotos(map[string][]string{"p00": {"https://img/user.jpg"}}),
		ProviderPhotos: mock.NewPhotos(map[string][]string{"p00": {"https://img/g1.jpg", "https://img/g2.jpg"}}),
		Routing:        routing,
		Geocoder:       mock.NewGeocoder(map[string]domain.Coordinates{"Paris": paris}),
		Concurrency:    1,
	}
}

func testRequest(n int, mode domain.TransportMode) GenerateRoutesRequest {
	lat, lng := paris.Lat, paris.Lng
	return GenerateRoutesRequest{
		Location:      "Paris",
		Start:         StartPoint{Lat: &lat, Lng: &lng},
		Theme:         domain.ThemeCulture,
		NumPlaces:     n,
		TransportMode: mode,
	}
}

func TestGenerateRoutesThreeOptions(t *testing.T) {
	routing := mock.NewRouting(1000, 600)
	c := testCollaborators(museumPool(12), routing)

	got, err := GenerateRoutes(context.Background(), testRequest(3, domain.ModeWalking), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("options = %d, want 3", len(got))
	}

	wantIDs := []string{"route_facile", "route_moyen", "route_difficile"}
	for i, o := range got {
		if o.ID != wantIDs[i] {
			t.Fatalf("option %d id = %s, want %s", i, o.ID, wantIDs[i])
		}
		if o.NumPlaces != 3 || len(o.Stops) != 3 {
			t.Fatalf("option %d stops = %d/%d, want 3", i, o.NumPlaces, len(o.Stops))
		}
		// 4 legs of 1km walked in full
		if o.TotalDistance != "4.0 km" || o.WalkingDistance != "4.0 km" {
			t.Fatalf("option %d distance = %s/%s", i, o.TotalDistance, o.WalkingDistance)
		}
		if o.TransportMode != domain.ModeWalking {
			t.Fatalf("option %d mode = %s, want walking", i, o.TransportMode)
		}
		if o.AvgPrice != "$" {
			t.Fatalf("option %d price = %s, want $", i, o.AvgPrice)
		}
		if len(o.Points) != 5 || o.Polyline == "" {
			t.Fatalf("option %d geometry points=%d polyline=%q", i, len(o.Points), o.Polyline)
		}
	}

	for _, o := range got {
		for _, s := range o.Stops {
			if s.ID == "p00" {
				if len(s.Photos) != 3 || s.Photos[0].Source != domain.PhotoSourceUser {
					t.Fatalf("p00 photos = %+v, want user photo first", s.Photos)
				}
			}
		}
	}
}

func TestGenerateRoutesTransitFallbackIsSessionWide(t *testing.T) {
	routing := mock.NewRouting(1000, 600)
	routing.TimeoutModes[domain.ModeTransit] = true
	c := testCollaborators(museumPool(12), routing)

	got, err := GenerateRoutes(context.Background(), testRequest(3, domain.ModeTransit), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, o := range got {
		if o.TransportMode != domain.ModeDriving {
			t.Fatalf("option %s mode = %s, want driving", o.ID, o.TransportMode)
		}
	}

	want := []domain.TransportMode{domain.ModeTransit, domain.ModeDriving, domain.ModeDriving, domain.ModeDriving}
	if calls := routing.Calls(); !slices.Equal(calls, want) {
		t.Fatalf("routing calls = %v, want %v", calls, want)
	}
}

func TestGenerateRoutesEachRequestGetsFreshSession(t *testing.T) {
	routing := mock.NewRouting(1000, 600)
	c := testCollaborators(museumPool(12), routing)

	routing.TimeoutModes[domain.ModeTransit] = true
	if _, err := GenerateRoutes(context.Background(), testRequest(3, domain.ModeTransit), c); err != nil {
		t.Fatalf("first run: %v", err)
	}

	routing.TimeoutModes[domain.ModeTransit] = false
	got, err := GenerateRoutes(context.Background(), testRequest(3, domain.ModeTransit), c)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, o := range got {
		if o.TransportMode != domain.ModeTransit {
			t.Fatalf("second run mode = %s, want transit", o.TransportMode)
		}
	}
}

func TestGenerateRoutesDefaultsToDriving(t *testing.T) {
	routing := mock.NewRouting(1000, 600)
	c := testCollaborators(museumPool(12), routing)

	got, err := GenerateRoutes(context.Background(), testRequest(3, ""), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].TransportMode != domain.ModeDriving {
		t.Fatalf("mode = %s, want driving", got[0].TransportMode)
	}
	// 4 legs of 1km at 35%
	if got[0].WalkingDistance != "1.4 km" {
		t.Fatalf("walking = %s, want 1.4 km", got[0].WalkingDistance)
	}
}

func TestGenerateRoutesInsufficientCandidates(t *testing.T) {
	c := testCollaborators(museumPool(2), mock.NewRouting(1000, 600))

	_, err := GenerateRoutes(context.Background(), testRequest(3, domain.ModeWalking), c)
	if !errors.Is(err, ErrInsufficientCandidates) {
		t.Fatalf("err = %v, want ErrInsufficientCandidates", err)
	}
}

func TestGenerateRoutesAllVariantsFailed(t *testing.T) {
	routing := mock.NewRouting(1000, 600)
	routing.TimeoutModes[domain.ModeDriving] = true
	c := testCollaborators(museumPool(12), routing)

	_, err := GenerateRoutes(context.Background(), testRequest(3, domain.ModeDriving), c)
	if !errors.Is(err, ErrAllVariantsFailed) {
		t.Fatalf("err = %v, want ErrAllVariantsFailed", err)
	}
}

func TestGenerateRoutesValidation(t *testing.T) {
	c := testCollaborators(museumPool(12), mock.NewRouting(1000, 600))

	for _, req := range []GenerateRoutesRequest{
		testRequest(0, domain.ModeWalking),
		testRequest(21, domain.ModeWalking),
		testRequest(3, "teleport"),
	} {
		if _, err := GenerateRoutes(context.Background(), req, c); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("req %+v: err = %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestGenerateRoutesParallelVariants(t *testing.T) {
	routing := mock.NewRouting(1000, 600)
	c := testCollaborators(museumPool(30), routing)
	c.Concurrency = 3

	got, err := GenerateRoutes(context.Background(), testRequest(8, domain.ModeBicycling), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("options = %d, want 3", len(got))
	}
	if n := len(routing.Calls()); n != 3 {
		t.Fatalf("routing calls = %d, want 3", n)
	}
}

func TestGenerateRoutesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testCollaborators(museumPool(12), mock.NewRouting(1000, 600))
	if _, err := GenerateRoutes(ctx, testRequest(3, domain.ModeWalking), c); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGenerateRoutesParallelVariantsShareTransitTimeout(t *testing.T) {
	routing := mock.NewRouting(1000, 600)
	routing.TimeoutModes[domain.ModeTransit] = true
	routing.Delays[domain.ModeTransit] = 50 * time.Millisecond
	c := testCollaborators(museumPool(12), routing)
	c.Concurrency = 3

	got, err := GenerateRoutes(context.Background(), testRequest(3, domain.ModeTransit), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("options = %d, want 3", len(got))
	}
	for _, o := range got {
		if o.TransportMode != domain.ModeDriving {
			t.Fatalf("option %s mode = %s, want driving", o.ID, o.TransportMode)
		}
	}

	calls := routing.Calls()
	transit := 0
	for _, m := range calls {
		if m == domain.ModeTransit {
			transit++
		}
	}
	if transit != 1 || len(calls) != 4 {
		t.Fatalf("routing calls = %v, want one transit attempt then driving only", calls)
	}
	if calls[0] != domain.ModeTransit {
		t.Fatalf("first routing call = %s, want transit", calls[0])
	}
}

func TestGenerateRoutesParallelVariantsShareTransitSuccess(t *testing.T) {
	routing := mock.NewRouting(1000, 600)
	routing.Delays[domain.ModeTransit] = 20 * time.Millisecond
	c := testCollaborators(museumPool(12), routing)
	c.Concurrency = 3

	got, err := GenerateRoutes(context.Background(), testRequest(3, domain.ModeTransit), c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, o := range got {
		if o.TransportMode != domain.ModeTransit {
			t.Fatalf("option %s mode = %s, want transit", o.ID, o.TransportMode)
		}
	}
	want := []domain.TransportMode{domain.ModeTransit, domain.ModeTransit, domain.ModeTransit}
	if calls := routing.Calls(); !slices.Equal(calls, want) {
		t.Fatalf("routing calls = %v, want %v", calls, want)
	}
}
