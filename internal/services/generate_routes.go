package services

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	MinNumPlaces = 1
	MaxNumPlaces = 20
)

type GenerateRoutesRequest struct {
	Location      string
	Start         StartPoint
	Theme         domain.Theme
	NumPlaces     int
	TransportMode domain.TransportMode
	RadiusMeters  int
}

// Collaborators are the external services the engine talks to.
// Concurrency bounds how many variant pipelines run at once; values below 1
// run them one after another.
type Collaborators struct {
	Places         ports.PlaceSearcher
	Details        ports.PlaceDetailProvider
	UserPhotos     ports.UserPhotoProvider
	ProviderPhotos ports.ProviderPhotoProvider
	Routing        ports.RoutingProvider
	Geocoder       ports.Geocoder
	Concurrency    int
}

// GenerateRoutes produces up to three differentiated route options.
//
// Selection runs sequentially so each strategy sees the ids picked before
// it; enrichment, geometry and scoring then run per variant, possibly in
// parallel. A failed variant is dropped; only the failure of all three is
// returned as an error.
func GenerateRoutes(
	ctx context.Context,
	req GenerateRoutesRequest,
	c Collaborators,
) (_ []domain.RouteOption, err error) {
	defer obs.Time(ctx, "routes.Generate")(&err)

	if err := validateRequest(&req); err != nil {
		return nil, err
	}
	if c.Places == nil || c.Routing == nil {
		return nil, errors.New("generate routes: place search and routing collaborators are required")
	}

	started := time.Now()
	log.Printf(
		"generate routes location=%q theme=%s num_places=%d mode=%s",
		req.Location, req.Theme, req.NumPlaces, req.TransportMode,
	)

	start, err := ResolveStartPoint(ctx, c.Geocoder, req.Location, req.Start)
	if err != nil {
		return nil, fmt.Errorf("generate routes: %w", err)
	}

	pool, err := BuildCandidatePool(ctx, CandidatePoolRequest{
		Start:        start,
		Theme:        req.Theme,
		NumPlaces:    req.NumPlaces,
		RadiusMeters: req.RadiusMeters,
	}, c.Places)
	if err != nil {
		return nil, fmt.Errorf("generate routes: %w", err)
	}

	session := domain.NewGenerationSession()

	selections, used := SelectVariants(pool, req.NumPlaces)
	session.Used = used

	results := make([]VariantResult, len(selections))

	var g errgroup.Group
	g.SetLimit(max(c.Concurrency, 1))
	for i, sel := range selections {
		i, sel := i, sel
		g.Go(func() error {
			results[i] = buildVariantSafely(ctx, sel, start, req.TransportMode, session, c)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generate routes: %w", err)
	}

	options, err := AssembleRouteOptions(results)
	if err != nil {
		return nil, fmt.Errorf("generate routes: %w", err)
	}

	log.Printf("generate routes done options=%d dur=%dms", len(options), time.Since(started).Milliseconds())

	return options, nil
}

func validateRequest(req *GenerateRoutesRequest) error {
	if req.NumPlaces < MinNumPlaces || req.NumPlaces > MaxNumPlaces {
		return fmt.Errorf("num places must be between %d and %d, got %d: %w",
			MinNumPlaces, MaxNumPlaces, req.NumPlaces, ErrInvalidRequest)
	}

	if req.TransportMode == "" {
		req.TransportMode = domain.ModeDriving
	}
	if _, ok := domain.ParseTransportMode(string(req.TransportMode)); !ok {
		return fmt.Errorf("unknown transport mode %q: %w", req.TransportMode, ErrInvalidRequest)
	}

	if req.Theme == "" {
		req.Theme = domain.ThemeMix
	}

	return nil
}

// buildVariantSafely turns a panic inside one variant into a failed result.
func buildVariantSafely(
	ctx context.Context,
	sel Selection,
	start domain.Coordinates,
	mode domain.TransportMode,
	session *domain.GenerationSession,
	c Collaborators,
) (res VariantResult) {
	res.Strategy = sel.Strategy
	defer func() {
		if r := recover(); r != nil {
			res.Option = nil
			res.Err = fmt.Errorf("variant %s panicked: %v", sel.Strategy, r)
		}
	}()

	opt, err := BuildVariant(ctx, sel, start, mode, session, c)
	res.Option, res.Err = opt, err
	return res
}

// BuildVariant runs enrichment, geometry, estimation and scoring for one selection.
func BuildVariant(
	ctx context.Context,
	sel Selection,
	start domain.Coordinates,
	mode domain.TransportMode,
	session *domain.GenerationSession,
	c Collaborators,
) (_ *domain.RouteOption, err error) {
	defer obs.Time(ctx, "variant."+string(sel.Strategy))(&err)

	if len(sel.Candidates) == 0 {
		return nil, fmt.Errorf("build variant %s: no candidates selected", sel.Strategy)
	}

	enricher := StopEnricher{
		Details:        c.Details,
		UserPhotos:     c.UserPhotos,
		ProviderPhotos: c.ProviderPhotos,
	}
	stops, err := enricher.EnrichStops(ctx, sel.Candidates)
	if err != nil {
		return nil, fmt.Errorf("build variant %s: enrich stops: %w", sel.Strategy, err)
	}

	waypoints := make([]domain.Coordinates, 0, len(stops))
	for _, s := range stops {
		waypoints = append(waypoints, s.Location)
	}

	geom, effectiveMode, err := BuildRouteGeometry(ctx, c.Routing, session, start, waypoints, mode)
	if err != nil {
		return nil, fmt.Errorf("build variant %s: %w", sel.Strategy, err)
	}

	ordered := ReorderStops(stops, geom.OptimizedOrder)

	stopTypes := make([]domain.TypeSet, 0, len(ordered))
	priceLevels := make([]*int, 0, len(ordered))
	for _, s := range ordered {
		stopTypes = append(stopTypes, s.Types)
		priceLevels = append(priceLevels, s.PriceLevel)
	}

	totalKm := float64(geom.TotalDistanceMeters) / 1000
	walking := FormatKm(WalkingDistanceKm(totalKm, effectiveMode))
	duration := FormatDuration(EstimateDurationSeconds(geom.TotalDurationSeconds, stopTypes, effectiveMode))

	score, difficulty := ScoreDifficulty(ParseWalkingDistance(walking), len(ordered), duration, stopTypes)

	log.Printf(
		"variant strategy=%s mode=%s walking=%q duration=%q score=%d difficulty=%s",
		sel.Strategy, effectiveMode, walking, duration, score, difficulty,
	)

	return &domain.RouteOption{
		ID:              string(sel.Strategy),
		Strategy:        string(sel.Strategy),
		TotalDistance:   FormatKm(totalKm),
		WalkingDistance: walking,
		Difficulty:      difficulty,
		DifficultyScore: score,
		AvgPrice:        PriceBucket(priceLevels),
		Duration:        duration,
		NumPlaces:       len(ordered),
		TransportMode:   effectiveMode,
		Points:          geom.Points,
		Polyline:        geom.EncodedPolyline,
		Stops:           ordered,
	}, nil
}
