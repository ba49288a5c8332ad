package services

import (
	"context"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"log"
	"sync"
)

const (
	maxUserPhotos       = 5
	providerPhotoBuffer = 3
	maxStopPhotos       = 8
	enrichConcurrency   = 4
)

// StopEnricher expands candidates into stops using the detail and photo collaborators.
// Any collaborator may be nil; lookups against it are skipped.
type StopEnricher struct {
	Details        ports.PlaceDetailProvider
	UserPhotos     ports.UserPhotoProvider
	ProviderPhotos ports.ProviderPhotoProvider
}

// EnrichStops enriches every candidate, preserving order. Lookup failures
// degrade the affected stop; only cancellation of ctx is returned as an error.
func (e StopEnricher) EnrichStops(ctx context.Context, cands []domain.Candidate) (_ []domain.EnrichedStop, err error) {
	defer obs.Time(ctx, "enricher.EnrichStops")(&err)

	out := make([]domain.EnrichedStop, len(cands))

	sem := make(chan struct{}, enrichConcurrency)
	var wg sync.WaitGroup

	for i, c := range cands {
		wg.Add(1)
		go func(idx int, cand domain.Candidate) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			out[idx] = e.EnrichStop(ctx, cand)
		}(i, c)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// EnrichStop builds one stop. Detail fields override the candidate's own
// when present; DistanceFromStart always comes from the candidate.
func (e StopEnricher) EnrichStop(ctx context.Context, c domain.Candidate) domain.EnrichedStop {
	stop := domain.EnrichedStop{Candidate: c}

	var detail *domain.PlaceDetail
	if e.Details != nil {
		d, err := e.Details.PlaceDetails(ctx, c.ID)
		if err != nil {
			log.Printf("enricher detail lookup failed place_id=%s err=%v", c.ID, err)
		} else if d != nil {
			applyDetail(&stop, d)
			detail = d
		}
	}

	stop.Photos = e.collectPhotos(ctx, c, detail)

	return stop
}

func applyDetail(stop *domain.EnrichedStop, d *domain.PlaceDetail) {
	if d.Name != "" {
		stop.Name = d.Name
	}
	if len(d.Types) > 0 {
		stop.Types = domain.NewTypeSet(d.Types...)
	}
	if d.Location != (domain.Coordinates{}) {
		stop.Location = d.Location
	}
	if d.Rating != nil {
		stop.Rating = d.Rating
	}
	if d.RatingCount != nil {
		stop.RatingCount = d.RatingCount
	}
	if d.Address != "" {
		stop.Address = d.Address
	}
	stop.Vicinity = d.Vicinity
	stop.PriceLevel = d.PriceLevel
	stop.OpeningHours = d.OpeningHours
}

// collectPhotos merges user photos (always first) with provider photos,
// capped at maxStopPhotos. Provider photos are only fetched when fewer than
// maxUserPhotos user photos exist. detail is the record fetched for c, if any.
func (e StopEnricher) collectPhotos(ctx context.Context, c domain.Candidate, detail *domain.PlaceDetail) []domain.Photo {
	var userURLs []string
	if e.UserPhotos != nil {
		lat, lng := c.Location.Lat, c.Location.Lng
		urls, err := e.UserPhotos.UserPhotos(ctx, ports.PhotoQuery{
			PlaceID:   c.ID,
			Lat:       &lat,
			Lng:       &lng,
			MaxPhotos: maxUserPhotos,
		})
		if err != nil {
			log.Printf("enricher user photo lookup failed place_id=%s err=%v", c.ID, err)
		}
		userURLs = urls
	}
	if len(userURLs) > maxUserPhotos {
		userURLs = userURLs[:maxUserPhotos]
	}

	var providerURLs []string
	if need := maxUserPhotos - len(userURLs); need > 0 && e.ProviderPhotos != nil {
		urls, err := e.ProviderPhotos.PlacePhotos(ctx, c.ID, detail, need+providerPhotoBuffer)
		if err != nil {
			log.Printf("enricher provider photo lookup failed place_id=%s err=%v", c.ID, err)
		}
		providerURLs = urls
	}

	return MergePhotos(userURLs, providerURLs)
}

// MergePhotos puts user photos first and truncates the combined list to maxStopPhotos.
func MergePhotos(userURLs, providerURLs []string) []domain.Photo {
	out := make([]domain.Photo, 0, min(len(userURLs)+len(providerURLs), maxStopPhotos))
	for _, u := range userURLs {
		if len(out) >= maxStopPhotos {
			return out
		}
		out = append(out, domain.Photo{URL: u, Source: domain.PhotoSourceUser})
	}
	for _, u := range providerURLs {
		if len(out) >= maxStopPhotos {
			break
		}
		out = append(out, domain.Photo{URL: u, Source: domain.PhotoSourceGoogle})
	}
	return out
}
