package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
	"itinerary-route-service/internal/spatial"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const (
	maxResultsPerType = 20
	maxSearchRadius   = 50000
	photoMaxWidth     = 800
)

const (
	nearbyFieldMask = "places.id,places.displayName,places.types,places.location," +
		"places.rating,places.userRatingCount,places.formattedAddress"
	detailFieldMask = "id,displayName,types,location,rating,userRatingCount,formattedAddress," +
		"shortFormattedAddress,priceLevel,regularOpeningHours,photos"
)

var (
	_ ports.PlaceSearcher         = (*Client)(nil)
	_ ports.PlaceDetailProvider   = (*Client)(nil)
	_ ports.ProviderPhotoProvider = (*Client)(nil)
)

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type nearbyRequest struct {
	IncludedTypes       []string `json:"includedTypes"`
	MaxResultCount      int      `json:"maxResultCount"`
	LocationRestriction struct {
		Circle struct {
			Center latLng  `json:"center"`
			Radius float64 `json:"radius"`
		} `json:"circle"`
	} `json:"locationRestriction"`
}

type place struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	Types                 []string `json:"types"`
	Location              *latLng  `json:"location"`
	Rating                *float64 `json:"rating"`
	UserRatingCount       *int     `json:"userRatingCount"`
	FormattedAddress      string   `json:"formattedAddress"`
	ShortFormattedAddress string   `json:"shortFormattedAddress"`
	PriceLevel            string   `json:"priceLevel"`
	RegularOpeningHours   *struct {
		OpenNow             *bool    `json:"openNow"`
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

type nearbyResponse struct {
	Places []place `json:"places"`
}

// SearchNearby queries each sub-type in turn, de-duplicating by place id.
// A failure for one sub-type is logged and the next one is tried. Results are
// ordered by rating (desc) then distance from center (asc).
func (c *Client) SearchNearby(
	ctx context.Context,
	center domain.Coordinates,
	types []string,
	radiusMeters int,
	maxResults int,
) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "google.SearchNearby")(&err)

	if maxResults <= 0 || len(types) == 0 {
		return nil, nil
	}
	if radiusMeters <= 0 || radiusMeters > maxSearchRadius {
		radiusMeters = maxSearchRadius
	}

	seen := make(map[string]struct{}, maxResults)
	out := make([]domain.Candidate, 0, maxResults)
	var lastErr error
	failed := 0

	for _, t := range types {
		remaining := maxResults - len(out)
		if remaining <= 0 {
			break
		}

		places, err := c.searchType(ctx, center, t, radiusMeters, min(maxResultsPerType, remaining))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Printf("req_id=%s op=google.SearchNearby type=%s err=%v", obs.RequestID(ctx), t, err)
			lastErr = err
			failed++
			continue
		}

		for _, p := range places {
			if p.ID == "" || p.Location == nil {
				continue
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p.toCandidate())
		}
	}

	if failed == len(types) {
		return nil, fmt.Errorf("search nearby: all %d place types failed: %w", failed, lastErr)
	}

	dist := make(map[string]float64, len(out))
	for _, cand := range out {
		dist[cand.ID] = spatial.HaversineMeters(center, cand.Location)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].RatingOrZero(), out[j].RatingOrZero()
		if ri != rj {
			return ri > rj
		}
		return dist[out[i].ID] < dist[out[j].ID]
	})

	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

func (c *Client) searchType(
	ctx context.Context,
	center domain.Coordinates,
	placeType string,
	radiusMeters int,
	limit int,
) ([]place, error) {
	endpoint := c.placesBaseURL + "/v1/places:searchNearby"

	var body nearbyRequest
	body.IncludedTypes = []string{placeType}
	body.MaxResultCount = limit
	body.LocationRestriction.Circle.Center = latLng{Latitude: center.Lat, Longitude: center.Lng}
	body.LocationRestriction.Circle.Radius = float64(radiusMeters)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal nearby request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), nearbyFieldMask)
	})
	if err != nil {
		return nil, fmt.Errorf("search nearby type=%s: %w", placeType, err)
	}
	defer resp.Body.Close()

	var decoded nearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode nearby response: %w", err)
	}

	return decoded.Places, nil
}

// PlaceDetails returns the full record for placeID, consulting the detail
// cache first. Cache failures are logged and never fail the lookup.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (_ *domain.PlaceDetail, err error) {
	defer obs.Time(ctx, "google.PlaceDetails")(&err)

	if strings.TrimSpace(placeID) == "" {
		return nil, errors.New("place details: place id must be non-empty")
	}

	if c.detailCache != nil {
		hit, err := c.detailCache.Get(ctx, placeID)
		if err != nil {
			log.Printf("detail cache read failed: %v", err)
		} else if hit != nil {
			return hit, nil
		}
	}

	endpoint := c.placesBaseURL + "/v1/places/" + url.PathEscape(placeID)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint, nil, detailFieldMask)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return nil, fmt.Errorf("place details %q: %w", placeID, ports.ErrNotFound)
		}
		return nil, fmt.Errorf("place details %q: %w", placeID, err)
	}
	defer resp.Body.Close()

	var p place
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode place details: %w", err)
	}
	if p.ID == "" {
		p.ID = placeID
	}

	detail := p.toDetail()

	if c.detailCache != nil {
		if err := c.detailCache.Put(ctx, detail); err != nil {
			log.Printf("detail cache write failed: %v", err)
		}
	}

	return detail, nil
}

// PlacePhotos returns up to maxPhotos proxy URLs for the place's provider
// photos. Details are only fetched when known is nil.
func (c *Client) PlacePhotos(ctx context.Context, placeID string, known *domain.PlaceDetail, maxPhotos int) ([]string, error) {
	if maxPhotos <= 0 {
		return nil, nil
	}

	detail := known
	if detail == nil {
		var err error
		if detail, err = c.PlaceDetails(ctx, placeID); err != nil {
			return nil, fmt.Errorf("place photos: %w", err)
		}
	}

	out := make([]string, 0, min(maxPhotos, len(detail.PhotoRefs)))
	for _, ref := range detail.PhotoRefs {
		if len(out) >= maxPhotos {
			break
		}
		out = append(out, c.photoURL(ref))
	}
	return out, nil
}

// photoURL points at the service's photo proxy so the API key stays server side.
func (c *Client) photoURL(ref string) string {
	q := url.Values{}
	q.Set("photo_name", ref)
	q.Set("max_width", fmt.Sprint(photoMaxWidth))
	return c.photoProxyURL + "/places/photo-proxy?" + q.Encode()
}

func (p place) toCandidate() domain.Candidate {
	return domain.Candidate{
		ID:          p.ID,
		Name:        p.DisplayName.Text,
		Types:       domain.NewTypeSet(p.Types...),
		Location:    domain.Coordinates{Lat: p.Location.Latitude, Lng: p.Location.Longitude},
		Rating:      p.Rating,
		RatingCount: p.UserRatingCount,
		Address:     p.FormattedAddress,
	}
}

func (p place) toDetail() *domain.PlaceDetail {
	d := &domain.PlaceDetail{
		ID:          p.ID,
		Name:        p.DisplayName.Text,
		Types:       p.Types,
		Rating:      p.Rating,
		RatingCount: p.UserRatingCount,
		Address:     p.FormattedAddress,
		Vicinity:    p.ShortFormattedAddress,
		PriceLevel:  priceLevel(p.PriceLevel),
	}
	if p.Location != nil {
		d.Location = domain.Coordinates{Lat: p.Location.Latitude, Lng: p.Location.Longitude}
	}
	if p.RegularOpeningHours != nil {
		d.OpeningHours = &domain.OpeningHours{
			OpenNow:             p.RegularOpeningHours.OpenNow,
			WeekdayDescriptions: p.RegularOpeningHours.WeekdayDescriptions,
		}
	}
	for _, ph := range p.Photos {
		if ph.Name != "" {
			d.PhotoRefs = append(d.PhotoRefs, ph.Name)
		}
	}
	return d
}

var priceLevels = map[string]int{
	"FREE":           0,
	"INEXPENSIVE":    1,
	"MODERATE":       2,
	"EXPENSIVE":      3,
	"VERY_EXPENSIVE": 4,
}

// priceLevel maps a Places price enum to 0..4; unknown or absent means no data.
func priceLevel(enum string) *int {
	lvl, ok := priceLevels[strings.TrimPrefix(enum, "PRICE_LEVEL_")]
	if !ok {
		return nil
	}
	return &lvl
}
