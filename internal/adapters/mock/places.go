package mock

import (
	"context"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"sync"
)

// Places returns a fixed candidate list for every search.
type Places struct {
	Candidates []domain.Candidate
	Err        error

	mu       sync.Mutex
	requests []int
}

func NewPlaces(cands ...domain.Candidate) *Places {
	return &Places{Candidates: cands}
}

func (p *Places) SearchNearby(
	ctx context.Context,
	center domain.Coordinates,
	types []string,
	radiusMeters int,
	maxResults int,
) ([]domain.Candidate, error) {
	p.mu.Lock()
	p.requests = append(p.requests, maxResults)
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	n := min(maxResults, len(p.Candidates))
	out := make([]domain.Candidate, n)
	copy(out, p.Candidates[:n])
	return out, nil
}

// Requested returns the maxResults values seen so far.
func (p *Places) Requested() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.requests...)
}

// Details serves place details from a map; unknown ids are ErrNotFound.
type Details struct {
	m map[string]*domain.PlaceDetail
}

func NewDetails(details ...*domain.PlaceDetail) *Details {
	m := make(map[string]*domain.PlaceDetail, len(details))
	for _, d := range details {
		m[d.ID] = d
	}
	return &Details{m: m}
}

func (d *Details) PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	detail, ok := d.m[placeID]
	if !ok {
		return nil, fmt.Errorf("place %q: %w", placeID, ports.ErrNotFound)
	}
	return detail, nil
}

// Photos implements both photo ports from per-place URL lists.
type Photos struct {
	ByPlace map[string][]string
	Err     error

	mu    sync.Mutex
	calls map[string]int
	known map[string]*domain.PlaceDetail
}

func NewPhotos(byPlace map[string][]string) *Photos {
	return &Photos{ByPlace: byPlace, calls: map[string]int{}, known: map[string]*domain.PlaceDetail{}}
}

func (p *Photos) UserPhotos(ctx context.Context, q ports.PhotoQuery) ([]string, error) {
	return p.lookup(q.PlaceID, q.MaxPhotos)
}

func (p *Photos) PlacePhotos(ctx context.Context, placeID string, known *domain.PlaceDetail, maxPhotos int) ([]string, error) {
	p.mu.Lock()
	p.known[placeID] = known
	p.mu.Unlock()
	return p.lookup(placeID, maxPhotos)
}

func (p *Photos) lookup(placeID string, maxPhotos int) ([]string, error) {
	p.mu.Lock()
	p.calls[placeID]++
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	urls := p.ByPlace[placeID]
	if len(urls) > maxPhotos {
		urls = urls[:maxPhotos]
	}
	return append([]string(nil), urls...), nil
}

// Calls reports how many lookups were made for placeID.
func (p *Photos) Calls(placeID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[placeID]
}

// KnownDetail returns the detail record passed with the last PlacePhotos call for placeID.
func (p *Photos) KnownDetail(placeID string) *domain.PlaceDetail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.known[placeID]
}

// Geocoder resolves addresses from a fixed table.
type Geocoder struct {
	m map[string]domain.Coordinates
}

func NewGeocoder(m map[string]domain.Coordinates) *Geocoder {
	return &Geocoder{m: m}
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	c, ok := g.m[address]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, ports.ErrNotFound)
	}
	return c, nil
}
