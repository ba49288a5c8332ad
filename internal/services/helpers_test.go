package services

import (
	"fmt"
	"itinerary-route-service/internal/domain"
)

var paris = domain.Coordinates{Lat: 48.8566, Lng: 2.3522}

func rating(r float64) *float64 { return &r }

func level(l int) *int { return &l }

// cand builds a candidate at a known distance from paris.
func cand(id string, r float64, distMeters float64, types ...string) domain.Candidate {
	return domain.Candidate{
		ID:                id,
		Name:              "Place " + id,
		Types:             domain.NewTypeSet(types...),
		Location:          domain.Coordinates{Lat: paris.Lat + distMeters/111000, Lng: paris.Lng},
		Rating:            rating(r),
		DistanceFromStart: distMeters,
	}
}

// museumPool returns n museums 100m apart with ratings that do not follow distance.
func museumPool(n int) []domain.Candidate {
	out := make([]domain.Candidate, 0, n)
	for i := 0; i < n; i++ {
		r := 3.5 + float64((i*7)%n)/float64(n)
		out = append(out, cand(fmt.Sprintf("p%02d", i), r, float64(100*(i+1)), "museum"))
	}
	return out
}

func ids(cands []domain.Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.ID)
	}
	return out
}
