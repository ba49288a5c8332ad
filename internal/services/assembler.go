package services

import (
	"cmp"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"log"
	"slices"
)

// VariantResult is the outcome of building one variant: either Option or Err is set.
type VariantResult struct {
	Strategy Strategy
	Option   *domain.RouteOption
	Err      error
}

type routeLabel struct {
	id   string
	name string
}

var routeLabels = []routeLabel{
	{id: "route_facile", name: "Facile"},
	{id: "route_moyen", name: "Moyen"},
	{id: "route_difficile", name: "Difficile"},
}

// AssembleRouteOptions keeps the successful variants, sorts them by parsed
// walking distance (ascending, stable) and assigns canonical ids and names
// in that order. It fails with ErrAllVariantsFailed when none succeeded.
func AssembleRouteOptions(results []VariantResult) ([]domain.RouteOption, error) {
	options := make([]domain.RouteOption, 0, len(results))
	var failures []error

	for _, r := range results {
		if r.Err != nil || r.Option == nil {
			err := r.Err
			if err == nil {
				err = errors.New("no route option produced")
			}
			log.Printf("assembler dropping variant strategy=%s err=%v", r.Strategy, err)
			failures = append(failures, fmt.Errorf("variant %s: %w", r.Strategy, err))
			continue
		}
		options = append(options, *r.Option)
	}

	if len(options) == 0 {
		return nil, fmt.Errorf("assemble route options: %w", errors.Join(append([]error{ErrAllVariantsFailed}, failures...)...))
	}

	slices.SortStableFunc(options, func(a, b domain.RouteOption) int {
		return cmp.Compare(ParseWalkingDistance(a.WalkingDistance), ParseWalkingDistance(b.WalkingDistance))
	})

	for i := range options {
		if i >= len(routeLabels) {
			break
		}
		options[i].ID = routeLabels[i].id
		options[i].Name = routeLabels[i].name
	}

	return options, nil
}
