package services

import (
	"cmp"
	"itinerary-route-service/internal/domain"
	"log"
	"slices"
)

// Strategy names one of the three place-selection algorithms.
type Strategy string

const (
	StrategyClosest      Strategy = "closest"
	StrategyBestRated    Strategy = "best_rated"
	StrategyFurthestGood Strategy = "furthest_good"
)

// SelectionFunc picks n ordered candidates from pool, preferring ids absent from used.
// It must not modify pool or used.
type SelectionFunc func(pool []domain.Candidate, n int, used domain.UsedSet) []domain.Candidate

// Strategies run in this order; each one sees the ids picked by the ones before it.
var strategyChain = []struct {
	name Strategy
	fn   SelectionFunc
}{
	{StrategyClosest, SelectClosest},
	{StrategyBestRated, SelectBestRated},
	{StrategyFurthestGood, SelectFurthestGood},
}

// Selection is the output of one strategy. UsedBefore is the UsedSet the
// strategy received as input.
type Selection struct {
	Strategy   Strategy
	Candidates []domain.Candidate
	UsedBefore domain.UsedSet
}

// ApplyStrategy runs fn and returns its selection along with the UsedSet
// extended by the chosen ids.
func ApplyStrategy(
	fn SelectionFunc,
	pool []domain.Candidate,
	n int,
	used domain.UsedSet,
) ([]domain.Candidate, domain.UsedSet) {
	picked := fn(pool, n, used)
	return picked, used.With(picked)
}

// SelectVariants produces the three selections sequentially and returns the
// final UsedSet. n is capped at the pool size; a shortfall is logged.
func SelectVariants(pool []domain.Candidate, n int) ([]Selection, domain.UsedSet) {
	requested := min(n, len(pool))
	if requested < n {
		log.Printf("selector shortfall requested=%d available=%d using=%d", n, len(pool), requested)
	}

	used := domain.UsedSet{}
	out := make([]Selection, 0, len(strategyChain))
	for _, s := range strategyChain {
		before := used
		var picked []domain.Candidate
		picked, used = ApplyStrategy(s.fn, pool, requested, used)

		if len(picked) != requested {
			log.Printf("selector strategy=%s picked=%d want=%d", s.name, len(picked), requested)
		}

		out = append(out, Selection{Strategy: s.name, Candidates: picked, UsedBefore: before})
	}

	return out, used
}

// SelectClosest takes the n closest unused candidates, then backfills in
// the same distance order with used ones.
func SelectClosest(pool []domain.Candidate, n int, used domain.UsedSet) []domain.Candidate {
	ordered := sortedByDistance(pool)
	picked := takeUnused(nil, ordered, n, used)
	return backfill(picked, ordered, n)
}

// SelectBestRated takes the n best-rated unused candidates, then backfills
// in the same rating order with used ones.
func SelectBestRated(pool []domain.Candidate, n int, used domain.UsedSet) []domain.Candidate {
	ordered := sortedByRating(pool)
	picked := takeUnused(nil, ordered, n, used)
	return backfill(picked, ordered, n)
}

// SelectFurthestGood skips the min(len(pool)/2, n) closest candidates and
// takes the best-rated unused ones beyond them. A shortfall is filled from
// the unused middle band [skip/2, skip), then from anything left.
func SelectFurthestGood(pool []domain.Candidate, n int, used domain.UsedSet) []domain.Candidate {
	byDistance := sortedByDistance(pool)
	skip := min(len(pool)/2, n)

	further := sortedByRating(byDistance[skip:])
	picked := takeUnused(nil, further, n, used)

	if len(picked) < n {
		picked = takeUnused(picked, byDistance[skip/2:skip], n, used)
	}

	return backfill(picked, byDistance, n)
}

// takeUnused appends candidates from ordered that are neither used nor
// already picked until picked reaches n.
func takeUnused(picked, ordered []domain.Candidate, n int, used domain.UsedSet) []domain.Candidate {
	for _, c := range ordered {
		if len(picked) >= n {
			break
		}
		if used.Contains(c.ID) || containsID(picked, c.ID) {
			continue
		}
		picked = append(picked, c)
	}
	return picked
}

// backfill appends any not-yet-picked candidates from ordered, used or not.
func backfill(picked, ordered []domain.Candidate, n int) []domain.Candidate {
	for _, c := range ordered {
		if len(picked) >= n {
			break
		}
		if containsID(picked, c.ID) {
			continue
		}
		picked = append(picked, c)
	}
	return picked
}

func containsID(cands []domain.Candidate, id string) bool {
	return slices.ContainsFunc(cands, func(c domain.Candidate) bool { return c.ID == id })
}

func sortedByDistance(pool []domain.Candidate) []domain.Candidate {
	out := slices.Clone(pool)
	slices.SortStableFunc(out, func(a, b domain.Candidate) int {
		return cmp.Compare(a.DistanceFromStart, b.DistanceFromStart)
	})
	return out
}

// Missing ratings sort as 0.
func sortedByRating(pool []domain.Candidate) []domain.Candidate {
	out := slices.Clone(pool)
	slices.SortStableFunc(out, func(a, b domain.Candidate) int {
		return cmp.Compare(b.RatingOrZero(), a.RatingOrZero())
	})
	return out
}
