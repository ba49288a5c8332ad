package services

import (
	"itinerary-route-service/internal/domain"
	"log"
)

var (
	energyDemandingTypes = domain.NewTypeSet("museum", "art_gallery", "church", "library", "aquarium", "zoo")
	relaxingTypes        = domain.NewTypeSet("park", "garden", "natural_feature", "scenic_lookout")
)

// ScoreDifficulty computes a 0-100 effort score from walking distance (40),
// stop count (25), total duration (20) and the stop type mix (15), then
// buckets it: <=35 easy, <=65 moderate, otherwise hard.
//
// It is pure; the same inputs always produce the same result.
func ScoreDifficulty(walkingKm float64, numPlaces int, duration string, stopTypes []domain.TypeSet) (int, domain.Difficulty) {
	score := walkingPoints(walkingKm) +
		stopCountPoints(numPlaces) +
		durationPoints(duration) +
		typeMixPoints(numPlaces, stopTypes)

	return score, ClassifyDifficulty(score)
}

// ClassifyDifficulty buckets a 0-100 effort score into a difficulty level.
func ClassifyDifficulty(score int) domain.Difficulty {
	switch {
	case score <= 35:
		return domain.DifficultyEasy
	case score <= 65:
		return domain.DifficultyModerate
	default:
		return domain.DifficultyHard
	}
}

func walkingPoints(km float64) int {
	switch {
	case km < 2:
		return 5
	case km < 3:
		return 10
	case km < 5:
		return 20
	case km < 7:
		return 30
	default:
		return 40
	}
}

func stopCountPoints(n int) int {
	switch {
	case n <= 3:
		return 5
	case n <= 5:
		return 12
	case n <= 7:
		return 20
	default:
		return 25
	}
}

func durationPoints(duration string) int {
	minutes, ok := ParseDurationMinutes(duration)
	if !ok {
		log.Printf("difficulty unparsable duration=%q", duration)
		return 10
	}

	switch {
	case minutes < 120:
		return 3
	case minutes < 180:
		return 8
	case minutes < 240:
		return 15
	default:
		return 20
	}
}

// Ratios are taken over numPlaces (at least 1), not over len(stopTypes).
func typeMixPoints(numPlaces int, stopTypes []domain.TypeSet) int {
	energy, relaxing := 0, 0
	for _, t := range stopTypes {
		if t.Intersects(energyDemandingTypes) {
			energy++
		}
		if t.Intersects(relaxingTypes) {
			relaxing++
		}
	}

	denom := float64(max(numPlaces, 1))
	energyRatio := float64(energy) / denom
	relaxingRatio := float64(relaxing) / denom

	switch {
	case energyRatio > 0.5:
		return 15
	case energyRatio > 0.3:
		return 10
	case relaxingRatio > 0.5:
		return 3
	default:
		return 7
	}
}
