package services

import (
	"fmt"
	"itinerary-route-service/internal/domain"
	"strconv"
	"strings"
)

// Share of the total route distance covered on foot, per mode.
var walkingFraction = map[domain.TransportMode]float64{
	domain.ModeWalking:   1.00,
	domain.ModeBicycling: 0.20,
	domain.ModeTransit:   0.40,
	domain.ModeDriving:   0.35,
}

// Parking, transfer and boarding friction per stop, in minutes.
var overheadMinutes = map[domain.TransportMode]int{
	domain.ModeWalking:   1,
	domain.ModeTransit:   10,
	domain.ModeBicycling: 3,
	domain.ModeDriving:   7,
}

type visitRule struct {
	tags    domain.TypeSet
	minutes int
}

// First match wins.
var visitRules = []visitRule{
	{domain.NewTypeSet("museum", "art_gallery", "aquarium", "zoo"), 75},
	{domain.NewTypeSet("restaurant", "cafe", "bar", "meal_takeaway"), 50},
	{domain.NewTypeSet("park", "natural_feature", "garden", "hiking_area"), 35},
	{domain.NewTypeSet("shopping_mall", "store", "clothing_store"), 45},
	{domain.NewTypeSet("church", "tourist_attraction", "landmark", "monument"), 20},
	{domain.NewTypeSet("amusement_park", "movie_theater", "bowling_alley"), 90},
}

const defaultVisitMinutes = 30

// WalkingDistanceKm estimates the on-foot part of a route. Unknown modes use
// the driving fraction.
func WalkingDistanceKm(totalKm float64, mode domain.TransportMode) float64 {
	f, ok := walkingFraction[mode]
	if !ok {
		f = walkingFraction[domain.ModeDriving]
	}
	return totalKm * f
}

// VisitMinutes estimates time spent at a stop with the given categories.
func VisitMinutes(types domain.TypeSet) int {
	for _, r := range visitRules {
		if types.Intersects(r.tags) {
			return r.minutes
		}
	}
	return defaultVisitMinutes
}

// OverheadMinutes returns per-stop transport friction. Unknown modes use driving.
func OverheadMinutes(mode domain.TransportMode) int {
	m, ok := overheadMinutes[mode]
	if !ok {
		m = overheadMinutes[domain.ModeDriving]
	}
	return m
}

// EstimateDurationSeconds is travel time plus per-stop visit time plus
// per-stop overhead.
func EstimateDurationSeconds(travelSeconds int, stopTypes []domain.TypeSet, mode domain.TransportMode) int {
	visit := 0
	for _, t := range stopTypes {
		visit += VisitMinutes(t)
	}
	overhead := len(stopTypes) * OverheadMinutes(mode)
	return travelSeconds + (visit+overhead)*60
}

// FormatDuration renders seconds as "Xh Ym", or "Ym" under an hour.
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// ParseDurationMinutes reads the "Xh Ym" / "Ym" format produced by FormatDuration.
func ParseDurationMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if h, rest, ok := strings.Cut(s, "h"); ok {
		hours, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return 0, false
		}
		rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "m"))
		if rest == "" {
			return hours * 60, true
		}
		minutes, err := strconv.Atoi(rest)
		if err != nil {
			return 0, false
		}
		return hours*60 + minutes, true
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "m")))
	if err != nil {
		return 0, false
	}
	return minutes, true
}

// FormatKm renders a kilometer value the way route distances are shown.
func FormatKm(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}

// ParseWalkingDistance reads "4.2 km" or "4,2 km" as 4.2. Unparsable input yields 0.
func ParseWalkingDistance(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "km"))
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// PriceBucket maps the highest price level (0-4) among stops to "$".."$$$$".
// Stops without price data are ignored; no data at all yields "$".
func PriceBucket(levels []*int) string {
	maxLevel := -1
	for _, l := range levels {
		if l != nil && *l > maxLevel {
			maxLevel = *l
		}
	}

	switch {
	case maxLevel < 0:
		return "$"
	case maxLevel <= 1:
		return "$"
	case maxLevel <= 2:
		return "$$"
	case maxLevel <= 3:
		return "$$$"
	default:
		return "$$$$"
	}
}
