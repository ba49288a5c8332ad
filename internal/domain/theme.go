package domain

import "strings"

// Theme is the trip category a generation request is built around.
type Theme string

const (
	ThemeCulture    Theme = "culture"
	ThemeGastronomy Theme = "gastronomy"
	ThemeNature     Theme = "nature"
	ThemeLeisure    Theme = "leisure"
	ThemeMix        Theme = "mix"
)

var themePlaceTypes = map[Theme][]string{
	ThemeCulture: {
		"museum",
		"art_gallery",
		"church",
		"tourist_attraction",
		"library",
		"historical_landmark",
	},
	ThemeGastronomy: {
		"restaurant",
		"cafe",
		"bakery",
		"bar",
		"meal_takeaway",
		"food",
	},
	ThemeNature: {
		"park",
		"natural_feature",
		"campground",
		"hiking_area",
		"scenic_lookout",
	},
	ThemeLeisure: {
		"amusement_park",
		"bowling_alley",
		"movie_theater",
		"shopping_mall",
		"spa",
		"night_club",
		"casino",
	},
	ThemeMix: {
		"tourist_attraction",
		"point_of_interest",
	},
}

// ParseTheme reports whether s names a known theme.
func ParseTheme(s string) (Theme, bool) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	_, ok := themePlaceTypes[t]
	return t, ok
}

// PlaceTypes returns the place-search sub-types for the theme.
// Unknown themes use the mix catalogue.
func (t Theme) PlaceTypes() []string {
	types, ok := themePlaceTypes[t]
	if !ok {
		types = themePlaceTypes[ThemeMix]
	}
	out := make([]string, len(types))
	copy(out, types)
	return out
}
