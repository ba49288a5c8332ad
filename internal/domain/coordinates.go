package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as "lat,lng" for external API compatibility.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// Return coordinates as [lat, lng].
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lng} }

// ParseCoordinates parses a "lat,lng" string. It fails for anything else,
// including free-text addresses that merely contain a comma.
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("parse coordinates: %q is not a lat,lng pair", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse coordinates: latitude %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse coordinates: longitude %q: %w", parts[1], err)
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("parse coordinates: %q out of range", s)
	}

	return Coordinates{Lat: lat, Lng: lng}, nil
}
