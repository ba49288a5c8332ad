package domain

import "strings"

// TransportMode is how the traveller moves between stops.
type TransportMode string

const (
	ModeWalking   TransportMode = "walking"
	ModeDriving   TransportMode = "driving"
	ModeTransit   TransportMode = "transit"
	ModeBicycling TransportMode = "bicycling"
)

// ParseTransportMode reports whether s names a supported mode.
func ParseTransportMode(s string) (TransportMode, bool) {
	m := TransportMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeWalking, ModeDriving, ModeTransit, ModeBicycling:
		return m, true
	}
	return "", false
}
