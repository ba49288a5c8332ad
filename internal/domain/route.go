package domain

// Geometry of one circular route as returned by the routing collaborator.
// OptimizedOrder holds indices into the submitted stop list.
type RouteGeometry struct {
	TotalDistanceMeters  int
	TotalDurationSeconds int
	EncodedPolyline      string
	Points               []Coordinates
	OptimizedOrder       []int
}

type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// Represents one of the (up to three) itineraries returned to the caller.
// Distances are formatted "%.1f km"; Duration is "Xh Ym" or "Ym".
// TransportMode is the mode actually used for the geometry, after any fallback.
type RouteOption struct {
	ID              string
	Name            string
	Strategy        string
	TotalDistance   string
	WalkingDistance string
	Difficulty      Difficulty
	DifficultyScore int
	AvgPrice        string
	Duration        string
	NumPlaces       int
	TransportMode   TransportMode
	Points          []Coordinates
	Polyline        string
	Stops           []EnrichedStop
}
