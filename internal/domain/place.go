package domain

// Represents a place returned by search, not yet enriched with detail or photos.
// A Candidate is immutable once the pool builder has annotated it;
// DistanceFromStart is computed once and cached here.
type Candidate struct {
	ID                string
	Name              string
	Types             TypeSet
	Location          Coordinates
	Rating            *float64
	RatingCount       *int
	Address           string
	DistanceFromStart float64 // meters
}

// RatingOrZero treats a missing rating as 0 for ordering and filtering.
func (c Candidate) RatingOrZero() float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

type OpeningHours struct {
	OpenNow             *bool    `json:"open_now,omitempty"`
	WeekdayDescriptions []string `json:"weekday_descriptions,omitempty"`
}

// Full place record from the place-detail collaborator.
type PlaceDetail struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Types        []string      `json:"types"`
	Location     Coordinates   `json:"location"`
	Rating       *float64      `json:"rating,omitempty"`
	RatingCount  *int          `json:"rating_count,omitempty"`
	Address      string        `json:"address,omitempty"`
	Vicinity     string        `json:"vicinity,omitempty"`
	PriceLevel   *int          `json:"price_level,omitempty"`
	OpeningHours *OpeningHours `json:"opening_hours,omitempty"`
	PhotoRefs    []string      `json:"photo_refs,omitempty"`
}

type PhotoSource string

const (
	PhotoSourceUser   PhotoSource = "user"
	PhotoSourceGoogle PhotoSource = "google"
)

type Photo struct {
	URL    string
	Source PhotoSource
}

// EnrichedStop is a selected candidate expanded with detail fields and
// photos. Photos are ordered user-sourced first.
type EnrichedStop struct {
	Candidate
	Vicinity     string
	PriceLevel   *int
	OpeningHours *OpeningHours
	Photos       []Photo
}
