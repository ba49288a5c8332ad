package dto

type StartPointRequest struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address"`
}

type GenerateRoutesRequest struct {
	Location      string            `json:"location"`
	StartPoint    StartPointRequest `json:"start_point"`
	Theme         string            `json:"theme"`
	NumPlaces     int               `json:"num_places"`
	TransportMode string            `json:"transport_mode"`
}

type PointResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PhotoResponse struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

type OpeningHoursResponse struct {
	OpenNow             *bool    `json:"open_now,omitempty"`
	WeekdayDescriptions []string `json:"weekday_descriptions,omitempty"`
}

type StopResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Types        []string              `json:"types"`
	Location     PointResponse         `json:"location"`
	Rating       *float64              `json:"rating,omitempty"`
	RatingCount  *int                  `json:"rating_count,omitempty"`
	Address      string                `json:"address,omitempty"`
	Vicinity     string                `json:"vicinity,omitempty"`
	PriceLevel   *int                  `json:"price_level,omitempty"`
	OpeningHours *OpeningHoursResponse `json:"opening_hours,omitempty"`
	DistanceM    float64               `json:"distance_from_start_meters"`
	Photos       []PhotoResponse       `json:"photos"`
}

type RouteResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Strategy        string          `json:"strategy"`
	TotalDistance   string          `json:"total_distance"`
	WalkingDistance string          `json:"walking_distance"`
	Difficulty      string          `json:"difficulty"`
	DifficultyScore int             `json:"difficulty_score"`
	AvgPrice        string          `json:"avg_price"`
	Duration        string          `json:"duration"`
	NumPlaces       int             `json:"num_places"`
	TransportMode   string          `json:"transport_mode"`
	Polyline        string          `json:"polyline"`
	Points          []PointResponse `json:"points"`
	Stops           []StopResponse  `json:"stops"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}
