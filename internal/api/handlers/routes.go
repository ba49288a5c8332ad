package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"itinerary-route-service/internal/api/dto"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/services"
	"log"
	"net/http"
	"strings"
)

type RoutesHandler struct {
	Engine       services.Collaborators
	RadiusMeters int
}

// Generate validates the request, runs route generation and maps engine
// errors to HTTP statuses.
func (h *RoutesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req dto.GenerateRoutesRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		writeError(w, r, http.StatusBadRequest, "location is required")
		return
	}

	theme := domain.ThemeMix
	if strings.TrimSpace(req.Theme) != "" {
		t, ok := domain.ParseTheme(req.Theme)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "theme must be one of culture, gastronomy, nature, leisure, mix")
			return
		}
		theme = t
	}

	if req.NumPlaces < services.MinNumPlaces || req.NumPlaces > services.MaxNumPlaces {
		writeError(w, r, http.StatusBadRequest, "num_places must be between 1 and 20")
		return
	}

	mode := domain.ModeDriving
	if strings.TrimSpace(req.TransportMode) != "" {
		m, ok := domain.ParseTransportMode(req.TransportMode)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "transport_mode must be one of walking, driving, transit, bicycling")
			return
		}
		mode = m
	}

	sp := req.StartPoint
	if (sp.Lat == nil) != (sp.Lng == nil) {
		writeError(w, r, http.StatusBadRequest, "start_point needs both lat and lng")
		return
	}
	if sp.Lat != nil && (*sp.Lat < -90 || *sp.Lat > 90 || *sp.Lng < -180 || *sp.Lng > 180) {
		writeError(w, r, http.StatusBadRequest, "start_point coordinates out of range")
		return
	}

	svcReq := services.GenerateRoutesRequest{
		Location:      location,
		Start:         services.StartPoint{Lat: sp.Lat, Lng: sp.Lng, Address: sp.Address},
		Theme:         theme,
		NumPlaces:     req.NumPlaces,
		TransportMode: mode,
		RadiusMeters:  h.RadiusMeters,
	}

	options, err := services.GenerateRoutes(r.Context(), svcReq, h.Engine)
	if err != nil {
		status, msg := errorStatus(err)
		log.Printf("generate routes failed: status=%d err=%v", status, err)
		writeError(w, r, status, msg)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(options))}
	for _, o := range options {
		res.Routes = append(res.Routes, toRouteResponse(o))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInsufficientCandidates):
		return http.StatusNotFound, "not enough places found for this theme and location"
	case errors.Is(err, services.ErrInvalidStartPoint):
		return http.StatusBadRequest, "start_point must have coordinates or an address"
	case errors.Is(err, services.ErrGeocodeFailure):
		return http.StatusBadRequest, "start point could not be located"
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func toRouteResponse(o domain.RouteOption) dto.RouteResponse {
	points := make([]dto.PointResponse, 0, len(o.Points))
	for _, p := range o.Points {
		points = append(points, dto.PointResponse{Lat: p.Lat, Lng: p.Lng})
	}

	stops := make([]dto.StopResponse, 0, len(o.Stops))
	for _, s := range o.Stops {
		photos := make([]dto.PhotoResponse, 0, len(s.Photos))
		for _, ph := range s.Photos {
			photos = append(photos, dto.PhotoResponse{URL: ph.URL, Source: string(ph.Source)})
		}

		stop := dto.StopResponse{
			ID:          s.ID,
			Name:        s.Name,
			Types:       s.Types.Sorted(),
			Location:    dto.PointResponse{Lat: s.Location.Lat, Lng: s.Location.Lng},
			Rating:      s.Rating,
			RatingCount: s.RatingCount,
			Address:     s.Address,
			Vicinity:    s.Vicinity,
			PriceLevel:  s.PriceLevel,
			DistanceM:   s.DistanceFromStart,
			Photos:      photos,
		}
		if s.OpeningHours != nil {
			stop.OpeningHours = &dto.OpeningHoursResponse{
				OpenNow:             s.OpeningHours.OpenNow,
				WeekdayDescriptions: s.OpeningHours.WeekdayDescriptions,
			}
		}
		stops = append(stops, stop)
	}

	return dto.RouteResponse{
		ID:              o.ID,
		Name:            o.Name,
		Strategy:        o.Strategy,
		TotalDistance:   o.TotalDistance,
		WalkingDistance: o.WalkingDistance,
		Difficulty:      string(o.Difficulty),
		DifficultyScore: o.DifficultyScore,
		AvgPrice:        o.AvgPrice,
		Duration:        o.Duration,
		NumPlaces:       o.NumPlaces,
		TransportMode:   string(o.TransportMode),
		Polyline:        o.Polyline,
		Points:          points,
		Stops:           stops,
	}
}
