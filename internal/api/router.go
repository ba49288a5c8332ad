package api

import (
	"itinerary-route-service/internal/api/handlers"
	"itinerary-route-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(engine services.Collaborators, radiusMeters int) http.Handler {
	mux := http.NewServeMux()

	routesHandler := &handlers.RoutesHandler{
		Engine:       engine,
		RadiusMeters: radiusMeters,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/generate", routesHandler.Generate)

	return requestIDMiddleware(loggingMiddleware(mux))
}
