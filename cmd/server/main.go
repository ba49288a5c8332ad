package main

import (
	"context"
	"itinerary-route-service/internal/adapters/cache"
	"itinerary-route-service/internal/adapters/google"
	"itinerary-route-service/internal/adapters/repositories"
	"itinerary-route-service/internal/api"
	"itinerary-route-service/internal/config"
	"itinerary-route-service/internal/platform/db"
	"itinerary-route-service/internal/services"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, Google Maps) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	if strings.TrimSpace(cfg.MapsAPIKey) == "" {
		log.Fatal("MAPS_API_KEY is required")
	}

	conn, dialect, err := db.OpenByDriver(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		log.Fatal(err)
	}

	geocodeCache := cache.NewSQLGeocodeCache(conn, dialect)

	var detailCache google.DetailCache
	if rdb := openRedis(ctx, cfg.RedisURL); rdb != nil {
		defer rdb.Close()
		detailCache = cache.NewRedisPlaceDetailCache(rdb, cfg.DetailCacheTTL)
	}

	maps, err := google.NewClient(google.Config{
		APIKey:            cfg.MapsAPIKey,
		Timeout:           cfg.ProviderTimeout,
		PhotoProxyBaseURL: cfg.PhotoProxyBaseURL,
	}, detailCache, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	engine := services.Collaborators{
		Places:         maps,
		Details:        maps,
		UserPhotos:     repositories.NewSQLPhotoRepository(conn, dialect),
		ProviderPhotos: maps,
		Routing:        maps,
		Geocoder:       maps,
		Concurrency:    cfg.VariantConcurrency,
	}
	router := api.NewRouter(engine, cfg.SearchRadiusMeters)

	// Timeouts are tuned for cold-cache generation (several provider round trips per variant).
	log.Printf("Server listening addr=:%s db=%s redis=%t", cfg.Port, dialect, detailCache != nil)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openRedis returns nil when no URL is configured or the server is unreachable;
// the service then runs without a detail cache.
func openRedis(ctx context.Context, url string) *redis.Client {
	if strings.TrimSpace(url) == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("redis disabled: parse REDIS_URL: %v", err)
		return nil
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis disabled: ping: %v", err)
		_ = rdb.Close()
		return nil
	}

	return rdb
}
