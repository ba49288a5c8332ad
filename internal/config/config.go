package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port               string
	DBDriver           string
	DBPath             string
	DatabaseURL        string
	RedisURL           string
	MapsAPIKey         string
	PhotoProxyBaseURL  string
	SeedPath           string
	SearchRadiusMeters int
	ProviderTimeout    time.Duration
	DetailCacheTTL     time.Duration
	VariantConcurrency int
}

// Load reads the configuration. Call godotenv.Load first to pick up a .env file.
func Load() *Config {
	return &Config{
		Port:               Get("PORT", "8080"),
		DBDriver:           strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:             Get("DB_PATH", "data/app.db"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		MapsAPIKey:         os.Getenv("MAPS_API_KEY"),
		PhotoProxyBaseURL:  Get("PHOTO_PROXY_BASE_URL", "http://localhost:8080"),
		SeedPath:           Get("SEED_PATH", "data/seeds/user_photos.json"),
		SearchRadiusMeters: GetInt("SEARCH_RADIUS_METERS", 10000),
		ProviderTimeout:    GetDuration("PROVIDER_TIMEOUT", 10*time.Second),
		DetailCacheTTL:     GetDuration("DETAIL_CACHE_TTL", 24*time.Hour),
		VariantConcurrency: GetInt("VARIANT_CONCURRENCY", 3),
	}
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid int %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid duration %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
