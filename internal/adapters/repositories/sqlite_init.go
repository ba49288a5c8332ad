package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"itinerary-route-service/internal/platform/db"
	"os"
	"strings"
)

// Initialize the database schema for the given dialect.
func InitSchema(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	realType := "REAL"
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	createdAt := "created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP"
	if dialect == db.DialectPostgres {
		realType = "DOUBLE PRECISION"
		idColumn = "id BIGSERIAL PRIMARY KEY"
		createdAt = "created_at TIMESTAMPTZ NOT NULL DEFAULT now()"
	}

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lat %[1]s NOT NULL,
        lng %[1]s NOT NULL
    );
	`, realType)

	createUserPhotosQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS user_photos (
		%[2]s,
		place_id TEXT,
		lat %[1]s,
		lng %[1]s,
		url TEXT NOT NULL,
		%[3]s
	);
	`, realType, idColumn, createdAt)

	createPlaceIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_user_photos_place_id
    ON user_photos(place_id);
	`

	createLocationIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_user_photos_lat_lng
    ON user_photos(lat, lng);
	`

	statements := []string{
		createGeocodeCacheQuery,
		createUserPhotosQuery,
		createPlaceIndexQuery,
		createLocationIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PhotoSeed struct {
	PlaceID string   `json:"place_id"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	URL     string   `json:"url"`
}

// Populate the user_photos table from a JSON file.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed photos: read %q: %w", jsonPath, err)
	}

	var data []PhotoSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed photos: parse json: %w", err)
	}

	return InsertPhotos(ctx, conn, dialect, data)
}

// InsertPhotos validates and stores user photo records in a single transaction.
func InsertPhotos(ctx context.Context, conn *sql.DB, dialect db.Dialect, data []PhotoSeed) (int, error) {
	if conn == nil {
		return 0, errors.New("seed photos: DB is nil")
	}

	rows := make([]PhotoSeed, 0, len(data))
	for i, item := range data {
		url := strings.TrimSpace(item.URL)
		if url == "" {
			return 0, fmt.Errorf("seed photos: item at index %d: url cannot be empty", i+1)
		}

		placeID := strings.TrimSpace(item.PlaceID)
		if placeID == "" && (item.Lat == nil || item.Lng == nil) {
			return 0, fmt.Errorf("seed photos: item at index %d: need place_id or lat/lng", i+1)
		}
		rows = append(rows, PhotoSeed{PlaceID: placeID, Lat: item.Lat, Lng: item.Lng, URL: url})
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed photos: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := db.Rebind(dialect, `
	INSERT INTO user_photos (
		place_id,
		lat,
		lng,
		url
	)
	VALUES (?, ?, ?, ?);
	`)
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed photos: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		var placeID sql.NullString
		if p.PlaceID != "" {
			placeID = sql.NullString{String: p.PlaceID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, placeID, p.Lat, p.Lng, p.URL); err != nil {
			return 0, fmt.Errorf("seed photos: insert url=%q: %w", p.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed photos: commit tx: %w", err)
	}

	return len(rows), nil
}
