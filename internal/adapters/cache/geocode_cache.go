package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/platform/db"
	"itinerary-route-service/internal/platform/obs"
	"strings"
)

// SQLGeocodeCache maps normalized addresses to coordinates in the
// geocode_cache table. It works against both Postgres and SQLite.
type SQLGeocodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLGeocodeCache(conn *sql.DB, dialect db.Dialect) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: conn, Dialect: dialect}
}

// Get returns the cached coordinates for address. ok is false on a miss.
func (s *SQLGeocodeCache) Get(ctx context.Context, address string) (_ domain.Coordinates, ok bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinates{}, false, nil
	}

	q := db.Rebind(s.Dialect, `SELECT lat, lng FROM geocode_cache WHERE address = ?`)

	var c domain.Coordinates
	err = s.DB.QueryRowContext(ctx, q, address).Scan(&c.Lat, &c.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get geocode cache address=%q: %w", address, err)
	}
	return c, true, nil
}

// Put upserts the coordinates for address.
func (s *SQLGeocodeCache) Put(ctx context.Context, address string, c domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("put geocode cache: empty address key")
	}

	q := db.Rebind(s.Dialect, `
	INSERT INTO geocode_cache (address, lat, lng)
	VALUES (?, ?, ?)
	ON CONFLICT (address) DO UPDATE
	SET lat = excluded.lat,
		lng = excluded.lng`)

	if _, err := s.DB.ExecContext(ctx, q, address, c.Lat, c.Lng); err != nil {
		return fmt.Errorf("put geocode cache address=%q: %w", address, err)
	}
	return nil
}
