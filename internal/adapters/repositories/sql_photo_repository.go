package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-route-service/internal/platform/db"
	"itinerary-route-service/internal/platform/obs"
	"itinerary-route-service/internal/ports"
)

// Half-width in degrees of the box used for coordinate matches (roughly 200m).
const photoBoxDegrees = 0.002

// SQL-backed implementation of the UserPhotoProvider port.
type SQLPhotoRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

var _ ports.UserPhotoProvider = (*SQLPhotoRepository)(nil)

func NewSQLPhotoRepository(conn *sql.DB, dialect db.Dialect) *SQLPhotoRepository {
	return &SQLPhotoRepository{DB: conn, Dialect: dialect}
}

// UserPhotos returns up to q.MaxPhotos URLs, matching by place id first and
// then by a bounding box around the coordinates.
func (r *SQLPhotoRepository) UserPhotos(ctx context.Context, q ports.PhotoQuery) (_ []string, err error) {
	defer obs.Time(ctx, "photos.UserPhotos")(&err)

	if r.DB == nil {
		return nil, errors.New("sql photo repository: DB is nil")
	}
	if q.MaxPhotos <= 0 {
		return nil, nil
	}

	out := make([]string, 0, q.MaxPhotos)
	seen := make(map[string]struct{}, q.MaxPhotos)
	add := func(urls []string) {
		for _, u := range urls {
			if len(out) >= q.MaxPhotos {
				return
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}

	if q.PlaceID != "" {
		urls, err := r.query(ctx, `
		SELECT url
		FROM user_photos
		WHERE place_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?;
		`, q.PlaceID, q.MaxPhotos)
		if err != nil {
			return nil, fmt.Errorf("user photos by place_id=%q: %w", q.PlaceID, err)
		}
		add(urls)
	}

	if len(out) < q.MaxPhotos && q.Lat != nil && q.Lng != nil {
		lat, lng := *q.Lat, *q.Lng
		// Over-fetch so duplicates of place-id matches do not starve the result.
		urls, err := r.query(ctx, `
		SELECT url
		FROM user_photos
		WHERE lat BETWEEN ? AND ?
		AND lng BETWEEN ? AND ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?;
		`, lat-photoBoxDegrees, lat+photoBoxDegrees, lng-photoBoxDegrees, lng+photoBoxDegrees, q.MaxPhotos*2)
		if err != nil {
			return nil, fmt.Errorf("user photos near %.5f,%.5f: %w", lat, lng, err)
		}
		add(urls)
	}

	return out, nil
}

func (r *SQLPhotoRepository) query(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, db.Rebind(r.Dialect, query), args...)
	if err != nil {
		return nil, fmt.Errorf("query user_photos table: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return urls, nil
}
