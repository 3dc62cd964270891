package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gatherhub/server/internal/domain/events"
)

var _ events.LocationResolver = (*LocationRepository)(nil)

// PrepareLocation returns the location with the exact coordinate pair,
// creating it when absent.
func (r *LocationRepository) PrepareLocation(ctx context.Context, lat, lon float64) (events.Location, error) {
	queryer := q(ctx, r.pool)
	location := events.Location{Lat: lat, Lon: lon}

	err := queryer.QueryRow(ctx,
		`SELECT id FROM locations WHERE lat = $1 AND lon = $2`, lat, lon).Scan(&location.ID)
	if err == nil {
		return location, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return events.Location{}, fmt.Errorf("find location: %w", err)
	}

	err = queryer.QueryRow(ctx,
		`INSERT INTO locations (lat, lon) VALUES ($1, $2) RETURNING id`, lat, lon).Scan(&location.ID)
	if err != nil {
		return events.Location{}, fmt.Errorf("insert location: %w", err)
	}
	return location, nil
}
