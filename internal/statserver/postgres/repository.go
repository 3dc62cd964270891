package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gatherhub/server/internal/statserver"
	"github.com/gatherhub/server/internal/stats"
)

var _ statserver.Repository = (*Repository)(nil)

// Repository stores endpoint hits and aggregates view counts.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("stats repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) SaveHit(ctx context.Context, hit statserver.HitRecord) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO endpoint_hits (app, uri, ip, hit_at)
VALUES ($1, $2, $3, $4)`,
		hit.App, hit.URI, hit.IP, hit.Timestamp)
	if err != nil {
		return fmt.Errorf("insert hit: %w", err)
	}
	return nil
}

func (r *Repository) ViewStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]stats.ViewStat, error) {
	counter := "COUNT(ip)"
	if unique {
		counter = "COUNT(DISTINCT ip)"
	}

	var uriArray any
	if len(uris) > 0 {
		uriArray = uris
	}

	rows, err := r.pool.Query(ctx, `
SELECT app, uri, `+counter+` AS hits
  FROM endpoint_hits
 WHERE hit_at BETWEEN $1 AND $2
   AND (coalesce(cardinality($3::text[]), 0) = 0 OR uri = ANY($3::text[]))
 GROUP BY app, uri
 ORDER BY hits DESC`,
		start, end, uriArray)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	defer rows.Close()

	items := []stats.ViewStat{}
	for rows.Next() {
		var item stats.ViewStat
		if err := rows.Scan(&item.App, &item.URI, &item.Hits); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}
	return items, nil
}
