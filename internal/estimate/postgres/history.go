package postgres

import (
	"context"
	"database/sql"

	"github.com/corpotravel/trip-management/internal/estimate"

	"github.com/jmoiron/sqlx"
)

// History runs the read-side aggregation over past trips. It sits on sqlx
// rather than the ORM because the query is a plain aggregate.
type History struct {
	db *sqlx.DB
}

func NewHistory(db *sqlx.DB) *History {
	return &History{db: db}
}

type destinationRow struct {
	TripCount int64           `db:"trip_count"`
	AvgCents  sql.NullFloat64 `db:"avg_cents"`
	MinCents  sql.NullInt64   `db:"min_cents"`
	MaxCents  sql.NullInt64   `db:"max_cents"`
}

// GetDestinationStats aggregates approved trips only; pending and
// rejected requests carry unvetted numbers.
func (h *History) GetDestinationStats(ctx context.Context, destination string) (*estimate.DestinationStats, error) {
	const query = `
		SELECT COUNT(*)                  AS trip_count,
		       AVG(estimated_value_cents) AS avg_cents,
		       MIN(estimated_value_cents) AS min_cents,
		       MAX(estimated_value_cents) AS max_cents
		FROM trips
		WHERE LOWER(destination) = $1
		  AND status = 'aprovado'
		  AND estimated_value_cents > 0`

	var row destinationRow
	if err := h.db.GetContext(ctx, &row, query, destination); err != nil {
		return nil, err
	}

	stats := &estimate.DestinationStats{
		Destination: destination,
		TripCount:   row.TripCount,
	}
	if row.AvgCents.Valid {
		stats.AvgCents = int64(row.AvgCents.Float64)
	}
	if row.MinCents.Valid {
		stats.MinCents = row.MinCents.Int64
	}
	if row.MaxCents.Valid {
		stats.MaxCents = row.MaxCents.Int64
	}
	return stats, nil
}
