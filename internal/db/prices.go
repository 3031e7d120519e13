package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertPriceRecord stores a new benchmark quote and returns its ID.
func (db *DB) InsertPriceRecord(ctx context.Context, rec *PriceRecord) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO price_records (benchmark, price, currency, trend, percent_change, post_pending, captured_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		 RETURNING id`,
		rec.Benchmark, rec.Price, rec.Currency, rec.Trend, rec.PercentChange, rec.CapturedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert price record: %w", err)
	}
	return id, nil
}

// GetLatestPriceRecord returns the newest record for a benchmark, or nil if
// none exists yet.
func (db *DB) GetLatestPriceRecord(ctx context.Context, benchmark string) (*PriceRecord, error) {
	var rec PriceRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, benchmark, price, currency, trend, percent_change, post_pending, captured_at, created_at
		 FROM price_records WHERE benchmark = $1
		 ORDER BY captured_at DESC LIMIT 1`,
		benchmark,
	).Scan(&rec.ID, &rec.Benchmark, &rec.Price, &rec.Currency, &rec.Trend, &rec.PercentChange,
		&rec.PostPending, &rec.CapturedAt, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest price record: %w", err)
	}
	return &rec, nil
}

// GetLatestPriceCapture returns the captured_at of the newest record across
// all benchmarks. The zero time means no record has been stored yet.
func (db *DB) GetLatestPriceCapture(ctx context.Context) (time.Time, error) {
	var captured time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT captured_at FROM price_records ORDER BY captured_at DESC LIMIT 1`,
	).Scan(&captured)
	if err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get latest price capture: %w", err)
	}
	return captured, nil
}

// ListPendingPriceRecords returns records that have not produced a post yet,
// oldest first.
func (db *DB) ListPendingPriceRecords(ctx context.Context, limit int) ([]PriceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, benchmark, price, currency, trend, percent_change, post_pending, captured_at, created_at
		 FROM price_records WHERE post_pending
		 ORDER BY captured_at ASC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending price records: %w", err)
	}
	defer rows.Close()

	var recs []PriceRecord
	for rows.Next() {
		var rec PriceRecord
		if err := rows.Scan(&rec.ID, &rec.Benchmark, &rec.Price, &rec.Currency, &rec.Trend,
			&rec.PercentChange, &rec.PostPending, &rec.CapturedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ClaimPriceRecord atomically flips post_pending for a record that is still
// pending. Returns false if another invocation already claimed it, so two
// overlapping runs cannot both generate a post from the same record.
func (db *DB) ClaimPriceRecord(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE price_records SET post_pending = FALSE WHERE id = $1 AND post_pending`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim price record: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// ReleasePriceRecord puts a claimed record back so the next run retries it.
// Used when generation fails after the claim succeeded.
func (db *DB) ReleasePriceRecord(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE price_records SET post_pending = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to release price record: %w", err)
	}
	return nil
}

// ListRecentPriceRecords returns the newest records for the dashboard.
func (db *DB) ListRecentPriceRecords(ctx context.Context, limit int) ([]PriceRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, benchmark, price, currency, trend, percent_change, post_pending, captured_at, created_at
		 FROM price_records ORDER BY captured_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list price records: %w", err)
	}
	defer rows.Close()

	var recs []PriceRecord
	for rows.Next() {
		var rec PriceRecord
		if err := rows.Scan(&rec.ID, &rec.Benchmark, &rec.Price, &rec.Currency, &rec.Trend,
			&rec.PercentChange, &rec.PostPending, &rec.CapturedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
