package db

import (
	"context"
	"fmt"
)

// InsertJobExecution appends one row to the job audit trail. Rows are never
// updated or deleted.
func (db *DB) InsertJobExecution(ctx context.Context, e *JobExecution) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_executions (job_name, status, started_at, finished_at, duration_ms, items_fetched, items_created, error_text, triggered_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.JobName, e.Status, e.StartedAt, e.FinishedAt, e.DurationMS, e.ItemsFetched, e.ItemsCreated, e.ErrorText, e.TriggeredBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job execution: %w", err)
	}
	return nil
}

// ListJobExecutions returns recent job executions, newest first.
func (db *DB) ListJobExecutions(ctx context.Context, limit int) ([]JobExecution, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_name, status, started_at, finished_at, duration_ms, items_fetched, items_created, COALESCE(error_text, ''), triggered_by
		 FROM job_executions ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job executions: %w", err)
	}
	defer rows.Close()

	var execs []JobExecution
	for rows.Next() {
		var e JobExecution
		if err := rows.Scan(&e.ID, &e.JobName, &e.Status, &e.StartedAt, &e.FinishedAt, &e.DurationMS,
			&e.ItemsFetched, &e.ItemsCreated, &e.ErrorText, &e.TriggeredBy); err != nil {
			return nil, fmt.Errorf("failed to scan job execution: %w", err)
		}
		execs = append(execs, e)
	}
	return execs, nil
}
