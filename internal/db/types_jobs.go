package db

import (
	"time"

	"github.com/google/uuid"
)

// Job execution status values.
const (
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
	JobStatusSkipped   = "skipped"
)

// JobExecution is one row of the append-only job audit trail.
type JobExecution struct {
	ID           uuid.UUID `json:"id"`
	JobName      string    `json:"job_name"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	DurationMS   int64     `json:"duration_ms"`
	ItemsFetched int       `json:"items_fetched"`
	ItemsCreated int       `json:"items_created"`
	ErrorText    string    `json:"error_text,omitempty"`
	TriggeredBy  string    `json:"triggered_by"`
}
