// Package jobs implements the scheduled pipeline: price fetch, news fetch,
// and post generation. Each job is a stateless struct built per invocation;
// the external cron trigger provides the schedule and the retry cadence.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/emeka/petrocms/internal/db"
)

// Job names as recorded in the execution log and addressed by the CLI.
const (
	JobFetchPrices   = "fetch-prices"
	JobFetchNews     = "fetch-news"
	JobGeneratePosts = "generate-posts"
)

// Result is the outcome of one job invocation.
type Result struct {
	JobName      string        `json:"job_name"`
	Success      bool          `json:"success"`
	Skipped      bool          `json:"skipped,omitempty"`
	Message      string        `json:"message,omitempty"`
	ErrorText    string        `json:"error,omitempty"`
	ItemsFetched int           `json:"items_fetched"`
	ItemsCreated int           `json:"items_created"`
	Duration     time.Duration `json:"-"`
	Data         any           `json:"data,omitempty"`
}

// Job is one schedulable unit of the pipeline.
type Job interface {
	Name() string
	// ShouldRun gates the invocation, e.g. on the minimum refetch interval.
	// The string is a human-readable skip reason.
	ShouldRun(ctx context.Context) (bool, string, error)
	Run(ctx context.Context) (*Result, error)
}

// ExecutionLog records finished invocations. Satisfied by the database layer.
type ExecutionLog interface {
	InsertJobExecution(ctx context.Context, e *db.JobExecution) error
}

// Runner executes jobs with timing, panic recovery and execution logging.
// Any error degrades to a structured failure result; a job can never take the
// process down.
type Runner struct {
	log ExecutionLog
	now func() time.Time
}

// NewRunner creates a runner that records executions in the given log.
func NewRunner(execLog ExecutionLog) *Runner {
	return &Runner{log: execLog, now: time.Now}
}

// Execute runs one job to completion and appends an execution row, including
// for skipped invocations. triggeredBy tags who invoked the job (cron, cli).
func (r *Runner) Execute(ctx context.Context, job Job, triggeredBy string) *Result {
	started := r.now()

	result := r.execute(ctx, job)
	result.JobName = job.Name()
	result.Duration = r.now().Sub(started)

	status := db.JobStatusSucceeded
	switch {
	case result.Skipped:
		status = db.JobStatusSkipped
	case !result.Success:
		status = db.JobStatusFailed
	}

	entry := &db.JobExecution{
		JobName:      job.Name(),
		Status:       status,
		StartedAt:    started,
		FinishedAt:   started.Add(result.Duration),
		DurationMS:   result.Duration.Milliseconds(),
		ItemsFetched: result.ItemsFetched,
		ItemsCreated: result.ItemsCreated,
		ErrorText:    result.ErrorText,
		TriggeredBy:  triggeredBy,
	}
	if err := r.log.InsertJobExecution(ctx, entry); err != nil {
		log.Printf("[jobs] failed to record execution of %s: %v", job.Name(), err)
	}

	log.Printf("[jobs] %s finished status=%s fetched=%d created=%d in %v",
		job.Name(), status, result.ItemsFetched, result.ItemsCreated, result.Duration)

	return result
}

func (r *Runner) execute(ctx context.Context, job Job) (result *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = &Result{
				Success:   false,
				ErrorText: fmt.Sprintf("panic: %v", rec),
			}
		}
	}()

	shouldRun, reason, err := job.ShouldRun(ctx)
	if err != nil {
		return &Result{Success: false, ErrorText: err.Error()}
	}
	if !shouldRun {
		return &Result{Success: true, Skipped: true, Message: reason}
	}

	result, err = job.Run(ctx)
	if err != nil {
		if result == nil {
			result = &Result{}
		}
		result.Success = false
		result.ErrorText = err.Error()
		return result
	}

	result.Success = true
	return result
}
