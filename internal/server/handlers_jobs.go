package server

import (
	"net/http"
	"strconv"

	"github.com/emeka/petrocms/internal/jobs"
)

// jobResponse is the wire shape of a job invocation outcome.
type jobResponse struct {
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped,omitempty"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// handleFetchPrices runs the price fetch job.
func (s *Server) handleFetchPrices(w http.ResponseWriter, r *http.Request) {
	job := jobs.NewPriceFetchJob(s.db, s.priceAPI, s.cfg.Benchmarks, s.cfg.FetchInterval)
	s.runJob(w, r, job)
}

// handleFetchNews runs the news fetch job.
func (s *Server) handleFetchNews(w http.ResponseWriter, r *http.Request) {
	job := jobs.NewNewsFetchJob(s.db, s.newsAPI, s.scorer, s.cfg.NewsLimit, s.cfg.RelevanceThreshold, s.cfg.FetchInterval)
	s.runJob(w, r, job)
}

// handleGeneratePosts runs the post generation job.
func (s *Server) handleGeneratePosts(w http.ResponseWriter, r *http.Request) {
	s.runJob(w, r, jobs.NewPostGenJob(s.db))
}

// runJob executes one job and writes its outcome. Skipped invocations are a
// normal 200; a failed run reports 500 with the captured error text.
func (s *Server) runJob(w http.ResponseWriter, r *http.Request, job jobs.Job) {
	result := s.runner.Execute(r.Context(), job, "cron")

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}

	s.jsonResponse(w, status, jobResponse{
		Success:    result.Success,
		Skipped:    result.Skipped,
		Message:    result.Message,
		Data:       result.Data,
		Error:      result.ErrorText,
		DurationMS: result.Duration.Milliseconds(),
	})
}

// handleListJobExecutions returns recent rows from the job audit trail.
func (s *Server) handleListJobExecutions(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50)

	execs, err := s.db.ListJobExecutions(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"executions": execs, "count": len(execs)})
}

// parseLimit reads the optional limit query parameter.
func parseLimit(r *http.Request, fallback int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return fallback
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
