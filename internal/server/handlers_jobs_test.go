package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/pricing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPriceAPI struct {
	quotes []pricing.Quote
	err    error
}

func (a *stubPriceAPI) FetchQuotes(context.Context, []string) ([]pricing.Quote, error) {
	return a.quotes, a.err
}

func decodeJobResponse(t *testing.T, body []byte) jobResponse {
	t.Helper()
	var resp jobResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestJobEndpoint_MissingToken(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(s, http.MethodGet, "/jobs/fetch-prices", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJobEndpoint_WrongToken(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(s, http.MethodGet, "/jobs/fetch-prices", "", "not-the-secret")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJobEndpoint_DevelopmentSkipsAuth(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.Env = "development"
	s.priceAPI = &stubPriceAPI{quotes: []pricing.Quote{
		{Benchmark: "BRENT_CRUDE_USD", Price: 76.43, Currency: "USD", CapturedAt: time.Now()},
	}}

	rr := doRequest(s, http.MethodGet, "/jobs/fetch-prices", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestFetchPrices_RunsThenSkips(t *testing.T) {
	s, mock := newTestServer(t)
	s.priceAPI = &stubPriceAPI{quotes: []pricing.Quote{
		{Benchmark: "BRENT_CRUDE_USD", Price: 76.43, Currency: "USD", CapturedAt: time.Now()},
	}}

	rr := doRequest(s, http.MethodGet, "/jobs/fetch-prices", "", "cron-secret")
	require.Equal(t, http.StatusOK, rr.Code)
	first := decodeJobResponse(t, rr.Body.Bytes())
	assert.True(t, first.Success)
	assert.False(t, first.Skipped)

	rr = doRequest(s, http.MethodGet, "/jobs/fetch-prices", "", "cron-secret")
	require.Equal(t, http.StatusOK, rr.Code)
	second := decodeJobResponse(t, rr.Body.Bytes())
	assert.True(t, second.Success)
	assert.True(t, second.Skipped)

	// One record despite two invocations, both logged.
	assert.Len(t, mock.prices, 1)
	require.Len(t, mock.execs, 2)
	assert.Equal(t, db.JobStatusSucceeded, mock.execs[0].Status)
	assert.Equal(t, db.JobStatusSkipped, mock.execs[1].Status)
}

func TestFetchPrices_UpstreamFailure(t *testing.T) {
	s, mock := newTestServer(t)
	s.priceAPI = &stubPriceAPI{err: context.DeadlineExceeded}

	rr := doRequest(s, http.MethodGet, "/jobs/fetch-prices", "", "cron-secret")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	resp := decodeJobResponse(t, rr.Body.Bytes())
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "upstream price fetch failed")

	require.Len(t, mock.execs, 1)
	assert.Equal(t, db.JobStatusFailed, mock.execs[0].Status)
}

func TestGeneratePosts_ConsumesPendingPrice(t *testing.T) {
	s, mock := newTestServer(t)
	mock.prices = append(mock.prices, &db.PriceRecord{
		ID:            uuid.New(),
		Benchmark:     "BRENT_CRUDE_USD",
		Price:         78.40,
		Currency:      "USD",
		Trend:         db.TrendUp,
		PercentChange: 1.8,
		PostPending:   true,
		CapturedAt:    time.Now(),
	})

	rr := doRequest(s, http.MethodGet, "/jobs/generate-posts", "", "cron-secret")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeJobResponse(t, rr.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Len(t, mock.posts, 1)
	assert.False(t, mock.prices[0].PostPending)
}

func TestListJobExecutions(t *testing.T) {
	s, mock := newTestServer(t)
	_, token := registeredAdmin(t, s, mock)
	mock.execs = append(mock.execs, db.JobExecution{JobName: "fetch-news", Status: db.JobStatusSucceeded})

	rr := doRequest(s, http.MethodGet, "/jobs/executions", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(s, http.MethodGet, "/jobs/executions", "", token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}
