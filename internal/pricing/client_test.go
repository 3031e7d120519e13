package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BRENT_CRUDE_USD", r.URL.Query().Get("by_code"))
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"price":      76.43,
				"currency":   "USD",
				"code":       "BRENT_CRUDE_USD",
				"created_at": "2026-08-30T06:00:00Z",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	quote, err := client.FetchQuote(context.Background(), "BRENT_CRUDE_USD")
	require.NoError(t, err)

	assert.Equal(t, "BRENT_CRUDE_USD", quote.Benchmark)
	assert.Equal(t, 76.43, quote.Price)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, 2026, quote.CapturedAt.Year())
}

func TestFetchQuote_MissingPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"code":"WTI_USD"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.FetchQuote(context.Background(), "WTI_USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing price")
}

func TestFetchQuote_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.FetchQuote(context.Background(), "WTI_USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestFetchQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("by_code")
		price := 76.43
		if code == "WTI_USD" {
			price = 72.18
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]any{
				"price":      price,
				"currency":   "USD",
				"code":       code,
				"created_at": "2026-08-30T06:00:00Z",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	quotes, err := client.FetchQuotes(context.Background(), []string{"BRENT_CRUDE_USD", "WTI_USD"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	byBenchmark := map[string]float64{}
	for _, q := range quotes {
		byBenchmark[q.Benchmark] = q.Price
	}
	assert.Equal(t, 76.43, byBenchmark["BRENT_CRUDE_USD"])
	assert.Equal(t, 72.18, byBenchmark["WTI_USD"])
}
