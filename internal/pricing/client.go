// Package pricing provides the upstream oil-price API client and trend math.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Quote is one normalized benchmark price from the upstream API.
type Quote struct {
	Benchmark  string
	Price      float64
	Currency   string
	CapturedAt time.Time
}

// Client calls the hosted oil-price API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a price API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchQuote fetches the latest price for a single benchmark code.
func (c *Client) FetchQuote(ctx context.Context, benchmark string) (*Quote, error) {
	reqURL := fmt.Sprintf("%s?by_code=%s", c.baseURL, url.QueryEscape(benchmark))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("price request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Token "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price fetch %s: %w", benchmark, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price fetch %s: unexpected status %d", benchmark, resp.StatusCode)
	}

	var raw priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("price decode %s: %w", benchmark, err)
	}

	if raw.Data.Price == nil {
		return nil, fmt.Errorf("price fetch %s: response missing price", benchmark)
	}

	capturedAt, err := time.Parse(time.RFC3339, raw.Data.CreatedAt)
	if err != nil {
		capturedAt = time.Now().UTC()
	}

	currency := raw.Data.Currency
	if currency == "" {
		currency = "USD"
	}

	return &Quote{
		Benchmark:  benchmark,
		Price:      *raw.Data.Price,
		Currency:   currency,
		CapturedAt: capturedAt,
	}, nil
}

// FetchQuotes fetches all benchmarks concurrently. The first upstream failure
// cancels the remaining requests and is returned as the fetch error.
func (c *Client) FetchQuotes(ctx context.Context, benchmarks []string) ([]Quote, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	quotes := make([]Quote, 0, len(benchmarks))

	for _, benchmark := range benchmarks {
		g.Go(func() error {
			quote, err := c.FetchQuote(ctx, benchmark)
			if err != nil {
				return err
			}
			mu.Lock()
			quotes = append(quotes, *quote)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}

type priceResponse struct {
	Status string    `json:"status"`
	Data   priceData `json:"data"`
}

type priceData struct {
	Price     *float64 `json:"price"`
	Currency  string   `json:"currency"`
	Code      string   `json:"code"`
	CreatedAt string   `json:"created_at"`
}
