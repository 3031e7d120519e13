// Package newsfeed provides the upstream news API client and the relevance
// and sentiment scoring used to filter articles.
package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Article is one normalized upstream article before scoring.
type Article struct {
	Title       string
	Summary     string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Client calls the hosted news API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a news API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns the latest energy-sector articles, up to limit.
func (c *Client) Fetch(ctx context.Context, limit int) ([]Article, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("q", "crude oil OR petroleum OR opec")
	params.Set("language", "en")
	params.Set("size", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("news request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news fetch: unexpected status %d", resp.StatusCode)
	}

	var raw newsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("news decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Results))
	for _, item := range raw.Results {
		if item.Title == "" || item.Link == "" {
			continue
		}

		publishedAt, err := time.Parse("2006-01-02 15:04:05", item.PubDate)
		if err != nil {
			publishedAt = time.Now().UTC()
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		articles = append(articles, Article{
			Title:       item.Title,
			Summary:     StripHTML(summary),
			URL:         item.Link,
			Source:      item.SourceID,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

type newsResponse struct {
	Status  string     `json:"status"`
	Results []newsItem `json:"results"`
}

type newsItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Content     string `json:"content"`
	PubDate     string `json:"pubDate"`
	SourceID    string `json:"source_id"`
}
