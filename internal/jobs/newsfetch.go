package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/newsfeed"
	"github.com/google/uuid"
)

// NewsStore is the persistence surface the news fetch job needs.
type NewsStore interface {
	GetLatestArticleFetch(ctx context.Context) (time.Time, error)
	InsertArticle(ctx context.Context, a *db.NewsArticle) (uuid.UUID, error)
}

// NewsAPI is the upstream article source.
type NewsAPI interface {
	Fetch(ctx context.Context, limit int) ([]newsfeed.Article, error)
}

// NewsFetchJob pulls articles from the upstream API, scores them for topical
// relevance and sentiment, and persists the ones above the retention
// threshold as pending review.
type NewsFetchJob struct {
	store     NewsStore
	api       NewsAPI
	scorer    *newsfeed.Scorer
	limit     int
	threshold float64
	interval  time.Duration
	now       func() time.Time
}

// NewNewsFetchJob creates a news fetch job.
func NewNewsFetchJob(store NewsStore, api NewsAPI, scorer *newsfeed.Scorer, limit int, threshold float64, interval time.Duration) *NewsFetchJob {
	return &NewsFetchJob{
		store:     store,
		api:       api,
		scorer:    scorer,
		limit:     limit,
		threshold: threshold,
		interval:  interval,
		now:       time.Now,
	}
}

// Name implements Job.
func (j *NewsFetchJob) Name() string { return JobFetchNews }

// ShouldRun gates on the interval since the last stored article, tracked
// independently of the price fetch gate.
func (j *NewsFetchJob) ShouldRun(ctx context.Context) (bool, string, error) {
	latest, err := j.store.GetLatestArticleFetch(ctx)
	if err != nil {
		return false, "", err
	}
	if latest.IsZero() {
		return true, "", nil
	}

	elapsed := j.now().Sub(latest)
	if elapsed < j.interval {
		return false, fmt.Sprintf("last fetch %s ago, interval is %s", elapsed.Round(time.Minute), j.interval), nil
	}
	return true, "", nil
}

// Run fetches, scores and persists qualifying articles. Below-threshold
// articles are discarded; duplicates (same URL) are skipped by the store.
func (j *NewsFetchJob) Run(ctx context.Context) (*Result, error) {
	articles, err := j.api.Fetch(ctx, j.limit)
	if err != nil {
		return nil, fmt.Errorf("upstream news fetch failed: %w", err)
	}

	retained := 0
	for _, a := range articles {
		relevance := j.scorer.Relevance(a.Title, a.Summary)
		if relevance < j.threshold {
			continue
		}

		article := db.NewsArticle{
			Title:       a.Title,
			Summary:     a.Summary,
			URL:         a.URL,
			Source:      a.Source,
			Relevance:   relevance,
			Sentiment:   j.scorer.Sentiment(a.Title, a.Summary),
			Status:      db.ArticleStatusPending,
			PublishedAt: a.PublishedAt,
		}

		id, err := j.store.InsertArticle(ctx, &article)
		if err != nil {
			return &Result{ItemsFetched: len(articles), ItemsCreated: retained}, err
		}
		if id != uuid.Nil {
			retained++
		}
	}

	return &Result{
		Message:      fmt.Sprintf("retained %d of %d articles", retained, len(articles)),
		ItemsFetched: len(articles),
		ItemsCreated: retained,
	}, nil
}
