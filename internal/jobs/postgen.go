package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/posts"
	"github.com/google/uuid"
)

// PostStore is the persistence surface the post generation job needs.
type PostStore interface {
	ListPendingPriceRecords(ctx context.Context, limit int) ([]db.PriceRecord, error)
	ClaimPriceRecord(ctx context.Context, id uuid.UUID) (bool, error)
	ReleasePriceRecord(ctx context.Context, id uuid.UUID) error

	ListArticlesForAutoPosting(ctx context.Context, limit int) ([]db.NewsArticle, error)
	ClaimArticle(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseArticle(ctx context.Context, id uuid.UUID) error

	InsertPost(ctx context.Context, p *db.BlogPost) (uuid.UUID, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// PostGenJob turns pending price records and approved auto-post articles into
// published blog posts. Each source row is claimed atomically before any
// content is rendered, so overlapping invocations cannot double-post.
type PostGenJob struct {
	store PostStore
	batch int
	now   func() time.Time
}

// NewPostGenJob creates a post generation job.
func NewPostGenJob(store PostStore) *PostGenJob {
	return &PostGenJob{store: store, batch: 50, now: time.Now}
}

// Name implements Job.
func (j *PostGenJob) Name() string { return JobGeneratePosts }

// ShouldRun implements Job. Post generation has no interval gate of its own;
// it works off whatever the fetch jobs left pending.
func (j *PostGenJob) ShouldRun(context.Context) (bool, string, error) {
	return true, "", nil
}

// Run generates posts for every pending source. A failed source is released
// and left for the next scheduled run; it never aborts the rest of the batch.
func (j *PostGenJob) Run(ctx context.Context) (*Result, error) {
	created := make([]string, 0)
	failed := 0

	prices, err := j.store.ListPendingPriceRecords(ctx, j.batch)
	if err != nil {
		return nil, fmt.Errorf("listing pending prices: %w", err)
	}
	for i := range prices {
		slug, err := j.generateFromPrice(ctx, &prices[i])
		if err != nil {
			log.Printf("[jobs] price post for %s failed: %v", prices[i].ID, err)
			failed++
			continue
		}
		if slug != "" {
			created = append(created, slug)
		}
	}

	articles, err := j.store.ListArticlesForAutoPosting(ctx, j.batch)
	if err != nil {
		return &Result{ItemsFetched: len(prices), ItemsCreated: len(created)},
			fmt.Errorf("listing auto-post articles: %w", err)
	}
	for i := range articles {
		slug, err := j.generateFromArticle(ctx, &articles[i])
		if err != nil {
			log.Printf("[jobs] news post for %s failed: %v", articles[i].ID, err)
			failed++
			continue
		}
		if slug != "" {
			created = append(created, slug)
		}
	}

	result := &Result{
		Message:      fmt.Sprintf("generated %d posts (%d sources failed)", len(created), failed),
		ItemsFetched: len(prices) + len(articles),
		ItemsCreated: len(created),
		Data:         created,
	}
	if failed > 0 && len(created) == 0 {
		return result, fmt.Errorf("all %d post generations failed", failed)
	}
	return result, nil
}

// generateFromPrice renders and stores one price narrative. Returns the slug
// of the created post, or "" if the record was already claimed elsewhere.
func (j *PostGenJob) generateFromPrice(ctx context.Context, rec *db.PriceRecord) (string, error) {
	claimed, err := j.store.ClaimPriceRecord(ctx, rec.ID)
	if err != nil {
		return "", err
	}
	if !claimed {
		return "", nil
	}

	slug, err := j.insertPricePost(ctx, rec)
	if err != nil {
		// Put the record back so the next run retries it.
		if releaseErr := j.store.ReleasePriceRecord(ctx, rec.ID); releaseErr != nil {
			log.Printf("[jobs] failed to release price record %s: %v", rec.ID, releaseErr)
		}
		return "", err
	}
	return slug, nil
}

func (j *PostGenJob) insertPricePost(ctx context.Context, rec *db.PriceRecord) (string, error) {
	title, body, err := posts.RenderPricePost(posts.PriceInput{
		Benchmark:     rec.Benchmark,
		Price:         rec.Price,
		Currency:      rec.Currency,
		Trend:         rec.Trend,
		PercentChange: rec.PercentChange,
		Date:          rec.CapturedAt,
	})
	if err != nil {
		return "", err
	}

	slug, err := posts.UniqueSlug(ctx, j.store.SlugExists, title, rec.CapturedAt)
	if err != nil {
		return "", err
	}

	sourceID := rec.ID
	_, err = j.store.InsertPost(ctx, &db.BlogPost{
		Title:         title,
		Slug:          slug,
		Body:          body,
		SourcePriceID: &sourceID,
		Published:     true,
	})
	if err != nil {
		return "", err
	}
	return slug, nil
}

// generateFromArticle renders and stores one news narrative, mirroring
// generateFromPrice but keyed by sentiment.
func (j *PostGenJob) generateFromArticle(ctx context.Context, a *db.NewsArticle) (string, error) {
	claimed, err := j.store.ClaimArticle(ctx, a.ID)
	if err != nil {
		return "", err
	}
	if !claimed {
		return "", nil
	}

	slug, err := j.insertArticlePost(ctx, a)
	if err != nil {
		if releaseErr := j.store.ReleaseArticle(ctx, a.ID); releaseErr != nil {
			log.Printf("[jobs] failed to release article %s: %v", a.ID, releaseErr)
		}
		return "", err
	}
	return slug, nil
}

func (j *PostGenJob) insertArticlePost(ctx context.Context, a *db.NewsArticle) (string, error) {
	title, body, err := posts.RenderNewsPost(posts.NewsInput{
		Title:     a.Title,
		Summary:   a.Summary,
		Source:    a.Source,
		URL:       a.URL,
		Sentiment: a.Sentiment,
		Date:      a.PublishedAt,
	})
	if err != nil {
		return "", err
	}

	slug, err := posts.UniqueSlug(ctx, j.store.SlugExists, title, a.PublishedAt)
	if err != nil {
		return "", err
	}

	sourceID := a.ID
	_, err = j.store.InsertPost(ctx, &db.BlogPost{
		Title:           title,
		Slug:            slug,
		Body:            body,
		SourceArticleID: &sourceID,
		Published:       true,
	})
	if err != nil {
		return "", err
	}
	return slug, nil
}
