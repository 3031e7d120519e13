package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertArticle stores a scored article. Articles are deduplicated by URL;
// a duplicate insert is a no-op and returns uuid.Nil.
func (db *DB) InsertArticle(ctx context.Context, a *NewsArticle) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO news_articles (title, summary, url, source, relevance, sentiment, status, auto_post, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (url) DO NOTHING
		 RETURNING id`,
		a.Title, a.Summary, a.URL, a.Source, a.Relevance, a.Sentiment, ArticleStatusPending, a.AutoPost, a.PublishedAt,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to insert article: %w", err)
	}
	return id, nil
}

// GetArticle retrieves an article by ID, or nil if it does not exist.
func (db *DB) GetArticle(ctx context.Context, id uuid.UUID) (*NewsArticle, error) {
	var a NewsArticle
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, summary, url, source, relevance, sentiment, status, auto_post, posted, published_at, created_at
		 FROM news_articles WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Title, &a.Summary, &a.URL, &a.Source, &a.Relevance, &a.Sentiment,
		&a.Status, &a.AutoPost, &a.Posted, &a.PublishedAt, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &a, nil
}

// GetLatestArticleFetch returns the created_at of the newest stored article.
// The zero time means no article has been stored yet.
func (db *DB) GetLatestArticleFetch(ctx context.Context) (time.Time, error) {
	var created time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT created_at FROM news_articles ORDER BY created_at DESC LIMIT 1`,
	).Scan(&created)
	if err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get latest article fetch: %w", err)
	}
	return created, nil
}

// ListArticlesForAutoPosting returns approved auto-post articles that have
// not been turned into a post yet. This is the read contract consumed by
// post generation.
func (db *DB) ListArticlesForAutoPosting(ctx context.Context, limit int) ([]NewsArticle, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, summary, url, source, relevance, sentiment, status, auto_post, posted, published_at, created_at
		 FROM news_articles
		 WHERE status = $1 AND auto_post AND NOT posted
		 ORDER BY published_at ASC LIMIT $2`,
		ArticleStatusApproved, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-post articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// ListArticles returns articles filtered by review status for the dashboard.
func (db *DB) ListArticles(ctx context.Context, status string, limit int) ([]NewsArticle, error) {
	if limit <= 0 {
		limit = 50
	}

	builder := psql.Select("id", "title", "summary", "url", "source", "relevance", "sentiment",
		"status", "auto_post", "posted", "published_at", "created_at").
		From("news_articles").
		OrderBy("published_at DESC").
		Limit(uint64(limit))
	if status != "" {
		builder = builder.Where(squirrel.Eq{"status": status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build article query: %w", err)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// UpdateArticleStatus applies a review decision. Only pending articles can be
// transitioned; re-reviewing a decided article is rejected.
func (db *DB) UpdateArticleStatus(ctx context.Context, id uuid.UUID, status string, autoPost bool) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE news_articles SET status = $1, auto_post = $2
		 WHERE id = $3 AND status = $4`,
		status, autoPost, id, ArticleStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update article status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("article not pending: %s", id)
	}
	return nil
}

// ClaimArticle atomically flips posted for an approved auto-post article.
// Returns false if another invocation already claimed it.
func (db *DB) ClaimArticle(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE news_articles SET posted = TRUE
		 WHERE id = $1 AND status = $2 AND auto_post AND NOT posted`,
		id, ArticleStatusApproved,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim article: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// ReleaseArticle puts a claimed article back so the next run retries it.
func (db *DB) ReleaseArticle(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE news_articles SET posted = FALSE WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to release article: %w", err)
	}
	return nil
}

func scanArticles(rows pgx.Rows) ([]NewsArticle, error) {
	var articles []NewsArticle
	for rows.Next() {
		var a NewsArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.URL, &a.Source, &a.Relevance, &a.Sentiment,
			&a.Status, &a.AutoPost, &a.Posted, &a.PublishedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, nil
}
