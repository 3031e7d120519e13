package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertPost stores a generated blog post and returns its ID.
func (db *DB) InsertPost(ctx context.Context, p *BlogPost) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO blog_posts (title, slug, body, source_price_id, source_article_id, published)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.Title, p.Slug, p.Body, p.SourcePriceID, p.SourceArticleID, p.Published,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}

// GetPostBySlug retrieves a post by slug, or nil if it does not exist.
func (db *DB) GetPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	var p BlogPost
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, slug, body, source_price_id, source_article_id, published, created_at
		 FROM blog_posts WHERE slug = $1`,
		slug,
	).Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.SourcePriceID, &p.SourceArticleID, &p.Published, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &p, nil
}

// SlugExists reports whether a slug is already taken.
func (db *DB) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1)`,
		slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

// ListPublishedPosts returns published posts, newest first.
func (db *DB) ListPublishedPosts(ctx context.Context, limit int) ([]BlogPost, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, slug, body, source_price_id, source_article_id, published, created_at
		 FROM blog_posts WHERE published
		 ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		var p BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.SourcePriceID, &p.SourceArticleID,
			&p.Published, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}
