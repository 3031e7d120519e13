package db

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is a generated narrative post. Exactly one of SourcePriceID and
// SourceArticleID is set.
type BlogPost struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	SourcePriceID   *uuid.UUID `json:"source_price_id,omitempty"`
	SourceArticleID *uuid.UUID `json:"source_article_id,omitempty"`
	Published       bool       `json:"published"`
	CreatedAt       time.Time  `json:"created_at"`
}
