package db

import (
	"time"

	"github.com/google/uuid"
)

// Article review status values.
const (
	ArticleStatusPending  = "pending"
	ArticleStatusApproved = "approved"
	ArticleStatusRejected = "rejected"
)

// Sentiment labels assigned by the lexical scorer.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// NewsArticle is one upstream article that passed the relevance threshold.
// Status transitions come from admin review; Posted is flipped atomically by
// post generation for approved auto-post articles.
type NewsArticle struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Relevance   float64   `json:"relevance"`
	Sentiment   string    `json:"sentiment"`
	Status      string    `json:"status"`
	AutoPost    bool      `json:"auto_post"`
	Posted      bool      `json:"posted"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}
