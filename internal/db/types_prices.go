package db

import (
	"time"

	"github.com/google/uuid"
)

// Trend classifies a price against its predecessor for the same benchmark.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// PriceRecord is one captured benchmark quote. Rows are insert-only; the
// single mutation is the atomic claim that flips PostPending when post
// generation consumes the record.
type PriceRecord struct {
	ID            uuid.UUID `json:"id"`
	Benchmark     string    `json:"benchmark"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	Trend         string    `json:"trend"`
	PercentChange float64   `json:"percent_change"`
	PostPending   bool      `json:"post_pending"`
	CapturedAt    time.Time `json:"captured_at"`
	CreatedAt     time.Time `json:"created_at"`
}
