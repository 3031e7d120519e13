package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/pricing"
	"github.com/google/uuid"
)

// PriceStore is the persistence surface the price fetch job needs.
type PriceStore interface {
	GetLatestPriceCapture(ctx context.Context) (time.Time, error)
	GetLatestPriceRecord(ctx context.Context, benchmark string) (*db.PriceRecord, error)
	InsertPriceRecord(ctx context.Context, rec *db.PriceRecord) (uuid.UUID, error)
}

// PriceAPI is the upstream quote source.
type PriceAPI interface {
	FetchQuotes(ctx context.Context, benchmarks []string) ([]pricing.Quote, error)
}

// PriceFetchJob pulls the configured benchmarks from the upstream API,
// computes trend against the previous stored record per benchmark and
// persists one new record per benchmark.
type PriceFetchJob struct {
	store      PriceStore
	api        PriceAPI
	benchmarks []string
	interval   time.Duration
	now        func() time.Time
}

// NewPriceFetchJob creates a price fetch job.
func NewPriceFetchJob(store PriceStore, api PriceAPI, benchmarks []string, interval time.Duration) *PriceFetchJob {
	return &PriceFetchJob{
		store:      store,
		api:        api,
		benchmarks: benchmarks,
		interval:   interval,
		now:        time.Now,
	}
}

// Name implements Job.
func (j *PriceFetchJob) Name() string { return JobFetchPrices }

// ShouldRun returns true only if the newest stored record is older than the
// configured interval. A store with no records always runs.
func (j *PriceFetchJob) ShouldRun(ctx context.Context) (bool, string, error) {
	latest, err := j.store.GetLatestPriceCapture(ctx)
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

// Run fetches all benchmarks and stores one record each. Upstream failure
// aborts the whole run; the next scheduled invocation is the retry.
func (j *PriceFetchJob) Run(ctx context.Context) (*Result, error) {
	quotes, err := j.api.FetchQuotes(ctx, j.benchmarks)
	if err != nil {
		return nil, fmt.Errorf("upstream price fetch failed: %w", err)
	}

	created := make([]db.PriceRecord, 0, len(quotes))
	for _, quote := range quotes {
		previous, err := j.store.GetLatestPriceRecord(ctx, quote.Benchmark)
		if err != nil {
			return &Result{ItemsFetched: len(quotes), ItemsCreated: len(created)}, err
		}

		rec := db.PriceRecord{
			Benchmark:   quote.Benchmark,
			Price:       quote.Price,
			Currency:    quote.Currency,
			Trend:       pricing.TrendFlat,
			PostPending: true,
			CapturedAt:  quote.CapturedAt,
		}
		if previous != nil {
			rec.Trend = pricing.ComputeTrend(quote.Price, previous.Price)
			rec.PercentChange = pricing.PercentChange(quote.Price, previous.Price)
		}

		id, err := j.store.InsertPriceRecord(ctx, &rec)
		if err != nil {
			return &Result{ItemsFetched: len(quotes), ItemsCreated: len(created)}, err
		}
		rec.ID = id
		created = append(created, rec)
	}

	return &Result{
		Message:      fmt.Sprintf("stored %d price records", len(created)),
		ItemsFetched: len(quotes),
		ItemsCreated: len(created),
		Data:         created,
	}, nil
}
