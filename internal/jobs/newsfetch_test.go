package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/newsfeed"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNewsStore struct {
	latestFetch time.Time
	byURL       map[string]bool
	inserted    []db.NewsArticle
}

func newFakeNewsStore() *fakeNewsStore {
	return &fakeNewsStore{byURL: make(map[string]bool)}
}

func (s *fakeNewsStore) GetLatestArticleFetch(context.Context) (time.Time, error) {
	return s.latestFetch, nil
}

func (s *fakeNewsStore) InsertArticle(_ context.Context, a *db.NewsArticle) (uuid.UUID, error) {
	if s.byURL[a.URL] {
		return uuid.Nil, nil
	}
	s.byURL[a.URL] = true
	s.inserted = append(s.inserted, *a)
	return uuid.New(), nil
}

type fakeNewsAPI struct {
	articles []newsfeed.Article
	err      error
}

func (a *fakeNewsAPI) Fetch(context.Context, int) ([]newsfeed.Article, error) {
	return a.articles, a.err
}

func testScorer(t *testing.T) *newsfeed.Scorer {
	t.Helper()
	scorer, err := newsfeed.NewScorer()
	require.NoError(t, err)
	return scorer
}

func TestNewsFetchJob_RetainsRelevantDiscardsUnrelated(t *testing.T) {
	store := newFakeNewsStore()
	api := &fakeNewsAPI{articles: []newsfeed.Article{
		{
			Title:       "OPEC agrees deeper crude output cuts",
			Summary:     "Brent and WTI moved after the cartel trimmed petroleum supply targets.",
			URL:         "https://example.com/opec-cuts",
			Source:      "reuters",
			PublishedAt: time.Now(),
		},
		{
			Title:       "City marathon draws record crowd",
			Summary:     "Thousands of runners lined the streets on Sunday morning.",
			URL:         "https://example.com/marathon",
			Source:      "local",
			PublishedAt: time.Now(),
		},
	}}

	job := NewNewsFetchJob(store, api, testScorer(t), 25, 0.3, 13*time.Hour)
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.ItemsFetched)
	assert.Equal(t, 1, result.ItemsCreated)
	require.Len(t, store.inserted, 1)

	a := store.inserted[0]
	assert.Equal(t, "OPEC agrees deeper crude output cuts", a.Title)
	assert.Equal(t, db.ArticleStatusPending, a.Status)
	assert.Greater(t, a.Relevance, 0.3)
	assert.NotEmpty(t, a.Sentiment)
}

func TestNewsFetchJob_DuplicateURLNotCounted(t *testing.T) {
	store := newFakeNewsStore()
	store.byURL["https://example.com/opec-cuts"] = true

	api := &fakeNewsAPI{articles: []newsfeed.Article{
		{
			Title:       "OPEC agrees deeper crude output cuts",
			Summary:     "Brent and WTI moved after the cartel trimmed petroleum supply targets.",
			URL:         "https://example.com/opec-cuts",
			PublishedAt: time.Now(),
		},
	}}

	job := NewNewsFetchJob(store, api, testScorer(t), 25, 0.3, 13*time.Hour)
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ItemsFetched)
	assert.Equal(t, 0, result.ItemsCreated)
}

func TestNewsFetchJob_ShouldRunGate(t *testing.T) {
	store := newFakeNewsStore()
	job := NewNewsFetchJob(store, &fakeNewsAPI{}, testScorer(t), 25, 0.3, 13*time.Hour)

	should, _, err := job.ShouldRun(context.Background())
	require.NoError(t, err)
	assert.True(t, should)

	store.latestFetch = time.Now().Add(-1 * time.Hour)
	should, reason, err := job.ShouldRun(context.Background())
	require.NoError(t, err)
	assert.False(t, should)
	assert.NotEmpty(t, reason)

	store.latestFetch = time.Now().Add(-14 * time.Hour)
	should, _, err = job.ShouldRun(context.Background())
	require.NoError(t, err)
	assert.True(t, should)
}
