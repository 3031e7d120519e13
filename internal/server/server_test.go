package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/emeka/petrocms/internal/config"
	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/server/ratelimit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockDB is an in-memory DBClient for handler tests.
type mockDB struct {
	leads    map[uuid.UUID]*db.Lead
	posts    map[string]*db.BlogPost
	articles map[uuid.UUID]*db.NewsArticle
	prices   []*db.PriceRecord
	admins   map[uuid.UUID]*db.AdminUser
	execs    []db.JobExecution
	audits   []db.AuditEntry
}

func newMockDB() *mockDB {
	return &mockDB{
		leads:    make(map[uuid.UUID]*db.Lead),
		posts:    make(map[string]*db.BlogPost),
		articles: make(map[uuid.UUID]*db.NewsArticle),
		admins:   make(map[uuid.UUID]*db.AdminUser),
	}
}

func (m *mockDB) CreateLead(_ context.Context, l *db.Lead) (uuid.UUID, error) {
	id := uuid.New()
	stored := *l
	stored.ID = id
	stored.Status = "pending"
	stored.CreatedAt = time.Now()
	m.leads[id] = &stored
	return id, nil
}

func (m *mockDB) GetLead(_ context.Context, id uuid.UUID) (*db.Lead, error) {
	return m.leads[id], nil
}

func (m *mockDB) ListLeads(_ context.Context, filters db.LeadFilters) ([]db.Lead, error) {
	var out []db.Lead
	for _, l := range m.leads {
		if filters.Status != "" && l.Status != filters.Status {
			continue
		}
		if filters.Category != "" && l.Category != filters.Category {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockDB) ListPublishedPosts(_ context.Context, _ int) ([]db.BlogPost, error) {
	var out []db.BlogPost
	for _, p := range m.posts {
		if p.Published {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockDB) GetPostBySlug(_ context.Context, slug string) (*db.BlogPost, error) {
	return m.posts[slug], nil
}

func (m *mockDB) SlugExists(_ context.Context, slug string) (bool, error) {
	_, ok := m.posts[slug]
	return ok, nil
}

func (m *mockDB) InsertPost(_ context.Context, p *db.BlogPost) (uuid.UUID, error) {
	id := uuid.New()
	stored := *p
	stored.ID = id
	stored.CreatedAt = time.Now()
	m.posts[p.Slug] = &stored
	return id, nil
}

func (m *mockDB) ListArticles(_ context.Context, status string, _ int) ([]db.NewsArticle, error) {
	var out []db.NewsArticle
	for _, a := range m.articles {
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockDB) GetArticle(_ context.Context, id uuid.UUID) (*db.NewsArticle, error) {
	return m.articles[id], nil
}

func (m *mockDB) UpdateArticleStatus(_ context.Context, id uuid.UUID, status string, autoPost bool) error {
	a, ok := m.articles[id]
	if !ok || a.Status != db.ArticleStatusPending {
		return fmt.Errorf("article not pending: %s", id)
	}
	a.Status = status
	a.AutoPost = autoPost
	return nil
}

func (m *mockDB) GetLatestArticleFetch(context.Context) (time.Time, error) {
	var newest time.Time
	for _, a := range m.articles {
		if a.CreatedAt.After(newest) {
			newest = a.CreatedAt
		}
	}
	return newest, nil
}

func (m *mockDB) InsertArticle(_ context.Context, a *db.NewsArticle) (uuid.UUID, error) {
	for _, existing := range m.articles {
		if existing.URL == a.URL {
			return uuid.Nil, nil
		}
	}
	id := uuid.New()
	stored := *a
	stored.ID = id
	stored.CreatedAt = time.Now()
	m.articles[id] = &stored
	return id, nil
}

func (m *mockDB) ListArticlesForAutoPosting(_ context.Context, _ int) ([]db.NewsArticle, error) {
	var out []db.NewsArticle
	for _, a := range m.articles {
		if a.Status == db.ArticleStatusApproved && a.AutoPost && !a.Posted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockDB) ClaimArticle(_ context.Context, id uuid.UUID) (bool, error) {
	a, ok := m.articles[id]
	if !ok || a.Status != db.ArticleStatusApproved || !a.AutoPost || a.Posted {
		return false, nil
	}
	a.Posted = true
	return true, nil
}

func (m *mockDB) ReleaseArticle(_ context.Context, id uuid.UUID) error {
	if a, ok := m.articles[id]; ok {
		a.Posted = false
	}
	return nil
}

func (m *mockDB) GetLatestPriceCapture(context.Context) (time.Time, error) {
	var newest time.Time
	for _, rec := range m.prices {
		if rec.CapturedAt.After(newest) {
			newest = rec.CapturedAt
		}
	}
	return newest, nil
}

func (m *mockDB) GetLatestPriceRecord(_ context.Context, benchmark string) (*db.PriceRecord, error) {
	var latest *db.PriceRecord
	for _, rec := range m.prices {
		if rec.Benchmark != benchmark {
			continue
		}
		if latest == nil || rec.CapturedAt.After(latest.CapturedAt) {
			latest = rec
		}
	}
	return latest, nil
}

func (m *mockDB) InsertPriceRecord(_ context.Context, rec *db.PriceRecord) (uuid.UUID, error) {
	id := uuid.New()
	stored := *rec
	stored.ID = id
	stored.CreatedAt = time.Now()
	m.prices = append(m.prices, &stored)
	return id, nil
}

func (m *mockDB) ListPendingPriceRecords(_ context.Context, _ int) ([]db.PriceRecord, error) {
	var out []db.PriceRecord
	for _, rec := range m.prices {
		if rec.PostPending {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *mockDB) ClaimPriceRecord(_ context.Context, id uuid.UUID) (bool, error) {
	for _, rec := range m.prices {
		if rec.ID == id && rec.PostPending {
			rec.PostPending = false
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDB) ReleasePriceRecord(_ context.Context, id uuid.UUID) error {
	for _, rec := range m.prices {
		if rec.ID == id {
			rec.PostPending = true
		}
	}
	return nil
}

func (m *mockDB) ListRecentPriceRecords(_ context.Context, _ int) ([]db.PriceRecord, error) {
	var out []db.PriceRecord
	for _, rec := range m.prices {
		out = append(out, *rec)
	}
	return out, nil
}

func (m *mockDB) CreateAdmin(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()
	m.admins[id] = &db.AdminUser{
		ID: id, Name: name, Email: email, Phone: phone,
		CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (m *mockDB) GetAdmin(_ context.Context, id uuid.UUID) (*db.AdminUser, error) {
	return m.admins[id], nil
}

func (m *mockDB) GetAdminByEmail(_ context.Context, email string) (*db.AdminUser, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockDB) CheckEmailExists(_ context.Context, email string) (bool, error) {
	a, _ := m.GetAdminByEmail(context.Background(), email)
	return a != nil, nil
}

func (m *mockDB) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	a, ok := m.admins[id]
	if !ok {
		return fmt.Errorf("admin not found: %s", id)
	}
	a.PasswordHash = passwordHash
	a.PasswordSet = true
	return nil
}

func (m *mockDB) UpdateProfile(_ context.Context, id uuid.UUID, update *db.ProfileUpdate) error {
	a, ok := m.admins[id]
	if !ok {
		return fmt.Errorf("admin not found: %s", id)
	}
	if update.Name != nil {
		a.Name = *update.Name
	}
	if update.Phone != nil {
		a.Phone = *update.Phone
	}
	return nil
}

func (m *mockDB) AuditBestEffort(_ context.Context, e *db.AuditEntry) {
	m.audits = append(m.audits, *e)
}

func (m *mockDB) InsertJobExecution(_ context.Context, e *db.JobExecution) error {
	m.execs = append(m.execs, *e)
	return nil
}

func (m *mockDB) ListJobExecutions(_ context.Context, _ int) ([]db.JobExecution, error) {
	return m.execs, nil
}

func (m *mockDB) Close() {}

// newTestServer builds a server against the mock with rate limiting disabled.
func newTestServer(t *testing.T) (*Server, *mockDB) {
	t.Helper()

	mock := newMockDB()
	appCfg := &config.AppConfig{
		Env:                config.EnvProduction,
		DatabaseURL:        "postgres://test",
		CronSecret:         "cron-secret",
		FetchInterval:      13 * time.Hour,
		Benchmarks:         []string{"BRENT_CRUDE_USD"},
		NewsLimit:          25,
		RelevanceThreshold: 0.3,
	}
	jwtCfg := &config.JWTConfig{Secret: "unit-test-secret", ExpirationHours: 1}
	pwCfg := &config.PasswordConfig{BcryptCost: bcrypt.MinCost}

	s, err := newServer(mock, appCfg, jwtCfg, pwCfg)
	require.NoError(t, err)

	s.rateLimiter.Stop()
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	return s, mock
}

// registeredAdmin creates an admin directly in the mock and returns its ID
// and a valid token.
func registeredAdmin(t *testing.T, s *Server, mock *mockDB) (uuid.UUID, string) {
	t.Helper()

	id, err := mock.CreateAdmin(context.Background(), "Ngozi Ade", "ngozi@example.com", "")
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, mock.UpdatePassword(context.Background(), id, string(hash)))

	token, err := s.jwtService.GenerateToken(id)
	require.NoError(t, err)
	return id, token
}

func doRequest(s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:5000"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(s, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"status":"ok"`)
}
