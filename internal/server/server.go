package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/emeka/petrocms/internal/config"
	"github.com/emeka/petrocms/internal/db"
	"github.com/emeka/petrocms/internal/jobs"
	"github.com/emeka/petrocms/internal/newsfeed"
	"github.com/emeka/petrocms/internal/pricing"
	"github.com/emeka/petrocms/internal/server/middleware"
	"github.com/emeka/petrocms/internal/server/ratelimit"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DBClient is the persistence surface the server depends on. Satisfied by
// *db.DB; tests substitute an in-memory mock. It is a superset of the store
// interfaces the job structs declare, so the same client backs both handlers
// and per-invocation jobs.
type DBClient interface {
	// Leads
	CreateLead(ctx context.Context, l *db.Lead) (uuid.UUID, error)
	GetLead(ctx context.Context, id uuid.UUID) (*db.Lead, error)
	ListLeads(ctx context.Context, filters db.LeadFilters) ([]db.Lead, error)

	// Blog posts
	ListPublishedPosts(ctx context.Context, limit int) ([]db.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*db.BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	InsertPost(ctx context.Context, p *db.BlogPost) (uuid.UUID, error)

	// News articles
	ListArticles(ctx context.Context, status string, limit int) ([]db.NewsArticle, error)
	GetArticle(ctx context.Context, id uuid.UUID) (*db.NewsArticle, error)
	UpdateArticleStatus(ctx context.Context, id uuid.UUID, status string, autoPost bool) error
	GetLatestArticleFetch(ctx context.Context) (time.Time, error)
	InsertArticle(ctx context.Context, a *db.NewsArticle) (uuid.UUID, error)
	ListArticlesForAutoPosting(ctx context.Context, limit int) ([]db.NewsArticle, error)
	ClaimArticle(ctx context.Context, id uuid.UUID) (bool, error)
	ReleaseArticle(ctx context.Context, id uuid.UUID) error

	// Price records
	GetLatestPriceCapture(ctx context.Context) (time.Time, error)
	GetLatestPriceRecord(ctx context.Context, benchmark string) (*db.PriceRecord, error)
	InsertPriceRecord(ctx context.Context, rec *db.PriceRecord) (uuid.UUID, error)
	ListPendingPriceRecords(ctx context.Context, limit int) ([]db.PriceRecord, error)
	ClaimPriceRecord(ctx context.Context, id uuid.UUID) (bool, error)
	ReleasePriceRecord(ctx context.Context, id uuid.UUID) error
	ListRecentPriceRecords(ctx context.Context, limit int) ([]db.PriceRecord, error)

	// Admin accounts
	CreateAdmin(ctx context.Context, name, email, phone string) (uuid.UUID, error)
	GetAdmin(ctx context.Context, id uuid.UUID) (*db.AdminUser, error)
	GetAdminByEmail(ctx context.Context, email string) (*db.AdminUser, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, update *db.ProfileUpdate) error
	AuditBestEffort(ctx context.Context, e *db.AuditEntry)

	// Job audit trail
	InsertJobExecution(ctx context.Context, e *db.JobExecution) error
	ListJobExecutions(ctx context.Context, limit int) ([]db.JobExecution, error)

	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	db           DBClient
	cfg          *config.AppConfig
	rateLimiter  *ratelimit.Limiter
	jwtService   *JWTService
	adminService *AdminService
	authHandler  *AuthHandler
	runner       *jobs.Runner
	priceAPI     jobs.PriceAPI
	newsAPI      jobs.NewsAPI
	scorer       *newsfeed.Scorer
	validator    *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port int
	App  *config.AppConfig
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.App.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s, err := newServer(database, cfg.App, jwtConfig, passwordConfig)
	if err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Job endpoints wait for upstream APIs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires the request-handling pieces without binding a listener.
func newServer(database DBClient, appCfg *config.AppConfig, jwtCfg *config.JWTConfig, pwCfg *config.PasswordConfig) (*Server, error) {
	scorer, err := newsfeed.NewScorer()
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon: %w", err)
	}

	s := &Server{
		db:        database,
		cfg:       appCfg,
		scorer:    scorer,
		validator: validator.New(),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	s.adminService = NewAdminService(database, pwCfg)
	s.jwtService = NewJWTService(jwtCfg)
	s.authHandler = NewAuthHandler(s.adminService, s.jwtService)

	s.runner = jobs.NewRunner(database)
	s.priceAPI = pricing.NewClient(appCfg.PriceAPIURL, appCfg.PriceAPIKey)
	s.newsAPI = newsfeed.NewClient(appCfg.NewsAPIURL, appCfg.NewsAPIKey)

	return s, nil
}

// routes builds the router with the middleware chain applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Job endpoints, invoked by the external cron trigger
	mux.HandleFunc("GET /jobs/fetch-prices", s.withCronAuth(s.handleFetchPrices))
	mux.HandleFunc("GET /jobs/fetch-news", s.withCronAuth(s.handleFetchNews))
	mux.HandleFunc("GET /jobs/generate-posts", s.withCronAuth(s.handleGeneratePosts))

	// Public marketing-site endpoints
	mux.HandleFunc("POST /leads", s.handleCreateLead)
	mux.HandleFunc("GET /posts", s.handleListPosts)
	mux.HandleFunc("GET /posts/{slug}", s.handleGetPost)
	mux.HandleFunc("GET /prices", s.handleListPrices)

	// Admin authentication
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Admin dashboard, JWT required
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("PUT /auth/password", requireAuth(http.HandlerFunc(s.handleUpdatePassword)))
	mux.Handle("GET /leads", requireAuth(http.HandlerFunc(s.handleListLeads)))
	mux.Handle("GET /articles", requireAuth(http.HandlerFunc(s.handleListArticles)))
	mux.Handle("PATCH /articles/{id}/status", requireAuth(http.HandlerFunc(s.handleUpdateArticleStatus)))
	mux.Handle("GET /profile", requireAuth(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("PATCH /profile", requireAuth(http.HandlerFunc(s.handleUpdateProfile)))
	mux.Handle("GET /jobs/executions", requireAuth(http.HandlerFunc(s.handleListJobExecutions)))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] serve error: %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	log.Println("[server] stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withCronAuth guards the job endpoints with the shared cron secret. The
// check is skipped in development so jobs can be triggered by hand.
func (s *Server) withCronAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.IsDevelopment() {
			next(w, r)
			return
		}

		parts := strings.Fields(r.Header.Get("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") ||
			subtle.ConstantTimeCompare([]byte(parts[1]), []byte(s.cfg.CronSecret)) != 1 {
			s.errorResponse(w, http.StatusUnauthorized, "invalid cron token")
			return
		}

		next(w, r)
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleRegister handles admin registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles admin login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

// handleUpdatePassword handles password update requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetAdminID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePassword(w, r, adminID)
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; a trusted-proxy X-Forwarded-For
// scheme can replace this behind a load balancer.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
