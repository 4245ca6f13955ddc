// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"budget/internal/cache"
	"budget/internal/core"
	ledgerlog "budget/internal/log"
	"budget/internal/middleware/cors"
	"budget/internal/middleware/ratelimit"
	"budget/internal/middleware/security"
	"budget/internal/middleware/trace"
	"budget/internal/services"
)

// Config tunes the middleware and the stats cache.
type Config struct {
	RateLimitPerMinute int
	StatsCacheTTL      time.Duration
	StatsCacheSize     int
	CORSOrigins        []string
	Logger             *ledgerlog.Logger
}

type appMetrics struct {
	uptime       time.Time
	cacheHits    int64
	cacheMisses  int64
	transactions int64
}

type Server struct {
	http.Server
	ledger *services.Ledger
	logger *ledgerlog.Logger

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware

	// Category totals keyed by month and kind. Purged on every ledger write.
	statsCache   *cache.LRUCache[[]core.CategoryTotal]
	cacheManager *cache.Manager

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. Call Shutdown to stop its background goroutines.
func NewServer(addr string, ledger *services.Ledger, cfg Config) *Server {
	if cfg.StatsCacheTTL <= 0 {
		cfg.StatsCacheTTL = 30 * time.Second
	}
	if cfg.StatsCacheSize <= 0 {
		cfg.StatsCacheSize = 128
	}
	if cfg.Logger == nil {
		cfg.Logger = ledgerlog.New(ledgerlog.Config{Component: ledgerlog.ComponentHTTP, Handler: slog.Default().Handler()})
	}

	s := &Server{
		ledger:          ledger,
		logger:          cfg.Logger,
		rateLimiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		traceMiddleware: trace.NewMiddleware(extractClientIP),
		statsCache:      cache.NewLRUCache[[]core.CategoryTotal](cfg.StatsCacheSize, cfg.StatsCacheTTL),
		cacheManager:    cache.NewManager(),
		appMetrics:      &appMetrics{uptime: time.Now()},
	}
	s.cacheManager.Register(s.statsCache)
	s.cacheManager.StartCleanup(cfg.StatsCacheTTL)

	mux := http.NewServeMux()
	limited := s.rateLimiter.Middleware(extractClientIP, writeRateLimited)
	write := func(h http.HandlerFunc) http.Handler { return limited(h) }

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.Handle("POST /accounts", write(s.handleCreateAccount))
	mux.HandleFunc("GET /accounts", s.handleListAccounts)
	mux.HandleFunc("GET /accounts/summary", s.handleAccountsSummary)
	mux.HandleFunc("GET /accounts/{id}", s.handleGetAccount)
	mux.Handle("DELETE /accounts/{id}", write(s.handleDeleteAccount))

	mux.Handle("POST /transactions", write(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("GET /transactions/{id}", s.handleGetTransaction)
	mux.Handle("DELETE /transactions/{id}", write(s.handleDeleteTransaction))

	mux.HandleFunc("GET /stats/categories", s.handleCategoryStats)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)

	var handler http.Handler = mux
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = cors.NewPolicy(cfg.CORSOrigins).Middleware(handler)
	handler = trace.Recover(writePanic)(handler)
	handler = s.traceMiddleware.Middleware(handler)
	handler = ledgerlog.Middleware(s.logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the HTTP server and the cleanup goroutines. Only the first
// call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ListenAndServe runs the server until Shutdown. http.ErrServerClosed is not
// reported.
func (s *Server) ListenAndServe() error {
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// invalidateStats drops every cached breakdown after a ledger write.
func (s *Server) invalidateStats() {
	s.statsCache.Purge()
}

func statsKey(month string, kind core.Kind) string {
	return month + "|" + string(kind)
}

// categoryStats serves category totals from the cache, computing and storing
// them on a miss.
func (s *Server) categoryStats(ctx context.Context, month string, kind core.Kind) ([]core.CategoryTotal, error) {
	key := statsKey(month, kind)
	if totals, found := s.statsCache.Get(key); found {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		ledgerlog.FromContext(ctx).DebugContext(ctx, "Stats cache hit",
			ledgerlog.FieldMonth, month, ledgerlog.FieldKind, kind)
		return totals, nil
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	gen := s.statsCache.Generation()
	totals, err := s.ledger.Aggregator.CategoryStats(ctx, month, kind)
	if err != nil {
		return nil, err
	}
	s.statsCache.SetIfGeneration(key, totals, gen)
	return totals, nil
}
