// Package http exposes the fintrack API as JSON endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/store"
)

// TransactionSource is what the server needs from the transaction side:
// the create path may be the plain repository or the AMQP-publishing
// service, the list path always hits the repository.
type TransactionSource interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, q core.Query) ([]core.Transaction, error)
}

// Options tune request limits; zero values fall back to defaults.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

type Server struct {
	http.Server

	accounts   store.AccountStore
	categories store.CategoryStore
	txs        TransactionSource
	budgets    store.BudgetStore

	rateLimiter *ratelimit.Limiter

	defaultPageSize int
	maxPageSize     int

	// Report payloads are cheap to recompute but requested often by the
	// frontend; cached per month and invalidated on writes.
	summaryCache  *cache.LRUCache[core.MonthlySummary]
	progressCache *cache.LRUCache[core.BudgetProgress]

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, accounts store.AccountStore, categories store.CategoryStore, txs TransactionSource, budgets store.BudgetStore, opts Options) *Server {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 100
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 500
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		accounts:        accounts,
		categories:      categories,
		txs:             txs,
		budgets:         budgets,
		rateLimiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		defaultPageSize: opts.DefaultPageSize,
		maxPageSize:     opts.MaxPageSize,
		summaryCache:    cache.NewLRUCache[core.MonthlySummary](100, 5*time.Minute),
		progressCache:   cache.NewLRUCache[core.BudgetProgress](100, 5*time.Minute),
	}

	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/accounts", s.withMiddleware(s.handleAccounts))
	mux.HandleFunc("/categories", s.withMiddleware(s.handleCategories))
	mux.HandleFunc("/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/budgets", s.withMiddleware(s.handleBudgets))
	mux.HandleFunc("/reports/summary", s.withMiddleware(s.handleMonthlySummary))
	mux.HandleFunc("/reports/budget-progress", s.withMiddleware(s.handleBudgetProgress))

	return s
}

// Shutdown stops the rate limiter's cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request tracing, CORS, security headers and rate
// limiting for mutating requests.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", ip,
			"user_agent", r.Header.Get("User-Agent"))

		// The API serves a browser frontend on another origin.
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if r.Method == http.MethodPost && !s.rateLimiter.Allow(ip) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", ip, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", ip)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// invalidateMonth drops the cached reports for the month a write touched.
func (s *Server) invalidateMonth(month string) {
	s.summaryCache.Delete(month)
	s.progressCache.Delete(month)
}
