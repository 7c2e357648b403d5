// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ledger/internal/aggregate"
	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
)

// LedgerService is what the handlers need from the application layer.
// *services.LedgerService satisfies it.
type LedgerService interface {
	AddTransaction(ctx context.Context, in ledger.AddInput) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) bool
	SetStartingBalance(ctx context.Context, value string) decimal.Decimal
	Snapshot() ledger.Snapshot
}

type Server struct {
	http.Server

	svc LedgerService

	rateLimiter *ratelimit.Limiter
	resolver    *security.Resolver
	headers     *security.HeadersMiddleware
	tracer      *trace.Middleware

	// Month views are cheap to recompute but requested often; cache
	// them and purge on every mutation.
	monthCache   *cache.LRUCache[aggregate.MonthlyView]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a
// ready-to-run server.
func NewServer(addr string, svc LedgerService) *Server {
	mux := http.NewServeMux()

	resolver := security.NewResolver()

	s := &Server{
		svc:          svc,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		resolver:     resolver,
		headers:      security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		tracer:       trace.NewMiddleware(resolver.ExtractClientIP),
		monthCache:   cache.NewLRUCache[aggregate.MonthlyView](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.monthCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /transactions", s.handleAddTransaction)
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /transactions/delete", s.handleDeleteTransactionBody)
	mux.HandleFunc("GET /balance", s.handleGetBalance)
	mux.HandleFunc("PUT /balance/starting", s.handleSetStartingBalance)
	mux.HandleFunc("GET /months", s.handleMonthlyView)

	handler := s.headers.Middleware(mux)
	handler = s.rateLimitMutations(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// rateLimitMutations applies the per-client limiter to mutating
// methods only; reads stay unthrottled.
func (s *Server) rateLimitMutations(next http.Handler) http.Handler {
	limited := s.rateLimiter.Middleware(s.resolver.ExtractClientIP, nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			limited.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// invalidateMonthViews drops all cached month views. Any mutation can
// touch any month, so a full purge is the only correct policy.
func (s *Server) invalidateMonthViews() {
	s.monthCache.Purge()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
