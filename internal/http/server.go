package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"gastos/internal/core"
	applog "gastos/internal/log"
	"gastos/internal/services"
)

// maxBodyBytes bounds request bodies; larger ones get 413.
const maxBodyBytes = 64 << 10

// Ledger is the part of services.Ledger served over HTTP.
type Ledger interface {
	AddLines(ctx context.Context, text string) (services.AddResult, error)
	Get(id string) (core.Expense, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	List(ctx context.Context) []core.Expense
	Report(ctx context.Context, window core.TimeWindow) core.Aggregation
	SyncDown(ctx context.Context) services.SyncOutcome
	Table() *core.CategoryTable
}

type Options struct {
	// RateLimit and Burst apply per client IP to /api/ routes.
	RateLimit rate.Limit
	Burst     int
	// Registry receives the HTTP metrics and is served on /metrics.
	Registry *prometheus.Registry
	Logger   *applog.Logger
}

type Server struct {
	http.Server
	ledger      Ledger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

func NewServer(addr string, ledger Ledger, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.Burst < 1 {
		opts.Burst = 20
	}

	s := &Server{
		ledger:      ledger,
		rateLimiter: newRateLimiter(opts.RateLimit, opts.Burst),
		metrics:     newSecurityMetrics(opts.Registry),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleAddExpenses)
	mux.HandleFunc("DELETE /api/expenses", s.handleClearExpenses)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("POST /api/sync", s.handleSync)
	mux.HandleFunc("GET /api/export.csv", s.handleExport)
	mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry}))

	var h http.Handler = mux
	h = s.withSecurity(h)
	h = applog.RequestIDMiddleware()(h)
	h = applog.Middleware(opts.Logger)(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter janitor and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
	})
	return s.Server.Shutdown(ctx)
}
