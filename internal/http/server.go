package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// Pinger reports whether the store can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the domain operations exposed over HTTP.
type Services struct {
	Ledger      *services.Ledger
	Recorder    *services.Recorder
	Obligations *services.Obligations
	Aggregator  *services.Aggregator
	Store       Pinger
}

// Options tune the ambient behavior of the server.
type Options struct {
	Logger             *applog.Logger
	RateLimitPerMinute int
	SummaryCacheTTL    time.Duration // zero disables the dashboard cache
	TrustedProxies     []string
}

type Server struct {
	http.Server
	svc Services

	limiter      *ratelimit.Limiter
	clientIP     *security.IPExtractor
	cacheManager *cache.Manager

	dashboardCache *cache.LRUCache[core.Dashboard]
	cacheGen       atomic.Uint64

	startTime    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc Services, opts Options) (*Server, error) {
	clientIP, err := security.NewIPExtractor(opts.TrustedProxies...)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		svc:          svc,
		clientIP:     clientIP,
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		cacheManager: cache.NewManager(),
		startTime:    time.Now(),
	}
	if opts.SummaryCacheTTL > 0 {
		s.dashboardCache = cache.NewLRUCache[core.Dashboard](12, opts.SummaryCacheTTL)
		s.cacheManager.Register(s.dashboardCache)
		s.cacheManager.StartCleanup(10 * time.Minute)
	}

	api := http.NewServeMux()
	s.registerAPI(api)

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", s.handleHealth)
	root.HandleFunc("GET /readyz", s.handleReady)
	root.Handle("/api/", s.limiter.Middleware(s.clientIP.ClientIP, s.handleRateLimited)(api))

	var handler http.Handler = root
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(s.clientIP.ClientIP).Middleware(handler)
	handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) registerAPI(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)

	mux.HandleFunc("GET /api/income", s.handleListIncome)
	mux.HandleFunc("POST /api/income", s.handleRecordIncome)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleRecordExpense)
	mux.HandleFunc("GET /api/transfers", s.handleListTransfers)
	mux.HandleFunc("POST /api/transfers", s.handleRecordTransfer)

	mux.HandleFunc("GET /api/receivables", s.handleListObligations(core.Receivable))
	mux.HandleFunc("POST /api/receivables", s.handleCreateObligation(core.Receivable))
	mux.HandleFunc("PATCH /api/receivables/{id}/status", s.handleUpdateObligationStatus(core.Receivable))
	mux.HandleFunc("GET /api/payables", s.handleListObligations(core.Payable))
	mux.HandleFunc("POST /api/payables", s.handleCreateObligation(core.Payable))
	mux.HandleFunc("PATCH /api/payables/{id}/status", s.handleUpdateObligationStatus(core.Payable))

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/dashboard/summary", s.handleSummary)
	mux.HandleFunc("GET /api/dashboard/activity", s.handleActivity)
	mux.HandleFunc("GET /api/dashboard/categories", s.handleCategories)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.NewFields().
			WithComponent(applog.ComponentRateLimit).
			WithClientIP(s.clientIP.ClientIP(r)).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
			ToSlice()...)
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Status: "error", Message: "rate limit exceeded, try again later"})
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
