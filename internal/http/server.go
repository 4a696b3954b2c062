package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"moneytrack/internal/cache"
	"moneytrack/internal/core"
	"moneytrack/internal/log"
	"moneytrack/internal/services"
	"moneytrack/internal/state"
)

const requestIDHeader = "X-Request-ID"

// Pinger reports whether the persistence backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures NewServer. Store is required.
type Options struct {
	Addr               string
	Store              *state.Store
	Health             Pinger
	Logger             *log.Logger
	Currency           string
	Now                func() time.Time
	RateLimitPerMinute int
	TrustedProxies     []string
	AnalyticsCacheTTL  time.Duration
	AnalyticsCacheSize int
	Caches             *cache.Manager
}

type Server struct {
	http.Server
	store          *state.Store
	transactions   *services.TransactionService
	health         Pinger
	logger         *log.Logger
	currency       string
	now            func() time.Time
	rateLimiter    *rateLimiter
	trustedProxies []*net.IPNet
	metrics        *securityMetrics
	analytics      *cache.LRUCache[analyticsView]
	startedAt      time.Time
	shutdownOnce   sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("http: store is required")
	}
	trusted, err := parseTrustedProxies(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	currency := opts.Currency
	if currency == "" {
		currency = "₹"
	}
	cacheSize := opts.AnalyticsCacheSize
	if cacheSize <= 0 {
		cacheSize = 64
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:          opts.Store,
		transactions:   services.NewTransactionService(opts.Store, now, logger),
		health:         opts.Health,
		logger:         logger.WithComponent(log.ComponentHTTP),
		currency:       currency,
		now:            now,
		rateLimiter:    newRateLimiter(opts.RateLimitPerMinute, now),
		trustedProxies: trusted,
		metrics:        &securityMetrics{},
		analytics:      cache.NewLRUCache[analyticsView](cacheSize, opts.AnalyticsCacheTTL),
		startedAt:      now(),
	}
	if opts.Caches != nil {
		opts.Caches.Register("analytics", s.analytics)
	}
	s.routes(mux)
	s.Handler = s.withSecurityHeaders(mux)
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/me", s.handleMe)

	api := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.requireUser(h))
	}
	api("GET /api/dashboard", s.handleDashboard)
	api("GET /api/analytics", s.handleAnalytics)
	api("GET /api/tips", s.handleTips)
	api("GET /api/split", s.handleSplit)

	api("GET /api/transactions", s.handleListTransactions)
	api("POST /api/transactions", s.handleCreateTransaction)
	api("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	api("GET /api/categories", s.handleListCategories)
	api("POST /api/categories", s.handleCreateCategory)
	api("DELETE /api/categories/{kind}/{name}", s.handleDeleteCategory)

	api("GET /api/limits/{category}", s.handleGetLimit)
	api("PUT /api/limits/{category}", s.handleSetLimit)
	api("DELETE /api/limits/{category}", s.handleDeleteLimit)
	api("POST /api/limits/check", s.handleCheckLimit)

	api("GET /api/events", s.handleListEvents)
	api("GET /api/events/upcoming", s.handleUpcomingEvents)
	api("POST /api/events", s.handleCreateEvent)
	api("DELETE /api/events/{id}", s.handleDeleteEvent)

	api("GET /api/lockups", s.handleListLockups)
	api("POST /api/lockups", s.handleCreateLockup)
	api("DELETE /api/lockups/{id}", s.handleDeleteLockup)
	api("POST /api/lockups/{id}/spend", s.handleSpendLockup)

	api("GET /api/savings", s.handleListSavings)
	api("POST /api/savings", s.handleCreateSaving)
	api("DELETE /api/savings/{id}", s.handleDeleteSaving)
	api("POST /api/savings/{id}/contribute", s.handleContributeSaving)
	api("POST /api/savings/{id}/withdraw", s.handleWithdrawSaving)

	api("PUT /api/profile/theme", s.handleSetTheme)

	api("GET /api/scanner/constraints", s.handleScanConstraints)
	api("POST /api/scanner/result", s.handleScanResult)
	api("POST /api/scanner/error", s.handleScanError)
}

// RunMaintenance runs background upkeep until ctx is done.
func (s *Server) RunMaintenance(ctx context.Context) error {
	s.rateLimiter.run(ctx)
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server",
			log.FieldOperation, log.OpShutdown,
			"rate_limited_clients", s.rateLimiter.activeClients())
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// SecurityMetrics returns the current security counters.
func (s *Server) SecurityMetrics() SecuritySnapshot {
	return s.metrics.snapshot()
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// withSecurityHeaders adds request IDs, request logging, rate limiting and
// security headers.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		logger := log.FromContext(ctx)
		sl := log.NewStructuredLogger(logger)

		clientIP := extractClientIP(r, s.trustedProxies, s.metrics)
		sl.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			logger.WithComponent(log.ComponentSecurity).WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			logger.WithComponent(log.ComponentRateLimit).WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			rw.Header().Set("Retry-After", "60")
			ErrorResponse(http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded. Please try again later.").Write(rw)
		} else {
			next.ServeHTTP(rw, r)
		}

		sl.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})

	tagged := log.RequestIDMiddleware(s.logger, func(r *http.Request) string {
		return r.Header.Get(requestIDHeader)
	})(inner)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sanitizeInput(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 64 || strings.ContainsAny(id, " \t") {
			id = generateRequestID()
		}
		r.Header.Set(requestIDHeader, id)
		w.Header().Set(requestIDHeader, id)
		tagged.ServeHTTP(w, r)
	})
}

// requireUser rejects requests while nobody is logged in.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store.Snapshot().User == nil {
			log.FromContext(r.Context()).WithComponent(log.ComponentAuth).DebugContext(r.Context(), "Request without user",
				log.FieldPath, r.URL.Path)
			UnauthorizedError("Please log in to continue").Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

// dispatch runs cmd and writes the error response when it is rejected.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, cmd state.Command, overrides ...rejection) (core.AppState, bool) {
	next, err := s.store.Dispatch(r.Context(), cmd)
	if err != nil {
		s.reject(w, r, cmd.Name(), err, overrides...)
		return next, false
	}
	return next, true
}

// reject logs a refused operation and writes its error response.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, op string, err error, overrides ...rejection) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Command rejected",
		log.FieldCommand, op,
		log.FieldStatusCode, statusFor(err),
		log.FieldError, err.Error(),
		log.FieldErrorType, log.ErrorTypeValidation)
	commandError(err, overrides...).Write(w)
}

// parseBody parses the request body or writes a 400.
func parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request body").Write(w)
		return nil, false
	}
	return p, true
}

// money formats d with the configured currency symbol.
func (s *Server) money(d decimal.Decimal) string {
	return core.FormatAmount(s.currency, d)
}
