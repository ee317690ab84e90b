package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"finanzas/internal/config"
	"finanzas/internal/core"
	"finanzas/internal/log"
	"finanzas/internal/rate"
	"finanzas/internal/services"
	"finanzas/internal/sheets"
)

// SaveNotifier publishes a notification after a successful full replace.
// Implementations must be safe for concurrent use; a nil notifier disables
// notifications.
type SaveNotifier interface {
	PublishRecordsReplaced(ctx context.Context, rowCount int, store string) error
}

// Deps carries everything the server needs. Store and Rates are required;
// Notifier and Logger are optional.
type Deps struct {
	Store    sheets.Store
	Rates    rate.Provider
	Notifier SaveNotifier
	Logger   *log.Logger

	// StoreName labels the backend in save notifications.
	StoreName string

	Normalizer *services.Normalizer
	Engine     *services.Engine
	Reconciler *services.Reconciler
}

type Server struct {
	http.Server

	store      sheets.Store
	rates      rate.Provider
	notifier   SaveNotifier
	storeName  string
	normalizer *services.Normalizer
	engine     *services.Engine
	reconciler *services.Reconciler

	logger      *log.Logger
	rateLimiter *rateLimiter

	// now is replaceable in tests so status derivation is deterministic.
	now func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:       deps.Store,
		rates:       deps.Rates,
		notifier:    deps.Notifier,
		storeName:   deps.StoreName,
		normalizer:  deps.Normalizer,
		engine:      deps.Engine,
		reconciler:  deps.Reconciler,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		now:         time.Now,
	}

	if s.normalizer == nil {
		s.normalizer = services.NewNormalizer(services.NormalizerConfig{})
	}
	if s.engine == nil {
		s.engine = services.NewEngine(services.DerivationConfig{})
	}
	if s.reconciler == nil {
		s.reconciler = services.NewReconciler(services.ReconcilerConfig{})
	}
	if s.rates == nil {
		s.rates = rate.Constant(0)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/dashboard", s.withRequestGuards(s.handleDashboard))
	mux.HandleFunc("/api/records", s.withRequestGuards(s.handleReplaceRecords))

	// Request-scoped logger with a request ID, plus one access log line per
	// request.
	s.Server.Handler = log.Middleware(s.logger)(
		log.RequestIDMiddleware(func(*http.Request) string { return generateRequestID() })(
			log.AccessLogMiddleware(mux)))

	return s
}

// DepsFromAppConfig builds the pipeline pieces a server needs out of the
// application config.
func DepsFromAppConfig(cfg *config.Config, store sheets.Store, rates rate.Provider, notifier SaveNotifier, logger *log.Logger) Deps {
	return Deps{
		Store:     store,
		Rates:     rates,
		Notifier:  notifier,
		Logger:    logger,
		StoreName: cfg.DataBackend,
		Normalizer: services.NewNormalizer(services.NormalizerConfig{
			YearRule:  services.YearRule(cfg.DateYearRule),
			FixedYear: cfg.DateFixedYear,
		}),
		Engine: services.NewEngine(services.DerivationConfig{
			DueSoonDays: cfg.DueSoonDays,
			TotalMode:   services.TotalMode(cfg.TotalMode),
		}),
		Reconciler: services.NewReconciler(services.ReconcilerConfig{
			FallbackCategory: core.Category(cfg.FallbackCategory),
		}),
	}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withRequestGuards adds rate limiting on writes and response headers to an
// API route. Request logging lives in the outer middleware chain.
func (s *Server) withRequestGuards(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)

		// Mutations are the expensive path; reads stay unthrottled.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
