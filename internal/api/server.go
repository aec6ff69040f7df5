// Package api serves card catalog lookups and pool generation over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ramonehamilton/draftpool/internal/api/handlers"
	"github.com/ramonehamilton/draftpool/internal/api/response"
	"github.com/ramonehamilton/draftpool/internal/metrics"
	"github.com/ramonehamilton/draftpool/internal/pool"
	"github.com/ramonehamilton/draftpool/internal/random"
)

var errNotJSON = errors.New("content type must be application/json")

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *Config
	catalogs   handlers.CatalogSource
	logger     *slog.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	RateLimit      float64 // requests per second per client, 0 disables limiting
	RateBurst      int
	RequestTimeout time.Duration
	AllowedOrigins []string

	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool

	// PoolDefaults fills pack counts and sizes a request leaves unset.
	PoolDefaults pool.Defaults

	// Source overrides the random source; it must be safe for concurrent use.
	Source random.Source

	// Metrics collects generation counters. Default: a fresh collector
	Metrics *metrics.PoolMetrics

	Logger *slog.Logger
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		RateLimit:      10,
		RateBurst:      20,
		RequestTimeout: 30 * time.Second,
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		PoolDefaults:   pool.DefaultDefaults(),
	}
}

// NewServer creates a new API server reading from catalogs.
func NewServer(cfg *Config, catalogs handlers.CatalogSource) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewPoolMetrics()
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		catalogs: catalogs,
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.TrustProxyHeaders {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}

	allowCredentials := true
	for _, origin := range s.config.AllowedOrigins {
		if origin == "*" {
			allowCredentials = false
		}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}))

	if s.config.RateLimit > 0 {
		s.router.Use(newClientLimiter(s.config.RateLimit, s.config.RateBurst).middleware)
	}

	s.router.Use(requireJSON)
}

// requireJSON rejects POST bodies that are not application/json.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				response.Error(w, r, http.StatusUnsupportedMediaType, errNotJSON)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the port and serves in the background. Bind errors are
// returned; later serve errors are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.config.Port, err)
	}
	if s.config.Port == 0 {
		s.config.Port = ln.Addr().(*net.TCPAddr).Port
	}

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.config.RequestTimeout + 15*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	s.logger.Info("API server listening", "addr", ln.Addr().String())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the listening port. After Start with port 0 it is the port
// the system picked.
func (s *Server) Port() int {
	return s.config.Port
}
