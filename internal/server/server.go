package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Config holds server configuration.
type Config struct {
	Port int
	// BasePath is where the site is mounted, with leading and trailing slash.
	BasePath string
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the arcade HTTP server.
type Server struct {
	cfg        Config
	logger     *zap.Logger
	router     chi.Router
	site       chi.Router
	httpServer *http.Server
}

// New creates a server. Feature packages register their routes on
// Router (host-wide) or Site (under the base path).
func New(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/"
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Page and API routes share a timeout; the websocket channel is
	// long-lived and is mounted on the host router directly.
	if base := strings.TrimSuffix(s.cfg.BasePath, "/"); base != "" {
		r.Route(base, func(sub chi.Router) {
			s.site = sub.With(middleware.Timeout(60 * time.Second))
		})
	} else {
		s.site = r.With(middleware.Timeout(60 * time.Second))
	}

	return r
}

// Router returns the host router.
func (s *Server) Router() chi.Router { return s.router }

// Site returns the router mounted at the base path.
func (s *Server) Site() chi.Router { return s.site }

// BasePath returns the normalized base path.
func (s *Server) BasePath() string { return s.cfg.BasePath }

// Handle mounts h at a path relative to the base path without the page
// timeout.
func (s *Server) Handle(path string, h http.Handler) {
	s.router.Handle(s.cfg.BasePath+strings.TrimPrefix(path, "/"), h)
}

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("arcade server listening", zap.String("addr", addr), zap.String("base", s.cfg.BasePath))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
