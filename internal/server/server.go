// ABOUTME: HTTP API for rate-changing uploaded audio
// ABOUTME: chi router, middleware stack and server lifecycle
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/audiolab/ratechange/internal/config"
	"github.com/audiolab/ratechange/internal/pipeline"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server serves the rate-change API
type Server struct {
	config     config.ServerConfig
	runner     *pipeline.Runner
	logger     *zap.Logger
	httpServer *http.Server
}

// New creates a new server instance. A nil logger discards output.
func New(cfg config.ServerConfig, runner *pipeline.Runner, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runner == nil {
		runner = pipeline.New(logger)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.Default().Server.MaxUploadBytes
	}
	if cfg.MaxResultSamples <= 0 {
		cfg.MaxResultSamples = config.Default().Server.MaxResultSamples
	}
	s := &Server{
		config: cfg,
		runner: runner,
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(RequestID)
	r.Use(Logging(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{HeaderOriginalFrames, HeaderResultFrames, HeaderSampleRate, RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/ratechange", s.handleRateChange)
		r.Post("/ratechange/summary", s.handleSummary)
	})

	return r
}

// Start listens on the configured address until Shutdown
func (s *Server) Start() error {
	s.logger.Info("rate-change API listening", zap.String("addr", s.config.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.httpServer.Shutdown(ctx)
}
