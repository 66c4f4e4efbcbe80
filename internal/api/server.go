package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/statline/nginx-exporter/internal/api/handlers"
	"github.com/statline/nginx-exporter/internal/api/middleware"
	"github.com/statline/nginx-exporter/internal/pkg/config"
	"github.com/statline/nginx-exporter/internal/status"
	"github.com/statline/nginx-exporter/internal/upstream"
)

type Server struct {
	cfg        *config.Config
	router     *chi.Mux
	httpServer *http.Server
}

func NewServer(cfg *config.Config, fetcher upstream.Fetcher, table *status.Table) *Server {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger())
	router.Use(middleware.Recoverer())

	// Handlers
	metricsHandler := handlers.NewMetricsHandler(fetcher, table, cfg.Telemetry.SelfMetrics)
	healthHandler := handlers.NewHealthHandler(fetcher, cfg.App.Name)

	// Routes
	router.Get(cfg.Telemetry.Path, metricsHandler.Scrape)
	router.Get("/health", healthHandler.Health)
	router.Get("/health/live", healthHandler.Live)
	router.Get("/", handlers.Home(cfg.Telemetry.Path))

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		cfg:        cfg,
		router:     router,
		httpServer: httpServer,
	}
}

// Handler exposes the router for endpoint tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	log.Info().
		Str("addr", s.httpServer.Addr).
		Str("upstream", s.cfg.Upstream.URL).
		Str("metrics_path", s.cfg.Telemetry.Path).
		Msg("Starting exporter")

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down exporter...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.Info().Msg("Exporter stopped")
	return nil
}
