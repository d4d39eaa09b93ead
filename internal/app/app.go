// Package app wires configuration, logging, metrics, the quality engine
// and the HTTP transport into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"epiqc/internal/config"
	"epiqc/internal/dataset"
	apierrors "epiqc/internal/errors"
	"epiqc/internal/infrastructure"
	"epiqc/internal/metrics"
	"epiqc/internal/middleware"
	"epiqc/internal/quality"
	transporthttp "epiqc/internal/transport/http"
	"epiqc/internal/websocket"
)

// App is the assembled service.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	hub    *websocket.Hub
	server *http.Server
}

// New loads configuration, initializes logging and builds the HTTP
// server. Nothing is listening until Run is called.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	hub := websocket.NewHub(cfg.WebSocket, logger)
	m := metrics.New()
	errorHandler := apierrors.NewErrorHandler(logger, false)

	engine := quality.NewEngine(logger)
	loader := dataset.NewLoader(cfg.Paths.DataDir, logger)

	qualityHandler := transporthttp.NewQualityHandler(
		engine, m, hub, cfg.Quality, logger, errorHandler)
	variablesHandler := transporthttp.NewVariablesHandler(
		m, hub, cfg.Quality.MaxRecordsPerRequest, logger, errorHandler)
	datasetsHandler := transporthttp.NewDatasetsHandler(loader, logger, errorHandler)
	healthHandler := transporthttp.NewHealthHandler()

	router := buildRouter(cfg, logger, errorHandler, hub, m,
		qualityHandler, variablesHandler, datasetsHandler, healthHandler)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		hub:    hub,
		server: server,
	}, nil
}

func buildRouter(
	cfg *config.Config,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
	hub *websocket.Hub,
	m *metrics.Metrics,
	qualityHandler *transporthttp.QualityHandler,
	variablesHandler *transporthttp.VariablesHandler,
	datasetsHandler *transporthttp.DatasetsHandler,
	healthHandler *transporthttp.HealthHandler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(errorHandler))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	if cfg.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: cfg.Security.AllowedOrigins,
		}))
	}

	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Mount("/health", healthHandler.Routes())
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWS(hub, w, req)
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/quality", qualityHandler.Routes())
		r.Mount("/variables", variablesHandler.Routes())
		r.Mount("/datasets", datasetsHandler.Routes())
	})

	return r
}

// Run starts the hub and HTTP server and blocks until ctx is cancelled
// or the server fails. Shutdown is graceful within the configured
// timeout.
func (a *App) Run(ctx context.Context) error {
	a.hub.Start()
	defer a.hub.Stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
			slog.String("data_dir", a.cfg.Paths.DataDir))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	infrastructure.CloseLogFile()
	return nil
}
