package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel"

	"idwrcli/internal/config"
	apierrors "idwrcli/internal/errors"
	"idwrcli/internal/exporter"
	"idwrcli/internal/infrastructure"
	"idwrcli/internal/loader"
	customMiddleware "idwrcli/internal/middleware"
	"idwrcli/internal/services"
	handlers "idwrcli/internal/transport/http"
	"idwrcli/pkg/contracts"
)

// maxJSONBody bounds JSON request bodies other than pasted datasets.
const maxJSONBody = 1 << 20

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.ChartMetrics
	ChartService  *services.ChartService
	HealthService *services.HealthService
	ErrorHandler  *apierrors.ErrorHandler
}

// NewApplication loads configuration, initializes the global logger and
// builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds the application from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("address", cfg.Addr()))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateChartMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	l := loader.New(loader.Config{
		SamplesDir:   a.Config.Samples.Dir,
		BaseURL:      a.Config.Samples.BaseURL,
		Samples:      a.Config.Samples.Files,
		FetchTimeout: a.Config.Samples.FetchTimeout,
		MaxBytes:     a.Config.Upload.MaxBytes,
	}, a.Logger)

	a.ChartService = services.NewChartService(l, exporter.NewChartExporter(a.Logger), a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(contracts.Version, contracts.BuildTime, a.Config.Samples.Dir, a.ChartService, a.Logger)
}

// setupRouter builds the middleware chain and mounts the routes. Order:
// RequestID, RealIP, OTel, security headers, CORS, rate limit, then logging
// and recovery per route group.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	tracer := a.OTelProviders.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}
	r.Use(customMiddleware.NewOTelMiddleware(tracer, a.Metrics).Handler)
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			MaxAge:         300,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			a.ErrorHandler,
		).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	// Probes and scrapes
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))

		r.Get("/healthz", healthHandler.HealthCheck)
		r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))
	})

	a.setupAPIRoutes(r, healthHandler)

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router, healthHandler *handlers.HealthHandler) {
	// Pasted datasets arrive as JSON, so the JSON limit follows the upload limit.
	validator := customMiddleware.NewValidator(a.Config.Upload.MaxBytes+maxJSONBody, a.Logger)

	r.Route("/api", func(r chi.Router) {
		// Logs each request, with the redacted body of failed JSON requests, and
		// recovers panics.
		r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		// Set before mounting so the chart router inherits them.
		r.NotFound(a.ErrorHandler.NotFound)
		r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		clientLog := handlers.NewClientLogHandler(customMiddleware.NewValidator(maxJSONBody, a.Logger), a.ErrorHandler, a.Logger)
		r.With(customMiddleware.ContentTypeValidator(a.ErrorHandler, "application/json")).Post("/log/client", clientLog.Handle)

		chartHandler := handlers.NewChartHandler(a.ChartService, validator, a.ErrorHandler, a.Config.Upload.MaxBytes, a.Logger)
		r.Mount("/", chartHandler.Routes())
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start begins serving in the background. A listen failure cancels ctx via
// cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	status := a.HealthService.ReadinessCheck(ctx)
	a.Logger.InfoContext(ctx, "Application started",
		slog.String("readiness", status.Status),
		slog.Any("services", status.Services))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run serves until SIGINT, SIGTERM or a server failure, then shuts down.
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	// ctx is already done; shutdown gets its own deadline.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
