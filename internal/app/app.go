package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"erpcalc/internal/config"
	apierrors "erpcalc/internal/errors"
	"erpcalc/internal/infrastructure"
	customMiddleware "erpcalc/internal/middleware"
	"erpcalc/internal/services"
	handlers "erpcalc/internal/transport/http"
	ws "erpcalc/internal/websocket"
	"erpcalc/pkg/contracts"
)

// maxEnvelopeBytes is the allowance for the JSON framing around the input text
const maxEnvelopeBytes = 64 << 10

// Application represents the main application container
type Application struct {
	Config        *config.Config
	ConfigPath    string
	Runtime       *config.Runtime
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.CalculationMetrics
	WebSocketHub  *ws.Hub
	RateLimiter   *customMiddleware.RateLimiter

	CalculationService *services.CalculationService
	HealthService      *services.HealthService

	closeLog func() error
}

// NewApplication loads the configuration from configPath (or the first
// config file found when empty) and wires every component.
func NewApplication(configPath string) (*Application, error) {
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	rt := config.NewRuntime(cfg)
	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging, rt.LevelVar())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("version", contracts.GetVersionString()),
		slog.String("config", configPath))

	a, err := newApplication(cfg, rt, logger)
	if err != nil {
		closeLog()
		return nil, err
	}
	a.ConfigPath = configPath
	a.closeLog = closeLog
	return a, nil
}

// New wires an application around an already loaded configuration and logger
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	return newApplication(cfg, config.NewRuntime(cfg), logger)
}

func newApplication(cfg *config.Config, rt *config.Runtime, logger *slog.Logger) (*Application, error) {
	otelProviders, err := infrastructure.InitializeOTel(cfg.Observability, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewCalculationMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Runtime:       rt,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		closeLog:      func() error { return nil },
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	rt.OnChange(a.applyRuntimeConfig)
	return a, nil
}

// initializeServices creates the hub and the services
func (a *Application) initializeServices() {
	a.WebSocketHub = ws.NewHub(a.Logger, a.Metrics)

	a.CalculationService = services.NewCalculationService(
		a.Runtime,
		a.WebSocketHub,
		a.OTelProviders.Tracer,
		a.Metrics,
		a.Config.Export.BOMPrefix,
		a.Logger,
	)
	a.HealthService = services.NewHealthService(a.WebSocketHub, a.Logger)

	limits := a.Runtime.RateLimit()
	a.RateLimiter = customMiddleware.NewRateLimiter(limits.RPS, limits.Burst, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	// websocket and metrics stay outside the group so nothing wraps the ResponseWriter
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StripSlashes)

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger, errorHandler)
	r.With(customMiddleware.WebSocketTrace(a.Logger)).Handle("/ws", wsHandler)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	validation := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler,
		int64(a.Config.Engine.MaxInputBytes)+maxEnvelopeBytes)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(errorHandler.RecoveryMiddleware)
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(a.RateLimiter.Handler)
		}

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Use(customMiddleware.Compress(5))
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
			r.Use(validation.ValidateRequest)

			healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
			r.Mount("/health", healthHandler.Routes())
			r.Get("/version", healthHandler.Version)

			calcHandler := handlers.NewCalculationHandler(a.CalculationService, validation.Validator(), a.Logger, errorHandler)
			r.Mount("/calculators", calcHandler.Routes())
		})
	})

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-Calculation-ID",
			"X-Request-ID",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
	a.Logger.Info("CORS configured", slog.Any("allowed_origins", cfg.AllowedOrigins))
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// applyRuntimeConfig runs after every config reload. The log level and the
// engine settings are picked up by Runtime itself.
func (a *Application) applyRuntimeConfig(cfg *config.Config) {
	limits := cfg.Security.RateLimit
	a.RateLimiter.SetLimits(limits.RPS, limits.Burst)

	a.Logger.Info("runtime settings applied",
		slog.String("log_level", cfg.Logging.Level),
		slog.Float64("rate_limit_rps", limits.RPS),
		slog.Int("rate_limit_burst", limits.Burst),
		slog.Int("default_window", cfg.Engine.DefaultWindow),
		slog.Int("max_input_lines", cfg.Engine.MaxInputLines))
}

// Run serves HTTP until ctx is cancelled or a component fails, then shuts
// everything down. The hub and the config watcher share the server's lifetime.
func (a *Application) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, listener)
}

// Serve is Run on an existing listener
func (a *Application) Serve(ctx context.Context, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.WebSocketHub.Run(gctx)
	})

	if a.ConfigPath != "" {
		g.Go(func() error {
			if err := config.Watch(gctx, a.ConfigPath, a.Logger, a.Runtime.Apply); err != nil {
				a.Logger.WarnContext(gctx, "config hot reload disabled",
					slog.String("path", a.ConfigPath),
					slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Application started",
			slog.String("address", listener.Addr().String()),
			slog.String("version", contracts.Version))

		if err := a.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Duration("duration", time.Since(start)))
	return a.closeLog()
}
