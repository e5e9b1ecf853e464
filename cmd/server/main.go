package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/matheusrod92/address-validator/internal"
	"github.com/matheusrod92/address-validator/internal/address"
	"github.com/matheusrod92/address-validator/internal/handler/api"
	"github.com/matheusrod92/address-validator/internal/middleware"
	"github.com/matheusrod92/address-validator/internal/router"
	"github.com/matheusrod92/address-validator/internal/routes"
	"github.com/matheusrod92/address-validator/internal/service"
	"github.com/matheusrod92/address-validator/internal/telemetry"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	sentryCleanup, err := telemetry.InitSentry(cfg.Sentry, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Initialize validation metrics
	telemetry.InitValidationMetrics("address_validator")

	// Initialize provider adapters. Both are constructed once at startup and
	// injected into the orchestrator; missing credentials surface per-request
	// as a not-configured error rather than failing boot, so a single
	// configured provider is enough to serve traffic.
	logger.Info("Initializing address validation providers...")
	googleValidator := address.NewGoogleValidator(address.GoogleConfig{
		APIKey:  cfg.Google.APIKey,
		BaseURL: cfg.Google.BaseURL,
		Logger:  logger,
	})
	smartyValidator := address.NewSmartyValidator(address.SmartyConfig{
		AuthID:    cfg.Smarty.AuthID,
		AuthToken: cfg.Smarty.AuthToken,
		BaseURL:   cfg.Smarty.BaseURL,
		Logger:    logger,
	})
	logger.Info("Address validation providers initialized")

	// Initialize validation service
	validationService, err := service.NewAddressValidationService(googleValidator, smartyValidator, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize validation service: %w", err)
	}
	logger.Info("Validation service initialized")

	// Build route dependencies
	apiDeps := routes.APIDeps{
		ValidationHandler: api.NewValidationHandler(validationService, logger),
	}

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("address_validator")

	// Create router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
	)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterAPIRoutes(r, apiDeps)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
