package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swiftcart/internal/config"
	"swiftcart/internal/database"
	"swiftcart/internal/handler"
	"swiftcart/internal/middleware"
	"swiftcart/internal/model"
	"swiftcart/internal/notifier"
	"swiftcart/internal/promo"
	"swiftcart/internal/repository"
	"swiftcart/internal/router"
	"swiftcart/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting swiftcart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Apply schema migrations
	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	messageRepo := repository.NewMessageRepository(pool, logger)
	jobRepo := repository.NewJobRepository(pool, logger)

	// Initialize promo validator
	validator, err := newPromoValidator(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize promo validator: %w", err)
	}
	defer validator.Close()

	// Retry policy for newly enqueued notification jobs
	model.DefaultJobMaxAttempts = cfg.Notifier.MaxAttempts
	model.DefaultJobBackoffMs = cfg.Notifier.BackoffMs

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, jobRepo, messageRepo, cfg.Checkout.CODCharge, logger)
	cartService := service.NewCartService(productRepo, validator, cfg.Checkout.TaxRatePercent, cfg.Checkout.CODCharge, cfg.Checkout.PromoDiscountPercent, logger)
	reportService := service.NewReportService(orderRepo, userRepo, jobRepo, logger)
	accountService := service.NewAccountService(userRepo, jobRepo, logger)

	// Initialize notification dispatcher
	var mailer notifier.Mailer
	if cfg.SMTP.Enabled {
		mailer = notifier.NewSMTPMailer(cfg.SMTP, logger)
	} else {
		mailer = notifier.NewLogMailer(logger)
		logger.Info().Msg("SMTP disabled, notifications will be written to the log")
	}

	dispatcher := notifier.NewDispatcher(jobRepo, mailer, cfg.Notifier, logger)
	dispatcherDone := make(chan error, 1)
	go func() {
		dispatcherDone <- dispatcher.Run(ctx)
	}()

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	adminHandler := handler.NewAdminHandler(productService, orderService, reportService, accountService, logger)
	accountHandler := handler.NewAccountHandler(accountService, logger)

	// Initialize router
	mux := router.New(router.Config{
		Products:  productHandler,
		Cart:      cartHandler,
		Orders:    orderHandler,
		Admin:     adminHandler,
		Accounts:  accountHandler,
		JWTSecret: cfg.Auth.JWTSecret,
		Limiter:   middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		Logger:    logger,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case err := <-dispatcherDone:
		return fmt.Errorf("notification dispatcher stopped: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// Stop the dispatcher and wait for in-flight deliveries
		cancel()
		select {
		case <-dispatcherDone:
		case <-shutdownCtx.Done():
			logger.Warn().Msg("timed out waiting for notification dispatcher to stop")
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newPromoValidator builds the promo validator from configuration: disabled
// outright, local files only, or S3 with a local fallback.
func newPromoValidator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (promo.Validator, error) {
	if !cfg.Promo.Enabled {
		logger.Info().Msg("promo codes disabled, all codes will be rejected")
		return promo.NewDisabledValidator(), nil
	}

	fileLoader := promo.NewFileLoader(logger)
	loader := fileLoader

	if cfg.Promo.S3Enabled {
		s3Loader, err := promo.NewS3Loader(ctx, cfg.Promo.S3Bucket, cfg.Promo.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = promo.NewFallbackLoader(s3Loader, fileLoader, cfg.Promo.S3Prefix, true, logger)
		}
	}

	return promo.NewValidator(ctx, &promo.ValidatorConfig{
		FilePaths:     cfg.Promo.FilePaths,
		MinMatchCount: cfg.Promo.MinMatchCount,
	}, loader, logger)
}
