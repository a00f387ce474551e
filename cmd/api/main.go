package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/docs"
	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/config"
	"github.com/comprasys/cotacao-api/internal/database"
	"github.com/comprasys/cotacao-api/internal/http/handler"
	"github.com/comprasys/cotacao-api/internal/http/middleware"
	"github.com/comprasys/cotacao-api/internal/http/router"
	"github.com/comprasys/cotacao-api/internal/jobs"
	"github.com/comprasys/cotacao-api/internal/logger"
	"github.com/comprasys/cotacao-api/internal/pricehistory"
	"github.com/comprasys/cotacao-api/internal/repository"
	"github.com/comprasys/cotacao-api/internal/service"
	"github.com/comprasys/cotacao-api/internal/storage"
)

// @title Comprasys Cotacao API
// @version 1.0
// @description Purchase quotation API for offer comparison, savings tracking, and the approval pipeline
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@comprasys.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "cotacao-staging.comprasys.io"
	case "production":
		docs.SwaggerInfo.Host = "api.comprasys.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize price history connection (optional - ERP mirror, read-only)
	// Credentials come only from Key Vault; the app continues without it
	var priceHistory *pricehistory.Client
	if cfg.PriceHistory.Enabled {
		priceHistory, err = pricehistory.NewClient(&cfg.PriceHistory, log)
		if err != nil {
			log.Warn("Price history connection failed, continuing without baselines",
				zap.Error(err),
			)
		} else if priceHistory != nil {
			log.Info("Price history connected",
				zap.Int("max_open_conns", cfg.PriceHistory.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.PriceHistory.QueryTimeout),
			)
		}
	} else {
		log.Info("Price history not configured, last approved price baselines disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	savingRepo := repository.NewSavingRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	buyerFilterMiddleware := middleware.NewBuyerFilterMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(nil, log)

	// Initialize services
	authService := service.NewAuthService(userRepo, authMiddleware.TokenManager(), log)
	quotationService := service.NewQuotationService(db, quotationRepo, versionRepo, eventRepo, priceHistory, log)
	comparisonService := service.NewComparisonService(quotationRepo, log)
	lifecycleService := service.NewQuotationLifecycleService(db, quotationRepo, versionRepo, savingRepo, eventRepo, comparisonService, quotationService, log)
	savingService := service.NewSavingService(savingRepo, log)
	auditService := service.NewAuditService(eventRepo, quotationRepo, log)
	attachmentService := service.NewAttachmentService(attachmentRepo, quotationRepo, fileStorage, log)
	dashboardService := service.NewDashboardService(quotationRepo, savingRepo, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, lifecycleService, log)
	comparisonHandler := handler.NewComparisonHandler(comparisonService, log)
	savingHandler := handler.NewSavingHandler(savingService, log)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, cfg.Storage.MaxUploadSizeMB, log)
	auditHandler := handler.NewAuditHandler(auditService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		priceHistory,
		authMiddleware,
		buyerFilterMiddleware,
		rateLimiter,
		auditMiddleware,
		authHandler,
		quotationHandler,
		comparisonHandler,
		savingHandler,
		attachmentHandler,
		auditHandler,
		dashboardHandler,
	)

	// Initialize and start scheduler for background jobs
	scheduler := jobs.NewScheduler(log)
	jobsRegistered := 0

	if priceHistory != nil && priceHistory.IsEnabled() {
		// runStartupSync=true warms the baseline cache immediately
		if err := jobs.RegisterPriceSyncJob(
			scheduler,
			priceHistory,
			log,
			cfg.PriceHistory.SyncSchedule,
			cfg.PriceHistory.QueryTimeoutDuration(),
			true,
		); err != nil {
			log.Error("Failed to register price sync job", zap.Error(err))
		} else {
			jobsRegistered++
			log.Info("Price sync job registered",
				zap.String("cron_expr", cfg.PriceHistory.SyncSchedule),
			)
		}
	}

	if cfg.Jobs.DeadlineEnabled {
		if err := jobs.RegisterDeadlineJob(
			scheduler,
			quotationRepo,
			eventRepo,
			log,
			cfg.Jobs.DeadlineSchedule,
			time.Minute,
		); err != nil {
			log.Error("Failed to register deadline job", zap.Error(err))
		} else {
			jobsRegistered++
			log.Info("Deadline job registered",
				zap.String("cron_expr", cfg.Jobs.DeadlineSchedule),
			)
		}
	}

	if jobsRegistered > 0 {
		scheduler.Start()
		log.Info("Scheduler started", zap.Int("jobs", jobsRegistered))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if jobsRegistered > 0 {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// Close price history connection if initialized
		if priceHistory != nil {
			if err := priceHistory.Close(); err != nil {
				log.Warn("Error closing price history connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
