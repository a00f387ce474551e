package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comprasys/cotacao-api/internal/auth"
	"github.com/comprasys/cotacao-api/internal/config"
	"github.com/comprasys/cotacao-api/internal/database"
	"github.com/comprasys/cotacao-api/internal/http/handler"
	"github.com/comprasys/cotacao-api/internal/http/middleware"
	"github.com/comprasys/cotacao-api/internal/pricehistory"

	_ "github.com/comprasys/cotacao-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                   *config.Config
	logger                *zap.Logger
	db                    *gorm.DB
	priceHistory          *pricehistory.Client
	authMiddleware        *auth.Middleware
	buyerFilterMiddleware *middleware.BuyerFilterMiddleware
	rateLimiter           *middleware.RateLimiter
	auditMiddleware       *middleware.AuditMiddleware
	authHandler           *handler.AuthHandler
	quotationHandler      *handler.QuotationHandler
	comparisonHandler     *handler.ComparisonHandler
	savingHandler         *handler.SavingHandler
	attachmentHandler     *handler.AttachmentHandler
	auditHandler          *handler.AuditHandler
	dashboardHandler      *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	priceHistory *pricehistory.Client,
	authMiddleware *auth.Middleware,
	buyerFilterMiddleware *middleware.BuyerFilterMiddleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	authHandler *handler.AuthHandler,
	quotationHandler *handler.QuotationHandler,
	comparisonHandler *handler.ComparisonHandler,
	savingHandler *handler.SavingHandler,
	attachmentHandler *handler.AttachmentHandler,
	auditHandler *handler.AuditHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                   cfg,
		logger:                logger,
		db:                    db,
		priceHistory:          priceHistory,
		authMiddleware:        authMiddleware,
		buyerFilterMiddleware: buyerFilterMiddleware,
		rateLimiter:           rateLimiter,
		auditMiddleware:       auditMiddleware,
		authHandler:           authHandler,
		quotationHandler:      quotationHandler,
		comparisonHandler:     comparisonHandler,
		savingHandler:         savingHandler,
		attachmentHandler:     attachmentHandler,
		auditHandler:          auditHandler,
		dashboardHandler:      dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// The price history mirror is optional; report but never fail on it
		if rt.priceHistory.IsEnabled() {
			status := rt.priceHistory.HealthCheck(r.Context())
			checks["price_history"] = status
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.buyerFilterMiddleware.Filter)
			r.Use(rt.auditMiddleware.Audit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Quotations
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.List)
				r.Post("/", rt.quotationHandler.Create)
				r.Get("/{id}", rt.quotationHandler.GetByID)
				r.Put("/{id}", rt.quotationHandler.Update)
				r.Delete("/{id}", rt.quotationHandler.Delete)

				// Buyer-side lifecycle
				r.Post("/{id}/submit", rt.quotationHandler.Submit)
				r.Post("/{id}/resubmit", rt.quotationHandler.Resubmit)

				// Approval-side lifecycle
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireApprover)
					r.Post("/{id}/forward", rt.quotationHandler.Forward)
					r.Post("/{id}/approve", rt.quotationHandler.Approve)
					r.Post("/{id}/reject", rt.quotationHandler.Reject)
					r.Post("/{id}/renegotiation", rt.quotationHandler.RequestRenegotiation)
				})

				// Sub-resources
				r.Get("/{id}/comparison", rt.comparisonHandler.Get)
				r.Get("/{id}/versions", rt.quotationHandler.ListVersions)
				r.Get("/{id}/events", rt.auditHandler.ListByQuotation)
				r.Get("/{id}/saving", rt.savingHandler.GetByQuotation)
				r.Get("/{id}/attachments", rt.attachmentHandler.ListByQuotation)
				r.Post("/{id}/attachments", rt.attachmentHandler.Upload)
			})

			// Attachments
			r.Route("/attachments", func(r chi.Router) {
				r.Get("/{id}/download", rt.attachmentHandler.Download)
				r.Delete("/{id}", rt.attachmentHandler.Delete)
			})

			// Savings
			r.Route("/savings", func(r chi.Router) {
				r.Get("/", rt.savingHandler.List)
				r.Get("/{id}", rt.savingHandler.GetByID)
			})

			// Audit trail (admin surface)
			r.With(rt.authMiddleware.RequireAdmin).
				Get("/audit/events", rt.auditHandler.List)

			// Dashboard
			r.Get("/dashboard/stats", rt.dashboardHandler.GetStats)
		})
	})

	return r
}
